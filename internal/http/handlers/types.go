package handlers

import (
	"context"

	"lifxbridge/internal/lifx"
)

// LightsClient is the slice of the LIFX client the admin API drives.
type LightsClient interface {
	ListLights(ctx context.Context) ([]lifx.Light, error)
	GetLight(ctx context.Context, selector string) (*lifx.Light, error)
	SetState(ctx context.Context, selector string, state lifx.State) error
	Effect(ctx context.Context, selector, effect string, params map[string]any) error
	SetToken(token string)
}

// StatusResponse is a generic status result.
type StatusResponse struct {
	Status string `json:"status" doc:"Operation status"`
}

// LightResponse is the API representation of one remote light.
type LightResponse struct {
	ID         string   `json:"id" doc:"Light identifier"`
	Label      string   `json:"label" doc:"Light label"`
	Connected  bool     `json:"connected" doc:"Whether the light is reachable by the cloud"`
	Power      string   `json:"power" doc:"Power state (on/off)"`
	Brightness float64  `json:"brightness" doc:"Brightness, 0.0-1.0"`
	Kelvin     *int     `json:"kelvin,omitempty" doc:"Color temperature in Kelvin, when in temperature mode"`
	Hue        *float64 `json:"hue,omitempty" doc:"Hue, when in color mode"`
	Saturation *float64 `json:"saturation,omitempty" doc:"Saturation, when in color mode"`
}

// LightFromLIFX converts a client light to its API representation.
func LightFromLIFX(l lifx.Light) LightResponse {
	return LightResponse{
		ID:         l.ID,
		Label:      l.Label,
		Connected:  l.Connected,
		Power:      l.Power,
		Brightness: l.Brightness,
		Kelvin:     l.Color.Kelvin,
		Hue:        l.Color.Hue,
		Saturation: l.Color.Saturation,
	}
}
