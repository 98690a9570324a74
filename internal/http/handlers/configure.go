package handlers

import (
	"context"
	"log/slog"

	"github.com/danielgtaylor/huma/v2"

	"lifxbridge/internal/config"
	"lifxbridge/internal/events"
)

// --- Update API Key ---

// UpdateAPIKeyInput is the input for storing the LIFX API credential.
type UpdateAPIKeyInput struct {
	Body struct {
		APIKey string `json:"apiKey,omitempty" doc:"LIFX cloud API token"`
	}
}

// UpdateAPIKeyOutput is the output after storing the credential.
type UpdateAPIKeyOutput struct {
	Body StatusResponse
}

// --- Select Light ---

// SetHomekitLightInput is the input for selecting the bridged remote light.
type SetHomekitLightInput struct {
	Body struct {
		LightID string `json:"lightId,omitempty" doc:"Remote light identifier to bridge"`
	}
}

// SetHomekitLightOutput is the output after selecting the light.
type SetHomekitLightOutput struct {
	Body StatusResponse
}

// ConfigHandler implements configuration mutation handlers.
type ConfigHandler struct {
	Config *config.Config
	Lights LightsClient
	Bus    *events.Bus
	Logger *slog.Logger
}

// UpdateAPIKey stores and persists the LIFX API credential.
func (h *ConfigHandler) UpdateAPIKey(_ context.Context, input *UpdateAPIKeyInput) (*UpdateAPIKeyOutput, error) {
	if input.Body.APIKey == "" {
		return nil, huma.Error400BadRequest("apiKey is required")
	}
	if err := h.Config.SetLIFXAPIKey(input.Body.APIKey); err != nil {
		return nil, huma.Error500InternalServerError("failed to save configuration", err)
	}
	h.Lights.SetToken(input.Body.APIKey)
	h.Logger.Info("LIFX API key updated")
	h.publishConfigUpdated()
	return &UpdateAPIKeyOutput{Body: StatusResponse{Status: "ok"}}, nil
}

// SetHomekitLight stores and persists the selected remote light.
func (h *ConfigHandler) SetHomekitLight(_ context.Context, input *SetHomekitLightInput) (*SetHomekitLightOutput, error) {
	if input.Body.LightID == "" {
		return nil, huma.Error400BadRequest("lightId is required")
	}
	if err := h.Config.SetHomekitLightID(input.Body.LightID); err != nil {
		return nil, huma.Error500InternalServerError("failed to save configuration", err)
	}
	h.Logger.Info("bridged light selected", "light_id", input.Body.LightID)
	h.publishConfigUpdated()
	return &SetHomekitLightOutput{Body: StatusResponse{Status: "ok"}}, nil
}

func (h *ConfigHandler) publishConfigUpdated() {
	if h.Bus == nil {
		return
	}
	rec := h.Config.Snapshot()
	h.Bus.Publish(events.NewEvent(events.ConfigUpdated, map[string]any{
		"apiKeySet":      rec.LIFXAPIKey != "",
		"homekitLightId": rec.HomekitLightID,
	}))
}

// Ensure ConfigHandler implements the interface at compile time.
var _ ConfigHandlers = (*ConfigHandler)(nil)

// ConfigHandlers defines the interface for configuration mutation operations.
type ConfigHandlers interface {
	UpdateAPIKey(ctx context.Context, input *UpdateAPIKeyInput) (*UpdateAPIKeyOutput, error)
	SetHomekitLight(ctx context.Context, input *SetHomekitLightInput) (*SetHomekitLightOutput, error)
}
