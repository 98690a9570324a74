package handlers

import (
	"context"
	"log/slog"

	"github.com/danielgtaylor/huma/v2"

	"lifxbridge/internal/config"
	"lifxbridge/internal/lifx"
)

// Control commands accepted by the control endpoint.
const (
	CommandSetState = "set_state"
	CommandEffect   = "effect"
)

// --- Selected Light ---

// SelectedLightInput is the input for reading the bridged light's state.
type SelectedLightInput struct{}

// SelectedLightOutput is the output for reading the bridged light's state.
// Lights is empty when the bridge is unconfigured or the light is unknown.
type SelectedLightOutput struct {
	Body struct {
		Lights []LightResponse `json:"lights" doc:"The selected light's current state, empty when unconfigured"`
	}
}

// --- Control ---

// ControlInput is the input for direct light control from the admin UI.
type ControlInput struct {
	Body struct {
		Command  string      `json:"command,omitempty" doc:"Command to run: set_state or effect"`
		Selector string      `json:"selector,omitempty" doc:"Light selector, defaults to the selected light"`
		State    *lifx.State `json:"state,omitempty" doc:"Partial state for set_state"`
		Effect   string      `json:"effect,omitempty" doc:"Effect name for effect"`
	}
}

// ControlOutput is the output for the control endpoint.
type ControlOutput struct {
	Body StatusResponse
}

// LightHandler implements remote light HTTP handlers.
type LightHandler struct {
	Config *config.Config
	Lights LightsClient
	Logger *slog.Logger
}

// SelectedLight returns the selected remote light's current state. When no
// credential or no light is configured the result is empty, not an error.
func (h *LightHandler) SelectedLight(ctx context.Context, _ *SelectedLightInput) (*SelectedLightOutput, error) {
	out := &SelectedLightOutput{}
	out.Body.Lights = []LightResponse{}

	rec := h.Config.Snapshot()
	if rec.LIFXAPIKey == "" || rec.HomekitLightID == "" {
		return out, nil
	}

	light, err := h.Lights.GetLight(ctx, rec.HomekitLightID)
	if err != nil || light == nil {
		return out, nil
	}
	out.Body.Lights = append(out.Body.Lights, LightFromLIFX(*light))
	return out, nil
}

// Control runs one set_state or effect command against the remote API.
func (h *LightHandler) Control(ctx context.Context, input *ControlInput) (*ControlOutput, error) {
	selector := input.Body.Selector
	if selector == "" {
		selector = h.Config.Snapshot().HomekitLightID
	}
	if selector == "" {
		return nil, huma.Error400BadRequest("selector is required")
	}

	switch input.Body.Command {
	case CommandSetState:
		if input.Body.State == nil {
			return nil, huma.Error400BadRequest("state is required for set_state")
		}
		if err := h.Lights.SetState(ctx, selector, *input.Body.State); err != nil {
			return nil, huma.Error500InternalServerError("failed to set state", err)
		}

	case CommandEffect:
		if input.Body.Effect == "" {
			return nil, huma.Error400BadRequest("effect is required for effect")
		}
		if err := h.Lights.Effect(ctx, selector, input.Body.Effect, map[string]any{}); err != nil {
			return nil, huma.Error500InternalServerError("failed to trigger effect", err)
		}

	default:
		return nil, huma.Error400BadRequest("command must be set_state or effect")
	}

	h.Logger.Info("control command executed", "command", input.Body.Command, "selector", selector)
	return &ControlOutput{Body: StatusResponse{Status: "ok"}}, nil
}

// Ensure LightHandler implements the interface at compile time.
var _ LightHandlers = (*LightHandler)(nil)

// LightHandlers defines the interface for remote light operations.
type LightHandlers interface {
	SelectedLight(ctx context.Context, input *SelectedLightInput) (*SelectedLightOutput, error)
	Control(ctx context.Context, input *ControlInput) (*ControlOutput, error)
}
