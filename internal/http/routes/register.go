package routes

import (
	"github.com/danielgtaylor/huma/v2"

	"lifxbridge/internal/http/mw"
)

// Register registers all admin API routes with the given Huma API instance.
// The paths are fixed: the browser UI depends on them.
func Register(api huma.API, h *Handlers) {
	// --- Health ---
	mw.HiddenGet(api, "/healthz", h.HealthCheck)

	// --- Info ---
	mw.Get(api, "/api/info", h.Info.Info,
		mw.WithTags("Info"),
		mw.WithSummary("Bridge info"),
		mw.WithDescription("Returns the configuration summary, the pairing QR payload, and the remote light list with the selection's validity."),
		mw.WithOperationID("getInfo"))

	// --- Logs ---
	mw.Get(api, "/api/logs", h.Logs.Logs,
		mw.WithTags("Logs"),
		mw.WithSummary("Buffered log lines"),
		mw.WithOperationID("getLogs"))

	// --- Config ---
	mw.Post(api, "/api/update-api-key", h.Config.UpdateAPIKey,
		mw.WithTags("Config"),
		mw.WithSummary("Store the LIFX API credential"),
		mw.WithOperationID("updateApiKey"))

	mw.Post(api, "/api/set-homekit-light", h.Config.SetHomekitLight,
		mw.WithTags("Config"),
		mw.WithSummary("Select the bridged remote light"),
		mw.WithOperationID("setHomekitLight"))

	// --- Lights ---
	mw.Get(api, "/api/lights", h.Light.SelectedLight,
		mw.WithTags("Lights"),
		mw.WithSummary("Selected light state"),
		mw.WithDescription("Returns the selected remote light's current state, or an empty list when unconfigured."),
		mw.WithOperationID("getSelectedLight"))

	mw.Post(api, "/api/control", h.Light.Control,
		mw.WithTags("Lights"),
		mw.WithSummary("Control the remote light"),
		mw.WithDescription("Runs a set_state or effect command against the remote API."),
		mw.WithOperationID("control"))
}
