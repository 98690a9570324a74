package handlers

import (
	"context"
	"log/slog"

	"lifxbridge/internal/config"
	"lifxbridge/internal/device"
)

// --- Bridge Info ---

// InfoInput is the input for the bridge info endpoint.
type InfoInput struct{}

// InfoOutput is the output for the bridge info endpoint.
type InfoOutput struct {
	Body struct {
		Pincode        int             `json:"pincode" doc:"Commissioning passcode"`
		Discriminator  int             `json:"discriminator" doc:"Commissioning discriminator"`
		VendorID       int             `json:"vendorId" doc:"Vendor identifier"`
		ProductID      int             `json:"productId" doc:"Product identifier"`
		UniqueID       string          `json:"uniqueId" doc:"Unique instance identifier"`
		QRPayload      string          `json:"qrPayload" doc:"Pairing QR code payload"`
		APIKeySet      bool            `json:"apiKeySet" doc:"Whether a LIFX API credential is configured"`
		HomekitLightID string          `json:"homekitLightId" doc:"Selected remote light identifier"`
		LightIDValid   bool            `json:"lightIdValid" doc:"Whether the selected light exists in the account"`
		Lights         []LightResponse `json:"lights" doc:"Remote lights visible to the account"`
	}
}

// InfoHandler implements the bridge info endpoint.
type InfoHandler struct {
	Config *config.Config
	Lights LightsClient
	Logger *slog.Logger
}

// Info returns the current configuration summary, the pairing QR payload,
// and the remote light list with the selection's validity.
func (h *InfoHandler) Info(ctx context.Context, _ *InfoInput) (*InfoOutput, error) {
	rec := h.Config.Snapshot()

	out := &InfoOutput{}
	out.Body.Pincode = rec.Pincode
	out.Body.Discriminator = rec.Discriminator
	out.Body.VendorID = rec.VendorID
	out.Body.ProductID = rec.ProductID
	out.Body.UniqueID = rec.UniqueID
	out.Body.QRPayload = device.OnboardingPayload(rec.VendorID, rec.ProductID, rec.Discriminator, rec.Pincode)
	out.Body.APIKeySet = rec.LIFXAPIKey != ""
	out.Body.HomekitLightID = rec.HomekitLightID
	out.Body.Lights = []LightResponse{}

	if rec.LIFXAPIKey == "" {
		return out, nil
	}

	lights, err := h.Lights.ListLights(ctx)
	if err != nil {
		// A transport failure degrades the summary, it doesn't fail it.
		h.Logger.Warn("could not list remote lights for info", "error", err)
		return out, nil
	}
	for _, l := range lights {
		out.Body.Lights = append(out.Body.Lights, LightFromLIFX(l))
		if l.ID == rec.HomekitLightID {
			out.Body.LightIDValid = true
		}
	}
	return out, nil
}

// Ensure InfoHandler implements the interface at compile time.
var _ InfoHandlers = (*InfoHandler)(nil)

// InfoHandlers defines the interface for bridge info operations.
type InfoHandlers interface {
	Info(ctx context.Context, input *InfoInput) (*InfoOutput, error)
}
