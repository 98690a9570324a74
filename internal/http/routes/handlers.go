package routes

import (
	"context"

	"lifxbridge/internal/http/handlers"
)

// Handlers groups the handler implementations needed to register all routes.
type Handlers struct {
	HealthCheck func(ctx context.Context, input *handlers.HealthInput) (*handlers.HealthOutput, error)
	Info        handlers.InfoHandlers
	Config      handlers.ConfigHandlers
	Light       handlers.LightHandlers
	Logs        handlers.LogsHandlers
}
