// Package routes provides shared route registration for the lifxbridge admin API.
package routes

import (
	"github.com/danielgtaylor/huma/v2"
)

// NewHumaConfig creates the shared Huma configuration for the API.
func NewHumaConfig(version, baseURL string) huma.Config {
	cfg := huma.DefaultConfig("lifxbridge API", version)
	cfg.Info.Description = "Admin API for the LIFX bridge: pairing info, credential management, and direct light control."

	// Disable $schema field in responses
	cfg.CreateHooks = nil

	if baseURL != "" {
		cfg.Servers = []*huma.Server{
			{URL: baseURL, Description: "API Server"},
		}
	}

	cfg.Tags = []*huma.Tag{
		{Name: "Info", Description: "Bridge status and pairing information"},
		{Name: "Config", Description: "Credential and light selection"},
		{Name: "Lights", Description: "Remote light state and control"},
		{Name: "Logs", Description: "Buffered daemon logs"},
	}

	return cfg
}
