package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"lifxbridge/internal/http/handlers"
)

type stubInfo struct{}

func (stubInfo) Info(context.Context, *handlers.InfoInput) (*handlers.InfoOutput, error) {
	out := &handlers.InfoOutput{}
	out.Body.Lights = []handlers.LightResponse{}
	return out, nil
}

type stubConfig struct{}

func (stubConfig) UpdateAPIKey(context.Context, *handlers.UpdateAPIKeyInput) (*handlers.UpdateAPIKeyOutput, error) {
	return &handlers.UpdateAPIKeyOutput{Body: handlers.StatusResponse{Status: "ok"}}, nil
}

func (stubConfig) SetHomekitLight(context.Context, *handlers.SetHomekitLightInput) (*handlers.SetHomekitLightOutput, error) {
	return &handlers.SetHomekitLightOutput{Body: handlers.StatusResponse{Status: "ok"}}, nil
}

type stubLight struct{}

func (stubLight) SelectedLight(context.Context, *handlers.SelectedLightInput) (*handlers.SelectedLightOutput, error) {
	out := &handlers.SelectedLightOutput{}
	out.Body.Lights = []handlers.LightResponse{}
	return out, nil
}

func (stubLight) Control(context.Context, *handlers.ControlInput) (*handlers.ControlOutput, error) {
	return &handlers.ControlOutput{Body: handlers.StatusResponse{Status: "ok"}}, nil
}

type stubLogs struct{}

func (stubLogs) Logs(context.Context, *handlers.LogsInput) (*handlers.LogsOutput, error) {
	return &handlers.LogsOutput{}, nil
}

func newTestRouter() http.Handler {
	router := chi.NewRouter()
	api := humachi.New(router, NewHumaConfig("test", ""))
	Register(api, &Handlers{
		HealthCheck: handlers.HealthCheck,
		Info:        stubInfo{},
		Config:      stubConfig{},
		Light:       stubLight{},
		Logs:        stubLogs{},
	})
	return router
}

// The browser UI depends on these exact paths, so registration is pinned at
// the HTTP level rather than through the handlers alone.
func TestRegisteredPaths(t *testing.T) {
	router := newTestRouter()

	cases := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/healthz", ""},
		{http.MethodGet, "/api/info", ""},
		{http.MethodGet, "/api/logs", ""},
		{http.MethodPost, "/api/update-api-key", `{"apiKey":"k"}`},
		{http.MethodPost, "/api/set-homekit-light", `{"lightId":"l"}`},
		{http.MethodGet, "/api/lights", ""},
		{http.MethodPost, "/api/control", `{"command":"set_state"}`},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
		if tc.body != "" {
			req.Header.Set("Content-Type", "application/json")
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestUnknownPathIs404(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/unknown", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
