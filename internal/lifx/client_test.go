package lifx

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bridgeerrors "lifxbridge/internal/errors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient("test-token", testLogger(), srv.Client())
	c.SetBaseURL(srv.URL)
	return c
}

func TestListLights(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/lights/all", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[
			{"id":"d073d5000001","label":"Desk","connected":true,"power":"on","brightness":0.75,"color":{"kelvin":3500}},
			{"id":"d073d5000002","label":"Shelf","connected":false,"power":"off","brightness":1,"color":{"hue":120,"saturation":1}}
		]`)
	})

	lights, err := c.ListLights(context.Background())
	require.NoError(t, err)
	require.Len(t, lights, 2)

	assert.Equal(t, "d073d5000001", lights[0].ID)
	assert.Equal(t, "Desk", lights[0].Label)
	assert.True(t, lights[0].Connected)
	assert.Equal(t, PowerOn, lights[0].Power)
	assert.Equal(t, 0.75, lights[0].Brightness)
	require.NotNil(t, lights[0].Color.Kelvin)
	assert.Equal(t, 3500, *lights[0].Color.Kelvin)
	assert.Nil(t, lights[0].Color.Hue)

	require.NotNil(t, lights[1].Color.Hue)
	assert.Equal(t, 120.0, *lights[1].Color.Hue)
	assert.Nil(t, lights[1].Color.Kelvin)
}

func TestGetLight(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/lights/d073d5000001", r.URL.Path)
		io.WriteString(w, `[{"id":"d073d5000001","label":"Desk","connected":true,"power":"on","brightness":0.5,"color":{}}]`)
	})

	light, err := c.GetLight(context.Background(), "d073d5000001")
	require.NoError(t, err)
	require.NotNil(t, light)
	assert.Equal(t, "d073d5000001", light.ID)
	assert.Equal(t, 0.5, light.Brightness)
}

func TestGetLightNoMatch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[]`)
	})

	light, err := c.GetLight(context.Background(), "d073d5unknown")
	assert.True(t, bridgeerrors.IsNotFound(err))
	assert.Nil(t, light)
}

func TestEmptySelectorOrEffectRejected(t *testing.T) {
	var hits int
	c := newTestClient(t, func(http.ResponseWriter, *http.Request) {
		hits++
	})

	_, getErr := c.GetLight(context.Background(), "")
	setErr := c.SetState(context.Background(), "", StateWithPower(true))
	effectErr := c.Effect(context.Background(), "d073d5000001", "", nil)

	assert.ErrorIs(t, getErr, bridgeerrors.ErrInvalidInput)
	assert.ErrorIs(t, setErr, bridgeerrors.ErrInvalidInput)
	assert.ErrorIs(t, effectErr, bridgeerrors.ErrInvalidInput)
	assert.Zero(t, hits)
}

func TestGetLightsErrorStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := c.ListLights(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestRequestsWithoutTokenNeverHitNetwork(t *testing.T) {
	var hits int
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
	})
	c.SetToken("")

	_, listErr := c.ListLights(context.Background())
	setErr := c.SetState(context.Background(), "all", StateWithPower(true))
	effectErr := c.Breathe(context.Background(), "all")

	assert.True(t, bridgeerrors.IsNotConfigured(listErr))
	assert.True(t, bridgeerrors.IsNotConfigured(setErr))
	assert.True(t, bridgeerrors.IsNotConfigured(effectErr))
	assert.Zero(t, hits)
}

func TestSetState(t *testing.T) {
	var gotBody map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/lights/d073d5000001/state", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusMultiStatus)
		io.WriteString(w, `{"results":[{"id":"d073d5000001","status":"ok"}]}`)
	})

	err := c.SetState(context.Background(), "d073d5000001", StateWithBrightness(0.5))
	require.NoError(t, err)
	// Partial update: only the changed field goes on the wire.
	assert.Equal(t, map[string]any{"brightness": 0.5}, gotBody)
}

func TestSetStateErrorStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	err := c.SetState(context.Background(), "d073d5gone", StateWithPower(false))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestBreathe(t *testing.T) {
	var gotBody map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/lights/d073d5000001/effects/breathe", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, c.Breathe(context.Background(), "d073d5000001"))
	assert.Equal(t, "green", gotBody["color"])
	assert.Equal(t, 1.0, gotBody["period"])
	assert.Equal(t, 3.0, gotBody["cycles"])
}

func TestTransportFailureIsDeviceUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	c := NewClient("test-token", testLogger(), srv.Client())
	c.SetBaseURL(srv.URL)
	srv.Close()

	_, err := c.ListLights(context.Background())
	assert.True(t, bridgeerrors.IsDeviceUnavailable(err))

	err = c.SetState(context.Background(), "all", StateWithPower(true))
	assert.True(t, bridgeerrors.IsDeviceUnavailable(err))
}

func TestStateMarshalOmitsUnsetFields(t *testing.T) {
	b, err := json.Marshal(StateWithColor("kelvin:2703"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"color":"kelvin:2703"}`, string(b))
}
