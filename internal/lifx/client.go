// Package lifx is a thin client for the LIFX cloud HTTP API. Each method maps
// one intent to one HTTP call; there is no retry logic. A failed call is
// logged and reported to the caller, who drops it — the next poll tick or
// user action is the natural retry.
package lifx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"lifxbridge/internal/errors"
)

// DefaultBaseURL is the production LIFX cloud API endpoint.
const DefaultBaseURL = "https://api.lifx.com/v1"

// Client handles HTTP communication with the LIFX cloud API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a client authenticating with the given bearer token.
func NewClient(token string, logger *slog.Logger, httpClient ...*http.Client) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	var hc *http.Client
	if len(httpClient) > 0 && httpClient[0] != nil {
		hc = httpClient[0]
	} else {
		hc = &http.Client{Timeout: 5 * time.Second}
	}
	return &Client{
		baseURL:    DefaultBaseURL,
		token:      token,
		httpClient: hc,
		logger:     logger,
	}
}

// SetBaseURL overrides the API endpoint. Used by tests.
func (c *Client) SetBaseURL(url string) {
	c.baseURL = url
}

// SetToken replaces the bearer token, e.g. after the credential is updated
// through the admin API.
func (c *Client) SetToken(token string) {
	c.token = token
}

// ListLights returns all lights visible to the account.
func (c *Client) ListLights(ctx context.Context) ([]Light, error) {
	return c.getLights(ctx, "all")
}

// GetLight returns the light matching selector. A selector matching nothing
// is a not-found error, normal when the selected light left the account.
func (c *Client) GetLight(ctx context.Context, selector string) (*Light, error) {
	lights, err := c.getLights(ctx, selector)
	if err != nil {
		return nil, err
	}
	if len(lights) == 0 {
		return nil, errors.NotFoundf("no light matches selector %q", selector)
	}
	return &lights[0], nil
}

func (c *Client) getLights(ctx context.Context, selector string) ([]Light, error) {
	if c.token == "" {
		return nil, errors.NotConfiguredf("no API token set")
	}
	if selector == "" {
		return nil, errors.InvalidInputf("selector is required")
	}
	url := fmt.Sprintf("%s/lights/%s", c.baseURL, selector)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.LogErrorAndReturn(c.logger,
			errors.DeviceUnavailablef("failed to list lights: %w", err),
			"lifx: GET /lights request failed", "url", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.LogErrorAndReturn(c.logger,
			fmt.Errorf("unexpected status code: %d", resp.StatusCode),
			"lifx: GET /lights request failed", "url", url)
	}

	var lights []Light
	if err := json.NewDecoder(resp.Body).Decode(&lights); err != nil {
		return nil, errors.LogErrorAndReturn(c.logger,
			fmt.Errorf("failed to decode response: %w", err),
			"lifx: GET /lights decode failed", "url", url)
	}

	c.logger.Debug("lifx: GET /lights response", "selector", selector, "count", len(lights))
	return lights, nil
}

// SetState writes a partial state to the lights matching selector.
func (c *Client) SetState(ctx context.Context, selector string, state State) error {
	if c.token == "" {
		return errors.NotConfiguredf("no API token set")
	}
	if selector == "" {
		return errors.InvalidInputf("selector is required")
	}
	body, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/lights/%s/state", c.baseURL, selector)
	c.logger.Debug("lifx: setting state", "url", url, "body", string(body))

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.LogErrorAndReturn(c.logger,
			errors.DeviceUnavailablef("failed to set state: %w", err),
			"lifx: PUT /state request failed", "url", url)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	// The API returns 207 with per-light results; anything in the 2xx range
	// counts as accepted.
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.LogErrorAndReturn(c.logger,
			fmt.Errorf("unexpected status code: %d", resp.StatusCode),
			"lifx: PUT /state request failed", "url", url)
	}
	return nil
}

// Breathe triggers the one-shot breathe effect used as the identify signal.
func (c *Client) Breathe(ctx context.Context, selector string) error {
	return c.Effect(ctx, selector, "breathe", map[string]any{
		"color":  "green",
		"period": 1,
		"cycles": 3,
	})
}

// Effect triggers a transient visual effect on the lights matching selector.
func (c *Client) Effect(ctx context.Context, selector, effect string, params map[string]any) error {
	if c.token == "" {
		return errors.NotConfiguredf("no API token set")
	}
	if selector == "" {
		return errors.InvalidInputf("selector is required")
	}
	if effect == "" {
		return errors.InvalidInputf("effect name is required")
	}
	body, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/lights/%s/effects/%s", c.baseURL, selector, effect)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.LogErrorAndReturn(c.logger,
			errors.DeviceUnavailablef("failed to trigger effect: %w", err),
			"lifx: POST /effects request failed", "url", url)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.LogErrorAndReturn(c.logger,
			fmt.Errorf("unexpected status code: %d", resp.StatusCode),
			"lifx: POST /effects request failed", "url", url)
	}
	return nil
}
