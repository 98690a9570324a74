// Package bridge implements the synchronization engine: the single authority
// deciding, for every state change on either side, whether and how to
// propagate it to the other side without echoing forever.
package bridge

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"lifxbridge/internal/config"
	"lifxbridge/internal/device"
	"lifxbridge/internal/events"
	"lifxbridge/internal/lifx"
)

// DefaultPollInterval is the remote polling cadence.
const DefaultPollInterval = 10 * time.Second

// RemoteClient is the slice of the LIFX client the engine drives.
type RemoteClient interface {
	GetLight(ctx context.Context, selector string) (*lifx.Light, error)
	SetState(ctx context.Context, selector string, state lifx.State) error
	Breathe(ctx context.Context, selector string) error
}

// Engine keeps the local endpoint and the remote light consistent.
//
// The anti-echo rule is a single direction flag owned by the engine: it is
// set immediately before remote-polled state is written to the endpoint and
// cleared on every exit path. While it is set, local change notifications are
// treated as echoes of that write and are not propagated outbound.
type Engine struct {
	logger   *slog.Logger
	cfg      *config.Config
	remote   RemoteClient
	endpoint device.Endpoint
	bus      *events.Bus

	pollInterval time.Duration

	// applyingRemote is the direction flag. inboundMu serializes inbound
	// applications so an overlapping poll tick can't clear the flag while an
	// earlier application is still mid-flight.
	applyingRemote atomic.Bool
	inboundMu      sync.Mutex

	// polling collapses overlapping poll ticks: a tick that finds the
	// previous fetch still in flight skips rather than queueing.
	polling atomic.Bool
}

// NewEngine wires the engine to the endpoint's change and identify signals.
func NewEngine(logger *slog.Logger, cfg *config.Config, remote RemoteClient, endpoint device.Endpoint, bus *events.Bus, pollInterval time.Duration) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	e := &Engine{
		logger:       logger,
		cfg:          cfg,
		remote:       remote,
		endpoint:     endpoint,
		bus:          bus,
		pollInterval: pollInterval,
	}
	if endpoint != nil {
		endpoint.OnChange(e.HandleLocalChange)
		endpoint.OnIdentify(e.Identify)
	}
	return e
}

// HandleLocalChange propagates one local attribute change to the remote
// light. The guard check happens before any other work; a change that arrives
// while remote state is being applied locally is an echo and is dropped.
func (e *Engine) HandleLocalChange(c device.Change) {
	if e.applyingRemote.Load() {
		e.logger.Debug("suppressing echo of remote-applied state", "change", c.String())
		return
	}

	rec := e.cfg.Snapshot()
	if rec.LIFXAPIKey == "" || rec.HomekitLightID == "" {
		e.logger.Warn("local change not propagated, bridge not configured", "change", c.String())
		return
	}

	state, ok := e.translateOutbound(c)
	if !ok {
		return
	}

	// Fire and forget: the endpoint already holds the authoritative local
	// value, so the call result never mutates local state. Each write is an
	// independent unit of work; a hung call stalls only itself.
	go func() {
		if err := e.remote.SetState(context.Background(), rec.HomekitLightID, state); err != nil {
			e.logger.Error("failed to propagate local change", "change", c.String(), "error", err)
		}
	}()
}

// translateOutbound maps one local attribute change to a partial remote state.
func (e *Engine) translateOutbound(c device.Change) (lifx.State, bool) {
	switch c.Attr {
	case device.AttrOnOff:
		on, ok := c.Value.(bool)
		if !ok {
			e.logger.Warn("unexpected value type for on/off change", "value", c.Value)
			return lifx.State{}, false
		}
		return lifx.StateWithPower(on), true

	case device.AttrLevel:
		level, ok := c.Value.(uint8)
		if !ok {
			e.logger.Warn("unexpected value type for level change", "value", c.Value)
			return lifx.State{}, false
		}
		return lifx.StateWithBrightness(device.LevelToBrightness(level)), true

	case device.AttrColorTempMireds:
		mireds, ok := c.Value.(uint16)
		if !ok || mireds == 0 {
			e.logger.Warn("unexpected value for color temperature change", "value", c.Value)
			return lifx.State{}, false
		}
		return lifx.StateWithColor(fmt.Sprintf("kelvin:%d", device.MiredsToKelvin(mireds))), true

	case device.AttrCurrentX:
		x, ok := c.Value.(uint16)
		if !ok {
			e.logger.Warn("unexpected value type for chromaticity change", "value", c.Value)
			return lifx.State{}, false
		}
		// The notification carries the new value only; the counterpart
		// coordinate is read at notification time.
		return lifx.StateWithColor(device.XYToColorString(x, e.endpoint.CurrentY())), true

	case device.AttrCurrentY:
		y, ok := c.Value.(uint16)
		if !ok {
			e.logger.Warn("unexpected value type for chromaticity change", "value", c.Value)
			return lifx.State{}, false
		}
		return lifx.StateWithColor(device.XYToColorString(e.endpoint.CurrentX(), y)), true

	default:
		// Color mode is a selector, not a remotely writable field.
		return lifx.State{}, false
	}
}

// ApplyRemoteState writes a polled remote state to the local endpoint with
// the direction flag held. The flag is cleared on every exit path, including
// a panicking setter.
func (e *Engine) ApplyRemoteState(state *lifx.Light) {
	if e.endpoint == nil || state == nil {
		// Normal when unpaired or offline.
		return
	}

	e.inboundMu.Lock()
	defer e.inboundMu.Unlock()

	e.applyingRemote.Store(true)
	defer e.applyingRemote.Store(false)

	if err := e.endpoint.SetOnOff(device.PowerToBool(state.Power)); err != nil {
		e.logger.Error("failed to apply remote power state", "error", err)
	}
	if err := e.endpoint.SetLevel(device.BrightnessToLevel(state.Brightness)); err != nil {
		e.logger.Error("failed to apply remote brightness", "error", err)
	}
	if state.Color.Kelvin != nil {
		if err := e.endpoint.SetColorTempMireds(device.KelvinToMireds(*state.Color.Kelvin)); err != nil {
			e.logger.Error("failed to apply remote color temperature", "error", err)
		}
	}

	if e.bus != nil {
		e.bus.Publish(events.NewEvent(events.RemoteStateApplied, state))
	}
}

// Run polls the remote light on a fixed interval until ctx is cancelled.
// Each tick runs in its own goroutine so a slow or failed fetch never blocks
// the next tick; a tick arriving while the previous one is still in flight is
// skipped, keeping at most one inbound application in flight.
func (e *Engine) Run(ctx context.Context) {
	ticker := time.NewTicker(e.pollInterval)
	defer ticker.Stop()

	e.logger.Info("starting remote poll loop", "interval", e.pollInterval)
	for {
		select {
		case <-ctx.Done():
			e.logger.Info("remote poll loop stopped")
			return
		case <-ticker.C:
			go e.pollOnce(ctx)
		}
	}
}

// pollOnce fetches the selected light's state and applies it locally.
func (e *Engine) pollOnce(ctx context.Context) {
	if !e.polling.CompareAndSwap(false, true) {
		e.logger.Debug("previous poll still in flight, skipping tick")
		return
	}
	defer e.polling.Store(false)

	rec := e.cfg.Snapshot()
	if rec.LIFXAPIKey == "" || rec.HomekitLightID == "" || e.endpoint == nil {
		return
	}

	state, err := e.remote.GetLight(ctx, rec.HomekitLightID)
	if err != nil {
		// Transport failures are logged by the client; a vanished selection is
		// not-found. Either way the next tick is the retry.
		return
	}
	e.ApplyRemoteState(state)
}

// Identify maps the local identify signal to the remote breathe effect. No
// guard is needed: the signal does not correspond to persisted local state.
func (e *Engine) Identify() {
	rec := e.cfg.Snapshot()
	if rec.LIFXAPIKey == "" || rec.HomekitLightID == "" {
		e.logger.Warn("identify ignored, bridge not configured")
		return
	}
	go func() {
		if err := e.remote.Breathe(context.Background(), rec.HomekitLightID); err != nil {
			e.logger.Error("failed to trigger identify effect", "error", err)
		}
	}()
}
