package device

import (
	"sync"

	"lifxbridge/internal/events"
)

// MemoryEndpoint is an in-process Endpoint implementation holding the
// attribute store the protocol controller drives. Setters notify subscribers
// only on an actual value transition, which keeps them idempotent.
type MemoryEndpoint struct {
	mu sync.RWMutex

	onOff     bool
	level     uint8
	mireds    uint16
	currentX  uint16
	currentY  uint16
	colorMode ColorMode

	changeSubs   map[int]ChangeFunc
	identifySubs map[int]IdentifyFunc
	nextSubID    int

	bus *events.Bus
}

// NewMemoryEndpoint creates an endpoint with protocol-typical initial values.
func NewMemoryEndpoint() *MemoryEndpoint {
	return &MemoryEndpoint{
		level:        MaxLevel,
		mireds:       370, // ~2700K warm white
		colorMode:    ColorModeTemperature,
		changeSubs:   make(map[int]ChangeFunc),
		identifySubs: make(map[int]IdentifyFunc),
	}
}

// SetEventBus attaches a bus so attribute changes are also broadcast as
// events for the admin UI stream.
func (e *MemoryEndpoint) SetEventBus(bus *events.Bus) {
	e.mu.Lock()
	e.bus = bus
	e.mu.Unlock()
}

// OnOff returns the power state.
func (e *MemoryEndpoint) OnOff() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.onOff
}

// SetOnOff sets the power state.
func (e *MemoryEndpoint) SetOnOff(on bool) error {
	e.mu.Lock()
	if e.onOff == on {
		e.mu.Unlock()
		return nil
	}
	e.onOff = on
	e.mu.Unlock()
	e.notify(Change{Attr: AttrOnOff, Value: on})
	return nil
}

// Level returns the brightness level.
func (e *MemoryEndpoint) Level() uint8 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.level
}

// SetLevel sets the brightness level.
func (e *MemoryEndpoint) SetLevel(level uint8) error {
	e.mu.Lock()
	if e.level == level {
		e.mu.Unlock()
		return nil
	}
	e.level = level
	e.mu.Unlock()
	e.notify(Change{Attr: AttrLevel, Value: level})
	return nil
}

// ColorTempMireds returns the color temperature.
func (e *MemoryEndpoint) ColorTempMireds() uint16 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.mireds
}

// SetColorTempMireds sets the color temperature and marks it authoritative.
func (e *MemoryEndpoint) SetColorTempMireds(mireds uint16) error {
	e.mu.Lock()
	if e.mireds == mireds {
		e.mu.Unlock()
		return nil
	}
	e.mireds = mireds
	e.colorMode = ColorModeTemperature
	e.mu.Unlock()
	e.notify(Change{Attr: AttrColorTempMireds, Value: mireds})
	return nil
}

// CurrentX returns the X chromaticity coordinate.
func (e *MemoryEndpoint) CurrentX() uint16 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.currentX
}

// CurrentY returns the Y chromaticity coordinate.
func (e *MemoryEndpoint) CurrentY() uint16 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.currentY
}

// SetCurrentX sets the X chromaticity coordinate and marks XY authoritative.
func (e *MemoryEndpoint) SetCurrentX(x uint16) error {
	e.mu.Lock()
	if e.currentX == x {
		e.mu.Unlock()
		return nil
	}
	e.currentX = x
	e.colorMode = ColorModeXY
	e.mu.Unlock()
	e.notify(Change{Attr: AttrCurrentX, Value: x})
	return nil
}

// SetCurrentY sets the Y chromaticity coordinate and marks XY authoritative.
func (e *MemoryEndpoint) SetCurrentY(y uint16) error {
	e.mu.Lock()
	if e.currentY == y {
		e.mu.Unlock()
		return nil
	}
	e.currentY = y
	e.colorMode = ColorModeXY
	e.mu.Unlock()
	e.notify(Change{Attr: AttrCurrentY, Value: y})
	return nil
}

// ColorMode returns which color representation is authoritative.
func (e *MemoryEndpoint) ColorMode() ColorMode {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.colorMode
}

// OnChange registers a change subscriber and returns an unsubscribe function.
func (e *MemoryEndpoint) OnChange(fn ChangeFunc) func() {
	e.mu.Lock()
	id := e.nextSubID
	e.nextSubID++
	e.changeSubs[id] = fn
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		delete(e.changeSubs, id)
		e.mu.Unlock()
	}
}

// OnIdentify registers an identify subscriber and returns an unsubscribe function.
func (e *MemoryEndpoint) OnIdentify(fn IdentifyFunc) func() {
	e.mu.Lock()
	id := e.nextSubID
	e.nextSubID++
	e.identifySubs[id] = fn
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		delete(e.identifySubs, id)
		e.mu.Unlock()
	}
}

// Identify raises the identify signal from the protocol controller.
func (e *MemoryEndpoint) Identify() {
	e.mu.RLock()
	subs := make([]IdentifyFunc, 0, len(e.identifySubs))
	for _, fn := range e.identifySubs {
		subs = append(subs, fn)
	}
	bus := e.bus
	e.mu.RUnlock()

	for _, fn := range subs {
		fn()
	}
	if bus != nil {
		bus.Publish(events.NewEvent(events.DeviceIdentify, nil))
	}
}

func (e *MemoryEndpoint) notify(c Change) {
	e.mu.RLock()
	subs := make([]ChangeFunc, 0, len(e.changeSubs))
	for _, fn := range e.changeSubs {
		subs = append(subs, fn)
	}
	bus := e.bus
	e.mu.RUnlock()

	for _, fn := range subs {
		fn(c)
	}
	if bus != nil {
		bus.Publish(events.NewEvent(events.AttributeChanged, c))
	}
}

// Ensure MemoryEndpoint implements the interface at compile time.
var _ Endpoint = (*MemoryEndpoint)(nil)
