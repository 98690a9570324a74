// Package device is the local side of the bridge: the attribute surface of
// the commissioned light endpoint as exposed by the protocol controller, the
// unit conversions between local attribute units and the LIFX API's units,
// and the onboarding payload for pairing.
package device

import "fmt"

// Attribute identifies one local attribute of the light endpoint.
type Attribute string

const (
	// AttrOnOff is the boolean power state.
	AttrOnOff Attribute = "onoff"

	// AttrLevel is the brightness level, 0-254.
	AttrLevel Attribute = "level"

	// AttrColorTempMireds is the color temperature in mireds.
	AttrColorTempMireds Attribute = "color_temperature_mireds"

	// AttrCurrentX is the X chromaticity coordinate, 0-65535.
	AttrCurrentX Attribute = "current_x"

	// AttrCurrentY is the Y chromaticity coordinate, 0-65535.
	AttrCurrentY Attribute = "current_y"

	// AttrColorMode selects which color representation is authoritative.
	AttrColorMode Attribute = "color_mode"
)

// ColorMode values mirror the protocol's color-mode selector.
type ColorMode uint8

const (
	ColorModeHueSat      ColorMode = 0
	ColorModeXY          ColorMode = 1
	ColorModeTemperature ColorMode = 2
)

// Change is one attribute-change notification. It carries the new value only;
// subscribers needing a counterpart value (e.g. the other chromaticity
// coordinate) read current state at notification time.
type Change struct {
	Attr  Attribute `json:"attribute"`
	Value any       `json:"value"`
}

func (c Change) String() string {
	return fmt.Sprintf("%s=%v", c.Attr, c.Value)
}

// ChangeFunc is a callback invoked for each attribute change. Callbacks run
// synchronously on the caller's goroutine and must not block.
type ChangeFunc func(Change)

// IdentifyFunc is a callback invoked when the controller raises the identify
// signal. The signal carries no data and no persisted state.
type IdentifyFunc func()

// Endpoint is the narrow surface of the protocol controller's light endpoint
// that the bridge reads, writes, and subscribes to. Setters are idempotent:
// writing the current value again produces no change notification.
type Endpoint interface {
	OnOff() bool
	SetOnOff(on bool) error

	Level() uint8
	SetLevel(level uint8) error

	ColorTempMireds() uint16
	SetColorTempMireds(mireds uint16) error

	CurrentX() uint16
	CurrentY() uint16
	SetCurrentX(x uint16) error
	SetCurrentY(y uint16) error

	ColorMode() ColorMode

	// OnChange registers a change subscriber and returns an unsubscribe function.
	OnChange(fn ChangeFunc) func()

	// OnIdentify registers an identify subscriber and returns an unsubscribe function.
	OnIdentify(fn IdentifyFunc) func()
}
