package lifx

// Power values as used by the HTTP API.
const (
	PowerOn  = "on"
	PowerOff = "off"
)

// Color is the color description returned for a light. Kelvin is set when the
// light is in temperature mode; Hue/Saturation when it is in color mode.
type Color struct {
	Hue        *float64 `json:"hue,omitempty"`
	Saturation *float64 `json:"saturation,omitempty"`
	Kelvin     *int     `json:"kelvin,omitempty"`
}

// Light is one light as returned by the list/read endpoints.
type Light struct {
	ID         string  `json:"id"`
	Label      string  `json:"label"`
	Connected  bool    `json:"connected"`
	Power      string  `json:"power"`
	Brightness float64 `json:"brightness"`
	Color      Color   `json:"color"`
}

// State is a partial state update for the set-state endpoint. Nil fields are
// omitted so only the changed attribute is written.
type State struct {
	Power      *string  `json:"power,omitempty"`
	Brightness *float64 `json:"brightness,omitempty"`
	Color      *string  `json:"color,omitempty"`
}

// StateWithPower returns a State setting only power.
func StateWithPower(on bool) State {
	p := PowerOff
	if on {
		p = PowerOn
	}
	return State{Power: &p}
}

// StateWithBrightness returns a State setting only brightness.
func StateWithBrightness(b float64) State {
	return State{Brightness: &b}
}

// StateWithColor returns a State setting only the color string.
func StateWithColor(c string) State {
	return State{Color: &c}
}
