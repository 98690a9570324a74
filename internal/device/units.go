package device

import (
	"fmt"
	"math"

	"lifxbridge/internal/lifx"
)

// MaxLevel is the top of the local brightness level range.
const MaxLevel = 254

// maxCoordinate is the top of the chromaticity coordinate range.
const maxCoordinate = 65535

// LevelToBrightness converts a 0-254 level to the API's 0.0-1.0 brightness.
func LevelToBrightness(level uint8) float64 {
	if level > MaxLevel {
		level = MaxLevel
	}
	return float64(level) / MaxLevel
}

// BrightnessToLevel converts a 0.0-1.0 brightness to the nearest 0-254 level.
func BrightnessToLevel(brightness float64) uint8 {
	if brightness < 0 {
		brightness = 0
	}
	if brightness > 1 {
		brightness = 1
	}
	return uint8(math.Round(brightness * MaxLevel))
}

// MiredsToKelvin converts a mired color temperature to Kelvin.
func MiredsToKelvin(mireds uint16) int {
	if mireds == 0 {
		return 0
	}
	return int(math.Round(1_000_000 / float64(mireds)))
}

// KelvinToMireds converts a Kelvin color temperature to mireds.
func KelvinToMireds(kelvin int) uint16 {
	if kelvin <= 0 {
		return 0
	}
	return uint16(math.Round(1_000_000 / float64(kelvin)))
}

// XYToColorString builds the API color string from chromaticity coordinates.
func XYToColorString(x, y uint16) string {
	return fmt.Sprintf("x:%v y:%v", float64(x)/maxCoordinate, float64(y)/maxCoordinate)
}

// PowerToBool converts the API power string to the local power boolean.
// The opposite direction goes through lifx.StateWithPower.
func PowerToBool(power string) bool {
	return power == lifx.PowerOn
}
