package device

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelBrightnessRoundTrip(t *testing.T) {
	// Converting a level to brightness and back must stay within 1 of the
	// original for the whole range.
	for level := 0; level <= MaxLevel; level++ {
		b := LevelToBrightness(uint8(level))
		back := BrightnessToLevel(b)
		assert.InDelta(t, level, int(back), 1, "level %d", level)
	}
}

func TestLevelToBrightnessScenario(t *testing.T) {
	// 127/254 is exactly one half.
	assert.Equal(t, 0.5, LevelToBrightness(127))
}

func TestBrightnessToLevelClamps(t *testing.T) {
	assert.Equal(t, uint8(0), BrightnessToLevel(-0.5))
	assert.Equal(t, uint8(MaxLevel), BrightnessToLevel(1.5))
}

func TestMiredsKelvinRoundTrip(t *testing.T) {
	// Round trip within rounding tolerance across the usable range.
	for mireds := 111; mireds <= 400; mireds++ {
		k := MiredsToKelvin(uint16(mireds))
		back := KelvinToMireds(k)
		diff := math.Abs(float64(mireds) - float64(back))
		assert.LessOrEqual(t, diff, 1.0, "mireds %d -> %dK -> %d", mireds, k, back)
	}
}

func TestMiredsToKelvinKnownValues(t *testing.T) {
	assert.Equal(t, 2703, MiredsToKelvin(370))
	assert.Equal(t, 6536, MiredsToKelvin(153))
	assert.Equal(t, 0, MiredsToKelvin(0))
}

func TestKelvinToMiredsZeroAndNegative(t *testing.T) {
	assert.Equal(t, uint16(0), KelvinToMireds(0))
	assert.Equal(t, uint16(0), KelvinToMireds(-100))
}

func TestXYToColorString(t *testing.T) {
	assert.Equal(t, "x:0 y:0", XYToColorString(0, 0))
	assert.Equal(t, "x:1 y:1", XYToColorString(65535, 65535))

	// Midpoint coordinates land just under one half.
	s := XYToColorString(32767, 32767)
	expected := fmt.Sprintf("x:%v y:%v", float64(32767)/65535, float64(32767)/65535)
	assert.Equal(t, expected, s)
	assert.Contains(t, s, "x:0.49999")
	assert.Contains(t, s, "y:0.49999")
}

func TestPowerConversion(t *testing.T) {
	assert.True(t, PowerToBool("on"))
	assert.False(t, PowerToBool("off"))
	assert.False(t, PowerToBool(""))
}
