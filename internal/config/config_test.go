package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChannelConfigValidateBounds(t *testing.T) {
	// Invariant 2: start_index <= end_index < 256.
	assert.NoError(t, ChannelConfig{StartIndex: 0, EndIndex: 255, Color: [3]float32{0, 0, 0}}.Validate())
	assert.Error(t, ChannelConfig{StartIndex: 5, EndIndex: 4, Color: [3]float32{0, 0, 0}}.Validate())
	assert.Error(t, ChannelConfig{StartIndex: 0, EndIndex: 256, Color: [3]float32{0, 0, 0}}.Validate())
}

func TestChannelConfigValidateColorRange(t *testing.T) {
	var ch = ChannelConfig{StartIndex: 0, EndIndex: 10, Color: [3]float32{1.5, 0, 0}}
	assert.Error(t, ch.Validate())
}

func TestReshapeForPatternGrowsWithDefaults(t *testing.T) {
	var base = Stripes() // 4 channels
	var grown = ReshapeForPattern(base, PatternBars)

	var a = assert.New(t)
	a.Equal(PatternBars, grown.Pattern.Kind)

	for i := 0; i < 4; i++ {
		a.Equal(base.Pattern.Stripes[i], grown.Pattern.Bars[i])
	}

	for i := 4; i < 8; i++ {
		a.Equal(DefaultChannel(), grown.Pattern.Bars[i])
	}
}

func TestReshapeForPatternShrinksByTruncating(t *testing.T) {
	var base = Bars2() // 8 channels
	var shrunk = ReshapeForPattern(base, PatternQuarters)

	assert.Equal(t, PatternQuarters, shrunk.Pattern.Kind)

	for i := 0; i < 4; i++ {
		assert.Equal(t, base.Pattern.Bars[i], shrunk.Pattern.Quarters[i])
	}
}

func TestDefaultPresetIsBars2(t *testing.T) {
	assert.Equal(t, Bars2(), Default())
}
