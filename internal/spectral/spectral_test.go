package spectral

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/riegerindustries/diskomator/internal/config"
)

func TestHannWindowEndpointsAreZero(t *testing.T) {
	// Invariant 7: w[0] = w[N-1] = 0.
	var w = HannWindow(256)
	assert.InDelta(t, 0, w[0], 1e-9)
	assert.InDelta(t, 0, w[255], 1e-9)
}

func TestHannWindowEnergyPreservation(t *testing.T) {
	// Invariant 7: sum_i w[i]^2 * 2/N ~= 1.
	var n = 512
	var w = HannWindow(n)

	var sumSq float64
	for _, v := range w {
		sumSq += v * v
	}

	assert.InDelta(t, 1.0, sumSq*2/float64(n), 0.05)
}

func TestProcessRejectsMalformedFrame(t *testing.T) {
	// S7: a frame whose sample count is not a multiple of 8 (here a single
	// sample) must be rejected without touching the returned state.
	var _, err = Process(make([]int32, 1), config.Bars2())
	require.Error(t, err)
}

func TestAggregateRejectsOutOfRangeChannel(t *testing.T) {
	var spectrum = make([]complex128, 256)
	var ch = config.ChannelConfig{StartIndex: 0, EndIndex: 300}
	var _, err = Aggregate(spectrum, ch)
	assert.Error(t, err)
}

func TestAggregateSumMaxAverage(t *testing.T) {
	var spectrum = make([]complex128, 256)
	for i := range spectrum {
		spectrum[i] = complex(1, 0)
	}

	var base = config.ChannelConfig{
		StartIndex: 0,
		EndIndex:   9,
		Premult:    1,
		NoiseGate:  0,
		Exponent:   2,
	}

	var sumCh = base
	sumCh.Aggregate = config.AggregateSum
	var sumV, err = Aggregate(spectrum, sumCh)
	require.NoError(t, err)

	var maxCh = base
	maxCh.Aggregate = config.AggregateMax
	var maxV, err2 = Aggregate(spectrum, maxCh)
	require.NoError(t, err2)

	var avgCh = base
	avgCh.Aggregate = config.AggregateAverage
	var avgV, err3 = Aggregate(spectrum, avgCh)
	require.NoError(t, err3)

	// All ten bins are identical, so sum should exceed max (clamped to 1
	// once enough identical bins accumulate) and average should equal the
	// per-bin value.
	assert.GreaterOrEqual(t, sumV, maxV)
	assert.InDelta(t, maxV, avgV, 1e-9)
}

func TestProcessIntensitiesClampedToUnitRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var n = rapid.IntRange(8, 512).Draw(t, "n")
		n -= n % 8

		if n == 0 {
			n = 8
		}

		var samples = make([]int32, n)
		for i := range samples {
			samples[i] = int32(rapid.Int32Range(-1<<23, 1<<23-1).Draw(t, "sample")) //nolint:gosec
		}

		var out, err = Process(samples, config.Bars2())
		require.NoError(t, err)

		for _, v := range out {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
		}
	})
}
