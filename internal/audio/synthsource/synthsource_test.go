package synthsource

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riegerindustries/diskomator/internal/audio"
)

func TestNextReturnsFullStereoBlock(t *testing.T) {
	var src = New(20, 20000, 5)

	var block, err = src.Next(context.Background())
	require.NoError(t, err)
	assert.Len(t, block, audio.BlockSamples*2)
}

func TestNextDuplicatesMonoToStereo(t *testing.T) {
	var src = New(440, 440, 1)

	var block, err = src.Next(context.Background())
	require.NoError(t, err)

	for i := 0; i < audio.BlockSamples; i++ {
		assert.Equal(t, block[2*i], block[2*i+1], "left/right must match for a mono-synthesized tone")
	}
}

func TestNextStaysWithin24BitRange(t *testing.T) {
	var src = New(20, 20000, 5)

	for block := 0; block < 50; block++ {
		var samples, err = src.Next(context.Background())
		require.NoError(t, err)

		for _, s := range samples {
			assert.LessOrEqual(t, s, int32(1<<23))
			assert.GreaterOrEqual(t, s, int32(-(1<<23)))
		}
	}
}

func TestNextAdvancesAcrossCalls(t *testing.T) {
	var src = New(100, 100, 1)

	var first, err = src.Next(context.Background())
	require.NoError(t, err)

	var second, err2 = src.Next(context.Background())
	require.NoError(t, err2)

	assert.NotEqual(t, first, second, "successive blocks of a continuing sweep should differ")
}
