package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/riegerindustries/diskomator/internal/config"
)

func white() config.ChannelConfig {
	return config.ChannelConfig{Color: [3]float32{1, 1, 1}}
}

// S1: stripes render, four channels with intensities {1.0, 0.5, 0.25, 0.0}.
func TestRenderStripesS1(t *testing.T) {
	var cfg config.AppConfig
	cfg.Pattern.Kind = config.PatternStripes
	for i := range cfg.Pattern.Stripes {
		cfg.Pattern.Stripes[i] = white()
	}

	var fb Framebuffer
	require.NoError(t, Render(&fb, cfg, []float64{1.0, 0.5, 0.25, 0.0}))

	assertQuadrant(t, &fb, 0, 0, RGB8{255, 255, 255})
	assertQuadrant(t, &fb, 8, 0, RGB8{127, 127, 127})
	assertQuadrant(t, &fb, 0, 8, RGB8{63, 63, 63})
	assertQuadrant(t, &fb, 8, 8, RGB8{0, 0, 0})
}

func assertQuadrant(t *testing.T, fb *Framebuffer, ox, oy int, want RGB8) {
	t.Helper()

	for dy := 0; dy < 8; dy++ {
		for dx := 0; dx < 8; dx++ {
			assert.Equal(t, want, fb[XY(ox+dx, oy+dy)])
		}
	}
}

// S2: bar height for intensity 0.375 must light the bottom 6 rows.
func TestRenderBarsS2(t *testing.T) {
	var cfg config.AppConfig
	cfg.Pattern.Kind = config.PatternBars

	for i := range cfg.Pattern.Bars {
		cfg.Pattern.Bars[i] = config.ChannelConfig{}
	}

	cfg.Pattern.Bars[0].Color = [3]float32{1, 0, 0}

	var intensities = make([]float64, 8)
	intensities[0] = 0.375

	var fb Framebuffer
	require.NoError(t, Render(&fb, cfg, intensities))

	for col := 0; col < 2; col++ {
		for y := 0; y < MatrixSize; y++ {
			var lit = y >= MatrixSize-6
			var got = fb[XY(col, y)]

			if lit {
				assert.NotEqual(t, RGB8{}, got, "row %d col %d should be lit", y, col)
			} else {
				assert.Equal(t, RGB8{}, got, "row %d col %d should be dark", y, col)
			}
		}
	}
}

// S3: serpentine index checks from spec.md §8.
func TestSerpentineS3(t *testing.T) {
	assert.Equal(t, 0, XY(0, 0))
	assert.Equal(t, 15, XY(0, 15))
	assert.Equal(t, 31, XY(1, 0))
	assert.Equal(t, 16, XY(1, 15))
	assert.Equal(t, 255, XY(15, 0))
}

// Invariant 4: XY is a bijection onto 0..256.
func TestSerpentineIsBijection(t *testing.T) {
	var seen = make(map[int]bool)

	for x := 0; x < MatrixSize; x++ {
		for y := 0; y < MatrixSize; y++ {
			var idx = XY(x, y)
			require.False(t, seen[idx], "index %d produced twice", idx)
			require.GreaterOrEqual(t, idx, 0)
			require.Less(t, idx, MatrixSize*MatrixSize)

			seen[idx] = true
		}
	}

	assert.Len(t, seen, MatrixSize*MatrixSize)
}

// Invariant 3: every pixel written exactly once, regardless of starting
// framebuffer contents.
func TestRenderTotality(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var kind = config.PatternKind(rapid.IntRange(0, 2).Draw(t, "kind"))

		var cfg config.AppConfig
		cfg.Pattern.Kind = kind

		var n int

		switch kind {
		case config.PatternStripes, config.PatternQuarters:
			n = 4
		case config.PatternBars:
			n = 8
		}

		var intensities = make([]float64, n)
		for i := range intensities {
			intensities[i] = rapid.Float64Range(0, 1).Draw(t, "intensity")
		}

		var fb Framebuffer
		// Poison the framebuffer so a missed pixel is detectable.
		for i := range fb {
			fb[i] = RGB8{R: 1, G: 2, B: 3}
		}

		require.NoError(t, Render(&fb, cfg, intensities))

		for i, p := range fb {
			require.NotEqual(t, RGB8{R: 1, G: 2, B: 3}, p, "pixel %d left unwritten", i)
		}
	})
}
