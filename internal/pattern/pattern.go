// Package pattern renders channel intensities into the 256-pixel RGB
// framebuffer, honoring the physical serpentine wiring of the matrix.
package pattern

import (
	"fmt"
	"math"

	"github.com/riegerindustries/diskomator/internal/config"
)

// MatrixSize is the matrix's side length; the framebuffer holds
// MatrixSize*MatrixSize pixels.
const MatrixSize = 16

// RGB8 is one framebuffer pixel, each channel 0-255.
type RGB8 struct {
	R, G, B uint8
}

// Framebuffer is the full 256-pixel output of the renderer, indexed by
// physical (serpentine) LED position.
type Framebuffer [MatrixSize * MatrixSize]RGB8

// XY maps logical column/row (x, y), both 0..16, to the physical linear
// LED index: even columns run top-to-bottom, odd columns run
// bottom-to-top (boustrophedon wiring).
func XY(x, y int) int {
	if x%2 == 0 {
		return x*MatrixSize + y
	}

	return x*MatrixSize + (MatrixSize - 1 - y)
}

// scaleColor truncates rather than rounds, matching the firmware's `as u8`
// cast from a 0.0-255.0 float.
func scaleColor(intensity float64, color [3]float32) RGB8 {
	var scale = func(c float32) uint8 {
		var v = intensity * float64(c) * 255
		if v < 0 {
			v = 0
		}

		if v > 255 {
			v = 255
		}

		return uint8(v)
	}

	return RGB8{R: scale(color[0]), G: scale(color[1]), B: scale(color[2])}
}

// Render writes fb in place from the pattern variant in cfg and the
// per-channel intensities computed by the spectral engine. Every pixel is
// written exactly once (invariant 3): no quadrant or bar is skipped.
func Render(fb *Framebuffer, cfg config.AppConfig, intensities []float64) error {
	switch cfg.Pattern.Kind {
	case config.PatternStripes:
		return renderQuadrants(fb, cfg.Pattern.Stripes[:], intensities)
	case config.PatternQuarters:
		return renderQuadrants(fb, cfg.Pattern.Quarters[:], intensities)
	case config.PatternBars:
		return renderBars(fb, cfg.Pattern.Bars[:], intensities)
	default:
		return fmt.Errorf("pattern: unknown kind %d", cfg.Pattern.Kind)
	}
}

// quadrantOrigins lists the top-left (x, y) of each of the four logical
// 8x8 quadrants, in channel order: top-left, top-right, bottom-left,
// bottom-right.
var quadrantOrigins = [4][2]int{{0, 0}, {8, 0}, {0, 8}, {8, 8}}

func renderQuadrants(fb *Framebuffer, channels []config.ChannelConfig, intensities []float64) error {
	if len(channels) != 4 || len(intensities) != 4 {
		return fmt.Errorf("pattern: quadrant render needs 4 channels, got %d/%d", len(channels), len(intensities))
	}

	for i, origin := range quadrantOrigins {
		var pixel = scaleColor(intensities[i], channels[i].Color)

		for dy := 0; dy < 8; dy++ {
			for dx := 0; dx < 8; dx++ {
				fb[XY(origin[0]+dx, origin[1]+dy)] = pixel
			}
		}
	}

	return nil
}

func renderBars(fb *Framebuffer, channels []config.ChannelConfig, intensities []float64) error {
	if len(channels) != 8 || len(intensities) != 8 {
		return fmt.Errorf("pattern: bar render needs 8 channels, got %d/%d", len(channels), len(intensities))
	}

	for i := range channels {
		var lit = int(math.Round(intensities[i] * MatrixSize))
		var onPixel = scaleColor(intensities[i], channels[i].Color)

		for col := 0; col < 2; col++ {
			var x = i*2 + col

			for y := 0; y < MatrixSize; y++ {
				// Bars grow bottom-up: row 0 is the top, row 15 the
				// bottom, so the bottom `lit` rows are rows 15 down to
				// 16-lit.
				if y >= MatrixSize-lit {
					fb[XY(x, y)] = onPixel
				} else {
					fb[XY(x, y)] = RGB8{}
				}
			}
		}
	}

	return nil
}
