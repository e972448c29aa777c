package led

import (
	"context"
	"math"
	"time"

	"github.com/riegerindustries/diskomator/internal/pattern"
)

// DemoDuration is how long the startup animation runs before the device
// starts listening for rendered frames.
const DemoDuration = 5 * time.Second

const demoFrameInterval = 33 * time.Millisecond

// PlayStartupDemo renders a rotating three-sine-wave animation directly to
// drv for DemoDuration, then returns. It does not touch the framebuffer
// signal — this runs before the renderer has produced anything.
func PlayStartupDemo(ctx context.Context, drv Driver) error {
	var start = time.Now()
	var ticker = time.NewTicker(demoFrameInterval)
	defer ticker.Stop()

	for time.Since(start) < DemoDuration {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			var fb = demoFrame(now.Sub(start).Seconds())

			if err := drv.Write(ctx, EncodeSequence(&fb)); err != nil {
				return err
			}
		}
	}

	return nil
}

func demoFrame(t float64) pattern.Framebuffer {
	var fb pattern.Framebuffer

	var redPhase = t * 2 * math.Pi * 0.5
	var greenPhase = t*2*math.Pi*0.5 + 2*math.Pi/3
	var bluePhase = t*2*math.Pi*0.5 + 4*math.Pi/3

	var red = sineToByte(math.Sin(redPhase))
	var green = sineToByte(math.Sin(greenPhase))
	var blue = sineToByte(math.Sin(bluePhase))

	for i := range fb {
		fb[i] = pattern.RGB8{R: red, G: green, B: blue}
	}

	return fb
}

func sineToByte(v float64) uint8 {
	var scaled = v * 255

	if scaled < 0 {
		scaled = -scaled
	}

	return uint8(scaled)
}
