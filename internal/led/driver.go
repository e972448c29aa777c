package led

import (
	"context"

	"github.com/riegerindustries/diskomator/internal/pattern"
	"github.com/riegerindustries/diskomator/internal/signal"
)

// Driver transmits encoded framebuffers to the physical LED chain.
// Exactly one write is ever in flight: Run blocks for the duration of each
// transmit, matching the hardware's one-in-flight DMA-SPI write_async
// contract.
type Driver interface {
	Write(ctx context.Context, encoded []byte) error
}

// Run waits on fbSignal for newly published framebuffers and writes each
// one to drv, dropping any that arrive while a write is in flight (the
// signal itself only ever holds the latest).
func Run(ctx context.Context, drv Driver, fbSignal *signal.Signal[*pattern.Framebuffer], logErr func(error)) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		var fb = fbSignal.Wait()
		var encoded = EncodeSequence(fb)

		if err := drv.Write(ctx, encoded); err != nil && logErr != nil {
			logErr(err)
		}
	}
}
