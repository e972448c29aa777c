package led

import (
	"context"

	"github.com/charmbracelet/log"
)

// LoggingDriver stands in for the DMA-SPI chain on a dev box with no WS2812
// hardware attached: it logs frame size and a checksum so a developer can
// confirm the renderer is producing output, at the same Debug level the
// teacher's subsystems use for per-frame chatter.
type LoggingDriver struct {
	logger *log.Logger
}

// NewLoggingDriver returns a Driver that logs instead of transmitting.
func NewLoggingDriver(logger *log.Logger) *LoggingDriver {
	return &LoggingDriver{logger: logger}
}

func (d *LoggingDriver) Write(_ context.Context, encoded []byte) error {
	var checksum byte
	for _, b := range encoded {
		checksum ^= b
	}

	d.logger.Debug("led frame", "bytes", len(encoded), "xor_checksum", checksum)

	return nil
}
