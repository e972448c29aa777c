// Package reset implements the OTA engine's "software reset" step: on real
// hardware this is a CPU reset vector; on a hosted dev box it pulses an
// external reset GPIO line (if configured) and then re-execs the process.
package reset

import (
	"context"
	"os"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/warthog618/go-gpiocdev"

	"github.com/riegerindustries/diskomator/internal/ota"
)

// MinDelay is the minimum delay after the ATT Commit response before a
// reset may be issued, so the central receives the acknowledgment first.
const MinDelay = 100 * time.Millisecond

// GPIOResetter pulses a reset line via a Linux gpiochip before re-exec'ing
// the current process, standing in for a true MCU reset vector.
type GPIOResetter struct {
	logger   *log.Logger
	chip     string
	line     int
	reexecArgs []string
}

var _ ota.Resetter = (*GPIOResetter)(nil)

// NewGPIOResetter returns a Resetter that pulses line `line` on gpiochip
// `chip` (e.g. "gpiochip0", 17) before re-executing the process with
// reexecArgs (typically os.Args).
func NewGPIOResetter(logger *log.Logger, chip string, line int, reexecArgs []string) *GPIOResetter {
	return &GPIOResetter{logger: logger, chip: chip, line: line, reexecArgs: reexecArgs}
}

// Reset returns at once, so the caller can still send the ATT Commit
// response; in the background it then waits MinDelay, pulses the configured
// GPIO line if one is set, logs any failure (a failed GPIO pulse is
// recoverable, per spec.md §7 — the watchdog is the real backstop), and
// re-execs the process in place.
func (r *GPIOResetter) Reset(ctx context.Context) {
	go r.resetAfterDelay(ctx)
}

func (r *GPIOResetter) resetAfterDelay(ctx context.Context) {
	select {
	case <-time.After(MinDelay):
	case <-ctx.Done():
	}

	if r.chip != "" {
		if err := r.pulse(); err != nil {
			r.logger.Warn("reset: gpio pulse failed, relying on watchdog", "err", err)
		}
	}

	r.logger.Info("reset: re-executing firmware process")

	var exe, err = os.Executable()
	if err != nil {
		r.logger.Error("reset: cannot resolve executable path", "err", err)

		return
	}

	if err := syscall.Exec(exe, r.reexecArgs, os.Environ()); err != nil { //nolint:gosec
		r.logger.Error("reset: exec failed", "err", err)
	}
}

func (r *GPIOResetter) pulse() error {
	var line, err = gpiocdev.RequestLine(r.chip, r.line, gpiocdev.AsOutput(1))
	if err != nil {
		return err
	}
	defer line.Close()

	time.Sleep(5 * time.Millisecond)

	return line.SetValue(0)
}

// NoopResetter logs that a reset was requested without taking any action,
// used by tests and the pure-simulation hosted mode.
type NoopResetter struct {
	logger   *log.Logger
	Requests int
}

var _ ota.Resetter = (*NoopResetter)(nil)

func NewNoopResetter(logger *log.Logger) *NoopResetter {
	return &NoopResetter{logger: logger}
}

func (r *NoopResetter) Reset(_ context.Context) {
	r.Requests++
	r.logger.Info("reset: software reset requested (no-op resetter)")
}
