package led

import (
	"context"
	"sync"
)

// FakeDriver records every write it receives, for tests.
type FakeDriver struct {
	mu     sync.Mutex
	frames [][]byte
	onErr  error
}

// NewFakeDriver returns a driver that always succeeds and records frames.
func NewFakeDriver() *FakeDriver {
	return &FakeDriver{} //nolint:exhaustruct
}

func (d *FakeDriver) Write(_ context.Context, encoded []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.onErr != nil {
		return d.onErr
	}

	var cp = make([]byte, len(encoded))
	copy(cp, encoded)
	d.frames = append(d.frames, cp)

	return nil
}

// Frames returns every frame written so far, most recent last.
func (d *FakeDriver) Frames() [][]byte {
	d.mu.Lock()
	defer d.mu.Unlock()

	return append([][]byte(nil), d.frames...)
}

// FailNext makes every subsequent Write return err, simulating a stalled
// SPI bus (spec.md §7's "LED write failure" recoverable error).
func (d *FakeDriver) FailNext(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.onErr = err
}
