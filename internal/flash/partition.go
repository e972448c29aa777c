// Package flash abstracts the dual application partitions the OTA engine
// writes to, recovering the Partition/OtaUpdater shape the original
// firmware's bootloader integration used.
package flash

import (
	"context"
	"fmt"
)

// Writer streams bytes into a flash partition, sector-erasing on first
// touch of each sector before programming it.
type Writer interface {
	// Write programs the next chunk of the partition. Implementations must
	// treat writes as append-only and sequential.
	Write(ctx context.Context, chunk []byte) error
	// Commit marks the partition bootable. Called only after hash
	// verification succeeds.
	Commit(ctx context.Context) error
	// Abort discards whatever has been written so far and releases the
	// partition without marking it bootable.
	Abort(ctx context.Context) error
}

// Partitions selects which application partition to write next-boot
// firmware into: the one not currently active.
type Partitions interface {
	// NextWriter opens the inactive partition for writing. It is an error
	// to call this while a writer from a previous Begin is still open.
	NextWriter(ctx context.Context) (Writer, error)
}

// memPartitions is an in-memory two-partition implementation for tests.
type memPartitions struct {
	active int
	slots  [2][]byte
}

// NewMemPartitions returns a Partitions backed entirely by memory; nothing
// persists across process restarts.
func NewMemPartitions() Partitions {
	return &memPartitions{} //nolint:exhaustruct
}

func (p *memPartitions) NextWriter(_ context.Context) (Writer, error) {
	var next = 1 - p.active

	return &memWriter{owner: p, slot: next}, nil
}

type memWriter struct {
	owner *memPartitions
	slot  int
	buf   []byte
}

func (w *memWriter) Write(_ context.Context, chunk []byte) error {
	w.buf = append(w.buf, chunk...)

	return nil
}

func (w *memWriter) Commit(_ context.Context) error {
	w.owner.slots[w.slot] = w.buf
	w.owner.active = w.slot

	return nil
}

func (w *memWriter) Abort(_ context.Context) error {
	w.buf = nil

	return nil
}

// ErrAlreadyWriting is returned by implementations that enforce the single
// in-flight writer the spec requires.
var ErrAlreadyWriting = fmt.Errorf("flash: a partition write is already in progress")
