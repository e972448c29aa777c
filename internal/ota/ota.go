// Package ota implements the OTA engine's state machine: a connection-
// scoped flash update with streaming SHA-256 verification and a single
// owned updater object, created on Begin and always released on Commit,
// Abort, or disconnect.
package ota

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"hash"

	"github.com/riegerindustries/diskomator/internal/flash"
)

// Status is published on the ota_status characteristic on every state
// transition.
type Status uint8

const (
	StatusIdle Status = iota
	StatusInProgress
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusInProgress:
		return "in_progress"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("Status(%d)", uint8(s))
	}
}

// Command is the single-byte value written to ota_control.
type Command uint8

const (
	CommandBegin  Command = 0x01
	CommandCommit Command = 0x02
	CommandAbort  Command = 0x03
)

// Resetter issues the software reset that boots the newly committed
// partition, after the delay required so the central receives the Commit
// acknowledgment first.
type Resetter interface {
	Reset(ctx context.Context)
}

// ErrNoHash is returned when Begin is attempted before a 32-byte hash has
// been written to ota_hash.
var ErrNoHash = errors.New("ota: begin requires expected hash to be set first")

// ErrHashMismatch is returned by Commit when the streamed image does not
// hash to the expected value.
var ErrHashMismatch = errors.New("ota: commit hash mismatch")

// ErrNotReceiving is returned when WriteData or Commit is attempted outside
// the Receiving state.
var ErrNotReceiving = errors.New("ota: not currently receiving an update")

// State is the connection-scoped OTA engine: one instance per GATT
// connection, created fresh on connect, torn down on disconnect.
type State struct {
	partitions   flash.Partitions
	resetter     Resetter
	status       Status
	expectedHash []byte
	writer        flash.Writer
	hasher        hash.Hash
	bytesReceived int
	onStatus      func(Status)
}

// New returns an idle OTA state bound to partitions and resetter. onStatus
// is invoked (if non-nil) on every status transition, matching the
// ota_status GATT notify contract.
func New(partitions flash.Partitions, resetter Resetter, onStatus func(Status)) *State {
	return &State{ //nolint:exhaustruct
		partitions: partitions,
		resetter:   resetter,
		status:     StatusIdle,
		onStatus:   onStatus,
	}
}

// Status returns the current published status.
func (s *State) Status() Status {
	return s.status
}

func (s *State) setStatus(st Status) {
	s.status = st

	if s.onStatus != nil {
		s.onStatus(st)
	}
}

// SetExpectedHash stores the 32-byte hash the eventual Commit must match.
// It may be set at any time; Commit checks against the digest stored last,
// so a hash written mid-transfer replaces the one set before Begin.
func (s *State) SetExpectedHash(hash []byte) error {
	if len(hash) != 32 {
		return fmt.Errorf("ota: expected hash must be 32 bytes, got %d", len(hash))
	}

	var cp = make([]byte, 32)
	copy(cp, hash)
	s.expectedHash = cp

	return nil
}

// Begin transitions IDLE -> RECEIVING, rejecting if no hash has been set.
func (s *State) Begin(ctx context.Context) error {
	if s.expectedHash == nil {
		return ErrNoHash
	}

	var w, err = s.partitions.NextWriter(ctx)
	if err != nil {
		return fmt.Errorf("ota: open next partition: %w", err)
	}

	s.writer = w
	s.hasher = sha256.New()
	s.bytesReceived = 0
	s.setStatus(StatusInProgress)

	return nil
}

// WriteData streams a chunk of firmware bytes to flash and the running
// hash. A write failure transitions to ERROR and aborts the partition.
func (s *State) WriteData(ctx context.Context, chunk []byte) error {
	if s.status != StatusInProgress || s.writer == nil {
		return ErrNotReceiving
	}

	if err := s.writer.Write(ctx, chunk); err != nil {
		_ = s.writer.Abort(ctx)
		s.writer = nil
		s.setStatus(StatusError)

		return fmt.Errorf("ota: write failed: %w", err)
	}

	s.hasher.Write(chunk)
	s.bytesReceived += len(chunk)

	return nil
}

// BytesReceived reports how much of the image has been streamed so far.
func (s *State) BytesReceived() int {
	return s.bytesReceived
}

// Commit finalizes the hash and, only if it matches the expected digest,
// marks the partition bootable and schedules the delayed software reset.
func (s *State) Commit(ctx context.Context) error {
	if s.status != StatusInProgress || s.writer == nil {
		return ErrNotReceiving
	}

	var sum = s.hasher.Sum(nil)

	if !hashEqual(sum, s.expectedHash) {
		_ = s.writer.Abort(ctx)
		s.writer = nil
		s.setStatus(StatusError)

		return ErrHashMismatch
	}

	if err := s.writer.Commit(ctx); err != nil {
		s.writer = nil
		s.setStatus(StatusError)

		return fmt.Errorf("ota: commit failed: %w", err)
	}

	s.writer = nil
	s.setStatus(StatusSuccess)

	if s.resetter != nil {
		s.resetter.Reset(ctx)
	}

	return nil
}

// Abort discards any in-progress update and returns to IDLE. It is also
// what a disconnect mid-update must trigger.
func (s *State) Abort(ctx context.Context) {
	if s.writer != nil {
		_ = s.writer.Abort(ctx)
		s.writer = nil
	}

	s.hasher = nil
	s.bytesReceived = 0
	s.setStatus(StatusIdle)
}

func hashEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
