package usbaudio

import (
	"math"
	"sync/atomic"
)

// VolumeState holds the current per-channel linear scale factors, updated
// from the host's UAC1 control requests and read on every streamed block.
// atomic.Uint64 stores the float64 bit pattern so reads never race with the
// control-monitor goroutine's writes.
type VolumeState struct {
	left  atomic.Uint64
	right atomic.Uint64
}

// NewVolumeState starts both channels at unity gain.
func NewVolumeState() *VolumeState {
	var v = &VolumeState{} //nolint:exhaustruct

	v.left.Store(math.Float64bits(1.0))
	v.right.Store(math.Float64bits(1.0))

	return v
}

// SetLeftDB updates the left channel from a decibel control value.
func (v *VolumeState) SetLeftDB(db float64) {
	v.left.Store(math.Float64bits(DBToLinear(db)))
}

// SetRightDB updates the right channel from a decibel control value.
func (v *VolumeState) SetRightDB(db float64) {
	v.right.Store(math.Float64bits(DBToLinear(db)))
}

// Scales returns the current left/right linear scale factors.
func (v *VolumeState) Scales() (left, right float64) {
	return math.Float64frombits(v.left.Load()), math.Float64frombits(v.right.Load())
}
