// Package synthsource provides a deterministic synthesized tone as an
// audio.Source, recovering the role the original firmware's
// "fake-i2s" WAV/ADPCM playback path filled: a source that needs no real
// microphone for bench testing. Decoding a specific WAV/ADPCM fixture is
// not ported — no such asset ships with this firmware — but a generated
// sine sweep serves the same purpose.
package synthsource

import (
	"context"
	"math"

	"github.com/riegerindustries/diskomator/internal/audio"
)

// SampleRate matches the I²S/USB contract: 48kHz.
const SampleRate = 48000

// Source generates an ever-advancing sine sweep as 32-bit left-justified
// 24-bit stereo samples, looping forever.
type Source struct {
	startHz, endHz float64
	sweepSeconds   float64
	phase          float64
	t              float64
}

var _ audio.Source = (*Source)(nil)

// New returns a sweep source cycling from startHz to endHz over
// sweepSeconds, then restarting.
func New(startHz, endHz, sweepSeconds float64) *Source {
	return &Source{startHz: startHz, endHz: endHz, sweepSeconds: sweepSeconds} //nolint:exhaustruct
}

// Next synthesizes the next audio.BlockSamples stereo block.
func (s *Source) Next(_ context.Context) ([]int32, error) {
	var out = make([]int32, audio.BlockSamples*2)

	for i := 0; i < audio.BlockSamples; i++ {
		var progress = math.Mod(s.t, s.sweepSeconds) / s.sweepSeconds
		var freq = s.startHz + (s.endHz-s.startHz)*progress

		s.phase += 2 * math.Pi * freq / SampleRate
		if s.phase > 2*math.Pi {
			s.phase -= 2 * math.Pi
		}

		var sample = int32(math.Sin(s.phase) * (1 << 23))

		out[2*i] = sample
		out[2*i+1] = sample

		s.t += 1.0 / SampleRate
	}

	return out, nil
}
