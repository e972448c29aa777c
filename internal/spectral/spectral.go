// Package spectral implements the windowing, FFT, and per-channel
// bucket aggregation that turns a frame of PCM samples into the channel
// intensities the pattern renderer consumes.
package spectral

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/riegerindustries/diskomator/internal/config"
)

// FrameSize is the fixed FFT length this engine implements; config.FFTSize
// is carried on the wire for forward compatibility but 512 is the only
// size actually computed.
const FrameSize = 512

// SampleScale normalizes a 24-bit sample left-justified in a 32-bit
// container (2^23).
const SampleScale = 1 << 23

// Normalize converts raw 32-bit samples to the [-1, 1]-ish float range the
// rest of the pipeline expects.
func Normalize(samples []int32) []float64 {
	var out = make([]float64, len(samples))
	for i, s := range samples {
		out[i] = float64(s) / SampleScale
	}

	return out
}

// ZeroPadCentered pads samples to FrameSize, placing them in the middle:
// left pad = (FrameSize - len(samples)) / 2.
func ZeroPadCentered(samples []float64) []float64 {
	if len(samples) > FrameSize {
		samples = samples[:FrameSize]
	}

	var out = make([]float64, FrameSize)
	var left = (FrameSize - len(samples)) / 2
	copy(out[left:], samples)

	return out
}

// HannWindow returns the N-point Hann window: w[n] = 0.5*(1-cos(2*pi*n/(N-1))).
func HannWindow(n int) []float64 {
	var w = make([]float64, n)

	if n == 1 {
		w[0] = 0

		return w
	}

	for i := 0; i < n; i++ {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}

	return w
}

// ApplyHannCentered multiplies the populated region of a zero-padded frame
// by the Hann window, where populated is the original sample count before
// padding.
func ApplyHannCentered(padded []float64, populated int) []float64 {
	var w = HannWindow(populated)
	var left = (FrameSize - populated) / 2
	var out = make([]float64, len(padded))
	copy(out, padded)

	for i := 0; i < populated; i++ {
		out[left+i] *= w[i]
	}

	return out
}

// Spectrum computes the 256 usable bins of the 512-point real FFT.
func Spectrum(frame []float64) []complex128 {
	var full = fft.FFTReal(frame)

	return full[:config.NyquistBins]
}

// channelValue computes the shaped, gated value of one bin per spec.md
// §4.2 step 5: v = |premult*c|^2 * (0.001/255); v below noise_gate -> 0;
// otherwise apply the exponent shaping curve.
func channelValue(c complex128, premult float32, noiseGate float32, exponent uint8) float64 {
	var mag = cmplx.Abs(c) * float64(premult)
	var v = mag * mag * (0.001 / 255)

	if v < float64(noiseGate) {
		return 0
	}

	switch {
	case exponent == 1:
		return math.Sqrt(v)
	case exponent == 2:
		return v
	case exponent > 2 && exponent%2 == 0:
		return math.Pow(v, float64(exponent)/2)
	case exponent > 1:
		return math.Pow(math.Sqrt(v), float64(exponent))
	default:
		return v
	}
}

// Aggregate reduces the bin range [start, end] (inclusive, per spec.md's
// departure from the source's off-by-one) of spectrum per ch's
// aggregation method, clamped to [0, 1].
func Aggregate(spectrum []complex128, ch config.ChannelConfig) (float64, error) {
	if ch.StartIndex < 0 || ch.EndIndex >= len(spectrum) || ch.StartIndex > ch.EndIndex {
		return 0, fmt.Errorf("spectral: channel range [%d,%d] invalid for %d bins", ch.StartIndex, ch.EndIndex, len(spectrum))
	}

	var values = make([]float64, 0, ch.EndIndex-ch.StartIndex+1)
	for i := ch.StartIndex; i <= ch.EndIndex; i++ {
		values = append(values, channelValue(spectrum[i], ch.Premult, ch.NoiseGate, ch.Exponent))
	}

	var result float64

	switch ch.Aggregate {
	case config.AggregateSum:
		for _, v := range values {
			result += v
		}
	case config.AggregateMax:
		for _, v := range values {
			if v > result {
				result = v
			}
		}
	case config.AggregateAverage:
		var sum float64
		for _, v := range values {
			sum += v
		}

		if len(values) > 0 {
			result = sum / float64(len(values))
		}
	default:
		return 0, fmt.Errorf("spectral: unknown aggregation method %v", ch.Aggregate)
	}

	return clamp01(result), nil
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// Process runs the full pipeline from raw samples to per-channel
// intensities for every channel in cfg's active pattern.
func Process(samples []int32, cfg config.AppConfig) ([]float64, error) {
	if len(samples)%8 != 0 {
		return nil, fmt.Errorf("spectral: malformed frame, length %d not a multiple of 8", len(samples))
	}

	var normalized = Normalize(samples)
	var padded = ZeroPadCentered(normalized)

	if cfg.UseHannWindow {
		padded = ApplyHannCentered(padded, min(len(normalized), FrameSize))
	}

	var spectrum = Spectrum(padded)

	var channels = cfg.Pattern.Channels()
	var out = make([]float64, len(channels))

	for i, ch := range channels {
		var v, err = Aggregate(spectrum, ch)
		if err != nil {
			return nil, err
		}

		out[i] = v
	}

	return out, nil
}
