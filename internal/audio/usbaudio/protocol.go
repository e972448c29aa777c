// Package usbaudio implements the UAC1 speaker-class protocol details the
// USB ingest path needs: dB-to-linear volume scaling, the 10.14 fixed-point
// feedback value the host uses to pace isochronous transfers, and hotplug
// detection of the USB audio interface.
package usbaudio

import "math"

// SampleRateHz matches the I²S configuration so both ingest paths feed the
// spectral engine identically.
const SampleRateHz = 48000

// SampleSize is the UAC1 Width4Byte sample size in bytes.
const SampleSize = 4

// FeedbackRefreshFrames is the isochronous feedback cadence: every 8 frames.
const FeedbackRefreshFrames = 8

// Muted is the sentinel volume reported by the host for a muted channel.
var Muted = math.Inf(-1)

// DBToLinear converts a UAC1 volume control value in decibels to a linear
// amplitude scale factor: 10^(dB/20). A muted channel (negative infinity)
// scales to zero.
func DBToLinear(db float64) float64 {
	if math.IsInf(db, -1) {
		return 0
	}

	return math.Pow(10, db/20)
}

// FeedbackValue computes the 10.14 fixed-point sample-rate feedback value
// full-speed USB Audio Class isochronous endpoints report to the host: the
// sample rate shifted into 10.14 format, scaled to a single 1ms frame.
func FeedbackValue(sampleRateHz uint32) uint32 {
	return (sampleRateHz << 14) / 1000
}

// FeedbackPacket encodes a feedback value into the 3-byte little-endian
// packet UAC1 feedback endpoints transmit.
func FeedbackPacket(value uint32) [3]byte {
	return [3]byte{
		byte(value),
		byte(value >> 8),
		byte(value >> 16),
	}
}

// ApplyVolume scales a signed 32-bit PCM sample by a linear amplitude
// factor, matching the firmware's float-roundtrip scaling of each sample.
func ApplyVolume(sample int32, scale float64) int32 {
	return int32(float64(sample) * scale)
}

// ScaleStereoBlock applies per-channel volume to an interleaved [L, R, L,
// R, ...] sample block in place.
func ScaleStereoBlock(samples []int32, scaleLeft, scaleRight float64) {
	for i := range samples {
		if i%2 == 0 {
			samples[i] = ApplyVolume(samples[i], scaleLeft)
		} else {
			samples[i] = ApplyVolume(samples[i], scaleRight)
		}
	}
}

// MaxPacketSamples returns how many samples fit a full-speed USB frame's
// worth of audio at the given sample rate, plus margin, matching the
// firmware's USB_MAX_PACKET_SIZE sizing.
func MaxPacketSamples(sampleRateHz uint32) int {
	var bytesPerSecond = int(sampleRateHz) * 2 * SampleSize
	var frameBytes = (bytesPerSecond + 999) / 1000
	var maxPacketBytes = frameBytes + 64

	return maxPacketBytes / SampleSize
}
