package config

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// MaxEncodedSize is the single GATT attribute size budget every AppConfig
// must fit within.
const MaxEncodedSize = 200

// Encode serializes c into a postcard-style compact wire format: varints
// for the header's small integers, bin indices as single bytes (the
// invariant end_index < 256 makes that exact), fixed little-endian
// IEEE-754 floats, and a one-byte variant tag ahead of the channel array.
// This is what keeps an 8-channel Bars config under the 200-byte GATT
// attribute budget.
func Encode(c AppConfig) ([]byte, error) {
	var buf = make([]byte, 0, MaxEncodedSize)

	buf = appendVarint(buf, uint64(c.ConfigVersion))
	buf = appendVarint(buf, uint64(c.SampleCount))

	var fftTag, fftErr = fftSizeTag(c.FFTSize)
	if fftErr != nil {
		return nil, fftErr
	}

	buf = append(buf, fftTag)
	buf = appendBool(buf, c.UseHannWindow)
	buf = append(buf, byte(c.Pattern.Kind))

	var channels = c.Pattern.Channels()
	if channels == nil {
		return nil, fmt.Errorf("config: unknown pattern kind %d", c.Pattern.Kind)
	}

	for _, ch := range channels {
		var err error

		buf, err = appendChannel(buf, ch)
		if err != nil {
			return nil, err
		}
	}

	if len(buf) > MaxEncodedSize {
		return nil, fmt.Errorf("config: encoded size %d exceeds budget %d", len(buf), MaxEncodedSize)
	}

	return buf, nil
}

// Decode is the inverse of Encode. It returns an error rather than panic on
// truncated or malformed input, since on the wire this feeds a GATT write
// handler that must reject bad payloads rather than crash.
func Decode(data []byte) (AppConfig, error) {
	var c AppConfig
	var r = reader{buf: data} //nolint:exhaustruct

	c.ConfigVersion = uint32(r.varint())
	c.SampleCount = uint32(r.varint())

	var fftTag = r.byte_()

	var fftErr error
	c.FFTSize, fftErr = fftSizeFromTag(fftTag)

	if fftErr != nil {
		return AppConfig{}, fftErr
	}

	c.UseHannWindow = r.boolean()

	var kind = r.byte_()
	if r.err != nil {
		return AppConfig{}, r.err
	}

	c.Pattern.Kind = PatternKind(kind)

	var n int

	switch c.Pattern.Kind {
	case PatternStripes, PatternQuarters:
		n = 4
	case PatternBars:
		n = 8
	default:
		return AppConfig{}, fmt.Errorf("config: unknown pattern tag %d", kind)
	}

	var channels = make([]ChannelConfig, n)
	for i := range channels {
		channels[i] = r.channel()
	}

	if r.err != nil {
		return AppConfig{}, r.err
	}

	switch c.Pattern.Kind {
	case PatternStripes:
		copy(c.Pattern.Stripes[:], channels)
	case PatternBars:
		copy(c.Pattern.Bars[:], channels)
	case PatternQuarters:
		copy(c.Pattern.Quarters[:], channels)
	}

	return c, nil
}

func fftSizeTag(f FFTSize) (byte, error) {
	switch f {
	case FFTSize128:
		return 0, nil
	case FFTSize256:
		return 1, nil
	case FFTSize512:
		return 2, nil
	default:
		return 0, fmt.Errorf("config: unknown fft_size %d", f)
	}
}

func fftSizeFromTag(tag byte) (FFTSize, error) {
	switch tag {
	case 0:
		return FFTSize128, nil
	case 1:
		return FFTSize256, nil
	case 2:
		return FFTSize512, nil
	default:
		return 0, fmt.Errorf("config: unknown fft_size tag %d", tag)
	}
}

// appendVarint writes v as LEB128, matching postcard's varint encoding for
// unsigned integer fields.
func appendVarint(buf []byte, v uint64) []byte {
	var tmp [binary.MaxVarintLen64]byte
	var n = binary.PutUvarint(tmp[:], v)

	return append(buf, tmp[:n]...)
}

func appendF32(buf []byte, v float32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], math.Float32bits(v))

	return append(buf, tmp[:]...)
}

func appendBool(buf []byte, v bool) []byte {
	if v {
		return append(buf, 1)
	}

	return append(buf, 0)
}

// appendChannel writes one ChannelConfig. Bin indices are single bytes:
// valid per the start<=end<256 invariant, every index fits in a byte.
func appendChannel(buf []byte, ch ChannelConfig) ([]byte, error) {
	if ch.StartIndex < 0 || ch.StartIndex > 255 || ch.EndIndex < 0 || ch.EndIndex > 255 {
		return nil, fmt.Errorf("config: channel bin index out of byte range: [%d,%d]", ch.StartIndex, ch.EndIndex)
	}

	buf = append(buf, byte(ch.StartIndex), byte(ch.EndIndex))
	buf = appendF32(buf, ch.Premult)
	buf = appendF32(buf, ch.NoiseGate)
	buf = append(buf, ch.Exponent)

	for _, v := range ch.Color {
		buf = appendF32(buf, v)
	}

	buf = append(buf, byte(ch.Aggregate))

	return buf, nil
}

// reader pulls fixed-width fields off a byte slice, latching the first
// error so callers can check it once at the end instead of after every
// field.
type reader struct {
	buf []byte
	err error
}

func (r *reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}

	if len(r.buf) < n {
		r.err = errors.New("config: truncated payload")

		return nil
	}

	var out = r.buf[:n]
	r.buf = r.buf[n:]

	return out
}

func (r *reader) varint() uint64 {
	if r.err != nil {
		return 0
	}

	var v, n = binary.Uvarint(r.buf)
	if n <= 0 {
		r.err = errors.New("config: malformed varint")

		return 0
	}

	r.buf = r.buf[n:]

	return v
}

func (r *reader) f32() float32 {
	var b = r.take(4)
	if b == nil {
		return 0
	}

	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

func (r *reader) boolean() bool {
	var b = r.take(1)

	return b != nil && b[0] != 0
}

func (r *reader) byte_() byte {
	var b = r.take(1)
	if b == nil {
		return 0
	}

	return b[0]
}

func (r *reader) channel() ChannelConfig {
	var ch ChannelConfig //nolint:exhaustruct

	ch.StartIndex = int(r.byte_())
	ch.EndIndex = int(r.byte_())
	ch.Premult = r.f32()
	ch.NoiseGate = r.f32()
	ch.Exponent = r.byte_()

	for i := range ch.Color {
		ch.Color[i] = r.f32()
	}

	ch.Aggregate = AggregationMethod(r.byte_())

	return ch
}
