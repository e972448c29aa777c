package led

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/riegerindustries/diskomator/internal/pattern"
)

func TestEncodeTableMatchesSpec(t *testing.T) {
	assert.Equal(t, byte(0x88), encodeTable[0b00])
	assert.Equal(t, byte(0x8E), encodeTable[0b01])
	assert.Equal(t, byte(0xE8), encodeTable[0b10])
	assert.Equal(t, byte(0xEE), encodeTable[0b11])
}

// Invariant 5: every byte round-trips through encode then decode.
func TestEncodeDecodeByteRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var b = byte(rapid.IntRange(0, 255).Draw(t, "b")) //nolint:gosec

		var spi = make([]byte, 4)
		encodeByte(b, spi)

		assert.Equal(t, b, decodeByte(spi))
	})
}

func TestEncodeSequenceLength(t *testing.T) {
	var fb pattern.Framebuffer
	var out = EncodeSequence(&fb)

	assert.Len(t, out, 12*len(fb)+ResetBytes)
}

func TestEncodeSequenceTrailingResetIsZero(t *testing.T) {
	var fb pattern.Framebuffer
	var out = EncodeSequence(&fb)

	var reset = out[12*len(fb):]
	for _, b := range reset {
		assert.Equal(t, byte(0), b)
	}
}

func TestEncodePixelGRBOrder(t *testing.T) {
	var fb pattern.Framebuffer
	fb[0] = pattern.RGB8{R: 0xAA, G: 0xBB, B: 0xCC}

	var out = EncodeSequence(&fb)

	assert.Equal(t, fb[0].G, decodeByte(out[0:4]))
	assert.Equal(t, fb[0].R, decodeByte(out[4:8]))
	assert.Equal(t, fb[0].B, decodeByte(out[8:12]))
}
