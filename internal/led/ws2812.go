// Package led encodes a framebuffer into WS2812 line-code bytes and drives
// the SPI-attached LED chain.
package led

import (
	"github.com/riegerindustries/diskomator/internal/pattern"
)

// ResetBytes is the number of zero bytes appended after a frame to realize
// the >=50us reset gap at 4.5MHz SPI.
const ResetBytes = 140

// encodeTable maps each 2-bit pair to the SPI byte pattern that carries two
// WS2812 line-code bits.
var encodeTable = [4]byte{
	0b00: 0b10001000,
	0b01: 0b10001110,
	0b10: 0b11101000,
	0b11: 0b11101110,
}

// encodeByte expands one source byte into four SPI bytes, two bits at a
// time, most-significant pair first.
func encodeByte(b byte, out []byte) {
	out[0] = encodeTable[(b>>6)&0b11]
	out[1] = encodeTable[(b>>4)&0b11]
	out[2] = encodeTable[(b>>2)&0b11]
	out[3] = encodeTable[b&0b11]
}

// decodeByte is the inverse of encodeByte, used by tests (invariant 5) and
// nowhere else: the real chain is write-only.
func decodeByte(spi []byte) byte {
	var inverse = map[byte]byte{
		0b10001000: 0b00,
		0b10001110: 0b01,
		0b11101000: 0b10,
		0b11101110: 0b11,
	}

	var b byte
	for _, x := range spi {
		b = (b << 2) | inverse[x]
	}

	return b
}

// encodePixel writes one LED's three source bytes in GRB order into the
// corresponding 12 SPI bytes.
func encodePixel(p pattern.RGB8, out []byte) {
	encodeByte(p.G, out[0:4])
	encodeByte(p.R, out[4:8])
	encodeByte(p.B, out[8:12])
}

// EncodeSequence encodes a full framebuffer into SPI bytes, appending the
// reset gap. The returned buffer is exactly 12*N + ResetBytes long,
// matching the statically-sized hardware buffer.
func EncodeSequence(fb *pattern.Framebuffer) []byte {
	var n = len(fb)
	var out = make([]byte, 12*n+ResetBytes)

	for i, p := range fb {
		encodePixel(p, out[i*12:i*12+12])
	}

	return out
}
