package bletransport

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadFrameRoundTrip(t *testing.T) {
	var buf strings.Builder
	var f = Frame{Command: "WRITE", UUIDHex: "aabbcc", DataHex: "deadbeef"}

	require.NoError(t, WriteFrame(&buf, f))

	var got, err = ReadFrame(bufio.NewReader(strings.NewReader(buf.String())))
	require.NoError(t, err)
	assert.Equal(t, f, got)
}

func TestDecodeData(t *testing.T) {
	var data, err = DecodeData(Frame{DataHex: "0a0b0c"}) //nolint:exhaustruct
	require.NoError(t, err)
	assert.Equal(t, []byte{0x0a, 0x0b, 0x0c}, data)
}

func TestReadFrameRejectsMalformed(t *testing.T) {
	var _, err = ReadFrame(bufio.NewReader(strings.NewReader("GARBAGE\n")))
	assert.Error(t, err)
}
