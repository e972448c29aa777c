// Package bletransport frames GATT reads/writes over a pty pair, letting a
// developer drive the GATT server from the command line without real BLE
// hardware. Grounded on the teacher's pty-based serial_port handling,
// swapped from a raw terminal device to an in-process pty pair.
package bletransport

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/creack/pty"
)

// fileLike is the subset of *os.File the pty package hands back.
type fileLike interface {
	io.ReadWriteCloser
	Name() string
}

// Open creates a new pty pair for the simulator transport: the firmware's
// GATT transport listens on master, and diskomator-simctl opens slave's
// device path.
func Open() (master fileLike, slave fileLike, err error) {
	var m, s, openErr = pty.Open()
	if openErr != nil {
		return nil, nil, fmt.Errorf("bletransport: open pty: %w", openErr)
	}

	return m, s, nil
}

// Frame is one line of the wire protocol: a command word, a hex-encoded
// UUID, and (for writes) hex-encoded data, newline-terminated so it is
// trivially typeable over a terminal.
type Frame struct {
	Command string // "READ" or "WRITE"; replies use "REPLY", "REPLYOK" or "REPLYERR"
	UUIDHex string
	DataHex string
}

// WriteFrame writes f as a single line: "<COMMAND> <uuid-hex> <data-hex>\n".
func WriteFrame(w io.Writer, f Frame) error {
	var _, err = fmt.Fprintf(w, "%s %s %s\n", f.Command, f.UUIDHex, f.DataHex)

	return err
}

// ReadFrame reads and parses one line-delimited Frame.
func ReadFrame(r *bufio.Reader) (Frame, error) {
	var line, err = r.ReadString('\n')
	if err != nil {
		return Frame{}, err //nolint:exhaustruct
	}

	var fields = strings.Fields(line)
	if len(fields) < 2 {
		return Frame{}, fmt.Errorf("bletransport: malformed frame %q", line)
	}

	var f = Frame{Command: fields[0], UUIDHex: fields[1]} //nolint:exhaustruct
	if len(fields) > 2 {
		f.DataHex = fields[2]
	}

	return f, nil
}

// DecodeData hex-decodes a Frame's DataHex field.
func DecodeData(f Frame) ([]byte, error) {
	return hex.DecodeString(f.DataHex)
}
