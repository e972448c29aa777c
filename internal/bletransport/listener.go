package bletransport

import (
	"bufio"
	"context"
	"encoding/hex"
	"io"

	"github.com/charmbracelet/log"

	"github.com/riegerindustries/diskomator/internal/ble"
)

// Serve reads Frames from r and drives ctrl accordingly, writing back one
// reply line per well-formed READ or WRITE request, until reading from r
// fails (EOF included) or ctx is canceled. Frames with a bad UUID or data
// field and unknown commands are logged and get no reply. It is the
// firmware side of the pty link; diskomator-simctl is the other end.
func Serve(ctx context.Context, logger *log.Logger, r io.Reader, w io.Writer, ctrl *ble.SoftGATT) {
	var reader = bufio.NewReader(r)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		var frame, err = ReadFrame(reader)
		if err != nil {
			if err != io.EOF {
				logger.Warn("bletransport: read error", "err", err)
			}

			return
		}

		var uuidBytes, hexErr = hex.DecodeString(frame.UUIDHex)
		if hexErr != nil || len(uuidBytes) != 16 {
			logger.Warn("bletransport: bad uuid in frame", "uuid", frame.UUIDHex)

			continue
		}

		var char ble.UUID128
		copy(char[:], uuidBytes)

		switch frame.Command {
		case "READ":
			var reply, readErr = ctrl.Read(ctx, char)
			if readErr != nil {
				return
			}

			_ = WriteFrame(w, Frame{Command: "REPLY", UUIDHex: frame.UUIDHex, DataHex: hex.EncodeToString(reply.Value)})
		case "WRITE":
			var data, decodeErr = DecodeData(frame)
			if decodeErr != nil {
				logger.Warn("bletransport: bad data hex", "err", decodeErr)

				continue
			}

			var reply, writeErr = ctrl.Write(ctx, char, data)
			if writeErr != nil {
				return
			}

			var status = "OK"
			if !reply.OK {
				status = "ERR"
			}

			_ = WriteFrame(w, Frame{Command: "REPLY" + status, UUIDHex: frame.UUIDHex})
		default:
			logger.Warn("bletransport: unknown command", "command", frame.Command)
		}
	}
}
