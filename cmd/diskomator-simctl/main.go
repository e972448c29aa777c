// Command diskomator-simctl drives a running diskomator-fw hosted
// instance's GATT surface over its simctl pty, in place of a real BLE
// central, letting a developer push a config preset or an OTA image from
// the command line.
package main

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/riegerindustries/diskomator/internal/ble"
	"github.com/riegerindustries/diskomator/internal/bletransport"
	"github.com/riegerindustries/diskomator/internal/config"
	"github.com/riegerindustries/diskomator/internal/ota"
)

func main() {
	var ptyPath = pflag.StringP("pty", "p", "", "Path to the firmware's simctl pty (printed by diskomator-fw --print-pty-path).")
	var pushPreset = pflag.StringP("push-config", "c", "", "Push a compiled-in preset by name: stripes, bars, quarters, bars2.")
	var otaFile = pflag.StringP("ota-file", "o", "", "Path to a firmware image to stream over the OTA characteristics.")
	var readStatus = pflag.BoolP("status", "s", false, "Read and print the current OTA status, then exit.")
	var help = pflag.BoolP("help", "h", false, "Display help text.")

	pflag.Usage = func() {
		fmt.Fprintln(os.Stderr, "diskomator-simctl: drive a hosted diskomator-fw instance's GATT surface")
		pflag.PrintDefaults()
	}

	pflag.Parse()

	if *help || *ptyPath == "" {
		pflag.Usage()

		if *ptyPath == "" {
			os.Exit(2)
		}

		return
	}

	var f, err = os.OpenFile(*ptyPath, os.O_RDWR, 0)
	if err != nil {
		fmt.Fprintln(os.Stderr, "simctl: open pty:", err)
		os.Exit(1)
	}
	defer f.Close()

	var reader = bufio.NewReader(f)

	switch {
	case *pushPreset != "":
		if err := pushConfig(reader, f, *pushPreset); err != nil {
			fmt.Fprintln(os.Stderr, "simctl: push config:", err)
			os.Exit(1)
		}
	case *otaFile != "":
		if err := pushOTA(reader, f, *otaFile); err != nil {
			fmt.Fprintln(os.Stderr, "simctl: push ota:", err)
			os.Exit(1)
		}
	case *readStatus:
		if err := printStatus(reader, f); err != nil {
			fmt.Fprintln(os.Stderr, "simctl: read status:", err)
			os.Exit(1)
		}
	default:
		pflag.Usage()
		os.Exit(2)
	}
}

func preset(name string) (config.AppConfig, error) {
	switch name {
	case "stripes":
		return config.Stripes(), nil
	case "bars":
		return config.Bars(), nil
	case "quarters":
		return config.Quarters(), nil
	case "bars2":
		return config.Bars2(), nil
	default:
		return config.AppConfig{}, fmt.Errorf("unknown preset %q", name)
	}
}

func pushConfig(reader *bufio.Reader, w *os.File, presetName string) error {
	var cfg, err = preset(presetName)
	if err != nil {
		return err
	}

	var encoded, encErr = config.Encode(cfg)
	if encErr != nil {
		return fmt.Errorf("encode: %w", encErr)
	}

	var reply, writeErr = writeChar(reader, w, ble.ConfigDataCharUUID, encoded)
	if writeErr != nil {
		return writeErr
	}

	fmt.Printf("config push %q: %s (%d bytes)\n", presetName, reply, len(encoded))

	return nil
}

func pushOTA(reader *bufio.Reader, w *os.File, path string) error {
	var data, err = os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}

	var sum = sha256.Sum256(data)

	if reply, writeErr := writeChar(reader, w, ble.OTAHashCharUUID, sum[:]); writeErr != nil {
		return writeErr
	} else if reply != "OK" {
		return fmt.Errorf("hash write rejected")
	}

	if reply, writeErr := writeChar(reader, w, ble.OTAControlCharUUID, []byte{byte(ota.CommandBegin)}); writeErr != nil {
		return writeErr
	} else if reply != "OK" {
		return fmt.Errorf("begin rejected")
	}

	for offset := 0; offset < len(data); offset += ble.MaxOTADataLen {
		var end = offset + ble.MaxOTADataLen
		if end > len(data) {
			end = len(data)
		}

		var reply, writeErr = writeChar(reader, w, ble.OTADataCharUUID, data[offset:end])
		if writeErr != nil {
			return writeErr
		}

		if reply != "OK" {
			return fmt.Errorf("data write rejected at offset %d", offset)
		}

		fmt.Printf("\rsent %d/%d bytes", end, len(data))
	}

	fmt.Println()

	var reply, commitErr = writeChar(reader, w, ble.OTAControlCharUUID, []byte{byte(ota.CommandCommit)})
	if commitErr != nil {
		return commitErr
	}

	fmt.Println("commit:", reply)

	return nil
}

func printStatus(reader *bufio.Reader, w *os.File) error {
	if err := bletransport.WriteFrame(w, bletransport.Frame{Command: "READ", UUIDHex: hex.EncodeToString(ble.OTAStatusCharUUID[:])}); err != nil {
		return err
	}

	var frame, err = bletransport.ReadFrame(reader)
	if err != nil {
		return err
	}

	var data, decodeErr = bletransport.DecodeData(frame)
	if decodeErr != nil || len(data) != 1 {
		return fmt.Errorf("malformed status reply")
	}

	fmt.Println("ota status:", ota.Status(data[0]))

	return nil
}

// writeChar sends a WRITE frame for char with value and returns "OK" or
// "ERR" from the firmware's REPLYOK/REPLYERR response.
func writeChar(reader *bufio.Reader, w *os.File, char ble.UUID128, value []byte) (string, error) {
	var frame = bletransport.Frame{
		Command: "WRITE",
		UUIDHex: hex.EncodeToString(char[:]),
		DataHex: hex.EncodeToString(value),
	}

	if err := bletransport.WriteFrame(w, frame); err != nil {
		return "", err
	}

	var reply, err = bletransport.ReadFrame(reader)
	if err != nil {
		return "", err
	}

	switch reply.Command {
	case "REPLYOK":
		return "OK", nil
	case "REPLYERR":
		return "ERR", nil
	default:
		return "", fmt.Errorf("unexpected reply command %q", reply.Command)
	}
}
