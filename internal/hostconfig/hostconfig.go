// Package hostconfig loads the hosted runtime's own settings — which audio
// backend and GPIO chip to bind to, log level, simulated central behavior —
// from a YAML file. This is distinct from config.AppConfig, the BLE-synced
// lighting configuration, which is never persisted to disk.
package hostconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// HostConfig describes how this process should wire itself to the machine
// it's running on.
type HostConfig struct {
	// AudioBackend selects "synth", "pcm", or "usb".
	AudioBackend string `yaml:"audio_backend"`

	// SweepStartHz/SweepEndHz/SweepSeconds configure the synth backend.
	SweepStartHz float64 `yaml:"sweep_start_hz"`
	SweepEndHz   float64 `yaml:"sweep_end_hz"`
	SweepSeconds float64 `yaml:"sweep_seconds"`

	// PCMSampleRateHz configures the PortAudio backend.
	PCMSampleRateHz float64 `yaml:"pcm_sample_rate_hz"`

	// GPIOChipPath is the device node used for the reset line, e.g.
	// "/dev/gpiochip0". Empty disables GPIO reset pulsing.
	GPIOChipPath string `yaml:"gpio_chip_path"`
	GPIOLine     int    `yaml:"gpio_line"`

	// LEDDriver is "logging" (no hardware) or "none"; the hosted build uses
	// the logging driver for either value.
	LEDDriver string `yaml:"led_driver"`

	// BLETransport selects "softgatt" (in-process only) or "pty" (a
	// line-protocol pseudo-terminal a controlling process can drive).
	BLETransport string `yaml:"ble_transport"`

	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `yaml:"log_level"`

	// AdvertiseDebugService turns on mDNS advertisement of a debug
	// endpoint for discovery on the local network.
	AdvertiseDebugService bool `yaml:"advertise_debug_service"`
	DebugServicePort      int  `yaml:"debug_service_port"`
}

// Default returns sensible hosted defaults: synthesized audio, no GPIO,
// in-process BLE.
func Default() HostConfig {
	return HostConfig{
		AudioBackend:           "synth",
		SweepStartHz:           50,
		SweepEndHz:             5000,
		SweepSeconds:           10,
		PCMSampleRateHz:        48000,
		GPIOChipPath:           "",
		GPIOLine:               0,
		LEDDriver:              "logging",
		BLETransport:           "softgatt",
		LogLevel:               "info",
		AdvertiseDebugService:  false,
		DebugServicePort:       0,
	}
}

// Load reads and parses a HostConfig from path. Any key absent from the
// file keeps its value from Default(); a key present in the file overrides
// it, even with a zero value.
func Load(path string) (HostConfig, error) {
	var cfg = Default()

	var data, err = os.ReadFile(path)
	if err != nil {
		return HostConfig{}, fmt.Errorf("hostconfig: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return HostConfig{}, fmt.Errorf("hostconfig: parse %s: %w", path, err)
	}

	return cfg, nil
}
