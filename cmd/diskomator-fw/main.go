// Command diskomator-fw is the hosted build of the firmware: the same
// audio-to-light pipeline and BLE GATT contract the MCU implements, wired
// to bench-friendly stand-ins for the peripherals a dev box doesn't have.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/riegerindustries/diskomator/internal/audio"
	"github.com/riegerindustries/diskomator/internal/audio/hostpcm"
	"github.com/riegerindustries/diskomator/internal/audio/synthsource"
	"github.com/riegerindustries/diskomator/internal/audio/usbaudio"
	"github.com/riegerindustries/diskomator/internal/ble"
	"github.com/riegerindustries/diskomator/internal/bletransport"
	"github.com/riegerindustries/diskomator/internal/buildinfo"
	"github.com/riegerindustries/diskomator/internal/config"
	"github.com/riegerindustries/diskomator/internal/flash"
	"github.com/riegerindustries/diskomator/internal/hostconfig"
	"github.com/riegerindustries/diskomator/internal/led"
	"github.com/riegerindustries/diskomator/internal/logging"
	"github.com/riegerindustries/diskomator/internal/ota"
	"github.com/riegerindustries/diskomator/internal/pattern"
	"github.com/riegerindustries/diskomator/internal/provision"
	"github.com/riegerindustries/diskomator/internal/reset"
	diskosignal "github.com/riegerindustries/diskomator/internal/signal"
	"github.com/riegerindustries/diskomator/internal/spectral"
)

// firmwareVersion is the compiled-in version reported in buildinfo and over
// the config_version characteristic default.
const firmwareVersion uint32 = config.ConfigVersion

func main() {
	var hostConfigPath = pflag.StringP("host-config", "c", "", "Hosted runtime config YAML. Empty uses compiled-in defaults.")
	var flashDir = pflag.StringP("flash-dir", "f", "", "Directory backing the two OTA flash partitions. Empty uses a temp dir.")
	var logLevel = pflag.StringP("log-level", "l", "", "Override log level: debug, info, warn, error.")
	var ptyPath = pflag.BoolP("print-pty-path", "p", false, "Print the simctl pty path on stdout when ble_transport is pty, for a client to attach.")
	var help = pflag.BoolP("help", "h", false, "Display help text.")

	pflag.Usage = func() {
		fmt.Fprintln(os.Stderr, "diskomator-fw: audio-reactive LED matrix firmware, hosted build")
		pflag.PrintDefaults()
	}

	pflag.Parse()

	if *help {
		pflag.Usage()

		return
	}

	var hc = hostconfig.Default()

	if *hostConfigPath != "" {
		var loaded, err = hostconfig.Load(*hostConfigPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "diskomator-fw: loading host config:", err)
			os.Exit(1)
		}

		hc = loaded
	}

	if *logLevel != "" {
		hc.LogLevel = *logLevel
	}

	logging.SetLevel(parseLevel(hc.LogLevel))

	var logger = logging.For("main")

	var version, buildErr = buildinfo.String(firmwareVersion, time.Now())
	if buildErr == nil {
		logger.Info(version)
	}

	var ctx, cancel = context.WithCancel(context.Background())
	defer cancel()

	go waitForSignal(cancel)

	run(ctx, logger, hc, *flashDir, *ptyPath)
}

func run(ctx context.Context, logger *log.Logger, hc hostconfig.HostConfig, flashDir string, printPtyPath bool) {
	var configSignal = diskosignal.New[config.AppConfig]()
	var fbSignal = diskosignal.New[*pattern.Framebuffer]()

	var ledDriver = buildLEDDriver(hc, logger)

	logger.Info("playing startup demo", "duration", led.DemoDuration)

	if err := led.PlayStartupDemo(ctx, ledDriver); err != nil {
		logger.Warn("startup demo ended early", "err", err)
	}

	go led.Run(ctx, ledDriver, fbSignal, func(err error) {
		logger.Error("led write failed", "err", err)
	})

	var src, closeSrc, audioErr = buildAudioSource(ctx, hc, logger)
	if audioErr != nil {
		logger.Fatal("failed to initialize audio source", "err", audioErr)
	}

	if closeSrc != nil {
		defer closeSrc()
	}

	go runAudioPipeline(ctx, logger, src, configSignal, fbSignal)

	var partitions, partErr = flash.NewFilePartitions(resolveFlashDir(flashDir))
	if partErr != nil {
		logger.Fatal("failed to initialize flash partitions", "err", partErr)
	}

	var resetter ota.Resetter = reset.NewNoopResetter(logging.For("reset"))

	if hc.GPIOChipPath != "" {
		resetter = reset.NewGPIOResetter(logging.For("reset"), hc.GPIOChipPath, hc.GPIOLine, os.Args)
	}

	var ctrl, ctrlCleanup = buildController(ctx, hc, logger, printPtyPath)
	if ctrlCleanup != nil {
		defer ctrlCleanup()
	}

	var server, serverErr = ble.NewServer(logging.For("ble"), ctrl, configSignal, config.Default(), func() *ota.State {
		return ota.New(partitions, resetter, func(st ota.Status) {
			ctrl.Notify(ble.OTAStatusCharUUID, []byte{byte(st)})
		})
	})
	if serverErr != nil {
		logger.Fatal("failed to build GATT server", "err", serverErr)
	}

	go func() {
		if err := server.Run(ctx); err != nil {
			logger.Error("ble server stopped", "err", err)
		}
	}()

	go ble.RunRSSIMonitor(ctx, logging.For("rssi"), ctrl)

	if hc.AdvertiseDebugService {
		provision.Announce(ctx, logging.For("provision"), ble.LocalName, hc.DebugServicePort)
	}

	<-ctx.Done()
	logger.Info("shutting down")
}

func runAudioPipeline(ctx context.Context, logger *log.Logger, src audio.Source, configSignal *diskosignal.Signal[config.AppConfig], fbSignal *diskosignal.Signal[*pattern.Framebuffer]) {
	var cfg = config.Default()
	var fb pattern.Framebuffer

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if updated, ok := configSignal.TryGet(); ok {
			cfg = updated
		}

		var samples, err = src.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}

			logger.Error("audio source failed", "err", err)

			continue
		}

		var intensities, procErr = spectral.Process(samples, cfg)
		if procErr != nil {
			logger.Warn("dropping malformed frame", "err", procErr)

			continue
		}

		if err := pattern.Render(&fb, cfg, intensities); err != nil {
			logger.Warn("render failed", "err", err)

			continue
		}

		var snapshot = fb
		fbSignal.Set(&snapshot)
	}
}

func buildLEDDriver(hc hostconfig.HostConfig, logger *log.Logger) led.Driver {
	// No real WS2812 transport is available on a hosted dev box; both
	// configured values resolve to the checksum-logging stand-in.
	return led.NewLoggingDriver(logging.For("led"))
}

func buildAudioSource(ctx context.Context, hc hostconfig.HostConfig, logger *log.Logger) (audio.Source, func(), error) {
	switch hc.AudioBackend {
	case "pcm":
		var src, err = hostpcm.Open(hc.PCMSampleRateHz)
		if err != nil {
			return nil, nil, fmt.Errorf("main: open pcm audio: %w", err)
		}

		return src, func() {
			if closeErr := src.Close(); closeErr != nil {
				logger.Warn("closing pcm audio source", "err", closeErr)
			}
		}, nil
	case "usb":
		// usbaudio implements the UAC1 volume/feedback protocol and hotplug
		// detection, but not a full device-side PCM capture endpoint, which
		// needs a kernel gadget driver; the sweep still stands in for the
		// actual samples, with real attach/detach events logged alongside it.
		go watchUSBAudio(ctx, logging.For("usbaudio"))

		return synthsource.New(hc.SweepStartHz, hc.SweepEndHz, hc.SweepSeconds), nil, nil
	default:
		return synthsource.New(hc.SweepStartHz, hc.SweepEndHz, hc.SweepSeconds), nil, nil
	}
}

// watchUSBAudio logs USB sound-card attach/detach transitions until ctx is
// canceled. It never returns an error to the caller: a udev monitor failure
// (e.g. running outside Linux, or without permission) just means no hotplug
// events are reported, not that the hosted build should refuse to start.
func watchUSBAudio(ctx context.Context, logger *log.Logger) {
	var attached bool

	var err = usbaudio.WatchHotplug(ctx, logger, func(isAttached bool) {
		attached = isAttached

		if attached {
			logger.Info("usb sound card attached")
		} else {
			logger.Info("usb sound card detached")
		}
	})
	if err != nil && ctx.Err() == nil {
		logger.Warn("usb hotplug watch stopped", "err", err, "last_known_attached", attached)
	}
}

// buildController wires either the in-process SoftGATT (for automated
// tests and the pure simulator) or the pty-backed transport a developer
// can drive by hand with diskomator-simctl.
func buildController(ctx context.Context, hc hostconfig.HostConfig, logger *log.Logger, printPtyPath bool) (*ble.SoftGATT, func()) {
	var ctrl = ble.NewSoftGATT()

	if hc.BLETransport != "pty" {
		return ctrl, nil
	}

	var master, slave, err = bletransport.Open()
	if err != nil {
		logger.Error("failed to open simctl pty, falling back to in-process controller", "err", err)

		return ctrl, nil
	}

	if printPtyPath {
		fmt.Println(slave.Name())
	}

	logger.Info("simctl transport ready", "pty", slave.Name())

	go bletransport.Serve(ctx, logging.For("bletransport"), master, master, ctrl)

	return ctrl, func() {
		_ = master.Close()
		_ = slave.Close()
	}
}

func resolveFlashDir(dir string) string {
	if dir != "" {
		return dir
	}

	return os.TempDir() + "/diskomator-flash"
}

func parseLevel(s string) log.Level {
	switch s {
	case "debug":
		return log.DebugLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

func waitForSignal(cancel context.CancelFunc) {
	var sigCh = make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	cancel()
}
