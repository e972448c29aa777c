package usbaudio

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/jochenvg/go-udev"
)

// WatchHotplug watches for USB sound-card attach/detach events, logging
// each transition. It stands in for the firmware's stream.wait_connection
// loop: rather than a USB device-class callback, a host process watches
// udev for the card appearing and disappearing.
func WatchHotplug(ctx context.Context, logger *log.Logger, onChange func(attached bool)) error {
	var u = udev.Udev{}

	var monitor = u.NewMonitorFromNetlink("udev")
	if err := monitor.FilterAddMatchSubsystem("sound"); err != nil {
		return err
	}

	var deviceChan, errChan, err = monitor.DeviceChan(ctx)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errChan:
			logger.Error("udev monitor error", "error", err)
		case dev := <-deviceChan:
			if dev == nil {
				continue
			}

			if dev.Action() != "add" && dev.Action() != "remove" {
				continue
			}

			var attached = dev.Action() == "add"

			logger.Info("USB audio hotplug event", "action", dev.Action(), "device", dev.Syspath())
			onChange(attached)
		}
	}
}
