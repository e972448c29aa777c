package ble

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// RSSIPollInterval is how often the background task polls connection RSSI.
const RSSIPollInterval = 2 * time.Second

// RunRSSIMonitor is the "custom task": while connected, polls RSSI every
// RSSIPollInterval, purely informational, and exits as soon as a read
// fails — the implicit signal the connection is gone.
func RunRSSIMonitor(ctx context.Context, logger *log.Logger, ctrl Controller) {
	var ticker = time.NewTicker(RSSIPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			var rssi, err = ctrl.RSSI()
			if err != nil {
				logger.Debug("rssi monitor exiting, read failed", "err", err)

				return
			}

			logger.Debug("rssi", "dbm", rssi)
		}
	}
}
