// Package panichalt implements the device's only response to a fatal
// condition: log it, then stop forever. There is no recovery path — the
// external watchdog is the backstop.
package panichalt

import "github.com/charmbracelet/log"

// Halt logs msg as fatal and blocks forever. It never returns.
func Halt(logger *log.Logger, msg string, args ...interface{}) {
	logger.Error(msg, args...)

	select {}
}
