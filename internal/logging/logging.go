// Package logging wires every subsystem into one charmbracelet/log root,
// replacing Dire Wolf's text_color_set convention with real levels.
package logging

import (
	"os"

	"github.com/charmbracelet/log"
)

var root = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	TimeFormat:      "15:04:05.000",
})

// SetLevel sets the default level from an environment-style verbosity flag.
func SetLevel(level log.Level) {
	root.SetLevel(level)
}

// For returns a logger scoped to a single component, e.g. "spectral" or "ota".
func For(component string) *log.Logger {
	return root.With("component", component)
}
