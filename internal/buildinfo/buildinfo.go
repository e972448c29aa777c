// Package buildinfo formats the firmware's build identifier for the startup
// log line, using the same strftime-style formatter the teacher
// declares (previously unwired in the teacher's own code).
package buildinfo

import (
	"fmt"
	"time"

	"github.com/lestrrat-go/strftime"
)

// TimestampFormat is the strftime pattern build identifiers are rendered
// with: "2026-07-31 14:03:00".
const TimestampFormat = "%Y-%m-%d %H:%M:%S"

// String returns a human-readable build identifier combining version and
// the build timestamp, e.g. "diskomator-fw v1 (built 2026-07-31 14:03:00)".
func String(version uint32, builtAt time.Time) (string, error) {
	var f, err = strftime.New(TimestampFormat)
	if err != nil {
		return "", fmt.Errorf("buildinfo: compile format: %w", err)
	}

	return fmt.Sprintf("diskomator-fw v%d (built %s)", version, f.FormatString(builtAt)), nil
}
