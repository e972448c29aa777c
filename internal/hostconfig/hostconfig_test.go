package hostconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOverridesDefaultsFromFile(t *testing.T) {
	var dir = t.TempDir()
	var path = filepath.Join(dir, "host.yaml")

	require.NoError(t, os.WriteFile(path, []byte("audio_backend: pcm\nlog_level: debug\n"), 0o644))

	var cfg, err = Load(path)
	require.NoError(t, err)

	assert.Equal(t, "pcm", cfg.AudioBackend)
	assert.Equal(t, "debug", cfg.LogLevel)
	// Untouched fields keep their default values.
	assert.Equal(t, "softgatt", cfg.BLETransport)
}

func TestLoadMissingFileErrors(t *testing.T) {
	var _, err = Load("/nonexistent/host.yaml")
	assert.Error(t, err)
}

func TestDefaultIsInternallyConsistent(t *testing.T) {
	var cfg = Default()
	assert.Equal(t, "synth", cfg.AudioBackend)
	assert.Less(t, cfg.SweepStartHz, cfg.SweepEndHz)
}
