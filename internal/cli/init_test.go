package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/kvplot/kvplot/internal/config"
)

func TestStarterConfigRoundTrips(t *testing.T) {
	tests := []struct {
		name string
		kind string
	}{
		{name: "stdin only", kind: "stdin"},
		{name: "long-running command", kind: "cmd"},
		{name: "polled command", kind: "poll"},
		{name: "named pipe", kind: "pipe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := starterConfig(tt.kind, "tail -f x.log", "2s", "5m", "asinh")

			data, err := yaml.Marshal(file)
			require.NoError(t, err)

			// The generated file must load and validate cleanly.
			path := filepath.Join(t.TempDir(), config.ConfigFileName)
			require.NoError(t, os.WriteFile(path, data, 0o644))

			cfg, err := config.Load(path)
			require.NoError(t, err)
			require.NoError(t, config.Validate(cfg))

			assert.Equal(t, 5*time.Minute, cfg.Chart.Window)
			assert.Equal(t, "asinh", cfg.Chart.Scale)
			if tt.kind == "stdin" {
				assert.Empty(t, cfg.Sources)
			} else {
				assert.Len(t, cfg.Sources, 1)
			}
			if tt.kind == "poll" {
				assert.Equal(t, 2*time.Second, cfg.Sources[0].Interval)
			}
		})
	}
}

func TestStarterConfigDurationsAreReadable(t *testing.T) {
	file := starterConfig("stdin", "", "1s", "1m", "linear")

	data, err := yaml.Marshal(file)
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, "window: 1m0s")
	assert.Contains(t, text, "tick: 250ms")
	assert.Contains(t, text, "grace: 2s")
	assert.NotContains(t, text, "60000000000")
}

func TestVersionFormatting(t *testing.T) {
	assert.Equal(t, "dev", formatVersion("dev"))
	assert.Equal(t, "v1.2.3", formatVersion("1.2.3"))
	assert.Equal(t, "v1.2.3", formatVersion("v1.2.3"))
}
