package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvplot/kvplot/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
version: 1
sources:
  - cmd: "tail -f /var/log/stats.log"
  - poll: "cat /proc/loadavg | awk '{print \"load=\" $1}'"
    interval: 2s
  - pipe: /tmp/metrics.fifo
history:
  capacity: 7200
chart:
  window: 5m
  tick: 100ms
  scale: asinh
ingest:
  freeze_on_pause: true
  buffer_size: 1024
  drain_max: 256
  grace: 5s
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Len(t, cfg.Sources, 3)
	assert.Equal(t, "tail -f /var/log/stats.log", cfg.Sources[0].Cmd)
	assert.Equal(t, 2*time.Second, cfg.Sources[1].Interval)
	assert.Equal(t, "/tmp/metrics.fifo", cfg.Sources[2].Pipe)

	assert.Equal(t, 7200, cfg.History.Capacity)
	assert.Equal(t, 5*time.Minute, cfg.Chart.Window)
	assert.Equal(t, 100*time.Millisecond, cfg.Chart.Tick)
	assert.Equal(t, "asinh", cfg.Chart.Scale)

	assert.True(t, cfg.Ingest.FreezeOnPause)
	assert.Equal(t, 1024, cfg.Ingest.BufferSize)
	assert.Equal(t, 256, cfg.Ingest.DrainMax)
	assert.Equal(t, 5*time.Second, cfg.Ingest.Grace)
}

func TestLoadMergesDefaults(t *testing.T) {
	path := writeConfig(t, `
version: 1
chart:
  window: 30s
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Chart.Window)
	// Unset sections keep their defaults.
	assert.Equal(t, 250*time.Millisecond, cfg.Chart.Tick)
	assert.Equal(t, "linear", cfg.Chart.Scale)
	assert.Equal(t, 3600, cfg.History.Capacity)
	assert.Equal(t, 4096, cfg.Ingest.BufferSize)
	assert.Equal(t, 2*time.Second, cfg.Ingest.Grace)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "chart: [not: valid")
	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestFindExplicitMissing(t *testing.T) {
	_, err := Find(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoadOrDefaultWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Chart, cfg.Chart)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name: "future version",
			mutate: func(c *Config) {
				c.Version = CurrentConfigVersion + 1
			},
			wantErr: "from the future",
		},
		{
			name: "source with nothing set",
			mutate: func(c *Config) {
				c.Sources = []SourceConfig{{}}
			},
			wantErr: "needs one of",
		},
		{
			name: "source with cmd and pipe",
			mutate: func(c *Config) {
				c.Sources = []SourceConfig{{Cmd: "uptime", Pipe: "/tmp/f"}}
			},
			wantErr: "pick one",
		},
		{
			name: "interval without poll",
			mutate: func(c *Config) {
				c.Sources = []SourceConfig{{Cmd: "uptime", Interval: time.Second}}
			},
			wantErr: "isn't a 'poll' source",
		},
		{
			name: "zero history capacity",
			mutate: func(c *Config) {
				c.History.Capacity = 0
			},
			wantErr: "history.capacity",
		},
		{
			name: "negative window",
			mutate: func(c *Config) {
				c.Chart.Window = -time.Second
			},
			wantErr: "chart.window",
		},
		{
			name: "zero tick",
			mutate: func(c *Config) {
				c.Chart.Tick = 0
			},
			wantErr: "chart.tick",
		},
		{
			name: "unknown scale",
			mutate: func(c *Config) {
				c.Chart.Scale = "log10"
			},
			wantErr: "chart.scale",
		},
		{
			name: "negative drain max",
			mutate: func(c *Config) {
				c.Ingest.DrainMax = -1
			},
			wantErr: "drain_max",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.True(t, errors.IsCode(err, errors.ErrConfig))
		})
	}
}
