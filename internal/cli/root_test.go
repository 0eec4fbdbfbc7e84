package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvplot/kvplot/internal/config"
	"github.com/kvplot/kvplot/internal/source"
)

func resetSourceFlags() {
	cmdFlags = nil
	pollFlags = nil
	pipeFlags = nil
	pollIntervalFlag = time.Second
}

func TestBuildSourcesFromFlags(t *testing.T) {
	resetSourceFlags()
	t.Cleanup(resetSourceFlags)

	cmdFlags = []string{"tail -f a.log"}
	pollFlags = []string{"uptime"}
	pipeFlags = []string{"/tmp/m.fifo"}

	sources := buildSources(config.DefaultConfig(), false)
	require.Len(t, sources, 3)
	assert.IsType(t, &source.Command{}, sources[0])
	assert.IsType(t, &source.IntervalCommand{}, sources[1])
	assert.IsType(t, &source.Pipe{}, sources[2])
}

func TestBuildSourcesFlagsOverrideConfig(t *testing.T) {
	resetSourceFlags()
	t.Cleanup(resetSourceFlags)

	cfg := config.DefaultConfig()
	cfg.Sources = []config.SourceConfig{{Cmd: "from-config"}}

	cmdFlags = []string{"from-flag"}
	sources := buildSources(cfg, false)
	require.Len(t, sources, 1)
	assert.Contains(t, sources[0].Name(), "from-flag")
}

func TestBuildSourcesFromConfig(t *testing.T) {
	resetSourceFlags()
	t.Cleanup(resetSourceFlags)

	cfg := config.DefaultConfig()
	cfg.Sources = []config.SourceConfig{
		{Cmd: "tail -f a.log"},
		{Poll: "uptime", Interval: 5 * time.Second},
		{Pipe: "/tmp/m.fifo"},
	}

	sources := buildSources(cfg, false)
	require.Len(t, sources, 3)
	assert.IsType(t, &source.Command{}, sources[0])
	assert.IsType(t, &source.IntervalCommand{}, sources[1])
	assert.IsType(t, &source.Pipe{}, sources[2])
}

func TestBuildSourcesAddsPipedStdin(t *testing.T) {
	resetSourceFlags()
	t.Cleanup(resetSourceFlags)

	sources := buildSources(config.DefaultConfig(), true)
	require.Len(t, sources, 1)
	assert.Equal(t, "stdin", sources[0].Name())

	// Stdin joins flag sources rather than replacing them.
	cmdFlags = []string{"tail -f a.log"}
	sources = buildSources(config.DefaultConfig(), true)
	assert.Len(t, sources, 2)
}

func TestBuildSourcesEmpty(t *testing.T) {
	resetSourceFlags()
	t.Cleanup(resetSourceFlags)

	assert.Empty(t, buildSources(config.DefaultConfig(), false))
}

func TestApplyFlags(t *testing.T) {
	resetSourceFlags()
	t.Cleanup(resetSourceFlags)

	cfg := config.DefaultConfig()

	require.NoError(t, rootCmd.Flags().Set("history", "7200"))
	require.NoError(t, rootCmd.Flags().Set("window", "5m"))
	require.NoError(t, rootCmd.Flags().Set("scale", "asinh"))

	applyFlags(rootCmd, cfg)

	assert.Equal(t, 7200, cfg.History.Capacity)
	assert.Equal(t, 5*time.Minute, cfg.Chart.Window)
	assert.Equal(t, "asinh", cfg.Chart.Scale)
	// Untouched flags keep config values.
	assert.Equal(t, 250*time.Millisecond, cfg.Chart.Tick)
}
