// Package cli implements the kvplot command-line interface.
//
// The root command runs the chart. Producers come from three places,
// in precedence order: source flags (--cmd/--poll/--pipe), the config
// file's sources list, and piped standard input, which is always added
// when present. The init and version subcommands are defined in their
// own files.
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/kvplot/kvplot/internal/app"
	"github.com/kvplot/kvplot/internal/config"
	"github.com/kvplot/kvplot/internal/errors"
	"github.com/kvplot/kvplot/internal/logger"
	"github.com/kvplot/kvplot/internal/series"
	"github.com/kvplot/kvplot/internal/source"
)

// Root command flags.
var (
	configFlag        string
	cmdFlags          []string
	pollFlags         []string
	pipeFlags         []string
	pollIntervalFlag  time.Duration
	historyFlag       int
	windowFlag        time.Duration
	tickFlag          time.Duration
	scaleFlag         string
	freezeOnPauseFlag bool
)

// rootCmd runs the live chart.
var rootCmd = &cobra.Command{
	Use:   "kvplot",
	Short: "Live terminal charts from key=value text streams",
	Long: `Plot streamed key=value lines as live, zoomable terminal charts.

Each input line holds one or more key=value pairs separated by ';'.
Every distinct key becomes its own colored series.

Examples:
  my-daemon --stats | kvplot
  kvplot --cmd "tail -f /var/log/stats.log"
  kvplot --poll "free -m | awk 'NR==2{print \"used=\" $3}'" --poll-interval 2s
  kvplot --pipe /tmp/metrics.fifo --window 5m --scale asinh`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return plotCommand(cmd)
	},
}

// Execute runs the CLI and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "config file path")

	rootCmd.Flags().StringArrayVar(&cmdFlags, "cmd", nil, "long-running command whose stdout is charted (repeatable)")
	rootCmd.Flags().StringArrayVar(&pollFlags, "poll", nil, "command re-invoked on an interval (repeatable)")
	rootCmd.Flags().DurationVar(&pollIntervalFlag, "poll-interval", time.Second, "interval between --poll invocations")
	rootCmd.Flags().StringArrayVar(&pipeFlags, "pipe", nil, "named pipe or file to read lines from (repeatable)")
	rootCmd.Flags().IntVar(&historyFlag, "history", 0, "samples retained per series")
	rootCmd.Flags().DurationVar(&windowFlag, "window", 0, "visible time window (e.g. 30s, 5m)")
	rootCmd.Flags().DurationVar(&tickFlag, "tick", 0, "redraw interval")
	rootCmd.Flags().StringVar(&scaleFlag, "scale", "", "scale mode: linear or asinh")
	rootCmd.Flags().BoolVar(&freezeOnPauseFlag, "freeze-ingest-on-pause", false, "stop consuming producer output while paused")
}

// plotCommand wires config, producers, and the event loop together.
func plotCommand(cmd *cobra.Command) error {
	cfg, err := config.LoadOrDefault(configFlag)
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)
	if err := config.Validate(cfg); err != nil {
		return err
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New(errors.ErrRender,
			"Standard output is not a terminal",
			"kvplot draws an interactive chart; run it in a terminal instead of piping its output")
	}

	sources := buildSources(cfg, stdinIsPiped())
	if len(sources) == 0 {
		return errors.New(errors.ErrConfig,
			"No input sources",
			"Pipe data in (producer | kvplot), or pass --cmd, --poll, or --pipe")
	}

	log := logger.Default()
	bus := source.NewBus(cfg.Ingest.BufferSize)
	group := source.NewGroup(bus, log, sources...)
	store := series.NewStore(cfg.History.Capacity)

	return app.Run(context.Background(), app.Options{
		Store:  store,
		Group:  group,
		Config: cfg,
		Log:    log,
	})
}

// applyFlags overlays explicitly set flags onto the loaded config.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("history") {
		cfg.History.Capacity = historyFlag
	}
	if flags.Changed("window") {
		cfg.Chart.Window = windowFlag
	}
	if flags.Changed("tick") {
		cfg.Chart.Tick = tickFlag
	}
	if flags.Changed("scale") {
		cfg.Chart.Scale = scaleFlag
	}
	if flags.Changed("freeze-ingest-on-pause") {
		cfg.Ingest.FreezeOnPause = freezeOnPauseFlag
	}
}

func stdinIsPiped() bool {
	return !term.IsTerminal(int(os.Stdin.Fd()))
}

// buildSources assembles the producer set. Source flags take precedence
// over the config file's sources list; piped stdin is always included.
func buildSources(cfg *config.Config, stdinPiped bool) []source.Source {
	var out []source.Source

	if len(cmdFlags)+len(pollFlags)+len(pipeFlags) > 0 {
		for _, c := range cmdFlags {
			out = append(out, source.NewCommand(c))
		}
		for _, c := range pollFlags {
			out = append(out, source.NewIntervalCommand(c, pollIntervalFlag))
		}
		for _, p := range pipeFlags {
			out = append(out, source.NewPipe(p))
		}
	} else {
		for _, sc := range cfg.Sources {
			switch {
			case sc.Cmd != "":
				out = append(out, source.NewCommand(sc.Cmd))
			case sc.Poll != "":
				interval := sc.Interval
				if interval <= 0 {
					interval = time.Second
				}
				out = append(out, source.NewIntervalCommand(sc.Poll, interval))
			case sc.Pipe != "":
				out = append(out, source.NewPipe(sc.Pipe))
			}
		}
	}

	if stdinPiped {
		out = append(out, source.NewStdin(os.Stdin))
	}
	return out
}
