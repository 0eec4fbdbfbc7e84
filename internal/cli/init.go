package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kvplot/kvplot/internal/config"
	"github.com/kvplot/kvplot/internal/errors"
)

var initForce bool

// initCmd creates a new .kvplot.yaml configuration
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create .kvplot.yaml configuration",
	Long: `Initialize a new kvplot configuration file.

Creates a .kvplot.yaml file in the current directory, guiding you
through source and chart settings with interactive prompts.

Examples:
  kvplot init
  kvplot init --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Init(InitOptions{Overwrite: initForce})
	},
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing config")
	rootCmd.AddCommand(initCmd)
}

// InitOptions holds options for the init command.
type InitOptions struct {
	Overwrite bool
}

// Init creates a new .kvplot.yaml configuration file.
func Init(opts InitOptions) error {
	configPath := filepath.Join(".", config.ConfigFileName)

	if _, err := os.Stat(configPath); err == nil && !opts.Overwrite {
		var overwrite bool

		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", config.ConfigFileName)).
					Value(&overwrite),
			),
		)

		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}

		if !overwrite {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	var (
		sourceKind = "stdin"
		command    string
		interval   = "1s"
		window     = "1m"
		scaleMode  = "linear"
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Input source").
				Description("Where do key=value lines come from?").
				Options(
					huh.NewOption("Piped stdin (producer | kvplot)", "stdin"),
					huh.NewOption("Long-running command", "cmd"),
					huh.NewOption("Command polled on an interval", "poll"),
					huh.NewOption("Named pipe", "pipe"),
				).
				Value(&sourceKind),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Command or pipe path").
				Placeholder("tail -f stats.log  or  /tmp/metrics.fifo").
				Value(&command).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("a command or path is required")
					}
					return nil
				}),
		).WithHideFunc(func() bool { return sourceKind == "stdin" }),
		huh.NewGroup(
			huh.NewInput().
				Title("Poll interval").
				Description("How often to re-run the command").
				Placeholder("1s").
				Value(&interval).
				Validate(validateDuration),
		).WithHideFunc(func() bool { return sourceKind != "poll" }),
		huh.NewGroup(
			huh.NewInput().
				Title("Visible window").
				Description("Time span shown on screen").
				Placeholder("1m").
				Value(&window).
				Validate(validateDuration),
			huh.NewSelect[string]().
				Title("Scale").
				Options(
					huh.NewOption("Linear", "linear"),
					huh.NewOption("Asinh (compresses spikes)", "asinh"),
				).
				Value(&scaleMode),
		),
	)

	if err := form.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input",
			"Check terminal compatibility")
	}

	file := starterConfig(sourceKind, command, interval, window, scaleMode)

	data, err := yaml.Marshal(file)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to generate config",
			"This shouldn't happen - please report this bug")
	}

	header := `# kvplot configuration
# Pipe key=value lines in, or configure sources below.
# Run 'kvplot' to start plotting.

`
	content := header + string(data)

	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Failed to write config file: %s", configPath),
			"Check directory permissions")
	}

	fmt.Printf("Created %s\n\n", configPath)
	fmt.Println("Next steps:")
	fmt.Println("  kvplot                 - start plotting")
	fmt.Println("  kvplot --window 5m     - widen the visible window")

	return nil
}

func validateDuration(s string) error {
	if _, err := time.ParseDuration(s); err != nil {
		return fmt.Errorf("use a duration like 500ms, 2s, or 5m")
	}
	return nil
}

// fileConfig mirrors config.Config with string durations so the
// generated YAML reads as "1m" rather than raw nanosecond counts.
type fileConfig struct {
	Version int          `yaml:"version"`
	Sources []fileSource `yaml:"sources,omitempty"`
	History fileHistory  `yaml:"history"`
	Chart   fileChart    `yaml:"chart"`
	Ingest  fileIngest   `yaml:"ingest"`
}

type fileSource struct {
	Cmd      string `yaml:"cmd,omitempty"`
	Poll     string `yaml:"poll,omitempty"`
	Interval string `yaml:"interval,omitempty"`
	Pipe     string `yaml:"pipe,omitempty"`
}

type fileHistory struct {
	Capacity int `yaml:"capacity"`
}

type fileChart struct {
	Window string `yaml:"window"`
	Tick   string `yaml:"tick"`
	Scale  string `yaml:"scale"`
}

type fileIngest struct {
	FreezeOnPause bool   `yaml:"freeze_on_pause"`
	BufferSize    int    `yaml:"buffer_size"`
	Grace         string `yaml:"grace"`
}

// starterConfig builds the file content from form answers, falling back
// to defaults for anything left unset.
func starterConfig(kind, command, interval, window, scaleMode string) fileConfig {
	def := config.DefaultConfig()

	file := fileConfig{
		Version: def.Version,
		History: fileHistory{Capacity: def.History.Capacity},
		Chart: fileChart{
			Window: def.Chart.Window.String(),
			Tick:   def.Chart.Tick.String(),
			Scale:  scaleMode,
		},
		Ingest: fileIngest{
			FreezeOnPause: def.Ingest.FreezeOnPause,
			BufferSize:    def.Ingest.BufferSize,
			Grace:         def.Ingest.Grace.String(),
		},
	}
	if d, err := time.ParseDuration(window); err == nil {
		file.Chart.Window = d.String()
	}

	switch kind {
	case "cmd":
		file.Sources = []fileSource{{Cmd: command}}
	case "poll":
		file.Sources = []fileSource{{Poll: command, Interval: interval}}
	case "pipe":
		file.Sources = []fileSource{{Pipe: command}}
	}
	return file
}
