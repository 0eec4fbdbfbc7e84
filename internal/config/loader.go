package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/kvplot/kvplot/internal/errors"
)

const (
	// ConfigFileName is the default config file name.
	ConfigFileName = ".kvplot.yaml"
	// GlobalConfigDir is the directory for global config.
	GlobalConfigDir = ".config/kvplot"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.yaml"
	// EnvPrefix is the prefix for environment variable overrides.
	EnvPrefix = "KVPLOT"
)

// Load reads config from the specified path.
func Load(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found",
				"Run 'kvplot init' to create a config file, or specify one with --config")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Check the file exists and is valid YAML")
	}

	return parseConfig(v, path)
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. .kvplot.yaml in current directory
// 3. ~/.config/kvplot/config.yaml (global defaults)
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine current directory",
			"Check directory permissions")
	}

	localConfig := filepath.Join(cwd, ConfigFileName)
	if _, err := os.Stat(localConfig); err == nil {
		return localConfig, nil
	}

	if home, _ := os.UserHomeDir(); home != "" {
		globalConfig := filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
		if _, err := os.Stat(globalConfig); err == nil {
			return globalConfig, nil
		}
	}

	return "", nil
}

// LoadOrDefault loads config from the found path, or returns defaults if
// not found. Running with flags alone should never require a config file.
func LoadOrDefault(explicit string) (*Config, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, err
	}

	if path == "" {
		cfg := DefaultConfig()
		if err := applyEnv(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	return Load(path)
}

// newViper builds a viper instance with env overrides wired in.
// KVPLOT_CHART_SCALE=asinh overrides chart.scale, and so on.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// parseConfig converts viper config to our Config struct with defaults merged in.
func parseConfig(v *viper.Viper, path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax in "+path)
	}

	return cfg, nil
}

// applyEnv overlays environment overrides onto cfg when no file was read.
func applyEnv(cfg *Config) error {
	v := newViper()
	if err := v.Unmarshal(cfg); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid environment override",
			"Check KVPLOT_* environment variables")
	}
	return nil
}

// setDefaults registers defaults so env-only overrides merge cleanly.
func setDefaults(v *viper.Viper) {
	def := DefaultConfig()
	v.SetDefault("version", def.Version)
	v.SetDefault("history.capacity", def.History.Capacity)
	v.SetDefault("chart.window", def.Chart.Window.String())
	v.SetDefault("chart.tick", def.Chart.Tick.String())
	v.SetDefault("chart.scale", def.Chart.Scale)
	v.SetDefault("ingest.freeze_on_pause", def.Ingest.FreezeOnPause)
	v.SetDefault("ingest.buffer_size", def.Ingest.BufferSize)
	v.SetDefault("ingest.drain_max", def.Ingest.DrainMax)
	v.SetDefault("ingest.grace", def.Ingest.Grace.String())
}
