package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"

	"housingeda/pkg/data"
)

// EnvPrefix prefixes environment overrides, e.g. HOUSING_OUTPUT_DIR.
const EnvPrefix = "HOUSING"

// Config is the full run configuration.
type Config struct {
	Output OutputConfig `mapstructure:"output"`
	Data   DataConfig   `mapstructure:"data"`
	Chart  ChartConfig  `mapstructure:"chart"`
	Log    LogConfig    `mapstructure:"log"`
}

// OutputConfig controls where and how the charts are written.
type OutputConfig struct {
	Dir   string `mapstructure:"dir"`
	DPI   int    `mapstructure:"dpi"`
	Tight bool   `mapstructure:"tight"`
}

// DataConfig locates the dataset and controls downloading.
type DataConfig struct {
	Home    string        `mapstructure:"home"`
	URL     string        `mapstructure:"url"`
	SHA256  string        `mapstructure:"sha256"`
	File    string        `mapstructure:"file"`
	Offline bool          `mapstructure:"offline"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ChartConfig tunes the histogram and scatter plot.
type ChartConfig struct {
	Bins           int     `mapstructure:"bins"`
	ScatterFeature string  `mapstructure:"scatter_feature"`
	ScatterAlpha   float64 `mapstructure:"scatter_alpha"`
}

// LogConfig sets the logger level.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// SetDefaults registers the fixed analysis parameters as defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("output.dir", ".")
	v.SetDefault("output.dpi", 300)
	v.SetDefault("output.tight", true)
	v.SetDefault("data.home", "")
	v.SetDefault("data.url", data.ArchiveURL)
	v.SetDefault("data.sha256", data.ArchiveSHA256)
	v.SetDefault("data.file", "")
	v.SetDefault("data.offline", false)
	v.SetDefault("data.timeout", 2*time.Minute)
	v.SetDefault("chart.bins", 50)
	v.SetDefault("chart.scatter_feature", "MedInc")
	v.SetDefault("chart.scatter_alpha", 0.5)
	v.SetDefault("log.level", "info")
}

// Load reads the configuration: defaults, then the YAML file at path (or
// ./housing.yaml when path is empty and the file exists), then HOUSING_*
// environment variables, then any flags already bound to v.
func Load(v *viper.Viper, path string) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("housing")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	v := viper.New()
	SetDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return cfg
}

// Validate rejects values the analysis cannot run with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Output.Dir) == "" {
		return errors.New("output.dir is required")
	}
	if c.Output.DPI < 1 || c.Output.DPI > 1200 {
		return fmt.Errorf("output.dpi must be between 1 and 1200, got %d", c.Output.DPI)
	}
	if c.Chart.Bins < 1 {
		return fmt.Errorf("chart.bins must be positive, got %d", c.Chart.Bins)
	}
	if c.Chart.ScatterAlpha <= 0 || c.Chart.ScatterAlpha > 1 {
		return fmt.Errorf("chart.scatter_alpha must be in (0, 1], got %v", c.Chart.ScatterAlpha)
	}
	if !slices.Contains(data.FeatureNames, c.Chart.ScatterFeature) {
		return fmt.Errorf("chart.scatter_feature %q is not one of %v", c.Chart.ScatterFeature, data.FeatureNames)
	}
	if c.Data.Timeout < 0 {
		return fmt.Errorf("data.timeout must not be negative, got %s", c.Data.Timeout)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses log.level.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(c.Log.Level))); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return l, nil
}

// NewLogger returns a text logger writing to w at the configured level.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	l, err := c.Level()
	if err != nil {
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l}))
}
