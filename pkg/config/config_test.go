package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"

	"housingeda/pkg/data"
)

func TestDefault_MatchesFixedParameters(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Output.Dir != "." || cfg.Output.DPI != 300 || !cfg.Output.Tight {
		t.Errorf("output = %+v", cfg.Output)
	}
	if cfg.Chart.Bins != 50 || cfg.Chart.ScatterAlpha != 0.5 || cfg.Chart.ScatterFeature != "MedInc" {
		t.Errorf("chart = %+v", cfg.Chart)
	}
	if cfg.Data.URL != data.ArchiveURL || cfg.Data.SHA256 != data.ArchiveSHA256 || cfg.Data.Timeout != 2*time.Minute {
		t.Errorf("data = %+v", cfg.Data)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "housing.yaml")
	body := "output:\n  dir: charts\n  dpi: 72\nchart:\n  scatter_feature: HouseAge\ndata:\n  timeout: 30s\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HOUSING_OUTPUT_DPI", "150")
	t.Setenv("HOUSING_LOG_LEVEL", "debug")

	cfg, err := Load(viper.New(), path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Output.Dir != "charts" {
		t.Errorf("dir = %q, want charts", cfg.Output.Dir)
	}
	if cfg.Output.DPI != 150 {
		t.Errorf("dpi = %d, want env override 150", cfg.Output.DPI)
	}
	if cfg.Chart.ScatterFeature != "HouseAge" || cfg.Data.Timeout != 30*time.Second {
		t.Errorf("cfg = %+v", cfg)
	}
	if l, _ := cfg.Level(); l != slog.LevelDebug {
		t.Errorf("level = %v, want debug", l)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(viper.New(), filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"empty dir":        func(c *Config) { c.Output.Dir = " " },
		"zero dpi":         func(c *Config) { c.Output.DPI = 0 },
		"huge dpi":         func(c *Config) { c.Output.DPI = 5000 },
		"no bins":          func(c *Config) { c.Chart.Bins = 0 },
		"alpha":            func(c *Config) { c.Chart.ScatterAlpha = 1.5 },
		"feature":          func(c *Config) { c.Chart.ScatterFeature = "PRICE" },
		"negative timeout": func(c *Config) { c.Data.Timeout = -time.Second },
		"log level":        func(c *Config) { c.Log.Level = "chatty" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected a validation error")
			}
		})
	}
}

func TestNewLogger_Level(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "warn"
	var buf bytes.Buffer
	log := cfg.NewLogger(&buf)
	log.Info("hidden")
	log.Warn("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Fatalf("unexpected log output: %q", out)
	}
}
