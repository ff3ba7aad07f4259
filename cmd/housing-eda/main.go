// Command housing-eda runs the exploratory analysis of the California
// housing dataset: it writes three charts and prints summary tables.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"housingeda/pkg/config"
	"housingeda/pkg/pipeline"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "housing-eda: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	v := viper.New()
	var cfgPath string

	cmd := &cobra.Command{
		Use:           "housing-eda",
		Short:         "Plot and summarize the California housing dataset",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("load .env: %w", err)
			}
			cfg, err := config.Load(v, cfgPath)
			if err != nil {
				return err
			}
			log := cfg.NewLogger(stderr)
			p := pipeline.New(cfg, pipeline.WithOutput(stdout), pipeline.WithLogger(log))
			_, err = p.Run(cmd.Context())
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfgPath, "config", "", "YAML config file (default ./housing.yaml if present)")
	f.String("out", "", "directory the PNG files are written to")
	f.String("data-file", "", "read the dataset from this .data or .tgz file instead of the cache")
	f.String("data-home", "", "dataset cache directory (default ~/housing_data)")
	f.Bool("offline", false, "fail instead of downloading when the dataset is not cached")
	f.String("log-level", "", "debug, info, warn or error")

	for key, name := range map[string]string{
		"output.dir":   "out",
		"data.file":    "data-file",
		"data.home":    "data-home",
		"data.offline": "offline",
		"log.level":    "log-level",
	} {
		if err := v.BindPFlag(key, f.Lookup(name)); err != nil {
			panic(err)
		}
	}
	return cmd
}
