package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	"housingeda/pkg/chart"
	"housingeda/pkg/config"
	"housingeda/pkg/data"
	"housingeda/pkg/report"
	"housingeda/pkg/stats"
)

// Output file names.
const (
	DistributionFile = "distribution_plot.png"
	ScatterFile      = "scatter_plot.png"
	HeatmapFile      = "heatmap.png"
)

// Loader produces the dataset for a run.
type Loader func(ctx context.Context) (dataframe.DataFrame, error)

// Result is what a run produced.
type Result struct {
	Describe    dataframe.DataFrame
	Correlation dataframe.DataFrame
	Files       []string
}

// Pipeline loads the dataset, renders the charts, computes the statistics,
// saves the charts and prints the tables.
type Pipeline struct {
	cfg    config.Config
	load   Loader
	schema Schema
	out    io.Writer
	log    *slog.Logger
}

// Option functional config
type Option func(*Pipeline)

func WithLoader(l Loader) Option      { return func(p *Pipeline) { p.load = l } }
func WithOutput(w io.Writer) Option   { return func(p *Pipeline) { p.out = w } }
func WithLogger(l *slog.Logger) Option { return func(p *Pipeline) { p.log = l } }
func WithSchema(s Schema) Option      { return func(p *Pipeline) { p.schema = s } }

// New returns a pipeline for cfg that reads the California dataset, prints
// to stdout and logs through slog.Default unless overridden.
func New(cfg config.Config, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:    cfg,
		schema: CaliforniaSchema,
		out:    os.Stdout,
		log:    slog.Default(),
	}
	for _, o := range opts {
		o(p)
	}
	if p.load == nil {
		p.load = p.loadCalifornia
	}
	return p
}

func (p *Pipeline) loadCalifornia(ctx context.Context) (dataframe.DataFrame, error) {
	d := p.cfg.Data
	return data.LoadCalifornia(ctx, data.Options{
		Home:    d.Home,
		URL:     d.URL,
		SHA256:  d.SHA256,
		File:    d.File,
		Offline: d.Offline,
		Timeout: d.Timeout,
		Logger:  p.log,
	})
}

// figure pairs a renderer with the file and size it is saved at.
type figure struct {
	file   string
	width  vg.Length
	height vg.Length
	render func(dataframe.DataFrame) (*plot.Plot, error)
}

func (p *Pipeline) figures() []figure {
	dist := chart.DefaultDistributionOptions()
	dist.Bins = p.cfg.Chart.Bins

	scatter := chart.DefaultScatterOptions()
	scatter.Alpha = p.cfg.Chart.ScatterAlpha
	if f := p.cfg.Chart.ScatterFeature; f != "" && f != scatter.X {
		scatter.X = f
		scatter.XLabel = f
		scatter.Title = f + " vs House Price"
	}

	heat := chart.DefaultHeatmapOptions()

	return []figure{
		{DistributionFile, 10 * vg.Inch, 6 * vg.Inch, func(df dataframe.DataFrame) (*plot.Plot, error) { return chart.Distribution(df, dist) }},
		{ScatterFile, 10 * vg.Inch, 6 * vg.Inch, func(df dataframe.DataFrame) (*plot.Plot, error) { return chart.Scatter(df, scatter) }},
		{HeatmapFile, 12 * vg.Inch, 10 * vg.Inch, func(df dataframe.DataFrame) (*plot.Plot, error) { return chart.Heatmap(df, heat) }},
	}
}

// Run executes the analysis once. Any failure aborts the run.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := time.Now()

	df, err := p.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	if err := p.schema.Validate(df); err != nil {
		return nil, fmt.Errorf("validate dataset: %w", err)
	}
	p.log.Info("dataset loaded", "rows", df.Nrow(), "columns", df.Ncol())

	figs := p.figures()
	plots := make([]*plot.Plot, len(figs))
	for i, f := range figs {
		pl, err := f.render(df)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", f.file, err)
		}
		plots[i] = pl
	}

	describe, corr, err := stats.GenerateStatistics(df)
	if err != nil {
		return nil, fmt.Errorf("generate statistics: %w", err)
	}

	dir := p.cfg.Output.Dir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	res := &Result{Describe: describe, Correlation: corr}
	for i, f := range figs {
		path := filepath.Join(dir, f.file)
		fig := chart.Figure{Width: f.width, Height: f.height, DPI: p.cfg.Output.DPI, Tight: p.cfg.Output.Tight}
		if err := chart.Save(plots[i], path, fig); err != nil {
			return nil, fmt.Errorf("save chart: %w", err)
		}
		p.log.Info("saved chart", "path", path)
		res.Files = append(res.Files, path)
	}

	if err := report.PrintTable(p.out, "Descriptive Statistics:", describe, report.DefaultPrecision); err != nil {
		return nil, err
	}
	if err := report.PrintTable(p.out, "Correlation Matrix:", corr, report.DefaultPrecision); err != nil {
		return nil, err
	}

	p.log.Debug("analysis finished", "took", time.Since(start).Round(time.Millisecond))
	return res, nil
}
