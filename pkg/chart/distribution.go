package chart

import (
	"fmt"
	"image/color"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// DistributionOptions configures the histogram.
type DistributionOptions struct {
	Column string
	Bins   int
	Title  string
	XLabel string
	YLabel string
}

// DefaultDistributionOptions returns the house price histogram settings.
func DefaultDistributionOptions() DistributionOptions {
	return DistributionOptions{
		Column: "PRICE",
		Bins:   50,
		Title:  "Distribution of House Prices",
		XLabel: "Price ($100,000s)",
		YLabel: "Frequency",
	}
}

// Distribution plots a histogram of one column.
func Distribution(df dataframe.DataFrame, opts DistributionOptions) (*plot.Plot, error) {
	vals, err := column(df, opts.Column)
	if err != nil {
		return nil, err
	}
	if opts.Bins < 1 {
		return nil, fmt.Errorf("chart: histogram needs at least one bin, got %d", opts.Bins)
	}
	h, err := plotter.NewHist(plotter.Values(vals), opts.Bins)
	if err != nil {
		return nil, fmt.Errorf("histogram of %s: %w", opts.Column, err)
	}
	h.FillColor = steelBlue
	h.LineStyle.Color = color.White
	h.LineStyle.Width = vg.Points(0.5)

	p := newPlot(opts.Title, opts.XLabel, opts.YLabel)
	grid := plotter.NewGrid()
	grid.Vertical.Color = gridGray
	grid.Horizontal.Color = gridGray
	p.Add(grid, h)
	return p, nil
}
