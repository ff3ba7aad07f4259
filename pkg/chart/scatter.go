package chart

import (
	"fmt"
	"image/color"
	"math"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ScatterOptions configures the scatter plot.
type ScatterOptions struct {
	X, Y   string
	Alpha  float64
	Title  string
	XLabel string
	YLabel string
}

// DefaultScatterOptions returns the median income against price settings.
func DefaultScatterOptions() ScatterOptions {
	return ScatterOptions{
		X:      "MedInc",
		Y:      "PRICE",
		Alpha:  0.5,
		Title:  "Median Income vs House Price",
		XLabel: "Median Income",
		YLabel: "Price ($100,000s)",
	}
}

// Scatter plots column X against column Y with semi-transparent points.
func Scatter(df dataframe.DataFrame, opts ScatterOptions) (*plot.Plot, error) {
	xs, err := column(df, opts.X)
	if err != nil {
		return nil, err
	}
	ys, err := column(df, opts.Y)
	if err != nil {
		return nil, err
	}
	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, fmt.Errorf("scatter of %s against %s: %w", opts.X, opts.Y, err)
	}
	s.GlyphStyle.Color = withAlpha(steelBlue, opts.Alpha)
	s.GlyphStyle.Shape = draw.CircleGlyph{}
	s.GlyphStyle.Radius = vg.Points(1.5)

	p := newPlot(opts.Title, opts.XLabel, opts.YLabel)
	grid := plotter.NewGrid()
	grid.Vertical.Color = gridGray
	grid.Horizontal.Color = gridGray
	p.Add(grid, s)
	return p, nil
}

// withAlpha returns c with its opacity set to alpha, clamped to [0, 1].
func withAlpha(c color.RGBA, alpha float64) color.NRGBA {
	alpha = math.Max(0, math.Min(1, alpha))
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(alpha * 255))}
}
