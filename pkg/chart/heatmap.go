package chart

import (
	"fmt"
	"image/color"
	"math"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"

	"housingeda/pkg/stats"
)

// HeatmapOptions configures the correlation heatmap.
type HeatmapOptions struct {
	Title string
	// Min and Max fix the ends of the colour scale; Center is where it
	// turns from blue to red.
	Min, Max, Center float64
	// Precision is the number of decimals of each cell annotation.
	Precision int
	Colors    int
}

// DefaultHeatmapOptions returns a [-1, 1] scale centred at 0 with two-decimal annotations.
func DefaultHeatmapOptions() HeatmapOptions {
	return HeatmapOptions{
		Title:     "Feature Correlation Heatmap",
		Min:       -1,
		Max:       1,
		Center:    0,
		Precision: 2,
		Colors:    256,
	}
}

// corrGrid lays a correlation matrix out as a plotter.GridXYZ with the
// first matrix row at the top.
type corrGrid struct {
	m *mat.SymDense
	n int
}

func (g corrGrid) Dims() (c, r int)   { return g.n, g.n }
func (g corrGrid) Z(c, r int) float64 { return g.m.At(g.n-1-r, c) }
func (g corrGrid) X(c int) float64    { return float64(c) }
func (g corrGrid) Y(r int) float64    { return float64(r) }

// Heatmap computes the correlation matrix of df and plots it as an
// annotated heatmap.
func Heatmap(df dataframe.DataFrame, opts HeatmapOptions) (*plot.Plot, error) {
	names, corr, err := stats.Correlate(df)
	if err != nil {
		return nil, fmt.Errorf("heatmap: %w", err)
	}
	if opts.Max <= opts.Min {
		return nil, fmt.Errorf("chart: heatmap scale [%v, %v] is empty", opts.Min, opts.Max)
	}
	if opts.Colors < 2 {
		opts.Colors = 2
	}

	cm := moreland.SmoothBlueRed()
	cm.SetMin(opts.Min)
	cm.SetMax(opts.Max)
	cm.SetConvergePoint(opts.Center)

	grid := corrGrid{m: corr, n: len(names)}
	hm := plotter.NewHeatMap(grid, cm.Palette(opts.Colors))
	hm.Min, hm.Max = opts.Min, opts.Max
	hm.NaN = color.Gray{Y: 200}

	labels, err := cellLabels(grid, opts.Precision)
	if err != nil {
		return nil, err
	}

	p := newPlot(opts.Title, "", "")
	p.Add(hm, labels)

	rev := make([]string, len(names))
	for i, n := range names {
		rev[len(names)-1-i] = n
	}
	p.NominalX(names...)
	p.NominalY(rev...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = text.XRight
	p.X.Tick.Label.YAlign = text.YCenter
	p.X.LineStyle.Width = 0
	p.Y.LineStyle.Width = 0
	return p, nil
}

// cellLabels writes each correlation into its cell, in white on the darker
// end of the scale.
func cellLabels(g corrGrid, precision int) (*plotter.Labels, error) {
	cells := plotter.XYLabels{
		XYs:    make(plotter.XYs, 0, g.n*g.n),
		Labels: make([]string, 0, g.n*g.n),
	}
	var values []float64
	for r := 0; r < g.n; r++ {
		for c := 0; c < g.n; c++ {
			v := g.Z(c, r)
			cells.XYs = append(cells.XYs, plotter.XY{X: g.X(c), Y: g.Y(r)})
			cells.Labels = append(cells.Labels, strconv.FormatFloat(v, 'f', precision, 64))
			values = append(values, v)
		}
	}
	l, err := plotter.NewLabels(cells)
	if err != nil {
		return nil, fmt.Errorf("heatmap labels: %w", err)
	}
	for i := range l.TextStyle {
		l.TextStyle[i].XAlign = text.XCenter
		l.TextStyle[i].YAlign = text.YCenter
		if math.Abs(values[i]) > 0.6 {
			l.TextStyle[i].Color = color.White
		} else {
			l.TextStyle[i].Color = color.Black
		}
	}
	return l, nil
}
