// Package chart renders the housing charts with gonum/plot and writes them
// as PNG images.
package chart

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// ErrMissingColumn is returned when a chart needs a column the table lacks.
var ErrMissingColumn = errors.New("chart: missing column")

var (
	steelBlue = color.RGBA{R: 70, G: 130, B: 180, A: 255}
	gridGray  = color.Gray{Y: 220}
)

// Figure describes how a plot is written to disk.
type Figure struct {
	Width, Height vg.Length
	DPI           int
	// Tight crops the uniform background border, keeping a tenth of an
	// inch of padding.
	Tight bool
}

// column returns the named float column of df.
func column(df dataframe.DataFrame, name string) ([]float64, error) {
	if df.Err != nil {
		return nil, df.Err
	}
	for _, n := range df.Names() {
		if n == name {
			return df.Col(name).Float(), nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
}

// newPlot returns a plot with the title and axis labels set.
func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.Padding = vg.Points(8)
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	return p
}

// Render draws p onto an in-memory image of the figure's size.
func Render(p *plot.Plot, fig Figure) image.Image {
	c := vgimg.NewWith(vgimg.UseWH(fig.Width, fig.Height), vgimg.UseDPI(fig.DPI))
	p.Draw(draw.New(c))
	img := c.Image()
	if !fig.Tight {
		return img
	}
	return Crop(img, color.White, fig.DPI/10)
}

// Save renders p and writes it to path as a PNG.
func Save(p *plot.Plot, path string, fig Figure) error {
	img := Render(p, fig)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Crop trims the border of img made only of bg pixels, leaving pad pixels
// on every side where the image allows it. An image that is all background
// is returned unchanged.
func Crop(img image.Image, bg color.Color, pad int) image.Image {
	bounds := img.Bounds()
	br, bgc, bb, ba := bg.RGBA()
	isBg := func(x, y int) bool {
		r, g, b, a := img.At(x, y).RGBA()
		return r == br && g == bgc && b == bb && a == ba
	}

	minX, minY, maxX, maxY := bounds.Max.X, bounds.Max.Y, bounds.Min.X-1, bounds.Min.Y-1
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if isBg(x, y) {
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}
	if maxX < minX {
		return img
	}

	r := image.Rect(minX-pad, minY-pad, maxX+1+pad, maxY+1+pad).Intersect(bounds)
	if sub, ok := img.(interface {
		SubImage(image.Rectangle) image.Image
	}); ok {
		return sub.SubImage(r)
	}
	return img
}
