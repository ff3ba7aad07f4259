// Package report prints statistics tables to the console.
package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
)

// DefaultPrecision is the number of decimals printed for float cells.
const DefaultPrecision = 6

// PrintTable writes title and then df as an aligned text table. String
// cells are printed as they are, float cells with precision decimals. The
// header of a leading string column is left blank, so it reads as a row index.
// The title is colored only when w is a terminal and color.NoColor is unset.
func PrintTable(w io.Writer, title string, df dataframe.DataFrame, precision int) error {
	if df.Err != nil {
		return fmt.Errorf("print %s: %w", title, df.Err)
	}
	if _, err := heading(w).Fprintln(w, title); err != nil {
		return err
	}

	names := df.Names()
	header := append([]string(nil), names...)
	if len(names) > 0 && df.Col(names[0]).Type() == series.String {
		header[0] = ""
	}

	t := tablewriter.NewWriter(w)
	t.SetHeader(header)
	t.SetAutoFormatHeaders(false)
	t.SetAutoWrapText(false)
	t.SetAlignment(tablewriter.ALIGN_RIGHT)
	t.SetHeaderAlignment(tablewriter.ALIGN_RIGHT)
	t.SetBorder(false)
	t.SetColumnSeparator(" ")
	t.SetCenterSeparator(" ")
	t.SetHeaderLine(false)

	for r := 0; r < df.Nrow(); r++ {
		row := make([]string, len(names))
		for c := range names {
			row[c] = formatCell(df.Elem(r, c), precision)
		}
		t.Append(row)
	}
	t.Render()
	_, err := fmt.Fprintln(w)
	return err
}

func formatCell(e series.Element, precision int) string {
	if e.Type() != series.Float {
		return e.String()
	}
	v := e.Float()
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', precision, 64)
}

func heading(w io.Writer) *color.Color {
	c := color.New(color.FgYellow, color.Bold)
	if !isTerminal(w) {
		c.DisableColor()
	}
	return c
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
