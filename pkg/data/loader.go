package data

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Sample represents a single parsed row.
type Sample struct {
	Line int
	X    []float64
	Y    float64
}

// StreamCSV streams comma separated rows from r as Samples through out. The
// labelCol is the index of the label field; every other field goes to X in
// order. out is closed when the input is exhausted, a row fails to parse or
// ctx is done. The returned channel then yields the terminal error (nil at
// EOF) and is closed.
func StreamCSV(ctx context.Context, r io.Reader, labelCol int, out chan<- Sample) <-chan error {
	reader := csv.NewReader(bufio.NewReader(r))
	reader.ReuseRecord = true
	errc := make(chan error, 1)

	go func() {
		defer close(errc)
		// Close out first so a ranging consumer can move on to errc.
		defer close(out)
		line := 0
		for {
			rec, err := reader.Read()
			if err == io.EOF {
				return
			}
			line++
			if err != nil {
				errc <- fmt.Errorf("%w: %v", ErrMalformed, err)
				return
			}
			if labelCol < 0 || labelCol >= len(rec) {
				errc <- fmt.Errorf("%w: line %d: label column %d out of range", ErrMalformed, line, labelCol)
				return
			}

			x := make([]float64, 0, len(rec)-1)
			var y float64
			for i, s := range rec {
				v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
				if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
					errc <- fmt.Errorf("%w: line %d field %d: %q is not a finite number", ErrMalformed, line, i+1, s)
					return
				}
				if i == labelCol {
					y = v
				} else {
					x = append(x, v)
				}
			}

			select {
			case out <- Sample{Line: line, X: x, Y: y}:
			case <-ctx.Done():
				errc <- ctx.Err()
				return
			}
		}
	}()
	return errc
}
