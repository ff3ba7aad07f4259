package stats

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

func sampleFrame() dataframe.DataFrame {
	return dataframe.New(
		series.New([]float64{1, 2, 3, 4, 5, 6}, series.Float, "a"),
		series.New([]float64{2, 4, 6, 8, 10, 12}, series.Float, "b"),
		series.New([]float64{9, 3, 7, 1, 4, 2}, series.Float, "c"),
		series.New([]int{1, 0, 1, 0, 1, 0}, series.Int, "d"),
	)
}

func TestDescribe_Shape(t *testing.T) {
	df := sampleFrame()
	desc, err := Describe(df)
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if desc.Nrow() != len(DescribeRows) {
		t.Fatalf("rows = %d, want %d", desc.Nrow(), len(DescribeRows))
	}
	names := desc.Names()
	if names[0] != StatisticColumn {
		t.Fatalf("first column = %q, want %q", names[0], StatisticColumn)
	}
	if len(names)-1 != df.Ncol() {
		t.Fatalf("stat columns = %d, want %d", len(names)-1, df.Ncol())
	}
	labels := desc.Col(StatisticColumn).Records()
	for i, want := range DescribeRows {
		if labels[i] != want {
			t.Errorf("row %d = %q, want %q", i, labels[i], want)
		}
	}
}

func TestDescribe_Values(t *testing.T) {
	desc, err := Describe(sampleFrame())
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	got := desc.Col("a").Float()
	want := []float64{6, 3.5, math.Sqrt(3.5), 1, 2.25, 3.5, 4.75, 6}
	for i := range want {
		if !almostEqual(got[i], want[i], 1e-12) {
			t.Errorf("%s = %v, want %v", DescribeRows[i], got[i], want[i])
		}
	}
}

func TestDescribe_Errors(t *testing.T) {
	mixed := dataframe.New(
		series.New([]float64{1, 2}, series.Float, "x"),
		series.New([]string{"u", "v"}, series.String, "label"),
	)
	if _, err := Describe(mixed); !errors.Is(err, ErrNonNumeric) {
		t.Fatalf("err = %v, want ErrNonNumeric", err)
	}
	empty := dataframe.New(series.New([]float64{}, series.Float, "x"))
	if _, err := Describe(empty); !errors.Is(err, ErrEmpty) {
		t.Fatalf("err = %v, want ErrEmpty", err)
	}
}

func TestCorrelationMatrix_Properties(t *testing.T) {
	df := sampleFrame()
	corr, err := CorrelationMatrix(df)
	if err != nil {
		t.Fatalf("CorrelationMatrix: %v", err)
	}
	names := df.Names()
	if corr.Nrow() != len(names) || corr.Ncol() != len(names)+1 {
		t.Fatalf("dims = %dx%d, want %dx%d", corr.Nrow(), corr.Ncol(), len(names), len(names)+1)
	}
	if idx := corr.Col(IndexColumn).Records(); idx[0] != "a" || idx[3] != "d" {
		t.Fatalf("index column = %v", idx)
	}
	cols := make([][]float64, len(names))
	for j, n := range names {
		cols[j] = corr.Col(n).Float()
	}
	for i := range names {
		if cols[i][i] != 1 {
			t.Errorf("diagonal %s = %v, want exactly 1", names[i], cols[i][i])
		}
		for j := range names {
			v := cols[j][i]
			if v < -1 || v > 1 {
				t.Errorf("corr[%d][%d] = %v out of range", i, j, v)
			}
			if v != cols[i][j] {
				t.Errorf("corr not symmetric at (%d,%d): %v vs %v", i, j, v, cols[i][j])
			}
		}
	}
	if got := cols[1][0]; !almostEqual(got, 1, 1e-12) {
		t.Errorf("corr(a, b) = %v, want 1", got)
	}
	a, c := df.Col("a").Float(), df.Col("c").Float()
	if got, want := cols[2][0], pearson(a, c); !almostEqual(got, want, 1e-12) {
		t.Errorf("corr(a, c) = %v, pairwise %v", got, want)
	}
}

func pearson(x, y []float64) float64 {
	mx, my := Mean(x), Mean(y)
	var sxy, sxx, syy float64
	for i := range x {
		dx, dy := x[i]-mx, y[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	return sxy / math.Sqrt(sxx*syy)
}

func TestCorrelations_ConstantColumnIsNaN(t *testing.T) {
	corr := Correlations([][]float64{{1, 2, 3, 4}, {7, 7, 7, 7}, {4, 3, 2, 1}})
	if v := corr.At(0, 1); !math.IsNaN(v) {
		t.Errorf("corr with a constant column = %v, want NaN", v)
	}
	if v := corr.At(1, 1); v != 1 {
		t.Errorf("diagonal of a constant column = %v, want 1", v)
	}
	if v := corr.At(0, 2); !almostEqual(v, -1, 1e-12) {
		t.Errorf("corr of reversed column = %v, want -1", v)
	}
}

func TestGenerateStatistics_Deterministic(t *testing.T) {
	df := sampleFrame()
	d1, c1, err := GenerateStatistics(df)
	if err != nil {
		t.Fatalf("GenerateStatistics: %v", err)
	}
	d2, c2, err := GenerateStatistics(df)
	if err != nil {
		t.Fatalf("GenerateStatistics: %v", err)
	}
	if d1.String() != d2.String() || c1.String() != c2.String() {
		t.Fatal("statistics differ between runs")
	}
}

func TestGenerateStatistics_WrapsCause(t *testing.T) {
	bad := dataframe.New(series.New([]string{"x"}, series.String, "s"))
	_, _, err := GenerateStatistics(bad)
	if !errors.Is(err, ErrNonNumeric) {
		t.Fatalf("err = %v, want wrapped ErrNonNumeric", err)
	}
}
