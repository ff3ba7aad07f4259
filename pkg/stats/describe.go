package stats

import (
	"errors"
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

var (
	// ErrNonNumeric is returned when a table holds a column that is not int or float.
	ErrNonNumeric = errors.New("stats: column is not numeric")
	// ErrEmpty is returned for a table without rows.
	ErrEmpty = errors.New("stats: table has no rows")
)

const (
	// StatisticColumn names the label column of the Describe table.
	StatisticColumn = "statistic"
	// IndexColumn names the label column of the correlation table.
	IndexColumn = "column"
)

// DescribeRows lists the statistics reported by Describe, in row order.
var DescribeRows = []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}

// Summary holds the descriptive statistics of one column.
type Summary struct {
	Count, Mean, Std, Min, Q25, Q50, Q75, Max float64
}

// Values returns the summary in DescribeRows order.
func (s Summary) Values() []float64 {
	return []float64{s.Count, s.Mean, s.Std, s.Min, s.Q25, s.Q50, s.Q75, s.Max}
}

// Summarize computes count, mean, sample std, min, quartiles and max of x.
func Summarize(x []float64) Summary {
	q := Percentiles(x, 25, 50, 75)
	s := Summary{
		Count: float64(len(x)),
		Mean:  Mean(x),
		Std:   SampleStd(x),
		Q25:   q[0],
		Q50:   q[1],
		Q75:   q[2],
	}
	s.Min, s.Max = MinMax(x)
	return s
}

// numericColumns extracts every column of df as float64, refusing
// anything that is not an int or float series.
func numericColumns(df dataframe.DataFrame) ([]string, [][]float64, error) {
	if df.Err != nil {
		return nil, nil, df.Err
	}
	if df.Nrow() == 0 {
		return nil, nil, ErrEmpty
	}
	names := df.Names()
	cols := make([][]float64, len(names))
	for i, name := range names {
		s := df.Col(name)
		switch s.Type() {
		case series.Float, series.Int:
		default:
			return nil, nil, fmt.Errorf("%w: %s is %s", ErrNonNumeric, name, s.Type())
		}
		cols[i] = s.Float()
	}
	return names, cols, nil
}

// Describe returns one row per DescribeRows entry and one column per
// column of df, preceded by the StatisticColumn labels.
func Describe(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	names, cols, err := numericColumns(df)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	out := make([]series.Series, 0, len(names)+1)
	out = append(out, series.New(DescribeRows, series.String, StatisticColumn))
	for i, name := range names {
		out = append(out, series.New(Summarize(cols[i]).Values(), series.Float, name))
	}
	res := dataframe.New(out...)
	return res, res.Err
}

// Correlate returns the column names of df and their Pearson correlation
// matrix. The diagonal is exactly 1 and every other entry lies in [-1, 1]
// (NaN where a column is constant).
func Correlate(df dataframe.DataFrame) ([]string, *mat.SymDense, error) {
	names, cols, err := numericColumns(df)
	if err != nil {
		return nil, nil, err
	}
	return names, Correlations(cols), nil
}

// Correlations computes the correlation matrix of equally long columns.
func Correlations(cols [][]float64) *mat.SymDense {
	n := len(cols)
	corr := mat.NewSymDense(n, nil)
	if n == 0 {
		return corr
	}
	if len(cols[0]) == 0 {
		for i := 0; i < n; i++ {
			corr.SetSym(i, i, 1)
		}
		return corr
	}
	x := mat.NewDense(len(cols[0]), n, nil)
	for j, col := range cols {
		x.SetCol(j, col)
	}
	stat.CorrelationMatrix(corr, x, nil)
	for i := 0; i < n; i++ {
		corr.SetSym(i, i, 1)
		for j := i + 1; j < n; j++ {
			corr.SetSym(i, j, clampUnit(corr.At(i, j)))
		}
	}
	return corr
}

// CorrelationMatrix returns the correlation matrix of df as a table: the
// IndexColumn labels followed by one column per column of df.
func CorrelationMatrix(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	names, corr, err := Correlate(df)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	out := make([]series.Series, 0, len(names)+1)
	out = append(out, series.New(names, series.String, IndexColumn))
	for j, name := range names {
		col := make([]float64, len(names))
		for i := range names {
			col[i] = corr.At(i, j)
		}
		out = append(out, series.New(col, series.Float, name))
	}
	res := dataframe.New(out...)
	return res, res.Err
}

// GenerateStatistics returns the descriptive statistics and the correlation
// matrix of df.
func GenerateStatistics(df dataframe.DataFrame) (describe, corr dataframe.DataFrame, err error) {
	if describe, err = Describe(df); err != nil {
		return dataframe.DataFrame{}, dataframe.DataFrame{}, fmt.Errorf("describe: %w", err)
	}
	if corr, err = CorrelationMatrix(df); err != nil {
		return dataframe.DataFrame{}, dataframe.DataFrame{}, fmt.Errorf("correlation: %w", err)
	}
	return describe, corr, nil
}
