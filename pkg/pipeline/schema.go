package pipeline

import (
	"fmt"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"housingeda/pkg/data"
)

// Schema describes the structure of a dataset.
type Schema struct {
	FeatureNames []string
	Target       string
}

// CaliforniaSchema is the layout produced by data.LoadCalifornia.
var CaliforniaSchema = Schema{FeatureNames: data.FeatureNames, Target: data.TargetColumn}

// Columns returns the expected column names in order.
func (s Schema) Columns() []string {
	return append(append([]string(nil), s.FeatureNames...), s.Target)
}

// Validate checks that df has exactly the schema's columns in order, at
// least one row, and only fully populated float columns.
func (s Schema) Validate(df dataframe.DataFrame) error {
	if df.Err != nil {
		return df.Err
	}
	want := s.Columns()
	got := df.Names()
	if len(got) != len(want) {
		return fmt.Errorf("schema: got %d columns [%s], want %d [%s]",
			len(got), strings.Join(got, ", "), len(want), strings.Join(want, ", "))
	}
	for i := range want {
		if got[i] != want[i] {
			return fmt.Errorf("schema: column %d is %q, want %q", i, got[i], want[i])
		}
	}
	if df.Nrow() == 0 {
		return fmt.Errorf("schema: dataset has no rows")
	}
	for _, name := range want {
		col := df.Col(name)
		if col.Type() != series.Float {
			return fmt.Errorf("schema: column %s is %s, want float", name, col.Type())
		}
		if col.HasNaN() {
			return fmt.Errorf("schema: column %s has missing values", name)
		}
	}
	return nil
}
