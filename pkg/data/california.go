package data

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

const (
	// ArchiveURL is where the California housing archive is published.
	ArchiveURL = "https://ndownloader.figshare.com/files/5976036"
	// ArchiveSHA256 is the checksum of the archive served at ArchiveURL.
	ArchiveSHA256 = "aaa5c9a6afe2225cc2aed2723682ae403280c4a3695a2ddda4ffb5d8215ea681"

	// TargetColumn is the derived median house value in units of $100,000.
	TargetColumn = "PRICE"

	dataMember = "cal_housing.data"
	priceUnit  = 100000.0
)

// FeatureNames are the feature columns of the table, in order.
var FeatureNames = []string{
	"MedInc", "HouseAge", "AveRooms", "AveBedrms",
	"Population", "AveOccup", "Latitude", "Longitude",
}

// Columns returns every column name of the table: the features, then the target.
func Columns() []string {
	return append(append([]string(nil), FeatureNames...), TargetColumn)
}

// Field positions in cal_housing.data. The house value is the label, so the
// remaining indices line up with Sample.X.
const (
	rawLongitude = iota
	rawLatitude
	rawHouseAge
	rawRooms
	rawBedrooms
	rawPopulation
	rawHouseholds
	rawIncome
	rawValue

	rawFeatures = rawValue
)

// LoadCalifornia returns the California housing table. It reads opts.File
// when set, otherwise the archive resolved by Fetch.
func LoadCalifornia(ctx context.Context, opts Options) (dataframe.DataFrame, error) {
	opts = opts.withDefaults()
	start := time.Now()

	src := opts.File
	if src == "" {
		p, err := Fetch(ctx, opts)
		if err != nil {
			return dataframe.DataFrame{}, err
		}
		src = p
	}

	rc, err := openSource(src)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	defer rc.Close()

	df, err := ReadCalifornia(ctx, rc)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("read %s: %w", src, err)
	}
	opts.Logger.Debug("parsed dataset", "source", src, "rows", df.Nrow(), "took", time.Since(start))
	return df, nil
}

// ReadCalifornia builds the table from raw cal_housing.data rows.
func ReadCalifornia(ctx context.Context, r io.Reader) (dataframe.DataFrame, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	samples := make(chan Sample, 256)
	errc := StreamCSV(ctx, r, rawValue, samples)

	cols := make([][]float64, len(FeatureNames)+1)
	var rowErr error
	for s := range samples {
		if rowErr != nil {
			continue
		}
		row, err := deriveRow(s)
		if err != nil {
			rowErr = err
			cancel()
			continue
		}
		for i, v := range row {
			cols[i] = append(cols[i], v)
		}
	}
	if err := <-errc; rowErr == nil && err != nil {
		return dataframe.DataFrame{}, err
	}
	if rowErr != nil {
		return dataframe.DataFrame{}, rowErr
	}
	if len(cols[0]) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("%w: no rows", ErrMalformed)
	}

	names := Columns()
	ss := make([]series.Series, len(names))
	for i, name := range names {
		ss[i] = series.New(cols[i], series.Float, name)
	}
	df := dataframe.New(ss...)
	return df, df.Err
}

// deriveRow turns the raw census block fields into the table columns.
func deriveRow(s Sample) ([]float64, error) {
	if len(s.X) != rawFeatures {
		return nil, fmt.Errorf("%w: line %d: %d fields, want %d", ErrMalformed, s.Line, len(s.X)+1, rawFeatures+1)
	}
	households := s.X[rawHouseholds]
	if households == 0 {
		return nil, fmt.Errorf("%w: line %d: zero households", ErrMalformed, s.Line)
	}
	return []float64{
		s.X[rawIncome],
		s.X[rawHouseAge],
		s.X[rawRooms] / households,
		s.X[rawBedrooms] / households,
		s.X[rawPopulation],
		s.X[rawPopulation] / households,
		s.X[rawLatitude],
		s.X[rawLongitude],
		s.Y / priceUnit,
	}, nil
}

// openSource opens a raw data file, or the data member of a .tgz archive.
func openSource(name string) (io.ReadCloser, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	if !strings.HasSuffix(name, ".tgz") && !strings.HasSuffix(name, ".tar.gz") {
		return f, nil
	}

	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, name, err)
	}
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			gz.Close()
			f.Close()
			return nil, fmt.Errorf("%w: %s has no %s", ErrMalformed, name, dataMember)
		}
		if err != nil {
			gz.Close()
			f.Close()
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, name, err)
		}
		if path.Base(hdr.Name) == dataMember {
			return &memberReader{Reader: tr, closers: []io.Closer{gz, f}}, nil
		}
	}
}

type memberReader struct {
	io.Reader
	closers []io.Closer
}

func (m *memberReader) Close() error {
	var first error
	for _, c := range m.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
