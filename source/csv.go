// Package source loads named data columns from CSV files and SQLite
// databases into data frames.
package source

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/c3sdr/plot"
)

// CSVOptions control ReadCSV.
type CSVOptions struct {
	// Comma is the field delimiter; zero means ','.
	Comma rune

	// Missing lists cell values which mark a missing value. Empty cells
	// are always missing. Nil means "NaN", "nan", "NA" and "--".
	Missing []string
}

var defaultMissing = []string{"NaN", "nan", "NA", "--"}

// ReadCSV reads a CSV table with a header row. Every column becomes a
// float column of the returned data frame; missing cells are masked
// and stored as NaN. Cells which are not numbers are an error.
func ReadCSV(r io.Reader, name string, opts CSVOptions) (*plot.DataFrame, error) {
	cr := csv.NewReader(r)
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}
	cr.TrimLeadingSpace = true
	missing := opts.Missing
	if missing == nil {
		missing = defaultMissing
	}

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.Newf("%s: no header row", name)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "%s: header", name)
	}

	cols := make([][]float64, len(header))
	masks := make([][]bool, len(header))
	for row := 1; ; row++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "%s", name)
		}
		for j, cell := range rec {
			v, miss, err := parseCell(cell, missing)
			if err != nil {
				return nil, errors.Wrapf(err, "%s: row %d column %s", name, row, header[j])
			}
			cols[j] = append(cols[j], v)
			masks[j] = append(masks[j], miss)
		}
	}

	df := plot.NewDataFrame(name)
	for j, h := range header {
		values := cols[j]
		if values == nil {
			values = []float64{}
		}
		if err := df.Add(strings.TrimSpace(h), values, compactMask(masks[j])); err != nil {
			return nil, errors.Wrapf(err, "%s", name)
		}
	}
	return df, nil
}

// ReadCSVFile reads the CSV file at path. The data frame is named after
// the file.
func ReadCSVFile(path string, opts CSVOptions) (*plot.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return ReadCSV(f, name, opts)
}

func parseCell(cell string, missing []string) (v float64, miss bool, err error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return math.NaN(), true, nil
	}
	for _, m := range missing {
		if cell == m {
			return math.NaN(), true, nil
		}
	}
	v, err = strconv.ParseFloat(cell, 64)
	return v, false, err
}

// compactMask returns nil if nothing is masked.
func compactMask(mask []bool) []bool {
	for _, m := range mask {
		if m {
			return mask
		}
	}
	return nil
}
