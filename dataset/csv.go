// Copyright 2026 The Heatmap Multiplexer Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dataset

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ReadCSV reads a dataset from CSV input. The first record is the
// header row and supplies column names. A column is numeric if every
// non-empty cell parses as a float; otherwise it is a string column.
// An empty or all-whitespace cell is a missing value for that column
// only, never for the whole record.
func ReadCSV(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New("empty CSV input")
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading CSV header")
	}

	raw := make([][]string, len(header))
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "reading CSV record")
		}
		for i := range header {
			raw[i] = append(raw[i], strings.TrimSpace(rec[i]))
		}
	}

	cols := make([]Column, len(header))
	for i, name := range header {
		cols[i] = makeColumn(strings.TrimSpace(name), raw[i])
	}
	return New(cols)
}

// ReadCSVFile reads a dataset from the CSV file at path.
func ReadCSVFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening CSV")
	}
	defer f.Close()
	d, err := ReadCSV(f)
	return d, errors.Wrapf(err, "reading %s", path)
}

func makeColumn(name string, cells []string) Column {
	floats := make([]float64, len(cells))
	numeric := false
	for i, cell := range cells {
		if cell == "" {
			floats[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return Column{Name: name, Kind: String, Strs: cells}
		}
		// A literal "NaN" cell parses but is still a missing value.
		floats[i] = v
		if !math.IsNaN(v) {
			numeric = true
		}
	}
	if !numeric {
		// Nothing but empty cells and literal NaNs. Keep it a
		// string column of missing values so it classifies as
		// "no data".
		blank := make([]string, len(cells))
		return Column{Name: name, Kind: String, Strs: blank}
	}
	return Column{Name: name, Kind: Numeric, Floats: floats}
}
