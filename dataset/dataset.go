// Copyright 2026 The Heatmap Multiplexer Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dataset provides an immutable, column-oriented table of
// typed scalar values.
//
// A column is either numeric or string. Missing values are
// represented in-band: NaN in numeric columns and the empty string in
// string columns. A dataset is built once, from a CSV file or from
// columns assembled by hand, and is never mutated afterwards.
package dataset

import (
	"math"
	"strings"

	"github.com/pkg/errors"
)

// Kind is the storage type of a Column.
type Kind int

const (
	// Numeric columns store float64 values; NaN marks a missing cell.
	Numeric Kind = iota
	// String columns store strings; "" marks a missing cell.
	String
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case String:
		return "string"
	}
	return "unknown"
}

// A Column is a single named column of a Dataset. Exactly one of
// Floats and Strs is non-nil, according to Kind.
type Column struct {
	Name   string
	Kind   Kind
	Floats []float64
	Strs   []string
}

// Len returns the number of rows in the column.
func (c *Column) Len() int {
	if c.Kind == Numeric {
		return len(c.Floats)
	}
	return len(c.Strs)
}

// Missing reports whether row i holds a missing value.
func (c *Column) Missing(i int) bool {
	if c.Kind == Numeric {
		return math.IsNaN(c.Floats[i])
	}
	return c.Strs[i] == ""
}

// DistinctCount returns the number of distinct non-missing values in
// the column.
func (c *Column) DistinctCount() int {
	if c.Kind == Numeric {
		seen := make(map[float64]struct{})
		for _, v := range c.Floats {
			if !math.IsNaN(v) {
				seen[v] = struct{}{}
			}
		}
		return len(seen)
	}
	seen := make(map[string]struct{})
	for _, v := range c.Strs {
		if v != "" {
			seen[v] = struct{}{}
		}
	}
	return len(seen)
}

// A Dataset is an ordered collection of equal-length columns.
type Dataset struct {
	cols   []Column
	byName map[string]int
	rows   int
}

// New constructs a Dataset from cols. All columns must have the same
// length and distinct, non-empty names.
func New(cols []Column) (*Dataset, error) {
	d := &Dataset{cols: cols, byName: make(map[string]int, len(cols))}
	for i := range cols {
		c := &cols[i]
		if strings.TrimSpace(c.Name) == "" {
			return nil, errors.Errorf("column %d has an empty name", i)
		}
		if _, dup := d.byName[c.Name]; dup {
			return nil, errors.Errorf("duplicate column name %q", c.Name)
		}
		if i == 0 {
			d.rows = c.Len()
		} else if c.Len() != d.rows {
			return nil, errors.Errorf("column %q has %d rows, want %d", c.Name, c.Len(), d.rows)
		}
		d.byName[c.Name] = i
	}
	return d, nil
}

// Rows returns the number of records in the dataset.
func (d *Dataset) Rows() int {
	return d.rows
}

// Names returns the column names in dataset order.
func (d *Dataset) Names() []string {
	names := make([]string, len(d.cols))
	for i := range d.cols {
		names[i] = d.cols[i].Name
	}
	return names
}

// Column returns the named column, or nil if there is no such column.
func (d *Dataset) Column(name string) *Column {
	i, ok := d.byName[name]
	if !ok {
		return nil
	}
	return &d.cols[i]
}
