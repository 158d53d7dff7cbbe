// Copyright 2026 The Heatmap Multiplexer Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package heatmap computes hierarchical heatmap grids over a dataset.
//
// The engine is a pure function from (dataset, specification) to a
// grid of cells, memoized against the previous specification so that
// each user edit recomputes only the stages whose inputs changed.
package heatmap

import (
	"github.com/pkg/errors"

	"github.com/ric-evans/heatmap-multiplexer/dataset"
	"github.com/ric-evans/heatmap-multiplexer/dim"
)

// ErrInvalidSpec marks specification errors: unknown columns, depths
// out of range, malformed binning rules. Such specifications are
// rejected before any computation or cache mutation.
var ErrInvalidSpec = errors.New("invalid specification")

// Axis identifies a grid axis.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

func (a Axis) String() string {
	if a == AxisX {
		return "x"
	}
	return "y"
}

// Stat selects the statistic computed over the value dimension within
// each cell.
type Stat int

const (
	// StatCount is the number of records in the cell. It is always
	// reported; selecting it colors cells by membership.
	StatCount Stat = iota
	StatMin
	StatMax
	StatMean
	// StatMedian averages the two middle order statistics for
	// even-sized groups.
	StatMedian
	// StatMode is the most frequent value of a categorical value
	// dimension; ties break to the lexically smallest value.
	StatMode
)

var statNames = map[Stat]string{
	StatCount:  "count",
	StatMin:    "min",
	StatMax:    "max",
	StatMean:   "mean",
	StatMedian: "median",
	StatMode:   "mode",
}

func (s Stat) String() string {
	if n, ok := statNames[s]; ok {
		return n
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (s Stat) MarshalText() ([]byte, error) {
	n, ok := statNames[s]
	if !ok {
		return nil, errors.Errorf("unknown statistic %d", int(s))
	}
	return []byte(n), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Stat) UnmarshalText(text []byte) error {
	st, err := ParseStat(string(text))
	if err != nil {
		return err
	}
	*s = st
	return nil
}

// ParseStat parses a statistic name.
func ParseStat(name string) (Stat, error) {
	for s, n := range statNames {
		if n == name {
			return s, nil
		}
	}
	return 0, errors.Errorf("unknown statistic %q", name)
}

// A DimensionSpec places one column on an axis with a binning rule.
// Hiding a dimension excludes it from the axis hierarchy without
// discarding its rule or its derived bin edges.
type DimensionSpec struct {
	Column string   `json:"column"`
	Rule   dim.Rule `json:"rule"`
	Hidden bool     `json:"hidden,omitempty"`
}

// A Specification is the full user-editable state driving one
// computation: the ordered dimension lists per axis, the drill depth
// per axis, the value dimension and statistic, and the automatic bin
// count hint.
type Specification struct {
	X []DimensionSpec `json:"x"`
	Y []DimensionSpec `json:"y"`

	// XDepth and YDepth are the number of visible hierarchy levels
	// currently expanded on each axis, at least 1 and at most the
	// number of visible dimensions on the axis.
	XDepth int `json:"xDepth"`
	YDepth int `json:"yDepth"`

	// ZColumn is the value dimension for statistics other than
	// count.
	ZColumn string `json:"zColumn,omitempty"`
	Stat    Stat   `json:"stat"`

	// BinHint is the target bin count for automatic binning; 0
	// means dim.DefaultHint.
	BinHint int `json:"binHint,omitempty"`
}

func (s *Specification) axis(a Axis) []DimensionSpec {
	if a == AxisX {
		return s.X
	}
	return s.Y
}

func (s *Specification) depth(a Axis) int {
	if a == AxisX {
		return s.XDepth
	}
	return s.YDepth
}

func visibleCount(specs []DimensionSpec) int {
	n := 0
	for _, d := range specs {
		if !d.Hidden {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the specification.
func (s *Specification) Clone() *Specification {
	c := *s
	c.X = cloneDims(s.X)
	c.Y = cloneDims(s.Y)
	return &c
}

func cloneDims(ds []DimensionSpec) []DimensionSpec {
	out := make([]DimensionSpec, len(ds))
	for i, d := range ds {
		out[i] = d
		out[i].Rule.Edges = append([]float64(nil), d.Rule.Edges...)
	}
	return out
}

// Equal reports whether two specifications are identical.
func (s *Specification) Equal(o *Specification) bool {
	if s == nil || o == nil {
		return s == o
	}
	if s.XDepth != o.XDepth || s.YDepth != o.YDepth ||
		s.ZColumn != o.ZColumn || s.Stat != o.Stat || s.BinHint != o.BinHint {
		return false
	}
	return dimsEqual(s.X, o.X) && dimsEqual(s.Y, o.Y)
}

func dimsEqual(a, b []DimensionSpec) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Column != b[i].Column || a[i].Hidden != b[i].Hidden ||
			!a[i].Rule.Equal(b[i].Rule) {
			return false
		}
	}
	return true
}

// validate checks the specification against the dataset. It wraps
// every failure in ErrInvalidSpec and touches no engine state.
func validate(ds *dataset.Dataset, cl *dim.Classifier, s *Specification) error {
	seen := make(map[string]bool)
	for _, a := range []Axis{AxisX, AxisY} {
		specs := s.axis(a)
		for _, d := range specs {
			col := ds.Column(d.Column)
			if col == nil {
				return errors.Wrapf(ErrInvalidSpec, "%s axis: no column %q in dataset", a, d.Column)
			}
			if seen[d.Column] {
				return errors.Wrapf(ErrInvalidSpec, "column %q used more than once", d.Column)
			}
			seen[d.Column] = true
			if err := d.Rule.Check(cl.Classify(col)); err != nil {
				return errors.Wrapf(ErrInvalidSpec, "column %q: %s", d.Column, err)
			}
		}
		depth, visible := s.depth(a), visibleCount(specs)
		if depth < 1 {
			return errors.Wrapf(ErrInvalidSpec, "%s axis: depth %d < 1", a, depth)
		}
		if visible > 0 && depth > visible {
			return errors.Wrapf(ErrInvalidSpec, "%s axis: depth %d exceeds %d visible dimensions", a, depth, visible)
		}
		if visible == 0 && depth > 1 {
			return errors.Wrapf(ErrInvalidSpec, "%s axis: depth %d on an empty axis", a, depth)
		}
	}

	if s.BinHint < 0 {
		return errors.Wrapf(ErrInvalidSpec, "bin hint %d < 0", s.BinHint)
	}

	switch s.Stat {
	case StatCount:
		// No value dimension needed.
	case StatMin, StatMax, StatMean, StatMedian, StatMode:
		zcol := ds.Column(s.ZColumn)
		if zcol == nil {
			return errors.Wrapf(ErrInvalidSpec, "statistic %s: no column %q in dataset", s.Stat, s.ZColumn)
		}
		if s.Stat != StatMode && zcol.Kind != dataset.Numeric {
			return errors.Wrapf(ErrInvalidSpec, "statistic %s needs a numeric column, %q is %s",
				s.Stat, s.ZColumn, zcol.Kind)
		}
	default:
		return errors.Wrapf(ErrInvalidSpec, "unknown statistic %d", int(s.Stat))
	}
	return nil
}
