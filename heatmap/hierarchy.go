// Copyright 2026 The Heatmap Multiplexer Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heatmap

import (
	"github.com/pkg/errors"

	"github.com/ric-evans/heatmap-multiplexer/dataset"
	"github.com/ric-evans/heatmap-multiplexer/dim"
)

// axisLevels composes the visible dimensions of one axis, up to the
// drill depth, into a single composite bin index per record.
//
// Composite bins are ordered as the cartesian product of the
// per-level bin orders with the outer (first) level varying slowest,
// so composite keys group visually by their outer-level bin. Each
// level contributes its missing sentinel as its last slot. The linear
// index of a record is sum(binIndex[level] * stride[level]).
type axisLevels struct {
	cols    []*dataset.Column
	bins    []*dim.Binning
	strides []int
	total   int
}

// newAxisLevels resolves the first depth visible dimensions of specs.
// Hidden dimensions are skipped entirely regardless of depth. An axis
// with no visible dimensions composes to a single root bin.
func newAxisLevels(ds *dataset.Dataset, specs []DimensionSpec, depth int, binnings map[string]*dim.Binning) (*axisLevels, error) {
	a := &axisLevels{total: 1}
	for _, d := range specs {
		if d.Hidden {
			continue
		}
		if len(a.bins) == depth {
			break
		}
		col := ds.Column(d.Column)
		if col == nil {
			return nil, errors.Errorf("no column %q in dataset", d.Column)
		}
		b := binnings[d.Column]
		if b == nil {
			return nil, errors.Errorf("no binning for column %q", d.Column)
		}
		a.cols = append(a.cols, col)
		a.bins = append(a.bins, b)
	}

	// stride[i] is the product of the slot counts of the levels
	// below i, so the outer level varies slowest.
	a.strides = make([]int, len(a.bins))
	for i := len(a.bins) - 1; i >= 0; i-- {
		a.strides[i] = a.total
		a.total *= a.bins[i].Slots()
	}
	return a, nil
}

// levels returns the number of composed hierarchy levels.
func (a *axisLevels) levels() int {
	return len(a.bins)
}

// index returns the composite bin index of record row.
func (a *axisLevels) index(row int) int {
	ci := 0
	for l, b := range a.bins {
		ci += b.Index(a.cols[l], row) * a.strides[l]
	}
	return ci
}

// labels returns the per-level bin labels of composite bin ci, outer
// level first. For an axis with no dimensions the single root bin is
// labeled "all".
func (a *axisLevels) labels(ci int) []string {
	if len(a.bins) == 0 {
		return []string{"all"}
	}
	out := make([]string, len(a.bins))
	for l, b := range a.bins {
		out[l] = b.Label(ci / a.strides[l] % b.Slots())
	}
	return out
}

// allSentinelFree reports whether composite bin ci addresses only
// real (non-sentinel) bins on every level.
func (a *axisLevels) allSentinelFree(ci int) bool {
	for l, b := range a.bins {
		if ci/a.strides[l]%b.Slots() == b.MissingBin() {
			return false
		}
	}
	return true
}
