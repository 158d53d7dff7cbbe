// Copyright 2026 The Heatmap Multiplexer Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heatmap

import (
	"sort"
	"strings"
)

// An AxisBin is one composite bin on a grid axis.
type AxisBin struct {
	// Labels holds one bin label per hierarchy level, outer level
	// first.
	Labels []string `json:"labels"`
	// Key is the labels joined for display.
	Key string `json:"key"`
	// Missing is set when any level of this composite bin is the
	// missing-data sentinel; such bins sort after all real bins on
	// their level.
	Missing bool `json:"missing,omitempty"`
}

// A Cell is one (X,Y) group's aggregates. X and Y index into
// Grid.XBins and Grid.YBins.
type Cell struct {
	X     int `json:"x"`
	Y     int `json:"y"`
	Count int `json:"count"`
	// Value is the selected statistic, or null when the group has
	// no usable values for it.
	Value *float64 `json:"value"`
	// Mode carries the mode statistic instead of Value.
	Mode string `json:"mode,omitempty"`
}

// A Grid is the render model: ordered composite bins on each axis and
// a sparse cell list. Composite bins that no record occupies appear
// on the axes (so axis geometry is stable) but have no cell.
type Grid struct {
	XBins []AxisBin `json:"xBins"`
	YBins []AxisBin `json:"yBins"`
	// Cells is sorted by (Y, X). Absent (x,y) pairs hold zero
	// records.
	Cells   []Cell `json:"cells"`
	Stat    string `json:"stat"`
	ZColumn string `json:"zColumn,omitempty"`
}

// buildGrid assembles aggregated groups into the render model.
func buildGrid(x, y *axisLevels, cells map[int]*cellAcc, stat Stat, zColumn string) *Grid {
	g := &Grid{
		XBins:   axisBins(x),
		YBins:   axisBins(y),
		Stat:    stat.String(),
		ZColumn: zColumn,
	}

	keys := make([]int, 0, len(cells))
	for key := range cells {
		keys = append(keys, key)
	}
	sort.Ints(keys)

	g.Cells = make([]Cell, 0, len(keys))
	for _, key := range keys {
		acc := cells[key]
		cell := Cell{
			X:     key % x.total,
			Y:     key / x.total,
			Count: acc.count,
		}
		val, cat, ok := acc.statistic(stat)
		if ok {
			if stat == StatMode {
				cell.Mode = cat
			} else {
				v := val
				cell.Value = &v
			}
		}
		g.Cells = append(g.Cells, cell)
	}
	return g
}

func axisBins(a *axisLevels) []AxisBin {
	bins := make([]AxisBin, a.total)
	for ci := 0; ci < a.total; ci++ {
		labels := a.labels(ci)
		bins[ci] = AxisBin{
			Labels:  labels,
			Key:     strings.Join(labels, " / "),
			Missing: !a.allSentinelFree(ci),
		}
	}
	return bins
}
