// Copyright 2026 The Heatmap Multiplexer Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heatmap

import "github.com/ric-evans/heatmap-multiplexer/dim"

// A Diff is the minimal recomputation implied by a specification
// edit. Rebinning a dimension forces regrouping of the axes it sits
// on; regrouping forces reaggregation; nothing forces rebinning except
// a change to that dimension's own rule (or to the hint its automatic
// rule depends on).
type Diff struct {
	// Rebin holds the columns whose binning must be rebuilt.
	Rebin map[string]bool
	// Rehierarchy holds the axes whose composite grouping changed.
	Rehierarchy map[Axis]bool
	// Reaggregate is set when cells must be recomputed.
	Reaggregate bool
	// Relabel is set when axis labels changed without any binning
	// change: a visibility toggle or a reordering of visible
	// dimensions.
	Relabel bool
}

func (d *Diff) rebinAxis(specs []DimensionSpec) {
	for _, ds := range specs {
		d.Rebin[ds.Column] = true
	}
}

// DiffSpecs compares two specifications and reports what must be
// recomputed. A nil old specification invalidates everything.
func DiffSpecs(old, new *Specification) Diff {
	d := Diff{
		Rebin:       make(map[string]bool),
		Rehierarchy: make(map[Axis]bool),
	}
	if old == nil {
		d.rebinAxis(new.X)
		d.rebinAxis(new.Y)
		d.Rehierarchy[AxisX] = true
		d.Rehierarchy[AxisY] = true
		d.Reaggregate = true
		d.Relabel = true
		return d
	}

	oldRules := make(map[string]dim.Rule)
	for _, ds := range append(append([]DimensionSpec(nil), old.X...), old.Y...) {
		oldRules[ds.Column] = ds.Rule
	}

	hintChanged := old.BinHint != new.BinHint
	for _, a := range []Axis{AxisX, AxisY} {
		for _, ds := range new.axis(a) {
			r, known := oldRules[ds.Column]
			switch {
			case !known:
				d.Rebin[ds.Column] = true
			case !r.Equal(ds.Rule):
				d.Rebin[ds.Column] = true
			case hintChanged && ds.Rule.Kind == dim.AutoBins:
				d.Rebin[ds.Column] = true
			}
		}
	}

	for _, a := range []Axis{AxisX, AxisY} {
		os, ns := old.axis(a), new.axis(a)
		if !sameGrouping(os, ns) {
			// Reordering or toggling changes composite labels even
			// when no binning changed.
			d.Rehierarchy[a] = true
			d.Relabel = true
		}
		if old.depth(a) != new.depth(a) {
			d.Rehierarchy[a] = true
		}
		if visibilityToggled(os, ns) {
			d.Relabel = true
		}
		for _, ds := range ns {
			if !ds.Hidden && d.Rebin[ds.Column] {
				d.Rehierarchy[a] = true
			}
		}
	}

	d.Reaggregate = len(d.Rehierarchy) > 0 ||
		old.ZColumn != new.ZColumn || old.Stat != new.Stat
	return d
}

// sameGrouping reports whether two axis dimension lists produce the
// same composite grouping: the same visible columns in the same
// order.
func sameGrouping(a, b []DimensionSpec) bool {
	va, vb := visibleColumns(a), visibleColumns(b)
	if len(va) != len(vb) {
		return false
	}
	for i := range va {
		if va[i] != vb[i] {
			return false
		}
	}
	return true
}

func visibleColumns(specs []DimensionSpec) []string {
	var out []string
	for _, d := range specs {
		if !d.Hidden {
			out = append(out, d.Column)
		}
	}
	return out
}

func visibilityToggled(a, b []DimensionSpec) bool {
	hidden := make(map[string]bool, len(a))
	for _, d := range a {
		hidden[d.Column] = d.Hidden
	}
	for _, d := range b {
		if was, known := hidden[d.Column]; known && was != d.Hidden {
			return true
		}
	}
	return false
}
