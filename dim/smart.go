// Copyright 2026 The Heatmap Multiplexer Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dim

import (
	"math"
	"sort"

	"github.com/aclements/go-moremath/stats"
)

// DefaultHint is the bin count targeted by automatic binning when the
// specification does not override it.
const DefaultHint = 15

// SuggestEdges selects interval edges for a continuous dimension with
// roughly hint bins.
//
// Interior edges are placed at the i/hint quantiles of values, which
// balances per-bin population, and are then snapped to the nearest
// multiple of a power-of-ten step derived from the value range
// (step = 10^floor(log10(range/hint))). The first edge is the range
// minimum rounded down to the step and the last edge is the maximum
// rounded up. Snapped edges that collide are collapsed, so a
// degenerate distribution (long runs of identical values) yields
// fewer bins rather than zero-width ones. The result is strictly
// increasing and depends only on the multiset of values.
//
// Non-finite values (NaN, ±Inf) are ignored; they carry no interval
// information and bin as missing. values must contain at least two
// distinct finite values; otherwise SuggestEdges returns nil and the
// caller should fall back to one bin per distinct value.
func SuggestEdges(values []float64, hint int) []float64 {
	if hint < 1 {
		hint = DefaultHint
	}
	xs := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			xs = append(xs, v)
		}
	}
	sort.Float64s(xs)
	if len(xs) == 0 || xs[0] == xs[len(xs)-1] {
		return nil
	}
	lo, hi := xs[0], xs[len(xs)-1]

	step := math.Pow(10, math.Floor(math.Log10((hi-lo)/float64(hint))))
	edges := make([]float64, 0, hint+1)
	edges = append(edges, math.Floor(lo/step)*step)

	sample := stats.Sample{Xs: xs, Sorted: true}
	for i := 1; i < hint; i++ {
		q := sample.Quantile(float64(i) / float64(hint))
		e := math.Round(q/step) * step
		if e > edges[len(edges)-1] && e < hi {
			edges = append(edges, e)
		}
	}

	edges = append(edges, math.Ceil(hi/step)*step)
	return edges
}

// equalWidthEdges divides [lo, hi] into n equal-width bins.
func equalWidthEdges(lo, hi float64, n int) []float64 {
	edges := make([]float64, n+1)
	for i := 0; i <= n; i++ {
		edges[i] = lo + (hi-lo)*float64(i)/float64(n)
	}
	// Guard against rounding drift at the top edge.
	edges[n] = hi
	return edges
}

// distinctSorted returns the distinct values of a sorted slice.
func distinctSorted(xs []float64) []float64 {
	var out []float64
	for i, v := range xs {
		if i == 0 || v != xs[i-1] {
			out = append(out, v)
		}
	}
	return out
}
