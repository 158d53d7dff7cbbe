// Copyright 2026 The Heatmap Multiplexer Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heatmap

import (
	"context"
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/ric-evans/heatmap-multiplexer/dataset"
	"github.com/ric-evans/heatmap-multiplexer/dim"
)

// scoutDataset is 24 complete records: three positions, two teams, a
// continuous bust likelihood and a numeric score.
func scoutDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	const rows = 24
	positions := make([]string, rows)
	teams := make([]string, rows)
	bust := make([]float64, rows)
	score := make([]float64, rows)
	for i := 0; i < rows; i++ {
		positions[i] = []string{"PG", "SG", "C"}[i%3]
		teams[i] = []string{"red", "blue"}[i%2]
		bust[i] = float64(i * 4)
		score[i] = float64(i%8 + 1)
	}
	ds, err := dataset.New([]dataset.Column{
		{Name: "position", Kind: dataset.String, Strs: positions},
		{Name: "team", Kind: dataset.String, Strs: teams},
		{Name: "bust", Kind: dataset.Numeric, Floats: bust},
		{Name: "score", Kind: dataset.Numeric, Floats: score},
	})
	require.NoError(t, err)
	return ds
}

func countSum(g *Grid) int {
	n := 0
	for _, c := range g.Cells {
		n += c.Count
	}
	return n
}

func TestComputeEndToEnd(t *testing.T) {
	ds := scoutDataset(t)
	eng := New(ds)
	spec := &Specification{
		X:      []DimensionSpec{{Column: "position"}},
		Y:      []DimensionSpec{{Column: "bust"}},
		XDepth: 1, YDepth: 1,
		Stat:    StatCount,
		BinHint: 8,
	}
	g, err := eng.Compute(context.Background(), spec)
	require.NoError(t, err)

	// Three positions plus the missing sentinel.
	require.Len(t, g.XBins, 4)
	// At most eight bust bins plus the sentinel.
	require.LessOrEqual(t, len(g.YBins), 9)
	require.LessOrEqual(t, len(g.Cells), 24)
	// Every record lands in exactly one cell.
	require.Equal(t, ds.Rows(), countSum(g))

	// The derived bust edges are strictly increasing and cover the
	// observed range.
	b := eng.Binning("bust")
	require.NotNil(t, b)
	require.NotEmpty(t, b.Edges)
	for i := 1; i < len(b.Edges); i++ {
		require.Greater(t, b.Edges[i], b.Edges[i-1])
	}
	require.LessOrEqual(t, b.Edges[0], 0.0)
	require.GreaterOrEqual(t, b.Edges[len(b.Edges)-1], 92.0)

	// No data is missing, so no cell sits on a sentinel bin.
	for _, c := range g.Cells {
		require.False(t, g.XBins[c.X].Missing)
		require.False(t, g.YBins[c.Y].Missing)
	}
}

func TestComputeMedian(t *testing.T) {
	ds, err := dataset.New([]dataset.Column{
		{Name: "g", Kind: dataset.String, Strs: []string{"a", "a", "a", "a"}},
		{Name: "v", Kind: dataset.Numeric, Floats: []float64{4, 1, 3, 2}},
	})
	require.NoError(t, err)
	eng := New(ds)
	spec := &Specification{
		X:      []DimensionSpec{{Column: "g"}},
		XDepth: 1, YDepth: 1,
		ZColumn: "v",
		Stat:    StatMedian,
	}
	g, err := eng.Compute(context.Background(), spec)
	require.NoError(t, err)
	require.Len(t, g.Cells, 1)
	require.Equal(t, 4, g.Cells[0].Count)
	require.NotNil(t, g.Cells[0].Value)
	// Even-sized group: the two middle values average.
	require.Equal(t, 2.5, *g.Cells[0].Value)
}

func TestComputeModeTieBreak(t *testing.T) {
	ds, err := dataset.New([]dataset.Column{
		{Name: "g", Kind: dataset.String, Strs: []string{"a", "a", "a", "a"}},
		{Name: "team", Kind: dataset.String, Strs: []string{"red", "blue", "blue", "red"}},
	})
	require.NoError(t, err)
	eng := New(ds)
	spec := &Specification{
		X:      []DimensionSpec{{Column: "g"}},
		XDepth: 1, YDepth: 1,
		ZColumn: "team",
		Stat:    StatMode,
	}
	g, err := eng.Compute(context.Background(), spec)
	require.NoError(t, err)
	require.Len(t, g.Cells, 1)
	// Tied frequencies break to the lexically smallest category.
	require.Equal(t, "blue", g.Cells[0].Mode)
}

func TestComputeMemoized(t *testing.T) {
	eng := New(scoutDataset(t))
	spec := &Specification{
		X:      []DimensionSpec{{Column: "position"}},
		Y:      []DimensionSpec{{Column: "bust"}},
		XDepth: 1, YDepth: 1,
		Stat: StatCount,
	}
	g1, err := eng.Compute(context.Background(), spec)
	require.NoError(t, err)
	g2, err := eng.Compute(context.Background(), spec.Clone())
	require.NoError(t, err)
	require.Same(t, g1, g2)
}

func TestComputeHiddenRebinKeepsGrid(t *testing.T) {
	eng := New(scoutDataset(t))
	spec := &Specification{
		X:      []DimensionSpec{{Column: "position", Rule: dim.Rule{Kind: dim.Categories}}},
		Y:      []DimensionSpec{{Column: "bust", Hidden: true}},
		XDepth: 1, YDepth: 1,
		Stat: StatCount,
	}
	g1, err := eng.Compute(context.Background(), spec)
	require.NoError(t, err)
	edges := append([]float64(nil), eng.Binning("bust").Edges...)

	// A hint change rebins only the hidden automatic dimension;
	// nothing visible changes, so the previous grid stands.
	hinted := spec.Clone()
	hinted.BinHint = 20
	g2, err := eng.Compute(context.Background(), hinted)
	require.NoError(t, err)
	require.Same(t, g1, g2)
	// The hidden dimension was still rebinned under the new hint, so
	// unhiding it later uses fresh edges.
	require.NotEqual(t, edges, eng.Binning("bust").Edges)
}

func TestComputeInvalidSpec(t *testing.T) {
	eng := New(scoutDataset(t))
	valid := &Specification{
		X:      []DimensionSpec{{Column: "position"}},
		XDepth: 1, YDepth: 1,
		Stat: StatCount,
	}
	g1, err := eng.Compute(context.Background(), valid)
	require.NoError(t, err)

	cases := []*Specification{
		// Unknown column.
		{X: []DimensionSpec{{Column: "nope"}}, XDepth: 1, YDepth: 1},
		// Depth beyond the visible dimensions.
		{X: []DimensionSpec{{Column: "position"}}, XDepth: 2, YDepth: 1},
		// Column used on both axes.
		{X: []DimensionSpec{{Column: "position"}},
			Y:      []DimensionSpec{{Column: "position"}},
			XDepth: 1, YDepth: 1},
		// Count rule on a categorical column.
		{X: []DimensionSpec{{Column: "position", Rule: dim.Rule{Kind: dim.CountBins, N: 3}}},
			XDepth: 1, YDepth: 1},
		// Numeric statistic over a string column.
		{X: []DimensionSpec{{Column: "position"}},
			XDepth: 1, YDepth: 1, Stat: StatMean, ZColumn: "team"},
	}
	for i, spec := range cases {
		_, err := eng.Compute(context.Background(), spec)
		require.Error(t, err, "case %d", i)
		require.True(t, errors.Is(err, ErrInvalidSpec), "case %d: %v", i, err)
	}

	// Rejected specifications leave the memoized result untouched.
	g2, err := eng.Compute(context.Background(), valid.Clone())
	require.NoError(t, err)
	require.Same(t, g1, g2)
}

func TestVisibilityToggleKeepsEdges(t *testing.T) {
	eng := New(scoutDataset(t))
	spec := &Specification{
		X:      []DimensionSpec{{Column: "position"}},
		Y:      []DimensionSpec{{Column: "bust"}},
		XDepth: 1, YDepth: 1,
		Stat: StatCount,
	}
	_, err := eng.Compute(context.Background(), spec)
	require.NoError(t, err)
	edges := append([]float64(nil), eng.Binning("bust").Edges...)

	hidden := spec.Clone()
	hidden.Y[0].Hidden = true
	g, err := eng.Compute(context.Background(), hidden)
	require.NoError(t, err)
	require.Len(t, g.YBins, 1)
	require.Equal(t, "all", g.YBins[0].Key)

	// Unhiding restores the identical derived edges without
	// rebinning.
	_, err = eng.Compute(context.Background(), spec.Clone())
	require.NoError(t, err)
	require.Equal(t, edges, eng.Binning("bust").Edges)
}

func TestDepthExpansion(t *testing.T) {
	eng := New(scoutDataset(t))
	spec := &Specification{
		X:      []DimensionSpec{{Column: "position"}, {Column: "team"}},
		Y:      []DimensionSpec{{Column: "bust"}},
		XDepth: 1, YDepth: 1,
		Stat: StatCount,
	}
	g1, err := eng.Compute(context.Background(), spec)
	require.NoError(t, err)
	require.Len(t, g1.XBins, 4)
	require.Equal(t, 24, countSum(g1))

	deeper := spec.Clone()
	deeper.XDepth = 2
	g2, err := eng.Compute(context.Background(), deeper)
	require.NoError(t, err)
	// Each position bin subdivides by team.
	require.Len(t, g2.XBins, 4*3)
	require.Equal(t, 24, countSum(g2))
	require.GreaterOrEqual(t, len(g2.Cells), len(g1.Cells))
}

func TestComputeCancelled(t *testing.T) {
	eng := New(scoutDataset(t))
	spec := &Specification{
		X:      []DimensionSpec{{Column: "position"}},
		Y:      []DimensionSpec{{Column: "bust"}},
		XDepth: 1, YDepth: 1,
		Stat: StatCount,
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := eng.Compute(ctx, spec)
	require.Error(t, err)

	// A cancelled run commits nothing; the engine still works.
	g, err := eng.Compute(context.Background(), spec)
	require.NoError(t, err)
	require.Equal(t, 24, countSum(g))
}

func TestCountConservationWithMissing(t *testing.T) {
	ds, err := dataset.New([]dataset.Column{
		{Name: "pos", Kind: dataset.String, Strs: []string{"PG", "", "SG", ""}},
		{Name: "v", Kind: dataset.Numeric, Floats: []float64{1, math.NaN(), 3, 4}},
	})
	require.NoError(t, err)
	eng := New(ds)
	spec := &Specification{
		X:      []DimensionSpec{{Column: "pos"}},
		XDepth: 1, YDepth: 1,
		ZColumn: "v",
		Stat:    StatMean,
	}
	g, err := eng.Compute(context.Background(), spec)
	require.NoError(t, err)
	// Records with missing values still count, in the sentinel bin.
	require.Equal(t, ds.Rows(), countSum(g))

	var sentinel *Cell
	for i := range g.Cells {
		if g.XBins[g.Cells[i].X].Missing {
			sentinel = &g.Cells[i]
		}
	}
	require.NotNil(t, sentinel)
	require.Equal(t, 2, sentinel.Count)
	// One of the two sentinel records has a value; the mean is over
	// the non-missing values only.
	require.NotNil(t, sentinel.Value)
	require.Equal(t, 4.0, *sentinel.Value)
}

func TestSuggestDefault(t *testing.T) {
	eng := New(scoutDataset(t))
	s := eng.SuggestDefault()
	require.Equal(t, []DimensionSpec{{Column: "position"}}, s.X)
	require.Equal(t, []DimensionSpec{{Column: "team"}}, s.Y)
	require.Equal(t, 1, s.XDepth)
	require.Equal(t, 1, s.YDepth)
	require.Equal(t, StatCount, s.Stat)
	require.Equal(t, dim.DefaultHint, s.BinHint)
	_, err := eng.Compute(context.Background(), s)
	require.NoError(t, err)
}

func TestColumns(t *testing.T) {
	eng := New(scoutDataset(t))
	cols := eng.Columns()
	require.Len(t, cols, 4)
	require.Equal(t, "position", cols[0].Name)
	require.Equal(t, "categorical", cols[0].Class)
	require.Equal(t, 3, cols[0].Distinct)
	require.Equal(t, "bust", cols[2].Name)
	require.Equal(t, "continuous", cols[2].Class)
	require.Equal(t, "score", cols[3].Name)
	require.Equal(t, "ordinal", cols[3].Class)
}
