// Copyright 2026 The Heatmap Multiplexer Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heatmap

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ric-evans/heatmap-multiplexer/dataset"
	"github.com/ric-evans/heatmap-multiplexer/dim"
)

// An Engine computes grids for a single dataset session. It owns the
// only persisted state: cached column classifications, the binning of
// every column a specification has referenced, and the previous
// (specification, grid) pair used for selective invalidation. The
// cache is invalidated wholesale by Reset.
//
// An Engine is not safe for concurrent use; the surrounding control
// surface invokes Compute once per settled edit.
type Engine struct {
	ds         *dataset.Dataset
	classifier *dim.Classifier

	// binnings persists across visibility toggles and depth
	// changes, so toggling a dimension never re-derives its edges.
	binnings map[string]*dim.Binning

	prevSpec *Specification
	prevGrid *Grid
}

// New returns an Engine for ds.
func New(ds *dataset.Dataset) *Engine {
	e := &Engine{}
	e.Reset(ds)
	return e
}

// Reset replaces the dataset and discards every cache.
func (e *Engine) Reset(ds *dataset.Dataset) {
	e.ds = ds
	e.classifier = dim.NewClassifier()
	e.binnings = make(map[string]*dim.Binning)
	e.prevSpec = nil
	e.prevGrid = nil
}

// Dataset returns the engine's dataset.
func (e *Engine) Dataset() *dataset.Dataset {
	return e.ds
}

// Binning returns the cached binning of column, or nil if no
// computation has bound the column yet. The control surface uses it
// to label bin sliders and tooltips with the derived edges.
func (e *Engine) Binning(column string) *dim.Binning {
	return e.binnings[column]
}

// ColumnInfo describes one dataset column for the control surface.
type ColumnInfo struct {
	Name     string `json:"name"`
	Class    string `json:"class"`
	Distinct int    `json:"distinct"`
}

// Columns returns every column with its classification, in dataset
// order.
func (e *Engine) Columns() []ColumnInfo {
	names := e.ds.Names()
	out := make([]ColumnInfo, len(names))
	for i, name := range names {
		col := e.ds.Column(name)
		out[i] = ColumnInfo{
			Name:     name,
			Class:    e.classifier.Classify(col).String(),
			Distinct: col.DistinctCount(),
		}
	}
	return out
}

// SuggestDefault returns the specification used on initial load: the
// first two columns as X and Y, automatic binning, the count
// statistic.
func (e *Engine) SuggestDefault() *Specification {
	s := &Specification{XDepth: 1, YDepth: 1, Stat: StatCount, BinHint: dim.DefaultHint}
	names := e.ds.Names()
	if len(names) > 0 {
		s.X = []DimensionSpec{{Column: names[0]}}
	}
	if len(names) > 1 {
		s.Y = []DimensionSpec{{Column: names[1]}}
	}
	return s
}

// Compute computes the grid for spec.
//
// The specification is validated up front; an invalid one is rejected
// with ErrInvalidSpec and leaves the cache and the previous grid
// untouched. An unchanged specification returns the memoized grid.
// Otherwise only the dimensions whose rules changed are rebinned
// (independent dimensions in parallel), and grouping and aggregation
// rerun at the new granularity; an edit that affects nothing visible
// keeps the previous grid. Compute honors ctx cancellation; a
// cancelled run commits nothing.
func (e *Engine) Compute(ctx context.Context, spec *Specification) (*Grid, error) {
	if err := validate(e.ds, e.classifier, spec); err != nil {
		return nil, err
	}
	if e.prevSpec != nil && spec.Equal(e.prevSpec) {
		return e.prevGrid, nil
	}

	d := DiffSpecs(e.prevSpec, spec)

	// Bin every referenced column that has no cached binning or is
	// marked for rebinning. Work lands in a scratch map so a failed
	// run leaves the cache untouched.
	binnings := make(map[string]*dim.Binning, len(e.binnings))
	for name, b := range e.binnings {
		binnings[name] = b
	}
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, ds := range append(append([]DimensionSpec(nil), spec.X...), spec.Y...) {
		ds := ds
		if _, cached := binnings[ds.Column]; cached && !d.Rebin[ds.Column] {
			continue
		}
		// Classify outside the goroutine; the classifier cache is
		// not safe for concurrent misses.
		col := e.ds.Column(ds.Column)
		class := e.classifier.Classify(col)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			b, err := dim.New(col, class, ds.Rule, spec.BinHint)
			if err != nil {
				return err
			}
			mu.Lock()
			binnings[ds.Column] = b
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if !d.Reaggregate && !d.Relabel {
		// Nothing visible changed, e.g. a hint change whose rebinned
		// dimensions are all hidden. Commit the refreshed binnings
		// and keep the previous grid.
		e.binnings = binnings
		e.prevSpec = spec.Clone()
		return e.prevGrid, nil
	}

	// Aggregation waits for all dimensions on both axes.
	x, err := newAxisLevels(e.ds, spec.X, spec.XDepth, binnings)
	if err != nil {
		return nil, err
	}
	y, err := newAxisLevels(e.ds, spec.Y, spec.YDepth, binnings)
	if err != nil {
		return nil, err
	}

	var zcol *dataset.Column
	if spec.Stat != StatCount {
		zcol = e.ds.Column(spec.ZColumn)
	}
	cells, err := aggregate(ctx, e.ds, x, y, zcol, spec.Stat)
	if err != nil {
		return nil, err
	}
	grid := buildGrid(x, y, cells, spec.Stat, spec.ZColumn)

	e.binnings = binnings
	e.prevSpec = spec.Clone()
	e.prevGrid = grid
	return grid, nil
}
