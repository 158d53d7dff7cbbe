// Copyright 2026 The Heatmap Multiplexer Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heatmap

import (
	"context"
	"runtime"
	"sort"
	"strconv"

	"github.com/aclements/go-moremath/stats"
	"golang.org/x/sync/errgroup"

	"github.com/ric-evans/heatmap-multiplexer/dataset"
)

// A cellAcc accumulates one (X,Y) group during aggregation.
type cellAcc struct {
	count int
	// vals are the non-missing numeric values of the value
	// dimension in this group; unused for count and mode.
	vals []float64
	// catCounts counts value-dimension categories for mode.
	catCounts map[string]int
}

// aggregate groups every record by (X composite bin, Y composite bin)
// and accumulates the value dimension per group. The key of the
// returned map is y*x.total + x.
//
// Records are sharded across CPUs and the shards merged afterwards;
// the result is independent of record order and of the shard count.
func aggregate(ctx context.Context, ds *dataset.Dataset, x, y *axisLevels, zcol *dataset.Column, stat Stat) (map[int]*cellAcc, error) {
	rows := ds.Rows()
	workers := runtime.NumCPU()
	if workers > rows {
		workers = 1
	}

	shards := make([]map[int]*cellAcc, workers)
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		w := w
		lo := rows * w / workers
		hi := rows * (w + 1) / workers
		g.Go(func() error {
			acc := make(map[int]*cellAcc)
			for row := lo; row < hi; row++ {
				if row%4096 == 0 && ctx.Err() != nil {
					return ctx.Err()
				}
				key := y.index(row)*x.total + x.index(row)
				c := acc[key]
				if c == nil {
					c = &cellAcc{}
					acc[key] = c
				}
				c.count++
				if zcol == nil || zcol.Missing(row) {
					continue
				}
				switch {
				case stat == StatCount:
				case stat == StatMode:
					if c.catCounts == nil {
						c.catCounts = make(map[string]int)
					}
					c.catCounts[cellValue(zcol, row)]++
				default:
					c.vals = append(c.vals, zcol.Floats[row])
				}
			}
			shards[w] = acc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make(map[int]*cellAcc)
	for _, shard := range shards {
		for key, c := range shard {
			m := merged[key]
			if m == nil {
				merged[key] = c
				continue
			}
			m.count += c.count
			m.vals = append(m.vals, c.vals...)
			for cat, n := range c.catCounts {
				if m.catCounts == nil {
					m.catCounts = make(map[string]int)
				}
				m.catCounts[cat] += n
			}
		}
	}
	return merged, nil
}

func cellValue(col *dataset.Column, row int) string {
	if col.Kind == dataset.String {
		return col.Strs[row]
	}
	return strconv.FormatFloat(col.Floats[row], 'g', -1, 64)
}

// statistic computes the selected statistic of one group. ok is false
// when the group has no usable values, in which case the statistic is
// null but the count still stands.
func (c *cellAcc) statistic(stat Stat) (val float64, cat string, ok bool) {
	switch stat {
	case StatCount:
		return float64(c.count), "", true
	case StatMode:
		return 0, c.mode(), c.catCounts != nil
	}
	if len(c.vals) == 0 {
		return 0, "", false
	}
	// Sort first so summation order, and therefore the result, never
	// depends on record order or shard boundaries.
	sort.Float64s(c.vals)
	switch stat {
	case StatMin:
		return c.vals[0], "", true
	case StatMax:
		return c.vals[len(c.vals)-1], "", true
	case StatMean:
		return stats.Mean(c.vals), "", true
	case StatMedian:
		s := stats.Sample{Xs: c.vals, Sorted: true}
		return s.Quantile(0.5), "", true
	}
	return 0, "", false
}

// mode returns the most frequent category, breaking ties toward the
// lexically smallest.
func (c *cellAcc) mode() string {
	best, bestN := "", 0
	for cat, n := range c.catCounts {
		if n > bestN || (n == bestN && cat < best) {
			best, bestN = cat, n
		}
	}
	return best
}
