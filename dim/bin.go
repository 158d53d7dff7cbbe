// Copyright 2026 The Heatmap Multiplexer Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dim

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/ric-evans/heatmap-multiplexer/dataset"
)

// MissingLabel is the label of the sentinel bin that collects missing
// (and, for explicit edges, out-of-range) values. It always sorts
// after every real bin.
const MissingLabel = "no data"

// A Binning is the frozen bin set of one dimension: a deterministic,
// total mapping from the column's values to ordered bins. Exactly one
// of Edges, Values, and Cats is non-nil:
//
//   - Edges: intervals [Edges[i], Edges[i+1]), the last closed at its
//     upper edge.
//   - Values: one bin per distinct numeric value, in increasing order.
//   - Cats: one bin per distinct string value, in lexical order.
//
// Every Binning additionally has a missing sentinel bin at index
// Bins().
type Binning struct {
	Column string
	Class  Class
	Rule   Rule

	Edges  []float64
	Values []float64
	Cats   []string

	valIdx map[float64]int
	catIdx map[string]int
}

// New bins col under rule. class must be the column's classification
// and hint is the target bin count for automatic binning (0 means
// DefaultHint). The rule must be well formed for class (Rule.Check).
func New(col *dataset.Column, class Class, rule Rule, hint int) (*Binning, error) {
	if err := rule.Check(class); err != nil {
		return nil, err
	}
	if hint < 1 {
		hint = DefaultHint
	}
	b := &Binning{Column: col.Name, Class: class, Rule: rule}

	if class == Categorical {
		b.Cats = distinctStrings(col)
		b.catIdx = make(map[string]int, len(b.Cats))
		for i, s := range b.Cats {
			b.catIdx[s] = i
		}
		return b, nil
	}

	xs := nonMissing(col)
	sort.Float64s(xs)
	d := distinctSorted(xs)

	switch {
	case len(d) == 0:
		// Every value is missing; only the sentinel bin exists.
	case rule.Kind == EdgeBins:
		b.Edges = append([]float64(nil), rule.Edges...)
	case len(d) == 1:
		// All values identical; one single-value bin regardless
		// of the requested count.
		b.setValues(d)
	case rule.Kind == CountBins:
		b.Edges = equalWidthEdges(d[0], d[len(d)-1], rule.N)
	case class == Ordinal || len(d) <= hint:
		b.setValues(d)
	default:
		b.Edges = SuggestEdges(xs, hint)
	}
	return b, nil
}

func (b *Binning) setValues(d []float64) {
	b.Values = d
	b.valIdx = make(map[float64]int, len(d))
	for i, v := range d {
		b.valIdx[v] = i
	}
}

// Bins returns the number of bins, not counting the missing sentinel.
func (b *Binning) Bins() int {
	switch {
	case b.Edges != nil:
		return len(b.Edges) - 1
	case b.Values != nil:
		return len(b.Values)
	}
	return len(b.Cats)
}

// MissingBin returns the index of the missing sentinel bin.
func (b *Binning) MissingBin() int {
	return b.Bins()
}

// Slots returns the total number of bins including the sentinel.
func (b *Binning) Slots() int {
	return b.Bins() + 1
}

// Index maps row i of col to its bin index. Missing and non-finite
// values map to MissingBin, as do values outside explicit edges or,
// for discrete bins, values never observed when the binning was
// built.
func (b *Binning) Index(col *dataset.Column, i int) int {
	if col.Missing(i) {
		return b.MissingBin()
	}
	if col.Kind == dataset.String {
		if j, ok := b.catIdx[col.Strs[i]]; ok {
			return j
		}
		return b.MissingBin()
	}
	return b.indexFloat(col.Floats[i])
}

func (b *Binning) indexFloat(v float64) int {
	if b.Values != nil {
		if j, ok := b.valIdx[v]; ok {
			return j
		}
		return b.MissingBin()
	}
	n := len(b.Edges)
	if n < 2 || v < b.Edges[0] || v > b.Edges[n-1] {
		return b.MissingBin()
	}
	if v == b.Edges[n-1] {
		// The last interval is closed at its upper edge.
		return n - 2
	}
	j := sort.SearchFloat64s(b.Edges, v)
	if j >= n {
		return b.MissingBin()
	}
	if b.Edges[j] == v {
		return j
	}
	return j - 1
}

// Label returns the display label of bin i.
func (b *Binning) Label(i int) string {
	if i == b.MissingBin() {
		return MissingLabel
	}
	switch {
	case b.Edges != nil:
		closing := ")"
		if i == len(b.Edges)-2 {
			closing = "]"
		}
		return fmt.Sprintf("[%s, %s%s", fmtFloat(b.Edges[i]), fmtFloat(b.Edges[i+1]), closing)
	case b.Values != nil:
		return fmtFloat(b.Values[i])
	}
	return b.Cats[i]
}

// Labels returns the labels of all bins, sentinel last.
func (b *Binning) Labels() []string {
	out := make([]string, b.Slots())
	for i := range out {
		out[i] = b.Label(i)
	}
	return out
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func nonMissing(col *dataset.Column) []float64 {
	// ±Inf parses from CSV ("Inf") but an infinite edge would poison
	// every interval computation, so infinities bin as missing.
	var xs []float64
	for _, v := range col.Floats {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			xs = append(xs, v)
		}
	}
	return xs
}

func distinctStrings(col *dataset.Column) []string {
	// Lexical order, so bin order never depends on record order.
	seen := make(map[string]struct{})
	var out []string
	for i := 0; i < col.Len(); i++ {
		if col.Missing(i) {
			continue
		}
		var s string
		if col.Kind == dataset.String {
			s = col.Strs[i]
		} else {
			s = fmtFloat(col.Floats[i])
		}
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}
