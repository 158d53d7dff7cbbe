// Copyright 2026 The Heatmap Multiplexer Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dim

import (
	"math"
	"testing"

	"github.com/ric-evans/heatmap-multiplexer/dataset"
)

// checkPartition checks that every row maps to exactly one bin index
// in [0, Slots()).
func checkPartition(t *testing.T, b *Binning, col *dataset.Column) {
	t.Helper()
	for i := 0; i < col.Len(); i++ {
		j := b.Index(col, i)
		if j < 0 || j >= b.Slots() {
			t.Fatalf("row %d mapped to bin %d, want [0, %d)", i, j, b.Slots())
		}
	}
}

func TestEdgeBinMembership(t *testing.T) {
	col := numericCol("v", 0, 5, 10, 15, 20, math.NaN(), -1, 25)
	b, err := New(col, Continuous, Rule{Kind: EdgeBins, Edges: []float64{0, 10, 20}}, 0)
	if err != nil {
		t.Fatal(err)
	}
	checkPartition(t, b, col)

	cases := []struct {
		row, want int
	}{
		{0, 0}, // left edge of first bin
		{1, 0},
		{2, 1}, // interior edge belongs to the right bin
		{3, 1},
		{4, 1},              // last bin closed at its upper edge
		{5, b.MissingBin()}, // NaN
		{6, b.MissingBin()}, // below range
		{7, b.MissingBin()}, // above range
	}
	for _, c := range cases {
		if got := b.Index(col, c.row); got != c.want {
			t.Errorf("row %d -> bin %d, want %d", c.row, got, c.want)
		}
	}

	if got, want := b.Label(0), "[0, 10)"; got != want {
		t.Errorf("Label(0) = %q, want %q", got, want)
	}
	if got, want := b.Label(1), "[10, 20]"; got != want {
		t.Errorf("Label(1) = %q, want %q", got, want)
	}
	if got, want := b.Label(b.MissingBin()), MissingLabel; got != want {
		t.Errorf("missing label = %q, want %q", got, want)
	}
}

func TestOrdinalDistinctBins(t *testing.T) {
	col := numericCol("o", 3, 1, 2, 2, 3, math.NaN())
	b, err := New(col, Ordinal, Rule{}, 0)
	if err != nil {
		t.Fatal(err)
	}
	checkPartition(t, b, col)
	if got, want := b.Bins(), 3; got != want {
		t.Fatalf("Bins() = %d, want %d", got, want)
	}
	// One bin per distinct value, in increasing order.
	for i, want := range []string{"1", "2", "3"} {
		if got := b.Label(i); got != want {
			t.Errorf("Label(%d) = %q, want %q", i, got, want)
		}
	}
	if got := b.Index(col, 5); got != b.MissingBin() {
		t.Errorf("NaN -> bin %d, want %d", got, b.MissingBin())
	}
}

func TestCategoricalLexicalOrder(t *testing.T) {
	col := stringCol("s", "pear", "apple", "quince", "apple", "")
	b, err := New(col, Categorical, Rule{}, 0)
	if err != nil {
		t.Fatal(err)
	}
	checkPartition(t, b, col)
	want := []string{"apple", "pear", "quince", MissingLabel}
	labels := b.Labels()
	if len(labels) != len(want) {
		t.Fatalf("Labels() = %v, want %v", labels, want)
	}
	for i := range want {
		if labels[i] != want[i] {
			t.Fatalf("Labels() = %v, want %v", labels, want)
		}
	}
	if got := b.Index(col, 4); got != b.MissingBin() {
		t.Errorf("empty cell -> bin %d, want %d", got, b.MissingBin())
	}
}

func TestCountBinsEqualWidth(t *testing.T) {
	vals := make([]float64, 0, 101)
	for i := 0; i <= 100; i++ {
		vals = append(vals, float64(i))
	}
	col := numericCol("v", vals...)
	b, err := New(col, Continuous, Rule{Kind: CountBins, N: 4}, 0)
	if err != nil {
		t.Fatal(err)
	}
	checkPartition(t, b, col)
	if got, want := b.Bins(), 4; got != want {
		t.Fatalf("Bins() = %d, want %d", got, want)
	}
	for i, want := range []float64{0, 25, 50, 75, 100} {
		if b.Edges[i] != want {
			t.Fatalf("Edges = %v", b.Edges)
		}
	}
	if got := b.Index(col, 100); got != 3 {
		t.Errorf("max value -> bin %d, want 3 (last bin closed)", got)
	}
}

func TestDegenerateSingleValue(t *testing.T) {
	col := numericCol("v", 7, 7, 7, 7)
	b, err := New(col, Continuous, Rule{Kind: CountBins, N: 10}, 0)
	if err != nil {
		t.Fatal(err)
	}
	// Reduced effective bin count, not ten zero-width bins.
	if got, want := b.Bins(), 1; got != want {
		t.Fatalf("Bins() = %d, want %d", got, want)
	}
	if got := b.Index(col, 0); got != 0 {
		t.Errorf("value -> bin %d, want 0", got)
	}
}

func TestNonFiniteValues(t *testing.T) {
	vals := []float64{math.Inf(1), math.Inf(-1)}
	for i := 0; i < 20; i++ {
		vals = append(vals, float64(i))
	}
	col := numericCol("v", vals...)
	b, err := New(col, Continuous, Rule{}, 8)
	if err != nil {
		t.Fatal(err)
	}
	checkPartition(t, b, col)
	for _, e := range b.Edges {
		if math.IsNaN(e) || math.IsInf(e, 0) {
			t.Fatalf("non-finite edge in %v", b.Edges)
		}
	}
	// Infinities carry no interval information and bin as missing.
	if got := b.Index(col, 0); got != b.MissingBin() {
		t.Errorf("+Inf -> bin %d, want %d", got, b.MissingBin())
	}
	if got := b.Index(col, 1); got != b.MissingBin() {
		t.Errorf("-Inf -> bin %d, want %d", got, b.MissingBin())
	}

	// Same for discrete value bins.
	ocol := numericCol("o", 1, 2, math.Inf(1))
	ob, err := New(ocol, Ordinal, Rule{}, 0)
	if err != nil {
		t.Fatal(err)
	}
	checkPartition(t, ob, ocol)
	if got, want := ob.Bins(), 2; got != want {
		t.Fatalf("Bins() = %d, want %d", got, want)
	}
	if got := ob.Index(ocol, 2); got != ob.MissingBin() {
		t.Errorf("+Inf -> bin %d, want %d", got, ob.MissingBin())
	}
}

func TestAllMissingColumn(t *testing.T) {
	col := numericCol("v", math.NaN(), math.NaN())
	b, err := New(col, Categorical, Rule{}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := b.Bins(), 0; got != want {
		t.Fatalf("Bins() = %d, want %d", got, want)
	}
	checkPartition(t, b, col)
	if got := b.Label(b.MissingBin()); got != MissingLabel {
		t.Errorf("label = %q, want %q", got, MissingLabel)
	}
}

func TestAutoContinuous(t *testing.T) {
	vals := make([]float64, 200)
	for i := range vals {
		vals[i] = float64(i) / 2
	}
	col := numericCol("v", vals...)
	b, err := New(col, Continuous, Rule{}, 8)
	if err != nil {
		t.Fatal(err)
	}
	checkPartition(t, b, col)
	if b.Edges == nil {
		t.Fatal("auto continuous binning produced no edges")
	}
	if b.Bins() > 8 {
		t.Errorf("Bins() = %d, want <= 8", b.Bins())
	}
}

func TestRuleCheck(t *testing.T) {
	cases := []struct {
		name  string
		rule  Rule
		class Class
		ok    bool
	}{
		{"auto always fine", Rule{}, Categorical, true},
		{"count on continuous", Rule{Kind: CountBins, N: 5}, Continuous, true},
		{"count on categorical", Rule{Kind: CountBins, N: 5}, Categorical, false},
		{"zero count", Rule{Kind: CountBins}, Continuous, false},
		{"edges on ordinal", Rule{Kind: EdgeBins, Edges: []float64{1, 2}}, Ordinal, true},
		{"one edge", Rule{Kind: EdgeBins, Edges: []float64{1}}, Continuous, false},
		{"unsorted edges", Rule{Kind: EdgeBins, Edges: []float64{2, 1}}, Continuous, false},
		{"categories on categorical", Rule{Kind: Categories}, Categorical, true},
		{"categories on continuous", Rule{Kind: Categories}, Continuous, false},
	}
	for _, c := range cases {
		err := c.rule.Check(c.class)
		if (err == nil) != c.ok {
			t.Errorf("%s: Check = %v, want ok=%v", c.name, err, c.ok)
		}
	}
}
