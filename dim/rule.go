// Copyright 2026 The Heatmap Multiplexer Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dim

import (
	"github.com/pkg/errors"
)

// RuleKind selects a binning strategy.
type RuleKind int

const (
	// AutoBins picks edges automatically (see SuggestEdges).
	AutoBins RuleKind = iota
	// CountBins divides the observed range into N equal-width bins.
	CountBins
	// EdgeBins uses explicit, strictly increasing edges.
	EdgeBins
	// Categories passes each distinct value through as its own bin.
	Categories
)

var ruleKindNames = map[RuleKind]string{
	AutoBins:   "auto",
	CountBins:  "count",
	EdgeBins:   "edges",
	Categories: "categories",
}

func (k RuleKind) String() string {
	if s, ok := ruleKindNames[k]; ok {
		return s
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (k RuleKind) MarshalText() ([]byte, error) {
	s, ok := ruleKindNames[k]
	if !ok {
		return nil, errors.Errorf("unknown rule kind %d", int(k))
	}
	return []byte(s), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *RuleKind) UnmarshalText(text []byte) error {
	for kind, name := range ruleKindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return errors.Errorf("unknown rule kind %q", text)
}

// A Rule describes how one dimension is discretized. The zero Rule is
// AutoBins.
type Rule struct {
	Kind RuleKind `json:"kind"`
	// N is the requested bin count for CountBins.
	N int `json:"n,omitempty"`
	// Edges are the explicit edges for EdgeBins.
	Edges []float64 `json:"edges,omitempty"`
}

// Check reports whether the rule is well formed for a dimension of
// the given class.
func (r Rule) Check(class Class) error {
	switch r.Kind {
	case AutoBins:
		return nil
	case CountBins:
		if class == Categorical {
			return errors.New("bin counts do not apply to categorical dimensions")
		}
		if r.N < 1 {
			return errors.Errorf("bin count %d < 1", r.N)
		}
	case EdgeBins:
		if class == Categorical {
			return errors.New("explicit edges do not apply to categorical dimensions")
		}
		if len(r.Edges) < 2 {
			return errors.Errorf("%d edges make no bins", len(r.Edges))
		}
		for i := 1; i < len(r.Edges); i++ {
			if r.Edges[i] <= r.Edges[i-1] {
				return errors.Errorf("edges not strictly increasing at %v", r.Edges[i])
			}
		}
	case Categories:
		if class != Categorical {
			return errors.Errorf("categorical rule on a %s dimension", class)
		}
	default:
		return errors.Errorf("unknown rule kind %d", int(r.Kind))
	}
	return nil
}

// Equal reports whether two rules are identical.
func (r Rule) Equal(o Rule) bool {
	if r.Kind != o.Kind || r.N != o.N || len(r.Edges) != len(o.Edges) {
		return false
	}
	for i := range r.Edges {
		if r.Edges[i] != o.Edges[i] {
			return false
		}
	}
	return true
}
