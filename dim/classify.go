// Copyright 2026 The Heatmap Multiplexer Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dim classifies dataset columns and bins their values.
//
// A dimension is a dataset column used as an axis component. Each
// dimension is classified as continuous, ordinal, or categorical and
// is discretized into an ordered set of bins by a Rule. The resulting
// Binning maps every value of the column, including missing values,
// to exactly one bin.
package dim

import (
	"github.com/ric-evans/heatmap-multiplexer/dataset"
)

// Class is the binning-oriented type of a dimension.
type Class int

const (
	// Continuous dimensions are numeric with many distinct values
	// and are binned into intervals.
	Continuous Class = iota
	// Ordinal dimensions are numeric with few distinct values and
	// default to one bin per distinct value.
	Ordinal
	// Categorical dimensions are non-numeric; each distinct value
	// is its own bin.
	Categorical
)

func (c Class) String() string {
	switch c {
	case Continuous:
		return "continuous"
	case Ordinal:
		return "ordinal"
	case Categorical:
		return "categorical"
	}
	return "unknown"
}

// OrdinalMax is the largest number of distinct non-missing values for
// which a numeric column classifies as ordinal rather than continuous.
const OrdinalMax = 12

// Classify classifies a column. Numeric columns with more than
// OrdinalMax distinct non-missing values are continuous, numeric
// columns with fewer are ordinal, and string columns are categorical.
// A column with no non-missing values at all classifies as
// categorical; binning it yields only the "no data" bin.
func Classify(col *dataset.Column) Class {
	if col.Kind != dataset.Numeric {
		return Categorical
	}
	n := col.DistinctCount()
	switch {
	case n == 0:
		return Categorical
	case n <= OrdinalMax:
		return Ordinal
	}
	return Continuous
}

// A Classifier caches classifications per column name. Classification
// depends only on the dataset, so a Classifier is valid for the
// dataset's lifetime and must be discarded when a new dataset is
// loaded.
type Classifier struct {
	cache map[string]Class
}

// NewClassifier returns an empty Classifier.
func NewClassifier() *Classifier {
	return &Classifier{cache: make(map[string]Class)}
}

// Classify returns the cached class of col, computing it on first use.
func (cl *Classifier) Classify(col *dataset.Column) Class {
	if c, ok := cl.cache[col.Name]; ok {
		return c
	}
	c := Classify(col)
	cl.cache[col.Name] = c
	return c
}
