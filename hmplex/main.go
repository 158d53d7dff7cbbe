// Copyright 2026 The Heatmap Multiplexer Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command hmplex explores a CSV dataset as a multi-variate heatmap
// from the command line: classify columns, suggest a default
// specification, or compute a grid for an explicit one.
package main

import (
	"log"

	"github.com/spf13/cobra"
)

func main() {
	log.SetPrefix("hmplex: ")
	log.SetFlags(0)

	root := &cobra.Command{
		Use:           "hmplex",
		Short:         "Explore a CSV dataset as a multi-variate heatmap",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringP("csv", "c", "", "dataset CSV `file` (required)")
	root.MarkPersistentFlagRequired("csv")
	addCommands(root)

	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}
