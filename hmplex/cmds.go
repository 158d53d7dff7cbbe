// Copyright 2026 The Heatmap Multiplexer Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"os"
	"strconv"
	"strings"

	"github.com/aclements/go-gg/table"
	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ric-evans/heatmap-multiplexer/dataset"
	"github.com/ric-evans/heatmap-multiplexer/dim"
	"github.com/ric-evans/heatmap-multiplexer/heatmap"
)

func addCommands(root *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "columns",
		Short: "List the dataset's columns and their classifications",
		Args:  cobra.NoArgs,
		RunE:  columns}
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "suggest",
		Short: "Print the default specification for the dataset",
		Args:  cobra.NoArgs,
		RunE:  suggest}
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "compute",
		Short: "Compute a heatmap grid for the given specification",
		Args:  cobra.NoArgs,
		RunE:  compute}
	cmd.Flags().StringArrayP("x", "x", nil, "X axis `column` (repeatable, outer level first)")
	cmd.Flags().StringArrayP("y", "y", nil, "Y axis `column` (repeatable, outer level first)")
	cmd.Flags().StringArray("bins", nil, "explicit bin count as `column=N` (repeatable)")
	cmd.Flags().String("stat", "count", "statistic: count, min, max, mean, median, or mode")
	cmd.Flags().StringP("z", "z", "", "value `column` the statistic is computed over")
	cmd.Flags().Int("depth-x", 0, "X hierarchy depth (default: all X dimensions)")
	cmd.Flags().Int("depth-y", 0, "Y hierarchy depth (default: all Y dimensions)")
	cmd.Flags().Int("hint", dim.DefaultHint, "target bin count for automatic binning")
	cmd.Flags().Bool("json", false, "emit the grid as JSON instead of a table")
	root.AddCommand(cmd)
}

func loadEngine(cmd *cobra.Command) (*heatmap.Engine, error) {
	path, _ := cmd.Flags().GetString("csv")
	ds, err := dataset.ReadCSVFile(path)
	if err != nil {
		return nil, err
	}
	return heatmap.New(ds), nil
}

func columns(cmd *cobra.Command, args []string) error {
	eng, err := loadEngine(cmd)
	if err != nil {
		return err
	}
	infos := eng.Columns()
	names := make([]string, len(infos))
	classes := make([]string, len(infos))
	distinct := make([]int, len(infos))
	for i, info := range infos {
		names[i] = info.Name
		classes[i] = info.Class
		distinct[i] = info.Distinct
	}
	tab := new(table.Builder).
		Add("column", names).
		Add("class", classes).
		Add("distinct", distinct).
		Done()
	return table.Fprint(os.Stdout, tab)
}

func suggest(cmd *cobra.Command, args []string) error {
	eng, err := loadEngine(cmd)
	if err != nil {
		return err
	}
	return printJSON(eng.SuggestDefault())
}

func compute(cmd *cobra.Command, args []string) error {
	eng, err := loadEngine(cmd)
	if err != nil {
		return err
	}
	spec, err := specFromFlags(cmd)
	if err != nil {
		return err
	}
	grid, err := eng.Compute(context.Background(), spec)
	if err != nil {
		return err
	}
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return printJSON(grid)
	}
	return printGrid(grid)
}

func specFromFlags(cmd *cobra.Command) (*heatmap.Specification, error) {
	binFlags, _ := cmd.Flags().GetStringArray("bins")
	rules := make(map[string]dim.Rule)
	for _, bf := range binFlags {
		col, n, ok := strings.Cut(bf, "=")
		if !ok {
			return nil, errors.Errorf("malformed --bins value %q, want column=N", bf)
		}
		count, err := strconv.Atoi(n)
		if err != nil {
			return nil, errors.Errorf("malformed bin count in %q", bf)
		}
		rules[col] = dim.Rule{Kind: dim.CountBins, N: count}
	}

	axisDims := func(cols []string) []heatmap.DimensionSpec {
		out := make([]heatmap.DimensionSpec, len(cols))
		for i, col := range cols {
			out[i] = heatmap.DimensionSpec{Column: col, Rule: rules[col]}
		}
		return out
	}
	xCols, _ := cmd.Flags().GetStringArray("x")
	yCols, _ := cmd.Flags().GetStringArray("y")

	statName, _ := cmd.Flags().GetString("stat")
	stat, err := heatmap.ParseStat(statName)
	if err != nil {
		return nil, err
	}

	spec := &heatmap.Specification{
		X:    axisDims(xCols),
		Y:    axisDims(yCols),
		Stat: stat,
	}
	spec.ZColumn, _ = cmd.Flags().GetString("z")
	spec.BinHint, _ = cmd.Flags().GetInt("hint")

	spec.XDepth, _ = cmd.Flags().GetInt("depth-x")
	if spec.XDepth == 0 {
		spec.XDepth = max(1, len(xCols))
	}
	spec.YDepth, _ = cmd.Flags().GetInt("depth-y")
	if spec.YDepth == 0 {
		spec.YDepth = max(1, len(yCols))
	}
	return spec, nil
}

// printGrid prints the non-empty cells, one row per cell.
func printGrid(g *heatmap.Grid) error {
	ys := make([]string, len(g.Cells))
	xs := make([]string, len(g.Cells))
	counts := make([]int, len(g.Cells))
	vals := make([]string, len(g.Cells))
	for i, cell := range g.Cells {
		ys[i] = g.YBins[cell.Y].Key
		xs[i] = g.XBins[cell.X].Key
		counts[i] = cell.Count
		switch {
		case cell.Mode != "":
			vals[i] = cell.Mode
		case cell.Value != nil:
			vals[i] = strconv.FormatFloat(*cell.Value, 'g', -1, 64)
		}
	}
	tab := new(table.Builder).
		Add("y", ys).
		Add("x", xs).
		Add("count", counts)
	if g.Stat != "count" {
		tab.Add(g.Stat, vals)
	}
	return table.Fprint(os.Stdout, tab.Done())
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
