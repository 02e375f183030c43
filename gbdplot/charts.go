// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/aclements/go-gg/table"
	"github.com/spf13/cobra"

	"github.com/gbdtools/gbdplot/internal/analysis"
	"github.com/gbdtools/gbdplot/internal/chart"
	"github.com/gbdtools/gbdplot/internal/config"
)

var defaults = config.DefaultConfig()

// result is an analysis that can be previewed as a table.
type result interface {
	Table() *table.Table
}

// chartCmd returns a command that computes a result with compute and
// draws it with draw, or prints it with --table.
func chartCmd(a *app, use, short, top string, defTop int,
	compute func(d *dataset) (result, error),
	draw func(r *chart.Renderer, res result) (string, error)) *cobra.Command {

	cmd := &cobra.Command{
		Use:         use,
		Short:       short,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{topKey: top},
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.load()
			if err != nil {
				return err
			}
			res, err := compute(d)
			if a.missing(use, err) {
				return nil
			} else if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if tab, _ := cmd.Flags().GetBool("table"); tab {
				return table.Fprint(w, res.Table())
			}
			r, err := a.renderer()
			if err != nil {
				return err
			}
			path, err := draw(r, res)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(w, path)
			return err
		},
	}
	cmd.Flags().Int("top", defTop, "number of causes to show")
	return cmd
}

func newTimelineCmd(a *app) *cobra.Command {
	return chartCmd(a, "timeline", "Plot the top causes over time",
		"top.timeline", defaults.Top.Timeline,
		func(d *dataset) (result, error) {
			return analysis.NewTimeline(d.table, a.cfg.AnalysisFilter(0), a.cfg.Top.Timeline)
		},
		func(r *chart.Renderer, res result) (string, error) {
			return r.Timeline(res.(*analysis.Timeline))
		})
}

func newRankingCmd(a *app) *cobra.Command {
	cmd := chartCmd(a, "ranking", "Rank the causes with the highest mean DALYs",
		"top.ranking", defaults.Top.Ranking,
		func(d *dataset) (result, error) {
			return analysis.NewRanking(d.table, a.cfg.AnalysisFilter(a.cfg.Year), a.cfg.Top.Ranking)
		},
		func(r *chart.Renderer, res result) (string, error) {
			return r.Ranking(res.(*analysis.Ranking), a.cfg.Horizontal)
		})
	cmd.Flags().Bool("horizontal", defaults.Horizontal, "draw horizontal bars")
	return cmd
}

func newSexComparisonCmd(a *app) *cobra.Command {
	return chartCmd(a, "sex-comparison", "Compare the top causes between males and females",
		"top.sex_comparison", defaults.Top.SexComparison,
		func(d *dataset) (result, error) {
			c := a.cfg
			return analysis.NewSexComparison(d.table, c.Filter.Location, c.Filter.Age, c.Year, c.Top.SexComparison)
		},
		func(r *chart.Renderer, res result) (string, error) {
			return r.SexComparison(res.(*analysis.SexComparison))
		})
}

func newHeatmapCmd(a *app) *cobra.Command {
	return chartCmd(a, "heatmap", "Draw a cause by year heatmap of the top causes",
		"top.heatmap", defaults.Top.Heatmap,
		func(d *dataset) (result, error) {
			return analysis.NewHeatmap(d.table, a.cfg.AnalysisFilter(0), a.cfg.Top.Heatmap)
		},
		func(r *chart.Renderer, res result) (string, error) {
			return r.Heatmap(res.(*analysis.Heatmap))
		})
}
