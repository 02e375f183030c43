// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/gbdtools/gbdplot/gbd"
	"github.com/gbdtools/gbdplot/internal/analysis"
)

func newInfoCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Describe the dataset",
		Long: `Info prints the number of rows, the years covered, the number of
locations, causes and age groups, the sexes present and summary
statistics of the values.

With --trend it also plots total DALYs per year for the selected
location, sex and age group.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.load()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if err := gbd.Summarize(d.records).Fprint(w); err != nil {
				return err
			}

			if trend, _ := cmd.Flags().GetBool("trend"); !trend {
				return nil
			}
			f := a.cfg.AnalysisFilter(0)
			s, err := analysis.YearTotals(d.table, f)
			if a.missing("trend", err) {
				return nil
			} else if err != nil {
				return err
			}
			caption := fmt.Sprintf("Total DALYs %d-%d, %s", s.Years[0], s.Years[len(s.Years)-1], f)
			_, err = fmt.Fprintf(w, "\n%s\n", asciigraph.Plot(s.Values,
				asciigraph.Height(10),
				asciigraph.Width(60),
				asciigraph.Caption(caption)))
			return err
		},
	}
	cmd.Flags().Bool("trend", false, "plot total DALYs per year")
	return cmd
}
