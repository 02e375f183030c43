// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gbdtools/gbdplot/internal/report"
)

func newReportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Draw every chart and write a manifest",
		Long: `Report draws the timeline, the ranking, the sex comparison and the
heatmap for the selected location, and writes report.yaml listing the
charts it drew and the ones it skipped for lack of data.

With --table it prints the table behind each chart instead and writes
nothing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.load()
			if err != nil {
				return err
			}
			if tab, _ := cmd.Flags().GetBool("table"); tab {
				return report.Preview(cmd.OutOrStdout(), d.table, a.cfg.ReportParams(), a.log)
			}
			r, err := a.renderer()
			if err != nil {
				return err
			}
			m, err := report.Run(d.table, r, a.cfg.ReportParams(), a.log)
			if err != nil {
				return err
			}
			m.Data = a.cfg.Data
			path, err := m.WriteFile(r.Dir)
			if err != nil {
				return err
			}
			a.log.Info("wrote manifest", zap.String("path", path))
			_, err = fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	}
	cmd.Flags().Bool("horizontal", defaults.Horizontal, "draw horizontal ranking bars")
	return cmd
}
