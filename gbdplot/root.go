// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/aclements/go-gg/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gbdtools/gbdplot/gbd"
	"github.com/gbdtools/gbdplot/internal/analysis"
	"github.com/gbdtools/gbdplot/internal/chart"
	"github.com/gbdtools/gbdplot/internal/config"
	"github.com/gbdtools/gbdplot/internal/logging"
)

// app is the state shared by every command of one process,
// including the commands run by batch.
type app struct {
	cfg *config.Config
	log *zap.Logger

	// level is the level of log. Each command sets it from its own
	// --verbose, so batch lines can change it.
	level zap.AtomicLevel

	// datasets caches parsed CSV files by path.
	datasets map[string]*dataset

	// profiled is the command that started profiling, and
	// stopProfile ends it.
	profiled    *cobra.Command
	stopProfile func() error
}

type dataset struct {
	records []*gbd.Record
	table   *table.Table
}

// flagKeys maps persistent flags to the configuration keys they
// override.
var flagKeys = map[string]string{
	"data":      "data",
	"out":       "out_dir",
	"location":  "filter.location",
	"sex":       "filter.sex",
	"age":       "filter.age",
	"year":      "year",
	"format":    "chart.format",
	"dpi":       "chart.dpi",
	"thumbnail": "chart.thumbnail_width",
	"verbose":   "verbose",
}

// topKey is the annotation naming the configuration key bound to a
// command's --top flag.
const topKey = "gbdplot/top"

func newApp() *app {
	return &app{level: zap.NewAtomicLevel()}
}

func newRootCmd(a *app) *cobra.Command {
	d := config.DefaultConfig()
	root := &cobra.Command{
		Use:   "gbdplot",
		Short: "Chart Global Burden of Disease DALY estimates",
		Long: `gbdplot reads a GBD results CSV and draws charts of the causes with the
largest burden: their evolution over time, rankings, comparisons between
males and females, and cause by year heatmaps.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "read settings from `file` (default ./gbdplot.yaml or ~/.config/gbdplot/gbdplot.yaml)")
	pf.String("data", d.Data, "GBD results CSV `file`")
	pf.String("out", d.OutDir, "write charts to `dir`")
	pf.String("location", d.Filter.Location, "location to chart")
	pf.String("sex", d.Filter.Sex, "sex to chart")
	pf.String("age", d.Filter.Age, "age group to chart")
	pf.Int("year", d.Year, "year of rankings and sex comparisons (0 for the mean of all years)")
	pf.String("format", d.Chart.Format, fmt.Sprintf("chart image format, one of %v", chart.Formats))
	pf.Int("dpi", d.Chart.DPI, "resolution of raster charts")
	pf.Int("thumbnail", d.Chart.ThumbnailWidth, "also write PNG thumbnails `width` pixels wide")
	pf.Bool("table", false, "print the aggregated table instead of drawing a chart")
	pf.BoolP("verbose", "v", false, "log debug messages")
	pf.String("cpuprofile", "", "write CPU profile to `file`")
	pf.String("memprofile", "", "write heap profile to `file`")

	root.AddCommand(
		newInfoCmd(a),
		newTimelineCmd(a),
		newRankingCmd(a),
		newSexComparisonCmd(a),
		newHeatmapCmd(a),
		newReportCmd(a),
		newBatchCmd(a),
	)
	return root
}

// setup loads the configuration for cmd and starts profiling.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	cfgFile, _ := flags.GetString("config")
	v := config.NewViper(cfgFile)
	for name, key := range flagKeys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return err
		}
	}
	if key, ok := cmd.Annotations[topKey]; ok {
		if err := v.BindPFlag(key, flags.Lookup("top")); err != nil {
			return err
		}
	}
	if f := flags.Lookup("horizontal"); f != nil {
		if err := v.BindPFlag("horizontal", f); err != nil {
			return err
		}
	}
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if a.log == nil {
		if a.log, err = logging.New(a.level); err != nil {
			return err
		}
	}
	a.level.SetLevel(logging.Level(cfg.Verbose))
	if used := v.ConfigFileUsed(); used != "" {
		a.log.Debug("using config file", zap.String("path", used))
	}

	return a.startProfile(cmd)
}

func (a *app) startProfile(cmd *cobra.Command) error {
	cpu, _ := cmd.Flags().GetString("cpuprofile")
	mem, _ := cmd.Flags().GetString("memprofile")
	if cpu == "" && mem == "" || a.profiled != nil {
		return nil
	}
	var stops []func() error
	if cpu != "" {
		f, err := os.Create(cpu)
		if err != nil {
			return err
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return err
		}
		stops = append(stops, func() error {
			pprof.StopCPUProfile()
			return f.Close()
		})
	}
	if mem != "" {
		stops = append(stops, func() error {
			runtime.GC()
			f, err := os.Create(mem)
			if err != nil {
				return err
			}
			if err := pprof.WriteHeapProfile(f); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		})
	}
	a.profiled = cmd
	a.stopProfile = func() error {
		var errs []error
		for _, stop := range stops {
			errs = append(errs, stop())
		}
		return errors.Join(errs...)
	}
	return nil
}

func (a *app) teardown(cmd *cobra.Command) error {
	var err error
	if cmd == a.profiled {
		err = a.stopProfile()
		a.profiled, a.stopProfile = nil, nil
	}
	// Syncing stderr fails on some platforms; ignore it.
	_ = a.log.Sync()
	return err
}

// load returns the configured dataset, parsing it on first use.
func (a *app) load() (*dataset, error) {
	path := a.cfg.Data
	if d, ok := a.datasets[path]; ok {
		return d, nil
	}
	rs, err := gbd.ReadFile(path)
	if err != nil {
		return nil, err
	}
	d := &dataset{records: rs, table: gbd.Table(rs)}
	if a.datasets == nil {
		a.datasets = make(map[string]*dataset)
	}
	a.datasets[path] = d
	a.log.Info("loaded dataset", zap.String("path", path), zap.Int("rows", len(rs)))
	return d, nil
}

func (a *app) renderer() (*chart.Renderer, error) {
	return chart.NewRenderer(a.cfg.OutDir, a.cfg.ChartOptions(), a.log)
}

// missing reports whether err means the selected data does not
// exist. Such errors are logged instead of failing the command.
func (a *app) missing(what string, err error) bool {
	if errors.Is(err, analysis.ErrNoData) || errors.Is(err, analysis.ErrNoSexSplit) {
		a.log.Warn("nothing to draw", zap.String("chart", what), zap.Error(err))
		return true
	}
	return false
}
