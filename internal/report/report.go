// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package report produces the full set of charts for one location.
package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/aclements/go-gg/table"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/gbdtools/gbdplot/internal/analysis"
	"github.com/gbdtools/gbdplot/internal/chart"
)

// ManifestFile is the name of the manifest written by WriteFile.
const ManifestFile = "report.yaml"

// Tops is the number of causes shown by each chart of a report.
type Tops struct {
	Timeline      int `yaml:"timeline"`
	Ranking       int `yaml:"ranking"`
	SexComparison int `yaml:"sex_comparison"`
	Heatmap       int `yaml:"heatmap"`
}

// Params selects what a report charts.
type Params struct {
	Location string `yaml:"location"`
	Sex      string `yaml:"sex"`
	Age      string `yaml:"age"`

	// Year is used by the ranking and the sex comparison. 0 means
	// the mean across all years.
	Year int `yaml:"year"`

	Tops       Tops `yaml:"top"`
	Horizontal bool `yaml:"horizontal"`
}

// DefaultParams returns the parameters of the standard global report.
func DefaultParams() Params {
	return Params{
		Location:   "Global",
		Sex:        analysis.Both,
		Age:        "All ages",
		Year:       2017,
		Tops:       Tops{Timeline: 10, Ranking: 20, SexComparison: 15, Heatmap: 15},
		Horizontal: true,
	}
}

// Manifest records what a report produced.
type Manifest struct {
	Generated time.Time `yaml:"generated"`
	Data      string    `yaml:"data,omitempty"`
	Params    Params    `yaml:"params"`
	Charts    []Entry   `yaml:"charts"`
	Skipped   []Skip    `yaml:"skipped,omitempty"`
}

// Entry is a chart written by a report.
type Entry struct {
	Kind string `yaml:"kind"`
	Path string `yaml:"path"`
}

// Skip is a chart a report could not draw for lack of data.
type Skip struct {
	Kind   string `yaml:"kind"`
	Reason string `yaml:"reason"`
}

// step is one chart of a report.
type step struct {
	kind    string
	compute func() (result, error)
	draw    func(r *chart.Renderer, res result) (string, error)
}

// result is an analysis that can be drawn or previewed as a table.
type result interface {
	Table() *table.Table
}

// steps returns the charts of a report in order: the timeline, the
// ranking, the sex comparison and the heatmap.
func steps(t *table.Table, p Params) []step {
	f := analysis.Filter{Location: p.Location, Sex: p.Sex, Age: p.Age}
	yf := f
	yf.Year = p.Year
	return []step{
		{"timeline",
			func() (result, error) { return analysis.NewTimeline(t, f, p.Tops.Timeline) },
			func(r *chart.Renderer, res result) (string, error) {
				return r.Timeline(res.(*analysis.Timeline))
			}},
		{"ranking",
			func() (result, error) { return analysis.NewRanking(t, yf, p.Tops.Ranking) },
			func(r *chart.Renderer, res result) (string, error) {
				return r.Ranking(res.(*analysis.Ranking), p.Horizontal)
			}},
		{"sex_comparison",
			func() (result, error) {
				return analysis.NewSexComparison(t, p.Location, p.Age, p.Year, p.Tops.SexComparison)
			},
			func(r *chart.Renderer, res result) (string, error) {
				return r.SexComparison(res.(*analysis.SexComparison))
			}},
		{"heatmap",
			func() (result, error) { return analysis.NewHeatmap(t, f, p.Tops.Heatmap) },
			func(r *chart.Renderer, res result) (string, error) {
				return r.Heatmap(res.(*analysis.Heatmap))
			}},
	}
}

// missing reports whether err means a step has no data to show.
func missing(err error) bool {
	return errors.Is(err, analysis.ErrNoData) || errors.Is(err, analysis.ErrNoSexSplit)
}

// Run draws every chart of the report. A chart whose filter selects
// no data is skipped with a warning; any other error stops the
// report.
func Run(t *table.Table, r *chart.Renderer, p Params, log *zap.Logger) (*Manifest, error) {
	if log == nil {
		log = zap.NewNop()
	}
	m := &Manifest{Generated: time.Now().UTC(), Params: p}

	log.Info("generating report", zap.String("location", p.Location), zap.Int("year", p.Year), zap.String("dir", r.Dir))
	for _, s := range steps(t, p) {
		res, err := s.compute()
		var path string
		if err == nil {
			path, err = s.draw(r, res)
		}
		switch {
		case missing(err):
			log.Warn("skipping chart", zap.String("kind", s.kind), zap.Error(err))
			m.Skipped = append(m.Skipped, Skip{Kind: s.kind, Reason: err.Error()})
		case err != nil:
			return nil, fmt.Errorf("%s: %w", s.kind, err)
		default:
			m.Charts = append(m.Charts, Entry{Kind: s.kind, Path: path})
		}
	}
	log.Info("report complete", zap.Int("charts", len(m.Charts)), zap.Int("skipped", len(m.Skipped)))
	return m, nil
}

// Preview prints the table behind each chart of the report to w
// without drawing anything. Steps without data are noted and
// skipped.
func Preview(w io.Writer, t *table.Table, p Params, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	for i, s := range steps(t, p) {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "# %s\n", s.kind)
		res, err := s.compute()
		if missing(err) {
			log.Warn("skipping chart", zap.String("kind", s.kind), zap.Error(err))
			fmt.Fprintf(w, "skipped: %v\n", err)
			continue
		} else if err != nil {
			return fmt.Errorf("%s: %w", s.kind, err)
		}
		if err := table.Fprint(w, res.Table()); err != nil {
			return err
		}
	}
	return nil
}

// WriteFile writes m as YAML to ManifestFile in dir and returns its
// path.
func (m *Manifest) WriteFile(dir string) (string, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, ManifestFile)
	if err := os.WriteFile(path, data, 0666); err != nil {
		return "", err
	}
	return path, nil
}

// ReadManifest reads a manifest written by WriteFile.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &m, nil
}
