// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads gbdplot settings from flags, the environment
// and an optional gbdplot.yaml file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gonum.org/v1/plot/vg"

	"github.com/gbdtools/gbdplot/internal/analysis"
	"github.com/gbdtools/gbdplot/internal/chart"
	"github.com/gbdtools/gbdplot/internal/report"
)

// EnvPrefix is the prefix of environment variables that override
// configuration keys, for example GBDPLOT_OUT_DIR.
const EnvPrefix = "GBDPLOT"

// Config is the complete set of gbdplot settings. The mapstructure
// tags are the keys of gbdplot.yaml.
type Config struct {
	Data       string `mapstructure:"data"`
	OutDir     string `mapstructure:"out_dir"`
	Filter     Filter `mapstructure:"filter"`
	Year       int    `mapstructure:"year"`
	Top        Top    `mapstructure:"top"`
	Chart      Chart  `mapstructure:"chart"`
	Horizontal bool   `mapstructure:"horizontal"`
	Verbose    bool   `mapstructure:"verbose"`
}

// Filter selects the location, sex and age group every chart is
// drawn for.
type Filter struct {
	Location string `mapstructure:"location"`
	Sex      string `mapstructure:"sex"`
	Age      string `mapstructure:"age"`
}

// Top is the number of causes shown by each chart.
type Top struct {
	Timeline      int `mapstructure:"timeline"`
	Ranking       int `mapstructure:"ranking"`
	SexComparison int `mapstructure:"sex_comparison"`
	Heatmap       int `mapstructure:"heatmap"`
}

// Chart holds rendering settings. Width and Height are in inches.
type Chart struct {
	Format         string  `mapstructure:"format"`
	DPI            int     `mapstructure:"dpi"`
	Width          float64 `mapstructure:"width"`
	Height         float64 `mapstructure:"height"`
	ThumbnailWidth int     `mapstructure:"thumbnail_width"`
}

// DefaultConfig returns the settings used when nothing overrides
// them.
func DefaultConfig() *Config {
	p := report.DefaultParams()
	o := chart.DefaultOptions()
	return &Config{
		Data:   filepath.Join("data", "gbd_all_dalys_1423.csv"),
		OutDir: filepath.Join("output", "charts"),
		Filter: Filter{
			Location: p.Location,
			Sex:      p.Sex,
			Age:      p.Age,
		},
		Year: p.Year,
		Top: Top{
			Timeline:      p.Tops.Timeline,
			Ranking:       p.Tops.Ranking,
			SexComparison: p.Tops.SexComparison,
			Heatmap:       p.Tops.Heatmap,
		},
		Chart: Chart{
			Format: o.Format,
			DPI:    o.DPI,
			Width:  float64(o.Width / vg.Inch),
			Height: float64(o.Height / vg.Inch),
		},
		Horizontal: p.Horizontal,
	}
}

// NewViper returns a viper instance with gbdplot's defaults, config
// file search path and environment binding. If cfgFile is empty,
// gbdplot.yaml is looked up in the current directory and in
// ~/.config/gbdplot.
func NewViper(cfgFile string) *viper.Viper {
	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("gbdplot")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "gbdplot"))
		}
	}

	d := DefaultConfig()
	for key, val := range map[string]any{
		"data":                  d.Data,
		"out_dir":               d.OutDir,
		"filter.location":       d.Filter.Location,
		"filter.sex":            d.Filter.Sex,
		"filter.age":            d.Filter.Age,
		"year":                  d.Year,
		"top.timeline":          d.Top.Timeline,
		"top.ranking":           d.Top.Ranking,
		"top.sex_comparison":    d.Top.SexComparison,
		"top.heatmap":           d.Top.Heatmap,
		"chart.format":          d.Chart.Format,
		"chart.dpi":             d.Chart.DPI,
		"chart.width":           d.Chart.Width,
		"chart.height":          d.Chart.Height,
		"chart.thumbnail_width": d.Chart.ThumbnailWidth,
		"horizontal":            d.Horizontal,
		"verbose":               d.Verbose,
	} {
		v.SetDefault(key, val)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file, if there is one, and decodes v into a
// Config. A missing config file is not an error unless it was named
// explicitly.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	for _, f := range []struct{ name, v string }{
		{"filter.location", c.Filter.Location},
		{"filter.sex", c.Filter.Sex},
		{"filter.age", c.Filter.Age},
	} {
		if strings.TrimSpace(f.v) == "" {
			return fmt.Errorf("%s must not be empty", f.name)
		}
	}
	for _, t := range []struct {
		name string
		n    int
	}{
		{"top.timeline", c.Top.Timeline},
		{"top.ranking", c.Top.Ranking},
		{"top.sex_comparison", c.Top.SexComparison},
		{"top.heatmap", c.Top.Heatmap},
		{"chart.dpi", c.Chart.DPI},
	} {
		if t.n <= 0 {
			return fmt.Errorf("%s must be positive, got %d", t.name, t.n)
		}
	}
	if c.Chart.Width <= 0 || c.Chart.Height <= 0 {
		return fmt.Errorf("chart size must be positive, got %gx%g", c.Chart.Width, c.Chart.Height)
	}
	if c.Chart.ThumbnailWidth < 0 {
		return fmt.Errorf("chart.thumbnail_width must not be negative, got %d", c.Chart.ThumbnailWidth)
	}
	if !validFormat(c.Chart.Format) {
		return fmt.Errorf("unknown chart.format %q (want one of %v)", c.Chart.Format, chart.Formats)
	}
	return nil
}

func validFormat(f string) bool {
	for _, x := range chart.Formats {
		if x == f {
			return true
		}
	}
	return false
}

// AnalysisFilter returns the configured row filter for year.
func (c *Config) AnalysisFilter(year int) analysis.Filter {
	return analysis.Filter{
		Location: c.Filter.Location,
		Sex:      c.Filter.Sex,
		Age:      c.Filter.Age,
		Year:     year,
	}
}

// ChartOptions returns the renderer options.
func (c *Config) ChartOptions() chart.Options {
	return chart.Options{
		Format:         c.Chart.Format,
		DPI:            c.Chart.DPI,
		Width:          vg.Length(c.Chart.Width) * vg.Inch,
		Height:         vg.Length(c.Chart.Height) * vg.Inch,
		ThumbnailWidth: c.Chart.ThumbnailWidth,
	}
}

// ReportParams returns the parameters of a full report.
func (c *Config) ReportParams() report.Params {
	return report.Params{
		Location: c.Filter.Location,
		Sex:      c.Filter.Sex,
		Age:      c.Filter.Age,
		Year:     c.Year,
		Tops: report.Tops{
			Timeline:      c.Top.Timeline,
			Ranking:       c.Top.Ranking,
			SexComparison: c.Top.SexComparison,
			Heatmap:       c.Top.Heatmap,
		},
		Horizontal: c.Horizontal,
	}
}
