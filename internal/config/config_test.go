// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg"

	"github.com/gbdtools/gbdplot/internal/report"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())

	c, err := Load(NewViper(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), c)
	assert.Equal(t, report.DefaultParams(), c.ReportParams())

	o := c.ChartOptions()
	assert.Equal(t, "png", o.Format)
	assert.Equal(t, 16*vg.Inch, o.Width)
	assert.Equal(t, 10*vg.Inch, o.Height)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
data: dalys.csv
filter:
  location: Spain
top:
  ranking: 25
chart:
  format: svg
  thumbnail_width: 400
horizontal: false
`), 0666))

	c, err := Load(NewViper(path))
	require.NoError(t, err)
	assert.Equal(t, "dalys.csv", c.Data)
	assert.Equal(t, "Spain", c.Filter.Location)
	assert.Equal(t, "Both", c.Filter.Sex)
	assert.Equal(t, 25, c.Top.Ranking)
	assert.Equal(t, 10, c.Top.Timeline)
	assert.Equal(t, "svg", c.Chart.Format)
	assert.Equal(t, 400, c.ChartOptions().ThumbnailWidth)
	assert.False(t, c.Horizontal)

	f := c.AnalysisFilter(1990)
	assert.Equal(t, "Spain - Both - All ages - 1990", f.String())
}

func TestLoadEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("GBDPLOT_OUT_DIR", "elsewhere")
	t.Setenv("GBDPLOT_TOP_HEATMAP", "7")

	c, err := Load(NewViper(""))
	require.NoError(t, err)
	assert.Equal(t, "elsewhere", c.OutDir)
	assert.Equal(t, 7, c.Top.Heatmap)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(NewViper(filepath.Join(t.TempDir(), "missing.yaml")))
	assert.ErrorContains(t, err, "reading config")

	empty := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("filter:\n  sex: \"\"\n"), 0666))
	_, err = Load(NewViper(empty))
	assert.ErrorContains(t, err, "filter.sex must not be empty")

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chart:\n  format: bmp\n"), 0666))
	_, err = Load(NewViper(path))
	assert.ErrorContains(t, err, `unknown chart.format "bmp"`)
}

func TestValidate(t *testing.T) {
	for _, tc := range []struct {
		name   string
		modify func(*Config)
		err    string
	}{
		{"ok", func(*Config) {}, ""},
		{"location", func(c *Config) { c.Filter.Location = "" }, "filter.location must not be empty"},
		{"sex", func(c *Config) { c.Filter.Sex = " " }, "filter.sex must not be empty"},
		{"age", func(c *Config) { c.Filter.Age = "" }, "filter.age must not be empty"},
		{"top", func(c *Config) { c.Top.SexComparison = 0 }, "top.sex_comparison must be positive"},
		{"dpi", func(c *Config) { c.Chart.DPI = -1 }, "chart.dpi must be positive"},
		{"size", func(c *Config) { c.Chart.Height = 0 }, "chart size must be positive"},
		{"thumbnail", func(c *Config) { c.Chart.ThumbnailWidth = -5 }, "thumbnail_width"},
		{"format", func(c *Config) { c.Chart.Format = "gif" }, "unknown chart.format"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			c := DefaultConfig()
			tc.modify(c)
			err := c.Validate()
			if tc.err == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tc.err)
			}
		})
	}
}

// chdir changes the working directory to dir for the duration of the
// test, restoring the previous one during cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { require.NoError(t, os.Chdir(prev)) })
}
