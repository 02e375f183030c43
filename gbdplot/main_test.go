// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"

	"github.com/gbdtools/gbdplot/internal/report"
)

const dalys = `measure_name,location_name,sex_name,age_name,cause_name,metric_name,year,val,upper,lower
DALYs,Global,Both,All ages,Stroke,Number,2016,100,110,90
DALYs,Global,Both,All ages,Stroke,Number,2017,110,120,100
DALYs,Global,Both,All ages,Malaria,Number,2016,300,330,270
DALYs,Global,Both,All ages,Malaria,Number,2017,200,220,180
DALYs,Global,Male,All ages,Stroke,Number,2017,60,66,54
DALYs,Global,Female,All ages,Stroke,Number,2017,50,55,45
DALYs,Global,Male,All ages,Malaria,Number,2017,90,99,81
DALYs,Global,Female,All ages,Malaria,Number,2017,110,121,99
DALYs,United States,Both,All ages,Stroke,Number,2017,40,44,36
`

type env struct {
	dir  string
	data string
	out  string
	app  *app
}

// newEnv writes the test dataset to a fresh directory and makes it
// the working directory, so no gbdplot.yaml is picked up.
func newEnv(t *testing.T) *env {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("HOME", dir)
	data := filepath.Join(dir, "dalys.csv")
	require.NoError(t, os.WriteFile(data, []byte(dalys), 0666))
	a := newApp()
	a.log = zaptest.NewLogger(t, zaptest.Level(a.level))
	return &env{
		dir:  dir,
		data: data,
		out:  filepath.Join(dir, "out"),
		app:  a,
	}
}

func (e *env) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(e.app)
	cmd.SetArgs(append([]string{"--data", e.data, "--out", e.out, "--dpi", "20"}, args...))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.Execute()
	return out.String(), err
}

func TestInfo(t *testing.T) {
	e := newEnv(t)
	out, err := e.run(t, "info")
	require.NoError(t, err)
	assert.Contains(t, out, "DATASET INFORMATION")
	assert.Regexp(t, `Rows:\s+9\n`, out)
	assert.Regexp(t, `Years:\s+2016, 2017\n`, out)
	assert.NotContains(t, out, "Total DALYs")

	out, err = e.run(t, "info", "--trend")
	require.NoError(t, err)
	assert.Contains(t, out, "Total DALYs 2016-2017, Global - Both - All ages")
}

func TestChartCommands(t *testing.T) {
	e := newEnv(t)
	for _, tc := range []struct {
		args []string
		file string
	}{
		{[]string{"timeline"}, "timeline_top10_Global_Both_All_ages.png"},
		{[]string{"ranking", "--top", "5"}, "ranking_top5_2017_Global_Both_All_ages_horiz.png"},
		{[]string{"ranking", "--horizontal=false", "--year", "0"}, "ranking_top20_average_Global_Both_All_ages_vert.png"},
		{[]string{"sex-comparison"}, "sex_comparison_top15_2017_Global_All_ages.png"},
		{[]string{"heatmap", "--format", "svg"}, "heatmap_top15_Global_Both_All_ages.svg"},
		{[]string{"ranking", "--location", "United States"}, "ranking_top20_2017_United_States_Both_All_ages_horiz.png"},
	} {
		t.Run(strings.Join(tc.args, " "), func(t *testing.T) {
			out, err := e.run(t, tc.args...)
			require.NoError(t, err)
			want := filepath.Join(e.out, tc.file)
			assert.Equal(t, want+"\n", out)
			assert.FileExists(t, want)
		})
	}
}

func TestTableFlag(t *testing.T) {
	e := newEnv(t)
	out, err := e.run(t, "ranking", "--table", "--year", "2016")
	require.NoError(t, err)
	assert.Contains(t, out, "Malaria")
	assert.Contains(t, out, "mean val")
	assert.NoDirExists(t, e.out)
}

func TestMissingData(t *testing.T) {
	e := newEnv(t)

	// No data is a warning, not a failure.
	out, err := e.run(t, "ranking", "--year", "1990")
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = e.run(t, "sex-comparison", "--location", "Atlantis")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.NoDirExists(t, e.out)
}

func TestErrors(t *testing.T) {
	e := newEnv(t)

	_, err := e.run(t, "ranking", "--format", "bmp")
	assert.ErrorContains(t, err, "unknown chart.format")

	// An empty filter would mix every sex together.
	_, err = e.run(t, "ranking", "--sex", "", "--table")
	assert.ErrorContains(t, err, "filter.sex must not be empty")

	_, err = e.run(t, "timeline", "--top", "0")
	assert.ErrorContains(t, err, "top.timeline must be positive")

	_, err = e.run(t, "info", "--data", filepath.Join(e.dir, "missing.csv"))
	assert.ErrorContains(t, err, "missing.csv")
}

func TestConfigFile(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(e.dir, "gbdplot.yaml"), []byte(`
top:
  heatmap: 1
chart:
  format: svg
`), 0666))

	out, err := e.run(t, "heatmap")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(e.out, "heatmap_top1_Global_Both_All_ages.svg")+"\n", out)

	// Flags override the file.
	out, err = e.run(t, "heatmap", "--top", "2", "--format", "png")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(e.out, "heatmap_top2_Global_Both_All_ages.png")+"\n", out)
}

func TestReport(t *testing.T) {
	e := newEnv(t)
	out, err := e.run(t, "report")
	require.NoError(t, err)
	path := filepath.Join(e.out, report.ManifestFile)
	assert.Equal(t, path+"\n", out)

	m, err := report.ReadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, e.data, m.Data)
	assert.Len(t, m.Charts, 4)
	assert.Empty(t, m.Skipped)
	for _, c := range m.Charts {
		assert.FileExists(t, c.Path)
	}
}

func TestReportTable(t *testing.T) {
	e := newEnv(t)
	out, err := e.run(t, "report", "--table")
	require.NoError(t, err)
	assert.Contains(t, out, "# heatmap")
	assert.Contains(t, out, "Malaria")
	assert.NoDirExists(t, e.out)
}

func TestBatch(t *testing.T) {
	e := newEnv(t)
	batch := filepath.Join(e.dir, "charts.txt")
	require.NoError(t, os.WriteFile(batch, []byte(`
# Rankings for two years.
ranking --year 2016 --top 1
ranking --year 2017 --location "United States"

heatmap --sex Both
`), 0666))

	out, err := e.run(t, "batch", batch)
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		filepath.Join(e.out, "ranking_top1_2016_Global_Both_All_ages_horiz.png"),
		filepath.Join(e.out, "ranking_top20_2017_United_States_Both_All_ages_horiz.png"),
		filepath.Join(e.out, "heatmap_top15_Global_Both_All_ages.png"),
	}, "\n")+"\n", out)

	// The dataset was read once.
	assert.Len(t, e.app.datasets, 1)
}

func TestBatchVerbose(t *testing.T) {
	e := newEnv(t)
	batch := filepath.Join(e.dir, "verbose.txt")
	debug := func() bool { return e.app.log.Core().Enabled(zapcore.DebugLevel) }

	require.NoError(t, os.WriteFile(batch, []byte("info --verbose\n"), 0666))
	_, err := e.run(t, "batch", batch)
	require.NoError(t, err)
	assert.True(t, debug())

	require.NoError(t, os.WriteFile(batch, []byte("info --verbose\ninfo\n"), 0666))
	_, err = e.run(t, "batch", batch)
	require.NoError(t, err)
	assert.False(t, debug())

	_, err = e.run(t, "info", "--verbose")
	require.NoError(t, err)
	assert.True(t, debug())
}

func TestBatchErrors(t *testing.T) {
	e := newEnv(t)
	batch := filepath.Join(e.dir, "bad.txt")

	require.NoError(t, os.WriteFile(batch, []byte("timeline\nnosuchcommand\n"), 0666))
	_, err := e.run(t, "batch", batch)
	assert.ErrorContains(t, err, "bad.txt:2:")

	require.NoError(t, os.WriteFile(batch, []byte("batch other.txt\n"), 0666))
	_, err = e.run(t, "batch", batch)
	assert.ErrorContains(t, err, "batch cannot be nested")

	_, err = e.run(t, "batch", filepath.Join(e.dir, "missing.txt"))
	assert.Error(t, err)
}

func TestParseBatch(t *testing.T) {
	lines, err := parseBatch("x", bufio.NewScanner(strings.NewReader(`
  # comment
ranking --location 'United States' --age "15-49 years"
	info
`)))
	require.NoError(t, err)
	assert.Equal(t, []batchLine{
		{3, []string{"ranking", "--location", "United States", "--age", "15-49 years"}},
		{4, []string{"info"}},
	}, lines)

	_, err = parseBatch("x", bufio.NewScanner(strings.NewReader(`ranking --location "Spain`)))
	assert.ErrorContains(t, err, "x:1:")
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
