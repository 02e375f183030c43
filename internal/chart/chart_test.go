// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/vg"

	"github.com/gbdtools/gbdplot/internal/analysis"
)

var global = analysis.Filter{Location: "Global", Sex: "Both", Age: "All ages"}

func newTestRenderer(t *testing.T, format string) *Renderer {
	t.Helper()
	opts := Options{Format: format, DPI: 72, Width: 6 * vg.Inch, Height: 4 * vg.Inch}
	r, err := NewRenderer(filepath.Join(t.TempDir(), "out"), opts, zaptest.NewLogger(t))
	require.NoError(t, err)
	return r
}

// checkPNG decodes the PNG at path and returns its width.
func checkPNG(t *testing.T, path string) int {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	return img.Bounds().Dx()
}

func TestNewRenderer(t *testing.T) {
	_, err := NewRenderer(t.TempDir(), Options{Format: "bmp"}, nil)
	assert.ErrorContains(t, err, `unknown chart format "bmp"`)

	r, err := NewRenderer(t.TempDir(), DefaultOptions(), nil)
	require.NoError(t, err)
	assert.NotNil(t, r.Log)
	assert.Equal(t, 300, r.DPI)
}

func TestTimeline(t *testing.T) {
	r := newTestRenderer(t, "png")
	tl := &analysis.Timeline{
		Filter: global,
		Top:    2,
		Series: []analysis.Series{
			{Cause: "Malaria", Years: []int{2000, 2001, 2002}, Values: []float64{300, 200, 10}},
			{Cause: "Stroke", Years: []int{2000, 2002}, Values: []float64{100, 120}},
		},
	}
	path, err := r.Timeline(tl)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(r.Dir, "timeline_top2_Global_Both_All_ages.png"), path)
	assert.Equal(t, 6*72, checkPNG(t, path))
}

func TestRanking(t *testing.T) {
	rk := &analysis.Ranking{
		Filter:  analysis.Filter{Location: "Global", Sex: "Both", Age: "All ages", Year: 2017},
		Top:     20,
		Entries: []analysis.Entry{{Cause: "Malaria", Value: 1234567}, {Cause: "Stroke", Value: 20}},
	}
	for _, tc := range []struct {
		horizontal bool
		want       string
	}{
		{true, "ranking_top20_2017_Global_Both_All_ages_horiz.png"},
		{false, "ranking_top20_2017_Global_Both_All_ages_vert.png"},
	} {
		r := newTestRenderer(t, "png")
		path, err := r.Ranking(rk, tc.horizontal)
		require.NoError(t, err)
		assert.Equal(t, tc.want, filepath.Base(path))
		checkPNG(t, path)
	}
}

func TestSexComparison(t *testing.T) {
	r := newTestRenderer(t, "png")
	sc := &analysis.SexComparison{
		Location: "Global",
		Age:      "All ages",
		Top:      15,
		Causes:   []string{"Malaria", "Stroke"},
		Male:     []float64{100, 65},
		Female:   []float64{200, math.NaN()},
	}
	path, err := r.SexComparison(sc)
	require.NoError(t, err)
	assert.Equal(t, "sex_comparison_top15_average_Global_All_ages.png", filepath.Base(path))
	checkPNG(t, path)
}

func TestHeatmap(t *testing.T) {
	r := newTestRenderer(t, "png")
	hm := &analysis.Heatmap{
		Filter: global,
		Top:    15,
		Causes: []string{"Malaria", "Stroke"},
		Years:  []int{2000, 2001},
		Values: [][]float64{{300, 200}, {100, math.NaN()}},
	}
	path, err := r.Heatmap(hm)
	require.NoError(t, err)
	assert.Equal(t, "heatmap_top15_Global_Both_All_ages.png", filepath.Base(path))
	checkPNG(t, path)

	// A single value still gets a usable color range.
	hm = &analysis.Heatmap{
		Filter: global,
		Top:    1,
		Causes: []string{"Malaria"},
		Years:  []int{2000, 2001},
		Values: [][]float64{{5, 5}},
	}
	_, err = r.Heatmap(hm)
	require.NoError(t, err)
}

func TestSVG(t *testing.T) {
	r := newTestRenderer(t, "svg")
	rk := &analysis.Ranking{
		Filter:  global,
		Top:     1,
		Entries: []analysis.Entry{{Cause: "Stroke", Value: 20}},
	}
	path, err := r.Ranking(rk, true)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "_average_Global_Both_All_ages_horiz.svg"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")
}

func TestThumbnail(t *testing.T) {
	r := newTestRenderer(t, "png")
	r.ThumbnailWidth = 100
	rk := &analysis.Ranking{
		Filter:  global,
		Top:     1,
		Entries: []analysis.Entry{{Cause: "Stroke", Value: 20}},
	}
	path, err := r.Ranking(rk, false)
	require.NoError(t, err)
	thumb := strings.TrimSuffix(path, ".png") + "_thumb.png"
	assert.Equal(t, 100, checkPNG(t, thumb))

	// Thumbnails are never wider than the original.
	big, err := Thumbnail(path, 10000)
	require.NoError(t, err)
	assert.Equal(t, 6*72, checkPNG(t, big))
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "a_b_cd_ef", fileName("a", "b c/d", `e\f`))
	assert.Equal(t, "ranking_Bosnia_and_Herzegovina_15-49_years", fileName("ranking", "Bosnia and Herzegovina", "15-49 years"))
	assert.Equal(t, "average", yearPart(0))
	assert.Equal(t, "1990", yearPart(1990))
	assert.Equal(t, "Average of all years", yearTitle(0))
	assert.Equal(t, "Year 1990", yearTitle(1990))
}

func TestTicks(t *testing.T) {
	ticks := commaTicks{plot.ConstantTicks{{Value: 1500000, Label: "1.5e+06"}, {Value: 10}}}.Ticks(0, 1)
	assert.Equal(t, "1,500,000", ticks[0].Label)
	assert.Equal(t, "", ticks[1].Label)

	years := make([]int, 30)
	for i := range years {
		years[i] = 1990 + i
	}
	yt := yearTicks(years)
	require.Len(t, yt, 30)
	assert.Equal(t, "1990", yt[0].Label)
	assert.Equal(t, "", yt[1].Label)
	assert.Equal(t, "1993", yt[3].Label)

	yt = yearTicks([]int{2000, 2001})
	assert.Equal(t, "2001", yt[1].Label)
}

func TestPaletteMap(t *testing.T) {
	black, white := color.Gray{0}, color.Gray{255}
	m := newPaletteMap(testPalette{black, white}, 10, 20)

	c, err := m.At(10)
	require.NoError(t, err)
	assert.Equal(t, black, c)
	c, err = m.At(20)
	require.NoError(t, err)
	assert.Equal(t, white, c)

	_, err = m.At(9)
	assert.ErrorIs(t, err, palette.ErrUnderflow)
	_, err = m.At(21)
	assert.ErrorIs(t, err, palette.ErrOverflow)
	_, err = m.At(math.NaN())
	assert.ErrorIs(t, err, palette.ErrNaN)

	assert.Len(t, m.Palette(4).Colors(), 4)
	assert.Equal(t, []color.Color{white, black}, reversed{m}.Colors())
}

type testPalette []color.Color

func (p testPalette) Colors() []color.Color { return p }
