// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/gbdtools/gbdplot/gbd"
	"github.com/gbdtools/gbdplot/internal/analysis"
)

// heatGrid adapts an analysis.Heatmap to plotter.GridXYZ. Columns are
// years and rows are causes, with the top ranked cause in the last
// row so it is drawn at the top.
type heatGrid struct {
	hm *analysis.Heatmap
}

func (g heatGrid) Dims() (c, r int) { return len(g.hm.Years), len(g.hm.Causes) }
func (g heatGrid) X(c int) float64  { return float64(c) }
func (g heatGrid) Y(r int) float64  { return float64(r) }

func (g heatGrid) Z(c, r int) float64 {
	return g.hm.Values[len(g.hm.Causes)-1-r][c]
}

// reversed is a palette with its colors in reverse order.
type reversed struct {
	palette.Palette
}

func (p reversed) Colors() []color.Color {
	cs := p.Palette.Colors()
	out := make([]color.Color, len(cs))
	for i, c := range cs {
		out[len(cs)-1-i] = c
	}
	return out
}

// paletteMap spreads the colors of a palette evenly over [min, max]
// so the same colors can be drawn as a color bar.
type paletteMap struct {
	colors          []color.Color
	min, max, alpha float64
}

func newPaletteMap(p palette.Palette, min, max float64) *paletteMap {
	return &paletteMap{colors: p.Colors(), min: min, max: max, alpha: 1}
}

func (m *paletteMap) At(v float64) (color.Color, error) {
	switch {
	case math.IsNaN(v):
		return nil, palette.ErrNaN
	case v < m.min:
		return nil, palette.ErrUnderflow
	case v > m.max:
		return nil, palette.ErrOverflow
	}
	return m.colors[m.index(v)], nil
}

// index returns the palette index of v, which must be in range.
func (m *paletteMap) index(v float64) int {
	n := len(m.colors)
	i := int((v - m.min) / (m.max - m.min) * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

func (m *paletteMap) Min() float64          { return m.min }
func (m *paletteMap) Max() float64          { return m.max }
func (m *paletteMap) SetMin(v float64)      { m.min = v }
func (m *paletteMap) SetMax(v float64)      { m.max = v }
func (m *paletteMap) Alpha() float64        { return m.alpha }
func (m *paletteMap) SetAlpha(a float64)    { m.alpha = a }
func (m *paletteMap) Colors() []color.Color { return m.colors }

func (m *paletteMap) Palette(n int) palette.Palette {
	cs := make([]color.Color, n)
	for i := range cs {
		cs[i] = m.colors[i*len(m.colors)/n]
	}
	return &paletteMap{colors: cs, min: m.min, max: m.max, alpha: m.alpha}
}

// withColorBar draws a plot with a labelled color bar to its right.
type withColorBar struct {
	p, bar *plot.Plot
}

func (w *withColorBar) Draw(c draw.Canvas) {
	bw := vg.Inch * 1.2
	w.p.Draw(draw.Crop(c, 0, -bw, 0, 0))
	// Line the bar up with the grid, below the title and above
	// the year labels.
	w.bar.Draw(draw.Crop(c, c.Rectangle.Size().X-bw, -vg.Points(12), vg.Points(48), -vg.Points(56)))
}

// Heatmap draws the cause by year matrix with each cell annotated by
// its value and a color bar of DALYs. Cells without data are left
// white.
func (r *Renderer) Heatmap(hm *analysis.Heatmap) (string, error) {
	p := newPlot(
		fmt.Sprintf("Heatmap of the top %d causes of DALYs over time\n%s", hm.Top, hm.Filter),
		"Year", "")

	min, max := hm.Bounds()
	if max <= min {
		max = min + 1
	}
	cm := newPaletteMap(reversed{palette.Heat(64, 1)}, min, max)

	grid := heatGrid{hm}
	h := plotter.NewHeatMap(grid, cm)
	h.NaN = color.White
	h.Min, h.Max = min, max
	p.Add(h)

	var labels plotter.XYLabels
	var dark []bool
	cols, rows := grid.Dims()
	for c := 0; c < cols; c++ {
		for row := 0; row < rows; row++ {
			v := grid.Z(c, row)
			if math.IsNaN(v) {
				continue
			}
			labels.XYs = append(labels.XYs, plotter.XY{X: grid.X(c), Y: grid.Y(row)})
			labels.Labels = append(labels.Labels, gbd.Comma(v))
			dark = append(dark, (v-min)/(max-min) > 0.6)
		}
	}
	if len(labels.Labels) > 0 {
		l, err := plotter.NewLabels(labels)
		if err != nil {
			return "", err
		}
		for i := range l.TextStyle {
			l.TextStyle[i].Font.Size = vg.Points(7)
			l.TextStyle[i].XAlign = draw.XCenter
			l.TextStyle[i].YAlign = draw.YCenter
			if dark[i] {
				l.TextStyle[i].Color = color.White
			}
		}
		p.Add(l)
	}

	years := make([]string, len(hm.Years))
	for i, y := range hm.Years {
		years[i] = fmt.Sprint(y)
	}
	names := make([]string, len(hm.Causes))
	for i, c := range hm.Causes {
		names[len(names)-1-i] = c
	}
	p.NominalX(years...)
	p.NominalY(names...)
	if len(years) > 12 {
		rotateTicks(&p.X)
	}

	bar := newPlot("", "", "DALYs")
	bar.HideX()
	bar.Y.Tick.Marker = commaTicks{plot.DefaultTicks{}}
	bar.Add(&plotter.ColorBar{ColorMap: cm, Vertical: true})

	return r.save(&withColorBar{p: p, bar: bar}, fileName("heatmap", fmt.Sprintf("top%d", hm.Top),
		hm.Location, hm.Sex, hm.Age))
}
