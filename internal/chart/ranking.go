// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/gbdtools/gbdplot/gbd"
	"github.com/gbdtools/gbdplot/internal/analysis"
)

// Ranking draws one bar per cause in rank order. If horizontal is
// set, bars run left to right with the top cause first from the top;
// otherwise they run left to right along the X axis.
func (r *Renderer) Ranking(rk *analysis.Ranking, horizontal bool) (string, error) {
	title := fmt.Sprintf("Top %d causes of DALYs\n%s - %s - %s - %s",
		rk.Top, rk.Location, rk.Sex, rk.Age, yearTitle(rk.Year))
	var p *plot.Plot
	if horizontal {
		p = newPlot(title, "Mean DALYs", "")
	} else {
		p = newPlot(title, "", "Mean DALYs")
	}

	n := len(rk.Entries)
	colors := rampColors(n)
	names := make([]string, n)
	var labels plotter.XYLabels
	max := 0.0
	for i, e := range rk.Entries {
		pos := float64(i)
		if horizontal {
			pos = float64(n - 1 - i)
		}
		bar, err := plotter.NewBarChart(plotter.Values{e.Value}, r.barWidth(n, horizontal))
		if err != nil {
			return "", fmt.Errorf("cause %q: %w", e.Cause, err)
		}
		bar.XMin = pos
		bar.Horizontal = horizontal
		bar.Color = colors[i]
		bar.LineStyle.Width = 0
		p.Add(bar)

		names[int(pos)] = e.Cause
		if horizontal {
			labels.XYs = append(labels.XYs, plotter.XY{X: e.Value, Y: pos})
		} else {
			labels.XYs = append(labels.XYs, plotter.XY{X: pos, Y: e.Value})
		}
		labels.Labels = append(labels.Labels, gbd.Comma(e.Value))
		max = math.Max(max, e.Value)
	}

	vl, err := plotter.NewLabels(labels)
	if err != nil {
		return "", err
	}
	for i := range vl.TextStyle {
		vl.TextStyle[i].Font.Size = vg.Points(9)
		if horizontal {
			vl.TextStyle[i].XAlign = draw.XLeft
			vl.TextStyle[i].YAlign = draw.YCenter
		} else {
			vl.TextStyle[i].XAlign = draw.XCenter
		}
	}
	if horizontal {
		vl.Offset = vg.Point{X: vg.Points(4)}
	} else {
		vl.Offset = vg.Point{Y: vg.Points(4)}
	}
	p.Add(vl)

	grid := plotter.NewGrid()
	value := &p.Y
	if horizontal {
		grid.Horizontal.Color = nil
		p.NominalY(names...)
		value = &p.X
	} else {
		grid.Vertical.Color = nil
		p.NominalX(names...)
		rotateTicks(&p.X)
	}
	p.Add(grid)
	value.Tick.Marker = commaTicks{plot.DefaultTicks{}}
	value.Min = 0
	// Leave room for the value labels.
	value.Max = max * 1.15

	orient := "vert"
	if horizontal {
		orient = "horiz"
	}
	return r.save(p, fileName("ranking", fmt.Sprintf("top%d", rk.Top),
		yearPart(rk.Year), rk.Location, rk.Sex, rk.Age, orient))
}

// barWidth returns the width of each of n bars, filling about 70% of
// the plot along the category axis.
func (r *Renderer) barWidth(n int, horizontal bool) vg.Length {
	extent := r.Width
	if horizontal {
		extent = r.Height
	}
	if n < 1 {
		n = 1
	}
	return extent * 0.6 / vg.Length(n)
}

// rampColors returns n colors from a perceptually uniform sequential
// map, darkest first.
func rampColors(n int) []color.Color {
	// Skip the near-black and near-white ends of the map.
	cm := moreland.Kindlmann()
	cm.SetMin(0)
	cm.SetMax(1)
	all := cm.Palette(n + 2).Colors()
	return all[1 : n+1]
}

// rotateTicks slants the tick labels of a so long category names do
// not overlap.
func rotateTicks(a *plot.Axis) {
	a.Tick.Label.Rotation = math.Pi / 4
	a.Tick.Label.XAlign = draw.XRight
	a.Tick.Label.YAlign = draw.YCenter
}
