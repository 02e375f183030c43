// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/gbdtools/gbdplot/internal/analysis"
)

var (
	maleColor   = color.RGBA{R: 70, G: 130, B: 180, A: 255}
	femaleColor = color.RGBA{R: 255, G: 127, B: 80, A: 255}
)

// SexComparison draws a pair of bars per cause, male beside female.
// Missing values are drawn as empty bars.
func (r *Renderer) SexComparison(sc *analysis.SexComparison) (string, error) {
	p := newPlot(
		fmt.Sprintf("Comparison between sexes - top %d causes of DALYs\n%s - %s - %s",
			sc.Top, sc.Location, sc.Age, yearTitle(sc.Year)),
		"", "Mean DALYs")
	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	p.Add(grid)

	w := r.barWidth(len(sc.Causes), false) / 2
	for _, s := range []struct {
		name   string
		vals   []float64
		color  color.Color
		offset vg.Length
	}{
		{analysis.Male, sc.Male, maleColor, -w / 2},
		{analysis.Female, sc.Female, femaleColor, w / 2},
	} {
		bar, err := plotter.NewBarChart(zeroNaNs(s.vals), w)
		if err != nil {
			return "", fmt.Errorf("%s bars: %w", s.name, err)
		}
		bar.Color = s.color
		bar.LineStyle.Width = 0
		bar.Offset = s.offset
		p.Add(bar)
		p.Legend.Add(s.name, bar)
	}
	p.Legend.Top = true
	p.NominalX(sc.Causes...)
	rotateTicks(&p.X)
	p.Y.Tick.Marker = commaTicks{plot.DefaultTicks{}}
	p.Y.Min = 0

	return r.save(p, fileName("sex_comparison", fmt.Sprintf("top%d", sc.Top),
		yearPart(sc.Year), sc.Location, sc.Age))
}

func zeroNaNs(xs []float64) plotter.Values {
	vs := make(plotter.Values, len(xs))
	for i, x := range xs {
		if !math.IsNaN(x) {
			vs[i] = x
		}
	}
	return vs
}
