// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"fmt"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/gbdtools/gbdplot/internal/analysis"
)

// Timeline draws one line per cause showing its yearly total.
func (r *Renderer) Timeline(tl *analysis.Timeline) (string, error) {
	p := newPlot(
		fmt.Sprintf("Temporal evolution of the top %d causes of DALYs\n%s", tl.Top, tl.Filter),
		"Year", "DALYs")
	p.Add(plotter.NewGrid())

	fig := newWithLegend(p)
	var years []int
	seen := make(map[int]bool)
	for i, s := range tl.Series {
		xys := make(plotter.XYs, len(s.Years))
		for j, y := range s.Years {
			xys[j].X = float64(y)
			xys[j].Y = s.Values[j]
			if !seen[y] {
				seen[y] = true
				years = append(years, y)
			}
		}
		line, points, err := plotter.NewLinePoints(xys)
		if err != nil {
			return "", fmt.Errorf("series %q: %w", s.Cause, err)
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(2)
		points.Color = plotutil.Color(i)
		points.Shape = plotutil.Shape(i)
		points.Radius = vg.Points(3)
		p.Add(line, points)
		fig.add(s.Cause, line, points)
	}
	sort.Ints(years)
	p.X.Tick.Marker = yearTicks(years)
	p.Y.Tick.Marker = commaTicks{plot.DefaultTicks{}}
	p.Y.Min = 0

	return r.save(fig, fileName("timeline", fmt.Sprintf("top%d", tl.Top),
		tl.Location, tl.Sex, tl.Age))
}
