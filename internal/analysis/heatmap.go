// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package analysis

import (
	"math"
	"sort"

	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-moremath/stats"

	"github.com/gbdtools/gbdplot/gbd"
)

// Heatmap is a cause by year matrix of mean values.
type Heatmap struct {
	Filter
	Top int

	// Causes is in rank order and Years is increasing.
	Causes []string
	Years  []int

	// Values[i][j] is the mean value of Causes[i] in Years[j], or
	// NaN if there is no data.
	Values [][]float64
}

// NewHeatmap selects the n causes with the largest value summed over
// all years and pivots their yearly means into a matrix. f.Year is
// ignored.
func NewHeatmap(t *table.Table, f Filter, n int) (*Heatmap, error) {
	f.Year = 0
	top, err := TopCauses(t, f, n)
	if err != nil {
		return nil, err
	}
	g := f.apply(t)

	hm := &Heatmap{Filter: f, Top: n, Causes: causes(top)}

	g = table.GroupBy(keep(g, hm.Causes), gbd.ColCause, gbd.ColYear)
	type cell struct {
		cause string
		year  int
	}
	means := make(map[cell]float64)
	seenYears := make(map[int]bool)
	for _, gid := range g.Tables() {
		sub := g.Table(gid)
		c := cell{
			sub.MustColumn(gbd.ColCause).([]string)[0],
			sub.MustColumn(gbd.ColYear).([]int)[0],
		}
		means[c] = stats.Mean(floatCol(sub, gbd.ColVal))
		if !seenYears[c.year] {
			seenYears[c.year] = true
			hm.Years = append(hm.Years, c.year)
		}
	}
	sort.Ints(hm.Years)

	hm.Values = make([][]float64, len(hm.Causes))
	for i, cause := range hm.Causes {
		hm.Values[i] = make([]float64, len(hm.Years))
		for j, y := range hm.Years {
			v, ok := means[cell{cause, y}]
			if !ok {
				v = math.NaN()
			}
			hm.Values[i][j] = v
		}
	}
	return hm, nil
}

// Bounds returns the minimum and maximum non-NaN value in hm.
func (hm *Heatmap) Bounds() (min, max float64) {
	var all stats.Sample
	for _, vs := range hm.Values {
		for _, v := range vs {
			if !math.IsNaN(v) {
				all.Xs = append(all.Xs, v)
			}
		}
	}
	return all.Bounds()
}

// Table returns hm as a long table of (cause, year, mean val).
func (hm *Heatmap) Table() *table.Table {
	var cs []string
	var ys []int
	var vs []float64
	for i, cause := range hm.Causes {
		for j, y := range hm.Years {
			cs = append(cs, cause)
			ys = append(ys, y)
			vs = append(vs, hm.Values[i][j])
		}
	}
	return new(table.Builder).
		Add(gbd.ColCause, cs).
		Add(gbd.ColYear, ys).
		Add("mean "+gbd.ColVal, vs).
		Done()
}
