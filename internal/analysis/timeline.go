// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package analysis

import (
	"sort"

	"github.com/aclements/go-gg/table"
	"gonum.org/v1/gonum/floats"

	"github.com/gbdtools/gbdplot/gbd"
)

// Series is the value of one cause over time.
type Series struct {
	Cause  string
	Years  []int
	Values []float64
}

// Timeline is the yearly evolution of the top causes.
type Timeline struct {
	Filter
	Top int

	// Series is in rank order.
	Series []Series
}

// NewTimeline selects the n causes with the largest value summed
// over all years and computes the yearly total of each. f.Year is
// ignored.
func NewTimeline(t *table.Table, f Filter, n int) (*Timeline, error) {
	f.Year = 0
	top, err := TopCauses(t, f, n)
	if err != nil {
		return nil, err
	}
	g := f.apply(t)

	// Sum each (cause, year).
	byCause := make(map[string]map[int]float64)
	g = table.GroupBy(keep(g, causes(top)), gbd.ColCause, gbd.ColYear)
	for _, gid := range g.Tables() {
		sub := g.Table(gid)
		cause := sub.MustColumn(gbd.ColCause).([]string)[0]
		year := sub.MustColumn(gbd.ColYear).([]int)[0]
		if byCause[cause] == nil {
			byCause[cause] = make(map[int]float64)
		}
		byCause[cause][year] += floats.Sum(floatCol(sub, gbd.ColVal))
	}

	tl := &Timeline{Filter: f, Top: n}
	for _, e := range top {
		s := Series{Cause: e.Cause}
		for y := range byCause[e.Cause] {
			s.Years = append(s.Years, y)
		}
		sort.Ints(s.Years)
		for _, y := range s.Years {
			s.Values = append(s.Values, byCause[e.Cause][y])
		}
		tl.Series = append(tl.Series, s)
	}
	return tl, nil
}

// Table returns tl as a long table of (cause, year, val).
func (tl *Timeline) Table() *table.Table {
	var cs []string
	var ys []int
	var vs []float64
	for _, s := range tl.Series {
		for i, y := range s.Years {
			cs = append(cs, s.Cause)
			ys = append(ys, y)
			vs = append(vs, s.Values[i])
		}
	}
	return new(table.Builder).
		Add(gbd.ColCause, cs).
		Add(gbd.ColYear, ys).
		Add(gbd.ColVal, vs).
		Done()
}

// YearTotals sums the values selected by f across all causes for
// each year. f.Year is ignored. The result's Cause is empty.
func YearTotals(t *table.Table, f Filter) (*Series, error) {
	f.Year = 0
	g := f.apply(t)
	if rows(g) == 0 {
		return nil, ErrNoData
	}
	totals := make(map[int]float64)
	g = table.GroupBy(g, gbd.ColYear)
	for _, gid := range g.Tables() {
		sub := g.Table(gid)
		totals[sub.MustColumn(gbd.ColYear).([]int)[0]] += floats.Sum(floatCol(sub, gbd.ColVal))
	}
	s := new(Series)
	for y := range totals {
		s.Years = append(s.Years, y)
	}
	sort.Ints(s.Years)
	for _, y := range s.Years {
		s.Values = append(s.Values, totals[y])
	}
	return s, nil
}
