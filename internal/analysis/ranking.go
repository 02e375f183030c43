// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package analysis

import (
	"github.com/aclements/go-gg/ggstat"
	"github.com/aclements/go-gg/table"

	"github.com/gbdtools/gbdplot/gbd"
)

// Ranking is the list of causes with the largest mean value.
type Ranking struct {
	Filter
	Top int

	// Entries is in decreasing order of Value.
	Entries []Entry
}

// NewRanking ranks causes by their mean value among the rows
// selected by f and keeps the top n. If f.Year is 0, the mean is
// taken across all years.
func NewRanking(t *table.Table, f Filter, n int) (*Ranking, error) {
	g := f.apply(t)
	if rows(g) == 0 {
		return nil, ErrNoData
	}
	means := meanBy(g, gbd.ColCause)
	return &Ranking{Filter: f, Top: n, Entries: rank(means, n)}, nil
}

// meanBy averages the "val" column of g for each distinct value of
// col, which must be a string column.
func meanBy(g table.Grouping, col string) map[string]float64 {
	means := make(map[string]float64)
	if rows(g) == 0 {
		return means
	}
	agg := ggstat.Agg(col)(ggstat.AggMean(gbd.ColVal)).F(g)
	for _, gid := range agg.Tables() {
		t := agg.Table(gid)
		keys := t.MustColumn(col).([]string)
		vals := floatCol(t, "mean "+gbd.ColVal)
		for i, k := range keys {
			means[k] = vals[i]
		}
	}
	return means
}

// Table returns r as a table of (cause, mean val).
func (r *Ranking) Table() *table.Table {
	cs := causes(r.Entries)
	vs := make([]float64, len(r.Entries))
	for i, e := range r.Entries {
		vs[i] = e.Value
	}
	return new(table.Builder).
		Add(gbd.ColCause, cs).
		Add("mean "+gbd.ColVal, vs).
		Done()
}
