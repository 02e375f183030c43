// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package analysis computes the aggregates behind each chart from a
// table built by gbd.Table.
//
// Every operation filters the table, groups it, aggregates the "val"
// column and ranks causes. Rows whose value is NaN are dropped before
// aggregating.
package analysis

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-gg/table"
	"gonum.org/v1/gonum/floats"

	"github.com/gbdtools/gbdplot/gbd"
)

var (
	// ErrNoData is returned when a filter selects no rows.
	ErrNoData = errors.New("no data for the selected filter")

	// ErrNoSexSplit is returned by NewSexComparison when the
	// dataset does not have separate Male and Female rows.
	ErrNoSexSplit = errors.New("no separate Male and Female data")
)

// Sex values used by GBD exports.
const (
	Both   = "Both"
	Male   = "Male"
	Female = "Female"
)

// Filter selects the rows an analysis aggregates.
type Filter struct {
	Location, Sex, Age string

	// Year restricts the analysis to a single year. If Year is
	// 0, all years are used.
	Year int
}

func (f Filter) String() string {
	s := fmt.Sprintf("%s - %s - %s", f.Location, f.Sex, f.Age)
	if f.Year != 0 {
		s += fmt.Sprintf(" - %d", f.Year)
	}
	return s
}

// Entry is the aggregated value of one cause.
type Entry struct {
	Cause string
	Value float64
}

// apply filters t to the rows selected by f, always dropping NaN
// values. Empty string fields and a zero Year select everything.
func (f Filter) apply(t table.Grouping) table.Grouping {
	t = removeNaNs(t, gbd.ColVal)
	if f.Location != "" {
		t = table.FilterEq(t, gbd.ColLocation, f.Location)
	}
	if f.Sex != "" {
		t = table.FilterEq(t, gbd.ColSex, f.Sex)
	}
	if f.Age != "" {
		t = table.FilterEq(t, gbd.ColAge, f.Age)
	}
	if f.Year != 0 {
		t = table.FilterEq(t, gbd.ColYear, f.Year)
	}
	return t
}

func removeNaNs(g table.Grouping, col string) table.Grouping {
	return table.Filter(g, func(v float64) bool {
		return !math.IsNaN(v)
	}, col)
}

// rows returns the number of rows in all groups of g.
func rows(g table.Grouping) int {
	n := 0
	for _, gid := range g.Tables() {
		n += g.Table(gid).Len()
	}
	return n
}

// sumBy sums the "val" column of g for each distinct value of col.
// col must be a string column.
func sumBy(g table.Grouping, col string) map[string]float64 {
	sums := make(map[string]float64)
	g = table.GroupBy(g, col)
	for _, gid := range g.Tables() {
		t := g.Table(gid)
		key := t.MustColumn(col).([]string)[0]
		sums[key] += floats.Sum(floatCol(t, gbd.ColVal))
	}
	return sums
}

func floatCol(t *table.Table, col string) []float64 {
	var xs []float64
	slice.Convert(&xs, t.MustColumn(col))
	return xs
}

// rank orders values decreasing by value, breaking ties by cause
// name, and keeps at most n entries. n <= 0 keeps everything.
func rank(values map[string]float64, n int) []Entry {
	es := make([]Entry, 0, len(values))
	for cause, v := range values {
		es = append(es, Entry{cause, v})
	}
	sort.Slice(es, func(i, j int) bool {
		if es[i].Value != es[j].Value {
			return es[i].Value > es[j].Value
		}
		return es[i].Cause < es[j].Cause
	})
	if n > 0 && len(es) > n {
		es = es[:n]
	}
	return es
}

func causes(es []Entry) []string {
	cs := make([]string, len(es))
	for i, e := range es {
		cs[i] = e.Cause
	}
	return cs
}

// keep filters g to rows whose cause is in cs.
func keep(g table.Grouping, cs []string) table.Grouping {
	set := make(map[string]bool, len(cs))
	for _, c := range cs {
		set[c] = true
	}
	return table.Filter(g, func(cause string) bool {
		return set[cause]
	}, gbd.ColCause)
}

// TopCauses returns the n causes with the largest total value among
// the rows selected by f.
func TopCauses(t *table.Table, f Filter, n int) ([]Entry, error) {
	g := f.apply(t)
	if rows(g) == 0 {
		return nil, ErrNoData
	}
	return rank(sumBy(g, gbd.ColCause), n), nil
}
