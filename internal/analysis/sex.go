// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package analysis

import (
	"math"

	"github.com/aclements/go-gg/table"

	"github.com/gbdtools/gbdplot/gbd"
)

// SexComparison compares the mean value of the top causes between
// males and females.
type SexComparison struct {
	Location, Age string

	// Year is the year compared, or 0 for the mean across all
	// years.
	Year int

	Top int

	// Causes is in rank order. Male[i] and Female[i] are the
	// values of Causes[i], or NaN if there is no data for that
	// sex.
	Causes       []string
	Male, Female []float64
}

// NewSexComparison averages each cause separately for males and
// females, ranks causes by the sum of the two averages and keeps the
// top n.
//
// It returns ErrNoSexSplit if t does not contain both Male and Female
// rows anywhere, and ErrNoData if the filter selects nothing.
func NewSexComparison(t *table.Table, location, age string, year, n int) (*SexComparison, error) {
	if !hasSexes(t, Male, Female) {
		return nil, ErrNoSexSplit
	}

	f := Filter{Location: location, Age: age, Year: year}
	g := f.apply(t)
	g = table.Filter(g, func(sex string) bool {
		return sex == Male || sex == Female
	}, gbd.ColSex)
	if rows(g) == 0 {
		return nil, ErrNoData
	}

	male := meanBy(table.FilterEq(g, gbd.ColSex, Male), gbd.ColCause)
	female := meanBy(table.FilterEq(g, gbd.ColSex, Female), gbd.ColCause)
	totals := make(map[string]float64)
	for c, v := range male {
		totals[c] += v
	}
	for c, v := range female {
		totals[c] += v
	}

	sc := &SexComparison{Location: location, Age: age, Year: year, Top: n}
	for _, e := range rank(totals, n) {
		sc.Causes = append(sc.Causes, e.Cause)
		sc.Male = append(sc.Male, lookup(male, e.Cause))
		sc.Female = append(sc.Female, lookup(female, e.Cause))
	}
	return sc, nil
}

func lookup(m map[string]float64, k string) float64 {
	if v, ok := m[k]; ok {
		return v
	}
	return math.NaN()
}

// hasSexes reports whether every sex in sexes appears somewhere in t.
func hasSexes(t *table.Table, sexes ...string) bool {
	col, ok := t.Column(gbd.ColSex).([]string)
	if !ok {
		return false
	}
	seen := make(map[string]bool)
	for _, s := range col {
		seen[s] = true
	}
	for _, s := range sexes {
		if !seen[s] {
			return false
		}
	}
	return true
}

// Table returns sc as a table of (cause, Male, Female).
func (sc *SexComparison) Table() *table.Table {
	return new(table.Builder).
		Add(gbd.ColCause, sc.Causes).
		Add(Male, sc.Male).
		Add(Female, sc.Female).
		Done()
}
