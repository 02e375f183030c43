// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gbd

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/aclements/go-moremath/stats"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// Summary describes the shape of a dataset.
type Summary struct {
	Rows int

	// Years lists the distinct years in increasing order.
	Years []int

	Locations, Causes, Ages int

	// Sexes lists the distinct sexes in the order they first
	// appear.
	Sexes []string

	// Val summarizes the non-NaN point estimates.
	Val ValStats
}

// ValStats gives descriptive statistics of a set of values.
type ValStats struct {
	N                    int
	Min, Max, Mean, SDev float64
}

// Summarize computes the Summary of rs.
func Summarize(rs []*Record) Summary {
	var s Summary
	s.Rows = len(rs)

	years := make(map[int]bool)
	locations := make(map[string]bool)
	causes := make(map[string]bool)
	ages := make(map[string]bool)
	sexes := make(map[string]bool)
	var sample stats.Sample
	for _, r := range rs {
		if !years[r.Year] {
			years[r.Year] = true
			s.Years = append(s.Years, r.Year)
		}
		locations[r.Location] = true
		causes[r.Cause] = true
		ages[r.Age] = true
		if !sexes[r.Sex] {
			sexes[r.Sex] = true
			s.Sexes = append(s.Sexes, r.Sex)
		}
		if !math.IsNaN(r.Val) {
			sample.Xs = append(sample.Xs, r.Val)
		}
	}
	sort.Ints(s.Years)
	s.Locations, s.Causes, s.Ages = len(locations), len(causes), len(ages)

	s.Val.N = len(sample.Xs)
	if s.Val.N > 0 {
		s.Val.Min, s.Val.Max = sample.Bounds()
		s.Val.Mean = sample.Mean()
		s.Val.SDev = sample.StdDev()
	} else {
		nan := math.NaN()
		s.Val.Min, s.Val.Max, s.Val.Mean, s.Val.SDev = nan, nan, nan, nan
	}
	return s
}

// HasSex reports whether the dataset has any rows for sex.
func (s Summary) HasSex(sex string) bool {
	for _, x := range s.Sexes {
		if x == sex {
			return true
		}
	}
	return false
}

var heading = lipgloss.NewStyle().Bold(true)

// Fprint writes a human-readable description of s to w.
func (s Summary) Fprint(w io.Writer) error {
	rule := strings.Repeat("=", 60)
	years := make([]string, len(s.Years))
	for i, y := range s.Years {
		years[i] = fmt.Sprint(y)
	}

	var b strings.Builder
	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, heading.Render("DATASET INFORMATION"))
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "Rows:            %s\n", humanize.Comma(int64(s.Rows)))
	fmt.Fprintf(&b, "Years:           %s\n", strings.Join(years, ", "))
	fmt.Fprintf(&b, "Locations:       %d\n", s.Locations)
	fmt.Fprintf(&b, "Causes:          %d\n", s.Causes)
	fmt.Fprintf(&b, "Age groups:      %d\n", s.Ages)
	fmt.Fprintf(&b, "Sexes:           %s\n", strings.Join(s.Sexes, ", "))
	split := "no"
	if s.HasSex("Male") && s.HasSex("Female") {
		split = "yes"
	}
	fmt.Fprintf(&b, "Male/Female:     %s\n", split)
	if s.Val.N > 0 {
		fmt.Fprintf(&b, "Values:          n=%d min=%s max=%s mean=%s sd=%s\n",
			s.Val.N, Comma(s.Val.Min), Comma(s.Val.Max), Comma(s.Val.Mean), Comma(s.Val.SDev))
	}
	fmt.Fprintln(&b, rule)

	_, err := io.WriteString(w, b.String())
	return err
}

// Comma formats v rounded to an integer with thousands separators.
func Comma(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Sprint(v)
	}
	return humanize.Comma(int64(math.Round(v)))
}
