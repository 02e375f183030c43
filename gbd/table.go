// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gbd

import (
	"math"

	"github.com/aclements/go-gg/table"
)

// Column names of the table returned by Table. They follow the GBD
// results tool's export headers.
const (
	ColMeasure  = "measure_name"
	ColLocation = "location_name"
	ColSex      = "sex_name"
	ColAge      = "age_name"
	ColCause    = "cause_name"
	ColMetric   = "metric_name"
	ColYear     = "year"
	ColVal      = "val"
	ColUpper    = "upper"
	ColLower    = "lower"
)

// Table converts rs into a single-group table.
//
// The location, sex, age, cause, year and val columns are always
// present. The measure and metric columns are present if any record
// has a non-empty value for them, and the upper and lower columns if
// any record has a non-NaN bound.
func Table(rs []*Record) *table.Table {
	n := len(rs)
	var (
		measures  = make([]string, n)
		locations = make([]string, n)
		sexes     = make([]string, n)
		ages      = make([]string, n)
		causes    = make([]string, n)
		metrics   = make([]string, n)
		years     = make([]int, n)
		vals      = make([]float64, n)
		uppers    = make([]float64, n)
		lowers    = make([]float64, n)
	)
	var hasMeasure, hasMetric, hasBounds bool
	for i, r := range rs {
		measures[i] = r.Measure
		locations[i] = r.Location
		sexes[i] = r.Sex
		ages[i] = r.Age
		causes[i] = r.Cause
		metrics[i] = r.Metric
		years[i] = r.Year
		vals[i] = r.Val
		uppers[i] = r.Upper
		lowers[i] = r.Lower

		hasMeasure = hasMeasure || r.Measure != ""
		hasMetric = hasMetric || r.Metric != ""
		hasBounds = hasBounds || !math.IsNaN(r.Upper) || !math.IsNaN(r.Lower)
	}

	b := new(table.Builder)
	if hasMeasure {
		b.Add(ColMeasure, measures)
	}
	b.Add(ColLocation, locations).
		Add(ColSex, sexes).
		Add(ColAge, ages).
		Add(ColCause, causes)
	if hasMetric {
		b.Add(ColMetric, metrics)
	}
	b.Add(ColYear, years).Add(ColVal, vals)
	if hasBounds {
		b.Add(ColUpper, uppers).Add(ColLower, lowers)
	}
	return b.Done()
}
