// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gbd reads Global Burden of Disease result exports.
//
// An export is a CSV file with a header row and one row per
// (measure, location, sex, age, cause, metric, year) estimate. The
// GBD results tool writes columns such as "location_name" and
// "cause_name"; some downloads use the short forms "location" and
// "cause". Both are accepted.
package gbd

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// Record is a single estimate (a single data row of an export).
type Record struct {
	Measure  string
	Location string
	Sex      string
	Age      string
	Cause    string
	Metric   string

	// Year is the calendar year of the estimate.
	Year int

	// Val is the point estimate. Upper and Lower bound its
	// uncertainty interval. Any of these is NaN if the cell was
	// empty or the column is missing from the export.
	Val, Upper, Lower float64
}

// field identifies one of the columns Parse understands.
type field int

const (
	fieldMeasure field = iota
	fieldLocation
	fieldSex
	fieldAge
	fieldCause
	fieldMetric
	fieldYear
	fieldVal
	fieldUpper
	fieldLower
	numFields
)

var fieldNames = [numFields][]string{
	fieldMeasure:  {"measure_name", "measure"},
	fieldLocation: {"location_name", "location"},
	fieldSex:      {"sex_name", "sex"},
	fieldAge:      {"age_name", "age"},
	fieldCause:    {"cause_name", "cause"},
	fieldMetric:   {"metric_name", "metric"},
	fieldYear:     {"year"},
	fieldVal:      {"val"},
	fieldUpper:    {"upper"},
	fieldLower:    {"lower"},
}

var required = []field{fieldLocation, fieldSex, fieldAge, fieldCause, fieldYear, fieldVal}

// Parse parses a GBD export from r. It returns a *Record for each
// data row, in file order.
//
// Parse does not check that values are plausible. It fails only if
// a required column is missing or a year or numeric cell cannot be
// parsed.
func Parse(r io.Reader) ([]*Record, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("missing header row")
	} else if err != nil {
		return nil, err
	}
	cols, err := mapHeader(header)
	if err != nil {
		return nil, err
	}

	records := []*Record{}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)

		rec, err := parseRow(row, &cols)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// ReadFile parses the GBD export at path.
func ReadFile(path string) ([]*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	rs, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rs, nil
}

// mapHeader returns the index of each known field in header, or -1.
func mapHeader(header []string) ([numFields]int, error) {
	var cols [numFields]int
	for i := range cols {
		cols[i] = -1
	}
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		for f, names := range fieldNames {
			if cols[f] >= 0 {
				continue
			}
			for _, n := range names {
				if n == name {
					cols[f] = i
				}
			}
		}
	}
	for _, f := range required {
		if cols[f] < 0 {
			return cols, fmt.Errorf("missing %q column", fieldNames[f][0])
		}
	}
	return cols, nil
}

func parseRow(row []string, cols *[numFields]int) (*Record, error) {
	cell := func(f field) string {
		i := cols[f]
		if i < 0 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	num := func(f field) (float64, error) {
		s := cell(f)
		if s == "" {
			return math.NaN(), nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("bad %s %q", fieldNames[f][0], s)
		}
		return v, nil
	}

	rec := &Record{
		Measure:  cell(fieldMeasure),
		Location: cell(fieldLocation),
		Sex:      cell(fieldSex),
		Age:      cell(fieldAge),
		Cause:    cell(fieldCause),
		Metric:   cell(fieldMetric),
	}

	year := cell(fieldYear)
	y, err := strconv.Atoi(year)
	if err != nil {
		// Some exports write years as floats ("2017.0").
		fy, ferr := strconv.ParseFloat(year, 64)
		if ferr != nil || fy != math.Trunc(fy) {
			return nil, fmt.Errorf("bad year %q", year)
		}
		y = int(fy)
	}
	rec.Year = y

	if rec.Val, err = num(fieldVal); err != nil {
		return nil, err
	}
	if rec.Upper, err = num(fieldUpper); err != nil {
		return nil, err
	}
	if rec.Lower, err = num(fieldLower); err != nil {
		return nil, err
	}
	return rec, nil
}
