// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command gbdplot charts Global Burden of Disease DALY estimates.
//
// gbdplot reads a CSV export of the GBD results tool [1] with one row
// per location, sex, age group, cause and year, and draws line plots
// of the top causes over time, bar rankings, comparisons between
// males and females, and cause by year heatmaps.
//
// Settings come from flags, GBDPLOT_* environment variables and an
// optional gbdplot.yaml file, in that order of precedence.
//
// [1] https://vizhub.healthdata.org/gbd-results/
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(newApp()).Execute(); err != nil {
		os.Exit(1)
	}
}
