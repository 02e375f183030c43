// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package chart renders analysis results as image files.
package chart

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	xfont "golang.org/x/image/font"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/gbdtools/gbdplot/gbd"
)

// Formats lists the output formats a Renderer can write.
var Formats = []string{"png", "svg", "pdf", "eps", "jpg", "jpeg", "tif", "tiff"}

// Options control the size and encoding of rendered charts.
type Options struct {
	// Format is the image format and file extension, one of
	// Formats.
	Format string

	// DPI is the resolution of raster formats.
	DPI int

	// Width and Height are the size of each chart.
	Width, Height vg.Length

	// ThumbnailWidth, if positive, also writes a PNG thumbnail of
	// each PNG chart scaled to this many pixels wide.
	ThumbnailWidth int
}

// DefaultOptions returns 16x10 inch PNG charts at 300 DPI.
func DefaultOptions() Options {
	return Options{
		Format: "png",
		DPI:    300,
		Width:  16 * vg.Inch,
		Height: 10 * vg.Inch,
	}
}

// Renderer draws charts into a directory.
type Renderer struct {
	Dir string
	Options
	Log *zap.Logger
}

// NewRenderer returns a Renderer that writes to dir, creating it if
// necessary.
func NewRenderer(dir string, opts Options, log *zap.Logger) (*Renderer, error) {
	if !validFormat(opts.Format) {
		return nil, fmt.Errorf("unknown chart format %q", opts.Format)
	}
	if err := os.MkdirAll(dir, 0777); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{Dir: dir, Options: opts, Log: log}, nil
}

func validFormat(f string) bool {
	for _, x := range Formats {
		if f == x {
			return true
		}
	}
	return false
}

// figure is anything that can draw itself onto a canvas. *plot.Plot
// is a figure.
type figure interface {
	Draw(c draw.Canvas)
}

// save renders fig to name (without extension) in r.Dir and returns
// the path of the written file.
func (r *Renderer) save(fig figure, name string) (string, error) {
	path := filepath.Join(r.Dir, name+"."+r.Format)

	var cw vg.CanvasWriterTo
	if r.Format == "png" {
		c := vgimg.NewWith(vgimg.UseWH(r.Width, r.Height), vgimg.UseDPI(r.DPI))
		cw = vgimg.PngCanvas{Canvas: c}
	} else {
		var err error
		cw, err = draw.NewFormattedCanvas(r.Width, r.Height, r.Format)
		if err != nil {
			return "", err
		}
	}
	fig.Draw(draw.New(cw))

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err := cw.WriteTo(f); err != nil {
		f.Close()
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	r.Log.Info("chart saved", zap.String("path", path))

	if r.ThumbnailWidth > 0 && r.Format == "png" {
		thumb, err := Thumbnail(path, r.ThumbnailWidth)
		if err != nil {
			return "", err
		}
		r.Log.Debug("thumbnail saved", zap.String("path", thumb))
	}
	return path, nil
}

// fileName joins parts with underscores, replaces spaces with
// underscores and removes path separators.
func fileName(parts ...string) string {
	name := strings.Join(parts, "_")
	return strings.NewReplacer(" ", "_", "/", "", `\`, "").Replace(name)
}

// yearPart is the file name and title component for a year filter.
func yearPart(year int) string {
	if year == 0 {
		return "average"
	}
	return fmt.Sprint(year)
}

func yearTitle(year int) string {
	if year == 0 {
		return "Average of all years"
	}
	return fmt.Sprintf("Year %d", year)
}

// newPlot returns a plot with the common title and axis styling.
func newPlot(title, xlabel, ylabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.Title.TextStyle.Font.Weight = xfont.WeightBold
	p.Title.Padding = vg.Points(12)
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	for _, a := range []*plot.Axis{&p.X, &p.Y} {
		a.Label.TextStyle.Font.Size = vg.Points(13)
		a.Label.TextStyle.Font.Weight = xfont.WeightBold
		a.Tick.Label.Font.Size = vg.Points(10)
	}
	return p
}

// commaTicks labels the ticks of an underlying Ticker with thousands
// separators.
type commaTicks struct {
	plot.Ticker
}

func (t commaTicks) Ticks(min, max float64) []plot.Tick {
	ticks := t.Ticker.Ticks(min, max)
	for i := range ticks {
		if ticks[i].Label != "" {
			ticks[i].Label = gbd.Comma(ticks[i].Value)
		}
	}
	return ticks
}

// yearTicks labels every year in years, thinning the labels so at
// most about a dozen are shown.
func yearTicks(years []int) plot.ConstantTicks {
	step := (len(years) + 11) / 12
	if step < 1 {
		step = 1
	}
	ticks := make(plot.ConstantTicks, len(years))
	for i, y := range years {
		ticks[i].Value = float64(y)
		if i%step == 0 {
			ticks[i].Label = fmt.Sprint(y)
		}
	}
	return ticks
}

// withLegend draws a plot with its legend to the right of the plot
// area rather than on top of the data.
type withLegend struct {
	p      *plot.Plot
	legend plot.Legend
	labels []string
}

func newWithLegend(p *plot.Plot) *withLegend {
	l := plot.NewLegend()
	l.Top = true
	l.Left = true
	return &withLegend{p: p, legend: l}
}

func (w *withLegend) add(label string, thumbs ...plot.Thumbnailer) {
	w.legend.Add(label, thumbs...)
	w.labels = append(w.labels, label)
}

func (w *withLegend) width() vg.Length {
	var max vg.Length
	for _, l := range w.labels {
		if tw := w.legend.TextStyle.Width(l); tw > max {
			max = tw
		}
	}
	return max + w.legend.ThumbnailWidth + vg.Points(24)
}

func (w *withLegend) Draw(c draw.Canvas) {
	lw := w.width()
	w.p.Draw(draw.Crop(c, 0, -lw, 0, 0))

	// Fill the strip behind the legend so it shares the plot
	// background.
	strip := draw.Crop(c, c.Rectangle.Size().X-lw, 0, 0, 0)
	strip.SetColor(color.White)
	strip.Fill(strip.Rectangle.Path())
	w.legend.Draw(draw.Crop(strip, vg.Points(8), 0, 0, -vg.Points(36)))
}
