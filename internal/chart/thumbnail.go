// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"strings"

	"golang.org/x/image/draw"
)

// Thumbnail scales the PNG at path down to width pixels wide,
// preserving its aspect ratio, and writes it next to path with a
// "_thumb" suffix. It returns the path of the thumbnail.
func Thumbnail(path string, width int) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	src, err := png.Decode(f)
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", path, err)
	}

	sb := src.Bounds()
	if width <= 0 || width > sb.Dx() {
		width = sb.Dx()
	}
	height := sb.Dy() * width / sb.Dx()
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, sb, draw.Over, nil)

	out := strings.TrimSuffix(path, ".png") + "_thumb.png"
	w, err := os.Create(out)
	if err != nil {
		return "", err
	}
	if err := png.Encode(w, dst); err != nil {
		w.Close()
		return "", err
	}
	return out, w.Close()
}
