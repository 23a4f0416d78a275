// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package label renders short text into cache surfaces.
//
// Labels are typically inserted into the cache locked so that eviction
// never drops text the UI is showing:
//
//	s, _ := label.Render("Loading...", label.Options{Padding: 2})
//	id, _ := cache.Put("label:loading", nil)
//	cache.Lock(id)
//	cache.Attach(id, s)
package label

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/texcache"
)

// ErrEmptyText is returned when there is nothing to draw.
var ErrEmptyText = errors.New("label: empty text")

// Options controls label layout.
type Options struct {
	// Face is the font face. Defaults to basicfont.Face7x13.
	Face font.Face

	// Padding is the empty border around the text, in pixels.
	Padding int
}

func (o Options) face() font.Face {
	if o.Face == nil {
		return basicfont.Face7x13
	}
	return o.Face
}

// Measure returns the pixel size of text set in face, padding excluded.
// Lines are separated by '\n'.
func Measure(text string, face font.Face) (width, height int) {
	lines := strings.Split(text, "\n")
	for _, line := range lines {
		width = max(width, font.MeasureString(face, line).Ceil())
	}
	return width, len(lines) * face.Metrics().Height.Ceil()
}

// Render draws text as glyph coverage into an alpha surface, uploaded as
// an R8 texture.
func Render(text string, opts Options) (*texcache.Surface, error) {
	var dst *image.Alpha
	err := layout(text, image.Opaque, opts, func(r image.Rectangle) draw.Image {
		dst = image.NewAlpha(r)
		return dst
	})
	if err != nil {
		return nil, err
	}
	return texcache.NewAlphaSurface(dst.Rect.Dx(), dst.Rect.Dy(), dst.Pix)
}

// RenderColor draws text in c on a transparent RGBA surface.
func RenderColor(text string, c color.Color, opts Options) (*texcache.Surface, error) {
	var dst *image.NRGBA
	err := layout(text, image.NewUniform(c), opts, func(r image.Rectangle) draw.Image {
		dst = image.NewNRGBA(r)
		return dst
	})
	if err != nil {
		return nil, err
	}
	return texcache.SurfaceFromImage(dst)
}

// layout sizes a canvas for text, allocates it and draws every line
// with src.
func layout(text string, src image.Image, opts Options, alloc func(image.Rectangle) draw.Image) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyText
	}
	face := opts.face()
	pad := max(opts.Padding, 0)

	w, h := Measure(text, face)
	d := font.Drawer{
		Dst:  alloc(image.Rect(0, 0, w+2*pad, h+2*pad)),
		Src:  src,
		Face: face,
	}

	m := face.Metrics()
	lineHeight := m.Height.Ceil()
	for i, line := range strings.Split(text, "\n") {
		d.Dot = fixed.P(pad, pad+i*lineHeight+m.Ascent.Ceil())
		d.DrawString(line)
	}
	return nil
}
