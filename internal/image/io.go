// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package image

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	// Registered formats. PNG, JPEG and GIF come from the standard library;
	// BMP, TIFF and WebP from x/image.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrEmptyImage is returned when a decoded image has no pixels.
var ErrEmptyImage = errors.New("image: empty image")

// Load decodes the image file at path into an RGBA8 buffer.
// The format is detected from content. pool may be nil.
func Load(path string, pool *Pool) (*ImageBuf, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("image: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Decode(f, pool)
}

// Decode decodes an image from r, auto-detecting the format.
func Decode(r io.Reader, pool *Pool) (*ImageBuf, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("image: decode: %w", err)
	}
	return FromStdImage(img, pool)
}

// FromStdImage converts a standard library image into an RGBA8 buffer,
// taking the destination from pool when non-nil.
func FromStdImage(img image.Image, pool *Pool) (*ImageBuf, error) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, ErrEmptyImage
	}

	var buf *ImageBuf
	if pool != nil {
		buf = pool.Get(width, height, FormatRGBA8)
	} else {
		var err error
		if buf, err = NewImageBuf(width, height, FormatRGBA8); err != nil {
			return nil, err
		}
	}

	rowBytes := FormatRGBA8.RowBytes(width)

	// NRGBA is straight alpha like FormatRGBA8: rows copy verbatim.
	if nrgba, ok := img.(*image.NRGBA); ok {
		for y := range height {
			src := nrgba.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(buf.RowBytes(y), nrgba.Pix[src:src+rowBytes])
		}
		return buf, nil
	}

	// Everything else goes through color.Color, which yields premultiplied
	// 16-bit channels; un-premultiply back to straight 8-bit.
	for y := range height {
		row := buf.RowBytes(y)
		for x := range width {
			r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			off := x * 4
			if a == 0 {
				continue
			}
			if a != 0xffff {
				r = r * 0xffff / a
				g = g * 0xffff / a
				b = b * 0xffff / a
			}
			row[off] = byte(r >> 8)
			row[off+1] = byte(g >> 8)
			row[off+2] = byte(b >> 8)
			row[off+3] = byte(a >> 8)
		}
	}
	return buf, nil
}
