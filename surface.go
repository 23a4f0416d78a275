// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package texcache

import (
	stdimage "image"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/texcache/internal/image"
)

// Surface is a CPU-side decoded pixel buffer waiting to become a texture.
//
// A Surface is written only by the goroutine that produces it. Once handed
// to the cache with Attach it belongs to the cache and must not be
// modified.
type Surface struct {
	buf *image.ImageBuf
}

// NewSurface wraps tightly packed straight-alpha RGBA8 pixels
// (len(pix) >= width*height*4). The slice is not copied.
func NewSurface(width, height int, pix []byte) (*Surface, error) {
	buf, err := image.FromRaw(pix, width, height, image.FormatRGBA8, image.FormatRGBA8.RowBytes(width))
	if err != nil {
		return nil, err
	}
	return &Surface{buf: buf}, nil
}

// NewAlphaSurface wraps tightly packed single-channel pixels, uploaded as
// an R8 texture. Used for glyph and mask coverage.
func NewAlphaSurface(width, height int, pix []byte) (*Surface, error) {
	buf, err := image.FromRaw(pix, width, height, image.FormatGray8, width)
	if err != nil {
		return nil, err
	}
	return &Surface{buf: buf}, nil
}

// SurfaceFromImage converts img to an RGBA8 surface.
func SurfaceFromImage(img stdimage.Image) (*Surface, error) {
	buf, err := image.FromStdImage(img, nil)
	if err != nil {
		return nil, err
	}
	return &Surface{buf: buf}, nil
}

// Width returns the surface width in pixels.
func (s *Surface) Width() int { return s.buf.Width() }

// Height returns the surface height in pixels.
func (s *Surface) Height() int { return s.buf.Height() }

// Format returns the texture format the surface uploads as.
func (s *Surface) Format() gputypes.TextureFormat { return s.buf.Format().TextureFormat() }

// Premultiplied reports whether the color channels are premultiplied.
func (s *Surface) Premultiplied() bool { return s.buf.Format().IsPremultiplied() }

// BytesPerRow returns the row pitch of Pixels.
func (s *Surface) BytesPerRow() int { return s.buf.Format().RowBytes(s.buf.Width()) }

// Pixels returns the tightly packed pixel data.
func (s *Surface) Pixels() []byte { return s.buf.Tight() }

// Footprint returns the GPU byte cost the surface will have once uploaded.
func (s *Surface) Footprint() int64 {
	return Footprint(s.Format(), s.Width(), s.Height())
}

// SurfacePool recycles surface buffers between the decoder and the cache.
// It is safe for concurrent use.
type SurfacePool struct {
	pool *image.Pool
}

// NewSurfacePool creates a pool keeping at most perSize buffers of each
// dimension. Zero means unlimited.
func NewSurfacePool(perSize int) *SurfacePool {
	return &SurfacePool{pool: image.NewPool(perSize)}
}

// Put returns s to the pool. s must not be used afterwards.
func (p *SurfacePool) Put(s *Surface) {
	if p == nil || s == nil {
		return
	}
	p.pool.Put(s.buf)
}

// Len returns the number of pooled buffers.
func (p *SurfacePool) Len() int {
	if p == nil {
		return 0
	}
	return p.pool.Len()
}

func (p *SurfacePool) imagePool() *image.Pool {
	if p == nil {
		return nil
	}
	return p.pool
}
