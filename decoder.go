// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package texcache

import "github.com/gogpu/texcache/internal/image"

// Decoder turns an entry key into a CPU surface. Implementations must be
// safe for concurrent use; Prepare calls them from worker goroutines.
type Decoder interface {
	Decode(path string) (*Surface, error)
}

// DecoderFunc adapts a function to the Decoder interface.
type DecoderFunc func(path string) (*Surface, error)

// Decode calls f(path).
func (f DecoderFunc) Decode(path string) (*Surface, error) { return f(path) }

// FileDecoder decodes image files from disk. PNG, JPEG, GIF, BMP, TIFF and
// WebP are recognised by content.
type FileDecoder struct {
	// Pool supplies destination buffers. Optional.
	Pool *SurfacePool

	// Premultiply converts decoded pixels to premultiplied alpha.
	Premultiply bool
}

// Decode reads and decodes the file at path.
func (d FileDecoder) Decode(path string) (*Surface, error) {
	buf, err := image.Load(path, d.Pool.imagePool())
	if err != nil {
		return nil, err
	}
	if d.Premultiply {
		buf.Premultiply()
	}
	return &Surface{buf: buf}, nil
}
