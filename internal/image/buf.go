// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package image

import "errors"

// Common errors for image operations.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive.
	ErrInvalidDimensions = errors.New("image: invalid dimensions")

	// ErrInvalidFormat is returned when the format is not recognized.
	ErrInvalidFormat = errors.New("image: invalid format")

	// ErrInvalidStride is returned when stride is less than minimum required.
	ErrInvalidStride = errors.New("image: stride too small for width")

	// ErrDataTooSmall is returned when provided data is smaller than required.
	ErrDataTooSmall = errors.New("image: data buffer too small")
)

// ImageBuf is a contiguous pixel buffer with an optional row stride.
//
// An ImageBuf is written by exactly one goroutine (the decoder that
// produced it) and read afterwards; it carries no internal locking.
type ImageBuf struct {
	data   []byte
	width  int
	height int
	stride int
	format Format
}

// NewImageBuf creates a zeroed buffer with the given dimensions and format.
func NewImageBuf(width, height int, format Format) (*ImageBuf, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if !format.IsValid() {
		return nil, ErrInvalidFormat
	}

	stride := format.RowBytes(width)
	return &ImageBuf{
		data:   make([]byte, stride*height),
		width:  width,
		height: height,
		stride: stride,
		format: format,
	}, nil
}

// FromRaw wraps existing pixel data without copying.
// Stride must be at least format.RowBytes(width).
func FromRaw(data []byte, width, height int, format Format, stride int) (*ImageBuf, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if !format.IsValid() {
		return nil, ErrInvalidFormat
	}
	if stride < format.RowBytes(width) {
		return nil, ErrInvalidStride
	}

	requiredSize := stride * height
	if len(data) < requiredSize {
		return nil, ErrDataTooSmall
	}

	return &ImageBuf{
		data:   data[:requiredSize],
		width:  width,
		height: height,
		stride: stride,
		format: format,
	}, nil
}

// Width returns the image width in pixels.
func (b *ImageBuf) Width() int { return b.width }

// Height returns the image height in pixels.
func (b *ImageBuf) Height() int { return b.height }

// Stride returns the number of bytes per row (including padding).
func (b *ImageBuf) Stride() int { return b.stride }

// Format returns the pixel format.
func (b *ImageBuf) Format() Format { return b.format }

// Data returns the raw pixel data slice.
func (b *ImageBuf) Data() []byte { return b.data }

// ByteSize returns the total size of the image data in bytes.
func (b *ImageBuf) ByteSize() int { return len(b.data) }

// RowBytes returns the pixel bytes of row y, without padding.
// Returns nil if y is out of bounds.
func (b *ImageBuf) RowBytes(y int) []byte {
	if y < 0 || y >= b.height {
		return nil
	}
	start := y * b.stride
	return b.data[start : start+b.format.RowBytes(b.width)]
}

// Tight returns the pixel data with rows packed at format.RowBytes(width).
// The buffer's own data is returned when it has no row padding.
func (b *ImageBuf) Tight() []byte {
	rowBytes := b.format.RowBytes(b.width)
	if b.stride == rowBytes {
		return b.data
	}
	out := make([]byte, rowBytes*b.height)
	for y := range b.height {
		copy(out[y*rowBytes:], b.RowBytes(y))
	}
	return out
}

// GetRGBA returns the color at (x, y) in 0-255 range.
// Returns zeros if coordinates are out of bounds.
func (b *ImageBuf) GetRGBA(x, y int) (r, g, bl, a uint8) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return 0, 0, 0, 0
	}
	off := y*b.stride + x*b.format.BytesPerPixel()
	p := b.data[off:]

	switch b.format {
	case FormatGray8:
		return p[0], p[0], p[0], 255
	case FormatRGBA8, FormatRGBAPremul:
		return p[0], p[1], p[2], p[3]
	case FormatBGRA8:
		return p[2], p[1], p[0], p[3]
	default:
		return 0, 0, 0, 0
	}
}

// Clear sets all pixels to zero.
func (b *ImageBuf) Clear() {
	clear(b.data)
}

// Premultiply converts an RGBA8 buffer to RGBAPremul in place.
// Other formats are left unchanged.
func (b *ImageBuf) Premultiply() {
	if b.format != FormatRGBA8 {
		return
	}
	for y := range b.height {
		row := b.RowBytes(y)
		for x := 0; x+3 < len(row); x += 4 {
			a := uint16(row[x+3])
			if a == 255 {
				continue
			}
			row[x] = byte((uint16(row[x])*a + 127) / 255)
			row[x+1] = byte((uint16(row[x+1])*a + 127) / 255)
			row[x+2] = byte((uint16(row[x+2])*a + 127) / 255)
		}
	}
	b.format = FormatRGBAPremul
}
