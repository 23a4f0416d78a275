// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package image holds the CPU-side pixel buffers that decoded images live in
// until the owner thread uploads them to the GPU.
package image

import "github.com/gogpu/gputypes"

// Format represents a pixel storage format.
type Format uint8

const (
	// FormatGray8 is 8-bit single channel (1 byte per pixel).
	// Uploaded as an R8 texture.
	FormatGray8 Format = iota

	// FormatRGBA8 is 32-bit RGBA, straight alpha (4 bytes per pixel).
	// This is what the decoder produces.
	FormatRGBA8

	// FormatRGBAPremul is 32-bit RGBA with premultiplied alpha.
	FormatRGBAPremul

	// FormatBGRA8 is 32-bit BGRA, straight alpha.
	FormatBGRA8

	formatCount
)

// FormatInfo contains metadata about a pixel format.
type FormatInfo struct {
	BytesPerPixel   int
	HasAlpha        bool
	IsPremultiplied bool
	Texture         gputypes.TextureFormat
}

var formatInfoTable = [formatCount]FormatInfo{
	FormatGray8: {
		BytesPerPixel: 1,
		Texture:       gputypes.TextureFormatR8Unorm,
	},
	FormatRGBA8: {
		BytesPerPixel: 4,
		HasAlpha:      true,
		Texture:       gputypes.TextureFormatRGBA8Unorm,
	},
	FormatRGBAPremul: {
		BytesPerPixel:   4,
		HasAlpha:        true,
		IsPremultiplied: true,
		Texture:         gputypes.TextureFormatRGBA8Unorm,
	},
	FormatBGRA8: {
		BytesPerPixel: 4,
		HasAlpha:      true,
		Texture:       gputypes.TextureFormatBGRA8Unorm,
	},
}

// Info returns the FormatInfo for this format.
func (f Format) Info() FormatInfo {
	if f >= formatCount {
		return FormatInfo{}
	}
	return formatInfoTable[f]
}

// BytesPerPixel returns the number of bytes per pixel for this format.
func (f Format) BytesPerPixel() int {
	return f.Info().BytesPerPixel
}

// IsPremultiplied returns true if alpha is premultiplied.
func (f Format) IsPremultiplied() bool {
	return f.Info().IsPremultiplied
}

// TextureFormat returns the GPU texture format a buffer of this format
// is uploaded as.
func (f Format) TextureFormat() gputypes.TextureFormat {
	return f.Info().Texture
}

// String returns a string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatGray8:
		return "Gray8"
	case FormatRGBA8:
		return "RGBA8"
	case FormatRGBAPremul:
		return "RGBAPremul"
	case FormatBGRA8:
		return "BGRA8"
	default:
		return "Unknown"
	}
}

// IsValid returns true if the format is a valid known format.
func (f Format) IsValid() bool {
	return f < formatCount
}

// RowBytes calculates the number of bytes needed for a row of the given width.
func (f Format) RowBytes(width int) int {
	return width * f.BytesPerPixel()
}

// ImageBytes calculates the total number of bytes needed for an image.
func (f Format) ImageBytes(width, height int) int {
	return f.RowBytes(width) * height
}
