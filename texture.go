// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package texcache

import "github.com/gogpu/gputypes"

// Texture is a GPU-resident texture handle owned by the cache.
//
// The cache calls Destroy exactly once, on the owner thread, when the
// texture is replaced, evicted or deleted. Implementations must be
// comparable (pointer types are).
type Texture interface {
	Width() int
	Height() int
	Format() gputypes.TextureFormat
	Destroy()
}

// TextureCreator uploads a decoded surface into a new GPU texture.
// It is the render context passed to Resolve, Load and LoadFromFile and is
// only ever called on the owner thread.
//
// CreateTexture must not retain the surface's pixel slice after it
// returns; the cache recycles surfaces once they are uploaded.
type TextureCreator interface {
	CreateTexture(label string, s *Surface) (Texture, error)
}

// BytesPerPixel returns the storage size of one texel of format.
// Unknown formats count as 4 bytes.
func BytesPerPixel(format gputypes.TextureFormat) int {
	switch format {
	case gputypes.TextureFormatR8Unorm:
		return 1
	case gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatBGRA8Unorm:
		return 4
	default:
		return 4
	}
}

// Footprint returns the GPU byte cost of a width x height texture.
func Footprint(format gputypes.TextureFormat, width, height int) int64 {
	if width <= 0 || height <= 0 {
		return 0
	}
	return int64(width) * int64(height) * int64(BytesPerPixel(format))
}

// textureFootprint is Footprint for an existing texture.
func textureFootprint(t Texture) int64 {
	return Footprint(t.Format(), t.Width(), t.Height())
}
