// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Texture is a sampled 2D texture with its default view.
type Texture struct {
	device hal.Device
	tex    hal.Texture
	view   hal.TextureView
	width  int
	height int
	format gputypes.TextureFormat
}

// Width returns the texture width in pixels.
func (t *Texture) Width() int { return t.width }

// Height returns the texture height in pixels.
func (t *Texture) Height() int { return t.height }

// Format returns the texel format.
func (t *Texture) Format() gputypes.TextureFormat { return t.format }

// Raw returns the HAL texture, or nil after Destroy.
func (t *Texture) Raw() hal.Texture { return t.tex }

// View returns the texture view to bind for sampling, or nil after Destroy.
func (t *Texture) View() hal.TextureView { return t.view }

// Destroy releases the view and the texture. Calling it twice is a no-op.
func (t *Texture) Destroy() {
	if t.view != nil {
		t.device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.tex != nil {
		t.device.DestroyTexture(t.tex)
		t.tex = nil
	}
}
