// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package gpu uploads cache surfaces into wgpu HAL textures.
//
// A Creator is the texcache.TextureCreator for a HAL device. It is used
// only on the cache's owner thread, which must also be the thread that
// owns the device queue.
//
// Usage:
//
//	creator := gpu.NewCreator(device, queue)
//	n, err := cache.Resolve(creator)
//
// To share the device of a host application (e.g., gogpu):
//
//	creator, err := gpu.NewFromProvider(provider)
package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/texcache"
)

// ErrNoHAL is returned by NewFromProvider when the provider does not
// expose HAL device and queue handles.
var ErrNoHAL = errors.New("gpu: provider does not expose HAL types")

// Creator creates sampled 2D textures on a HAL device.
type Creator struct {
	device hal.Device
	queue  hal.Queue
}

// NewCreator returns a Creator for device and queue. The caller keeps
// ownership of both.
func NewCreator(device hal.Device, queue hal.Queue) *Creator {
	return &Creator{device: device, queue: queue}
}

// NewFromProvider returns a Creator sharing the device of a host
// application. The provider must implement HalDevice() any and
// HalQueue() any returning hal.Device and hal.Queue.
func NewFromProvider(provider gpucontext.DeviceProvider) (*Creator, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHAL
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHAL)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHAL)
	}
	return NewCreator(device, queue), nil
}

// CreateTexture uploads s into a new texture labelled label.
func (c *Creator) CreateTexture(label string, s *texcache.Surface) (texcache.Texture, error) {
	if s == nil {
		return nil, texcache.ErrNilSurface
	}

	format := s.Format()
	//nolint:gosec // G115: surface dimensions are positive and far below 2^32
	w, h := uint32(s.Width()), uint32(s.Height())
	size := hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1}

	tex, err := c.device.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create texture %q: %w", label, err)
	}

	view, err := c.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         label + "_view",
		Format:        format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		c.device.DestroyTexture(tex)
		return nil, fmt.Errorf("gpu: create texture view %q: %w", label, err)
	}

	//nolint:gosec // G115: row pitch of a valid texture fits uint32
	bytesPerRow := uint32(s.BytesPerRow())
	c.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
		},
		s.Pixels(),
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  bytesPerRow,
			RowsPerImage: h,
		},
		&size,
	)

	return &Texture{
		device: c.device,
		tex:    tex,
		view:   view,
		width:  s.Width(),
		height: s.Height(),
		format: format,
	}, nil
}
