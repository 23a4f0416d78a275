// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"errors"
	"runtime"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/texcache"
)

// createNoopDevice creates a noop device and queue for testing.
// Returns the device, queue, and a cleanup function.
func createNoopDevice(t *testing.T) (hal.Device, hal.Queue, func()) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup
}

func TestCreateTexture(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	tests := []struct {
		name   string
		make   func() (*texcache.Surface, error)
		format gputypes.TextureFormat
	}{
		{
			name:   "rgba",
			make:   func() (*texcache.Surface, error) { return texcache.NewSurface(16, 8, make([]byte, 16*8*4)) },
			format: gputypes.TextureFormatRGBA8Unorm,
		},
		{
			name:   "alpha",
			make:   func() (*texcache.Surface, error) { return texcache.NewAlphaSurface(5, 3, make([]byte, 15)) },
			format: gputypes.TextureFormatR8Unorm,
		},
	}

	c := NewCreator(device, queue)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := tt.make()
			if err != nil {
				t.Fatalf("surface: %v", err)
			}
			tex, err := c.CreateTexture(tt.name, s)
			if err != nil {
				t.Fatalf("CreateTexture: %v", err)
			}
			if tex.Width() != s.Width() || tex.Height() != s.Height() {
				t.Errorf("size = %dx%d, want %dx%d", tex.Width(), tex.Height(), s.Width(), s.Height())
			}
			if tex.Format() != tt.format {
				t.Errorf("format = %v, want %v", tex.Format(), tt.format)
			}

			gt := tex.(*Texture)
			gt.Destroy()
			if gt.Raw() != nil || gt.View() != nil {
				t.Error("Destroy did not clear handles")
			}
			gt.Destroy() // no-op
		})
	}
}

func TestCreateTextureNilSurface(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	if _, err := NewCreator(device, queue).CreateTexture("x", nil); !errors.Is(err, texcache.ErrNilSurface) {
		t.Errorf("err = %v, want ErrNilSurface", err)
	}
}

func TestCreatorDrivesCache(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	cache := texcache.New(texcache.WithByteBudget(1024))
	cache.BindOwnerThread(texcache.CurrentThreadID())

	ids := make([]texcache.ID, 3)
	for i := range ids {
		id, err := cache.Put(string(rune('a'+i)), nil)
		if err != nil {
			t.Fatalf("Put: %v", err)
		}
		s, _ := texcache.NewSurface(16, 16, make([]byte, 16*16*4)) // 1024 bytes
		if err := cache.Attach(id, s); err != nil {
			t.Fatalf("Attach: %v", err)
		}
		ids[i] = id
	}

	n, err := cache.Resolve(NewCreator(device, queue))
	if err != nil || n != 3 {
		t.Fatalf("Resolve = (%d, %v), want (3, nil)", n, err)
	}
	if cache.ResidentBytes() != 1024 {
		t.Errorf("ResidentBytes() = %d, want 1024", cache.ResidentBytes())
	}
	// Each upload evicts the previous one; one texture survives.
	resident, ejected := 0, 0
	for _, id := range ids {
		if cache.Lookup(id) != nil {
			resident++
		}
		if cache.IsEjected(id) {
			ejected++
		}
	}
	if resident != 1 || ejected != 2 {
		t.Errorf("resident=%d ejected=%d, want 1 and 2", resident, ejected)
	}
}

// halHost is a gpucontext.DeviceProvider exposing HAL handles.
type halHost struct {
	device hal.Device
	queue  hal.Queue
}

func (h *halHost) Device() gpucontext.Device             { return nil }
func (h *halHost) Queue() gpucontext.Queue               { return nil }
func (h *halHost) Adapter() gpucontext.Adapter           { return nil }
func (h *halHost) SurfaceFormat() gputypes.TextureFormat { return gputypes.TextureFormatBGRA8Unorm }
func (h *halHost) AdapterInfo() gpucontext.AdapterInfo   { return gpucontext.AdapterInfo{} }
func (h *halHost) HalDevice() any                        { return h.device }
func (h *halHost) HalQueue() any                         { return h.queue }

// plainHost is a provider without HAL access.
type plainHost struct{}

func (plainHost) Device() gpucontext.Device             { return nil }
func (plainHost) Queue() gpucontext.Queue               { return nil }
func (plainHost) Adapter() gpucontext.Adapter           { return nil }
func (plainHost) SurfaceFormat() gputypes.TextureFormat { return gputypes.TextureFormatBGRA8Unorm }
func (plainHost) AdapterInfo() gpucontext.AdapterInfo   { return gpucontext.AdapterInfo{} }

func TestNewFromProvider(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	c, err := NewFromProvider(&halHost{device: device, queue: queue})
	if err != nil {
		t.Fatalf("NewFromProvider: %v", err)
	}
	if c.device != device || c.queue != queue {
		t.Error("creator does not use the provider's device")
	}

	if _, err := NewFromProvider(&halHost{}); !errors.Is(err, ErrNoHAL) {
		t.Errorf("nil HAL device: err = %v, want ErrNoHAL", err)
	}
	if _, err := NewFromProvider(plainHost{}); !errors.Is(err, ErrNoHAL) {
		t.Errorf("provider without HAL: err = %v, want ErrNoHAL", err)
	}
}
