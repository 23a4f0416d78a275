// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package texcache

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/gogpu/gputypes"
)

// fakeTexture is a Texture that records Destroy calls.
type fakeTexture struct {
	w, h      int
	format    gputypes.TextureFormat
	destroyed atomic.Int32
}

func newFakeTexture(w, h int) *fakeTexture {
	return &fakeTexture{w: w, h: h, format: gputypes.TextureFormatRGBA8Unorm}
}

func (t *fakeTexture) Width() int                      { return t.w }
func (t *fakeTexture) Height() int                     { return t.h }
func (t *fakeTexture) Format() gputypes.TextureFormat { return t.format }
func (t *fakeTexture) Destroy()                        { t.destroyed.Add(1) }

// tex400 returns a 10x10 RGBA8 texture: 400 bytes.
func tex400() *fakeTexture { return newFakeTexture(10, 10) }

// fakeCreator is a TextureCreator counting GPU calls. failures makes the
// next n calls fail.
type fakeCreator struct {
	mu       sync.Mutex
	calls    int
	failures int
	labels   []string
}

var errFakeOOM = errors.New("fake: out of device memory")

func (f *fakeCreator) CreateTexture(label string, s *Surface) (Texture, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	f.labels = append(f.labels, label)
	if f.failures > 0 {
		f.failures--
		return nil, errFakeOOM
	}
	return &fakeTexture{w: s.Width(), h: s.Height(), format: s.Format()}, nil
}

func (f *fakeCreator) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// ownerCache returns a cache bound to the test goroutine's OS thread.
// The caller must not hand the cache's owner work to other goroutines.
func ownerCache(t *testing.T, opts ...Option) *Cache {
	t.Helper()
	runtime.LockOSThread()
	t.Cleanup(runtime.UnlockOSThread)

	c := New(opts...)
	c.BindOwnerThread(CurrentThreadID())
	return c
}

// offThread runs fn on a goroutine locked to a different OS thread.
func offThread(fn func()) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		fn()
	}()
	<-done
}

// testSurface returns a w x h RGBA8 surface.
func testSurface(t *testing.T, w, h int) *Surface {
	t.Helper()
	s, err := NewSurface(w, h, make([]byte, w*h*4))
	if err != nil {
		t.Fatalf("NewSurface: %v", err)
	}
	return s
}

// mustPut puts key with tex and fails the test on error.
func mustPut(t *testing.T, c *Cache, key string, tex Texture) ID {
	t.Helper()
	id, err := c.Put(key, tex)
	if err != nil {
		t.Fatalf("Put(%q): %v", key, err)
	}
	return id
}
