// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package loader

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gogpu/texcache"
)

// countingDecoder decodes every key to a 2x2 surface, optionally failing
// and optionally blocking until release is closed.
type countingDecoder struct {
	calls   atomic.Int32
	fail    bool
	release chan struct{}
}

var errNoSuchImage = errors.New("no such image")

func (d *countingDecoder) Decode(string) (*texcache.Surface, error) {
	d.calls.Add(1)
	if d.release != nil {
		<-d.release
	}
	if d.fail {
		return nil, errNoSuchImage
	}
	return texcache.NewSurface(2, 2, make([]byte, 16))
}

func TestRequest(t *testing.T) {
	dec := &countingDecoder{}
	c := texcache.New(texcache.WithDecoder(dec))
	l := New(c)

	id, err := l.Request("a.png")
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if !c.IsPending(id) {
		t.Error("Request did not attach a surface")
	}

	// Pending: no second decode.
	if again, err := l.Request("a.png"); err != nil || again != id {
		t.Errorf("second Request = (%d, %v), want (%d, nil)", again, err, id)
	}
	if n := dec.calls.Load(); n != 1 {
		t.Errorf("decoded %d times, want 1", n)
	}
}

func TestRequestEmptyPath(t *testing.T) {
	l := New(texcache.New(texcache.WithDecoder(&countingDecoder{})))
	if id, err := l.Request(""); err != nil || id != texcache.EmptyID {
		t.Errorf(`Request("") = (%d, %v), want (EmptyID, nil)`, id, err)
	}
}

func TestRequestConcurrentSingleDecode(t *testing.T) {
	dec := &countingDecoder{release: make(chan struct{})}
	c := texcache.New(texcache.WithDecoder(dec))
	l := New(c)

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := l.Request("same.png"); err != nil {
				t.Errorf("Request: %v", err)
			}
		}()
	}
	time.Sleep(10 * time.Millisecond)
	close(dec.release)
	wg.Wait()

	if n := dec.calls.Load(); n != 1 {
		t.Errorf("decoded %d times, want 1", n)
	}
}

func TestRequestEquivalentSpellingsSingleDecode(t *testing.T) {
	dec := &countingDecoder{release: make(chan struct{})}
	c := texcache.New(texcache.WithDecoder(dec))
	l := New(c)

	paths := []string{"caf\u00e9.png", "cafe\u0301.png"}
	ids := make([]texcache.ID, len(paths))
	var wg sync.WaitGroup
	for i, p := range paths {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := l.Request(p)
			if err != nil {
				t.Errorf("Request(%q): %v", p, err)
			}
			ids[i] = id
		}()
	}
	time.Sleep(10 * time.Millisecond)
	close(dec.release)
	wg.Wait()

	if ids[0] != ids[1] {
		t.Errorf("ids = %v, want one entry", ids)
	}
	if n := dec.calls.Load(); n != 1 {
		t.Errorf("decoded %d times, want 1", n)
	}
}

func TestForgetEquivalentSpelling(t *testing.T) {
	dec := &countingDecoder{fail: true}
	l := New(texcache.New(texcache.WithDecoder(dec)))

	_, _ = l.Request("caf\u00e9.png")
	if _, err := l.Request("cafe\u0301.png"); !errors.Is(err, texcache.ErrDecode) {
		t.Errorf("err = %v, want remembered decode error", err)
	}
	if n := dec.calls.Load(); n != 1 {
		t.Errorf("decoded %d times, want 1", n)
	}

	l.Forget("cafe\u0301.png")
	if l.Failures() != 0 {
		t.Errorf("Failures() = %d after Forget, want 0", l.Failures())
	}
}

func TestRequestRemembersFailures(t *testing.T) {
	dec := &countingDecoder{fail: true}
	c := texcache.New(texcache.WithDecoder(dec))
	l := New(c)

	id, err := l.Request("missing.png")
	if !errors.Is(err, texcache.ErrDecode) || !errors.Is(err, errNoSuchImage) {
		t.Fatalf("Request err = %v, want decode error", err)
	}
	if id == texcache.InvalidID {
		t.Error("Request should return the ID on failure")
	}

	if _, err := l.Request("missing.png"); !errors.Is(err, texcache.ErrDecode) {
		t.Errorf("remembered err = %v, want decode error", err)
	}
	if n := dec.calls.Load(); n != 1 {
		t.Errorf("decoded %d times, want 1", n)
	}
	if l.Failures() != 1 {
		t.Errorf("Failures() = %d, want 1", l.Failures())
	}

	l.Forget("missing.png")
	_, _ = l.Request("missing.png")
	if n := dec.calls.Load(); n != 2 {
		t.Errorf("decoded %d times after Forget, want 2", n)
	}
}

func TestRequestTableFull(t *testing.T) {
	c := texcache.New(texcache.WithCapacity(11), texcache.WithDecoder(&countingDecoder{}))
	l := New(c)
	for i := range 10 {
		if _, err := l.Request(fmt.Sprintf("%d.png", i)); err != nil {
			t.Fatalf("Request %d: %v", i, err)
		}
	}
	if _, err := l.Request("overflow.png"); !errors.Is(err, texcache.ErrTableFull) {
		t.Errorf("err = %v, want ErrTableFull", err)
	}
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	img.SetNRGBA(0, 0, color.NRGBA{R: 1, G: 2, B: 3, A: 4})
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
}

func TestPreload(t *testing.T) {
	dir := t.TempDir()
	paths := make([]string, 6)
	for i := range paths {
		paths[i] = filepath.Join(dir, fmt.Sprintf("img%d.png", i))
		writePNG(t, paths[i], 4+i, 4)
	}
	missing := filepath.Join(dir, "missing.png")
	paths = append(paths, missing)

	c := texcache.New()
	l := New(c, WithConcurrency(2))

	ids, err := l.Preload(context.Background(), paths)
	if !errors.Is(err, texcache.ErrDecode) {
		t.Fatalf("Preload err = %v, want joined decode error", err)
	}
	if len(ids) != len(paths) {
		t.Fatalf("got %d ids, want %d", len(ids), len(paths))
	}
	for i, id := range ids[:6] {
		if !c.IsPending(id) {
			t.Errorf("%s not pending", paths[i])
		}
		w, h, err := c.Dimensions(id)
		if err != nil || w != 4+i || h != 4 {
			t.Errorf("Dimensions(%s) = (%d, %d, %v), want (%d, 4)", paths[i], w, h, err, 4+i)
		}
	}
	if c.IsPending(ids[6]) {
		t.Error("missing file became pending")
	}
}

func TestPreloadCanceled(t *testing.T) {
	c := texcache.New(texcache.WithDecoder(&countingDecoder{}))
	l := New(c)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := l.Preload(ctx, []string{"a", "b"}); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestEnqueue(t *testing.T) {
	dec := &countingDecoder{}
	c := texcache.New(texcache.WithDecoder(dec))
	l := New(c, WithConcurrency(1))

	ids := make([]texcache.ID, 5)
	for i := range ids {
		id, err := l.Enqueue(context.Background(), fmt.Sprintf("%d.png", i))
		if err != nil {
			t.Fatalf("Enqueue: %v", err)
		}
		ids[i] = id
	}
	l.Wait()

	for _, id := range ids {
		if !c.IsPending(id) {
			t.Errorf("entry %d not pending after Wait", id)
		}
	}
	if n := dec.calls.Load(); n != 5 {
		t.Errorf("decoded %d times, want 5", n)
	}
}

func TestEnqueueCanceledWhileBusy(t *testing.T) {
	dec := &countingDecoder{release: make(chan struct{})}
	c := texcache.New(texcache.WithDecoder(dec))
	l := New(c, WithConcurrency(1))

	if _, err := l.Enqueue(context.Background(), "slow.png"); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := l.Enqueue(ctx, "queued.png"); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want DeadlineExceeded", err)
	}

	close(dec.release)
	l.Wait()
}
