// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package image

import (
	"sync"
	"testing"
)

func TestPoolReuse(t *testing.T) {
	pool := NewPool(2)

	buf := pool.Get(8, 8, FormatRGBA8)
	if buf == nil {
		t.Fatal("Get returned nil")
	}
	buf.Data()[0] = 42
	pool.Put(buf)

	if pool.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", pool.Len())
	}

	again := pool.Get(8, 8, FormatRGBA8)
	if again != buf {
		t.Error("Get did not reuse the pooled buffer")
	}
	if again.Data()[0] != 0 {
		t.Error("reused buffer was not cleared")
	}
	if pool.Len() != 0 {
		t.Errorf("Len() = %d after Get, want 0", pool.Len())
	}
}

func TestPoolBucketLimit(t *testing.T) {
	pool := NewPool(1)
	pool.Put(pool.Get(4, 4, FormatGray8))
	pool.Put(pool.Get(4, 4, FormatGray8))
	extra, _ := NewImageBuf(4, 4, FormatGray8)
	pool.Put(extra)

	if pool.Len() != 1 {
		t.Errorf("Len() = %d, want 1", pool.Len())
	}
}

func TestPoolRejects(t *testing.T) {
	pool := NewPool(0)
	pool.Put(nil)

	padded, _ := FromRaw(make([]byte, 32), 2, 2, FormatRGBA8, 16)
	pool.Put(padded)

	if pool.Len() != 0 {
		t.Errorf("Len() = %d, want 0", pool.Len())
	}
	if pool.Get(0, 4, FormatRGBA8) != nil {
		t.Error("Get with zero width returned a buffer")
	}
}

func TestPoolConcurrent(t *testing.T) {
	pool := NewPool(4)
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				b := pool.Get(16, 16, FormatRGBA8)
				pool.Put(b)
			}
		}()
	}
	wg.Wait()

	if n := pool.Len(); n > 4 {
		t.Errorf("Len() = %d, exceeds bucket limit 4", n)
	}
}

func TestPoolPremultipliedReuse(t *testing.T) {
	pool := NewPool(1)
	buf := pool.Get(2, 2, FormatRGBA8)
	buf.Premultiply()
	pool.Put(buf)

	again := pool.Get(2, 2, FormatRGBA8)
	if again != buf {
		t.Fatal("premultiplied buffer not reused for RGBA8 request")
	}
	if again.Format() != FormatRGBA8 {
		t.Errorf("Format() = %v, want RGBA8", again.Format())
	}
}
