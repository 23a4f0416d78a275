// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package image

import "sync"

// Pool recycles ImageBuf instances by dimensions and format.
//
// Decoded surfaces are dropped by the cache as soon as they have been
// uploaded; handing them back here keeps steady-state decoding of
// same-sized assets from allocating.
//
// All methods are safe for concurrent use.
type Pool struct {
	mu      sync.Mutex
	buckets map[poolKey][]*ImageBuf
	maxSize int // max buffers per bucket, 0 = unlimited
}

type poolKey struct {
	width  int
	height int
	format Format
}

// NewPool creates a pool retaining at most maxPerBucket buffers of each
// size and format.
func NewPool(maxPerBucket int) *Pool {
	return &Pool{
		buckets: make(map[poolKey][]*ImageBuf),
		maxSize: maxPerBucket,
	}
}

// Get returns a zeroed buffer, reusing a pooled one when available.
// Returns nil for invalid dimensions or format.
func (p *Pool) Get(width, height int, format Format) *ImageBuf {
	key := poolKey{width: width, height: height, format: format}

	p.mu.Lock()
	bucket := p.buckets[key]
	if n := len(bucket); n > 0 {
		buf := bucket[n-1]
		bucket[n-1] = nil
		p.buckets[key] = bucket[:n-1]
		p.mu.Unlock()

		buf.Clear()
		return buf
	}
	p.mu.Unlock()

	buf, err := NewImageBuf(width, height, format)
	if err != nil {
		return nil
	}
	return buf
}

// Put returns a buffer to the pool. Buffers that wrap caller memory with a
// padded stride are not retained.
func (p *Pool) Put(buf *ImageBuf) {
	if buf == nil || buf.stride != buf.format.RowBytes(buf.width) {
		return
	}

	// Premultiplied RGBA shares the RGBA8 layout; decoders ask for RGBA8.
	if buf.format == FormatRGBAPremul {
		buf.format = FormatRGBA8
	}
	key := poolKey{width: buf.width, height: buf.height, format: buf.format}

	p.mu.Lock()
	defer p.mu.Unlock()

	bucket := p.buckets[key]
	if p.maxSize > 0 && len(bucket) >= p.maxSize {
		return
	}
	p.buckets[key] = append(bucket, buf)
}

// Len returns the number of pooled buffers across all buckets.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := 0
	for _, b := range p.buckets {
		n += len(b)
	}
	return n
}
