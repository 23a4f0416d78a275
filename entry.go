// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package texcache

import "sync/atomic"

// ID is a stable handle to a cache entry, valid until the entry is
// deleted. IDs index the table directly.
type ID int32

const (
	// InvalidID is returned when no entry could be created.
	InvalidID ID = -1

	// EmptyID is the reserved "no texture" entry. It is always present,
	// is never evicted and cannot be deleted. Lookup(EmptyID) returns nil.
	EmptyID ID = 0
)

// resident is an uploaded texture and the bytes it is charged for.
type resident struct {
	tex   Texture
	bytes int64
}

// entry is the per-key record.
//
// key, hash and id are immutable. res is written only on the owner thread.
// surface, width, height and footprint are written by whichever goroutine
// attaches a surface (one per key at a time) and by the owner. recency and
// locked may be written from any goroutine.
type entry struct {
	key  string
	hash uint32
	id   ID

	res     atomic.Pointer[resident]
	surface atomic.Pointer[Surface]

	width     atomic.Int32
	height    atomic.Int32
	footprint atomic.Int64

	recency atomic.Uint64
	locked  atomic.Bool
	ejected atomic.Bool
}

func newEntry(key string, h uint32, id ID) *entry {
	return &entry{key: key, hash: h, id: id}
}

// texture returns the resident texture or nil.
func (e *entry) texture() Texture {
	if r := e.res.Load(); r != nil {
		return r.tex
	}
	return nil
}

// setSize records the entry's pixel dimensions and byte cost.
func (e *entry) setSize(width, height int, footprint int64) {
	e.width.Store(int32(width))   //nolint:gosec // texture sizes fit int32
	e.height.Store(int32(height)) //nolint:gosec // texture sizes fit int32
	e.footprint.Store(footprint)
}
