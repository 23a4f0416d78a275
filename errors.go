// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package texcache

import "errors"

// Cache errors.
var (
	// ErrNotFound is returned when a key or ID has no entry.
	ErrNotFound = errors.New("texcache: entry not found")

	// ErrWrongThread is returned when a GPU-mutating operation is called
	// from a thread other than the bound owner thread.
	ErrWrongThread = errors.New("texcache: not called on owner thread")

	// ErrTableFull is returned when the probe sequence is exhausted on insert.
	// Callers may keep using the texture uncached.
	ErrTableFull = errors.New("texcache: table full")

	// ErrDecode wraps decoder failures (missing or corrupt source).
	ErrDecode = errors.New("texcache: decode failed")

	// ErrReserved is returned for operations on the sentinel entry.
	ErrReserved = errors.New("texcache: reserved entry")

	// ErrNotLoaded is returned by Dimensions for entries that were never
	// decoded or uploaded.
	ErrNotLoaded = errors.New("texcache: dimensions unknown")

	// ErrNilSurface is returned when attaching a nil surface.
	ErrNilSurface = errors.New("texcache: nil surface")

	// ErrNoCreator is returned when a nil TextureCreator is passed.
	ErrNoCreator = errors.New("texcache: nil texture creator")
)
