// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package texcache provides a bounded-memory cache of GPU textures keyed by
// image path or token.
//
// # Overview
//
// A Cache maps string keys to GPU texture handles through a fixed-capacity
// open-addressing table. Every entry gets a stable numeric ID that widgets
// keep for O(1) lookups at render time. Resident GPU memory is tracked
// against an optional byte budget; when a new texture would exceed it, the
// least recently used unlocked textures are released. Evicted entries keep
// their metadata and are reloaded on demand.
//
// # Threads
//
// One OS thread, the owner, creates and destroys GPU textures. Bind it once
// from the render goroutine after locking it to its thread:
//
//	runtime.LockOSThread()
//	c := texcache.New(texcache.WithByteBudget(64 << 20))
//	c.BindOwnerThread(texcache.CurrentThreadID())
//
// Any goroutine may decode images and hand the pixels to the cache with
// Attach or Prepare. The owner promotes them once per frame:
//
//	for running {
//	    if _, err := c.Resolve(creator); err != nil { ... }
//	    draw(c.Lookup(id))
//	}
//
// GPU mutations called from another thread are refused with ErrWrongThread
// and have no side effects. The cache never blocks: shared state is held in
// atomics, and the decode/resolve handshake is a pair of counters.
//
// # Quick Start
//
//	creator := gpu.NewCreator(device, queue)
//	id, err := c.Load("images/needle.png", creator)
//	if err != nil {
//	    id = texcache.EmptyID // draw nothing
//	}
//	tex := c.Lookup(id)
//
// # Errors
//
// Recoverable conditions are reported with the sentinel errors in this
// package. Passing an ID outside the table is a programming error and
// panics, like an out of range slice index.
package texcache
