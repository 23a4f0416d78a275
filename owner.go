// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package texcache

import "fmt"

// ThreadID identifies the thread allowed to mutate GPU state.
// Zero is never a valid identity.
type ThreadID uint64

// CurrentThreadID returns the identity of the calling thread.
//
// On Linux and Windows this is the OS thread ID, so the calling goroutine
// must be locked to its thread with runtime.LockOSThread for the identity
// to stay meaningful. On other platforms it is the goroutine ID.
func CurrentThreadID() ThreadID {
	return currentThreadID()
}

// BindOwnerThread makes id the owner thread. It may be called once;
// binding a different identity afterwards panics.
func (c *Cache) BindOwnerThread(id ThreadID) {
	if id == 0 {
		panic("texcache: BindOwnerThread: zero thread id")
	}
	if c.owner.CompareAndSwap(0, uint64(id)) {
		c.logger().Debug("texcache: owner thread bound", "thread", uint64(id))
		return
	}
	if prev := c.owner.Load(); prev != uint64(id) {
		panic(fmt.Sprintf("texcache: BindOwnerThread: already bound to thread %d, rebinding to %d", prev, id))
	}
}

// IsOwnerThread reports whether the caller is the bound owner thread.
// It is false until BindOwnerThread has been called.
func (c *Cache) IsOwnerThread() bool {
	owner := c.owner.Load()
	return owner != 0 && owner == uint64(currentThreadID())
}

// refuse logs a GPU mutation attempted off the owner thread.
func (c *Cache) refuse(op string) error {
	c.logger().Warn("texcache: refused off owner thread", "op", op)
	return ErrWrongThread
}
