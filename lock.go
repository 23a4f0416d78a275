// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package texcache

// Lock pins entry id so eviction skips it. Locks do not nest: a single
// Unlock releases any number of Locks. Safe from any goroutine.
func (c *Cache) Lock(id ID) error {
	return c.setLocked(id, true, "lock")
}

// Unlock makes entry id evictable again.
func (c *Cache) Unlock(id ID) error {
	return c.setLocked(id, false, "unlock")
}

// IsLocked reports whether entry id is pinned. The sentinel always is.
func (c *Cache) IsLocked(id ID) bool {
	e := c.entryAt(id, "is locked")
	return e != nil && e.locked.Load()
}

func (c *Cache) setLocked(id ID, locked bool, op string) error {
	e := c.entryAt(id, op)
	if e == nil {
		return ErrNotFound
	}
	if id == EmptyID {
		return nil
	}
	e.locked.Store(locked)
	return nil
}
