// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package texcache

import (
	"errors"
	"fmt"
)

// Attach hands a decoded surface to entry id for upload at the next
// Resolve. It never touches the GPU and may be called from any goroutine.
//
// The caller must ensure at most one goroutine attaches to a given entry
// at a time. A surface attached over a pending one replaces it.
func (c *Cache) Attach(id ID, s *Surface) error {
	if s == nil {
		return ErrNilSurface
	}
	if id == EmptyID {
		return ErrReserved
	}
	e := c.entryAt(id, "attach")
	if e == nil {
		return ErrNotFound
	}

	e.setSize(s.Width(), s.Height(), s.Footprint())
	e.surface.Store(s)
	c.requested.Add(1)
	return nil
}

// Prepare decodes the key of entry id with the cache's Decoder and
// attaches the result. It may be called from any goroutine and blocks for
// the duration of the decode.
func (c *Cache) Prepare(id ID) error {
	if id == EmptyID {
		return ErrReserved
	}
	e := c.entryAt(id, "prepare")
	if e == nil {
		return ErrNotFound
	}

	s, err := c.decode(e.key)
	if err != nil {
		return err
	}
	return c.Attach(id, s)
}

func (c *Cache) decode(key string) (*Surface, error) {
	s, err := c.opts.decoder.Decode(key)
	if err != nil {
		c.logger().Warn("texcache: decode failed", "key", key, "err", err)
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, key, err)
	}
	if s == nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, key, ErrNilSurface)
	}
	return s, nil
}

// Resolve promotes every attached surface to a GPU texture using tc and
// returns the number of textures created. It must run on the owner
// thread, typically once per frame.
//
// When no surface has been attached since the previous call Resolve makes
// no GPU calls. A surface attached while Resolve is scanning is picked up
// by the next call at the latest.
func (c *Cache) Resolve(tc TextureCreator) (int, error) {
	if !c.IsOwnerThread() {
		return 0, c.refuse("resolve")
	}
	if tc == nil {
		return 0, ErrNoCreator
	}

	// A budget lowered off-thread is applied here.
	c.enforceBudget(0, nil)

	requested := c.requested.Load()
	if requested == c.resolved.Load() {
		return 0, nil
	}

	promoted := 0
	for i := 1; i < c.tbl.size; i++ {
		e := c.tbl.load(i)
		if e == nil {
			continue
		}
		s := e.surface.Load()
		if s == nil {
			continue
		}
		if e.res.Load() != nil {
			if e.surface.CompareAndSwap(s, nil) {
				c.recycle(s)
			}
			continue
		}
		if c.promote(e, s, tc) {
			promoted++
		}
	}

	c.resolved.Store(requested)
	if promoted > 0 {
		c.logger().Debug("texcache: resolved", "promoted", promoted, "resident", c.resident.Load())
	}
	return promoted, nil
}

// promote uploads s as e's texture and drops the surface. A surface
// replaced by a concurrent Attach during the upload stays pending for the
// next Resolve. Owner thread.
func (c *Cache) promote(e *entry, s *Surface, tc TextureCreator) bool {
	c.enforceBudget(s.Footprint(), e)

	tex, err := tc.CreateTexture(e.key, s)
	if err != nil {
		c.logger().Warn("texcache: texture creation failed", "key", e.key, "id", e.id, "err", err)
		if e.surface.CompareAndSwap(s, nil) {
			c.recycle(s)
		}
		return false
	}

	c.install(e, tex)
	c.touch(e)
	if e.surface.CompareAndSwap(s, nil) {
		c.recycle(s)
	}
	return true
}

// LoadFromFile makes sure entry id has a texture, using a pending surface
// or decoding the key synchronously. If texture creation fails the least
// recently used texture is evicted and creation retried once.
// Owner thread only.
func (c *Cache) LoadFromFile(id ID, tc TextureCreator) error {
	if !c.IsOwnerThread() {
		return c.refuse("load")
	}
	if tc == nil {
		return ErrNoCreator
	}
	if id == EmptyID {
		return ErrReserved
	}
	e := c.entryAt(id, "load")
	if e == nil {
		return ErrNotFound
	}

	c.touch(e)
	if e.res.Load() != nil {
		return nil
	}

	s := e.surface.Load()
	pending := s != nil
	if !pending {
		var err error
		if s, err = c.decode(e.key); err != nil {
			return err
		}
		e.setSize(s.Width(), s.Height(), s.Footprint())
	}

	c.enforceBudget(s.Footprint(), e)
	tex, err := tc.CreateTexture(e.key, s)
	if err != nil && c.EvictLRU() {
		c.logger().Debug("texcache: retrying after eviction", "key", e.key, "err", err)
		tex, err = tc.CreateTexture(e.key, s)
	}
	if err != nil {
		c.logger().Warn("texcache: texture creation failed", "key", e.key, "id", id, "err", err)
		if !pending {
			c.recycle(s)
		}
		return fmt.Errorf("texcache: create texture %s: %w", e.key, err)
	}

	c.install(e, tex)
	if !pending {
		c.recycle(s)
	} else if e.surface.CompareAndSwap(s, nil) {
		c.recycle(s)
	}
	return nil
}

// Load registers path and loads it synchronously. The ID is returned even
// when loading fails so callers can retry or substitute EmptyID.
// Owner thread only.
func (c *Cache) Load(path string, tc TextureCreator) (ID, error) {
	if !c.IsOwnerThread() {
		return InvalidID, c.refuse("load")
	}
	id, err := c.Put(path, nil)
	if err != nil {
		return InvalidID, err
	}
	if id == EmptyID {
		return EmptyID, nil
	}
	return id, c.LoadFromFile(id, tc)
}

// IsPending reports whether entry id holds an attached surface that has
// not been promoted yet.
func (c *Cache) IsPending(id ID) bool {
	e := c.entryAt(id, "is pending")
	return e != nil && e.surface.Load() != nil
}

// IsResident reports whether entry id currently holds a texture.
func (c *Cache) IsResident(id ID) bool {
	e := c.entryAt(id, "is resident")
	return e != nil && e.res.Load() != nil
}

// IsDecodeError reports whether err came from a Decoder.
func IsDecodeError(err error) bool {
	return errors.Is(err, ErrDecode)
}
