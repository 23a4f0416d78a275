// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package texcache

import (
	"fmt"
	"sync/atomic"
)

// Cache is a bounded store of GPU textures keyed by path or token.
//
// Lookups, surface attachment and locking are safe from any goroutine.
// Operations that create, replace or destroy GPU textures run only on the
// owner thread (see BindOwnerThread) and return ErrWrongThread elsewhere.
// A Cache must not be copied after creation.
type Cache struct {
	opts options
	tbl  table

	resident  atomic.Int64  // bytes of uploaded textures
	budget    atomic.Int64  // 0 = unlimited
	tick      atomic.Uint64 // recency clock
	requested atomic.Uint64 // surfaces attached
	resolved  atomic.Uint64 // requested value covered by the last scan
	owner     atomic.Uint64 // ThreadID, 0 = unbound
	evictions atomic.Uint64
}

// New creates a cache and installs the sentinel entry at EmptyID.
func New(opts ...Option) *Cache {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.decoder == nil {
		o.decoder = FileDecoder{Pool: o.pool}
	}

	c := &Cache{
		opts: o,
		tbl:  newTable(o.capacity),
	}
	c.budget.Store(o.budget)
	c.tbl.slots[EmptyID].Store(newEntry("", 0, EmptyID))
	c.tbl.slots[EmptyID].Load().locked.Store(true)
	return c
}

// Capacity returns the number of table slots, the sentinel included.
func (c *Cache) Capacity() int {
	return c.tbl.size
}

// entryAt returns the live entry for id, or nil for empty and deleted
// slots. An id outside the table is a caller bug and panics.
func (c *Cache) entryAt(id ID, op string) *entry {
	if id < 0 || int(id) >= c.tbl.size {
		panic(fmt.Sprintf("texcache: %s: invalid id %d", op, id))
	}
	return c.tbl.load(int(id))
}

// touch marks e as the most recently used entry.
func (c *Cache) touch(e *entry) {
	e.recency.Store(c.tick.Add(1))
}

// Put registers key and returns its ID, creating the entry on first use.
//
// A non-nil tex replaces the entry's texture (destroying the previous one)
// and must be called on the owner thread. With a nil tex Put only records
// the key and may be called from any goroutine. The empty key maps to
// EmptyID.
func (c *Cache) Put(key string, tex Texture) (ID, error) {
	if tex != nil && !c.IsOwnerThread() {
		return InvalidID, c.refuse("put")
	}

	key = canonicalKey(key)
	if key == "" {
		if tex != nil {
			return InvalidID, ErrReserved
		}
		return EmptyID, nil
	}

	e, created, hops, err := c.tbl.insert(key, hashKey(key))
	if err != nil {
		c.logger().Warn("texcache: put failed", "key", key, "err", err)
		return InvalidID, err
	}
	if hops > 0 {
		c.logger().Debug("texcache: probe collision", "key", key, "id", e.id, "hops", hops)
	}
	if created {
		c.logger().Debug("texcache: new entry", "key", key, "id", e.id)
	}

	c.touch(e)
	if tex != nil {
		c.install(e, tex)
	}
	return e.id, nil
}

// Set replaces the texture of entry id. A nil tex releases the current
// texture. Owner thread only.
func (c *Cache) Set(id ID, tex Texture) error {
	if !c.IsOwnerThread() {
		return c.refuse("set")
	}
	if id == EmptyID {
		return ErrReserved
	}
	e := c.entryAt(id, "set")
	if e == nil {
		return ErrNotFound
	}

	c.touch(e)
	if tex == nil {
		c.release(e)
		e.ejected.Store(false)
		return nil
	}
	c.install(e, tex)
	return nil
}

// Get returns the texture and ID stored under key. ok is false when the
// key has no entry. A found entry whose texture was evicted returns a nil
// texture with its ID.
func (c *Cache) Get(key string) (tex Texture, id ID, ok bool) {
	key = canonicalKey(key)
	if key == "" {
		return nil, EmptyID, true
	}

	e := c.tbl.find(key, hashKey(key))
	if e == nil {
		return nil, InvalidID, false
	}
	c.touch(e)
	return e.texture(), e.id, true
}

// Lookup returns the texture of entry id, or nil if it has none. This is
// the render-time hot path.
func (c *Cache) Lookup(id ID) Texture {
	e := c.entryAt(id, "lookup")
	if e == nil || id == EmptyID {
		return nil
	}
	c.touch(e)
	return e.texture()
}

// IsEjected reports whether entry id had its texture evicted and has not
// been reloaded since.
func (c *Cache) IsEjected(id ID) bool {
	e := c.entryAt(id, "is ejected")
	return e != nil && e.ejected.Load()
}

// Dimensions returns the pixel size of entry id, known once it has been
// decoded or uploaded. The size survives eviction.
func (c *Cache) Dimensions(id ID) (width, height int, err error) {
	e := c.entryAt(id, "dimensions")
	if e == nil {
		return 0, 0, ErrNotFound
	}
	w, h := int(e.width.Load()), int(e.height.Load())
	if w == 0 || h == 0 {
		return 0, 0, ErrNotLoaded
	}
	return w, h, nil
}

// Delete destroys entry id: its texture, pending surface and metadata.
// The ID becomes free for reuse. Owner thread only.
func (c *Cache) Delete(id ID) error {
	if !c.IsOwnerThread() {
		return c.refuse("delete")
	}
	if id == EmptyID {
		return ErrReserved
	}
	e := c.entryAt(id, "delete")
	if e == nil {
		return ErrNotFound
	}

	c.release(e)
	if s := e.surface.Swap(nil); s != nil {
		c.recycle(s)
	}
	c.tbl.remove(e)
	c.logger().Debug("texcache: deleted", "key", e.key, "id", id)
	return nil
}

// DeleteKey is Delete by key.
func (c *Cache) DeleteKey(key string) error {
	if !c.IsOwnerThread() {
		return c.refuse("delete")
	}
	key = canonicalKey(key)
	if key == "" {
		return ErrReserved
	}
	e := c.tbl.find(key, hashKey(key))
	if e == nil {
		return ErrNotFound
	}
	return c.Delete(e.id)
}

// install makes tex the resident texture of e, destroying any previous
// texture and evicting others if the budget requires it. Owner thread.
func (c *Cache) install(e *entry, tex Texture) {
	if old := e.res.Load(); old != nil && old.tex == tex {
		return
	}
	c.release(e)

	bytes := textureFootprint(tex)
	c.enforceBudget(bytes, e)

	e.setSize(tex.Width(), tex.Height(), bytes)
	e.res.Store(&resident{tex: tex, bytes: bytes})
	c.resident.Add(bytes)
	e.ejected.Store(false)
}

// release destroys e's texture, if any, and uncharges its bytes.
// Owner thread.
func (c *Cache) release(e *entry) bool {
	r := e.res.Swap(nil)
	if r == nil {
		return false
	}
	c.resident.Add(-r.bytes)
	r.tex.Destroy()
	return true
}

// recycle hands a surface the cache is finished with back to the pool.
func (c *Cache) recycle(s *Surface) {
	c.opts.pool.Put(s)
}
