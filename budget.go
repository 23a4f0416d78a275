// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package texcache

import (
	"cmp"
	"slices"
)

// candidate is an evictable entry and the recency it had when sampled.
type candidate struct {
	e       *entry
	recency uint64
}

// lruCandidates returns the unlocked entries holding a texture, oldest
// first. skip is excluded. Ties keep slot order.
func (c *Cache) lruCandidates(skip *entry) []candidate {
	var out []candidate
	for i := 1; i < c.tbl.size; i++ {
		e := c.tbl.load(i)
		if e == nil || e == skip || e.locked.Load() || e.res.Load() == nil {
			continue
		}
		out = append(out, candidate{e: e, recency: e.recency.Load()})
	}
	slices.SortStableFunc(out, func(a, b candidate) int {
		return cmp.Compare(a.recency, b.recency)
	})
	return out
}

// evict destroys e's texture and marks the entry ejected. The entry, its
// ID and its dimensions survive. Owner thread.
func (c *Cache) evict(e *entry) bool {
	if !c.release(e) {
		return false
	}
	e.ejected.Store(true)
	c.evictions.Add(1)
	c.logger().Debug("texcache: evicted", "key", e.key, "id", e.id, "resident", c.resident.Load())
	return true
}

// enforceBudget evicts least recently used unlocked textures until
// pending more bytes fit in the budget. Locked entries are never evicted,
// so the budget may stay exceeded. Owner thread.
func (c *Cache) enforceBudget(pending int64, skip *entry) {
	budget := c.budget.Load()
	if budget <= 0 || c.resident.Load()+pending <= budget {
		return
	}

	for _, cand := range c.lruCandidates(skip) {
		if c.resident.Load()+pending <= budget {
			return
		}
		// Locked after sampling.
		if cand.e.locked.Load() {
			continue
		}
		c.evict(cand.e)
	}

	if over := c.resident.Load() + pending - budget; over > 0 {
		c.logger().Debug("texcache: over budget, remaining textures locked",
			"over", over, "budget", budget)
	}
}

// EvictLRU evicts the least recently used unlocked texture. It returns
// false when nothing could be evicted, including off the owner thread.
func (c *Cache) EvictLRU() bool {
	if !c.IsOwnerThread() {
		_ = c.refuse("evict")
		return false
	}
	for _, cand := range c.lruCandidates(nil) {
		if c.evict(cand.e) {
			return true
		}
	}
	return false
}

// SetByteBudget changes the resident byte budget. Zero means unlimited.
// On the owner thread the new budget is enforced at once; elsewhere it
// takes effect at the next Resolve.
func (c *Cache) SetByteBudget(limit int64) {
	c.budget.Store(max(limit, 0))
	if c.IsOwnerThread() {
		c.enforceBudget(0, nil)
	}
}

// ByteBudget returns the resident byte budget. Zero means unlimited.
func (c *Cache) ByteBudget() int64 {
	return c.budget.Load()
}

// ResidentBytes returns the bytes of all uploaded textures, locked ones
// included.
func (c *Cache) ResidentBytes() int64 {
	return c.resident.Load()
}
