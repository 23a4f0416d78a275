// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package texcache

import (
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/text/unicode/norm"
)

const (
	// DefaultCapacity is the default number of table slots.
	DefaultCapacity = 4093

	minCapacity = 11

	// collisionStep is the probe stride before reduction modulo the table
	// size. It is prime, so it is coprime with every other prime size.
	collisionStep = 32749

	// fallbackStep is used when collisionStep reduces to 0 or 1.
	fallbackStep = 7
)

// table is a fixed-capacity open-addressing hash table. Slot indices are
// the entry IDs handed out to callers, so the table never grows or moves
// entries. Deleted slots hold the tombstone and are reused by inserts.
type table struct {
	slots  []atomic.Pointer[entry]
	size   int
	stride int
	tomb   *entry
}

func newTable(capacity int) table {
	size := nextPrime(max(capacity, minCapacity))
	return table{
		slots:  make([]atomic.Pointer[entry], size),
		size:   size,
		stride: probeStride(size),
		tomb:   &entry{id: InvalidID},
	}
}

// probeStride returns a non-unit stride that is coprime with the prime
// size, so a probe visits every slot exactly once.
func probeStride(size int) int {
	s := collisionStep % size
	if s <= 1 {
		s = fallbackStep % size
	}
	return s
}

func isPrime(n int) bool {
	if n < 2 {
		return false
	}
	for d := 2; d*d <= n; d++ {
		if n%d == 0 {
			return false
		}
	}
	return true
}

func nextPrime(n int) int {
	for !isPrime(n) {
		n++
	}
	return n
}

// canonicalKey folds a key to Unicode NFC so composed and decomposed
// spellings of one path share an entry.
func canonicalKey(key string) string {
	return norm.NFC.String(key)
}

// hashKey returns the 32-bit table hash of a canonical key.
func hashKey(key string) uint32 {
	h := xxhash.Sum64String(key)
	return uint32(h) ^ uint32(h>>32)
}

// home returns the first probe index for hash h.
func (t *table) home(h uint32) int {
	return int(h % uint32(t.size)) //nolint:gosec // size fits in uint32
}

func (t *table) next(idx int) int {
	return (idx + t.stride) % t.size
}

// load returns the live entry in slot idx, or nil for empty and deleted
// slots.
func (t *table) load(idx int) *entry {
	e := t.slots[idx].Load()
	if e == t.tomb {
		return nil
	}
	return e
}

// find walks the probe sequence for key. It stops at the first never-used
// slot and steps over tombstones.
func (t *table) find(key string, h uint32) *entry {
	idx := t.home(h)
	for range t.size {
		e := t.slots[idx].Load()
		if e == nil {
			return nil
		}
		if e != t.tomb && e.hash == h && e.key == key {
			return e
		}
		idx = t.next(idx)
	}
	return nil
}

// insert returns the entry for key, creating it in the first free slot on
// the probe sequence if it does not exist. hops counts the occupied slots
// passed over. Inserts from several goroutines race on the slot with a
// compare-and-swap; the loser rescans.
func (t *table) insert(key string, h uint32) (e *entry, created bool, hops int, err error) {
	for {
		idx := t.home(h)
		free := -1
		var freeOld *entry
		hops = 0

		for range t.size {
			cur := t.slots[idx].Load()
			if cur == nil {
				if free < 0 {
					free, freeOld = idx, nil
				}
				break
			}
			if cur == t.tomb {
				if free < 0 {
					free, freeOld = idx, cur
				}
			} else if cur.hash == h && cur.key == key {
				return cur, false, hops, nil
			}
			hops++
			idx = t.next(idx)
		}

		if free < 0 {
			return nil, false, hops, ErrTableFull
		}

		ne := newEntry(key, h, ID(free)) //nolint:gosec // free < size
		if !t.slots[free].CompareAndSwap(freeOld, ne) {
			continue
		}
		// A tombstone left by a concurrent Delete can let two inserts of one
		// key land in different slots. Each inserter rescans after its CAS
		// and backs out if it sees another copy; at least one of any such
		// pair observes the other.
		if t.duplicated(ne) {
			t.slots[free].CompareAndSwap(ne, t.tomb)
			continue
		}
		return ne, true, hops, nil
	}
}

// duplicated reports whether another live entry for e's key sits on e's
// probe sequence.
func (t *table) duplicated(e *entry) bool {
	idx := t.home(e.hash)
	for range t.size {
		cur := t.slots[idx].Load()
		if cur == nil {
			return false
		}
		if cur != t.tomb && cur != e && cur.hash == e.hash && cur.key == e.key {
			return true
		}
		idx = t.next(idx)
	}
	return false
}

// remove frees e's slot, leaving a tombstone so later entries on the same
// probe sequence stay reachable. It reports false if the slot no longer
// holds e.
func (t *table) remove(e *entry) bool {
	return t.slots[e.id].CompareAndSwap(e, t.tomb)
}

// occupied reports the number of live entries, sentinel included.
func (t *table) occupied() int {
	n := 0
	for i := range t.slots {
		if t.load(i) != nil {
			n++
		}
	}
	return n
}
