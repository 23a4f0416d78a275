// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package texcache

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// Stats is a snapshot of cache occupancy and memory use.
type Stats struct {
	Capacity int // table slots, sentinel included
	Entries  int // live entries, sentinel excluded
	Pending  int // entries holding an unpromoted surface
	Ejected  int // entries whose texture was evicted

	ResidentBytes int64 // LockedBytes + UnlockedBytes
	LockedBytes   int64
	UnlockedBytes int64
	EjectedBytes  int64 // footprint of ejected entries, not resident
	Budget        int64 // 0 = unlimited

	Evictions uint64
}

// String returns a one-line summary.
func (s Stats) String() string {
	return fmt.Sprintf("entries=%d/%d pending=%d ejected=%d resident=%d (locked=%d unlocked=%d) ejected_bytes=%d budget=%d evictions=%d",
		s.Entries, s.Capacity-1, s.Pending, s.Ejected,
		s.ResidentBytes, s.LockedBytes, s.UnlockedBytes, s.EjectedBytes, s.Budget, s.Evictions)
}

// row is one entry as seen by a diagnostics snapshot.
type row struct {
	id       ID
	hash     uint32
	key      string
	recency  uint64
	bytes    int64 // resident bytes, 0 if none
	size     int64 // footprint, resident or not
	locked   bool
	ejected  bool
	pending  bool
	resident bool
}

func (c *Cache) snapshot() []row {
	var rows []row
	for i := 1; i < c.tbl.size; i++ {
		e := c.tbl.load(i)
		if e == nil {
			continue
		}
		r := row{
			id:      e.id,
			hash:    e.hash,
			key:     e.key,
			recency: e.recency.Load(),
			size:    e.footprint.Load(),
			locked:  e.locked.Load(),
			ejected: e.ejected.Load(),
			pending: e.surface.Load() != nil,
		}
		if res := e.res.Load(); res != nil {
			r.bytes = res.bytes
			r.resident = true
		}
		rows = append(rows, r)
	}
	return rows
}

func (c *Cache) stats(rows []row) Stats {
	s := Stats{
		Capacity:  c.tbl.size,
		Entries:   len(rows),
		Budget:    c.budget.Load(),
		Evictions: c.evictions.Load(),
	}
	for _, r := range rows {
		if r.pending {
			s.Pending++
		}
		switch {
		case r.resident && r.locked:
			s.LockedBytes += r.bytes
		case r.resident:
			s.UnlockedBytes += r.bytes
		case r.ejected:
			s.Ejected++
			s.EjectedBytes += r.size
		}
	}
	s.ResidentBytes = s.LockedBytes + s.UnlockedBytes
	return s
}

// Stats returns a snapshot of occupancy and memory use. It may be called
// from any goroutine; fields are sampled individually.
func (c *Cache) Stats() Stats {
	return c.stats(c.snapshot())
}

// Dump returns a human-readable listing of every entry, least recently
// used first, followed by the memory breakdown. Flags: L locked,
// E ejected, P surface pending, R resident.
func (c *Cache) Dump() string {
	rows := c.snapshot()
	slices.SortStableFunc(rows, func(a, b row) int {
		return cmp.Compare(a.recency, b.recency)
	})

	var sb strings.Builder
	for _, r := range rows {
		fmt.Fprintf(&sb, "%5d) hash=%08x recency=%-8d bytes=%-10d [%s] %s\n",
			r.id, r.hash, r.recency, r.size, flags(r), r.key)
	}

	s := c.stats(rows)
	fmt.Fprintf(&sb, "Occupancy: %d/%d (%.1f%%)\n",
		s.Entries, s.Capacity-1, 100*float64(s.Entries)/float64(s.Capacity-1))
	fmt.Fprintf(&sb, "Resident: %d bytes (locked %d, unlocked %d)\n",
		s.ResidentBytes, s.LockedBytes, s.UnlockedBytes)
	fmt.Fprintf(&sb, "Ejected: %d entries, %d bytes\n", s.Ejected, s.EjectedBytes)
	if s.Budget > 0 {
		fmt.Fprintf(&sb, "Budget: %d bytes, %d evictions\n", s.Budget, s.Evictions)
	} else {
		fmt.Fprintf(&sb, "Budget: unlimited, %d evictions\n", s.Evictions)
	}
	return sb.String()
}

func flags(r row) string {
	b := []byte("----")
	if r.locked {
		b[0] = 'L'
	}
	if r.ejected {
		b[1] = 'E'
	}
	if r.pending {
		b[2] = 'P'
	}
	if r.resident {
		b[3] = 'R'
	}
	return string(b)
}
