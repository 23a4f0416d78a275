// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package texcache

import "log/slog"

// Option configures a Cache during creation.
//
// Example:
//
//	c := texcache.New(
//	    texcache.WithCapacity(8191),
//	    texcache.WithByteBudget(128<<20),
//	)
type Option func(*options)

type options struct {
	capacity int
	budget   int64
	decoder  Decoder
	logger   *slog.Logger
	pool     *SurfacePool
}

func defaultOptions() options {
	return options{
		capacity: DefaultCapacity,
	}
}

// WithCapacity sets the number of table slots. The value is rounded up to
// the next prime (minimum 11). One slot is reserved for the sentinel entry.
func WithCapacity(n int) Option {
	return func(o *options) {
		o.capacity = n
	}
}

// WithByteBudget sets the resident GPU byte budget. Zero means unlimited.
func WithByteBudget(limit int64) Option {
	return func(o *options) {
		o.budget = max(limit, 0)
	}
}

// WithDecoder sets the decoder used by Prepare and LoadFromFile.
// Defaults to a FileDecoder sharing the cache's surface pool.
func WithDecoder(d Decoder) Option {
	return func(o *options) {
		o.decoder = d
	}
}

// WithLogger sets a logger for this cache only.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithSurfacePool makes the cache return surfaces it has finished with to
// p. Decoders drawing from the same pool then reuse those buffers.
func WithSurfacePool(p *SurfacePool) Option {
	return func(o *options) {
		o.pool = p
	}
}
