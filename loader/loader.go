// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package loader decodes images for a texcache.Cache on worker goroutines.
//
// The cache requires that at most one decode per key is in flight. A
// Loader provides that guarantee: concurrent requests for the same path
// share one decode, and paths already resident or pending are skipped.
// Decoded surfaces are attached to the cache; the owner thread promotes
// them with Cache.Resolve.
//
//	l := loader.New(cache, loader.WithConcurrency(4))
//	ids, err := l.Preload(ctx, paths)
//	...
//	cache.Resolve(creator) // on the render thread
package loader

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/texcache"
	"github.com/gogpu/texcache/internal/cache"
)

// DefaultFailureMemo is the default number of failed paths remembered.
const DefaultFailureMemo = 256

// Loader schedules decodes for one cache. It is safe for concurrent use.
type Loader struct {
	cache *texcache.Cache

	group    singleflight.Group
	sem      *semaphore.Weighted
	limit    int
	failures *cache.Cache[string, error]
	wg       sync.WaitGroup
}

// Option configures a Loader.
type Option func(*options)

type options struct {
	concurrency int
	memo        int
}

// WithConcurrency bounds the number of decodes running at once.
// Defaults to GOMAXPROCS.
func WithConcurrency(n int) Option {
	return func(o *options) {
		o.concurrency = n
	}
}

// WithFailureMemo sets how many failed paths are remembered and not
// retried until Forget is called. Defaults to DefaultFailureMemo.
func WithFailureMemo(n int) Option {
	return func(o *options) {
		o.memo = n
	}
}

// New creates a loader feeding c.
func New(c *texcache.Cache, opts ...Option) *Loader {
	o := options{
		concurrency: runtime.GOMAXPROCS(0),
		memo:        DefaultFailureMemo,
	}
	for _, opt := range opts {
		opt(&o)
	}
	o.concurrency = max(o.concurrency, 1)

	return &Loader{
		cache:    c,
		sem:      semaphore.NewWeighted(int64(o.concurrency)),
		limit:    o.concurrency,
		failures: cache.New[string, error](o.memo),
	}
}

// Request registers path with the cache and decodes it on the calling
// goroutine unless it is already resident, pending or in flight. The ID
// is returned even when decoding fails.
func (l *Loader) Request(path string) (texcache.ID, error) {
	id, err := l.cache.Put(path, nil)
	if err != nil {
		return texcache.InvalidID, err
	}
	if id == texcache.EmptyID || l.cache.IsResident(id) || l.cache.IsPending(id) {
		return id, nil
	}
	// The cache folds keys to NFC; flights and remembered failures must
	// agree with it so equivalent spellings share one decode.
	key := norm.NFC.String(path)
	if err, ok := l.failures.Get(key); ok {
		return id, err
	}

	_, err, shared := l.group.Do(key, func() (any, error) {
		// A concurrent flight may have finished between the checks above
		// and this one starting.
		if l.cache.IsResident(id) || l.cache.IsPending(id) {
			return nil, nil
		}
		err := l.cache.Prepare(id)
		if err != nil && texcache.IsDecodeError(err) {
			l.failures.Set(key, err)
		}
		return nil, err
	})
	if shared {
		texcache.Logger().Debug("loader: shared decode", "path", path)
	}
	return id, err
}

// Enqueue starts decoding path in the background and returns once a
// worker slot is free. It returns the entry ID, or an error if ctx ends
// first or the cache is full. Decode errors are logged and remembered;
// Wait waits for queued work.
func (l *Loader) Enqueue(ctx context.Context, path string) (texcache.ID, error) {
	id, err := l.cache.Put(path, nil)
	if err != nil {
		return texcache.InvalidID, err
	}
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return id, err
	}

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		defer l.sem.Release(1)
		if _, err := l.Request(path); err != nil {
			texcache.Logger().Warn("loader: decode failed", "path", path, "err", err)
		}
	}()
	return id, nil
}

// Wait blocks until all work started by Enqueue has finished.
func (l *Loader) Wait() {
	l.wg.Wait()
}

// Preload decodes paths with bounded parallelism and returns their IDs in
// order. Decode failures do not stop the batch; they are joined into the
// returned error. Any other failure (e.g. texcache.ErrTableFull) or the end
// of ctx cancels the remaining work.
func (l *Loader) Preload(ctx context.Context, paths []string) ([]texcache.ID, error) {
	ids := make([]texcache.ID, len(paths))
	decodeErrs := make([]error, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.limit)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			id, err := l.Request(path)
			ids[i] = id
			if err == nil {
				return nil
			}
			if texcache.IsDecodeError(err) {
				decodeErrs[i] = err
				return nil
			}
			return fmt.Errorf("loader: %s: %w", path, err)
		})
	}
	if err := g.Wait(); err != nil {
		return ids, err
	}
	return ids, errors.Join(decodeErrs...)
}

// Forget clears a remembered failure for path so the next request decodes
// it again.
func (l *Loader) Forget(path string) {
	l.failures.Delete(norm.NFC.String(path))
}

// Failures returns the number of remembered failed paths.
func (l *Loader) Failures() int {
	return l.failures.Len()
}
