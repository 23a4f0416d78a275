// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package cache provides a small generic LRU cache.
//
// The loader uses it to remember recent decode failures so that a widget
// asking for a missing image every frame does not hit the file system
// every frame.
//
//	failures := cache.New[string, error](256)
//	failures.Set(path, err)
//	if err, ok := failures.Get(path); ok { ... }
//
// # Thread Safety
//
// Cache is safe for concurrent use and must not be copied after creation
// (it contains a mutex).
package cache
