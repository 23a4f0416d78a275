// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build linux

package texcache

import "golang.org/x/sys/unix"

func currentThreadID() ThreadID {
	return ThreadID(unix.Gettid()) //nolint:gosec // tids are positive
}
