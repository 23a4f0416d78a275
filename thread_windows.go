// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build windows

package texcache

import "golang.org/x/sys/windows"

func currentThreadID() ThreadID {
	return ThreadID(windows.GetCurrentThreadId())
}
