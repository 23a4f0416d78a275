// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !linux && !windows

package texcache

import (
	"bytes"
	"runtime"
	"strconv"
)

// currentThreadID falls back to the goroutine ID where x/sys exposes no
// thread ID call. The stack header reads "goroutine 123 [running]:".
func currentThreadID() ThreadID {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	fields := bytes.Fields(bytes.TrimPrefix(buf[:n], []byte("goroutine ")))
	if len(fields) == 0 {
		return 0
	}
	id, err := strconv.ParseUint(string(fields[0]), 10, 64)
	if err != nil {
		return 0
	}
	return ThreadID(id)
}
