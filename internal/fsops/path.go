// Copyright 2026 The fm-go Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package fsops is the OS shim: a thin, mockable trait over the file,
// directory, and volume primitives spec.md §1 treats as an external
// collaborator (open, stat, rename, remove, read-dir, stat-volume,
// chmod). Decompression is not part of this shim; the worker does it
// over OpenReader/CreateWriter.
package fsops

import "fmt"

// Path is a fixed-capacity, always-NUL-terminated path buffer -- the Go
// replacement for the C path buffer described in spec.md §3/§9. The
// single construction point below is the only place truncation and
// termination happen; every other call site works with an already-valid
// Path.
type Path struct {
	buf []byte
	n   int // length not counting the terminator
}

// NewPath builds a Path from s, truncating to max-1 bytes and always
// terminating, per spec.md §3's path-string invariant.
func NewPath(s string, max int) (Path, error) {
	if max < 2 {
		return Path{}, fmt.Errorf("fsops: path-max %d too small to hold any name", max)
	}
	b := []byte(s)
	n := len(b)
	if n > max-1 {
		n = max - 1
	}
	buf := make([]byte, max)
	copy(buf, b[:n])
	// buf[n:] is already zero-valued, which supplies the terminator.
	return Path{buf: buf, n: n}, nil
}

// String returns the path's content up to (not including) the
// terminator.
func (p Path) String() string {
	if p.buf == nil {
		return ""
	}
	return string(p.buf[:p.n])
}

// Len returns the length of the path content, excluding the terminator.
func (p Path) Len() int { return p.n }

// Empty reports whether the path carries no name at all.
func (p Path) Empty() bool { return p.n == 0 }

// Terminated reports whether the buffer's final byte is the NUL
// terminator -- the testable invariant from spec.md §8.
func (p Path) Terminated() bool {
	return p.buf == nil || p.buf[len(p.buf)-1] == 0
}
