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

package fsops

import (
	"io"
	"time"
)

// EntryKind classifies what a path currently names.
type EntryKind int

const (
	KindNone EntryKind = iota
	KindFile
	KindDirectory
)

// Stat is the subset of file metadata the service cares about.
type Stat struct {
	Kind  EntryKind
	Size  int64
	Mtime time.Time
	Mode  uint32
}

// DirEntry is a single directory listing row.
type DirEntry struct {
	Name string
	// Stat is populated only when the caller asked for size/time info;
	// a zero value means "not queried".
	Stat Stat
}

// VolumeStat reports free space for one mounted volume.
type VolumeStat struct {
	BlocksFree uint64
}

// OpenFile describes one currently-open file handle, for the
// GET_OPEN_FILES telemetry packet.
type OpenFile struct {
	TaskName string
	Filename string
}

// DirCursor hands out directory entries one at a time so a caller can
// bound how many it processes per scheduler wake (spec.md §4.5). Both
// Local and Fake read the directory's full name list when ListDir is
// called; the cursor then walks that list.
type DirCursor interface {
	// Next advances to the next entry and reports whether one was
	// available. It must be called before the first Entry().
	Next() (bool, error)
	Entry() string
	Close() error
}

// FS is the OS shim every validator, command handler, and worker
// executor depends on instead of touching the filesystem directly. A
// real implementation wraps the host OS; tests use an in-memory fake.
type FS interface {
	// Stat reports what kind of entry (if any) exists at path.
	Stat(path string) (Stat, error)

	// IsOpen reports whether the named file is currently held open by
	// any task known to the service.
	IsOpen(path string) bool

	// OpenFiles enumerates every currently-open file handle.
	OpenFiles() []OpenFile

	// Rename renames/moves oldPath to newPath.
	Rename(oldPath, newPath string) error

	// Remove deletes a single file.
	Remove(path string) error

	// Mkdir creates a single directory (must not already exist).
	Mkdir(path string) error

	// RemoveDir deletes an empty directory.
	RemoveDir(path string) error

	// ListDir returns a streaming cursor over dir's entries, in a stable
	// order, starting from the first entry.
	ListDir(dir string) (DirCursor, error)

	// Chmod sets path's permission bits.
	Chmod(path string, mode uint32) error

	// StatVolume reports free space for the volume containing (or named
	// by) path.
	StatVolume(path string) (VolumeStat, error)

	// OpenReader opens path for streamed reading.
	OpenReader(path string) (io.ReadCloser, error)

	// CreateWriter creates (truncating if present) path for streamed
	// writing.
	CreateWriter(path string) (io.WriteCloser, error)

	// OpenReadWriter creates (truncating if present) path for streamed
	// writing with the ability to seek back and patch a header, used by
	// the directory-list-to-file executor.
	OpenReadWriter(path string) (ReadWriteSeekCloser, error)
}

// ReadWriteSeekCloser is the minimal handle the directory-to-file
// executor needs: stream writes forward, then seek back to patch the
// header's total count.
type ReadWriteSeekCloser interface {
	io.Writer
	io.Seeker
	io.Closer
}
