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
	"os"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/sys/unix"
)

// Local is the real FS, backed by the host filesystem. It tracks which
// files it has itself opened for read/write so IsOpen/OpenFiles can
// answer the "is this file busy" validators without relying on OS-wide
// file-lock introspection, matching the scope of the original open-file
// table (spec.md §4.2's file-closed/file-not-open validators).
type Local struct {
	taskName string

	mu   sync.Mutex
	open map[string]int // path -> open handle count
}

// NewLocal constructs a Local FS whose OpenFiles entries are attributed
// to taskName.
func NewLocal(taskName string) *Local {
	return &Local{taskName: taskName, open: make(map[string]int)}
}

func (l *Local) track(path string, delta int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := l.open[path] + delta
	if n <= 0 {
		delete(l.open, path)
		return
	}
	l.open[path] = n
}

func (l *Local) Stat(path string) (Stat, error) {
	fi, err := os.Stat(path)
	if os.IsNotExist(err) {
		return Stat{Kind: KindNone}, nil
	}
	if err != nil {
		return Stat{}, err
	}
	kind := KindFile
	if fi.IsDir() {
		kind = KindDirectory
	}
	return Stat{
		Kind:  kind,
		Size:  fi.Size(),
		Mtime: fi.ModTime(),
		Mode:  uint32(fi.Mode().Perm()),
	}, nil
}

func (l *Local) IsOpen(path string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.open[path] > 0
}

func (l *Local) OpenFiles() []OpenFile {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]OpenFile, 0, len(l.open))
	for path := range l.open {
		out = append(out, OpenFile{TaskName: l.taskName, Filename: path})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Filename < out[j].Filename })
	return out
}

func (l *Local) Rename(oldPath, newPath string) error { return os.Rename(oldPath, newPath) }

func (l *Local) Remove(path string) error { return os.Remove(path) }

func (l *Local) Mkdir(path string) error { return os.Mkdir(path, 0755) }

func (l *Local) RemoveDir(path string) error { return os.Remove(path) }

func (l *Local) Chmod(path string, mode uint32) error { return os.Chmod(path, os.FileMode(mode)) }

// StatVolume reports free space via statfs, converted to 512-byte
// blocks to match the original volume-table convention (spec.md §4.3).
func (l *Local) StatVolume(path string) (VolumeStat, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return VolumeStat{}, err
	}
	bytesFree := uint64(st.Bfree) * uint64(st.Bsize)
	return VolumeStat{BlocksFree: bytesFree / 512}, nil
}

type trackedReader struct {
	io.ReadCloser
	l    *Local
	path string
}

func (t *trackedReader) Close() error {
	t.l.track(t.path, -1)
	return t.ReadCloser.Close()
}

func (l *Local) OpenReader(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	l.track(path, 1)
	return &trackedReader{ReadCloser: f, l: l, path: path}, nil
}

type trackedWriter struct {
	io.WriteCloser
	l    *Local
	path string
}

func (t *trackedWriter) Close() error {
	t.l.track(t.path, -1)
	return t.WriteCloser.Close()
}

func (l *Local) CreateWriter(path string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	l.track(path, 1)
	return &trackedWriter{WriteCloser: f, l: l, path: path}, nil
}

type trackedReadWriteSeeker struct {
	*os.File
	l    *Local
	path string
}

func (t *trackedReadWriteSeeker) Close() error {
	t.l.track(t.path, -1)
	return t.File.Close()
}

func (l *Local) OpenReadWriter(path string) (ReadWriteSeekCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	l.track(path, 1)
	return &trackedReadWriteSeeker{File: f, l: l, path: path}, nil
}

type localDirCursor struct {
	names []string
	i     int
}

func (c *localDirCursor) Next() (bool, error) {
	if c.i >= len(c.names) {
		return false, nil
	}
	c.i++
	return true, nil
}

func (c *localDirCursor) Entry() string {
	if c.i == 0 || c.i > len(c.names) {
		return ""
	}
	return c.names[c.i-1]
}

func (c *localDirCursor) Close() error { return nil }

func (l *Local) ListDir(dir string) (DirCursor, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, filepath.Base(e.Name()))
	}
	sort.Strings(names)
	return &localDirCursor{names: names}, nil
}
