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
	"bytes"
	"fmt"
	"io"
	"sort"
	"sync"
)

// fakeEntry is one node in the in-memory tree: either a directory (Dir
// true, Children populated) or a file (raw bytes in Data).
type fakeEntry struct {
	Dir      bool
	Data     []byte
	Stat     Stat
	Children map[string]bool // immediate child paths, dirs only
}

// Fake is an in-memory FS for tests: no real I/O, deterministic,
// inspectable. It supports the same open-file bookkeeping Local does so
// validators behave identically under test.
type Fake struct {
	mu      sync.Mutex
	entries map[string]*fakeEntry
	open    map[string]int
	volumes map[string]VolumeStat
	taskName string
}

// NewFake constructs an empty in-memory filesystem.
func NewFake(taskName string) *Fake {
	f := &Fake{
		entries:  make(map[string]*fakeEntry),
		open:     make(map[string]int),
		volumes:  make(map[string]VolumeStat),
		taskName: taskName,
	}
	f.entries["/"] = &fakeEntry{Dir: true, Children: make(map[string]bool)}
	return f
}

// PutFile seeds a file at path with the given content, for test setup.
func (f *Fake) PutFile(path string, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[path] = &fakeEntry{Data: append([]byte(nil), data...)}
}

// PutDir seeds an (empty, unless files are added under it) directory.
func (f *Fake) PutDir(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[path] = &fakeEntry{Dir: true, Children: make(map[string]bool)}
}

// SetVolumeFreeBlocks seeds the free-space answer StatVolume returns
// for exactly path; any other path reports zero free blocks. Real
// statfs semantics aren't modeled in the fake.
func (f *Fake) SetVolumeFreeBlocks(path string, blocks uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.volumes[path] = VolumeStat{BlocksFree: blocks}
}

func (f *Fake) Stat(path string) (Stat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[path]
	if !ok {
		return Stat{Kind: KindNone}, nil
	}
	if e.Dir {
		return Stat{Kind: KindDirectory}, nil
	}
	st := e.Stat
	st.Kind = KindFile
	st.Size = int64(len(e.Data))
	return st, nil
}

func (f *Fake) IsOpen(path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.open[path] > 0
}

func (f *Fake) OpenFiles() []OpenFile {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]OpenFile, 0, len(f.open))
	for path, n := range f.open {
		if n > 0 {
			out = append(out, OpenFile{TaskName: f.taskName, Filename: path})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Filename < out[j].Filename })
	return out
}

func (f *Fake) Rename(oldPath, newPath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[oldPath]
	if !ok {
		return fmt.Errorf("fsops: %s does not exist", oldPath)
	}
	delete(f.entries, oldPath)
	f.entries[newPath] = e
	return nil
}

func (f *Fake) Remove(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.entries[path]; !ok {
		return fmt.Errorf("fsops: %s does not exist", path)
	}
	delete(f.entries, path)
	return nil
}

func (f *Fake) Mkdir(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.entries[path]; ok {
		return fmt.Errorf("fsops: %s already exists", path)
	}
	f.entries[path] = &fakeEntry{Dir: true, Children: make(map[string]bool)}
	return nil
}

func (f *Fake) RemoveDir(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[path]
	if !ok || !e.Dir {
		return fmt.Errorf("fsops: %s is not a directory", path)
	}
	delete(f.entries, path)
	return nil
}

func (f *Fake) Chmod(path string, mode uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[path]
	if !ok {
		return fmt.Errorf("fsops: %s does not exist", path)
	}
	e.Stat.Mode = mode
	return nil
}

func (f *Fake) StatVolume(path string) (VolumeStat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if vs, ok := f.volumes[path]; ok {
		return vs, nil
	}
	return VolumeStat{}, nil
}

type fakeReader struct {
	*bytes.Reader
	f    *Fake
	path string
}

func (r *fakeReader) Close() error {
	r.f.mu.Lock()
	r.f.open[r.path]--
	r.f.mu.Unlock()
	return nil
}

func (f *Fake) OpenReader(path string) (io.ReadCloser, error) {
	f.mu.Lock()
	e, ok := f.entries[path]
	if !ok || e.Dir {
		f.mu.Unlock()
		return nil, fmt.Errorf("fsops: %s does not exist", path)
	}
	f.open[path]++
	f.mu.Unlock()
	return &fakeReader{Reader: bytes.NewReader(e.Data), f: f, path: path}, nil
}

type fakeWriter struct {
	f    *Fake
	path string
	buf  bytes.Buffer
}

func (w *fakeWriter) Write(p []byte) (int, error) { return w.buf.Write(p) }

func (w *fakeWriter) Close() error {
	w.f.mu.Lock()
	w.f.entries[w.path] = &fakeEntry{Data: append([]byte(nil), w.buf.Bytes()...)}
	w.f.open[w.path]--
	w.f.mu.Unlock()
	return nil
}

func (f *Fake) CreateWriter(path string) (io.WriteCloser, error) {
	f.mu.Lock()
	f.open[path]++
	f.mu.Unlock()
	return &fakeWriter{f: f, path: path}, nil
}

type fakeReadWriteSeeker struct {
	f    *Fake
	path string
	buf  *bytes.Buffer
	pos  int64
}

func (rw *fakeReadWriteSeeker) Write(p []byte) (int, error) {
	b := rw.buf.Bytes()
	if rw.pos < int64(len(b)) {
		n := copy(b[rw.pos:], p)
		rw.pos += int64(n)
		if n < len(p) {
			rw.buf.Write(p[n:])
			rw.pos += int64(len(p) - n)
		}
		return len(p), nil
	}
	n, err := rw.buf.Write(p)
	rw.pos += int64(n)
	return n, err
}

func (rw *fakeReadWriteSeeker) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		rw.pos = offset
	case io.SeekCurrent:
		rw.pos += offset
	case io.SeekEnd:
		rw.pos = int64(rw.buf.Len()) + offset
	default:
		return 0, fmt.Errorf("fsops: invalid whence %d", whence)
	}
	return rw.pos, nil
}

func (rw *fakeReadWriteSeeker) Close() error {
	rw.f.mu.Lock()
	rw.f.entries[rw.path] = &fakeEntry{Data: append([]byte(nil), rw.buf.Bytes()...)}
	rw.f.open[rw.path]--
	rw.f.mu.Unlock()
	return nil
}

func (f *Fake) OpenReadWriter(path string) (ReadWriteSeekCloser, error) {
	f.mu.Lock()
	f.open[path]++
	f.mu.Unlock()
	return &fakeReadWriteSeeker{f: f, path: path, buf: &bytes.Buffer{}}, nil
}

type fakeDirCursor struct {
	names []string
	i     int
}

func (c *fakeDirCursor) Next() (bool, error) {
	if c.i >= len(c.names) {
		return false, nil
	}
	c.i++
	return true, nil
}

func (c *fakeDirCursor) Entry() string {
	if c.i == 0 || c.i > len(c.names) {
		return ""
	}
	return c.names[c.i-1]
}

func (c *fakeDirCursor) Close() error { return nil }

func (f *Fake) ListDir(dir string) (DirCursor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[dir]
	if !ok || !e.Dir {
		return nil, fmt.Errorf("fsops: %s is not a directory", dir)
	}
	names := make([]string, 0, len(e.Children))
	for name := range e.Children {
		names = append(names, name)
	}
	sort.Strings(names)
	return &fakeDirCursor{names: names}, nil
}

// Link records path as an immediate child of dir, so ListDir(dir) will
// surface it. Test setup must call this explicitly; the fake does not
// infer directory membership from path strings.
func (f *Fake) Link(dir, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e, ok := f.entries[dir]; ok && e.Dir {
		e.Children[name] = true
	}
}
