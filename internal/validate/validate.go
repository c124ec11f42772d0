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

// Package validate holds the pure predicates every command handler
// composes, in a fixed order, before doing any work (spec.md §4.2).
// Each predicate either answers a yes/no question about the filesystem
// or, for NameValid, also captures the stat data a caller needs without
// a second round trip.
package validate

import "github.com/classicvalues/fm-go/internal/fsops"

// NameState classifies what a path currently names, for handlers (like
// GET_FILE_INFO and SET_FILE_PERM) that accept either a file or a
// directory. Invalid means the string itself is malformed -- it is not
// a statement about whether anything exists at that path.
type NameState int

const (
	Invalid NameState = iota
	IsFile
	IsDirectory
	NotInUse
)

// NameValid classifies path as a string first -- well-formed means
// non-empty and at most maxLen-1 bytes (room for the NUL terminator) --
// and only then asks the filesystem what, if anything, it names. A
// well-formed path that doesn't resolve to anything is NotInUse, not
// Invalid: name-valid is a string check, not an existence check. On
// FILE/DIRECTORY outcomes the stat data is returned so the caller can
// cache size/mtime/mode without a second filesystem round trip
// (GET_FILE_INFO's contract).
func NameValid(fs fsops.FS, path string, maxLen int) (NameState, fsops.Stat, error) {
	if len(path) < 1 || len(path) > maxLen-1 {
		return Invalid, fsops.Stat{}, nil
	}
	st, err := fs.Stat(path)
	if err != nil {
		return Invalid, fsops.Stat{}, err
	}
	switch st.Kind {
	case fsops.KindFile:
		return IsFile, st, nil
	case fsops.KindDirectory:
		return IsDirectory, st, nil
	default:
		return NotInUse, fsops.Stat{}, nil
	}
}

// FileExists reports whether path names an existing file.
func FileExists(fs fsops.FS, path string) (bool, error) {
	st, err := fs.Stat(path)
	if err != nil {
		return false, err
	}
	return st.Kind == fsops.KindFile, nil
}

// FileNoExist reports whether path does not name anything at all.
func FileNoExist(fs fsops.FS, path string) (bool, error) {
	st, err := fs.Stat(path)
	if err != nil {
		return false, err
	}
	return st.Kind == fsops.KindNone, nil
}

// FileClosed reports whether path names an existing file that is not
// currently open.
func FileClosed(fs fsops.FS, path string) (bool, error) {
	exists, err := FileExists(fs, path)
	if err != nil || !exists {
		return false, err
	}
	return !fs.IsOpen(path), nil
}

// FileNotOpen reports whether path is not currently open, regardless of
// whether it exists yet -- used where a command is allowed to overwrite
// or create path as long as nothing else has it open.
func FileNotOpen(fs fsops.FS, path string) bool {
	return !fs.IsOpen(path)
}

// DirExists reports whether path names an existing directory.
func DirExists(fs fsops.FS, path string) (bool, error) {
	st, err := fs.Stat(path)
	if err != nil {
		return false, err
	}
	return st.Kind == fsops.KindDirectory, nil
}

// DirNoExist reports whether path does not name anything at all.
func DirNoExist(fs fsops.FS, path string) (bool, error) {
	st, err := fs.Stat(path)
	if err != nil {
		return false, err
	}
	return st.Kind == fsops.KindNone, nil
}

// OverwriteValid reports whether an overwrite flag carries one of its
// two legal values (0 or 1).
func OverwriteValid(v uint16) bool {
	return v == 0 || v == 1
}

// PacketLength reports whether got matches want -- the first check
// every command handler runs, ahead of every other validator.
func PacketLength(got, want int) bool {
	return got == want
}
