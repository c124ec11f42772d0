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

package validate_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classicvalues/fm-go/internal/fsops"
	"github.com/classicvalues/fm-go/internal/validate"
)

func TestNameValid_File(t *testing.T) {
	fs := fsops.NewFake("CMD")
	fs.PutFile("/ram/a.txt", []byte("ABCDEFGH"))

	state, st, err := validate.NameValid(fs, "/ram/a.txt", 64)
	require.NoError(t, err)
	assert.Equal(t, validate.IsFile, state)
	assert.Equal(t, int64(8), st.Size)
}

func TestNameValid_Directory(t *testing.T) {
	fs := fsops.NewFake("CMD")
	fs.PutDir("/ram/dir")

	state, _, err := validate.NameValid(fs, "/ram/dir", 64)
	require.NoError(t, err)
	assert.Equal(t, validate.IsDirectory, state)
}

// A well-formed name that doesn't resolve to anything is NotInUse, not
// Invalid: name-valid is a string check, not an existence check.
func TestNameValid_MissingIsNotInUse(t *testing.T) {
	fs := fsops.NewFake("CMD")

	state, _, err := validate.NameValid(fs, "/ram/missing", 64)
	require.NoError(t, err)
	assert.Equal(t, validate.NotInUse, state)
}

func TestNameValid_EmptyIsInvalid(t *testing.T) {
	fs := fsops.NewFake("CMD")

	state, _, err := validate.NameValid(fs, "", 64)
	require.NoError(t, err)
	assert.Equal(t, validate.Invalid, state)
}

func TestNameValid_TooLongIsInvalid(t *testing.T) {
	fs := fsops.NewFake("CMD")

	state, _, err := validate.NameValid(fs, "/ram/"+strings.Repeat("x", 64), 64)
	require.NoError(t, err)
	assert.Equal(t, validate.Invalid, state)
}

func TestFileClosed(t *testing.T) {
	fs := fsops.NewFake("CMD")
	fs.PutFile("/ram/a.txt", []byte("x"))

	closed, err := validate.FileClosed(fs, "/ram/a.txt")
	require.NoError(t, err)
	assert.True(t, closed)

	r, err := fs.OpenReader("/ram/a.txt")
	require.NoError(t, err)
	defer r.Close()

	closed, err = validate.FileClosed(fs, "/ram/a.txt")
	require.NoError(t, err)
	assert.False(t, closed)
}

func TestFileNotOpen(t *testing.T) {
	fs := fsops.NewFake("CMD")
	assert.True(t, validate.FileNotOpen(fs, "/ram/missing"))

	w, err := fs.CreateWriter("/ram/b.txt")
	require.NoError(t, err)
	assert.False(t, validate.FileNotOpen(fs, "/ram/b.txt"))
	require.NoError(t, w.Close())
	assert.True(t, validate.FileNotOpen(fs, "/ram/b.txt"))
}

func TestDirExistsAndNoExist(t *testing.T) {
	fs := fsops.NewFake("CMD")
	fs.PutDir("/ram/dir")

	ok, err := validate.DirExists(fs, "/ram/dir")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = validate.DirNoExist(fs, "/ram/other")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestOverwriteValid(t *testing.T) {
	assert.True(t, validate.OverwriteValid(0))
	assert.True(t, validate.OverwriteValid(1))
	assert.False(t, validate.OverwriteValid(2))
}

func TestPacketLength(t *testing.T) {
	assert.True(t, validate.PacketLength(12, 12))
	assert.False(t, validate.PacketLength(11, 12))
}
