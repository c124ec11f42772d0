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

package table_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/classicvalues/fm-go/internal/table"
)

func writeImage(t *testing.T, dir string, tbl table.Table) string {
	t.Helper()
	data, err := yaml.Marshal(&tbl)
	require.NoError(t, err)
	path := filepath.Join(dir, "fm_table.yaml")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestValidate_TwoBadRows(t *testing.T) {
	tbl := table.Table{Entries: []table.Entry{
		{State: table.Enabled, Name: ""},
		{State: table.Disabled, Name: ""},
		{State: table.Enabled, Name: "/ram"},
		{State: table.Unused},
	}}
	result := table.Validate(&tbl, 64)
	assert.Equal(t, 2, result.Bad)
	assert.Equal(t, 1, result.Good)
	assert.Equal(t, 1, result.Unused)
	assert.False(t, result.OK())
	assert.Equal(t, 0, result.FirstBadIndex)
}

func TestManager_LoadValidImage(t *testing.T) {
	dir := t.TempDir()
	tbl := table.Table{Entries: []table.Entry{
		{State: table.Enabled, Name: "/ram"},
		{State: table.Unused},
	}}
	path := writeImage(t, dir, tbl)

	m := table.NewManager(2, 64)
	m.Register()
	result, err := m.Load(path)
	require.NoError(t, err)
	assert.True(t, result.OK())
	assert.True(t, m.Loaded())
}

func TestManager_LoadInvalidImageLeavesPreviousTable(t *testing.T) {
	dir := t.TempDir()
	good := table.Table{Entries: []table.Entry{{State: table.Enabled, Name: "/ram"}}}
	path := writeImage(t, dir, good)

	m := table.NewManager(1, 64)
	m.Register()
	_, err := m.Load(path)
	require.NoError(t, err)

	bad := table.Table{Entries: []table.Entry{{State: table.Enabled, Name: ""}}}
	badPath := writeImage(t, dir, bad)
	_, err = m.Load(badPath)
	require.ErrorIs(t, err, table.ErrValidation)

	entry, err := m.Entry(0)
	require.NoError(t, err)
	assert.Equal(t, "/ram", entry.Name)
}

func TestManager_SetEntryState(t *testing.T) {
	dir := t.TempDir()
	tbl := table.Table{Entries: []table.Entry{
		{State: table.Enabled, Name: "/ram"},
		{State: table.Unused},
	}}
	path := writeImage(t, dir, tbl)

	m := table.NewManager(2, 64)
	m.Register()
	_, err := m.Load(path)
	require.NoError(t, err)

	require.NoError(t, m.SetEntryState(0, table.Disabled))
	entry, _ := m.Entry(0)
	assert.Equal(t, table.Disabled, entry.State)
	assert.True(t, m.Modified())

	require.NoError(t, m.SetEntryState(0, table.Enabled))
	entry, _ = m.Entry(0)
	assert.Equal(t, "/ram", entry.Name, "enable/disable round trip leaves name intact")

	assert.ErrorIs(t, m.SetEntryState(1, table.Enabled), table.ErrEntryUnused)
	assert.ErrorIs(t, m.SetEntryState(99, table.Enabled), table.ErrIndexRange)
}

func TestManager_SetEntryStateRejectsWhenNotLoaded(t *testing.T) {
	m := table.NewManager(2, 64)
	m.Register()
	assert.ErrorIs(t, m.SetEntryState(0, table.Enabled), table.ErrNotLoaded)
}

func TestManager_DumpRoundTrips(t *testing.T) {
	dir := t.TempDir()
	tbl := table.Table{Entries: []table.Entry{{State: table.Enabled, Name: "/ram"}}}
	path := writeImage(t, dir, tbl)

	m := table.NewManager(1, 64)
	m.Register()
	_, err := m.Load(path)
	require.NoError(t, err)

	dumpPath := filepath.Join(dir, "dump.yaml")
	require.NoError(t, m.Dump(dumpPath))

	data, err := os.ReadFile(dumpPath)
	require.NoError(t, err)

	var roundTripped table.Table
	require.NoError(t, yaml.Unmarshal(data, &roundTripped))
	assert.Equal(t, tbl, roundTripped)
}
