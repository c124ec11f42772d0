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

package table

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/google/renameio/v2"
	"gopkg.in/yaml.v3"
)

// Sentinel errors for SET_TABLE_STATE's validation chain.
var (
	ErrNotLoaded     = errors.New("table: not loaded")
	ErrIndexRange    = errors.New("table: index out of range")
	ErrBadState      = errors.New("table: requested state is not ENABLED or DISABLED")
	ErrEntryUnused   = errors.New("table: entry is currently unused")
	ErrValidation    = errors.New("table: image failed validation")
)

// Manager owns the table's lifecycle: register (construct an empty
// table of the configured size), load (read + validate an image file),
// release/acquire (set and clear a released flag, the counterpart of the
// original's CFE_TBL pointer handoff), and dump (atomically persist the
// current image). Load, Entry, Entries, SetEntryState and Dump do not
// consult the released flag; access is serialized only by the mutex.
type Manager struct {
	mu          sync.Mutex
	maxNameLen  int
	entryCount  int
	table       Table
	loaded      bool
	released    bool
	modified    bool
	lastResult  ValidationResult
}

// NewManager constructs an unloaded Manager sized for entryCount slots,
// each with at most maxNameLen bytes of volume name.
func NewManager(entryCount, maxNameLen int) *Manager {
	return &Manager{entryCount: entryCount, maxNameLen: maxNameLen, released: true}
}

// Register initializes the table to entryCount UNUSED slots. This must
// succeed before any Load call.
func (m *Manager) Register() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.table = Table{Entries: make([]Entry, m.entryCount)}
	m.loaded = false
}

// Load reads an image file, validates it, and -- only if valid --
// activates it as the current table. A failed validation leaves any
// previously-loaded table untouched, matching CFE_TBL_Load's
// reject-on-validate-failure behavior.
func (m *Manager) Load(path string) (ValidationResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ValidationResult{}, fmt.Errorf("table: reading image %s: %w", path, err)
	}

	var candidate Table
	if err := yaml.Unmarshal(data, &candidate); err != nil {
		return ValidationResult{}, fmt.Errorf("table: parsing image %s: %w", path, err)
	}
	if len(candidate.Entries) != m.entryCount {
		return ValidationResult{}, fmt.Errorf("table: image has %d entries, want %d", len(candidate.Entries), m.entryCount)
	}

	result := Validate(&candidate, m.maxNameLen)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastResult = result
	if !result.OK() {
		return result, ErrValidation
	}
	m.table = candidate
	m.loaded = true
	return result, nil
}

// Dump atomically persists the current table image to path.
func (m *Manager) Dump(path string) error {
	m.mu.Lock()
	data, err := yaml.Marshal(&m.table)
	m.mu.Unlock()
	if err != nil {
		return fmt.Errorf("table: marshaling image: %w", err)
	}
	return renameio.WriteFile(path, data, 0644)
}

// Release sets the released flag, the counterpart of the original
// dropping its CFE_TBL pointer before letting the table services
// framework manage an in-progress update. It does not block readers:
// Entry and Entries still return the table while it is released.
func (m *Manager) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.released = true
}

// Acquire reacquires access to the table; it returns false if the table
// was never successfully loaded.
func (m *Manager) Acquire() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.released = false
	return m.loaded
}

// Loaded reports whether a table image has ever been successfully
// loaded.
func (m *Manager) Loaded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loaded
}

// EntryCount returns the table's fixed slot count.
func (m *Manager) EntryCount() int {
	return m.entryCount
}

// Entry returns a copy of the entry at index.
func (m *Manager) Entry(index int) (Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if index < 0 || index >= len(m.table.Entries) {
		return Entry{}, ErrIndexRange
	}
	return m.table.Entries[index], nil
}

// Entries returns a copy of every entry, for GET_FREE_SPACE's iteration
// over ENABLED rows.
func (m *Manager) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Entry, len(m.table.Entries))
	copy(out, m.table.Entries)
	return out
}

// SetEntryState implements SET_TABLE_STATE's validation chain: the
// table must be loaded, index must be in range, newState must be
// ENABLED or DISABLED, and the targeted entry must not currently be
// UNUSED.
func (m *Manager) SetEntryState(index int, newState EntryState) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.loaded {
		return ErrNotLoaded
	}
	if index < 0 || index >= len(m.table.Entries) {
		return ErrIndexRange
	}
	if newState != Enabled && newState != Disabled {
		return ErrBadState
	}
	if m.table.Entries[index].State == Unused {
		return ErrEntryUnused
	}

	m.table.Entries[index].State = newState
	m.modified = true
	return nil
}

// Modified reports (and clears) whether the table has been mutated in
// place since the last check, the equivalent of CFE_TBL_Modified.
func (m *Manager) Modified() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	mod := m.modified
	m.modified = false
	return mod
}
