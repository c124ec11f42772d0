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

// Package table manages the volume free-space configuration table: a
// fixed-size array of named volume slots, each enabled, disabled, or
// unused, loaded from a yaml image and validated on every load and
// every in-place mutation (spec.md §4.3).
package table

import "fmt"

// EntryState is a table slot's state.
type EntryState int

const (
	Unused EntryState = iota
	Enabled
	Disabled
)

func (s EntryState) String() string {
	switch s {
	case Unused:
		return "UNUSED"
	case Enabled:
		return "ENABLED"
	case Disabled:
		return "DISABLED"
	default:
		return "INVALID"
	}
}

// Entry is one volume slot.
type Entry struct {
	State EntryState `yaml:"state"`
	Name  string     `yaml:"name"`
}

// Table is the fixed-size volume free-space table.
type Table struct {
	Entries []Entry `yaml:"entries"`
}

// ValidationResult tallies a validation pass, mirroring the original's
// "good = N, bad = N, unused = N" summary event.
type ValidationResult struct {
	Good, Bad, Unused int
	FirstBadIndex     int
	FirstBadReason    string
}

// OK reports whether the table passed validation (no bad entries).
func (r ValidationResult) OK() bool { return r.Bad == 0 }

// Validate checks every entry: ENABLED/DISABLED entries need a non-
// empty name no longer than maxNameLen; UNUSED entries are counted but
// otherwise ignored; any other state is an error. Only the first bad
// entry is reported in detail, matching the original's "send event
// describing first error only" behavior -- the full counts still cover
// every entry.
func Validate(t *Table, maxNameLen int) ValidationResult {
	var r ValidationResult
	for i, e := range t.Entries {
		switch e.State {
		case Enabled, Disabled:
			switch {
			case len(e.Name) == 0:
				r.Bad++
				if r.Bad == 1 {
					r.FirstBadIndex = i
					r.FirstBadReason = "empty name string"
				}
			case len(e.Name) > maxNameLen:
				r.Bad++
				if r.Bad == 1 {
					r.FirstBadIndex = i
					r.FirstBadReason = "name too long"
				}
			default:
				r.Good++
			}
		case Unused:
			r.Unused++
		default:
			r.Bad++
			if r.Bad == 1 {
				r.FirstBadIndex = i
				r.FirstBadReason = fmt.Sprintf("invalid state = %d", int(e.State))
			}
		}
	}
	return r
}
