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

// Package telemetry holds the service's counters and the packet shapes
// it publishes: housekeeping, open-files, directory-listing, and
// free-space (spec.md §4.6/§4.7).
package telemetry

import (
	"math"
	"sync"

	"github.com/classicvalues/fm-go/internal/workitem"
)

// Counters is the shared counter block both the command processor and
// the worker mutate. Increments saturate at the field's maximum rather
// than wrapping, so a long-running mission doesn't alias a healthy
// count back to a small number.
type Counters struct {
	mu sync.Mutex

	CommandCounter    uint32
	CommandErrCounter uint32

	ChildCmdCounter     uint32
	ChildCmdErrCounter  uint32
	ChildCmdWarnCounter uint32

	ChildCurrentCC  workitem.Opcode
	ChildPreviousCC workitem.Opcode
}

func satIncr32(v *uint32) {
	if *v < math.MaxUint32 {
		*v++
	}
}

// CommandCompleted records that the command processor ran a handler to
// completion for opcode. ok reports whether the handler succeeded.
// RESET_COUNTERS is special-cased per spec.md §4.2: it never increments
// CommandCounter, even on success (its own side effect zeroes the
// counters anyway).
func (c *Counters) CommandCompleted(opcode workitem.Opcode, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ok {
		if opcode != workitem.ResetCounters {
			satIncr32(&c.CommandCounter)
		}
	} else {
		satIncr32(&c.CommandErrCounter)
	}
}

// ChildCompleted records that the worker finished executing item's
// opcode. ok reports success; warn (independent of ok) records a
// non-fatal condition the worker wants visible in housekeeping without
// counting as a hard error. ChildCurrentCC becomes opcode and
// ChildPreviousCC takes the value ChildCurrentCC held before, so both
// name completed items; nothing is recorded when an item starts.
func (c *Counters) ChildCompleted(opcode workitem.Opcode, ok, warn bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ChildPreviousCC = c.ChildCurrentCC
	c.ChildCurrentCC = opcode
	if ok {
		satIncr32(&c.ChildCmdCounter)
	} else {
		satIncr32(&c.ChildCmdErrCounter)
	}
	if warn {
		satIncr32(&c.ChildCmdWarnCounter)
	}
}

// Reset zeroes every counter -- RESET_COUNTERS's entire effect.
func (c *Counters) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.CommandCounter = 0
	c.CommandErrCounter = 0
	c.ChildCmdCounter = 0
	c.ChildCmdErrCounter = 0
	c.ChildCmdWarnCounter = 0
}

// Snapshot is an immutable copy of the counter block, safe to read
// without holding the lock.
type Snapshot struct {
	CommandCounter      uint32
	CommandErrCounter   uint32
	ChildCmdCounter     uint32
	ChildCmdErrCounter  uint32
	ChildCmdWarnCounter uint32
	ChildCurrentCC      workitem.Opcode
	ChildPreviousCC     workitem.Opcode
}

func (c *Counters) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		CommandCounter:      c.CommandCounter,
		CommandErrCounter:   c.CommandErrCounter,
		ChildCmdCounter:     c.ChildCmdCounter,
		ChildCmdErrCounter:  c.ChildCmdErrCounter,
		ChildCmdWarnCounter: c.ChildCmdWarnCounter,
		ChildCurrentCC:      c.ChildCurrentCC,
		ChildPreviousCC:     c.ChildPreviousCC,
	}
}
