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

package telemetry

import (
	"time"

	"github.com/classicvalues/fm-go/internal/workitem"
)

// Housekeeping mirrors the original HousekeepingPkt: the two command
// counters, the open-file count (a cheap probe, not a full listing),
// the three child-task counters, the queue depth, and the opcodes of
// the two most recently completed child work items (see
// Counters.ChildCompleted).
type Housekeeping struct {
	CommandCounter    uint32
	CommandErrCounter uint32
	NumOpenFiles      uint16

	ChildCmdCounter     uint32
	ChildCmdErrCounter  uint32
	ChildCmdWarnCounter uint32
	ChildQueueCount     uint16

	ChildCurrentCC  workitem.Opcode
	ChildPreviousCC workitem.Opcode

	Timestamp time.Time
}

// OpenFileEntry is one row of the GET_OPEN_FILES telemetry packet.
type OpenFileEntry struct {
	TaskName string
	Filename string
}

// OpenFiles is the synchronous GET_OPEN_FILES reply.
type OpenFiles struct {
	Files     []OpenFileEntry
	Timestamp time.Time
}

// DirListEntry is one row of a directory-listing packet or file.
type DirListEntry struct {
	Name  string
	Size  int64
	Mtime time.Time
	Mode  uint32
}

// DirList is one page of a GET_DIR_PKT reply: a windowed slice of a
// directory's entries. Offset is the offset the command requested; every
// page of one reply carries the same Offset, and only the first page's
// entries start at it.
type DirList struct {
	Directory    string
	TotalEntries int
	Offset       int
	Entries      []DirListEntry
	Timestamp    time.Time
}

// VolumeFreeSpace is one row of the GET_FREE_SPACE reply.
type VolumeFreeSpace struct {
	Name       string
	BlocksFree uint64
	StatError  bool
}

// FreeSpace is the GET_FREE_SPACE synchronous reply.
type FreeSpace struct {
	Volumes   []VolumeFreeSpace
	Timestamp time.Time
}
