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

// Package workitem defines the tagged-union work items the command
// processor enqueues and the child worker dequeues: one concrete struct
// per opcode, each carrying exactly the fields its executor needs,
// instead of a single record with unused fields (spec.md's REDESIGN
// FLAGS §"Opcode dispatch").
package workitem

// Opcode is the function-code discriminator carried in the command
// message header. It lives here, rather than in package command, so
// that both command and queue/workitem can depend on it without a
// cycle: command re-exports it as command.Opcode.
type Opcode uint8

const (
	Noop Opcode = iota
	ResetCounters
	Copy
	Move
	Rename
	Delete
	DeleteAll
	Decompress
	Concat
	GetFileInfo
	GetOpenFiles
	CreateDir
	DeleteDir
	GetDirFile
	GetDirPkt
	GetFreeSpace
	SetTableState
	SetFilePerm
)

func (o Opcode) String() string {
	switch o {
	case Noop:
		return "NOOP"
	case ResetCounters:
		return "RESET_COUNTERS"
	case Copy:
		return "COPY"
	case Move:
		return "MOVE"
	case Rename:
		return "RENAME"
	case Delete:
		return "DELETE"
	case DeleteAll:
		return "DELETE_ALL"
	case Decompress:
		return "DECOMPRESS"
	case Concat:
		return "CONCAT"
	case GetFileInfo:
		return "GET_FILE_INFO"
	case GetOpenFiles:
		return "GET_OPEN_FILES"
	case CreateDir:
		return "CREATE_DIR"
	case DeleteDir:
		return "DELETE_DIR"
	case GetDirFile:
		return "GET_DIR_FILE"
	case GetDirPkt:
		return "GET_DIR_PKT"
	case GetFreeSpace:
		return "GET_FREE_SPACE"
	case SetTableState:
		return "SET_TABLE_STATE"
	case SetFilePerm:
		return "SET_FILE_PERM"
	default:
		return "UNKNOWN"
	}
}
