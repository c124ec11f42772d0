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

package workitem

import "time"

// Item is the common handle the worker's dispatch loop switches on. Each
// concrete type below carries only the fields its own executor needs.
type Item interface {
	Opcode() Opcode
}

// CopyItem backs the COPY opcode.
type CopyItem struct {
	Source, Target string
	Overwrite      bool
}

func (CopyItem) Opcode() Opcode { return Copy }

// MoveItem backs the MOVE opcode. It is a distinct type from CopyItem
// even though the fields are identical, because COPY and MOVE are
// executed differently (copy-then-optionally-keep vs rename).
type MoveItem struct {
	Source, Target string
	Overwrite      bool
}

func (MoveItem) Opcode() Opcode { return Move }

// RenameItem backs the RENAME opcode.
type RenameItem struct {
	Source, Target string
}

func (RenameItem) Opcode() Opcode { return Rename }

// DeleteItem backs the DELETE opcode. FcnCode is copied verbatim from
// the inbound packet's function code rather than hardcoded to Delete,
// preserving the original's apparent internal-delete code path (see
// DESIGN.md's note on this open question).
type DeleteItem struct {
	Target  string
	FcnCode Opcode
}

func (d DeleteItem) Opcode() Opcode { return d.FcnCode }

// DeleteAllItem backs the DELETE_ALL opcode. DirectoryWithSep is the
// directory path with the platform separator appended, precomputed once
// at enqueue time so the worker does not need to reason about it.
type DeleteAllItem struct {
	Directory        string
	DirectoryWithSep string
}

func (DeleteAllItem) Opcode() Opcode { return DeleteAll }

// DecompressItem backs the DECOMPRESS opcode.
type DecompressItem struct {
	Source, Target string
}

func (DecompressItem) Opcode() Opcode { return Decompress }

// ConcatItem backs the CONCAT opcode.
type ConcatItem struct {
	Source1, Source2, Target string
}

func (ConcatItem) Opcode() Opcode { return Concat }

// GetFileInfoItem backs the GET_FILE_INFO opcode. Size/Mtime/Mode were
// captured synchronously by the name-valid validator at command time;
// the worker only has to format and publish them.
type GetFileInfoItem struct {
	Filename string
	Size     int64
	Mtime    time.Time
	Mode     uint32
	CRCType  uint16
}

func (GetFileInfoItem) Opcode() Opcode { return GetFileInfo }

// CreateDirItem backs the CREATE_DIR opcode.
type CreateDirItem struct {
	Directory string
}

func (CreateDirItem) Opcode() Opcode { return CreateDir }

// DeleteDirItem backs the DELETE_DIR opcode.
type DeleteDirItem struct {
	Directory string
}

func (DeleteDirItem) Opcode() Opcode { return DeleteDir }

// GetDirFileItem backs the GET_DIR_FILE opcode: list a directory's
// contents into a file.
type GetDirFileItem struct {
	Directory        string
	DirectoryWithSep string
	Filename         string
	GetSizeTimeMode  bool
}

func (GetDirFileItem) Opcode() Opcode { return GetDirFile }

// GetDirPktItem backs the GET_DIR_PKT opcode: list a directory's
// contents into one or more telemetry packets, windowed by Offset.
type GetDirPktItem struct {
	Directory        string
	DirectoryWithSep string
	Offset           uint32
	GetSizeTimeMode  bool
}

func (GetDirPktItem) Opcode() Opcode { return GetDirPkt }

// SetFilePermItem backs the SET_FILE_PERM opcode.
type SetFilePermItem struct {
	Filename string
	Mode     uint32
}

func (SetFilePermItem) Opcode() Opcode { return SetFilePerm }
