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

// Package command implements the high-priority command pipeline: wire
// packet decoding, per-opcode validation order, and dispatch into
// either a synchronous handler or an enqueue onto the low-priority
// worker's handshake queue.
package command

import "github.com/classicvalues/fm-go/internal/workitem"

// Opcode is the function-code discriminator carried in the command
// message header. It is an alias of workitem.Opcode so that the queued
// work items and the dispatch table agree on one canonical type without
// an import cycle (workitem has no dependency on command).
type Opcode = workitem.Opcode

const (
	Noop          = workitem.Noop
	ResetCounters = workitem.ResetCounters
	Copy          = workitem.Copy
	Move          = workitem.Move
	Rename        = workitem.Rename
	Delete        = workitem.Delete
	DeleteAll     = workitem.DeleteAll
	Decompress    = workitem.Decompress
	Concat        = workitem.Concat
	GetFileInfo   = workitem.GetFileInfo
	GetOpenFiles  = workitem.GetOpenFiles
	CreateDir     = workitem.CreateDir
	DeleteDir     = workitem.DeleteDir
	GetDirFile    = workitem.GetDirFile
	GetDirPkt     = workitem.GetDirPkt
	GetFreeSpace  = workitem.GetFreeSpace
	SetTableState = workitem.SetTableState
	SetFilePerm   = workitem.SetFilePerm
)
