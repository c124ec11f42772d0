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

package command

import (
	"strings"
	"time"

	"github.com/classicvalues/fm-go/internal/fsops"
	"github.com/classicvalues/fm-go/internal/logger"
	"github.com/classicvalues/fm-go/internal/table"
	"github.com/classicvalues/fm-go/internal/telemetry"
	"github.com/classicvalues/fm-go/internal/validate"
	"github.com/classicvalues/fm-go/internal/workitem"
)

// Enqueuer is the one capability the processor needs from the
// handshake queue: accept an item, or fail if full. It's an interface
// so processor tests don't need a real queue.Handshake.
type Enqueuer interface {
	HasCapacity() bool
	TryEnqueue(item workitem.Item) error
}

// Processor runs one handler per opcode, in the fixed validation order
// spec.md §4.2 assigns each, then either answers synchronously (NOOP,
// RESET_COUNTERS, GET_OPEN_FILES, GET_FREE_SPACE, SET_TABLE_STATE) or
// enqueues a work item for the worker.
type Processor struct {
	fs          fsops.FS
	queue       Enqueuer
	table       *table.Manager
	counters    *telemetry.Counters
	includeDecompress bool
	dirListFileEntriesPerWake int
	pathMax int
}

// NewProcessor constructs a Processor. includeDecompress gates DECOMPRESS
// the way the original's compile-time FM_INCLUDE_DECOMPRESS did.
// pathMax bounds the well-formedness check NameValid runs on filenames.
func NewProcessor(fs fsops.FS, q Enqueuer, tbl *table.Manager, counters *telemetry.Counters, includeDecompress bool, dirListFileEntriesPerWake int, pathMax int) *Processor {
	return &Processor{
		fs:                        fs,
		queue:                     q,
		table:                     tbl,
		counters:                  counters,
		includeDecompress:         includeDecompress,
		dirListFileEntriesPerWake: dirListFileEntriesPerWake,
		pathMax:                   pathMax,
	}
}

// Result is the outcome of dispatching one command: whether it
// succeeded, and (on synchronous opcodes) the reply payload.
type Result struct {
	OK      bool
	Reply   any
	LogText string
}

// Dispatch decodes and runs the handler for opcode against payload,
// updates the command counters, and returns the result. Unknown
// opcodes are treated as an error without consulting the counters'
// opcode-specific RESET_COUNTERS rule (there's no valid opcode to
// attribute it to).
// Dispatch decodes and runs the handler selected by opcode. rawFcnCode
// is the function code exactly as it arrived in the packet header;
// every opcode except DELETE ignores it, but DELETE copies it onto its
// work item verbatim (see deleteWithCode).
func (p *Processor) Dispatch(opcode Opcode, rawFcnCode uint8, payload []byte) Result {
	if opcode == Delete {
		result := p.deleteWithCode(payload, Opcode(rawFcnCode))
		p.counters.CommandCompleted(opcode, result.OK)
		return result
	}

	handler, ok := p.handlers()[opcode]
	if !ok {
		logger.Errorf("command: unknown opcode %d", opcode)
		p.counters.CommandCompleted(opcode, false)
		return Result{OK: false, LogText: "unknown opcode"}
	}

	result := handler(payload)
	p.counters.CommandCompleted(opcode, result.OK)
	return result
}

func (p *Processor) handlers() map[Opcode]func([]byte) Result {
	return map[Opcode]func([]byte) Result{
		Noop:          p.noop,
		ResetCounters: p.resetCounters,
		Copy:          p.copy,
		Move:          p.move,
		Rename:        p.rename,
		DeleteAll:     p.deleteAll,
		Decompress:    p.decompress,
		Concat:        p.concat,
		GetFileInfo:   p.getFileInfo,
		GetOpenFiles:  p.getOpenFiles,
		CreateDir:     p.createDir,
		DeleteDir:     p.deleteDir,
		GetDirFile:    p.getDirFile,
		GetDirPkt:     p.getDirPkt,
		GetFreeSpace:  p.getFreeSpace,
		SetTableState: p.setTableState,
		SetFilePerm:   p.setFilePerm,
	}
}

func (p *Processor) noop(payload []byte) Result {
	var pkt NoopPacket
	if err := decode(payload, &pkt); err != nil {
		return Result{OK: false, LogText: err.Error()}
	}
	return Result{OK: true, LogText: "No-op command"}
}

func (p *Processor) resetCounters(payload []byte) Result {
	var pkt ResetPacket
	if err := decode(payload, &pkt); err != nil {
		return Result{OK: false, LogText: err.Error()}
	}
	p.counters.Reset()
	return Result{OK: true, LogText: "Reset Counters command"}
}

func (p *Processor) copy(payload []byte) Result {
	var pkt CopyMovePacket
	if err := decode(payload, &pkt); err != nil {
		return Result{OK: false, LogText: err.Error()}
	}
	if !validate.OverwriteValid(pkt.Overwrite) {
		return Result{OK: false, LogText: "invalid overwrite argument"}
	}
	src := pkt.Source.String()
	tgt := pkt.Target.String()

	exists, err := validate.FileExists(p.fs, src)
	if err != nil || !exists {
		return Result{OK: false, LogText: "source file does not exist"}
	}
	if pkt.Overwrite == 0 {
		noExist, err := validate.FileNoExist(p.fs, tgt)
		if err != nil || !noExist {
			return Result{OK: false, LogText: "target file exists and overwrite is not set"}
		}
	} else if !validate.FileNotOpen(p.fs, tgt) {
		return Result{OK: false, LogText: "target file is open"}
	}
	if !p.queue.HasCapacity() {
		return Result{OK: false, LogText: "queue full"}
	}
	_ = p.queue.TryEnqueue(workitem.CopyItem{Source: src, Target: tgt, Overwrite: pkt.Overwrite != 0})
	return Result{OK: true, LogText: "Copy File command"}
}

func (p *Processor) move(payload []byte) Result {
	var pkt CopyMovePacket
	if err := decode(payload, &pkt); err != nil {
		return Result{OK: false, LogText: err.Error()}
	}
	if !validate.OverwriteValid(pkt.Overwrite) {
		return Result{OK: false, LogText: "invalid overwrite argument"}
	}
	src := pkt.Source.String()
	tgt := pkt.Target.String()

	exists, err := validate.FileExists(p.fs, src)
	if err != nil || !exists {
		return Result{OK: false, LogText: "source file does not exist"}
	}
	if pkt.Overwrite == 0 {
		noExist, err := validate.FileNoExist(p.fs, tgt)
		if err != nil || !noExist {
			return Result{OK: false, LogText: "target file exists and overwrite is not set"}
		}
	} else if !validate.FileNotOpen(p.fs, tgt) {
		return Result{OK: false, LogText: "target file is open"}
	}
	if !p.queue.HasCapacity() {
		return Result{OK: false, LogText: "queue full"}
	}
	_ = p.queue.TryEnqueue(workitem.MoveItem{Source: src, Target: tgt, Overwrite: pkt.Overwrite != 0})
	return Result{OK: true, LogText: "Move File command"}
}

func (p *Processor) rename(payload []byte) Result {
	var pkt RenamePacket
	if err := decode(payload, &pkt); err != nil {
		return Result{OK: false, LogText: err.Error()}
	}
	src := pkt.Source.String()
	tgt := pkt.Target.String()

	exists, err := validate.FileExists(p.fs, src)
	if err != nil || !exists {
		return Result{OK: false, LogText: "source file does not exist"}
	}
	noExist, err := validate.FileNoExist(p.fs, tgt)
	if err != nil || !noExist {
		return Result{OK: false, LogText: "target file already exists"}
	}
	if !p.queue.HasCapacity() {
		return Result{OK: false, LogText: "queue full"}
	}
	_ = p.queue.TryEnqueue(workitem.RenameItem{Source: src, Target: tgt})
	return Result{OK: true, LogText: "Rename File command"}
}

// deleteWithCode runs DELETE's handler. fcnCode is the inbound packet's
// raw function code, copied onto the work item unchanged -- see
// DESIGN.md's note on why this mirrors the original instead of
// hardcoding Delete.
func (p *Processor) deleteWithCode(payload []byte, fcnCode Opcode) Result {
	var pkt DeletePacket
	if err := decode(payload, &pkt); err != nil {
		return Result{OK: false, LogText: err.Error()}
	}
	tgt := pkt.Target.String()
	closed, err := validate.FileClosed(p.fs, tgt)
	if err != nil || !closed {
		return Result{OK: false, LogText: "file does not exist or is open"}
	}
	if !p.queue.HasCapacity() {
		return Result{OK: false, LogText: "queue full"}
	}
	_ = p.queue.TryEnqueue(workitem.DeleteItem{Target: tgt, FcnCode: fcnCode})
	return Result{OK: true, LogText: "Delete File command"}
}

func (p *Processor) deleteAll(payload []byte) Result {
	var pkt DeleteAllPacket
	if err := decode(payload, &pkt); err != nil {
		return Result{OK: false, LogText: err.Error()}
	}
	dir := pkt.Directory.String()
	exists, err := validate.DirExists(p.fs, dir)
	if err != nil || !exists {
		return Result{OK: false, LogText: "directory does not exist"}
	}
	withSep := dir
	if !strings.HasSuffix(withSep, "/") {
		withSep += "/"
	}
	if !p.queue.HasCapacity() {
		return Result{OK: false, LogText: "queue full"}
	}
	_ = p.queue.TryEnqueue(workitem.DeleteAllItem{Directory: dir, DirectoryWithSep: withSep})
	return Result{OK: true, LogText: "Delete All Files command"}
}

func (p *Processor) decompress(payload []byte) Result {
	if !p.includeDecompress {
		return Result{OK: false, LogText: "decompress is not built into this image"}
	}
	var pkt DecompressPacket
	if err := decode(payload, &pkt); err != nil {
		return Result{OK: false, LogText: err.Error()}
	}
	src := pkt.Source.String()
	tgt := pkt.Target.String()

	closed, err := validate.FileClosed(p.fs, src)
	if err != nil || !closed {
		return Result{OK: false, LogText: "source file does not exist or is open"}
	}
	noExist, err := validate.FileNoExist(p.fs, tgt)
	if err != nil || !noExist {
		return Result{OK: false, LogText: "target file already exists"}
	}
	if !p.queue.HasCapacity() {
		return Result{OK: false, LogText: "queue full"}
	}
	_ = p.queue.TryEnqueue(workitem.DecompressItem{Source: src, Target: tgt})
	return Result{OK: true, LogText: "Decompress File command"}
}

func (p *Processor) concat(payload []byte) Result {
	var pkt ConcatPacket
	if err := decode(payload, &pkt); err != nil {
		return Result{OK: false, LogText: err.Error()}
	}
	src1 := pkt.Source1.String()
	src2 := pkt.Source2.String()
	tgt := pkt.Target.String()

	closed1, err := validate.FileClosed(p.fs, src1)
	if err != nil || !closed1 {
		return Result{OK: false, LogText: "source 1 file does not exist or is open"}
	}
	closed2, err := validate.FileClosed(p.fs, src2)
	if err != nil || !closed2 {
		return Result{OK: false, LogText: "source 2 file does not exist or is open"}
	}
	noExist, err := validate.FileNoExist(p.fs, tgt)
	if err != nil || !noExist {
		return Result{OK: false, LogText: "target file already exists"}
	}
	if !p.queue.HasCapacity() {
		return Result{OK: false, LogText: "queue full"}
	}
	_ = p.queue.TryEnqueue(workitem.ConcatItem{Source1: src1, Source2: src2, Target: tgt})
	return Result{OK: true, LogText: "Concatenate Files command"}
}

func (p *Processor) getFileInfo(payload []byte) Result {
	var pkt GetFileInfoPacket
	if err := decode(payload, &pkt); err != nil {
		return Result{OK: false, LogText: err.Error()}
	}
	name := pkt.Filename.String()
	state, st, err := validate.NameValid(p.fs, name, p.pathMax)
	if err != nil || state == validate.Invalid {
		return Result{OK: false, LogText: "file name is invalid"}
	}
	if !p.queue.HasCapacity() {
		return Result{OK: false, LogText: "queue full"}
	}
	_ = p.queue.TryEnqueue(workitem.GetFileInfoItem{
		Filename: name,
		Size:     st.Size,
		Mtime:    st.Mtime,
		Mode:     st.Mode,
		CRCType:  pkt.CRCType,
	})
	return Result{OK: true, LogText: "Get File Info command"}
}

func (p *Processor) getOpenFiles(payload []byte) Result {
	var pkt GetOpenFilesPacket
	if err := decode(payload, &pkt); err != nil {
		return Result{OK: false, LogText: err.Error()}
	}
	openFiles := p.fs.OpenFiles()
	entries := make([]telemetry.OpenFileEntry, 0, len(openFiles))
	for _, f := range openFiles {
		entries = append(entries, telemetry.OpenFileEntry{TaskName: f.TaskName, Filename: f.Filename})
	}
	reply := telemetry.OpenFiles{Files: entries, Timestamp: now()}
	return Result{OK: true, Reply: reply, LogText: "Get Open Files command"}
}

func (p *Processor) createDir(payload []byte) Result {
	var pkt CreateDirPacket
	if err := decode(payload, &pkt); err != nil {
		return Result{OK: false, LogText: err.Error()}
	}
	dir := pkt.Directory.String()
	noExist, err := validate.DirNoExist(p.fs, dir)
	if err != nil || !noExist {
		return Result{OK: false, LogText: "directory already exists"}
	}
	if !p.queue.HasCapacity() {
		return Result{OK: false, LogText: "queue full"}
	}
	_ = p.queue.TryEnqueue(workitem.CreateDirItem{Directory: dir})
	return Result{OK: true, LogText: "Create Directory command"}
}

func (p *Processor) deleteDir(payload []byte) Result {
	var pkt DeleteDirPacket
	if err := decode(payload, &pkt); err != nil {
		return Result{OK: false, LogText: err.Error()}
	}
	dir := pkt.Directory.String()
	exists, err := validate.DirExists(p.fs, dir)
	if err != nil || !exists {
		return Result{OK: false, LogText: "directory does not exist"}
	}
	if !p.queue.HasCapacity() {
		return Result{OK: false, LogText: "queue full"}
	}
	_ = p.queue.TryEnqueue(workitem.DeleteDirItem{Directory: dir})
	return Result{OK: true, LogText: "Delete Directory command"}
}

const defaultDirListFilename = "dirlist.out"

func (p *Processor) getDirFile(payload []byte) Result {
	var pkt GetDirFilePacket
	if err := decode(payload, &pkt); err != nil {
		return Result{OK: false, LogText: err.Error()}
	}
	dir := pkt.Directory.String()
	exists, err := validate.DirExists(p.fs, dir)
	if err != nil || !exists {
		return Result{OK: false, LogText: "directory does not exist"}
	}
	filename := pkt.Filename.String()
	if filename == "" {
		filename = defaultDirListFilename
	}
	if !validate.FileNotOpen(p.fs, filename) {
		return Result{OK: false, LogText: "target file is open"}
	}
	if !p.queue.HasCapacity() {
		return Result{OK: false, LogText: "queue full"}
	}
	withSep := dir
	if !strings.HasSuffix(withSep, "/") {
		withSep += "/"
	}
	_ = p.queue.TryEnqueue(workitem.GetDirFileItem{
		Directory:        dir,
		DirectoryWithSep: withSep,
		Filename:         filename,
		GetSizeTimeMode:  pkt.GetSizeTimeMode != 0,
	})
	return Result{OK: true, LogText: "Get Directory Listing to File command"}
}

func (p *Processor) getDirPkt(payload []byte) Result {
	var pkt GetDirPktPacket
	if err := decode(payload, &pkt); err != nil {
		return Result{OK: false, LogText: err.Error()}
	}
	dir := pkt.Directory.String()
	exists, err := validate.DirExists(p.fs, dir)
	if err != nil || !exists {
		return Result{OK: false, LogText: "directory does not exist"}
	}
	if !p.queue.HasCapacity() {
		return Result{OK: false, LogText: "queue full"}
	}
	withSep := dir
	if !strings.HasSuffix(withSep, "/") {
		withSep += "/"
	}
	_ = p.queue.TryEnqueue(workitem.GetDirPktItem{
		Directory:        dir,
		DirectoryWithSep: withSep,
		Offset:           pkt.DirListOffset,
		GetSizeTimeMode:  pkt.GetSizeTimeMode != 0,
	})
	return Result{OK: true, LogText: "Get Directory Listing to Packet command"}
}

func (p *Processor) getFreeSpace(payload []byte) Result {
	var pkt GetFreeSpacePacket
	if err := decode(payload, &pkt); err != nil {
		return Result{OK: false, LogText: err.Error()}
	}
	if p.table == nil || !p.table.Loaded() {
		return Result{OK: false, LogText: "table not loaded"}
	}

	var volumes []telemetry.VolumeFreeSpace
	for _, entry := range p.table.Entries() {
		if entry.State != table.Enabled {
			continue
		}
		vs, err := p.fs.StatVolume(entry.Name)
		if err != nil {
			volumes = append(volumes, telemetry.VolumeFreeSpace{Name: entry.Name, BlocksFree: 0, StatError: true})
			logger.Errorf("command: stat volume %s failed: %v", entry.Name, err)
			continue
		}
		volumes = append(volumes, telemetry.VolumeFreeSpace{Name: entry.Name, BlocksFree: vs.BlocksFree})
	}
	reply := telemetry.FreeSpace{Volumes: volumes, Timestamp: now()}
	return Result{OK: true, Reply: reply, LogText: "Get Free Space command"}
}

func (p *Processor) setTableState(payload []byte) Result {
	var pkt SetTableStatePacket
	if err := decode(payload, &pkt); err != nil {
		return Result{OK: false, LogText: err.Error()}
	}
	err := p.table.SetEntryState(int(pkt.TableEntryIndex), table.EntryState(pkt.TableEntryState))
	if err != nil {
		return Result{OK: false, LogText: err.Error()}
	}
	return Result{OK: true, LogText: "Set Table Entry State command"}
}

func (p *Processor) setFilePerm(payload []byte) Result {
	var pkt SetFilePermPacket
	if err := decode(payload, &pkt); err != nil {
		return Result{OK: false, LogText: err.Error()}
	}
	name := pkt.Filename.String()
	state, _, err := validate.NameValid(p.fs, name, p.pathMax)
	if err != nil || state == validate.Invalid {
		return Result{OK: false, LogText: "file name is invalid"}
	}
	if !p.queue.HasCapacity() {
		return Result{OK: false, LogText: "queue full"}
	}
	_ = p.queue.TryEnqueue(workitem.SetFilePermItem{Filename: name, Mode: pkt.Mode})
	return Result{OK: true, LogText: "Set File Permissions command"}
}

// now is a seam so tests can stub out timestamps if they need to.
var now = time.Now
