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

// Package worker implements the low-priority child task: it dequeues
// work items from the handshake queue and executes the actual
// filesystem operation behind each command, one item per scheduler
// pass (spec.md §4.1/§4.5).
package worker

import (
	"errors"
	"hash/crc32"
	"io"

	"github.com/classicvalues/fm-go/internal/fsops"
	"github.com/classicvalues/fm-go/internal/logger"
	"github.com/classicvalues/fm-go/internal/telemetry"
	"github.com/classicvalues/fm-go/internal/workitem"
)

// errUnrecognizedItem guards the dispatch switch's default case -- it
// should be unreachable in practice, since the processor only ever
// enqueues the types handled in Execute.
var errUnrecognizedItem = errors.New("worker: unrecognized work item")

// Dequeuer is the one capability the worker needs from the handshake
// queue.
type Dequeuer interface {
	DequeueBlocking(done <-chan struct{}) (workitem.Item, bool)
}

// Reporter publishes the telemetry that can only be computed after a
// work item actually runs (a CRC, a directory listing page). Commands
// that answer synchronously (GET_OPEN_FILES, GET_FREE_SPACE,
// SET_TABLE_STATE) never reach the worker and so never call this.
type Reporter interface {
	ReportFileInfo(item workitem.GetFileInfoItem, crc uint32) error
	ReportDirList(dl telemetry.DirList) error
}

// Worker is the child task: one goroutine draining the handshake
// queue.
type Worker struct {
	fs               fsops.FS
	queue            Dequeuer
	counters         *telemetry.Counters
	reporter         Reporter
	copyBufferSize   int
	dirListPktEntries int
}

// New constructs a Worker.
func New(fs fsops.FS, q Dequeuer, counters *telemetry.Counters, reporter Reporter, copyBufferSize, dirListPktEntries int) *Worker {
	return &Worker{
		fs:                fs,
		queue:             q,
		counters:          counters,
		reporter:          reporter,
		copyBufferSize:    copyBufferSize,
		dirListPktEntries: dirListPktEntries,
	}
}

// Run drains the queue until done is closed. It is meant to run as its
// own goroutine, at lower priority than the command processor.
func (w *Worker) Run(done <-chan struct{}) {
	for {
		item, ok := w.queue.DequeueBlocking(done)
		if !ok {
			return
		}
		w.Execute(item)
	}
}

// Execute runs item to completion and updates the child counters.
// It is exported so it can be driven directly (e.g. from tests or an
// alternate scheduler) without going through the blocking queue.
func (w *Worker) Execute(item workitem.Item) {
	var err error
	warn := false

	switch it := item.(type) {
	case workitem.CopyItem:
		err = w.execCopy(it)
	case workitem.MoveItem:
		err = w.fs.Rename(it.Source, it.Target)
	case workitem.RenameItem:
		err = w.fs.Rename(it.Source, it.Target)
	case workitem.DeleteItem:
		err = w.fs.Remove(it.Target)
	case workitem.DeleteAllItem:
		err, warn = w.execDeleteAll(it)
	case workitem.DecompressItem:
		err = decompressFunc(w.fs, it.Source, it.Target)
	case workitem.ConcatItem:
		err = w.execConcat(it)
	case workitem.GetFileInfoItem:
		err = w.execGetFileInfo(it)
	case workitem.CreateDirItem:
		err = w.fs.Mkdir(it.Directory)
	case workitem.DeleteDirItem:
		err = w.fs.RemoveDir(it.Directory)
	case workitem.GetDirFileItem:
		err = w.execGetDirFile(it)
	case workitem.GetDirPktItem:
		err = w.execGetDirPkt(it)
	case workitem.SetFilePermItem:
		err = w.fs.Chmod(it.Filename, it.Mode)
	default:
		logger.Errorf("worker: unrecognized work item %T", item)
		err = errUnrecognizedItem
	}

	if err != nil {
		logger.Errorf("worker: %s failed: %v", item.Opcode(), err)
	}
	w.counters.ChildCompleted(item.Opcode(), err == nil, warn)
}

func (w *Worker) execCopy(it workitem.CopyItem) error {
	r, err := w.fs.OpenReader(it.Source)
	if err != nil {
		return err
	}
	defer r.Close()

	out, err := w.fs.CreateWriter(it.Target)
	if err != nil {
		return err
	}
	defer out.Close()

	buf := make([]byte, w.copyBufferSize)
	_, err = io.CopyBuffer(out, r, buf)
	return err
}

func (w *Worker) execConcat(it workitem.ConcatItem) error {
	out, err := w.fs.CreateWriter(it.Target)
	if err != nil {
		return err
	}
	defer out.Close()

	buf := make([]byte, w.copyBufferSize)
	for _, src := range []string{it.Source1, it.Source2} {
		r, err := w.fs.OpenReader(src)
		if err != nil {
			return err
		}
		_, err = io.CopyBuffer(out, r, buf)
		r.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func (w *Worker) execDeleteAll(it workitem.DeleteAllItem) (error, bool) {
	cursor, err := w.fs.ListDir(it.Directory)
	if err != nil {
		return err, false
	}
	defer cursor.Close()

	warn := false
	for {
		more, err := cursor.Next()
		if err != nil {
			return err, warn
		}
		if !more {
			break
		}
		name := cursor.Entry()
		if removeErr := w.fs.Remove(it.DirectoryWithSep + name); removeErr != nil {
			logger.Warnf("worker: delete all: could not remove %s%s: %v", it.DirectoryWithSep, name, removeErr)
			warn = true
		}
	}
	return nil, warn
}

func (w *Worker) execGetFileInfo(it workitem.GetFileInfoItem) error {
	if it.CRCType == 0 {
		return w.reporter.ReportFileInfo(it, 0)
	}
	r, err := w.fs.OpenReader(it.Filename)
	if err != nil {
		return err
	}
	defer r.Close()

	hasher := crc32.NewIEEE()
	if _, err := io.Copy(hasher, r); err != nil {
		return err
	}
	return w.reporter.ReportFileInfo(it, hasher.Sum32())
}
