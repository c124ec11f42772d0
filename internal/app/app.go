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

// Package app wires every other package together into the service's
// two-tier runtime: App.Run is the high-priority main loop, and App.Init
// starts the low-priority worker as its own goroutine (spec.md §4.1).
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/classicvalues/fm-go/cfg"
	"github.com/classicvalues/fm-go/internal/bus"
	"github.com/classicvalues/fm-go/internal/command"
	"github.com/classicvalues/fm-go/internal/fsops"
	"github.com/classicvalues/fm-go/internal/logger"
	"github.com/classicvalues/fm-go/internal/queue"
	"github.com/classicvalues/fm-go/internal/table"
	"github.com/classicvalues/fm-go/internal/telemetry"
	"github.com/classicvalues/fm-go/internal/worker"
)

// App owns every long-lived collaborator: the bus connection, the
// filesystem shim, the handshake queue, the volume table, the shared
// counters, the command processor, and the child worker.
type App struct {
	cfg cfg.Config

	bus   bus.Bus
	fs    fsops.FS
	queue *queue.Handshake
	table *table.Manager

	counters *telemetry.Counters
	metrics  *telemetry.Metrics

	processor *command.Processor
	worker    *worker.Worker
	reporter  *busReporter

	workerDone chan struct{}
}

// New constructs an App from its configuration and collaborators. fs is
// injected so tests can pass an in-memory fsops.Fake; metrics may be
// nil if the caller has no OTel meter provider wired up.
func New(c cfg.Config, b bus.Bus, fs fsops.FS, metrics *telemetry.Metrics) *App {
	q := queue.New(c.ChildQueueDepth)
	tbl := table.NewManager(c.TableEntryCount, command.WirePathLen-1)
	counters := &telemetry.Counters{}
	reporter := newBusReporter(b)

	processor := command.NewProcessor(fs, q, tbl, counters, c.IncludeDecompress, c.DirListFileEntriesPerWake, c.PathMax)
	w := worker.New(fs, q, counters, reporter, c.CopyBufferSize, c.DirListPktEntries)

	return &App{
		cfg:        c,
		bus:        b,
		fs:         fs,
		queue:      q,
		table:      tbl,
		counters:   counters,
		metrics:    metrics,
		processor:  processor,
		worker:     w,
		reporter:   reporter,
		workerDone: make(chan struct{}),
	}
}

// Init registers the volume table, attempts to load the default image
// (a failure here is non-fatal, matching CFE_TBL_Load's "OK if this
// fails" comment), opens the command pipe, subscribes to both message
// IDs, and starts the child worker goroutine.
func (a *App) Init() error {
	a.table.Register()
	if a.cfg.DefaultTableImagePath != "" {
		if _, err := a.table.Load(a.cfg.DefaultTableImagePath); err != nil {
			logger.Warnf("app: default table image %s did not load: %v", a.cfg.DefaultTableImagePath, err)
		}
	}
	a.table.Acquire()

	if err := a.bus.CreatePipe(a.cfg.PipeDepth, a.cfg.AppName+"_CMD_PIPE"); err != nil {
		return fmt.Errorf("app: create pipe: %w", err)
	}
	if err := a.bus.Subscribe(bus.MessageID(a.cfg.HKRequestMID)); err != nil {
		return fmt.Errorf("app: subscribe HK request: %w", err)
	}
	if err := a.bus.Subscribe(bus.MessageID(a.cfg.CommandMID)); err != nil {
		return fmt.Errorf("app: subscribe command: %w", err)
	}

	go a.worker.Run(a.workerDone)

	logger.Infof("%s: initialization complete", a.cfg.AppName)
	return nil
}

// Run is the high-priority main loop: receive, classify, dispatch,
// repeat, until ctx is done or the bus reports a terminal error.
func (a *App) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			a.shutdown("context canceled")
			return ctx.Err()
		default:
		}

		start := time.Now()
		msg, err := a.bus.Receive(a.cfg.SBTimeout)
		if errors.Is(err, bus.ErrTimeout) {
			// No traffic this cycle: give the table layer a chance to
			// run its own updates, mirroring FM_AcquireTablePointers
			// being called from the main loop's idle path.
			a.table.Release()
			a.table.Acquire()
			continue
		}
		if err != nil {
			a.shutdown(fmt.Sprintf("bus error: %v", err))
			return fmt.Errorf("app: bus receive: %w", err)
		}

		a.dispatch(msg)
		if a.metrics != nil {
			a.metrics.RecordLoop(ctx, time.Since(start))
		}
	}
}

func (a *App) dispatch(msg *bus.Message) {
	switch msg.MessageID {
	case bus.MessageID(a.cfg.HKRequestMID):
		a.reportHK()
	case bus.MessageID(a.cfg.CommandMID):
		opcode := command.Opcode(msg.FcnCode)
		result := a.processor.Dispatch(opcode, msg.FcnCode, msg.Payload)
		if a.metrics != nil {
			a.metrics.RecordCommand(context.Background(), opcode, result.OK)
		}
		a.publishSynchronousReply(result)
	default:
		logger.Errorf("app: received unsubscribed message ID %#x", msg.MessageID)
	}
}

func (a *App) publishSynchronousReply(result command.Result) {
	if result.Reply == nil {
		return
	}
	var err error
	switch reply := result.Reply.(type) {
	case telemetry.OpenFiles:
		err = a.reporter.ReportOpenFiles(reply)
	case telemetry.FreeSpace:
		err = a.reporter.ReportFreeSpace(reply)
	}
	if err != nil {
		logger.Errorf("app: publishing synchronous reply: %v", err)
	}
}

// reportHK builds and publishes the housekeeping packet: release/
// reacquire the table pointer first, exactly like FM_ReportHK, so a
// concurrent table load never observes a torn read through the same
// handle the main loop is using.
func (a *App) reportHK() {
	a.table.Release()
	a.table.Acquire()

	snap := a.counters.Snapshot()
	hk := telemetry.Housekeeping{
		CommandCounter:      snap.CommandCounter,
		CommandErrCounter:   snap.CommandErrCounter,
		NumOpenFiles:        uint16(len(a.fs.OpenFiles())),
		ChildCmdCounter:     snap.ChildCmdCounter,
		ChildCmdErrCounter:  snap.ChildCmdErrCounter,
		ChildCmdWarnCounter: snap.ChildCmdWarnCounter,
		ChildQueueCount:     uint16(a.queue.Len()),
		ChildCurrentCC:      snap.ChildCurrentCC,
		ChildPreviousCC:     snap.ChildPreviousCC,
		Timestamp:           time.Now(),
	}
	if err := a.reporter.ReportHousekeeping(hk); err != nil {
		logger.Errorf("app: publishing housekeeping: %v", err)
	}
}

// shutdown emits the terminal-run-status event through both the
// structured logger and a stdlib fallback, so the reason a run ended
// survives even if the structured sink itself is what failed.
func (a *App) shutdown(reason string) {
	logger.Errorf("%s: terminating, reason: %s", a.cfg.AppName, reason)
	log.Printf("%s: terminating, reason: %s", a.cfg.AppName, reason)
	close(a.workerDone)
}
