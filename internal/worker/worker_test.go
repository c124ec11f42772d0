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

package worker_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classicvalues/fm-go/internal/fsops"
	"github.com/classicvalues/fm-go/internal/queue"
	"github.com/classicvalues/fm-go/internal/telemetry"
	"github.com/classicvalues/fm-go/internal/worker"
	"github.com/classicvalues/fm-go/internal/workitem"
)

type fakeReporter struct {
	fileInfoCalls int
	lastCRC       uint32
	dirLists      []telemetry.DirList
}

func (r *fakeReporter) ReportFileInfo(item workitem.GetFileInfoItem, crc uint32) error {
	r.fileInfoCalls++
	r.lastCRC = crc
	return nil
}

func (r *fakeReporter) ReportDirList(dl telemetry.DirList) error {
	r.dirLists = append(r.dirLists, dl)
	return nil
}

func TestWorker_Copy(t *testing.T) {
	fs := fsops.NewFake("CHILD")
	fs.PutFile("/ram/a.txt", []byte("ABCDEFGH"))

	q := queue.New(4)
	counters := &telemetry.Counters{}
	w := worker.New(fs, q, counters, &fakeReporter{}, 512, 10)

	require.NoError(t, q.TryEnqueue(workitem.CopyItem{Source: "/ram/a.txt", Target: "/ram/b.txt"}))
	done := make(chan struct{})
	go func() {
		item, _ := q.DequeueBlocking(done)
		w.Execute(item)
		close(done)
	}()
	<-done

	st, err := fs.Stat("/ram/b.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(8), st.Size)
	assert.EqualValues(t, 1, counters.Snapshot().ChildCmdCounter)
}

func TestWorker_GetFileInfoReportsCRC(t *testing.T) {
	fs := fsops.NewFake("CHILD")
	fs.PutFile("/ram/a.txt", []byte("ABCDEFGH"))

	q := queue.New(4)
	counters := &telemetry.Counters{}
	reporter := &fakeReporter{}
	w := worker.New(fs, q, counters, reporter, 512, 10)

	item := workitem.GetFileInfoItem{Filename: "/ram/a.txt", CRCType: 1}
	w.Execute(item)

	assert.Equal(t, 1, reporter.fileInfoCalls)
	assert.NotZero(t, reporter.lastCRC)
}

func TestWorker_DeleteAll(t *testing.T) {
	fs := fsops.NewFake("CHILD")
	fs.PutDir("/ram/dir")
	fs.PutFile("/ram/dir/a.txt", []byte("x"))
	fs.PutFile("/ram/dir/b.txt", []byte("y"))
	fs.Link("/ram/dir", "a.txt")
	fs.Link("/ram/dir", "b.txt")

	q := queue.New(4)
	counters := &telemetry.Counters{}
	w := worker.New(fs, q, counters, &fakeReporter{}, 512, 10)

	w.Execute(workitem.DeleteAllItem{Directory: "/ram/dir", DirectoryWithSep: "/ram/dir/"})

	st, err := fs.Stat("/ram/dir/a.txt")
	require.NoError(t, err)
	assert.Equal(t, fsops.KindNone, st.Kind)
}

func TestWorker_GetDirPktWindowsByOffset(t *testing.T) {
	fs := fsops.NewFake("CHILD")
	fs.PutDir("/ram/dir")
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		fs.PutFile("/ram/dir/"+name, []byte("x"))
		fs.Link("/ram/dir", name)
	}

	q := queue.New(4)
	counters := &telemetry.Counters{}
	reporter := &fakeReporter{}
	w := worker.New(fs, q, counters, reporter, 512, 2)

	w.Execute(workitem.GetDirPktItem{Directory: "/ram/dir", DirectoryWithSep: "/ram/dir/", Offset: 2})

	var names []string
	for _, dl := range reporter.dirLists {
		assert.Equal(t, 5, dl.TotalEntries)
		for _, e := range dl.Entries {
			names = append(names, e.Name)
		}
	}
	assert.Equal(t, []string{"c", "d", "e"}, names)
}
