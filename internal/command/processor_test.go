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

package command_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classicvalues/fm-go/internal/command"
	"github.com/classicvalues/fm-go/internal/fsops"
	"github.com/classicvalues/fm-go/internal/queue"
	"github.com/classicvalues/fm-go/internal/telemetry"
	"github.com/classicvalues/fm-go/internal/workitem"
)

func encodeCopyMove(t *testing.T, overwrite uint16, source, target string) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, overwrite))
	var src, tgt [command.WirePathLen]byte
	copy(src[:], source)
	copy(tgt[:], target)
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, src))
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, tgt))
	return buf.Bytes()
}

func newProcessor(fs fsops.FS, depth int) (*command.Processor, *queue.Handshake, *telemetry.Counters) {
	q := queue.New(depth)
	counters := &telemetry.Counters{}
	p := command.NewProcessor(fs, q, nil, counters, true, 20, command.WirePathLen)
	return p, q, counters
}

func encodeGetFileInfo(t *testing.T, filename string, crcType uint16) []byte {
	t.Helper()
	var buf bytes.Buffer
	var name [command.WirePathLen]byte
	copy(name[:], filename)
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, name))
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, crcType))
	return buf.Bytes()
}

func TestCopyHappyPath(t *testing.T) {
	fs := fsops.NewFake("CMD")
	fs.PutFile("/ram/a.txt", []byte("ABCDEFGH"))

	p, q, counters := newProcessor(fs, 10)
	payload := encodeCopyMove(t, 0, "/ram/a.txt", "/ram/b.txt")

	result := p.Dispatch(command.Copy, uint8(command.Copy), payload)
	assert.True(t, result.OK)
	assert.EqualValues(t, 1, counters.Snapshot().CommandCounter)
	assert.Equal(t, 1, q.Len())

	item, ok := q.DequeueBlocking(nil)
	require.True(t, ok)
	copyItem, ok := item.(workitem.CopyItem)
	require.True(t, ok)
	assert.Equal(t, "/ram/a.txt", copyItem.Source)
	assert.Equal(t, "/ram/b.txt", copyItem.Target)
	assert.False(t, copyItem.Overwrite)
}

func TestCopyNoOverwriteRejection(t *testing.T) {
	fs := fsops.NewFake("CMD")
	fs.PutFile("/ram/a.txt", []byte("ABCDEFGH"))
	fs.PutFile("/ram/b.txt", []byte("existing"))

	p, q, counters := newProcessor(fs, 10)
	payload := encodeCopyMove(t, 0, "/ram/a.txt", "/ram/b.txt")

	result := p.Dispatch(command.Copy, uint8(command.Copy), payload)
	assert.False(t, result.OK)
	assert.EqualValues(t, 1, counters.Snapshot().CommandErrCounter)
	assert.Equal(t, 0, q.Len())
}

func TestQueueFull(t *testing.T) {
	fs := fsops.NewFake("CMD")
	for i := 0; i < 3; i++ {
		fs.PutFile("/ram/src.txt", []byte("x"))
	}

	p, q, counters := newProcessor(fs, 2)
	payload := encodeCopyMove(t, 1, "/ram/src.txt", "/ram/tgt.txt")

	require.True(t, p.Dispatch(command.Copy, uint8(command.Copy), payload).OK)
	require.True(t, p.Dispatch(command.Copy, uint8(command.Copy), payload).OK)
	assert.Equal(t, 2, q.Len())

	result := p.Dispatch(command.Copy, uint8(command.Copy), payload)
	assert.False(t, result.OK)
	assert.EqualValues(t, 1, counters.Snapshot().CommandErrCounter)
	assert.Equal(t, 2, q.Len())
}

func TestResetCountersDoesNotIncrementCommandCounter(t *testing.T) {
	fs := fsops.NewFake("CMD")
	p, _, counters := newProcessor(fs, 10)

	result := p.Dispatch(command.ResetCounters, uint8(command.ResetCounters), nil)
	assert.True(t, result.OK)
	assert.Zero(t, counters.Snapshot().CommandCounter)
}

func TestDeletePreservesRawFunctionCode(t *testing.T) {
	fs := fsops.NewFake("CMD")
	fs.PutFile("/ram/a.txt", []byte("x"))

	p, q, _ := newProcessor(fs, 10)
	var buf bytes.Buffer
	var tgt [command.WirePathLen]byte
	copy(tgt[:], "/ram/a.txt")
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, tgt))

	const internalDeleteCode = uint8(200)
	result := p.Dispatch(command.Delete, internalDeleteCode, buf.Bytes())
	require.True(t, result.OK)

	item, ok := q.DequeueBlocking(nil)
	require.True(t, ok)
	deleteItem, ok := item.(workitem.DeleteItem)
	require.True(t, ok)
	assert.EqualValues(t, internalDeleteCode, deleteItem.FcnCode)
}

func TestGetFreeSpaceRejectsWhenTableNotLoaded(t *testing.T) {
	fs := fsops.NewFake("CMD")
	p, _, counters := newProcessor(fs, 10)

	result := p.Dispatch(command.GetFreeSpace, uint8(command.GetFreeSpace), nil)
	assert.False(t, result.OK)
	assert.Nil(t, result.Reply)
	assert.EqualValues(t, 1, counters.Snapshot().CommandErrCounter)
}

func TestGetFileInfoEnqueuesForWellFormedAbsentName(t *testing.T) {
	fs := fsops.NewFake("CMD")
	p, q, counters := newProcessor(fs, 10)

	payload := encodeGetFileInfo(t, "/ram/missing.txt", 0)
	result := p.Dispatch(command.GetFileInfo, uint8(command.GetFileInfo), payload)
	assert.True(t, result.OK)
	assert.EqualValues(t, 1, counters.Snapshot().CommandCounter)

	item, ok := q.DequeueBlocking(nil)
	require.True(t, ok)
	infoItem, ok := item.(workitem.GetFileInfoItem)
	require.True(t, ok)
	assert.Equal(t, "/ram/missing.txt", infoItem.Filename)
}

func TestGetFileInfoRejectsEmptyName(t *testing.T) {
	fs := fsops.NewFake("CMD")
	p, _, counters := newProcessor(fs, 10)

	payload := encodeGetFileInfo(t, "", 0)
	result := p.Dispatch(command.GetFileInfo, uint8(command.GetFileInfo), payload)
	assert.False(t, result.OK)
	assert.EqualValues(t, 1, counters.Snapshot().CommandErrCounter)
}
