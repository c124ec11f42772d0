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

package app

import (
	"bytes"
	"context"
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classicvalues/fm-go/cfg"
	"github.com/classicvalues/fm-go/internal/bus"
	"github.com/classicvalues/fm-go/internal/command"
	"github.com/classicvalues/fm-go/internal/fsops"
)

func testConfig() cfg.Config {
	c := cfg.DefaultConfig()
	c.DefaultTableImagePath = ""
	c.SBTimeout = 20 * time.Millisecond
	return c
}

func encodeCopy(source, target string, overwrite uint16) []byte {
	var pkt command.CopyMovePacket
	pkt.Overwrite = overwrite
	copy(pkt.Source[:], source)
	copy(pkt.Target[:], target)
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.BigEndian, pkt)
	return buf.Bytes()
}

func TestApp_DispatchesCommandMessage(t *testing.T) {
	c := testConfig()
	b := bus.NewInMemory()
	fs := fsops.NewFake("FM")
	fs.PutFile("/ram/a.txt", []byte("ABCDEFGH"))

	a := New(c, b, fs, nil)
	require.NoError(t, a.Init())

	b.Send(&bus.Message{
		MessageID: bus.MessageID(c.CommandMID),
		FcnCode:   uint8(command.Copy),
		Payload:   encodeCopy("/ram/a.txt", "/ram/b.txt", 0),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	go a.Run(ctx)

	require.Eventually(t, func() bool {
		return a.counters.Snapshot().CommandCounter == 1
	}, 150*time.Millisecond, 5*time.Millisecond)
}

func TestApp_ReportHKPublishesHousekeeping(t *testing.T) {
	c := testConfig()
	b := bus.NewInMemory()
	fs := fsops.NewFake("FM")

	a := New(c, b, fs, nil)
	require.NoError(t, a.Init())

	a.reportHK()

	require.Len(t, b.Published, 1)
	assert.Equal(t, HousekeepingTlmMID, b.Published[0].MessageID)
}

func TestApp_BusTimeoutReleasesAndReacquiresTable(t *testing.T) {
	c := testConfig()
	b := bus.NewInMemory()
	fs := fsops.NewFake("FM")

	a := New(c, b, fs, nil)
	require.NoError(t, a.Init())
	require.True(t, a.table.Loaded() == false)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()
	err := a.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestApp_BusErrorEndsTheRun(t *testing.T) {
	c := testConfig()
	b := bus.NewInMemory()
	fs := fsops.NewFake("FM")

	a := New(c, b, fs, nil)
	require.NoError(t, a.Init())
	b.SetReceiveError(assert.AnError)

	err := a.Run(context.Background())
	assert.Error(t, err)
}
