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

package telemetry_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/classicvalues/fm-go/internal/telemetry"
	"github.com/classicvalues/fm-go/internal/workitem"
)

func TestCounters_MixedTraffic(t *testing.T) {
	var c telemetry.Counters

	// 3 OK commands, 2 errors, 1 RESET, 4 worker completions, 1 worker failure.
	c.CommandCompleted(workitem.Copy, true)
	c.CommandCompleted(workitem.Move, true)
	c.CommandCompleted(workitem.Rename, true)
	c.CommandCompleted(workitem.Copy, false)
	c.CommandCompleted(workitem.Move, false)
	c.CommandCompleted(workitem.ResetCounters, true)

	for i := 0; i < 4; i++ {
		c.ChildCompleted(workitem.Copy, true, false)
	}
	c.ChildCompleted(workitem.Copy, false, false)

	snap := c.Snapshot()
	assert.EqualValues(t, 3, snap.CommandCounter)
	assert.EqualValues(t, 2, snap.CommandErrCounter)
	assert.EqualValues(t, 4, snap.ChildCmdCounter)
	assert.EqualValues(t, 1, snap.ChildCmdErrCounter)
}

func TestCounters_ResetZeroesEverything(t *testing.T) {
	var c telemetry.Counters
	c.CommandCompleted(workitem.Copy, true)
	c.ChildCompleted(workitem.Copy, true, true)

	c.Reset()

	snap := c.Snapshot()
	assert.Zero(t, snap.CommandCounter)
	assert.Zero(t, snap.CommandErrCounter)
	assert.Zero(t, snap.ChildCmdCounter)
	assert.Zero(t, snap.ChildCmdErrCounter)
	assert.Zero(t, snap.ChildCmdWarnCounter)
}

func TestCounters_SaturateInsteadOfWrap(t *testing.T) {
	var c telemetry.Counters
	c.CommandCounter = math.MaxUint32
	c.CommandCompleted(workitem.Copy, true)
	assert.EqualValues(t, math.MaxUint32, c.Snapshot().CommandCounter)
}

func TestMetrics_RecordDoesNotError(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("fm-go/test")
	m, err := telemetry.NewMetrics(meter)
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordCommand(ctx, workitem.Copy, true)
	m.RecordLoop(ctx, 0)
}
