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

package telemetry

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/classicvalues/fm-go/internal/workitem"
)

// Metrics records main-loop latency and per-opcode outcome counts. It
// replaces the original's CFE performance-log bracketing
// (FM_AppInit/FM_AppMain's entry/exit perf IDs) with an OTel histogram,
// and mirrors the attribute-caching pattern used for high-cardinality
// per-operation labels so repeated recordings don't re-allocate an
// attribute.Set on every call.
type Metrics struct {
	meter metric.Meter

	loopLatency metric.Float64Histogram
	opcodeCount metric.Int64Counter

	mu    sync.Mutex
	attrs map[opcodeOutcome]metric.MeasurementOption
}

type opcodeOutcome struct {
	opcode workitem.Opcode
	ok     bool
}

// NewMetrics constructs a Metrics bound to meter. Construction errors
// from each instrument are joined so the caller sees every failure at
// once, in the style of a startup health check.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	var errs []error

	loopLatency, err := meter.Float64Histogram(
		"fm.main_loop.duration",
		metric.WithDescription("time spent processing one main-loop iteration"),
		metric.WithUnit("s"),
	)
	errs = append(errs, err)

	opcodeCount, err := meter.Int64Counter(
		"fm.command.count",
		metric.WithDescription("commands processed, by opcode and outcome"),
	)
	errs = append(errs, err)

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return &Metrics{
		meter:       meter,
		loopLatency: loopLatency,
		opcodeCount: opcodeCount,
		attrs:       make(map[opcodeOutcome]metric.MeasurementOption),
	}, nil
}

func (m *Metrics) attrFor(opcode workitem.Opcode, ok bool) metric.MeasurementOption {
	key := opcodeOutcome{opcode: opcode, ok: ok}
	m.mu.Lock()
	defer m.mu.Unlock()
	if opt, cached := m.attrs[key]; cached {
		return opt
	}
	opt := metric.WithAttributes(
		attribute.String("opcode", opcode.String()),
		attribute.Bool("ok", ok),
	)
	m.attrs[key] = opt
	return opt
}

// RecordLoop records how long one main-loop iteration took.
func (m *Metrics) RecordLoop(ctx context.Context, d time.Duration) {
	m.loopLatency.Record(ctx, d.Seconds())
}

// RecordCommand records one completed command's opcode and outcome.
func (m *Metrics) RecordCommand(ctx context.Context, opcode workitem.Opcode, ok bool) {
	m.opcodeCount.Add(ctx, 1, m.attrFor(opcode, ok))
}
