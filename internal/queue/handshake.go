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

// Package queue implements the single-producer/single-consumer
// handshake between the high-priority command processor and the
// low-priority child worker (spec.md §4.1's "handshake queue"): a
// fixed-capacity ring buffer guarded by a mutex, with a buffered
// channel used purely as a wake signal for the blocking consumer side.
package queue

import (
	"errors"
	"sync"

	"github.com/classicvalues/fm-go/internal/workitem"
)

// ErrFull is returned by TryEnqueue when the queue is at capacity --
// the "queue full" event condition from spec.md §4.1/§8.
var ErrFull = errors.New("queue: full")

// Handshake is a bounded ring buffer of pending work items.
type Handshake struct {
	mu    sync.Mutex
	items []workitem.Item
	write int
	read  int
	count int
	wake  chan struct{}
}

// New constructs a Handshake with the given fixed capacity (the
// platform's CHILD_QUEUE_DEPTH).
func New(depth int) *Handshake {
	return &Handshake{
		items: make([]workitem.Item, depth),
		wake:  make(chan struct{}, 1),
	}
}

// Depth returns the queue's fixed capacity.
func (q *Handshake) Depth() int { return len(q.items) }

// Len returns the number of items currently enqueued.
func (q *Handshake) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

// HasCapacity reports whether the queue can currently accept another
// item -- the "child task available" validator every enqueuing command
// handler runs before doing its own work.
func (q *Handshake) HasCapacity() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count < len(q.items)
}

// TryEnqueue appends item without blocking, returning ErrFull if the
// queue is at capacity. It maintains the invariant
// count == (write - read) mod depth, count in [0, depth].
func (q *Handshake) TryEnqueue(item workitem.Item) error {
	q.mu.Lock()
	if q.count == len(q.items) {
		q.mu.Unlock()
		return ErrFull
	}
	q.items[q.write] = item
	q.write = (q.write + 1) % len(q.items)
	q.count++
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
	return nil
}

// DequeueBlocking blocks until an item is available (or done is
// closed), then returns it. It is the worker side of the handshake.
func (q *Handshake) DequeueBlocking(done <-chan struct{}) (workitem.Item, bool) {
	for {
		q.mu.Lock()
		if q.count > 0 {
			item := q.items[q.read]
			q.items[q.read] = nil
			q.read = (q.read + 1) % len(q.items)
			q.count--
			q.mu.Unlock()
			return item, true
		}
		q.mu.Unlock()

		select {
		case <-q.wake:
		case <-done:
			return nil, false
		}
	}
}
