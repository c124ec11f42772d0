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

package queue_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classicvalues/fm-go/internal/queue"
	"github.com/classicvalues/fm-go/internal/workitem"
)

func TestHandshake_EnqueueDequeueFIFO(t *testing.T) {
	q := queue.New(4)
	require.NoError(t, q.TryEnqueue(workitem.CreateDirItem{Directory: "/ram/a"}))
	require.NoError(t, q.TryEnqueue(workitem.CreateDirItem{Directory: "/ram/b"}))
	assert.Equal(t, 2, q.Len())

	item, ok := q.DequeueBlocking(nil)
	require.True(t, ok)
	assert.Equal(t, "/ram/a", item.(workitem.CreateDirItem).Directory)

	item, ok = q.DequeueBlocking(nil)
	require.True(t, ok)
	assert.Equal(t, "/ram/b", item.(workitem.CreateDirItem).Directory)
	assert.Equal(t, 0, q.Len())
}

func TestHandshake_FullReturnsErrFull(t *testing.T) {
	q := queue.New(2)
	require.NoError(t, q.TryEnqueue(workitem.CreateDirItem{Directory: "/a"}))
	require.NoError(t, q.TryEnqueue(workitem.CreateDirItem{Directory: "/b"}))
	assert.False(t, q.HasCapacity())
	assert.ErrorIs(t, q.TryEnqueue(workitem.CreateDirItem{Directory: "/c"}), queue.ErrFull)
}

func TestHandshake_DequeueBlocksUntilEnqueue(t *testing.T) {
	q := queue.New(1)
	done := make(chan struct{})
	result := make(chan workitem.Item, 1)

	go func() {
		item, ok := q.DequeueBlocking(done)
		if ok {
			result <- item
		}
	}()

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, q.TryEnqueue(workitem.CreateDirItem{Directory: "/late"}))

	select {
	case item := <-result:
		assert.Equal(t, "/late", item.(workitem.CreateDirItem).Directory)
	case <-time.After(time.Second):
		t.Fatal("dequeue never observed the enqueue")
	}
}

func TestHandshake_DequeueUnblocksOnDone(t *testing.T) {
	q := queue.New(1)
	done := make(chan struct{})
	finished := make(chan bool, 1)

	go func() {
		_, ok := q.DequeueBlocking(done)
		finished <- ok
	}()

	close(done)
	select {
	case ok := <-finished:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("dequeue never observed done")
	}
}

func TestHandshake_QueueCountInvariant(t *testing.T) {
	q := queue.New(3)
	for i := 0; i < 10; i++ {
		require.NoError(t, q.TryEnqueue(workitem.CreateDirItem{Directory: "/x"}))
		_, _ = q.DequeueBlocking(nil)
		assert.GreaterOrEqual(t, q.Len(), 0)
		assert.LessOrEqual(t, q.Len(), q.Depth())
	}
}
