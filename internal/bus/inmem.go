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

package bus

import (
	"sync"
	"time"
)

// InMemory is a Bus double backed by a channel; it's what the app, the
// command processor, and the worker are tested against.
type InMemory struct {
	mu          sync.Mutex
	depth       int
	subscribed  map[MessageID]bool
	inbox       chan *Message
	Published   []PublishedMessage
	receiveErr  error // next Receive call returns this, then clears it
}

// PublishedMessage records a Publish call for test assertions.
type PublishedMessage struct {
	MessageID MessageID
	Payload   []byte
}

// NewInMemory constructs an unconnected in-memory bus.
func NewInMemory() *InMemory {
	return &InMemory{subscribed: make(map[MessageID]bool)}
}

func (b *InMemory) CreatePipe(depth int, _ string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.depth = depth
	b.inbox = make(chan *Message, depth)
	return nil
}

func (b *InMemory) Subscribe(id MessageID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribed[id] = true
	return nil
}

// Send injects a message as if it arrived over the bus. It is the test
// harness's equivalent of a ground command uplink.
func (b *InMemory) Send(msg *Message) {
	b.inbox <- msg
}

// SetReceiveError forces the next Receive call to return err instead of
// reading the inbox, simulating a bus error.
func (b *InMemory) SetReceiveError(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.receiveErr = err
}

func (b *InMemory) Receive(timeout time.Duration) (*Message, error) {
	b.mu.Lock()
	if b.receiveErr != nil {
		err := b.receiveErr
		b.receiveErr = nil
		b.mu.Unlock()
		return nil, err
	}
	inbox := b.inbox
	b.mu.Unlock()

	select {
	case msg := <-inbox:
		return msg, nil
	case <-time.After(timeout):
		return nil, ErrTimeout
	}
}

func (b *InMemory) Publish(id MessageID, payload []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	cp := make([]byte, len(payload))
	copy(cp, payload)
	b.Published = append(b.Published, PublishedMessage{MessageID: id, Payload: cp})
	return nil
}
