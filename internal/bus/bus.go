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

// Package bus abstracts the message-bus primitives (pipe create,
// receive, publish) that carry command packets in and telemetry
// packets out. spec.md §1 treats the bus as an external collaborator
// specified only at its interface; this package is that interface plus
// an in-memory double for tests.
package bus

import (
	"errors"
	"time"
)

// MessageID identifies a bus destination. FM subscribes to exactly two:
// the housekeeping-request MID and the command MID.
type MessageID uint16

// ErrTimeout is returned by Receive when no message arrived within the
// requested timeout -- the bus equivalent of CFE_SB_TIME_OUT.
var ErrTimeout = errors.New("bus: receive timeout")

// Message is an inbound buffer: a message ID, a function code (for
// command packets; zero for housekeeping requests), and the raw packet
// bytes (including any header the caller's codec expects).
type Message struct {
	MessageID MessageID
	FcnCode   uint8
	Payload   []byte
}

// Bus is the subset of software-bus behavior the service depends on.
type Bus interface {
	// CreatePipe creates (or re-opens) the command input pipe with the
	// given depth.
	CreatePipe(depth int, name string) error

	// Subscribe registers interest in a message ID on the pipe created by
	// CreatePipe.
	Subscribe(id MessageID) error

	// Receive blocks for up to timeout waiting for the next message on
	// the pipe. It returns ErrTimeout on timeout.
	Receive(timeout time.Duration) (*Message, error)

	// Publish transmits a telemetry buffer.
	Publish(id MessageID, payload []byte) error
}
