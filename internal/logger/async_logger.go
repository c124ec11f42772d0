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

package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// AsyncLogger decouples log writes from the caller by buffering them on a
// channel and draining them from a dedicated goroutine. This keeps a
// slow or rotating log sink from ever blocking the high-priority command
// processor thread.
type AsyncLogger struct {
	w       io.WriteCloser
	msgs    chan []byte
	done    chan struct{}
	closeWg sync.WaitGroup
}

// NewAsyncLogger starts the drain goroutine and returns the logger. bufSize
// is the number of pending messages the channel can hold before Write
// starts dropping.
func NewAsyncLogger(w io.WriteCloser, bufSize int) *AsyncLogger {
	a := &AsyncLogger{
		w:    w,
		msgs: make(chan []byte, bufSize),
		done: make(chan struct{}),
	}
	a.closeWg.Add(1)
	go a.run()
	return a
}

func (a *AsyncLogger) run() {
	defer a.closeWg.Done()
	for msg := range a.msgs {
		_, _ = a.w.Write(msg)
	}
}

// Write copies p and enqueues it for the drain goroutine. If the buffer
// is full the message is dropped and a warning is printed to stderr
// rather than blocking the caller.
func (a *AsyncLogger) Write(p []byte) (int, error) {
	cp := make([]byte, len(p))
	copy(cp, p)
	select {
	case a.msgs <- cp:
	default:
		fmt.Fprintln(os.Stderr, "asynclogger: log buffer is full, dropping message.")
	}
	return len(p), nil
}

// Close drains remaining buffered messages and closes the underlying
// writer.
func (a *AsyncLogger) Close() error {
	close(a.msgs)
	a.closeWg.Wait()
	return a.w.Close()
}
