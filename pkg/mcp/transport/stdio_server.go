// Copyright 2026 ThoughtSpot
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package transport

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
)

// readBufferSize bounds the size of a single incoming JSON-RPC line.
const readBufferSize = 1 << 20

// line is one newline-delimited read from the underlying reader, paired
// with the error that ended it.
type line struct {
	data []byte
	err  error
}

// StdioServerTransport speaks newline-delimited JSON-RPC over a
// reader/writer pair, typically os.Stdin and os.Stdout when the server
// runs as a subprocess of an MCP client.
//
// Reads happen on a single goroutine that lives for the transport's
// lifetime, so a Receive abandoned via context cancellation leaves no
// reader stuck behind it.
type StdioServerTransport struct {
	reader *bufio.Reader
	writer io.Writer
	mu     sync.Mutex // guards writer and closed
	closed bool

	lines chan line
	once  sync.Once // the read goroutine starts on the first Receive
}

// NewStdioServerTransport wraps r and w in a server-side stdio transport.
func NewStdioServerTransport(r io.Reader, w io.Writer) *StdioServerTransport {
	return &StdioServerTransport{
		reader: bufio.NewReaderSize(r, readBufferSize),
		writer: w,
		lines:  make(chan line, 1),
	}
}

func (t *StdioServerTransport) startReader() {
	t.once.Do(func() {
		go func() {
			defer close(t.lines)
			for {
				data, err := t.reader.ReadBytes('\n')
				t.lines <- line{data: data, err: err}
				if err != nil {
					return
				}
			}
		}()
	})
}

// Send writes one JSON-RPC message followed by a newline.
func (t *StdioServerTransport) Send(_ context.Context, message []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return fmt.Errorf("transport closed")
	}
	if _, err := t.writer.Write(message); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	if _, err := t.writer.Write([]byte("\n")); err != nil {
		return fmt.Errorf("write newline: %w", err)
	}
	return nil
}

// Receive blocks until the next non-empty message line arrives, the
// context is cancelled, or the reader ends. Trailing CR/LF is stripped;
// blank lines are skipped.
func (t *StdioServerTransport) Receive(ctx context.Context) ([]byte, error) {
	t.startReader()

	for {
		t.mu.Lock()
		closed := t.closed
		t.mu.Unlock()
		if closed {
			return nil, fmt.Errorf("transport closed")
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case l, ok := <-t.lines:
			if !ok {
				// The read goroutine exited after delivering its final
				// error; everything after that is EOF.
				return nil, io.EOF
			}
			if l.err != nil {
				if errors.Is(l.err, io.EOF) {
					return nil, io.EOF
				}
				return nil, fmt.Errorf("read message: %w", l.err)
			}
			msg := bytes.TrimRight(l.data, "\r\n")
			if len(msg) == 0 {
				continue
			}
			return msg, nil
		}
	}
}

// Close marks the transport closed. The underlying reader and writer are
// left open since they are usually the process's stdin and stdout; the
// read goroutine drains out when the reader does.
func (t *StdioServerTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	return nil
}
