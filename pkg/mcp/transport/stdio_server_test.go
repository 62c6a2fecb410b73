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
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStdioServerTransport_Send(t *testing.T) {
	var out bytes.Buffer
	tr := NewStdioServerTransport(strings.NewReader(""), &out)

	require.NoError(t, tr.Send(context.Background(), []byte(`{"jsonrpc":"2.0"}`)))
	assert.Equal(t, `{"jsonrpc":"2.0"}`+"\n", out.String())
}

func TestStdioServerTransport_Receive(t *testing.T) {
	in := strings.NewReader(`{"method":"ping"}` + "\n" + `{"method":"pong"}` + "\n")
	tr := NewStdioServerTransport(in, io.Discard)

	msg, err := tr.Receive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `{"method":"ping"}`, string(msg))

	msg, err = tr.Receive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `{"method":"pong"}`, string(msg))

	_, err = tr.Receive(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestStdioServerTransport_ReceiveTrimsCRLF(t *testing.T) {
	in := strings.NewReader("{\"method\":\"ping\"}\r\n")
	tr := NewStdioServerTransport(in, io.Discard)

	msg, err := tr.Receive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `{"method":"ping"}`, string(msg))
}

func TestStdioServerTransport_ReceiveSkipsEmptyLines(t *testing.T) {
	in := strings.NewReader("\n\n{\"method\":\"ping\"}\n")
	tr := NewStdioServerTransport(in, io.Discard)

	msg, err := tr.Receive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `{"method":"ping"}`, string(msg))
}

func TestStdioServerTransport_ReceiveContextCancelled(t *testing.T) {
	r, _ := io.Pipe() // never delivers data
	tr := NewStdioServerTransport(r, io.Discard)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := tr.Receive(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestStdioServerTransport_Close(t *testing.T) {
	tr := NewStdioServerTransport(strings.NewReader(""), io.Discard)
	require.NoError(t, tr.Close())

	err := tr.Send(context.Background(), []byte("{}"))
	assert.Error(t, err)

	_, err = tr.Receive(context.Background())
	assert.Error(t, err)
}
