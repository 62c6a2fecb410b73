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

package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID_Marshal(t *testing.T) {
	// String ids only arrive from clients; round-trip one through unmarshal.
	var strID RequestID
	require.NoError(t, json.Unmarshal([]byte(`"abc"`), &strID))
	data, err := json.Marshal(&strID)
	require.NoError(t, err)
	assert.Equal(t, `"abc"`, string(data))

	numID := NewNumericRequestID(42)
	data, err = json.Marshal(numID)
	require.NoError(t, err)
	assert.Equal(t, `42`, string(data))

	var nilID *RequestID
	data, err = json.Marshal(nilID)
	require.NoError(t, err)
	assert.Equal(t, `null`, string(data))
}

func TestRequestID_Unmarshal(t *testing.T) {
	var id RequestID
	require.NoError(t, json.Unmarshal([]byte(`"abc"`), &id))
	require.NotNil(t, id.Str)
	assert.Equal(t, "abc", *id.Str)

	var numID RequestID
	require.NoError(t, json.Unmarshal([]byte(`42`), &numID))
	require.NotNil(t, numID.Num)
	assert.Equal(t, int64(42), *numID.Num)

	var badID RequestID
	assert.Error(t, json.Unmarshal([]byte(`{"bad":true}`), &badID))
}

func TestRequestID_String(t *testing.T) {
	var strID RequestID
	require.NoError(t, json.Unmarshal([]byte(`"abc"`), &strID))
	assert.Equal(t, "abc", strID.String())
	assert.Equal(t, "7", NewNumericRequestID(7).String())

	var nilID *RequestID
	assert.Equal(t, "null", nilID.String())
}

func TestRequest_Roundtrip(t *testing.T) {
	req := Request{
		JSONRPC: "2.0",
		ID:      NewNumericRequestID(1),
		Method:  "tools/call",
		Params:  json.RawMessage(`{"name":"ping"}`),
	}

	data, err := json.Marshal(req)
	require.NoError(t, err)

	var decoded Request
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "tools/call", decoded.Method)
	assert.Equal(t, "1", decoded.ID.String())
	assert.JSONEq(t, `{"name":"ping"}`, string(decoded.Params))
}

func TestNewError(t *testing.T) {
	e := NewError(InvalidParams, "bad params", map[string]string{"field": "name"})
	assert.Equal(t, InvalidParams, e.Code)
	assert.Equal(t, "bad params", e.Message)
	assert.JSONEq(t, `{"field":"name"}`, string(e.Data))
	assert.Contains(t, e.Error(), "bad params")

	plain := NewError(InternalError, "boom", nil)
	assert.Nil(t, plain.Data)
	assert.Contains(t, plain.Error(), "boom")
}

func TestErrorCodes(t *testing.T) {
	assert.Equal(t, -32700, ParseError)
	assert.Equal(t, -32600, InvalidRequest)
	assert.Equal(t, -32601, MethodNotFound)
	assert.Equal(t, -32602, InvalidParams)
	assert.Equal(t, -32603, InternalError)
	assert.Equal(t, -32002, ResourceNotFound)
}
