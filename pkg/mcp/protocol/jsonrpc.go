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

// Package protocol implements the Model Context Protocol (MCP) JSON-RPC 2.0 layer.
package protocol

import (
	"encoding/json"
	"fmt"
)

// JSONRPCVersion is the only version string accepted on the wire.
const JSONRPCVersion = "2.0"

// Request is a JSON-RPC 2.0 request. A request without an ID is a
// notification and gets no response.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      *RequestID      `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response is a JSON-RPC 2.0 response. Exactly one of Result or Error
// is set; the ID echoes the request.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      *RequestID      `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// RequestID is a JSON-RPC request identifier. Clients may send either a
// string or a number; the server echoes back whichever form it received.
type RequestID struct {
	Str *string
	Num *int64
}

// NewNumericRequestID builds a numeric RequestID. Outgoing requests and
// tests use numeric ids; string ids only ever arrive from clients.
func NewNumericRequestID(n int64) *RequestID {
	return &RequestID{Num: &n}
}

func (r *RequestID) MarshalJSON() ([]byte, error) {
	switch {
	case r == nil:
		return []byte("null"), nil
	case r.Str != nil:
		return json.Marshal(r.Str)
	case r.Num != nil:
		return json.Marshal(r.Num)
	}
	return []byte("null"), nil
}

func (r *RequestID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		r.Str = &s
		return nil
	}

	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		r.Num = &n
		return nil
	}

	if string(data) == "null" {
		return nil
	}

	return fmt.Errorf("request id must be a string or number, got %s", data)
}

// String renders the id for log output. A nil or absent id renders as "null".
func (r *RequestID) String() string {
	switch {
	case r == nil:
		return "null"
	case r.Str != nil:
		return *r.Str
	case r.Num != nil:
		return fmt.Sprintf("%d", *r.Num)
	}
	return "null"
}

// Error is a JSON-RPC 2.0 error object. It implements the error
// interface so handlers can return it directly and have the original
// code survive to the response.
type Error struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Standard JSON-RPC error codes, plus the MCP resource-not-found code.
const (
	ParseError       = -32700 // Invalid JSON
	InvalidRequest   = -32600 // Invalid JSON-RPC
	MethodNotFound   = -32601 // Method doesn't exist
	InvalidParams    = -32602 // Invalid parameters
	InternalError    = -32603 // Internal error
	ServerError      = -32000 // Server-specific error (to -32099)
	ResourceNotFound = -32002 // MCP: requested resource does not exist
)

// NewError builds an Error with the given code and message. A non-nil
// data value is attached as the error's data payload; values that fail
// to marshal are silently dropped.
func NewError(code int, message string, data interface{}) *Error {
	e := &Error{
		Code:    code,
		Message: message,
	}
	if data != nil {
		if dataJSON, err := json.Marshal(data); err == nil {
			e.Data = dataJSON
		}
	}
	return e
}

func (e *Error) Error() string {
	if e.Data != nil {
		return fmt.Sprintf("JSON-RPC error %d: %s (data: %s)", e.Code, e.Message, e.Data)
	}
	return fmt.Sprintf("JSON-RPC error %d: %s", e.Code, e.Message)
}
