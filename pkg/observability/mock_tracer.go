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

package observability

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MockTracer records spans and events in memory for test assertions.
type MockTracer struct {
	mu     sync.Mutex
	spans  []*Span
	events []Event
}

// NewMockTracer creates an empty mock tracer.
func NewMockTracer() *MockTracer {
	return &MockTracer{}
}

// StartSpan creates a span linked to any parent present in ctx.
func (m *MockTracer) StartSpan(ctx context.Context, name string, opts ...SpanOption) (context.Context, *Span) {
	span := &Span{
		TraceID:    uuid.New().String(),
		SpanID:     uuid.New().String(),
		Name:       name,
		StartTime:  time.Now(),
		Attributes: make(map[string]interface{}),
	}

	for _, opt := range opts {
		opt(span)
	}

	if parent := SpanFromContext(ctx); parent != nil {
		span.TraceID = parent.TraceID
		span.ParentID = parent.SpanID
	}

	return ContextWithSpan(ctx, span), span
}

// EndSpan finalizes the span and stores it for later inspection.
func (m *MockTracer) EndSpan(span *Span) {
	span.EndTime = time.Now()
	span.Duration = span.EndTime.Sub(span.StartTime)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.spans = append(m.spans, span)
}

// RecordEvent stores a standalone event.
func (m *MockTracer) RecordEvent(ctx context.Context, name string, attributes map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, Event{
		Timestamp:  time.Now(),
		Name:       name,
		Attributes: attributes,
	})
}

// Flush does nothing.
func (m *MockTracer) Flush(ctx context.Context) error {
	return nil
}

// Spans returns a copy of all ended spans.
func (m *MockTracer) Spans() []*Span {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Span, len(m.spans))
	copy(out, m.spans)
	return out
}

// SpanByName returns the first ended span with the given name, or nil.
func (m *MockTracer) SpanByName(name string) *Span {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.spans {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// Events returns a copy of all recorded standalone events.
func (m *MockTracer) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}

// Reset clears recorded spans and events.
func (m *MockTracer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.spans = nil
	m.events = nil
}

var _ Tracer = (*MockTracer)(nil)
