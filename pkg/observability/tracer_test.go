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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoOpTracer_SpanLifecycle(t *testing.T) {
	tracer := NewNoOpTracer()

	ctx, span := tracer.StartSpan(context.Background(), "test.operation")
	require.NotNil(t, span)
	assert.Equal(t, "test.operation", span.Name)
	assert.NotEmpty(t, span.TraceID)
	assert.NotEmpty(t, span.SpanID)

	tracer.EndSpan(span)
	assert.False(t, span.EndTime.IsZero())
	assert.GreaterOrEqual(t, span.Duration.Nanoseconds(), int64(0))

	// Child spans share the parent's trace.
	_, child := tracer.StartSpan(ctx, "test.child")
	assert.Equal(t, span.TraceID, child.TraceID)
	assert.Equal(t, span.SpanID, child.ParentID)
}

func TestSpan_RecordError(t *testing.T) {
	tracer := NewNoOpTracer()
	_, span := tracer.StartSpan(context.Background(), "op")

	span.RecordError(nil)
	assert.NotEqual(t, StatusError, span.Status.Code)

	span.RecordError(errors.New("boom"))
	assert.Equal(t, StatusError, span.Status.Code)
	assert.Equal(t, "boom", span.Status.Message)
}

func TestSpanOptions(t *testing.T) {
	tracer := NewNoOpTracer()
	_, span := tracer.StartSpan(context.Background(), "op",
		WithSpanKind("pipeline"),
		WithAttribute("query", "total revenue"),
	)

	assert.Equal(t, "pipeline", span.Attributes["span.kind"])
	assert.Equal(t, "total revenue", span.Attributes["query"])
}

func TestMockTracer_RecordsSpansAndEvents(t *testing.T) {
	tracer := NewMockTracer()

	_, span := tracer.StartSpan(context.Background(), "op")
	assert.Empty(t, tracer.Spans(), "span is recorded only once ended")

	tracer.EndSpan(span)
	require.Len(t, tracer.Spans(), 1)
	assert.NotNil(t, tracer.SpanByName("op"))
	assert.Nil(t, tracer.SpanByName("missing"))

	tracer.RecordEvent(context.Background(), "tool.usage", map[string]interface{}{"tool.name": "ping"})
	require.Len(t, tracer.Events(), 1)
	assert.Equal(t, "tool.usage", tracer.Events()[0].Name)

	tracer.Reset()
	assert.Empty(t, tracer.Spans())
	assert.Empty(t, tracer.Events())
}

func TestSpanContextPropagation(t *testing.T) {
	assert.Nil(t, SpanFromContext(context.Background()))

	span := &Span{TraceID: "t", SpanID: "s"}
	ctx := ContextWithSpan(context.Background(), span)
	assert.Same(t, span, SpanFromContext(ctx))
}
