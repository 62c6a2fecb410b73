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

package server

import (
	"github.com/thoughtspot/mcp-server-sub000/pkg/mcp/protocol"
)

// buildToolHandlers builds the mapping from tool name to handler function.
// Called once during construction; the result is cached on the struct.
func (b *Bridge) buildToolHandlers() map[string]toolHandler {
	return map[string]toolHandler{
		"ping":                 b.handlePing,
		"getRelevantQuestions": b.handleGetRelevantQuestions,
		"getRelevantData":      b.handleGetRelevantData,
		"getAnswer":            b.handleGetAnswer,
		"createLiveboard":      b.handleCreateLiveboard,
	}
}

// ============================================================================
// Tool annotation helpers
// ============================================================================

// boolP returns a pointer to a bool value. Used for optional annotation fields.
func boolP(b bool) *bool { return &b }

// readOnlyAnnotation returns annotations for tools that only read data.
// readOnlyHint=true, destructiveHint=false, idempotentHint=true.
func readOnlyAnnotation() *protocol.ToolAnnotations {
	return &protocol.ToolAnnotations{
		ReadOnlyHint:    boolP(true),
		DestructiveHint: boolP(false),
		IdempotentHint:  boolP(true),
	}
}

// mutatingAnnotation returns annotations for tools that create or update data.
// readOnlyHint=false, destructiveHint=false.
func mutatingAnnotation() *protocol.ToolAnnotations {
	return &protocol.ToolAnnotations{
		ReadOnlyHint:    boolP(false),
		DestructiveHint: boolP(false),
	}
}

// ============================================================================
// Tool definitions
// ============================================================================

func (b *Bridge) buildToolDefinitions() []protocol.Tool {
	tool := func(name, desc string, schema map[string]interface{}, ann *protocol.ToolAnnotations) protocol.Tool {
		return protocol.Tool{
			Name:        name,
			Description: desc,
			InputSchema: schema,
			Annotations: ann,
		}
	}

	ro := readOnlyAnnotation()
	mut := mutatingAnnotation()

	answerSchema := objectSchema(
		reqProp("question", "string", "The question this answer responds to"),
		reqProp("sessionIdentifier", "string", "Answer session identifier returned by getAnswer or getRelevantData"),
		reqProp("generationNumber", "integer", "Answer session generation number"),
	)

	return []protocol.Tool{
		tool("ping", "Check connectivity and credentials against the ThoughtSpot instance.",
			objectSchema(), ro),
		tool("getRelevantQuestions", "Break a business query into concrete analytic questions, each mapped to the data source that can answer it.", objectSchema(
			reqProp("query", "string", "Free-text business question or analysis task"),
			arrayProp("datasourceIds", "string", "Data source ids to scope the questions to; defaults to all accessible data sources"),
			prop("additionalContext", "string", "Extra context to steer question generation (optional)"),
		), ro),
		tool("getRelevantData", "Answer a business query end to end: decompose it, fetch data for every sub-question, then refine with a follow-up round.", objectSchema(
			reqProp("query", "string", "Free-text business question or analysis task"),
			arrayProp("datasourceIds", "string", "Data source ids to scope the analysis to; defaults to all accessible data sources"),
			prop("additionalContext", "string", "Extra context to steer question generation (optional)"),
			prop("liveboardName", "string", "When set, pin the retrieved answers to a new liveboard with this name and return its URL"),
		), ro),
		tool("getAnswer", "Fetch tabular data for a single question against one data source.", objectSchema(
			reqProp("question", "string", "The question to answer"),
			reqProp("datasourceId", "string", "Data source id to answer against"),
		), ro),
		tool("createLiveboard", "Pin previously fetched answers to a new liveboard and return its viewer URL.", objectSchema(
			reqProp("name", "string", "Name for the new liveboard"),
			reqArrayOfObjects("answers", answerSchema, "Answers to pin, identified by their session identity"),
		), mut),
	}
}

// ============================================================================
// Schema helpers
// ============================================================================

type schemaProperty struct {
	name     string
	typ      string
	desc     string
	required bool
	items    map[string]interface{} // set for array properties
}

func prop(name, typ, desc string) schemaProperty {
	return schemaProperty{name: name, typ: typ, desc: desc, required: false}
}

func reqProp(name, typ, desc string) schemaProperty {
	return schemaProperty{name: name, typ: typ, desc: desc, required: true}
}

// arrayProp declares an optional array property whose items share one
// scalar type.
func arrayProp(name, itemType, desc string) schemaProperty {
	return schemaProperty{
		name:  name,
		typ:   "array",
		desc:  desc,
		items: map[string]interface{}{"type": itemType},
	}
}

// reqArrayOfObjects declares a required array property whose items follow
// the given object schema.
func reqArrayOfObjects(name string, itemSchema map[string]interface{}, desc string) schemaProperty {
	return schemaProperty{
		name:     name,
		typ:      "array",
		desc:     desc,
		required: true,
		items:    itemSchema,
	}
}

func objectSchema(props ...schemaProperty) map[string]interface{} {
	schema := map[string]interface{}{
		"type": "object",
	}

	if len(props) > 0 {
		properties := make(map[string]interface{})
		var required []string

		for _, p := range props {
			property := map[string]interface{}{
				"type":        p.typ,
				"description": p.desc,
			}
			if p.items != nil {
				property["items"] = p.items
			}
			properties[p.name] = property
			if p.required {
				required = append(required, p.name)
			}
		}

		schema["properties"] = properties
		if len(required) > 0 {
			schema["required"] = required
		}
	}

	return schema
}
