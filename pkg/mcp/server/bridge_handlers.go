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
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/thoughtspot/mcp-server-sub000/pkg/mcp/protocol"
	"github.com/thoughtspot/mcp-server-sub000/pkg/orchestration"
	"github.com/thoughtspot/mcp-server-sub000/pkg/thoughtspot"
	"go.uber.org/zap"
)

// ============================================================================
// Tool handlers
// ============================================================================

func (b *Bridge) handlePing(_ context.Context, _ map[string]interface{}) (*protocol.CallToolResult, error) {
	if !b.api.HasCredentials() {
		return errorResult("Not authenticated"), nil
	}
	return textResult("Pong"), nil
}

func (b *Bridge) handleGetRelevantQuestions(ctx context.Context, args map[string]interface{}) (*protocol.CallToolResult, error) {
	query := stringArg(args, "query")
	additionalContext := stringArg(args, "additionalContext")

	ids, err := b.resolveDatasourceIDs(ctx, args)
	if err != nil {
		return nil, err
	}

	questions, err := b.decomposer.Decompose(ctx, query, ids, additionalContext)
	if err != nil {
		// The raw query is still answerable as-is; fall back to it rather
		// than failing the call.
		b.logger.Warn("question decomposition failed, falling back to the raw query",
			zap.String("query", query),
			zap.Error(err),
		)
		questions = []orchestration.Question{{Text: query, DatasourceID: ids[0]}}
	}

	if len(questions) == 0 {
		return textResult("No relevant questions were found for this query."), nil
	}

	var sb strings.Builder
	structured := make([]interface{}, 0, len(questions))
	for i, q := range questions {
		fmt.Fprintf(&sb, "%d. %s (data source: %s)\n", i+1, q.Text, q.DatasourceID)
		structured = append(structured, map[string]interface{}{
			"question":     q.Text,
			"datasourceId": q.DatasourceID,
		})
	}

	result := textResult(sb.String())
	result.StructuredContent = map[string]interface{}{"questions": structured}
	return result, nil
}

func (b *Bridge) handleGetRelevantData(ctx context.Context, args map[string]interface{}) (*protocol.CallToolResult, error) {
	query := stringArg(args, "query")
	additionalContext := stringArg(args, "additionalContext")
	liveboardName := stringArg(args, "liveboardName")

	ids, err := b.resolveDatasourceIDs(ctx, args)
	if err != nil {
		return nil, err
	}

	progress := b.progressFunc(ctx)
	wantTemplate := liveboardName != ""

	answers, err := b.pipeline.Run(ctx, query, ids, additionalContext, wantTemplate, progress)
	if err != nil {
		return nil, err
	}

	succeeded := 0
	for _, a := range answers {
		if a.Err == nil {
			succeeded++
		}
	}
	if succeeded == 0 {
		return errorResult(fmt.Sprintf("No data found for query %q. Try rephrasing the question or scoping it to a different data source.", query)), nil
	}

	var sb strings.Builder
	structured := make([]interface{}, 0, succeeded)
	for _, a := range answers {
		if a.Err != nil {
			continue
		}
		fmt.Fprintf(&sb, "Question: %s\nData:\n%s\n\n", a.Question.Text, a.Data)
		structured = append(structured, map[string]interface{}{
			"question":          a.Question.Text,
			"datasourceId":      a.Question.DatasourceID,
			"data":              a.Data,
			"sessionIdentifier": a.Session.SessionIdentifier,
			"generationNumber":  a.Session.GenerationNumber,
		})
	}

	result := textResult(strings.TrimRight(sb.String(), "\n"))
	result.StructuredContent = map[string]interface{}{"answers": structured}

	if liveboardName != "" {
		url, err := b.assembler.Assemble(ctx, liveboardName, answers)
		switch {
		case errors.Is(err, orchestration.ErrNoData):
			b.logger.Warn("no answer carried a liveboard template, skipping liveboard creation",
				zap.String("liveboard", liveboardName),
			)
		case err != nil:
			// The data was retrieved; report the pinning failure without
			// discarding it.
			b.logger.Warn("liveboard creation failed",
				zap.String("liveboard", liveboardName),
				zap.Error(err),
			)
			result.Content = append(result.Content, protocol.Content{
				Type: "text",
				Text: fmt.Sprintf("Liveboard %q could not be created: %v", liveboardName, err),
			})
		default:
			result.Content = append(result.Content, protocol.Content{
				Type: "text",
				Text: fmt.Sprintf("Liveboard %q created: %s", liveboardName, url),
			})
			result.StructuredContent["liveboardUrl"] = url
		}
	}

	return result, nil
}

func (b *Bridge) handleGetAnswer(ctx context.Context, args map[string]interface{}) (*protocol.CallToolResult, error) {
	question := stringArg(args, "question")
	datasourceID := stringArg(args, "datasourceId")

	answer := b.fetcher.Fetch(ctx, orchestration.Question{Text: question, DatasourceID: datasourceID}, false)
	if answer.Err != nil {
		return nil, fmt.Errorf("answer %q: %w", question, answer.Err)
	}

	result := textResult(answer.Data)
	result.StructuredContent = map[string]interface{}{
		"question":          question,
		"datasourceId":      datasourceID,
		"data":              answer.Data,
		"sessionIdentifier": answer.Session.SessionIdentifier,
		"generationNumber":  answer.Session.GenerationNumber,
	}
	return result, nil
}

func (b *Bridge) handleCreateLiveboard(ctx context.Context, args map[string]interface{}) (*protocol.CallToolResult, error) {
	name := stringArg(args, "name")

	rawAnswers, _ := args["answers"].([]interface{})
	answers := make([]orchestration.Answer, 0, len(rawAnswers))
	for _, raw := range rawAnswers {
		entry, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		session := thoughtspot.Session{
			SessionIdentifier: stringArg(entry, "sessionIdentifier"),
			GenerationNumber:  intArg(entry, "generationNumber"),
		}

		// Re-export the template from the recorded session; an answer whose
		// export fails is excluded rather than blocking the liveboard.
		tml, err := b.api.ExportAnswerTML(ctx, session)
		if err != nil {
			b.logger.Warn("failed to export answer template, excluding from liveboard",
				zap.String("session_identifier", session.SessionIdentifier),
				zap.Error(err),
			)
			continue
		}
		answers = append(answers, orchestration.Answer{
			Question: orchestration.Question{Text: stringArg(entry, "question")},
			Session:  session,
			TML:      tml,
		})
	}

	url, err := b.assembler.Assemble(ctx, name, answers)
	if err != nil {
		if errors.Is(err, orchestration.ErrNoData) {
			return errorResult(fmt.Sprintf("No answers could be pinned to liveboard %q.", name)), nil
		}
		return nil, err
	}

	result := textResult(fmt.Sprintf("Liveboard %q created: %s", name, url))
	result.StructuredContent = map[string]interface{}{"liveboardUrl": url}
	return result, nil
}

// resolveDatasourceIDs reads datasourceIds from the arguments, defaulting
// to every discovered data source when absent or empty. An empty catalog
// is an error: nothing could be answered.
func (b *Bridge) resolveDatasourceIDs(ctx context.Context, args map[string]interface{}) ([]string, error) {
	ids := stringSliceArg(args, "datasourceIds")
	if len(ids) > 0 {
		return ids, nil
	}

	catalog, err := b.catalog.Get(ctx)
	if err != nil {
		return nil, err
	}
	ids = catalog.IDs()
	if len(ids) == 0 {
		return nil, errors.New("no accessible data sources were found")
	}
	return ids, nil
}

// ============================================================================
// Argument and result helpers
// ============================================================================

func stringArg(args map[string]interface{}, key string) string {
	s, _ := args[key].(string)
	return s
}

func intArg(args map[string]interface{}, key string) int {
	// JSON numbers decode as float64.
	if f, ok := args[key].(float64); ok {
		return int(f)
	}
	if i, ok := args[key].(int); ok {
		return i
	}
	return 0
}

func stringSliceArg(args map[string]interface{}, key string) []string {
	raw, ok := args[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func textResult(text string) *protocol.CallToolResult {
	return &protocol.CallToolResult{
		Content: []protocol.Content{{Type: "text", Text: text}},
	}
}

func errorResult(text string) *protocol.CallToolResult {
	return &protocol.CallToolResult{
		Content: []protocol.Content{{Type: "text", Text: text}},
		IsError: true,
	}
}
