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

package orchestration

import (
	"context"
	"fmt"

	"github.com/thoughtspot/mcp-server-sub000/pkg/thoughtspot"
	"go.uber.org/zap"
)

// Question is one concrete analytic sub-question paired with the data
// source it should be answered against.
type Question struct {
	Text         string
	DatasourceID string
}

// QuestionDecomposer turns a free-text query into ranked analytic
// sub-questions via the backend's decomposition capability.
type QuestionDecomposer struct {
	api    thoughtspot.API
	logger *zap.Logger
}

// NewQuestionDecomposer creates a decomposer backed by the given API.
func NewQuestionDecomposer(api thoughtspot.API, logger *zap.Logger) *QuestionDecomposer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuestionDecomposer{api: api, logger: logger}
}

// Decompose asks the backend to break query into sub-questions scoped to
// datasourceIDs. additionalContext is free text threaded to the backend
// (e.g. already-retrieved answer data). An empty result is valid and
// yields an empty slice. Backend failure surfaces to the caller; falling
// back to the raw query is a caller policy, not the decomposer's.
func (d *QuestionDecomposer) Decompose(ctx context.Context, query string, datasourceIDs []string, additionalContext string) ([]Question, error) {
	relevant, err := d.api.GetRelevantQuestions(ctx, query, datasourceIDs, additionalContext)
	if err != nil {
		return nil, fmt.Errorf("decompose query: %w", err)
	}

	questions := make([]Question, 0, len(relevant))
	for _, rq := range relevant {
		questions = append(questions, Question{
			Text:         rq.Question,
			DatasourceID: rq.DatasourceID,
		})
	}

	d.logger.Debug("query decomposed",
		zap.String("query", query),
		zap.Int("questions", len(questions)),
	)
	return questions, nil
}
