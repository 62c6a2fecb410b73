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
	"sync/atomic"

	"github.com/thoughtspot/mcp-server-sub000/pkg/thoughtspot"
)

// mockAPI implements thoughtspot.API with overridable behavior per test.
type mockAPI struct {
	hasCredentials       bool
	getRelevantQuestions func(ctx context.Context, query string, datasourceIDs []string, additionalContext string) ([]thoughtspot.RelevantQuestion, error)
	singleAnswer         func(ctx context.Context, question, datasourceID string) (thoughtspot.Session, error)
	exportAnswerData     func(ctx context.Context, session thoughtspot.Session) (string, error)
	exportAnswerTML      func(ctx context.Context, session thoughtspot.Session) (string, error)
	importLiveboardTML   func(ctx context.Context, tml string) (string, error)
	searchWorksheets     func(ctx context.Context) ([]thoughtspot.Worksheet, error)

	searchCalls atomic.Int32
}

func (m *mockAPI) HasCredentials() bool { return m.hasCredentials }

func (m *mockAPI) GetRelevantQuestions(ctx context.Context, query string, datasourceIDs []string, additionalContext string) ([]thoughtspot.RelevantQuestion, error) {
	if m.getRelevantQuestions != nil {
		return m.getRelevantQuestions(ctx, query, datasourceIDs, additionalContext)
	}
	return nil, nil
}

func (m *mockAPI) SingleAnswer(ctx context.Context, question, datasourceID string) (thoughtspot.Session, error) {
	if m.singleAnswer != nil {
		return m.singleAnswer(ctx, question, datasourceID)
	}
	return thoughtspot.Session{SessionIdentifier: "sess", GenerationNumber: 1}, nil
}

func (m *mockAPI) ExportAnswerData(ctx context.Context, session thoughtspot.Session) (string, error) {
	if m.exportAnswerData != nil {
		return m.exportAnswerData(ctx, session)
	}
	return "col\nval", nil
}

func (m *mockAPI) ExportAnswerTML(ctx context.Context, session thoughtspot.Session) (string, error) {
	if m.exportAnswerTML != nil {
		return m.exportAnswerTML(ctx, session)
	}
	return "answer: {}", nil
}

func (m *mockAPI) ImportLiveboardTML(ctx context.Context, tml string) (string, error) {
	if m.importLiveboardTML != nil {
		return m.importLiveboardTML(ctx, tml)
	}
	return "guid-123", nil
}

func (m *mockAPI) SearchWorksheets(ctx context.Context) ([]thoughtspot.Worksheet, error) {
	m.searchCalls.Add(1)
	if m.searchWorksheets != nil {
		return m.searchWorksheets(ctx)
	}
	return []thoughtspot.Worksheet{
		{ID: "ws-1", Name: "Sales", Description: "Sales facts"},
	}, nil
}

func (m *mockAPI) LiveboardURL(guid string) string {
	return "https://ts.example.com/#/pinboard/" + guid
}

var _ thoughtspot.API = (*mockAPI)(nil)
