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
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thoughtspot/mcp-server-sub000/pkg/thoughtspot"
	"go.uber.org/zap/zaptest"
)

func TestAnswerFetcher_Fetch(t *testing.T) {
	api := &mockAPI{
		singleAnswer: func(_ context.Context, question, datasourceID string) (thoughtspot.Session, error) {
			assert.Equal(t, "total revenue", question)
			assert.Equal(t, "ws-1", datasourceID)
			return thoughtspot.Session{SessionIdentifier: "sess-1", GenerationNumber: 2}, nil
		},
		exportAnswerData: func(_ context.Context, session thoughtspot.Session) (string, error) {
			assert.Equal(t, "sess-1", session.SessionIdentifier)
			return "revenue\n42", nil
		},
	}
	f := NewAnswerFetcher(api, zaptest.NewLogger(t))

	answer := f.Fetch(context.Background(), Question{Text: "total revenue", DatasourceID: "ws-1"}, false)
	require.NoError(t, answer.Err)
	assert.Equal(t, "revenue\n42", answer.Data)
	assert.Empty(t, answer.TML)
	assert.Equal(t, "sess-1", answer.Session.SessionIdentifier)
}

func TestAnswerFetcher_Fetch_WithTemplate(t *testing.T) {
	api := &mockAPI{
		exportAnswerTML: func(_ context.Context, _ thoughtspot.Session) (string, error) {
			return "answer: {search: revenue}", nil
		},
	}
	f := NewAnswerFetcher(api, zaptest.NewLogger(t))

	answer := f.Fetch(context.Background(), Question{Text: "q", DatasourceID: "ws-1"}, true)
	require.NoError(t, answer.Err)
	assert.NotEmpty(t, answer.Data)
	assert.Equal(t, "answer: {search: revenue}", answer.TML)
}

func TestAnswerFetcher_Fetch_SessionFailure(t *testing.T) {
	api := &mockAPI{
		singleAnswer: func(_ context.Context, _, _ string) (thoughtspot.Session, error) {
			return thoughtspot.Session{}, errors.New("backend down")
		},
	}
	f := NewAnswerFetcher(api, zaptest.NewLogger(t))

	answer := f.Fetch(context.Background(), Question{Text: "q", DatasourceID: "ws-1"}, true)
	require.Error(t, answer.Err)
	assert.Empty(t, answer.Data)
	assert.Empty(t, answer.TML)
}

func TestAnswerFetcher_Fetch_ExportFailuresAreIndependent(t *testing.T) {
	t.Run("data export fails, TML survives", func(t *testing.T) {
		api := &mockAPI{
			exportAnswerData: func(_ context.Context, _ thoughtspot.Session) (string, error) {
				return "", errors.New("data export failed")
			},
		}
		f := NewAnswerFetcher(api, zaptest.NewLogger(t))

		answer := f.Fetch(context.Background(), Question{Text: "q", DatasourceID: "ws-1"}, true)
		require.NoError(t, answer.Err)
		assert.Empty(t, answer.Data)
		assert.NotEmpty(t, answer.TML)
	})

	t.Run("TML export fails, data survives", func(t *testing.T) {
		api := &mockAPI{
			exportAnswerTML: func(_ context.Context, _ thoughtspot.Session) (string, error) {
				return "", errors.New("tml export failed")
			},
		}
		f := NewAnswerFetcher(api, zaptest.NewLogger(t))

		answer := f.Fetch(context.Background(), Question{Text: "q", DatasourceID: "ws-1"}, true)
		require.NoError(t, answer.Err)
		assert.NotEmpty(t, answer.Data)
		assert.Empty(t, answer.TML)
	})
}

func TestAnswerFetcher_Fetch_TruncatesData(t *testing.T) {
	var rows []string
	for i := 0; i < 250; i++ {
		rows = append(rows, fmt.Sprintf("row-%d", i))
	}
	api := &mockAPI{
		exportAnswerData: func(_ context.Context, _ thoughtspot.Session) (string, error) {
			return strings.Join(rows, "\n"), nil
		},
	}
	f := NewAnswerFetcher(api, zaptest.NewLogger(t))

	answer := f.Fetch(context.Background(), Question{Text: "q", DatasourceID: "ws-1"}, false)
	require.NoError(t, answer.Err)

	lines := strings.Split(answer.Data, "\n")
	assert.Len(t, lines, maxDataLines)
	assert.Equal(t, "row-0", lines[0])
	assert.Equal(t, "row-99", lines[len(lines)-1])
}

func TestTruncateLines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"empty", "", 3, ""},
		{"under cap", "a\nb", 3, "a\nb"},
		{"at cap", "a\nb\nc", 3, "a\nb\nc"},
		{"over cap", "a\nb\nc\nd", 3, "a\nb\nc"},
		{"trailing newline under cap", "a\nb\n", 3, "a\nb\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, truncateLines(tt.in, tt.max))
		})
	}
}
