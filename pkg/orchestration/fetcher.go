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
	"strings"

	"github.com/thoughtspot/mcp-server-sub000/pkg/thoughtspot"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// maxDataLines caps the tabular data stored per answer, header included.
// The cap applies regardless of how many rows the backend returns.
const maxDataLines = 100

// Answer is the result of fetching one question. Exactly one of two
// shapes is produced: Err set with Data and TML empty (the answer session
// could not be obtained), or Err nil with Data/TML populated
// independently as their exports succeeded.
type Answer struct {
	Question Question
	Session  thoughtspot.Session
	Data     string
	TML      string
	Err      error
}

// AnswerFetcher obtains an answer session for a question and exports its
// data, and optionally its TML, keyed by that session.
type AnswerFetcher struct {
	api    thoughtspot.API
	logger *zap.Logger
}

// NewAnswerFetcher creates a fetcher backed by the given API.
func NewAnswerFetcher(api thoughtspot.API, logger *zap.Logger) *AnswerFetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnswerFetcher{api: api, logger: logger}
}

// Fetch answers one question. The data export and (when wantTemplate is
// set) the TML export run concurrently against the same answer session.
// An export failure is logged and leaves its field empty without
// affecting the other export or failing the answer; only a failure to
// obtain the session produces an Answer with Err set. Errors never
// escape Fetch, so batch callers can rely on one bad question not
// aborting the batch.
func (f *AnswerFetcher) Fetch(ctx context.Context, q Question, wantTemplate bool) Answer {
	session, err := f.api.SingleAnswer(ctx, q.Text, q.DatasourceID)
	if err != nil {
		f.logger.Warn("failed to obtain answer session",
			zap.String("question", q.Text),
			zap.String("datasource_id", q.DatasourceID),
			zap.Error(err),
		)
		return Answer{
			Question: q,
			Err:      fmt.Errorf("obtain answer session: %w", err),
		}
	}

	answer := Answer{Question: q, Session: session}

	var g errgroup.Group
	g.Go(func() error {
		data, err := f.api.ExportAnswerData(ctx, session)
		if err != nil {
			f.logger.Warn("answer data export failed",
				zap.String("question", q.Text),
				zap.String("session_identifier", session.SessionIdentifier),
				zap.Error(err),
			)
			return nil
		}
		answer.Data = truncateLines(data, maxDataLines)
		return nil
	})
	if wantTemplate {
		g.Go(func() error {
			tml, err := f.api.ExportAnswerTML(ctx, session)
			if err != nil {
				f.logger.Warn("answer TML export failed",
					zap.String("question", q.Text),
					zap.String("session_identifier", session.SessionIdentifier),
					zap.Error(err),
				)
				return nil
			}
			answer.TML = tml
			return nil
		})
	}
	_ = g.Wait() // goroutines swallow their own errors

	return answer
}

// truncateLines returns at most max lines of s, dropping any trailing
// partial content beyond the cap.
func truncateLines(s string, max int) string {
	if s == "" {
		return s
	}
	parts := strings.SplitAfterN(s, "\n", max+1)
	if len(parts) <= max {
		return s
	}
	return strings.TrimRight(strings.Join(parts[:max], ""), "\n")
}
