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
	"sync"

	"go.uber.org/zap"
)

// RefinementPipeline runs exactly two decomposition/fetch rounds for one
// query: round 1 answers the literal query, round 2 re-decomposes with
// the accumulated answer data as context to surface follow-up questions.
// The round count is fixed; bounding it keeps cost and latency
// deterministic.
type RefinementPipeline struct {
	decomposer *QuestionDecomposer
	fetcher    *AnswerFetcher
	logger     *zap.Logger
}

// NewRefinementPipeline creates a pipeline from its two stages.
func NewRefinementPipeline(decomposer *QuestionDecomposer, fetcher *AnswerFetcher, logger *zap.Logger) *RefinementPipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RefinementPipeline{
		decomposer: decomposer,
		fetcher:    fetcher,
		logger:     logger,
	}
}

// Run executes both rounds and returns the combined answers, round 1
// before round 2, each round in decomposition order. A round-1
// decomposition failure aborts the run; a round-2 decomposition failure
// degrades to the round-1 results with a logged warning, since the
// refinement round only ever adds answers. An empty round 1 is valid:
// round 2 proceeds with a no-prior-answers context. Progress is reported
// through progress (nil-safe, fire-and-forget).
func (p *RefinementPipeline) Run(ctx context.Context, query string, datasourceIDs []string, additionalContext string, wantTemplate bool, progress ProgressFunc) ([]Answer, error) {
	round1, err := p.decomposer.Decompose(ctx, query, datasourceIDs, additionalContext)
	if err != nil {
		return nil, err
	}
	progress.Report(describeRound("Analyzing", round1), 10)

	answers1 := p.fetchRound(ctx, round1, wantTemplate)
	progress.Report(fmt.Sprintf("Retrieved %d answers", countSucceeded(answers1)), 40)

	refinementContext := buildRefinementContext(answers1)
	round2, err := p.decomposer.Decompose(ctx, query, datasourceIDs, refinementContext)
	if err != nil {
		p.logger.Warn("refinement decomposition failed, returning first-round answers only",
			zap.String("query", query),
			zap.Error(err),
		)
		progress.Report("Done", 100)
		return answers1, nil
	}
	progress.Report(describeRound("Refining with", round2), 60)

	answers2 := p.fetchRound(ctx, round2, wantTemplate)
	progress.Report(fmt.Sprintf("Retrieved %d follow-up answers", countSucceeded(answers2)), 90)

	combined := make([]Answer, 0, len(answers1)+len(answers2))
	combined = append(combined, answers1...)
	combined = append(combined, answers2...)

	progress.Report("Done", 100)
	return combined, nil
}

// fetchRound answers all questions of one round concurrently, preserving
// decomposition order. Fetch contains its own failures inside each
// Answer; a panicking fetch is contained to its slot.
func (p *RefinementPipeline) fetchRound(ctx context.Context, questions []Question, wantTemplate bool) []Answer {
	answers := make([]Answer, len(questions))
	var wg sync.WaitGroup
	for i, q := range questions {
		wg.Add(1)
		go func(i int, q Question) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					p.logger.Error("answer fetch panicked",
						zap.String("question", q.Text),
						zap.Any("panic", r),
					)
					answers[i] = Answer{Question: q, Err: fmt.Errorf("fetch panicked: %v", r)}
				}
			}()
			answers[i] = p.fetcher.Fetch(ctx, q, wantTemplate)
		}(i, q)
	}
	wg.Wait()
	return answers
}

// buildRefinementContext summarizes the successful first-round answers so
// the second decomposition can ask follow-up questions without repeating
// what was already answered.
func buildRefinementContext(answers []Answer) string {
	var b strings.Builder
	b.WriteString("The following questions were already asked and answered. ")
	b.WriteString("Do not repeat them; suggest follow-up questions that deepen the analysis.\n\n")

	any := false
	for _, a := range answers {
		if a.Err != nil || a.Data == "" {
			continue
		}
		any = true
		b.WriteString("Question: ")
		b.WriteString(a.Question.Text)
		b.WriteString("\nData:\n")
		b.WriteString(a.Data)
		b.WriteString("\n\n")
	}
	if !any {
		b.WriteString("No prior answers were retrieved.\n")
	}
	return b.String()
}

func describeRound(verb string, questions []Question) string {
	if len(questions) == 0 {
		return verb + " 0 questions"
	}
	texts := make([]string, len(questions))
	for i, q := range questions {
		texts[i] = q.Text
	}
	return fmt.Sprintf("%s %d questions: %s", verb, len(questions), strings.Join(texts, "; "))
}

func countSucceeded(answers []Answer) int {
	n := 0
	for _, a := range answers {
		if a.Err == nil {
			n++
		}
	}
	return n
}
