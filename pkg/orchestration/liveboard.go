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
	"encoding/json"
	"fmt"

	"github.com/thoughtspot/mcp-server-sub000/pkg/thoughtspot"
	"go.uber.org/zap"
)

// tileSize is the fixed layout size assigned to every visualization.
const tileSize = "MEDIUM_SMALL"

// liveboardSpec is the TML document sent to the metadata import API.
type liveboardSpec struct {
	Liveboard liveboardBody `json:"liveboard"`
}

type liveboardBody struct {
	Name           string          `json:"name"`
	Visualizations []liveboardViz  `json:"visualizations"`
	Layout         liveboardLayout `json:"layout"`
}

type liveboardViz struct {
	ID        string `json:"id"`
	AnswerTML string `json:"answer_tml"`
}

type liveboardLayout struct {
	Tiles []liveboardTile `json:"tiles"`
}

type liveboardTile struct {
	VisualizationID string `json:"visualization_id"`
	Size            string `json:"size"`
}

// LiveboardAssembler composes answers that carry a TML template into a
// liveboard and imports it.
type LiveboardAssembler struct {
	api    thoughtspot.API
	logger *zap.Logger
}

// NewLiveboardAssembler creates an assembler backed by the given API.
func NewLiveboardAssembler(api thoughtspot.API, logger *zap.Logger) *LiveboardAssembler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LiveboardAssembler{api: api, logger: logger}
}

// Assemble filters answers to those with a template, builds the liveboard
// spec, imports it all-or-nothing, and returns the viewer URL. Answers
// whose template export failed are excluded silently; a failed subset
// never blocks creation. Visualization ids are the stable sequence Viz_0,
// Viz_1, ... in filtered order. Returns ErrNoData when no answer carries
// a template, and propagates import rejections unchanged.
func (a *LiveboardAssembler) Assemble(ctx context.Context, name string, answers []Answer) (string, error) {
	spec := liveboardSpec{
		Liveboard: liveboardBody{Name: name},
	}
	for _, answer := range answers {
		if answer.Err != nil || answer.TML == "" {
			continue
		}
		vizID := fmt.Sprintf("Viz_%d", len(spec.Liveboard.Visualizations))
		spec.Liveboard.Visualizations = append(spec.Liveboard.Visualizations, liveboardViz{
			ID:        vizID,
			AnswerTML: answer.TML,
		})
		spec.Liveboard.Layout.Tiles = append(spec.Liveboard.Layout.Tiles, liveboardTile{
			VisualizationID: vizID,
			Size:            tileSize,
		})
	}

	if len(spec.Liveboard.Visualizations) == 0 {
		return "", fmt.Errorf("assemble liveboard %q: %w", name, ErrNoData)
	}

	tml, err := json.Marshal(spec)
	if err != nil {
		return "", fmt.Errorf("serialize liveboard %q: %w", name, err)
	}

	guid, err := a.api.ImportLiveboardTML(ctx, string(tml))
	if err != nil {
		return "", fmt.Errorf("import liveboard %q: %w", name, err)
	}

	a.logger.Info("liveboard created",
		zap.String("name", name),
		zap.String("guid", guid),
		zap.Int("visualizations", len(spec.Liveboard.Visualizations)),
	)
	return a.api.LiveboardURL(guid), nil
}
