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

// Package thoughtspot implements a client for the ThoughtSpot REST 2.0 API.
// It covers the capabilities the MCP server needs: query decomposition,
// single-answer retrieval, answer data/TML export, TML import, and
// worksheet discovery.
package thoughtspot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// API is the backend capability surface consumed by the orchestration
// layer. *Client implements it; tests substitute mocks.
type API interface {
	// HasCredentials reports whether an access token is configured.
	HasCredentials() bool

	// GetRelevantQuestions decomposes a free-text query into concrete
	// analytic sub-questions scoped to the given data sources. The 1:1
	// question/worksheet association from the response is preserved.
	GetRelevantQuestions(ctx context.Context, query string, datasourceIDs []string, additionalContext string) ([]RelevantQuestion, error)

	// SingleAnswer computes one answer and returns its session identity.
	SingleAnswer(ctx context.Context, question, datasourceID string) (Session, error)

	// ExportAnswerData exports the tabular data for an answer session.
	ExportAnswerData(ctx context.Context, session Session) (string, error)

	// ExportAnswerTML exports the portable TML definition for an answer session.
	ExportAnswerTML(ctx context.Context, session Session) (string, error)

	// ImportLiveboardTML imports a liveboard TML document (all-or-nothing)
	// and returns the created liveboard GUID.
	ImportLiveboardTML(ctx context.Context, tml string) (string, error)

	// SearchWorksheets lists queryable worksheets, most recently accessed
	// first, bounded to one page.
	SearchWorksheets(ctx context.Context) ([]Worksheet, error)

	// LiveboardURL builds a viewer URL for a liveboard GUID.
	LiveboardURL(guid string) string
}

// DefaultRequestTimeout is the per-call timeout applied to every REST
// request. Override with Config.Timeout.
const DefaultRequestTimeout = 30 * time.Second

// worksheetPageSize bounds the discovery request to one page.
const worksheetPageSize = 100

// Config holds configuration for the ThoughtSpot client.
type Config struct {
	// BaseURL is the instance origin, e.g. https://myco.thoughtspot.cloud.
	BaseURL string
	// Token is the bearer access token for the instance.
	Token string
	// Timeout is the per-request timeout. Defaults to DefaultRequestTimeout.
	Timeout time.Duration
}

// Client is an HTTP client for the ThoughtSpot REST 2.0 API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a ThoughtSpot REST client.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultRequestTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		logger:     logger,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// HasCredentials implements API.
func (c *Client) HasCredentials() bool {
	return c.token != ""
}

// GetRelevantQuestions implements API.
func (c *Client) GetRelevantQuestions(ctx context.Context, query string, datasourceIDs []string, additionalContext string) ([]RelevantQuestion, error) {
	req := relevantQuestionsRequest{
		Query:             query,
		DatasourceIDs:     datasourceIDs,
		AdditionalContext: additionalContext,
	}
	var resp relevantQuestionsResponse
	if err := c.post(ctx, "/api/rest/2.0/ais/relevant-questions", req, &resp); err != nil {
		return nil, err
	}

	questions := make([]RelevantQuestion, 0, len(resp.Questions))
	for _, q := range resp.Questions {
		questions = append(questions, RelevantQuestion{
			Question:     q.Question,
			DatasourceID: q.WorksheetID,
		})
	}
	return questions, nil
}

// SingleAnswer implements API.
func (c *Client) SingleAnswer(ctx context.Context, question, datasourceID string) (Session, error) {
	req := singleAnswerRequest{
		Query:              question,
		MetadataIdentifier: datasourceID,
	}
	var session Session
	if err := c.post(ctx, "/api/rest/2.0/ais/single-answer", req, &session); err != nil {
		return Session{}, err
	}
	return session, nil
}

// ExportAnswerData implements API.
func (c *Client) ExportAnswerData(ctx context.Context, session Session) (string, error) {
	req := answerExportRequest{
		SessionIdentifier: session.SessionIdentifier,
		GenerationNumber:  session.GenerationNumber,
	}
	var resp answerDataResponse
	if err := c.post(ctx, "/api/rest/2.0/ais/answer/data", req, &resp); err != nil {
		return "", err
	}
	return resp.Data, nil
}

// ExportAnswerTML implements API.
func (c *Client) ExportAnswerTML(ctx context.Context, session Session) (string, error) {
	req := answerExportRequest{
		SessionIdentifier: session.SessionIdentifier,
		GenerationNumber:  session.GenerationNumber,
	}
	var resp answerTMLResponse
	if err := c.post(ctx, "/api/rest/2.0/ais/answer/tml", req, &resp); err != nil {
		return "", err
	}
	return resp.TML, nil
}

// ImportLiveboardTML implements API.
func (c *Client) ImportLiveboardTML(ctx context.Context, tml string) (string, error) {
	req := tmlImportRequest{
		MetadataTMLs: []string{tml},
		ImportPolicy: "ALL_OR_NONE",
	}
	var resp tmlImportResponse
	if err := c.post(ctx, "/api/rest/2.0/metadata/tml/import", req, &resp); err != nil {
		return "", err
	}
	if len(resp) == 0 {
		return "", &APIError{
			StatusCode: http.StatusOK,
			Endpoint:   "/api/rest/2.0/metadata/tml/import",
			Message:    "empty import response",
		}
	}
	first := resp[0].Response
	if first.Status.StatusCode == "ERROR" {
		return "", &APIError{
			StatusCode: http.StatusOK,
			Endpoint:   "/api/rest/2.0/metadata/tml/import",
			Message:    first.Status.ErrorMessage,
		}
	}
	return first.Header.IDGUID, nil
}

// SearchWorksheets implements API.
func (c *Client) SearchWorksheets(ctx context.Context) ([]Worksheet, error) {
	req := metadataSearchRequest{
		Metadata:     []metadataSearchItem{{Type: "LOGICAL_TABLE"}},
		RecordOffset: 0,
		RecordSize:   worksheetPageSize,
		SortOptions: metadataSearchSortOptions{
			FieldName: "LAST_ACCESSED",
			Order:     "DESC",
		},
	}
	var resp metadataSearchResponse
	if err := c.post(ctx, "/api/rest/2.0/metadata/search", req, &resp); err != nil {
		return nil, err
	}

	worksheets := make([]Worksheet, 0, len(resp))
	for _, m := range resp {
		worksheets = append(worksheets, Worksheet{
			ID:          m.MetadataID,
			Name:        m.MetadataName,
			Description: m.MetadataHeader.Description,
		})
	}
	return worksheets, nil
}

// LiveboardURL implements API.
func (c *Client) LiveboardURL(guid string) string {
	return fmt.Sprintf("%s/#/pinboard/%s", c.baseURL, guid)
}

// post sends a JSON POST request and decodes the JSON response into out.
// Non-2xx responses are returned as *APIError with the response body as
// the message.
func (c *Client) post(ctx context.Context, endpoint string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request for %s: %w", endpoint, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request for %s: %w", endpoint, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("call %s: %w", endpoint, err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return fmt.Errorf("read response from %s: %w", endpoint, err)
	}

	c.logger.Debug("thoughtspot API call",
		zap.String("endpoint", endpoint),
		zap.Int("status", httpResp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return &APIError{
			StatusCode: httpResp.StatusCode,
			Endpoint:   endpoint,
			Message:    strings.TrimSpace(string(respBody)),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response from %s: %w", endpoint, err)
	}
	return nil
}

var _ API = (*Client)(nil)
