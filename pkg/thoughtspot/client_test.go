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

package thoughtspot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(Config{BaseURL: srv.URL, Token: "test-token"}, zaptest.NewLogger(t))
	return c, srv
}

func TestClient_HasCredentials(t *testing.T) {
	logger := zaptest.NewLogger(t)
	assert.True(t, NewClient(Config{Token: "tok"}, logger).HasCredentials())
	assert.False(t, NewClient(Config{}, logger).HasCredentials())
}

func TestClient_GetRelevantQuestions(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/rest/2.0/ais/relevant-questions", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var body relevantQuestionsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "how is revenue doing", body.Query)
		assert.Equal(t, []string{"ws-1"}, body.DatasourceIDs)
		assert.Equal(t, "focus on EMEA", body.AdditionalContext)

		_, _ = w.Write([]byte(`{"questions":[
			{"question":"revenue by region","worksheet_id":"ws-1"},
			{"question":"revenue by month","worksheet_id":"ws-1"}
		]}`))
	})

	questions, err := c.GetRelevantQuestions(context.Background(), "how is revenue doing", []string{"ws-1"}, "focus on EMEA")
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, RelevantQuestion{Question: "revenue by region", DatasourceID: "ws-1"}, questions[0])
}

func TestClient_SingleAnswer(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/rest/2.0/ais/single-answer", r.URL.Path)

		var body singleAnswerRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "total revenue", body.Query)
		assert.Equal(t, "ws-1", body.MetadataIdentifier)

		_, _ = w.Write([]byte(`{"session_identifier":"sess-1","generation_number":3}`))
	})

	session, err := c.SingleAnswer(context.Background(), "total revenue", "ws-1")
	require.NoError(t, err)
	assert.Equal(t, Session{SessionIdentifier: "sess-1", GenerationNumber: 3}, session)
}

func TestClient_ExportAnswerData(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/rest/2.0/ais/answer/data", r.URL.Path)

		var body answerExportRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "sess-1", body.SessionIdentifier)
		assert.Equal(t, 3, body.GenerationNumber)

		_, _ = w.Write([]byte(`{"data":"region,revenue\nwest,100"}`))
	})

	data, err := c.ExportAnswerData(context.Background(), Session{SessionIdentifier: "sess-1", GenerationNumber: 3})
	require.NoError(t, err)
	assert.Equal(t, "region,revenue\nwest,100", data)
}

func TestClient_ExportAnswerTML(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/rest/2.0/ais/answer/tml", r.URL.Path)
		_, _ = w.Write([]byte(`{"tml":"answer: {search: revenue}"}`))
	})

	tml, err := c.ExportAnswerTML(context.Background(), Session{SessionIdentifier: "sess-1"})
	require.NoError(t, err)
	assert.Equal(t, "answer: {search: revenue}", tml)
}

func TestClient_ImportLiveboardTML(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/rest/2.0/metadata/tml/import", r.URL.Path)

		var body tmlImportRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.MetadataTMLs, 1)
		assert.Equal(t, "ALL_OR_NONE", body.ImportPolicy)

		_, _ = w.Write([]byte(`[{"response":{"status":{"status_code":"OK"},"header":{"id_guid":"lb-guid","name":"Board"}}}]`))
	})

	guid, err := c.ImportLiveboardTML(context.Background(), `{"liveboard":{}}`)
	require.NoError(t, err)
	assert.Equal(t, "lb-guid", guid)
}

func TestClient_ImportLiveboardTML_Rejected(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"response":{"status":{"status_code":"ERROR","error_message":"invalid TML"}}}]`))
	})

	_, err := c.ImportLiveboardTML(context.Background(), `{}`)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Message, "invalid TML")
}

func TestClient_SearchWorksheets(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/rest/2.0/metadata/search", r.URL.Path)

		var body metadataSearchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Metadata, 1)
		assert.Equal(t, "LOGICAL_TABLE", body.Metadata[0].Type)
		assert.Equal(t, worksheetPageSize, body.RecordSize)
		assert.Equal(t, "LAST_ACCESSED", body.SortOptions.FieldName)
		assert.Equal(t, "DESC", body.SortOptions.Order)

		_, _ = w.Write([]byte(`[
			{"metadata_id":"ws-1","metadata_name":"Sales","metadata_header":{"description":"Sales facts"}},
			{"metadata_id":"ws-2","metadata_name":"Inventory","metadata_header":{"description":""}}
		]`))
	})

	worksheets, err := c.SearchWorksheets(context.Background())
	require.NoError(t, err)
	require.Len(t, worksheets, 2)
	assert.Equal(t, Worksheet{ID: "ws-1", Name: "Sales", Description: "Sales facts"}, worksheets[0])
}

func TestClient_NonSuccessStatus(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("access denied"))
	})

	_, err := c.SearchWorksheets(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Equal(t, "access denied", apiErr.Message)
	assert.Contains(t, apiErr.Error(), "/api/rest/2.0/metadata/search")
}

func TestClient_LiveboardURL(t *testing.T) {
	c := NewClient(Config{BaseURL: "https://myco.thoughtspot.cloud/"}, zaptest.NewLogger(t))
	assert.Equal(t, "https://myco.thoughtspot.cloud/#/pinboard/lb-1", c.LiveboardURL("lb-1"))
}

func TestClient_NoAuthHeaderWithoutToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(Config{BaseURL: srv.URL}, zaptest.NewLogger(t))
	_, err := c.SearchWorksheets(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}
