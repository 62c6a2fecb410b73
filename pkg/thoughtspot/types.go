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

import "fmt"

// Session identifies one computed answer on the backend. Both fields must
// be threaded unchanged between the single-answer call and any subsequent
// data or TML export for that answer.
type Session struct {
	SessionIdentifier string `json:"session_identifier"`
	GenerationNumber  int    `json:"generation_number"`
}

// RelevantQuestion is one analytic sub-question produced by query
// decomposition, paired with the worksheet it should be answered against.
type RelevantQuestion struct {
	Question     string `json:"question"`
	DatasourceID string `json:"datasource_id"`
}

// Worksheet describes one queryable data source.
type Worksheet struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// APIError is returned when the ThoughtSpot REST API rejects a call.
type APIError struct {
	StatusCode int
	Endpoint   string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("thoughtspot: %s returned %d: %s", e.Endpoint, e.StatusCode, e.Message)
}

// relevantQuestionsRequest is the body for /ais/relevant-questions.
type relevantQuestionsRequest struct {
	Query             string   `json:"query"`
	DatasourceIDs     []string `json:"datasource_ids"`
	AdditionalContext string   `json:"additional_context,omitempty"`
}

type relevantQuestionsResponse struct {
	Questions []struct {
		Question    string `json:"question"`
		WorksheetID string `json:"worksheet_id"`
	} `json:"questions"`
}

// singleAnswerRequest is the body for /ais/single-answer.
type singleAnswerRequest struct {
	Query              string `json:"query"`
	MetadataIdentifier string `json:"metadata_identifier"`
}

// answerExportRequest is the body for answer data and TML exports.
type answerExportRequest struct {
	SessionIdentifier string `json:"session_identifier"`
	GenerationNumber  int    `json:"generation_number"`
}

type answerDataResponse struct {
	Data string `json:"data"`
}

type answerTMLResponse struct {
	TML string `json:"tml"`
}

// tmlImportRequest is the body for /metadata/tml/import. ImportPolicy is
// always ALL_OR_NONE so a liveboard is never partially created.
type tmlImportRequest struct {
	MetadataTMLs []string `json:"metadata_tmls"`
	ImportPolicy string   `json:"import_policy"`
}

type tmlImportResponse []struct {
	Response struct {
		Status struct {
			StatusCode   string `json:"status_code"`
			ErrorMessage string `json:"error_message"`
		} `json:"status"`
		Header struct {
			IDGUID string `json:"id_guid"`
			Name   string `json:"name"`
		} `json:"header"`
	} `json:"response"`
}

// metadataSearchRequest is the body for /metadata/search, scoped to
// worksheet-type logical tables.
type metadataSearchRequest struct {
	Metadata     []metadataSearchItem      `json:"metadata"`
	RecordOffset int                       `json:"record_offset"`
	RecordSize   int                       `json:"record_size"`
	SortOptions  metadataSearchSortOptions `json:"sort_options"`
}

type metadataSearchItem struct {
	Type string `json:"type"`
}

type metadataSearchSortOptions struct {
	FieldName string `json:"field_name"`
	Order     string `json:"order"`
}

type metadataSearchResponse []struct {
	MetadataID     string `json:"metadata_id"`
	MetadataName   string `json:"metadata_name"`
	MetadataHeader struct {
		Description string `json:"description"`
	} `json:"metadata_header"`
}
