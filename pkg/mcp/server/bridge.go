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
	"fmt"
	"net/url"
	"strings"

	"github.com/thoughtspot/mcp-server-sub000/pkg/mcp/protocol"
	"github.com/thoughtspot/mcp-server-sub000/pkg/orchestration"
	"github.com/thoughtspot/mcp-server-sub000/pkg/thoughtspot"
	"go.uber.org/zap"
)

// datasourceScheme is the URI scheme for data source resources:
// datasource:///{id}.
const datasourceScheme = "datasource"

// Bridge maps a ThoughtSpot instance to MCP tool and resource providers.
// It owns the orchestration components and the per-instance data source
// catalog; all other state is per-call, so concurrent tool calls on one
// bridge are safe.
type Bridge struct {
	api       thoughtspot.API
	logger    *zap.Logger
	mcpServer *MCPServer // set via SetMCPServer, used for progress notifications

	catalog    *orchestration.DataSourceCatalog
	decomposer *orchestration.QuestionDecomposer
	fetcher    *orchestration.AnswerFetcher
	pipeline   *orchestration.RefinementPipeline
	assembler  *orchestration.LiveboardAssembler

	tools    []protocol.Tool        // cached tool definitions
	handlers map[string]toolHandler // cached tool handlers (built once)
}

// NewBridge creates a bridge over the given ThoughtSpot API.
func NewBridge(api thoughtspot.API, logger *zap.Logger) *Bridge {
	if logger == nil {
		logger = zap.NewNop()
	}

	decomposer := orchestration.NewQuestionDecomposer(api, logger)
	fetcher := orchestration.NewAnswerFetcher(api, logger)

	b := &Bridge{
		api:        api,
		logger:     logger,
		catalog:    orchestration.NewDataSourceCatalog(api, logger),
		decomposer: decomposer,
		fetcher:    fetcher,
		pipeline:   orchestration.NewRefinementPipeline(decomposer, fetcher, logger),
		assembler:  orchestration.NewLiveboardAssembler(api, logger),
	}
	b.tools = b.buildToolDefinitions()
	b.handlers = b.buildToolHandlers()
	return b
}

// SetMCPServer wires the server so long-running tool calls can emit
// progress notifications.
func (b *Bridge) SetMCPServer(s *MCPServer) {
	b.mcpServer = s
}

// ListTools implements ToolProvider. The catalog is static and returned
// in definition order.
func (b *Bridge) ListTools(_ context.Context) ([]protocol.Tool, error) {
	return b.tools, nil
}

// CallTool implements ToolProvider. Unknown tool names and schema
// violations are protocol-level faults; everything else is left to the
// per-tool handler.
func (b *Bridge) CallTool(ctx context.Context, name string, args map[string]interface{}) (*protocol.CallToolResult, error) {
	handler, ok := b.handlers[name]
	if !ok {
		return nil, protocol.NewError(protocol.MethodNotFound, fmt.Sprintf("unknown tool: %s", name), nil)
	}

	tool, ok := b.toolByName(name)
	if !ok {
		return nil, protocol.NewError(protocol.MethodNotFound, fmt.Sprintf("unknown tool: %s", name), nil)
	}
	if args == nil {
		args = map[string]interface{}{}
	}
	if err := protocol.ValidateToolArguments(tool, args); err != nil {
		return nil, protocol.NewError(protocol.InvalidParams, err.Error(), nil)
	}

	b.logger.Debug("calling tool", zap.String("tool", name))
	return handler(ctx, args)
}

// ListResources implements ResourceProvider, mapping each discovered data
// source to a datasource:///{id} resource.
func (b *Bridge) ListResources(ctx context.Context) ([]protocol.Resource, error) {
	catalog, err := b.catalog.Get(ctx)
	if err != nil {
		return nil, err
	}

	resources := make([]protocol.Resource, 0, len(catalog.List))
	for _, ws := range catalog.List {
		resources = append(resources, protocol.Resource{
			URI:         datasourceScheme + ":///" + ws.ID,
			Name:        ws.Name,
			Description: ws.Description,
			MimeType:    "text/plain",
		})
	}
	return resources, nil
}

// ReadResource implements ResourceProvider. Malformed URIs fault with
// invalid params; unknown ids fault with resource-not-found.
func (b *Bridge) ReadResource(ctx context.Context, uri string) (*protocol.ReadResourceResult, error) {
	id, err := parseDatasourceURI(uri)
	if err != nil {
		return nil, protocol.NewError(protocol.InvalidParams, err.Error(), nil)
	}

	catalog, err := b.catalog.Get(ctx)
	if err != nil {
		return nil, err
	}

	ws, ok := catalog.ByID[id]
	if !ok {
		return nil, protocol.NewError(protocol.ResourceNotFound, fmt.Sprintf("unknown data source: %s", id), nil)
	}

	text := fmt.Sprintf(
		"Data source: %s (id %s)\n%s\n\nAsk questions against this source with the getRelevantQuestions or getRelevantData tools, passing datasourceIds: [%q].",
		ws.Name, ws.ID, ws.Description, ws.ID,
	)
	return &protocol.ReadResourceResult{
		Contents: []protocol.ResourceContents{
			{URI: uri, MimeType: "text/plain", Text: text},
		},
	}, nil
}

// parseDatasourceURI extracts the data source id from a
// datasource:///{id} URI.
func parseDatasourceURI(uri string) (string, error) {
	parsed, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("malformed resource URI %q: %v", uri, err)
	}
	if parsed.Scheme != datasourceScheme {
		return "", fmt.Errorf("unsupported resource URI scheme %q (expected %s:///{id})", parsed.Scheme, datasourceScheme)
	}
	id := strings.TrimPrefix(parsed.Path, "/")
	if parsed.Host != "" {
		// datasource://id parses the id as a host; accept it.
		id = parsed.Host + id
	}
	if id == "" {
		return "", fmt.Errorf("resource URI %q is missing the data source id", uri)
	}
	return id, nil
}

func (b *Bridge) toolByName(name string) (protocol.Tool, bool) {
	for _, t := range b.tools {
		if t.Name == name {
			return t, true
		}
	}
	return protocol.Tool{}, false
}

// progressFunc builds the progress callback for the current call, or nil
// when the client did not request progress or the server is not wired.
func (b *Bridge) progressFunc(ctx context.Context) orchestration.ProgressFunc {
	token := ProgressTokenFromContext(ctx)
	if token == "" || b.mcpServer == nil {
		return nil
	}
	return func(message string, progress float64) {
		b.mcpServer.NotifyProgress(token, message, progress)
	}
}

// toolHandler is a function that handles a specific tool call.
type toolHandler func(ctx context.Context, args map[string]interface{}) (*protocol.CallToolResult, error)
