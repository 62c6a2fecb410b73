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

// Package orchestration implements the question-answering pipeline that
// sits between the MCP dispatch layer and the ThoughtSpot backend: data
// source discovery, query decomposition, per-question answer fetching
// with failure isolation, two-round refinement, and liveboard assembly.
package orchestration

import (
	"context"
	"fmt"
	"sync"

	"github.com/thoughtspot/mcp-server-sub000/pkg/thoughtspot"
	"go.uber.org/zap"
)

// Catalog is the discovered set of queryable data sources.
type Catalog struct {
	List []thoughtspot.Worksheet
	ByID map[string]thoughtspot.Worksheet
}

// IDs returns the data source ids in discovery order.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.List))
	for _, ws := range c.List {
		ids = append(ids, ws.ID)
	}
	return ids
}

// DataSourceCatalog lazily discovers and memoizes the worksheets visible
// to the current credentials. The cache lives for the catalog instance's
// lifetime; there is no invalidation or refresh path. Only a successful
// discovery is cached, so a failed first call is retried on the next Get.
//
// Two concurrent first calls may both hit the backend before either
// stores the result. That race is benign: discovery is idempotent and the
// duplicate call costs one extra request, not correctness.
type DataSourceCatalog struct {
	api    thoughtspot.API
	logger *zap.Logger

	mu     sync.RWMutex
	cached *Catalog
}

// NewDataSourceCatalog creates a catalog backed by the given API.
func NewDataSourceCatalog(api thoughtspot.API, logger *zap.Logger) *DataSourceCatalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DataSourceCatalog{api: api, logger: logger}
}

// Get returns the discovered catalog, performing the backend discovery
// request on first use. Backend errors propagate to the caller unchanged.
func (c *DataSourceCatalog) Get(ctx context.Context) (*Catalog, error) {
	c.mu.RLock()
	cached := c.cached
	c.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	worksheets, err := c.api.SearchWorksheets(ctx)
	if err != nil {
		return nil, fmt.Errorf("discover data sources: %w", err)
	}

	catalog := &Catalog{
		List: worksheets,
		ByID: make(map[string]thoughtspot.Worksheet, len(worksheets)),
	}
	for _, ws := range worksheets {
		catalog.ByID[ws.ID] = ws
	}

	c.mu.Lock()
	if c.cached == nil {
		c.cached = catalog
	} else {
		// Lost the first-access race; keep the stored value.
		catalog = c.cached
	}
	c.mu.Unlock()

	c.logger.Debug("data source catalog populated", zap.Int("count", len(catalog.List)))
	return catalog, nil
}
