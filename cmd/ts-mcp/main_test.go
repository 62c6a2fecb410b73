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

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, zap.DebugLevel, parseLogLevel("debug"))
	assert.Equal(t, zap.InfoLevel, parseLogLevel("info"))
	assert.Equal(t, zap.WarnLevel, parseLogLevel("warn"))
	assert.Equal(t, zap.ErrorLevel, parseLogLevel("error"))
	assert.Equal(t, zap.InfoLevel, parseLogLevel("bogus"))
	assert.Equal(t, zap.InfoLevel, parseLogLevel(""))
}

func TestBuildLogger_Stderr(t *testing.T) {
	logger, err := buildLogger("", "info")
	require.NoError(t, err)
	require.NotNil(t, logger)
	logger.Info("test message")
	_ = logger.Sync()
}

func TestBuildLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ts-mcp.log")

	logger, err := buildLogger(path, "debug")
	require.NoError(t, err)
	logger.Debug("written to file")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}

func TestBuildLogger_BadPath(t *testing.T) {
	_, err := buildLogger(filepath.Join(t.TempDir(), "missing", "dir", "x.log"), "info")
	require.Error(t, err)
}
