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

// ts-mcp is an MCP (Model Context Protocol) server that exposes a
// ThoughtSpot instance to MCP clients (like Claude Desktop, VS Code).
//
// It communicates with MCP clients over stdio (JSON-RPC) and talks to
// ThoughtSpot over its REST API. Worksheets are exposed as MCP resources
// and the question-answering pipeline as MCP tools.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/thoughtspot/mcp-server-sub000/pkg/mcp/server"
	"github.com/thoughtspot/mcp-server-sub000/pkg/mcp/transport"
	"github.com/thoughtspot/mcp-server-sub000/pkg/thoughtspot"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	serverName    = "ts-mcp"
	serverVersion = "1.0.0"
)

var rootCmd = &cobra.Command{
	Use:   "ts-mcp",
	Short: "ThoughtSpot MCP server",
	Long: heredoc.Doc(`
		ts-mcp serves a ThoughtSpot instance to MCP clients over stdio.

		It exposes the instance's worksheets as MCP resources and its
		question-answering capabilities as MCP tools: decompose a business
		query into analytic questions, fetch tabular answers, and pin
		answers to liveboards.

		Configuration is read from flags, TS_* environment variables
		(TS_THOUGHTSPOT_URL, TS_THOUGHTSPOT_TOKEN), or a ts-mcp.yaml file
		in the working directory.

		Claude Desktop configuration (claude_desktop_config.json):

		  {
		    "mcpServers": {
		      "thoughtspot": {
		        "command": "/path/to/ts-mcp",
		        "env": {
		          "TS_THOUGHTSPOT_URL": "https://my-instance.thoughtspot.cloud",
		          "TS_THOUGHTSPOT_TOKEN": "..."
		        }
		      }
		    }
		  }
	`),
	Version:      serverVersion,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return run(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().String("url", "", "ThoughtSpot instance base URL")
	rootCmd.Flags().String("token", "", "ThoughtSpot API token (or use TS_THOUGHTSPOT_TOKEN)")
	rootCmd.Flags().String("log-file", "", "Log file path (defaults to stderr)")
	rootCmd.Flags().String("log-level", "info", "Log level (debug, info, warn, error)")

	_ = viper.BindPFlag("thoughtspot.url", rootCmd.Flags().Lookup("url"))
	_ = viper.BindPFlag("thoughtspot.token", rootCmd.Flags().Lookup("token"))
	_ = viper.BindPFlag("log.file", rootCmd.Flags().Lookup("log-file"))
	_ = viper.BindPFlag("log.level", rootCmd.Flags().Lookup("log-level"))

	cobra.OnInitialize(initConfig)
}

func initConfig() {
	viper.SetConfigName("ts-mcp")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("TS")
	// thoughtspot.url -> TS_THOUGHTSPOT_URL
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "error reading config file: %v\n", err)
			os.Exit(1)
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// CRITICAL: never log to stdout, that is the MCP transport.
	logger, err := buildLogger(viper.GetString("log.file"), viper.GetString("log.level"))
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	baseURL := viper.GetString("thoughtspot.url")
	if baseURL == "" {
		return fmt.Errorf("thoughtspot URL is required (--url or TS_THOUGHTSPOT_URL)")
	}

	logger.Info("starting ts-mcp server",
		zap.String("thoughtspot_url", baseURL),
		zap.String("version", serverVersion),
	)

	client := thoughtspot.NewClient(thoughtspot.Config{
		BaseURL: baseURL,
		Token:   viper.GetString("thoughtspot.token"),
	}, logger)

	bridge := server.NewBridge(client, logger)

	mcpServer := server.NewMCPServer(serverName, serverVersion, logger,
		server.WithToolProvider(bridge),
		server.WithResourceProvider(bridge),
	)

	// Wire the server back so long-running tool calls can emit progress.
	bridge.SetMCPServer(mcpServer)

	stdioTransport := transport.NewStdioServerTransport(os.Stdin, os.Stdout)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
		cancel()
	}()

	logger.Info("MCP server ready, awaiting client connections on stdio")
	if err := mcpServer.Serve(ctx, stdioTransport); err != nil {
		if ctx.Err() != nil {
			logger.Info("server stopped gracefully")
			return nil
		}
		logger.Error("server error", zap.Error(err))
		return err
	}
	return nil
}

// buildLogger creates a zap logger writing JSON to a file, or to stderr
// when no file is given. Stdout is never used: it carries the protocol.
func buildLogger(logFile, logLevel string) (*zap.Logger, error) {
	level := parseLogLevel(logLevel)

	var output zapcore.WriteSyncer
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600) // #nosec G304 -- log file path from CLI flag
		if err != nil {
			return nil, fmt.Errorf("open log file %s: %w", logFile, err)
		}
		output = zapcore.AddSync(f)
	} else {
		output = zapcore.AddSync(os.Stderr)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "ts"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		output,
		level,
	)

	return zap.New(core), nil
}

// parseLogLevel converts a string log level to a zapcore.Level.
func parseLogLevel(logLevel string) zapcore.Level {
	switch logLevel {
	case "debug":
		return zap.DebugLevel
	case "warn":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}
