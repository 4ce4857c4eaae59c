// Package mcp exposes a running integration to automation agents over
// the Model Context Protocol: listing and triggering pipeline commands,
// inspecting the active context, and dry-run version queries.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ardenfx/stagehand/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Integration is the surface the MCP tools operate on. The root facade
// implements it.
type Integration interface {
	Status() (domain.EngineStatus, string)
	Context() *domain.Context
	Commands() []domain.Command
	Execute(ctx context.Context, name string) error
}

// VersionFunc answers a dry-run "what version would a publish claim"
// query for a work-file path.
type VersionFunc func(ctx context.Context, path string) (int, error)

// Server wraps the integration and exposes it as an MCP server.
type Server struct {
	integration Integration
	nextVersion VersionFunc
	mcpServer   *server.MCPServer
}

// ServerOption configures the Server.
type ServerOption func(*Server)

// WithVersionFunc enables the next_version tool.
func WithVersionFunc(fn VersionFunc) ServerOption {
	return func(s *Server) { s.nextVersion = fn }
}

// NewServer creates an MCP server for the integration.
func NewServer(integration Integration, version string, opts ...ServerOption) *Server {
	s := &Server{
		integration: integration,
		mcpServer:   server.NewMCPServer("stagehand-mcp", version),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE, shutting down
// gracefully when ctx is canceled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))
	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{Addr: addr, Handler: mux}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	// TOOL: list_commands
	s.mcpServer.AddTool(mcp.NewTool("list_commands",
		mcp.WithDescription("List the pipeline commands registered with the running engine."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		type entry struct {
			Name        string `json:"name"`
			App         string `json:"app,omitempty"`
			Type        string `json:"type"`
			Description string `json:"description,omitempty"`
		}
		commands := s.integration.Commands()
		out := make([]entry, 0, len(commands))
		for _, cmd := range commands {
			out = append(out, entry{
				Name:        cmd.Name,
				App:         cmd.Properties.App,
				Type:        string(cmd.Properties.Type),
				Description: cmd.Properties.Description,
			})
		}
		jsonBytes, _ := json.Marshal(out)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	// TOOL: execute_command
	s.mcpServer.AddTool(mcp.NewTool("execute_command",
		mcp.WithDescription("Execute a registered pipeline command by name."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Command name as listed by list_commands")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := request.GetString("name", "")
		if name == "" {
			return mcp.NewToolResultError("name is required"), nil
		}
		if err := s.integration.Execute(ctx, name); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("command failed: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("command %q executed", name)), nil
	})

	// TOOL: current_context
	s.mcpServer.AddTool(mcp.NewTool("current_context",
		mcp.WithDescription("Get the pipeline context the engine is bound to."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		pipelineCtx := s.integration.Context()
		if pipelineCtx == nil {
			status, reason := s.integration.Status()
			return mcp.NewToolResultError(fmt.Sprintf("no active context (status %s: %s)", status, reason)), nil
		}
		jsonBytes, _ := json.Marshal(pipelineCtx)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	// TOOL: next_version
	if s.nextVersion != nil {
		s.mcpServer.AddTool(mcp.NewTool("next_version",
			mcp.WithDescription("Compute the version number a publish of the given work file would claim."),
			mcp.WithString("path", mcp.Required(), mcp.Description("Absolute work-file path")),
		), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			path := request.GetString("path", "")
			if path == "" {
				return mcp.NewToolResultError("path is required"), nil
			}
			next, err := s.nextVersion(ctx, path)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("version query failed: %v", err)), nil
			}
			jsonBytes, _ := json.Marshal(map[string]int{"next_version": next})
			return mcp.NewToolResultText(string(jsonBytes)), nil
		})
	}
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource("stagehand://context", "Active Pipeline Context",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		pipelineCtx := s.integration.Context()
		if pipelineCtx == nil {
			return nil, fmt.Errorf("no active context")
		}
		jsonBytes, _ := json.Marshal(pipelineCtx)
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "stagehand://context",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
