// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the collector workflow for LLM integration via stdio
// transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ujupatipanno/trash-note/internal/collector"
	"github.com/ujupatipanno/trash-note/internal/ledger"
)

// Server wraps the MCP server with the collector tools.
type Server struct {
	mcp     *server.MCPServer
	svc     *collector.Service
	history *ledger.DB
}

// New creates a new MCP server with all collector tools registered.
func New(svc *collector.Service, history *ledger.DB) *Server {
	s := &Server{svc: svc, history: history}

	s.mcp = server.NewMCPServer(
		"trash-note",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("read_collector",
		mcp.WithDescription("Read the collector note. Returns its vault-relative path and full content. "+
			"The note is created on first access if it does not exist yet."),
	), s.readCollector)

	s.mcp.AddTool(mcp.NewTool("append_to_collector",
		mcp.WithDescription("Append a snippet to the end of the collector note. Entries go through "+
			"the append queue, so concurrent appends keep their order. Read the workflow first via "+
			"the trash-note://workflow resource if you are unsure how entries are formatted."),
		mcp.WithString("content", mcp.Required(), mcp.Description("Text to append (a blank separator line is added automatically)")),
	), s.appendToCollector)

	s.mcp.AddTool(mcp.NewTool("archive_collector",
		mcp.WithDescription("Snapshot the collector note into a new archive note and empty the collector. "+
			"Read the collector first if you need the content that is about to be archived."),
		mcp.WithString("title", mcp.Description("Archive note title; unsafe filename characters become \"-\". Empty uses a date placeholder.")),
	), s.archiveCollector)

	s.mcp.AddTool(mcp.NewTool("collector_history",
		mcp.WithDescription("Recent append and archive operations with aggregate stats, newest first."),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of entries to return (default 50)."),
			mcp.Min(1),
			mcp.Max(500),
		),
	), s.collectorHistory)

	// Resource: collector workflow guide.
	s.mcp.AddResource(
		mcp.NewResource("trash-note://workflow", "Collector Workflow",
			mcp.WithResourceDescription("How the collector note workflow is meant to be used."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readWorkflowResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) readCollector(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, content, err := s.svc.Content()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(map[string]string{"path": path, "content": content}, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) appendToCollector(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if content == "" {
		return mcp.NewToolResultError("content must not be empty"), nil
	}
	// A tool capture is a direct append, so no source note is recorded.
	if err := s.svc.Append(ctx, content, ""); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("appended to %s", s.svc.Path())), nil
}

func (s *Server) archiveCollector(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title := req.GetString("title", "")
	res, err := s.svc.Archive(title)
	if err != nil {
		if res != nil {
			return mcp.NewToolResultError(fmt.Sprintf("archive created at %s but collector not emptied: %v", res.Path, err)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(res, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) collectorHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", 50)
	entries, err := s.history.Recent(limit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	stats, err := s.history.Stats()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(map[string]any{"entries": entries, "stats": stats}, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readWorkflowResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "trash-note://workflow",
			MIMEType: "text/markdown",
			Text:     WorkflowGuide,
		},
	}, nil
}
