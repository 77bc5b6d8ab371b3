// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the documentation catalog to LLM clients via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/Ankit1478/LLM-Internals/internal/apperr"
	"github.com/Ankit1478/LLM-Internals/internal/docservice"
	"github.com/Ankit1478/LLM-Internals/internal/index"
)

// RoadmapURI is the resource holding the navigation tree as JSON.
const RoadmapURI = "docs://roadmap"

// Server wraps the MCP server with documentation tools.
type Server struct {
	mcp *server.MCPServer
	svc *docservice.Service
}

// New creates a new MCP server with all documentation tools registered.
func New(svc *docservice.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"LLM Internals Docs",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_articles",
		mcp.WithDescription("Case-insensitive search through article titles, descriptions and bodies. "+
			"Title matches rank first."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of results (default 20)")),
	), s.searchArticles)

	s.mcp.AddTool(mcp.NewTool("read_article",
		mcp.WithDescription("Read one article by slug, including its body and previous/next topics."),
		mcp.WithString("slug", mcp.Required(), mcp.Description("Article slug (e.g. react-pattern)")),
	), s.readArticle)

	s.mcp.AddTool(mcp.NewTool("list_articles",
		mcp.WithDescription("List article summaries, optionally only those declaring a module."),
		mcp.WithNumber("module", mcp.Description("Optional zero-based module number")),
	), s.listArticles)

	s.mcp.AddTool(mcp.NewTool("get_module_topics",
		mcp.WithDescription("List the flat topics of a module. Modules organised into "+
			"sub-modules have no flat topics; use get_roadmap for those."),
		mcp.WithNumber("module", mcp.Required(), mcp.Description("Zero-based module number")),
	), s.getModuleTopics)

	s.mcp.AddTool(mcp.NewTool("get_roadmap",
		mcp.WithDescription("Returns the full navigation tree: modules, sub-modules and topics."),
	), s.getRoadmap)

	s.mcp.AddResource(
		mcp.NewResource(RoadmapURI, "Documentation Roadmap",
			mcp.WithResourceDescription("Navigation tree of every module and topic."),
			mcp.WithMIMEType("application/json"),
		),
		s.readRoadmapResource,
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

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) searchArticles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(ctx, query, req.GetInt("limit", index.DefaultLimit))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(results) == 0 {
		return mcp.NewToolResultText("no articles found"), nil
	}
	return jsonResult(results)
}

func (s *Server) readArticle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug, err := req.RequireString("slug")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	a, err := s.svc.GetArticle(ctx, slug)
	if errors.Is(err, apperr.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", slug)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(a)
}

func (s *Server) listArticles(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var module *int
	if _, ok := req.GetArguments()["module"]; ok {
		n, err := req.RequireInt("module")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		module = &n
	}
	return jsonResult(s.svc.Summaries(module))
}

func (s *Server) getModuleTopics(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	n, err := req.RequireInt("module")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(s.svc.ModuleTopics(n))
}

func (s *Server) getRoadmap(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.svc.Roadmap())
}

func (s *Server) readRoadmapResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	out, err := json.Marshal(s.svc.Roadmap())
	if err != nil {
		return nil, fmt.Errorf("mcpserver: encode roadmap: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      RoadmapURI,
			MIMEType: "application/json",
			Text:     string(out),
		},
	}, nil
}
