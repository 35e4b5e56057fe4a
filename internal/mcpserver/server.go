// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes roamshare discovery and rewriting via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/roamshare/internal/apperr"
	"github.com/starford/roamshare/internal/noteservice"
)

const linkSyntaxURI = "roamshare://link-syntax"

// Server wraps the MCP server with roamshare tools.
type Server struct {
	mcp *server.MCPServer
	svc *noteservice.Service
}

// New creates a new MCP server with all roamshare tools registered.
func New(svc *noteservice.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"roamshare",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("discover_notes",
		mcp.WithDescription("Follow [[wikilinks]] breadth-first from a seed note and return the "+
			"set of notes that would be exported, wave by wave."),
		mcp.WithString("seed", mcp.Required(), mcp.Description("Seed note name (with or without .md)")),
		mcp.WithNumber("depth", mcp.Required(), mcp.Description("Number of link waves to follow (0 = seed only)")),
		mcp.WithArray("exclude", mcp.Description("Note names never to follow"),
			mcp.Items(map[string]any{"type": "string"})),
		mcp.WithBoolean("drop_empty", mcp.Description("Skip linked notes with zero length")),
	), s.discoverNotes)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List every note in the collection with its size and checksum."),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read the raw Markdown content of a note."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Note name (with or without .md)")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("rewrite_markup",
		mcp.WithDescription("Rewrite note markup for web publication. Links to exported notes become "+
			"hyperlinks under the prefix, links to other notes become plain text. Read the "+
			"syntax via the get_link_syntax tool or the "+linkSyntaxURI+" resource."),
		mcp.WithString("content", mcp.Required(), mcp.Description("Markdown to rewrite")),
		mcp.WithString("prefix", mcp.Description("Link prefix; rewriting is skipped when omitted")),
		mcp.WithArray("exported", mcp.Description("Names of the notes present in the export"),
			mcp.Items(map[string]any{"type": "string"})),
	), s.rewriteMarkup)

	s.mcp.AddTool(mcp.NewTool("get_link_syntax",
		mcp.WithDescription("Returns the link and emphasis syntax roamshare recognizes."),
	), s.getLinkSyntax)

	s.mcp.AddResource(
		mcp.NewResource(linkSyntaxURI, "Link Syntax",
			mcp.WithResourceDescription("Markup constructs roamshare follows and rewrites."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readLinkSyntaxResource,
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

func (s *Server) discoverNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	seed, err := req.RequireString("seed")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	depth, err := req.RequireInt("depth")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if depth < 0 {
		return mcp.NewToolResultError("depth must be non-negative"), nil
	}

	d, err := s.svc.Discover(ctx, noteservice.DiscoverRequest{
		Seed:      seed,
		Depth:     depth,
		Exclude:   req.GetStringSlice("exclude", nil),
		DropEmpty: req.GetBool("drop_empty", false),
	})
	if err != nil {
		if errors.Is(err, apperr.ErrSeedMissing) {
			return mcp.NewToolResultError(fmt.Sprintf("seed note not found: %s", seed)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(d, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	notes, err := s.svc.ListNotes(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(notes, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := s.svc.ReadNote(ctx, name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", name)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) rewriteMarkup(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var prefix *string
	if p, ok := req.GetArguments()["prefix"].(string); ok {
		prefix = &p
	}
	exported := req.GetStringSlice("exported", nil)
	return mcp.NewToolResultText(s.svc.Rewrite(content, exported, prefix)), nil
}

func (s *Server) getLinkSyntax(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(LinkSyntaxContract), nil
}

func (s *Server) readLinkSyntaxResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      linkSyntaxURI,
			MIMEType: "text/markdown",
			Text:     LinkSyntaxContract,
		},
	}, nil
}
