// Package mcp exposes document extraction and markdown rendering as MCP
// tools so agents can use docview without the HTTP server.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/jackzampolin/docview/internal/markdown"
	"github.com/jackzampolin/docview/internal/overlay"
	"github.com/jackzampolin/docview/internal/providers"
	"github.com/jackzampolin/docview/internal/types"
	"github.com/jackzampolin/docview/internal/upload"
	"github.com/jackzampolin/docview/version"
)

// ExtractRequest is the input of the extract_document tool.
type ExtractRequest struct {
	Path              string `json:"path"`
	IncludeMarginalia bool   `json:"include_marginalia"`
	Pages             string `json:"pages"`

	// PageWidth and PageHeight, when both set, add pixel boxes for a page
	// rendered at that size.
	PageWidth  float64 `json:"page_width"`
	PageHeight float64 `json:"page_height"`
}

// ExtractResponse is the output of the extract_document tool.
type ExtractResponse struct {
	FileName  string         `json:"file_name"`
	Markdown  string         `json:"markdown"`
	PageCount int            `json:"page_count"`
	Chunks    []ChunkSummary `json:"chunks"`
	Sample    bool           `json:"sample,omitempty"`
}

// ChunkSummary is one chunk in an ExtractResponse.
type ChunkSummary struct {
	ID   string `json:"id"`
	Type string `json:"type"`

	// Page is 1-based; 0 when the chunk has no grounding.
	Page  int        `json:"page"`
	Text  string     `json:"text"`
	Boxes []ChunkBox `json:"boxes,omitempty"`
}

// ChunkBox is one grounding entry of a chunk.
type ChunkBox struct {
	// Page is 1-based.
	Page   int                `json:"page"`
	Rect   overlay.Rect       `json:"rect"`
	Pixels *overlay.PixelRect `json:"pixels,omitempty"`
}

// RenderRequest is the input of the render_markdown tool.
type RenderRequest struct {
	Markdown string `json:"markdown"`
}

// Options configures the tools.
type Options struct {
	Extractor providers.Extractor
	Limits    upload.Limits
	Renderer  *markdown.Renderer
}

// NewServer creates an MCP server with the extract_document and
// render_markdown tools. extract_document is only added when an
// extractor is configured.
func NewServer(opts Options) *server.MCPServer {
	if opts.Renderer == nil {
		opts.Renderer = markdown.Default()
	}
	if opts.Limits.MaxBytes == 0 {
		opts.Limits = upload.DefaultLimits()
	}

	s := server.NewMCPServer(
		"docview",
		version.GitRelease,
		server.WithToolCapabilities(false),
	)

	renderTool := mcp.NewTool("render_markdown",
		mcp.WithDescription("Normalize extraction markdown (HTML tables to pipe tables, strip comments, render math) and convert it to sanitized HTML"),
		mcp.WithString("markdown",
			mcp.Required(),
			mcp.Description("Markdown as returned by the extraction API"),
		),
	)
	s.AddTool(renderTool, mcp.NewTypedToolHandler(renderHandler(opts.Renderer)))

	if opts.Extractor != nil {
		extractTool := mcp.NewTool("extract_document",
			mcp.WithDescription("Extract a local JPEG, PNG or PDF into markdown and grounded chunks"),
			mcp.WithString("path",
				mcp.Required(),
				mcp.Description("Path of the document on the local filesystem"),
			),
			mcp.WithBoolean("include_marginalia",
				mcp.Description("Keep headers, footers and page numbers"),
			),
			mcp.WithString("pages",
				mcp.Description("Page selection passed to the extraction API, e.g. 0,2-4"),
			),
			mcp.WithNumber("page_width",
				mcp.Description("Rendered page width in pixels; with page_height adds pixel boxes"),
			),
			mcp.WithNumber("page_height",
				mcp.Description("Rendered page height in pixels"),
			),
		)
		s.AddTool(extractTool, mcp.NewTypedToolHandler(extractHandler(opts.Extractor, opts.Limits)))
	}

	return s
}

func extractHandler(extractor providers.Extractor, limits upload.Limits) func(context.Context, mcp.CallToolRequest, ExtractRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args ExtractRequest) (*mcp.CallToolResult, error) {
		if args.Path == "" {
			return mcp.NewToolResultError("path is required"), nil
		}

		file, err := limits.ReadFile(args.Path)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		result, err := extractor.Extract(ctx, &providers.ExtractRequest{
			FileName:          file.Name,
			Kind:              file.Kind,
			Data:              file.Data,
			IncludeMarginalia: args.IncludeMarginalia,
			Pages:             args.Pages,
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("extraction failed: %v", err)), nil
		}

		doc := result.Document
		resp := ExtractResponse{
			FileName:  file.Name,
			Markdown:  markdown.Normalize(doc.Markdown),
			PageCount: doc.ComputedPageCount(),
			Sample:    result.Sample,
		}
		for _, ch := range doc.Chunks {
			summary := ChunkSummary{ID: ch.ChunkID, Type: string(ch.ChunkType), Text: ch.Text}
			if p, ok := ch.FirstPage(); ok {
				summary.Page = types.UIPage(p)
			}
			for _, g := range ch.Grounding {
				box := ChunkBox{Page: types.UIPage(g.Page), Rect: overlay.PercentRect(g.Box)}
				if args.PageWidth > 0 && args.PageHeight > 0 {
					px := overlay.ToPixels(g.Box, args.PageWidth, args.PageHeight)
					box.Pixels = &px
				}
				summary.Boxes = append(summary.Boxes, box)
			}
			resp.Chunks = append(resp.Chunks, summary)
		}
		return jsonResult(resp)
	}
}

func renderHandler(renderer *markdown.Renderer) func(context.Context, mcp.CallToolRequest, RenderRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args RenderRequest) (*mcp.CallToolResult, error) {
		if args.Markdown == "" {
			return mcp.NewToolResultError("markdown is required"), nil
		}
		rendered, err := renderer.Render(args.Markdown)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(rendered)
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// ServeStdio runs s over stdin and stdout until the client disconnects.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}
