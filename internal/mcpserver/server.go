// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes raga recognition tools for LLM integration via stdio transport.
package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/swara/internal/apperr"
	"github.com/starford/swara/internal/models"
	"github.com/starford/swara/internal/recognizer"
)

// Recognizer is the part of recognizer.Service the tools need.
type Recognizer interface {
	Identify(ctx context.Context, path string) (*models.Prediction, error)
	Recognize(ctx context.Context, up recognizer.Upload) (*models.Prediction, error)
	Ragas() []models.Raga
	Raga(label string) (*models.Raga, error)
}

// Server wraps the MCP server with recognition tools.
type Server struct {
	mcp      *server.MCPServer
	svc      Recognizer
	maxBytes int64
}

// New creates a new MCP server with all tools registered. maxBytes caps
// clips passed inline or by URL.
func New(svc Recognizer, maxBytes int64) *Server {
	s := &Server{svc: svc, maxBytes: maxBytes}

	s.mcp = server.NewMCPServer(
		"Swara",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("classify_clip",
		mcp.WithDescription("Identify the raga of a WAV or MP3 recording. "+
			"Pass either a local file path or a source (base64 data URI or http/https URL)."),
		mcp.WithString("path", mcp.Description("Local path of the audio file")),
		mcp.WithString("source", mcp.Description("data:audio/wav;base64,... URI or http(s) URL of the clip")),
	), s.classifyClip)

	s.mcp.AddTool(mcp.NewTool("get_raga",
		mcp.WithDescription("Return the reference sheet of a raga: aaroh, avaroh, pakad, theory, "+
			"reference recordings and related Carnatic raga."),
		mcp.WithString("label", mcp.Required(), mcp.Description("Raga label, e.g. yaman or darbari_kanada")),
	), s.getRaga)

	s.mcp.AddTool(mcp.NewTool("list_ragas",
		mcp.WithDescription("List the labels of every raga the knowledge base describes."),
	), s.listRagas)

	s.mcp.AddResource(
		mcp.NewResource(notationURI, "Sargam Notation",
			mcp.WithResourceDescription("How swaras are written in aaroh, avaroh and pakad phrases."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readNotationResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

func (s *Server) classifyClip(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := req.GetString("path", "")
	source := req.GetString("source", "")

	var (
		pred *models.Prediction
		err  error
	)
	switch {
	case path != "" && source != "":
		return mcp.NewToolResultError("pass either path or source, not both"), nil
	case path != "":
		pred, err = s.svc.Identify(ctx, path)
	case source != "":
		var data []byte
		var ext string
		data, ext, err = s.fetchClip(ctx, source)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		pred, err = s.svc.Recognize(ctx, recognizer.Upload{Name: "clip" + ext, Body: bytes.NewReader(data)})
	default:
		return mcp.NewToolResultError("path or source is required"), nil
	}
	if err != nil {
		if errors.Is(err, apperr.ErrDecode) {
			return mcp.NewToolResultError("could not process the clip: it is not readable WAV or MP3 audio"), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}

	out, _ := json.MarshalIndent(pred, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getRaga(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	label, err := req.RequireString("label")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	raga, err := s.svc.Raga(label)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", label)), nil
	}
	out, _ := json.MarshalIndent(raga, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listRagas(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ragas := s.svc.Ragas()
	lines := make([]string, len(ragas))
	for i, r := range ragas {
		lines[i] = r.Label
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) readNotationResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      notationURI,
			MIMEType: "text/markdown",
			Text:     NotationGuide,
		},
	}, nil
}
