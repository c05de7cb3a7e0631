// Package mcp adapts the tool registry to the Model Context Protocol using
// mcp-go, over streamable HTTP, SSE and stdio.
package mcp

import (
	"net/http"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/cloudflare-mcp/internal/common"
	"github.com/bobmcallan/cloudflare-mcp/internal/config"
	"github.com/bobmcallan/cloudflare-mcp/internal/tools"
)

// Transport paths.
const (
	StreamablePath = "/mcp"
	SSEPath        = "/sse"
	SSEMessagePath = "/sse/message"
)

// Handler owns the MCP server and its HTTP transports.
type Handler struct {
	server     *mcpserver.MCPServer
	streamable *mcpserver.StreamableHTTPServer
	sse        *mcpserver.SSEServer
	logger     *common.Logger
}

// NewHandler creates an MCP server exposing every tool in registry.
func NewHandler(cfg *config.Config, logger *common.Logger, registry *tools.Registry) *Handler {
	mcpSrv := mcpserver.NewMCPServer(
		cfg.MCP.Name,
		common.GetVersion(),
		mcpserver.WithToolCapabilities(true),
	)

	toolCount := RegisterTools(mcpSrv, registry)

	streamable := mcpserver.NewStreamableHTTPServer(mcpSrv,
		mcpserver.WithStateLess(cfg.MCP.Stateless),
	)
	sse := mcpserver.NewSSEServer(mcpSrv,
		mcpserver.WithSSEEndpoint(SSEPath),
		mcpserver.WithMessageEndpoint(SSEMessagePath),
	)

	logger.Info().
		Str("name", cfg.MCP.Name).
		Int("tools", toolCount).
		Str("cloudflare_api", cfg.Cloudflare.BaseURL).
		Msg("MCP handler initialized")

	return &Handler{
		server:     mcpSrv,
		streamable: streamable,
		sse:        sse,
		logger:     logger,
	}
}

// Server returns the underlying MCP server.
func (h *Handler) Server() *mcpserver.MCPServer {
	return h.server
}

// ServeHTTP serves the streamable HTTP transport.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.streamable.ServeHTTP(w, r)
}

// SSE returns the handler for the SSE stream and its message endpoint.
func (h *Handler) SSE() http.Handler {
	return h.sse
}

// ServeStdio serves MCP over stdin/stdout until stdin closes or the process
// is signalled.
func (h *Handler) ServeStdio() error {
	h.logger.Info().Msg("serving MCP over stdio")
	return mcpserver.ServeStdio(h.server)
}
