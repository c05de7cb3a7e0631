package server

import (
	"io"
	"net/http"

	"github.com/bobmcallan/cloudflare-mcp/internal/mcp"
)

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// SSE session transport: the event stream and its message endpoint
	mux.Handle(mcp.SSEPath, s.app.MCPHandler.SSE())
	mux.Handle(mcp.SSEMessagePath, s.app.MCPHandler.SSE())

	// Streamable HTTP transport (JSON-RPC over HTTP)
	mux.Handle(mcp.StreamablePath, s.app.MCPHandler)

	mux.HandleFunc("/", s.handleNotFound)

	return mux
}

// handleNotFound answers every path outside the MCP transports.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	io.WriteString(w, "Not found")
}
