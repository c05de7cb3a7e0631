package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/cloudflare-mcp/internal/tools"
)

// RegisterTools registers every registry tool on s in registry order.
func RegisterTools(s *server.MCPServer, registry *tools.Registry) int {
	defs := registry.Definitions()
	for _, def := range defs {
		s.AddTool(BuildMCPTool(def), ToolHandler(registry, def.Name))
	}
	return len(defs)
}

// BuildMCPTool converts a tool definition into an mcp.Tool with the matching schema.
func BuildMCPTool(def tools.Definition) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(def.Description)}
	for _, p := range def.Params {
		opts = append(opts, buildParamOption(p))
	}
	return mcp.NewTool(def.Name, opts...)
}

func buildParamOption(p tools.Param) mcp.ToolOption {
	var opts []mcp.PropertyOption
	if p.Description != "" {
		opts = append(opts, mcp.Description(p.Description))
	}
	if p.Required {
		opts = append(opts, mcp.Required())
	}
	if len(p.Enum) > 0 {
		opts = append(opts, mcp.Enum(p.Enum...))
	}

	if p.Type == tools.TypeNumber {
		return mcp.WithNumber(p.Name, opts...)
	}
	return mcp.WithString(p.Name, opts...)
}

// ToolHandler dispatches a tool call through the registry. Unknown tools and
// invalid arguments are returned as errors, which mcp-go reports as JSON-RPC
// errors; every other outcome is a normal tool result.
func ToolHandler(registry *tools.Registry, name string) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		env, err := registry.Dispatch(ctx, name, r.GetArguments())
		if err != nil {
			return nil, err
		}
		return toCallToolResult(env), nil
	}
}

func toCallToolResult(env tools.Envelope) *mcp.CallToolResult {
	content := make([]mcp.Content, 0, len(env.Content))
	for _, item := range env.Content {
		content = append(content, mcp.NewTextContent(item.Text))
	}
	return &mcp.CallToolResult{Content: content}
}
