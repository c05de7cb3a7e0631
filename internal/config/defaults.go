package config

import (
	"github.com/bobmcallan/cloudflare-mcp/internal/common"
	"github.com/bobmcallan/cloudflare-mcp/internal/telemetry"
)

// DefaultCloudflareBaseURL is the Cloudflare v4 REST API origin.
const DefaultCloudflareBaseURL = "https://api.cloudflare.com/client/v4"

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8787,
			Host: "localhost",
		},
		Cloudflare: CloudflareConfig{
			BaseURL: DefaultCloudflareBaseURL,
		},
		MCP: MCPConfig{
			Name:      "Cloudflare MCP Server",
			Stateless: true,
		},
		Logging: common.LoggingConfig{
			Level:   "info",
			Outputs: []string{"console"},
		},
		Telemetry: telemetry.Config{
			Enabled:     true,
			ServiceName: "cloudflare-mcp",
			SampleRatio: 1,
		},
	}
}
