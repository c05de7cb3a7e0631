package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/bobmcallan/cloudflare-mcp/internal/common"
	"github.com/bobmcallan/cloudflare-mcp/internal/telemetry"
)

// Config represents the application configuration.
type Config struct {
	Server     ServerConfig         `toml:"server"`
	Cloudflare CloudflareConfig     `toml:"cloudflare"`
	MCP        MCPConfig            `toml:"mcp"`
	Logging    common.LoggingConfig `toml:"logging"`
	Telemetry  telemetry.Config     `toml:"telemetry"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

// CloudflareConfig contains settings for the outbound Cloudflare API gateway.
// No token is configured here; callers pass one on every tool call.
type CloudflareConfig struct {
	BaseURL string `toml:"base_url"`
}

// MCPConfig contains the identity and session mode of the MCP server.
type MCPConfig struct {
	Name      string `toml:"name"`
	Stateless bool   `toml:"stateless"`
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies CFMCP_* environment variable overrides to config.
func applyEnvOverrides(config *Config) {
	if port := os.Getenv("CFMCP_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("CFMCP_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if baseURL := os.Getenv("CFMCP_CLOUDFLARE_BASE_URL"); baseURL != "" {
		config.Cloudflare.BaseURL = baseURL
	}
	if level := os.Getenv("CFMCP_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if enabled := os.Getenv("CFMCP_TELEMETRY_ENABLED"); enabled != "" {
		if b, err := strconv.ParseBool(enabled); err == nil {
			config.Telemetry.Enabled = b
		}
	}
	if endpoint := os.Getenv("CFMCP_TELEMETRY_ENDPOINT"); endpoint != "" {
		config.Telemetry.Endpoint = endpoint
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate returns a list of problems with the configuration, empty when valid.
func (c *Config) Validate() []string {
	var issues []string

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		issues = append(issues, fmt.Sprintf("server.port must be between 1 and 65535 (got %d)", c.Server.Port))
	}

	base := strings.TrimSpace(c.Cloudflare.BaseURL)
	if base == "" {
		issues = append(issues, "cloudflare.base_url is required")
	} else if u, err := url.Parse(base); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		issues = append(issues, fmt.Sprintf("cloudflare.base_url must be an absolute http(s) URL (got %q)", base))
	}

	if strings.TrimSpace(c.MCP.Name) == "" {
		issues = append(issues, "mcp.name is required")
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		issues = append(issues, fmt.Sprintf("telemetry.sample_ratio must be between 0 and 1 (got %g)", c.Telemetry.SampleRatio))
	}
	if ep := c.Telemetry.Endpoint; ep != "" {
		if u, err := url.Parse(ep); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			issues = append(issues, fmt.Sprintf("telemetry.endpoint must be an absolute http(s) URL (got %q)", ep))
		}
	}

	return issues
}

// Address returns the host:port the HTTP server listens on.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
