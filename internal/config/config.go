// Package config loads commerce-mcp configuration with priority:
// defaults -> TOML file -> environment overrides.
package config

import (
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/merchkit/commerce-mcp/internal/common"
)

// Config holds all commerce-mcp configuration.
type Config struct {
	Server  ServerConfig         `toml:"server"`
	Backend BackendConfig        `toml:"backend"`
	Admin   AdminConfig          `toml:"admin"`
	Store   StoreConfig          `toml:"store"`
	Tools   ToolsConfig          `toml:"tools"`
	Logging common.LoggingConfig `toml:"logging"`
}

// ServerConfig holds MCP server settings.
type ServerConfig struct {
	Name string `toml:"name"`
	Port string `toml:"port"`
}

// BackendConfig holds the commerce backend location.
type BackendConfig struct {
	BaseURL string `toml:"base_url"`
}

// AdminConfig holds the privileged (admin) surface settings. Email and
// password are exchanged once at startup for a bearer token.
type AdminConfig struct {
	Email    string `toml:"email"`
	Password string `toml:"password"`
	SpecPath string `toml:"spec_path"`
}

// StoreConfig holds the public (store) surface settings.
type StoreConfig struct {
	PublishableKey string `toml:"publishable_key"`
	SpecPath       string `toml:"spec_path"`
}

// ToolsConfig is the allow-list consumed by the tool-set filter.
// When AllowAll is false and Allowed is non-empty, only the named tools
// are exposed.
type ToolsConfig struct {
	AllowAll bool     `toml:"allow_all"`
	Allowed  []string `toml:"allowed"`
}

// NewDefaultConfig returns a Config with sensible defaults.
func NewDefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Name: "Commerce-MCP",
			Port: "4280",
		},
		Backend: BackendConfig{
			BaseURL: "http://localhost:9000",
		},
		Admin: AdminConfig{
			SpecPath: "specs/admin.json",
		},
		Store: StoreConfig{
			SpecPath: "specs/store.json",
		},
		Tools: ToolsConfig{
			AllowAll: true,
		},
		Logging: common.LoggingConfig{
			Level:      "info",
			Outputs:    []string{"console", "file"},
			FilePath:   "logs/commerce-mcp.log",
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
	}
}

// Load loads configuration from a TOML file with defaults and env overrides.
// A missing file is not an error; the defaults and environment apply.
func Load(path string) (*Config, error) {
	cfg := NewDefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
			// File not found — use defaults
		} else {
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		}
	}

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides applies COMMERCE_* environment variable overrides.
func applyEnvOverrides(cfg *Config) {
	if url := os.Getenv("COMMERCE_BACKEND_URL"); url != "" {
		cfg.Backend.BaseURL = url
	}
	if port := os.Getenv("COMMERCE_MCP_PORT"); port != "" {
		cfg.Server.Port = port
	}
	if email := os.Getenv("COMMERCE_ADMIN_EMAIL"); email != "" {
		cfg.Admin.Email = email
	}
	if pw := os.Getenv("COMMERCE_ADMIN_PASSWORD"); pw != "" {
		cfg.Admin.Password = pw
	}
	if key := os.Getenv("COMMERCE_PUBLISHABLE_KEY"); key != "" {
		cfg.Store.PublishableKey = key
	}
	if level := os.Getenv("COMMERCE_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
}
