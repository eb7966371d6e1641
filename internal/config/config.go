// Package config loads promptfan runtime configuration from the state
// directory's config.yaml, layering file values and environment overrides
// over defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all promptfan configuration.
type Config struct {
	// Browser configures Chrome launch and control.
	Browser BrowserConfig `yaml:"browser"`

	// Orchestrator configures fan-out timing knobs.
	Orchestrator OrchestratorConfig `yaml:"orchestrator"`

	// Server configures the local control endpoint.
	Server ServerConfig `yaml:"server"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// BrowserConfig configures the driven Chrome instance.
type BrowserConfig struct {
	// Bin is the Chrome/Chromium binary. Empty lets the launcher find one.
	Bin string `yaml:"bin"`
	// DebuggerURL attaches to an already-running browser instead of
	// launching one.
	DebuggerURL string `yaml:"debugger_url"`
	Headless    bool   `yaml:"headless"`
	// LoadTimeout bounds the wait for a destination page's load event.
	LoadTimeout string `yaml:"load_timeout"`
}

// OrchestratorConfig configures the two-phase fan-out.
type OrchestratorConfig struct {
	// SettleDelay is inserted between successive window creations so the
	// host window manager keeps up with rapid-fire placement calls.
	SettleDelay string `yaml:"settle_delay"`
	// PositionTolerance is the per-dimension slack (px) before a bounds
	// correction is issued.
	PositionTolerance int `yaml:"position_tolerance"`
	// PositionRetries bounds bounds-correction attempts per window.
	PositionRetries int `yaml:"position_retries"`
	// PingInterval spaces readiness probes during the handshake.
	PingInterval string `yaml:"ping_interval"`
	// PingRetries bounds the handshake budget.
	PingRetries int `yaml:"ping_retries"`
	// InjectTimeout bounds one destination's detection+injection.
	InjectTimeout string `yaml:"inject_timeout"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LoggingConfig mirrors internal/logging's file-driven settings.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Categories map[string]bool `yaml:"categories"`
	Level      string          `yaml:"level"`
}

// DefaultStateDir returns the per-user state directory.
func DefaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".promptfan"
	}
	return filepath.Join(home, ".promptfan")
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Browser: BrowserConfig{
			Headless:    false,
			LoadTimeout: "20s",
		},
		Orchestrator: OrchestratorConfig{
			SettleDelay:       "150ms",
			PositionTolerance: 5,
			PositionRetries:   3,
			PingInterval:      "500ms",
			PingRetries:       20,
			InjectTimeout:     "25s",
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8674",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads config.yaml from the state directory, falling back to
// defaults when the file is absent.
func Load(stateDir string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filepath.Join(stateDir, "config.yaml"))
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the config back to the state directory.
func (c *Config) Save(stateDir string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return fmt.Errorf("failed to create state dir: %w", err)
	}
	return os.WriteFile(filepath.Join(stateDir, "config.yaml"), data, 0644)
}

func (c *Config) applyEnvOverrides() {
	if bin := os.Getenv("PROMPTFAN_CHROME_BIN"); bin != "" {
		c.Browser.Bin = bin
	}
	if url := os.Getenv("PROMPTFAN_DEBUGGER_URL"); url != "" {
		c.Browser.DebuggerURL = url
	}
	if os.Getenv("PROMPTFAN_HEADLESS") == "1" {
		c.Browser.Headless = true
	}
	if addr := os.Getenv("PROMPTFAN_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
}

// duration parses a config duration string, substituting a fallback on
// empty or malformed values rather than failing startup.
func duration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

// GetLoadTimeout returns the page-load wait bound.
func (c *Config) GetLoadTimeout() time.Duration {
	return duration(c.Browser.LoadTimeout, 20*time.Second)
}

// GetSettleDelay returns the inter-creation settle delay.
func (c *Config) GetSettleDelay() time.Duration {
	return duration(c.Orchestrator.SettleDelay, 150*time.Millisecond)
}

// GetPingInterval returns the handshake probe interval.
func (c *Config) GetPingInterval() time.Duration {
	return duration(c.Orchestrator.PingInterval, 500*time.Millisecond)
}

// GetInjectTimeout returns the per-destination injection bound.
func (c *Config) GetInjectTimeout() time.Duration {
	return duration(c.Orchestrator.InjectTimeout, 25*time.Second)
}
