// Package config loads skimmer's settings from an optional TOML file with
// environment overrides. A missing file is not an error; defaults apply.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	// DefaultPort is the HTTP transport's default listening port.
	DefaultPort = 3000
	// DefaultOperationTimeoutSeconds bounds each page operation.
	DefaultOperationTimeoutSeconds = 30
)

// Config holds the process-wide settings.
type Config struct {
	// Port the HTTP transport listens on. Env: PORT.
	Port int `toml:"port"`
	// ExecutionMode is "local" or "hosted". Env: EXECUTION_MODE.
	ExecutionMode string `toml:"execution_mode"`
	// ExecutablePath overrides browser-executable discovery; required in
	// hosted mode. Env: CHROMIUM_PATH.
	ExecutablePath string `toml:"executable_path"`
	// OperationTimeoutSeconds bounds each page operation; 0 disables.
	OperationTimeoutSeconds *int `toml:"operation_timeout_seconds"`
}

// OperationTimeout returns the configured per-operation bound.
func (c *Config) OperationTimeout() time.Duration {
	secs := DefaultOperationTimeoutSeconds
	if c.OperationTimeoutSeconds != nil {
		secs = *c.OperationTimeoutSeconds
	}
	return time.Duration(secs) * time.Second
}

// DefaultPath returns the user config file location.
func DefaultPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".skimmer", "skimmer.toml")
}

// Load reads the config file at path (or the default location when path is
// empty), then applies environment overrides. A missing file yields the
// defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Port:          DefaultPort,
		ExecutionMode: "local",
	}

	explicit := path != ""
	if path == "" {
		path = DefaultPath()
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		case os.IsNotExist(err) && !explicit:
			// Default location, nothing there: run on defaults.
		default:
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Port = port
	}
	if v := os.Getenv("EXECUTION_MODE"); v != "" {
		c.ExecutionMode = v
	}
	if v := os.Getenv("CHROMIUM_PATH"); v != "" {
		c.ExecutablePath = v
	}
	return nil
}

func (c *Config) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.ExecutionMode != "local" && c.ExecutionMode != "hosted" {
		return fmt.Errorf("invalid execution_mode %q: must be \"local\" or \"hosted\"", c.ExecutionMode)
	}
	if c.OperationTimeoutSeconds != nil && *c.OperationTimeoutSeconds < 0 {
		return fmt.Errorf("operation_timeout_seconds must not be negative")
	}
	return nil
}
