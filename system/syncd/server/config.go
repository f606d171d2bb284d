package server

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/signadot/docsync/ir"
	"github.com/signadot/docsync/schema"
	"github.com/signadot/docsync/system/syncd/storage"
)

// Spec holds the runtime specification for the server.
// Config contains the serializable settings loaded from a file.
type Spec struct {
	Config *Config

	// Validator checks every served document.  Nil accepts everything.
	Validator schema.Validator
	// Initial is served when Store holds no snapshot.
	Initial *ir.Node
	Store   *storage.Store
	Log     *slog.Logger
	// Registry receives the server metrics.  Nil leaves them
	// unregistered.
	Registry prometheus.Registerer
}

// Config represents the syncd server configuration file structure.
type Config struct {
	// Listen is the TCP address for replica sessions.
	Listen string `yaml:"listen"`
	// MetricsListen, if set, is the HTTP address serving /metrics.
	MetricsListen string `yaml:"metricsListen"`
	// Schema is the path of a schema file checking the document.
	Schema string `yaml:"schema"`
	// Schemas are shared schema files registered by name before Schema
	// is loaded, so that its refs may name them.
	Schemas []string `yaml:"schemas"`
	// Initial is the path of the document served at startup.
	Initial string `yaml:"initial"`
	// StateFile persists the served document across restarts.
	StateFile string `yaml:"stateFile"`
	// SessionBuffer is the number of notifications queued per session
	// before a slow session is dropped.
	SessionBuffer int `yaml:"sessionBuffer"`
}

// LoadConfig loads a configuration file in YAML format.  Settings
// missing from the file keep their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.UnmarshalWithOptions(data, cfg, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Listen:        "localhost:9124",
		SessionBuffer: 100,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("config: listen address is required")
	}
	if c.SessionBuffer < 1 {
		return fmt.Errorf("config: sessionBuffer must be positive, got %d", c.SessionBuffer)
	}
	if c.MetricsListen != "" && c.MetricsListen == c.Listen {
		return fmt.Errorf("config: metricsListen and listen are both %s", c.Listen)
	}
	return nil
}
