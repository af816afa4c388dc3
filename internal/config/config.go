package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for a reconstruction session.
type Config struct {
	Instance InstanceConfig `yaml:"instance"`
	Feed     FeedConfig     `yaml:"feed"`
	Capture  CaptureConfig  `yaml:"capture"`
	Log      LogConfig      `yaml:"log"`
}

// InstanceConfig identifies this session.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// FeedConfig holds live WebSocket feed settings.
type FeedConfig struct {
	URL                string        `yaml:"url"`
	Symbols            []string      `yaml:"symbols"`
	BufferSize         int           `yaml:"buffer_size"`
	PingInterval       time.Duration `yaml:"ping_interval"`
	ReadTimeout        time.Duration `yaml:"read_timeout"`
	WriteTimeout       time.Duration `yaml:"write_timeout"`
	ReconnectBaseDelay time.Duration `yaml:"reconnect_base_delay"`
	ReconnectMaxDelay  time.Duration `yaml:"reconnect_max_delay"`
}

// CaptureConfig holds historical replay settings.
type CaptureConfig struct {
	// ReportEvery prints book/tape state every N messages; 0 reports only
	// at end of stream.
	ReportEvery int `yaml:"report_every"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Load reads a YAML config file and expands environment variables.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// Expand ${VAR} environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config yaml: %w", err)
	}

	return &cfg, nil
}

// LoadAndValidate loads config, applies defaults, and validates.
func LoadAndValidate(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Default returns a config with all defaults applied, for commands that run
// without a config file.
func Default() *Config {
	var cfg Config
	cfg.ApplyDefaults()
	return &cfg
}
