// Package config loads the application configuration: compiled-in
// defaults, overridden by an optional YAML file, with secrets taken from
// the environment.
package config

import (
	"fmt"
	"os"
	"time"
)

var DefaultConfig = []byte(`
application: "slipnorm"

logger:
  level: "info"

server:
  addr: ":8080"

db:
  path: "slipnorm.db"

ocr:
  endpoint: "https://api.opentyphoon.ai/v1/ocr"
  model: "typhoon-ocr-preview"
  timeout: 90s

batch:
  workers: 0
  max_slips: 50
`)

type Config struct {
	Application string `koanf:"application"`
	Logger      Logger `koanf:"logger"`
	Server      Server `koanf:"server"`
	DB          DB     `koanf:"db"`
	OCR         OCR    `koanf:"ocr"`
	Batch       Batch  `koanf:"batch"`
}

type Logger struct {
	Level string `koanf:"level"`
}

type Server struct {
	Addr string `koanf:"addr"`
}

type DB struct {
	// Path is the SQLite database file; ":memory:" keeps the slip
	// archive in process memory.
	Path string `koanf:"path"`
}

type OCR struct {
	Endpoint string        `koanf:"endpoint"`
	Model    string        `koanf:"model"`
	Timeout  time.Duration `koanf:"timeout"`
	APIKey   string        `koanf:"-"`
}

type Batch struct {
	// Workers bounds the normalization worker pool; 0 means one per CPU.
	Workers int `koanf:"workers"`
	// MaxSlips caps the number of slips accepted in one batch request.
	MaxSlips int `koanf:"max_slips"`
}

// LoadSecrets pulls secret values from the environment and overrides the
// file-based configuration.
func LoadSecrets(c Config) Config {
	if key := os.Getenv("OPENTYPHOON_API_KEY"); key != "" {
		c.OCR.APIKey = key
	}
	if path := os.Getenv("SLIPNORM_DB_PATH"); path != "" {
		c.DB.Path = path
	}
	return c
}

// Validate checks the configuration before the server starts. The OCR key
// is allowed to be empty: the /api/ocr endpoint then reports it as
// unconfigured while normalization of already-extracted text keeps
// working.
func (c *Config) Validate() error {
	if c.Application == "" {
		return fmt.Errorf("application: cannot be empty")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr: cannot be empty")
	}
	if c.DB.Path == "" {
		return fmt.Errorf("db.path: cannot be empty")
	}
	if c.OCR.Endpoint == "" {
		return fmt.Errorf("ocr.endpoint: cannot be empty")
	}
	if c.Batch.MaxSlips <= 0 {
		return fmt.Errorf("batch.max_slips: must be positive")
	}
	return nil
}
