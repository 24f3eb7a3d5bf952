package api

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"
)

// ServerConfig holds server configuration. Duration fields are integer
// nanoseconds in the YAML file.
type ServerConfig struct {
	Addr           string        `yaml:"addr"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	MaxConcurrent  int           `yaml:"max_concurrent"`
	CORSOrigin     string        `yaml:"cors_origin"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(addr string) ServerConfig {
	return ServerConfig{
		Addr:           addr,
		ReadTimeout:    5 * time.Second,
		WriteTimeout:   5 * time.Second,
		RequestTimeout: 5 * time.Second,
		MaxConcurrent:  runtime.NumCPU() * 2,
		CORSOrigin:     "",
	}
}

// LoadConfig reads a YAML config file and overlays it on the defaults.
// Zero-valued fields in the file keep their default.
func LoadConfig(path string, defaults ServerConfig) (ServerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return defaults, fmt.Errorf("read config: %w", err)
	}

	var file ServerConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return defaults, fmt.Errorf("parse config: %w", err)
	}

	cfg := defaults
	if file.Addr != "" {
		cfg.Addr = file.Addr
	}
	if file.ReadTimeout > 0 {
		cfg.ReadTimeout = file.ReadTimeout
	}
	if file.WriteTimeout > 0 {
		cfg.WriteTimeout = file.WriteTimeout
	}
	if file.RequestTimeout > 0 {
		cfg.RequestTimeout = file.RequestTimeout
	}
	if file.MaxConcurrent > 0 {
		cfg.MaxConcurrent = file.MaxConcurrent
	}
	if file.CORSOrigin != "" {
		cfg.CORSOrigin = file.CORSOrigin
	}
	return cfg, nil
}
