package config

import (
	"fmt"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"ec2lister/pkg/logging"
)

// Config holds the server settings. AWS credentials are not part of this
// file; they come from the SDK's default credential chain, read once at
// startup.
type Config struct {
	ListenAddr             string `hcl:"listen_addr,optional"`
	LogLevel               string `hcl:"log_level,optional"`
	DefaultPageSize        int    `hcl:"default_page_size,optional"`
	ProviderTimeoutSeconds int    `hcl:"provider_timeout_seconds,optional"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ListenAddr:             ":8080",
		LogLevel:               "info",
		DefaultPageSize:        5,
		ProviderTimeoutSeconds: 10,
	}
}

// Load parses an optional HCL configuration file and merges it over the
// defaults. An empty path returns the defaults unchanged.
func Load(path string, logger logging.Logger) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config file %s: %s", path, diags.Error())
	}

	if file == nil || file.Body == nil {
		return nil, fmt.Errorf("parsed config file is empty or invalid: %s", path)
	}

	var fileCfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &fileCfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode config file %s: %s", path, diags.Error())
	}

	if fileCfg.ListenAddr != "" {
		cfg.ListenAddr = fileCfg.ListenAddr
	}
	if fileCfg.LogLevel != "" {
		cfg.LogLevel = fileCfg.LogLevel
	}
	if fileCfg.DefaultPageSize != 0 {
		cfg.DefaultPageSize = fileCfg.DefaultPageSize
	}
	if fileCfg.ProviderTimeoutSeconds != 0 {
		cfg.ProviderTimeoutSeconds = fileCfg.ProviderTimeoutSeconds
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	logger.Info("Loaded configuration from %s", path)
	return cfg, nil
}

// ProviderTimeout returns the per-request deadline for cloud provider calls.
func (c *Config) ProviderTimeout() time.Duration {
	return time.Duration(c.ProviderTimeoutSeconds) * time.Second
}

func (c *Config) validate() error {
	if c.DefaultPageSize < 1 {
		return fmt.Errorf("default_page_size must be a positive number, got %d", c.DefaultPageSize)
	}
	if c.ProviderTimeoutSeconds < 1 {
		return fmt.Errorf("provider_timeout_seconds must be a positive number, got %d", c.ProviderTimeoutSeconds)
	}
	return nil
}
