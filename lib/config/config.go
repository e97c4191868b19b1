// Copyright 2026 The Pagewright Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for the service.
//
// Non-secret settings come from a YAML file specified by the
// PAGEWRIGHT_CONFIG environment variable or a --config flag; every
// setting has a default, so the file is optional. Secrets are never
// read from the file: the shared secret, the Gemini API key, and the
// GitHub token and owner come from the environment only. Missing
// required configuration at startup is fatal — the process refuses to
// start.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variable names for secret configuration.
const (
	EnvConfig       = "PAGEWRIGHT_CONFIG"
	EnvSecret       = "PAGEWRIGHT_SECRET"
	EnvGeminiAPIKey = "GEMINI_API_KEY"
	EnvGitHubToken  = "GITHUB_TOKEN"
	EnvGitHubOwner  = "GITHUB_OWNER"
)

// Config is the service configuration.
type Config struct {
	// Listen is the HTTP listen address.
	Listen string `yaml:"listen"`

	// ScratchDir is the root for per-task scratch directories.
	ScratchDir string `yaml:"scratch_dir"`

	// Model is the Gemini model identifier used for generation.
	Model string `yaml:"model"`

	// MaxTokens caps generated response length. Zero uses the
	// generator default.
	MaxTokens int64 `yaml:"max_tokens"`

	// GitHubBaseURL overrides the GitHub API endpoint. Tests point
	// this at a local server.
	GitHubBaseURL string `yaml:"github_base_url"`

	// GeminiBaseURL overrides the Gemini API endpoint.
	GeminiBaseURL string `yaml:"gemini_base_url"`

	// Workers is the background pipeline concurrency.
	Workers int `yaml:"workers"`

	// QueueSize is the pending-task capacity.
	QueueSize int `yaml:"queue_size"`

	// Secrets, environment-sourced only. Never written to or read
	// from the config file.
	Secret       string `yaml:"-"`
	GeminiAPIKey string `yaml:"-"`
	GitHubToken  string `yaml:"-"`
	GitHubOwner  string `yaml:"-"`
}

// Default returns the default configuration. Secrets are left empty;
// Validate rejects a config whose secrets were never supplied.
func Default() *Config {
	return &Config{
		Listen:     ":5000",
		ScratchDir: "temp_repos",
		Model:      "gemini-2.5-flash",
		Workers:    4,
		QueueSize:  64,
	}
}

// Load loads configuration from the file named by the PAGEWRIGHT_CONFIG
// environment variable (if set), then overlays secrets from the
// environment. Use LoadFile when the path comes from a flag.
func Load() (*Config, error) {
	return LoadFile(os.Getenv(EnvConfig))
}

// LoadFile loads configuration from path, or pure defaults when path
// is empty, then overlays secrets from the environment. The returned
// config is validated; a config missing required values is an error
// naming every missing value.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	}

	cfg.Secret = os.Getenv(EnvSecret)
	cfg.GeminiAPIKey = os.Getenv(EnvGeminiAPIKey)
	cfg.GitHubToken = os.Getenv(EnvGitHubToken)
	cfg.GitHubOwner = os.Getenv(EnvGitHubOwner)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every required value is present. All problems
// are reported at once so an operator fixes the environment in one
// pass.
func (cfg *Config) Validate() error {
	var missing []string

	if cfg.Secret == "" {
		missing = append(missing, EnvSecret)
	}
	if cfg.GeminiAPIKey == "" {
		missing = append(missing, EnvGeminiAPIKey)
	}
	if cfg.GitHubToken == "" {
		missing = append(missing, EnvGitHubToken)
	}
	if cfg.GitHubOwner == "" {
		missing = append(missing, EnvGitHubOwner)
	}

	if len(missing) > 0 {
		return fmt.Errorf("config: missing required environment variables: %s",
			strings.Join(missing, ", "))
	}

	if cfg.Listen == "" {
		return fmt.Errorf("config: listen address must not be empty")
	}
	if cfg.ScratchDir == "" {
		return fmt.Errorf("config: scratch_dir must not be empty")
	}
	if cfg.Model == "" {
		return fmt.Errorf("config: model must not be empty")
	}
	return nil
}
