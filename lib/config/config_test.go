// Copyright 2026 The Pagewright Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvSecret, "s3cret")
	t.Setenv(EnvGeminiAPIKey, "gem-key")
	t.Setenv(EnvGitHubToken, "gh-token")
	t.Setenv(EnvGitHubOwner, "owner")
}

func TestLoadFile_DefaultsOnly(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadFile("")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.Listen != ":5000" {
		t.Errorf("Listen = %q", cfg.Listen)
	}
	if cfg.Model != "gemini-2.5-flash" {
		t.Errorf("Model = %q", cfg.Model)
	}
	if cfg.Secret != "s3cret" || cfg.GitHubOwner != "owner" {
		t.Errorf("secrets not loaded from environment: %+v", cfg)
	}
}

func TestLoadFile_YAMLOverridesDefaults(t *testing.T) {
	setRequiredEnv(t)

	path := filepath.Join(t.TempDir(), "pagewright.yaml")
	content := "listen: \":8080\"\nmodel: gemini-2.5-pro\nworkers: 8\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.Listen != ":8080" {
		t.Errorf("Listen = %q", cfg.Listen)
	}
	if cfg.Model != "gemini-2.5-pro" {
		t.Errorf("Model = %q", cfg.Model)
	}
	if cfg.Workers != 8 {
		t.Errorf("Workers = %d", cfg.Workers)
	}
	// Untouched fields keep their defaults.
	if cfg.ScratchDir != "temp_repos" {
		t.Errorf("ScratchDir = %q", cfg.ScratchDir)
	}
}

func TestLoadFile_MissingFile(t *testing.T) {
	setRequiredEnv(t)

	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestValidate_ReportsAllMissingSecrets(t *testing.T) {
	t.Setenv(EnvSecret, "")
	t.Setenv(EnvGeminiAPIKey, "")
	t.Setenv(EnvGitHubToken, "")
	t.Setenv(EnvGitHubOwner, "")

	_, err := LoadFile("")
	if err == nil {
		t.Fatal("expected error for missing secrets")
	}

	for _, name := range []string{EnvSecret, EnvGeminiAPIKey, EnvGitHubToken, EnvGitHubOwner} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error does not name %s: %v", name, err)
		}
	}
}

func TestValidate_SecretsNeverFromFile(t *testing.T) {
	setRequiredEnv(t)

	// A config file attempting to set secrets must not override the
	// environment.
	path := filepath.Join(t.TempDir(), "pagewright.yaml")
	content := "secret: from-file\ngithubtoken: from-file\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Secret != "s3cret" {
		t.Errorf("Secret = %q, want environment value", cfg.Secret)
	}
	if cfg.GitHubToken != "gh-token" {
		t.Errorf("GitHubToken = %q, want environment value", cfg.GitHubToken)
	}
}
