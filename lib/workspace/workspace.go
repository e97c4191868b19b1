// Copyright 2026 The Pagewright Authors
// SPDX-License-Identifier: Apache-2.0

// Package workspace manages the scratch directory owned by one task
// execution. The directory exists only for the execution's lifetime:
// any leftover from a previous run is removed before work starts, and
// Cleanup removes it unconditionally when the execution ends.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
)

// Workspace is a scratch directory exclusively owned by one task
// execution.
type Workspace struct {
	path string
}

// Create prepares an empty scratch directory for the named task under
// root. A pre-existing directory from an earlier execution is removed
// first, so the workspace always starts empty.
func Create(root, name string) (*Workspace, error) {
	path := filepath.Join(root, name)

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("workspace: clearing %s: %w", path, err)
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("workspace: creating %s: %w", path, err)
	}

	return &Workspace{path: path}, nil
}

// Path returns the workspace directory.
func (workspace *Workspace) Path() string {
	return workspace.path
}

// WriteFile writes a file into the workspace.
func (workspace *Workspace) WriteFile(name string, data []byte) error {
	path := filepath.Join(workspace.path, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("workspace: writing %s: %w", path, err)
	}
	return nil
}

// Cleanup removes the workspace directory. Safe to call from a defer
// on every exit path; removal of an already-removed directory is not
// an error.
func (workspace *Workspace) Cleanup() error {
	if err := os.RemoveAll(workspace.path); err != nil {
		return fmt.Errorf("workspace: removing %s: %w", workspace.path, err)
	}
	return nil
}
