// Package workspace manages the sessiond data root directory.
//
// The workspace is where the scheduler and its collaborators keep their files:
//   - memory/: append-structured record stores (diary)
//   - inbox/:  pending notices
//   - logs/:   the scheduler event log
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aatumaykin/sessiond/internal/config"
)

// Workspace represents the data root with path management helpers.
type Workspace struct {
	path     string // Expanded workspace path
	basePath string // Original path from config (may contain ~)
}

// New creates a Workspace from the given configuration.
func New(cfg config.WorkspaceConfig) *Workspace {
	return &Workspace{
		path:     expandHome(cfg.Path),
		basePath: cfg.Path,
	}
}

// Path returns the expanded workspace path.
func (w *Workspace) Path() string {
	return w.path
}

// BasePath returns the original path from config (may contain ~).
func (w *Workspace) BasePath() string {
	return w.basePath
}

// EnsureDir creates the workspace directory if it doesn't exist.
func (w *Workspace) EnsureDir() error {
	if w.path == "" {
		return fmt.Errorf("workspace path is empty")
	}

	info, err := os.Stat(w.path)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("workspace path exists but is not a directory: %s", w.path)
		}
		return nil
	}

	if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access workspace path %s: %w", w.path, err)
	}

	if err := os.MkdirAll(w.path, 0755); err != nil {
		return fmt.Errorf("failed to create workspace directory %s: %w", w.path, err)
	}

	return nil
}

// Subpath returns the absolute path of a workspace subdirectory.
func (w *Workspace) Subpath(name string) string {
	return filepath.Join(w.path, name)
}

// EnsureSubpath creates a workspace subdirectory if it doesn't exist.
func (w *Workspace) EnsureSubpath(name string) error {
	sub := w.Subpath(name)
	if err := os.MkdirAll(sub, 0755); err != nil {
		return fmt.Errorf("failed to create workspace subdirectory %s: %w", sub, err)
	}
	return nil
}

// Resolve turns a configured file path into an absolute one. Absolute paths
// pass through unchanged; relative paths are anchored at the workspace root.
func (w *Workspace) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(w.path, path)
}

// expandHome expands a leading ~ in the path.
func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
