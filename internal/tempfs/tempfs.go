// Package tempfs provides a private scratch directory that is always removed.
package tempfs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Workspace is a private directory living for the duration of With
type Workspace struct {
	dir string
}

// Dir returns the workspace root
func (w *Workspace) Dir() string { return w.dir }

// Path returns the absolute path of name inside the workspace. Names that
// would escape the workspace are rejected.
func (w *Workspace) Path(name string) (string, error) {
	clean := filepath.Clean(name)
	if clean == "." || filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid workspace file name %q", name)
	}
	return filepath.Join(w.dir, clean), nil
}

// WriteFile stores data under name and returns its path
func (w *Workspace) WriteFile(name string, data []byte) (string, error) {
	p, err := w.Path(name)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
		return "", fmt.Errorf("failed to create directory for %s: %w", name, err)
	}
	if err := os.WriteFile(p, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	return p, nil
}

// ReadFile reads name back from the workspace
func (w *Workspace) ReadFile(name string) ([]byte, error) {
	p, err := w.Path(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}

// With creates a workspace under the system temp directory, runs fn and
// removes the workspace on every exit path. A panic in fn is re-raised after
// cleanup.
func With(prefix string, fn func(*Workspace) error) (err error) {
	dir, err := os.MkdirTemp("", prefix+"-"+uuid.NewString()+"-")
	if err != nil {
		return fmt.Errorf("failed to create workspace: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(dir); rmErr != nil && err == nil {
			err = fmt.Errorf("failed to remove workspace: %w", rmErr)
		}
	}()
	return fn(&Workspace{dir: dir})
}
