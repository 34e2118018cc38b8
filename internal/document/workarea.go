package document

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// WorkingArea is the per-invocation scratch namespace that owns every
// intermediate artifact (saved original, rasterized pages) for the duration
// of one pipeline run. Areas are never reused across invocations; concurrent
// runs get distinct identifiers and cannot collide.
type WorkingArea struct {
	ID  string
	Dir string
}

// NewWorkingArea creates a fresh scratch directory under baseDir. Creation is
// create-if-absent, so racing invocations on the same base are safe.
func NewWorkingArea(baseDir string) (*WorkingArea, error) {
	id := uuid.NewString()
	dir := filepath.Join(baseDir, id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create working area: %w", err)
	}
	return &WorkingArea{ID: id, Dir: dir}, nil
}

// SaveOriginal writes the uploaded bytes into the area and returns the path.
func (w *WorkingArea) SaveOriginal(data []byte, ext string) (string, error) {
	path := filepath.Join(w.Dir, "original."+ext)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("save original: %w", err)
	}
	return path, nil
}

// PagesDir is where rasterized page artifacts go.
func (w *WorkingArea) PagesDir() string {
	return filepath.Join(w.Dir, "pages")
}

// Remove deletes the area and everything it owns. Retention is a caller
// decision; the pipeline itself never calls this.
func (w *WorkingArea) Remove() error {
	return os.RemoveAll(w.Dir)
}
