package dataset

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/ternarybob/treatyview/internal/interfaces"
)

// FileSource reads the policy CSV from the local filesystem. Its version is
// the file's modification time.
type FileSource struct {
	path string
}

// NewFileSource creates a source for path
func NewFileSource(path string) interfaces.DatasetSource {
	return &FileSource{path: path}
}

// Name returns the file's base name
func (s *FileSource) Name() string {
	return filepath.Base(s.path)
}

// Version returns the file's modification time
func (s *FileSource) Version(ctx context.Context) (time.Time, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

// Open opens the file for reading
func (s *FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	return os.Open(s.path)
}
