package ingest

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// FeedSource is a one-shot CSV feed. The pipeline opens it exactly once,
// consumes it front to back, and removes the underlying resource on both
// success and failure paths.
type FeedSource interface {
	// Name identifies the feed, e.g. the file's base name.
	Name() string

	// Open returns the feed contents. Called at most once per run.
	Open() (io.ReadCloser, error)

	// Remove disposes of the underlying resource. Removing an already
	// removed feed is not an error.
	Remove() error
}

// FileFeed is a FeedSource backed by a CSV file on disk.
type FileFeed struct {
	path string
}

// NewFileFeed creates a feed for the file at path.
func NewFileFeed(path string) *FileFeed {
	return &FileFeed{path: path}
}

// Compile-time interface check.
var _ FeedSource = (*FileFeed)(nil)

// Name returns the file's base name.
func (f *FileFeed) Name() string {
	return filepath.Base(f.path)
}

// Open opens the file for reading.
func (f *FileFeed) Open() (io.ReadCloser, error) {
	return os.Open(f.path)
}

// Remove deletes the file. A missing file is treated as already removed.
func (f *FileFeed) Remove() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
