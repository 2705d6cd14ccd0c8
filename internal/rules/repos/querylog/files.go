package querylog

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// FileSource opens query logs from the local filesystem.
type FileSource struct{}

// Exists reports whether path names an existing filesystem entry.
// A missing path is (false, nil); any other stat failure is returned.
func (FileSource) Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Open opens path for reading. Directories are rejected here rather than
// failing later on the first read.
func (FileSource) Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, fmt.Errorf("%s is a directory", path)
	}
	return f, nil
}
