package extractor

import "io"

// LogSource locates and opens query-log inputs.
// querylog.FileSource is the filesystem implementation.
type LogSource interface {
	// Exists reports whether path exists. A non-nil error means existence
	// could not be determined.
	Exists(path string) (bool, error)
	// Open returns a reader for path; the caller closes it.
	Open(path string) (io.ReadCloser, error)
}
