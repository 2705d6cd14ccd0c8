package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Sink is a destination for a rendered Document.
type Sink interface {
	Write(doc Document) error
	// Destination names the sink for log messages.
	Destination() string
}

// ConsoleSink writes documents to a stream, normally stdout.
type ConsoleSink struct {
	w io.Writer
}

// NewConsoleSink returns a sink writing to w, or to os.Stdout when w is nil.
func NewConsoleSink(w io.Writer) *ConsoleSink {
	if w == nil {
		w = os.Stdout
	}
	return &ConsoleSink{w: w}
}

func (c *ConsoleSink) Write(doc Document) error {
	if _, err := doc.WriteTo(c.w); err != nil {
		return fmt.Errorf("writing rules to console: %w", err)
	}
	return nil
}

func (c *ConsoleSink) Destination() string { return "stdout" }

// FileSink writes documents to a file, replacing any previous content.
type FileSink struct {
	path string
}

func NewFileSink(path string) *FileSink {
	return &FileSink{path: path}
}

// Write creates the parent directory when needed and then the file itself.
// The file is closed on every path; a failed close is returned.
func (f *FileSink) Write(doc Document) (err error) {
	if dir := filepath.Dir(f.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory %s: %w", dir, err)
		}
	}

	out, err := os.Create(f.path)
	if err != nil {
		return fmt.Errorf("creating output file %s: %w", f.path, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing output file %s: %w", f.path, cerr)
		}
	}()

	if _, err := doc.WriteTo(out); err != nil {
		return fmt.Errorf("writing output file %s: %w", f.path, err)
	}
	return nil
}

func (f *FileSink) Destination() string { return f.path }

var _ Sink = (*ConsoleSink)(nil)
var _ Sink = (*FileSink)(nil)
