package output

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"time"
)

const (
	// Title is the first header line of every rendered rule list.
	Title = "rules generated from filtering-service logs"
	// TimestampLayout formats the generation time as YYYY-MM-DD HH:MM:SS.
	TimestampLayout = "2006-01-02 15:04:05"

	commentPrefix = "! "
)

// Document is a rendered rule list: a comment header followed by rules.
type Document struct {
	// Rules must already be in output order.
	Rules []string
	// Sources are the inputs that contributed; only base names are rendered.
	Sources   []string
	Generated time.Time
}

// WriteTo renders the document to w, satisfying io.WriterTo.
func (d Document) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: bufio.NewWriter(w)}

	cw.line(commentPrefix + Title)
	cw.line(commentPrefix + "Generated: " + d.Generated.Format(TimestampLayout))
	cw.line(fmt.Sprintf("%sTotal rules: %d", commentPrefix, len(d.Rules)))
	cw.line(fmt.Sprintf("%sSource log file count: %d", commentPrefix, len(d.Sources)))
	for _, src := range d.Sources {
		cw.line(commentPrefix + "  - " + filepath.Base(src))
	}
	cw.line("")
	for _, rule := range d.Rules {
		cw.line(rule)
	}

	if cw.err != nil {
		return cw.n, cw.err
	}
	return cw.n, cw.w.Flush()
}

// countingWriter keeps the first error so rendering reads straight through.
type countingWriter struct {
	w   *bufio.Writer
	n   int64
	err error
}

func (c *countingWriter) line(s string) {
	if c.err != nil {
		return
	}
	n, err := c.w.WriteString(s + "\n")
	c.n += int64(n)
	c.err = err
}
