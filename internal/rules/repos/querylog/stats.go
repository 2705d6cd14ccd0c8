package querylog

// Stats reports how the lines of one or more query logs were classified.
// Every line read lands in exactly one of the buckets after Lines.
type Stats struct {
	Lines      int // lines read, blank ones included
	Blank      int // whitespace-only lines
	Malformed  int // not valid JSON
	Invalid    int // valid JSON of the wrong shape
	NotBlocked int // decoded, but not blocked by a filtering rule
	NoHost     int // blocked by a rule, but without a queried host
	Matched    int // blocked by a rule, with a host
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Lines += o.Lines
	s.Blank += o.Blank
	s.Malformed += o.Malformed
	s.Invalid += o.Invalid
	s.NotBlocked += o.NotBlocked
	s.NoHost += o.NoHost
	s.Matched += o.Matched
}

// Skipped returns the number of lines that produced no match.
func (s Stats) Skipped() int {
	return s.Lines - s.Matched
}
