package querylog

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	logpkg "github.com/haukened/qlog2rules/internal/rules/common/log"
	"github.com/haukened/qlog2rules/internal/rules/domain"
)

// Match is a query that a user filtering rule blocked.
type Match struct {
	Line int    // 1-based line number within the source
	Host string // queried host, exactly as logged
}

// Read consumes newline-delimited JSON query-log records from r and calls
// visit for every record blocked by a user filtering rule.
//
// Behavior:
//   - Each line is decoded independently; a bad line never ends the read
//   - Lines that are not JSON, or JSON of the wrong shape, are logged at Warn
//     with the source and line number and skipped
//   - Blank lines, unblocked queries and records without a host are skipped
//     silently (Debug only)
//   - Lines have no length limit; a trailing "\r" and a leading BOM are ignored
//
// The returned error is non-nil only when r itself fails; the Stats cover the
// lines consumed up to that point and matches already visited stand.
func Read(r io.Reader, source string, logger logpkg.Logger, visit func(Match)) (Stats, error) {
	br := bufio.NewReader(r)
	var st Stats

	logger.Debug(map[string]any{"file": source}, "querylog_read_start")

	for {
		line, readErr := br.ReadBytes('\n')
		if len(line) > 0 {
			st.Lines++
			if st.Lines == 1 {
				line = bytes.TrimPrefix(line, []byte("\uFEFF"))
			}
			if m, ok := classify(line, source, st.Lines, logger, &st); ok {
				visit(m)
			}
		}
		if readErr == nil {
			continue
		}
		if errors.Is(readErr, io.EOF) {
			break
		}
		logger.Debug(map[string]any{"file": source, "line": st.Lines, "error": readErr.Error()}, "querylog_read_error")
		return st, fmt.Errorf("reading %s after line %d: %w", source, st.Lines, readErr)
	}

	logger.Debug(map[string]any{
		"file":    source,
		"lines":   st.Lines,
		"matched": st.Matched,
	}, "querylog_read_done")
	return st, nil
}

// classify decodes a single line, updates st and returns the match, if any.
func classify(line []byte, source string, lineNum int, logger logpkg.Logger, st *Stats) (Match, bool) {
	trimmed := bytes.TrimSpace(line)
	if len(trimmed) == 0 {
		st.Blank++
		logger.Debug(map[string]any{"file": source, "line": lineNum}, "querylog_skip_blank")
		return Match{}, false
	}

	var rec domain.QueryRecord
	if err := json.Unmarshal(trimmed, &rec); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			st.Malformed++
			logger.Warn(map[string]any{"file": source, "line": lineNum, "error": err.Error()}, "querylog_malformed_line")
		} else {
			st.Invalid++
			logger.Warn(map[string]any{"file": source, "line": lineNum, "error": err.Error()}, "querylog_invalid_record")
		}
		return Match{}, false
	}

	if !rec.IsRuleBlocked() {
		st.NotBlocked++
		fields := map[string]any{"file": source, "line": lineNum}
		if rec.Result != nil {
			fields["filtered"] = rec.Result.IsFiltered
			fields["reason"] = rec.Result.Reason.String()
		}
		logger.Debug(fields, "querylog_skip_not_blocked")
		return Match{}, false
	}

	if !rec.HasHost() {
		st.NoHost++
		logger.Debug(map[string]any{"file": source, "line": lineNum}, "querylog_skip_no_host")
		return Match{}, false
	}

	st.Matched++
	return Match{Line: lineNum, Host: rec.Host}, true
}
