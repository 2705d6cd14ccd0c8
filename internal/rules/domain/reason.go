package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
)

// FilterReason is the classification code the filtering service attaches to
// every query-log entry. Only FilteredBlockList is acted upon; the remaining
// values exist so diagnostics can name what was skipped.
type FilterReason int

const (
	NotFilteredNotFound FilterReason = iota
	NotFilteredAllowList
	NotFilteredError
	// FilteredBlockList means the query matched a user filtering rule.
	FilteredBlockList
	FilteredSafeBrowsing
	FilteredParental
	FilteredInvalid
	FilteredSafeSearch
	FilteredBlockedService
	Rewritten
	RewrittenAutoHosts
	RewrittenRule
)

var reasonNames = map[FilterReason]string{
	NotFilteredNotFound:    "NotFilteredNotFound",
	NotFilteredAllowList:   "NotFilteredAllowList",
	NotFilteredError:       "NotFilteredError",
	FilteredBlockList:      "FilteredBlockList",
	FilteredSafeBrowsing:   "FilteredSafeBrowsing",
	FilteredParental:       "FilteredParental",
	FilteredInvalid:        "FilteredInvalid",
	FilteredSafeSearch:     "FilteredSafeSearch",
	FilteredBlockedService: "FilteredBlockedService",
	Rewritten:              "Rewritten",
	RewrittenAutoHosts:     "RewrittenAutoHosts",
	RewrittenRule:          "RewrittenRule",
}

// String returns a stable name for the reason code.
func (r FilterReason) String() string {
	if name, ok := reasonNames[r]; ok {
		return name
	}
	return fmt.Sprintf("FilterReason(%d)", int(r))
}

// UnmarshalJSON accepts any integral JSON number, so 3 and 3.0 both decode
// to FilteredBlockList. Strings and fractional numbers are type errors; null
// leaves the value unchanged.
func (r *FilterReason) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	typeErr := &json.UnmarshalTypeError{Value: "string", Type: reflect.TypeOf(FilterReason(0))}
	if len(data) > 0 && data[0] == '"' {
		return typeErr
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		var numErr *json.UnmarshalTypeError
		if errors.As(err, &numErr) {
			typeErr.Value = numErr.Value
			return typeErr
		}
		return err
	}

	if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
		*r = FilterReason(i)
		return nil
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		typeErr.Value = "number " + n.String()
		return typeErr
	}
	*r = FilterReason(int64(f))
	return nil
}
