package domain

import (
	"encoding/json"
	"errors"
	"reflect"
)

// QueryRecord is the subset of one query-log line this tool consumes.
// Every other field in the line is ignored by the decoder.
//
// Result is a pointer so that an absent or null "Result" object is
// distinguishable from one whose fields are all zero.
type QueryRecord struct {
	Host   string       `json:"QH"`
	Result *QueryResult `json:"Result"`
}

// QueryResult is the filtering decision recorded for a query.
type QueryResult struct {
	IsFiltered bool         `json:"IsFiltered"`
	Reason     FilterReason `json:"Reason"`
}

// UnmarshalJSON decodes a record by exact key. encoding/json would also
// accept "qh" or "result", which the filtering service never writes.
func (q *QueryRecord) UnmarshalJSON(data []byte) error {
	fields, err := exactFields(data, reflect.TypeOf(QueryRecord{}))
	if err != nil {
		return err
	}
	*q = QueryRecord{}
	if raw, ok := fields["QH"]; ok {
		if err := json.Unmarshal(raw, &q.Host); err != nil {
			return err
		}
	}
	if raw, ok := fields["Result"]; ok {
		if err := json.Unmarshal(raw, &q.Result); err != nil {
			return err
		}
	}
	return nil
}

// UnmarshalJSON decodes a result by exact key, like QueryRecord.
func (r *QueryResult) UnmarshalJSON(data []byte) error {
	fields, err := exactFields(data, reflect.TypeOf(QueryResult{}))
	if err != nil {
		return err
	}
	*r = QueryResult{}
	if raw, ok := fields["IsFiltered"]; ok {
		if err := json.Unmarshal(raw, &r.IsFiltered); err != nil {
			return err
		}
	}
	if raw, ok := fields["Reason"]; ok {
		if err := json.Unmarshal(raw, &r.Reason); err != nil {
			return err
		}
	}
	return nil
}

// exactFields splits a JSON object into its raw members. A non-object
// value yields a *json.UnmarshalTypeError naming t; null yields no fields.
func exactFields(data []byte, t reflect.Type) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			typeErr.Type = t
		}
		return nil, err
	}
	return fields, nil
}

// IsRuleBlocked reports whether the record was intercepted by a user
// filtering rule. Records with no Result never are.
func (q QueryRecord) IsRuleBlocked() bool {
	return q.Result != nil && q.Result.IsFiltered && q.Result.Reason == FilteredBlockList
}

// HasHost reports whether the record names a queried host.
func (q QueryRecord) HasHost() bool {
	return q.Host != ""
}
