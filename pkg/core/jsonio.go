package core

import (
	"encoding/json"
	"fmt"
	"io"
)

// MarshalFindings writes findings as an indented JSON array.
func MarshalFindings(w io.Writer, findings []Finding) error {
	if findings == nil {
		findings = []Finding{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(findings)
}

// UnmarshalFindings decodes a findings array written by MarshalFindings.
// Entries without a path or with a non-positive line are rejected.
func UnmarshalFindings(r io.Reader) ([]Finding, error) {
	var fs []Finding
	if err := json.NewDecoder(r).Decode(&fs); err != nil {
		return nil, fmt.Errorf("decode findings: %w", err)
	}
	for i, f := range fs {
		if f.Path == "" || f.Line < 1 {
			return nil, fmt.Errorf("finding %d: missing location", i)
		}
	}
	return fs, nil
}

// MarshalSummary writes a run summary as indented JSON.
func MarshalSummary(w io.Writer, s Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}
