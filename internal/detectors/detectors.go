package detectors

import "github.com/panscan/panscan/internal/types"

// DetectLine runs the full pipeline over one line: extraction, Luhn
// validation, classification and finding construction. Findings come back in
// left-to-right order.
func DetectLine(path string, lineNo int, line string, b Builder) []types.Finding {
	var out []types.Finding
	for run := range Extract(line) {
		if !ValidLuhn(run.Digits) {
			continue
		}
		out = append(out, b.Build(path, lineNo, line, run, Classify(run.Digits)))
	}
	return out
}
