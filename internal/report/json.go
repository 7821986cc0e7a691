package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/panscan/panscan/internal/types"
)

type jsonReport struct {
	RunID       string             `json:"run_id"`
	Roots       []string           `json:"roots,omitempty"`
	GeneratedAt time.Time          `json:"generated_at"`
	DurationMS  int64              `json:"duration_ms"`
	Summary     types.Summary      `json:"summary"`
	Results     []types.ScanResult `json:"results"`
}

// WriteJSON writes the summary and per-file results as indented JSON.
func WriteJSON(w io.Writer, r Report) error {
	results := r.Results
	if results == nil {
		results = []types.ScanResult{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonReport{
		RunID:       r.RunID,
		Roots:       r.Roots,
		GeneratedAt: r.GeneratedAt.UTC(),
		DurationMS:  r.Duration.Milliseconds(),
		Summary:     r.Summary,
		Results:     results,
	})
}
