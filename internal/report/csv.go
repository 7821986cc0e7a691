package report

import (
	"encoding/csv"
	"io"
	"strconv"
)

var csvHeader = []string{
	"file_path", "line_number", "column", "brand", "pan_length", "bin",
	"last_four", "masked_pan", "length_mismatch", "risk_tier", "fingerprint", "line_text",
}

// WriteCSV writes one row per finding.
func WriteCSV(w io.Writer, r Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, f := range r.Findings() {
		rec := []string{
			f.Path,
			strconv.Itoa(f.Line),
			strconv.Itoa(f.Column),
			string(f.Brand),
			strconv.Itoa(f.Length),
			f.BIN,
			f.LastFour,
			f.Masked,
			strconv.FormatBool(f.LengthMismatch),
			string(r.Summary.TierOf(f.Path)),
			f.Fingerprint,
			f.LineText,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
