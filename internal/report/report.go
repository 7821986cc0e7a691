// Package report renders scan results. Formatters only read findings and the
// run summary; nothing here feeds back into scanning.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/panscan/panscan/internal/types"
)

// Report is everything a formatter may print about one run.
type Report struct {
	RunID       string
	Roots       []string
	GeneratedAt time.Time
	Duration    time.Duration
	Results     []types.ScanResult
	Summary     types.Summary
	Policy      types.RiskPolicy
}

// PrintOptions tunes the terminal renderers.
type PrintOptions struct {
	NoColor bool
}

// Findings returns every finding ordered by path, line and column.
func (r Report) Findings() []types.Finding {
	var out []types.Finding
	for _, sr := range r.Results {
		out = append(out, sr.Findings...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
	return out
}

// Format names an output encoding.
type Format string

const (
	FormatText  Format = "text"
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatCSV   Format = "csv"
	FormatSARIF Format = "sarif"
	FormatHTML  Format = "html"
	FormatXLSX  Format = "xlsx"
)

// FormatForPath picks a format from a file extension. Unknown extensions
// produce plain text.
func FormatForPath(p string) Format {
	lower := strings.ToLower(p)
	if strings.HasSuffix(lower, ".sarif.json") {
		return FormatSARIF
	}
	switch filepath.Ext(lower) {
	case ".json":
		return FormatJSON
	case ".csv":
		return FormatCSV
	case ".sarif":
		return FormatSARIF
	case ".html", ".htm":
		return FormatHTML
	case ".xlsx":
		return FormatXLSX
	default:
		return FormatText
	}
}

// Write renders r in format f.
func Write(w io.Writer, f Format, r Report, opts PrintOptions) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, r)
	case FormatCSV:
		return WriteCSV(w, r)
	case FormatSARIF:
		return WriteSARIF(w, r)
	case FormatHTML:
		return WriteHTML(w, r)
	case FormatXLSX:
		return WriteXLSX(w, r)
	case FormatTable:
		return PrintTable(w, r, opts)
	case FormatText:
		PrintText(w, r, opts)
		return nil
	default:
		return fmt.Errorf("unknown report format %q", f)
	}
}

// Export writes r to path in the format implied by its extension.
func Export(path string, r Report) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()
	return Write(f, FormatForPath(path), r, PrintOptions{NoColor: true})
}
