package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	humanize "github.com/dustin/go-humanize"

	"github.com/panscan/panscan/internal/types"
)

var (
	tierHighStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	tierMedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	tierLowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	tierCleanStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	headingStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	fieldLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
)

func tierStyle(t types.RiskTier) lipgloss.Style {
	switch t {
	case types.TierHigh:
		return tierHighStyle
	case types.TierMedium:
		return tierMedStyle
	case types.TierLow:
		return tierLowStyle
	default:
		return tierCleanStyle
	}
}

func paint(opts PrintOptions, s lipgloss.Style, text string) string {
	if opts.NoColor {
		return text
	}
	return s.Render(text)
}

// PrintText writes one block per finding followed by the run summary.
func PrintText(w io.Writer, r Report, opts PrintOptions) {
	findings := r.Findings()
	if len(findings) == 0 {
		fmt.Fprintln(w, "No card numbers found ✅")
	} else {
		fmt.Fprintf(w, "Found %d potential credit card numbers:\n\n", len(findings))
		for _, f := range findings {
			field := func(k string, v any) {
				fmt.Fprintf(w, "%s %v\n", paint(opts, fieldLabelStyle, k+":"), v)
			}
			field("File", f.Path)
			field("Line", f.Line)
			field("Column", f.Column)
			brand := string(f.Brand)
			if f.LengthMismatch {
				brand += " (unexpected length)"
			}
			field("Brand", brand)
			field("PAN Length", f.Length)
			field("BIN", f.BIN)
			field("Last Four", f.LastFour)
			field("Masked PAN", f.Masked)
			field("Line Content", strings.TrimSpace(f.LineText))
			fmt.Fprintln(w)
		}
	}
	PrintSummary(w, r, opts)
}

// PrintSummary writes the corpus-level statistics.
func PrintSummary(w io.Writer, r Report, opts PrintOptions) {
	s := r.Summary
	fmt.Fprintln(w)
	fmt.Fprintln(w, paint(opts, headingStyle, "Summary"))
	fmt.Fprintf(w, "Files scanned: %d (%s)\n", s.FilesScanned, humanize.Bytes(uint64(max(s.TotalBytes, 0))))
	fmt.Fprintf(w, "Directories traversed: %d\n", s.DirsTraversed)
	fmt.Fprintf(w, "Findings: %d (unique PANs: %d, files with findings: %d)\n", s.TotalFindings, s.UniquePANs, s.FilesWithFindings)
	if s.TotalFindings > 0 {
		fmt.Fprintln(w, "Cards by brand:")
		for _, b := range types.Brands() {
			n := s.BrandCounts[b]
			if n == 0 {
				continue
			}
			pct := float64(n) / float64(s.TotalFindings) * 100
			fmt.Fprintf(w, "  %-18s %4d (%.1f%%)\n", b, n, pct)
		}
	}
	if s.LengthMismatches > 0 {
		fmt.Fprintf(w, "Length mismatches: %d\n", s.LengthMismatches)
	}
	fmt.Fprintln(w, "Risk tiers:")
	for _, t := range types.Tiers() {
		fmt.Fprintf(w, "  %s %d\n", paint(opts, tierStyle(t), fmt.Sprintf("%-6s", t)), len(s.RiskTiers[t]))
	}
	fmt.Fprintf(w, "Clean files: %.1f%%\n", s.CleanFilePercent)
	if len(s.Errors) > 0 {
		fmt.Fprintf(w, "Errors: %d\n", len(s.Errors))
		for _, e := range s.Errors {
			fmt.Fprintf(w, "  %s: %s\n", e.Path, e.Reason)
		}
	}
	if r.Duration > 0 {
		fmt.Fprintf(w, "Scan duration: %.2fs\n", r.Duration.Seconds())
	}
}
