package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
)

// PrintTable renders findings as a bordered table followed by the summary.
func PrintTable(w io.Writer, r Report, opts PrintOptions) error {
	findings := r.Findings()
	if len(findings) == 0 {
		fmt.Fprintln(w, "No card numbers found ✅")
		PrintSummary(w, r, opts)
		return nil
	}
	table := tablewriter.NewWriter(w)
	table.Header("TIER", "FILE", "LINE", "COL", "BRAND", "MASKED PAN")
	for _, f := range findings {
		tier := r.Summary.TierOf(f.Path)
		row := []string{
			paint(opts, tierStyle(tier), string(tier)),
			f.Path,
			strconv.Itoa(f.Line),
			strconv.Itoa(f.Column),
			string(f.Brand),
			f.Masked,
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}
	PrintSummary(w, r, opts)
	return nil
}
