package report

import (
	"html/template"
	"io"
	"time"

	humanize "github.com/dustin/go-humanize"

	"github.com/panscan/panscan/internal/types"
)

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>panscan report {{.RunID}}</title>
<style>
body { font-family: -apple-system, Segoe UI, Helvetica, Arial, sans-serif; margin: 2rem; color: #222; }
table { border-collapse: collapse; margin-bottom: 1.5rem; }
th, td { border: 1px solid #ccc; padding: 4px 8px; text-align: left; font-size: 0.9rem; }
th { background: #f3f3f3; }
.tier-high { color: #b00020; font-weight: bold; }
.tier-medium { color: #b26a00; }
.tier-low { color: #00796b; }
.tier-clean { color: #2e7d32; }
code { font-family: Menlo, Consolas, monospace; }
</style>
</head>
<body>
<h1>PAN scan report</h1>
<p>Run <code>{{.RunID}}</code> generated {{stamp .GeneratedAt}}{{if .Duration}} in {{.Duration}}{{end}}</p>

<h2>Summary</h2>
<table>
<tr><th>Files scanned</th><td>{{.Summary.FilesScanned}}</td></tr>
<tr><th>Directories traversed</th><td>{{.Summary.DirsTraversed}}</td></tr>
<tr><th>Bytes scanned</th><td>{{bytes .Summary.TotalBytes}}</td></tr>
<tr><th>Findings</th><td>{{.Summary.TotalFindings}}</td></tr>
<tr><th>Unique PANs</th><td>{{.Summary.UniquePANs}}</td></tr>
<tr><th>Clean files</th><td>{{printf "%.1f" .Summary.CleanFilePercent}}%</td></tr>
</table>

<h2>Brands</h2>
<table>
<tr><th>Brand</th><th>Count</th></tr>
{{range .Brands}}<tr><td>{{.Brand}}</td><td>{{.Count}}</td></tr>
{{end}}</table>

<h2>Risk tiers</h2>
{{range .Tiers}}<h3 class="tier-{{.Tier}}">{{.Tier}} ({{len .Files}})</h3>
{{if .Files}}<ul>{{range .Files}}<li><code>{{.}}</code></li>{{end}}</ul>{{end}}
{{end}}

<h2>Findings</h2>
{{if .Rows}}<table>
<tr><th>File</th><th>Line</th><th>Column</th><th>Brand</th><th>Masked PAN</th><th>Context</th></tr>
{{range .Rows}}<tr><td><code>{{.Path}}</code></td><td>{{.Line}}</td><td>{{.Column}}</td><td>{{.Brand}}</td><td><code>{{.Masked}}</code></td><td><code>{{.LineText}}</code></td></tr>
{{end}}</table>{{else}}<p>No card numbers found.</p>{{end}}

{{if .Summary.Errors}}<h2>Errors</h2>
<table>
<tr><th>File</th><th>Reason</th></tr>
{{range .Summary.Errors}}<tr><td><code>{{.Path}}</code></td><td>{{.Reason}}</td></tr>
{{end}}</table>{{end}}
</body>
</html>
`

var htmlReport = template.Must(template.New("report.html").Funcs(template.FuncMap{
	"bytes": func(n int64) string { return humanize.Bytes(uint64(max(n, 0))) },
	"stamp": func(t time.Time) string { return t.UTC().Format(time.RFC3339) },
}).Parse(htmlTemplate))

type brandRow struct {
	Brand types.Brand
	Count int
}

type tierRow struct {
	Tier  types.RiskTier
	Files []string
}

// WriteHTML writes a standalone HTML page. All values are escaped by
// html/template.
func WriteHTML(w io.Writer, r Report) error {
	data := struct {
		Report
		Brands []brandRow
		Tiers  []tierRow
		Rows   []types.Finding
	}{Report: r, Rows: r.Findings()}
	for _, b := range types.Brands() {
		if n := r.Summary.BrandCounts[b]; n > 0 {
			data.Brands = append(data.Brands, brandRow{Brand: b, Count: n})
		}
	}
	for _, t := range types.Tiers() {
		data.Tiers = append(data.Tiers, tierRow{Tier: t, Files: r.Summary.RiskTiers[t]})
	}
	return htmlReport.Execute(w, data)
}
