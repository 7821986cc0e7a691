package report

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/panscan/panscan/internal/types"
)

// Sheet names of the XLSX workbook.
const (
	SheetSummary  = "Summary"
	SheetFindings = "Findings"
	SheetFiles    = "Files"
	SheetErrors   = "Errors"
)

// WriteXLSX writes a workbook with summary, findings, per-file tier and error sheets.
func WriteXLSX(w io.Writer, r Report) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return err
	}
	for _, name := range []string{SheetFindings, SheetFiles, SheetErrors} {
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
	}

	s := r.Summary
	summary := [][]interface{}{
		{"Run ID", r.RunID},
		{"Generated", r.GeneratedAt.UTC().Format(time.RFC3339)},
		{"Duration (s)", r.Duration.Seconds()},
		{"Files scanned", s.FilesScanned},
		{"Directories traversed", s.DirsTraversed},
		{"Total bytes", s.TotalBytes},
		{"Findings", s.TotalFindings},
		{"Unique PANs", s.UniquePANs},
		{"Files with findings", s.FilesWithFindings},
		{"Clean files %", s.CleanFilePercent},
		{},
		{"Brand", "Count"},
	}
	for _, b := range types.Brands() {
		summary = append(summary, []interface{}{string(b), s.BrandCounts[b]})
	}
	summary = append(summary, []interface{}{}, []interface{}{"Tier", "Files"})
	for _, t := range types.Tiers() {
		summary = append(summary, []interface{}{string(t), len(s.RiskTiers[t])})
	}
	if err := writeRows(f, SheetSummary, summary); err != nil {
		return err
	}

	findings := [][]interface{}{{"File", "Line", "Column", "Brand", "PAN Length", "BIN", "Last Four", "Masked PAN", "Length Mismatch", "Tier", "Fingerprint"}}
	for _, fd := range r.Findings() {
		findings = append(findings, []interface{}{
			fd.Path, fd.Line, fd.Column, string(fd.Brand), fd.Length, fd.BIN,
			fd.LastFour, fd.Masked, fd.LengthMismatch, string(s.TierOf(fd.Path)), fd.Fingerprint,
		})
	}
	if err := writeRows(f, SheetFindings, findings); err != nil {
		return err
	}

	files := [][]interface{}{{"File", "Tier", "Findings", "Bytes"}}
	for _, sr := range r.Results {
		files = append(files, []interface{}{sr.Path, string(s.TierOf(sr.Path)), len(sr.Findings), sr.Bytes})
	}
	if err := writeRows(f, SheetFiles, files); err != nil {
		return err
	}

	errs := [][]interface{}{{"File", "Reason"}}
	for _, e := range s.Errors {
		errs = append(errs, []interface{}{e.Path, e.Reason})
	}
	if err := writeRows(f, SheetErrors, errs); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
