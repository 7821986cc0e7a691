package tui

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/panscan/panscan/internal/report"
	"github.com/panscan/panscan/internal/types"
)

type statusMsg string

type reportMsg report.Report

var writeClipboard = clipboard.WriteAll

func (m *Model) rescan() tea.Cmd {
	fn := m.rescanFunc
	return func() tea.Msg {
		if fn == nil {
			return statusMsg("Rescan not available")
		}
		r, err := fn()
		if err != nil {
			return statusMsg(fmt.Sprintf("Scan error: %v", err))
		}
		return reportMsg(r)
	}
}

// editorArgs builds the command line that opens f at its line and column
// for the editors that accept a position.
func editorArgs(editor string, f types.Finding) []string {
	switch filepath.Base(editor) {
	case "code", "code-insiders":
		return []string{"-g", fmt.Sprintf("%s:%d:%d", f.Path, f.Line, f.Column)}
	case "subl", "sublime", "sublime_text":
		return []string{fmt.Sprintf("%s:%d:%d", f.Path, f.Line, f.Column)}
	case "emacs", "emacsclient":
		return []string{fmt.Sprintf("+%d:%d", f.Line, f.Column), f.Path}
	case "nano":
		return []string{fmt.Sprintf("+%d,%d", f.Line, f.Column), f.Path}
	case "vi", "vim", "nvim":
		if f.Column > 0 {
			return []string{fmt.Sprintf("+call cursor(%d,%d)", f.Line, f.Column), f.Path}
		}
		return []string{fmt.Sprintf("+%d", f.Line), f.Path}
	default:
		return []string{fmt.Sprintf("+%d", f.Line), f.Path}
	}
}

func (m Model) openEditor() tea.Cmd {
	f := m.selected()
	if f == nil {
		return nil
	}
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}
	c := exec.Command(editor, editorArgs(editor, *f)...)
	return tea.ExecProcess(c, func(err error) tea.Msg {
		if err != nil {
			return statusMsg(fmt.Sprintf("Error opening editor: %v", err))
		}
		return statusMsg("Editor closed")
	})
}

func (m Model) copyPathToClipboard() tea.Cmd {
	f := m.selected()
	if f == nil {
		return func() tea.Msg { return statusMsg("No finding selected") }
	}
	if err := writeClipboard(f.Path); err != nil {
		return func() tea.Msg { return statusMsg(fmt.Sprintf("Clipboard error: %v", err)) }
	}
	return func() tea.Msg { return statusMsg(fmt.Sprintf("Copied: %s", f.Path)) }
}

// copyFindingToClipboard copies the finding's metadata. The line text is
// left out so an unmasked run cannot leak a card number through the clipboard.
func (m Model) copyFindingToClipboard() tea.Cmd {
	f := m.selected()
	if f == nil {
		return func() tea.Msg { return statusMsg("No finding selected") }
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Path: %s\n", f.Path)
	fmt.Fprintf(&sb, "Line: %d\n", f.Line)
	fmt.Fprintf(&sb, "Column: %d\n", f.Column)
	fmt.Fprintf(&sb, "Brand: %s\n", f.Brand)
	fmt.Fprintf(&sb, "Risk tier: %s\n", m.tierOf(*f))
	fmt.Fprintf(&sb, "BIN: %s\n", f.BIN)
	fmt.Fprintf(&sb, "Last four: %s\n", f.LastFour)
	fmt.Fprintf(&sb, "Fingerprint: %s\n", f.Fingerprint)
	if err := writeClipboard(sb.String()); err != nil {
		return func() tea.Msg { return statusMsg(fmt.Sprintf("Clipboard error: %v", err)) }
	}
	return func() tea.Msg { return statusMsg("Copied finding details to clipboard") }
}

var exportExt = map[report.Format]string{
	report.FormatJSON:  ".json",
	report.FormatCSV:   ".csv",
	report.FormatSARIF: ".sarif",
	report.FormatHTML:  ".html",
	report.FormatXLSX:  ".xlsx",
}

// exportFindings writes the whole report, not only the filtered rows, to a
// timestamped file in the working directory.
func (m Model) exportFindings(format report.Format) tea.Cmd {
	ext, ok := exportExt[format]
	if !ok {
		return func() tea.Msg { return statusMsg(fmt.Sprintf("Unknown format: %s", format)) }
	}
	r := m.report
	filename := fmt.Sprintf("panscan-export-%s%s", time.Now().Format("20060102-150405"), ext)
	return func() tea.Msg {
		if err := report.Export(filename, r); err != nil {
			return statusMsg(fmt.Sprintf("Export error: %v", err))
		}
		abs, _ := filepath.Abs(filename)
		return statusMsg(fmt.Sprintf("Exported %d findings to %s", r.Summary.TotalFindings, abs))
	}
}
