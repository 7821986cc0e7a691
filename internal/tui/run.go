// Package tui is an interactive browser over the findings of one scan.
package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/panscan/panscan/internal/report"
)

// Run shows r full screen until the user quits. rescan, when non-nil, is
// called from the r key and replaces the displayed report.
func Run(r report.Report, rescan func() (report.Report, error)) error {
	m := NewModel(r, rescan)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
