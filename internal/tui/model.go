package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/panscan/panscan/internal/report"
	"github.com/panscan/panscan/internal/types"
)

var (
	tableBorderStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("240"))

	detailPaneBorderStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("240"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7")).
			Bold(true)

	markerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("7"))

	emptyTextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Align(lipgloss.Center)

	popupStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("12")).
			Background(lipgloss.Color("235")).
			Padding(1, 4)

	tierStyles = map[types.RiskTier]lipgloss.Style{
		types.TierHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		types.TierMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		types.TierLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	}
)

// tierText is plain on purpose: ANSI codes break table truncation.
func tierText(t types.RiskTier) string {
	switch t {
	case types.TierHigh:
		return "HIGH"
	case types.TierMedium:
		return "MED"
	case types.TierLow:
		return "LOW"
	default:
		return "CLEAN"
	}
}

type sortKey int

const (
	sortByPath sortKey = iota
	sortByTier
	sortByBrand
)

func (k sortKey) String() string {
	switch k {
	case sortByTier:
		return "tier"
	case sortByBrand:
		return "brand"
	default:
		return "path"
	}
}

const (
	defaultContextLines = 3
	maxContextLines     = 25
)

// Model is the findings browser. Findings are never modified; filters and
// sorting only change which of them are displayed and in what order.
type Model struct {
	report  report.Report
	display []types.Finding

	table       table.Model
	viewport    viewport.Model
	spinner     spinner.Model
	searchInput textinput.Model

	rescanFunc func() (report.Report, error)

	query        string
	tierFilter   types.RiskTier
	sortKey      sortKey
	sortReverse  bool
	contextLines int
	highlight    bool

	searching      bool
	showHelp       bool
	showExportMenu bool
	scanning       bool
	ready          bool
	quitting       bool
	width          int
	height         int
	statusMessage  string
}

// NewModel builds a browser over r. rescanFunc may be nil, in which case
// the rescan key only reports that it is unavailable.
func NewModel(r report.Report, rescanFunc func() (report.Report, error)) Model {
	columns := []table.Column{
		{Title: "Tier", Width: 6},
		{Title: "Brand", Width: 18},
		{Title: "Location", Width: 40},
		{Title: "Masked PAN", Width: 22},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	s := table.DefaultStyles()
	s.Header = lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("15")).
		Bold(true).
		Padding(0, 1)
	s.Selected = lipgloss.NewStyle().
		Foreground(lipgloss.Color("232")).
		Background(lipgloss.Color("208")).
		Bold(true)
	s.Cell = lipgloss.NewStyle().Padding(0, 1)
	t.SetStyles(s)

	// Line spinner avoids Braille glyphs that render poorly on some terminals.
	sp := spinner.New()
	sp.Spinner = spinner.Line
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	ti := textinput.New()
	ti.Placeholder = "path, brand, BIN or last four..."
	ti.CharLimit = 100
	ti.Width = 50
	ti.Prompt = "/ "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	m := Model{
		table:        t,
		spinner:      sp,
		searchInput:  ti,
		rescanFunc:   rescanFunc,
		contextLines: defaultContextLines,
		highlight:    true,
	}
	m.setReport(r)
	return m
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *Model) setReport(r report.Report) {
	m.report = r
	m.applyFilters()
	if len(r.Results) > 0 && r.Summary.TotalFindings == 0 {
		m.statusMessage = "q: quit | r: rescan | ?: help"
	} else {
		m.statusMessage = "q: quit | ?: help | /: search | 1-3: tier | o: open | y: copy path | e: export"
	}
}

// tierOf returns the risk tier of the file holding f.
func (m *Model) tierOf(f types.Finding) types.RiskTier {
	return m.report.Summary.TierOf(f.Path)
}

func (m *Model) matches(f types.Finding) bool {
	if m.tierFilter != "" && m.tierOf(f) != m.tierFilter {
		return false
	}
	if m.query == "" {
		return true
	}
	q := strings.ToLower(m.query)
	for _, field := range []string{f.Path, string(f.Brand), f.Masked, f.BIN, f.LastFour} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// applyFilters recomputes the displayed findings and table rows.
func (m *Model) applyFilters() {
	all := m.report.Findings()
	m.display = make([]types.Finding, 0, len(all))
	for _, f := range all {
		if m.matches(f) {
			m.display = append(m.display, f)
		}
	}
	m.sortFindings()

	rows := make([]table.Row, len(m.display))
	for i, f := range m.display {
		rows[i] = table.Row{
			tierText(m.tierOf(f)),
			string(f.Brand),
			fmt.Sprintf("%s:%d:%d", f.Path, f.Line, f.Column),
			f.Masked,
		}
	}
	m.table.SetRows(rows)
	if c := m.table.Cursor(); c >= len(rows) || c < 0 {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
	m.updateViewportContent()
}

func (m *Model) sortFindings() {
	less := func(a, b types.Finding) int {
		switch m.sortKey {
		case sortByTier:
			if ra, rb := m.tierOf(a).Rank(), m.tierOf(b).Rank(); ra != rb {
				return rb - ra
			}
		case sortByBrand:
			if c := strings.Compare(string(a.Brand), string(b.Brand)); c != 0 {
				return c
			}
		}
		if c := strings.Compare(a.Path, b.Path); c != 0 {
			return c
		}
		if a.Line != b.Line {
			return a.Line - b.Line
		}
		return a.Column - b.Column
	}
	sort.SliceStable(m.display, func(i, j int) bool {
		c := less(m.display[i], m.display[j])
		if m.sortReverse {
			return c > 0
		}
		return c < 0
	})
}

func (m *Model) cycleSortColumn() {
	m.sortKey = (m.sortKey + 1) % 3
	m.applyFilters()
}

func (m *Model) toggleTier(t types.RiskTier) {
	if m.tierFilter == t {
		m.tierFilter = ""
	} else {
		m.tierFilter = t
	}
	m.applyFilters()
}

func (m *Model) clearFilters() {
	m.query = ""
	m.tierFilter = ""
	m.searchInput.SetValue("")
	m.applyFilters()
}

// selected returns the finding under the table cursor, or nil.
func (m *Model) selected() *types.Finding {
	c := m.table.Cursor()
	if c < 0 || c >= len(m.display) {
		return nil
	}
	f := m.display[c]
	return &f
}

func (m *Model) updateViewportContent() {
	f := m.selected()
	if f == nil {
		if m.report.Summary.TotalFindings == 0 {
			m.viewport.SetContent(emptyTextStyle.Render("No card numbers found"))
		} else {
			m.viewport.SetContent("No findings match the current filters.")
		}
		return
	}
	m.viewport.SetContent(m.detail(*f))
}

func (m *Model) detail(f types.Finding) string {
	var sb strings.Builder
	row := func(label, value string) {
		sb.WriteString(labelStyle.Render(fmt.Sprintf("%-12s", label)))
		sb.WriteString(" ")
		sb.WriteString(value)
		sb.WriteString("\n")
	}
	brand := string(f.Brand)
	if f.LengthMismatch {
		brand += " (unexpected length)"
	}
	tier := m.tierOf(f)
	tierLabel := string(tier)
	if st, ok := tierStyles[tier]; ok {
		tierLabel = st.Render(tierLabel)
	}
	row("File", f.Path)
	row("Location", fmt.Sprintf("line %d, column %d", f.Line, f.Column))
	row("Brand", brand)
	row("Risk tier", tierLabel)
	row("PAN length", fmt.Sprintf("%d", f.Length))
	row("BIN", f.BIN)
	row("Last four", f.LastFour)
	row("Masked PAN", f.Masked)
	row("Fingerprint", f.Fingerprint)
	sb.WriteString("\n")
	ctx, err := renderContext(f.Path, f.Line, m.contextLines, m.highlight)
	if err != nil {
		sb.WriteString(fmt.Sprintf("(context unavailable: %v)\n", err))
	} else {
		sb.WriteString(ctx)
	}
	return sb.String()
}

func (m *Model) expandContext() {
	if m.contextLines < maxContextLines {
		m.contextLines += 2
		m.updateViewportContent()
	}
}

func (m *Model) contractContext() {
	if m.contextLines > 1 {
		m.contextLines -= 2
		if m.contextLines < 1 {
			m.contextLines = 1
		}
		m.updateViewportContent()
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}
		if m.showExportMenu {
			format := report.Format("")
			switch msg.String() {
			case "1", "j":
				format = report.FormatJSON
			case "2", "c":
				format = report.FormatCSV
			case "3", "s":
				format = report.FormatSARIF
			case "4", "h":
				format = report.FormatHTML
			case "5", "x":
				format = report.FormatXLSX
			case "esc", "q", "e":
				m.showExportMenu = false
			}
			if format != "" {
				m.showExportMenu = false
				return m, m.exportFindings(format)
			}
			return m, nil
		}
		if m.searching {
			switch msg.String() {
			case "enter":
				m.searching = false
				m.searchInput.Blur()
				return m, nil
			case "esc":
				m.searching = false
				m.searchInput.Blur()
				m.clearFilters()
				return m, nil
			}
			m.searchInput, cmd = m.searchInput.Update(msg)
			m.query = strings.TrimSpace(m.searchInput.Value())
			m.applyFilters()
			return m, cmd
		}
		if m.scanning {
			if msg.String() == "ctrl+c" {
				m.quitting = true
				return m, tea.Quit
			}
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		case "?":
			m.showHelp = true
			return m, nil
		case "/":
			m.searching = true
			cmd = m.searchInput.Focus()
			return m, cmd
		case "esc":
			m.clearFilters()
			return m, nil
		case "1":
			m.toggleTier(types.TierHigh)
			return m, nil
		case "2":
			m.toggleTier(types.TierMedium)
			return m, nil
		case "3":
			m.toggleTier(types.TierLow)
			return m, nil
		case "0":
			m.tierFilter = ""
			m.applyFilters()
			return m, nil
		case "s":
			m.cycleSortColumn()
			return m, nil
		case "S":
			m.sortReverse = !m.sortReverse
			m.applyFilters()
			return m, nil
		case "+", "=":
			m.expandContext()
			return m, nil
		case "-", "_":
			m.contractContext()
			return m, nil
		case "enter", "o":
			return m, m.openEditor()
		case "y":
			return m, m.copyPathToClipboard()
		case "Y":
			return m, m.copyFindingToClipboard()
		case "e":
			if len(m.report.Results) == 0 {
				m.statusMessage = "Nothing to export"
				return m, nil
			}
			m.showExportMenu = true
			return m, nil
		case "r":
			if m.rescanFunc == nil {
				m.statusMessage = "Rescan not available"
				return m, nil
			}
			m.scanning = true
			return m, tea.Batch(m.spinner.Tick, m.rescan())
		}

		before := m.table.Cursor()
		m.table, cmd = m.table.Update(msg)
		if m.table.Cursor() != before {
			m.updateViewportContent()
		}
		return m, cmd

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.layout()

	case spinner.TickMsg:
		if m.scanning {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case reportMsg:
		m.scanning = false
		m.setReport(report.Report(msg))
		m.statusMessage = fmt.Sprintf("Rescanned %d files: %d findings", msg.Summary.FilesScanned, msg.Summary.TotalFindings)

	case statusMsg:
		m.scanning = false
		m.statusMessage = string(msg)
	}
	return m, nil
}

func (m *Model) layout() {
	const tierWidth, brandWidth, maskedWidth = 6, 18, 22
	// Four cells with one column of padding each side.
	locWidth := m.width - tierWidth - brandWidth - maskedWidth - 4*2 - tableBorderStyle.GetHorizontalFrameSize()
	if locWidth < 20 {
		locWidth = 20
	}
	cols := m.table.Columns()
	cols[0].Width = tierWidth
	cols[1].Width = brandWidth
	cols[2].Width = locWidth
	cols[3].Width = maskedWidth
	m.table.SetColumns(cols)

	headerHeight := 1
	available := m.height - 1 - headerHeight
	tableHeight := int(float64(available) * 0.45)
	viewportHeight := available - tableHeight - tableBorderStyle.GetVerticalFrameSize() - detailPaneBorderStyle.GetVerticalFrameSize()
	if viewportHeight < 3 {
		viewportHeight = 3
	}
	m.table.SetWidth(m.width - tableBorderStyle.GetHorizontalFrameSize())
	m.table.SetHeight(tableHeight)
	if m.viewport.Height == 0 {
		m.viewport = viewport.New(m.width-detailPaneBorderStyle.GetHorizontalFrameSize(), viewportHeight)
	} else {
		m.viewport.Width = m.width - detailPaneBorderStyle.GetHorizontalFrameSize()
		m.viewport.Height = viewportHeight
	}
	m.updateViewportContent()
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Initializing..."
	}
	if m.scanning {
		box := popupStyle.Width(50).Align(lipgloss.Center).
			Render(fmt.Sprintf("%s  Rescanning...\n\nPlease wait", m.spinner.View()))
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	if m.showHelp {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, popupStyle.Render(helpText()))
	}
	if m.showExportMenu {
		menu := lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Export report"),
			"",
			"1 / j  JSON",
			"2 / c  CSV",
			"3 / s  SARIF",
			"4 / h  HTML",
			"5 / x  XLSX",
			"",
			"esc    cancel",
		)
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, popupStyle.Render(menu))
	}

	counts := map[types.RiskTier]int{}
	for _, f := range m.display {
		counts[m.tierOf(f)]++
	}
	header := titleStyle.Render("panscan") + fmt.Sprintf(" %d of %d findings  %s %d  %s %d  %s %d  sort: %s",
		len(m.display), m.report.Summary.TotalFindings,
		tierStyles[types.TierHigh].Render("high"), counts[types.TierHigh],
		tierStyles[types.TierMedium].Render("medium"), counts[types.TierMedium],
		tierStyles[types.TierLow].Render("low"), counts[types.TierLow],
		m.sortIndicator())
	if m.tierFilter != "" {
		header += "  tier: " + string(m.tierFilter)
	}
	if m.query != "" {
		header += fmt.Sprintf("  search: %q", m.query)
	}

	status := m.statusMessage
	if m.searching {
		status = m.searchInput.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		tableBorderStyle.Render(m.table.View()),
		detailPaneBorderStyle.Render(m.viewport.View()),
		statusStyle.Width(m.width).Render(status),
	)
}

func (m Model) sortIndicator() string {
	if m.sortReverse {
		return m.sortKey.String() + " ▼"
	}
	return m.sortKey.String() + " ▲"
}

func helpText() string {
	rows := [][2]string{
		{"j/k, ↑/↓", "move"},
		{"/", "search path, brand, BIN or last four"},
		{"1 2 3", "show only high, medium or low tier files"},
		{"0, esc", "clear filters"},
		{"s / S", "cycle sort column / reverse"},
		{"+ / -", "more or less context"},
		{"o, enter", "open in $EDITOR"},
		{"y / Y", "copy path / copy finding"},
		{"e", "export report"},
		{"r", "rescan"},
		{"q", "quit"},
	}
	lines := []string{titleStyle.Render("Keys"), ""}
	for _, r := range rows {
		lines = append(lines, labelStyle.Render(fmt.Sprintf("%-10s", r[0]))+"  "+r[1])
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
