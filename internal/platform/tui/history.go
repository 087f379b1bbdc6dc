package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tran/internal/core"
	"github.com/vovakirdan/tran/internal/storage"
)

// History layout constants
const (
	minWidthForDetails = 100 // Minimum width to show the target panel
	detailsWidth       = 36  // Width of the target panel
)

// HistoryModel is the Bubble Tea model for browsing past rotations.
type HistoryModel struct {
	runs        []storage.Run
	table       table.Model
	help        help.Model
	keys        HistoryKeyMap
	theme       Theme
	width       int
	height      int
	quitting    bool
	showDetails bool // Whether to show the target panel
}

// NewHistoryModel creates a history browser over runs, newest first.
func NewHistoryModel(runs []storage.Run, width, height int) HistoryModel {
	h := help.New()
	h.ShowAll = false
	h.Width = width

	m := HistoryModel{
		runs:        runs,
		keys:        DefaultHistoryKeyMap(),
		help:        h,
		theme:       DefaultTheme(),
		width:       width,
		height:      height,
		showDetails: width >= minWidthForDetails,
	}
	m.table = m.createTable()
	m.updateTableRows()
	return m
}

// createTable creates a new table with appropriate columns.
func (m *HistoryModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "When", Width: 12},
		{Title: "Mode", Width: 8},
		{Title: "From", Width: 16},
		{Title: "To", Width: 16},
		{Title: "Targets", Width: 10},
	}

	tableWidth := m.width - 4 // Margins
	if m.showDetails {
		tableWidth -= detailsWidth + 3
	}
	// Give spare width to the color columns, which hold whole map rows.
	if spare := tableWidth - 72; spare > 0 {
		columns[2].Width += spare / 2
		columns[3].Width += spare / 2
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)), // Leave room for header, help, and margins
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// updateTableRows fills the table from the loaded runs.
func (m *HistoryModel) updateTableRows() {
	m.table.SetRows(HistoryRows(m.runs))
	m.table.GotoTop()
}

// HistoryRows converts runs to table rows.
func HistoryRows(runs []storage.Run) []table.Row {
	rows := make([]table.Row, len(runs))
	for i, r := range runs {
		rows[i] = table.Row{
			r.CreatedAt.Format("Jan 02 15:04"),
			r.Mode,
			r.From,
			r.To,
			targetSummary(r),
		}
	}
	return rows
}

func targetSummary(r storage.Run) string {
	if failed := r.Failed(); failed > 0 {
		return fmt.Sprintf("%d (%d!)", len(r.Targets), failed)
	}
	return fmt.Sprintf("%d", len(r.Targets))
}

// Init initializes the history model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the history browser.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showDetails = m.width >= minWidthForDetails
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	// Pass other messages to table for scrolling
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the history browser.
func (m HistoryModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	title := fmt.Sprintf("ROTATIONS - %d", len(m.runs))
	b.WriteString(m.theme.Title.MarginBottom(1).Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	if len(m.runs) == 0 {
		b.WriteString(m.theme.Border.Render(m.theme.Empty.Render("No rotations recorded yet.\nRun 'tran' to rotate your colors.")))
	} else if m.showDetails {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			m.theme.Border.Render(m.table.View()),
			"  ",
			m.renderDetails(),
		))
	} else {
		b.WriteString(m.theme.Border.Render(m.table.View()))
	}

	b.WriteString("\n")
	b.WriteString(m.theme.Help.Render(m.help.View(m.keys)))

	return b.String()
}

// renderDetails renders the target list of the highlighted run.
func (m HistoryModel) renderDetails() string {
	style := m.theme.Border.Width(detailsWidth)

	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(m.runs) {
		return style.Render("")
	}
	run := m.runs[cursor]

	var b strings.Builder
	if from, err := core.ParseRow(run.From); err == nil {
		b.WriteString(SwatchRow(from))
	}
	b.WriteString(" -> ")
	if to, err := core.ParseRow(run.To); err == nil {
		b.WriteString(SwatchRow(to))
	}
	b.WriteString("\n")
	b.WriteString(strings.Repeat("-", detailsWidth-4))
	b.WriteString("\n")

	if len(run.Targets) == 0 {
		b.WriteString(m.theme.Description.Render("no targets"))
	}
	for _, t := range run.Targets {
		name := filepath.Base(t.Path)
		maxLen := detailsWidth - 16
		if len(name) > maxLen {
			name = name[:maxLen-1] + "."
		}
		line := fmt.Sprintf("%-*s %s", maxLen, name, t.Status)
		if t.Status == storage.StatusFailed {
			b.WriteString(m.theme.Failed.Render(line))
		} else {
			b.WriteString(m.theme.ItemNormal.Render(line))
		}
		b.WriteString("\n")
	}

	return style.Render(b.String())
}

// IsQuitting returns true if user closed the browser.
func (m HistoryModel) IsQuitting() bool {
	return m.quitting
}

// RunHistory runs the history browser until the user quits.
func RunHistory(runs []storage.Run, width, height int) error {
	p := tea.NewProgram(
		NewHistoryModel(runs, width, height),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
