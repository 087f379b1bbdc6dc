package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tran/internal/config"
	"github.com/vovakirdan/tran/internal/core"
)

// PickerModel is the Bubble Tea model for choosing the next color.
type PickerModel struct {
	choices  []config.Choice
	current  core.Row
	cursor   int
	width    int
	height   int
	keys     PickerKeyMap
	help     help.Model
	theme    Theme
	quitting bool
	selected *config.Choice // Set when user confirms a color
}

// NewPickerModel creates a picker over choices. The cursor starts on the
// first choice that is not the current color.
func NewPickerModel(choices []config.Choice, current core.Row, width, height int) PickerModel {
	h := help.New()
	h.ShowAll = false
	h.Width = width

	m := PickerModel{
		choices: choices,
		current: current,
		width:   width,
		height:  height,
		keys:    DefaultPickerKeyMap(),
		help:    h,
		theme:   DefaultTheme(),
	}
	for i, c := range choices {
		if !c.Current {
			m.cursor = i
			break
		}
	}
	return m
}

// Init initializes the picker model.
func (m PickerModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the picker.
func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for list navigation.
func (m PickerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.choices)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Top):
		m.cursor = 0

	case key.Matches(msg, m.keys.Bottom):
		if len(m.choices) > 0 {
			m.cursor = len(m.choices) - 1
		}

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Select):
		if len(m.choices) > 0 {
			selected := m.choices[m.cursor]
			m.selected = &selected
			return m, tea.Quit
		}
	}

	return m, nil
}

// View renders the picker.
func (m PickerModel) View() string {
	if m.quitting || m.selected != nil {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(m.theme.Title.Render(centerText("T R A N", m.width)))
	b.WriteString("\n\n")

	subtitle := fmt.Sprintf("Current %s  %s", SwatchRow(m.current), m.current)
	b.WriteString(centerText(subtitle, m.width))
	b.WriteString("\n\n")

	if len(m.choices) == 0 {
		b.WriteString(m.theme.Empty.Render("No colors configured."))
		b.WriteString("\n")
	}

	for i, c := range m.choices {
		b.WriteString(centerText(m.renderChoice(i, c), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(m.theme.Help.Render(m.help.View(m.keys)), m.width))
	b.WriteString("\n")

	return b.String()
}

func (m PickerModel) renderChoice(i int, c config.Choice) string {
	cursor := "  "
	style := m.theme.ItemNormal
	if i == m.cursor {
		cursor = "> "
		style = m.theme.ItemActive
	}

	line := fmt.Sprintf("%s%s  %s", cursor, SwatchRow(c.Row), style.Render(c.Row.String()))

	details := fmt.Sprintf("  x%d  ΔE %5.1f", c.Weight, RowDistance(m.current, c.Row))
	line += m.theme.Description.Render(details)
	if c.Current {
		line += m.theme.Current.Render("  (current)")
	}
	return line
}

// RowDistance is the mean CIE76 distance between matching colors of two
// rows. Rows of different length are compared on their common prefix.
func RowDistance(a, b core.Row) float64 {
	n := min(len(a), len(b))
	if n == 0 {
		return 0
	}
	var sum float64
	for i := range n {
		sum += a[i].Distance(b[i])
	}
	return sum / float64(n)
}

// Selected returns the chosen color, or nil if none was chosen.
func (m PickerModel) Selected() *config.Choice {
	return m.selected
}

// IsQuitting returns true if user quit without choosing.
func (m PickerModel) IsQuitting() bool {
	return m.quitting
}

// PickResult holds the result of running the picker.
type PickResult struct {
	Row  core.Row
	Quit bool
}

// RunPicker runs the picker for cfg and returns the chosen row.
func RunPicker(cfg config.Config, width, height int) (PickResult, error) {
	model := NewPickerModel(config.Choices(cfg), config.CurrentRow(cfg), width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return PickResult{}, err
	}

	m, ok := finalModel.(PickerModel)
	if !ok || m.Selected() == nil {
		return PickResult{Quit: true}, nil
	}
	return PickResult{Row: m.Selected().Row}, nil
}
