package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tran/internal/core"
)

// Theme contains the visual styles shared by the picker and history screens.
type Theme struct {
	Title       lipgloss.Style
	ItemNormal  lipgloss.Style
	ItemActive  lipgloss.Style
	Description lipgloss.Style
	Current     lipgloss.Style
	Failed      lipgloss.Style
	Help        lipgloss.Style
	Border      lipgloss.Style
	Empty       lipgloss.Style
}

// DefaultTheme returns the default visual theme.
func DefaultTheme() Theme {
	return Theme{
		Title:       lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true),
		ItemNormal:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		ItemActive:  lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		Description: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Current:     lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Italic(true),
		Failed:      lipgloss.NewStyle().Foreground(lipgloss.Color("160")),
		Help:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1),
		Empty: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4),
	}
}

// Swatch renders a small block filled with c.
func Swatch(c core.Color) string {
	return lipgloss.NewStyle().
		Background(lipgloss.Color(c.String())).
		Render("   ")
}

// SwatchRow renders one swatch per color of row, separated by a space.
func SwatchRow(row core.Row) string {
	parts := make([]string, len(row))
	for i, c := range row {
		parts[i] = Swatch(c)
	}
	return strings.Join(parts, " ")
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	padding := (width - w) / 2
	return strings.Repeat(" ", padding) + text
}
