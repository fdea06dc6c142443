package tui

import (
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	border      lipgloss.Style
	title       lipgloss.Style
	label       lipgloss.Style
	tabActive   lipgloss.Style
	tabInactive lipgloss.Style
	row         lipgloss.Style
	rowSelected lipgloss.Style
	picked      lipgloss.Style
	logo        lipgloss.Style
	footer      lipgloss.Style
	key         lipgloss.Style
	ok          lipgloss.Style
}

func defaultTheme() Theme {
	b := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	return Theme{
		border:      b.BorderForeground(lipgloss.Color("63")),
		title:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81")),
		label:       lipgloss.NewStyle().Faint(true),
		tabActive:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("219")).Underline(true),
		tabInactive: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		row:         lipgloss.NewStyle(),
		rowSelected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("81")),
		picked:      lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		logo:        lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213")),
		footer:      lipgloss.NewStyle().Faint(true),
		key:         lipgloss.NewStyle().Foreground(lipgloss.Color("219")),
		ok:          lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
	}
}

// truncateMiddle shortens s to at most max runes, keeping both ends.
func truncateMiddle(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max < 7 {
		return string(r[:max])
	}
	left := (max - 3) / 2
	right := max - 3 - left
	return string(r[:left]) + "..." + string(r[len(r)-right:])
}

type systemClipboard struct{}

func (systemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }
