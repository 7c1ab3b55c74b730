package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Spotify green leads; the rest follow the terminal's usual status colours.
var styles = newTheme(lipgloss.Color("#1DB954"), lipgloss.Color("#04B575"), lipgloss.Color("#FF5F5F"), lipgloss.Color("#FFA500"), lipgloss.Color("#626262"))

// theme holds the styles shared by every view.
type theme struct {
	title lipgloss.Style
	meta  lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
	bar   lipgloss.Style
}

func newTheme(brand, ok, bad, warn, muted lipgloss.Color) theme {
	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
	return theme{
		title: fg(brand).Bold(true).MarginBottom(1),
		meta:  fg(muted),
		ok:    fg(ok).Bold(true),
		err:   fg(bad).Bold(true),
		warn:  fg(warn),
		help:  fg(muted).Italic(true),
		bar:   fg(brand),
	}
}

// progressBar draws step/total as a bar width cells wide. Width defaults to 30.
func (t theme) progressBar(step, total, width int) string {
	if width <= 0 {
		width = 30
	}
	filled := 0
	if total > 0 {
		filled = min(max(step, 0)*width/total, width)
	}
	return t.bar.Render(strings.Repeat("█", filled)) + t.meta.Render(strings.Repeat("░", width-filled))
}
