package main

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/term"
)

var (
	keywordStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#ECFD65"})
	spokenStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "236", Dark: "252"})
	markerStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "244", Dark: "241"})
)

// keyword renders a highlighted word for help text.
func keyword(s string) string {
	return keywordStyle.Render(s)
}

// paragraph formats help text at a fixed width with a small indent.
func paragraph(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = wordwrap.String(s, 78)
	return strings.TrimSpace(indent.String(s, 2)) + "\n"
}

// lineStyle returns the renderer for echoed lines, or nil when stdout is
// not a terminal so piped output stays plain.
func lineStyle() func(string) string {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return nil
	}
	marker := markerStyle.Render("»")
	return func(s string) string {
		return marker + " " + spokenStyle.Render(s)
	}
}
