package ui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/procviewer/internal/layout"
)

var classStyles = map[layout.Class]lipgloss.Style{
	layout.Title:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("45")),
	layout.Subtle:      lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	layout.Border:      lipgloss.NewStyle().Foreground(lipgloss.Color("60")),
	layout.Heading:     lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Bold(true),
	layout.Selected:    lipgloss.NewStyle().Reverse(true),
	layout.Hot:         lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
	layout.Graph:       lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	layout.Error:       lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	layout.StatusBar:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236")),
	layout.HelpBar:     lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	layout.Dialog:      lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
	layout.DialogTitle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("45")),
}

func styleRun(c layout.Class, s string) string {
	if st, ok := classStyles[c]; ok {
		return st.Render(s)
	}
	return s
}

// newHelp returns a help model that emits plain text; the canvas colours
// the whole help row.
func newHelp() help.Model {
	h := help.New()
	plain := lipgloss.NewStyle()
	h.Styles = help.Styles{
		Ellipsis:       plain,
		ShortKey:       plain,
		ShortDesc:      plain,
		ShortSeparator: plain,
		FullKey:        plain,
		FullDesc:       plain,
		FullSeparator:  plain,
	}
	return h
}
