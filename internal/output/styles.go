package output

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles holds all lipgloss styles for text output
var Styles = defaultStyles()

type styleSet struct {
	// Sieve matches in followed lines. Tabs are kept so matched bytes are
	// written unchanged.
	Match lipgloss.Style
	// Truncation and rotation markers
	Notice lipgloss.Style

	// Summary styles
	Header  lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Warning lipgloss.Style
	Danger  lipgloss.Style
}

func defaultStyles() styleSet {
	return styleSet{
		Match:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")).TabWidth(lipgloss.NoTabConversion), // Red
		Notice: lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),                         // Orange

		Header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).BorderForeground(lipgloss.Color("239")),
		Label:   lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Value:   lipgloss.NewStyle().Bold(true),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true), // Orange
		Danger:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true), // Red
	}
}

// DisableStyles strips colors and emphasis, for output that is not a terminal
func DisableStyles() {
	plain := lipgloss.NewStyle()
	Styles = styleSet{
		Match:   plain.TabWidth(lipgloss.NoTabConversion),
		Notice:  plain,
		Header:  plain,
		Label:   plain,
		Value:   plain,
		Warning: plain,
		Danger:  plain,
	}
}

// ResetStyles restores the default styles
func ResetStyles() {
	Styles = defaultStyles()
}
