package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleNarrative = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleListing = lipgloss.NewStyle().
			Bold(true)

	styleExits = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleDialogue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleArt = lipgloss.NewStyle().
			Foreground(lipgloss.Color("51"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindNarrative lineKind = iota
	kindListing
	kindExits
	kindDialogue
	kindSystem
)

// classifyLine assigns a style class from the line's shape. The engine
// emits fixed prefixes for listings and exits; dialog choices are
// indented and numbered.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case strings.HasPrefix(line, "Hier liegt:"),
		strings.HasPrefix(line, "Du siehst:"),
		strings.HasPrefix(line, "Anwesend:"),
		strings.HasPrefix(line, "Du trägst"):
		return kindListing
	case strings.HasPrefix(line, "Ausgänge:"),
		strings.HasPrefix(line, "Es gibt keinen sichtbaren Ausgang"):
		return kindExits
	case strings.HasPrefix(line, "  ") && strings.Contains(line, ") "):
		return kindDialogue
	default:
		return kindNarrative
	}
}

// renderLineKind applies the style for a classified line.
func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindListing:
		return styleListing.Render(line)
	case kindExits:
		return styleExits.Render(line)
	case kindDialogue:
		return styleDialogue.Render(line)
	case kindSystem:
		return styleSystem.Render(line)
	default:
		return styleNarrative.Render(line)
	}
}

// styledSystemMsg renders a host message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
