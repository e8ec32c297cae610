package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderStatusBar produces a full-width inverted status line: room and
// player stats on the left, the combat opponent (if any) on the right.
func (m Model) renderStatusBar() string {
	st := m.session.Status()

	left := fmt.Sprintf(" %s | HP %d/%d | ANG %d | VER %d",
		st.Room, st.HP, st.MaxHP, st.Attack, st.Defense)

	right := ""
	switch {
	case st.InCombat:
		right = fmt.Sprintf("Kampf: %s %d/%d ", st.Opponent, st.OpponentHP, st.OpponentMaxHP)
	case st.InDialog:
		right = "Gespräch "
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}
