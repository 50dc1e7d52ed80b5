package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// renderStatusBar produces a full-width inverted status line showing the
// scenario, the player position, quest count and elapsed time.
func (m Model) renderStatusBar() string {
	e := m.engine
	pos := e.Camera.Position

	left := fmt.Sprintf(" %s | %.1f, %.1f, %.1f", e.Scenario.Title, pos.X, pos.Y, pos.Z)
	if m.commandMode {
		left += " | COMMAND"
	}
	right := fmt.Sprintf("%s ", e.Elapsed.Truncate(100*time.Millisecond))

	// Quest count if it fits.
	if n := e.Registry.Len(); n > 0 {
		candidate := fmt.Sprintf("Quests: %d | %s ", n, e.Elapsed.Truncate(100*time.Millisecond))
		if lipgloss.Width(left)+lipgloss.Width(candidate)+2 < m.width {
			right = candidate
		}
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}
