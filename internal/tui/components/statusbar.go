package components

import (
	"fmt"
	"strings"

	"github.com/subwatchdev/subwatch/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom status bar with the unread alert count,
// data age, and refresh state.
func RenderStatusBar(width int, unreadAlerts int, dataAge string, refreshing, autoRefresh bool) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Width(width)

	left := " [?]help  [q]uit"
	if unreadAlerts > 0 {
		alertStyle := lipgloss.NewStyle().Foreground(t.Orange)
		left += "  " + alertStyle.Render(fmt.Sprintf("%d unread alerts", unreadAlerts))
	}

	var rightParts []string
	if refreshing {
		rightParts = append(rightParts, "refreshing...")
	} else if autoRefresh {
		rightParts = append(rightParts, "auto")
	}
	if dataAge != "" {
		rightParts = append(rightParts, fmt.Sprintf("Data: %s", dataAge))
	}
	right := strings.Join(rightParts, "  ")
	if right != "" {
		right += " "
	}

	// Pad middle
	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}

	return style.Render(left + strings.Repeat(" ", padding) + right)
}
