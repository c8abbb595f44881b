package tui

import (
	"fmt"
	"strings"

	"github.com/subwatchdev/subwatch/internal/model"
	"github.com/subwatchdev/subwatch/internal/tui/components"
	"github.com/subwatchdev/subwatch/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// renderAlertsTab renders the alert feed with read-state styling and a cursor.
func (a App) renderAlertsTab(cw, contentH int) string {
	t := theme.Active

	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)
	if len(a.alerts) == 0 {
		return components.ContentCard("Alerts",
			dimStyle.Render("All clear. No alerts right now."), cw)
	}

	titleStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)
	readStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	msgStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	selBg := lipgloss.NewStyle().Background(t.SurfaceHover)

	priorityStyle := func(priority string) lipgloss.Style {
		switch priority {
		case model.PriorityHigh:
			return lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Bold(true)
		case model.PriorityMedium:
			return lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
		default:
			return lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
		}
	}

	innerW := cw - 2

	// Two rows per alert, so fit half as many as the height allows.
	visible := (contentH - 2) / 2
	if visible < 2 {
		visible = 2
	}
	start := 0
	if a.alertsCursor >= visible {
		start = a.alertsCursor - visible + 1
	}
	end := start + visible
	if end > len(a.alerts) {
		end = len(a.alerts)
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		al := a.alerts[i]
		meta := model.MetaFor(al.Type)

		marker := "  "
		if i == a.alertsCursor {
			marker = "▸ "
		}

		unreadDot := "● "
		tStyle := titleStyle
		if al.IsRead {
			unreadDot = "  "
			tStyle = readStyle
		}

		titleLine := fmt.Sprintf("%s%s%s %s  %s",
			marker, unreadDot, meta.Icon,
			tStyle.Render(truncStr(al.Title, innerW-20)),
			priorityStyle(al.Priority).Render(al.Priority))
		msgLine := "      " + msgStyle.Render(truncStr(al.Message, innerW-6))

		if i == a.alertsCursor {
			titleLine = selBg.Render(titleLine)
		}
		b.WriteString(titleLine)
		b.WriteString("\n")
		b.WriteString(msgLine)
		b.WriteString("\n")
	}

	if len(a.alerts) > visible {
		b.WriteString(dimStyle.Render(fmt.Sprintf(" %d/%d", a.alertsCursor+1, len(a.alerts))))
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render(" j/k move  r read  R read all  d dismiss"))

	return b.String()
}
