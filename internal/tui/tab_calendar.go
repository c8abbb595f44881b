package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/subwatchdev/subwatch/internal/cli"
	"github.com/subwatchdev/subwatch/internal/tui/components"
	"github.com/subwatchdev/subwatch/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// renderCalendarTab renders a month grid with per-day charge totals and a
// due-day detail list. n/p navigate months, t jumps back to today.
func (a App) renderCalendarTab(cw, contentH int) string {
	t := theme.Active
	proj := a.proj
	var b strings.Builder

	title := fmt.Sprintf("%s %d — %s projected",
		proj.Month.String(), proj.Year, cli.FormatExactMoney(proj.MonthTotal))

	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)
	hintStyle := lipgloss.NewStyle().Foreground(t.TextDim)
	b.WriteString(" " + titleStyle.Render(title))
	b.WriteString("  " + hintStyle.Render("[n]ext [p]rev [t]oday"))
	b.WriteString("\n\n")

	b.WriteString(a.renderMonthGrid(cw))
	b.WriteString("\n")

	// Due-day detail list fills the remaining height
	gridH := lipgloss.Height(b.String())
	listH := contentH - gridH - 1
	if listH < 3 {
		listH = 3
	}
	b.WriteString(a.renderDueList(cw, listH))

	if proj.Skipped > 0 {
		b.WriteString("\n")
		b.WriteString(hintStyle.Render(fmt.Sprintf(" %d subscriptions skipped (bad anchor dates)", proj.Skipped)))
	}

	return b.String()
}

func (a App) renderMonthGrid(cw int) string {
	t := theme.Active
	proj := a.proj
	now := time.Now()
	isCurrentMonth := proj.Year == now.Year() && proj.Month == now.Month()

	cellW := (cw - 2) / 7
	if cellW > 14 {
		cellW = 14
	}
	if cellW < 8 {
		cellW = 8
	}

	headStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Bold(true)
	dayStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)
	dueStyle := lipgloss.NewStyle().Foreground(t.Green).Bold(true)
	todayStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)

	var b strings.Builder

	b.WriteString(" ")
	for _, wd := range []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"} {
		b.WriteString(headStyle.Render(fmt.Sprintf("%-*s", cellW, wd)))
	}
	b.WriteString("\n")

	firstWeekday := int(proj.Date(1).Weekday())

	// Each grid cell gets two rows: day number, then the day's total.
	day := 1
	for week := 0; day <= proj.Days; week++ {
		var numRow, totRow strings.Builder
		numRow.WriteString(" ")
		totRow.WriteString(" ")

		for col := 0; col < 7; col++ {
			if (week == 0 && col < firstWeekday) || day > proj.Days {
				numRow.WriteString(strings.Repeat(" ", cellW))
				totRow.WriteString(strings.Repeat(" ", cellW))
				continue
			}

			numStr := fmt.Sprintf("%-*d", cellW, day)
			switch {
			case isCurrentMonth && day == now.Day():
				numRow.WriteString(todayStyle.Render(numStr))
			case len(proj.Entries[day]) > 0:
				numRow.WriteString(dayStyle.Render(numStr))
			default:
				numRow.WriteString(dimStyle.Render(numStr))
			}

			if total, ok := proj.DayTotals[day]; ok && total > 0 {
				totStr := fmt.Sprintf("%-*s", cellW, fmt.Sprintf("$%.0f", total))
				totRow.WriteString(dueStyle.Render(totStr))
			} else {
				totRow.WriteString(strings.Repeat(" ", cellW))
			}
			day++
		}

		b.WriteString(numRow.String())
		b.WriteString("\n")
		b.WriteString(totRow.String())
		b.WriteString("\n")
	}

	return b.String()
}

func (a App) renderDueList(cw, listH int) string {
	t := theme.Active
	proj := a.proj

	dateStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	nameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	costStyle := lipgloss.NewStyle().Foreground(t.Green)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	dueDays := proj.DueDays()
	if len(dueDays) == 0 {
		return components.ContentCard("Charges",
			dimStyle.Render("No charges this month."), cw)
	}

	innerW := components.CardInnerWidth(cw)
	nameW := innerW - 26
	if nameW < 10 {
		nameW = 10
	}

	var body strings.Builder
	lines := 0
	for _, day := range dueDays {
		if lines >= listH-2 {
			body.WriteString(dimStyle.Render(fmt.Sprintf("… and more on %d other days", len(dueDays))))
			break
		}
		for i, sub := range proj.Entries[day] {
			dateCol := ""
			if i == 0 {
				dateCol = cli.FormatDateShort(proj.Date(day))
			}
			fmt.Fprintf(&body, "%s %s %s\n",
				dateStyle.Render(fmt.Sprintf("%-8s", dateCol)),
				nameStyle.Render(fmt.Sprintf("%-*s", nameW, truncStr(sub.Name, nameW))),
				costStyle.Render(fmt.Sprintf("%10s", cli.FormatExactMoney(sub.Cost)+cli.CycleSuffix(sub.Cycle))))
			lines++
		}
	}

	return components.ContentCard("Charges", body.String(), cw)
}
