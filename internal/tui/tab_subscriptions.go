package tui

import (
	"fmt"
	"strings"

	"github.com/subwatchdev/subwatch/internal/cli"
	"github.com/subwatchdev/subwatch/internal/model"
	"github.com/subwatchdev/subwatch/internal/tui/components"
	"github.com/subwatchdev/subwatch/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// renderSubscriptionsTab renders a navigable list of subscriptions next to a
// detail pane for the selected one.
func (a App) renderSubscriptionsTab(cw, contentH int) string {
	t := theme.Active
	subs := a.sortedSubs()

	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)
	if len(subs) == 0 {
		return components.ContentCard("Subscriptions",
			dimStyle.Render("No subscriptions yet. Run `subwatch add` or `subwatch seed`."), cw)
	}

	listW := cw * 3 / 5
	detailW := cw - listW
	if cw < compactWidth {
		listW = cw
		detailW = 0
	}

	list := a.renderSubList(subs, listW, contentH)
	if detailW == 0 {
		return list
	}

	sel := subs[a.subsCursor]
	detail := a.renderSubDetail(sel, detailW)
	return lipgloss.JoinHorizontal(lipgloss.Top, list, detail)
}

func (a App) renderSubList(subs []model.Subscription, width, contentH int) string {
	t := theme.Active

	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover).Bold(true)
	inactiveStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	costStyle := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)
	catStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	hintStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	innerW := width - 2
	costW := 12
	catW := 14
	nameW := innerW - costW - catW - 4
	if nameW < 10 {
		nameW = 10
		catW = innerW - costW - nameW - 4
		if catW < 0 {
			catW = 0
		}
	}

	visible := contentH - 3
	if visible < 3 {
		visible = 3
	}
	start := 0
	if a.subsCursor >= visible {
		start = a.subsCursor - visible + 1
	}
	end := start + visible
	if end > len(subs) {
		end = len(subs)
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		sub := subs[i]
		marker := "  "
		st := rowStyle
		if i == a.subsCursor {
			marker = "▸ "
			st = selStyle
		} else if !sub.Active {
			st = inactiveStyle
		}

		name := truncStr(sub.Name, nameW)
		if !sub.Active {
			name = name + " ·"
		}
		line := fmt.Sprintf("%s%-*s %-*s %*s",
			marker, nameW, truncStr(name, nameW), catW, truncStr(sub.Category, catW),
			costW, cli.FormatExactMoney(sub.Cost)+cli.CycleSuffix(sub.Cycle))

		if i == a.subsCursor {
			b.WriteString(st.Render(line))
		} else {
			// Color the cost column only on unselected rows
			b.WriteString(st.Render(fmt.Sprintf("%s%-*s ", marker, nameW, truncStr(name, nameW))))
			b.WriteString(catStyle.Render(fmt.Sprintf("%-*s ", catW, truncStr(sub.Category, catW))))
			b.WriteString(costStyle.Render(fmt.Sprintf("%*s", costW, cli.FormatExactMoney(sub.Cost)+cli.CycleSuffix(sub.Cycle))))
		}
		b.WriteString("\n")
	}

	if len(subs) > visible {
		b.WriteString(hintStyle.Render(fmt.Sprintf(" %d/%d", a.subsCursor+1, len(subs))))
		b.WriteString("\n")
	}
	b.WriteString(hintStyle.Render(" j/k move  g/G top/bottom"))

	return lipgloss.NewStyle().Width(width).Render(b.String())
}

func (a App) renderSubDetail(sub model.Subscription, width int) string {
	t := theme.Active

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	costStyle := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	row := func(label, val string) string {
		return labelStyle.Render(fmt.Sprintf("%-10s", label)) + valStyle.Render(val) + "\n"
	}

	var b strings.Builder
	b.WriteString(labelStyle.Render(fmt.Sprintf("%-10s", "Cost")))
	b.WriteString(costStyle.Render(cli.FormatExactMoney(sub.Cost) + cli.CycleSuffix(sub.Cycle)))
	b.WriteString("\n")
	b.WriteString(row("Monthly", cli.FormatExactMoney(sub.MonthlyEquivalent())))
	b.WriteString(row("Annual", cli.FormatExactMoney(sub.AnnualCost())))
	b.WriteString(row("Category", sub.Category))
	b.WriteString(row("Anchor", sub.AnchorDate))

	status := "active"
	if !sub.Active {
		status = "inactive"
	}
	b.WriteString(row("Status", status))

	if sub.Notes != "" {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(truncStr(sub.Notes, components.CardInnerWidth(width))))
		b.WriteString("\n")
	}

	return components.ContentCard(truncStr(sub.Name, components.CardInnerWidth(width)), b.String(), width)
}
