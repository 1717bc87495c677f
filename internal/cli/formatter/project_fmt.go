package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/gantry/internal/contract"
	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/gantt"
	"github.com/charmbracelet/lipgloss"
)

// FormatProjectList renders a styled project list inside a bordered box.
func FormatProjectList(projects []*domain.Project) string {
	if len(projects) == 0 {
		return Dim("No projects. Create one with `gantry project add` or `gantry import`.")
	}
	headers := []string{"ID", "NAME", "STATUS", "START", "END"}
	rows := make([][]string, 0, len(projects))

	for _, p := range projects {
		end := Dim("--")
		if p.EndDate != nil {
			end = domain.FormatDate(*p.EndDate)
		}
		rows = append(rows, []string{
			p.DisplayID(),
			Bold(p.Name),
			StatusPill(p.Status),
			domain.FormatDate(p.StartDate),
			end,
		})
	}

	return RenderBox("Projects", RenderTable(headers, rows))
}

// FormatProjectInspect renders project metadata beside its task tree. resp
// must hold every row (no viewport) so the tree is complete.
func FormatProjectInspect(resp *contract.GanttResponse) string {
	left := buildMetadataPanel(resp)
	right := buildTreePanel(resp)
	return RenderBox("", lipgloss.JoinHorizontal(lipgloss.Top, left, "    ", right))
}

func buildMetadataPanel(resp *contract.GanttResponse) string {
	p := resp.Project
	var b strings.Builder

	b.WriteString(StyleBold.Render(p.Name) + "\n")
	if p.Description != "" {
		b.WriteString(Dim(p.Description) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("STATUS"), StatusPill(p.Status)))
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("ID    "), p.DisplayID()))
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("UUID  "), TruncID(p.ID)))
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("START "), domain.FormatDate(p.StartDate)))
	if p.EndDate != nil {
		b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("END   "), domain.FormatDate(*p.EndDate)))
	}
	b.WriteString(fmt.Sprintf("%s  %d\n", StyleDim.Render("TASKS "), resp.TotalTasks))
	if len(resp.Visible) > 0 {
		b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("SPAN  "),
			DateRange(resp.Layout.ViewStart, resp.Layout.ViewEnd)))
	}

	return lipgloss.NewStyle().Width(45).Render(b.String())
}

func buildTreePanel(resp *contract.GanttResponse) string {
	if len(resp.Layout.Bars) == 0 {
		return StyleDim.Render("No tasks")
	}

	var b strings.Builder
	header := StyleHeader.Render("TASKS")
	if pct, ok := averageProgress(resp.Layout.Bars); ok {
		header += "  " + RenderProgress(pct, 12)
	}
	b.WriteString(header + "\n" + StyleDim.Render(strings.Repeat("─", 5)) + "\n")
	b.WriteString(RenderTree(buildTaskTree(resp)))
	return b.String()
}

// averageProgress weights leaf progress equally; phases are summaries.
func averageProgress(bars []gantt.Bar) (float64, bool) {
	total, n := 0, 0
	for _, bar := range bars {
		if bar.IsPhase {
			continue
		}
		total += bar.Progress
		n++
	}
	if n == 0 {
		return 0, false
	}
	return float64(total) / float64(n) / 100, true
}

func buildTaskTree(resp *contract.GanttResponse) []TreeItem {
	bars := resp.Layout.Bars
	items := make([]TreeItem, 0, len(bars))
	for i, bar := range bars {
		detail := fmt.Sprintf("%d%%", bar.Progress)
		if bar.Row < len(resp.Visible) {
			t := resp.Visible[bar.Row]
			detail = ShortDate(t.StartDate) + " – " + ShortDate(t.EndDate)
		}
		title := bar.Name
		if bar.IsPhase {
			title = StylePurple.Render(title)
		}
		items = append(items, TreeItem{
			Title:  title,
			Seq:    bar.Row + 1,
			Level:  bar.Depth + 1,
			IsLast: isLastSibling(bars, i),
			Status: string(bar.Status),
			Detail: detail,
		})
	}
	return items
}

// isLastSibling reports whether no later row shares bars[i]'s depth before
// the tree climbs above it.
func isLastSibling(bars []gantt.Bar, i int) bool {
	for j := i + 1; j < len(bars); j++ {
		switch {
		case bars[j].Depth == bars[i].Depth:
			return false
		case bars[j].Depth < bars[i].Depth:
			return true
		}
	}
	return true
}
