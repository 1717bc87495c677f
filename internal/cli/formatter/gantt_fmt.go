package formatter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/alexanderramin/gantry/internal/contract"
	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/gantt"
	"github.com/charmbracelet/lipgloss"
)

const (
	doneCell      = "█"
	remainingCell = "░"
	phaseCell     = "▬"
	emptyCell     = "·"
	maxLabelWidth = 32
	indentWidth   = 2
)

// ChartWindow selects the label width and the day columns a text chart
// shows. Days <= 0 shows every column from FirstDay on.
type ChartWindow struct {
	LabelWidth int
	FirstDay   int
	Days       int
}

func (w ChartWindow) span(total int) (first, n int) {
	first = w.FirstDay
	if first < 0 {
		first = 0
	}
	n = total - first
	if w.Days > 0 && w.Days < n {
		n = w.Days
	}
	if n < 0 {
		n = 0
	}
	return first, n
}

// BarCells converts a bar's pixel placement to whole day cells counted from
// the view start: the first cell, the cell span and the completed cells.
func BarCells(b gantt.Bar, dayWidth float64) (first, span, done int) {
	if dayWidth <= 0 {
		return 0, 0, 0
	}
	first = int(math.Round(b.Position.Left / dayWidth))
	span = int(math.Round(b.Position.Width / dayWidth))
	if span < 1 {
		span = 1
	}
	done = int(math.Round(b.ProgressWidth / dayWidth))
	if done > span {
		done = span
	}
	return first, span, done
}

// LabelWidth returns the label column width that fits every bar's indented
// name, capped so the chart keeps most of the terminal.
func LabelWidth(bars []gantt.Bar) int {
	w := len("TASK")
	for _, b := range bars {
		if n := b.Depth*indentWidth + lipgloss.Width(b.Name); n > w {
			w = n
		}
	}
	if w > maxLabelWidth {
		w = maxLabelWidth
	}
	return w
}

// DateHeader renders the label gutter followed by a date marker at the
// first column and every Monday, skipping markers that would overlap.
func DateHeader(viewStart time.Time, totalDays int, w ChartWindow) string {
	first, n := w.span(totalDays)
	cells := []rune(strings.Repeat(" ", n))
	next := 0
	for c := 0; c < n; c++ {
		d := domain.DateOnly(viewStart).AddDate(0, 0, first+c)
		if c != 0 && d.Weekday() != time.Monday {
			continue
		}
		label := []rune(d.Format("01/02"))
		if c < next || c+len(label) > n {
			continue
		}
		copy(cells[c:], label)
		next = c + len(label) + 1
	}
	return PadRight("", w.LabelWidth) + " " + StyleDim.Render(string(cells))
}

// ChartRow renders one bar as its label plus one cell per day column.
func ChartRow(b gantt.Bar, dayWidth float64, totalDays int, w ChartWindow) string {
	label := strings.Repeat(" ", b.Depth*indentWidth) + b.Name
	label = PadRight(Truncate(label, w.LabelWidth), w.LabelWidth)
	if b.IsPhase {
		label = StylePurple.Bold(true).Render(label)
	}

	barFirst, span, done := BarCells(b, dayWidth)
	first, n := w.span(totalDays)
	style := TaskStatusColor(b.Status)

	var cells strings.Builder
	for c := first; c < first+n; c++ {
		off := c - barFirst
		switch {
		case off < 0 || off >= span:
			cells.WriteString(StyleDim.Render(emptyCell))
		case b.IsPhase:
			cells.WriteString(StylePurple.Render(phaseCell))
		case off < done:
			cells.WriteString(style.Render(doneCell))
		default:
			cells.WriteString(style.Render(remainingCell))
		}
	}
	return label + " " + cells.String()
}

// FormatGantt renders a response as a terminal chart followed by its
// dependency list.
func FormatGantt(resp *contract.GanttResponse, w ChartWindow) string {
	layout := resp.Layout
	var b strings.Builder

	b.WriteString(Header(resp.Project.Name) + "\n")
	summary := fmt.Sprintf("%d of %d tasks", resp.VisibleTasks, resp.TotalTasks)
	if resp.VisibleTasks > 0 {
		summary += " · " + DateRange(layout.ViewStart, layout.ViewEnd)
	}
	b.WriteString(Dim(summary) + "\n\n")

	if len(layout.Bars) == 0 {
		b.WriteString(Dim("No tasks to show.") + "\n")
		return b.String()
	}

	if w.LabelWidth <= 0 {
		w.LabelWidth = LabelWidth(layout.Bars)
	}
	totalDays := layout.Columns.Len()
	b.WriteString(DateHeader(layout.ViewStart, totalDays, w) + "\n")
	for _, bar := range layout.Bars {
		b.WriteString(ChartRow(bar, layout.DayWidth, totalDays, w) + "\n")
	}

	if list := FormatArrows(layout.Arrows, resp.Visible); list != "" {
		b.WriteString("\n" + StyleHeader.Render("DEPENDENCIES") + "\n" + list)
	}
	return b.String()
}

// FormatArrows lists routed dependencies as "pred ─FS→ succ" lines. Only
// arrows between visible tasks exist, so every name resolves.
func FormatArrows(arrows []gantt.Arrow, visible []domain.Task) string {
	if len(arrows) == 0 {
		return ""
	}
	names := make(map[string]string, len(visible))
	for _, t := range visible {
		names[t.ID] = t.Name
	}
	var b strings.Builder
	for _, a := range arrows {
		fmt.Fprintf(&b, "  %s %s %s\n", names[a.PredecessorID], StyleBlue.Render("─"+a.Type.Short()+"→"), names[a.SuccessorID])
	}
	return b.String()
}
