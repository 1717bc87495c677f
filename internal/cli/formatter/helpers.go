package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// ShortDate renders a date as "Mar 03".
func ShortDate(t time.Time) string {
	if t.IsZero() {
		return "--"
	}
	return t.Format("Jan 02")
}

// DateRange renders an inclusive date span with its length in days.
func DateRange(start, end time.Time) string {
	days := int(domain.DateOnly(end).Sub(domain.DateOnly(start)).Hours()/24) + 1
	return fmt.Sprintf("%s → %s (%dd)", domain.FormatDate(start), domain.FormatDate(end), days)
}

// StatusPill returns a colored status indicator for project status.
func StatusPill(status domain.ProjectStatus) string {
	switch status {
	case domain.ProjectActive:
		return StyleGreen.Render("● Active")
	case domain.ProjectOnHold:
		return StyleYellow.Render("○ On hold")
	case domain.ProjectDone:
		return StyleDim.Render("✔ Done")
	case domain.ProjectArchived:
		return StyleDim.Render("✖ Archived")
	default:
		return StyleDim.Render(string(status))
	}
}

// TaskStatusPill returns a colored status indicator for a task.
func TaskStatusPill(status domain.TaskStatus) string {
	switch status {
	case domain.TaskTodo:
		return StyleBlue.Render("○ Todo")
	case domain.TaskInProgress:
		return StyleYellow.Render("● In progress")
	case domain.TaskDone:
		return StyleDim.Render("✔ Done")
	case domain.TaskBlocked:
		return StyleRed.Render("■ Blocked")
	default:
		return StyleDim.Render(string(status))
	}
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// Truncate shortens plain text to at most width cells, marking the cut
// with an ellipsis.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}

// PadRight pads s with spaces to width visible cells.
func PadRight(s string, width int) string {
	if pad := width - lipgloss.Width(s); pad > 0 {
		return s + strings.Repeat(" ", pad)
	}
	return s
}

// FormatHours renders a decimal hour count such as 7.5h.
func FormatHours(h float64) string {
	if h == float64(int(h)) {
		return fmt.Sprintf("%dh", int(h))
	}
	return fmt.Sprintf("%.1fh", h)
}
