package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/gantry/internal/domain"
)

// FormatTaskList renders tasks in the given order with their incoming
// links abbreviated as "FS←#2".
func FormatTaskList(tasks []domain.Task) string {
	if len(tasks) == 0 {
		return Dim("No tasks.")
	}
	rowOf := make(map[string]int, len(tasks))
	for i, t := range tasks {
		rowOf[t.ID] = i + 1
	}

	headers := []string{"#", "ID", "NAME", "START", "END", "PROGRESS", "STATUS", "DEPENDS ON"}
	rows := make([][]string, 0, len(tasks))
	for i, t := range tasks {
		name := t.Name
		if t.IsPhase {
			name = StylePurple.Render(name)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			TruncID(t.ID),
			name,
			domain.FormatDate(t.StartDate),
			domain.FormatDate(t.EndDate),
			RenderProgress(float64(t.Progress)/100, 8),
			TaskStatusPill(t.Status),
			formatDeps(t.Dependencies, rowOf),
		})
	}
	return RenderTable(headers, rows, 0)
}

func formatDeps(deps []domain.Dependency, rowOf map[string]int) string {
	if len(deps) == 0 {
		return Dim("--")
	}
	parts := make([]string, 0, len(deps))
	for _, d := range deps {
		ref := TruncID(d.PredecessorID)
		if row, ok := rowOf[d.PredecessorID]; ok {
			ref = fmt.Sprintf("#%d", row)
		}
		part := d.Type.Short() + "←" + ref
		if d.LagDays != nil && *d.LagDays > 0 {
			part += fmt.Sprintf("+%dd", *d.LagDays)
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, " ")
}

// FormatResourceList renders resources with their daily capacity.
func FormatResourceList(resources []*domain.Resource) string {
	if len(resources) == 0 {
		return Dim("No resources.")
	}
	headers := []string{"ID", "NAME", "TYPE", "HOURS/DAY"}
	rows := make([][]string, 0, len(resources))
	for _, r := range resources {
		rows = append(rows, []string{
			TruncID(r.ID),
			Bold(r.Name),
			string(r.Type),
			FormatHours(r.EffectiveBaseHours()),
		})
	}
	return RenderBox("Resources", RenderTable(headers, rows, 3))
}

// FormatAssignmentList renders a resource's bookings with the window each
// one occupies.
func FormatAssignmentList(r *domain.Resource, views []domain.AssignmentView) string {
	if len(views) == 0 {
		return Dim(r.Name + " has no assignments.")
	}
	headers := []string{"ID", "PROJECT", "TASK", "WINDOW", "UNITS", "HOURS/DAY"}
	rows := make([][]string, 0, len(views))
	for _, v := range views {
		a := v.Assignment
		start, end := v.TaskStartDate, v.TaskEndDate
		if a.StartDate != nil && a.EndDate != nil {
			start, end = *a.StartDate, *a.EndDate
		}
		hours := Dim("base")
		if a.HoursPerDay != nil {
			hours = FormatHours(*a.HoursPerDay)
		}
		rows = append(rows, []string{
			TruncID(a.ID),
			v.ProjectName,
			v.TaskName,
			DateRange(start, end),
			fmt.Sprintf("%d%%", a.EffectiveUnits()),
			hours,
		})
	}
	return RenderBox(r.Name, RenderTable(headers, rows, 4, 5))
}
