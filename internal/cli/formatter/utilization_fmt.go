package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/gantry/internal/contract"
	"github.com/alexanderramin/gantry/internal/domain"
)

const loadBarWidth = 16

// FormatUtilization renders one resource's daily load with a bar per day.
// Overallocated days are flagged and keep their raw percentage.
func FormatUtilization(resp *contract.UtilizationResponse) string {
	var b strings.Builder
	r := resp.Resource
	b.WriteString(Header(r.Name) + "\n")
	b.WriteString(Dim(fmt.Sprintf("%s · %s/day · %s",
		r.Type, FormatHours(r.EffectiveBaseHours()), DateRange(resp.From, resp.To))) + "\n\n")

	if len(resp.Days) == 0 {
		b.WriteString(Dim("Empty window.") + "\n")
		return b.String()
	}

	headers := []string{"DATE", "LOAD", "", "TASKS"}
	rows := make([][]string, 0, len(resp.Days))
	for _, d := range resp.Days {
		flag := ""
		if d.IsOverallocated {
			flag = StyleRed.Render("▲ OVER")
		}
		tasks := make([]string, 0, len(d.Contributions))
		for _, c := range d.Contributions {
			tasks = append(tasks, fmt.Sprintf("%s (%d%%)", c.TaskName, c.Units))
		}
		taskCol := strings.Join(tasks, ", ")
		if taskCol == "" {
			taskCol = Dim("--")
		}
		date := d.Date
		if t, err := domain.ParseDate(d.Date); err == nil {
			date = t.Format("Mon 01/02")
		}
		rows = append(rows, []string{date, RenderLoad(d.Raw, loadBarWidth), flag, taskCol})
	}
	b.WriteString(RenderTable(headers, rows))
	b.WriteString("\n" + FormatSummaryLine(resp) + "\n")
	return b.String()
}

// FormatSummaryLine condenses a response to peak, average and the count of
// overallocated days.
func FormatSummaryLine(resp *contract.UtilizationResponse) string {
	s := resp.Summary
	peak := LoadColor(s.PeakRaw).Render(fmt.Sprintf("%.0f%%", s.PeakRaw*100))
	if s.PeakDate != "" {
		peak += Dim(" on " + s.PeakDate)
	}
	over := Dim("none overallocated")
	if s.OverallocatedDays > 0 {
		over = StyleRed.Render(fmt.Sprintf("%d overallocated", s.OverallocatedDays))
	}
	return fmt.Sprintf("peak %s · avg %.0f%% · %d/%d days active · %s",
		peak, s.AverageRaw*100, s.ActiveDays, s.Days, over)
}

// FormatUtilizationOverview renders one summary row per resource.
func FormatUtilizationOverview(resps []*contract.UtilizationResponse) string {
	if len(resps) == 0 {
		return Dim("No resources.")
	}
	headers := []string{"RESOURCE", "TYPE", "PEAK", "AVG", "OVER", "PEAK DATE"}
	rows := make([][]string, 0, len(resps))
	for _, r := range resps {
		s := r.Summary
		over := Dim("0")
		if s.OverallocatedDays > 0 {
			over = StyleRed.Render(fmt.Sprintf("%d", s.OverallocatedDays))
		}
		peakDate := s.PeakDate
		if peakDate == "" {
			peakDate = Dim("--")
		}
		rows = append(rows, []string{
			Bold(r.Resource.Name),
			string(r.Resource.Type),
			LoadColor(s.PeakRaw).Render(fmt.Sprintf("%.0f%%", s.PeakRaw*100)),
			fmt.Sprintf("%.0f%%", s.AverageRaw*100),
			over,
			peakDate,
		})
	}
	title := "Utilization"
	if len(resps) > 0 {
		title += " " + domain.FormatDate(resps[0].From) + " → " + domain.FormatDate(resps[0].To)
	}
	return RenderBox(title, RenderTable(headers, rows, 2, 3, 4))
}
