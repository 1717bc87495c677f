package gantt

import (
	"math"
	"time"

	"github.com/alexanderramin/gantry/internal/domain"
)

// Contribution is one assignment's share of a resource-day.
type Contribution struct {
	AssignmentID string  `json:"assignmentId"`
	TaskID       string  `json:"taskId"`
	TaskName     string  `json:"taskName"`
	Units        int     `json:"units"`
	HoursPerDay  float64 `json:"hoursPerDay"`
	ProjectID    string  `json:"projectId"`
	ProjectName  string  `json:"projectName"`
	Share        float64 `json:"share"`
}

// DailyUtilization is a resource's load on one calendar day. Utilization is
// clamped to 1.0 for display; Raw keeps the unclamped sum so overallocation
// severity is not lost.
type DailyUtilization struct {
	Date            string         `json:"date"`
	Utilization     float64        `json:"utilization"`
	Raw             float64        `json:"raw"`
	IsOverallocated bool           `json:"isOverallocated"`
	Contributions   []Contribution `json:"contributions"`
}

type interval struct {
	start, end time.Time
}

// effectiveInterval uses the assignment's own dates when both are set and
// falls back to the linked task's dates otherwise.
func effectiveInterval(v domain.AssignmentView) interval {
	a := v.Assignment
	if a.StartDate != nil && a.EndDate != nil {
		return interval{domain.DateOnly(*a.StartDate), domain.DateOnly(*a.EndDate)}
	}
	return interval{domain.DateOnly(v.TaskStartDate), domain.DateOnly(v.TaskEndDate)}
}

func (iv interval) covers(d time.Time) bool {
	return !d.Before(iv.start) && !d.After(iv.end)
}

// safeBaseHours returns base when it is a usable divisor, else the
// configured fallback, else the package default.
func safeBaseHours(base float64, d Defaults) float64 {
	if base > 0 && !math.IsInf(base, 0) {
		return base
	}
	return d.normalize().BaseHoursPerDay
}

// Aggregate computes one DailyUtilization per calendar day of the closed
// window [windowStart, windowEnd]. A contribution is
// units * hoursPerDay / (baseHoursPerDay * 100), so a full-time assignment at
// base hours contributes exactly 1.0. A non-positive baseHoursPerDay falls
// back to defaults.BaseHoursPerDay.
func Aggregate(assignments []domain.AssignmentView, windowStart, windowEnd time.Time, baseHoursPerDay float64, defaults Defaults) []DailyUtilization {
	defaults = defaults.normalize()
	base := safeBaseHours(baseHoursPerDay, defaults)

	start, end := domain.DateOnly(windowStart), domain.DateOnly(windowEnd)
	days := DaysBetween(start, end) + 1
	if days <= 0 {
		return []DailyUtilization{}
	}

	type resolved struct {
		view  domain.AssignmentView
		iv    interval
		units int
		hours float64
		share float64
	}
	rs := make([]resolved, len(assignments))
	for i, v := range assignments {
		units := domain.IntFromPtrWithDefault(defaults.Units, v.Assignment.Units)
		hours := domain.Float64FromPtrWithDefault(base, v.Assignment.HoursPerDay)
		rs[i] = resolved{
			view:  v,
			iv:    effectiveInterval(v),
			units: units,
			hours: hours,
			share: float64(units) * hours / (base * 100),
		}
	}

	series := make([]DailyUtilization, 0, days)
	for i := 0; i < days; i++ {
		d := start.AddDate(0, 0, i)
		raw := 0.0
		contributions := []Contribution{}
		for _, r := range rs {
			if !r.iv.covers(d) {
				continue
			}
			raw += r.share
			contributions = append(contributions, Contribution{
				AssignmentID: r.view.Assignment.ID,
				TaskID:       r.view.Assignment.TaskID,
				TaskName:     r.view.TaskName,
				Units:        r.units,
				HoursPerDay:  r.hours,
				ProjectID:    r.view.ProjectID,
				ProjectName:  r.view.ProjectName,
				Share:        r.share,
			})
		}
		series = append(series, DailyUtilization{
			Date:            domain.FormatDate(d),
			Utilization:     math.Min(raw, 1.0),
			Raw:             raw,
			IsOverallocated: raw > 1.0,
			Contributions:   contributions,
		})
	}
	return series
}

// Summary condenses a utilization series for reporting.
type Summary struct {
	Days              int     `json:"days"`
	ActiveDays        int     `json:"activeDays"`
	OverallocatedDays int     `json:"overallocatedDays"`
	PeakRaw           float64 `json:"peakRaw"`
	PeakDate          string  `json:"peakDate,omitempty"`
	AverageRaw        float64 `json:"averageRaw"`
}

// Summarize reports peak and average load over a series. The first day
// reaching the peak wins ties.
func Summarize(series []DailyUtilization) Summary {
	s := Summary{Days: len(series)}
	if len(series) == 0 {
		return s
	}
	total := 0.0
	for _, d := range series {
		total += d.Raw
		if d.Raw > 0 {
			s.ActiveDays++
		}
		if d.IsOverallocated {
			s.OverallocatedDays++
		}
		if d.Raw > s.PeakRaw {
			s.PeakRaw = d.Raw
			s.PeakDate = d.Date
		}
	}
	s.AverageRaw = total / float64(len(series))
	return s
}
