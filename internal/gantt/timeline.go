package gantt

import (
	"time"

	"github.com/alexanderramin/gantry/internal/domain"
)

// Position is a bar's horizontal placement in pixels.
type Position struct {
	Left  float64 `json:"left"`
	Width float64 `json:"width"`
}

// Right returns the x coordinate of the bar's right edge.
func (p Position) Right() float64 {
	return p.Left + p.Width
}

// Geometry maps dates and rows to pixels for one layout pass.
type Geometry struct {
	ViewStart       time.Time
	DayWidth        float64
	RowHeight       float64
	MinimumSpanDays int
}

// DaysBetween returns the number of whole calendar days from a to b,
// negative when b precedes a. Times of day are ignored. Unix seconds are
// used instead of Sub, whose Duration saturates after about 292 years.
func DaysBetween(a, b time.Time) int {
	return int((domain.DateOnly(b).Unix() - domain.DateOnly(a).Unix()) / secondsPerDay)
}

const secondsPerDay = 24 * 60 * 60

// Project maps a task's date range to a pixel interval. An inverted or empty
// range is drawn one day wide rather than with a zero or negative width.
func Project(start, end, viewStart time.Time, dayWidth float64) Position {
	return project(start, end, viewStart, dayWidth, defaultMinimumSpanDays)
}

func project(start, end, viewStart time.Time, dayWidth float64, minSpan int) Position {
	if minSpan < 1 {
		minSpan = 1
	}
	span := DaysBetween(start, end)
	if span < minSpan {
		span = minSpan
	}
	return Position{
		Left:  float64(DaysBetween(viewStart, start)) * dayWidth,
		Width: float64(span) * dayWidth,
	}
}

// Position projects a task using the geometry's origin and day width.
func (g Geometry) Position(t *domain.Task) Position {
	return project(t.StartDate, t.EndDate, g.ViewStart, g.DayWidth, g.MinimumSpanDays)
}

// RowCenter returns the y coordinate of the vertical center of row.
func (g Geometry) RowCenter(row int) float64 {
	return float64(row)*g.RowHeight + g.RowHeight/2
}

// ViewWindow returns the date range covering every task, widened by
// paddingDays on each side. It returns zero times when tasks is empty.
func ViewWindow(tasks []domain.Task, paddingDays int) (time.Time, time.Time) {
	if len(tasks) == 0 {
		return time.Time{}, time.Time{}
	}
	start := domain.DateOnly(tasks[0].StartDate)
	end := domain.DateOnly(tasks[0].EndDate)
	for _, t := range tasks {
		s, e := domain.DateOnly(t.StartDate), domain.DateOnly(t.EndDate)
		if e.Before(s) {
			s, e = e, s
		}
		if s.Before(start) {
			start = s
		}
		if e.After(end) {
			end = e
		}
	}
	if end.Before(start) {
		start, end = end, start
	}
	return start.AddDate(0, 0, -paddingDays), end.AddDate(0, 0, paddingDays)
}

// DateColumns lists each calendar day from viewStart to viewEnd inclusive,
// the cells of the horizontal date header.
func DateColumns(viewStart, viewEnd time.Time) []time.Time {
	n := DaysBetween(viewStart, viewEnd) + 1
	if n <= 0 {
		return nil
	}
	start := domain.DateOnly(viewStart)
	cols := make([]time.Time, n)
	for i := range cols {
		cols[i] = start.AddDate(0, 0, i)
	}
	return cols
}
