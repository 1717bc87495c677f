package gantt

import (
	"time"

	"github.com/alexanderramin/gantry/internal/domain"
)

// Bar is a materialized task row.
type Bar struct {
	TaskID        string            `json:"taskId"`
	Name          string            `json:"name"`
	Row           int               `json:"row"`
	Top           float64           `json:"top"`
	Position      Position          `json:"position"`
	ProgressWidth float64           `json:"progressWidth"`
	Progress      int               `json:"progress"`
	Status        domain.TaskStatus `json:"status"`
	IsPhase       bool              `json:"isPhase"`
	Depth         int               `json:"depth"`
}

// Layout is everything a renderer needs for one frame.
type Layout struct {
	ViewStart     time.Time `json:"viewStart"`
	ViewEnd       time.Time `json:"viewEnd"`
	DayWidth      float64   `json:"dayWidth"`
	RowHeight     float64   `json:"rowHeight"`
	Rows          Range     `json:"rows"`
	Columns       Range     `json:"columns"`
	Bars          []Bar     `json:"bars"`
	Arrows        []Arrow   `json:"arrows"`
	ContentWidth  float64   `json:"contentWidth"`
	ContentHeight float64   `json:"contentHeight"`
}

// Build lays out the visible tasks. viewStart may be zero, in which case the
// window is derived from the visible tasks. A non-positive viewportHeight
// materializes every row. Arrows are routed over the whole visible list, not
// just the materialized rows, so lines into off-screen rows stay correct.
func Build(all, visible []domain.Task, cfg Config, viewStart time.Time, scrollOffset, viewportHeight float64) Layout {
	cfg = cfg.Normalize()

	winStart, winEnd := ViewWindow(visible, cfg.ViewPaddingDays)
	if viewStart.IsZero() {
		viewStart = winStart
	} else {
		viewStart = domain.DateOnly(viewStart)
	}
	viewEnd := winEnd
	if viewEnd.Before(viewStart) {
		viewEnd = viewStart
	}

	g := cfg.Geometry(viewStart)
	rowsVP := cfg.Rows()
	rows := FullRange(len(visible))
	if viewportHeight > 0 {
		rows = rowsVP.Range(scrollOffset, viewportHeight, len(visible))
	}
	columnCount := DaysBetween(viewStart, viewEnd) + 1

	depth := depths(all)
	bars := make([]Bar, 0, rows.Len())
	for i := rows.StartIndex; i <= rows.EndIndex; i++ {
		t := &visible[i]
		pos := g.Position(t)
		progress := clampProgress(t.Progress)
		bars = append(bars, Bar{
			TaskID:        t.ID,
			Name:          t.Name,
			Row:           i,
			Top:           float64(i) * g.RowHeight,
			Position:      pos,
			ProgressWidth: pos.Width * float64(progress) / 100,
			Progress:      progress,
			Status:        t.Status,
			IsPhase:       t.IsPhase,
			Depth:         depth[t.ID],
		})
	}

	return Layout{
		ViewStart:     viewStart,
		ViewEnd:       viewEnd,
		DayWidth:      g.DayWidth,
		RowHeight:     g.RowHeight,
		Rows:          rows,
		Columns:       FullRange(columnCount),
		Bars:          bars,
		Arrows:        Route(all, visible, g),
		ContentWidth:  float64(columnCount) * g.DayWidth,
		ContentHeight: rowsVP.Extent(len(visible)),
	}
}

func clampProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// depths returns the nesting level of every task: phases and parentless
// tasks are 0, each parent or phase hop adds one. Cycles stop at the first
// revisit.
func depths(all []domain.Task) map[string]int {
	group := make(map[string]string, len(all))
	for i := range all {
		group[all[i].ID] = all[i].GroupID()
	}
	out := make(map[string]int, len(all))
	for id := range group {
		d := 0
		seen := map[string]bool{id: true}
		for g := group[id]; g != "" && !seen[g]; g = group[g] {
			seen[g] = true
			d++
		}
		out[id] = d
	}
	return out
}
