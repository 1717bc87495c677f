package formatter

import (
	"strings"
	"testing"

	"github.com/alexanderramin/gantry/internal/contract"
	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/gantt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chartFixture() *contract.GanttResponse {
	design := domain.Task{ID: "d", Name: "Design", StartDate: day(3, 3), EndDate: day(3, 7), Progress: 50, Status: domain.TaskInProgress}
	build := domain.Task{ID: "b", Name: "Build", StartDate: day(3, 7), EndDate: day(3, 10), Status: domain.TaskTodo,
		Dependencies: []domain.Dependency{{PredecessorID: "d", SuccessorID: "b", Type: domain.FinishToStart}}}
	all := []domain.Task{design, build}
	cfg := gantt.Config{DayWidth: 10, RowHeight: 20, ViewPaddingDays: 0}
	layout := gantt.Build(all, all, cfg, day(3, 3), 0, 0)
	return &contract.GanttResponse{
		Project:      &domain.Project{Name: "Launch"},
		Layout:       layout,
		TotalTasks:   2,
		VisibleTasks: 2,
		Visible:      all,
	}
}

func TestBarCells(t *testing.T) {
	b := gantt.Bar{Position: gantt.Position{Left: 20, Width: 40}, ProgressWidth: 20}
	first, span, done := BarCells(b, 10)
	assert.Equal(t, 2, first)
	assert.Equal(t, 4, span)
	assert.Equal(t, 2, done)

	_, span, _ = BarCells(gantt.Bar{}, 10)
	assert.Equal(t, 1, span, "never narrower than one cell")
}

func TestChartRow_CellsFollowBarPosition(t *testing.T) {
	resp := chartFixture()
	bars := resp.Layout.Bars
	require.Len(t, bars, 2)

	w := ChartWindow{LabelWidth: 8}
	total := resp.Layout.Columns.Len()
	require.Equal(t, 8, total)

	design := plain(ChartRow(bars[0], resp.Layout.DayWidth, total, w))
	assert.Equal(t, "Design   ██░░····", design)

	build := plain(ChartRow(bars[1], resp.Layout.DayWidth, total, w))
	assert.Equal(t, "Build    ····░░░·", build)
}

func TestChartRow_WindowClipsColumns(t *testing.T) {
	resp := chartFixture()
	w := ChartWindow{LabelWidth: 6, FirstDay: 3, Days: 3}
	row := plain(ChartRow(resp.Layout.Bars[0], resp.Layout.DayWidth, resp.Layout.Columns.Len(), w))
	assert.Equal(t, "Design ░··", row)
}

func TestChartRow_IndentsAndTruncatesLabel(t *testing.T) {
	b := gantt.Bar{Name: "A very long task name", Depth: 1, Position: gantt.Position{Width: 10}}
	row := plain(ChartRow(b, 10, 1, ChartWindow{LabelWidth: 10}))
	assert.True(t, strings.HasPrefix(row, "  A very …"), row)
}

func TestDateHeader_MarksMondays(t *testing.T) {
	// 2025-03-03 is a Monday but collides with the first marker.
	h := plain(DateHeader(day(3, 1), 14, ChartWindow{LabelWidth: 2}))
	assert.Equal(t, "   03/01    03/10", strings.TrimRight(h, " "))
}

func TestFormatGantt_IncludesDependencies(t *testing.T) {
	out := plain(FormatGantt(chartFixture(), ChartWindow{}))

	assert.Contains(t, out, "LAUNCH")
	assert.Contains(t, out, "2 of 2 tasks")
	assert.Contains(t, out, "DEPENDENCIES")
	assert.Contains(t, out, "Design ─FS→ Build")
}

func TestFormatGantt_Empty(t *testing.T) {
	resp := &contract.GanttResponse{Project: &domain.Project{Name: "Blank"}, Layout: gantt.Build(nil, nil, gantt.DefaultConfig(), day(3, 1), 0, 0)}
	out := plain(FormatGantt(resp, ChartWindow{}))
	assert.Contains(t, out, "No tasks to show.")
	assert.NotContains(t, out, "DEPENDENCIES")
}
