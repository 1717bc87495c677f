package gantt

import (
	"math"
	"testing"

	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_DerivesViewWindow(t *testing.T) {
	a := task("a", day(2025, 3, 3), day(2025, 3, 6))
	b := task("b", day(2025, 3, 6), day(2025, 3, 10), dep("a", "b", domain.FinishToStart))
	tasks := []domain.Task{a, b}

	cfg := DefaultConfig()
	cfg.DayWidth = 10
	cfg.ViewPaddingDays = 1
	l := Build(tasks, tasks, cfg, zeroTime, 0, 0)

	assert.Equal(t, day(2025, 3, 2), l.ViewStart)
	assert.Equal(t, day(2025, 3, 11), l.ViewEnd)
	assert.Equal(t, 100.0, l.ContentWidth)
	assert.Equal(t, 80.0, l.ContentHeight)
	assert.Equal(t, Range{StartIndex: 0, EndIndex: 9}, l.Columns)

	require.Len(t, l.Bars, 2)
	assert.Equal(t, Position{Left: 10, Width: 30}, l.Bars[0].Position)
	assert.Equal(t, 40.0, l.Bars[1].Top)
	require.Len(t, l.Arrows, 1)
	assert.Equal(t, 40.0, l.Arrows[0].StartX)
	assert.Equal(t, 40.0, l.Arrows[0].EndX)
}

func TestBuild_VirtualizesRowsButRoutesAllArrows(t *testing.T) {
	start := day(2025, 3, 1)
	var tasks []domain.Task
	for i := 0; i < 200; i++ {
		var deps []domain.Dependency
		if i > 0 {
			deps = append(deps, dep(idFor(i-1), idFor(i), domain.FinishToStart))
		}
		tasks = append(tasks, task(idFor(i), start.AddDate(0, 0, i), start.AddDate(0, 0, i+1), deps...))
	}

	cfg := DefaultConfig() // 40px rows, buffer 5
	l := Build(tasks, tasks, cfg, start, 2000, 400)

	assert.Equal(t, 45, l.Rows.StartIndex)
	assert.Equal(t, 65, l.Rows.EndIndex)
	require.Len(t, l.Bars, 21)
	assert.Equal(t, 45, l.Bars[0].Row)
	assert.Equal(t, idFor(45), l.Bars[0].TaskID)
	assert.Len(t, l.Arrows, 199)
	assert.Equal(t, 200*40.0, l.ContentHeight)
}

func TestBuild_ProgressWidthAndDepth(t *testing.T) {
	phase := task("ph", day(2025, 3, 1), day(2025, 3, 11))
	phase.IsPhase = true
	child := task("c", day(2025, 3, 1), day(2025, 3, 11))
	child.PhaseID = strPtr("ph")
	child.Progress = 130
	sub := task("s", day(2025, 3, 1), day(2025, 3, 11))
	sub.ParentID = strPtr("c")
	sub.Progress = 25
	tasks := []domain.Task{phase, child, sub}

	cfg := DefaultConfig()
	cfg.DayWidth = 10
	l := Build(tasks, tasks, cfg, day(2025, 3, 1), 0, 0)

	require.Len(t, l.Bars, 3)
	assert.True(t, l.Bars[0].IsPhase)
	assert.Equal(t, 0, l.Bars[0].Depth)
	assert.Equal(t, 1, l.Bars[1].Depth)
	assert.Equal(t, 2, l.Bars[2].Depth)
	assert.Equal(t, 100, l.Bars[1].Progress)
	assert.Equal(t, 100.0, l.Bars[1].ProgressWidth)
	assert.Equal(t, 25.0, l.Bars[2].ProgressWidth)
}

func TestBuild_EmptyVisibleList(t *testing.T) {
	l := Build(nil, nil, DefaultConfig(), day(2025, 3, 1), 0, 400)
	assert.Empty(t, l.Bars)
	assert.Empty(t, l.Arrows)
	assert.Equal(t, 0, l.Rows.Len())
	assert.Equal(t, day(2025, 3, 1), l.ViewEnd)
}

func TestBuild_ExtremeScrollDoesNotPanic(t *testing.T) {
	tasks := make([]domain.Task, 20)
	for i := range tasks {
		tasks[i] = task(idFor(i), day(2025, 3, 3), day(2025, 3, 4))
	}
	for _, offset := range []float64{1e300, math.Inf(1), math.NaN()} {
		var l Layout
		require.NotPanics(t, func() {
			l = Build(tasks, tasks, DefaultConfig(), zeroTime, offset, 400)
		}, "offset %v", offset)
		assert.Equal(t, l.Rows.Len(), len(l.Bars))
		assert.LessOrEqual(t, l.Rows.EndIndex, 19)
		assert.GreaterOrEqual(t, l.Rows.StartIndex, 0)
	}
}
