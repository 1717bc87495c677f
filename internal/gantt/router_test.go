package gantt

import (
	"strings"
	"testing"

	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// edgeFixture puts the predecessor at {left:0,width:100} and the successor
// at {left:150,width:50} with a 10px day width.
func edgeFixture(typ domain.DependencyType) ([]domain.Task, Geometry) {
	view := day(2025, 3, 1)
	pred := task("p", day(2025, 3, 1), day(2025, 3, 11))
	succ := task("s", day(2025, 3, 16), day(2025, 3, 21), dep("p", "s", typ))
	g := Geometry{ViewStart: view, DayWidth: 10, RowHeight: 40, MinimumSpanDays: 1}
	return []domain.Task{pred, succ}, g
}

func TestRoute_EdgeSelection(t *testing.T) {
	tests := []struct {
		typ        domain.DependencyType
		startX     float64
		endX       float64
		expectedID string
	}{
		{domain.FinishToStart, 100, 150, "p-s-finish_to_start"},
		{domain.StartToStart, 0, 150, "p-s-start_to_start"},
		{domain.FinishToFinish, 100, 200, "p-s-finish_to_finish"},
		{domain.StartToFinish, 0, 200, "p-s-start_to_finish"},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			tasks, g := edgeFixture(tt.typ)
			require.Equal(t, Position{Left: 0, Width: 100}, g.Position(&tasks[0]))
			require.Equal(t, Position{Left: 150, Width: 50}, g.Position(&tasks[1]))

			arrows := Route(tasks, tasks, g)
			require.Len(t, arrows, 1)
			a := arrows[0]
			assert.Equal(t, tt.expectedID, a.ID)
			assert.Equal(t, tt.startX, a.StartX)
			assert.Equal(t, tt.endX, a.EndX)
			assert.Equal(t, 20.0, a.StartY)
			assert.Equal(t, 60.0, a.EndY)
		})
	}
}

// Unknown types are routed as finish-to-start but keep their own id.
func TestRoute_UnknownTypeFallsBackToFinishToStart(t *testing.T) {
	tasks, g := edgeFixture("blocks")
	arrows := Route(tasks, tasks, g)
	require.Len(t, arrows, 1)
	assert.Equal(t, 100.0, arrows[0].StartX)
	assert.Equal(t, 150.0, arrows[0].EndX)
	assert.Equal(t, "p-s-blocks", arrows[0].ID)
}

func TestRoute_EmptyTypeIsFinishToStart(t *testing.T) {
	tasks, g := edgeFixture("")
	arrows := Route(tasks, tasks, g)
	require.Len(t, arrows, 1)
	assert.Equal(t, "p-s-finish_to_start", arrows[0].ID)
	assert.Equal(t, domain.FinishToStart, arrows[0].Type)
}

func TestRoute_SkipsInvisibleEndpoints(t *testing.T) {
	tasks, g := edgeFixture(domain.FinishToStart)
	// Only the successor is rendered: the predecessor exists but has no row.
	visible := []domain.Task{tasks[1]}
	assert.Empty(t, Route(tasks, visible, g))
}

func TestRoute_SkipsUnknownEndpoints(t *testing.T) {
	view := day(2025, 3, 1)
	a := task("a", view, day(2025, 3, 3), dep("ghost", "a", domain.FinishToStart))
	g := DefaultConfig().Geometry(view)
	assert.Empty(t, Route([]domain.Task{a}, []domain.Task{a}, g))
}

// Row positions come from the filtered list, not the full project list.
func TestRoute_UsesFilteredRowIndex(t *testing.T) {
	view := day(2025, 3, 1)
	a := task("a", view, day(2025, 3, 3))
	hidden := task("h", view, day(2025, 3, 3))
	b := task("b", day(2025, 3, 4), day(2025, 3, 6), dep("a", "b", domain.FinishToStart))
	all := []domain.Task{a, hidden, b}
	visible := []domain.Task{a, b}

	g := Geometry{ViewStart: view, DayWidth: 10, RowHeight: 40, MinimumSpanDays: 1}
	arrows := Route(all, visible, g)
	require.Len(t, arrows, 1)
	assert.Equal(t, 20.0, arrows[0].StartY)
	assert.Equal(t, 60.0, arrows[0].EndY, "b is row 1 of the visible list, not row 2")
}

func TestRoute_OrderFollowsVisibleListThenDependencies(t *testing.T) {
	view := day(2025, 3, 1)
	a := task("a", view, day(2025, 3, 2))
	b := task("b", view, day(2025, 3, 2))
	c := task("c", view, day(2025, 3, 2),
		dep("b", "c", domain.StartToStart),
		dep("a", "c", domain.FinishToStart),
	)
	d := task("d", view, day(2025, 3, 2), dep("a", "d", domain.FinishToFinish))
	visible := []domain.Task{d, c, a, b}
	g := DefaultConfig().Geometry(view)

	var ids []string
	for _, a := range Route(visible, visible, g) {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []string{
		"a-d-finish_to_finish",
		"b-c-start_to_start",
		"a-c-finish_to_start",
	}, ids)
}

func TestRouteWithIndex_ExplicitIndex(t *testing.T) {
	tasks, g := edgeFixture(domain.FinishToStart)
	rows := map[string]int{"p": 4, "s": 7}
	index := func(id string) (int, bool) {
		r, ok := rows[id]
		return r, ok
	}
	arrows := RouteWithIndex(tasks, tasks, index, g)
	require.Len(t, arrows, 1)
	assert.Equal(t, 180.0, arrows[0].StartY)
	assert.Equal(t, 300.0, arrows[0].EndY)
}

func TestRoute_NoDependenciesReturnsEmptySlice(t *testing.T) {
	view := day(2025, 3, 1)
	tasks := []domain.Task{task("a", view, view)}
	arrows := Route(tasks, tasks, DefaultConfig().Geometry(view))
	assert.NotNil(t, arrows)
	assert.Empty(t, arrows)
}

func TestIndexOf_FirstOccurrenceWins(t *testing.T) {
	view := day(2025, 3, 1)
	idx := IndexOf([]domain.Task{task("a", view, view), task("b", view, view), task("a", view, view)})
	row, ok := idx("a")
	assert.True(t, ok)
	assert.Equal(t, 0, row)
	_, ok = idx("zzz")
	assert.False(t, ok)
}

func TestEdgesFor(t *testing.T) {
	from, to := EdgesFor(domain.StartToFinish)
	assert.Equal(t, LeftEdge, from)
	assert.Equal(t, RightEdge, to)
	from, to = EdgesFor("whatever")
	assert.Equal(t, RightEdge, from)
	assert.Equal(t, LeftEdge, to)
}

func TestArrowHead(t *testing.T) {
	horizontal := Arrow{StartX: 0, StartY: 10, EndX: 100, EndY: 10}
	head := ArrowHead(horizontal, 6)
	assert.Equal(t, Point{X: 100, Y: 10}, head[0])
	assert.InDelta(t, 94, head[1].X, 1e-9)
	assert.InDelta(t, 13, head[1].Y, 1e-9)
	assert.InDelta(t, 94, head[2].X, 1e-9)
	assert.InDelta(t, 7, head[2].Y, 1e-9)

	down := Arrow{StartX: 50, StartY: 0, EndX: 50, EndY: 80}
	head = ArrowHead(down, 6)
	assert.InDelta(t, 74, head[1].Y, 1e-9)
	assert.InDelta(t, 74, head[2].Y, 1e-9)
	assert.InDelta(t, 6, head[2].X-head[1].X, 1e-9, "base spans the line")

	zero := Arrow{StartX: 5, StartY: 5, EndX: 5, EndY: 5}
	head = ArrowHead(zero, 4)
	assert.InDelta(t, 1, head[1].X, 1e-9, "zero-length arrow points right")
}

// Every arrow id decodes to a visible predecessor/successor pair.
func TestRoute_IDsReferenceVisibleTasksOnly(t *testing.T) {
	view := day(2025, 3, 1)
	var all []domain.Task
	for i := 0; i < 12; i++ {
		id := string(rune('a' + i))
		var deps []domain.Dependency
		if i > 0 {
			deps = append(deps, dep(string(rune('a'+i-1)), id, domain.FinishToStart))
		}
		if i > 2 {
			deps = append(deps, dep(string(rune('a'+i-3)), id, domain.StartToStart))
		}
		all = append(all, task(id, view.AddDate(0, 0, i), view.AddDate(0, 0, i+2), deps...))
	}
	var visible []domain.Task
	visibleIDs := map[string]bool{}
	for i, tk := range all {
		if i%3 != 1 {
			visible = append(visible, tk)
			visibleIDs[tk.ID] = true
		}
	}

	arrows := Route(all, visible, DefaultConfig().Geometry(view))
	require.NotEmpty(t, arrows)
	for _, a := range arrows {
		parts := strings.SplitN(a.ID, "-", 3)
		require.Len(t, parts, 3)
		assert.True(t, visibleIDs[parts[0]], "predecessor %s must be visible", parts[0])
		assert.True(t, visibleIDs[parts[1]], "successor %s must be visible", parts[1])
	}
}
