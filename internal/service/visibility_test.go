package service

import (
	"testing"

	"github.com/alexanderramin/gantry/internal/contract"
	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/testutil"
	"github.com/stretchr/testify/assert"
)

// hierarchy builds:
//
//	Design (phase)
//	  Wireframes
//	    Review wireframes (done)
//	Build (phase)
//	  Backend
//	Launch
func hierarchy() []domain.Task {
	design := testutil.NewTestTask("p", "Design", testutil.AsPhase())
	build := testutil.NewTestTask("p", "Build", testutil.AsPhase())
	wire := testutil.NewTestTask("p", "Wireframes", testutil.WithPhase(design.ID))
	review := testutil.NewTestTask("p", "Review wireframes", testutil.WithParent(wire.ID), testutil.WithTaskStatus(domain.TaskDone))
	backend := testutil.NewTestTask("p", "Backend", testutil.WithPhase(build.ID), testutil.WithTaskStatus(domain.TaskInProgress))
	launch := testutil.NewTestTask("p", "Launch", testutil.DependsOn(backend.ID, domain.FinishToStart))
	// Storage order differs from tree order.
	return []domain.Task{*design, *build, *launch, *wire, *backend, *review}
}

func names(tasks []domain.Task) []string {
	out := make([]string, len(tasks))
	for i := range tasks {
		out[i] = tasks[i].Name
	}
	return out
}

func idOf(tasks []domain.Task, name string) string {
	for _, t := range tasks {
		if t.Name == name {
			return t.ID
		}
	}
	return ""
}

func TestTreeOrder_PlacesChildrenAfterGroup(t *testing.T) {
	got := names(treeOrder(hierarchy()))
	assert.Equal(t, []string{"Design", "Wireframes", "Review wireframes", "Build", "Backend", "Launch"}, got)
}

func TestTreeOrder_SurvivesParentCycle(t *testing.T) {
	a := testutil.NewTestTask("p", "A")
	b := testutil.NewTestTask("p", "B", testutil.WithParent(a.ID))
	a.ParentID = &b.ID

	got := treeOrder([]domain.Task{*a, *b})
	assert.Len(t, got, 2)
}

func TestApplyFilter(t *testing.T) {
	all := hierarchy()

	tests := []struct {
		name   string
		filter contract.TaskFilter
		want   []string
	}{
		{
			name:   "zero filter keeps everything",
			filter: contract.TaskFilter{},
			want:   []string{"Design", "Wireframes", "Review wireframes", "Build", "Backend", "Launch"},
		},
		{
			name:   "collapse hides all descendants",
			filter: contract.TaskFilter{Collapsed: []string{idOf(all, "Design")}},
			want:   []string{"Design", "Build", "Backend", "Launch"},
		},
		{
			name:   "collapse of a nested parent",
			filter: contract.TaskFilter{Collapsed: []string{idOf(all, "Wireframes")}},
			want:   []string{"Design", "Wireframes", "Build", "Backend", "Launch"},
		},
		{
			name:   "hide completed",
			filter: contract.TaskFilter{HideCompleted: true},
			want:   []string{"Design", "Wireframes", "Build", "Backend", "Launch"},
		},
		{
			name:   "status set",
			filter: contract.TaskFilter{Statuses: []domain.TaskStatus{domain.TaskInProgress}},
			want:   []string{"Backend"},
		},
		{
			name:   "search keeps ancestors",
			filter: contract.TaskFilter{Search: "REVIEW"},
			want:   []string{"Design", "Wireframes", "Review wireframes"},
		},
		{
			name:   "search under a collapsed group stays hidden",
			filter: contract.TaskFilter{Search: "review", Collapsed: []string{idOf(all, "Design")}},
			want:   []string{"Design"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, names(applyFilter(all, tc.filter)))
		})
	}
}
