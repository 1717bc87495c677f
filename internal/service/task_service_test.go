package service

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskService_Create_TruncatesDatesAndAppendsOrder(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	svc := NewTaskService(r.tasks, r.deps)
	p := r.seedProject(t, "Build")
	r.seedTask(t, p.ID, "Existing", testutil.WithOrderIndex(4))

	task := &domain.Task{
		ProjectID: p.ID,
		Name:      "Pour foundation",
		StartDate: time.Date(2025, 3, 3, 17, 45, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 3, 6, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, svc.Create(ctx, task))
	assert.Equal(t, 5, task.OrderIndex)

	got, err := svc.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, testutil.Day(2025, 3, 3), got.StartDate)
	assert.Equal(t, testutil.Day(2025, 3, 6), got.EndDate)
	assert.Equal(t, domain.TaskTodo, got.Status)
}

func TestTaskService_Create_Rejects(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	svc := NewTaskService(r.tasks, r.deps)
	p := r.seedProject(t, "Main")
	other := r.seedProject(t, "Other")
	foreign := r.seedTask(t, other.ID, "Foreign")
	plain := r.seedTask(t, p.ID, "Plain")

	tests := []struct {
		name string
		task *domain.Task
		want string
	}{
		{"missing name", testutil.NewTestTask(p.ID, ""), "name is required"},
		{"inverted dates", testutil.NewTestTask(p.ID, "Backwards",
			testutil.WithDates(testutil.Day(2025, 3, 9), testutil.Day(2025, 3, 1))), "before start"},
		{"bad progress", testutil.NewTestTask(p.ID, "Over", testutil.WithProgress(120)), "progress"},
		{"foreign parent", testutil.NewTestTask(p.ID, "Child", testutil.WithParent(foreign.ID)), "another project"},
		{"phase is not a phase", testutil.NewTestTask(p.ID, "Child", testutil.WithPhase(plain.ID)), "not a phase"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.Create(ctx, tc.task)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestTaskService_AddDependency(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	obs := &recordingObserver{}
	svc := NewTaskService(r.tasks, r.deps, obs)
	p := r.seedProject(t, "Deps")
	a := r.seedTask(t, p.ID, "A", testutil.WithOrderIndex(1))
	b := r.seedTask(t, p.ID, "B", testutil.WithOrderIndex(2))
	c := r.seedTask(t, p.ID, "C", testutil.WithOrderIndex(3))

	require.NoError(t, svc.AddDependency(ctx, &domain.Dependency{PredecessorID: a.ID, SuccessorID: b.ID, Type: "ss"}))
	require.NoError(t, svc.AddDependency(ctx, &domain.Dependency{PredecessorID: b.ID, SuccessorID: c.ID}))

	tasks, err := svc.ListByProject(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	require.Len(t, tasks[1].Dependencies, 1)
	assert.Equal(t, domain.StartToStart, tasks[1].Dependencies[0].Type)

	err = svc.AddDependency(ctx, &domain.Dependency{PredecessorID: c.ID, SuccessorID: a.ID})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")

	err = svc.AddDependency(ctx, &domain.Dependency{PredecessorID: a.ID, SuccessorID: a.ID})
	assert.Error(t, err)

	other := r.seedProject(t, "Elsewhere")
	x := r.seedTask(t, other.ID, "X")
	err = svc.AddDependency(ctx, &domain.Dependency{PredecessorID: a.ID, SuccessorID: x.ID})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "same project")

	require.NoError(t, svc.RemoveDependency(ctx, a.ID, b.ID))
	assert.Error(t, svc.RemoveDependency(ctx, a.ID, b.ID))

	assert.Equal(t, []string{
		"dependency-add", "dependency-add", "dependency-add", "dependency-add", "dependency-add",
		"dependency-remove", "dependency-remove",
	}, obs.names())
}

func TestReaches(t *testing.T) {
	deps := []domain.Dependency{
		{PredecessorID: "a", SuccessorID: "b"},
		{PredecessorID: "b", SuccessorID: "c"},
		{PredecessorID: "x", SuccessorID: "a"},
	}
	assert.True(t, reaches(deps, "a", "c"))
	assert.True(t, reaches(deps, "x", "c"))
	assert.False(t, reaches(deps, "c", "a"))
	assert.True(t, reaches(deps, "a", "a"))
}
