package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignmentRepo_CreateAndListViews(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	projects := NewSQLiteProjectRepo(db)
	tasks := NewSQLiteTaskRepo(db)
	resources := NewSQLiteResourceRepo(db)
	repo := NewSQLiteAssignmentRepo(db)

	proj := testutil.NewTestProject("Site")
	require.NoError(t, projects.Create(ctx, proj))
	late := testutil.NewTestTask(proj.ID, "Pour", testutil.WithDates(testutil.Day(2025, 4, 1), testutil.Day(2025, 4, 3)))
	early := testutil.NewTestTask(proj.ID, "Dig", testutil.WithDates(testutil.Day(2025, 3, 1), testutil.Day(2025, 3, 5)))
	require.NoError(t, tasks.Create(ctx, late))
	require.NoError(t, tasks.Create(ctx, early))
	res := testutil.NewTestResource("Crew")
	require.NoError(t, resources.Create(ctx, res))

	a1 := testutil.NewTestAssignment(res.ID, late.ID, testutil.WithUnits(50), testutil.WithHoursPerDay(4))
	a2 := testutil.NewTestAssignment(res.ID, early.ID,
		testutil.WithAssignmentDates(testutil.Day(2025, 3, 2), testutil.Day(2025, 3, 3)))
	require.NoError(t, repo.Create(ctx, a1))
	require.NoError(t, repo.Create(ctx, a2))

	views, err := repo.ListViewsByResource(ctx, res.ID)
	require.NoError(t, err)
	require.Len(t, views, 2)

	// Ordered by task start.
	assert.Equal(t, "Dig", views[0].TaskName)
	assert.Equal(t, testutil.Day(2025, 3, 1), views[0].TaskStartDate)
	assert.Equal(t, testutil.Day(2025, 3, 5), views[0].TaskEndDate)
	require.NotNil(t, views[0].Assignment.StartDate)
	assert.Equal(t, testutil.Day(2025, 3, 2), *views[0].Assignment.StartDate)
	assert.Nil(t, views[0].Assignment.Units)
	assert.Equal(t, proj.ID, views[0].ProjectID)
	assert.Equal(t, "Site", views[0].ProjectName)

	assert.Equal(t, "Pour", views[1].TaskName)
	require.NotNil(t, views[1].Assignment.Units)
	assert.Equal(t, 50, *views[1].Assignment.Units)
	require.NotNil(t, views[1].Assignment.HoursPerDay)
	assert.Equal(t, 4.0, *views[1].Assignment.HoursPerDay)
	assert.Nil(t, views[1].Assignment.StartDate)
}

func TestAssignmentRepo_ListByTaskAndDelete(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	proj := seedProject(t, NewSQLiteProjectRepo(db))
	tasks := NewSQLiteTaskRepo(db)
	resources := NewSQLiteResourceRepo(db)
	repo := NewSQLiteAssignmentRepo(db)

	task := testutil.NewTestTask(proj.ID, "Paint")
	require.NoError(t, tasks.Create(ctx, task))
	r1 := testutil.NewTestResource("Ann")
	r2 := testutil.NewTestResource("Ben")
	require.NoError(t, resources.Create(ctx, r1))
	require.NoError(t, resources.Create(ctx, r2))

	a1 := testutil.NewTestAssignment(r1.ID, task.ID)
	a2 := testutil.NewTestAssignment(r2.ID, task.ID)
	require.NoError(t, repo.Create(ctx, a1))
	require.NoError(t, repo.Create(ctx, a2))

	byTask, err := repo.ListByTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Len(t, byTask, 2)

	require.NoError(t, repo.Delete(ctx, a1.ID))
	byRes, err := repo.ListByResource(ctx, r1.ID)
	require.NoError(t, err)
	assert.Empty(t, byRes)
	assert.ErrorIs(t, repo.Delete(ctx, a1.ID), domain.ErrNotFound)
}

func TestAssignmentRepo_DeletingTaskRemovesAssignments(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	proj := seedProject(t, NewSQLiteProjectRepo(db))
	tasks := NewSQLiteTaskRepo(db)
	resources := NewSQLiteResourceRepo(db)
	repo := NewSQLiteAssignmentRepo(db)

	task := testutil.NewTestTask(proj.ID, "Temp")
	require.NoError(t, tasks.Create(ctx, task))
	res := testutil.NewTestResource("Cat")
	require.NoError(t, resources.Create(ctx, res))
	require.NoError(t, repo.Create(ctx, testutil.NewTestAssignment(res.ID, task.ID)))

	require.NoError(t, tasks.Delete(ctx, task.ID))

	views, err := repo.ListViewsByResource(ctx, res.ID)
	require.NoError(t, err)
	assert.Empty(t, views)
}
