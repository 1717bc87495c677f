package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectRepo_CreateAndGetByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	proj := testutil.NewTestProject("Website",
		testutil.WithProjectDates(testutil.Day(2025, 3, 1), testutil.Day(2025, 6, 30)))
	proj.Description = "relaunch"
	require.NoError(t, repo.Create(ctx, proj))

	fetched, err := repo.GetByID(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, "Website", fetched.Name)
	assert.Equal(t, "relaunch", fetched.Description)
	assert.Equal(t, domain.ProjectActive, fetched.Status)
	assert.Equal(t, testutil.Day(2025, 3, 1), fetched.StartDate)
	require.NotNil(t, fetched.EndDate)
	assert.Equal(t, testutil.Day(2025, 6, 30), *fetched.EndDate)
	assert.Equal(t, proj.CreatedAt, fetched.CreatedAt)
}

func TestProjectRepo_GetByShortID_CaseInsensitive(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	proj := testutil.NewTestProject("Bridge", testutil.WithShortID("BRG01"))
	require.NoError(t, repo.Create(ctx, proj))

	fetched, err := repo.GetByShortID(ctx, "brg01")
	require.NoError(t, err)
	assert.Equal(t, proj.ID, fetched.ID)
}

func TestProjectRepo_GetByID_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)

	_, err := repo.GetByID(context.Background(), "nonexistent")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "nonexistent")
}

func TestProjectRepo_List_ExcludesArchived(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestProject("Active1")))
	require.NoError(t, repo.Create(ctx, testutil.NewTestProject("Active2")))
	require.NoError(t, repo.Create(ctx, testutil.NewTestProject("Old",
		testutil.WithProjectStatus(domain.ProjectArchived))))

	list, err := repo.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	all, err := repo.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestProjectRepo_Update(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	proj := testutil.NewTestProject("Draft")
	require.NoError(t, repo.Create(ctx, proj))

	proj.Name = "Final"
	proj.Status = domain.ProjectOnHold
	require.NoError(t, repo.Update(ctx, proj))

	fetched, err := repo.GetByID(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, "Final", fetched.Name)
	assert.Equal(t, domain.ProjectOnHold, fetched.Status)
}

func TestProjectRepo_UpdateAndDelete_MissingRowIsNotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	ghost := testutil.NewTestProject("Ghost")
	assert.ErrorIs(t, repo.Update(ctx, ghost), domain.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, ghost.ID), domain.ErrNotFound)
}

func TestProjectRepo_Delete_CascadesToTasks(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	projects := NewSQLiteProjectRepo(db)
	tasks := NewSQLiteTaskRepo(db)

	proj := testutil.NewTestProject("Cascade")
	require.NoError(t, projects.Create(ctx, proj))
	task := testutil.NewTestTask(proj.ID, "Child")
	require.NoError(t, tasks.Create(ctx, task))

	require.NoError(t, projects.Delete(ctx, proj.ID))

	_, err := tasks.GetByID(ctx, task.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
