package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedTasks(t *testing.T, n int) (*SQLiteDependencyRepo, []*domain.Task) {
	t.Helper()
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	proj := seedProject(t, NewSQLiteProjectRepo(db))
	tasks := NewSQLiteTaskRepo(db)

	out := make([]*domain.Task, n)
	for i := range out {
		out[i] = testutil.NewTestTask(proj.ID, string(rune('A'+i)), testutil.WithOrderIndex(i+1))
		require.NoError(t, tasks.Create(ctx, out[i]))
	}
	return NewSQLiteDependencyRepo(db), out
}

func TestDependencyRepo_CreateNormalizesType(t *testing.T) {
	repo, tasks := seedTasks(t, 2)
	ctx := context.Background()

	d := &domain.Dependency{PredecessorID: tasks[0].ID, SuccessorID: tasks[1].ID, Type: "start-to-finish"}
	require.NoError(t, repo.Create(ctx, d))
	assert.Equal(t, domain.StartToFinish, d.Type)

	preds, err := repo.ListPredecessors(ctx, tasks[1].ID)
	require.NoError(t, err)
	require.Len(t, preds, 1)
	assert.Equal(t, domain.StartToFinish, preds[0].Type)
	assert.Nil(t, preds[0].LagDays)
}

func TestDependencyRepo_UnknownTypeStoredVerbatim(t *testing.T) {
	repo, tasks := seedTasks(t, 2)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.Dependency{
		PredecessorID: tasks[0].ID, SuccessorID: tasks[1].ID, Type: "milestone_link",
	}))

	succs, err := repo.ListSuccessors(ctx, tasks[0].ID)
	require.NoError(t, err)
	require.Len(t, succs, 1)
	assert.Equal(t, domain.DependencyType("milestone_link"), succs[0].Type)
}

func TestDependencyRepo_LagRoundTrips(t *testing.T) {
	repo, tasks := seedTasks(t, 2)
	ctx := context.Background()

	lag := 3
	require.NoError(t, repo.Create(ctx, &domain.Dependency{
		PredecessorID: tasks[0].ID, SuccessorID: tasks[1].ID, LagDays: &lag,
	}))

	preds, err := repo.ListPredecessors(ctx, tasks[1].ID)
	require.NoError(t, err)
	require.Len(t, preds, 1)
	require.NotNil(t, preds[0].LagDays)
	assert.Equal(t, 3, *preds[0].LagDays)
}

func TestDependencyRepo_DuplicateLinkRejected(t *testing.T) {
	repo, tasks := seedTasks(t, 2)
	ctx := context.Background()

	d := domain.Dependency{PredecessorID: tasks[0].ID, SuccessorID: tasks[1].ID}
	require.NoError(t, repo.Create(ctx, &d))
	dup := d
	assert.Error(t, repo.Create(ctx, &dup))
}

func TestDependencyRepo_DeleteRemovesAllTypesForPair(t *testing.T) {
	repo, tasks := seedTasks(t, 3)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.Dependency{PredecessorID: tasks[0].ID, SuccessorID: tasks[1].ID}))
	require.NoError(t, repo.Create(ctx, &domain.Dependency{PredecessorID: tasks[0].ID, SuccessorID: tasks[1].ID, Type: domain.StartToStart}))
	require.NoError(t, repo.Create(ctx, &domain.Dependency{PredecessorID: tasks[1].ID, SuccessorID: tasks[2].ID}))

	require.NoError(t, repo.Delete(ctx, tasks[0].ID, tasks[1].ID))

	preds, err := repo.ListPredecessors(ctx, tasks[1].ID)
	require.NoError(t, err)
	assert.Empty(t, preds)

	remaining, err := repo.ListByProject(ctx, tasks[0].ProjectID)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)

	assert.ErrorIs(t, repo.Delete(ctx, tasks[0].ID, tasks[1].ID), domain.ErrNotFound)
}
