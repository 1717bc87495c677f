package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/alexanderramin/gantry/internal/db"
	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/repository"
	"github.com/alexanderramin/gantry/internal/testutil"
	"github.com/stretchr/testify/require"
)

type testRepos struct {
	db          *sql.DB
	projects    repository.ProjectRepo
	tasks       repository.TaskRepo
	deps        repository.DependencyRepo
	resources   repository.ResourceRepo
	assignments repository.AssignmentRepo
	uow         db.UnitOfWork
}

func setupRepos(t *testing.T) testRepos {
	t.Helper()
	database := testutil.NewTestDB(t)
	return testRepos{
		db:          database,
		projects:    repository.NewSQLiteProjectRepo(database),
		tasks:       repository.NewSQLiteTaskRepo(database),
		deps:        repository.NewSQLiteDependencyRepo(database),
		resources:   repository.NewSQLiteResourceRepo(database),
		assignments: repository.NewSQLiteAssignmentRepo(database),
		uow:         testutil.NewTestUoW(database),
	}
}

func (r testRepos) seedProject(t *testing.T, name string, opts ...testutil.ProjectOption) *domain.Project {
	t.Helper()
	p := testutil.NewTestProject(name, opts...)
	require.NoError(t, r.projects.Create(context.Background(), p))
	return p
}

func (r testRepos) seedTask(t *testing.T, projectID, name string, opts ...testutil.TaskOption) *domain.Task {
	t.Helper()
	task := testutil.NewTestTask(projectID, name, opts...)
	require.NoError(t, r.tasks.Create(context.Background(), task))
	for i := range task.Dependencies {
		require.NoError(t, r.deps.Create(context.Background(), &task.Dependencies[i]))
	}
	return task
}

type recordingObserver struct {
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.events = append(o.events, e)
}

func (o *recordingObserver) names() []string {
	out := make([]string, len(o.events))
	for i, e := range o.events {
		out[i] = e.Name
	}
	return out
}

func ptrStr(s string) *string     { return &s }
func ptrInt(i int) *int           { return &i }
func ptrFloat(f float64) *float64 { return &f }
