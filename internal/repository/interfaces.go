package repository

import (
	"context"

	"github.com/alexanderramin/gantry/internal/domain"
)

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	GetByShortID(ctx context.Context, shortID string) (*domain.Project, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
}

// TaskRepo stores tasks. Reads attach each task's incoming dependencies
// so the result can be handed straight to the router.
type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	ListByProject(ctx context.Context, projectID string) ([]domain.Task, error)
	NextOrderIndex(ctx context.Context, projectID string) (int, error)
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id string) error
}

type DependencyRepo interface {
	Create(ctx context.Context, d *domain.Dependency) error
	Delete(ctx context.Context, predecessorID, successorID string) error
	ListByProject(ctx context.Context, projectID string) ([]domain.Dependency, error)
	ListPredecessors(ctx context.Context, taskID string) ([]domain.Dependency, error)
	ListSuccessors(ctx context.Context, taskID string) ([]domain.Dependency, error)
}

type ResourceRepo interface {
	Create(ctx context.Context, r *domain.Resource) error
	GetByID(ctx context.Context, id string) (*domain.Resource, error)
	GetByName(ctx context.Context, name string) (*domain.Resource, error)
	List(ctx context.Context) ([]*domain.Resource, error)
	Update(ctx context.Context, r *domain.Resource) error
	Delete(ctx context.Context, id string) error
}

type AssignmentRepo interface {
	Create(ctx context.Context, a *domain.ResourceAssignment) error
	Delete(ctx context.Context, id string) error
	ListByResource(ctx context.Context, resourceID string) ([]domain.ResourceAssignment, error)
	ListByTask(ctx context.Context, taskID string) ([]domain.ResourceAssignment, error)
	// ListViewsByResource joins each assignment with its task and project.
	ListViewsByResource(ctx context.Context, resourceID string) ([]domain.AssignmentView, error)
}
