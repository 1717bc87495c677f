package service

import (
	"context"
	"time"

	"github.com/alexanderramin/gantry/internal/contract"
	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/importer"
)

type ProjectService interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	// Resolve accepts either a project id or its short id.
	Resolve(ctx context.Context, idOrShortID string) (*domain.Project, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Archive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string, force bool) error
}

type TaskService interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	ListByProject(ctx context.Context, projectID string) ([]domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id string) error
	AddDependency(ctx context.Context, d *domain.Dependency) error
	RemoveDependency(ctx context.Context, predecessorID, successorID string) error
}

type ResourceService interface {
	Create(ctx context.Context, r *domain.Resource) error
	// Resolve accepts either a resource id or its name.
	Resolve(ctx context.Context, idOrName string) (*domain.Resource, error)
	List(ctx context.Context) ([]*domain.Resource, error)
	Delete(ctx context.Context, id string) error
	Assign(ctx context.Context, a *domain.ResourceAssignment) error
	Unassign(ctx context.Context, assignmentID string) error
	ListAssignments(ctx context.Context, resourceID string) ([]domain.AssignmentView, error)
}

type GanttService interface {
	Layout(ctx context.Context, req contract.GanttRequest) (*contract.GanttResponse, error)
}

type UtilizationService interface {
	ForResource(ctx context.Context, req contract.UtilizationRequest) (*contract.UtilizationResponse, error)
	// ForAll runs the same window over every resource, in name order.
	ForAll(ctx context.Context, from, to time.Time) ([]*contract.UtilizationResponse, error)
}

// ImportResult holds the outcome of a project import.
type ImportResult struct {
	Project         *domain.Project
	TaskCount       int
	DependencyCount int
	ResourceCount   int
	ReusedResources int
	AssignmentCount int
}

type ImportService interface {
	ImportProject(ctx context.Context, filePath string) (*ImportResult, error)
	ImportProjectFromSchema(ctx context.Context, schema *importer.ImportSchema) (*ImportResult, error)
}
