package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/repository"
	"github.com/google/uuid"
)

type projectService struct {
	projects repository.ProjectRepo
	observer UseCaseObserver
}

func NewProjectService(projects repository.ProjectRepo, observers ...UseCaseObserver) ProjectService {
	return &projectService{projects: projects, observer: useCaseObserverOrNoop(observers)}
}

func (s *projectService) Create(ctx context.Context, p *domain.Project) (err error) {
	defer observe(ctx, s.observer, "project-create", time.Now().UTC(), map[string]any{"short_id": p.ShortID}, &err)

	p.ShortID = strings.ToUpper(strings.TrimSpace(p.ShortID))
	if err = p.ValidateShortID(); err != nil {
		return err
	}
	if p.Name == "" {
		return fmt.Errorf("project name is required")
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Status == "" {
		p.Status = domain.ProjectActive
	}
	if p.StartDate.IsZero() {
		p.StartDate = domain.DateOnly(now)
	}
	return s.projects.Create(ctx, p)
}

func (s *projectService) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	return s.projects.GetByID(ctx, id)
}

func (s *projectService) Resolve(ctx context.Context, idOrShortID string) (*domain.Project, error) {
	return resolveProject(ctx, s.projects, idOrShortID)
}

func (s *projectService) List(ctx context.Context, includeArchived bool) ([]*domain.Project, error) {
	return s.projects.List(ctx, includeArchived)
}

func (s *projectService) Update(ctx context.Context, p *domain.Project) error {
	p.UpdatedAt = time.Now().UTC()
	return s.projects.Update(ctx, p)
}

func (s *projectService) Archive(ctx context.Context, id string) (err error) {
	defer observe(ctx, s.observer, "project-archive", time.Now().UTC(), map[string]any{"project_id": id}, &err)

	var p *domain.Project
	p, err = s.projects.GetByID(ctx, id)
	if err != nil {
		return err
	}
	p.Status = domain.ProjectArchived
	p.UpdatedAt = time.Now().UTC()
	return s.projects.Update(ctx, p)
}

func (s *projectService) Delete(ctx context.Context, id string, force bool) (err error) {
	defer observe(ctx, s.observer, "project-delete", time.Now().UTC(), map[string]any{"project_id": id, "force": force}, &err)

	if !force {
		var p *domain.Project
		p, err = s.projects.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p.Status != domain.ProjectArchived {
			return fmt.Errorf("project must be archived before deletion (use --force to override)")
		}
	}
	return s.projects.Delete(ctx, id)
}

// resolveProject looks a project up by id first, then by short id.
func resolveProject(ctx context.Context, projects repository.ProjectRepo, idOrShortID string) (*domain.Project, error) {
	key := strings.TrimSpace(idOrShortID)
	if key == "" {
		return nil, fmt.Errorf("project id is required")
	}
	p, err := projects.GetByID(ctx, key)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	return projects.GetByShortID(ctx, key)
}
