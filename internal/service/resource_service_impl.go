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

type resourceService struct {
	resources   repository.ResourceRepo
	assignments repository.AssignmentRepo
	tasks       repository.TaskRepo
	observer    UseCaseObserver
}

func NewResourceService(
	resources repository.ResourceRepo,
	assignments repository.AssignmentRepo,
	tasks repository.TaskRepo,
	observers ...UseCaseObserver,
) ResourceService {
	return &resourceService{
		resources:   resources,
		assignments: assignments,
		tasks:       tasks,
		observer:    useCaseObserverOrNoop(observers),
	}
}

func (s *resourceService) Create(ctx context.Context, r *domain.Resource) (err error) {
	defer observe(ctx, s.observer, "resource-create", time.Now().UTC(), map[string]any{"name": r.Name}, &err)

	r.Name = strings.TrimSpace(r.Name)
	if err = r.Validate(); err != nil {
		return err
	}
	if _, lookupErr := s.resources.GetByName(ctx, r.Name); lookupErr == nil {
		return fmt.Errorf("resource %q already exists", r.Name)
	} else if !errors.Is(lookupErr, domain.ErrNotFound) {
		return lookupErr
	}
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.Type == "" {
		r.Type = domain.ResourcePerson
	}
	if r.BaseHoursPerDay == 0 {
		r.BaseHoursPerDay = domain.DefaultBaseHoursPerDay
	}
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now
	return s.resources.Create(ctx, r)
}

func (s *resourceService) Resolve(ctx context.Context, idOrName string) (*domain.Resource, error) {
	key := strings.TrimSpace(idOrName)
	if key == "" {
		return nil, fmt.Errorf("resource id is required")
	}
	r, err := s.resources.GetByID(ctx, key)
	if err == nil {
		return r, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	return s.resources.GetByName(ctx, key)
}

func (s *resourceService) List(ctx context.Context) ([]*domain.Resource, error) {
	return s.resources.List(ctx)
}

func (s *resourceService) Delete(ctx context.Context, id string) error {
	return s.resources.Delete(ctx, id)
}

func (s *resourceService) Assign(ctx context.Context, a *domain.ResourceAssignment) (err error) {
	fields := map[string]any{"resource_id": a.ResourceID, "task_id": a.TaskID}
	defer observe(ctx, s.observer, "resource-assign", time.Now().UTC(), fields, &err)

	if err = a.Validate(); err != nil {
		return err
	}
	if _, err = s.resources.GetByID(ctx, a.ResourceID); err != nil {
		return fmt.Errorf("loading resource: %w", err)
	}
	if _, err = s.tasks.GetByID(ctx, a.TaskID); err != nil {
		return fmt.Errorf("loading task: %w", err)
	}
	if a.StartDate != nil && a.EndDate != nil {
		start, end := domain.DateOnly(*a.StartDate), domain.DateOnly(*a.EndDate)
		if end.Before(start) {
			return fmt.Errorf("assignment end %s is before start %s", domain.FormatDate(end), domain.FormatDate(start))
		}
		a.StartDate, a.EndDate = &start, &end
	}
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	a.CreatedAt = time.Now().UTC()
	return s.assignments.Create(ctx, a)
}

func (s *resourceService) Unassign(ctx context.Context, assignmentID string) error {
	return s.assignments.Delete(ctx, assignmentID)
}

func (s *resourceService) ListAssignments(ctx context.Context, resourceID string) ([]domain.AssignmentView, error) {
	return s.assignments.ListViewsByResource(ctx, resourceID)
}
