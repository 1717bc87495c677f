package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/repository"
	"github.com/google/uuid"
)

type taskService struct {
	tasks    repository.TaskRepo
	deps     repository.DependencyRepo
	observer UseCaseObserver
}

func NewTaskService(tasks repository.TaskRepo, deps repository.DependencyRepo, observers ...UseCaseObserver) TaskService {
	return &taskService{tasks: tasks, deps: deps, observer: useCaseObserverOrNoop(observers)}
}

func (s *taskService) Create(ctx context.Context, t *domain.Task) (err error) {
	defer observe(ctx, s.observer, "task-create", time.Now().UTC(), map[string]any{"project_id": t.ProjectID}, &err)

	if err = s.prepare(ctx, t); err != nil {
		return err
	}
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.OrderIndex <= 0 {
		t.OrderIndex, err = s.tasks.NextOrderIndex(ctx, t.ProjectID)
		if err != nil {
			return err
		}
	}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	return s.tasks.Create(ctx, t)
}

func (s *taskService) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	return s.tasks.GetByID(ctx, id)
}

func (s *taskService) ListByProject(ctx context.Context, projectID string) ([]domain.Task, error) {
	return s.tasks.ListByProject(ctx, projectID)
}

func (s *taskService) Update(ctx context.Context, t *domain.Task) (err error) {
	defer observe(ctx, s.observer, "task-update", time.Now().UTC(), map[string]any{"task_id": t.ID}, &err)

	if err = s.prepare(ctx, t); err != nil {
		return err
	}
	t.UpdatedAt = time.Now().UTC()
	return s.tasks.Update(ctx, t)
}

func (s *taskService) Delete(ctx context.Context, id string) error {
	return s.tasks.Delete(ctx, id)
}

// prepare validates t, truncates its dates and checks that its parent and
// phase live in the same project.
func (s *taskService) prepare(ctx context.Context, t *domain.Task) error {
	if t.ProjectID == "" {
		return fmt.Errorf("task project is required")
	}
	if err := t.Validate(); err != nil {
		return err
	}
	if t.StartDate.IsZero() || t.EndDate.IsZero() {
		return fmt.Errorf("task start and end dates are required")
	}
	t.StartDate = domain.DateOnly(t.StartDate)
	t.EndDate = domain.DateOnly(t.EndDate)
	if t.EndDate.Before(t.StartDate) {
		return fmt.Errorf("task end %s is before start %s", domain.FormatDate(t.EndDate), domain.FormatDate(t.StartDate))
	}

	if t.ParentID != nil && *t.ParentID != "" {
		if *t.ParentID == t.ID {
			return fmt.Errorf("task cannot be its own parent")
		}
		if _, err := s.sibling(ctx, t.ProjectID, *t.ParentID, "parent"); err != nil {
			return err
		}
	}
	if t.PhaseID != nil && *t.PhaseID != "" {
		phase, err := s.sibling(ctx, t.ProjectID, *t.PhaseID, "phase")
		if err != nil {
			return err
		}
		if !phase.IsPhase {
			return fmt.Errorf("task %q is not a phase", phase.Name)
		}
	}
	return nil
}

func (s *taskService) sibling(ctx context.Context, projectID, id, role string) (*domain.Task, error) {
	other, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", role, err)
	}
	if other.ProjectID != projectID {
		return nil, fmt.Errorf("%s %q belongs to another project", role, other.Name)
	}
	return other, nil
}

func (s *taskService) AddDependency(ctx context.Context, d *domain.Dependency) (err error) {
	fields := map[string]any{"predecessor_id": d.PredecessorID, "successor_id": d.SuccessorID}
	defer observe(ctx, s.observer, "dependency-add", time.Now().UTC(), fields, &err)

	if d.PredecessorID == d.SuccessorID {
		return fmt.Errorf("a task cannot depend on itself")
	}
	if d.LagDays != nil && *d.LagDays < 0 {
		return fmt.Errorf("lag days must not be negative")
	}
	var pred, succ *domain.Task
	if pred, err = s.tasks.GetByID(ctx, d.PredecessorID); err != nil {
		return fmt.Errorf("loading predecessor: %w", err)
	}
	if succ, err = s.tasks.GetByID(ctx, d.SuccessorID); err != nil {
		return fmt.Errorf("loading successor: %w", err)
	}
	if pred.ProjectID != succ.ProjectID {
		return fmt.Errorf("dependency must link tasks of the same project")
	}

	var existing []domain.Dependency
	if existing, err = s.deps.ListByProject(ctx, succ.ProjectID); err != nil {
		return err
	}
	if reaches(existing, succ.ID, pred.ID) {
		return fmt.Errorf("dependency %s -> %s would create a cycle", pred.Name, succ.Name)
	}

	fields["type"] = string(domain.ParseDependencyType(string(d.Type)))
	return s.deps.Create(ctx, d)
}

func (s *taskService) RemoveDependency(ctx context.Context, predecessorID, successorID string) (err error) {
	fields := map[string]any{"predecessor_id": predecessorID, "successor_id": successorID}
	defer observe(ctx, s.observer, "dependency-remove", time.Now().UTC(), fields, &err)
	return s.deps.Delete(ctx, predecessorID, successorID)
}

// reaches reports whether target is reachable from start by following
// predecessor -> successor links.
func reaches(deps []domain.Dependency, start, target string) bool {
	next := make(map[string][]string, len(deps))
	for _, d := range deps {
		next[d.PredecessorID] = append(next[d.PredecessorID], d.SuccessorID)
	}
	seen := map[string]bool{start: true}
	stack := []string{start}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == target {
			return true
		}
		for _, m := range next[n] {
			if !seen[m] {
				seen[m] = true
				stack = append(stack, m)
			}
		}
	}
	return false
}
