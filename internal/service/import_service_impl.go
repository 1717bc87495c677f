package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/gantry/internal/db"
	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/importer"
	"github.com/alexanderramin/gantry/internal/repository"
)

type importService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewImportService(uow db.UnitOfWork, observers ...UseCaseObserver) ImportService {
	return &importService{uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *importService) ImportProject(ctx context.Context, filePath string) (*ImportResult, error) {
	schema, err := importer.LoadImportSchema(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.importSchema(ctx, schema)
}

func (s *importService) ImportProjectFromSchema(ctx context.Context, schema *importer.ImportSchema) (*ImportResult, error) {
	return s.importSchema(ctx, schema)
}

func (s *importService) importSchema(ctx context.Context, schema *importer.ImportSchema) (result *ImportResult, err error) {
	fields := map[string]any{"short_id": schema.Project.ShortID}
	defer observe(ctx, s.observer, "import-project", time.Now().UTC(), fields, &err)

	if errs := importer.ValidateImportSchema(schema); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}

	var generated *importer.Generated
	generated, err = importer.Convert(schema)
	if err != nil {
		return nil, fmt.Errorf("converting import schema: %w", err)
	}
	if generated.Project.StartDate.IsZero() {
		generated.Project.StartDate = earliestStart(generated.Tasks)
	}

	result = &ImportResult{Project: generated.Project}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txTasks := repository.NewSQLiteTaskRepo(tx)
		txDeps := repository.NewSQLiteDependencyRepo(tx)
		txResources := repository.NewSQLiteResourceRepo(tx)
		txAssignments := repository.NewSQLiteAssignmentRepo(tx)

		if err := txProjects.Create(ctx, generated.Project); err != nil {
			return fmt.Errorf("creating project: %w", err)
		}
		for _, t := range generated.Tasks {
			if err := txTasks.Create(ctx, t); err != nil {
				return fmt.Errorf("creating task %q: %w", t.Name, err)
			}
		}
		for i := range generated.Dependencies {
			if err := txDeps.Create(ctx, &generated.Dependencies[i]); err != nil {
				return fmt.Errorf("creating dependency: %w", err)
			}
		}

		// Resources are shared across projects: an existing name is reused
		// and its assignments are pointed at the stored id.
		remap := make(map[string]string)
		for _, r := range generated.Resources {
			existing, err := txResources.GetByName(ctx, r.Name)
			switch {
			case err == nil:
				remap[r.ID] = existing.ID
				result.ReusedResources++
				continue
			case !errors.Is(err, domain.ErrNotFound):
				return fmt.Errorf("looking up resource %q: %w", r.Name, err)
			}
			if err := txResources.Create(ctx, r); err != nil {
				return fmt.Errorf("creating resource %q: %w", r.Name, err)
			}
			result.ResourceCount++
		}
		for _, a := range generated.Assignments {
			if id, ok := remap[a.ResourceID]; ok {
				a.ResourceID = id
			}
			if err := txAssignments.Create(ctx, a); err != nil {
				return fmt.Errorf("creating assignment: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.TaskCount = len(generated.Tasks)
	result.DependencyCount = len(generated.Dependencies)
	result.AssignmentCount = len(generated.Assignments)
	fields["tasks"] = result.TaskCount
	fields["dependencies"] = result.DependencyCount
	return result, nil
}

func earliestStart(tasks []*domain.Task) time.Time {
	var min time.Time
	for _, t := range tasks {
		if min.IsZero() || t.StartDate.Before(min) {
			min = t.StartDate
		}
	}
	if min.IsZero() {
		return domain.DateOnly(time.Now().UTC())
	}
	return min
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}
