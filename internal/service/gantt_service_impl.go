package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/gantry/internal/contract"
	"github.com/alexanderramin/gantry/internal/db"
	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/gantt"
	"github.com/alexanderramin/gantry/internal/repository"
)

type ganttService struct {
	uow      db.UnitOfWork
	cfg      gantt.Config
	observer UseCaseObserver
}

func NewGanttService(uow db.UnitOfWork, cfg gantt.Config, observers ...UseCaseObserver) GanttService {
	return &ganttService{uow: uow, cfg: cfg.Normalize(), observer: useCaseObserverOrNoop(observers)}
}

func (s *ganttService) Layout(ctx context.Context, req contract.GanttRequest) (resp *contract.GanttResponse, err error) {
	fields := map[string]any{"project": req.ProjectID}
	defer observe(ctx, s.observer, "gantt-layout", time.Now().UTC(), fields, &err)

	if err = req.Validate(); err != nil {
		return nil, err
	}

	var (
		project *domain.Project
		all     []domain.Task
	)
	// One read transaction so tasks and links come from the same snapshot.
	err = s.uow.WithinReadTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		project, err = resolveProject(ctx, repository.NewSQLiteProjectRepo(tx), req.ProjectID)
		if err != nil {
			return err
		}
		all, err = repository.NewSQLiteTaskRepo(tx).ListByProject(ctx, project.ID)
		if err != nil {
			return fmt.Errorf("loading tasks: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	visible := applyFilter(all, req.Filter)
	var viewStart time.Time
	if req.ViewStart != nil {
		viewStart = *req.ViewStart
	}
	layout := gantt.Build(all, visible, s.cfg, viewStart, req.ScrollOffset, req.ViewportHeight)

	fields["tasks"] = len(all)
	fields["visible"] = len(visible)
	fields["arrows"] = len(layout.Arrows)

	return &contract.GanttResponse{
		Project:      project,
		Layout:       layout,
		TotalTasks:   len(all),
		VisibleTasks: len(visible),
		Visible:      visible,
	}, nil
}
