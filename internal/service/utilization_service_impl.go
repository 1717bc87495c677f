package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/gantry/internal/contract"
	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/gantt"
	"github.com/alexanderramin/gantry/internal/repository"
)

type utilizationService struct {
	resources   repository.ResourceRepo
	assignments repository.AssignmentRepo
	defaults    gantt.Defaults
	observer    UseCaseObserver
}

func NewUtilizationService(
	resources repository.ResourceRepo,
	assignments repository.AssignmentRepo,
	defaults gantt.Defaults,
	observers ...UseCaseObserver,
) UtilizationService {
	return &utilizationService{
		resources:   resources,
		assignments: assignments,
		defaults:    defaults,
		observer:    useCaseObserverOrNoop(observers),
	}
}

func (s *utilizationService) ForResource(ctx context.Context, req contract.UtilizationRequest) (resp *contract.UtilizationResponse, err error) {
	fields := map[string]any{"resource": req.ResourceID}
	defer observe(ctx, s.observer, "resource-utilization", time.Now().UTC(), fields, &err)

	if req.ResourceID == "" {
		return nil, &contract.RequestError{Code: contract.ErrMissingID, Message: "resource id is required"}
	}
	if err = req.Validate(); err != nil {
		return nil, err
	}

	var res *domain.Resource
	res, err = s.resolve(ctx, req.ResourceID)
	if err != nil {
		return nil, err
	}
	resp, err = s.forResource(ctx, res, req.From, req.To)
	if err != nil {
		return nil, err
	}
	fields["days"] = resp.Summary.Days
	fields["overallocated_days"] = resp.Summary.OverallocatedDays
	return resp, nil
}

func (s *utilizationService) ForAll(ctx context.Context, from, to time.Time) (out []*contract.UtilizationResponse, err error) {
	fields := map[string]any{}
	defer observe(ctx, s.observer, "resource-utilization-all", time.Now().UTC(), fields, &err)

	req := contract.NewUtilizationRequest("", from, to)
	if err = req.Validate(); err != nil {
		return nil, err
	}

	var resources []*domain.Resource
	if resources, err = s.resources.List(ctx); err != nil {
		return nil, err
	}
	out = make([]*contract.UtilizationResponse, 0, len(resources))
	for _, res := range resources {
		var resp *contract.UtilizationResponse
		if resp, err = s.forResource(ctx, res, req.From, req.To); err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	fields["resources"] = len(out)
	return out, nil
}

func (s *utilizationService) resolve(ctx context.Context, idOrName string) (*domain.Resource, error) {
	r, err := s.resources.GetByID(ctx, idOrName)
	if err == nil {
		return r, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	return s.resources.GetByName(ctx, idOrName)
}

func (s *utilizationService) forResource(ctx context.Context, res *domain.Resource, from, to time.Time) (*contract.UtilizationResponse, error) {
	views, err := s.assignments.ListViewsByResource(ctx, res.ID)
	if err != nil {
		return nil, fmt.Errorf("loading assignments for %s: %w", res.Name, err)
	}
	days := gantt.Aggregate(views, from, to, res.EffectiveBaseHours(), s.defaults)
	return &contract.UtilizationResponse{
		Resource: res,
		From:     from,
		To:       to,
		Days:     days,
		Summary:  gantt.Summarize(days),
	}, nil
}
