package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/google/uuid"
)

// Generated is a converted import ready for persistence, in insert order.
type Generated struct {
	Project      *domain.Project
	Tasks        []*domain.Task
	Dependencies []domain.Dependency
	Resources    []*domain.Resource
	Assignments  []*domain.ResourceAssignment
}

// Convert turns a validated ImportSchema into domain objects with fresh ids.
// Call ValidateImportSchema first; Convert assumes the schema is valid.
func Convert(schema *ImportSchema) (*Generated, error) {
	now := time.Now().UTC().Truncate(time.Second)

	project := &domain.Project{
		ID:          uuid.New().String(),
		ShortID:     strings.ToUpper(schema.Project.ShortID),
		Name:        schema.Project.Name,
		Description: schema.Project.Description,
		Status:      domain.ProjectActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if schema.Project.StartDate != "" {
		start, err := domain.ParseDate(schema.Project.StartDate)
		if err != nil {
			return nil, fmt.Errorf("project.start_date: %w", err)
		}
		project.StartDate = start
	}
	end, err := parseOptionalDate(schema.Project.EndDate)
	if err != nil {
		return nil, fmt.Errorf("project.end_date: %w", err)
	}
	project.EndDate = end

	out := &Generated{Project: project}
	taskIDs := make(map[string]string, len(schema.Tasks))

	for i, ti := range schema.Tasks {
		start, err := domain.ParseDate(ti.StartDate)
		if err != nil {
			return nil, fmt.Errorf("tasks[%d].start_date: %w", i, err)
		}
		end, err := domain.ParseDate(ti.EndDate)
		if err != nil {
			return nil, fmt.Errorf("tasks[%d].end_date: %w", i, err)
		}

		id := uuid.New().String()
		taskIDs[ti.Ref] = id

		order := i + 1
		if ti.Order != nil {
			order = *ti.Order
		}
		task := &domain.Task{
			ID:         id,
			ProjectID:  project.ID,
			Name:       ti.Name,
			StartDate:  start,
			EndDate:    end,
			Progress:   domain.IntFromPtrWithDefault(0, ti.Progress),
			Status:     domain.TaskStatus(domain.CoalesceStr(ti.Status, string(domain.TaskTodo))),
			Priority:   domain.TaskPriority(domain.CoalesceStr(ti.Priority, string(domain.PriorityMedium))),
			ParentID:   resolveRef(taskIDs, ti.ParentRef),
			PhaseID:    resolveRef(taskIDs, ti.PhaseRef),
			IsPhase:    ti.IsPhase,
			OrderIndex: order,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		out.Tasks = append(out.Tasks, task)
	}

	for _, di := range schema.Dependencies {
		out.Dependencies = append(out.Dependencies, domain.Dependency{
			PredecessorID: taskIDs[di.PredecessorRef],
			SuccessorID:   taskIDs[di.SuccessorRef],
			Type:          domain.ParseDependencyType(di.Type),
			LagDays:       di.LagDays,
		})
	}

	resourceIDs := make(map[string]string, len(schema.Resources))
	for _, ri := range schema.Resources {
		id := uuid.New().String()
		resourceIDs[ri.Ref] = id
		out.Resources = append(out.Resources, &domain.Resource{
			ID:              id,
			Name:            ri.Name,
			Type:            domain.ResourceType(domain.CoalesceStr(ri.Type, string(domain.ResourcePerson))),
			BaseHoursPerDay: domain.Float64FromPtrWithDefault(domain.DefaultBaseHoursPerDay, ri.BaseHoursPerDay),
			CreatedAt:       now,
			UpdatedAt:       now,
		})
	}

	for i, ai := range schema.Assignments {
		a := &domain.ResourceAssignment{
			ID:          uuid.New().String(),
			ResourceID:  resourceIDs[ai.ResourceRef],
			TaskID:      taskIDs[ai.TaskRef],
			Units:       ai.Units,
			HoursPerDay: ai.HoursPerDay,
			CreatedAt:   now,
		}
		start, err := parseOptionalDate(ai.StartDate)
		if err != nil {
			return nil, fmt.Errorf("assignments[%d].start_date: %w", i, err)
		}
		end, err := parseOptionalDate(ai.EndDate)
		if err != nil {
			return nil, fmt.Errorf("assignments[%d].end_date: %w", i, err)
		}
		if start != nil && end != nil {
			a.StartDate, a.EndDate = start, end
		}
		out.Assignments = append(out.Assignments, a)
	}

	return out, nil
}

func resolveRef(ids map[string]string, ref *string) *string {
	if ref == nil || *ref == "" {
		return nil
	}
	id, ok := ids[*ref]
	if !ok {
		return nil
	}
	return &id
}

func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := domain.ParseDate(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
