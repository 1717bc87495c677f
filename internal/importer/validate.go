package importer

import (
	"fmt"
	"time"

	"github.com/alexanderramin/gantry/internal/domain"
)

// ValidateImportSchema checks the import schema before conversion and
// returns every problem found.
func ValidateImportSchema(schema *ImportSchema) []error {
	var errs []error

	errs = append(errs, validateProject(&schema.Project)...)

	taskRefs := make(map[string]TaskImport)
	errs = append(errs, validateTasks(schema.Tasks, taskRefs)...)
	errs = append(errs, validateDependencies(schema.Dependencies, taskRefs)...)

	resourceRefs := make(map[string]bool)
	errs = append(errs, validateResources(schema.Resources, resourceRefs)...)
	errs = append(errs, validateAssignments(schema.Assignments, taskRefs, resourceRefs)...)

	return errs
}

func validateProject(p *ProjectImport) []error {
	var errs []error

	if p.ShortID == "" {
		errs = append(errs, fmt.Errorf("project.short_id is required"))
	} else {
		probe := domain.Project{ShortID: p.ShortID}
		if err := probe.ValidateShortID(); err != nil {
			errs = append(errs, fmt.Errorf("project.short_id: %w", err))
		}
	}
	if p.Name == "" {
		errs = append(errs, fmt.Errorf("project.name is required"))
	}
	if p.StartDate != "" {
		errs = append(errs, validateOptionalDate("project.start_date", &p.StartDate)...)
	}
	errs = append(errs, validateOptionalDate("project.end_date", p.EndDate)...)
	errs = append(errs, validateOrder("project", p.StartDate, p.EndDate)...)

	return errs
}

func validateTasks(tasks []TaskImport, refs map[string]TaskImport) []error {
	var errs []error

	for i, t := range tasks {
		prefix := fmt.Sprintf("tasks[%d]", i)

		if t.Ref == "" {
			errs = append(errs, fmt.Errorf("%s.ref is required", prefix))
		} else if _, dup := refs[t.Ref]; dup {
			errs = append(errs, fmt.Errorf("%s.ref: duplicate ref %q", prefix, t.Ref))
		}

		if t.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}

		start, startErr := time.Parse(domain.DateLayout, t.StartDate)
		if startErr != nil {
			errs = append(errs, fmt.Errorf("%s.start_date: invalid date format %q (expected YYYY-MM-DD)", prefix, t.StartDate))
		}
		end, endErr := time.Parse(domain.DateLayout, t.EndDate)
		if endErr != nil {
			errs = append(errs, fmt.Errorf("%s.end_date: invalid date format %q (expected YYYY-MM-DD)", prefix, t.EndDate))
		}
		if startErr == nil && endErr == nil && end.Before(start) {
			errs = append(errs, fmt.Errorf("%s: end_date %q is before start_date %q", prefix, t.EndDate, t.StartDate))
		}

		if t.Progress != nil && (*t.Progress < 0 || *t.Progress > 100) {
			errs = append(errs, fmt.Errorf("%s.progress: %d must be between 0 and 100", prefix, *t.Progress))
		}
		if t.Status != "" && !domain.ValidTaskStatuses[t.Status] {
			errs = append(errs, fmt.Errorf("%s.status: invalid value %q", prefix, t.Status))
		}
		if t.Priority != "" && !domain.ValidTaskPriorities[t.Priority] {
			errs = append(errs, fmt.Errorf("%s.priority: invalid value %q", prefix, t.Priority))
		}

		if t.ParentRef != nil && *t.ParentRef != "" {
			if _, ok := refs[*t.ParentRef]; !ok {
				errs = append(errs, fmt.Errorf("%s.parent_ref: ref %q not found (must appear earlier in tasks list)", prefix, *t.ParentRef))
			}
		}
		if t.PhaseRef != nil && *t.PhaseRef != "" {
			phase, ok := refs[*t.PhaseRef]
			switch {
			case !ok:
				errs = append(errs, fmt.Errorf("%s.phase_ref: ref %q not found (must appear earlier in tasks list)", prefix, *t.PhaseRef))
			case !phase.IsPhase:
				errs = append(errs, fmt.Errorf("%s.phase_ref: %q is not a phase", prefix, *t.PhaseRef))
			}
		}

		if t.Ref != "" {
			if _, dup := refs[t.Ref]; !dup {
				refs[t.Ref] = t
			}
		}
	}

	return errs
}

func validateDependencies(deps []DependencyImport, taskRefs map[string]TaskImport) []error {
	var errs []error

	for i, d := range deps {
		prefix := fmt.Sprintf("dependencies[%d]", i)

		if d.PredecessorRef == "" {
			errs = append(errs, fmt.Errorf("%s.predecessor_ref is required", prefix))
		} else if _, ok := taskRefs[d.PredecessorRef]; !ok {
			errs = append(errs, fmt.Errorf("%s.predecessor_ref: ref %q not found in tasks", prefix, d.PredecessorRef))
		}

		if d.SuccessorRef == "" {
			errs = append(errs, fmt.Errorf("%s.successor_ref is required", prefix))
		} else if _, ok := taskRefs[d.SuccessorRef]; !ok {
			errs = append(errs, fmt.Errorf("%s.successor_ref: ref %q not found in tasks", prefix, d.SuccessorRef))
		}

		if d.PredecessorRef != "" && d.PredecessorRef == d.SuccessorRef {
			errs = append(errs, fmt.Errorf("%s: self-dependency (predecessor_ref == successor_ref == %q)", prefix, d.PredecessorRef))
		}
		if d.LagDays != nil && *d.LagDays < 0 {
			errs = append(errs, fmt.Errorf("%s.lag_days must not be negative", prefix))
		}
	}

	if len(deps) > 1 {
		errs = append(errs, detectCycles(deps)...)
	}

	return errs
}

func validateResources(resources []ResourceImport, refs map[string]bool) []error {
	var errs []error

	for i, r := range resources {
		prefix := fmt.Sprintf("resources[%d]", i)

		if r.Ref == "" {
			errs = append(errs, fmt.Errorf("%s.ref is required", prefix))
		} else if refs[r.Ref] {
			errs = append(errs, fmt.Errorf("%s.ref: duplicate ref %q", prefix, r.Ref))
		} else {
			refs[r.Ref] = true
		}

		if r.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		if r.Type != "" && !domain.ValidResourceTypes[r.Type] {
			errs = append(errs, fmt.Errorf("%s.type: invalid value %q", prefix, r.Type))
		}
		if r.BaseHoursPerDay != nil && (*r.BaseHoursPerDay < 0 || *r.BaseHoursPerDay > 24) {
			errs = append(errs, fmt.Errorf("%s.base_hours_per_day: %.1f must be between 0 and 24", prefix, *r.BaseHoursPerDay))
		}
	}

	return errs
}

func validateAssignments(assignments []AssignmentImport, taskRefs map[string]TaskImport, resourceRefs map[string]bool) []error {
	var errs []error

	for i, a := range assignments {
		prefix := fmt.Sprintf("assignments[%d]", i)

		if a.ResourceRef == "" {
			errs = append(errs, fmt.Errorf("%s.resource_ref is required", prefix))
		} else if !resourceRefs[a.ResourceRef] {
			errs = append(errs, fmt.Errorf("%s.resource_ref: ref %q not found in resources", prefix, a.ResourceRef))
		}
		if a.TaskRef == "" {
			errs = append(errs, fmt.Errorf("%s.task_ref is required", prefix))
		} else if _, ok := taskRefs[a.TaskRef]; !ok {
			errs = append(errs, fmt.Errorf("%s.task_ref: ref %q not found in tasks", prefix, a.TaskRef))
		}

		if a.Units != nil && *a.Units < 0 {
			errs = append(errs, fmt.Errorf("%s.units must not be negative", prefix))
		}
		if a.HoursPerDay != nil && (*a.HoursPerDay < 0 || *a.HoursPerDay > 24) {
			errs = append(errs, fmt.Errorf("%s.hours_per_day: %.1f must be between 0 and 24", prefix, *a.HoursPerDay))
		}

		hasStart := a.StartDate != nil && *a.StartDate != ""
		hasEnd := a.EndDate != nil && *a.EndDate != ""
		if hasStart != hasEnd {
			errs = append(errs, fmt.Errorf("%s: start_date and end_date must be given together", prefix))
		}
		errs = append(errs, validateOptionalDate(prefix+".start_date", a.StartDate)...)
		errs = append(errs, validateOptionalDate(prefix+".end_date", a.EndDate)...)
		if hasStart && hasEnd {
			errs = append(errs, validateOrder(prefix, *a.StartDate, a.EndDate)...)
		}
	}

	return errs
}

func detectCycles(deps []DependencyImport) []error {
	graph := make(map[string][]string)
	var order []string
	seen := make(map[string]bool)
	for _, d := range deps {
		if d.PredecessorRef == "" || d.SuccessorRef == "" || d.PredecessorRef == d.SuccessorRef {
			continue
		}
		graph[d.PredecessorRef] = append(graph[d.PredecessorRef], d.SuccessorRef)
		for _, ref := range []string{d.PredecessorRef, d.SuccessorRef} {
			if !seen[ref] {
				seen[ref] = true
				order = append(order, ref)
			}
		}
	}

	const (
		white = 0 // unvisited
		gray  = 1 // in current path
		black = 2 // fully processed
	)

	color := make(map[string]int)
	var errs []error

	var visit func(node string) bool
	visit = func(node string) bool {
		color[node] = gray
		for _, next := range graph[node] {
			if color[next] == gray {
				errs = append(errs, fmt.Errorf("circular dependency detected involving %q and %q", node, next))
				return true
			}
			if color[next] == white && visit(next) {
				return true
			}
		}
		color[node] = black
		return false
	}

	// Walk in file order so the reported pair is stable.
	for _, node := range order {
		if color[node] == white {
			visit(node)
		}
	}

	return errs
}

func validateOptionalDate(field string, dateStr *string) []error {
	if dateStr == nil || *dateStr == "" {
		return nil
	}
	if _, err := time.Parse(domain.DateLayout, *dateStr); err != nil {
		return []error{fmt.Errorf("%s: invalid date format %q (expected YYYY-MM-DD)", field, *dateStr)}
	}
	return nil
}

// validateOrder reports an end date before the start. Unparseable dates are
// left to validateOptionalDate.
func validateOrder(prefix, start string, end *string) []error {
	if start == "" || end == nil || *end == "" {
		return nil
	}
	s, err1 := time.Parse(domain.DateLayout, start)
	e, err2 := time.Parse(domain.DateLayout, *end)
	if err1 != nil || err2 != nil || !e.Before(s) {
		return nil
	}
	return []error{fmt.Errorf("%s: end_date %q is before start_date %q", prefix, *end, start)}
}
