package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/gantry/internal/domain"
)

// resolveTask resolves a task identifier which can be:
//   - A row number as shown by `task list` (requires a project)
//   - A full task id
//   - A unique id prefix within the project
func resolveTask(ctx context.Context, app *App, projectKey, ref string) (*domain.Task, error) {
	if ref == "" {
		return nil, fmt.Errorf("task reference is required")
	}
	ref = strings.TrimPrefix(ref, "#")

	if projectKey == "" {
		if _, err := strconv.Atoi(ref); err == nil {
			return nil, fmt.Errorf("row #%s requires --project", ref)
		}
		return app.Tasks.GetByID(ctx, ref)
	}

	p, err := app.Projects.Resolve(ctx, projectKey)
	if err != nil {
		return nil, err
	}
	tasks, err := app.Tasks.ListByProject(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	if row, err := strconv.Atoi(ref); err == nil {
		if row < 1 || row > len(tasks) {
			return nil, fmt.Errorf("task #%d not found in %s (%d tasks)", row, p.DisplayID(), len(tasks))
		}
		return &tasks[row-1], nil
	}

	var match *domain.Task
	for i := range tasks {
		switch {
		case tasks[i].ID == ref:
			return &tasks[i], nil
		case strings.HasPrefix(tasks[i].ID, ref):
			if match != nil {
				return nil, fmt.Errorf("task id prefix %q is ambiguous", ref)
			}
			match = &tasks[i]
		}
	}
	if match == nil {
		return nil, fmt.Errorf("task %q not found in %s: %w", ref, p.DisplayID(), domain.ErrNotFound)
	}
	return match, nil
}

// parseDateFlag parses a YYYY-MM-DD flag value; empty yields the zero time.
func parseDateFlag(name, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := domain.ParseDate(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s date %q: %w", name, value, err)
	}
	return t, nil
}

// parseStatuses validates a list of task status names.
func parseStatuses(values []string) ([]domain.TaskStatus, error) {
	out := make([]domain.TaskStatus, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if !domain.ValidTaskStatuses[v] {
			return nil, fmt.Errorf("invalid status %q (todo|in_progress|done|blocked)", v)
		}
		out = append(out, domain.TaskStatus(v))
	}
	return out, nil
}
