package contract

import (
	"math"
	"time"

	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/gantt"
)

// TaskFilter narrows a project's tasks to the rows the chart shows. Tasks
// hidden by a filter also lose their dependency arrows.
type TaskFilter struct {
	// Search matches task names case-insensitively. Ancestors of a match
	// stay visible so the hierarchy reads correctly.
	Search string
	// Statuses keeps only tasks in one of these states; empty keeps all.
	Statuses []domain.TaskStatus
	// Collapsed lists phase or parent ids whose descendants are hidden.
	Collapsed     []string
	HideCompleted bool
}

// IsZero reports whether the filter keeps every task.
func (f TaskFilter) IsZero() bool {
	return f.Search == "" && len(f.Statuses) == 0 && len(f.Collapsed) == 0 && !f.HideCompleted
}

type GanttRequest struct {
	ProjectID string
	Filter    TaskFilter
	// ViewStart pins the left edge of the chart; nil derives it from the
	// visible tasks plus padding.
	ViewStart *time.Time
	// ScrollOffset and ViewportHeight select the rows to materialize.
	// ViewportHeight <= 0 materializes every row.
	ScrollOffset   float64
	ViewportHeight float64
}

func NewGanttRequest(projectID string) GanttRequest {
	return GanttRequest{ProjectID: projectID}
}

func (r GanttRequest) Validate() error {
	if r.ProjectID == "" {
		return &RequestError{Code: ErrMissingID, Message: "project id is required"}
	}
	if !isFinite(r.ScrollOffset) || !isFinite(r.ViewportHeight) {
		return &RequestError{Code: ErrInvalidScroll, Message: "scroll offset and viewport height must be finite"}
	}
	if r.ScrollOffset < 0 {
		return &RequestError{Code: ErrInvalidScroll, Message: "scroll offset must not be negative"}
	}
	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

type GanttResponse struct {
	Project      *domain.Project `json:"project"`
	Layout       gantt.Layout    `json:"layout"`
	TotalTasks   int             `json:"totalTasks"`
	VisibleTasks int             `json:"visibleTasks"`
	// Visible is the filtered task list in row order; Layout.Bars carries
	// only the materialized window of it.
	Visible []domain.Task `json:"-"`
}
