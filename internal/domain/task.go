package domain

import (
	"fmt"
	"time"
)

type Task struct {
	ID        string
	ProjectID string
	Name      string

	// Date-only; both are UTC midnight.
	StartDate time.Time
	EndDate   time.Time

	Progress int // 0-100
	Status   TaskStatus
	Priority TaskPriority

	ParentID   *string
	PhaseID    *string
	IsPhase    bool
	OrderIndex int

	// Outgoing edges where this task is the successor.
	Dependencies []Dependency

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Dependency struct {
	PredecessorID string
	SuccessorID   string
	Type          DependencyType
	LagDays       *int
}

// Validate checks the fields a task needs before it is stored.
func (t *Task) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("task name is required")
	}
	if t.Progress < 0 || t.Progress > 100 {
		return fmt.Errorf("progress %d must be between 0 and 100", t.Progress)
	}
	if t.Status != "" && !ValidTaskStatuses[string(t.Status)] {
		return fmt.Errorf("invalid task status %q", t.Status)
	}
	if t.Priority != "" && !ValidTaskPriorities[string(t.Priority)] {
		return fmt.Errorf("invalid task priority %q", t.Priority)
	}
	return nil
}

// GroupID returns the id of the phase or parent this task is nested under,
// preferring the parent. Returns "" for top-level tasks.
func (t *Task) GroupID() string {
	if t.ParentID != nil && *t.ParentID != "" {
		return *t.ParentID
	}
	if t.PhaseID != nil && *t.PhaseID != "" {
		return *t.PhaseID
	}
	return ""
}
