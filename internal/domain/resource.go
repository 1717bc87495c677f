package domain

import (
	"fmt"
	"time"
)

// DefaultBaseHoursPerDay is the capacity of a resource that does not set one.
const DefaultBaseHoursPerDay = 8.0

// DefaultUnits is the share of capacity an assignment books when it does
// not set one.
const DefaultUnits = 100

type Resource struct {
	ID              string
	Name            string
	Type            ResourceType
	BaseHoursPerDay float64
	Assignments     []ResourceAssignment
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ResourceAssignment books part of a resource's capacity onto a task.
// StartDate/EndDate override the task's dates only when both are set.
type ResourceAssignment struct {
	ID          string
	ResourceID  string
	TaskID      string
	StartDate   *time.Time
	EndDate     *time.Time
	Units       *int     // percent of capacity, nil means 100
	HoursPerDay *float64 // nil means the resource's base hours
	CreatedAt   time.Time
}

// EffectiveBaseHours returns BaseHoursPerDay, or the default when unset.
func (r *Resource) EffectiveBaseHours() float64 {
	if r.BaseHoursPerDay <= 0 {
		return DefaultBaseHoursPerDay
	}
	return r.BaseHoursPerDay
}

func (r *Resource) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("resource name is required")
	}
	if r.Type != "" && !ValidResourceTypes[string(r.Type)] {
		return fmt.Errorf("invalid resource type %q", r.Type)
	}
	if r.BaseHoursPerDay < 0 || r.BaseHoursPerDay > 24 {
		return fmt.Errorf("base hours per day %.1f must be between 0 and 24", r.BaseHoursPerDay)
	}
	return nil
}

// EffectiveUnits returns Units, or DefaultUnits when unset.
func (a *ResourceAssignment) EffectiveUnits() int {
	if a.Units == nil {
		return DefaultUnits
	}
	return *a.Units
}

func (a *ResourceAssignment) Validate() error {
	if a.TaskID == "" {
		return fmt.Errorf("assignment task is required")
	}
	if a.Units != nil && *a.Units < 0 {
		return fmt.Errorf("units %d must not be negative", *a.Units)
	}
	if a.HoursPerDay != nil && (*a.HoursPerDay < 0 || *a.HoursPerDay > 24) {
		return fmt.Errorf("hours per day %.1f must be between 0 and 24", *a.HoursPerDay)
	}
	if (a.StartDate == nil) != (a.EndDate == nil) {
		return fmt.Errorf("assignment start and end dates must be set together")
	}
	return nil
}

// AssignmentView is an assignment joined with its task and project, the
// read-only projection the utilization aggregator consumes.
type AssignmentView struct {
	Assignment    ResourceAssignment
	TaskName      string
	TaskStartDate time.Time
	TaskEndDate   time.Time
	ProjectID     string
	ProjectName   string
}
