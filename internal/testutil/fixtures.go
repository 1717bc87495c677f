package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/google/uuid"
)

var testShortIDCounter atomic.Int64

// Day returns a UTC date, the form every stored date takes.
func Day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Project options
type ProjectOption func(*domain.Project)

func WithProjectDates(start, end time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.StartDate = start
		p.EndDate = &end
	}
}

func WithProjectStatus(s domain.ProjectStatus) ProjectOption {
	return func(p *domain.Project) {
		p.Status = s
	}
}

func WithShortID(id string) ProjectOption {
	return func(p *domain.Project) {
		p.ShortID = id
	}
}

func defaultShortID(name string) string {
	upper := strings.ToUpper(name)
	var letters []byte
	for i := 0; i < len(upper) && len(letters) < 3; i++ {
		if upper[i] >= 'A' && upper[i] <= 'Z' {
			letters = append(letters, upper[i])
		}
	}
	for len(letters) < 3 {
		letters = append(letters, 'X')
	}
	n := testShortIDCounter.Add(1)
	return fmt.Sprintf("%s%02d", string(letters), n%10000)
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC().Truncate(time.Second)
	p := &domain.Project{
		ID:        uuid.New().String(),
		ShortID:   defaultShortID(name),
		Name:      name,
		StartDate: Day(2025, 3, 1),
		Status:    domain.ProjectActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Task options
type TaskOption func(*domain.Task)

func WithDates(start, end time.Time) TaskOption {
	return func(t *domain.Task) {
		t.StartDate = start
		t.EndDate = end
	}
}

func WithProgress(p int) TaskOption {
	return func(t *domain.Task) {
		t.Progress = p
	}
}

func WithTaskStatus(s domain.TaskStatus) TaskOption {
	return func(t *domain.Task) {
		t.Status = s
	}
}

func WithPriority(p domain.TaskPriority) TaskOption {
	return func(t *domain.Task) {
		t.Priority = p
	}
}

func WithParent(id string) TaskOption {
	return func(t *domain.Task) {
		t.ParentID = &id
	}
}

func WithPhase(id string) TaskOption {
	return func(t *domain.Task) {
		t.PhaseID = &id
	}
}

func AsPhase() TaskOption {
	return func(t *domain.Task) {
		t.IsPhase = true
	}
}

func WithOrderIndex(i int) TaskOption {
	return func(t *domain.Task) {
		t.OrderIndex = i
	}
}

// DependsOn adds an incoming link from predecessorID.
func DependsOn(predecessorID string, typ domain.DependencyType) TaskOption {
	return func(t *domain.Task) {
		t.Dependencies = append(t.Dependencies, domain.Dependency{
			PredecessorID: predecessorID,
			SuccessorID:   t.ID,
			Type:          typ,
		})
	}
}

// NewTestTask returns a five-day todo task starting 2025-03-03.
func NewTestTask(projectID, name string, opts ...TaskOption) *domain.Task {
	now := time.Now().UTC().Truncate(time.Second)
	t := &domain.Task{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Name:      name,
		StartDate: Day(2025, 3, 3),
		EndDate:   Day(2025, 3, 8),
		Status:    domain.TaskTodo,
		Priority:  domain.PriorityMedium,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Resource options
type ResourceOption func(*domain.Resource)

func WithBaseHours(h float64) ResourceOption {
	return func(r *domain.Resource) {
		r.BaseHoursPerDay = h
	}
}

func WithResourceType(typ domain.ResourceType) ResourceOption {
	return func(r *domain.Resource) {
		r.Type = typ
	}
}

func NewTestResource(name string, opts ...ResourceOption) *domain.Resource {
	now := time.Now().UTC().Truncate(time.Second)
	r := &domain.Resource{
		ID:              uuid.New().String(),
		Name:            name,
		Type:            domain.ResourcePerson,
		BaseHoursPerDay: domain.DefaultBaseHoursPerDay,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Assignment options
type AssignmentOption func(*domain.ResourceAssignment)

func WithUnits(u int) AssignmentOption {
	return func(a *domain.ResourceAssignment) {
		a.Units = &u
	}
}

func WithHoursPerDay(h float64) AssignmentOption {
	return func(a *domain.ResourceAssignment) {
		a.HoursPerDay = &h
	}
}

func WithAssignmentDates(start, end time.Time) AssignmentOption {
	return func(a *domain.ResourceAssignment) {
		a.StartDate = &start
		a.EndDate = &end
	}
}

// NewTestAssignment books resourceID onto taskID at the defaults (100%,
// base hours, task dates).
func NewTestAssignment(resourceID, taskID string, opts ...AssignmentOption) *domain.ResourceAssignment {
	a := &domain.ResourceAssignment{
		ID:         uuid.New().String(),
		ResourceID: resourceID,
		TaskID:     taskID,
		CreatedAt:  time.Now().UTC().Truncate(time.Second),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}
