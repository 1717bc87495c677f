package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/gantry/internal/db"
	"github.com/alexanderramin/gantry/internal/domain"
)

// SQLiteAssignmentRepo implements AssignmentRepo using SQLite.
type SQLiteAssignmentRepo struct {
	db db.DBTX
}

func NewSQLiteAssignmentRepo(conn db.DBTX) *SQLiteAssignmentRepo {
	return &SQLiteAssignmentRepo{db: conn}
}

const assignmentColumns = `a.id, a.resource_id, a.task_id, a.start_date, a.end_date, a.units, a.hours_per_day, a.created_at`

func (r *SQLiteAssignmentRepo) Create(ctx context.Context, a *domain.ResourceAssignment) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO resource_assignments
		(id, resource_id, task_id, start_date, end_date, units, hours_per_day, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID,
		a.ResourceID,
		a.TaskID,
		nullableTimeToString(a.StartDate, domain.DateLayout),
		nullableTimeToString(a.EndDate, domain.DateLayout),
		nullableIntToValue(a.Units),
		nullableFloatToValue(a.HoursPerDay),
		timestamp(a.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting assignment: %w", err)
	}
	return nil
}

func (r *SQLiteAssignmentRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM resource_assignments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting assignment: %w", err)
	}
	return requireAffected(res, "assignment", id)
}

func (r *SQLiteAssignmentRepo) ListByResource(ctx context.Context, resourceID string) ([]domain.ResourceAssignment, error) {
	return r.list(ctx, `SELECT `+assignmentColumns+` FROM resource_assignments a
		WHERE a.resource_id = ? ORDER BY a.created_at, a.id`, resourceID)
}

func (r *SQLiteAssignmentRepo) ListByTask(ctx context.Context, taskID string) ([]domain.ResourceAssignment, error) {
	return r.list(ctx, `SELECT `+assignmentColumns+` FROM resource_assignments a
		WHERE a.task_id = ? ORDER BY a.created_at, a.id`, taskID)
}

// ListViewsByResource returns the resource's assignments joined with their
// task dates and project, ordered by task start.
func (r *SQLiteAssignmentRepo) ListViewsByResource(ctx context.Context, resourceID string) ([]domain.AssignmentView, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+assignmentColumns+`,
			t.name, t.start_date, t.end_date, p.id, p.name
		FROM resource_assignments a
		JOIN tasks t ON t.id = a.task_id
		JOIN projects p ON p.id = t.project_id
		WHERE a.resource_id = ?
		ORDER BY t.start_date, a.created_at, a.id`, resourceID)
	if err != nil {
		return nil, fmt.Errorf("listing assignment views: %w", err)
	}
	defer rows.Close()

	var views []domain.AssignmentView
	for rows.Next() {
		var v domain.AssignmentView
		var taskStart, taskEnd string
		extra := []any{&v.TaskName, &taskStart, &taskEnd, &v.ProjectID, &v.ProjectName}
		a, err := scanAssignment(rows, extra...)
		if err != nil {
			return nil, err
		}
		v.Assignment = *a
		if v.TaskStartDate, err = domain.ParseDate(taskStart); err != nil {
			return nil, fmt.Errorf("assignment %s task start: %w", a.ID, err)
		}
		if v.TaskEndDate, err = domain.ParseDate(taskEnd); err != nil {
			return nil, fmt.Errorf("assignment %s task end: %w", a.ID, err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating assignment views: %w", err)
	}
	return views, nil
}

func (r *SQLiteAssignmentRepo) list(ctx context.Context, query string, arg string) ([]domain.ResourceAssignment, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("listing assignments: %w", err)
	}
	defer rows.Close()

	var out []domain.ResourceAssignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating assignments: %w", err)
	}
	return out, nil
}

// scanAssignment scans the assignment columns followed by any extra
// destinations the query selects.
func scanAssignment(s scanner, extra ...any) (*domain.ResourceAssignment, error) {
	var a domain.ResourceAssignment
	var start, end sql.NullString
	var units sql.NullInt64
	var hours sql.NullFloat64
	var createdAt string

	dest := append([]any{&a.ID, &a.ResourceID, &a.TaskID, &start, &end, &units, &hours, &createdAt}, extra...)
	if err := s.Scan(dest...); err != nil {
		return nil, fmt.Errorf("scanning assignment: %w", err)
	}
	a.StartDate = parseNullableTime(start, domain.DateLayout)
	a.EndDate = parseNullableTime(end, domain.DateLayout)
	a.Units = intFromNull(units)
	a.HoursPerDay = floatFromNull(hours)
	var err error
	if a.CreatedAt, _, err = parseTimestamps(createdAt, ""); err != nil {
		return nil, err
	}
	return &a, nil
}
