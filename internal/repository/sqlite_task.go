package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/gantry/internal/db"
	"github.com/alexanderramin/gantry/internal/domain"
)

// SQLiteTaskRepo implements TaskRepo using SQLite.
type SQLiteTaskRepo struct {
	db   db.DBTX
	deps *SQLiteDependencyRepo
}

func NewSQLiteTaskRepo(conn db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: conn, deps: NewSQLiteDependencyRepo(conn)}
}

const taskColumns = `id, project_id, parent_id, phase_id, name, start_date, end_date,
	progress, status, priority, is_phase, order_index, created_at, updated_at`

func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	query := `INSERT INTO tasks (` + taskColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.ProjectID,
		nullableStringToValue(t.ParentID),
		nullableStringToValue(t.PhaseID),
		t.Name,
		domain.FormatDate(t.StartDate),
		domain.FormatDate(t.EndDate),
		t.Progress,
		string(defaultStatus(t.Status)),
		string(defaultPriority(t.Priority)),
		boolToInt(t.IsPhase),
		t.OrderIndex,
		timestamp(t.CreatedAt),
		timestamp(t.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("task", id)
		}
		return nil, err
	}
	t.Dependencies, err = r.deps.ListPredecessors(ctx, id)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListByProject returns the project's tasks in display order with their
// dependencies attached.
func (r *SQLiteTaskRepo) ListByProject(ctx context.Context, projectID string) ([]domain.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE project_id = ? ORDER BY order_index, start_date, id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}

	var tasks []domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}

	// Rows are closed before the second query: the in-memory pool has one
	// connection.
	deps, err := r.deps.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	bySuccessor := make(map[string][]domain.Dependency, len(tasks))
	for _, d := range deps {
		bySuccessor[d.SuccessorID] = append(bySuccessor[d.SuccessorID], d)
	}
	for i := range tasks {
		tasks[i].Dependencies = bySuccessor[tasks[i].ID]
	}
	return tasks, nil
}

// NextOrderIndex returns one past the project's highest order_index.
func (r *SQLiteTaskRepo) NextOrderIndex(ctx context.Context, projectID string) (int, error) {
	var max sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT MAX(order_index) FROM tasks WHERE project_id = ?`, projectID).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("reading max order_index: %w", err)
	}
	return int(max.Int64) + 1, nil
}

func (r *SQLiteTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	query := `UPDATE tasks SET parent_id = ?, phase_id = ?, name = ?, start_date = ?, end_date = ?,
		progress = ?, status = ?, priority = ?, is_phase = ?, order_index = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		nullableStringToValue(t.ParentID),
		nullableStringToValue(t.PhaseID),
		t.Name,
		domain.FormatDate(t.StartDate),
		domain.FormatDate(t.EndDate),
		t.Progress,
		string(defaultStatus(t.Status)),
		string(defaultPriority(t.Priority)),
		boolToInt(t.IsPhase),
		t.OrderIndex,
		timestamp(t.UpdatedAt),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	return requireAffected(res, "task", t.ID)
}

func (r *SQLiteTaskRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return requireAffected(res, "task", id)
}

func scanTask(s scanner) (*domain.Task, error) {
	var t domain.Task
	var parentID, phaseID sql.NullString
	var start, end, status, priority, createdAt, updatedAt string
	var isPhase int

	err := s.Scan(&t.ID, &t.ProjectID, &parentID, &phaseID, &t.Name, &start, &end,
		&t.Progress, &status, &priority, &isPhase, &t.OrderIndex, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning task: %w", err)
	}

	if t.StartDate, err = domain.ParseDate(start); err != nil {
		return nil, fmt.Errorf("task %s start_date: %w", t.ID, err)
	}
	if t.EndDate, err = domain.ParseDate(end); err != nil {
		return nil, fmt.Errorf("task %s end_date: %w", t.ID, err)
	}
	t.ParentID = stringFromNull(parentID)
	t.PhaseID = stringFromNull(phaseID)
	t.Status = domain.TaskStatus(status)
	t.Priority = domain.TaskPriority(priority)
	t.IsPhase = isPhase != 0
	if t.CreatedAt, t.UpdatedAt, err = parseTimestamps(createdAt, updatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func defaultStatus(s domain.TaskStatus) domain.TaskStatus {
	if s == "" {
		return domain.TaskTodo
	}
	return s
}

func defaultPriority(p domain.TaskPriority) domain.TaskPriority {
	if p == "" {
		return domain.PriorityMedium
	}
	return p
}
