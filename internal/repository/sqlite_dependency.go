package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/gantry/internal/db"
	"github.com/alexanderramin/gantry/internal/domain"
)

// SQLiteDependencyRepo implements DependencyRepo using SQLite.
type SQLiteDependencyRepo struct {
	db db.DBTX
}

func NewSQLiteDependencyRepo(conn db.DBTX) *SQLiteDependencyRepo {
	return &SQLiteDependencyRepo{db: conn}
}

// Create stores the link with its type normalized. Unknown types are kept
// verbatim.
func (r *SQLiteDependencyRepo) Create(ctx context.Context, d *domain.Dependency) error {
	typ := domain.ParseDependencyType(string(d.Type))
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO task_dependencies (predecessor_id, successor_id, type, lag_days) VALUES (?, ?, ?, ?)`,
		d.PredecessorID, d.SuccessorID, string(typ), lagValue(d.LagDays))
	if err != nil {
		return fmt.Errorf("inserting dependency: %w", err)
	}
	d.Type = typ
	return nil
}

// Delete removes every link between the pair regardless of type.
func (r *SQLiteDependencyRepo) Delete(ctx context.Context, predecessorID, successorID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM task_dependencies WHERE predecessor_id = ? AND successor_id = ?`,
		predecessorID, successorID)
	if err != nil {
		return fmt.Errorf("deleting dependency: %w", err)
	}
	return requireAffected(res, "dependency", predecessorID+"->"+successorID)
}

// ListByProject returns every link whose successor belongs to the project,
// in insertion order.
func (r *SQLiteDependencyRepo) ListByProject(ctx context.Context, projectID string) ([]domain.Dependency, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT d.predecessor_id, d.successor_id, d.type, d.lag_days
		FROM task_dependencies d
		JOIN tasks s ON s.id = d.successor_id
		WHERE s.project_id = ?
		ORDER BY d.rowid`, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing project dependencies: %w", err)
	}
	defer rows.Close()
	return scanDependencies(rows)
}

func (r *SQLiteDependencyRepo) ListPredecessors(ctx context.Context, taskID string) ([]domain.Dependency, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT predecessor_id, successor_id, type, lag_days
		FROM task_dependencies WHERE successor_id = ? ORDER BY rowid`, taskID)
	if err != nil {
		return nil, fmt.Errorf("listing predecessors: %w", err)
	}
	defer rows.Close()
	return scanDependencies(rows)
}

func (r *SQLiteDependencyRepo) ListSuccessors(ctx context.Context, taskID string) ([]domain.Dependency, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT predecessor_id, successor_id, type, lag_days
		FROM task_dependencies WHERE predecessor_id = ? ORDER BY rowid`, taskID)
	if err != nil {
		return nil, fmt.Errorf("listing successors: %w", err)
	}
	defer rows.Close()
	return scanDependencies(rows)
}

func scanDependencies(rows *sql.Rows) ([]domain.Dependency, error) {
	var deps []domain.Dependency
	for rows.Next() {
		var d domain.Dependency
		var typ string
		var lag int
		if err := rows.Scan(&d.PredecessorID, &d.SuccessorID, &typ, &lag); err != nil {
			return nil, fmt.Errorf("scanning dependency: %w", err)
		}
		d.Type = domain.DependencyType(typ)
		if lag != 0 {
			d.LagDays = &lag
		}
		deps = append(deps, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating dependencies: %w", err)
	}
	return deps, nil
}

func lagValue(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
