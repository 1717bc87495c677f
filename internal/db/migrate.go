package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate applies every schema statement. Statements are idempotent so the
// full list runs on each open; ALTER TABLE re-runs are tolerated.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillOrderIndex(db); err != nil {
		return fmt.Errorf("backfilling task order: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id          TEXT PRIMARY KEY,
		short_id    TEXT NOT NULL DEFAULT '',
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		start_date  TEXT,
		end_date    TEXT,
		status      TEXT NOT NULL DEFAULT 'active'
		            CHECK(status IN ('active','on_hold','done','archived')),
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_projects_short_id ON projects(short_id) WHERE short_id != ''`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id          TEXT PRIMARY KEY,
		project_id  TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		parent_id   TEXT REFERENCES tasks(id) ON DELETE SET NULL,
		phase_id    TEXT REFERENCES tasks(id) ON DELETE SET NULL,
		name        TEXT NOT NULL,
		start_date  TEXT NOT NULL,
		end_date    TEXT NOT NULL,
		progress    INTEGER NOT NULL DEFAULT 0,
		status      TEXT NOT NULL DEFAULT 'todo'
		            CHECK(status IN ('todo','in_progress','done','blocked')),
		priority    TEXT NOT NULL DEFAULT 'medium'
		            CHECK(priority IN ('low','medium','high','critical')),
		is_phase    INTEGER NOT NULL DEFAULT 0,
		order_index INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_parent ON tasks(parent_id)`,

	// type is free text: unknown kinds are stored verbatim and routed as
	// finish-to-start when drawn.
	`CREATE TABLE IF NOT EXISTS task_dependencies (
		predecessor_id TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		successor_id   TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		type           TEXT NOT NULL DEFAULT 'finish_to_start',
		lag_days       INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (predecessor_id, successor_id, type)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_task_dependencies_successor ON task_dependencies(successor_id)`,

	`CREATE TABLE IF NOT EXISTS resources (
		id                 TEXT PRIMARY KEY,
		name               TEXT NOT NULL,
		type               TEXT NOT NULL DEFAULT 'person'
		                   CHECK(type IN ('person','equipment','material')),
		base_hours_per_day REAL NOT NULL DEFAULT 8,
		created_at         TEXT NOT NULL,
		updated_at         TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS resource_assignments (
		id            TEXT PRIMARY KEY,
		resource_id   TEXT NOT NULL REFERENCES resources(id) ON DELETE CASCADE,
		task_id       TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		start_date    TEXT,
		end_date      TEXT,
		units         INTEGER,
		hours_per_day REAL,
		created_at    TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_assignments_resource ON resource_assignments(resource_id)`,
	`CREATE INDEX IF NOT EXISTS idx_assignments_task ON resource_assignments(task_id)`,
}

// migrateBackfillOrderIndex gives tasks imported without an explicit order a
// stable position (by start date, then creation) within their project.
// Projects whose tasks all share order_index 0 are the only ones touched.
func migrateBackfillOrderIndex(db *sql.DB) error {
	ctx := context.Background()

	rows, err := db.QueryContext(ctx, `
		SELECT project_id FROM tasks
		GROUP BY project_id
		HAVING COUNT(*) > 1 AND MAX(order_index) = 0
		ORDER BY project_id`)
	if err != nil {
		return fmt.Errorf("finding unordered projects: %w", err)
	}
	var projectIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("scanning project id: %w", err)
		}
		projectIDs = append(projectIDs, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, pid := range projectIDs {
		if err := backfillProjectOrder(ctx, db, pid); err != nil {
			return fmt.Errorf("project %s: %w", pid, err)
		}
	}
	return nil
}

func backfillProjectOrder(ctx context.Context, db *sql.DB, projectID string) error {
	rows, err := db.QueryContext(ctx,
		`SELECT id FROM tasks WHERE project_id = ? ORDER BY start_date, created_at, id`, projectID)
	if err != nil {
		return fmt.Errorf("listing tasks: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return err
		}
		ids = append(ids, id)
	}
	rows.Close()

	for i, id := range ids {
		if _, err := db.ExecContext(ctx, `UPDATE tasks SET order_index = ? WHERE id = ?`, i+1, id); err != nil {
			return fmt.Errorf("updating order_index: %w", err)
		}
	}
	return nil
}
