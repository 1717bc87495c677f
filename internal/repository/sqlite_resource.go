package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/gantry/internal/db"
	"github.com/alexanderramin/gantry/internal/domain"
)

// SQLiteResourceRepo implements ResourceRepo using SQLite.
type SQLiteResourceRepo struct {
	db db.DBTX
}

func NewSQLiteResourceRepo(conn db.DBTX) *SQLiteResourceRepo {
	return &SQLiteResourceRepo{db: conn}
}

const resourceColumns = `id, name, type, base_hours_per_day, created_at, updated_at`

func (r *SQLiteResourceRepo) Create(ctx context.Context, res *domain.Resource) error {
	typ := res.Type
	if typ == "" {
		typ = domain.ResourcePerson
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO resources (`+resourceColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		res.ID, res.Name, string(typ), res.EffectiveBaseHours(),
		timestamp(res.CreatedAt), timestamp(res.UpdatedAt))
	if err != nil {
		return fmt.Errorf("inserting resource: %w", err)
	}
	return nil
}

func (r *SQLiteResourceRepo) GetByID(ctx context.Context, id string) (*domain.Resource, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+resourceColumns+` FROM resources WHERE id = ?`, id)
	res, err := scanResource(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("resource", id)
	}
	return res, err
}

// GetByName matches case-insensitively and returns the oldest match.
func (r *SQLiteResourceRepo) GetByName(ctx context.Context, name string) (*domain.Resource, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+resourceColumns+` FROM resources WHERE name = ? COLLATE NOCASE ORDER BY created_at LIMIT 1`, name)
	res, err := scanResource(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("resource", name)
	}
	return res, err
}

func (r *SQLiteResourceRepo) List(ctx context.Context) ([]*domain.Resource, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+resourceColumns+` FROM resources ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("listing resources: %w", err)
	}
	defer rows.Close()

	var out []*domain.Resource
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating resources: %w", err)
	}
	return out, nil
}

func (r *SQLiteResourceRepo) Update(ctx context.Context, res *domain.Resource) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE resources SET name = ?, type = ?, base_hours_per_day = ?, updated_at = ? WHERE id = ?`,
		res.Name, string(res.Type), res.EffectiveBaseHours(), timestamp(res.UpdatedAt), res.ID)
	if err != nil {
		return fmt.Errorf("updating resource: %w", err)
	}
	return requireAffected(result, "resource", res.ID)
}

func (r *SQLiteResourceRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM resources WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting resource: %w", err)
	}
	return requireAffected(result, "resource", id)
}

func scanResource(s scanner) (*domain.Resource, error) {
	var res domain.Resource
	var typ, createdAt, updatedAt string
	err := s.Scan(&res.ID, &res.Name, &typ, &res.BaseHoursPerDay, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning resource: %w", err)
	}
	res.Type = domain.ResourceType(typ)
	if res.CreatedAt, res.UpdatedAt, err = parseTimestamps(createdAt, updatedAt); err != nil {
		return nil, err
	}
	return &res, nil
}
