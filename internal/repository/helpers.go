package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/gantry/internal/domain"
)

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// notFound wraps domain.ErrNotFound with the entity and key that missed.
func notFound(entity, key string) error {
	return fmt.Errorf("%s %q: %w", entity, key, domain.ErrNotFound)
}

// parseNullableTime returns nil for NULL, empty, or unparseable values.
func parseNullableTime(s sql.NullString, layout string) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(layout, s.String)
	if err != nil {
		return nil
	}
	return &t
}

func nullableTimeToString(t *time.Time, layout string) any {
	if t == nil {
		return nil
	}
	return t.Format(layout)
}

// zeroableDate stores the zero time as NULL.
func zeroableDate(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return domain.FormatDate(t)
}

func nullableIntToValue(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableFloatToValue(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableStringToValue(v *string) any {
	if v == nil || *v == "" {
		return nil
	}
	return *v
}

func intFromNull(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func floatFromNull(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

func stringFromNull(n sql.NullString) *string {
	if !n.Valid || n.String == "" {
		return nil
	}
	v := n.String
	return &v
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func parseTimestamps(createdAt, updatedAt string) (time.Time, time.Time, error) {
	c, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parsing created_at: %w", err)
	}
	if updatedAt == "" {
		return c, c, nil
	}
	u, err := time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parsing updated_at: %w", err)
	}
	return c, u, nil
}

func timestamp(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(time.RFC3339)
}
