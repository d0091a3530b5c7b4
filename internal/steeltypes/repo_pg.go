package steeltypes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"treatment-backend/internal/shared/storage/db"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a steel type.
func (r *PGRepo) Create(ctx context.Context, st SteelType) error {
	composition, err := encodeJSONMap(st.Composition)
	if err != nil {
		return fmt.Errorf("encode composition: %w", err)
	}
	properties, err := encodeJSONMap(st.Properties)
	if err != nil {
		return fmt.Errorf("encode properties: %w", err)
	}

	const query = `
INSERT INTO steel_types (id, code, name, category, composition, properties, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err = r.DB.ExecContext(ctx, query, st.ID, st.Code, st.Name, st.Category, composition, properties, st.CreatedAt, st.UpdatedAt)
	if db.IsUniqueViolation(err) {
		return ErrConflict
	}
	return err
}

// List returns steel types ordered by code.
func (r *PGRepo) List(ctx context.Context, category string) ([]SteelType, error) {
	query := `
SELECT id, code, name, category, composition, properties, created_at, updated_at
FROM steel_types`
	args := []any{}
	if category = strings.TrimSpace(category); category != "" {
		query += `
WHERE lower(category) = lower($1)`
		args = append(args, category)
	}
	query += `
ORDER BY code ASC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SteelType
	for rows.Next() {
		var (
			st                      SteelType
			composition, properties []byte
		)
		if err := rows.Scan(&st.ID, &st.Code, &st.Name, &st.Category, &composition, &properties, &st.CreatedAt, &st.UpdatedAt); err != nil {
			return nil, err
		}
		if err := decodeJSONMap(composition, &st.Composition); err != nil {
			return nil, fmt.Errorf("decode composition for %s: %w", st.Code, err)
		}
		if err := decodeJSONMap(properties, &st.Properties); err != nil {
			return nil, fmt.Errorf("decode properties for %s: %w", st.Code, err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// FindIDByCode looks a code up case-insensitively.
func (r *PGRepo) FindIDByCode(ctx context.Context, code string) (string, error) {
	const query = `SELECT id FROM steel_types WHERE lower(code) = lower($1) LIMIT 1`
	var id string
	if err := r.DB.QueryRowContext(ctx, query, strings.TrimSpace(code)).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return id, nil
}

// Delete removes a steel type. Saved recommendations keep their row with a
// NULL steel_type_id (ON DELETE SET NULL).
func (r *PGRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM steel_types WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func encodeJSONMap(m map[string]any) ([]byte, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

func decodeJSONMap(raw []byte, dst *map[string]any) error {
	if len(raw) == 0 {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return err
	}
	if len(m) > 0 {
		*dst = m
	}
	return nil
}

var _ Repo = (*PGRepo)(nil)
