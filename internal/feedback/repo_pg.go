package feedback

import (
	"context"
	"database/sql"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts feedback.
func (r *PGRepo) Create(ctx context.Context, fb Feedback) error {
	const query = `
INSERT INTO feedback (
    id,
    recommendation_id,
    was_successful,
    actual_hardness,
    comments,
    user_name,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	var actual sql.NullFloat64
	if fb.ActualHardness != nil {
		actual = sql.NullFloat64{Float64: *fb.ActualHardness, Valid: true}
	}
	_, err := r.DB.ExecContext(ctx, query, fb.ID, fb.RecommendationID, fb.WasSuccessful, actual, fb.Comments, fb.UserName, fb.CreatedAt)
	return err
}

// ListByRecommendation returns feedback oldest first.
func (r *PGRepo) ListByRecommendation(ctx context.Context, recommendationID string) ([]Feedback, error) {
	const query = `
SELECT id, recommendation_id, was_successful, actual_hardness, comments, user_name, created_at
FROM feedback
WHERE recommendation_id = $1
ORDER BY created_at ASC`

	rows, err := r.DB.QueryContext(ctx, query, recommendationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Feedback
	for rows.Next() {
		var (
			fb     Feedback
			actual sql.NullFloat64
		)
		if err := rows.Scan(&fb.ID, &fb.RecommendationID, &fb.WasSuccessful, &actual, &fb.Comments, &fb.UserName, &fb.CreatedAt); err != nil {
			return nil, err
		}
		if actual.Valid {
			v := actual.Float64
			fb.ActualHardness = &v
		}
		out = append(out, fb)
	}
	return out, rows.Err()
}

// CountByRecommendation returns how many entries a recommendation has.
func (r *PGRepo) CountByRecommendation(ctx context.Context, recommendationID string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM feedback WHERE recommendation_id = $1`, recommendationID).Scan(&n)
	return n, err
}

var _ Repo = (*PGRepo)(nil)
