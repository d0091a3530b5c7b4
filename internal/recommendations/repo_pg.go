package recommendations

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var columns = []string{
	"id", "steel_type_id", "steel_code", "work_instruction_id", "it_code",
	"input_hardness", "desired_hardness", "client_requirements", "piece_description",
	"recommendation_reason", "confidence_score", "user_name", "client_name", "created_at",
}

// detailColumns are joined in on reads; they are not stored on the row.
var detailColumns = []string{
	"COALESCE(wi.title, '') AS work_instruction_title",
	"COALESCE(wi.treatment_type, '') AS treatment_type",
	"(SELECT COUNT(*) FROM feedback f WHERE f.recommendation_id = r.id) AS feedback_count",
}

func selectRecommendations() sq.SelectBuilder {
	cols := make([]string, 0, len(columns)+len(detailColumns))
	for _, c := range columns {
		cols = append(cols, "r."+c)
	}
	cols = append(cols, detailColumns...)
	return psql.Select(cols...).
		From("recommendations r").
		LeftJoin("work_instructions wi ON wi.id = r.work_instruction_id")
}

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Insert writes the recommendation in a single statement.
func (r *PGRepo) Insert(ctx context.Context, rec Recommendation) error {
	requirements := []byte("{}")
	if len(rec.ClientRequirements) > 0 {
		encoded, err := json.Marshal(rec.ClientRequirements)
		if err != nil {
			return fmt.Errorf("encode client requirements: %w", err)
		}
		requirements = encoded
	}

	var steelTypeID sql.NullString
	if rec.SteelTypeID != "" {
		steelTypeID = sql.NullString{String: rec.SteelTypeID, Valid: true}
	}

	const query = `
INSERT INTO recommendations (
    id,
    steel_type_id,
    steel_code,
    work_instruction_id,
    it_code,
    input_hardness,
    desired_hardness,
    client_requirements,
    piece_description,
    recommendation_reason,
    confidence_score,
    user_name,
    client_name,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.DB.ExecContext(ctx, query,
		rec.ID,
		steelTypeID,
		rec.SteelCode,
		rec.WorkInstructionID,
		rec.ITCode,
		nullFloat(rec.InputHardness),
		nullFloat(rec.DesiredHardness),
		requirements,
		rec.PieceDescription,
		rec.Reason,
		rec.ConfidenceScore,
		rec.UserName,
		rec.ClientName,
		rec.CreatedAt,
	)
	return err
}

// GetByID returns a recommendation by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Recommendation, error) {
	query, args, err := selectRecommendations().Where(sq.Eq{"r.id": id}).Limit(1).ToSql()
	if err != nil {
		return Recommendation{}, fmt.Errorf("build get query: %w", err)
	}
	rec, err := scanRecommendation(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Recommendation{}, ErrNotFound
		}
		return Recommendation{}, err
	}
	return rec, nil
}

// List returns recommendations newest first.
func (r *PGRepo) List(ctx context.Context, filter ListFilter) ([]Recommendation, error) {
	limit, offset := clampPage(filter.Limit, filter.Offset)
	q := selectRecommendations()
	if v := strings.TrimSpace(filter.SteelCode); v != "" {
		q = q.Where("lower(r.steel_code) = lower(?)", v)
	}
	if v := strings.TrimSpace(filter.ClientName); v != "" {
		q = q.Where("lower(r.client_name) = lower(?)", v)
	}
	if v := strings.TrimSpace(filter.UserName); v != "" {
		q = q.Where("lower(r.user_name) = lower(?)", v)
	}
	q = q.OrderBy("r.created_at DESC", "r.id DESC").Limit(uint64(limit)).Offset(uint64(offset))

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Recommendation
	for rows.Next() {
		rec, err := scanRecommendation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecommendation(s rowScanner) (Recommendation, error) {
	var (
		rec                    Recommendation
		steelTypeID            sql.NullString
		inputHard, desiredHard sql.NullFloat64
		requirements           []byte
	)
	err := s.Scan(
		&rec.ID,
		&steelTypeID,
		&rec.SteelCode,
		&rec.WorkInstructionID,
		&rec.ITCode,
		&inputHard,
		&desiredHard,
		&requirements,
		&rec.PieceDescription,
		&rec.Reason,
		&rec.ConfidenceScore,
		&rec.UserName,
		&rec.ClientName,
		&rec.CreatedAt,
		&rec.WorkInstructionTitle,
		&rec.TreatmentType,
		&rec.FeedbackCount,
	)
	if err != nil {
		return Recommendation{}, err
	}
	rec.SteelTypeID = steelTypeID.String
	if inputHard.Valid {
		v := inputHard.Float64
		rec.InputHardness = &v
	}
	if desiredHard.Valid {
		v := desiredHard.Float64
		rec.DesiredHardness = &v
	}
	if len(requirements) > 0 {
		var m map[string]any
		if err := json.Unmarshal(requirements, &m); err != nil {
			return Recommendation{}, fmt.Errorf("decode client requirements for %s: %w", rec.ID, err)
		}
		if len(m) > 0 {
			rec.ClientRequirements = m
		}
	}
	return rec, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

var _ Repo = (*PGRepo)(nil)
