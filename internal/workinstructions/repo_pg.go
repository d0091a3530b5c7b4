package workinstructions

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"treatment-backend/internal/shared/storage/db"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var columns = []string{
	"id", "it_code", "title", "description", "treatment_type",
	"temperature_min", "temperature_max", "duration_min", "duration_max",
	"cooling_method", "applicable_steels",
	"hardness_input_min", "hardness_input_max", "hardness_output_min", "hardness_output_max",
	"special_notes", "file_key", "is_active", "version", "created_at", "updated_at",
}

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

// FetchActive returns every active work instruction.
func (r *PGRepo) FetchActive(ctx context.Context) ([]WorkInstruction, error) {
	query := `SELECT ` + strings.Join(columns, ", ") + `
FROM work_instructions
WHERE is_active = TRUE`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query active work instructions: %w", err)
	}
	defer rows.Close()
	return scanAll(rows)
}

// GetByID returns a work instruction by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (WorkInstruction, error) {
	query := `SELECT ` + strings.Join(columns, ", ") + `
FROM work_instructions
WHERE id = $1
LIMIT 1`
	wi, err := scanWorkInstruction(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return WorkInstruction{}, ErrNotFound
		}
		return WorkInstruction{}, err
	}
	return wi, nil
}

// List returns work instructions ordered by IT code, narrowed by the filter.
func (r *PGRepo) List(ctx context.Context, filter ListFilter) ([]WorkInstruction, error) {
	limit, offset := clampPage(filter.Limit, filter.Offset)
	q := psql.Select(columns...).From("work_instructions")
	if filter.Active != nil {
		q = q.Where(sq.Eq{"is_active": *filter.Active})
	}
	if tt := strings.TrimSpace(filter.TreatmentType); tt != "" {
		q = q.Where("lower(treatment_type) = lower(?)", tt)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + search + "%"
		q = q.Where(sq.Or{sq.ILike{"it_code": pattern}, sq.ILike{"title": pattern}})
	}
	q = q.OrderBy("it_code ASC").Limit(uint64(limit)).Offset(uint64(offset))

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list work instructions: %w", err)
	}
	defer rows.Close()
	return scanAll(rows)
}

// Create inserts a work instruction.
func (r *PGRepo) Create(ctx context.Context, wi WorkInstruction) error {
	steels, err := json.Marshal(nonNilSteels(wi.ApplicableSteels))
	if err != nil {
		return fmt.Errorf("encode applicable steels: %w", err)
	}
	tMin, tMax := rangeArgs(wi.Temperature)
	dMin, dMax := rangeArgs(wi.Duration)
	hiMin, hiMax := rangeArgs(wi.HardnessInput)
	hoMin, hoMax := rangeArgs(wi.HardnessOutput)

	const query = `
INSERT INTO work_instructions (
    id, it_code, title, description, treatment_type,
    temperature_min, temperature_max, duration_min, duration_max,
    cooling_method, applicable_steels,
    hardness_input_min, hardness_input_max, hardness_output_min, hardness_output_max,
    special_notes, file_key, is_active, version, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`
	_, err = r.DB.ExecContext(ctx, query,
		wi.ID, wi.ITCode, wi.Title, wi.Description, wi.TreatmentType,
		tMin, tMax, dMin, dMax,
		wi.CoolingMethod, steels,
		hiMin, hiMax, hoMin, hoMax,
		wi.SpecialNotes, wi.FileKey, wi.Active, wi.Version, wi.CreatedAt, wi.UpdatedAt,
	)
	if db.IsUniqueViolation(err) {
		return ErrConflict
	}
	return err
}

// Update rewrites the editable fields of a work instruction.
func (r *PGRepo) Update(ctx context.Context, wi WorkInstruction) error {
	steels, err := json.Marshal(nonNilSteels(wi.ApplicableSteels))
	if err != nil {
		return fmt.Errorf("encode applicable steels: %w", err)
	}
	tMin, tMax := rangeArgs(wi.Temperature)
	dMin, dMax := rangeArgs(wi.Duration)
	hiMin, hiMax := rangeArgs(wi.HardnessInput)
	hoMin, hoMax := rangeArgs(wi.HardnessOutput)

	const query = `
UPDATE work_instructions SET
    it_code = $2, title = $3, description = $4, treatment_type = $5,
    temperature_min = $6, temperature_max = $7, duration_min = $8, duration_max = $9,
    cooling_method = $10, applicable_steels = $11,
    hardness_input_min = $12, hardness_input_max = $13, hardness_output_min = $14, hardness_output_max = $15,
    special_notes = $16, is_active = $17, version = $18, updated_at = $19
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query,
		wi.ID, wi.ITCode, wi.Title, wi.Description, wi.TreatmentType,
		tMin, tMax, dMin, dMax,
		wi.CoolingMethod, steels,
		hiMin, hiMax, hoMin, hoMax,
		wi.SpecialNotes, wi.Active, wi.Version, wi.UpdatedAt,
	)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return ErrConflict
		}
		return err
	}
	return expectOneRow(res)
}

// SetActive toggles whether the work instruction is offered as a candidate.
func (r *PGRepo) SetActive(ctx context.Context, id string, active bool) error {
	const query = `UPDATE work_instructions SET is_active = $2, updated_at = now() WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, id, active)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

// SetFileKey records the attachment storage key.
func (r *PGRepo) SetFileKey(ctx context.Context, id, fileKey string) error {
	const query = `UPDATE work_instructions SET file_key = $2, updated_at = now() WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, id, fileKey)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanAll(rows *sql.Rows) ([]WorkInstruction, error) {
	var out []WorkInstruction
	for rows.Next() {
		wi, err := scanWorkInstruction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, wi)
	}
	return out, rows.Err()
}

func scanWorkInstruction(s rowScanner) (WorkInstruction, error) {
	var (
		wi                 WorkInstruction
		tMin, tMax         sql.NullFloat64
		dMin, dMax         sql.NullFloat64
		hiMin, hiMax       sql.NullFloat64
		hoMin, hoMax       sql.NullFloat64
		steels             []byte
		description, notes sql.NullString
		cooling, fileKey   sql.NullString
		version            sql.NullString
	)
	err := s.Scan(
		&wi.ID, &wi.ITCode, &wi.Title, &description, &wi.TreatmentType,
		&tMin, &tMax, &dMin, &dMax,
		&cooling, &steels,
		&hiMin, &hiMax, &hoMin, &hoMax,
		&notes, &fileKey, &wi.Active, &version, &wi.CreatedAt, &wi.UpdatedAt,
	)
	if err != nil {
		return WorkInstruction{}, err
	}
	if len(steels) > 0 {
		if err := json.Unmarshal(steels, &wi.ApplicableSteels); err != nil {
			return WorkInstruction{}, fmt.Errorf("decode applicable steels for %s: %w", wi.ITCode, err)
		}
	}
	wi.Description = description.String
	wi.SpecialNotes = notes.String
	wi.CoolingMethod = cooling.String
	wi.FileKey = fileKey.String
	wi.Version = version.String
	wi.Temperature = nullRange(tMin, tMax)
	wi.Duration = nullRange(dMin, dMax)
	wi.HardnessInput = nullRange(hiMin, hiMax)
	wi.HardnessOutput = nullRange(hoMin, hoMax)
	return wi, nil
}

func nullRange(min, max sql.NullFloat64) *Range {
	if !min.Valid || !max.Valid {
		return nil
	}
	return &Range{Min: min.Float64, Max: max.Float64}
}

func rangeArgs(r *Range) (any, any) {
	if r == nil {
		return nil, nil
	}
	return r.Min, r.Max
}

func nonNilSteels(steels []string) []string {
	if steels == nil {
		return []string{}
	}
	return steels
}

var _ Repo = (*PGRepo)(nil)
