package workinstructions

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func workInstructionRow(id, itCode string, steels string, hiMin, hiMax driver.Value) []driver.Value {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return []driver.Value{
		id, itCode, "Quench and temper", nil, "Quenching",
		840.0, 860.0, nil, nil,
		"Oil", []byte(steels),
		hiMin, hiMax, 50.0, 58.0,
		nil, nil, true, "B", now, now,
	}
}

func TestPGRepoFetchActiveScansNullableRanges(t *testing.T) {
	repo, mock := newMockRepo(t)

	rows := sqlmock.NewRows(columns).
		AddRow(workInstructionRow("wi-1", "IT-001", `["AISI 4140","4140"]`, 18.0, 22.0)...).
		AddRow(workInstructionRow("wi-2", "IT-002", `[]`, nil, 22.0)...)
	mock.ExpectQuery(regexp.QuoteMeta("FROM work_instructions\nWHERE is_active = TRUE")).WillReturnRows(rows)

	items, err := repo.FetchActive(context.Background())
	if err != nil {
		t.Fatalf("FetchActive: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}

	first := items[0]
	if len(first.ApplicableSteels) != 2 || first.ApplicableSteels[0] != "AISI 4140" {
		t.Fatalf("unexpected steels %v", first.ApplicableSteels)
	}
	if first.HardnessInput == nil || first.HardnessInput.Min != 18 || first.HardnessInput.Max != 22 {
		t.Fatalf("unexpected input range %+v", first.HardnessInput)
	}
	if first.Temperature == nil || first.Temperature.Min != 840 {
		t.Fatalf("unexpected temperature %+v", first.Temperature)
	}
	if first.Duration != nil {
		t.Fatalf("expected nil duration, got %+v", first.Duration)
	}
	if first.CoolingMethod != "Oil" || first.Version != "B" || !first.Active {
		t.Fatalf("unexpected scalar fields %+v", first)
	}

	if items[1].HardnessInput != nil {
		t.Fatalf("half-defined range must be nil, got %+v", items[1].HardnessInput)
	}
	if len(items[1].ApplicableSteels) != 0 {
		t.Fatalf("expected empty steels, got %v", items[1].ApplicableSteels)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoFetchActivePropagatesQueryError(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("FROM work_instructions").WillReturnError(errors.New("connection refused"))

	if _, err := repo.FetchActive(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("FROM work_instructions").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(columns))

	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoListBuildsFilteredQuery(t *testing.T) {
	repo, mock := newMockRepo(t)
	active := true

	mock.ExpectQuery(regexp.QuoteMeta("FROM work_instructions WHERE is_active = $1 AND lower(treatment_type) = lower($2) AND (it_code ILIKE $3 OR title ILIKE $4) ORDER BY it_code ASC LIMIT 10")).
		WithArgs(true, "Quenching", "%4140%", "%4140%").
		WillReturnRows(sqlmock.NewRows(columns).AddRow(workInstructionRow("wi-1", "IT-001", `["AISI 4140"]`, 18.0, 22.0)...))

	items, err := repo.List(context.Background(), ListFilter{
		TreatmentType: "Quenching",
		Active:        &active,
		Search:        " 4140 ",
		Limit:         10,
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 1 || items[0].ITCode != "IT-001" {
		t.Fatalf("unexpected items %+v", items)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCreateMapsUniqueViolation(t *testing.T) {
	repo, mock := newMockRepo(t)
	wi := WorkInstruction{
		ID:               "wi-1",
		ITCode:           "IT-001",
		Title:            "Quench",
		TreatmentType:    "Quenching",
		ApplicableSteels: []string{"AISI 4140"},
		HardnessOutput:   &Range{Min: 50, Max: 58},
		Active:           true,
	}

	mock.ExpectExec("INSERT INTO work_instructions").
		WithArgs(
			wi.ID, wi.ITCode, wi.Title, "", wi.TreatmentType,
			nil, nil, nil, nil,
			"", []byte(`["AISI 4140"]`),
			nil, nil, 50.0, 58.0,
			"", "", true, "", sqlmock.AnyArg(), sqlmock.AnyArg(),
		).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	if err := repo.Create(context.Background(), wi); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoSetActiveNoRows(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("UPDATE work_instructions SET is_active").
		WithArgs("missing", false).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.SetActive(context.Background(), "missing", false); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoSetFileKey(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("UPDATE work_instructions SET file_key").
		WithArgs("wi-1", "abc/def_doc.pdf").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SetFileKey(context.Background(), "wi-1", "abc/def_doc.pdf"); err != nil {
		t.Fatalf("SetFileKey: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
