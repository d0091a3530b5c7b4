package feedback

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreateAndList(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	repo := &PGRepo{DB: db}

	now := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	fb := Feedback{ID: "fb-1", RecommendationID: "rec-1", WasSuccessful: true, UserName: "ana", CreatedAt: now}

	mock.ExpectExec("INSERT INTO feedback").
		WithArgs("fb-1", "rec-1", true, nil, "", "ana", now).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("FROM feedback").
		WithArgs("rec-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "recommendation_id", "was_successful", "actual_hardness", "comments", "user_name", "created_at"}).
			AddRow("fb-1", "rec-1", true, nil, "", "ana", now).
			AddRow("fb-2", "rec-1", false, 49.5, "too soft", "bo", now.Add(time.Hour)))

	if err := repo.Create(context.Background(), fb); err != nil {
		t.Fatalf("Create: %v", err)
	}
	items, err := repo.ListByRecommendation(context.Background(), "rec-1")
	if err != nil {
		t.Fatalf("ListByRecommendation: %v", err)
	}
	if len(items) != 2 || items[0].ActualHardness != nil || items[1].ActualHardness == nil || *items[1].ActualHardness != 49.5 {
		t.Fatalf("unexpected items %+v", items)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCountByRecommendation(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	repo := &PGRepo{DB: db}

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM feedback WHERE recommendation_id = $1")).
		WithArgs("rec-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(2)))

	n, err := repo.CountByRecommendation(context.Background(), "rec-1")
	if err != nil {
		t.Fatalf("CountByRecommendation: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2, got %d", n)
	}
}

func TestMemoryRepoCountByRecommendation(t *testing.T) {
	repo := NewMemoryRepo()
	for _, id := range []string{"fb-1", "fb-2"} {
		if err := repo.Create(context.Background(), Feedback{ID: id, RecommendationID: "rec-1"}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	if n, _ := repo.CountByRecommendation(context.Background(), "rec-1"); n != 2 {
		t.Fatalf("expected 2, got %d", n)
	}
	if n, _ := repo.CountByRecommendation(context.Background(), "rec-2"); n != 0 {
		t.Fatalf("expected 0, got %d", n)
	}
}
