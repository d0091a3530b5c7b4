package recommendations

import (
	"context"

	"treatment-backend/internal/workinstructions"
)

// CandidateSource supplies the active work instructions for a query.
type CandidateSource interface {
	FetchActive(ctx context.Context) ([]workinstructions.WorkInstruction, error)
}

// SteelResolver maps a steel code to a stored steel type ID.
type SteelResolver interface {
	FindIDByCode(ctx context.Context, code string) (string, error)
}

// WorkInstructionGetter loads one work instruction by ID. workinstructions.Repo satisfies it.
type WorkInstructionGetter interface {
	GetByID(ctx context.Context, id string) (workinstructions.WorkInstruction, error)
}

// FeedbackCounter reports how much feedback a recommendation has.
type FeedbackCounter interface {
	CountByRecommendation(ctx context.Context, recommendationID string) (int, error)
}

// Recorder writes one recommendation atomically.
type Recorder interface {
	Insert(ctx context.Context, rec Recommendation) error
}

// Repo stores and reads persisted recommendations.
type Repo interface {
	Recorder
	GetByID(ctx context.Context, id string) (Recommendation, error)
	// List returns recommendations newest first.
	List(ctx context.Context, filter ListFilter) ([]Recommendation, error)
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
