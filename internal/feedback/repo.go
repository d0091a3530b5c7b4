package feedback

import "context"

// Repo defines persistence operations for feedback.
type Repo interface {
	Create(ctx context.Context, fb Feedback) error
	// ListByRecommendation returns feedback oldest first.
	ListByRecommendation(ctx context.Context, recommendationID string) ([]Feedback, error)
	CountByRecommendation(ctx context.Context, recommendationID string) (int, error)
}

// RecommendationChecker confirms a recommendation exists before feedback is attached.
type RecommendationChecker interface {
	Exists(ctx context.Context, recommendationID string) error
}
