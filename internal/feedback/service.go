package feedback

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"treatment-backend/internal/shared/metrics"
	"treatment-backend/internal/shared/telemetry"
)

// Input carries a feedback submission.
type Input struct {
	WasSuccessful  bool
	ActualHardness *float64
	Comments       string
	UserName       string
}

// Service records feedback for saved recommendations. Feedback never changes the recommendation.
type Service struct {
	Repo            Repo
	Recommendations RecommendationChecker
}

// Record validates and stores feedback for a recommendation.
func (s *Service) Record(ctx context.Context, recommendationID string, in Input) (Feedback, error) {
	recommendationID = strings.TrimSpace(recommendationID)
	if recommendationID == "" {
		return Feedback{}, fmt.Errorf("%w: recommendation id is required", ErrInvalidInput)
	}
	userName := strings.TrimSpace(in.UserName)
	if userName == "" {
		return Feedback{}, fmt.Errorf("%w: userName is required", ErrInvalidInput)
	}
	if v := in.ActualHardness; v != nil && (math.IsNaN(*v) || math.IsInf(*v, 0)) {
		return Feedback{}, fmt.Errorf("%w: actualHardness must be a finite number", ErrInvalidInput)
	}
	if s.Recommendations != nil {
		if err := s.Recommendations.Exists(ctx, recommendationID); err != nil {
			return Feedback{}, err
		}
	}

	fb := Feedback{
		ID:               uuid.NewString(),
		RecommendationID: recommendationID,
		WasSuccessful:    in.WasSuccessful,
		ActualHardness:   in.ActualHardness,
		Comments:         strings.TrimSpace(in.Comments),
		UserName:         userName,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, fb); err != nil {
		return Feedback{}, err
	}

	metrics.IncFeedbackRecorded()
	telemetry.Info("feedback.recorded", map[string]any{
		"recommendation_id": recommendationID,
		"was_successful":    fb.WasSuccessful,
	})
	return fb, nil
}

// List returns the feedback recorded for a recommendation.
func (s *Service) List(ctx context.Context, recommendationID string) ([]Feedback, error) {
	if s.Recommendations != nil {
		if err := s.Recommendations.Exists(ctx, recommendationID); err != nil {
			return nil, err
		}
	}
	return s.Repo.ListByRecommendation(ctx, recommendationID)
}
