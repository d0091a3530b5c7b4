package recommendations

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"treatment-backend/internal/queue"
	"treatment-backend/internal/recommendations/engine"
	"treatment-backend/internal/shared/metrics"
	"treatment-backend/internal/shared/telemetry"
)

// Service runs recommendation queries and records chosen results.
type Service struct {
	Candidates CandidateSource
	Repo       Repo
	// Steels is optional. Without it saved recommendations carry no steel type ID.
	Steels SteelResolver
	// Events is optional. Publishing happens after the insert and never fails a save.
	Events queue.Client
	Now    func() time.Time
}

// Recommend validates the request, fetches the active catalog and returns the ranked shortlist.
// An empty catalog yields an empty list and no error.
func (s *Service) Recommend(ctx context.Context, req engine.Request) ([]engine.Result, error) {
	start := time.Now()

	req, err := engine.Validate(req)
	if err != nil {
		metrics.IncRecommendationQueriesFailed()
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	candidates, err := s.Candidates.FetchActive(ctx)
	if err != nil {
		metrics.IncRecommendationQueriesFailed()
		telemetry.Error("recommendations.query_failed", map[string]any{
			"steel_code": req.SteelCode,
			"error":      err,
		})
		return nil, fmt.Errorf("%w: %w", ErrRepository, err)
	}

	results := engine.Recommend(req, candidates)

	metrics.IncRecommendationQueries()
	metrics.ObserveQueryDurationMs(metrics.SinceMillis(start))
	fields := map[string]any{
		"steel_code":  req.SteelCode,
		"candidates":  len(candidates),
		"results":     len(results),
		"duration_ms": metrics.SinceMillis(start),
	}
	if len(results) > 0 {
		fields["top_it_code"] = results[0].WorkInstruction.ITCode
		fields["top_score"] = results[0].ConfidenceScore
	}
	telemetry.Info("recommendations.query", fields)

	return results, nil
}

// Save persists the chosen result and returns the new recommendation ID.
// The steel type lookup is best-effort. A failed insert leaves no record.
func (s *Service) Save(ctx context.Context, req engine.Request, chosen engine.Result, userName, clientName string) (string, error) {
	req, err := engine.Validate(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if strings.TrimSpace(chosen.WorkInstruction.ID) == "" {
		return "", fmt.Errorf("%w: work instruction id is required", ErrValidation)
	}
	if chosen.ConfidenceScore <= 0 {
		return "", fmt.Errorf("%w: work instruction %s does not match the request", ErrValidation, chosen.WorkInstruction.ITCode)
	}

	rec := Recommendation{
		ID:                 uuid.NewString(),
		SteelTypeID:        s.resolveSteel(ctx, req.SteelCode),
		SteelCode:          req.SteelCode,
		WorkInstructionID:  chosen.WorkInstruction.ID,
		ITCode:             chosen.WorkInstruction.ITCode,
		InputHardness:      req.InputHardness,
		DesiredHardness:    req.DesiredHardness,
		PieceDescription:   strings.TrimSpace(req.PieceDescription),
		ClientRequirements: req.ClientRequirements,
		Reason:             chosen.Reason,
		ConfidenceScore:    chosen.ConfidenceScore,
		UserName:           strings.TrimSpace(userName),
		ClientName:         strings.TrimSpace(clientName),
		CreatedAt:          s.now(),
	}

	if err := s.Repo.Insert(ctx, rec); err != nil {
		metrics.IncRecommendationSaveFailed()
		telemetry.Error("recommendations.save_failed", map[string]any{
			"it_code": rec.ITCode,
			"error":   err,
		})
		return "", fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	metrics.IncRecommendationsSaved()
	telemetry.Info("recommendations.saved", map[string]any{
		"recommendation_id": rec.ID,
		"it_code":           rec.ITCode,
		"steel_code":        rec.SteelCode,
		"steel_type_id":     rec.SteelTypeID,
		"confidence_score":  rec.ConfidenceScore,
	})
	s.publishSaved(ctx, rec)

	return rec.ID, nil
}

// Get returns one persisted recommendation.
func (s *Service) Get(ctx context.Context, id string) (Recommendation, error) {
	if strings.TrimSpace(id) == "" {
		return Recommendation{}, ErrNotFound
	}
	rec, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Recommendation{}, err
		}
		return Recommendation{}, fmt.Errorf("%w: %w", ErrRepository, err)
	}
	return rec, nil
}

// List returns saved recommendations newest first.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Recommendation, error) {
	items, err := s.Repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRepository, err)
	}
	return items, nil
}

func (s *Service) resolveSteel(ctx context.Context, code string) string {
	if s.Steels == nil {
		return ""
	}
	id, err := s.Steels.FindIDByCode(ctx, code)
	if err != nil {
		telemetry.Warn("recommendations.steel_unresolved", map[string]any{
			"steel_code": code,
			"error":      err,
		})
		return ""
	}
	return id
}

func (s *Service) publishSaved(ctx context.Context, rec Recommendation) {
	if s.Events == nil {
		return
	}
	msg := queue.Message{
		Type:              queue.TypeRecommendationSaved,
		RecommendationID:  rec.ID,
		WorkInstructionID: rec.WorkInstructionID,
		ITCode:            rec.ITCode,
		SteelCode:         rec.SteelCode,
		ConfidenceScore:   rec.ConfidenceScore,
		EnqueuedAt:        s.now().Format(time.RFC3339),
		Version:           queue.CurrentVersion,
	}
	if err := s.Events.Send(ctx, msg); err != nil {
		telemetry.Warn("events.publish_failed", map[string]any{
			"recommendation_id": rec.ID,
			"type":              msg.Type,
			"error":             err,
		})
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}
