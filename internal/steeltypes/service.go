package steeltypes

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"treatment-backend/internal/shared/telemetry"
)

// Input carries the fields of a new steel type.
type Input struct {
	Code        string
	Name        string
	Category    string
	Composition map[string]any
	Properties  map[string]any
}

// Service contains steel type catalog logic.
type Service struct {
	Repo Repo
}

// Create registers a steel type.
func (s *Service) Create(ctx context.Context, in Input) (SteelType, error) {
	code := strings.TrimSpace(in.Code)
	if code == "" {
		return SteelType{}, fmt.Errorf("%w: code is required", ErrInvalidInput)
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = code
	}
	now := time.Now().UTC()
	st := SteelType{
		ID:          uuid.NewString(),
		Code:        code,
		Name:        name,
		Category:    strings.TrimSpace(in.Category),
		Composition: in.Composition,
		Properties:  in.Properties,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Repo.Create(ctx, st); err != nil {
		return SteelType{}, err
	}
	return st, nil
}

// List returns steel types, optionally narrowed to one category.
func (s *Service) List(ctx context.Context, category string) ([]SteelType, error) {
	return s.Repo.List(ctx, strings.TrimSpace(category))
}

// Delete removes a steel type from the catalog.
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	telemetry.Info("steeltypes.deleted", map[string]any{"steel_type_id": id})
	return nil
}

// FindIDByCode resolves a steel code to its stored ID.
func (s *Service) FindIDByCode(ctx context.Context, code string) (string, error) {
	if strings.TrimSpace(code) == "" {
		return "", ErrNotFound
	}
	return s.Repo.FindIDByCode(ctx, code)
}
