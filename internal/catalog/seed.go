package catalog

import (
	"context"
	"errors"
	"fmt"

	"treatment-backend/internal/shared/telemetry"
	"treatment-backend/internal/steeltypes"
	"treatment-backend/internal/workinstructions"
)

// Summary counts what a seed run did.
type Summary struct {
	SteelTypesCreated       int `json:"steelTypesCreated"`
	WorkInstructionsCreated int `json:"workInstructionsCreated"`
	Skipped                 int `json:"skipped"`
}

// Seed creates every entry of f that is not already present. Existing codes are skipped,
// so running it twice is harmless.
func Seed(ctx context.Context, f File, steels *steeltypes.Service, instructions *workinstructions.Service) (Summary, error) {
	var sum Summary
	for _, e := range f.SteelTypes {
		_, err := steels.Create(ctx, steeltypes.Input{
			Code:        e.Code,
			Name:        e.Name,
			Category:    e.Category,
			Composition: e.Composition,
			Properties:  e.Properties,
		})
		switch {
		case errors.Is(err, steeltypes.ErrConflict):
			sum.Skipped++
		case err != nil:
			return sum, fmt.Errorf("seed steel type %s: %w", e.Code, err)
		default:
			sum.SteelTypesCreated++
		}
	}
	for _, e := range f.WorkInstructions {
		_, err := instructions.Create(ctx, e.Input())
		switch {
		case errors.Is(err, workinstructions.ErrConflict):
			sum.Skipped++
		case err != nil:
			return sum, fmt.Errorf("seed work instruction %s: %w", e.ITCode, err)
		default:
			sum.WorkInstructionsCreated++
		}
	}
	telemetry.Info("catalog.seeded", map[string]any{
		"steel_types_created":       sum.SteelTypesCreated,
		"work_instructions_created": sum.WorkInstructionsCreated,
		"skipped":                   sum.Skipped,
	})
	return sum, nil
}
