package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"treatment-backend/internal/catalog"
	"treatment-backend/internal/recommendations"
	"treatment-backend/internal/recommendations/engine"
	"treatment-backend/internal/shared/config"
	"treatment-backend/internal/shared/storage/db"
	"treatment-backend/internal/workinstructions"
)

func newRecommendCommand() *cobra.Command {
	var (
		catalogPath     string
		steel           string
		inputHardness   float64
		desiredHardness float64
		asJSON          bool
	)
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Rank work instructions for a steel and hardness request",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := engine.Request{SteelCode: steel}
			if cmd.Flags().Changed("input-hardness") {
				req.InputHardness = &inputHardness
			}
			if cmd.Flags().Changed("desired-hardness") {
				req.DesiredHardness = &desiredHardness
			}

			req, err := engine.Validate(req)
			if err != nil {
				return err
			}

			source, closeFn, err := candidateSource(cmd.Context(), catalogPath)
			if err != nil {
				return err
			}
			defer closeFn()

			candidates, err := source.FetchActive(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetch work instructions: %w", err)
			}
			results := engine.Recommend(req, candidates)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}
			renderResults(cmd.OutOrStdout(), results)
			return nil
		},
	}
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "YAML catalog file (defaults to the database in DATABASE_URL)")
	cmd.Flags().StringVar(&steel, "steel", "", "Steel code of the part")
	cmd.Flags().Float64Var(&inputHardness, "input-hardness", 0, "Current hardness (HRC)")
	cmd.Flags().Float64Var(&desiredHardness, "desired-hardness", 0, "Target hardness (HRC)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print results as JSON")
	return cmd
}

func candidateSource(ctx context.Context, catalogPath string) (recommendations.CandidateSource, func(), error) {
	if strings.TrimSpace(catalogPath) != "" {
		return catalog.FileSource{Path: catalogPath}, func() {}, nil
	}
	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		return nil, nil, fmt.Errorf("either --catalog or DATABASE_URL is required")
	}
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
	if err != nil {
		return nil, nil, err
	}
	return &workinstructions.PGRepo{DB: sqlDB}, func() { _ = sqlDB.Close() }, nil
}

func renderResults(w io.Writer, results []engine.Result) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No matching work instructions.")
		return
	}
	for i, r := range results {
		fmt.Fprintf(w, "%d. %s  %s  (score %d)\n", i+1, r.WorkInstruction.ITCode, r.WorkInstruction.Title, r.ConfidenceScore)
		for _, line := range strings.Split(r.Reason, "\n") {
			if line != "" {
				fmt.Fprintf(w, "   %s\n", line)
			}
		}
	}
}
