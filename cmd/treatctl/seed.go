package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"treatment-backend/internal/catalog"
	"treatment-backend/internal/shared/config"
	"treatment-backend/internal/shared/storage/db"
	"treatment-backend/internal/steeltypes"
	"treatment-backend/internal/workinstructions"
)

func newSeedCommand() *cobra.Command {
	var (
		catalogPath string
		migrate     bool
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a YAML catalog into the database in DATABASE_URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := catalog.LoadFile(catalogPath)
			if err != nil {
				return err
			}

			cfg := config.Load()
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is required")
			}
			ctx := cmd.Context()
			sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			if migrate {
				if err := db.RunMigrations(ctx, sqlDB); err != nil {
					return err
				}
			}

			sum, err := catalog.Seed(ctx, f,
				&steeltypes.Service{Repo: &steeltypes.PGRepo{DB: sqlDB}},
				workinstructions.NewService(&workinstructions.PGRepo{DB: sqlDB}, nil),
			)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "steel types created: %d\nwork instructions created: %d\nskipped: %d\n",
				sum.SteelTypesCreated, sum.WorkInstructionsCreated, sum.Skipped)
			return nil
		},
	}
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "YAML catalog file")
	cmd.Flags().BoolVar(&migrate, "migrate", false, "Run migrations before seeding")
	_ = cmd.MarkFlagRequired("catalog")
	return cmd
}
