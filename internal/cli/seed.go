package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"rights-arcade/internal/catalog"
	"rights-arcade/internal/config"
	"rights-arcade/internal/infra/postgres"
)

// NewSeedCmd writes the built-in catalogs into Postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Write the built-in game catalogs into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), *configPath)
		},
	}
}

func runSeed(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := runMigrationsWithConfig(ctx, cfg); err != nil {
		return err
	}

	db := postgres.Open(cfg.Postgres.URL)
	defer db.Close()

	n, err := postgres.SeedCatalogs(ctx, db, catalog.Catalogs())
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	log.Printf("seeded %d catalogs", n)
	return nil
}
