package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"learnos/internal/config"
	"learnos/internal/database"
	"learnos/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	var (
		dir  string
		down bool
	)

	cmd := &cobra.Command{
		Use:          "migrate",
		Short:        "Apply the Oracle schema for the lessons store",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if err := logger.Initialize(cfg.Logger); err != nil {
				return err
			}
			defer logger.Sync()

			driver, err := database.DriverName(cfg.Store.Driver)
			if err != nil {
				return err
			}
			db, err := database.NewSQLXOracleDB(cmd.Context(), driver, cfg.GetDSN())
			if err != nil {
				return err
			}
			defer db.Close()

			direction := database.Up
			if down {
				direction = database.Down
			}
			logger.Get().Info("Running migrations", zap.String("dir", dir), zap.String("direction", string(direction)))
			return database.RunMigrations(cmd.Context(), db.DB, dir, direction)
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "database/migrations", "directory holding *.up.sql and *.down.sql files")
	cmd.Flags().BoolVar(&down, "down", false, "run the down migrations in reverse order")

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		log.Printf("migrate: %v", err)
		os.Exit(1)
	}
}
