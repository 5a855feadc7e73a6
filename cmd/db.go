package cmd

import (
	"fmt"

	"natsumin/core/config"
	"natsumin/core/database"
	"natsumin/core/logger"
	"natsumin/feature/contracts/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// dbCmd is the parent command for schema maintenance. Useful when
// DATABASE_AUTO_MIGRATE is off because the schema is shared with other tools.
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Inspect and migrate the database schema",
}

var dbCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Report tables and columns the models expect but the database lacks",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		l, err := logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return err
		}

		drifts, err := database.CheckSchema(db, models.All()...)
		if err != nil {
			return err
		}
		if len(drifts) == 0 {
			l.Info("Schema matches the models")
			return nil
		}
		for _, d := range drifts {
			l.Warn("Schema drift",
				zap.String("table", d.Table),
				zap.Bool("missing_table", d.MissingTable),
				zap.Strings("missing_columns", d.MissingColumns))
		}
		return fmt.Errorf("%d tables differ from the models, run 'db migrate'", len(drifts))
	},
}

var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update every table and index",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		l, err := logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return err
		}
		if err := models.Migrate(db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		l.Info("Database migrated", zap.Int("tables", len(models.All())))
		return nil
	},
}

func init() {
	dbCmd.AddCommand(dbCheckCmd, dbMigrateCmd)
	RootCmd.AddCommand(dbCmd)
}
