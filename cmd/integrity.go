package cmd

import (
	"fmt"

	"natsumin/core/config"
	"natsumin/core/database"
	"natsumin/core/logger"
	"natsumin/core/storage"
	"natsumin/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var integrityFix bool
var integrityJSON bool

// integrityCmd runs every check. It connects without migrating or creating
// the bucket so the report reflects the deployment as it is.
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check the database schema, snapshot bucket and season data",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, l, err := integrityService()
		if err != nil {
			return err
		}

		report := svc.RunAll(cmd.Context())
		if integrityJSON {
			return printJSON(report)
		}

		for name, msg := range report.Errors {
			l.Error("Check failed", zap.String("check", name), zap.String("error", msg))
		}
		if report.Schema != nil {
			for _, d := range report.Schema.Drifts {
				l.Warn("Schema drift",
					zap.String("table", d.Table),
					zap.Bool("missing_table", d.MissingTable),
					zap.Strings("missing_columns", d.MissingColumns))
			}
		}
		if s := report.Storage; s != nil && s.Enabled {
			l.Info("Snapshot bucket",
				zap.String("bucket", s.Bucket),
				zap.Bool("exists", s.Exists),
				zap.Int("seasons", s.Seasons))
		}
		if d := report.Data; d != nil {
			l.Info("Season data",
				zap.Int("orphan_contracts", len(d.OrphanContracts)),
				zap.Int("foreign_contractors", len(d.ForeignContractors)),
				zap.Strings("unknown_layouts", d.UnknownLayouts),
				zap.Int("shadowed_aliases", len(d.ShadowedAliases)))
		}

		if !report.Healthy() {
			return fmt.Errorf("integrity checks found problems")
		}
		l.Info("All integrity checks passed")
		return nil
	},
}

var integrityStorageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Check the snapshot bucket and create it with --fix",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, l, err := integrityService()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		report, err := svc.CheckStorage(ctx)
		if err != nil {
			return err
		}
		if !report.Enabled {
			l.Info("Snapshot archive is disabled")
			return nil
		}
		if report.Exists {
			l.Info("Snapshot bucket exists", zap.String("bucket", report.Bucket), zap.Int("seasons", report.Seasons))
			return nil
		}
		if !integrityFix {
			return fmt.Errorf("bucket %s does not exist, rerun with --fix", report.Bucket)
		}
		if err := svc.FixStorage(ctx); err != nil {
			return err
		}
		l.Info("Created snapshot bucket", zap.String("bucket", report.Bucket))
		return nil
	},
}

var integrityDataCmd = &cobra.Command{
	Use:   "data",
	Short: "List contracts, contractors, seasons and aliases that do not line up",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := integrityService()
		if err != nil {
			return err
		}
		report, err := svc.CheckData(cmd.Context())
		if err != nil {
			return err
		}
		if err := printJSON(report); err != nil {
			return err
		}
		if !report.Clean() {
			return fmt.Errorf("season data has inconsistencies")
		}
		return nil
	},
}

func integrityService() (*integrity.Service, *zap.Logger, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, nil, err
	}

	var client storage.Client
	if cfg.Storage.Enabled {
		if client, err = storage.NewClient(cfg.Storage); err != nil {
			return nil, nil, fmt.Errorf("failed to connect to storage: %w", err)
		}
	}
	return integrity.NewService(db, client, cfg.Storage.Bucket, cfg.Storage.Region, l), l, nil
}

func init() {
	integrityCmd.Flags().BoolVar(&integrityJSON, "json", false, "Print the combined report as JSON")
	integrityStorageCmd.Flags().BoolVar(&integrityFix, "fix", false, "Create the bucket when it is missing")
	integrityCmd.AddCommand(integrityStorageCmd, integrityDataCmd)
	RootCmd.AddCommand(integrityCmd)
}
