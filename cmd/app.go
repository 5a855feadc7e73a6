package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"natsumin/core/config"
	"natsumin/core/database"
	"natsumin/core/logger"
	"natsumin/core/metrics"
	"natsumin/core/storage"
	"natsumin/feature/contracts"
	"natsumin/feature/contracts/models"
	"natsumin/feature/identity"
	"natsumin/feature/media"
	"natsumin/feature/sheets"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// app holds the dependencies every command builds the same way.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	db       *gorm.DB
	resolver *identity.Resolver
	// store is nil when the snapshot archive is disabled.
	store storage.Client
}

func bootstrap(ctx context.Context) (*app, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if cfg.Database.AutoMigrate {
		if err := models.Migrate(db); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	a := &app{
		cfg:      cfg,
		logger:   l,
		db:       db,
		resolver: identity.NewResolver(db, l, identity.WithCutoff(cfg.Sync.FuzzyCutoff)),
	}

	if cfg.Storage.Enabled {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to storage: %w", err)
		}
		if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
			return nil, err
		}
		a.store = client
	}
	return a, nil
}

func (a *app) archive() *contracts.Archive {
	if a.store == nil {
		return nil
	}
	return contracts.NewArchive(a.store, a.cfg.Storage.Bucket, a.logger)
}

func (a *app) service() *contracts.Service {
	return contracts.NewService(a.db, a.resolver, a.logger, a.cfg.Sync)
}

func (a *app) engine(recorder metrics.Recorder) *contracts.Engine {
	syncer := media.NewSyncer(
		media.NewAnilistClient(a.cfg.Media, a.logger),
		media.NewSteamClient(a.cfg.Media, a.logger),
		recorder,
		a.logger,
	)

	opts := []contracts.EngineOption{contracts.WithMetrics(recorder)}
	if archive := a.archive(); archive != nil {
		opts = append(opts, contracts.WithArchive(archive))
	}
	return contracts.NewEngine(a.db, sheets.NewClient(a.cfg.Sheets, a.logger), a.resolver, syncer, a.logger, a.cfg.Sync, opts...)
}

func (a *app) requireArchive() (*contracts.Archive, error) {
	archive := a.archive()
	if archive == nil {
		return nil, fmt.Errorf("snapshot archive is disabled, set STORAGE_ENABLED=true")
	}
	return archive, nil
}

func (a *app) close() {
	_ = a.logger.Sync()
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// printJSON writes v to stdout for scripting.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// confirmDestructiveAction prompts for confirmation unless yes is set.
func confirmDestructiveAction(yes bool, prompt string) bool {
	if yes {
		fmt.Println("Auto-confirmed via --yes flag")
		return true
	}

	fmt.Printf("%s Type 'yes' to confirm: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(response) == "yes"
}
