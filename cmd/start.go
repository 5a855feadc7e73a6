package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"natsumin/core/loader"
	"natsumin/core/logger"
	"natsumin/core/metrics"
	"natsumin/core/middleware/auth"
	"natsumin/core/middleware/rayid"
	"natsumin/feature/badges"
	"natsumin/feature/contracts"
	"natsumin/feature/integrity"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the sync timer and the operator API",
	Long: `Starts the periodic sync of the active season and the HTTP server that
exposes manual sync, sync status, contract queries and badges.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		a, err := bootstrap(ctx)
		if err != nil {
			log.Fatalf("Failed to start: %v", err)
		}
		defer a.close()
		logg := a.logger
		zap.ReplaceGlobals(logg)

		registry := prometheus.NewRegistry()
		collector := metrics.NewCollector(registry)

		engine := a.engine(collector)
		service := a.service()

		scheduler, err := contracts.NewScheduler(engine, service, a.cfg.Sync.Interval, logg)
		if err != nil {
			logg.Fatal("Failed to create scheduler", zap.Error(err))
		}

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		mgr := loader.NewManager()
		mgr.Register(contracts.NewFeature(engine, service, logg))
		mgr.Register(badges.NewFeature(badges.NewService(a.db, a.resolver, logg), logg))
		mgr.Register(integrity.NewFeature(integrity.NewService(a.db, a.store, a.cfg.Storage.Bucket, a.cfg.Storage.Region, logg)))

		// RayID first so every later log line can carry it.
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		app.Use(auth.New(auth.Config{ApiKey: a.cfg.Server.ApiKey, Skip: []string{"/metrics"}}))
		app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler(registry)))

		if err := mgr.LoadAll(app.Group("/api")); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		if err := scheduler.Start(); err != nil {
			logg.Fatal("Failed to start scheduler", zap.Error(err))
		}

		go func() {
			logg.Info("Starting server", zap.String("address", a.cfg.Server.Address()))
			if err := app.Listen(a.cfg.Server.Address()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down...")
		if err := scheduler.Shutdown(); err != nil {
			logg.Warn("Scheduler shutdown", zap.Error(err))
		}
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
