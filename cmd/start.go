package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"route-publisher/core/loader"
	"route-publisher/core/logger"
	"route-publisher/core/middleware/auth"
	"route-publisher/core/middleware/rayid"

	"route-publisher/feature/integrity"
	"route-publisher/feature/publish"
	"route-publisher/feature/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const metricsPath = "/metrics"

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the route publisher server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Configuration and backends
		d, err := buildDeps()
		if err != nil {
			log.Fatalf("Failed to initialize: %v", err)
		}
		logg := d.logger
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		logg.Info("Backends ready",
			zap.String("database", d.cfg.Database.Driver),
			zap.String("cache", d.cfg.Cache.Driver),
			zap.String("base_domain", d.cfg.Publish.BaseDomain),
		)

		// 2. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		// 3. Initialize Feature Loader
		mgr := loader.NewManager()
		mgr.Register(publish.NewFeature(publish.NewService(d.repo, d.blobs, d.coordinator, d.cfg.Publish, d.cfg.Server, logg)))
		mgr.Register(routes.NewFeature(d.inspector, logg))
		mgr.Register(integrity.NewFeature(integrity.NewService(d.storage, d.cfg.Storage, d.db, d.cfg.Cache.Driver, d.pinger, logg)))

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Logging Middleware
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

		// 3. Metrics (Public, scraped without the API key)
		app.Get(metricsPath, adaptor.HTTPHandler(d.recorder.Handler()))

		// 4. Auth (Protect API)
		app.Use(auth.New(auth.Config{ApiKey: d.cfg.Server.ApiKey, Skip: []string{metricsPath}}))

		// 5. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 6. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", d.cfg.Server.Port))
			if err := app.Listen(":" + d.cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 7. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
