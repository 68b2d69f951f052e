package cmd

import (
	"fmt"

	"route-publisher/core/config"
	"route-publisher/core/database"
	"route-publisher/core/logger"
	"route-publisher/core/metrics"
	"route-publisher/core/pages"
	"route-publisher/core/publish"
	"route-publisher/core/reconcile"
	"route-publisher/core/routestore"
	"route-publisher/core/storage"
	"route-publisher/core/storage/blobs"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// deps holds the collaborators shared by the server and the CLI commands.
type deps struct {
	cfg         *config.Config
	logger      *zap.Logger
	db          *gorm.DB
	repo        pages.Repository
	recorder    *metrics.Recorder
	store       routestore.Store
	pinger      routestore.Pinger
	coordinator *publish.Coordinator
	storage     storage.Client
	blobs       *blobs.Store
	inspector   *reconcile.Inspector
}

// buildDeps loads and validates configuration, then connects every backend.
func buildDeps() (*deps, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	// The sqlite driver is used for local runs, where nobody else owns the schema.
	if cfg.Database.Driver == database.DriverSQLite {
		if err := pages.Migrate(db); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	repo, err := pages.NewRepository(db)
	if err != nil {
		return nil, err
	}

	recorder := metrics.NewRecorder(nil)

	store, pinger, err := routestore.New(cfg.Cache, logg, recorder)
	if err != nil {
		return nil, fmt.Errorf("failed to create route store: %w", err)
	}

	coordinator, err := publish.NewCoordinator(store,
		publish.WithTTL(cfg.Publish.TTL()),
		publish.WithLogger(logg),
		publish.WithObserver(recorder),
	)
	if err != nil {
		return nil, err
	}

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	blobStore := blobs.NewStore(client, cfg.Storage)

	inspector, err := reconcile.NewInspector(repo, store, coordinator,
		reconcile.WithPublishConfig(cfg.Publish),
		reconcile.WithServerConfig(cfg.Server),
		reconcile.WithBlobChecker(blobStore),
		reconcile.WithLogger(logg),
		reconcile.WithObserver(recorder),
	)
	if err != nil {
		return nil, err
	}

	return &deps{
		cfg:         cfg,
		logger:      logg,
		db:          db,
		repo:        repo,
		recorder:    recorder,
		store:       store,
		pinger:      pinger,
		coordinator: coordinator,
		storage:     client,
		blobs:       blobStore,
		inspector:   inspector,
	}, nil
}
