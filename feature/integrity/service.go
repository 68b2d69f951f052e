package integrity

import (
	"context"

	"route-publisher/core/routestore"
	"route-publisher/core/storage"
	"route-publisher/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service handles integrity checks.
type Service struct {
	client      storage.Client
	storageCfg  storage.Config
	db          *gorm.DB
	cacheDriver string
	ping        routestore.Pinger
	logger      *zap.Logger
}

// NewService creates a new integrity service.
func NewService(client storage.Client, storageCfg storage.Config, db *gorm.DB, cacheDriver string, ping routestore.Pinger, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		client:      client,
		storageCfg:  storageCfg,
		db:          db,
		cacheDriver: cacheDriver,
		ping:        ping,
		logger:      logger,
	}
}

// CheckServer validates the page tables against the models.
func (s *Service) CheckServer() (*checks.ServerReport, error) {
	return checks.CheckServerIntegrity(s.db)
}

// CheckStorage reports whether the artifact bucket exists.
func (s *Service) CheckStorage(ctx context.Context) (*checks.StorageReport, error) {
	return checks.CheckStorage(ctx, s.client, s.storageCfg.Bucket)
}

// FixStorage creates the artifact bucket when it is missing.
func (s *Service) FixStorage(ctx context.Context) (*checks.StorageReport, error) {
	report, err := s.CheckStorage(ctx)
	if err != nil || report.Exists {
		return report, err
	}
	if err := checks.FixStorage(ctx, s.client, s.storageCfg.Bucket, s.storageCfg.Region, s.logger); err != nil {
		return report, err
	}
	report.Exists = true
	report.Fixed = true
	return report, nil
}

// CheckCache pings the route store.
func (s *Service) CheckCache(ctx context.Context) *checks.CacheReport {
	return checks.CheckCache(ctx, s.cacheDriver, s.ping)
}
