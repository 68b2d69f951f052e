package publish

import (
	"context"
	"fmt"
	"strings"
	"time"

	"route-publisher/core/httperr"
	"route-publisher/core/pages"
	corepublish "route-publisher/core/publish"
	"route-publisher/core/server"
	"route-publisher/core/storage/blobs"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Uploader stores a rendered page version.
type Uploader interface {
	Upload(ctx context.Context, pageID, version string, body []byte) (*blobs.Artifact, error)
}

// Result describes a verified publish.
type Result struct {
	PageID   string   `json:"pageId"`
	Slug     string   `json:"slug"`
	Version  string   `json:"version"`
	BlobKey  string   `json:"blobKey"`
	BlobURL  string   `json:"blobUrl"`
	Domains  []string `json:"domains"`
	Attempts int      `json:"attempts"`
	Verified bool     `json:"verified"`
	TestURL  string   `json:"testUrl"`
}

// Service runs the full publish flow of a page.
type Service struct {
	repo        pages.Repository
	uploader    Uploader
	coordinator *corepublish.Coordinator
	cfg         corepublish.Config
	server      server.Config
	logger      *zap.Logger
	now         func() time.Time
}

// NewService creates a new publish service.
func NewService(repo pages.Repository, uploader Uploader, coordinator *corepublish.Coordinator, cfg corepublish.Config, srv server.Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:        repo,
		uploader:    uploader,
		coordinator: coordinator,
		cfg:         cfg,
		server:      srv,
		logger:      logger,
		now:         time.Now,
	}
}

// NewVersion returns a publish token: {unix ms}-{8 hex chars}. Tokens are unique
// but only roughly ordered.
func NewVersion(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%d-%s", now.UnixMilli(), suffix)
}

// Publish uploads body as a new version of slug, makes it current and routes
// every domain of the page to it. The version stays recorded when routing does
// not converge; the consistency inspector reports and repairs that state.
func (s *Service) Publish(ctx context.Context, slug string, body []byte) (*Result, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return nil, fmt.Errorf("%w: slug is required", httperr.ErrBadRequest)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: artifact body is empty", httperr.ErrBadRequest)
	}

	page, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if page == nil {
		return nil, fmt.Errorf("%w: %s", pages.ErrPageNotFound, slug)
	}

	version := NewVersion(s.now())
	log := s.logger.With(zap.String("slug", slug), zap.String("page_id", page.ID), zap.String("version", version))

	artifact, err := s.uploader.Upload(ctx, page.ID, version, body)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.RecordVersion(ctx, page.ID, pages.Version{
		Version: version,
		BlobKey: artifact.Key,
		BlobURL: artifact.URL,
	}); err != nil {
		return nil, err
	}

	custom, err := s.repo.CustomDomains(ctx, page.ID)
	if err != nil {
		return nil, err
	}
	hosts := pages.Hosts(page.Slug, s.cfg.BaseDomain, custom)

	routed, err := s.coordinator.AtomicPublishWithRetry(ctx, page.ID, hosts, version, artifact.URL, s.cfg.RetryOptions())
	if err != nil {
		log.Error("Publish recorded but routes did not converge", zap.Error(err))
		return nil, fmt.Errorf("failed to route %s@%s: %w", slug, version, err)
	}

	log.Info("Page published", zap.Strings("domains", hosts), zap.Int("attempts", routed.Attempts))

	return &Result{
		PageID:   page.ID,
		Slug:     page.Slug,
		Version:  version,
		BlobKey:  artifact.Key,
		BlobURL:  artifact.URL,
		Domains:  hosts,
		Attempts: routed.Attempts,
		Verified: routed.Verified,
		TestURL:  s.server.TestURL(hosts[0]),
	}, nil
}

// CreatePage registers a draft page, or returns the existing one.
func (s *Service) CreatePage(ctx context.Context, slug string, domains []string) (*pages.PublishedPage, bool, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return nil, false, fmt.Errorf("%w: slug is required", httperr.ErrBadRequest)
	}
	existing, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}
	created, err := s.repo.Create(ctx, slug, domains)
	if err != nil {
		return nil, false, err
	}
	s.logger.Info("Page created", zap.String("slug", slug), zap.Strings("domains", domains))
	return created, true, nil
}
