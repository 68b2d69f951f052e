package reconcile

import (
	"context"
	"errors"
	"fmt"

	"route-publisher/core/pages"
	"route-publisher/core/publish"
	"route-publisher/core/routestore"
	"route-publisher/core/server"
	"route-publisher/core/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ErrRepairUnverified is returned when a repair publish succeeded but the
// re-read entry still does not diagnose as MATCH.
var ErrRepairUnverified = errors.New("repair could not be verified")

// BlobChecker reports whether an artifact key is still stored.
type BlobChecker interface {
	Exists(ctx context.Context, key string) (bool, error)
}

// Observer receives inspector telemetry. It must not block.
type Observer interface {
	Diagnosed(code DiagnosisCode)
	Repaired(success bool)
}

// Inspector diagnoses route entries against the page repository and repairs
// them through the publish coordinator.
type Inspector struct {
	repo        pages.Repository
	store       routestore.Store
	coordinator *publish.Coordinator
	blobs       BlobChecker
	baseDomain  string
	retry       publish.RetryOptions
	server      server.Config
	concurrency int
	logger      *zap.Logger
	observer    Observer
	repairs     singleflight.Group
}

// Option configures an Inspector.
type Option func(*Inspector)

// WithPublishConfig sets the base domain and retry policy used for repairs.
func WithPublishConfig(cfg publish.Config) Option {
	return func(i *Inspector) {
		i.baseDomain = cfg.BaseDomain
		i.retry = cfg.RetryOptions()
	}
}

// WithServerConfig sets the scheme used for repair test URLs.
func WithServerConfig(cfg server.Config) Option {
	return func(i *Inspector) { i.server = cfg }
}

// WithBlobChecker enables the informational blob presence check.
func WithBlobChecker(b BlobChecker) Option {
	return func(i *Inspector) { i.blobs = b }
}

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(i *Inspector) {
		if l != nil {
			i.logger = l
		}
	}
}

// WithObserver sets the telemetry observer.
func WithObserver(o Observer) Option {
	return func(i *Inspector) { i.observer = o }
}

// WithConcurrency bounds the number of pages ReconcileAll checks at once.
func WithConcurrency(n int) Option {
	return func(i *Inspector) {
		if n > 0 {
			i.concurrency = n
		}
	}
}

// NewInspector creates an inspector. All three collaborators are required.
func NewInspector(repo pages.Repository, store routestore.Store, coordinator *publish.Coordinator, opts ...Option) (*Inspector, error) {
	switch {
	case repo == nil:
		return nil, fmt.Errorf("reconcile: %w: page repository is required", utils.ErrConfiguration)
	case store == nil:
		return nil, fmt.Errorf("reconcile: %w: route store is required", utils.ErrConfiguration)
	case coordinator == nil:
		return nil, fmt.Errorf("reconcile: %w: publish coordinator is required", utils.ErrConfiguration)
	}
	i := &Inspector{
		repo:        repo,
		store:       store,
		coordinator: coordinator,
		baseDomain:  "sites.localhost",
		retry:       publish.DefaultRetryOptions,
		server:      server.Config{PublicScheme: server.SchemeHTTPS},
		concurrency: 8,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

// Check diagnoses the primary route key of slug. It only fails when the page
// repository cannot be read; route store failures count as a missing entry.
func (i *Inspector) Check(ctx context.Context, slug string) (*Report, error) {
	page, err := i.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	report := i.inspect(ctx, slug, pages.PrimaryHost(slug, i.baseDomain), page)
	return &report, nil
}

func (i *Inspector) inspect(ctx context.Context, slug, host string, page *pages.PublishedPage) Report {
	key := routestore.RootKey(host)
	exists := i.store.Exists(ctx, key)
	entry := i.store.Get(ctx, key)

	report := Report{
		Slug:      slug,
		RouteKey:  key,
		KV:        KVState{Exists: exists, Entry: entry},
		Diagnosis: Diagnose(entry, page, exists),
	}

	if page != nil {
		report.Database = &DatabaseState{
			PageID:         page.ID,
			PublishState:   page.PublishState,
			LastPublishAt:  page.LastPublishAt,
			CurrentVersion: page.CurrentVersion,
		}
		if entry != nil {
			report.Match = &MatchState{PageIDMatch: entry.PageID == page.ID}
			if v := page.CurrentVersion; v != nil {
				report.Match.VersionMatch = entry.Version == v.Version
				report.Match.BlobURLMatch = entry.BlobURL == v.BlobURL
			}
		}
		report.Blob = i.blobState(ctx, page.CurrentVersion)
	}

	if i.observer != nil {
		i.observer.Diagnosed(report.Diagnosis)
	}
	return report
}

func (i *Inspector) blobState(ctx context.Context, v *pages.Version) *BlobState {
	if i.blobs == nil || v == nil || v.BlobKey == "" {
		return nil
	}
	state := &BlobState{Key: v.BlobKey}
	exists, err := i.blobs.Exists(ctx, v.BlobKey)
	if err != nil {
		i.logger.Warn("Blob check failed", zap.String("key", v.BlobKey), zap.Error(err))
		state.Error = err.Error()
		return state
	}
	state.Exists = exists
	return state
}

// Repair republishes the current version of slug to all of its hosts and
// confirms the primary route key diagnoses as MATCH afterwards. Concurrent
// repairs of the same slug share one execution.
func (i *Inspector) Repair(ctx context.Context, slug string) (*RepairResult, error) {
	v, err, shared := i.repairs.Do(slug, func() (any, error) {
		return i.repair(ctx, slug)
	})
	if shared {
		i.logger.Debug("Repair shared with concurrent caller", zap.String("slug", slug))
	}
	if err != nil {
		return nil, err
	}
	return v.(*RepairResult), nil
}

func (i *Inspector) repair(ctx context.Context, slug string) (result *RepairResult, err error) {
	defer func() {
		if i.observer != nil {
			i.observer.Repaired(err == nil)
		}
	}()

	page, err := i.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if page == nil {
		return nil, fmt.Errorf("%w: %s", pages.ErrPageNotFound, slug)
	}
	current := page.CurrentVersion
	if current == nil {
		return nil, fmt.Errorf("%w: %s", pages.ErrNoCurrentVersion, slug)
	}

	custom, err := i.repo.CustomDomains(ctx, page.ID)
	if err != nil {
		return nil, err
	}
	hosts := pages.Hosts(page.Slug, i.baseDomain, custom)

	published, err := i.coordinator.AtomicPublishWithRetry(ctx, page.ID, hosts, current.Version, current.BlobURL, i.retry)
	if err != nil {
		return nil, fmt.Errorf("failed to repair %s: %w", slug, err)
	}

	key := routestore.RootKey(hosts[0])
	verified := i.store.Get(ctx, key)
	if code := Diagnose(verified, page, i.store.Exists(ctx, key)); code != DiagnosisMatch {
		return nil, fmt.Errorf("%w: %s diagnosed %s", ErrRepairUnverified, key, code)
	}

	i.logger.Info("Route repaired",
		zap.String("slug", slug),
		zap.String("version", current.Version),
		zap.Strings("domains", hosts),
		zap.Int("attempts", published.Attempts),
	)

	return &RepairResult{
		Success:  true,
		RouteKey: key,
		Updated:  published.Route,
		Verified: verified,
		Message:  fmt.Sprintf("Route for %s now serves version %s on %d domain(s)", slug, current.Version, len(hosts)),
		TestURL:  i.server.TestURL(hosts[0]),
		Attempts: published.Attempts,
		Domains:  hosts,
	}, nil
}
