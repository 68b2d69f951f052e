package publish

import (
	"context"
	"fmt"
	"time"

	"route-publisher/core/routestore"
	"route-publisher/core/utils"

	"go.uber.org/zap"
)

// AttemptOutcome is the terminal state of one write+verify attempt.
type AttemptOutcome string

const (
	AttemptVerified   AttemptOutcome = "verified"
	AttemptMismatch   AttemptOutcome = "mismatch"
	AttemptWriteError AttemptOutcome = "write_error"
)

// Observer receives publish telemetry. It must not block.
type Observer interface {
	PublishAttempt(outcome AttemptOutcome)
	PublishFinished(verified bool, attempts int)
}

// RetryOptions bounds AtomicPublishWithRetry.
type RetryOptions struct {
	MaxRetries int
	BaseDelay  time.Duration
}

// DefaultRetryOptions is three attempts starting at one second of backoff.
var DefaultRetryOptions = RetryOptions{MaxRetries: 3, BaseDelay: time.Second}

// Delay returns the pause after failed attempt n (1-based): BaseDelay * 2^(n-1).
func (o RetryOptions) Delay(attempt int) time.Duration {
	return o.BaseDelay << (attempt - 1)
}

// TotalBackoff is the worst-case sleep time of one publish, store round trips excluded.
func (o RetryOptions) TotalBackoff() time.Duration {
	var total time.Duration
	for attempt := 1; attempt < o.MaxRetries; attempt++ {
		total += o.Delay(attempt)
	}
	return total
}

// Result describes a verified publish.
type Result struct {
	Attempts int                    `json:"attempts"`
	Verified bool                   `json:"verified"`
	Route    routestore.RouteConfig `json:"route"`
}

// Sleeper pauses between attempts. It returns early only when ctx ends.
type Sleeper func(ctx context.Context, d time.Duration) error

// Coordinator writes route entries for a page and verifies they read back.
// Attempts run strictly sequentially; concurrent publishes to the same domain are
// resolved by whichever batch lands last in the store.
type Coordinator struct {
	store    routestore.Store
	ttl      time.Duration
	logger   *zap.Logger
	observer Observer
	now      func() time.Time
	sleep    Sleeper
}

// Option customises a Coordinator.
type Option func(*Coordinator)

// WithTTL overrides routestore.DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(c *Coordinator) { c.ttl = ttl }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Coordinator) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithObserver sets the telemetry observer.
func WithObserver(o Observer) Option {
	return func(c *Coordinator) { c.observer = o }
}

// WithClock overrides the publishedAt clock.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// WithSleeper overrides the backoff sleep.
func WithSleeper(s Sleeper) Option {
	return func(c *Coordinator) { c.sleep = s }
}

// NewCoordinator creates a coordinator over store.
func NewCoordinator(store routestore.Store, opts ...Option) (*Coordinator, error) {
	if store == nil {
		return nil, fmt.Errorf("publish: %w: route store is required", utils.ErrConfiguration)
	}
	c := &Coordinator{
		store:  store,
		ttl:    routestore.DefaultTTL,
		logger: zap.NewNop(),
		now:    time.Now,
		sleep:  sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Route builds the entry a publish of version/blobURL writes for pageID.
func (c *Coordinator) Route(pageID, version, blobURL string) routestore.RouteConfig {
	return routestore.RouteConfig{
		PageID:      pageID,
		Version:     version,
		BlobURL:     blobURL,
		PublishedAt: c.now().UnixMilli(),
	}
}

// AtomicPublish writes one identical route entry for every domain in a single
// batch. It does not verify.
func (c *Coordinator) AtomicPublish(ctx context.Context, pageID string, domains []string, version, blobURL string) error {
	_, err := c.write(ctx, pageID, domains, version, blobURL)
	return err
}

func (c *Coordinator) write(ctx context.Context, pageID string, domains []string, version, blobURL string) (routestore.RouteConfig, error) {
	route := c.Route(pageID, version, blobURL)
	if len(domains) == 0 {
		return route, ErrNoDomains
	}

	entries := make(map[string]routestore.RouteConfig, len(domains))
	for _, domain := range domains {
		entries[routestore.RootKey(domain)] = route
	}

	if err := c.store.SetMany(ctx, entries, c.ttl); err != nil {
		return route, fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}
	return route, nil
}

// Verify re-reads every domain and lists the fields that differ from the intended
// pageID, version and blobURL. A missing entry is reported as a single mismatch.
func (c *Coordinator) Verify(ctx context.Context, pageID string, domains []string, version, blobURL string) []Mismatch {
	var mismatches []Mismatch
	for _, domain := range domains {
		got := c.store.Get(ctx, routestore.RootKey(domain))
		if got == nil {
			mismatches = append(mismatches, Mismatch{Domain: domain, Field: "entry", Expected: "present", Actual: "missing"})
			continue
		}
		if got.PageID != pageID {
			mismatches = append(mismatches, Mismatch{Domain: domain, Field: "pageId", Expected: pageID, Actual: got.PageID})
		}
		if got.Version != version {
			mismatches = append(mismatches, Mismatch{Domain: domain, Field: "version", Expected: version, Actual: got.Version})
		}
		if got.BlobURL != blobURL {
			mismatches = append(mismatches, Mismatch{Domain: domain, Field: "blobUrl", Expected: blobURL, Actual: got.BlobURL})
		}
	}
	return mismatches
}

// AtomicPublishWithRetry writes the route for every domain and verifies it by
// reading back, retrying with exponential backoff. A nil error means every domain
// observably serves {pageID, version, blobURL}.
func (c *Coordinator) AtomicPublishWithRetry(ctx context.Context, pageID string, domains []string, version, blobURL string, opts RetryOptions) (*Result, error) {
	if len(domains) == 0 {
		return nil, ErrNoDomains
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = DefaultRetryOptions.MaxRetries
	}

	log := c.logger.With(
		zap.String("page_id", pageID),
		zap.String("version", version),
		zap.Strings("domains", domains),
	)

	var (
		lastErr    error
		mismatches []Mismatch
	)

	for attempt := 1; attempt <= opts.MaxRetries; attempt++ {
		route, err := c.write(ctx, pageID, domains, version, blobURL)
		if err != nil {
			lastErr = err
			c.attempt(AttemptWriteError)
			log.Warn("Route write failed", zap.Int("attempt", attempt), zap.Error(err))
		} else {
			mismatches = c.Verify(ctx, pageID, domains, version, blobURL)
			if len(mismatches) == 0 {
				c.attempt(AttemptVerified)
				c.finished(true, attempt)
				log.Info("Route publish verified", zap.Int("attempt", attempt))
				return &Result{Attempts: attempt, Verified: true, Route: route}, nil
			}
			c.attempt(AttemptMismatch)
			log.Warn("Route verification mismatch",
				zap.Int("attempt", attempt),
				zap.Int("mismatches", len(mismatches)),
				zap.String("first", mismatches[0].String()),
			)
		}

		if attempt < opts.MaxRetries {
			if err := c.sleep(ctx, opts.Delay(attempt)); err != nil {
				c.finished(false, attempt)
				return nil, fmt.Errorf("publish interrupted after %d attempts: %w", attempt, err)
			}
		}
	}

	c.finished(false, opts.MaxRetries)
	exhausted := &ExhaustedRetriesError{Attempts: opts.MaxRetries, LastError: lastErr, Mismatches: mismatches}
	log.Error("Route publish failed", zap.Error(exhausted))
	return nil, exhausted
}

func (c *Coordinator) attempt(outcome AttemptOutcome) {
	if c.observer != nil {
		c.observer.PublishAttempt(outcome)
	}
}

func (c *Coordinator) finished(verified bool, attempts int) {
	if c.observer != nil {
		c.observer.PublishFinished(verified, attempts)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
