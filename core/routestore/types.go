package routestore

import (
	"context"
	"time"
)

// RootPath is the only routed path for now.
const RootPath = "/"

// DefaultTTL is the lifetime of a route entry. Entries are overwritten on every
// publish, so the TTL only reclaims hosts that stop being published.
const DefaultTTL = 365 * 24 * time.Hour

// RouteConfig maps a host+path to the artifact of a published page version.
type RouteConfig struct {
	PageID      string `json:"pageId"`
	Version     string `json:"version"`
	BlobURL     string `json:"blobUrl"`
	PublishedAt int64  `json:"publishedAt"`
}

// Key builds the cache key for a host and path: route:{host}:{path}.
func Key(host, path string) string {
	return "route:" + host + ":" + path
}

// RootKey is Key(host, RootPath).
func RootKey(host string) string {
	return Key(host, RootPath)
}

// Store is the routing key-value store.
//
// The read path never fails: Get returns nil and Exists returns false when the
// backend errors, which callers treat as a cache miss rather than a verified
// absence. SetMany writes all entries as one atomic batch; when it returns an
// error nothing may be assumed about which entries landed.
type Store interface {
	Get(ctx context.Context, key string) *RouteConfig
	Exists(ctx context.Context, key string) bool
	SetMany(ctx context.Context, entries map[string]RouteConfig, ttl time.Duration) error
}

// ReadObserver is told about absorbed read failures.
type ReadObserver interface {
	StoreReadFailed(op string)
}
