package checks

import (
	"context"
	"time"

	"route-publisher/core/routestore"
)

// CacheReport describes the route store connection.
type CacheReport struct {
	Driver    string `json:"driver"`
	Reachable bool   `json:"reachable"`
	LatencyMs int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

// CheckCache pings the route store. A nil pinger means the store needs no
// connection (in-memory driver).
func CheckCache(ctx context.Context, driver string, ping routestore.Pinger) *CacheReport {
	report := &CacheReport{Driver: driver, Reachable: true}
	if ping == nil {
		return report
	}
	start := time.Now()
	err := ping(ctx)
	report.LatencyMs = time.Since(start).Milliseconds()
	if err != nil {
		report.Reachable = false
		report.Error = err.Error()
	}
	return report
}
