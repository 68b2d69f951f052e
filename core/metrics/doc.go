// Package metrics exposes Prometheus counters for route publishing.
//
// A Recorder owns a private registry and is handed to the publish coordinator,
// the consistency inspector and the route store as their observer. The HTTP
// server mounts Recorder.Handler on /metrics.
package metrics
