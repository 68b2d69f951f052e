// Package routestore is the routing key-value store: host+path keys mapped to the
// artifact of the currently published page version.
//
// Keys have the form route:{host}:{path} (path is always "/" for now) and values are
// JSON encoded RouteConfig records carrying a long TTL. Entries are overwritten on
// every publish and never merged or deleted explicitly.
//
// # Backends
//
//   - Redis (go-redis): SetMany runs as a single MULTI/EXEC transaction.
//   - Memory: process-local map used by local runs and tests.
//
// # Failure Semantics
//
// Reads degrade instead of failing: a backend error or an undecodable value makes Get
// return nil and Exists return false. The failure is logged and reported to the
// optional ReadObserver. Writes always return their error; a failed batch means the
// write status is unknown and the caller has to verify.
package routestore
