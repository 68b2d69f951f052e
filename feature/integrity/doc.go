// Package integrity provides infrastructure health checks for the publisher.
//
// Unlike the 'routes' package which inspects individual route entries, this
// package validates that the collaborators the publish flow depends on are in
// place.
//
// # Checks Provided
//
//   - Server: Validates that the pages, page_versions and page_domains tables carry every column of the models.
//   - Storage: Checks that the artifact bucket exists (supports creating it).
//   - Cache: Pings the route store and reports the round trip.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/server : Runs schema check.
//   - GET /integrity/storage : Runs bucket check (supports ?fix=true).
//   - GET /integrity/cache : Pings the route store.
package integrity
