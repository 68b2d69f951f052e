// Package publish writes routing entries for a published page and verifies them.
//
// A publish builds one RouteConfig {pageId, version, blobUrl, publishedAt} and writes
// it under route:{domain}:/ for every target domain in a single batch. Because the
// routing store may be an eventually consistent, multi-region cache, an acknowledged
// write is not treated as success: every domain is read back and compared field by
// field.
//
// # Attempt Lifecycle
//
//	PENDING -> WRITE_ISSUED -> VERIFIED | MISMATCH | WRITE_ERROR
//
// VERIFIED ends the publish. MISMATCH and WRITE_ERROR sleep
// BaseDelay * 2^(attempt-1) and try again until MaxRetries attempts were made, then
// fail with an *ExhaustedRetriesError listing the last write error and every
// domain/field that did not converge.
//
// # Usage
//
//	coord, _ := publish.NewCoordinator(store, publish.WithLogger(log))
//	res, err := coord.AtomicPublishWithRetry(ctx, page.ID, domains, version, blobURL, cfg.Publish.RetryOptions())
package publish
