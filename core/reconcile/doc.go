// Package reconcile detects and repairs divergence between the route store and
// the page repository.
//
// # Diagnosis
//
// Diagnose is a pure function over three inputs: the route entry read from the
// store, the page read from the database and the store's existence flag. It
// walks an ordered rule table and returns the first matching code:
//
//	PAGE_NOT_FOUND_IN_DB   no page for the slug
//	KV_MISSING             key does not exist
//	KV_CORRUPT             key exists but the value is unreadable
//	DB_INCOMPLETE_PUBLISH  page has no current version
//	KV_WRONG_PAGE          entry routes to another page
//	KV_STALE_VERSION       entry points at an older version
//	KV_WRONG_BLOB_URL      same version, different artifact URL
//	MATCH                  cache and database agree
//
// # Repair
//
// Repair never invents data. It re-reads the page and its current version,
// republishes them to every host of the page through the publish coordinator and
// re-diagnoses the primary key before reporting success.
//
// # Bulk reconciliation
//
// ReconcileAll checks every published page with bounded concurrency and returns
// a Plan. ApplyPlan only executes when the options are confirmed and not a dry run.
//
//	inspector, err := reconcile.NewInspector(repo, store, coordinator,
//	    reconcile.WithPublishConfig(cfg.Publish),
//	)
//	report, err := inspector.Check(ctx, "acme")
//	plan, err := inspector.ReconcileAll(ctx)
//	applied, err := inspector.ApplyPlan(ctx, plan, reconcile.Options{Confirmed: true})
package reconcile
