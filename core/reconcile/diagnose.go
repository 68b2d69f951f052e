package reconcile

import (
	"route-publisher/core/pages"
	"route-publisher/core/routestore"
)

// DiagnosisCode classifies how a route entry relates to its page.
type DiagnosisCode string

const (
	// DiagnosisPageNotFound means the slug has no page in the database.
	DiagnosisPageNotFound DiagnosisCode = "PAGE_NOT_FOUND_IN_DB"
	// DiagnosisKVMissing means no route entry exists for the host.
	DiagnosisKVMissing DiagnosisCode = "KV_MISSING"
	// DiagnosisKVCorrupt means the key exists but its value could not be read.
	DiagnosisKVCorrupt DiagnosisCode = "KV_CORRUPT"
	// DiagnosisIncompletePublish means the page has no current version.
	DiagnosisIncompletePublish DiagnosisCode = "DB_INCOMPLETE_PUBLISH"
	// DiagnosisWrongPage means the entry routes to another page.
	DiagnosisWrongPage DiagnosisCode = "KV_WRONG_PAGE"
	// DiagnosisStaleVersion means the entry points at an older version.
	DiagnosisStaleVersion DiagnosisCode = "KV_STALE_VERSION"
	// DiagnosisWrongBlobURL means the version matches but the artifact URL does not.
	DiagnosisWrongBlobURL DiagnosisCode = "KV_WRONG_BLOB_URL"
	// DiagnosisMatch means the cache agrees with the database.
	DiagnosisMatch DiagnosisCode = "MATCH"
)

// Repairable reports whether republishing the current version can fix code.
func (c DiagnosisCode) Repairable() bool {
	switch c {
	case DiagnosisKVMissing, DiagnosisKVCorrupt, DiagnosisWrongPage, DiagnosisStaleVersion, DiagnosisWrongBlobURL:
		return true
	default:
		return false
	}
}

type observation struct {
	entry  *routestore.RouteConfig
	page   *pages.PublishedPage
	exists bool
}

type rule struct {
	code    DiagnosisCode
	applies func(o observation) bool
}

// rules are evaluated top to bottom; the first match wins. Every predicate only
// dereferences what it checks itself, so each one can be tested alone.
var rules = []rule{
	{DiagnosisPageNotFound, func(o observation) bool {
		return o.page == nil
	}},
	{DiagnosisKVMissing, func(o observation) bool {
		return !o.exists
	}},
	{DiagnosisKVCorrupt, func(o observation) bool {
		return o.exists && o.entry == nil
	}},
	{DiagnosisIncompletePublish, func(o observation) bool {
		return o.page != nil && o.page.CurrentVersion == nil
	}},
	{DiagnosisWrongPage, func(o observation) bool {
		return o.entry != nil && o.page != nil && o.entry.PageID != o.page.ID
	}},
	{DiagnosisStaleVersion, func(o observation) bool {
		return o.entry != nil && o.page != nil && o.page.CurrentVersion != nil &&
			o.entry.Version != o.page.CurrentVersion.Version
	}},
	{DiagnosisWrongBlobURL, func(o observation) bool {
		return o.entry != nil && o.page != nil && o.page.CurrentVersion != nil &&
			o.entry.BlobURL != o.page.CurrentVersion.BlobURL
	}},
}

// Diagnose compares a route entry with the page it should serve. It does no I/O
// and always returns a code.
func Diagnose(entry *routestore.RouteConfig, page *pages.PublishedPage, exists bool) DiagnosisCode {
	o := observation{entry: entry, page: page, exists: exists}
	for _, r := range rules {
		if r.applies(o) {
			return r.code
		}
	}
	return DiagnosisMatch
}
