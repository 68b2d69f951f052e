// Package pages is the relational source of truth for published pages.
//
// A page has a slug, a publish state and a pointer to its current version. Versions
// are immutable rows naming the blob key and CDN URL of a rendered artifact. Custom
// domains are stored next to the page; every page is also served on its primary host
// {slug}.{base_domain}.
//
// The routing cache is validated against this package: whatever FindBySlug returns
// is, by definition, what the routing entries of the page should point at.
package pages
