// Package blobs stores rendered page artifacts as immutable, versioned objects and
// derives their public CDN URLs.
//
// Every version gets its own key (pages/{pageId}/{version}/index.html), so a URL
// handed to the routing cache keeps resolving to the same bytes forever.
package blobs
