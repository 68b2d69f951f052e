// Package publish turns a rendered page into routed traffic.
//
// A publish uploads the artifact under a fresh version token, records the
// version as current in the page repository and then writes and verifies the
// route entry of every domain through the publish coordinator. A publish is only
// reported as successful once every domain observably serves the new version.
//
// # HTTP Endpoints
//
//   - POST /pages : Registers a draft page, body {"slug": "acme", "domains": ["acme.io"]}.
//   - POST /publish/:slug : Publishes the raw request body as the page's new version.
package publish
