// Package routes exposes the consistency inspector to operators.
//
// # HTTP Endpoints
//
//   - GET /routes/consistency?slug=acme&action=check : Diagnoses the primary route of a page.
//   - GET /routes/consistency?slug=acme&action=fix : Republishes the current version and verifies it.
//   - POST /routes/consistency : Same as above with a JSON body {"slug": "acme", "action": "fix"}.
//   - GET /routes/reconcile : Diagnoses every route of every published page (supports ?fix=true).
//
// Errors map to 400 for bad input, 404 for an unknown page, 409 for a page that
// was never completely published and 502 when a repair did not converge.
package routes
