// Package middleware groups the Fiber middleware installed in front of every feature.
//
//   - auth: rejects requests lacking the configured X-API-Key. Paths listed in
//     Config.Skip, such as the metrics endpoint, stay public.
//   - rayid: tags each request with a RayID that handlers add to their log lines
//     through logger.WithRayID.
package middleware
