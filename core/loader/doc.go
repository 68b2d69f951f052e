// Package loader registers the HTTP features of the service.
//
// Every feature (publish, routes, integrity) implements Feature. The start
// command registers them on a Manager, which mounts the enabled ones on the
// Fiber app through LoadAll. A feature built without its collaborators reports
// itself disabled and is skipped.
package loader
