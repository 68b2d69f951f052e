// Package server holds the HTTP server configuration and constants.
//
// While the start command handles the server startup, this package defines the
// configuration structure and the helpers derived from it, such as the public test
// URL reported after a route repair.
package server
