// Package config provides configuration management for the route publisher.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file. Defaults come from the `default` struct tags of each
// partial configuration.
//
// # Configuration Structure
//
//   - Server: HTTP server settings (port, API key, public scheme)
//   - Database: page database connection (MySQL, or SQLite for local runs)
//   - Storage: S3/MinIO credentials for the rendered page artifacts
//   - Cache: routing key-value store (Redis, or in-memory for local runs)
//   - Publish: retry policy, route TTL and the base domain for page hosts
//   - Log: Logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config
