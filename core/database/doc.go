// Package database handles database connections and schema inspection.
//
// It provides a wrapper around GORM to configure the page database (the source of
// truth for published pages and their versions) from the application's configuration.
//
// # Connect
//
// Connect opens MySQL in production or SQLite for local runs and tests, applies pool
// settings and pings the server before returning.
//
// # Schema Inspection
//
// GetTableColumns reports the live column set of a table so the integrity feature can
// compare it with the page models.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "pages")
package database
