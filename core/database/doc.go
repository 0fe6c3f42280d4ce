// Package database handles database connections.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) to properly configure
// MySQL connections based on the application's configuration.
//
// # Connect
//
// The Connect function establishes a connection to the database with pooled
// connections and DSN-level timeouts, and verifies it with a bounded ping.
// Schema migration lives with the models in feature/catalog/models, keeping
// this package agnostic of the catalog schema.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
package database
