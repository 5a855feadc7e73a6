// Package database handles database connections and schema inspection.
//
// It wraps GORM and opens either MySQL or SQLite depending on the configured
// driver. SQLite is meant for local runs and tests.
//
// # Schema Inspection
//
// TableColumns reads the live columns of a table and CheckSchema compares
// them against GORM models, reporting missing tables and columns. The
// integrity feature and the db check command build on it.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	drifts, err := database.CheckSchema(db, models.All()...)
package database
