package db

import "context"

// SchemaInterface manages the database schema of tasklane.
type SchemaInterface interface {
	// Version returns the schema version stored in the database.
	//
	// When the database is empty, it returns 0.
	Version(ctx context.Context) (int, error)

	// Upgrade applies schema definitions newer than the current version.
	Upgrade(ctx context.Context) error
}
