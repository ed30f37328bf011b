package main

import (
	"database/sql"
	"fmt"
)

// SourceDB abstracts source database operations so the ingestion loop can
// support multiple source engines (MySQL, SQLite).
type SourceDB interface {
	// Name returns a human-readable name for the source ("MySQL", "SQLite").
	Name() string

	// Open opens a source connection using the engine-specific config fields.
	Open(cfg *Config) (*sql.DB, error)

	// Columns returns the table's columns ordered by ordinal position.
	// A table with no discoverable columns is an error.
	Columns(db *sql.DB, database, table string) ([]Column, error)

	// PrimaryKey returns the ordered primary-key column names (possibly empty).
	PrimaryKey(db *sql.DB, database, table string) ([]string, error)

	// QuoteIdentifier quotes a source identifier for use in queries.
	QuoteIdentifier(name string) string

	// QualifiedTable returns the engine-specific table reference used in
	// SELECT statements. SQLite ignores the database part (the file is the
	// database).
	QualifiedTable(database, table string) string
}

// newSourceDB returns a SourceDB implementation for the given source type.
func newSourceDB(sourceType string) (SourceDB, error) {
	switch sourceType {
	case "mysql":
		return &mysqlSourceDB{}, nil
	case "sqlite":
		return &sqliteSourceDB{}, nil
	default:
		return nil, fmt.Errorf("unsupported source type %q (must be mysql or sqlite)", sourceType)
	}
}
