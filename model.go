package main

// Endpoint identifies one side of an ingestion spec. The control table stores
// it as a JSON object; both fields are required.
type Endpoint struct {
	Database string `json:"database"`
	Table    string `json:"table"`
}

// IngestionSpec is one configured source-table-to-target-table copy job,
// read from the control table. Specs are never mutated after loading.
type IngestionSpec struct {
	Name       string
	Active     bool
	Source     Endpoint
	Target     Endpoint
	SourceType string
	TargetType string
}

// Column represents a single column from the source catalog, ordered by
// ordinal position.
type Column struct {
	Name       string
	DataType   string // base type code, e.g. "tinyint", "varchar"
	ColumnType string // full type, e.g. "tinyint(1)", "decimal(10,2)"
	Nullable   bool
	Default    *string
	OrdinalPos int
}

// TargetTable describes the materialized target of one ingestion spec.
// Columns and SourceCols correspond position-for-position with the source
// column order fixed at introspection time; both the DDL and the loader rely
// on that ordering staying unchanged.
type TargetTable struct {
	Schema     string
	Table      string
	Columns    []string // normalized target column names
	SourceCols []string // original source column names, same order
}
