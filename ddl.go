package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// pgExecutor is the subset of pgxpool.Pool used for DDL and maintenance
// statements.
type pgExecutor interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// ensureTable normalizes the target identifiers, then creates the schema and
// table if they do not exist. Both statements are IF NOT EXISTS: a second run
// against a correct target is a no-op, and a pre-existing table with a
// different shape is accepted as-is — differences are never reconciled, which
// avoids destructive migrations.
func ensureTable(ctx context.Context, exec pgExecutor, schemaName, tableName string, cols []Column, pk []string) (TargetTable, error) {
	target, ddl := buildCreateTable(schemaName, tableName, cols, pk)

	if _, err := exec.Exec(ctx, fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", pgIdent(target.Schema))); err != nil {
		return TargetTable{}, fmt.Errorf("create schema %s: %w", target.Schema, err)
	}
	if _, err := exec.Exec(ctx, ddl); err != nil {
		return TargetTable{}, fmt.Errorf("create table %s.%s: %w\nDDL: %s", target.Schema, target.Table, err, ddl)
	}
	return target, nil
}

// buildCreateTable derives the normalized target definition and its CREATE
// TABLE statement from the introspected source columns. The column order of
// the result is the source ordinal order and must be reused unchanged by the
// loader.
func buildCreateTable(schemaName, tableName string, cols []Column, pk []string) (TargetTable, string) {
	schemaNorm := normalizeIdent(schemaName)
	tableNorm := normalizeIdent(tableName)

	srcNames := make([]string, len(cols))
	normed := make([]string, len(cols))
	for i, c := range cols {
		srcNames[i] = c.Name
		normed[i] = normalizeIdent(c.Name)
	}
	pgNames := dedupeIdents(normed)

	nameMap := make(map[string]string, len(cols))
	for i, src := range srcNames {
		if _, ok := nameMap[src]; !ok {
			nameMap[src] = pgNames[i]
		}
	}
	var pkNorm []string
	for _, k := range pk {
		if n, ok := nameMap[k]; ok {
			pkNorm = append(pkNorm, n)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s.%s (", pgIdent(schemaNorm), pgIdent(tableNorm))
	for i, c := range cols {
		if i > 0 {
			b.WriteString(", ")
		}
		pgType := mapType(c.DataType, c.ColumnType)
		fmt.Fprintf(&b, "%s %s", pgIdent(pgNames[i]), pgType)

		if c.Default != nil {
			if lit, ok := mapDefault(*c.Default, pgType); ok {
				fmt.Fprintf(&b, " DEFAULT %s", lit)
			}
		}
		if !c.Nullable {
			b.WriteString(" NOT NULL")
		}
	}
	if len(pkNorm) > 0 {
		b.WriteString(", PRIMARY KEY (")
		for i, k := range pkNorm {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(pgIdent(k))
		}
		b.WriteString(")")
	}
	b.WriteString(")")

	return TargetTable{
		Schema:     schemaNorm,
		Table:      tableNorm,
		Columns:    pgNames,
		SourceCols: srcNames,
	}, b.String()
}
