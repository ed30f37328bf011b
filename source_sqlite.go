package main

import (
	"database/sql"
	"fmt"
	"net/url"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

type sqliteSourceDB struct{}

func (s *sqliteSourceDB) Name() string { return "SQLite" }

func (s *sqliteSourceDB) Open(cfg *Config) (*sql.DB, error) {
	uri, err := sqliteReadOnlyURI(cfg.SQLitePath)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", uri)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// sqliteReadOnlyURI turns a file path or file: URI into a read-only URI.
// The source is never written, so opening read-only keeps a misconfigured
// run from touching the file.
func sqliteReadOnlyURI(dsn string) (string, error) {
	if dsn == ":memory:" || dsn == "file::memory:" || strings.Contains(dsn, "mode=memory") {
		return "", fmt.Errorf("in-memory SQLite databases are not supported")
	}

	if !strings.HasPrefix(dsn, "file:") {
		return "file:" + dsn + "?mode=ro", nil
	}

	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("parse sqlite URI: %w", err)
	}
	q := u.Query()
	q.Set("mode", "ro")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (s *sqliteSourceDB) Columns(db *sql.DB, _, table string) ([]Column, error) {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", s.QuoteIdentifier(table)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []Column
	for rows.Next() {
		var cid, notnull, pk int
		var name, colType string
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &colType, &notnull, &dflt, &pk); err != nil {
			return nil, err
		}

		c := Column{
			Name:       name,
			DataType:   sqliteBaseType(colType),
			ColumnType: strings.ToLower(colType),
			Nullable:   notnull == 0,
			OrdinalPos: cid + 1,
		}
		if dflt.Valid {
			v := sqliteDefaultUnquote(dflt.String)
			c.Default = &v
		}
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("no columns found for %s", table)
	}
	return cols, nil
}

func (s *sqliteSourceDB) PrimaryKey(db *sql.DB, _, table string) ([]string, error) {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", s.QuoteIdentifier(table)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type pkCol struct {
		name string
		seq  int
	}
	var pkCols []pkCol
	for rows.Next() {
		var cid, notnull, pk int
		var name, colType string
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &colType, &notnull, &dflt, &pk); err != nil {
			return nil, err
		}
		if pk > 0 {
			pkCols = append(pkCols, pkCol{name: name, seq: pk})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// pk holds the 1-based position of the column within the key
	sort.Slice(pkCols, func(i, j int) bool { return pkCols[i].seq < pkCols[j].seq })
	names := make([]string, len(pkCols))
	for i, c := range pkCols {
		names[i] = c.name
	}
	return names, nil
}

// sqliteBaseType reduces a declared SQLite type to the type code the mapper
// keys on: lowercase, no parameters, first word only ("VARCHAR(30)" →
// "varchar", "DOUBLE PRECISION" → "double"). SQLite's flexible typing means
// anything unrecognized simply rides the mapper's fail-open text arm.
func sqliteBaseType(declared string) string {
	dt := strings.ToLower(strings.TrimSpace(declared))
	if i := strings.IndexByte(dt, '('); i >= 0 {
		dt = dt[:i]
	}
	fields := strings.Fields(dt)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// sqliteDefaultUnquote strips the single quotes PRAGMA table_info keeps
// around string defaults, so defaults reach the mapper in literal form like
// MySQL's catalog delivers them.
func sqliteDefaultUnquote(v string) string {
	if len(v) >= 2 && v[0] == '\'' && v[len(v)-1] == '\'' {
		inner := v[1 : len(v)-1]
		return strings.ReplaceAll(inner, "''", "'")
	}
	return v
}

func (s *sqliteSourceDB) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (s *sqliteSourceDB) QualifiedTable(_, table string) string {
	return s.QuoteIdentifier(table)
}
