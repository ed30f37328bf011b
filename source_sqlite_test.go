package main

import (
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
)

func openSQLiteFixture(t *testing.T, ddl ...string) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open fixture: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	for _, stmt := range ddl {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("fixture DDL: %v", err)
		}
	}
	return db
}

func TestSQLiteColumns(t *testing.T) {
	db := openSQLiteFixture(t, `
		CREATE TABLE listings (
			id INTEGER NOT NULL,
			title VARCHAR(120),
			price DECIMAL(10,2) DEFAULT 0,
			city TEXT DEFAULT 'madrid',
			PRIMARY KEY (id)
		)`)

	s := &sqliteSourceDB{}
	cols, err := s.Columns(db, "", "listings")
	if err != nil {
		t.Fatalf("Columns() error: %v", err)
	}
	if len(cols) != 4 {
		t.Fatalf("got %d columns, want 4", len(cols))
	}

	id := cols[0]
	if id.Name != "id" || id.DataType != "integer" || id.Nullable {
		t.Errorf("id column = %+v", id)
	}
	title := cols[1]
	if title.DataType != "varchar" || title.ColumnType != "varchar(120)" || !title.Nullable {
		t.Errorf("title column = %+v", title)
	}
	price := cols[2]
	if price.DataType != "decimal" || price.Default == nil || *price.Default != "0" {
		t.Errorf("price column = %+v", price)
	}
	city := cols[3]
	if city.Default == nil || *city.Default != "madrid" {
		t.Errorf("city default = %v, want unquoted literal", city.Default)
	}

	// Ordinal positions follow declaration order
	for i, c := range cols {
		if c.OrdinalPos != i+1 {
			t.Errorf("OrdinalPos[%d] = %d", i, c.OrdinalPos)
		}
	}
}

func TestSQLiteColumns_MissingTable(t *testing.T) {
	db := openSQLiteFixture(t)
	s := &sqliteSourceDB{}
	if _, err := s.Columns(db, "", "ghost"); err == nil {
		t.Fatal("expected error for table with no columns")
	}
}

func TestSQLitePrimaryKey(t *testing.T) {
	db := openSQLiteFixture(t, `
		CREATE TABLE pairs (
			a INTEGER,
			b TEXT,
			v TEXT,
			PRIMARY KEY (b, a)
		)`)

	s := &sqliteSourceDB{}
	pk, err := s.PrimaryKey(db, "", "pairs")
	if err != nil {
		t.Fatalf("PrimaryKey() error: %v", err)
	}
	if len(pk) != 2 || pk[0] != "b" || pk[1] != "a" {
		t.Errorf("pk = %v, want [b a] in key order", pk)
	}
}

func TestSQLitePrimaryKey_None(t *testing.T) {
	db := openSQLiteFixture(t, `CREATE TABLE plain (v TEXT)`)
	s := &sqliteSourceDB{}
	pk, err := s.PrimaryKey(db, "", "plain")
	if err != nil {
		t.Fatalf("PrimaryKey() error: %v", err)
	}
	if len(pk) != 0 {
		t.Errorf("pk = %v, want empty", pk)
	}
}

func TestSQLiteBaseType(t *testing.T) {
	tests := []struct {
		declared string
		want     string
	}{
		{"INTEGER", "integer"},
		{"VARCHAR(30)", "varchar"},
		{"DECIMAL(10,2)", "decimal"},
		{"DOUBLE PRECISION", "double"},
		{"TEXT", "text"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := sqliteBaseType(tt.declared); got != tt.want {
			t.Errorf("sqliteBaseType(%q) = %q, want %q", tt.declared, got, tt.want)
		}
	}
}

func TestSQLiteDefaultUnquote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"'madrid'", "madrid"},
		{"'it''s'", "it's"},
		{"0", "0"},
		{"CURRENT_TIMESTAMP", "CURRENT_TIMESTAMP"},
	}
	for _, tt := range tests {
		if got := sqliteDefaultUnquote(tt.in); got != tt.want {
			t.Errorf("sqliteDefaultUnquote(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSQLiteReadOnlyURI(t *testing.T) {
	uri, err := sqliteReadOnlyURI("/data/export.db")
	if err != nil {
		t.Fatal(err)
	}
	if uri != "file:/data/export.db?mode=ro" {
		t.Errorf("uri = %q", uri)
	}

	uri, err = sqliteReadOnlyURI("file:/data/export.db?cache=shared")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(uri, "mode=ro") {
		t.Errorf("uri missing mode=ro: %q", uri)
	}

	if _, err := sqliteReadOnlyURI(":memory:"); err == nil {
		t.Fatal("expected error for in-memory database")
	}
}
