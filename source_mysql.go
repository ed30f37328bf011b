package main

import (
	"database/sql"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

type mysqlSourceDB struct{}

func (m *mysqlSourceDB) Name() string { return "MySQL" }

func (m *mysqlSourceDB) Open(cfg *Config) (*sql.DB, error) {
	db, err := sql.Open("mysql", mysqlDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	// One connection for the whole run; the loop is strictly sequential.
	db.SetMaxOpenConns(1)
	return db, nil
}

// mysqlDSN builds the driver DSN from the discrete connection fields.
func mysqlDSN(cfg *Config) string {
	mc := mysql.NewConfig()
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.MySQLHost, strconv.Itoa(cfg.MySQLPort))
	mc.User = cfg.MySQLUser
	mc.Passwd = cfg.MySQLPassword
	mc.DBName = cfg.MySQLDatabase
	mc.ParseTime = true
	mc.Loc = time.UTC
	return mc.FormatDSN()
}

func (m *mysqlSourceDB) Columns(db *sql.DB, database, table string) ([]Column, error) {
	rows, err := db.Query(
		`SELECT COLUMN_NAME, DATA_TYPE, COLUMN_TYPE, IS_NULLABLE, COLUMN_DEFAULT, ORDINAL_POSITION
		 FROM INFORMATION_SCHEMA.COLUMNS
		 WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ?
		 ORDER BY ORDINAL_POSITION`,
		database, table,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []Column
	for rows.Next() {
		var c Column
		var nullable string
		var dflt sql.NullString
		if err := rows.Scan(&c.Name, &c.DataType, &c.ColumnType, &nullable, &dflt, &c.OrdinalPos); err != nil {
			return nil, err
		}
		c.Nullable = nullable == "YES"
		if dflt.Valid {
			c.Default = &dflt.String
		}
		c.DataType = strings.ToLower(c.DataType)
		c.ColumnType = strings.ToLower(c.ColumnType)
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("no columns found for %s.%s", database, table)
	}
	return cols, nil
}

func (m *mysqlSourceDB) PrimaryKey(db *sql.DB, database, table string) ([]string, error) {
	rows, err := db.Query(
		`SELECT k.COLUMN_NAME
		 FROM INFORMATION_SCHEMA.TABLE_CONSTRAINTS t
		 JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE k
		   ON t.CONSTRAINT_NAME = k.CONSTRAINT_NAME
		  AND t.TABLE_SCHEMA = k.TABLE_SCHEMA
		  AND t.TABLE_NAME = k.TABLE_NAME
		 WHERE t.TABLE_SCHEMA = ? AND t.TABLE_NAME = ?
		   AND t.CONSTRAINT_TYPE = 'PRIMARY KEY'
		 ORDER BY k.ORDINAL_POSITION`,
		database, table,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pk []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		pk = append(pk, name)
	}
	return pk, rows.Err()
}

func (m *mysqlSourceDB) QuoteIdentifier(name string) string {
	return fmt.Sprintf("`%s`", strings.ReplaceAll(name, "`", "``"))
}

func (m *mysqlSourceDB) QualifiedTable(database, table string) string {
	return m.QuoteIdentifier(database) + "." + m.QuoteIdentifier(table)
}
