package main

import (
	"fmt"
	"strings"
)

// mapType translates a source column's native type descriptor into a
// PostgreSQL type. The switch is exhaustive over the recognized type codes;
// anything unrecognized deliberately falls through to text so that table
// creation never aborts on an unseen source type.
func mapType(dataType, columnType string) string {
	dt := strings.ToLower(dataType)
	ct := strings.ToLower(columnType)

	switch dt {
	case "int", "integer", "mediumint":
		return "integer"
	case "bigint":
		return "bigint"
	case "smallint":
		return "smallint"
	case "tinyint":
		// tinyint(1) is the MySQL boolean idiom; wider displays stay integral
		if strings.Contains(ct, "tinyint(1)") {
			return "boolean"
		}
		return "smallint"
	case "decimal", "numeric":
		if params, ok := typeParams(ct); ok && len(params) == 2 {
			return fmt.Sprintf("numeric(%s,%s)", params[0], params[1])
		}
		return "numeric"
	case "float":
		return "real"
	case "double":
		return "double precision"
	case "varchar", "char":
		if params, ok := typeParams(ct); ok && len(params) == 1 {
			return fmt.Sprintf("varchar(%s)", params[0])
		}
		return "text"
	case "text", "mediumtext", "longtext", "tinytext":
		return "text"
	case "datetime":
		return "timestamp"
	case "timestamp":
		return "timestamptz"
	case "date":
		return "date"
	case "time":
		return "time"
	case "json":
		return "jsonb"
	case "blob", "mediumblob", "longblob", "tinyblob", "binary", "varbinary":
		return "bytea"
	default:
		return "text"
	}
}

// typeParams extracts the parenthesized numeric arguments of a full type
// string, e.g. "decimal(10,2)" → ["10","2"]. It returns false when there are
// no parentheses or any argument is not a plain integer.
func typeParams(columnType string) ([]string, bool) {
	open := strings.IndexByte(columnType, '(')
	if open < 0 {
		return nil, false
	}
	end := strings.IndexByte(columnType[open:], ')')
	if end < 0 {
		return nil, false
	}

	inner := columnType[open+1 : open+end]
	parts := strings.Split(inner, ",")
	params := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || !isDigits(p) {
			return nil, false
		}
		params = append(params, p)
	}
	return params, true
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}

// mapDefault converts a source column default into a PG DEFAULT expression
// for the derived type. Defaults are only carried over when they convert to a
// literal compatible with that type (boolean, numeric, or text); everything
// else is omitted rather than guessed.
func mapDefault(raw, pgType string) (string, bool) {
	switch {
	case pgType == "boolean":
		switch raw {
		case "0", "false", "FALSE":
			return "false", true
		case "1", "true", "TRUE":
			return "true", true
		}
		return "", false

	case isNumericPGType(pgType):
		if isNumericLiteral(raw) {
			return raw, true
		}
		return "", false

	case pgType == "text" || strings.HasPrefix(pgType, "varchar"):
		return pgLiteral(raw), true
	}
	return "", false
}

func isNumericPGType(pgType string) bool {
	for _, prefix := range []string{"integer", "bigint", "smallint", "numeric", "real", "double"} {
		if strings.HasPrefix(pgType, prefix) {
			return true
		}
	}
	return false
}

// isNumericLiteral matches optionally signed integers and decimals, nothing else.
func isNumericLiteral(s string) bool {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	start := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == start {
		return false
	}
	if i == len(s) {
		return true
	}
	if s[i] != '.' {
		return false
	}
	i++
	start = i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return i == len(s) && i > start
}
