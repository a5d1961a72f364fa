// Package core contains the vocabulary shared by every part of dbforge: the closed
// set of dialect tags, the abstract feature keys that dialect lexes map to SQL
// templates, and the error kinds raised when a request cannot be expressed in
// the chosen dialect.
package core

import (
	"fmt"
	"strings"
)

// Dialect identifies a supported SQL dialect.
type Dialect string

const (
	DialectMySQL      Dialect = "mysql"
	DialectMariaDB    Dialect = "mariadb"
	DialectPostgreSQL Dialect = "postgresql"
	DialectSQLServer  Dialect = "sqlserver"
	DialectOracle     Dialect = "oracle"
	DialectSQLite     Dialect = "sqlite"
)

// SupportedDialects returns a slice of all supported dialect values.
func SupportedDialects() []Dialect {
	return []Dialect{
		DialectMySQL,
		DialectMariaDB,
		DialectPostgreSQL,
		DialectSQLServer,
		DialectOracle,
		DialectSQLite,
	}
}

var dialectAliases = map[string]Dialect{
	"postgres": DialectPostgreSQL,
	"pgsql":    DialectPostgreSQL,
	"mssql":    DialectSQLServer,
	"sqlsrv":   DialectSQLServer,
	"sqlite3":  DialectSQLite,
}

// IsValidDialect reports whether d is a recognized dialect string.
func IsValidDialect(d string) bool {
	_, err := ParseDialect(d)
	return err == nil
}

// ParseDialect resolves a user supplied dialect name (case-insensitive, common
// aliases accepted) to its tag.
func ParseDialect(name string) (Dialect, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, supported := range SupportedDialects() {
		if string(supported) == n {
			return supported, nil
		}
	}
	if d, ok := dialectAliases[n]; ok {
		return d, nil
	}
	return "", fmt.Errorf("unknown dialect %q", name)
}

// Capability is an optional dialect feature that is not expressed as a lexis
// template but changes how clauses are assembled.
type Capability string

const (
	// CapabilityNullsOrdering allows NULLS FIRST / NULLS LAST sort modifiers.
	CapabilityNullsOrdering Capability = "nulls_ordering"
	// CapabilitySeparateColumnAlters means a column modification cannot restate
	// the whole definition, so nullability and default are altered separately.
	CapabilitySeparateColumnAlters Capability = "separate_column_alters"
	// CapabilityTransactionalDDL means DDL statements can run inside a transaction.
	CapabilityTransactionalDDL Capability = "transactional_ddl"
	// CapabilityDropIfExists allows DROP TABLE IF EXISTS.
	CapabilityDropIfExists Capability = "drop_if_exists"
)

// PlaceholderStyle selects how bound values are referenced in rendered SQL.
type PlaceholderStyle string

const (
	PlaceholderQuestion PlaceholderStyle = "?"   // MySQL, MariaDB, SQLite
	PlaceholderDollar   PlaceholderStyle = "$n"  // PostgreSQL
	PlaceholderAtP      PlaceholderStyle = "@pn" // SQL Server
	PlaceholderColon    PlaceholderStyle = ":n"  // Oracle
)

// Placeholder returns the bind marker for the n-th (1-based) value.
func (s PlaceholderStyle) Placeholder(n int) string {
	switch s {
	case PlaceholderDollar:
		return fmt.Sprintf("$%d", n)
	case PlaceholderAtP:
		return fmt.Sprintf("@p%d", n)
	case PlaceholderColon:
		return fmt.Sprintf(":%d", n)
	default:
		return "?"
	}
}

// JSONPathStyle selects how a `column->a->b` reference is rendered.
type JSONPathStyle string

const (
	// JSONPathArrow re-joins segments with native arrow operators (PostgreSQL).
	JSONPathArrow JSONPathStyle = "arrow"
	// JSONPathExtract passes a `$."a"."b"` path to an extraction function.
	JSONPathExtract JSONPathStyle = "extract"
)
