// Package profiles assembles the built-in dialect profiles into a registry.
package profiles

import (
	"fmt"

	"dbforge/internal/dialect"
	"dbforge/internal/dialect/mariadb"
	"dbforge/internal/dialect/mysql"
	"dbforge/internal/dialect/oracle"
	"dbforge/internal/dialect/postgres"
	"dbforge/internal/dialect/sqlite"
	"dbforge/internal/dialect/sqlserver"
)

// Definitions returns the definitions of every built-in dialect.
func Definitions() []dialect.Definition {
	return []dialect.Definition{
		mysql.Definition(),
		mariadb.Definition(),
		postgres.Definition(),
		sqlserver.Definition(),
		oracle.Definition(),
		sqlite.Definition(),
	}
}

// NewRegistry validates and registers all built-in profiles.
func NewRegistry() (*dialect.Registry, error) {
	defs := Definitions()
	built := make([]*dialect.Profile, 0, len(defs))
	for _, def := range defs {
		p, err := dialect.NewProfile(def)
		if err != nil {
			return nil, fmt.Errorf("build %s profile: %w", def.Dialect, err)
		}
		built = append(built, p)
	}
	return dialect.NewRegistry(built...)
}

// MustRegistry is like NewRegistry but panics on error.
func MustRegistry() *dialect.Registry {
	r, err := NewRegistry()
	if err != nil {
		panic(err)
	}
	return r
}
