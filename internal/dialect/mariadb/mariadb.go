// Package mariadb derives the MariaDB vocabulary from MySQL's. The two share
// quoting, constraints and index syntax; MariaDB adds a native UUID type and
// IF EXISTS guards on its drop statements.
package mariadb

import (
	"dbforge/internal/core"
	"dbforge/internal/dialect"
	"dbforge/internal/dialect/mysql"
)

// Definition returns the MariaDB dialect definition.
func Definition() dialect.Definition {
	def := mysql.Definition()
	def.Dialect = core.DialectMariaDB

	def.Lexis.DataTypes[core.TypeUUID] = "UUID"
	def.Lexis.AlterActions[core.AlterDropConstraint] = "ALTER TABLE {table} DROP CONSTRAINT IF EXISTS {name}"
	def.Lexis.AlterActions[core.AlterDropIndex] = "DROP INDEX IF EXISTS {name} ON {table}"
	def.Lexis.AlterActions[core.AlterDropForeignKey] = "ALTER TABLE {table} DROP FOREIGN KEY IF EXISTS {name}"
	return def
}

// New builds the MariaDB profile.
func New() (*dialect.Profile, error) {
	return dialect.NewProfile(Definition())
}
