// Package sqlite provides the SQLite vocabulary. SQLite maps every declared
// type onto a storage affinity and supports only a narrow ALTER TABLE subset:
// no column modification and no constraint changes after creation.
package sqlite

import (
	"dbforge/internal/core"
	"dbforge/internal/dialect"
)

var actions = []core.ForeignKeyAction{
	core.ActionCascade,
	core.ActionRestrict,
	core.ActionSetNull,
	core.ActionSetDefault,
	core.ActionNoAction,
}

// Definition returns the SQLite dialect definition.
func Definition() dialect.Definition {
	return dialect.Definition{
		Dialect:    core.DialectSQLite,
		Identifier: dialect.QuotePair{Open: `"`, Close: `"`},
		Literal:    dialect.QuotePair{Open: "'", Close: "'"},
		Lexis: dialect.LexisTables{
			DataTypes: map[core.DataType]string{
				core.TypeTinyInteger:   "INTEGER",
				core.TypeSmallInteger:  "INTEGER",
				core.TypeMediumInteger: "INTEGER",
				core.TypeInteger:       "INTEGER",
				core.TypeBigInteger:    "INTEGER",
				core.TypeDecimal:       "NUMERIC({precision_and_scale})",
				core.TypeFloat:         "REAL",
				core.TypeDouble:        "REAL",
				core.TypeBoolean:       "BOOLEAN",
				core.TypeChar:          "CHAR({length})",
				core.TypeVarchar:       "VARCHAR({length})",
				core.TypeTinyText:      "TEXT",
				core.TypeText:          "TEXT",
				core.TypeMediumText:    "TEXT",
				core.TypeLongText:      "TEXT",
				core.TypeBinary:        "BLOB",
				core.TypeVarbinary:     "BLOB",
				core.TypeBlob:          "BLOB",
				core.TypeDate:          "DATE",
				core.TypeTime:          "TIME",
				core.TypeDateTime:      "DATETIME",
				core.TypeTimestamp:     "TIMESTAMP",
				core.TypeJSON:          "TEXT",
				core.TypeUUID:          "TEXT",
			},
			ColumnConstraints: map[core.ColumnConstraint]string{
				core.ConstraintCollation:     "COLLATE {value}",
				core.ConstraintNotNull:       "NOT NULL",
				core.ConstraintNullable:      "NULL",
				core.ConstraintDefault:       "DEFAULT {value}",
				core.ConstraintUnique:        "UNIQUE",
				core.ConstraintPrimaryKey:    "PRIMARY KEY",
				core.ConstraintAutoIncrement: "AUTOINCREMENT",
				core.ConstraintCheck:         "CHECK ({expression})",
			},
			TableConstraints: map[core.TableConstraint]string{
				core.TableConstraintPrimaryKey: "CONSTRAINT {name} PRIMARY KEY ({columns})",
				core.TableConstraintUnique:     "CONSTRAINT {name} UNIQUE ({columns})",
				core.TableConstraintForeignKey: "CONSTRAINT {name} FOREIGN KEY ({columns}) REFERENCES {referenced_table} ({referenced_columns}){on_delete_action}{on_update_action}",
				core.TableConstraintCheck:      "CONSTRAINT {name} CHECK ({expression})",
			},
			Indexes: map[core.IndexKind]string{
				core.IndexPlain:  "CREATE INDEX {name} ON {table} ({columns})",
				core.IndexUnique: "CREATE UNIQUE INDEX {name} ON {table} ({columns})",
			},
			AlterActions: map[core.AlterAction]string{
				core.AlterAddColumn:    "ALTER TABLE {table} ADD COLUMN {definition}",
				core.AlterRenameColumn: "ALTER TABLE {table} RENAME COLUMN {old_name} TO {new_name}",
				core.AlterDropColumn:   "ALTER TABLE {table} DROP COLUMN {column}",
				core.AlterRenameTable:  "ALTER TABLE {old_name} RENAME TO {new_name}",
				core.AlterDropIndex:    "DROP INDEX {name}",
			},
		},
		ForeignKeyActions: map[core.ForeignKeyEvent][]core.ForeignKeyAction{
			core.OnDelete: actions,
			core.OnUpdate: actions,
		},
		Capabilities: []core.Capability{
			core.CapabilityTransactionalDDL,
			core.CapabilityDropIfExists,
		},
		// AUTOINCREMENT is only legal directly after PRIMARY KEY.
		ConstraintRequires: map[core.ColumnConstraint]core.ColumnConstraint{
			core.ConstraintAutoIncrement: core.ConstraintPrimaryKey,
		},
		ConstraintOrder: []core.ColumnConstraint{
			core.ConstraintCollation,
			core.ConstraintNotNull,
			core.ConstraintNullable,
			core.ConstraintDefault,
			core.ConstraintUnique,
			core.ConstraintPrimaryKey,
			core.ConstraintAutoIncrement,
			core.ConstraintCheck,
		},
		Placeholder: core.PlaceholderQuestion,
		JSONPath:    core.JSONPathExtract,
		JSONExtract: "json_extract({column}, {path})",
		JSONSet:     "json_set({column}, {path}, {value})",
	}
}

// New builds the SQLite profile.
func New() (*dialect.Profile, error) {
	return dialect.NewProfile(Definition())
}
