// Package postgres provides the PostgreSQL vocabulary.
//
// PostgreSQL differs from the MySQL family in three places the engine cares
// about: json paths use native arrow operators, column modifications cannot
// restate a full definition, and sort keys accept NULLS FIRST / NULLS LAST.
package postgres

import (
	"dbforge/internal/core"
	"dbforge/internal/dialect"
)

var allActions = []core.ForeignKeyAction{
	core.ActionCascade,
	core.ActionRestrict,
	core.ActionSetNull,
	core.ActionSetDefault,
	core.ActionNoAction,
}

// Definition returns the PostgreSQL dialect definition.
func Definition() dialect.Definition {
	return dialect.Definition{
		Dialect:    core.DialectPostgreSQL,
		Identifier: dialect.QuotePair{Open: `"`, Close: `"`},
		Literal:    dialect.QuotePair{Open: "'", Close: "'"},
		Lexis: dialect.LexisTables{
			DataTypes: map[core.DataType]string{
				core.TypeTinyInteger:   "SMALLINT",
				core.TypeSmallInteger:  "SMALLINT",
				core.TypeMediumInteger: "INTEGER",
				core.TypeInteger:       "INTEGER",
				core.TypeBigInteger:    "BIGINT",
				core.TypeDecimal:       "NUMERIC({precision_and_scale})",
				core.TypeFloat:         "REAL",
				core.TypeDouble:        "DOUBLE PRECISION",
				core.TypeBoolean:       "BOOLEAN",
				core.TypeChar:          "CHAR({length})",
				core.TypeVarchar:       "VARCHAR({length})",
				core.TypeTinyText:      "TEXT",
				core.TypeText:          "TEXT",
				core.TypeMediumText:    "TEXT",
				core.TypeLongText:      "TEXT",
				core.TypeBinary:        "BYTEA",
				core.TypeVarbinary:     "BYTEA",
				core.TypeBlob:          "BYTEA",
				core.TypeDate:          "DATE",
				core.TypeTime:          "TIME",
				core.TypeDateTime:      "TIMESTAMP",
				core.TypeTimestamp:     "TIMESTAMPTZ",
				core.TypeJSON:          "JSON",
				core.TypeJSONB:         "JSONB",
				core.TypeUUID:          "UUID",
				core.TypeGeometry:      "GEOMETRY",
				core.TypePoint:         "POINT",
				core.TypePolygon:       "POLYGON",
			},
			ColumnConstraints: map[core.ColumnConstraint]string{
				core.ConstraintCollation:     "COLLATE {value}",
				core.ConstraintAutoIncrement: "GENERATED BY DEFAULT AS IDENTITY",
				core.ConstraintNotNull:       "NOT NULL",
				core.ConstraintNullable:      "NULL",
				core.ConstraintDefault:       "DEFAULT {value}",
				core.ConstraintUnique:        "UNIQUE",
				core.ConstraintPrimaryKey:    "PRIMARY KEY",
				core.ConstraintCheck:         "CHECK ({expression})",
			},
			TableConstraints: map[core.TableConstraint]string{
				core.TableConstraintPrimaryKey: "CONSTRAINT {name} PRIMARY KEY ({columns})",
				core.TableConstraintUnique:     "CONSTRAINT {name} UNIQUE ({columns})",
				core.TableConstraintForeignKey: "CONSTRAINT {name} FOREIGN KEY ({columns}) REFERENCES {referenced_table} ({referenced_columns}){on_delete_action}{on_update_action}",
				core.TableConstraintCheck:      "CONSTRAINT {name} CHECK ({expression})",
			},
			Indexes: map[core.IndexKind]string{
				core.IndexPlain:    "CREATE INDEX {name} ON {table} ({columns})",
				core.IndexUnique:   "CREATE UNIQUE INDEX {name} ON {table} ({columns})",
				core.IndexFullText: "CREATE INDEX {name} ON {table} USING GIN (to_tsvector('english', {columns}))",
				core.IndexSpatial:  "CREATE INDEX {name} ON {table} USING GIST ({columns})",
			},
			AlterActions: map[core.AlterAction]string{
				core.AlterAddColumn:      "ALTER TABLE {table} ADD COLUMN {definition}",
				core.AlterModifyColumn:   "ALTER TABLE {table} ALTER COLUMN {column} TYPE {type}",
				core.AlterRenameColumn:   "ALTER TABLE {table} RENAME COLUMN {old_name} TO {new_name}",
				core.AlterDropColumn:     "ALTER TABLE {table} DROP COLUMN {column}",
				core.AlterRenameTable:    "ALTER TABLE {old_name} RENAME TO {new_name}",
				core.AlterAddConstraint:  "ALTER TABLE {table} ADD {definition}",
				core.AlterDropConstraint: "ALTER TABLE {table} DROP CONSTRAINT {name}",
				core.AlterDropIndex:      "DROP INDEX {name}",
				core.AlterDropPrimaryKey: "ALTER TABLE {table} DROP CONSTRAINT {name}",
				core.AlterDropForeignKey: "ALTER TABLE {table} DROP CONSTRAINT {name}",
				core.AlterSetNotNull:     "ALTER TABLE {table} ALTER COLUMN {column} SET NOT NULL",
				core.AlterDropNotNull:    "ALTER TABLE {table} ALTER COLUMN {column} DROP NOT NULL",
				core.AlterSetDefault:     "ALTER TABLE {table} ALTER COLUMN {column} SET DEFAULT {value}",
			},
		},
		ForeignKeyActions: map[core.ForeignKeyEvent][]core.ForeignKeyAction{
			core.OnDelete: allActions,
			core.OnUpdate: allActions,
		},
		Capabilities: []core.Capability{
			core.CapabilityNullsOrdering,
			core.CapabilitySeparateColumnAlters,
			core.CapabilityTransactionalDDL,
			core.CapabilityDropIfExists,
		},
		Placeholder: core.PlaceholderDollar,
		JSONPath:    core.JSONPathArrow,
		JSONSet:     "jsonb_set({column}, {path}, {value})",
		FullText: map[core.FullTextModifier]string{
			core.FullTextNaturalLanguage: "to_tsvector('english', {columns}) @@ plainto_tsquery('english', {value})",
			core.FullTextBoolean:         "to_tsvector('english', {columns}) @@ to_tsquery('english', {value})",
			core.FullTextWebSearch:       "to_tsvector('english', {columns}) @@ websearch_to_tsquery('english', {value})",
		},
		FullTextSeparator: " || ' ' || ",
	}
}

// New builds the PostgreSQL profile.
func New() (*dialect.Profile, error) {
	return dialect.NewProfile(Definition())
}
