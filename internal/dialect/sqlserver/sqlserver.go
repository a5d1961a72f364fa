// Package sqlserver provides the Microsoft SQL Server (T-SQL) vocabulary.
package sqlserver

import (
	"dbforge/internal/core"
	"dbforge/internal/dialect"
)

var actions = []core.ForeignKeyAction{
	core.ActionCascade,
	core.ActionSetNull,
	core.ActionSetDefault,
	core.ActionNoAction,
}

// Definition returns the SQL Server dialect definition.
//
// sp_rename takes its arguments as string literals, so column and table
// renames are not expressible through identifier placeholders and are left
// out of the vocabulary.
func Definition() dialect.Definition {
	return dialect.Definition{
		Dialect:    core.DialectSQLServer,
		Identifier: dialect.QuotePair{Open: "[", Close: "]"},
		Literal:    dialect.QuotePair{Open: "N'", Close: "'"},
		Lexis: dialect.LexisTables{
			DataTypes: map[core.DataType]string{
				core.TypeTinyInteger:   "TINYINT",
				core.TypeSmallInteger:  "SMALLINT",
				core.TypeMediumInteger: "INT",
				core.TypeInteger:       "INT",
				core.TypeBigInteger:    "BIGINT",
				core.TypeDecimal:       "DECIMAL({precision_and_scale})",
				core.TypeFloat:         "REAL",
				core.TypeDouble:        "FLOAT",
				core.TypeBoolean:       "BIT",
				core.TypeChar:          "NCHAR({length})",
				core.TypeVarchar:       "NVARCHAR({length})",
				core.TypeTinyText:      "NVARCHAR(255)",
				core.TypeText:          "NVARCHAR(MAX)",
				core.TypeMediumText:    "NVARCHAR(MAX)",
				core.TypeLongText:      "NVARCHAR(MAX)",
				core.TypeBinary:        "BINARY({length})",
				core.TypeVarbinary:     "VARBINARY({length})",
				core.TypeBlob:          "VARBINARY(MAX)",
				core.TypeDate:          "DATE",
				core.TypeTime:          "TIME",
				core.TypeDateTime:      "DATETIME2",
				core.TypeTimestamp:     "DATETIMEOFFSET",
				core.TypeJSON:          "NVARCHAR(MAX)",
				core.TypeUUID:          "UNIQUEIDENTIFIER",
				core.TypeGeometry:      "GEOMETRY",
				core.TypePoint:         "GEOMETRY",
				core.TypeLineString:    "GEOMETRY",
				core.TypePolygon:       "GEOMETRY",
			},
			ColumnConstraints: map[core.ColumnConstraint]string{
				core.ConstraintCollation:     "COLLATE {value}",
				core.ConstraintAutoIncrement: "IDENTITY(1,1)",
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
				core.IndexPlain:   "CREATE INDEX {name} ON {table} ({columns})",
				core.IndexUnique:  "CREATE UNIQUE INDEX {name} ON {table} ({columns})",
				core.IndexSpatial: "CREATE SPATIAL INDEX {name} ON {table} ({columns})",
			},
			AlterActions: map[core.AlterAction]string{
				core.AlterAddColumn:      "ALTER TABLE {table} ADD {definition}",
				core.AlterModifyColumn:   "ALTER TABLE {table} ALTER COLUMN {definition}",
				core.AlterDropColumn:     "ALTER TABLE {table} DROP COLUMN {column}",
				core.AlterAddConstraint:  "ALTER TABLE {table} ADD {definition}",
				core.AlterDropConstraint: "ALTER TABLE {table} DROP CONSTRAINT {name}",
				core.AlterDropIndex:      "DROP INDEX {name} ON {table}",
				core.AlterDropPrimaryKey: "ALTER TABLE {table} DROP CONSTRAINT {name}",
				core.AlterDropForeignKey: "ALTER TABLE {table} DROP CONSTRAINT {name}",
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
		// ALTER COLUMN accepts only the type, collation and nullability.
		ModifyConstraints: []core.ColumnConstraint{
			core.ConstraintCollation,
			core.ConstraintNotNull,
			core.ConstraintNullable,
		},
		Placeholder: core.PlaceholderAtP,
		JSONPath:    core.JSONPathExtract,
		JSONExtract: "JSON_VALUE({column}, {path})",
		JSONSet:     "JSON_MODIFY({column}, {path}, {value})",
		FullText: map[core.FullTextModifier]string{
			core.FullTextNaturalLanguage: "FREETEXT(({columns}), {value})",
			core.FullTextBoolean:         "CONTAINS(({columns}), {value})",
		},
		BooleanLiterals: [2]string{"0", "1"},
	}
}

// New builds the SQL Server profile.
func New() (*dialect.Profile, error) {
	return dialect.NewProfile(Definition())
}
