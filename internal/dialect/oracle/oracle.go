// Package oracle provides the Oracle Database vocabulary.
package oracle

import (
	"dbforge/internal/core"
	"dbforge/internal/dialect"
)

// Definition returns the Oracle dialect definition.
//
// Oracle has no unsigned integers, no ON UPDATE referential actions and no
// DROP TABLE IF EXISTS before 23ai. Inline column clauses follow the order
// VISIBLE/INVISIBLE, DEFAULT or identity, then constraints.
func Definition() dialect.Definition {
	return dialect.Definition{
		Dialect:    core.DialectOracle,
		Identifier: dialect.QuotePair{Open: `"`, Close: `"`},
		Literal:    dialect.QuotePair{Open: "'", Close: "'"},
		Lexis: dialect.LexisTables{
			DataTypes: map[core.DataType]string{
				core.TypeTinyInteger:   "NUMBER(3)",
				core.TypeSmallInteger:  "NUMBER(5)",
				core.TypeMediumInteger: "NUMBER(7)",
				core.TypeInteger:       "NUMBER(10)",
				core.TypeBigInteger:    "NUMBER(19)",
				core.TypeDecimal:       "NUMBER({precision_and_scale})",
				core.TypeFloat:         "BINARY_FLOAT",
				core.TypeDouble:        "BINARY_DOUBLE",
				core.TypeBoolean:       "NUMBER(1)",
				core.TypeChar:          "CHAR({length})",
				core.TypeVarchar:       "VARCHAR2({length})",
				core.TypeTinyText:      "VARCHAR2(255)",
				core.TypeText:          "CLOB",
				core.TypeMediumText:    "CLOB",
				core.TypeLongText:      "CLOB",
				core.TypeBinary:        "RAW({length})",
				core.TypeVarbinary:     "RAW({length})",
				core.TypeBlob:          "BLOB",
				core.TypeDate:          "DATE",
				core.TypeDateTime:      "TIMESTAMP",
				core.TypeTimestamp:     "TIMESTAMP WITH TIME ZONE",
				core.TypeJSON:          "JSON",
				core.TypeUUID:          "RAW(16)",
				core.TypeGeometry:      "SDO_GEOMETRY",
				core.TypePoint:         "SDO_GEOMETRY",
				core.TypeLineString:    "SDO_GEOMETRY",
				core.TypePolygon:       "SDO_GEOMETRY",
			},
			ColumnConstraints: map[core.ColumnConstraint]string{
				core.ConstraintCollation:     "COLLATE {value}",
				core.ConstraintInvisible:     "INVISIBLE",
				core.ConstraintDefault:       "DEFAULT {value}",
				core.ConstraintAutoIncrement: "GENERATED BY DEFAULT AS IDENTITY",
				core.ConstraintNotNull:       "NOT NULL",
				core.ConstraintNullable:      "NULL",
				core.ConstraintUnique:        "UNIQUE",
				core.ConstraintPrimaryKey:    "PRIMARY KEY",
				core.ConstraintCheck:         "CHECK ({expression})",
			},
			TableConstraints: map[core.TableConstraint]string{
				core.TableConstraintPrimaryKey: "CONSTRAINT {name} PRIMARY KEY ({columns})",
				core.TableConstraintUnique:     "CONSTRAINT {name} UNIQUE ({columns})",
				core.TableConstraintForeignKey: "CONSTRAINT {name} FOREIGN KEY ({columns}) REFERENCES {referenced_table} ({referenced_columns}){on_delete_action}",
				core.TableConstraintCheck:      "CONSTRAINT {name} CHECK ({expression})",
			},
			Indexes: map[core.IndexKind]string{
				core.IndexPlain:    "CREATE INDEX {name} ON {table} ({columns})",
				core.IndexUnique:   "CREATE UNIQUE INDEX {name} ON {table} ({columns})",
				core.IndexFullText: "CREATE INDEX {name} ON {table} ({columns}) INDEXTYPE IS CTXSYS.CONTEXT",
				core.IndexSpatial:  "CREATE INDEX {name} ON {table} ({columns}) INDEXTYPE IS MDSYS.SPATIAL_INDEX",
			},
			AlterActions: map[core.AlterAction]string{
				core.AlterAddColumn:      "ALTER TABLE {table} ADD ({definition})",
				core.AlterModifyColumn:   "ALTER TABLE {table} MODIFY ({definition})",
				core.AlterRenameColumn:   "ALTER TABLE {table} RENAME COLUMN {old_name} TO {new_name}",
				core.AlterDropColumn:     "ALTER TABLE {table} DROP COLUMN {column}",
				core.AlterRenameTable:    "ALTER TABLE {old_name} RENAME TO {new_name}",
				core.AlterAddConstraint:  "ALTER TABLE {table} ADD {definition}",
				core.AlterDropConstraint: "ALTER TABLE {table} DROP CONSTRAINT {name}",
				core.AlterDropIndex:      "DROP INDEX {name}",
				core.AlterDropPrimaryKey: "ALTER TABLE {table} DROP PRIMARY KEY",
				core.AlterDropForeignKey: "ALTER TABLE {table} DROP CONSTRAINT {name}",
			},
		},
		ForeignKeyActions: map[core.ForeignKeyEvent][]core.ForeignKeyAction{
			core.OnDelete: {core.ActionCascade, core.ActionSetNull},
		},
		Capabilities: []core.Capability{core.CapabilityNullsOrdering},
		ConstraintOrder: []core.ColumnConstraint{
			core.ConstraintCollation,
			core.ConstraintInvisible,
			core.ConstraintDefault,
			core.ConstraintAutoIncrement,
			core.ConstraintNotNull,
			core.ConstraintNullable,
			core.ConstraintUnique,
			core.ConstraintPrimaryKey,
			core.ConstraintCheck,
		},
		Placeholder: core.PlaceholderColon,
		JSONPath:    core.JSONPathExtract,
		JSONExtract: "JSON_VALUE({column}, {path})",
		JSONSet:     "JSON_TRANSFORM({column}, SET {path} = {value})",
		FullText: map[core.FullTextModifier]string{
			core.FullTextNaturalLanguage: "CONTAINS({columns}, {value}) > 0",
		},
		BooleanLiterals: [2]string{"0", "1"},
	}
}

// New builds the Oracle profile.
func New() (*dialect.Profile, error) {
	return dialect.NewProfile(Definition())
}
