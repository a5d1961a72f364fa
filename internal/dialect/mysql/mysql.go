// Package mysql provides the MySQL vocabulary: backtick identifiers,
// backslash-aware string literals and the MySQL 8 spelling of every data
// type, constraint, index and ALTER TABLE action.
package mysql

import (
	"dbforge/internal/core"
	"dbforge/internal/dialect"
)

// Definition returns a fresh copy of the MySQL dialect definition. Callers may
// modify the returned maps; package mariadb derives its vocabulary this way.
func Definition() dialect.Definition {
	return dialect.Definition{
		Dialect:         core.DialectMySQL,
		Identifier:      dialect.QuotePair{Open: "`", Close: "`"},
		Literal:         dialect.QuotePair{Open: "'", Close: "'"},
		EscapeBackslash: true,
		Lexis: dialect.LexisTables{
			DataTypes:         dataTypes(),
			ColumnConstraints: columnConstraints(),
			TableConstraints:  tableConstraints(),
			Indexes:           indexes(),
			AlterActions:      alterActions(),
		},
		ForeignKeyActions: map[core.ForeignKeyEvent][]core.ForeignKeyAction{
			core.OnDelete: {core.ActionCascade, core.ActionRestrict, core.ActionSetNull, core.ActionNoAction},
			core.OnUpdate: {core.ActionCascade, core.ActionRestrict, core.ActionSetNull, core.ActionNoAction},
		},
		Capabilities: []core.Capability{core.CapabilityDropIfExists},
		Placeholder:  core.PlaceholderQuestion,
		JSONPath:     core.JSONPathExtract,
		JSONExtract:  "JSON_EXTRACT({column}, {path})",
		JSONSet:      "JSON_SET({column}, {path}, {value})",
		FullText: map[core.FullTextModifier]string{
			core.FullTextNaturalLanguage: "MATCH ({columns}) AGAINST ({value} IN NATURAL LANGUAGE MODE)",
			core.FullTextBoolean:         "MATCH ({columns}) AGAINST ({value} IN BOOLEAN MODE)",
			core.FullTextQueryExpansion:  "MATCH ({columns}) AGAINST ({value} WITH QUERY EXPANSION)",
		},
	}
}

// New builds the MySQL profile.
func New() (*dialect.Profile, error) {
	return dialect.NewProfile(Definition())
}

func dataTypes() map[core.DataType]string {
	return map[core.DataType]string{
		core.TypeTinyInteger:   "TINYINT",
		core.TypeSmallInteger:  "SMALLINT",
		core.TypeMediumInteger: "MEDIUMINT",
		core.TypeInteger:       "INT",
		core.TypeBigInteger:    "BIGINT",
		core.TypeDecimal:       "DECIMAL({precision_and_scale})",
		core.TypeFloat:         "FLOAT",
		core.TypeDouble:        "DOUBLE",
		core.TypeBoolean:       "TINYINT(1)",
		core.TypeChar:          "CHAR({length})",
		core.TypeVarchar:       "VARCHAR({length})",
		core.TypeTinyText:      "TINYTEXT",
		core.TypeText:          "TEXT",
		core.TypeMediumText:    "MEDIUMTEXT",
		core.TypeLongText:      "LONGTEXT",
		core.TypeBinary:        "BINARY({length})",
		core.TypeVarbinary:     "VARBINARY({length})",
		core.TypeBlob:          "BLOB",
		core.TypeDate:          "DATE",
		core.TypeTime:          "TIME",
		core.TypeDateTime:      "DATETIME",
		core.TypeTimestamp:     "TIMESTAMP",
		core.TypeYear:          "YEAR",
		core.TypeJSON:          "JSON",
		core.TypeUUID:          "CHAR(36)",
		core.TypeEnum:          "ENUM({values})",
		core.TypeSet:           "SET({values})",
		core.TypeGeometry:      "GEOMETRY",
		core.TypePoint:         "POINT",
		core.TypeLineString:    "LINESTRING",
		core.TypePolygon:       "POLYGON",
	}
}

func columnConstraints() map[core.ColumnConstraint]string {
	return map[core.ColumnConstraint]string{
		core.ConstraintUnsigned:      "UNSIGNED",
		core.ConstraintCharset:       "CHARACTER SET {value}",
		core.ConstraintCollation:     "COLLATE {value}",
		core.ConstraintAutoIncrement: "AUTO_INCREMENT",
		core.ConstraintNotNull:       "NOT NULL",
		core.ConstraintNullable:      "NULL",
		core.ConstraintDefault:       "DEFAULT {value}",
		core.ConstraintUnique:        "UNIQUE",
		core.ConstraintPrimaryKey:    "PRIMARY KEY",
		core.ConstraintInvisible:     "INVISIBLE",
		core.ConstraintCheck:         "CHECK ({expression})",
		core.ConstraintComment:       "COMMENT {value}",
	}
}

func tableConstraints() map[core.TableConstraint]string {
	return map[core.TableConstraint]string{
		core.TableConstraintPrimaryKey: "CONSTRAINT {name} PRIMARY KEY ({columns})",
		core.TableConstraintUnique:     "CONSTRAINT {name} UNIQUE ({columns})",
		core.TableConstraintForeignKey: "CONSTRAINT {name} FOREIGN KEY ({columns}) REFERENCES {referenced_table} ({referenced_columns}){on_delete_action}{on_update_action}",
		core.TableConstraintCheck:      "CONSTRAINT {name} CHECK ({expression})",
	}
}

func indexes() map[core.IndexKind]string {
	return map[core.IndexKind]string{
		core.IndexPlain:    "CREATE INDEX {name} ON {table} ({columns})",
		core.IndexUnique:   "CREATE UNIQUE INDEX {name} ON {table} ({columns})",
		core.IndexFullText: "CREATE FULLTEXT INDEX {name} ON {table} ({columns})",
		core.IndexSpatial:  "CREATE SPATIAL INDEX {name} ON {table} ({columns})",
	}
}

func alterActions() map[core.AlterAction]string {
	return map[core.AlterAction]string{
		core.AlterAddColumn:      "ALTER TABLE {table} ADD COLUMN {definition}",
		core.AlterModifyColumn:   "ALTER TABLE {table} MODIFY COLUMN {definition}",
		core.AlterRenameColumn:   "ALTER TABLE {table} RENAME COLUMN {old_name} TO {new_name}",
		core.AlterDropColumn:     "ALTER TABLE {table} DROP COLUMN {column}",
		core.AlterRenameTable:    "RENAME TABLE {old_name} TO {new_name}",
		core.AlterAddConstraint:  "ALTER TABLE {table} ADD {definition}",
		core.AlterDropConstraint: "ALTER TABLE {table} DROP CONSTRAINT {name}",
		core.AlterDropIndex:      "DROP INDEX {name} ON {table}",
		core.AlterDropPrimaryKey: "ALTER TABLE {table} DROP PRIMARY KEY",
		core.AlterDropForeignKey: "ALTER TABLE {table} DROP FOREIGN KEY {name}",
	}
}
