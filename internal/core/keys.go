package core

import "strings"

// TableKind names one of the five lexis tables.
type TableKind string

const (
	TableDataType         TableKind = "data type"
	TableColumnConstraint TableKind = "column constraint"
	TableTableConstraint  TableKind = "table constraint"
	TableIndex            TableKind = "index"
	TableAlterAction      TableKind = "alter action"
)

// DataType is an abstract column data type.
type DataType string

const (
	TypeTinyInteger   DataType = "tinyint"
	TypeSmallInteger  DataType = "smallint"
	TypeMediumInteger DataType = "mediumint"
	TypeInteger       DataType = "integer"
	TypeBigInteger    DataType = "bigint"
	TypeDecimal       DataType = "decimal"
	TypeFloat         DataType = "float"
	TypeDouble        DataType = "double"
	TypeBoolean       DataType = "boolean"
	TypeChar          DataType = "char"
	TypeVarchar       DataType = "varchar"
	TypeTinyText      DataType = "tinytext"
	TypeText          DataType = "text"
	TypeMediumText    DataType = "mediumtext"
	TypeLongText      DataType = "longtext"
	TypeBinary        DataType = "binary"
	TypeVarbinary     DataType = "varbinary"
	TypeBlob          DataType = "blob"
	TypeDate          DataType = "date"
	TypeTime          DataType = "time"
	TypeDateTime      DataType = "datetime"
	TypeTimestamp     DataType = "timestamp"
	TypeYear          DataType = "year"
	TypeJSON          DataType = "json"
	TypeJSONB         DataType = "jsonb"
	TypeUUID          DataType = "uuid"
	TypeEnum          DataType = "enum"
	TypeSet           DataType = "set"
	TypeGeometry      DataType = "geometry"
	TypePoint         DataType = "point"
	TypeLineString    DataType = "linestring"
	TypePolygon       DataType = "polygon"
)

// DataTypes lists every abstract data type in declaration order.
func DataTypes() []DataType {
	return []DataType{
		TypeTinyInteger, TypeSmallInteger, TypeMediumInteger, TypeInteger, TypeBigInteger,
		TypeDecimal, TypeFloat, TypeDouble, TypeBoolean,
		TypeChar, TypeVarchar, TypeTinyText, TypeText, TypeMediumText, TypeLongText,
		TypeBinary, TypeVarbinary, TypeBlob,
		TypeDate, TypeTime, TypeDateTime, TypeTimestamp, TypeYear,
		TypeJSON, TypeJSONB, TypeUUID, TypeEnum, TypeSet,
		TypeGeometry, TypePoint, TypeLineString, TypePolygon,
	}
}

// ParseDataType maps a case-insensitive name to its DataType.
func ParseDataType(name string) (DataType, bool) {
	n := DataType(strings.ToLower(strings.TrimSpace(name)))
	switch n {
	case "int":
		return TypeInteger, true
	case "string":
		return TypeVarchar, true
	case "bool":
		return TypeBoolean, true
	}
	for _, t := range DataTypes() {
		if t == n {
			return t, true
		}
	}
	return "", false
}

// IsNumeric reports whether the type accepts numeric flags such as UNSIGNED.
func (t DataType) IsNumeric() bool {
	switch t {
	case TypeTinyInteger, TypeSmallInteger, TypeMediumInteger, TypeInteger, TypeBigInteger,
		TypeDecimal, TypeFloat, TypeDouble:
		return true
	default:
		return false
	}
}

// ColumnConstraint is an abstract per-column constraint or attribute.
type ColumnConstraint string

const (
	ConstraintUnsigned      ColumnConstraint = "unsigned"
	ConstraintCharset       ColumnConstraint = "charset"
	ConstraintCollation     ColumnConstraint = "collation"
	ConstraintAutoIncrement ColumnConstraint = "autoincrement"
	ConstraintNotNull       ColumnConstraint = "not_null"
	ConstraintNullable      ColumnConstraint = "nullable"
	ConstraintDefault       ColumnConstraint = "default"
	ConstraintUnique        ColumnConstraint = "unique"
	ConstraintPrimaryKey    ColumnConstraint = "primary_key"
	ConstraintInvisible     ColumnConstraint = "invisible"
	ConstraintCheck         ColumnConstraint = "check"
	ConstraintComment       ColumnConstraint = "comment"
)

// DefaultConstraintOrder is the render order shared by most dialects: type
// affecting attributes first, then nullability, default and keys.
func DefaultConstraintOrder() []ColumnConstraint {
	return []ColumnConstraint{
		ConstraintUnsigned,
		ConstraintCharset,
		ConstraintCollation,
		ConstraintAutoIncrement,
		ConstraintNotNull,
		ConstraintNullable,
		ConstraintDefault,
		ConstraintUnique,
		ConstraintPrimaryKey,
		ConstraintInvisible,
		ConstraintCheck,
		ConstraintComment,
	}
}

// exclusiveConstraints pairs constraints that overwrite each other.
var exclusiveConstraints = map[ColumnConstraint]ColumnConstraint{
	ConstraintNotNull:  ConstraintNullable,
	ConstraintNullable: ConstraintNotNull,
}

// Excludes returns the constraint that c replaces when bound, if any.
func (c ColumnConstraint) Excludes() (ColumnConstraint, bool) {
	other, ok := exclusiveConstraints[c]
	return other, ok
}

// TableConstraint is an abstract table-level constraint.
type TableConstraint string

const (
	TableConstraintPrimaryKey TableConstraint = "primary_key"
	TableConstraintUnique     TableConstraint = "unique"
	TableConstraintForeignKey TableConstraint = "foreign_key"
	TableConstraintCheck      TableConstraint = "check"
)

// IndexKind is an abstract index kind.
type IndexKind string

const (
	IndexPlain    IndexKind = "index"
	IndexUnique   IndexKind = "unique"
	IndexFullText IndexKind = "fulltext"
	IndexSpatial  IndexKind = "spatial"
)

// ParseIndexKind maps a case-insensitive name to its IndexKind.
func ParseIndexKind(name string) (IndexKind, bool) {
	switch IndexKind(strings.ToLower(strings.TrimSpace(name))) {
	case "", IndexPlain:
		return IndexPlain, true
	case IndexUnique:
		return IndexUnique, true
	case IndexFullText, "full_text":
		return IndexFullText, true
	case IndexSpatial:
		return IndexSpatial, true
	default:
		return "", false
	}
}

// AlterAction is an abstract ALTER TABLE (or related) action.
type AlterAction string

const (
	AlterAddColumn      AlterAction = "add_column"
	AlterModifyColumn   AlterAction = "modify_column"
	AlterRenameColumn   AlterAction = "rename_column"
	AlterDropColumn     AlterAction = "drop_column"
	AlterRenameTable    AlterAction = "rename_table"
	AlterAddConstraint  AlterAction = "add_constraint"
	AlterDropConstraint AlterAction = "drop_constraint"
	AlterDropIndex      AlterAction = "drop_index"
	AlterDropPrimaryKey AlterAction = "drop_primary_key"
	AlterDropForeignKey AlterAction = "drop_foreign_key"
	AlterSetNotNull     AlterAction = "set_not_null"
	AlterDropNotNull    AlterAction = "drop_not_null"
	AlterSetDefault     AlterAction = "set_default"
)

// ForeignKeyEvent is the event a referential action is attached to.
type ForeignKeyEvent string

const (
	OnDelete ForeignKeyEvent = "on delete"
	OnUpdate ForeignKeyEvent = "on update"
)

// ForeignKeyAction is a referential action.
type ForeignKeyAction string

const (
	ActionCascade    ForeignKeyAction = "CASCADE"
	ActionRestrict   ForeignKeyAction = "RESTRICT"
	ActionSetNull    ForeignKeyAction = "SET NULL"
	ActionSetDefault ForeignKeyAction = "SET DEFAULT"
	ActionNoAction   ForeignKeyAction = "NO ACTION"
)

// ParseForeignKeyAction normalizes user input like "set_null" or "cascade".
func ParseForeignKeyAction(s string) (ForeignKeyAction, bool) {
	n := strings.ToUpper(strings.Join(strings.Fields(strings.ReplaceAll(s, "_", " ")), " "))
	switch ForeignKeyAction(n) {
	case ActionCascade, ActionRestrict, ActionSetNull, ActionSetDefault, ActionNoAction:
		return ForeignKeyAction(n), true
	default:
		return "", false
	}
}

// FullTextModifier selects the search mode of a full-text predicate.
type FullTextModifier string

const (
	FullTextNaturalLanguage FullTextModifier = "natural language"
	FullTextBoolean         FullTextModifier = "boolean"
	FullTextQueryExpansion  FullTextModifier = "query expansion"
	FullTextWebSearch       FullTextModifier = "websearch"
)

// ParseFullTextModifier validates a modifier against the closed enumeration.
func ParseFullTextModifier(s string) (FullTextModifier, error) {
	n := FullTextModifier(strings.ToLower(strings.Join(strings.Fields(strings.ReplaceAll(s, "_", " ")), " ")))
	switch n {
	case "", "natural", FullTextNaturalLanguage:
		return FullTextNaturalLanguage, nil
	case FullTextBoolean, FullTextQueryExpansion, FullTextWebSearch:
		return n, nil
	default:
		return "", &InvalidFullTextModifierError{Value: s}
	}
}
