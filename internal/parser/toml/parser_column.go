package toml

import (
	"fmt"

	"dbforge/internal/core"
	"dbforge/internal/ddl"
)

// Column maps [[up.columns]] and [[down.columns]].
type Column struct {
	Name string `toml:"name"`
	Type string `toml:"type"`

	Length    int      `toml:"length"`
	Precision int      `toml:"precision"`
	Scale     int      `toml:"scale"`
	Values    []string `toml:"values"`

	Unsigned      bool `toml:"unsigned"`
	AutoIncrement bool `toml:"auto_increment"`
	PrimaryKey    bool `toml:"primary_key"`
	Unique        bool `toml:"unique"`
	NotNull       bool `toml:"not_null"`
	Nullable      bool `toml:"nullable"`
	Invisible     bool `toml:"invisible"`

	// Default accepts a string, bool, number or datetime. DefaultRaw is
	// emitted verbatim, e.g. "CURRENT_TIMESTAMP".
	Default    any    `toml:"default"`
	DefaultRaw string `toml:"default_raw"`

	Collation string `toml:"collation"`
	Charset   string `toml:"charset"`
	Comment   string `toml:"comment"`
	Check     string `toml:"check"`

	// Change marks an existing column for modification in alter steps.
	Change bool `toml:"change"`
}

func addColumn(b *ddl.Blueprint, tc *Column) error {
	if err := core.ValidateIdentifier("column", tc.Name); err != nil {
		return err
	}
	t, ok := core.ParseDataType(tc.Type)
	if !ok {
		return &core.ValidationError{Entity: "column", Name: tc.Name, Field: "type", Message: fmt.Sprintf("unknown data type %q", tc.Type)}
	}

	c := declare(b, tc, t)
	if c.Err() != nil {
		return c.Err()
	}

	// Unsigned and AutoIncrement are integer shape flags; other numeric
	// types bind them directly.
	if !isInteger(t) {
		if tc.Unsigned {
			c.Unsigned()
		}
		if tc.AutoIncrement {
			c.AutoIncrement()
		}
	}
	if tc.Charset != "" {
		c.Charset(tc.Charset)
	}
	if tc.Collation != "" {
		c.Collation(tc.Collation)
	}
	if tc.NotNull {
		c.NotNull()
	}
	if tc.Nullable {
		c.Nullable()
	}
	switch {
	case tc.DefaultRaw != "":
		c.Default(ddl.Raw(tc.DefaultRaw))
	case tc.Default != nil:
		c.Default(tc.Default)
	}
	if tc.Unique {
		c.Unique()
	}
	if tc.PrimaryKey {
		c.PrimaryKey()
	}
	if tc.Invisible {
		c.Invisible()
	}
	if tc.Check != "" {
		c.Check(tc.Check)
	}
	if tc.Comment != "" {
		c.Comment(tc.Comment)
	}
	if tc.Change {
		c.Change()
	}
	return c.Err()
}

func isInteger(t core.DataType) bool {
	switch t {
	case core.TypeTinyInteger, core.TypeSmallInteger, core.TypeMediumInteger, core.TypeInteger, core.TypeBigInteger:
		return true
	default:
		return false
	}
}

// declare calls the blueprint method for t with the shape parameters of tc.
func declare(b *ddl.Blueprint, tc *Column, t core.DataType) *ddl.Column {
	var opts []ddl.IntegerOption
	if tc.Unsigned {
		opts = append(opts, ddl.Unsigned)
	}
	if tc.AutoIncrement {
		opts = append(opts, ddl.AutoIncrement)
	}

	switch t {
	case core.TypeTinyInteger:
		return b.TinyInteger(tc.Name, opts...)
	case core.TypeSmallInteger:
		return b.SmallInteger(tc.Name, opts...)
	case core.TypeMediumInteger:
		return b.MediumInteger(tc.Name, opts...)
	case core.TypeInteger:
		return b.Integer(tc.Name, opts...)
	case core.TypeBigInteger:
		return b.BigInteger(tc.Name, opts...)
	case core.TypeDecimal:
		return b.Decimal(tc.Name, tc.Precision, tc.Scale)
	case core.TypeFloat:
		return b.Float(tc.Name)
	case core.TypeDouble:
		return b.Double(tc.Name)
	case core.TypeBoolean:
		return b.Boolean(tc.Name)
	case core.TypeChar:
		return b.Char(tc.Name, tc.Length)
	case core.TypeVarchar:
		return b.Varchar(tc.Name, tc.Length)
	case core.TypeTinyText:
		return b.TinyText(tc.Name)
	case core.TypeText:
		return b.Text(tc.Name)
	case core.TypeMediumText:
		return b.MediumText(tc.Name)
	case core.TypeLongText:
		return b.LongText(tc.Name)
	case core.TypeBinary:
		return b.Binary(tc.Name, tc.Length)
	case core.TypeVarbinary:
		return b.Varbinary(tc.Name, tc.Length)
	case core.TypeBlob:
		return b.Blob(tc.Name)
	case core.TypeDate:
		return b.Date(tc.Name)
	case core.TypeTime:
		return b.Time(tc.Name)
	case core.TypeDateTime:
		return b.DateTime(tc.Name)
	case core.TypeTimestamp:
		return b.Timestamp(tc.Name)
	case core.TypeYear:
		return b.Year(tc.Name)
	case core.TypeJSON:
		return b.JSON(tc.Name)
	case core.TypeJSONB:
		return b.JSONB(tc.Name)
	case core.TypeUUID:
		return b.UUID(tc.Name)
	case core.TypeEnum:
		return b.Enum(tc.Name, tc.Values...)
	case core.TypeSet:
		return b.Set(tc.Name, tc.Values...)
	case core.TypeGeometry:
		return b.Geometry(tc.Name)
	case core.TypePoint:
		return b.Point(tc.Name)
	case core.TypeLineString:
		return b.LineString(tc.Name)
	default:
		return b.Polygon(tc.Name)
	}
}
