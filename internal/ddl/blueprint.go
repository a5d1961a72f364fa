// Package ddl builds dialect-neutral table definitions (blueprints) and
// renders them as CREATE, ALTER and DROP statements for a driver profile.
//
// Every fluent call is checked against the blueprint's profile immediately.
// The first failure is kept on the blueprint, later calls become no-ops, and
// every render function returns that error without producing SQL.
package ddl

import (
	"strings"

	"dbforge/internal/core"
	"dbforge/internal/dialect"
)

const defaultStringLength = 255

const (
	defaultPrecision = 8
	defaultScale     = 2
)

// IntegerOption is a shape flag accepted by the integer type methods.
type IntegerOption int

const (
	Unsigned IntegerOption = iota + 1
	AutoIncrement
)

// Blueprint accumulates the definition of one table.
type Blueprint struct {
	profile *dialect.Profile
	table   string

	columns  []*Column
	byName   map[string]*Column
	primary  *Accessory
	uniques  []*Accessory
	checks   []*Accessory
	foreigns []*ForeignKey
	indexes  []*Index
	commands []command
	renameTo string
	err      error
}

// New starts a blueprint for table, gated by profile p.
func New(p *dialect.Profile, table string) *Blueprint {
	b := &Blueprint{profile: p, table: table, byName: make(map[string]*Column)}
	if strings.TrimSpace(table) == "" {
		b.addError(&core.ValidationError{Entity: "table", Name: "(empty)", Message: "table name is empty"})
	}
	return b
}

// Table returns the table name.
func (b *Blueprint) Table() string { return b.table }

// Profile returns the profile the blueprint is gated by.
func (b *Blueprint) Profile() *dialect.Profile { return b.profile }

// Err returns the first error recorded by any fluent call.
func (b *Blueprint) Err() error { return b.err }

// Columns returns the columns in declaration order.
func (b *Blueprint) Columns() []*Column { return append([]*Column(nil), b.columns...) }

// Column returns a declared column by name.
func (b *Blueprint) Column(name string) (*Column, bool) {
	c, ok := b.byName[name]
	return c, ok
}

func (b *Blueprint) addError(err error) {
	if b.err == nil {
		b.err = err
	}
}

func (b *Blueprint) addColumn(name string, t core.DataType) *Column {
	c := &Column{bp: b, name: name, dataType: t, constraints: make(map[core.ColumnConstraint]any)}
	if b.err != nil {
		return c
	}
	if strings.TrimSpace(name) == "" {
		return c.fail(&core.ValidationError{Entity: "column", Name: "(empty)", Message: "column name is empty"})
	}
	if _, dup := b.byName[name]; dup {
		return c.fail(&core.ValidationError{Entity: "column", Name: name, Message: "column declared twice in table " + b.table})
	}
	if _, err := b.profile.Lexis().DataType(t); err != nil {
		return c.fail(err)
	}
	b.columns = append(b.columns, c)
	b.byName[name] = c
	return c
}

func (b *Blueprint) integer(name string, t core.DataType, opts []IntegerOption) *Column {
	c := b.addColumn(name, t)
	var unsigned, autoIncrement bool
	for _, o := range opts {
		switch o {
		case Unsigned:
			unsigned = true
		case AutoIncrement:
			autoIncrement = true
		}
	}
	if unsigned {
		c.Unsigned()
	}
	if autoIncrement {
		c.AutoIncrement()
	}
	return c
}

func (b *Blueprint) TinyInteger(name string, opts ...IntegerOption) *Column {
	return b.integer(name, core.TypeTinyInteger, opts)
}

func (b *Blueprint) SmallInteger(name string, opts ...IntegerOption) *Column {
	return b.integer(name, core.TypeSmallInteger, opts)
}

func (b *Blueprint) MediumInteger(name string, opts ...IntegerOption) *Column {
	return b.integer(name, core.TypeMediumInteger, opts)
}

// Integer declares an INTEGER column. Unsigned is applied before
// AutoIncrement whatever the argument order.
func (b *Blueprint) Integer(name string, opts ...IntegerOption) *Column {
	return b.integer(name, core.TypeInteger, opts)
}

func (b *Blueprint) BigInteger(name string, opts ...IntegerOption) *Column {
	return b.integer(name, core.TypeBigInteger, opts)
}

// Decimal declares a fixed point column. A zero precision selects 8,2.
func (b *Blueprint) Decimal(name string, precision, scale int) *Column {
	c := b.addColumn(name, core.TypeDecimal)
	if precision <= 0 {
		precision, scale = defaultPrecision, defaultScale
	}
	if scale < 0 || scale > precision {
		return c.fail(&core.ValidationError{Entity: "column", Name: name, Field: "scale", Message: "scale must be between 0 and the precision"})
	}
	c.precision, c.scale = precision, scale
	return c
}

func (b *Blueprint) Float(name string) *Column   { return b.addColumn(name, core.TypeFloat) }
func (b *Blueprint) Double(name string) *Column  { return b.addColumn(name, core.TypeDouble) }
func (b *Blueprint) Boolean(name string) *Column { return b.addColumn(name, core.TypeBoolean) }

func (b *Blueprint) sized(name string, t core.DataType, length int) *Column {
	c := b.addColumn(name, t)
	if length < 0 {
		return c.fail(&core.ValidationError{Entity: "column", Name: name, Field: "length", Message: "length must not be negative"})
	}
	if length == 0 {
		length = defaultStringLength
	}
	c.length = length
	return c
}

// Char declares a fixed length string. A zero length selects 255.
func (b *Blueprint) Char(name string, length int) *Column {
	return b.sized(name, core.TypeChar, length)
}

// Varchar declares a variable length string. A zero length selects 255.
func (b *Blueprint) Varchar(name string, length int) *Column {
	return b.sized(name, core.TypeVarchar, length)
}

func (b *Blueprint) TinyText(name string) *Column   { return b.addColumn(name, core.TypeTinyText) }
func (b *Blueprint) Text(name string) *Column       { return b.addColumn(name, core.TypeText) }
func (b *Blueprint) MediumText(name string) *Column { return b.addColumn(name, core.TypeMediumText) }
func (b *Blueprint) LongText(name string) *Column   { return b.addColumn(name, core.TypeLongText) }

func (b *Blueprint) Binary(name string, length int) *Column {
	return b.sized(name, core.TypeBinary, length)
}

func (b *Blueprint) Varbinary(name string, length int) *Column {
	return b.sized(name, core.TypeVarbinary, length)
}

func (b *Blueprint) Blob(name string) *Column      { return b.addColumn(name, core.TypeBlob) }
func (b *Blueprint) Date(name string) *Column      { return b.addColumn(name, core.TypeDate) }
func (b *Blueprint) Time(name string) *Column      { return b.addColumn(name, core.TypeTime) }
func (b *Blueprint) DateTime(name string) *Column  { return b.addColumn(name, core.TypeDateTime) }
func (b *Blueprint) Timestamp(name string) *Column { return b.addColumn(name, core.TypeTimestamp) }
func (b *Blueprint) Year(name string) *Column      { return b.addColumn(name, core.TypeYear) }
func (b *Blueprint) JSON(name string) *Column      { return b.addColumn(name, core.TypeJSON) }
func (b *Blueprint) JSONB(name string) *Column     { return b.addColumn(name, core.TypeJSONB) }
func (b *Blueprint) UUID(name string) *Column      { return b.addColumn(name, core.TypeUUID) }

func (b *Blueprint) whitelist(name string, t core.DataType, values []string) *Column {
	c := b.addColumn(name, t)
	if len(values) == 0 {
		return c.fail(&core.ValidationError{Entity: "column", Name: name, Field: "values", Message: string(t) + " requires at least one allowed value"})
	}
	c.values = append([]string(nil), values...)
	return c
}

// Enum declares a column restricted to one of values.
func (b *Blueprint) Enum(name string, values ...string) *Column {
	return b.whitelist(name, core.TypeEnum, values)
}

// Set declares a column holding any subset of values.
func (b *Blueprint) Set(name string, values ...string) *Column {
	return b.whitelist(name, core.TypeSet, values)
}

func (b *Blueprint) Geometry(name string) *Column   { return b.addColumn(name, core.TypeGeometry) }
func (b *Blueprint) Point(name string) *Column      { return b.addColumn(name, core.TypePoint) }
func (b *Blueprint) LineString(name string) *Column { return b.addColumn(name, core.TypeLineString) }
func (b *Blueprint) Polygon(name string) *Column    { return b.addColumn(name, core.TypePolygon) }

// Timestamps declares nullable created_at and updated_at columns.
func (b *Blueprint) Timestamps() *Blueprint {
	b.Timestamp("created_at").Nullable()
	b.Timestamp("updated_at").Nullable()
	return b
}
