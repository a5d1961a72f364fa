package ddl

import (
	"dbforge/internal/core"
)

// Column is the constraint binder returned by every data type method of a
// Blueprint. Each binder call records exactly one constraint; binding the same
// constraint again replaces the earlier value.
type Column struct {
	bp       *Blueprint
	name     string
	dataType core.DataType

	length    int
	precision int
	scale     int
	values    []string

	constraints map[core.ColumnConstraint]any
	change      bool
	err         error
}

// constraint bindings that carry no value
type flag struct{}

// Name returns the column name.
func (c *Column) Name() string { return c.name }

// DataType returns the abstract data type of the column.
func (c *Column) DataType() core.DataType { return c.dataType }

// Err returns the first error recorded on the column.
func (c *Column) Err() error { return c.err }

// Constraint returns the value bound to a constraint and whether it is bound.
func (c *Column) Constraint(k core.ColumnConstraint) (any, bool) {
	v, ok := c.constraints[k]
	return v, ok
}

// IsChange reports whether the column is marked for modification.
func (c *Column) IsChange() bool { return c.change }

func (c *Column) NotNull() *Column  { return c.bind(core.ConstraintNotNull, flag{}) }
func (c *Column) Nullable() *Column { return c.bind(core.ConstraintNullable, flag{}) }
func (c *Column) Unique() *Column   { return c.bind(core.ConstraintUnique, flag{}) }

// PrimaryKey marks the column as the single-column primary key. Use
// Blueprint.Primary for composite keys.
func (c *Column) PrimaryKey() *Column { return c.bind(core.ConstraintPrimaryKey, flag{}) }

// Default binds the column default. Strings are rendered as literals, use Raw
// for expressions such as CURRENT_TIMESTAMP.
func (c *Column) Default(v any) *Column {
	if _, err := formatValue(c.bp.profile, v); err != nil {
		return c.fail(err)
	}
	return c.bind(core.ConstraintDefault, v)
}

func (c *Column) Collation(v string) *Column { return c.bind(core.ConstraintCollation, Raw(v)) }
func (c *Column) Charset(v string) *Column   { return c.bind(core.ConstraintCharset, Raw(v)) }
func (c *Column) Comment(v string) *Column   { return c.bind(core.ConstraintComment, v) }
func (c *Column) AutoIncrement() *Column     { return c.bind(core.ConstraintAutoIncrement, flag{}) }
func (c *Column) Invisible() *Column         { return c.bind(core.ConstraintInvisible, flag{}) }

// Check binds an inline CHECK constraint with a raw SQL expression.
func (c *Column) Check(expr string) *Column {
	if expr == "" {
		return c.fail(&core.ValidationError{Entity: "column", Name: c.name, Field: "check", Message: "check expression is empty"})
	}
	return c.bind(core.ConstraintCheck, Raw(expr))
}

// Unsigned marks a numeric column unsigned.
func (c *Column) Unsigned() *Column {
	if !c.gate(core.ConstraintUnsigned) {
		return c
	}
	if !c.dataType.IsNumeric() {
		return c.fail(&core.ValidationError{
			Entity:  "column",
			Name:    c.name,
			Field:   string(core.ConstraintUnsigned),
			Message: "unsigned requires a numeric type, got " + string(c.dataType),
		})
	}
	return c.bind(core.ConstraintUnsigned, flag{})
}

// Change marks the column for modification: alter rendering emits a
// modify_column statement for it instead of add_column.
func (c *Column) Change() *Column {
	if c.err != nil || c.bp.err != nil {
		return c
	}
	if _, err := c.bp.profile.Lexis().AlterAction(core.AlterModifyColumn); err != nil {
		return c.fail(err)
	}
	c.change = true
	return c
}

func (c *Column) bind(k core.ColumnConstraint, v any) *Column {
	if !c.gate(k) {
		return c
	}
	if other, ok := k.Excludes(); ok {
		delete(c.constraints, other)
	}
	c.constraints[k] = v
	return c
}

// gate consults the blueprint's profile for k and records the error when the
// dialect has no template for it. It returns false when nothing may be bound.
func (c *Column) gate(k core.ColumnConstraint) bool {
	if c.err != nil || c.bp.err != nil {
		return false
	}
	if _, err := c.bp.profile.Lexis().ColumnConstraint(k); err != nil {
		c.fail(err)
		return false
	}
	return true
}

func (c *Column) fail(err error) *Column {
	if c.err == nil {
		c.err = err
	}
	c.bp.addError(err)
	return c
}
