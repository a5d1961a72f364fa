package ddl

import (
	"strconv"
	"strings"

	"dbforge/internal/core"
)

// Accessory is a table-level primary key, unique or check constraint.
type Accessory struct {
	kind       core.TableConstraint
	name       string
	columns    []string
	expression string
}

// Named overrides the generated constraint name.
func (a *Accessory) Named(name string) *Accessory {
	if name != "" {
		a.name = name
	}
	return a
}

// ConstraintName returns the explicit or generated constraint name.
func (a *Accessory) ConstraintName() string { return a.name }

// ForeignKey is a table-level foreign key declared with Blueprint.Foreign.
type ForeignKey struct {
	bp                *Blueprint
	name              string
	columns           []string
	referencedTable   string
	referencedColumns []string
	onDelete          core.ForeignKeyAction
	onUpdate          core.ForeignKeyAction
}

// References sets the referenced table and columns.
func (f *ForeignKey) References(table string, columns ...string) *ForeignKey {
	f.referencedTable = table
	f.referencedColumns = append([]string(nil), columns...)
	return f
}

// OnDelete sets the ON DELETE action. It fails when the dialect does not
// accept the action for that event.
func (f *ForeignKey) OnDelete(a core.ForeignKeyAction) *ForeignKey {
	if f.allow(core.OnDelete, a) {
		f.onDelete = a
	}
	return f
}

// OnUpdate sets the ON UPDATE action.
func (f *ForeignKey) OnUpdate(a core.ForeignKeyAction) *ForeignKey {
	if f.allow(core.OnUpdate, a) {
		f.onUpdate = a
	}
	return f
}

// Named overrides the generated constraint name.
func (f *ForeignKey) Named(name string) *ForeignKey {
	if name != "" {
		f.name = name
	}
	return f
}

// ConstraintName returns the explicit or generated constraint name.
func (f *ForeignKey) ConstraintName() string { return f.name }

func (f *ForeignKey) allow(event core.ForeignKeyEvent, a core.ForeignKeyAction) bool {
	if f.bp.err != nil {
		return false
	}
	if err := f.bp.profile.ForeignKeyAction(event, a); err != nil {
		f.bp.addError(err)
		return false
	}
	return true
}

// Index is a secondary index rendered as its own statement.
type Index struct {
	kind    core.IndexKind
	name    string
	columns []string
}

// Named overrides the generated index name.
func (i *Index) Named(name string) *Index {
	if name != "" {
		i.name = name
	}
	return i
}

// IndexName returns the explicit or generated index name.
func (i *Index) IndexName() string { return i.name }

func (b *Blueprint) tableConstraint(kind core.TableConstraint, cols []string) bool {
	if b.err != nil {
		return false
	}
	if _, err := b.profile.Lexis().TableConstraint(kind); err != nil {
		b.addError(err)
		return false
	}
	if kind != core.TableConstraintCheck && len(cols) == 0 {
		b.addError(&core.ValidationError{Entity: "table", Name: b.table, Field: string(kind), Message: "constraint requires at least one column"})
		return false
	}
	return true
}

// Primary declares a (possibly composite) primary key. Declaring it again
// replaces the earlier one.
func (b *Blueprint) Primary(columns ...string) *Accessory {
	a := &Accessory{kind: core.TableConstraintPrimaryKey, name: "pk_" + b.table, columns: columns}
	if b.tableConstraint(core.TableConstraintPrimaryKey, columns) {
		b.primary = a
	}
	return a
}

// Unique declares a (possibly composite) unique constraint.
func (b *Blueprint) Unique(columns ...string) *Accessory {
	a := &Accessory{kind: core.TableConstraintUnique, name: constraintName("uq", b.table, columns), columns: columns}
	if b.tableConstraint(core.TableConstraintUnique, columns) {
		b.uniques = append(b.uniques, a)
	}
	return a
}

// Check declares a table-level CHECK constraint with a raw expression.
func (b *Blueprint) Check(expression string) *Accessory {
	a := &Accessory{kind: core.TableConstraintCheck, expression: expression}
	a.name = "ck_" + b.table + "_" + strconv.Itoa(len(b.checks)+1)
	if !b.tableConstraint(core.TableConstraintCheck, nil) {
		return a
	}
	if strings.TrimSpace(expression) == "" {
		b.addError(&core.ValidationError{Entity: "table", Name: b.table, Field: "check", Message: "check expression is empty"})
		return a
	}
	b.checks = append(b.checks, a)
	return a
}

// Foreign declares a foreign key over columns. Complete it with References.
func (b *Blueprint) Foreign(columns ...string) *ForeignKey {
	f := &ForeignKey{bp: b, name: constraintName("fk", b.table, columns), columns: columns}
	if b.tableConstraint(core.TableConstraintForeignKey, columns) {
		b.foreigns = append(b.foreigns, f)
	}
	return f
}

func (b *Blueprint) index(kind core.IndexKind, prefix string, columns []string) *Index {
	idx := &Index{kind: kind, name: constraintName(prefix, b.table, columns), columns: columns}
	if b.err != nil {
		return idx
	}
	if _, err := b.profile.Lexis().Index(kind); err != nil {
		b.addError(err)
		return idx
	}
	if len(columns) == 0 {
		b.addError(&core.ValidationError{Entity: "index", Name: idx.name, Message: "index requires at least one column"})
		return idx
	}
	b.indexes = append(b.indexes, idx)
	return idx
}

func (b *Blueprint) Index(columns ...string) *Index {
	return b.index(core.IndexPlain, "idx", columns)
}

func (b *Blueprint) UniqueIndex(columns ...string) *Index {
	return b.index(core.IndexUnique, "ux", columns)
}

func (b *Blueprint) FullTextIndex(columns ...string) *Index {
	return b.index(core.IndexFullText, "ft", columns)
}

func (b *Blueprint) SpatialIndex(columns ...string) *Index {
	return b.index(core.IndexSpatial, "sp", columns)
}

// AddIndex declares an index of an explicit kind.
func (b *Blueprint) AddIndex(kind core.IndexKind, columns ...string) *Index {
	prefix := map[core.IndexKind]string{
		core.IndexPlain:    "idx",
		core.IndexUnique:   "ux",
		core.IndexFullText: "ft",
		core.IndexSpatial:  "sp",
	}[kind]
	if prefix == "" {
		prefix = "idx"
	}
	return b.index(kind, prefix, columns)
}

// constraintName builds <prefix>_<table>_<col1>_<col2>.
func constraintName(prefix, table string, columns []string) string {
	parts := append([]string{prefix, table}, columns...)
	return strings.Join(parts, "_")
}
