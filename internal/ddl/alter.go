package ddl

import (
	"strings"

	"dbforge/internal/core"
)

// command is an alter-only instruction that does not declare anything new.
type command struct {
	action  core.AlterAction
	column  string
	oldName string
	newName string
	name    string
}

func (b *Blueprint) addCommand(cmd command) *Blueprint {
	if b.err != nil {
		return b
	}
	if _, err := b.profile.Lexis().AlterAction(cmd.action); err != nil {
		b.addError(err)
		return b
	}
	b.commands = append(b.commands, cmd)
	return b
}

// DropColumn drops one or more columns.
func (b *Blueprint) DropColumn(names ...string) *Blueprint {
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			b.addError(&core.ValidationError{Entity: "column", Name: "(empty)", Message: "column name is empty"})
			return b
		}
		b.addCommand(command{action: core.AlterDropColumn, column: n})
	}
	return b
}

// RenameColumn renames a column.
func (b *Blueprint) RenameColumn(from, to string) *Blueprint {
	if strings.TrimSpace(from) == "" || strings.TrimSpace(to) == "" {
		b.addError(&core.ValidationError{Entity: "column", Name: from, Field: "rename", Message: "both the old and the new name are required"})
		return b
	}
	return b.addCommand(command{action: core.AlterRenameColumn, oldName: from, newName: to})
}

// RenameTo renames the table. It is rendered after every other alteration.
func (b *Blueprint) RenameTo(name string) *Blueprint {
	if b.err != nil {
		return b
	}
	if strings.TrimSpace(name) == "" {
		b.addError(&core.ValidationError{Entity: "table", Name: b.table, Field: "rename", Message: "new table name is empty"})
		return b
	}
	if _, err := b.profile.Lexis().AlterAction(core.AlterRenameTable); err != nil {
		b.addError(err)
		return b
	}
	b.renameTo = name
	return b
}

// DropIndex drops an index by name.
func (b *Blueprint) DropIndex(name string) *Blueprint {
	return b.addCommand(command{action: core.AlterDropIndex, name: name})
}

// DropConstraint drops a named constraint.
func (b *Blueprint) DropConstraint(name string) *Blueprint {
	return b.addCommand(command{action: core.AlterDropConstraint, name: name})
}

// DropPrimary drops the primary key. Dialects that drop it by name use name
// when given, otherwise the generated pk_<table> name.
func (b *Blueprint) DropPrimary(name ...string) *Blueprint {
	constraint := "pk_" + b.table
	if len(name) > 0 && strings.TrimSpace(name[0]) != "" {
		constraint = name[0]
	}
	return b.addCommand(command{action: core.AlterDropPrimaryKey, name: constraint})
}

// DropForeign drops a foreign key by constraint name.
func (b *Blueprint) DropForeign(name string) *Blueprint {
	return b.addCommand(command{action: core.AlterDropForeignKey, name: name})
}

// DropForeignOn drops the foreign key generated for columns.
func (b *Blueprint) DropForeignOn(columns ...string) *Blueprint {
	return b.DropForeign(constraintName("fk", b.table, columns))
}
