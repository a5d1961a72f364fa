package ddl

import (
	"fmt"
	"strings"

	"dbforge/internal/core"
	"dbforge/internal/dialect"
)

// RenderColumns renders the column definition list of b, joined with ", ".
func RenderColumns(p *dialect.Profile, b *Blueprint) (string, error) {
	if err := b.Err(); err != nil {
		return "", err
	}
	defs := make([]string, 0, len(b.columns))
	for _, c := range b.columns {
		def, err := columnDefinition(p, b, c)
		if err != nil {
			return "", err
		}
		defs = append(defs, def)
	}
	return strings.Join(defs, ", "), nil
}

// RenderCreateTable renders the CREATE TABLE statement followed by one
// statement per declared index.
func RenderCreateTable(p *dialect.Profile, b *Blueprint) ([]string, error) {
	if err := b.Err(); err != nil {
		return nil, err
	}
	if len(b.columns) == 0 {
		return nil, &core.ValidationError{Entity: "table", Name: b.table, Message: "table has no columns"}
	}
	if err := checkPrimaryKeys(b); err != nil {
		return nil, err
	}

	columns, err := RenderColumns(p, b)
	if err != nil {
		return nil, err
	}
	accessories, err := accessoryDefinitions(p, b)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString("CREATE TABLE ")
	sb.WriteString(p.QuoteIdentifier(b.table))
	sb.WriteString(" (")
	sb.WriteString(columns)
	for _, a := range accessories {
		sb.WriteString(", ")
		sb.WriteString(a)
	}
	sb.WriteString(")")

	stmts := []string{sb.String()}
	indexes, err := indexStatements(p, b)
	if err != nil {
		return nil, err
	}
	return append(stmts, indexes...), nil
}

// RenderAlterTable renders the statements that apply b to an existing table:
// drops and renames in declaration order, then added and modified columns,
// added constraints, indexes and finally the table rename.
func RenderAlterTable(p *dialect.Profile, b *Blueprint) ([]string, error) {
	if err := b.Err(); err != nil {
		return nil, err
	}
	if err := checkPrimaryKeys(b); err != nil {
		return nil, err
	}
	table := p.QuoteIdentifier(b.table)
	var stmts []string

	for _, cmd := range b.commands {
		tpl, err := p.Lexis().AlterAction(cmd.action)
		if err != nil {
			return nil, err
		}
		values := dialect.Values{"table": table}
		if cmd.column != "" {
			values["column"] = p.QuoteIdentifier(cmd.column)
		}
		if cmd.oldName != "" {
			values["old_name"] = p.QuoteIdentifier(cmd.oldName)
			values["new_name"] = p.QuoteIdentifier(cmd.newName)
		}
		if cmd.name != "" {
			values["name"] = p.QuoteIdentifier(cmd.name)
		}
		stmts = append(stmts, tpl.Substitute(values))
	}

	for _, c := range b.columns {
		var (
			out []string
			err error
		)
		if c.change {
			out, err = modifyColumn(p, b, c)
		} else {
			out, err = addColumn(p, b, c)
		}
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, out...)
	}

	accessories, err := accessoryDefinitions(p, b)
	if err != nil {
		return nil, err
	}
	if len(accessories) > 0 {
		tpl, err := p.Lexis().AlterAction(core.AlterAddConstraint)
		if err != nil {
			return nil, err
		}
		for _, a := range accessories {
			stmts = append(stmts, tpl.Substitute(dialect.Values{"table": table, "definition": a}))
		}
	}

	indexes, err := indexStatements(p, b)
	if err != nil {
		return nil, err
	}
	stmts = append(stmts, indexes...)

	if b.renameTo != "" {
		tpl, err := p.Lexis().AlterAction(core.AlterRenameTable)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, tpl.Substitute(dialect.Values{
			"table":    table,
			"old_name": table,
			"new_name": p.QuoteIdentifier(b.renameTo),
		}))
	}
	return stmts, nil
}

// RenderDropTable renders DROP TABLE for table.
func RenderDropTable(p *dialect.Profile, table string) (string, error) {
	if strings.TrimSpace(table) == "" {
		return "", &core.ValidationError{Entity: "table", Name: "(empty)", Message: "table name is empty"}
	}
	return "DROP TABLE " + p.QuoteIdentifier(table), nil
}

// RenderDropTableIfExists renders DROP TABLE IF EXISTS for dialects that
// support the guard.
func RenderDropTableIfExists(p *dialect.Profile, table string) (string, error) {
	if strings.TrimSpace(table) == "" {
		return "", &core.ValidationError{Entity: "table", Name: "(empty)", Message: "table name is empty"}
	}
	if err := p.RequireCapability(core.CapabilityDropIfExists); err != nil {
		return "", err
	}
	return "DROP TABLE IF EXISTS " + p.QuoteIdentifier(table), nil
}

// checkPrimaryKeys rejects a table that would declare more than one primary
// key, either on several columns or on a column and the table.
func checkPrimaryKeys(b *Blueprint) error {
	var keyed []string
	for _, c := range b.columns {
		if _, ok := c.constraints[core.ConstraintPrimaryKey]; ok {
			keyed = append(keyed, c.name)
		}
	}
	switch {
	case len(keyed) > 1:
		return &core.ValidationError{
			Entity:  "table",
			Name:    b.table,
			Field:   string(core.ConstraintPrimaryKey),
			Message: "columns " + strings.Join(keyed, ", ") + " each declare a primary key; use Primary for a composite key",
		}
	case len(keyed) == 1 && b.primary != nil:
		return &core.ValidationError{
			Entity:  "table",
			Name:    b.table,
			Field:   string(core.ConstraintPrimaryKey),
			Message: "column " + keyed[0] + " declares a primary key next to table constraint " + b.primary.name,
		}
	}
	return nil
}

func addColumn(p *dialect.Profile, b *Blueprint, c *Column) ([]string, error) {
	tpl, err := p.Lexis().AlterAction(core.AlterAddColumn)
	if err != nil {
		return nil, err
	}
	def, err := columnDefinition(p, b, c)
	if err != nil {
		return nil, err
	}
	return []string{tpl.Substitute(dialect.Values{
		"table":      p.QuoteIdentifier(b.table),
		"column":     p.QuoteIdentifier(c.name),
		"definition": def,
	})}, nil
}

// separateAlters maps the constraints a separate-alter dialect can change on
// an existing column to the follow-up action that applies them.
var separateAlters = map[core.ColumnConstraint]core.AlterAction{
	core.ConstraintNotNull:  core.AlterSetNotNull,
	core.ConstraintNullable: core.AlterDropNotNull,
	core.ConstraintDefault:  core.AlterSetDefault,
}

func modifyColumn(p *dialect.Profile, b *Blueprint, c *Column) ([]string, error) {
	tpl, err := p.Lexis().AlterAction(core.AlterModifyColumn)
	if err != nil {
		return nil, err
	}
	table := p.QuoteIdentifier(b.table)
	column := p.QuoteIdentifier(c.name)
	typ, err := dataTypeSQL(p, c)
	if err != nil {
		return nil, err
	}

	if !p.Supports(core.CapabilitySeparateColumnAlters) {
		for _, k := range p.ConstraintOrder() {
			if _, bound := c.constraints[k]; bound && !p.Modifiable(k) {
				return nil, &core.UnsupportedFeatureError{
					Dialect: p.Dialect(),
					Kind:    core.TableAlterAction,
					Key:     string(core.AlterModifyColumn) + " " + string(k),
				}
			}
		}
		def, err := columnDefinition(p, b, c)
		if err != nil {
			return nil, err
		}
		return []string{tpl.Substitute(dialect.Values{
			"table":      table,
			"column":     column,
			"type":       typ,
			"definition": def,
		})}, nil
	}

	stmts := []string{tpl.Substitute(dialect.Values{"table": table, "column": column, "type": typ})}
	for _, k := range p.ConstraintOrder() {
		v, bound := c.constraints[k]
		if !bound {
			continue
		}
		action, ok := separateAlters[k]
		if !ok {
			return nil, &core.UnsupportedFeatureError{
				Dialect: p.Dialect(),
				Kind:    core.TableAlterAction,
				Key:     string(core.AlterModifyColumn) + " " + string(k),
			}
		}
		follow, err := p.Lexis().AlterAction(action)
		if err != nil {
			return nil, err
		}
		values := dialect.Values{"table": table, "column": column}
		if follow.Has("value") {
			if values["value"], err = formatValue(p, v); err != nil {
				return nil, err
			}
		}
		stmts = append(stmts, follow.Substitute(values))
	}
	return stmts, nil
}

func dataTypeSQL(p *dialect.Profile, c *Column) (string, error) {
	tpl, err := p.Lexis().DataType(c.dataType)
	if err != nil {
		return "", err
	}
	values := dialect.Values{}
	if c.length > 0 {
		values["length"] = c.length
	}
	if c.precision > 0 {
		values["precision"] = c.precision
		values["scale"] = c.scale
		values["precision_and_scale"] = fmt.Sprintf("%d, %d", c.precision, c.scale)
	}
	if len(c.values) > 0 {
		values["values"] = p.Grammar().QuoteLiterals(c.values)
	}
	return tpl.Substitute(values), nil
}

// columnDefinition renders `name TYPE constraints...`. Every bound constraint
// is resolved before any text is assembled so an unsupported one fails the
// whole column.
func columnDefinition(p *dialect.Profile, b *Blueprint, c *Column) (string, error) {
	typ, err := dataTypeSQL(p, c)
	if err != nil {
		return "", err
	}
	templates := make(map[core.ColumnConstraint]dialect.Template, len(c.constraints))
	for _, k := range core.DefaultConstraintOrder() {
		if _, bound := c.constraints[k]; !bound {
			continue
		}
		tpl, err := p.Lexis().ColumnConstraint(k)
		if err != nil {
			return "", err
		}
		if companion, ok := p.RequiredCompanion(k); ok {
			if _, bound := c.constraints[companion]; !bound {
				return "", &core.UnsupportedFeatureError{
					Dialect: p.Dialect(),
					Kind:    core.TableColumnConstraint,
					Key:     string(k) + " without " + string(companion),
				}
			}
		}
		templates[k] = tpl
	}

	parts := []string{p.QuoteIdentifier(c.name), typ}
	for _, k := range p.ConstraintOrder() {
		tpl, ok := templates[k]
		if !ok {
			continue
		}
		values := dialect.Values{"name": p.QuoteIdentifier("ck_" + b.table + "_" + c.name)}
		if tpl.Has("value") || tpl.Has("expression") {
			value, err := formatValue(p, c.constraints[k])
			if err != nil {
				return "", err
			}
			values["value"] = value
			values["expression"] = value
		}
		parts = append(parts, tpl.Substitute(values))
	}
	return strings.Join(parts, " "), nil
}

func accessoryDefinitions(p *dialect.Profile, b *Blueprint) ([]string, error) {
	var defs []string
	grammar := p.Grammar()

	keyed := make([]*Accessory, 0, 1+len(b.uniques))
	if b.primary != nil {
		keyed = append(keyed, b.primary)
	}
	keyed = append(keyed, b.uniques...)
	for _, a := range keyed {
		tpl, err := p.Lexis().TableConstraint(a.kind)
		if err != nil {
			return nil, err
		}
		defs = append(defs, tpl.Substitute(dialect.Values{
			"name":    p.QuoteIdentifier(a.name),
			"columns": grammar.QuoteIdentifiers(a.columns),
		}))
	}

	for _, f := range b.foreigns {
		def, err := foreignKeyDefinition(p, f)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}

	for _, a := range b.checks {
		tpl, err := p.Lexis().TableConstraint(core.TableConstraintCheck)
		if err != nil {
			return nil, err
		}
		defs = append(defs, tpl.Substitute(dialect.Values{
			"name":       p.QuoteIdentifier(a.name),
			"expression": a.expression,
		}))
	}
	return defs, nil
}

func foreignKeyDefinition(p *dialect.Profile, f *ForeignKey) (string, error) {
	if f.referencedTable == "" {
		return "", &core.ValidationError{Entity: "foreign key", Name: f.name, Field: "references", Message: "referenced table is missing"}
	}
	if len(f.referencedColumns) != len(f.columns) {
		return "", &core.ValidationError{
			Entity:  "foreign key",
			Name:    f.name,
			Field:   "references",
			Message: fmt.Sprintf("%d columns reference %d columns", len(f.columns), len(f.referencedColumns)),
		}
	}
	tpl, err := p.Lexis().TableConstraint(core.TableConstraintForeignKey)
	if err != nil {
		return "", err
	}

	var onDelete, onUpdate string
	if f.onDelete != "" {
		if err := p.ForeignKeyAction(core.OnDelete, f.onDelete); err != nil {
			return "", err
		}
		onDelete = " ON DELETE " + string(f.onDelete)
	}
	if f.onUpdate != "" {
		if err := p.ForeignKeyAction(core.OnUpdate, f.onUpdate); err != nil {
			return "", err
		}
		onUpdate = " ON UPDATE " + string(f.onUpdate)
	}

	grammar := p.Grammar()
	return tpl.Substitute(dialect.Values{
		"name":               p.QuoteIdentifier(f.name),
		"columns":            grammar.QuoteIdentifiers(f.columns),
		"referenced_table":   p.QuoteIdentifier(f.referencedTable),
		"referenced_columns": grammar.QuoteIdentifiers(f.referencedColumns),
		"on_delete_action":   onDelete,
		"on_update_action":   onUpdate,
	}), nil
}

func indexStatements(p *dialect.Profile, b *Blueprint) ([]string, error) {
	stmts := make([]string, 0, len(b.indexes))
	for _, idx := range b.indexes {
		tpl, err := p.Lexis().Index(idx.kind)
		if err != nil {
			return nil, err
		}
		sep := ", "
		if idx.kind == core.IndexFullText {
			sep = p.FullTextSeparator()
		}
		cols := make([]string, len(idx.columns))
		for i, c := range idx.columns {
			cols[i] = p.QuoteIdentifier(c)
		}
		stmts = append(stmts, tpl.Substitute(dialect.Values{
			"name":    p.QuoteIdentifier(idx.name),
			"table":   p.QuoteIdentifier(b.table),
			"columns": strings.Join(cols, sep),
		}))
	}
	return stmts, nil
}
