package migration

import (
	"fmt"

	"dbforge/internal/core"
	"dbforge/internal/ddl"
	"dbforge/internal/dialect"
	"dbforge/internal/parser/toml"
)

// Build renders doc for profile p. The step selected by dir supplies the
// forward statements; the opposite step supplies the rollback statements.
// name labels the plan and its operations.
func Build(p *dialect.Profile, doc *toml.Document, name string, dir Direction) (*Migration, error) {
	forward, backward := &doc.Up, &doc.Down
	if dir == Down {
		forward, backward = backward, forward
	}
	if forward.Action == "" {
		return nil, fmt.Errorf("migration: %s: no %s step", name, dir)
	}

	m := &Migration{Name: name}
	stmts, err := renderStep(p, doc.Table, dir.String(), forward)
	if err != nil {
		return nil, fmt.Errorf("migration: %s: %w", name, err)
	}
	risk := stepRisk(forward)
	for _, s := range stmts {
		m.AddStatementWithRisk(s, risk)
	}

	if backward.Action == "" {
		m.AddNote(fmt.Sprintf("%s has no %s step; it cannot be reversed", name, dir.Reverse()))
	} else {
		rollback, err := renderStep(p, doc.Table, dir.Reverse().String(), backward)
		if err != nil {
			return nil, fmt.Errorf("migration: %s: %w", name, err)
		}
		for _, s := range rollback {
			m.AddRollbackStatement(s)
		}
	}

	addNotes(m, doc.Table, forward)
	m.Dedupe()
	return m, nil
}

func renderStep(p *dialect.Profile, table, name string, s *toml.Step) ([]string, error) {
	action, ok := toml.ParseAction(s.Action)
	if !ok {
		return nil, fmt.Errorf("%s: unknown action %q", name, s.Action)
	}
	if action == toml.ActionDrop {
		render := ddl.RenderDropTable
		if s.IfExists {
			render = ddl.RenderDropTableIfExists
		}
		stmt, err := render(p, table)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return []string{stmt}, nil
	}

	b, err := toml.Blueprint(p, table, name, s)
	if err != nil {
		return nil, err
	}
	var stmts []string
	if action == toml.ActionCreate {
		stmts, err = ddl.RenderCreateTable(p, b)
	} else {
		stmts, err = ddl.RenderAlterTable(p, b)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return stmts, nil
}

func stepRisk(s *toml.Step) core.OperationRisk {
	action, _ := toml.ParseAction(s.Action)
	switch {
	case action == toml.ActionDrop, len(s.DropColumns) > 0:
		return core.RiskBreaking
	case s.DropPrimary, len(s.DropForeignKeys) > 0, len(s.DropConstraints) > 0, changesColumns(s):
		return core.RiskWarning
	default:
		return core.RiskInfo
	}
}

func changesColumns(s *toml.Step) bool {
	for i := range s.Columns {
		if s.Columns[i].Change {
			return true
		}
	}
	return false
}

func addNotes(m *Migration, table string, s *toml.Step) {
	action, _ := toml.ParseAction(s.Action)
	if action == toml.ActionDrop {
		m.AddBreaking(fmt.Sprintf("dropping table %s discards all of its rows", table))
		return
	}
	for _, c := range s.DropColumns {
		m.AddBreaking(fmt.Sprintf("dropping column %s.%s discards its data", table, c))
	}
	for i := range s.Columns {
		c := &s.Columns[i]
		if c.Change {
			m.AddNote(fmt.Sprintf("column %s.%s is modified in place; existing values must fit type %s", table, c.Name, c.Type))
		}
		if action == toml.ActionAlter && !c.Change && c.NotNull && c.Default == nil && c.DefaultRaw == "" {
			m.AddNote(fmt.Sprintf("column %s.%s is added NOT NULL without a default; the table must be empty", table, c.Name))
		}
	}
	if s.RenameTo != "" {
		m.AddNote(fmt.Sprintf("table %s is renamed to %s", table, s.RenameTo))
	}
}
