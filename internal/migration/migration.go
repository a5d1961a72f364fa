// Package migration turns migration documents into ordered plans of SQL
// operations and runs them forward or backward through an Applier.
package migration

import (
	"strings"

	"dbforge/internal/core"
)

// Migration is the plan built from one migration file: the statements that
// apply it, the statements that reverse it and the notes a reviewer should
// read before running it.
type Migration struct {
	// Name is the file stem the plan was built from. It is copied into the
	// Source of every operation added afterwards.
	Name       string
	Operations []core.Operation
}

// Plan returns the operations in insertion order.
func (m *Migration) Plan() []core.Operation {
	return m.Operations
}

// SQLStatements returns the statements that apply the migration.
func (m *Migration) SQLStatements() []string {
	return m.collect(core.OperationSQL, func(op core.Operation) string { return op.SQL })
}

// RollbackStatements returns the statements that reverse the migration, in
// the order they must run.
func (m *Migration) RollbackStatements() []string {
	return m.collect(core.OperationSQL, func(op core.Operation) string { return op.RollbackSQL })
}

// BreakingNotes returns the notes about destructive changes.
func (m *Migration) BreakingNotes() []string {
	return m.collect(core.OperationBreaking, func(op core.Operation) string { return op.SQL })
}

// InfoNotes returns the informational notes.
func (m *Migration) InfoNotes() []string {
	return m.collect(core.OperationNote, func(op core.Operation) string { return op.SQL })
}

// HasBreaking reports whether any statement or note is marked breaking.
func (m *Migration) HasBreaking() bool {
	for i := range m.Operations {
		if m.Operations[i].Risk == core.RiskBreaking {
			return true
		}
	}
	return false
}

func (m *Migration) AddStatement(stmt string) {
	m.AddStatementWithRisk(stmt, "")
}

// AddStatementWithRisk adds a forward statement tagged with risk.
func (m *Migration) AddStatementWithRisk(stmt string, risk core.OperationRisk) {
	if stmt = strings.TrimSpace(stmt); stmt == "" {
		return
	}
	m.add(core.Operation{Kind: core.OperationSQL, SQL: stmt, Risk: risk})
}

func (m *Migration) AddRollbackStatement(stmt string) {
	if stmt = strings.TrimSpace(stmt); stmt == "" {
		return
	}
	m.add(core.Operation{Kind: core.OperationSQL, RollbackSQL: stmt})
}

func (m *Migration) AddStatementWithRollback(up, down string) {
	up = strings.TrimSpace(up)
	down = strings.TrimSpace(down)
	if up == "" && down == "" {
		return
	}
	m.add(core.Operation{Kind: core.OperationSQL, SQL: up, RollbackSQL: down})
}

func (m *Migration) AddBreaking(msg string) {
	if msg = strings.TrimSpace(msg); msg == "" {
		return
	}
	m.add(core.Operation{Kind: core.OperationBreaking, SQL: msg, Risk: core.RiskBreaking})
}

func (m *Migration) AddNote(msg string) {
	if msg = strings.TrimSpace(msg); msg == "" {
		return
	}
	m.add(core.Operation{Kind: core.OperationNote, SQL: msg, Risk: core.RiskInfo})
}

func (m *Migration) add(op core.Operation) {
	op.Source = m.Name
	m.Operations = append(m.Operations, op)
}

// Dedupe trims every operation, drops empty ones and repeated notes, and
// clears a rollback statement already seen earlier in the plan.
func (m *Migration) Dedupe() {
	n := len(m.Operations)
	if n == 0 {
		return
	}
	seenNote := make(map[string]struct{}, n)
	seenBreaking := make(map[string]struct{}, n)
	seenRollback := make(map[string]struct{}, n)
	out := make([]core.Operation, 0, n)
	for i := range m.Operations {
		op := m.Operations[i]
		op.SQL = strings.TrimSpace(op.SQL)
		op.RollbackSQL = strings.TrimSpace(op.RollbackSQL)

		var keep bool
		switch op.Kind {
		case core.OperationSQL:
			keep = keepStatement(&op, seenRollback)
		case core.OperationNote:
			keep = firstSeen(op.SQL, seenNote)
		case core.OperationBreaking:
			keep = firstSeen(op.SQL, seenBreaking)
		default:
			keep = true
		}
		if keep {
			out = append(out, op)
		}
	}
	m.Operations = out
}

func keepStatement(op *core.Operation, seenRollback map[string]struct{}) bool {
	if op.SQL == "" && op.RollbackSQL == "" {
		return false
	}
	if op.RollbackSQL != "" {
		if _, ok := seenRollback[op.RollbackSQL]; ok {
			op.RollbackSQL = ""
			return op.SQL != ""
		}
		seenRollback[op.RollbackSQL] = struct{}{}
	}
	return true
}

func firstSeen(text string, seen map[string]struct{}) bool {
	if text == "" {
		return false
	}
	if _, ok := seen[text]; ok {
		return false
	}
	seen[text] = struct{}{}
	return true
}

func (m *Migration) collect(kind core.OperationKind, field func(core.Operation) string) []string {
	out := make([]string, 0, len(m.Operations)/4+1)
	for i := range m.Operations {
		op := &m.Operations[i]
		if op.Kind != kind {
			continue
		}
		val := strings.TrimSpace(field(*op))
		if val == "" {
			continue
		}
		out = append(out, val)
	}
	return out
}
