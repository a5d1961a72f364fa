package output

import (
	"encoding/json"

	"dbforge/internal/migration"
)

type jsonFormatter struct{}

type migrationSummary struct {
	BreakingChanges    int `json:"breakingChanges"`
	Notes              int `json:"notes"`
	SQLStatements      int `json:"sqlStatements"`
	RollbackStatements int `json:"rollbackStatements"`
}

type migrationPayload struct {
	Format          string           `json:"format"`
	Name            string           `json:"name,omitempty"`
	Summary         migrationSummary `json:"summary"`
	BreakingChanges []string         `json:"breakingChanges,omitempty"`
	Notes           []string         `json:"notes,omitempty"`
	SQL             []string         `json:"sql,omitempty"`
	Rollback        []string         `json:"rollback,omitempty"`
}

type plansPayload struct {
	Format     string             `json:"format"`
	Migrations []migrationPayload `json:"migrations"`
}

type payload interface {
	migrationPayload | plansPayload
}

func newMigrationPayload(m *migration.Migration) migrationPayload {
	p := migrationPayload{Format: string(FormatJSON)}
	if m == nil {
		return p
	}
	breaking := m.BreakingNotes()
	notes := m.InfoNotes()
	sql := normalizeStatements(m.SQLStatements())
	rollback := normalizeStatements(m.RollbackStatements())

	p.Name = m.Name
	p.BreakingChanges = breaking
	p.Notes = notes
	p.SQL = sql
	p.Rollback = rollback
	p.Summary = migrationSummary{
		BreakingChanges:    len(breaking),
		Notes:              len(notes),
		SQLStatements:      len(sql),
		RollbackStatements: len(rollback),
	}
	return p
}

func (jsonFormatter) FormatMigration(m *migration.Migration) (string, error) {
	return marshalJSON(newMigrationPayload(m))
}

func (jsonFormatter) FormatPlans(plans []*migration.Migration) (string, error) {
	out := plansPayload{Format: string(FormatJSON), Migrations: make([]migrationPayload, 0, len(plans))}
	for _, m := range plans {
		out.Migrations = append(out.Migrations, newMigrationPayload(m))
	}
	return marshalJSON(out)
}

func marshalJSON[T payload](v T) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b) + "\n", nil
}
