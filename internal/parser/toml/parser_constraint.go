package toml

import (
	"fmt"
	"strings"

	"dbforge/internal/core"
	"dbforge/internal/ddl"
)

// Index maps [[up.indexes]].
type Index struct {
	Name    string   `toml:"name"`
	Kind    string   `toml:"kind"`
	Columns []string `toml:"columns"`
}

// ForeignKey maps [[up.foreign_keys]].
type ForeignKey struct {
	Name       string   `toml:"name"`
	Columns    []string `toml:"columns"`
	References string   `toml:"references"`
	OnDelete   string   `toml:"on_delete"`
	OnUpdate   string   `toml:"on_update"`
}

func addConstraints(b *ddl.Blueprint, s *Step) error {
	if len(s.Primary) > 0 {
		b.Primary(s.Primary...).Named(s.PrimaryName)
	}
	for _, expr := range s.Checks {
		b.Check(expr)
	}
	for i := range s.Indexes {
		if err := addIndex(b, &s.Indexes[i]); err != nil {
			return fmt.Errorf("index %q: %w", s.Indexes[i].Name, err)
		}
	}
	for i := range s.ForeignKeys {
		if err := addForeignKey(b, &s.ForeignKeys[i]); err != nil {
			return fmt.Errorf("foreign key on %v: %w", s.ForeignKeys[i].Columns, err)
		}
	}
	return b.Err()
}

func addIndex(b *ddl.Blueprint, ti *Index) error {
	kind, ok := core.ParseIndexKind(ti.Kind)
	if !ok {
		return &core.ValidationError{Entity: "index", Name: ti.Name, Field: "kind", Message: fmt.Sprintf("unknown index kind %q", ti.Kind)}
	}
	b.AddIndex(kind, ti.Columns...).Named(ti.Name)
	return b.Err()
}

func addForeignKey(b *ddl.Blueprint, tf *ForeignKey) error {
	table, columns, ok := parseReferences(tf.References)
	if !ok {
		return &core.ValidationError{
			Entity:  "foreign key",
			Name:    tf.Name,
			Field:   "references",
			Message: fmt.Sprintf("invalid references %q: expected format \"table.column\"", tf.References),
		}
	}
	fk := b.Foreign(tf.Columns...).References(table, columns...).Named(tf.Name)
	if tf.OnDelete != "" {
		action, ok := core.ParseForeignKeyAction(tf.OnDelete)
		if !ok {
			return &core.ValidationError{Entity: "foreign key", Name: fk.ConstraintName(), Field: "on_delete", Message: fmt.Sprintf("unknown action %q", tf.OnDelete)}
		}
		fk.OnDelete(action)
	}
	if tf.OnUpdate != "" {
		action, ok := core.ParseForeignKeyAction(tf.OnUpdate)
		if !ok {
			return &core.ValidationError{Entity: "foreign key", Name: fk.ConstraintName(), Field: "on_update", Message: fmt.Sprintf("unknown action %q", tf.OnUpdate)}
		}
		fk.OnUpdate(action)
	}
	return b.Err()
}

// parseReferences splits "table.col" or "schema.table.col1,col2". The last
// dotted segment holds the comma separated referenced columns.
func parseReferences(ref string) (string, []string, bool) {
	ref = strings.TrimSpace(ref)
	dot := strings.LastIndex(ref, ".")
	if dot <= 0 || dot == len(ref)-1 {
		return "", nil, false
	}
	var columns []string
	for c := range strings.SplitSeq(ref[dot+1:], ",") {
		if c = strings.TrimSpace(c); c != "" {
			columns = append(columns, c)
		}
	}
	if len(columns) == 0 {
		return "", nil, false
	}
	return ref[:dot], columns, true
}
