// Package toml reads dbforge migration documents. A document names one table
// and an up and a down step; each step is converted into ddl.Blueprint calls
// against the profile of the target connection.
package toml

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"dbforge/internal/core"
	"dbforge/internal/ddl"
	"dbforge/internal/dialect"
)

// Action is what a step does to its table.
type Action string

const (
	ActionCreate Action = "create"
	ActionAlter  Action = "alter"
	ActionDrop   Action = "drop"
)

// ParseAction maps a case-insensitive name to its Action.
func ParseAction(s string) (Action, bool) {
	switch a := Action(strings.ToLower(strings.TrimSpace(s))); a {
	case ActionCreate, ActionAlter, ActionDrop:
		return a, true
	default:
		return "", false
	}
}

// Document is one migration file.
type Document struct {
	Table string `toml:"table"`
	Up    Step   `toml:"up"`
	Down  Step   `toml:"down"`
}

// Step maps [up] and [down].
type Step struct {
	Action      string       `toml:"action"`
	Columns     []Column     `toml:"columns"`
	Indexes     []Index      `toml:"indexes"`
	ForeignKeys []ForeignKey `toml:"foreign_keys"`
	Primary     []string     `toml:"primary"`
	PrimaryName string       `toml:"primary_name"`
	Checks      []string     `toml:"checks"`

	// alter only
	DropColumns     []string `toml:"drop_columns"`
	RenameColumns   []Rename `toml:"rename_columns"`
	DropIndexes     []string `toml:"drop_indexes"`
	DropConstraints []string `toml:"drop_constraints"`
	DropForeignKeys []string `toml:"drop_foreign_keys"`
	DropPrimary     bool     `toml:"drop_primary"`
	RenameTo        string   `toml:"rename_to"`

	// drop only
	IfExists bool `toml:"if_exists"`
}

// Rename maps one entry of rename_columns.
type Rename struct {
	From string `toml:"from"`
	To   string `toml:"to"`
}

// Parser reads migration documents.
type Parser struct{}

// NewParser creates a new migration document parser.
func NewParser() *Parser {
	return &Parser{}
}

// ParseFile opens the file at path and parses it.
func (p *Parser) ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("toml: open file %q: %w", path, err)
	}
	defer f.Close()

	return p.Parse(f)
}

// Parse decodes a document from r and validates its shape.
func (p *Parser) Parse(r io.Reader) (*Document, error) {
	var doc Document
	md, err := toml.NewDecoder(r).Decode(&doc)
	if err != nil {
		return nil, fmt.Errorf("toml: decode error: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("toml: unknown key %q", undecoded[0].String())
	}
	if err := doc.validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (d *Document) validate() error {
	if err := core.ValidateIdentifier("table", d.Table); err != nil {
		return fmt.Errorf("toml: %w", err)
	}
	steps := []struct {
		name string
		step *Step
	}{{"up", &d.Up}, {"down", &d.Down}}
	for _, st := range steps {
		name, s := st.name, st.step
		if s.Action == "" {
			continue
		}
		if _, ok := ParseAction(s.Action); !ok {
			return fmt.Errorf("toml: %s: %w", name, &core.ValidationError{
				Entity:  "step",
				Name:    name,
				Field:   "action",
				Message: fmt.Sprintf("unknown action %q; use create, alter or drop", s.Action),
			})
		}
	}
	if d.Up.Action == "" {
		return fmt.Errorf("toml: %w", &core.ValidationError{Entity: "step", Name: "up", Field: "action", Message: "up step is required"})
	}
	return nil
}

// Blueprint converts step into blueprint calls for table under profile p.
// name labels the step in errors. Drop steps have no blueprint.
func Blueprint(p *dialect.Profile, table, name string, s *Step) (*ddl.Blueprint, error) {
	action, ok := ParseAction(s.Action)
	if !ok {
		return nil, fmt.Errorf("toml: %s: unknown action %q", name, s.Action)
	}
	b := ddl.New(p, table)
	if action == ActionDrop {
		return b, b.Err()
	}

	if action == ActionAlter {
		applyAlterCommands(b, s)
		if err := b.Err(); err != nil {
			return nil, fmt.Errorf("toml: %s: %w", name, err)
		}
	}
	for i := range s.Columns {
		if err := addColumn(b, &s.Columns[i]); err != nil {
			return nil, fmt.Errorf("toml: %s: column %q: %w", name, s.Columns[i].Name, err)
		}
	}
	if err := addConstraints(b, s); err != nil {
		return nil, fmt.Errorf("toml: %s: %w", name, err)
	}
	if action == ActionAlter && s.RenameTo != "" {
		b.RenameTo(s.RenameTo)
	}
	if err := b.Err(); err != nil {
		return nil, fmt.Errorf("toml: %s: %w", name, err)
	}
	return b, nil
}

func applyAlterCommands(b *ddl.Blueprint, s *Step) {
	if len(s.DropColumns) > 0 {
		b.DropColumn(s.DropColumns...)
	}
	for _, r := range s.RenameColumns {
		b.RenameColumn(r.From, r.To)
	}
	for _, name := range s.DropIndexes {
		b.DropIndex(name)
	}
	for _, name := range s.DropForeignKeys {
		b.DropForeign(name)
	}
	for _, name := range s.DropConstraints {
		b.DropConstraint(name)
	}
	if s.DropPrimary {
		b.DropPrimary(s.PrimaryName)
	}
}
