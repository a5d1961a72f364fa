package dialect

import (
	"fmt"
	"slices"

	"dbforge/internal/core"
)

// Placeholder names each lexis table may use. These are the values the DDL
// renderer supplies at the corresponding call sites.
var allowedPlaceholders = map[core.TableKind][]string{
	core.TableDataType: {
		"length", "precision", "scale", "precision_and_scale", "values",
	},
	core.TableColumnConstraint: {
		"value", "expression", "name",
	},
	core.TableTableConstraint: {
		"name", "columns", "referenced_table", "referenced_columns",
		"on_delete_action", "on_update_action", "expression",
	},
	core.TableIndex: {
		"name", "table", "columns",
	},
	core.TableAlterAction: {
		"table", "column", "definition", "type", "name",
		"old_name", "new_name", "value", "expression",
	},
}

// AllowedPlaceholders returns the placeholder names templates of kind may use.
func AllowedPlaceholders(kind core.TableKind) []string {
	return slices.Clone(allowedPlaceholders[kind])
}

// LexisTables is the declarative vocabulary of a dialect: raw template text
// keyed by abstract feature. A missing key means the feature is unsupported.
type LexisTables struct {
	DataTypes         map[core.DataType]string
	ColumnConstraints map[core.ColumnConstraint]string
	TableConstraints  map[core.TableConstraint]string
	Indexes           map[core.IndexKind]string
	AlterActions      map[core.AlterAction]string
}

// Lexis is the parsed, validated vocabulary of one dialect.
type Lexis struct {
	dialect core.Dialect
	tables  map[core.TableKind]map[string]Template
}

// NewLexis parses every template and checks it only uses placeholders the
// renderer supplies for its table kind.
func NewLexis(d core.Dialect, t LexisTables) (*Lexis, error) {
	l := &Lexis{dialect: d, tables: make(map[core.TableKind]map[string]Template, 5)}

	add := func(kind core.TableKind, key, text string) error {
		tpl := NewTemplate(text)
		if err := checkTemplate(kind, tpl, AllowedPlaceholders(kind)); err != nil {
			return fmt.Errorf("%s %s %q: %w", d, kind, key, err)
		}
		if l.tables[kind] == nil {
			l.tables[kind] = make(map[string]Template)
		}
		l.tables[kind][key] = tpl
		return nil
	}

	for k, v := range t.DataTypes {
		if err := add(core.TableDataType, string(k), v); err != nil {
			return nil, err
		}
	}
	for k, v := range t.ColumnConstraints {
		if err := add(core.TableColumnConstraint, string(k), v); err != nil {
			return nil, err
		}
	}
	for k, v := range t.TableConstraints {
		if err := add(core.TableTableConstraint, string(k), v); err != nil {
			return nil, err
		}
	}
	for k, v := range t.Indexes {
		if err := add(core.TableIndex, string(k), v); err != nil {
			return nil, err
		}
	}
	for k, v := range t.AlterActions {
		if err := add(core.TableAlterAction, string(k), v); err != nil {
			return nil, err
		}
	}
	return l, nil
}

func checkTemplate(kind core.TableKind, tpl Template, allowed []string) error {
	if tpl.IsZero() {
		return fmt.Errorf("empty template")
	}
	if strayBraces(tpl.Text()) {
		return fmt.Errorf("template %q contains a stray brace", tpl.Text())
	}
	for _, p := range tpl.Placeholders() {
		if !slices.Contains(allowed, p) {
			return fmt.Errorf("placeholder {%s} is not supplied for %s templates", p, kind)
		}
	}
	return nil
}

// Dialect returns the dialect the vocabulary belongs to.
func (l *Lexis) Dialect() core.Dialect { return l.dialect }

// Resolve looks up the template for key in the given table. A missing key is
// reported as an UnsupportedFeatureError.
func (l *Lexis) Resolve(kind core.TableKind, key string) (Template, error) {
	tpl, ok := l.tables[kind][key]
	if !ok {
		return Template{}, &core.UnsupportedFeatureError{Dialect: l.dialect, Kind: kind, Key: key}
	}
	return tpl, nil
}

// Supports reports whether key is present in the given table.
func (l *Lexis) Supports(kind core.TableKind, key string) bool {
	_, ok := l.tables[kind][key]
	return ok
}

// Keys returns the sorted keys of a table.
func (l *Lexis) Keys(kind core.TableKind) []string {
	keys := make([]string, 0, len(l.tables[kind]))
	for k := range l.tables[kind] {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (l *Lexis) DataType(t core.DataType) (Template, error) {
	return l.Resolve(core.TableDataType, string(t))
}

func (l *Lexis) ColumnConstraint(c core.ColumnConstraint) (Template, error) {
	return l.Resolve(core.TableColumnConstraint, string(c))
}

func (l *Lexis) TableConstraint(c core.TableConstraint) (Template, error) {
	return l.Resolve(core.TableTableConstraint, string(c))
}

func (l *Lexis) Index(k core.IndexKind) (Template, error) {
	return l.Resolve(core.TableIndex, string(k))
}

func (l *Lexis) AlterAction(a core.AlterAction) (Template, error) {
	return l.Resolve(core.TableAlterAction, string(a))
}
