package dialect

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"dbforge/internal/core"
)

var (
	jsonExtractPlaceholders = []string{"column", "path"}
	jsonSetPlaceholders     = []string{"column", "path", "value"}
	fullTextPlaceholders    = []string{"columns", "value"}
)

// Definition is the declarative description of a dialect, turned into an
// immutable Profile by NewProfile.
type Definition struct {
	Dialect         core.Dialect
	Identifier      QuotePair
	Literal         QuotePair
	EscapeBackslash bool

	Lexis LexisTables

	// ForeignKeyActions lists the referential actions accepted per event.
	ForeignKeyActions map[core.ForeignKeyEvent][]core.ForeignKeyAction
	Capabilities      []core.Capability
	// ConstraintOrder overrides core.DefaultConstraintOrder when set.
	ConstraintOrder []core.ColumnConstraint
	// ConstraintRequires maps a column constraint to the one it is only
	// legal next to on the same column.
	ConstraintRequires map[core.ColumnConstraint]core.ColumnConstraint
	// ModifyConstraints, when set, limits the constraints a column
	// definition restated by modify_column may carry.
	ModifyConstraints []core.ColumnConstraint

	Placeholder core.PlaceholderStyle
	JSONPath    core.JSONPathStyle
	JSONExtract string
	JSONSet     string

	FullText          map[core.FullTextModifier]string
	FullTextSeparator string

	// BooleanLiterals spells false and true in DEFAULT clauses and bound
	// comparisons. Defaults to FALSE/TRUE.
	BooleanLiterals [2]string
}

// Profile binds a Grammar, a Lexis and the dialect specific extras. It is
// immutable after construction and safe for concurrent use.
type Profile struct {
	dialect         core.Dialect
	grammar         Grammar
	lexis           *Lexis
	fkActions       map[core.ForeignKeyEvent][]core.ForeignKeyAction
	capabilities    map[core.Capability]bool
	constraintOrder []core.ColumnConstraint
	requires        map[core.ColumnConstraint]core.ColumnConstraint
	modifiable      []core.ColumnConstraint

	placeholder core.PlaceholderStyle
	jsonPath    core.JSONPathStyle
	jsonExtract Template
	jsonSet     Template

	fullText          map[core.FullTextModifier]Template
	fullTextSeparator string
	booleans          [2]string
}

// NewProfile validates def and builds a Profile. Every template is checked
// against the placeholders its render call site supplies.
func NewProfile(def Definition) (*Profile, error) {
	if _, err := core.ParseDialect(string(def.Dialect)); err != nil {
		return nil, err
	}
	grammar, err := NewGrammar(def.Identifier, def.Literal, def.EscapeBackslash)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", def.Dialect, err)
	}
	lexis, err := NewLexis(def.Dialect, def.Lexis)
	if err != nil {
		return nil, err
	}

	p := &Profile{
		dialect:           def.Dialect,
		grammar:           grammar,
		lexis:             lexis,
		fkActions:         make(map[core.ForeignKeyEvent][]core.ForeignKeyAction, len(def.ForeignKeyActions)),
		capabilities:      make(map[core.Capability]bool, len(def.Capabilities)),
		constraintOrder:   def.ConstraintOrder,
		requires:          maps.Clone(def.ConstraintRequires),
		modifiable:        slices.Clone(def.ModifyConstraints),
		placeholder:       def.Placeholder,
		jsonPath:          def.JSONPath,
		fullText:          make(map[core.FullTextModifier]Template, len(def.FullText)),
		fullTextSeparator: def.FullTextSeparator,
		booleans:          def.BooleanLiterals,
	}
	for event, actions := range def.ForeignKeyActions {
		p.fkActions[event] = slices.Clone(actions)
	}
	for _, c := range def.Capabilities {
		p.capabilities[c] = true
	}
	if p.constraintOrder == nil {
		p.constraintOrder = core.DefaultConstraintOrder()
	}
	if p.placeholder == "" {
		p.placeholder = core.PlaceholderQuestion
	}
	if p.jsonPath == "" {
		p.jsonPath = core.JSONPathExtract
	}
	if p.booleans[0] == "" || p.booleans[1] == "" {
		p.booleans = [2]string{"FALSE", "TRUE"}
	}
	if p.fullTextSeparator == "" {
		p.fullTextSeparator = ", "
	}

	for _, key := range lexis.Keys(core.TableColumnConstraint) {
		if !slices.Contains(p.constraintOrder, core.ColumnConstraint(key)) {
			return nil, fmt.Errorf("%s: column constraint %q is missing from the render order", def.Dialect, key)
		}
	}

	for k, companion := range p.requires {
		for _, c := range []core.ColumnConstraint{k, companion} {
			if !lexis.Supports(core.TableColumnConstraint, string(c)) {
				return nil, fmt.Errorf("%s: constraint requirement names %q which has no template", def.Dialect, c)
			}
		}
	}
	for _, c := range p.modifiable {
		if !lexis.Supports(core.TableColumnConstraint, string(c)) {
			return nil, fmt.Errorf("%s: modifiable constraint %q has no template", def.Dialect, c)
		}
	}

	if p.jsonExtract, err = extraTemplate(def.Dialect, "json extraction", def.JSONExtract, jsonExtractPlaceholders); err != nil {
		return nil, err
	}
	if p.jsonSet, err = extraTemplate(def.Dialect, "json assignment", def.JSONSet, jsonSetPlaceholders); err != nil {
		return nil, err
	}
	if p.jsonPath == core.JSONPathExtract && p.jsonExtract.IsZero() {
		return nil, errors.New(string(def.Dialect) + ": extract json path style requires a json extraction template")
	}
	for mod, text := range def.FullText {
		if _, err := core.ParseFullTextModifier(string(mod)); err != nil {
			return nil, fmt.Errorf("%s: %w", def.Dialect, err)
		}
		tpl, err := extraTemplate(def.Dialect, "full-text "+string(mod), text, fullTextPlaceholders)
		if err != nil {
			return nil, err
		}
		p.fullText[mod] = tpl
	}
	return p, nil
}

func extraTemplate(d core.Dialect, what, text string, allowed []string) (Template, error) {
	if text == "" {
		return Template{}, nil
	}
	tpl := NewTemplate(text)
	if strayBraces(text) {
		return Template{}, fmt.Errorf("%s %s template %q contains a stray brace", d, what, text)
	}
	for _, ph := range tpl.Placeholders() {
		if !slices.Contains(allowed, ph) {
			return Template{}, fmt.Errorf("%s %s template: placeholder {%s} is not supplied", d, what, ph)
		}
	}
	return tpl, nil
}

// MustProfile is like NewProfile but panics on error. It is meant for the
// package level vocabularies that are fixed at compile time.
func MustProfile(def Definition) *Profile {
	p, err := NewProfile(def)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Profile) Dialect() core.Dialect { return p.dialect }
func (p *Profile) Grammar() Grammar      { return p.grammar }
func (p *Profile) Lexis() *Lexis         { return p.lexis }

// QuoteIdentifier quotes a name with the profile's grammar.
func (p *Profile) QuoteIdentifier(name string) string { return p.grammar.QuoteIdentifier(name) }

// QuoteLiteral quotes a string value with the profile's grammar.
func (p *Profile) QuoteLiteral(value string) string { return p.grammar.QuoteLiteral(value) }

// Supports reports whether the profile advertises a capability.
func (p *Profile) Supports(c core.Capability) bool { return p.capabilities[c] }

// RequireCapability returns an UnsupportedFeatureError when c is not advertised.
func (p *Profile) RequireCapability(c core.Capability) error {
	if !p.capabilities[c] {
		return &core.UnsupportedFeatureError{Dialect: p.dialect, Key: string(c)}
	}
	return nil
}

// ForeignKeyAction checks that action is allowed for event.
func (p *Profile) ForeignKeyAction(event core.ForeignKeyEvent, action core.ForeignKeyAction) error {
	if !slices.Contains(p.fkActions[event], action) {
		return &core.UnsupportedFeatureError{
			Dialect: p.dialect,
			Kind:    core.TableTableConstraint,
			Key:     string(event) + " " + string(action),
		}
	}
	return nil
}

// ConstraintOrder returns the column constraint render order.
func (p *Profile) ConstraintOrder() []core.ColumnConstraint {
	return slices.Clone(p.constraintOrder)
}

// RequiredCompanion returns the constraint k must be bound next to, if any.
func (p *Profile) RequiredCompanion(k core.ColumnConstraint) (core.ColumnConstraint, bool) {
	c, ok := p.requires[k]
	return c, ok
}

// Modifiable reports whether a restated modify_column definition may carry k.
func (p *Profile) Modifiable(k core.ColumnConstraint) bool {
	return p.modifiable == nil || slices.Contains(p.modifiable, k)
}

func (p *Profile) PlaceholderStyle() core.PlaceholderStyle { return p.placeholder }
func (p *Profile) JSONPathStyle() core.JSONPathStyle       { return p.jsonPath }

// JSONExtract returns the template used to read a json path.
func (p *Profile) JSONExtract() (Template, error) {
	if p.jsonExtract.IsZero() {
		return Template{}, &core.UnsupportedFeatureError{Dialect: p.dialect, Key: "json extraction"}
	}
	return p.jsonExtract, nil
}

// JSONSet returns the template used to write a json path.
func (p *Profile) JSONSet() (Template, error) {
	if p.jsonSet.IsZero() {
		return Template{}, &core.UnsupportedFeatureError{Dialect: p.dialect, Key: "json assignment"}
	}
	return p.jsonSet, nil
}

// FullText returns the full-text predicate template for a modifier.
func (p *Profile) FullText(mod core.FullTextModifier) (Template, error) {
	tpl, ok := p.fullText[mod]
	if !ok {
		return Template{}, &core.UnsupportedFeatureError{Dialect: p.dialect, Key: "full-text " + string(mod)}
	}
	return tpl, nil
}

// FullTextSeparator joins the columns of a full-text predicate.
func (p *Profile) FullTextSeparator() string { return p.fullTextSeparator }

// BooleanLiteral spells b in the dialect.
func (p *Profile) BooleanLiteral(b bool) string {
	if b {
		return p.booleans[1]
	}
	return p.booleans[0]
}
