package core

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedFeature      = errors.New("unsupported feature")
	ErrInvalidOperator         = errors.New("invalid operator")
	ErrInvalidSortDirection    = errors.New("invalid sort direction")
	ErrInvalidFullTextModifier = errors.New("invalid full-text modifier")
	ErrInvalidArgumentShape    = errors.New("invalid argument shape")
	ErrMisplacedComposite      = errors.New("misplaced composite value")
)

// UnsupportedFeatureError is returned when the active dialect has no
// equivalent for a requested feature.
type UnsupportedFeatureError struct {
	Dialect Dialect
	Kind    TableKind
	Key     string
}

func (e *UnsupportedFeatureError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("%s does not support %q", e.Dialect, e.Key)
	}
	return fmt.Sprintf("%s does not support %s %q", e.Dialect, e.Kind, e.Key)
}

func (e *UnsupportedFeatureError) Is(target error) bool { return target == ErrUnsupportedFeature }

// InvalidOperatorError is returned for a comparison operator outside the allow-list.
type InvalidOperatorError struct {
	Value string
}

func (e *InvalidOperatorError) Error() string {
	return fmt.Sprintf("invalid operator %q", e.Value)
}

func (e *InvalidOperatorError) Is(target error) bool { return target == ErrInvalidOperator }

// InvalidSortDirectionError is returned for a sort direction outside the allow-list.
type InvalidSortDirectionError struct {
	Value string
}

func (e *InvalidSortDirectionError) Error() string {
	return fmt.Sprintf("invalid sort direction %q", e.Value)
}

func (e *InvalidSortDirectionError) Is(target error) bool { return target == ErrInvalidSortDirection }

// InvalidFullTextModifierError is returned for a full-text modifier outside the allow-list.
type InvalidFullTextModifierError struct {
	Value string
}

func (e *InvalidFullTextModifierError) Error() string {
	return fmt.Sprintf("invalid full-text modifier %q", e.Value)
}

func (e *InvalidFullTextModifierError) Is(target error) bool {
	return target == ErrInvalidFullTextModifier
}

// InvalidArgumentShapeError is returned when a keyed mapping is supplied where
// a plain list is required.
type InvalidArgumentShapeError struct {
	Operation string
	Got       string
}

func (e *InvalidArgumentShapeError) Error() string {
	return fmt.Sprintf("%s expects a plain list, got %s", e.Operation, e.Got)
}

func (e *InvalidArgumentShapeError) Is(target error) bool { return target == ErrInvalidArgumentShape }

// MisplacedCompositeError is returned when a composite value is supplied where
// a scalar is required.
type MisplacedCompositeError struct {
	Operation string
	Got       string
}

func (e *MisplacedCompositeError) Error() string {
	return fmt.Sprintf("%s expects a scalar value, got %s", e.Operation, e.Got)
}

func (e *MisplacedCompositeError) Is(target error) bool { return target == ErrMisplacedComposite }
