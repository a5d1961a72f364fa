package core

import (
	"fmt"
	"regexp"
	"strings"
)

// ValidationError represents an error found while validating a table
// definition or a configuration entry.
type ValidationError struct {
	Entity  string
	Name    string
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error in %s %q field %q: %s", e.Entity, e.Name, e.Field, e.Message)
	}
	return fmt.Sprintf("validation error in %s %q: %s", e.Entity, e.Name, e.Message)
}

var reIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$]*$`)

// ValidateIdentifier checks a bare (unquoted, undotted) table or column name.
func ValidateIdentifier(entity, name string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Entity: entity, Name: "(empty)", Message: entity + " name is empty"}
	}
	if !reIdentifier.MatchString(name) {
		return &ValidationError{Entity: entity, Name: name, Message: "name must start with a letter or underscore and contain only letters, digits, '_' or '$'"}
	}
	return nil
}
