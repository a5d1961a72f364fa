package dml

import (
	"database/sql/driver"
	"fmt"
	"reflect"
	"strings"
	"time"

	"dbforge/internal/core"
)

var operators = map[string]bool{
	"=":        true,
	"!=":       true,
	"<>":       true,
	"<":        true,
	"<=":       true,
	">":        true,
	">=":       true,
	"LIKE":     true,
	"NOT LIKE": true,
}

// normalizeOperator upper-cases op and collapses inner whitespace.
func normalizeOperator(op string) (string, error) {
	n := strings.ToUpper(strings.Join(strings.Fields(op), " "))
	if !operators[n] {
		return "", &core.InvalidOperatorError{Value: op}
	}
	return n, nil
}

// scalar rejects composite values. []byte, time.Time and driver.Valuer are
// scalars.
func scalar(operation string, v any) error {
	switch v.(type) {
	case nil, []byte, time.Time, driver.Valuer:
		return nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
		if _, ok := rv.Interface().(time.Time); ok {
			return nil
		}
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.Struct:
		return &core.MisplacedCompositeError{Operation: operation, Got: fmt.Sprintf("%T", v)}
	}
	return nil
}

// list flattens a slice or array into scalar values.
func list(operation string, v any) ([]any, error) {
	if _, ok := v.([]byte); ok {
		return nil, &core.InvalidArgumentShapeError{Operation: operation, Got: "[]byte"}
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
	default:
		return nil, &core.InvalidArgumentShapeError{Operation: operation, Got: fmt.Sprintf("%T", v)}
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
		if err := scalar(operation, out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}
