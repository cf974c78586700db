package schema

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

// Type defines the contract for field validation.
type Type interface {
	// Name returns the human-readable name of the type (e.g., "string", "int").
	Name() string
	// Validate checks if a value conforms to this type.
	Validate(value any) error
}

// Field couples a Type with its presence requirement.
type Field struct {
	Type     Type
	Required bool
}

// Required declares a field that must be present.
func Required(t Type) Field { return Field{Type: t, Required: true} }

// Optional declares a field that may be absent or nil.
func Optional(t Type) Field { return Field{Type: t} }

// StringType validates string values.
type StringType struct {
	nonEmpty bool
}

func (t *StringType) Name() string {
	if t.nonEmpty {
		return "non-empty string"
	}
	return "string"
}

func (t *StringType) Validate(value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected string, got %T", value)
	}
	if t.nonEmpty && strings.TrimSpace(s) == "" {
		return fmt.Errorf("expected non-empty string")
	}
	return nil
}

// IntType validates integer values.
type IntType struct{}

func (t *IntType) Name() string { return "int" }

func (t *IntType) Validate(value any) error {
	switch v := value.(type) {
	case int, int8, int16, int32, int64:
		return nil
	case float64:
		// Accept floats that are whole numbers (from JSON unmarshaling)
		if v == float64(int64(v)) {
			return nil
		}
		return fmt.Errorf("expected int, got float (not a whole number)")
	default:
		return fmt.Errorf("expected int, got %T", value)
	}
}

// TimeType validates time.Time values.
type TimeType struct{}

func (t *TimeType) Name() string { return "time" }

func (t *TimeType) Validate(value any) error {
	v, ok := value.(time.Time)
	if !ok {
		return fmt.Errorf("expected time, got %T", value)
	}
	if v.IsZero() {
		return fmt.Errorf("expected a non-zero time")
	}
	return nil
}

// SliceType validates slices of a specific element type.
type SliceType struct {
	elemType Type
	minLen   int
}

func (t *SliceType) Name() string {
	return fmt.Sprintf("[%s]", t.elemType.Name())
}

func (t *SliceType) Validate(value any) error {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return fmt.Errorf("expected slice, got %T", value)
	}
	if rv.Len() < t.minLen {
		return fmt.Errorf("expected at least %d elements, got %d", t.minLen, rv.Len())
	}

	for i := 0; i < rv.Len(); i++ {
		elem := rv.Index(i).Interface()
		if err := t.elemType.Validate(elem); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	return nil
}

// OneOfType accepts a value that satisfies any of its alternatives.
type OneOfType struct {
	alternatives []Type
}

func (t *OneOfType) Name() string {
	names := make([]string, len(t.alternatives))
	for i, alt := range t.alternatives {
		names[i] = alt.Name()
	}
	return strings.Join(names, "|")
}

func (t *OneOfType) Validate(value any) error {
	for _, alt := range t.alternatives {
		if alt.Validate(value) == nil {
			return nil
		}
	}
	return fmt.Errorf("expected %s, got %T", t.Name(), value)
}

// CustomType applies a user-defined validation function.
type CustomType struct {
	name     string
	validate func(any) error
}

func (t *CustomType) Name() string { return t.name }

func (t *CustomType) Validate(value any) error {
	return t.validate(value)
}

// String creates a string type validator.
func String() Type { return &StringType{} }

// NonEmptyString rejects strings that are empty after trimming.
func NonEmptyString() Type { return &StringType{nonEmpty: true} }

// Int creates an integer type validator.
func Int() Type { return &IntType{} }

// Time creates a validator for non-zero time.Time values.
func Time() Type { return &TimeType{} }

// Slice creates a slice type validator for elements of the given type.
func Slice(elemType Type) Type {
	return &SliceType{elemType: elemType}
}

// Lines validates a slice of strings holding at least min entries.
func Lines(min int) Type {
	return &SliceType{elemType: String(), minLen: min}
}

// OneOf accepts any value valid for one of the given types.
func OneOf(alternatives ...Type) Type {
	return &OneOfType{alternatives: alternatives}
}

// Custom creates a custom type validator with a user-defined function.
func Custom(name string, validate func(any) error) Type {
	return &CustomType{name: name, validate: validate}
}
