package schema

import "sort"

// Schema is a map of field names to their declarations.
type Schema map[string]Field

// Names returns the declared field names in a stable order.
func (s Schema) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks if data conforms to the schema.
// Unknown keys, missing required keys and type mismatches are all reported.
func Validate(schema Schema, data map[string]any) error {
	var errs []error

	for _, name := range schema.Names() {
		field := schema[name]
		value, exists := data[name]
		if !exists || value == nil {
			if field.Required {
				errs = append(errs, &ValidationError{Key: name, Reason: "required"})
			}
			continue
		}

		if err := field.Type.Validate(value); err != nil {
			errs = append(errs, &ValidationError{
				Key:    name,
				Reason: err.Error(),
				Value:  value,
			})
		}
	}

	unknown := make([]string, 0)
	for name := range data {
		if _, ok := schema[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	for _, name := range unknown {
		errs = append(errs, &ValidationError{Key: name, Reason: "not defined in schema"})
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

// ValidateFields validates only specific fields from data against the schema.
// Missing fields are treated as an error.
func ValidateFields(schema Schema, data map[string]any, fields ...string) error {
	if len(fields) == 0 {
		return nil
	}

	var errs []error
	for _, name := range fields {
		field, exists := schema[name]
		if !exists {
			errs = append(errs, &ValidationError{Key: name, Reason: "not defined in schema"})
			continue
		}

		value, present := data[name]
		if !present || value == nil {
			errs = append(errs, &ValidationError{Key: name, Reason: "required"})
			continue
		}

		if err := field.Type.Validate(value); err != nil {
			errs = append(errs, &ValidationError{Key: name, Reason: err.Error(), Value: value})
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}
