// Package schema provides the field schemas records are validated against.
//
// A Schema maps field names to a Field, which pairs a Type with a required flag.
// Types are small validators for strings, integers, lines of text, dates and
// nested records. Validation collects every failure instead of stopping at the
// first one:
//
//	s := schema.Schema{
//	    "parliament": schema.Required(schema.String()),
//	    "date":       schema.Required(schema.Time()),
//	    "begin":      schema.Optional(schema.String()),
//	}
//
//	if err := schema.Validate(s, raw); err != nil {
//	    for _, e := range schema.ValidationErrors(err) {
//	        // ...
//	    }
//	}
//
// The package has no dependencies beyond the standard library so that the
// domain layer can use it without pulling in adapters.
package schema
