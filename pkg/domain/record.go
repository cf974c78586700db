package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/plenum/pkg/schema"
)

// Record is the closed set of typed records. Concrete records are created by
// their New* constructors, which validate raw input against the record schema
// and assign every field exactly once through the record's setter.
type Record interface {
	// Kind names the concrete record type.
	Kind() Kind
	// Get returns a field value. Read-protected fields fail with a ReadViolation.
	Get(field string) (any, error)
	// Set formats and stores a field value. Write-protected fields fail with a WriteViolation.
	Set(field string, value any) error
	// Attributes returns the public fields, ready for encoding. Nested records
	// are returned as their own attribute maps.
	Attributes() map[string]any

	record()
}

// DateParser turns the date part of a protocol line into a calendar date.
type DateParser func(string) (time.Time, error)

// guard keeps the per-record protection sets. Protection only takes effect
// once the record is sealed at the end of construction.
type guard struct {
	kind           Kind
	writeProtected map[string]struct{}
	readProtected  map[string]struct{}
	sealed         bool
}

func newGuard(kind Kind, writeProtected, readProtected []string) guard {
	g := guard{
		kind:           kind,
		writeProtected: make(map[string]struct{}, len(writeProtected)),
		readProtected:  make(map[string]struct{}, len(readProtected)),
	}
	for _, name := range writeProtected {
		g.writeProtected[name] = struct{}{}
	}
	for _, name := range readProtected {
		g.readProtected[name] = struct{}{}
	}
	return g
}

func (g *guard) checkWrite(field string) error {
	if _, ok := g.writeProtected[field]; ok && g.sealed {
		return &WriteViolation{Kind: g.kind, Field: field}
	}
	return nil
}

func (g *guard) checkRead(field string) error {
	if _, ok := g.readProtected[field]; ok {
		return &ReadViolation{Kind: g.kind, Field: field}
	}
	return nil
}

func (g *guard) readable(field string) bool {
	_, hidden := g.readProtected[field]
	return !hidden
}

func (g *guard) seal() { g.sealed = true }

func (g *guard) unknown(field string) error {
	return &FieldError{Kind: g.kind, Field: field, Err: ErrUnknownField}
}

// construct validates raw against s and assigns each present field once.
func construct(kind Kind, s schema.Schema, raw map[string]any, assign func(string, any) error) error {
	if err := schema.Validate(s, raw); err != nil {
		return &SchemaViolation{Kind: kind, Err: err}
	}
	for _, name := range s.Names() {
		value, ok := raw[name]
		if !ok || value == nil {
			continue
		}
		if err := assign(name, value); err != nil {
			return err
		}
	}
	return nil
}

func fieldErr(kind Kind, field string, value any, format string, args ...any) error {
	return &FieldError{Kind: kind, Field: field, Value: value, Err: fmt.Errorf(format, args...)}
}

func asString(kind Kind, field string, value any) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", fieldErr(kind, field, value, "expected string, got %T", value)
	}
	return strings.TrimSpace(s), nil
}

func asLines(kind Kind, field string, value any) ([]string, error) {
	switch v := value.(type) {
	case []string:
		return append([]string(nil), v...), nil
	case []any:
		lines := make([]string, 0, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fieldErr(kind, field, value, "element %d: expected string, got %T", i, item)
			}
			lines = append(lines, s)
		}
		return lines, nil
	default:
		return nil, fieldErr(kind, field, value, "expected lines, got %T", value)
	}
}

func asInt(kind Kind, field string, value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v == float64(int(v)) {
			return int(v), nil
		}
	}
	return 0, fieldErr(kind, field, value, "expected int, got %T", value)
}

// recordOf is a schema type accepting records of the given kinds.
func recordOf(kinds ...Kind) schema.Type {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return schema.Custom("record("+strings.Join(names, "|")+")", func(v any) error {
		r, ok := v.(Record)
		if !ok || r == nil {
			return fmt.Errorf("expected record, got %T", v)
		}
		for _, k := range kinds {
			if r.Kind() == k {
				return nil
			}
		}
		return fmt.Errorf("unexpected %s record", r.Kind())
	})
}

func attributesOf[R Record](records []R) []map[string]any {
	out := make([]map[string]any, 0, len(records))
	for _, r := range records {
		out = append(out, Snapshot(r))
	}
	return out
}

// Snapshot returns the attribute view of r tagged with its kind.
func Snapshot(r Record) map[string]any {
	if r == nil {
		return nil
	}
	attrs := r.Attributes()
	attrs["kind"] = string(r.Kind())
	return attrs
}

// Date layout of the attribute view.
const attributeDateLayout = "2006-01-02"
