package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrSchemaViolation marks raw input that does not satisfy a record schema.
	ErrSchemaViolation = errors.New("schema violation")
	// ErrWriteViolation marks a write to a write-protected field.
	ErrWriteViolation = errors.New("write violation")
	// ErrReadViolation marks a read of a read-protected field.
	ErrReadViolation = errors.New("read violation")
	// ErrUnknownField is returned for field names a record does not declare.
	ErrUnknownField = errors.New("unknown field")
	// ErrRuleApplication marks a rule that could not build its record.
	ErrRuleApplication = errors.New("rule application failed")
	// ErrInvalidState is returned when a rule is driven out of order.
	ErrInvalidState = errors.New("invalid rule state")
	// ErrParserCoherence marks a section parser without rules or input.
	ErrParserCoherence = errors.New("parser coherence")
	// ErrAssignment marks a contradictory section position layout.
	ErrAssignment = errors.New("section assignment")
	// ErrSectionMissing marks a section whose position lies outside the document.
	ErrSectionMissing = errors.New("section missing")
	// ErrNotFound is returned by stores for unknown document ids.
	ErrNotFound = errors.New("protocol not found")
)

// SchemaViolation wraps the schema errors of a record construction.
type SchemaViolation struct {
	Kind Kind
	Err  error
}

func (e *SchemaViolation) Error() string {
	return fmt.Sprintf("%s record violates its schema: %v", e.Kind, e.Err)
}

func (e *SchemaViolation) Unwrap() error { return e.Err }

func (e *SchemaViolation) Is(target error) bool { return target == ErrSchemaViolation }

// FieldError reports a value a field setter could not accept.
type FieldError struct {
	Kind  Kind
	Field string
	Value any
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("cannot assign %q on %s record: %v", e.Field, e.Kind, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

func (e *FieldError) Is(target error) bool { return target == ErrSchemaViolation }

// WriteViolation is returned when a protected field is overwritten.
type WriteViolation struct {
	Kind  Kind
	Field string
}

func (e *WriteViolation) Error() string {
	return fmt.Sprintf("attribute %q is not writable", e.Field)
}

func (e *WriteViolation) Is(target error) bool { return target == ErrWriteViolation }

// ReadViolation is returned when a protected field is read.
type ReadViolation struct {
	Kind  Kind
	Field string
}

func (e *ReadViolation) Error() string {
	return fmt.Sprintf("attribute %q is not readable", e.Field)
}

func (e *ReadViolation) Is(target error) bool { return target == ErrReadViolation }

// RuleApplicationError wraps the reason a rule could not build its record
// together with the raw input it was given.
type RuleApplicationError struct {
	Rule   string
	Input  []string
	Reason error
}

func (e *RuleApplicationError) Error() string {
	return fmt.Sprintf("rule %s couldn't be applied to the following input:\n\t%s\nthe following problem occurred: %v",
		e.Rule, strings.Join(e.Input, "\n\t"), e.Reason)
}

func (e *RuleApplicationError) Unwrap() error { return e.Reason }

func (e *RuleApplicationError) Is(target error) bool { return target == ErrRuleApplication }

// ParserCoherenceError reports a structurally unusable section parser.
type ParserCoherenceError struct {
	Parser  string
	Problem string
}

func (e *ParserCoherenceError) Error() string {
	return fmt.Sprintf("%s %s", e.Parser, e.Problem)
}

func (e *ParserCoherenceError) Is(target error) bool { return target == ErrParserCoherence }

// NoRulesError is returned by parsers configured without rules.
func NoRulesError(parser string) error {
	return &ParserCoherenceError{Parser: parser, Problem: "doesn't possess any rules to utilize"}
}

// NoInputError is returned by parsers started without input lines.
func NoInputError(parser string) error {
	return &ParserCoherenceError{Parser: parser, Problem: "doesn't have any input to parse"}
}

// AssignmentError reports sections that claim the same block.
type AssignmentError struct {
	Block    int
	Sections []string
}

func (e *AssignmentError) Error() string {
	sections := append([]string(nil), e.Sections...)
	sort.Strings(sections)
	return fmt.Sprintf("sections %s are assigned to the same block %d", strings.Join(sections, ", "), e.Block)
}

func (e *AssignmentError) Is(target error) bool { return target == ErrAssignment }

// IsRecoverable reports whether err is one of the parser's own error kinds,
// which orchestrators turn into an EmptyRecord instead of aborting.
func IsRecoverable(err error) bool {
	if err == nil {
		return false
	}
	for _, target := range []error{
		ErrSchemaViolation,
		ErrWriteViolation,
		ErrReadViolation,
		ErrUnknownField,
		ErrRuleApplication,
		ErrInvalidState,
		ErrParserCoherence,
		ErrSectionMissing,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
