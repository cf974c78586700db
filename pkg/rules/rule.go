// Package rules implements the rules that turn segments of raw lines into
// typed records.
//
// A rule instance is created for a candidate line and walks through
//
//	Untriggered -> Triggered -> Expanding -> Applied | Failed
//
// Start moves a matching rule to Triggered, Expand folds filler lines into
// it and Apply builds exactly one record from everything accumulated.
package rules

import (
	"fmt"

	"github.com/aretw0/plenum/pkg/domain"
)

// State of a rule instance.
type State int

const (
	Untriggered State = iota
	Triggered
	Expanding
	Applied
	Failed
)

func (s State) String() string {
	switch s {
	case Untriggered:
		return "untriggered"
	case Triggered:
		return "triggered"
	case Expanding:
		return "expanding"
	case Applied:
		return "applied"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Rule is one rule instance anchored on a trigger line.
type Rule interface {
	// Name identifies the rule kind, e.g. "HeaderRule".
	Name() string
	State() State
	// Triggers reports whether the anchor line matches the rule's trigger.
	Triggers() bool
	// Start moves a matching rule from Untriggered to Triggered.
	Start() error
	// Expand appends filler lines to the accumulated input.
	Expand(fillers ...*domain.FillerRecord) error
	// Input returns the accumulated raw lines, anchor line first.
	Input() []string
	// Apply builds the rule's record. lookahead is the accumulated input
	// followed by the token that ends the segment.
	Apply(lookahead []Token) (Result, error)
}

// Result of a successful Apply.
type Result struct {
	Record domain.Record
	// Consumed is the number of input lines the record was built from,
	// counted according to the boundary policy.
	Consumed int
}

// Factory creates an untriggered rule for a candidate line.
type Factory func(line string, env *Env) Rule

// base carries the state machine shared by all rules.
type base struct {
	name    string
	env     *Env
	trigger func(string) bool
	lines   []string
	state   State
}

func newBase(name, line string, env *Env, trigger func(string) bool) base {
	return base{name: name, env: env, trigger: trigger, lines: []string{line}}
}

func (b *base) Name() string   { return b.name }
func (b *base) State() State   { return b.state }
func (b *base) Triggers() bool { return b.trigger != nil && b.trigger(b.lines[0]) }

func (b *base) Start() error {
	if b.state != Untriggered {
		return fmt.Errorf("%w: %s cannot start while %s", domain.ErrInvalidState, b.name, b.state)
	}
	if !b.Triggers() {
		return fmt.Errorf("%w: %s does not trigger on %q", domain.ErrInvalidState, b.name, b.lines[0])
	}
	b.state = Triggered
	return nil
}

func (b *base) Expand(fillers ...*domain.FillerRecord) error {
	if b.state != Triggered && b.state != Expanding {
		return fmt.Errorf("%w: %s cannot expand while %s", domain.ErrInvalidState, b.name, b.state)
	}
	for i, f := range fillers {
		if f == nil {
			return fmt.Errorf("%w: %s got a nil filler at %d", domain.ErrInvalidState, b.name, i)
		}
	}
	for _, f := range fillers {
		b.lines = append(b.lines, f.Line())
	}
	b.state = Expanding
	return nil
}

func (b *base) Input() []string {
	return append([]string(nil), b.lines...)
}

// ready guards Apply.
func (b *base) ready() error {
	if b.state != Triggered && b.state != Expanding {
		return fmt.Errorf("%w: %s cannot apply while %s", domain.ErrInvalidState, b.name, b.state)
	}
	return nil
}

func (b *base) fail(reason error) (Result, error) {
	b.state = Failed
	return Result{}, &domain.RuleApplicationError{Rule: b.name, Input: b.Input(), Reason: reason}
}

func (b *base) done(r domain.Record, consumed int) (Result, error) {
	b.state = Applied
	return Result{Record: r, Consumed: consumed}, nil
}

// lookAhead runs the shared look-ahead over the input, stopping at any
// trigger of the section.
func (b *base) lookAhead(tokens []Token) (Span, error) {
	return LookAhead(tokens, b.env.isBoundary(b.trigger), b.env.Boundary)
}
