package rules

import (
	"errors"
	"fmt"

	"github.com/aretw0/plenum/pkg/domain"
)

// ErrNoBoundary is the reason a look-ahead rule fails when its input runs out
// before any boundary.
var ErrNoBoundary = errors.New("no boundary found before end of input")

// BoundaryPolicy settles where a look-ahead span ends.
type BoundaryPolicy struct {
	// IncludeTerminator adds the terminating trigger line to the span.
	IncludeTerminator bool
	// CountTrigger counts the anchoring trigger line in Span.Consumed.
	CountTrigger bool
}

// DefaultBoundary excludes the terminating line and counts the trigger line.
var DefaultBoundary = BoundaryPolicy{CountTrigger: true}

// Token is one unit of look-ahead input: a raw line, an already structured
// record, or the end of the section.
type Token struct {
	Line   string
	Record domain.Record
	end    bool
}

// EndOfSection terminates the look-ahead of the last rule in a section.
var EndOfSection = Token{end: true}

// LineToken wraps a raw line.
func LineToken(line string) Token { return Token{Line: line} }

// RecordToken wraps an already structured record.
func RecordToken(r domain.Record) Token { return Token{Record: r} }

// Structured reports whether the token is a record or the section end.
func (t Token) Structured() bool { return t.Record != nil || t.end }

// Tokens turns lines into tokens followed by terminator.
func Tokens(lines []string, terminator Token) []Token {
	out := make([]Token, 0, len(lines)+1)
	for _, l := range lines {
		out = append(out, LineToken(l))
	}
	return append(out, terminator)
}

// Span is the result of a look-ahead scan.
type Span struct {
	Lines    []string
	Consumed int
}

// LookAhead scans tokens from the anchoring trigger line until the next line
// for which isBoundary holds or a structured token. It fails when the tokens
// run out first.
func LookAhead(tokens []Token, isBoundary func(string) bool, policy BoundaryPolicy) (Span, error) {
	if len(tokens) == 0 || tokens[0].Structured() {
		return Span{}, fmt.Errorf("look-ahead needs a trigger line to start from")
	}

	lines := []string{tokens[0].Line}
	for i := 1; i < len(tokens); i++ {
		t := tokens[i]
		if !t.Structured() && !isBoundary(t.Line) {
			lines = append(lines, t.Line)
			continue
		}

		if policy.IncludeTerminator && !t.Structured() {
			lines = append(lines, t.Line)
		}
		consumed := i
		if !policy.CountTrigger {
			consumed--
		}
		return Span{Lines: lines, Consumed: consumed}, nil
	}
	return Span{}, ErrNoBoundary
}
