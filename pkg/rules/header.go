package rules

import (
	"fmt"

	"github.com/aretw0/plenum/pkg/domain"
	"github.com/aretw0/plenum/pkg/patterns"
)

// HeaderLines is the exact size of a protocol header.
const HeaderLines = 4

// HeaderRule turns the four title lines into a HeaderRecord. It does not
// look ahead: the input must be exactly the header.
type HeaderRule struct {
	base
}

// NewHeaderRule is the Factory of HeaderRule.
func NewHeaderRule(line string, env *Env) Rule {
	return &HeaderRule{base: newBase("HeaderRule", line, env, env.matcher(patterns.Header))}
}

func (r *HeaderRule) Apply(_ []Token) (Result, error) {
	if err := r.ready(); err != nil {
		return Result{}, err
	}
	if len(r.lines) != HeaderLines {
		return r.fail(fmt.Errorf("expected %d lines, got %d", HeaderLines, len(r.lines)))
	}

	h, err := domain.NewHeaderRecord(map[string]any{
		domain.FieldParliament:   r.lines[0],
		domain.FieldDocumentType: r.lines[1],
		domain.FieldNumber:       r.lines[2],
		domain.FieldLocation:     r.lines[3],
		domain.FieldDate:         r.lines[3],
		domain.FieldSource:       r.Input(),
	}, r.env.Dates)
	if err != nil {
		return r.fail(err)
	}
	consumed := len(r.lines)
	if !r.env.Boundary.CountTrigger {
		consumed--
	}
	return r.done(h, consumed)
}
