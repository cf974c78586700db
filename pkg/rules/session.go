package rules

import (
	"strings"

	"github.com/aretw0/plenum/pkg/domain"
	"github.com/aretw0/plenum/pkg/patterns"
)

// SittingRule builds the SessionHeaderRecord from "230. Sitzung", the
// following "place, date" line and the optional "Beginn:" line.
type SittingRule struct {
	base
}

// NewSittingRule is the Factory of SittingRule.
func NewSittingRule(line string, env *Env) Rule {
	return &SittingRule{base: newBase("SittingRule", line, env, env.matcher(patterns.Sitting))}
}

func (r *SittingRule) Apply(lookahead []Token) (Result, error) {
	if err := r.ready(); err != nil {
		return Result{}, err
	}
	span, err := r.lookAhead(lookahead)
	if err != nil {
		return r.fail(err)
	}

	raw := map[string]any{domain.FieldSitting: span.Lines[0]}
	for _, line := range span.Lines[1:] {
		switch {
		case r.env.Patterns.Match(patterns.SessionBegin, line):
			if _, ok := raw[domain.FieldBegin]; !ok {
				raw[domain.FieldBegin] = line
			}
		case strings.Contains(line, ","):
			if _, ok := raw[domain.FieldDate]; !ok {
				if _, err := domain.ExtractDate(line, r.env.Dates); err == nil {
					raw[domain.FieldLocation] = line
					raw[domain.FieldDate] = line
				}
			}
		}
	}

	s, err := domain.NewSessionHeaderRecord(raw, r.env.Dates)
	if err != nil {
		return r.fail(err)
	}
	return r.done(s, span.Consumed)
}
