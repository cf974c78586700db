package rules

import (
	"github.com/aretw0/plenum/pkg/domain"
	"github.com/aretw0/plenum/pkg/patterns"
)

// AttachmentRule builds an AttachmentRecord from "Anlage N", a title line and
// the content up to the next attachment.
type AttachmentRule struct {
	base
}

// NewAttachmentRule is the Factory of AttachmentRule.
func NewAttachmentRule(line string, env *Env) Rule {
	return &AttachmentRule{base: newBase("AttachmentRule", line, env, env.matcher(patterns.Attachment))}
}

func (r *AttachmentRule) Apply(lookahead []Token) (Result, error) {
	if err := r.ready(); err != nil {
		return Result{}, err
	}
	span, err := r.lookAhead(lookahead)
	if err != nil {
		return r.fail(err)
	}

	raw := map[string]any{domain.FieldNumber: span.Lines[0]}
	if len(span.Lines) > 1 {
		raw[domain.FieldTitle] = span.Lines[1]
	}
	if len(span.Lines) > 2 {
		raw[domain.FieldContent] = span.Lines[2:]
	}

	a, err := domain.NewAttachmentRecord(raw)
	if err != nil {
		return r.fail(err)
	}
	return r.done(a, span.Consumed)
}
