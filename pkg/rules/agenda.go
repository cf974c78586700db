package rules

import (
	"fmt"

	"github.com/aretw0/plenum/pkg/domain"
	"github.com/aretw0/plenum/pkg/patterns"
)

// AgendaItemRule builds an AgendaItem from "Tagesordnungspunkt N:" and the
// lines up to the next agenda trigger.
type AgendaItemRule struct {
	base
}

// NewAgendaItemRule is the Factory of AgendaItemRule.
func NewAgendaItemRule(line string, env *Env) Rule {
	return &AgendaItemRule{base: newBase("AgendaItemRule", line, env, env.matcher(patterns.AgendaItem))}
}

func (r *AgendaItemRule) Apply(lookahead []Token) (Result, error) {
	if err := r.ready(); err != nil {
		return Result{}, err
	}
	span, err := r.lookAhead(lookahead)
	if err != nil {
		return r.fail(err)
	}

	head := span.Lines[0]
	item, err := domain.NewAgendaItem(map[string]any{
		domain.FieldItemType:   head,
		domain.FieldItemNumber: head,
		domain.FieldSubItems:   span.Lines[1:],
		domain.FieldSource:     span.Lines,
	}, r.env.AgendaFormat())
	if err != nil {
		return r.fail(err)
	}
	return r.done(item, span.Consumed)
}

// AgendaAttachmentRule keeps an "Anlage N" entry of the agenda as opaque content.
type AgendaAttachmentRule struct {
	base
}

// NewAgendaAttachmentRule is the Factory of AgendaAttachmentRule.
func NewAgendaAttachmentRule(line string, env *Env) Rule {
	return &AgendaAttachmentRule{base: newBase("AgendaAttachmentRule", line, env, env.matcher(patterns.AgendaAttachment))}
}

func (r *AgendaAttachmentRule) Apply(lookahead []Token) (Result, error) {
	if err := r.ready(); err != nil {
		return Result{}, err
	}
	span, err := r.lookAhead(lookahead)
	if err != nil {
		return r.fail(err)
	}

	att, err := domain.NewAgendaAttachment(map[string]any{domain.FieldContent: span.Lines})
	if err != nil {
		return r.fail(err)
	}
	return r.done(att, span.Consumed)
}

// MinCommentLines is the shortest segment accepted as an agenda comment.
const MinCommentLines = 3

// AgendaCommentRule builds an AgendaComment from an identifier line and a
// comment line. A segment whose first two lines look like an item or an
// attachment is rejected as a misfire.
type AgendaCommentRule struct {
	base
}

// NewAgendaCommentRule is the Factory of AgendaCommentRule.
func NewAgendaCommentRule(line string, env *Env) Rule {
	return &AgendaCommentRule{base: newBase("AgendaCommentRule", line, env, env.matcher(patterns.AgendaComment))}
}

func (r *AgendaCommentRule) Apply(lookahead []Token) (Result, error) {
	if err := r.ready(); err != nil {
		return Result{}, err
	}
	span, err := r.lookAhead(lookahead)
	if err != nil {
		return r.fail(err)
	}
	if len(span.Lines) < MinCommentLines {
		return r.fail(fmt.Errorf("expected at least %d lines, got %d", MinCommentLines, len(span.Lines)))
	}
	for _, line := range span.Lines[:2] {
		if r.env.Patterns.Match(patterns.AgendaItem, line) || r.env.Patterns.Match(patterns.AgendaAttachment, line) {
			return r.fail(fmt.Errorf("%q opens an agenda item or attachment", line))
		}
	}

	c, err := domain.NewAgendaComment(map[string]any{
		domain.FieldIdentifier: span.Lines[0],
		domain.FieldComment:    span.Lines[1],
	})
	if err != nil {
		return r.fail(err)
	}
	return r.done(c, span.Consumed)
}
