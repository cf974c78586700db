// Package section runs the grammar of one protocol section over its lines.
//
// A Parser moves through
//
//	Lexing -> Reducing -> Applying -> Done | EmptyResult
//
// Lexing classifies every line as the start of a rule or as a filler,
// reducing folds fillers into the preceding rule and applying turns each
// rule into a record. Recoverable failures in any phase degrade the section
// to a single EmptyRecord.
package section

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/plenum/internal/logging"
	"github.com/aretw0/plenum/pkg/domain"
	"github.com/aretw0/plenum/pkg/rules"
)

// State of a section parser.
type State int

const (
	Idle State = iota
	Lexing
	Reducing
	Applying
	Done
	EmptyResult
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Lexing:
		return "lexing"
	case Reducing:
		return "reducing"
	case Applying:
		return "applying"
	case Done:
		return "done"
	case EmptyResult:
		return "empty_result"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger. Parsers are silent by default.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithLifecycleHooks registers hooks fired after every rule application.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(p *Parser) {
		p.hooks = hooks
	}
}

// Parser processes the lines of one section. A Parser is single use.
type Parser struct {
	def    Definition
	env    *rules.Env
	logger *slog.Logger
	hooks  domain.LifecycleHooks
	state  State
}

// NewParser builds a parser for def. The rules' look-ahead stops at any
// trigger of the section.
func NewParser(def Definition, env *rules.Env, opts ...Option) *Parser {
	p := &Parser{def: def, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	if env != nil {
		p.env = env.WithSectionTriggers(p.triggers)
	}
	return p
}

// State returns the phase the parser is in or ended in.
func (p *Parser) State() State { return p.state }

// Name returns the section name.
func (p *Parser) Name() string { return p.def.Name }

// Process parses lines into the section's aggregate record.
//
// A parser without rules or input fails with a ParserCoherenceError. Other
// recoverable failures are returned as an EmptyRecord with a nil error;
// cancellation and unexpected errors are returned as is.
func (p *Parser) Process(ctx context.Context, lines []string) (domain.Record, error) {
	if p.state != Idle {
		return nil, fmt.Errorf("%w: parser %s already used", domain.ErrInvalidState, p.def.Name)
	}
	if len(p.def.Rules) == 0 || p.env == nil {
		p.state = EmptyResult
		return nil, domain.NoRulesError(p.def.Name)
	}
	if len(lines) == 0 {
		p.state = EmptyResult
		return nil, domain.NoInputError(p.def.Name)
	}

	record, err := p.run(ctx, lines)
	if err == nil {
		p.state = Done
		return record, nil
	}
	if !domain.IsRecoverable(err) {
		return nil, err
	}
	p.logger.Warn("section degraded", "section", p.def.Name, "phase", p.state.String(), "error", err)
	p.state = EmptyResult
	return domain.NewEmptyRecord(p.def.Name, err), nil
}

func (p *Parser) run(ctx context.Context, lines []string) (domain.Record, error) {
	p.state = Lexing
	lexed := p.lex(lines)

	p.state = Reducing
	reduced, err := p.reduce(lexed)
	if err != nil {
		return nil, err
	}

	p.state = Applying
	records, err := p.apply(ctx, reduced)
	if err != nil {
		return nil, err
	}
	if p.def.Build == nil {
		return nil, domain.NoRulesError(p.def.Name)
	}
	return p.def.Build(records)
}

// lexeme is either a started rule or a filler.
type lexeme struct {
	rule   rules.Rule
	filler *domain.FillerRecord
}

// lex classifies lines. The first rule in declared order that triggers wins.
func (p *Parser) lex(lines []string) []lexeme {
	out := make([]lexeme, 0, len(lines))
	for _, line := range lines {
		out = append(out, p.classify(line))
	}
	return out
}

func (p *Parser) classify(line string) lexeme {
	for _, factory := range p.def.Rules {
		r := factory(line, p.env)
		if !r.Triggers() {
			continue
		}
		if err := r.Start(); err == nil {
			return lexeme{rule: r}
		}
	}
	return lexeme{filler: domain.NewFiller(line)}
}

func (p *Parser) triggers(line string) bool {
	for _, factory := range p.def.Rules {
		if factory(line, p.env).Triggers() {
			return true
		}
	}
	return false
}

// reduce folds fillers into the most recent rule. Fillers before the first
// rule have nowhere to go and are dropped.
func (p *Parser) reduce(lexed []lexeme) ([]rules.Rule, error) {
	var (
		out     []rules.Rule
		pending rules.Rule
		fillers []*domain.FillerRecord
		dropped int
	)
	flush := func() error {
		if pending == nil {
			return nil
		}
		if len(fillers) > 0 {
			if err := pending.Expand(fillers...); err != nil {
				return err
			}
		}
		out = append(out, pending)
		fillers = nil
		return nil
	}

	for _, l := range lexed {
		if l.rule == nil {
			if pending == nil {
				dropped++
				continue
			}
			fillers = append(fillers, l.filler)
			continue
		}
		if err := flush(); err != nil {
			return nil, err
		}
		pending = l.rule
	}
	if err := flush(); err != nil {
		return nil, err
	}

	if dropped > 0 {
		p.logger.Debug("dropped leading fillers", "section", p.def.Name, "lines", dropped)
	}
	if len(out) == 0 {
		return nil, &domain.ParserCoherenceError{Parser: p.def.Name, Problem: "found no rule trigger in its input"}
	}
	return out, nil
}

// apply runs every reduced rule in order. Each rule sees its own input
// followed by the first line of the next rule, or the section end.
func (p *Parser) apply(ctx context.Context, reduced []rules.Rule) ([]domain.Record, error) {
	records := make([]domain.Record, 0, len(reduced))
	for i, r := range reduced {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		terminator := rules.EndOfSection
		if i+1 < len(reduced) {
			terminator = rules.LineToken(reduced[i+1].Input()[0])
		}
		input := r.Input()
		res, err := r.Apply(rules.Tokens(input, terminator))
		if err == nil {
			err = p.checkAdvance(r.Name(), len(input), res.Consumed)
		}
		p.emitRuleApplied(ctx, r.Name(), len(input), err)
		if err != nil {
			return nil, err
		}
		records = append(records, res.Record)
	}
	return records, nil
}

// checkAdvance verifies a rule consumed exactly the lines it was reduced to.
func (p *Parser) checkAdvance(rule string, lines, consumed int) error {
	advance := consumed
	if !p.env.Boundary.CountTrigger {
		advance++
	}
	if advance == lines {
		return nil
	}
	return &domain.ParserCoherenceError{
		Parser:  p.def.Name,
		Problem: fmt.Sprintf("advanced %d lines after %s consumed a segment of %d", advance, rule, lines),
	}
}

func (p *Parser) emitRuleApplied(ctx context.Context, rule string, lines int, err error) {
	if p.hooks.OnRuleApplied == nil {
		return
	}
	p.hooks.OnRuleApplied(ctx, &domain.RuleEvent{
		Timestamp: time.Now(),
		Section:   p.def.Name,
		Rule:      rule,
		Lines:     lines,
		Err:       err,
	})
}

// IsDegraded reports whether r is the placeholder of a failed section.
func IsDegraded(r domain.Record) bool {
	return r != nil && r.Kind() == domain.KindEmpty
}
