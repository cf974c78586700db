// Package partition splits a protocol into blocks, hands every block to the
// parser of its section and assembles the resulting ProtocolRecord.
package partition

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/aretw0/plenum/internal/logging"
	"github.com/aretw0/plenum/pkg/config"
	"github.com/aretw0/plenum/pkg/domain"
	"github.com/aretw0/plenum/pkg/rules"
	"github.com/aretw0/plenum/pkg/section"
)

// Option configures a Partitioner.
type Option func(*Partitioner)

// WithLogger sets the logger. Partitioners are silent by default.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Partitioner) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithLifecycleHooks registers section and rule hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(p *Partitioner) {
		p.hooks = hooks
	}
}

// WithDefinitions replaces the section grammars. Sections configured without
// a definition degrade to an EmptyRecord.
func WithDefinitions(defs map[string]section.Definition) Option {
	return func(p *Partitioner) {
		p.defs = defs
	}
}

// Partitioner is the document level parser. It holds no per-document state
// and may be reused.
type Partitioner struct {
	divider        []string
	positions      map[string]int
	tailClaimsRest bool
	suppress       bool

	env    *rules.Env
	defs   map[string]section.Definition
	logger *slog.Logger
	hooks  domain.LifecycleHooks
}

// New builds a partitioner from cfg. env carries the compiled patterns the
// section rules use.
func New(cfg config.Config, env *rules.Env, opts ...Option) *Partitioner {
	positions := make(map[string]int, len(cfg.Sections))
	for name, pos := range cfg.Sections {
		positions[name] = pos
	}
	p := &Partitioner{
		divider:        cfg.Divider(),
		positions:      positions,
		tailClaimsRest: cfg.TailClaimsRest,
		suppress:       cfg.SuppressExceptions,
		env:            env,
		defs:           section.Defaults(),
		logger:         logging.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process parses the raw lines of one protocol.
//
// A contradictory section layout fails with an AssignmentError before any
// section is parsed. Sections failing with a recoverable error are replaced
// by an EmptyRecord; other errors abort unless suppression is configured.
func (p *Partitioner) Process(ctx context.Context, lines []string) (*domain.ProtocolRecord, error) {
	blocks := Blockify(lines, p.divider)
	plan, err := Resolve(p.positions, len(blocks), p.tailClaimsRest)
	if err != nil {
		return nil, err
	}
	if len(plan.Dropped) > 0 {
		p.logger.Warn("dropping blocks before the first section", "blocks", plan.Dropped)
	}
	p.logger.Debug("partitioned protocol", "lines", len(lines), "blocks", len(blocks), "sections", len(plan.Assignments))

	results := make(map[string]domain.Record, len(plan.Assignments))
	for _, a := range plan.Assignments {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := p.dispatch(ctx, a, blocks)
		if err != nil {
			return nil, err
		}
		results[a.Section] = rec
	}

	entries := make([]domain.SectionEntry, 0, len(results))
	for _, name := range p.declaredOrder() {
		if rec, ok := results[name]; ok {
			entries = append(entries, domain.SectionEntry{Name: name, Record: rec})
		}
	}
	return domain.NewProtocolRecord(entries)
}

func (p *Partitioner) dispatch(ctx context.Context, a Assignment, blocks [][]string) (domain.Record, error) {
	var lines []string
	for _, b := range a.Blocks {
		lines = append(lines, blocks[b]...)
	}

	start := time.Now()
	event := &domain.SectionEvent{Timestamp: start, Section: a.Section, Blocks: a.Blocks, Lines: len(lines)}
	if p.hooks.OnSectionStart != nil {
		p.hooks.OnSectionStart(ctx, event)
	}
	p.logger.Debug("dispatching section", "section", a.Section, "blocks", a.Blocks, "lines", len(lines))

	var (
		rec domain.Record
		err error
	)
	if a.Missing() {
		err = missingError(a, len(blocks))
	} else {
		rec, err = p.parseSection(ctx, a.Section, lines)
	}

	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		if !domain.IsRecoverable(err) && !p.suppress {
			return nil, fmt.Errorf("section %s: %w", a.Section, err)
		}
		p.logger.Warn("section degraded", "section", a.Section, "error", err)
		rec = domain.NewEmptyRecord(a.Section, err)
	}

	if p.hooks.OnSectionDone != nil {
		done := *event
		done.Kind = rec.Kind()
		done.Degraded = rec.Kind() == domain.KindEmpty
		if empty, ok := rec.(*domain.EmptyRecord); ok {
			done.Err = empty.Err()
		}
		done.Duration = time.Since(start)
		p.hooks.OnSectionDone(ctx, &done)
	}
	return rec, nil
}

// parseSection runs the section parser. With suppression a panicking rule
// degrades its section instead of crashing the run.
func (p *Partitioner) parseSection(ctx context.Context, name string, lines []string) (rec domain.Record, err error) {
	if p.suppress {
		defer func() {
			if r := recover(); r != nil {
				rec, err = nil, fmt.Errorf("section %s panicked: %v", name, r)
			}
		}()
	}

	def, ok := p.defs[name]
	if !ok {
		def = section.Definition{Name: name}
	}
	parser := section.NewParser(def, p.env,
		section.WithLogger(p.logger),
		section.WithLifecycleHooks(p.hooks),
	)
	return parser.Process(ctx, lines)
}

// declaredOrder lists the known sections in protocol order followed by any
// custom sections by position.
func (p *Partitioner) declaredOrder() []string {
	known := make(map[string]bool, len(domain.SectionOrder))
	order := make([]string, 0, len(p.positions))
	for _, name := range domain.SectionOrder {
		known[name] = true
		if _, ok := p.positions[name]; ok {
			order = append(order, name)
		}
	}

	var custom []string
	for name := range p.positions {
		if !known[name] {
			custom = append(custom, name)
		}
	}
	sort.Slice(custom, func(i, j int) bool {
		pi, pj := p.positions[custom[i]], p.positions[custom[j]]
		if (pi < 0) != (pj < 0) {
			return pj < 0
		}
		if pi != pj {
			return pi < pj
		}
		return custom[i] < custom[j]
	})
	return append(order, custom...)
}
