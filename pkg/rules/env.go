package rules

import (
	"fmt"
	"regexp"

	"github.com/aretw0/plenum/pkg/config"
	"github.com/aretw0/plenum/pkg/domain"
	"github.com/aretw0/plenum/pkg/germandate"
	"github.com/aretw0/plenum/pkg/patterns"
)

// Env is the shared, read-only configuration rules are built with.
type Env struct {
	Patterns    *patterns.Registry
	Dates       domain.DateParser
	SubItemType string
	Boundary    BoundaryPolicy
	// SectionTriggers, when set, decides which lines end a look-ahead span.
	// Section parsers set it to the union of their rules' triggers.
	SectionTriggers func(string) bool
}

// NewEnv compiles the patterns and the date layout of cfg.
func NewEnv(cfg config.Config) (*Env, error) {
	reg, err := patterns.FromConfig(cfg)
	if err != nil {
		return nil, err
	}
	dates, err := germandate.New(cfg.DateFormat)
	if err != nil {
		return nil, fmt.Errorf("date format: %w", err)
	}
	return &Env{
		Patterns:    reg,
		Dates:       dates.Parse,
		SubItemType: cfg.AgendaSubItemType,
		Boundary: BoundaryPolicy{
			IncludeTerminator: cfg.LookAheadIncludeTerminator,
			CountTrigger:      cfg.LookAheadCountTrigger,
		},
	}, nil
}

// WithSectionTriggers returns a copy of e whose look-ahead stops at lines
// matching trigger.
func (e *Env) WithSectionTriggers(trigger func(string) bool) *Env {
	cp := *e
	cp.SectionTriggers = trigger
	return &cp
}

func (e *Env) isBoundary(own func(string) bool) func(string) bool {
	if e.SectionTriggers != nil {
		return e.SectionTriggers
	}
	if own == nil {
		return func(string) bool { return false }
	}
	return own
}

func (e *Env) matcher(name string) func(string) bool {
	return func(line string) bool { return e.Patterns.Match(name, line) }
}

func (e *Env) pattern(name string) *regexp.Regexp {
	re, _ := e.Patterns.Get(name)
	return re
}

// AgendaFormat assembles the agenda patterns for record construction.
func (e *Env) AgendaFormat() domain.AgendaFormat {
	var levels []*regexp.Regexp
	for _, name := range []string{patterns.AgendaSubItem, patterns.AgendaNestedSubItem} {
		if re := e.pattern(name); re != nil {
			levels = append(levels, re)
		}
	}
	return domain.AgendaFormat{
		TopLevel:    e.pattern(patterns.AgendaItem),
		SubLevels:   levels,
		SubItemType: e.SubItemType,
	}
}
