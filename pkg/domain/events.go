package domain

import (
	"context"
	"time"
)

// SectionEvent describes one section passing through the partitioner.
type SectionEvent struct {
	Timestamp time.Time
	Section   string
	Blocks    []int
	Lines     int
	// Set on completion only.
	Kind     Kind
	Degraded bool
	Err      error
	Duration time.Duration
}

// RuleEvent describes one rule application inside a section.
type RuleEvent struct {
	Timestamp time.Time
	Section   string
	Rule      string
	Lines     int
	Err       error
}

// LifecycleHooks defines callbacks for parser observability.
type LifecycleHooks struct {
	OnSectionStart func(context.Context, *SectionEvent)
	OnSectionDone  func(context.Context, *SectionEvent)
	OnRuleApplied  func(context.Context, *RuleEvent)
}

// ChainHooks fans every callback out to all given hook sets, in order.
func ChainHooks(hooks ...LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnSectionStart: func(ctx context.Context, e *SectionEvent) {
			for _, h := range hooks {
				if h.OnSectionStart != nil {
					h.OnSectionStart(ctx, e)
				}
			}
		},
		OnSectionDone: func(ctx context.Context, e *SectionEvent) {
			for _, h := range hooks {
				if h.OnSectionDone != nil {
					h.OnSectionDone(ctx, e)
				}
			}
		},
		OnRuleApplied: func(ctx context.Context, e *RuleEvent) {
			for _, h := range hooks {
				if h.OnRuleApplied != nil {
					h.OnRuleApplied(ctx, e)
				}
			}
		},
	}
}
