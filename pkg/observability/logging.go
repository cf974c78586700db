package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/plenum/pkg/domain"
)

// LoggingHooks logs section boundaries at debug level and degraded sections
// and failed rules at warn level.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnSectionStart: func(ctx context.Context, e *domain.SectionEvent) {
			logger.DebugContext(ctx, "section_start", "section", e.Section, "blocks", e.Blocks, "lines", e.Lines)
		},
		OnSectionDone: func(ctx context.Context, e *domain.SectionEvent) {
			if e.Degraded {
				logger.WarnContext(ctx, "section_degraded", "section", e.Section, "error", e.Err)
				return
			}
			logger.DebugContext(ctx, "section_done", "section", e.Section, "kind", e.Kind, "duration", e.Duration)
		},
		OnRuleApplied: func(ctx context.Context, e *domain.RuleEvent) {
			if e.Err != nil {
				logger.WarnContext(ctx, "rule_failed", "section", e.Section, "rule", e.Rule, "error", e.Err)
			}
		},
	}
}
