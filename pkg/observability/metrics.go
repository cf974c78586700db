package observability

import (
	"context"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/aretw0/plenum/pkg/domain"
)

const namespace = "plenum"

// Metrics holds the parser's Prometheus collectors.
type Metrics struct {
	// SectionsTotal counts parsed sections by section, aggregate kind and
	// whether the section degraded.
	SectionsTotal *prometheus.CounterVec
	// SectionDuration records the time spent per section.
	SectionDuration *prometheus.HistogramVec
	// SectionLines records the number of lines handed to a section.
	SectionLines *prometheus.HistogramVec
	// RulesTotal counts rule applications by section, rule and outcome.
	RulesTotal *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SectionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sections_total",
			Help:      "Parsed protocol sections by outcome",
		}, []string{"section", "kind", "degraded"}),
		SectionDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "section_duration_seconds",
			Help:      "Time spent parsing one section",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14),
		}, []string{"section"}),
		SectionLines: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "section_lines",
			Help:      "Lines handed to a section parser",
			Buckets:   []float64{1, 5, 10, 50, 100, 500, 1000, 5000},
		}, []string{"section"}),
		RulesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rules_applied_total",
			Help:      "Rule applications by outcome",
		}, []string{"section", "rule", "outcome"}),
	}
}

// Hooks records every section and rule event.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnSectionDone: func(_ context.Context, e *domain.SectionEvent) {
			m.SectionsTotal.WithLabelValues(e.Section, string(e.Kind), strconv.FormatBool(e.Degraded)).Inc()
			m.SectionDuration.WithLabelValues(e.Section).Observe(e.Duration.Seconds())
			m.SectionLines.WithLabelValues(e.Section).Observe(float64(e.Lines))
		},
		OnRuleApplied: func(_ context.Context, e *domain.RuleEvent) {
			outcome := "applied"
			if e.Err != nil {
				outcome = "failed"
			}
			m.RulesTotal.WithLabelValues(e.Section, e.Rule, outcome).Inc()
		},
	}
}
