package middleware

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/aretw0/plenum/pkg/domain"
	"github.com/aretw0/plenum/pkg/ports"
)

// NewMetricsMiddleware counts store operations in
// plenum_store_operations_total{op, outcome}; outcome is ok, not_found or
// error.
func NewMetricsMiddleware(reg prometheus.Registerer) Middleware {
	ops := promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
		Namespace: "plenum",
		Name:      "store_operations_total",
		Help:      "Protocol store operations by outcome.",
	}, []string{"op", "outcome"})

	return func(next ports.ProtocolStore) ports.ProtocolStore {
		return wrap(next, func(_ context.Context, op, _ string, err error) {
			outcome := "ok"
			switch {
			case errors.Is(err, domain.ErrNotFound):
				outcome = "not_found"
			case err != nil:
				outcome = "error"
			}
			ops.WithLabelValues(op, outcome).Inc()
		})
	}
}
