package middleware

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aretw0/plenum/pkg/domain"
	"github.com/aretw0/plenum/pkg/ports"
)

// NewLoggingMiddleware logs store operations at debug level. Failures other
// than domain.ErrNotFound are logged as warnings.
func NewLoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next ports.ProtocolStore) ports.ProtocolStore {
		return wrap(next, func(ctx context.Context, op, id string, err error) {
			switch {
			case err == nil:
				logger.DebugContext(ctx, "store operation", "op", op, "id", id)
			case errors.Is(err, domain.ErrNotFound):
				logger.DebugContext(ctx, "store miss", "op", op, "id", id)
			default:
				logger.WarnContext(ctx, "store operation failed", "op", op, "id", id, "error", err)
			}
		})
	}
}
