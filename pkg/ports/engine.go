package ports

import (
	"context"
	"io"

	"github.com/aretw0/plenum/pkg/domain"
)

// ProtocolParser is the driving port used by transport adapters (HTTP, MCP).
// *plenum.Parser implements it.
type ProtocolParser interface {
	Parse(ctx context.Context, r io.Reader) (*domain.ProtocolRecord, error)
}
