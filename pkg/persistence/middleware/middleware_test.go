package middleware_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/plenum/internal/logging"
	"github.com/aretw0/plenum/pkg/adapters/memory"
	"github.com/aretw0/plenum/pkg/domain"
	"github.com/aretw0/plenum/pkg/persistence/middleware"
	"github.com/aretw0/plenum/pkg/ports"
)

// readOnlyStore hides the Delete method of the memory store.
type readOnlyStore struct {
	ports.ProtocolStore
}

type failingStore struct {
	ports.ProtocolStore
}

func (failingStore) Save(context.Context, domain.Document) error {
	return errors.New("disk full")
}

func TestChain_Contract(t *testing.T) {
	reg := prometheus.NewRegistry()
	store := middleware.Chain(memory.NewStore(),
		middleware.NewLoggingMiddleware(logging.NewNop()),
		middleware.NewMetricsMiddleware(reg),
	)
	ports.RunProtocolStoreContract(t, store)
}

func TestChain_KeepsDeleterOptional(t *testing.T) {
	mw := middleware.NewLoggingMiddleware(logging.NewNop())

	_, ok := mw(memory.NewStore()).(ports.ProtocolDeleter)
	assert.True(t, ok)

	_, ok = mw(readOnlyStore{memory.NewStore()}).(ports.ProtocolDeleter)
	assert.False(t, ok)
}

func TestChain_Order(t *testing.T) {
	var calls []string
	tag := func(name string) middleware.Middleware {
		return func(next ports.ProtocolStore) ports.ProtocolStore {
			calls = append(calls, name)
			return next
		}
	}
	middleware.Chain(memory.NewStore(), tag("outer"), tag("inner"))
	// Wrapping happens inside out.
	assert.Equal(t, []string{"inner", "outer"}, calls)
}

func TestMetricsMiddleware(t *testing.T) {
	reg := prometheus.NewRegistry()
	store := middleware.NewMetricsMiddleware(reg)(memory.NewStore())
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, ports.ContractDocument("18-1")))
	_, err := store.Load(ctx, "18-1")
	require.NoError(t, err)
	_, err = store.Load(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)

	expected := `
# HELP plenum_store_operations_total Protocol store operations by outcome.
# TYPE plenum_store_operations_total counter
plenum_store_operations_total{op="load",outcome="not_found"} 1
plenum_store_operations_total{op="load",outcome="ok"} 1
plenum_store_operations_total{op="save",outcome="ok"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "plenum_store_operations_total"))
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, slog.LevelDebug)
	store := middleware.NewLoggingMiddleware(logger)(failingStore{memory.NewStore()})
	ctx := context.Background()

	err := store.Save(ctx, ports.ContractDocument("18-2"))
	require.Error(t, err)
	assert.Contains(t, buf.String(), "store operation failed")
	assert.Contains(t, buf.String(), "err=\"disk full\"")

	buf.Reset()
	_, _ = store.List(ctx)
	assert.Contains(t, buf.String(), "op=list")
}
