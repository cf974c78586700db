package ports

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/plenum/pkg/domain"
)

// ContractDocument builds a small, already normalized document for store
// tests.
func ContractDocument(id string) domain.Document {
	return domain.Document{
		ID:       id,
		Source:   id + ".txt",
		ParsedAt: time.Date(2017, time.June, 5, 13, 0, 0, 0, time.UTC),
		Protocol: map[string]any{
			"kind": "protocol",
			"sections": []any{
				map[string]any{
					"section": domain.SectionHeader,
					"kind":    string(domain.KindHeaderSection),
					"data": map[string]any{
						"header_information": map[string]any{
							"kind":       string(domain.KindHeader),
							"parliament": "Deutscher Bundestag",
							"number":     "18/230",
							"date":       "2017-06-05",
						},
					},
				},
			},
		},
	}
}

// RunProtocolStoreContract verifies that a ProtocolStore implementation
// adheres to the interface contract. Stores implementing ProtocolDeleter are
// checked for deletion as well.
func RunProtocolStoreContract(t *testing.T, store ProtocolStore) {
	ctx := context.Background()
	prefix := fmt.Sprintf("contract-%d", time.Now().UnixNano())

	t.Run("Save and Load", func(t *testing.T) {
		doc := ContractDocument(prefix + "-a")
		require.NoError(t, store.Save(ctx, doc))

		loaded, err := store.Load(ctx, doc.ID)
		require.NoError(t, err)
		assert.Equal(t, doc.ID, loaded.ID)
		assert.Equal(t, doc.Source, loaded.Source)
		assert.True(t, doc.ParsedAt.Equal(loaded.ParsedAt), "parsed_at %v != %v", doc.ParsedAt, loaded.ParsedAt)
		assert.Equal(t, doc.Protocol, loaded.Protocol)
	})

	t.Run("Save replaces", func(t *testing.T) {
		doc := ContractDocument(prefix + "-b")
		require.NoError(t, store.Save(ctx, doc))
		doc.Source = "replaced.txt"
		require.NoError(t, store.Save(ctx, doc))

		loaded, err := store.Load(ctx, doc.ID)
		require.NoError(t, err)
		assert.Equal(t, "replaced.txt", loaded.Source)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, prefix+"-missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("List", func(t *testing.T) {
		id1, id2 := prefix+"-l1", prefix+"-l2"
		require.NoError(t, store.Save(ctx, ContractDocument(id2)))
		require.NoError(t, store.Save(ctx, ContractDocument(id1)))

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
		assert.IsNonDecreasing(t, ids)
	})

	deleter, ok := store.(ProtocolDeleter)
	if !ok {
		return
	}
	t.Run("Delete", func(t *testing.T) {
		doc := ContractDocument(prefix + "-d")
		require.NoError(t, store.Save(ctx, doc))
		require.NoError(t, deleter.Delete(ctx, doc.ID))

		_, err := store.Load(ctx, doc.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound, "Load after Delete should return ErrNotFound")
		assert.NoError(t, deleter.Delete(ctx, doc.ID))

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.NotContains(t, ids, doc.ID)
	})
}
