package loam_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/plenum/pkg/adapters/loam"
	"github.com/aretw0/plenum/pkg/domain"
	"github.com/aretw0/plenum/pkg/ports"
)

func openStore(t *testing.T) (string, *loam.Store) {
	t.Helper()
	dir := t.TempDir()
	store, err := loam.Open(dir)
	require.NoError(t, err)
	return dir, store
}

func TestStore_Contract(t *testing.T) {
	_, store := openStore(t)
	ports.RunProtocolStoreContract(t, store)
}

func TestStore_WritesMarkdown(t *testing.T) {
	dir, store := openStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, ports.ContractDocument("18-230")))

	raw, err := os.ReadFile(filepath.Join(dir, "18-230.md"))
	require.NoError(t, err)
	content := string(raw)

	assert.True(t, strings.HasPrefix(content, "---\n"))
	assert.Contains(t, content, "id: 18-230")
	assert.Contains(t, content, "number: 18/230")
	assert.Contains(t, content, "parliament: Deutscher Bundestag")
	assert.Contains(t, content, "```json\n")
}

func TestStore_ListNormalizesIDs(t *testing.T) {
	dir, store := openStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, ports.ContractDocument("19-2")))
	require.NoError(t, store.Save(ctx, ports.ContractDocument("19-1")))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"19-1", "19-2"}, ids)

	_, err = os.Stat(filepath.Join(dir, "19-1.md"))
	assert.NoError(t, err)
}

func TestStore_LoadRejectsBrokenBody(t *testing.T) {
	dir, store := openStore(t)

	content := "---\nid: broken\n---\nno json here\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.md"), []byte(content), 0o644))

	_, err := store.Load(context.Background(), "broken")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "missing json block")
}

func TestStore_SaveRequiresID(t *testing.T) {
	_, store := openStore(t)
	err := store.Save(context.Background(), domain.Document{})
	assert.Error(t, err)
}
