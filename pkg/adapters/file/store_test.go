package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/plenum/pkg/adapters/file"
	"github.com/aretw0/plenum/pkg/ports"
)

var _ ports.ProtocolStore = (*file.Store)(nil)
var _ ports.ProtocolDeleter = (*file.Store)(nil)

func TestStore_Contract(t *testing.T) {
	ports.RunProtocolStoreContract(t, file.New(t.TempDir()))
}

func TestStore_Layout(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested", "protocols")
	store := file.New(dir)

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids, "missing directory lists nothing")

	require.NoError(t, store.Save(ctx, ports.ContractDocument("18-230")))

	data, err := os.ReadFile(filepath.Join(dir, "18-230.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"parsed_at": "2017-06-05T13:00:00Z"`)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files are left behind")
}

func TestStore_RejectsPathIDs(t *testing.T) {
	store := file.New(t.TempDir())
	ctx := context.Background()

	assert.Error(t, store.Save(ctx, ports.ContractDocument("../escape")))
	_, err := store.Load(ctx, "")
	assert.Error(t, err)
	assert.Error(t, store.Delete(ctx, "a/b"))
}

func TestNew_DefaultPath(t *testing.T) {
	assert.Equal(t, "protocols", file.New("").BasePath)
}
