package usage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "usage.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordAndCounts(t *testing.T) {
	store := testStore(t)

	require.NoError(t, store.Record("steady-ground"))
	require.NoError(t, store.Record("steady-ground"))
	require.NoError(t, store.Record("calm-evening"))

	counts, err := store.Counts()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		"steady-ground": 2,
		"calm-evening":  1,
	}, counts)
}

func TestRecordEmptyIDRejected(t *testing.T) {
	store := testStore(t)
	assert.Error(t, store.Record(""))
}

func TestCountsEmptyStore(t *testing.T) {
	store := testStore(t)
	counts, err := store.Counts()
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestReopenPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "usage.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Record("open-heart"))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	counts, err := reopened.Counts()
	require.NoError(t, err)
	assert.Equal(t, 1, counts["open-heart"])
}
