package kvstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, path string) *Store {
	t.Helper()
	store, err := Open(path, false)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSetAndGet(t *testing.T) {
	store := newTestStore(t, filepath.Join(t.TempDir(), "test.db"))
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "users", []byte(`[{"id":"1"}]`)))

	value, ok, err := store.Get(ctx, "users")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"1"}]`, string(value))
}

func TestGetMissingKey(t *testing.T) {
	store := newTestStore(t, filepath.Join(t.TempDir(), "test.db"))

	value, ok, err := store.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, value)
}

func TestSetOverwrites(t *testing.T) {
	store := newTestStore(t, filepath.Join(t.TempDir(), "test.db"))
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("first")))
	require.NoError(t, store.Set(ctx, "k", []byte("second")))

	value, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "second", string(value))
}

func TestDelete(t *testing.T) {
	store := newTestStore(t, filepath.Join(t.TempDir(), "test.db"))
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("v")))
	require.NoError(t, store.Delete(ctx, "k"))

	_, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	// deleting an absent key is not an error
	require.NoError(t, store.Delete(ctx, "never-existed"))
}

func TestMultiDelete(t *testing.T) {
	store := newTestStore(t, filepath.Join(t.TempDir(), "test.db"))
	ctx := context.Background()

	for _, key := range []string{"a", "b", "c"} {
		require.NoError(t, store.Set(ctx, key, []byte("v")))
	}
	require.NoError(t, store.MultiDelete(ctx, "a", "c"))

	_, ok, _ := store.Get(ctx, "a")
	assert.False(t, ok)
	_, ok, _ = store.Get(ctx, "b")
	assert.True(t, ok)
	_, ok, _ = store.Get(ctx, "c")
	assert.False(t, ok)
}

func TestSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	store, err := Open(path, false)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "k", []byte("persisted")))
	require.NoError(t, store.Close())

	reopened := newTestStore(t, path)
	value, ok, err := reopened.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "persisted", string(value))
}
