package draftstore

import (
	"context"
	"os"
	"testing"
	"time"

	"cafeadmin/internal/domain/service"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, store service.DraftStore) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "edit:abc123")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Put(ctx, "edit:abc123", []byte(`{"name":"A"}`)))
	require.NoError(t, store.Put(ctx, "create", []byte(`{"name":"B"}`)))

	data, ok, err := store.Get(ctx, "edit:abc123")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"name":"A"}`, string(data))

	require.NoError(t, store.Put(ctx, "edit:abc123", []byte(`{"name":"C"}`)))
	data, _, err = store.Get(ctx, "edit:abc123")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"C"}`, string(data))

	require.NoError(t, store.Delete(ctx, "edit:abc123"))
	require.NoError(t, store.Delete(ctx, "edit:abc123"))
	_, ok, err = store.Get(ctx, "edit:abc123")
	require.NoError(t, err)
	assert.False(t, ok)

	data, ok, err = store.Get(ctx, "create")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"name":"B"}`, string(data))
}

func TestFileStore(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	exerciseStore(t, store)
}

func TestFileStore_KeysAreFileSafe(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Put(context.Background(), "edit:../../etc/passwd", []byte("{}")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.NotContains(t, entries[0].Name(), "/")
	assert.NotContains(t, entries[0].Name(), ":")
}

// Runs against a live server when CAFEADMIN_TEST_REDIS_ADDR is set.
func TestRedisStore(t *testing.T) {
	addr := os.Getenv("CAFEADMIN_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("CAFEADMIN_TEST_REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(context.Background()).Err())

	prefix := "cafeadmin:test:" + time.Now().Format("150405.000") + ":"
	exerciseStore(t, NewRedisStore(client, prefix, time.Minute))
}
