package session_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/session"
)

func exerciseStore(t *testing.T, store session.Store) {
	t.Helper()
	ctx := context.Background()
	id := session.NewID()

	_, err := store.Get(ctx, id)
	require.True(t, errors.Is(err, session.ErrNotFound), "expected ErrNotFound, got %v", err)

	user := model.User{ID: "u1", Email: "peter@abv.bg", Password: "123456", AccessToken: "tok"}
	require.NoError(t, store.Put(ctx, id, user))

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, model.User{ID: "u1", Email: "peter@abv.bg", AccessToken: "tok"}, got)

	require.NoError(t, store.Delete(ctx, id))
	_, err = store.Get(ctx, id)
	require.ErrorIs(t, err, session.ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, session.NewMemoryStore(time.Hour))
}

func TestMemoryStore_Expires(t *testing.T) {
	store := session.NewMemoryStore(20 * time.Millisecond)
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "s1", model.User{Email: "a@b.c"}))

	require.Eventually(t, func() bool {
		_, err := store.Get(ctx, "s1")
		return errors.Is(err, session.ErrNotFound)
	}, time.Second, 10*time.Millisecond)
}

func TestRedisStore(t *testing.T) {
	url := os.Getenv("FORMFLOW_TEST_REDIS_URL")
	if url == "" {
		t.Skip("FORMFLOW_TEST_REDIS_URL not set")
	}
	client, err := session.NewRedisClient(url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	store := session.NewRedisStore(client, "formflow:test:", time.Minute)
	require.NoError(t, store.Ping(context.Background()))
	exerciseStore(t, store)
}

func TestNewRedisClient_RejectsBadURL(t *testing.T) {
	_, err := session.NewRedisClient("not-a-url")
	require.Error(t, err)
}

func TestIDs(t *testing.T) {
	id := session.NewID()
	require.True(t, session.Valid(id))
	require.NotEqual(t, id, session.NewID())
	require.False(t, session.Valid("forged"))
}
