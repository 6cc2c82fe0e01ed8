package store_test

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/folio-labs/orderform-api/internal/store"
)

func newRedisStore(t *testing.T) (*store.RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return store.NewRedisStore(client, "orderform:test", time.Hour), mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	s, _ := newRedisStore(t)
	ctx := context.Background()

	_, ok, err := s.Load(ctx, "customer")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.Save(ctx, "customer", []byte(`{"name":"Acme"}`)))

	data, ok, err := s.Load(ctx, "customer")
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `{"name":"Acme"}`, string(data))

	require.NoError(t, s.Delete(ctx, "customer"))
	_, ok, err = s.Load(ctx, "customer")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRedisStoreKeysExpire(t *testing.T) {
	s, mr := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "plan", []byte(`{}`)))
	mr.FastForward(2 * time.Hour)

	_, ok, err := s.Load(ctx, "plan")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	in := []byte(`{"name":"Acme"}`)
	require.NoError(t, s.Save(ctx, "customer", in))
	in[2] = 'X'

	data, ok, err := s.Load(ctx, "customer")
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `{"name":"Acme"}`, string(data))

	data[2] = 'X'
	again, _, err := s.Load(ctx, "customer")
	require.NoError(t, err)
	require.JSONEq(t, `{"name":"Acme"}`, string(again))
}

type customer struct {
	Name string `json:"name"`
}

func TestLoadJSONFallsBackToDefault(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()
	log := zerolog.Nop()
	def := customer{Name: "default"}

	// Missing key.
	got := store.LoadJSON(ctx, s, log, "customer", def)
	require.Equal(t, def, got)

	// Corrupt payload.
	require.NoError(t, s.Save(ctx, "customer", []byte("{not json")))
	got = store.LoadJSON(ctx, s, log, "customer", def)
	require.Equal(t, def, got)

	// Valid payload wins.
	require.NoError(t, store.SaveJSON(ctx, s, "customer", customer{Name: "Acme"}))
	got = store.LoadJSON(ctx, s, log, "customer", def)
	require.Equal(t, "Acme", got.Name)
}
