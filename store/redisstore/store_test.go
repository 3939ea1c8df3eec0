package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bellapacxx/bingo-rooms/store"
	"github.com/bellapacxx/bingo-rooms/store/storetest"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return mr, rdb
}

func TestRedisStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		_, rdb := newTestClient(t)
		return New(rdb, Options{})
	})
}

func TestRedisStore_KeysAndTTL(t *testing.T) {
	mr, rdb := newTestClient(t)
	s := New(rdb, Options{Prefix: "test", TTL: time.Hour})
	ctx := context.Background()

	room := storetest.NewRoom("KEYS")
	require.NoError(t, s.CreateRoom(ctx, room))
	assert.True(t, mr.Exists("test:room:KEYS"))
	assert.Equal(t, time.Hour, mr.TTL("test:room:KEYS"))

	ok, err := mr.SIsMember("test:rooms", "KEYS")
	require.NoError(t, err)
	assert.True(t, ok)

	p := storetest.NewPlayer("KEYS", "Ana", 0)
	require.NoError(t, s.AddPlayer(ctx, p))
	assert.True(t, mr.Exists(BuildPlayerKey("test", "KEYS", p.ID)))

	got, err := s.GetRoom(ctx, "KEYS")
	require.NoError(t, err)
	got.DrawnNumbers = []int{4}
	require.NoError(t, s.SwapRoom(ctx, got))
	assert.Equal(t, time.Hour, mr.TTL("test:room:KEYS"), "swap keeps the expiry")
}
