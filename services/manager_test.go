package services

import (
	"context"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bellapacxx/bingo-rooms/models"
	"github.com/bellapacxx/bingo-rooms/store"
)

// lockedSource lets concurrent tests share one seeded generator.
type lockedSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (s *lockedSource) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.IntN(n)
}

func seeded(seed uint64) *lockedSource {
	return &lockedSource{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestManager(t *testing.T, st store.Store, opts ...Option) *RoomManager {
	t.Helper()
	if st == nil {
		st = store.NewMemory()
	}
	base := []Option{
		WithSource(seeded(42)),
		WithClock(func() time.Time { return testNow }),
	}
	return NewRoomManager(st, append(base, opts...)...)
}

func newClassicRoom(t *testing.T, m *RoomManager) *models.Room {
	t.Helper()
	room, err := m.CreateRoom(context.Background(), CreateRoomParams{Name: "Sala 1", AdminID: "admin-1"})
	require.NoError(t, err)
	return room
}

func drawAll(t *testing.T, m *RoomManager, roomID string) {
	t.Helper()
	for {
		_, ok, err := m.DrawNumber(context.Background(), roomID)
		require.NoError(t, err)
		if !ok {
			return
		}
	}
}

// conflictingStore loses every room swap.
type conflictingStore struct {
	store.Store
	swaps int
}

func (s *conflictingStore) SwapRoom(context.Context, *models.Room) error {
	s.swaps++
	return models.ErrConflict
}

func TestMutateRoom_GivesUpAfterMaxAttempts(t *testing.T) {
	st := &conflictingStore{Store: store.NewMemory()}
	m := newTestManager(t, st, WithMaxAttempts(5))
	room := newClassicRoom(t, m)

	_, _, err := m.DrawNumber(context.Background(), room.ID)
	require.ErrorIs(t, err, models.ErrContention)
	assert.Equal(t, 5, st.swaps)
}

// flakyStore makes the first CAS of every room lose, then behaves.
type flakyStore struct {
	store.Store
	mu   sync.Mutex
	lost map[string]bool
}

func (s *flakyStore) SwapRoom(ctx context.Context, room *models.Room) error {
	s.mu.Lock()
	first := !s.lost[room.ID]
	s.lost[room.ID] = true
	s.mu.Unlock()
	if first {
		return models.ErrConflict
	}
	return s.Store.SwapRoom(ctx, room)
}

func TestMutateRoom_RetriesConflict(t *testing.T) {
	st := &flakyStore{Store: store.NewMemory(), lost: map[string]bool{}}
	m := newTestManager(t, st)
	room := newClassicRoom(t, m)

	n, ok, err := m.DrawNumber(context.Background(), room.ID)
	require.NoError(t, err)
	require.True(t, ok)

	got, err := m.GetRoom(context.Background(), room.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{n}, got.DrawnNumbers)
}

func TestNewRoomManager_Defaults(t *testing.T) {
	m := NewRoomManager(store.NewMemory(), WithMaxAttempts(0))
	assert.Equal(t, DefaultMaxAttempts, m.maxAttempts)
	assert.Equal(t, models.ClassicRules, m.defaultRules)
	assert.NotNil(t, m.log)
}
