// Package storetest is a conformance suite every store.Store implementation
// runs from its own tests.
package storetest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bellapacxx/bingo-rooms/models"
	"github.com/bellapacxx/bingo-rooms/store"
)

var epoch = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// NewRoom builds a room document the way the room manager would.
func NewRoom(id string) *models.Room {
	return &models.Room{
		ID:           id,
		Name:         "Sala " + id,
		AdminID:      "admin-1",
		Rules:        models.ClassicRules,
		State:        models.StateInProgress,
		Active:       true,
		DrawnNumbers: []int{},
		CurrentRound: 1,
		Winners:      []models.WinnerRecord{},
		CreatedAt:    epoch,
		UpdatedAt:    epoch,
	}
}

// NewPlayer builds a player document joined offset after epoch.
func NewPlayer(roomID, name string, offset time.Duration) *models.Player {
	return &models.Player{
		RoomID:        roomID,
		Name:          name,
		Card:          []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		MarkedNumbers: []int{},
		Round:         1,
		JoinedAt:      epoch.Add(offset),
	}
}

// Run executes the suite. newStore must return an empty store.
func Run(t *testing.T, newStore func(t *testing.T) store.Store) {
	t.Run("CreateAndGetRoom", func(t *testing.T) { testCreateAndGetRoom(t, newStore(t)) })
	t.Run("CreateRoomTwice", func(t *testing.T) { testCreateRoomTwice(t, newStore(t)) })
	t.Run("GetMissingRoom", func(t *testing.T) { testGetMissingRoom(t, newStore(t)) })
	t.Run("SwapRoom", func(t *testing.T) { testSwapRoom(t, newStore(t)) })
	t.Run("SwapRoomConflict", func(t *testing.T) { testSwapRoomConflict(t, newStore(t)) })
	t.Run("ConcurrentSwapsOneWins", func(t *testing.T) { testConcurrentSwaps(t, newStore(t)) })
	t.Run("ListRooms", func(t *testing.T) { testListRooms(t, newStore(t)) })
	t.Run("Players", func(t *testing.T) { testPlayers(t, newStore(t)) })
	t.Run("SwapPlayerConflict", func(t *testing.T) { testSwapPlayerConflict(t, newStore(t)) })
	t.Run("PlayerInMissingRoom", func(t *testing.T) { testPlayerInMissingRoom(t, newStore(t)) })
	t.Run("ReturnedDocumentsAreCopies", func(t *testing.T) { testCopies(t, newStore(t)) })
}

func testCreateAndGetRoom(t *testing.T, s store.Store) {
	ctx := context.Background()
	room := NewRoom("ABCD")
	room.Winners = []models.WinnerRecord{{PlayerID: "p1", PlayerName: "Ana", Round: 1, Timestamp: epoch}}
	room.DrawnNumbers = []int{5, 9}
	require.NoError(t, s.CreateRoom(ctx, room))
	assert.Equal(t, int64(1), room.Version)

	got, err := s.GetRoom(ctx, "ABCD")
	require.NoError(t, err)
	assert.Equal(t, "Sala ABCD", got.Name)
	assert.Equal(t, "admin-1", got.AdminID)
	assert.Equal(t, models.ClassicRules, got.Rules)
	assert.Equal(t, models.StateInProgress, got.State)
	assert.True(t, got.Active)
	assert.Equal(t, []int{5, 9}, got.DrawnNumbers)
	assert.Equal(t, 1, got.CurrentRound)
	require.Len(t, got.Winners, 1)
	assert.Equal(t, "p1", got.Winners[0].PlayerID)
	assert.True(t, got.Winners[0].Timestamp.Equal(epoch))
	assert.True(t, got.CreatedAt.Equal(epoch))
	assert.Nil(t, got.CompletedAt)
	assert.Equal(t, int64(1), got.Version)
}

func testCreateRoomTwice(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.CreateRoom(ctx, NewRoom("DUP1")))
	err := s.CreateRoom(ctx, NewRoom("DUP1"))
	assert.ErrorIs(t, err, models.ErrRoomExists)
}

func testGetMissingRoom(t *testing.T, s store.Store) {
	_, err := s.GetRoom(context.Background(), "NOPE")
	assert.ErrorIs(t, err, models.ErrRoomNotFound)

	err = s.SwapRoom(context.Background(), NewRoom("NOPE"))
	assert.ErrorIs(t, err, models.ErrRoomNotFound)
}

func testSwapRoom(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.CreateRoom(ctx, NewRoom("SWAP")))

	room, err := s.GetRoom(ctx, "SWAP")
	require.NoError(t, err)
	room.DrawnNumbers = append(room.DrawnNumbers, 42)
	room.CurrentRound = 2
	room.State = models.StateCompleted
	room.Active = false
	done := epoch.Add(time.Hour)
	room.CompletedAt = &done
	require.NoError(t, s.SwapRoom(ctx, room))
	assert.Equal(t, int64(2), room.Version)

	got, err := s.GetRoom(ctx, "SWAP")
	require.NoError(t, err)
	assert.Equal(t, []int{42}, got.DrawnNumbers)
	assert.Equal(t, 2, got.CurrentRound)
	assert.Equal(t, models.StateCompleted, got.State)
	assert.False(t, got.Active)
	require.NotNil(t, got.CompletedAt)
	assert.True(t, got.CompletedAt.Equal(done))
	assert.Equal(t, int64(2), got.Version)
}

func testSwapRoomConflict(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.CreateRoom(ctx, NewRoom("RACE")))

	first, err := s.GetRoom(ctx, "RACE")
	require.NoError(t, err)
	second, err := s.GetRoom(ctx, "RACE")
	require.NoError(t, err)

	first.DrawnNumbers = []int{1}
	require.NoError(t, s.SwapRoom(ctx, first))

	second.DrawnNumbers = []int{2}
	err = s.SwapRoom(ctx, second)
	assert.ErrorIs(t, err, models.ErrConflict)
	assert.Equal(t, int64(1), second.Version, "failed swap must not bump the caller's version")

	got, err := s.GetRoom(ctx, "RACE")
	require.NoError(t, err)
	assert.Equal(t, []int{1}, got.DrawnNumbers)
}

func testConcurrentSwaps(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.CreateRoom(ctx, NewRoom("MANY")))

	const writers = 8
	rooms := make([]*models.Room, writers)
	for i := range rooms {
		r, err := s.GetRoom(ctx, "MANY")
		require.NoError(t, err)
		r.DrawnNumbers = []int{i + 1}
		rooms[i] = r
	}

	var wg sync.WaitGroup
	errs := make([]error, writers)
	for i := range rooms {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.SwapRoom(ctx, rooms[i])
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		assert.ErrorIs(t, err, models.ErrConflict)
	}
	assert.Equal(t, 1, wins)
}

func testListRooms(t *testing.T, s store.Store) {
	ctx := context.Background()
	a := NewRoom("LA01")
	b := NewRoom("LB02")
	b.CreatedAt = epoch.Add(time.Minute)
	b.State = models.StateCompleted
	b.Active = false
	c := NewRoom("LC03")
	c.AdminID = "admin-2"
	c.CreatedAt = epoch.Add(2 * time.Minute)
	for _, r := range []*models.Room{c, a, b} {
		require.NoError(t, s.CreateRoom(ctx, r))
	}

	all, err := s.ListRooms(ctx, models.RoomFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"LA01", "LB02", "LC03"}, roomIDs(all))

	mine, err := s.ListRooms(ctx, models.RoomFilter{AdminID: "admin-1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"LA01", "LB02"}, roomIDs(mine))

	done, err := s.ListRooms(ctx, models.RoomFilter{AdminID: "admin-1", State: models.StateCompleted})
	require.NoError(t, err)
	assert.Equal(t, []string{"LB02"}, roomIDs(done))
}

func testPlayers(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.CreateRoom(ctx, NewRoom("PLAY")))

	ana := NewPlayer("PLAY", "Ana", time.Second)
	bia := NewPlayer("PLAY", "Bia", 2*time.Second)
	require.NoError(t, s.AddPlayer(ctx, bia))
	require.NoError(t, s.AddPlayer(ctx, ana))
	require.NotEmpty(t, ana.ID)
	require.NotEmpty(t, bia.ID)
	assert.NotEqual(t, ana.ID, bia.ID)
	assert.Equal(t, int64(1), ana.Version)

	got, err := s.GetPlayer(ctx, "PLAY", ana.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.Name)
	assert.Equal(t, ana.Card, got.Card)
	assert.Empty(t, got.MarkedNumbers)
	assert.Equal(t, 1, got.Round)

	got.MarkedNumbers = []int{3}
	got.Round = 2
	require.NoError(t, s.SwapPlayer(ctx, got))
	again, err := s.GetPlayer(ctx, "PLAY", ana.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{3}, again.MarkedNumbers)
	assert.Equal(t, 2, again.Round)
	assert.Equal(t, int64(2), again.Version)

	list, err := s.ListPlayers(ctx, "PLAY")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Ana", list[0].Name)
	assert.Equal(t, "Bia", list[1].Name)

	require.NoError(t, s.DeletePlayer(ctx, "PLAY", bia.ID))
	_, err = s.GetPlayer(ctx, "PLAY", bia.ID)
	assert.ErrorIs(t, err, models.ErrPlayerNotFound)
	assert.ErrorIs(t, s.DeletePlayer(ctx, "PLAY", bia.ID), models.ErrPlayerNotFound)

	list, err = s.ListPlayers(ctx, "PLAY")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func testSwapPlayerConflict(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.CreateRoom(ctx, NewRoom("PCAS")))
	p := NewPlayer("PCAS", "Caio", 0)
	require.NoError(t, s.AddPlayer(ctx, p))

	a, err := s.GetPlayer(ctx, "PCAS", p.ID)
	require.NoError(t, err)
	b, err := s.GetPlayer(ctx, "PCAS", p.ID)
	require.NoError(t, err)

	a.MarkedNumbers = []int{1}
	require.NoError(t, s.SwapPlayer(ctx, a))
	b.MarkedNumbers = []int{2}
	assert.ErrorIs(t, s.SwapPlayer(ctx, b), models.ErrConflict)

	missing := NewPlayer("PCAS", "Ghost", 0)
	missing.ID = "ghost"
	missing.Version = 1
	assert.ErrorIs(t, s.SwapPlayer(ctx, missing), models.ErrPlayerNotFound)
	_, err = s.GetPlayer(ctx, "PCAS", "ghost")
	assert.ErrorIs(t, err, models.ErrPlayerNotFound)
}

func testPlayerInMissingRoom(t *testing.T, s store.Store) {
	ctx := context.Background()
	err := s.AddPlayer(ctx, NewPlayer("GONE", "Dani", 0))
	assert.ErrorIs(t, err, models.ErrRoomNotFound)

	_, err = s.ListPlayers(ctx, "GONE")
	assert.ErrorIs(t, err, models.ErrRoomNotFound)
}

func testCopies(t *testing.T, s store.Store) {
	ctx := context.Background()
	room := NewRoom("COPY")
	room.DrawnNumbers = []int{7}
	require.NoError(t, s.CreateRoom(ctx, room))
	room.DrawnNumbers[0] = 99

	got, err := s.GetRoom(ctx, "COPY")
	require.NoError(t, err)
	got.DrawnNumbers[0] = 55

	again, err := s.GetRoom(ctx, "COPY")
	require.NoError(t, err)
	assert.Equal(t, []int{7}, again.DrawnNumbers)
}

func roomIDs(rooms []*models.Room) []string {
	ids := make([]string, len(rooms))
	for i, r := range rooms {
		ids[i] = r.ID
	}
	return ids
}
