package store

import (
	"context"
	"sync"

	"github.com/bellapacxx/bingo-rooms/models"
)

type memoryRoom struct {
	room    *models.Room
	players map[string]*models.Player
}

// Memory is an in-process Store. Documents are copied on the way in and out,
// so callers never alias stored state.
type Memory struct {
	mu    sync.RWMutex
	rooms map[string]*memoryRoom
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{rooms: make(map[string]*memoryRoom)}
}

func (m *Memory) CreateRoom(_ context.Context, room *models.Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.rooms[room.ID]; exists {
		return models.ErrRoomExists
	}
	room.Version = 1
	m.rooms[room.ID] = &memoryRoom{
		room:    room.Clone(),
		players: make(map[string]*models.Player),
	}
	return nil
}

func (m *Memory) GetRoom(_ context.Context, roomID string) (*models.Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.rooms[roomID]
	if !ok {
		return nil, models.ErrRoomNotFound
	}
	return entry.room.Clone(), nil
}

func (m *Memory) ListRooms(_ context.Context, filter models.RoomFilter) ([]*models.Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rooms := make([]*models.Room, 0, len(m.rooms))
	for _, entry := range m.rooms {
		if filter.Match(entry.room) {
			rooms = append(rooms, entry.room.Clone())
		}
	}
	SortRooms(rooms)
	return rooms, nil
}

func (m *Memory) SwapRoom(_ context.Context, room *models.Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.rooms[room.ID]
	if !ok {
		return models.ErrRoomNotFound
	}
	if entry.room.Version != room.Version {
		return models.ErrConflict
	}
	room.Version++
	entry.room = room.Clone()
	return nil
}

func (m *Memory) AddPlayer(_ context.Context, player *models.Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.rooms[player.RoomID]
	if !ok {
		return models.ErrRoomNotFound
	}
	player.ID = NewPlayerID()
	player.Version = 1
	entry.players[player.ID] = player.Clone()
	return nil
}

func (m *Memory) GetPlayer(_ context.Context, roomID, playerID string) (*models.Player, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.rooms[roomID]
	if !ok {
		return nil, models.ErrRoomNotFound
	}
	p, ok := entry.players[playerID]
	if !ok {
		return nil, models.ErrPlayerNotFound
	}
	return p.Clone(), nil
}

func (m *Memory) ListPlayers(_ context.Context, roomID string) ([]*models.Player, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.rooms[roomID]
	if !ok {
		return nil, models.ErrRoomNotFound
	}
	players := make([]*models.Player, 0, len(entry.players))
	for _, p := range entry.players {
		players = append(players, p.Clone())
	}
	SortPlayers(players)
	return players, nil
}

func (m *Memory) SwapPlayer(_ context.Context, player *models.Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.rooms[player.RoomID]
	if !ok {
		return models.ErrRoomNotFound
	}
	cur, ok := entry.players[player.ID]
	if !ok {
		return models.ErrPlayerNotFound
	}
	if cur.Version != player.Version {
		return models.ErrConflict
	}
	player.Version++
	entry.players[player.ID] = player.Clone()
	return nil
}

func (m *Memory) DeletePlayer(_ context.Context, roomID, playerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.rooms[roomID]
	if !ok {
		return models.ErrRoomNotFound
	}
	if _, ok := entry.players[playerID]; !ok {
		return models.ErrPlayerNotFound
	}
	delete(entry.players, playerID)
	return nil
}
