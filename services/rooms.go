package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bellapacxx/bingo-rooms/game"
	"github.com/bellapacxx/bingo-rooms/models"
)

// CreateRoomParams describes a new room. Nil Rules means the manager default.
type CreateRoomParams struct {
	Name    string
	AdminID string
	Rules   *models.Rules
}

// CreateRoom allocates a room code and stores a fresh room: round 1, nothing
// drawn, no winners. Rooms whose rules require an explicit start begin in
// waiting; the others are drawable immediately.
func (m *RoomManager) CreateRoom(ctx context.Context, params CreateRoomParams) (*models.Room, error) {
	rules := m.defaultRules
	if params.Rules != nil {
		rules = *params.Rules
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}

	state := models.StateInProgress
	if rules.RequireStart {
		state = models.StateWaiting
	}

	now := m.now()
	for attempt := 0; attempt < roomCodeAttempts; attempt++ {
		room := &models.Room{
			ID:           game.NewRoomCode(m.rng),
			Name:         strings.TrimSpace(params.Name),
			AdminID:      params.AdminID,
			Rules:        rules,
			State:        state,
			Active:       true,
			DrawnNumbers: []int{},
			CurrentRound: 1,
			Winners:      []models.WinnerRecord{},
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		err := m.store.CreateRoom(ctx, room)
		if errors.Is(err, models.ErrRoomExists) {
			continue
		}
		if err != nil {
			return nil, err
		}

		m.log.Infow("room created",
			"roomId", room.ID,
			"name", room.Name,
			"adminId", room.AdminID,
			"state", room.State,
			"universe", rules.UniverseMax,
			"cardSize", rules.CardSize)
		return room, nil
	}
	return nil, fmt.Errorf("allocate room code: %w", models.ErrRoomExists)
}

// GetRoom returns the current room document.
func (m *RoomManager) GetRoom(ctx context.Context, roomID string) (*models.Room, error) {
	return m.store.GetRoom(ctx, roomID)
}

// ListRooms returns rooms matching filter, oldest first.
func (m *RoomManager) ListRooms(ctx context.Context, filter models.RoomFilter) ([]*models.Room, error) {
	return m.store.ListRooms(ctx, filter)
}

// StartGame moves a waiting room to in_progress.
func (m *RoomManager) StartGame(ctx context.Context, roomID string) (*models.Room, error) {
	room, err := m.mutateRoom(ctx, roomID, func(room *models.Room) error {
		if room.State != models.StateWaiting {
			return invalidTransition("start game in state %s", room.State)
		}
		room.State = models.StateInProgress
		return nil
	})
	if err != nil {
		return nil, err
	}
	m.log.Infow("game started", "roomId", roomID)
	return room, nil
}

// EndGame completes a room from any other state. A completed room is an
// inactive historical record.
func (m *RoomManager) EndGame(ctx context.Context, roomID string) (*models.Room, error) {
	room, err := m.mutateRoom(ctx, roomID, func(room *models.Room) error {
		if room.State == models.StateCompleted {
			return invalidTransition("game already completed")
		}
		complete(room, m.now())
		return nil
	})
	if err != nil {
		return nil, err
	}
	m.log.Infow("game ended", "roomId", roomID, "round", room.CurrentRound, "drawn", len(room.DrawnNumbers))
	return room, nil
}

// complete closes the room for good.
func complete(room *models.Room, at time.Time) {
	room.State = models.StateCompleted
	room.Active = false
	room.CompletedAt = &at
}
