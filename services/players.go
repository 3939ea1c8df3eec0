package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/bellapacxx/bingo-rooms/game"
	"github.com/bellapacxx/bingo-rooms/models"
)

// JoinRoom issues a card to a new player. The store allocates the player id,
// so concurrent joins never collide.
func (m *RoomManager) JoinRoom(ctx context.Context, roomID, playerName string) (*models.Player, error) {
	playerName = strings.TrimSpace(playerName)
	if playerName == "" {
		return nil, fmt.Errorf("%w: player name is required", models.ErrInvalidInput)
	}

	room, err := m.store.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	card, err := game.CardFor(m.rng, room.Rules)
	if err != nil {
		return nil, err
	}

	player := &models.Player{
		RoomID:        roomID,
		Name:          playerName,
		Card:          card,
		MarkedNumbers: []int{},
		Round:         room.CurrentRound,
		JoinedAt:      m.now(),
	}
	if err := m.store.AddPlayer(ctx, player); err != nil {
		return nil, err
	}

	m.log.Infow("player joined", "roomId", roomID, "playerId", player.ID, "name", playerName)
	return player, nil
}

// RemovePlayer drops a player from the room. Winner records stay.
func (m *RoomManager) RemovePlayer(ctx context.Context, roomID, playerID string) error {
	if err := m.store.DeletePlayer(ctx, roomID, playerID); err != nil {
		return err
	}
	m.log.Infow("player removed", "roomId", roomID, "playerId", playerID)
	return nil
}

// ListPlayers returns the players of a room in join order.
func (m *RoomManager) ListPlayers(ctx context.Context, roomID string) ([]*models.Player, error) {
	if _, err := m.store.GetRoom(ctx, roomID); err != nil {
		return nil, err
	}
	return m.store.ListPlayers(ctx, roomID)
}

// PlayerView is what a player's screen shows: the card, the numbers that
// count as marked under the room's marking policy and how close the card is.
type PlayerView struct {
	Player   *models.Player `json:"player"`
	Marked   []int          `json:"marked"`
	Complete bool           `json:"complete"`
	Progress game.Progress  `json:"progress"`
	Round    int            `json:"round"`
	Won      bool           `json:"won"`
}

// PlayerView evaluates a player's card against the room's current draws.
func (m *RoomManager) PlayerView(ctx context.Context, roomID, playerID string) (*PlayerView, error) {
	room, err := m.store.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	player, err := m.store.GetPlayer(ctx, roomID, playerID)
	if err != nil {
		return nil, err
	}

	drawn := room.DrawnSet()
	marked := player.MarkedNumbers
	if room.Rules.Marking == models.MarkingAuto {
		marked = game.Covered(player.Card, drawn)
	}
	_, won := room.WinnerFor(playerID, room.CurrentRound)

	return &PlayerView{
		Player:   player,
		Marked:   marked,
		Complete: player.Round == room.CurrentRound && game.IsComplete(player.Card, drawn),
		Progress: game.EvaluateProgress(len(player.Card), len(marked)),
		Round:    room.CurrentRound,
		Won:      won,
	}, nil
}
