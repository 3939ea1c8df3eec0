package store

import (
	"cmp"
	"slices"

	"github.com/google/uuid"

	"github.com/bellapacxx/bingo-rooms/models"
)

// SortPlayers orders players by join time, then id.
func SortPlayers(players []*models.Player) {
	slices.SortFunc(players, func(a, b *models.Player) int {
		if c := a.JoinedAt.Compare(b.JoinedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

// SortRooms orders rooms by creation time, then id.
func SortRooms(rooms []*models.Room) {
	slices.SortFunc(rooms, func(a, b *models.Room) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

// NewPlayerID allocates a time-ordered unique key (UUIDv7).
func NewPlayerID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
