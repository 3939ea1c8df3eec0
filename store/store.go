// Package store is the persistence port of the room engine: a document store
// for rooms and their players with a conditional write primitive.
//
// Every Swap call is a compare-and-swap on the document's Version: it only
// succeeds if the stored version still equals the version the caller read,
// and on success it increments the version on both the store and the
// argument. A lost race returns models.ErrConflict and leaves the stored
// document untouched.
package store

import (
	"context"

	"github.com/bellapacxx/bingo-rooms/models"
)

type Store interface {
	// CreateRoom stores a new room with Version 1. ErrRoomExists if the id is taken.
	CreateRoom(ctx context.Context, room *models.Room) error
	GetRoom(ctx context.Context, roomID string) (*models.Room, error)
	ListRooms(ctx context.Context, filter models.RoomFilter) ([]*models.Room, error)
	SwapRoom(ctx context.Context, room *models.Room) error

	// AddPlayer allocates a unique player id, stores the player with Version 1
	// and writes the id back into player.ID.
	AddPlayer(ctx context.Context, player *models.Player) error
	GetPlayer(ctx context.Context, roomID, playerID string) (*models.Player, error)
	// ListPlayers returns the players of a room in join order.
	ListPlayers(ctx context.Context, roomID string) ([]*models.Player, error)
	SwapPlayer(ctx context.Context, player *models.Player) error
	DeletePlayer(ctx context.Context, roomID, playerID string) error
}
