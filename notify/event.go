package notify

import (
	"context"
	"errors"
	"time"

	"github.com/bellapacxx/bingo-rooms/models"
)

// EventType names a change to a room or one of its players.
type EventType string

const (
	RoomCreated   EventType = "room.created"
	RoomUpdated   EventType = "room.updated"
	PlayerJoined  EventType = "player.joined"
	PlayerUpdated EventType = "player.updated"
	PlayerLeft    EventType = "player.left"
	// RoomSnapshot is only sent to a websocket subscriber right after it connects.
	RoomSnapshot EventType = "room.snapshot"
)

// RoomEvent carries the full document that changed, so subscribers never
// need to read the store to render the new state.
type RoomEvent struct {
	Type     EventType        `json:"type"`
	RoomID   string           `json:"roomId"`
	Room     *models.Room     `json:"room,omitempty"`
	Player   *models.Player   `json:"player,omitempty"`
	Players  []*models.Player `json:"players,omitempty"`
	PlayerID string           `json:"playerId,omitempty"`
	At       time.Time        `json:"at"`
	// Origin identifies the node that published the event.
	Origin string `json:"origin,omitempty"`
}

// Publisher delivers room events to subscribers.
type Publisher interface {
	Publish(ctx context.Context, ev RoomEvent) error
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(ctx context.Context, ev RoomEvent) error

func (f PublisherFunc) Publish(ctx context.Context, ev RoomEvent) error { return f(ctx, ev) }

// Fanout publishes to every publisher and joins their errors.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, ev RoomEvent) error {
	var errs []error
	for _, p := range f {
		if err := p.Publish(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
