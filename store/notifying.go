package store

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/bellapacxx/bingo-rooms/models"
	"github.com/bellapacxx/bingo-rooms/notify"
)

type notifying struct {
	Store
	pub notify.Publisher
	log *zap.SugaredLogger
}

// Notifying wraps a store so every successful write is published as a
// notify.RoomEvent. A failed publish is logged and does not fail the write:
// the document is already stored and subscribers catch up on the next change.
func Notifying(inner Store, pub notify.Publisher, log *zap.SugaredLogger) Store {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &notifying{Store: inner, pub: pub, log: log}
}

func (n *notifying) publish(ctx context.Context, ev notify.RoomEvent) {
	ev.At = time.Now()
	if err := n.pub.Publish(ctx, ev); err != nil {
		n.log.Warnw("publish room event", "type", ev.Type, "roomId", ev.RoomID, "error", err)
	}
}

func (n *notifying) CreateRoom(ctx context.Context, room *models.Room) error {
	if err := n.Store.CreateRoom(ctx, room); err != nil {
		return err
	}
	n.publish(ctx, notify.RoomEvent{Type: notify.RoomCreated, RoomID: room.ID, Room: room.Clone()})
	return nil
}

func (n *notifying) SwapRoom(ctx context.Context, room *models.Room) error {
	if err := n.Store.SwapRoom(ctx, room); err != nil {
		return err
	}
	n.publish(ctx, notify.RoomEvent{Type: notify.RoomUpdated, RoomID: room.ID, Room: room.Clone()})
	return nil
}

func (n *notifying) AddPlayer(ctx context.Context, player *models.Player) error {
	if err := n.Store.AddPlayer(ctx, player); err != nil {
		return err
	}
	n.publish(ctx, notify.RoomEvent{
		Type: notify.PlayerJoined, RoomID: player.RoomID, PlayerID: player.ID, Player: player.Clone(),
	})
	return nil
}

func (n *notifying) SwapPlayer(ctx context.Context, player *models.Player) error {
	if err := n.Store.SwapPlayer(ctx, player); err != nil {
		return err
	}
	n.publish(ctx, notify.RoomEvent{
		Type: notify.PlayerUpdated, RoomID: player.RoomID, PlayerID: player.ID, Player: player.Clone(),
	})
	return nil
}

func (n *notifying) DeletePlayer(ctx context.Context, roomID, playerID string) error {
	if err := n.Store.DeletePlayer(ctx, roomID, playerID); err != nil {
		return err
	}
	n.publish(ctx, notify.RoomEvent{Type: notify.PlayerLeft, RoomID: roomID, PlayerID: playerID})
	return nil
}
