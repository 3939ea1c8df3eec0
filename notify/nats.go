package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

const (
	// SubjectRoomPrefix + room id is the subject of one room's events.
	SubjectRoomPrefix = "bingo.rooms."
	// SubjectAllRooms matches every room subject.
	SubjectAllRooms = SubjectRoomPrefix + "*"
)

// BuildRoomSubject returns the subject events of roomID are published on.
func BuildRoomSubject(roomID string) string {
	return SubjectRoomPrefix + roomID
}

// NATSPublisher forwards room events to other nodes.
type NATSPublisher struct {
	nc     *nats.Conn
	origin string
}

// NewNATSPublisher stamps every event with origin, the id of this node.
func NewNATSPublisher(nc *nats.Conn, origin string) *NATSPublisher {
	return &NATSPublisher{nc: nc, origin: origin}
}

func (p *NATSPublisher) Publish(_ context.Context, ev RoomEvent) error {
	ev.Origin = p.origin
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal room event: %w", err)
	}
	if err := p.nc.Publish(BuildRoomSubject(ev.RoomID), data); err != nil {
		return fmt.Errorf("publish room event %s: %w", ev.RoomID, err)
	}
	return nil
}

// NATSBridge feeds events published by other nodes into the local hub.
type NATSBridge struct {
	nc     *nats.Conn
	hub    *Hub
	origin string
	log    *zap.SugaredLogger
	sub    *nats.Subscription
}

func NewNATSBridge(nc *nats.Conn, hub *Hub, origin string, log *zap.SugaredLogger) *NATSBridge {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &NATSBridge{nc: nc, hub: hub, origin: origin, log: log}
}

// Start subscribes to every room subject.
func (b *NATSBridge) Start() error {
	sub, err := b.nc.Subscribe(SubjectAllRooms, b.handle)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", SubjectAllRooms, err)
	}
	b.sub = sub
	b.log.Infow("nats bridge started", "subject", SubjectAllRooms, "origin", b.origin)
	return nil
}

// Stop drains the subscription.
func (b *NATSBridge) Stop() error {
	if b.sub == nil {
		return nil
	}
	return b.sub.Drain()
}

func (b *NATSBridge) handle(msg *nats.Msg) {
	var ev RoomEvent
	if err := json.Unmarshal(msg.Data, &ev); err != nil {
		b.log.Warnw("invalid room event", "subject", msg.Subject, "error", err)
		return
	}
	if ev.Origin == b.origin {
		// already delivered locally
		return
	}
	_ = b.hub.Publish(context.Background(), ev)
}
