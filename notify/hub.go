package notify

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Hub fans room events out to in-process subscribers, keyed by room.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[uint64]func(RoomEvent)
	next uint64
	log  *zap.SugaredLogger
}

func NewHub(log *zap.SugaredLogger) *Hub {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Hub{subs: make(map[string]map[uint64]func(RoomEvent)), log: log}
}

// Subscribe registers fn for events of roomID. fn runs on the publishing
// goroutine and must not block. The returned function unsubscribes; calling
// it more than once is harmless.
func (h *Hub) Subscribe(roomID string, fn func(RoomEvent)) (unsubscribe func()) {
	h.mu.Lock()
	h.next++
	id := h.next
	room, ok := h.subs[roomID]
	if !ok {
		room = make(map[uint64]func(RoomEvent))
		h.subs[roomID] = room
	}
	room[id] = fn
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs[roomID], id)
			if len(h.subs[roomID]) == 0 {
				delete(h.subs, roomID)
			}
		})
	}
}

// Subscribers counts the subscribers of a room.
func (h *Hub) Subscribers(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[roomID])
}

// Publish delivers ev to the room's subscribers. It never fails.
func (h *Hub) Publish(_ context.Context, ev RoomEvent) error {
	h.mu.RLock()
	fns := make([]func(RoomEvent), 0, len(h.subs[ev.RoomID]))
	for _, fn := range h.subs[ev.RoomID] {
		fns = append(fns, fn)
	}
	h.mu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
	if len(fns) > 0 {
		h.log.Debugw("room event delivered", "type", ev.Type, "roomId", ev.RoomID, "subscribers", len(fns))
	}
	return nil
}
