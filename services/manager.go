package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/bellapacxx/bingo-rooms/game"
	"github.com/bellapacxx/bingo-rooms/models"
	"github.com/bellapacxx/bingo-rooms/store"
)

const (
	// DefaultMaxAttempts bounds the read-compute-swap retries of one operation.
	DefaultMaxAttempts = 32
	roomCodeAttempts   = 8
)

// errNoChange ends a mutation without writing anything.
var errNoChange = errors.New("no change")

// RoomManager owns every state transition of rooms and their players. It
// keeps no state of its own: each operation reads the documents it needs
// from the store, computes the next state and writes it back with a
// conditional swap, retrying when another writer got there first.
type RoomManager struct {
	store        store.Store
	rng          game.Source
	now          func() time.Time
	log          *zap.SugaredLogger
	defaultRules models.Rules
	maxAttempts  int
}

type Option func(*RoomManager)

// WithSource sets the randomness used for cards, draws and room codes.
func WithSource(src game.Source) Option {
	return func(m *RoomManager) { m.rng = src }
}

// WithClock sets the time source for timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *RoomManager) { m.now = now }
}

func WithLogger(l *zap.SugaredLogger) Option {
	return func(m *RoomManager) { m.log = l }
}

// WithDefaultRules sets the rules of rooms created without explicit rules.
func WithDefaultRules(r models.Rules) Option {
	return func(m *RoomManager) { m.defaultRules = r }
}

func WithMaxAttempts(n int) Option {
	return func(m *RoomManager) {
		if n > 0 {
			m.maxAttempts = n
		}
	}
}

// NewRoomManager creates a manager on top of st.
func NewRoomManager(st store.Store, opts ...Option) *RoomManager {
	m := &RoomManager{
		store:        st,
		rng:          game.DefaultSource,
		now:          time.Now,
		log:          zap.NewNop().Sugar(),
		defaultRules: models.ClassicRules,
		maxAttempts:  DefaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// mutateRoom applies fn to a fresh copy of the room and swaps it in. fn may
// run several times; it must derive everything from the room it is given.
// Returning errNoChange from fn skips the write and returns the room as read.
func (m *RoomManager) mutateRoom(ctx context.Context, roomID string, fn func(room *models.Room) error) (*models.Room, error) {
	for attempt := 1; attempt <= m.maxAttempts; attempt++ {
		room, err := m.store.GetRoom(ctx, roomID)
		if err != nil {
			return nil, err
		}
		if err := fn(room); err != nil {
			if errors.Is(err, errNoChange) {
				return room, nil
			}
			return nil, err
		}
		room.UpdatedAt = m.now()

		err = m.store.SwapRoom(ctx, room)
		if err == nil {
			return room, nil
		}
		if !errors.Is(err, models.ErrConflict) {
			return nil, err
		}
		m.log.Debugw("room write conflict, retrying", "roomId", roomID, "attempt", attempt)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w %s after %d attempts", models.ErrContention, roomID, m.maxAttempts)
}

// mutatePlayer is mutateRoom for a player document.
func (m *RoomManager) mutatePlayer(ctx context.Context, roomID, playerID string, fn func(p *models.Player) error) (*models.Player, error) {
	for attempt := 1; attempt <= m.maxAttempts; attempt++ {
		p, err := m.store.GetPlayer(ctx, roomID, playerID)
		if err != nil {
			return nil, err
		}
		if err := fn(p); err != nil {
			if errors.Is(err, errNoChange) {
				return p, nil
			}
			return nil, err
		}

		err = m.store.SwapPlayer(ctx, p)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, models.ErrConflict) {
			return nil, err
		}
		m.log.Debugw("player write conflict, retrying", "roomId", roomID, "playerId", playerID, "attempt", attempt)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w %s (player %s) after %d attempts", models.ErrContention, roomID, playerID, m.maxAttempts)
}

func invalidTransition(format string, args ...any) error {
	return fmt.Errorf("%w: %s", models.ErrInvalidTransition, fmt.Sprintf(format, args...))
}
