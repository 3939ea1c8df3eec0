package models

import (
	"slices"
	"time"
)

// GameState of a room.
type GameState string

const (
	StateWaiting    GameState = "waiting"
	StateInProgress GameState = "in_progress"
	StateCompleted  GameState = "completed"
)

// WinnerRecord notes that a player completed their card in a round.
type WinnerRecord struct {
	PlayerID   string    `json:"playerId"`
	PlayerName string    `json:"playerName"`
	Round      int       `json:"round"`
	Timestamp  time.Time `json:"timestamp"`
}

// Room is one game instance. Version is bumped by the store on every
// successful conditional write.
type Room struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	AdminID      string         `json:"adminId,omitempty"`
	Rules        Rules          `json:"rules"`
	State        GameState      `json:"state"`
	Active       bool           `json:"active"`
	DrawnNumbers []int          `json:"drawnNumbers"`
	CurrentRound int            `json:"currentRound"`
	Winners      []WinnerRecord `json:"winners"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	CompletedAt  *time.Time     `json:"completedAt,omitempty"`
	Version      int64          `json:"version"`
}

// Clone returns a deep copy so callers never share slices with a store.
func (r *Room) Clone() *Room {
	if r == nil {
		return nil
	}
	c := *r
	c.DrawnNumbers = slices.Clone(r.DrawnNumbers)
	c.Winners = slices.Clone(r.Winners)
	if r.CompletedAt != nil {
		t := *r.CompletedAt
		c.CompletedAt = &t
	}
	if c.DrawnNumbers == nil {
		c.DrawnNumbers = []int{}
	}
	if c.Winners == nil {
		c.Winners = []WinnerRecord{}
	}
	return &c
}

// DrawnSet indexes the drawn numbers for membership tests.
func (r *Room) DrawnSet() map[int]struct{} {
	set := make(map[int]struct{}, len(r.DrawnNumbers))
	for _, n := range r.DrawnNumbers {
		set[n] = struct{}{}
	}
	return set
}

// WinnerFor returns the record of playerID in round, if any.
func (r *Room) WinnerFor(playerID string, round int) (WinnerRecord, bool) {
	for _, w := range r.Winners {
		if w.PlayerID == playerID && w.Round == round {
			return w, true
		}
	}
	return WinnerRecord{}, false
}

// RoundWinners lists the winners of the current round in registration order.
func (r *Room) RoundWinners() []WinnerRecord {
	out := []WinnerRecord{}
	for _, w := range r.Winners {
		if w.Round == r.CurrentRound {
			out = append(out, w)
		}
	}
	return out
}

// Exhausted reports whether every number of the universe has been drawn.
func (r *Room) Exhausted() bool {
	return len(r.DrawnNumbers) >= r.Rules.UniverseMax
}

// RoomFilter narrows ListRooms. Zero fields match everything.
type RoomFilter struct {
	AdminID string
	State   GameState
}

// Match reports whether room passes the filter.
func (f RoomFilter) Match(room *Room) bool {
	if f.AdminID != "" && room.AdminID != f.AdminID {
		return false
	}
	if f.State != "" && room.State != f.State {
		return false
	}
	return true
}
