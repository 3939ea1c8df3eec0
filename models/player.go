package models

import (
	"slices"
	"time"
)

// Player is one participant of a room. The record survives rounds; Card and
// MarkedNumbers are reissued when a new round starts and Round names the
// round the current card was issued for.
type Player struct {
	ID            string    `json:"id"`
	RoomID        string    `json:"roomId"`
	Name          string    `json:"name"`
	Card          []int     `json:"card"`
	MarkedNumbers []int     `json:"markedNumbers"`
	Round         int       `json:"round"`
	JoinedAt      time.Time `json:"joinedAt"`
	Version       int64     `json:"version"`
}

func (p *Player) Clone() *Player {
	if p == nil {
		return nil
	}
	c := *p
	c.Card = slices.Clone(p.Card)
	c.MarkedNumbers = slices.Clone(p.MarkedNumbers)
	if c.Card == nil {
		c.Card = []int{}
	}
	if c.MarkedNumbers == nil {
		c.MarkedNumbers = []int{}
	}
	return &c
}

// HasNumber reports whether n is on the card.
func (p *Player) HasNumber(n int) bool {
	return slices.Contains(p.Card, n)
}

// IsMarked reports whether n is already marked.
func (p *Player) IsMarked(n int) bool {
	return slices.Contains(p.MarkedNumbers, n)
}
