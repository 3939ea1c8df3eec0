package models

import (
	"fmt"
	"strings"
)

// MarkingPolicy decides where a player's marked numbers come from.
type MarkingPolicy string

const (
	// MarkingPlayer stores marks the player sets explicitly.
	MarkingPlayer MarkingPolicy = "player"
	// MarkingAuto derives marks as card ∩ drawn numbers; nothing is stored.
	MarkingAuto MarkingPolicy = "auto"
)

// RoundPolicy decides what happens after a card is completed.
type RoundPolicy string

const (
	// RoundsRepeatable keeps the room open; the admin starts new rounds.
	RoundsRepeatable RoundPolicy = "repeatable"
	// RoundsSingle completes the room on the first winner.
	RoundsSingle RoundPolicy = "single"
)

// Rules parameterise one room. Rooms with different rules share the same engine.
type Rules struct {
	UniverseMax  int           `json:"universeMax"`
	CardSize     int           `json:"cardSize"`
	Marking      MarkingPolicy `json:"marking"`
	Rounds       RoundPolicy   `json:"rounds"`
	RequireStart bool          `json:"requireStart"`
}

// ClassicRules: 1..60, ten numbers per card, players mark, rounds repeat.
var ClassicRules = Rules{
	UniverseMax: 60,
	CardSize:    10,
	Marking:     MarkingPlayer,
	Rounds:      RoundsRepeatable,
}

// DashboardRules: 1..100, twenty numbers per card, marks derived from draws,
// explicit start, first winner ends the game.
var DashboardRules = Rules{
	UniverseMax:  100,
	CardSize:     20,
	Marking:      MarkingAuto,
	Rounds:       RoundsSingle,
	RequireStart: true,
}

// RulesByName resolves a preset name ("classic", "dashboard").
func RulesByName(name string) (Rules, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "classic":
		return ClassicRules, nil
	case "dashboard":
		return DashboardRules, nil
	}
	return Rules{}, fmt.Errorf("%w: unknown rules preset %q", ErrInvalidConfiguration, name)
}

// Validate reports ErrInvalidConfiguration for rules no card could satisfy.
func (r Rules) Validate() error {
	if r.UniverseMax <= 0 {
		return fmt.Errorf("%w: universe size must be positive, got %d", ErrInvalidConfiguration, r.UniverseMax)
	}
	if r.CardSize <= 0 {
		return fmt.Errorf("%w: card size must be positive, got %d", ErrInvalidConfiguration, r.CardSize)
	}
	if r.CardSize > r.UniverseMax {
		return fmt.Errorf("%w: card size %d exceeds universe %d", ErrInvalidConfiguration, r.CardSize, r.UniverseMax)
	}
	switch r.Marking {
	case MarkingPlayer, MarkingAuto:
	default:
		return fmt.Errorf("%w: unknown marking policy %q", ErrInvalidConfiguration, r.Marking)
	}
	switch r.Rounds {
	case RoundsRepeatable, RoundsSingle:
	default:
		return fmt.Errorf("%w: unknown round policy %q", ErrInvalidConfiguration, r.Rounds)
	}
	return nil
}
