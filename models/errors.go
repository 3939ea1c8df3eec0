package models

import "errors"

// Common errors
var (
	ErrRoomNotFound         = errors.New("room not found")
	ErrPlayerNotFound       = errors.New("player not found in room")
	ErrRoomExists           = errors.New("room id already taken")
	ErrInvalidTransition    = errors.New("invalid state transition")
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrCardIncomplete       = errors.New("card is not complete")
	ErrInvalidInput         = errors.New("invalid input")

	// ErrConflict is returned by a store when a conditional write lost the race.
	ErrConflict = errors.New("document changed concurrently")
	// ErrContention means an operation kept conflicting and gave up.
	ErrContention = errors.New("too much contention on room")
)
