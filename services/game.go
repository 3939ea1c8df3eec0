package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/bellapacxx/bingo-rooms/game"
	"github.com/bellapacxx/bingo-rooms/models"
)

// DrawNumber draws the next number of the current round. It returns
// ok=false, without writing anything, once every number of the universe
// has been drawn. Concurrent draws on one room never repeat a number and
// never lose one.
func (m *RoomManager) DrawNumber(ctx context.Context, roomID string) (int, bool, error) {
	var (
		drawn     int
		exhausted bool
	)
	room, err := m.mutateRoom(ctx, roomID, func(room *models.Room) error {
		drawn, exhausted = 0, false
		if room.State != models.StateInProgress {
			return invalidTransition("draw in state %s", room.State)
		}
		n, ok := game.DrawNext(m.rng, room.DrawnNumbers, room.Rules.UniverseMax)
		if !ok {
			exhausted = true
			return errNoChange
		}
		room.DrawnNumbers = append(room.DrawnNumbers, n)
		drawn = n
		return nil
	})
	if err != nil {
		return 0, false, err
	}
	if exhausted {
		m.log.Infow("draw exhausted", "roomId", roomID, "round", room.CurrentRound)
		return 0, false, nil
	}

	m.log.Debugw("number drawn", "roomId", roomID, "number", drawn, "count", len(room.DrawnNumbers))
	return drawn, true, nil
}

// RegisterWinner records that playerID completed their card in the current
// round. The card must have been issued for that round and be covered by the
// room's drawn numbers. A second call for the same player and round returns
// the existing record with created=false. With single-round rules the first
// winner completes the room.
func (m *RoomManager) RegisterWinner(ctx context.Context, roomID, playerID, playerName string) (models.WinnerRecord, bool, error) {
	player, err := m.store.GetPlayer(ctx, roomID, playerID)
	if err != nil {
		return models.WinnerRecord{}, false, err
	}
	if playerName == "" {
		playerName = player.Name
	}

	var (
		record  models.WinnerRecord
		created bool
	)
	room, err := m.mutateRoom(ctx, roomID, func(room *models.Room) error {
		created = false
		if existing, ok := room.WinnerFor(playerID, room.CurrentRound); ok {
			record = existing
			return errNoChange
		}
		if room.State != models.StateInProgress {
			return invalidTransition("register winner in state %s", room.State)
		}

		// the card may have been reissued since the last attempt
		player, err := m.store.GetPlayer(ctx, roomID, playerID)
		if err != nil {
			return err
		}
		if player.Round != room.CurrentRound {
			return fmt.Errorf("%w: card was issued for round %d, room is in round %d",
				models.ErrCardIncomplete, player.Round, room.CurrentRound)
		}
		if !game.IsComplete(player.Card, room.DrawnSet()) {
			return models.ErrCardIncomplete
		}

		now := m.now()
		record = models.WinnerRecord{
			PlayerID:   playerID,
			PlayerName: playerName,
			Round:      room.CurrentRound,
			Timestamp:  now,
		}
		room.Winners = append(room.Winners, record)
		if room.Rules.Rounds == models.RoundsSingle {
			complete(room, now)
		}
		created = true
		return nil
	})
	if err != nil {
		return models.WinnerRecord{}, false, err
	}

	if created {
		m.log.Infow("winner registered",
			"roomId", roomID,
			"playerId", playerID,
			"playerName", playerName,
			"round", record.Round,
			"state", room.State)
	}
	return record, created, nil
}

// StartNewRound clears the draws, bumps the round and reissues every
// player's card with no marks. Winners of earlier rounds are kept.
//
// The room and each player are separate writes. While any player still holds
// a card of an earlier round the previous reset is unfinished: the call then
// keeps the round number, clears numbers drawn since and reissues the
// remaining cards, so a failed reset is completed by calling StartNewRound
// again.
func (m *RoomManager) StartNewRound(ctx context.Context, roomID string) (*models.Room, error) {
	var resumed bool
	room, err := m.mutateRoom(ctx, roomID, func(room *models.Room) error {
		resumed = false
		if room.Rules.Rounds == models.RoundsSingle {
			return invalidTransition("rooms with single-round rules cannot start a new round")
		}
		if room.State == models.StateCompleted {
			return invalidTransition("start new round in state %s", room.State)
		}

		players, err := m.store.ListPlayers(ctx, room.ID)
		if err != nil {
			return err
		}
		for _, p := range players {
			if p.Round < room.CurrentRound {
				// finish the earlier reset; numbers drawn meanwhile belong to no card
				resumed = true
				if len(room.DrawnNumbers) == 0 {
					return errNoChange
				}
				room.DrawnNumbers = []int{}
				return nil
			}
		}

		room.DrawnNumbers = []int{}
		room.CurrentRound++
		return nil
	})
	if err != nil {
		return nil, err
	}

	players, err := m.store.ListPlayers(ctx, roomID)
	if err != nil {
		return nil, err
	}
	reissued := 0
	for _, p := range players {
		if p.Round >= room.CurrentRound {
			continue
		}
		_, err = m.mutatePlayer(ctx, roomID, p.ID, func(p *models.Player) error {
			if p.Round >= room.CurrentRound {
				return errNoChange
			}
			card, err := game.CardFor(m.rng, room.Rules)
			if err != nil {
				return err
			}
			p.Card = card
			p.MarkedNumbers = []int{}
			p.Round = room.CurrentRound
			return nil
		})
		if errors.Is(err, models.ErrPlayerNotFound) {
			// left while the round was being reset
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reissue card of player %s for round %d: %w", p.ID, room.CurrentRound, err)
		}
		reissued++
	}

	m.log.Infow("new round started",
		"roomId", roomID,
		"round", room.CurrentRound,
		"players", len(players),
		"reissued", reissued,
		"resumed", resumed)
	return room, nil
}

// MarkNumber marks n on the player's card. Numbers not on the card and
// numbers already marked are ignored. An unknown player is ignored as
// well and yields a nil player. Rooms that derive marks from the draws
// reject explicit marking.
func (m *RoomManager) MarkNumber(ctx context.Context, roomID, playerID string, n int) (*models.Player, error) {
	room, err := m.store.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room.Rules.Marking != models.MarkingPlayer {
		return nil, invalidTransition("numbers are marked automatically in this room")
	}

	player, err := m.mutatePlayer(ctx, roomID, playerID, func(p *models.Player) error {
		if !p.HasNumber(n) || p.IsMarked(n) {
			return errNoChange
		}
		p.MarkedNumbers = append(p.MarkedNumbers, n)
		return nil
	})
	if errors.Is(err, models.ErrPlayerNotFound) {
		m.log.Debugw("mark for unknown player ignored", "roomId", roomID, "playerId", playerID, "number", n)
		return nil, nil
	}
	return player, err
}
