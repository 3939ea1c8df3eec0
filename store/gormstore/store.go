// Package gormstore keeps rooms and players in SQL tables through gorm.
// Conditional writes are UPDATE ... WHERE version = ? statements.
package gormstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/bellapacxx/bingo-rooms/models"
	"github.com/bellapacxx/bingo-rooms/store"
)

// Store implements store.Store on a *gorm.DB.
type Store struct {
	db *gorm.DB
}

var _ store.Store = (*Store)(nil)

// New wraps an open database. Call Migrate first on a fresh schema.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates the rooms and players tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&roomRecord{}, &playerRecord{})
}

func (s *Store) CreateRoom(ctx context.Context, room *models.Room) error {
	rec, err := toRoomRecord(room)
	if err != nil {
		return err
	}
	rec.Version = 1

	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || s.roomExists(ctx, room.ID) {
			return models.ErrRoomExists
		}
		return fmt.Errorf("create room %s: %w", room.ID, err)
	}
	room.Version = 1
	return nil
}

func (s *Store) roomExists(ctx context.Context, roomID string) bool {
	var n int64
	err := s.db.WithContext(ctx).Model(&roomRecord{}).Where("id = ?", roomID).Count(&n).Error
	return err == nil && n > 0
}

func (s *Store) GetRoom(ctx context.Context, roomID string) (*models.Room, error) {
	var rec roomRecord
	if err := s.db.WithContext(ctx).Where("id = ?", roomID).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrRoomNotFound
		}
		return nil, fmt.Errorf("get room %s: %w", roomID, err)
	}
	return rec.toModel()
}

func (s *Store) ListRooms(ctx context.Context, filter models.RoomFilter) ([]*models.Room, error) {
	q := s.db.WithContext(ctx).Model(&roomRecord{})
	if filter.AdminID != "" {
		q = q.Where("admin_id = ?", filter.AdminID)
	}
	if filter.State != "" {
		q = q.Where("state = ?", string(filter.State))
	}

	var recs []roomRecord
	if err := q.Order("created_at").Order("id").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}

	rooms := make([]*models.Room, 0, len(recs))
	for i := range recs {
		room, err := recs[i].toModel()
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	store.SortRooms(rooms)
	return rooms, nil
}

func (s *Store) SwapRoom(ctx context.Context, room *models.Room) error {
	rec, err := toRoomRecord(room)
	if err != nil {
		return err
	}

	res := s.db.WithContext(ctx).Model(&roomRecord{}).
		Where("id = ? AND version = ?", room.ID, room.Version).
		Updates(map[string]any{
			"name":          rec.Name,
			"admin_id":      rec.AdminID,
			"universe_max":  rec.UniverseMax,
			"card_size":     rec.CardSize,
			"marking":       rec.Marking,
			"rounds":        rec.Rounds,
			"require_start": rec.RequireStart,
			"state":         rec.State,
			"active":        rec.Active,
			"drawn_numbers": rec.DrawnNumbers,
			"current_round": rec.CurrentRound,
			"winners":       rec.Winners,
			"completed_at":  rec.CompletedAt,
			"updated_at":    rec.UpdatedAt,
			"version":       room.Version + 1,
		})
	if res.Error != nil {
		return fmt.Errorf("swap room %s: %w", room.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		if !s.roomExists(ctx, room.ID) {
			return models.ErrRoomNotFound
		}
		return models.ErrConflict
	}
	room.Version++
	return nil
}

func (s *Store) AddPlayer(ctx context.Context, player *models.Player) error {
	if !s.roomExists(ctx, player.RoomID) {
		return models.ErrRoomNotFound
	}

	p := player.Clone()
	p.ID = store.NewPlayerID()
	p.Version = 1
	rec, err := toPlayerRecord(p)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("add player to room %s: %w", player.RoomID, err)
	}
	player.ID = p.ID
	player.Version = 1
	return nil
}

func (s *Store) GetPlayer(ctx context.Context, roomID, playerID string) (*models.Player, error) {
	var rec playerRecord
	err := s.db.WithContext(ctx).Where("id = ? AND room_id = ?", playerID, roomID).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if !s.roomExists(ctx, roomID) {
				return nil, models.ErrRoomNotFound
			}
			return nil, models.ErrPlayerNotFound
		}
		return nil, fmt.Errorf("get player %s: %w", playerID, err)
	}
	return rec.toModel()
}

func (s *Store) ListPlayers(ctx context.Context, roomID string) ([]*models.Player, error) {
	if !s.roomExists(ctx, roomID) {
		return nil, models.ErrRoomNotFound
	}

	var recs []playerRecord
	err := s.db.WithContext(ctx).Where("room_id = ?", roomID).Order("joined_at").Order("id").Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("list players of room %s: %w", roomID, err)
	}

	players := make([]*models.Player, 0, len(recs))
	for i := range recs {
		p, err := recs[i].toModel()
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	store.SortPlayers(players)
	return players, nil
}

func (s *Store) SwapPlayer(ctx context.Context, player *models.Player) error {
	rec, err := toPlayerRecord(player)
	if err != nil {
		return err
	}

	res := s.db.WithContext(ctx).Model(&playerRecord{}).
		Where("id = ? AND room_id = ? AND version = ?", player.ID, player.RoomID, player.Version).
		Updates(map[string]any{
			"name":           rec.Name,
			"card":           rec.Card,
			"marked_numbers": rec.MarkedNumbers,
			"round":          rec.Round,
			"version":        player.Version + 1,
		})
	if res.Error != nil {
		return fmt.Errorf("swap player %s: %w", player.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		var n int64
		if err := s.db.WithContext(ctx).Model(&playerRecord{}).
			Where("id = ? AND room_id = ?", player.ID, player.RoomID).Count(&n).Error; err != nil {
			return fmt.Errorf("swap player %s: %w", player.ID, err)
		}
		if n == 0 {
			return models.ErrPlayerNotFound
		}
		return models.ErrConflict
	}
	player.Version++
	return nil
}

func (s *Store) DeletePlayer(ctx context.Context, roomID, playerID string) error {
	res := s.db.WithContext(ctx).Where("id = ? AND room_id = ?", playerID, roomID).Delete(&playerRecord{})
	if res.Error != nil {
		return fmt.Errorf("delete player %s: %w", playerID, res.Error)
	}
	if res.RowsAffected == 0 {
		if !s.roomExists(ctx, roomID) {
			return models.ErrRoomNotFound
		}
		return models.ErrPlayerNotFound
	}
	return nil
}
