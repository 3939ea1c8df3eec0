package gormstore

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/bellapacxx/bingo-rooms/models"
)

type roomRecord struct {
	ID           string `gorm:"primaryKey;size:16"`
	Name         string
	AdminID      string `gorm:"index;size:128"`
	UniverseMax  int
	CardSize     int
	Marking      string `gorm:"size:16"`
	Rounds       string `gorm:"size:16"`
	RequireStart bool
	State        string `gorm:"index;size:16"`
	Active       bool
	DrawnNumbers datatypes.JSON
	CurrentRound int
	Winners      datatypes.JSON
	CompletedAt  *time.Time
	Version      int64     `gorm:"not null;default:1"`
	CreatedAt    time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime:false"`
}

func (roomRecord) TableName() string { return "rooms" }

type playerRecord struct {
	ID            string `gorm:"primaryKey;size:64"`
	RoomID        string `gorm:"index;size:16;not null"`
	Name          string
	Card          datatypes.JSON
	MarkedNumbers datatypes.JSON
	Round         int       `gorm:"not null;default:1"`
	JoinedAt      time.Time `gorm:"autoCreateTime:false"`
	Version       int64     `gorm:"not null;default:1"`
}

func (playerRecord) TableName() string { return "players" }

func jsonOf[T any](v []T) (datatypes.JSON, error) {
	if v == nil {
		v = []T{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

func sliceOf[T any](raw datatypes.JSON) ([]T, error) {
	out := []T{}
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func toRoomRecord(r *models.Room) (*roomRecord, error) {
	drawn, err := jsonOf(r.DrawnNumbers)
	if err != nil {
		return nil, fmt.Errorf("encode drawn numbers: %w", err)
	}
	winners, err := jsonOf(r.Winners)
	if err != nil {
		return nil, fmt.Errorf("encode winners: %w", err)
	}
	return &roomRecord{
		ID:           r.ID,
		Name:         r.Name,
		AdminID:      r.AdminID,
		UniverseMax:  r.Rules.UniverseMax,
		CardSize:     r.Rules.CardSize,
		Marking:      string(r.Rules.Marking),
		Rounds:       string(r.Rules.Rounds),
		RequireStart: r.Rules.RequireStart,
		State:        string(r.State),
		Active:       r.Active,
		DrawnNumbers: drawn,
		CurrentRound: r.CurrentRound,
		Winners:      winners,
		CompletedAt:  r.CompletedAt,
		Version:      r.Version,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}, nil
}

func (rec *roomRecord) toModel() (*models.Room, error) {
	drawn, err := sliceOf[int](rec.DrawnNumbers)
	if err != nil {
		return nil, fmt.Errorf("decode drawn numbers of room %s: %w", rec.ID, err)
	}
	winners, err := sliceOf[models.WinnerRecord](rec.Winners)
	if err != nil {
		return nil, fmt.Errorf("decode winners of room %s: %w", rec.ID, err)
	}
	return &models.Room{
		ID:      rec.ID,
		Name:    rec.Name,
		AdminID: rec.AdminID,
		Rules: models.Rules{
			UniverseMax:  rec.UniverseMax,
			CardSize:     rec.CardSize,
			Marking:      models.MarkingPolicy(rec.Marking),
			Rounds:       models.RoundPolicy(rec.Rounds),
			RequireStart: rec.RequireStart,
		},
		State:        models.GameState(rec.State),
		Active:       rec.Active,
		DrawnNumbers: drawn,
		CurrentRound: rec.CurrentRound,
		Winners:      winners,
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
		CompletedAt:  rec.CompletedAt,
		Version:      rec.Version,
	}, nil
}

func toPlayerRecord(p *models.Player) (*playerRecord, error) {
	card, err := jsonOf(p.Card)
	if err != nil {
		return nil, fmt.Errorf("encode card: %w", err)
	}
	marked, err := jsonOf(p.MarkedNumbers)
	if err != nil {
		return nil, fmt.Errorf("encode marked numbers: %w", err)
	}
	return &playerRecord{
		ID:            p.ID,
		RoomID:        p.RoomID,
		Name:          p.Name,
		Card:          card,
		MarkedNumbers: marked,
		Round:         p.Round,
		JoinedAt:      p.JoinedAt,
		Version:       p.Version,
	}, nil
}

func (rec *playerRecord) toModel() (*models.Player, error) {
	card, err := sliceOf[int](rec.Card)
	if err != nil {
		return nil, fmt.Errorf("decode card of player %s: %w", rec.ID, err)
	}
	marked, err := sliceOf[int](rec.MarkedNumbers)
	if err != nil {
		return nil, fmt.Errorf("decode marks of player %s: %w", rec.ID, err)
	}
	return &models.Player{
		ID:            rec.ID,
		RoomID:        rec.RoomID,
		Name:          rec.Name,
		Card:          card,
		MarkedNumbers: marked,
		Round:         rec.Round,
		JoinedAt:      rec.JoinedAt,
		Version:       rec.Version,
	}, nil
}
