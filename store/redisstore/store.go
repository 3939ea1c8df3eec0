// Package redisstore keeps room and player documents as JSON strings in
// redis. Conditional writes run inside WATCH/MULTI so a concurrent writer
// aborts the transaction instead of being overwritten.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bellapacxx/bingo-rooms/models"
	"github.com/bellapacxx/bingo-rooms/store"
)

// Options tune key naming and expiry.
type Options struct {
	Prefix string
	// TTL expires room documents; zero keeps them forever.
	TTL time.Duration
}

// Store implements store.Store on a redis client.
type Store struct {
	rdb    redis.UniversalClient
	prefix string
	ttl    time.Duration
}

var _ store.Store = (*Store)(nil)

func New(rdb redis.UniversalClient, opts Options) *Store {
	if opts.Prefix == "" {
		opts.Prefix = DefaultPrefix
	}
	return &Store{rdb: rdb, prefix: opts.Prefix, ttl: opts.TTL}
}

// getter is satisfied by both the client and a WATCH transaction.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (s *Store) roomKey(id string) string { return BuildRoomKey(s.prefix, id) }

func (s *Store) playerKey(roomID, id string) string { return BuildPlayerKey(s.prefix, roomID, id) }

func (s *Store) playersKey(roomID string) string { return BuildRoomPlayersKey(s.prefix, roomID) }

// keepTTL is the expiration argument for overwrites of existing documents.
func (s *Store) keepTTL() time.Duration {
	if s.ttl > 0 {
		return redis.KeepTTL
	}
	return 0
}

func (s *Store) CreateRoom(ctx context.Context, room *models.Room) error {
	doc := room.Clone()
	doc.Version = 1
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal room: %w", err)
	}

	ok, err := s.rdb.SetNX(ctx, s.roomKey(room.ID), data, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to save room %s: %w", room.ID, err)
	}
	if !ok {
		return models.ErrRoomExists
	}
	if err := s.rdb.SAdd(ctx, BuildRoomIndexKey(s.prefix), room.ID).Err(); err != nil {
		return fmt.Errorf("failed to index room %s: %w", room.ID, err)
	}
	room.Version = 1
	return nil
}

func (s *Store) GetRoom(ctx context.Context, roomID string) (*models.Room, error) {
	return getRoom(ctx, s.rdb, s.roomKey(roomID))
}

func getRoom(ctx context.Context, c getter, key string) (*models.Room, error) {
	data, err := c.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, models.ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	var room models.Room
	if err := json.Unmarshal(data, &room); err != nil {
		return nil, fmt.Errorf("failed to unmarshal room: %w", err)
	}
	return room.Clone(), nil
}

func (s *Store) ListRooms(ctx context.Context, filter models.RoomFilter) ([]*models.Room, error) {
	ids, err := s.rdb.SMembers(ctx, BuildRoomIndexKey(s.prefix)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	if len(ids) == 0 {
		return []*models.Room{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.roomKey(id)
	}
	values, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load rooms: %w", err)
	}

	rooms := make([]*models.Room, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			// expired since the index was read
			continue
		}
		var room models.Room
		if err := json.Unmarshal([]byte(raw), &room); err != nil {
			return nil, fmt.Errorf("failed to unmarshal room: %w", err)
		}
		if filter.Match(&room) {
			rooms = append(rooms, room.Clone())
		}
	}
	store.SortRooms(rooms)
	return rooms, nil
}

func (s *Store) SwapRoom(ctx context.Context, room *models.Room) error {
	key := s.roomKey(room.ID)
	next := room.Clone()
	next.Version = room.Version + 1
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to marshal room: %w", err)
	}

	err = s.rdb.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := getRoom(ctx, tx, key)
		if err != nil {
			return err
		}
		if cur.Version != room.Version {
			return models.ErrConflict
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, key, data, s.keepTTL())
			return nil
		})
		return err
	}, key)
	if err != nil {
		if errors.Is(err, redis.TxFailedErr) {
			return models.ErrConflict
		}
		return err
	}
	room.Version++
	return nil
}

func (s *Store) AddPlayer(ctx context.Context, player *models.Player) error {
	n, err := s.rdb.Exists(ctx, s.roomKey(player.RoomID)).Result()
	if err != nil {
		return fmt.Errorf("failed to check room %s: %w", player.RoomID, err)
	}
	if n == 0 {
		return models.ErrRoomNotFound
	}

	doc := player.Clone()
	doc.ID = store.NewPlayerID()
	doc.Version = 1
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal player: %w", err)
	}

	_, err = s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, s.playerKey(doc.RoomID, doc.ID), data, s.ttl)
		p.SAdd(ctx, s.playersKey(doc.RoomID), doc.ID)
		if s.ttl > 0 {
			p.Expire(ctx, s.playersKey(doc.RoomID), s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to add player to room %s: %w", doc.RoomID, err)
	}
	player.ID = doc.ID
	player.Version = 1
	return nil
}

func (s *Store) GetPlayer(ctx context.Context, roomID, playerID string) (*models.Player, error) {
	p, err := getPlayer(ctx, s.rdb, s.playerKey(roomID, playerID))
	if errors.Is(err, models.ErrPlayerNotFound) {
		if n, exErr := s.rdb.Exists(ctx, s.roomKey(roomID)).Result(); exErr == nil && n == 0 {
			return nil, models.ErrRoomNotFound
		}
	}
	return p, err
}

func getPlayer(ctx context.Context, c getter, key string) (*models.Player, error) {
	data, err := c.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, models.ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	var p models.Player
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal player: %w", err)
	}
	return p.Clone(), nil
}

func (s *Store) ListPlayers(ctx context.Context, roomID string) ([]*models.Player, error) {
	n, err := s.rdb.Exists(ctx, s.roomKey(roomID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to check room %s: %w", roomID, err)
	}
	if n == 0 {
		return nil, models.ErrRoomNotFound
	}

	ids, err := s.rdb.SMembers(ctx, s.playersKey(roomID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list players of room %s: %w", roomID, err)
	}
	players := make([]*models.Player, 0, len(ids))
	if len(ids) == 0 {
		return players, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.playerKey(roomID, id)
	}
	values, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load players of room %s: %w", roomID, err)
	}
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var p models.Player
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return nil, fmt.Errorf("failed to unmarshal player: %w", err)
		}
		players = append(players, p.Clone())
	}
	store.SortPlayers(players)
	return players, nil
}

func (s *Store) SwapPlayer(ctx context.Context, player *models.Player) error {
	key := s.playerKey(player.RoomID, player.ID)
	next := player.Clone()
	next.Version = player.Version + 1
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to marshal player: %w", err)
	}

	err = s.rdb.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := getPlayer(ctx, tx, key)
		if err != nil {
			return err
		}
		if cur.Version != player.Version {
			return models.ErrConflict
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, key, data, s.keepTTL())
			return nil
		})
		return err
	}, key)
	if err != nil {
		if errors.Is(err, redis.TxFailedErr) {
			return models.ErrConflict
		}
		return err
	}
	player.Version++
	return nil
}

func (s *Store) DeletePlayer(ctx context.Context, roomID, playerID string) error {
	n, err := s.rdb.Del(ctx, s.playerKey(roomID, playerID)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete player %s: %w", playerID, err)
	}
	if err := s.rdb.SRem(ctx, s.playersKey(roomID), playerID).Err(); err != nil {
		return fmt.Errorf("failed to unindex player %s: %w", playerID, err)
	}
	if n == 0 {
		if exists, exErr := s.rdb.Exists(ctx, s.roomKey(roomID)).Result(); exErr == nil && exists == 0 {
			return models.ErrRoomNotFound
		}
		return models.ErrPlayerNotFound
	}
	return nil
}
