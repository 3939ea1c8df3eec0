package config

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/bellapacxx/bingo-rooms/store"
	"github.com/bellapacxx/bingo-rooms/store/gormstore"
	"github.com/bellapacxx/bingo-rooms/store/redisstore"
)

// OpenStore builds the configured store. The returned function releases its
// connections.
func OpenStore(ctx context.Context, cfg *Config, log *zap.SugaredLogger) (store.Store, func() error, error) {
	switch cfg.Store.Driver {
	case DriverMemory:
		log.Warnw("using in-memory store, rooms are lost on restart")
		return store.NewMemory(), func() error { return nil }, nil

	case DriverPostgres:
		db, err := ConnectDB(cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, err
		}
		log.Infow("postgres store ready")
		return gormstore.New(db), sqlDB.Close, nil

	case DriverRedis:
		rdb, err := ConnectRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		log.Infow("redis store ready", "addr", cfg.Redis.Addr, "prefix", cfg.Redis.Prefix, "ttl", cfg.Redis.TTL)
		return redisstore.New(rdb, redisstore.Options{Prefix: cfg.Redis.Prefix, TTL: cfg.Redis.TTL}), rdb.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}
