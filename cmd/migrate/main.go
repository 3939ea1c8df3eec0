package main

import (
	"log"

	"github.com/bellapacxx/bingo-rooms/config"
	"github.com/bellapacxx/bingo-rooms/utils/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[FATAL] config: %v", err)
	}
	if err := logger.Init(cfg.App.LogLevel, cfg.App.LogEncoding); err != nil {
		log.Fatalf("[FATAL] logger: %v", err)
	}
	defer logger.Sync()

	if cfg.Database.URL == "" {
		logger.Log.Fatalw("DATABASE_URL is required")
	}

	db, err := config.ConnectDB(cfg.Database) // connects + migrates
	if err != nil {
		logger.Log.Fatalw("migration failed", "error", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Infof("database migration completed")
}
