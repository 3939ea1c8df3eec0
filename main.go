package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bellapacxx/bingo-rooms/config"
	"github.com/bellapacxx/bingo-rooms/controllers"
	"github.com/bellapacxx/bingo-rooms/notify"
	"github.com/bellapacxx/bingo-rooms/routes"
	"github.com/bellapacxx/bingo-rooms/services"
	"github.com/bellapacxx/bingo-rooms/store"
	"github.com/bellapacxx/bingo-rooms/utils/logger"
)

// setupRouter initializes Gin routes and middleware
func setupRouter(cfg *config.Config, rc *controllers.RoomController) *gin.Engine {
	if cfg.App.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(logger.Gin(logger.Named("http")))
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.HTTP.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.SetupRoutes(r, rc)
	return r
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[FATAL] config: %v", err)
	}
	if err := logger.Init(cfg.App.LogLevel, cfg.App.LogEncoding); err != nil {
		log.Fatalf("[FATAL] logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	nodeID := cfg.App.NodeID
	if nodeID == "" {
		nodeID = uuid.NewString()
	}

	// Change feed: local hub, plus nats when several nodes share a store
	hub := notify.NewHub(logger.Named("hub"))
	var publisher notify.Publisher = hub
	if cfg.NATS.URL != "" {
		nc, err := config.ConnectNATS(cfg.NATS, logger.Named("nats"))
		if err != nil {
			logger.Log.Fatalw("nats", "error", err)
		}
		defer nc.Close()

		bridge := notify.NewNATSBridge(nc, hub, nodeID, logger.Named("nats"))
		if err := bridge.Start(); err != nil {
			logger.Log.Fatalw("nats bridge", "error", err)
		}
		defer bridge.Stop()
		publisher = notify.Fanout{hub, notify.NewNATSPublisher(nc, nodeID)}
	}

	inner, closeStore, err := config.OpenStore(ctx, cfg, logger.Named("store"))
	if err != nil {
		logger.Log.Fatalw("store", "driver", cfg.Store.Driver, "error", err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Errorf("close store: %v", err)
		}
	}()

	rooms := services.NewRoomManager(
		store.Notifying(inner, publisher, logger.Named("notify")),
		services.WithLogger(logger.Named("rooms")),
		services.WithDefaultRules(cfg.App.DefaultRules),
	)
	rc := controllers.NewRoomController(rooms, hub, cfg.HTTP.CORSOrigins, logger.Named("ws"))

	srv := &http.Server{
		Addr:              ":" + cfg.HTTP.Port,
		Handler:           setupRouter(cfg, rc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("bingo rooms server starting on port %s (node %s, store %s)", cfg.HTTP.Port, nodeID, cfg.Store.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatalw("server", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Infof("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("shutdown: %v", err)
	}
}
