package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/bellapacxx/bingo-rooms/notify"
)

func (rc *RoomController) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if rc.allowedOrigins == nil {
				return true
			}
			origin := r.Header.Get("Origin")
			return origin == "" || rc.allowedOrigins[origin]
		},
	}
}

// RoomFeed handles GET /ws/rooms/:id. The subscriber first receives a
// room.snapshot event with the room and its players, then every change.
func (rc *RoomController) RoomFeed(c *gin.Context) {
	ctx := c.Request.Context()
	roomID := c.Param("id")
	if _, err := rc.rooms.GetRoom(ctx, roomID); err != nil {
		rc.fail(c, err)
		return
	}

	conn, err := rc.upgrader().Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// the upgrader already wrote the error response
		rc.log.Warnw("websocket upgrade failed", "roomId", roomID, "error", err)
		return
	}
	notify.ServeClient(rc.hub, conn, roomID, func() ([]byte, error) {
		return rc.snapshot(ctx, roomID)
	}, rc.log)
}

func (rc *RoomController) snapshot(ctx context.Context, roomID string) ([]byte, error) {
	room, err := rc.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	players, err := rc.rooms.ListPlayers(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return json.Marshal(notify.RoomEvent{
		Type:    notify.RoomSnapshot,
		RoomID:  roomID,
		Room:    room,
		Players: players,
		At:      time.Now(),
	})
}
