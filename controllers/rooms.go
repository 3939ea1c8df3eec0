package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bellapacxx/bingo-rooms/models"
	"github.com/bellapacxx/bingo-rooms/notify"
	"github.com/bellapacxx/bingo-rooms/services"
)

// RoomController serves the room API on top of a RoomManager.
type RoomController struct {
	rooms *services.RoomManager
	hub   *notify.Hub
	log   *zap.SugaredLogger

	allowedOrigins map[string]bool
}

// NewRoomController wires the handlers. hub feeds the websocket endpoint;
// origins restricts websocket upgrades, empty or "*" allows any origin.
func NewRoomController(rooms *services.RoomManager, hub *notify.Hub, origins []string, log *zap.SugaredLogger) *RoomController {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	rc := &RoomController{rooms: rooms, hub: hub, log: log}
	for _, o := range origins {
		if o == "*" {
			rc.allowedOrigins = nil
			break
		}
		if rc.allowedOrigins == nil {
			rc.allowedOrigins = make(map[string]bool)
		}
		rc.allowedOrigins[o] = true
	}
	return rc
}

type createRoomRequest struct {
	Name    string `json:"name" binding:"required"`
	AdminID string `json:"adminId"`
	// Preset names a rule set ("classic", "dashboard"); Rules overrides it.
	Preset string        `json:"preset"`
	Rules  *models.Rules `json:"rules"`
}

// CreateRoom handles POST /api/rooms.
func (rc *RoomController) CreateRoom(c *gin.Context) {
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	params := services.CreateRoomParams{Name: req.Name, AdminID: req.AdminID, Rules: req.Rules}
	if params.Rules == nil && req.Preset != "" {
		rules, err := models.RulesByName(req.Preset)
		if err != nil {
			rc.fail(c, err)
			return
		}
		params.Rules = &rules
	}

	room, err := rc.rooms.CreateRoom(c.Request.Context(), params)
	if err != nil {
		rc.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, room)
}

// ListRooms handles GET /api/rooms?admin=&state=.
func (rc *RoomController) ListRooms(c *gin.Context) {
	filter := models.RoomFilter{
		AdminID: c.Query("admin"),
		State:   models.GameState(c.Query("state")),
	}
	switch filter.State {
	case "", models.StateWaiting, models.StateInProgress, models.StateCompleted:
	default:
		badRequest(c, "invalid state filter")
		return
	}

	rooms, err := rc.rooms.ListRooms(c.Request.Context(), filter)
	if err != nil {
		rc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}

// GetRoom handles GET /api/rooms/:id and includes the players.
func (rc *RoomController) GetRoom(c *gin.Context) {
	ctx := c.Request.Context()
	room, err := rc.rooms.GetRoom(ctx, c.Param("id"))
	if err != nil {
		rc.fail(c, err)
		return
	}
	players, err := rc.rooms.ListPlayers(ctx, room.ID)
	if err != nil {
		rc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"room": room, "players": players})
}

func (rc *RoomController) StartGame(c *gin.Context) {
	room, err := rc.rooms.StartGame(c.Request.Context(), c.Param("id"))
	if err != nil {
		rc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

// DrawNumber handles POST /api/rooms/:id/draw. An exhausted room answers
// 200 with exhausted=true.
func (rc *RoomController) DrawNumber(c *gin.Context) {
	n, ok, err := rc.rooms.DrawNumber(c.Request.Context(), c.Param("id"))
	if err != nil {
		rc.fail(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusOK, gin.H{"exhausted": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"number": n, "exhausted": false})
}

func (rc *RoomController) EndGame(c *gin.Context) {
	room, err := rc.rooms.EndGame(c.Request.Context(), c.Param("id"))
	if err != nil {
		rc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

func (rc *RoomController) StartNewRound(c *gin.Context) {
	room, err := rc.rooms.StartNewRound(c.Request.Context(), c.Param("id"))
	if err != nil {
		rc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

type registerWinnerRequest struct {
	PlayerID   string `json:"playerId" binding:"required"`
	PlayerName string `json:"playerName"`
}

// RegisterWinner handles POST /api/rooms/:id/winners. A repeated claim
// answers 200 with the existing record.
func (rc *RoomController) RegisterWinner(c *gin.Context) {
	var req registerWinnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	rec, created, err := rc.rooms.RegisterWinner(c.Request.Context(), c.Param("id"), req.PlayerID, req.PlayerName)
	if err != nil {
		rc.fail(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"winner": rec, "created": created})
}
