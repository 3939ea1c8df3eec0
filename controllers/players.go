package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type joinRoomRequest struct {
	Name string `json:"name" binding:"required"`
}

// JoinRoom handles POST /api/rooms/:id/players.
func (rc *RoomController) JoinRoom(c *gin.Context) {
	var req joinRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	player, err := rc.rooms.JoinRoom(c.Request.Context(), c.Param("id"), req.Name)
	if err != nil {
		rc.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, player)
}

// GetPlayer handles GET /api/rooms/:id/players/:pid with the evaluated card.
func (rc *RoomController) GetPlayer(c *gin.Context) {
	view, err := rc.rooms.PlayerView(c.Request.Context(), c.Param("id"), c.Param("pid"))
	if err != nil {
		rc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (rc *RoomController) RemovePlayer(c *gin.Context) {
	if err := rc.rooms.RemovePlayer(c.Request.Context(), c.Param("id"), c.Param("pid")); err != nil {
		rc.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type markRequest struct {
	Number int `json:"number" binding:"required,min=1"`
}

// MarkNumber handles POST /api/rooms/:id/players/:pid/marks. An unknown
// player is ignored and answers 204.
func (rc *RoomController) MarkNumber(c *gin.Context) {
	var req markRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	player, err := rc.rooms.MarkNumber(c.Request.Context(), c.Param("id"), c.Param("pid"), req.Number)
	if err != nil {
		rc.fail(c, err)
		return
	}
	if player == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, player)
}
