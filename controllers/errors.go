package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bellapacxx/bingo-rooms/models"
)

// statusFor maps engine errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrRoomNotFound), errors.Is(err, models.ErrPlayerNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInvalidTransition), errors.Is(err, models.ErrCardIncomplete):
		return http.StatusConflict
	case errors.Is(err, models.ErrInvalidConfiguration), errors.Is(err, models.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrContention):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (rc *RoomController) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		rc.log.Errorw("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		c.JSON(status, gin.H{"error": http.StatusText(status)})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
