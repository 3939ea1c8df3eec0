package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bellapacxx/bingo-rooms/controllers"
)

func SetupRoutes(r *gin.Engine, rc *controllers.RoomController) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now()})
	})

	api := r.Group("/api")

	// ----------------------
	// Room routes
	// ----------------------
	api.POST("/rooms", rc.CreateRoom)                 // Create room
	api.GET("/rooms", rc.ListRooms)                   // List rooms (?admin=&state=)
	api.GET("/rooms/:id", rc.GetRoom)                 // Room with players
	api.POST("/rooms/:id/start", rc.StartGame)        // waiting -> in_progress
	api.POST("/rooms/:id/draw", rc.DrawNumber)        // Draw next number
	api.POST("/rooms/:id/rounds", rc.StartNewRound)   // Reset draws, reissue cards
	api.POST("/rooms/:id/end", rc.EndGame)            // Complete the room
	api.POST("/rooms/:id/winners", rc.RegisterWinner) // Claim a win

	// ----------------------
	// Player routes
	// ----------------------
	api.POST("/rooms/:id/players", rc.JoinRoom)              // Join with a new card
	api.GET("/rooms/:id/players/:pid", rc.GetPlayer)         // Card, marks and progress
	api.DELETE("/rooms/:id/players/:pid", rc.RemovePlayer)   // Leave
	api.POST("/rooms/:id/players/:pid/marks", rc.MarkNumber) // Mark a number

	// ----------------------
	// Change feed
	// ----------------------
	r.GET("/ws/rooms/:id", rc.RoomFeed)
}
