package server

import (
	"net/http"
	"time"

	"github.com/Scrimzay/breadducks/internal/world"
	"github.com/gin-gonic/gin"
)

func SetupRouter(gameWorld *world.World) *gin.Engine {
	r := gin.Default()

	r.GET("/healthz", healthHandler)
	r.GET("/lobbies", lobbiesHandler(gameWorld))
	r.GET("/ws", HandleWebsocket(gameWorld))

	return r
}

func healthHandler(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func lobbiesHandler(gameWorld *world.World) gin.HandlerFunc {
	return func(c *gin.Context) {
		reply := make(chan []world.LobbyInfo, 1)
		if !gameWorld.Submit(world.ListLobbies{Reply: reply}) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "world stopped"})
			return
		}

		select {
		case lobbies := <-reply:
			c.JSON(http.StatusOK, lobbies)
		case <-time.After(replyWait):
			c.JSON(http.StatusGatewayTimeout, gin.H{"error": "world busy"})
		case <-c.Request.Context().Done():
		}
	}
}
