package http

import (
	"github.com/gin-gonic/gin"

	bridge "github.com/balancebridge/bridge"
)

// SetupRouter sets up the Gin router.
func SetupRouter(client bridge.Client) *gin.Engine {
	router := gin.Default()

	handlers := NewBridgeHandlers(client)

	router.GET("/healthz", handlers.Health)

	router.POST("/pairing", handlers.Pair)
	router.GET("/pairing", handlers.Pairing)
	router.DELETE("/pairing", handlers.Unpair)

	router.POST("/lookup", handlers.Lookup)

	return router
}
