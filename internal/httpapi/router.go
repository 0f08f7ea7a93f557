package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter builds the gin engine with middleware and all routes
// registered.
func NewRouter(h *Handler, logger *zap.Logger, allowedOrigins []string) *gin.Engine {
	router := gin.New()
	router.RedirectTrailingSlash = true
	router.Use(RequestID())
	router.Use(ZapLogger(logger))
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(allowedOrigins) > 0 {
		corsConfig.AllowOrigins = allowedOrigins
	} else {
		corsConfig.AllowOrigins = []string{"http://localhost:3000"}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	api := router.Group("/api")
	{
		api.GET("/players", h.listPlayers)

		api.GET("/character/:id", h.getCharacter)
		api.PUT("/character/:id", h.updateCharacter)
		api.POST("/character/:id/item/equip", h.equipItem)
		api.POST("/character/:id/item/use", h.useItem)
		api.POST("/character/:id/vehicle/action", h.vehicleAction)

		api.POST("/dice/roll", h.rollDice)
		api.GET("/dice/rolls", h.listDiceRolls)

		master := api.Group("/master")
		{
			master.GET("/dashboard", h.dashboard)
			master.GET("/characters", h.listCharacters)
			master.GET("/locations", h.listLocations)
			master.POST("/locations", h.createLocation)
			master.GET("/items", h.listItems)
			master.GET("/mobs", h.listMobs)
			master.POST("/mobs", h.spawnMob)
			master.POST("/notes", h.addNote)
			master.POST("/character/:id/move", h.moveCharacter)
			master.POST("/character/:id/give-item", h.giveItem)
		}

		api.GET("/export", h.exportDataset)
		api.POST("/import", h.importDataset)
		api.POST("/reset", h.resetDataset)
	}

	return router
}
