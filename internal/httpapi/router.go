package httpapi

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/avelasco/mafia-agents/internal/platform/metrics"
)

// NewRouter builds the gin engine with all routes attached.
func NewRouter(s *Server) *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default())

	api := r.Group("/api")
	{
		// Singleton routes: one default game, the frontend's contract.
		api.POST("/game/start", s.handleStartGame)
		api.GET("/game/state", s.handleGameState)
		api.POST("/game/step", s.handleGameStep)

		// Id-keyed routes for running several games side by side.
		api.POST("/games", s.handleStartGame)
		api.GET("/games", s.handleListGames)
		api.GET("/games/:id/state", s.handleGameStateByID)
		api.POST("/games/:id/step", s.handleGameStepByID)
	}

	r.GET("/ws", s.handleWebSocket)
	r.GET("/health", s.handleHealth)
	r.GET("/metrics", gin.WrapF(metrics.Handler()))
	r.GET("/metrics/prometheus", gin.WrapF(metrics.PrometheusHandler()))

	return r
}
