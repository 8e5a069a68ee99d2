package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/avelasco/mafia-agents/internal/game"
	"github.com/avelasco/mafia-agents/internal/network"
)

const (
	errNotStarted   = "Game not started. Please POST to /api/game/start first."
	errGameEnded    = "The game has already ended."
	errMinAgents    = "Number of agents must be at least 4."
	errMissingField = "Missing 'num_agents' in request body."
)

type startGameRequest struct {
	NumAgents *int `json:"num_agents"`
}

// handleStartGame creates a new game and makes it the default.
func (s *Server) handleStartGame(c *gin.Context) {
	var req startGameRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.NumAgents == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errMissingField})
		return
	}
	if *req.NumAgents < 4 {
		c.JSON(http.StatusBadRequest, gin.H{"error": errMinAgents})
		return
	}

	g, err := s.createGame(*req.NumAgents)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"game_id": g.ID(),
		"state":   s.engine.Snapshot(g),
	})
}

// handleGameState returns the observer snapshot of the default game.
func (s *Server) handleGameState(c *gin.Context) {
	g := s.registry.Default()
	if g == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": errNotStarted})
		return
	}
	c.JSON(http.StatusOK, s.engine.Snapshot(g))
}

// handleGameStep advances the default game one full round.
func (s *Server) handleGameStep(c *gin.Context) {
	g := s.registry.Default()
	if g == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": errNotStarted})
		return
	}
	s.stepGame(c, g)
}

// handleGameStateByID returns the snapshot of one registered game.
func (s *Server) handleGameStateByID(c *gin.Context) {
	g, err := s.registry.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.engine.Snapshot(g))
}

// handleGameStepByID advances one registered game.
func (s *Server) handleGameStepByID(c *gin.Context) {
	g, err := s.registry.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	s.stepGame(c, g)
}

// stepGame runs one engine step and answers with the resulting snapshot.
// Stepping a finished game is refused, with the final state attached so the
// client can render it anyway.
func (s *Server) stepGame(c *gin.Context, g *game.State) {
	if g.Ended() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": errGameEnded,
			"state": s.engine.Snapshot(g),
		})
		return
	}

	if err := s.engine.Step(c.Request.Context(), g); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if g.Ended() {
		s.persistGame(g)
	}
	c.JSON(http.StatusOK, s.engine.Snapshot(g))
}

// handleListGames returns persisted game summaries, newest first.
func (s *Server) handleListGames(c *gin.Context) {
	if s.resultRepo == nil {
		c.JSON(http.StatusOK, gin.H{"games": []any{}})
		return
	}
	recs, err := s.resultRepo.ListGames(c.Request.Context(), 50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"games": recs})
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The spectator feed is public read-only; any origin may subscribe.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleWebSocket upgrades the connection and attaches it to the hub.
func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Error("WebSocket upgrade failed: %v", err)
		return
	}

	client := network.NewClient(s.hub, conn)
	client.Register()
	go client.WritePump()
	go client.ReadPump()
}

// handleHealth is the liveness probe.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
