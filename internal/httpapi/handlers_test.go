package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelasco/mafia-agents/internal/agents"
	"github.com/avelasco/mafia-agents/internal/game"
	"github.com/avelasco/mafia-agents/internal/platform/logger"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	provider := agents.NewRandomProvider(7)
	engine := game.NewEngine(provider, logger.NewLogger())
	registry := game.NewRegistry()
	srv := NewServer(engine, registry, nil, logger.NewLogger(), nil, nil, 7)
	return NewRouter(srv)
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var parsed map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	}
	return w, parsed
}

func TestStateBeforeStart(t *testing.T) {
	r := newTestRouter(t)
	w, body := doJSON(t, r, http.MethodGet, "/api/game/state", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Game not started. Please POST to /api/game/start first.", body["error"])
}

func TestStepBeforeStart(t *testing.T) {
	r := newTestRouter(t)
	w, body := doJSON(t, r, http.MethodPost, "/api/game/step", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotEmpty(t, body["error"])
}

func TestStartGameMissingField(t *testing.T) {
	r := newTestRouter(t)

	w, body := doJSON(t, r, http.MethodPost, "/api/game/start", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing 'num_agents' in request body.", body["error"])

	w, body = doJSON(t, r, http.MethodPost, "/api/game/start", ``)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotEmpty(t, body["error"])
}

func TestStartGameTooFewAgents(t *testing.T) {
	r := newTestRouter(t)
	w, body := doJSON(t, r, http.MethodPost, "/api/game/start", `{"num_agents": 3}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Number of agents must be at least 4.", body["error"])
}

func TestStartThenState(t *testing.T) {
	r := newTestRouter(t)

	w, body := doJSON(t, r, http.MethodPost, "/api/game/start", `{"num_agents": 6}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotEmpty(t, body["game_id"])

	state := body["state"].(map[string]any)
	assert.Equal(t, float64(6), state["num_agents"])
	assert.Equal(t, "Day", state["game_phase"])
	assert.Equal(t, float64(0), state["day_count"])

	// Roles stay hidden while everyone is alive.
	agentsOut := state["agents"].([]any)
	require.Len(t, agentsOut, 6)
	for _, a := range agentsOut {
		agent := a.(map[string]any)
		assert.Equal(t, "Unknown", agent["role"])
		assert.Equal(t, "Alive", agent["status"])
	}

	w, snap := doJSON(t, r, http.MethodGet, "/api/game/state", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(6), snap["num_agents"])
}

func TestStepAdvancesGame(t *testing.T) {
	r := newTestRouter(t)
	w, _ := doJSON(t, r, http.MethodPost, "/api/game/start", `{"num_agents": 6}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w, snap := doJSON(t, r, http.MethodPost, "/api/game/step", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), snap["day_count"])
	assert.NotEmpty(t, snap["event_log"])
}

func TestStepAfterEnd(t *testing.T) {
	r := newTestRouter(t)
	w, _ := doJSON(t, r, http.MethodPost, "/api/game/start", `{"num_agents": 4}`)
	require.Equal(t, http.StatusCreated, w.Code)

	// Drive the game to completion, then one step beyond.
	var final map[string]any
	for i := 0; i < 50; i++ {
		w, snap := doJSON(t, r, http.MethodPost, "/api/game/step", "")
		if w.Code == http.StatusBadRequest {
			final = snap
			break
		}
		require.Equal(t, http.StatusOK, w.Code)
		if snap["game_phase"] == "End" {
			w, final = doJSON(t, r, http.MethodPost, "/api/game/step", "")
			require.Equal(t, http.StatusBadRequest, w.Code)
			break
		}
	}

	require.NotNil(t, final, "game never ended")
	assert.Equal(t, "The game has already ended.", final["error"])
	state := final["state"].(map[string]any)
	assert.Equal(t, "End", state["game_phase"])

	// Roles are revealed in the final state.
	for _, a := range state["agents"].([]any) {
		agent := a.(map[string]any)
		assert.NotEqual(t, "Unknown", agent["role"])
	}
}

func TestGameByIDRoutes(t *testing.T) {
	r := newTestRouter(t)

	w, body := doJSON(t, r, http.MethodPost, "/api/games", `{"num_agents": 5}`)
	require.Equal(t, http.StatusCreated, w.Code)
	id := body["game_id"].(string)

	w, snap := doJSON(t, r, http.MethodGet, "/api/games/"+id+"/state", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(5), snap["num_agents"])

	w, snap = doJSON(t, r, http.MethodPost, "/api/games/"+id+"/step", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), snap["day_count"])

	w, _ = doJSON(t, r, http.MethodGet, "/api/games/does-not-exist/state", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)
	w, body := doJSON(t, r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
}
