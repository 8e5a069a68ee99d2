// Package metrics provides observability for the Mafia server.
// Counters cover the simulation (steps, decisions, deaths), the WebSocket
// feed, and LLM spend.
package metrics

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Collector gathers simulation and transport metrics.
type Collector struct {
	// Simulation metrics
	GamesStarted  int64
	GamesFinished int64
	StepsExecuted int64

	// Decision metrics
	DecisionCalls     int64
	DecisionFallbacks int64

	// Death metrics
	Eliminations int64
	NightKills   int64

	// WebSocket metrics
	WSConnectionsActive int64
	WSMessagesOut       int64
	WSErrors            int64

	// LLM metrics
	LLMRequests   int64
	LLMTokensUsed int64
	LLMCostUSD    float64

	// System
	StartTime time.Time
	mu        sync.RWMutex
}

// Global collector instance
var collector = &Collector{
	StartTime: time.Now(),
}

// Get returns the global collector.
func Get() *Collector {
	return collector
}

// RecordGameStarted records a new game creation.
func (c *Collector) RecordGameStarted() {
	atomic.AddInt64(&c.GamesStarted, 1)
}

// RecordGameFinished records a game reaching its end state.
func (c *Collector) RecordGameFinished() {
	atomic.AddInt64(&c.GamesFinished, 1)
}

// RecordStep records one engine step.
func (c *Collector) RecordStep() {
	atomic.AddInt64(&c.StepsExecuted, 1)
}

// RecordDecisionCall records one agent decision request.
func (c *Collector) RecordDecisionCall() {
	atomic.AddInt64(&c.DecisionCalls, 1)
}

// RecordDecisionFallback records a decision recovered by random fallback.
func (c *Collector) RecordDecisionFallback() {
	atomic.AddInt64(&c.DecisionFallbacks, 1)
}

// RecordElimination records a daytime vote elimination.
func (c *Collector) RecordElimination() {
	atomic.AddInt64(&c.Eliminations, 1)
}

// RecordNightKill records a successful Mafia night kill.
func (c *Collector) RecordNightKill() {
	atomic.AddInt64(&c.NightKills, 1)
}

// RecordWSConnection records WebSocket connection changes.
func (c *Collector) RecordWSConnection(delta int64) {
	atomic.AddInt64(&c.WSConnectionsActive, delta)
}

// RecordWSMessage records an outgoing WebSocket message.
func (c *Collector) RecordWSMessage() {
	atomic.AddInt64(&c.WSMessagesOut, 1)
}

// RecordWSError records a WebSocket error.
func (c *Collector) RecordWSError() {
	atomic.AddInt64(&c.WSErrors, 1)
}

// RecordLLMCall records an LLM API call.
func (c *Collector) RecordLLMCall(tokens int, cost float64) {
	atomic.AddInt64(&c.LLMRequests, 1)
	atomic.AddInt64(&c.LLMTokensUsed, int64(tokens))

	c.mu.Lock()
	c.LLMCostUSD += cost
	c.mu.Unlock()
}

// Snapshot returns current metrics as a map.
func (c *Collector) Snapshot() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return map[string]interface{}{
		"uptime_seconds": time.Since(c.StartTime).Seconds(),

		"games": map[string]interface{}{
			"started":  atomic.LoadInt64(&c.GamesStarted),
			"finished": atomic.LoadInt64(&c.GamesFinished),
			"steps":    atomic.LoadInt64(&c.StepsExecuted),
		},

		"decisions": map[string]interface{}{
			"calls":     atomic.LoadInt64(&c.DecisionCalls),
			"fallbacks": atomic.LoadInt64(&c.DecisionFallbacks),
		},

		"deaths": map[string]interface{}{
			"eliminations": atomic.LoadInt64(&c.Eliminations),
			"night_kills":  atomic.LoadInt64(&c.NightKills),
		},

		"websocket": map[string]interface{}{
			"active_connections": atomic.LoadInt64(&c.WSConnectionsActive),
			"messages_out":       atomic.LoadInt64(&c.WSMessagesOut),
			"errors":             atomic.LoadInt64(&c.WSErrors),
		},

		"llm": map[string]interface{}{
			"requests":    atomic.LoadInt64(&c.LLMRequests),
			"tokens_used": atomic.LoadInt64(&c.LLMTokensUsed),
			"cost_usd":    c.LLMCostUSD,
		},
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-cache")

		snapshot := collector.Snapshot()
		json.NewEncoder(w).Encode(snapshot)
	}
}

// PrometheusHandler returns metrics in Prometheus format.
func PrometheusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		c := collector

		fmt.Fprintf(w, "# HELP mafia_games_started Total games created\n")
		fmt.Fprintf(w, "# TYPE mafia_games_started counter\n")
		fmt.Fprintf(w, "mafia_games_started %d\n\n", atomic.LoadInt64(&c.GamesStarted))

		fmt.Fprintf(w, "# HELP mafia_games_finished Total games reaching End\n")
		fmt.Fprintf(w, "# TYPE mafia_games_finished counter\n")
		fmt.Fprintf(w, "mafia_games_finished %d\n\n", atomic.LoadInt64(&c.GamesFinished))

		fmt.Fprintf(w, "# HELP mafia_steps_executed Total engine steps\n")
		fmt.Fprintf(w, "# TYPE mafia_steps_executed counter\n")
		fmt.Fprintf(w, "mafia_steps_executed %d\n\n", atomic.LoadInt64(&c.StepsExecuted))

		fmt.Fprintf(w, "# HELP mafia_decision_calls Total agent decision requests\n")
		fmt.Fprintf(w, "# TYPE mafia_decision_calls counter\n")
		fmt.Fprintf(w, "mafia_decision_calls %d\n\n", atomic.LoadInt64(&c.DecisionCalls))

		fmt.Fprintf(w, "# HELP mafia_decision_fallbacks Decisions recovered by random fallback\n")
		fmt.Fprintf(w, "# TYPE mafia_decision_fallbacks counter\n")
		fmt.Fprintf(w, "mafia_decision_fallbacks %d\n\n", atomic.LoadInt64(&c.DecisionFallbacks))

		fmt.Fprintf(w, "# HELP mafia_deaths_total Player deaths by cause\n")
		fmt.Fprintf(w, "# TYPE mafia_deaths_total counter\n")
		fmt.Fprintf(w, "mafia_deaths_total{cause=\"vote\"} %d\n", atomic.LoadInt64(&c.Eliminations))
		fmt.Fprintf(w, "mafia_deaths_total{cause=\"night\"} %d\n\n", atomic.LoadInt64(&c.NightKills))

		fmt.Fprintf(w, "# HELP mafia_ws_connections Active WebSocket connections\n")
		fmt.Fprintf(w, "# TYPE mafia_ws_connections gauge\n")
		fmt.Fprintf(w, "mafia_ws_connections %d\n\n", atomic.LoadInt64(&c.WSConnectionsActive))

		fmt.Fprintf(w, "# HELP mafia_ws_messages_out Total WebSocket messages sent\n")
		fmt.Fprintf(w, "# TYPE mafia_ws_messages_out counter\n")
		fmt.Fprintf(w, "mafia_ws_messages_out %d\n\n", atomic.LoadInt64(&c.WSMessagesOut))

		fmt.Fprintf(w, "# HELP mafia_llm_requests Total LLM API requests\n")
		fmt.Fprintf(w, "# TYPE mafia_llm_requests counter\n")
		fmt.Fprintf(w, "mafia_llm_requests %d\n\n", atomic.LoadInt64(&c.LLMRequests))

		fmt.Fprintf(w, "# HELP mafia_llm_tokens_used Total tokens consumed\n")
		fmt.Fprintf(w, "# TYPE mafia_llm_tokens_used counter\n")
		fmt.Fprintf(w, "mafia_llm_tokens_used %d\n\n", atomic.LoadInt64(&c.LLMTokensUsed))

		c.mu.RLock()
		fmt.Fprintf(w, "# HELP mafia_llm_cost_usd Total LLM cost in USD\n")
		fmt.Fprintf(w, "# TYPE mafia_llm_cost_usd counter\n")
		fmt.Fprintf(w, "mafia_llm_cost_usd %.4f\n", c.LLMCostUSD)
		c.mu.RUnlock()
	}
}
