// Package ai provides the LLM integration layer for the Mafia simulation.
// An agnostic provider interface allows swapping between Gemini, Anthropic
// Claude, or local models without touching the game engine.
package ai

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Message represents a chat message for the LLM.
type Message struct {
	Role    string `json:"role"` // "system", "user", "assistant"
	Content string `json:"content"`
}

// CompletionRequest is the input for LLM inference.
type CompletionRequest struct {
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	Model       string    `json:"model,omitempty"` // Override default model
}

// CompletionResponse is the output from LLM inference.
type CompletionResponse struct {
	Content      string        `json:"content"`
	Model        string        `json:"model"`
	PromptTokens int           `json:"prompt_tokens"`
	OutputTokens int           `json:"output_tokens"`
	TotalTokens  int           `json:"total_tokens"`
	Latency      time.Duration `json:"latency"`
	FinishReason string        `json:"finish_reason"`
}

// UsageStats tracks API usage for cost monitoring.
type UsageStats struct {
	TotalRequests   int       `json:"total_requests"`
	TotalTokens     int       `json:"total_tokens"`
	TotalCostUSD    float64   `json:"total_cost_usd"`
	BudgetRemaining float64   `json:"budget_remaining"`
	LastReset       time.Time `json:"last_reset"`
}

// LLMProvider is the agnostic interface for LLM backends. The decision
// provider uses this interface without knowing which vendor is behind it.
type LLMProvider interface {
	// Complete sends a prompt and returns the LLM response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// GetUsageStats returns current API usage.
	GetUsageStats() UsageStats

	// ResetUsage resets the usage counters.
	ResetUsage()

	// Name returns the provider name (for logging).
	Name() string

	// IsAvailable checks if the provider is configured and reachable.
	IsAvailable() bool
}

// BudgetGate controls spending limits for LLM calls. A multi-hour game with
// many agents makes hundreds of calls; the gate is the hard stop. One gate is
// shared by every concurrent game, so all access goes through its mutex.
type BudgetGate struct {
	mu sync.Mutex

	dailyLimitUSD     float64
	monthlyLimitUSD   float64
	currentDaySpend   float64
	currentMonthSpend float64
	lastDayReset      time.Time
	lastMonthReset    time.Time
}

// NewBudgetGate creates a new budget controller.
func NewBudgetGate(dailyLimit, monthlyLimit float64) *BudgetGate {
	now := time.Now()
	return &BudgetGate{
		dailyLimitUSD:   dailyLimit,
		monthlyLimitUSD: monthlyLimit,
		lastDayReset:    now,
		lastMonthReset:  now,
	}
}

// CanSpend checks if a cost is within budget.
func (bg *BudgetGate) CanSpend(costUSD float64) bool {
	bg.mu.Lock()
	defer bg.mu.Unlock()
	bg.maybeResetLocked()
	return (bg.currentDaySpend+costUSD <= bg.dailyLimitUSD) &&
		(bg.currentMonthSpend+costUSD <= bg.monthlyLimitUSD)
}

// RecordSpend logs a cost against both windows.
func (bg *BudgetGate) RecordSpend(costUSD float64) {
	bg.mu.Lock()
	defer bg.mu.Unlock()
	bg.maybeResetLocked()
	bg.currentDaySpend += costUSD
	bg.currentMonthSpend += costUSD
}

// RemainingMonthUSD reports how much of the monthly budget is left.
func (bg *BudgetGate) RemainingMonthUSD() float64 {
	bg.mu.Lock()
	defer bg.mu.Unlock()
	bg.maybeResetLocked()
	return bg.monthlyLimitUSD - bg.currentMonthSpend
}

// maybeResetLocked zeroes the counters when the day or month rolls over.
// Caller must hold bg.mu.
func (bg *BudgetGate) maybeResetLocked() {
	now := time.Now()

	if now.YearDay() != bg.lastDayReset.YearDay() || now.Year() != bg.lastDayReset.Year() {
		bg.currentDaySpend = 0
		bg.lastDayReset = now
	}

	if now.Month() != bg.lastMonthReset.Month() || now.Year() != bg.lastMonthReset.Year() {
		bg.currentMonthSpend = 0
		bg.lastMonthReset = now
	}
}

// GetStatus returns a human-readable budget status.
func (bg *BudgetGate) GetStatus() string {
	bg.mu.Lock()
	defer bg.mu.Unlock()
	return fmt.Sprintf("Day: $%.2f/%.2f | Month: $%.2f/%.2f",
		bg.currentDaySpend, bg.dailyLimitUSD, bg.currentMonthSpend, bg.monthlyLimitUSD)
}
