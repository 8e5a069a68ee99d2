// Package config loads server configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds everything the binaries need from the environment.
type Config struct {
	Port   string
	DBPath string

	// LLMProvider selects the backend: "gemini", "anthropic", or "random".
	// Empty means auto-detect from whichever API key is present.
	LLMProvider     string
	GeminiAPIKey    string
	AnthropicAPIKey string

	DailyBudgetUSD   float64
	MonthlyBudgetUSD float64

	// Seed for the game RNG. Zero means derive from the clock.
	Seed int64
}

// Load reads the environment, after loading .env if one exists.
func Load() Config {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	return Config{
		Port:             envOr("PORT", "5001"),
		DBPath:           envOr("MAFIA_DB", "mafia.db"),
		LLMProvider:      os.Getenv("LLM_PROVIDER"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		AnthropicAPIKey:  os.Getenv("ANTHROPIC_API_KEY"),
		DailyBudgetUSD:   envFloat("DAILY_BUDGET_USD", 5.0),
		MonthlyBudgetUSD: envFloat("MONTHLY_BUDGET_USD", 50.0),
		Seed:             envInt64("SEED", 0),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}
