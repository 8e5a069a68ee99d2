// Package ai - gemini.go
// Google Gemini adapter implementing the LLMProvider interface. Gemini Flash
// is the default backend: fast enough to keep a full roster of agents
// talking without the Day phase dragging.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/avelasco/mafia-agents/internal/platform/metrics"
)

// GeminiProvider implements LLMProvider for the Google Generative Language API.
type GeminiProvider struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	budgetGate *BudgetGate

	statsMu    sync.Mutex
	usageStats UsageStats
}

// Gemini API structures
type geminiRequest struct {
	Contents          []geminiContent `json:"contents"`
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
	GenerationConfig  geminiGenConfig `json:"generationConfig"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	Temperature     float64 `json:"temperature,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
	ModelVersion string `json:"modelVersion"`
}

// NewGeminiProvider creates a new Gemini adapter reading GEMINI_API_KEY.
func NewGeminiProvider(budgetGate *BudgetGate) *GeminiProvider {
	return &GeminiProvider{
		apiKey:     os.Getenv("GEMINI_API_KEY"),
		baseURL:    "https://generativelanguage.googleapis.com/v1beta/models",
		model:      "gemini-2.5-flash",
		httpClient: &http.Client{Timeout: 60 * time.Second},
		budgetGate: budgetGate,
	}
}

// Name returns the provider name.
func (p *GeminiProvider) Name() string {
	return "Google Gemini"
}

// IsAvailable checks if the API key is configured.
func (p *GeminiProvider) IsAvailable() bool {
	return p.apiKey != ""
}

// Complete sends a completion request to Gemini.
func (p *GeminiProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if !p.IsAvailable() {
		return nil, fmt.Errorf("Gemini API key not configured")
	}

	estimatedCost := p.estimateCost(req)
	if !p.budgetGate.CanSpend(estimatedCost) {
		return nil, fmt.Errorf("budget limit exceeded: %s", p.budgetGate.GetStatus())
	}

	model := p.model
	if req.Model != "" {
		model = req.Model
	}

	// Gemini separates the system instruction from the conversation turns.
	gemReq := geminiRequest{
		GenerationConfig: geminiGenConfig{
			MaxOutputTokens: req.MaxTokens,
			Temperature:     req.Temperature,
		},
	}
	for _, m := range req.Messages {
		switch m.Role {
		case "system":
			gemReq.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: m.Content}}}
		case "assistant":
			gemReq.Contents = append(gemReq.Contents, geminiContent{Role: "model", Parts: []geminiPart{{Text: m.Content}}})
		default:
			gemReq.Contents = append(gemReq.Contents, geminiContent{Role: "user", Parts: []geminiPart{{Text: m.Content}}})
		}
	}

	body, err := json.Marshal(gemReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", p.baseURL, model, p.apiKey)

	start := time.Now()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	latency := time.Since(start)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Gemini error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var gemResp geminiResponse
	if err := json.Unmarshal(respBody, &gemResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if len(gemResp.Candidates) == 0 || len(gemResp.Candidates[0].Content.Parts) == 0 {
		// Safety filters can strip the whole candidate list.
		return nil, fmt.Errorf("no response content returned")
	}

	totalTokens := gemResp.UsageMetadata.TotalTokenCount
	actualCost := p.calculateCost(totalTokens, model)
	p.budgetGate.RecordSpend(actualCost)
	p.recordUsage(totalTokens, actualCost)
	metrics.Get().RecordLLMCall(totalTokens, actualCost)

	return &CompletionResponse{
		Content:      gemResp.Candidates[0].Content.Parts[0].Text,
		Model:        model,
		PromptTokens: gemResp.UsageMetadata.PromptTokenCount,
		OutputTokens: gemResp.UsageMetadata.CandidatesTokenCount,
		TotalTokens:  totalTokens,
		Latency:      latency,
		FinishReason: gemResp.Candidates[0].FinishReason,
	}, nil
}

// estimateCost estimates cost before making a request.
func (p *GeminiProvider) estimateCost(req CompletionRequest) float64 {
	estimatedTokens := 2000 + req.MaxTokens
	return p.calculateCost(estimatedTokens, p.model)
}

// calculateCost computes actual cost based on tokens.
func (p *GeminiProvider) calculateCost(tokens int, model string) float64 {
	// Flash: ~$0.30/1M input, ~$2.50/1M output. Averaged per 1K tokens.
	switch model {
	case "gemini-2.5-flash":
		return float64(tokens) * 0.0000014
	case "gemini-2.5-pro":
		return float64(tokens) * 0.000007
	default:
		return float64(tokens) * 0.000002
	}
}

// recordUsage accumulates usage counters. Complete may run for several games
// at once, so the counters sit behind their own mutex.
func (p *GeminiProvider) recordUsage(tokens int, cost float64) {
	p.statsMu.Lock()
	defer p.statsMu.Unlock()
	p.usageStats.TotalRequests++
	p.usageStats.TotalTokens += tokens
	p.usageStats.TotalCostUSD += cost
}

// GetUsageStats returns current usage statistics.
func (p *GeminiProvider) GetUsageStats() UsageStats {
	p.statsMu.Lock()
	defer p.statsMu.Unlock()
	stats := p.usageStats
	stats.BudgetRemaining = p.budgetGate.RemainingMonthUSD()
	return stats
}

// ResetUsage resets all usage counters.
func (p *GeminiProvider) ResetUsage() {
	p.statsMu.Lock()
	defer p.statsMu.Unlock()
	p.usageStats = UsageStats{LastReset: time.Now()}
}

// Ensure GeminiProvider implements LLMProvider
var _ LLMProvider = (*GeminiProvider)(nil)
