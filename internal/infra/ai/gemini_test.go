package ai

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelasco/mafia-agents/internal/platform/metrics"
)

const geminiStubBody = `{
	"candidates": [{"content": {"parts": [{"text": "I suspect Player 3."}]}, "finishReason": "STOP"}],
	"usageMetadata": {"promptTokenCount": 10, "candidatesTokenCount": 5, "totalTokenCount": 15}
}`

func newStubGemini(t *testing.T, bg *BudgetGate) *GeminiProvider {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, geminiStubBody)
	}))
	t.Cleanup(srv.Close)

	p := NewGeminiProvider(bg)
	p.apiKey = "test-key"
	p.baseURL = srv.URL
	return p
}

// llmCounters reads the exported LLM counters from the global collector.
func llmCounters(t *testing.T) (requests, tokens int64) {
	t.Helper()
	llm, ok := metrics.Get().Snapshot()["llm"].(map[string]interface{})
	require.True(t, ok)
	return llm["requests"].(int64), llm["tokens_used"].(int64)
}

func TestGeminiCompleteRecordsUsageAndMetrics(t *testing.T) {
	bg := NewBudgetGate(5.0, 50.0)
	p := newStubGemini(t, bg)

	reqBefore, tokBefore := llmCounters(t)

	resp, err := p.Complete(context.Background(), CompletionRequest{
		Messages:  []Message{{Role: "user", Content: "who do you vote for?"}},
		MaxTokens: 100,
	})
	require.NoError(t, err)
	assert.Equal(t, "I suspect Player 3.", resp.Content)
	assert.Equal(t, 15, resp.TotalTokens)

	stats := p.GetUsageStats()
	assert.Equal(t, 1, stats.TotalRequests)
	assert.Equal(t, 15, stats.TotalTokens)
	assert.Greater(t, stats.TotalCostUSD, 0.0)
	assert.Less(t, stats.BudgetRemaining, 50.0)

	reqAfter, tokAfter := llmCounters(t)
	assert.Equal(t, reqBefore+1, reqAfter)
	assert.Equal(t, tokBefore+15, tokAfter)
}

// One provider serves every concurrent game; usage counters must hold up
// under parallel Complete calls.
func TestGeminiCompleteConcurrent(t *testing.T) {
	bg := NewBudgetGate(5.0, 50.0)
	p := newStubGemini(t, bg)

	const workers = 4
	const perWorker = 5

	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			for j := 0; j < perWorker; j++ {
				_, err := p.Complete(context.Background(), CompletionRequest{
					Messages:  []Message{{Role: "user", Content: "speak"}},
					MaxTokens: 100,
				})
				assert.NoError(t, err)
			}
		}()
	}
	close(start)
	wg.Wait()

	stats := p.GetUsageStats()
	assert.Equal(t, workers*perWorker, stats.TotalRequests)
	assert.Equal(t, workers*perWorker*15, stats.TotalTokens)
}

func TestGeminiCompleteBudgetExceeded(t *testing.T) {
	bg := NewBudgetGate(0.0, 0.0)
	p := newStubGemini(t, bg)

	_, err := p.Complete(context.Background(), CompletionRequest{
		Messages:  []Message{{Role: "user", Content: "speak"}},
		MaxTokens: 100,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "budget limit exceeded")
}

func TestGeminiResetUsage(t *testing.T) {
	bg := NewBudgetGate(5.0, 50.0)
	p := newStubGemini(t, bg)

	_, err := p.Complete(context.Background(), CompletionRequest{
		Messages:  []Message{{Role: "user", Content: "speak"}},
		MaxTokens: 100,
	})
	require.NoError(t, err)

	p.ResetUsage()
	stats := p.GetUsageStats()
	assert.Zero(t, stats.TotalRequests)
	assert.Zero(t, stats.TotalTokens)
	assert.False(t, stats.LastReset.IsZero())
}
