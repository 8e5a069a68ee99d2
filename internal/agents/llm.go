package agents

import (
	"context"
	"fmt"

	"github.com/avelasco/mafia-agents/internal/domain/participant"
	"github.com/avelasco/mafia-agents/internal/infra/ai"
)

const (
	discussMaxTokens = 200
	choiceMaxTokens  = 100
	temperature      = 0.9
)

// LLMDecisionProvider asks an LLM backend for every decision. One prompt per
// decision, no conversation state: the game context carries all the memory.
type LLMDecisionProvider struct {
	llm ai.LLMProvider
}

// NewLLMDecisionProvider wraps an LLM backend as a decision provider.
func NewLLMDecisionProvider(llm ai.LLMProvider) *LLMDecisionProvider {
	return &LLMDecisionProvider{llm: llm}
}

// Discuss asks the model for one line of table talk.
func (p *LLMDecisionProvider) Discuss(ctx context.Context, playerID int, gc GameContext) (string, error) {
	prompt := ai.BuildGamePrompt(p.promptInput(playerID, gc, ai.DiscussObjective))

	resp, err := p.complete(ctx, prompt, discussMaxTokens)
	if err != nil {
		return "", err
	}

	utterance := ai.CleanUtterance(resp.Content)
	if utterance == "" {
		return "", fmt.Errorf("empty discussion response")
	}
	return utterance, nil
}

// Vote asks the model to pick an elimination candidate and validates the
// answer against the candidate list.
func (p *LLMDecisionProvider) Vote(ctx context.Context, playerID int, gc GameContext, candidates []int) (int, error) {
	prompt := ai.BuildGamePrompt(p.promptInput(playerID, gc, ai.VoteObjective(candidates)))

	resp, err := p.complete(ctx, prompt, choiceMaxTokens)
	if err != nil {
		return 0, err
	}

	target, err := ai.ParseVoteResponse(resp.Content)
	if err != nil {
		return 0, err
	}
	if !contains(candidates, target) {
		return 0, fmt.Errorf("vote for %d is not a valid candidate", target)
	}
	return target, nil
}

// NightAction asks the model for a role's night target.
func (p *LLMDecisionProvider) NightAction(ctx context.Context, playerID int, role participant.Role, gc GameContext, candidates []int) (int, error) {
	objective := ai.NightObjective(string(role), candidates)
	if objective == "" {
		return 0, fmt.Errorf("role %s has no night action", role)
	}
	prompt := ai.BuildGamePrompt(p.promptInput(playerID, gc, objective))

	resp, err := p.complete(ctx, prompt, choiceMaxTokens)
	if err != nil {
		return 0, err
	}

	target, err := ai.ParseTargetResponse(resp.Content)
	if err != nil {
		return 0, err
	}
	if !contains(candidates, target) {
		return 0, fmt.Errorf("target %d is not a valid candidate", target)
	}
	return target, nil
}

func (p *LLMDecisionProvider) promptInput(playerID int, gc GameContext, objective string) ai.PromptInput {
	return ai.PromptInput{
		PlayerID:     playerID,
		Role:         gc.Role,
		Personality:  gc.Personality,
		Day:          gc.Day,
		AliveIDs:     gc.AliveIDs,
		DeadSummary:  gc.DeadSummary,
		Knowledge:    gc.Knowledge,
		RecentEvents: gc.RecentEvents,
		Objective:    objective,
	}
}

func (p *LLMDecisionProvider) complete(ctx context.Context, prompt string, maxTokens int) (*ai.CompletionResponse, error) {
	return p.llm.Complete(ctx, ai.CompletionRequest{
		Messages: []ai.Message{
			{Role: "system", Content: "You are playing a game of Mafia. Stay in character and follow the task exactly."},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
}

func contains(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

var _ DecisionProvider = (*LLMDecisionProvider)(nil)
