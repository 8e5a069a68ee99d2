// Package ai - prompts.go
// Prompt construction and structured-response parsing for agent decisions.
// Each agent call sends the full game situation plus a task objective and,
// for votes and night actions, expects a one-key JSON object back.
package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PromptInput carries everything an agent prompt needs about the game.
type PromptInput struct {
	PlayerID     int
	Role         string
	Personality  string
	Day          int
	AliveIDs     []int
	DeadSummary  []string
	Knowledge    map[string]any
	RecentEvents []string
	Objective    string
}

// DiscussObjective is the task given to an agent during the Day discussion.
const DiscussObjective = "Based on the situation, your role, and personality, what is one thing you will say to the group? Speak in the first person. Be brief and direct. Do not announce your role. Your goal is to help your team win."

// VoteObjective builds the voting task for the given candidate ids.
func VoteObjective(candidates []int) string {
	return fmt.Sprintf(`Based on the discussion and your goals, who will you vote to eliminate?
Choose exactly one player ID from this list: %v.
Your response MUST be a JSON object with a single key "vote_for" and the player number as an integer.
Example: {"vote_for": 5}`, candidates)
}

// NightObjective builds the night-action task for a role.
func NightObjective(role string, candidates []int) string {
	switch role {
	case "Mafia":
		return fmt.Sprintf(`You are Mafia. Choose one player to eliminate from this list: %v. Respond in JSON with a 'target' key. Example: {"target": 3}`, candidates)
	case "Doctor":
		return fmt.Sprintf(`You are the Doctor. Choose one player to save (you can save yourself). Alive players: %v. Respond in JSON with a 'target' key. Example: {"target": 7}`, candidates)
	case "Cop":
		return fmt.Sprintf(`You are the Cop. Choose one player to investigate from this list: %v. Respond in JSON with a 'target' key. Example: {"target": 2}`, candidates)
	default:
		return ""
	}
}

// BuildGamePrompt renders the full situation summary handed to the LLM.
func BuildGamePrompt(in PromptInput) string {
	knowledge := "You have no special information."
	if len(in.Knowledge) > 0 {
		if b, err := json.Marshal(in.Knowledge); err == nil {
			knowledge = string(b)
		}
	}

	dead := "None so far"
	if len(in.DeadSummary) > 0 {
		dead = strings.Join(in.DeadSummary, ", ")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "You are Player %d, your role is: %s.\n", in.PlayerID, in.Role)
	fmt.Fprintf(&sb, "Your personality is: %q\n", in.Personality)
	sb.WriteString("---\nCURRENT GAME SITUATION:\n")
	fmt.Fprintf(&sb, "- It is Day %d.\n", in.Day)
	fmt.Fprintf(&sb, "- These players are ALIVE: %v.\n", in.AliveIDs)
	fmt.Fprintf(&sb, "- These players are DEAD: %s.\n", dead)
	fmt.Fprintf(&sb, "- Your secret knowledge: %s\n", knowledge)
	sb.WriteString("---\nRECENT CONVERSATION AND EVENTS:\n")
	for _, e := range in.RecentEvents {
		fmt.Fprintf(&sb, "- %s\n", e)
	}
	sb.WriteString("---\nYOUR TASK:\n")
	sb.WriteString(in.Objective)
	sb.WriteString("\n")

	return sb.String()
}

// VoteResponse is the structured reply expected from a voting prompt.
type VoteResponse struct {
	VoteFor int `json:"vote_for"`
}

// TargetResponse is the structured reply expected from a night-action prompt.
type TargetResponse struct {
	Target int `json:"target"`
}

// ParseVoteResponse extracts the voted id from raw LLM output.
func ParseVoteResponse(content string) (int, error) {
	var resp VoteResponse
	if err := json.Unmarshal([]byte(stripCodeFences(content)), &resp); err != nil {
		return 0, fmt.Errorf("malformed vote response: %w", err)
	}
	if resp.VoteFor == 0 {
		return 0, fmt.Errorf("vote response missing vote_for")
	}
	return resp.VoteFor, nil
}

// ParseTargetResponse extracts the chosen target id from raw LLM output.
func ParseTargetResponse(content string) (int, error) {
	var resp TargetResponse
	if err := json.Unmarshal([]byte(stripCodeFences(content)), &resp); err != nil {
		return 0, fmt.Errorf("malformed target response: %w", err)
	}
	if resp.Target == 0 {
		return 0, fmt.Errorf("target response missing target")
	}
	return resp.Target, nil
}

// stripCodeFences removes markdown code fences models like to wrap JSON in.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// CleanUtterance normalizes free-form discussion text: models often quote
// the whole line, which reads badly once the engine quotes it again.
func CleanUtterance(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), `"`, "")
}
