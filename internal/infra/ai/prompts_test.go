package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVoteResponse(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
		wantErr bool
	}{
		{"plain json", `{"vote_for": 5}`, 5, false},
		{"fenced json", "```json\n{\"vote_for\": 3}\n```", 3, false},
		{"bare fence", "```\n{\"vote_for\": 7}\n```", 7, false},
		{"surrounding whitespace", "  {\"vote_for\": 2}  ", 2, false},
		{"prose instead of json", "I vote for Player 5", 0, true},
		{"missing key", `{"target": 5}`, 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseVoteResponse(tt.content)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTargetResponse(t *testing.T) {
	got, err := ParseTargetResponse("```json\n{\"target\": 4}\n```")
	require.NoError(t, err)
	assert.Equal(t, 4, got)

	_, err = ParseTargetResponse(`{"vote_for": 4}`)
	assert.Error(t, err)
}

func TestBuildGamePrompt(t *testing.T) {
	prompt := BuildGamePrompt(PromptInput{
		PlayerID:     3,
		Role:         "Cop",
		Personality:  "You are a quiet observer.",
		Day:          2,
		AliveIDs:     []int{1, 3, 4},
		DeadSummary:  []string{"Player 2 (was Villager)"},
		Knowledge:    map[string]any{"night_1": "Investigated Player 4, who is a Mafia."},
		RecentEvents: []string{"--- Day 2 ---", `Player 1: "Someone is lying."`},
		Objective:    DiscussObjective,
	})

	assert.Contains(t, prompt, "You are Player 3, your role is: Cop.")
	assert.Contains(t, prompt, "It is Day 2.")
	assert.Contains(t, prompt, "[1 3 4]")
	assert.Contains(t, prompt, "Player 2 (was Villager)")
	assert.Contains(t, prompt, "night_1")
	assert.Contains(t, prompt, `Player 1: "Someone is lying."`)
	assert.Contains(t, prompt, "YOUR TASK:")
	assert.Contains(t, prompt, DiscussObjective)
}

func TestBuildGamePromptDefaults(t *testing.T) {
	prompt := BuildGamePrompt(PromptInput{
		PlayerID: 1,
		Role:     "Villager",
		Day:      1,
		AliveIDs: []int{1, 2},
	})

	assert.Contains(t, prompt, "None so far")
	assert.Contains(t, prompt, "You have no special information.")
}

func TestNightObjectivePerRole(t *testing.T) {
	assert.Contains(t, NightObjective("Mafia", []int{2, 3}), "eliminate")
	assert.Contains(t, NightObjective("Doctor", []int{1, 2}), "save")
	assert.Contains(t, NightObjective("Cop", []int{2}), "investigate")
	assert.Empty(t, NightObjective("Villager", []int{2}))
}

func TestCleanUtterance(t *testing.T) {
	assert.Equal(t, "I suspect Player 4.", CleanUtterance(`  "I suspect Player 4."  `))
	assert.Equal(t, "plain", CleanUtterance("plain"))
}
