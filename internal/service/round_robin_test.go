package service

import (
	"testing"

	"github.com/AdamBeresnev/op-tournament/internal/bracket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundRobin(t *testing.T) {
	testCases := []struct {
		name        string
		players     int
		wantRounds  int
		wantMatches int
	}{
		{name: "2 players", players: 2, wantRounds: 1, wantMatches: 1},
		{name: "4 players", players: 4, wantRounds: 3, wantMatches: 6},
		{name: "5 players", players: 5, wantRounds: 5, wantMatches: 10},
		{name: "8 players", players: 8, wantRounds: 7, wantMatches: 28},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := GenerateBracket(bracket.RoundRobin, testPlayers(tc.players), bracket.Config{})
			require.NoError(t, err)

			assert.Len(t, b.Rounds, tc.wantRounds)
			assert.Equal(t, tc.wantMatches, b.TotalMatches)

			meetings := make(map[string]int)
			for _, m := range b.Matches {
				assert.Empty(t, m.WinnerNextMatchID)
				assert.Empty(t, m.LoserNextMatchID)
				assert.Empty(t, m.Partition)
				assert.Equal(t, bracket.MatchScheduled, m.Status)
				meetings[pairKey(m.Player1ID, m.Player2ID)]++
			}
			assert.Len(t, meetings, tc.wantMatches)
			for pair, count := range meetings {
				assert.Equal(t, 1, count, "pair %q", pair)
			}

			// Everyone plays once per round, apart from the player on a bye
			byes := make(map[string]int)
			for _, round := range b.Rounds {
				seen := make(map[string]bool)
				for _, m := range b.RoundMatches(round) {
					assert.False(t, seen[m.Player1ID])
					assert.False(t, seen[m.Player2ID])
					seen[m.Player1ID] = true
					seen[m.Player2ID] = true
				}
				if tc.players%2 != 0 {
					require.NotEmpty(t, round.ByePlayerID)
					assert.False(t, seen[round.ByePlayerID])
					byes[round.ByePlayerID]++
				} else {
					assert.Empty(t, round.ByePlayerID)
				}
			}
			if tc.players%2 != 0 {
				assert.Len(t, byes, tc.players, "every player sits out exactly once")
			}
		})
	}
}

func TestRoundRobin_CompletesWhenAllMatchesPlayed(t *testing.T) {
	b, err := GenerateBracket(bracket.RoundRobin, testPlayers(3), bracket.Config{})
	require.NoError(t, err)

	b = playOut(t, b, topSlotWins)
	assert.True(t, b.Completed)
	assert.Empty(t, b.ChampionID)
	assert.Equal(t, 3, b.Version)
}
