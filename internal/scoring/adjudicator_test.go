package scoring

import (
	"testing"

	"github.com/AdamBeresnev/op-tournament/internal/bracket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryLookup(t *testing.T) {
	registry := DefaultRegistry()

	assert.IsType(t, Tennis{}, registry.Lookup("tennis"))
	assert.IsType(t, Tennis{}, registry.Lookup(" Tennis "))
	assert.IsType(t, Points{}, registry.Lookup("chess"), "sports without rules fall back to raw scores")
	assert.IsType(t, Points{}, registry.Lookup(""))
	assert.Equal(t, []string{"tennis"}, registry.Sports())
}

type namedSport string

func (n namedSport) Sport() string { return string(n) }

func (namedSport) Adjudicate(bracket.Match, bracket.Config, []Event) (bracket.MatchResult, error) {
	return bracket.MatchResult{}, nil
}

func TestRegistrySports_Sorted(t *testing.T) {
	registry := NewRegistry(namedSport("table-tennis"), Tennis{}, namedSport("Badminton"), namedSport("squash"))
	assert.Equal(t, []string{"badminton", "squash", "table-tennis", "tennis"}, registry.Sports())
}

func TestRegistryAdjudicate_Walkover(t *testing.T) {
	registry := DefaultRegistry()
	match := bracket.Match{ID: "W1-1", Player1ID: p1, Player2ID: p2}

	result, err := registry.Adjudicate("tennis", match, bracket.Config{}, []Event{{Type: WalkoverEvent, PlayerID: p2}})
	require.NoError(t, err)
	assert.Equal(t, p2, result.WinnerID)
	assert.True(t, result.IsWalkover)
	assert.Nil(t, result.Score)

	_, err = registry.Adjudicate("tennis", match, bracket.Config{}, []Event{{Type: WalkoverEvent, PlayerID: "p9"}})
	assert.ErrorIs(t, err, bracket.ErrInvalidScore)

	_, err = registry.Adjudicate("tennis", match, bracket.Config{}, []Event{
		{Type: WalkoverEvent, PlayerID: p1},
		{Type: PointEvent, PlayerID: p1},
	})
	assert.ErrorIs(t, err, bracket.ErrInvalidScore)
}

func TestRegistryAdjudicate_NoEvents(t *testing.T) {
	_, err := DefaultRegistry().Adjudicate("tennis", bracket.Match{Player1ID: p1, Player2ID: p2}, bracket.Config{}, nil)
	assert.ErrorIs(t, err, bracket.ErrInvalidScore)
}

func TestPointsAdjudicate(t *testing.T) {
	match := bracket.Match{ID: "RR1-1", Player1ID: p1, Player2ID: p2}

	testCases := []struct {
		name       string
		events     []Event
		wantWinner string
		wantDraw   bool
		wantScore  bracket.PointsScore
		wantErr    bool
	}{
		{
			name: "summed points",
			events: []Event{
				{Type: PointEvent, PlayerID: p1, Points: 2},
				{Type: PointEvent, PlayerID: p2},
				{Type: PointEvent, PlayerID: p1},
			},
			wantWinner: p1,
			wantScore:  bracket.PointsScore{Player1: 3, Player2: 1},
		},
		{
			name: "final scores",
			events: []Event{
				{Type: ScoreEvent, PlayerID: p1, Points: 1},
				{Type: ScoreEvent, PlayerID: p2, Points: 3},
			},
			wantWinner: p2,
			wantScore:  bracket.PointsScore{Player1: 1, Player2: 3},
		},
		{
			name: "draw",
			events: []Event{
				{Type: ScoreEvent, PlayerID: p1, Points: 2},
				{Type: ScoreEvent, PlayerID: p2, Points: 2},
			},
			wantDraw:  true,
			wantScore: bracket.PointsScore{Player1: 2, Player2: 2},
		},
		{
			name:    "unknown player",
			events:  []Event{{Type: PointEvent, PlayerID: "p3"}},
			wantErr: true,
		},
		{
			name:    "set events are not raw scores",
			events:  []Event{{Type: SetEvent, PlayerID: p1}},
			wantErr: true,
		},
		{
			name:    "negative points",
			events:  []Event{{Type: ScoreEvent, PlayerID: p1, Points: -1}},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := Points{}.Adjudicate(match, bracket.Config{}, tc.events)
			if tc.wantErr {
				assert.ErrorIs(t, err, bracket.ErrInvalidScore)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantWinner, result.WinnerID)
			assert.Equal(t, tc.wantDraw, result.IsDraw)
			require.NotNil(t, result.Score)
			assert.Equal(t, tc.wantScore, *result.Score.Points)
		})
	}
}
