package views

import (
	"github.com/AdamBeresnev/op-tournament/internal/bracket"
	"github.com/AdamBeresnev/op-tournament/internal/utils"
)

const (
	byeLabel = "BYE"
	tbdLabel = "TBD"
)

type PlayerView struct {
	ID     string  `json:"id,omitempty"`
	Name   string  `json:"name"`
	Seed   int     `json:"seed,omitempty"`
	Rating float64 `json:"rating,omitempty"`
}

type MatchView struct {
	ID      string              `json:"id"`
	Status  bracket.MatchStatus `json:"status"`
	Player1 PlayerView          `json:"player_1"`
	Player2 PlayerView          `json:"player_2"`
	// 1 or 2 once decided
	WinnerSlot int                  `json:"winner_slot,omitempty"`
	LoserSlot  int                  `json:"loser_slot,omitempty"`
	Result     *bracket.MatchResult `json:"result,omitempty"`
	IsBye      bool                 `json:"is_bye,omitempty"`
	Notes      string               `json:"notes,omitempty"`
}

type RoundView struct {
	Number    int                 `json:"number"`
	Name      string              `json:"name"`
	Status    bracket.MatchStatus `json:"status"`
	ByePlayer *PlayerView         `json:"bye_player,omitempty"`
	Warnings  []string            `json:"warnings,omitempty"`
	Matches   []MatchView         `json:"matches"`
}

type SectionView struct {
	Name   string      `json:"name"`
	Rounds []RoundView `json:"rounds"`
}

// BracketData is a display ready rendering of a bracket: rounds grouped by
// section with player names resolved.
type BracketData struct {
	Format   bracket.Format `json:"format"`
	Champion *PlayerView    `json:"champion,omitempty"`
	Sections []SectionView  `json:"sections"`
}

func PrepareBracketData(b *bracket.Bracket) BracketData {
	players := make(map[string]bracket.Player, len(b.Players))
	for _, p := range b.Players {
		players[p.ID] = p
	}

	data := BracketData{Format: b.Format}
	if b.ChampionID != "" {
		data.Champion = utils.Ptr(playerView(players, b.ChampionID))
	}

	if b.Format == bracket.DoubleElimination {
		data.Sections = []SectionView{
			{Name: "Winners", Rounds: roundViews(b, players, b.Rounds)},
			{Name: "Losers", Rounds: roundViews(b, players, b.LoserRounds)},
			{Name: "Grand Final", Rounds: roundViews(b, players, b.GrandFinal)},
		}
		return data
	}

	data.Sections = []SectionView{{Name: "Main", Rounds: roundViews(b, players, b.Rounds)}}
	return data
}

func roundViews(b *bracket.Bracket, players map[string]bracket.Player, rounds []bracket.Round) []RoundView {
	out := make([]RoundView, 0, len(rounds))
	for _, r := range rounds {
		rv := RoundView{
			Number:   r.Number,
			Name:     r.Name,
			Status:   b.RoundStatus(r),
			Warnings: r.Warnings,
			Matches:  make([]MatchView, 0, len(r.MatchIDs)),
		}
		if r.ByePlayerID != "" {
			rv.ByePlayer = utils.Ptr(playerView(players, r.ByePlayerID))
		}

		for _, m := range b.RoundMatches(r) {
			mv := MatchView{
				ID:      m.ID,
				Status:  m.Status,
				Player1: playerView(players, m.Player1ID),
				Player2: playerView(players, m.Player2ID),
				Result:  m.Result,
				IsBye:   m.IsBye,
				Notes:   m.Notes,
			}
			switch {
			case m.IsWinner(1):
				mv.WinnerSlot = 1
			case m.IsWinner(2):
				mv.WinnerSlot = 2
			}
			switch {
			case m.IsLoser(1):
				mv.LoserSlot = 1
			case m.IsLoser(2):
				mv.LoserSlot = 2
			}
			rv.Matches = append(rv.Matches, mv)
		}
		out = append(out, rv)
	}
	return out
}

func playerView(players map[string]bracket.Player, id string) PlayerView {
	switch id {
	case "":
		return PlayerView{Name: tbdLabel}
	case bracket.ByeID:
		return PlayerView{Name: byeLabel}
	}

	p, ok := players[id]
	if !ok {
		return PlayerView{ID: id, Name: id}
	}
	name := p.Name
	if name == "" {
		name = p.ID
	}
	return PlayerView{ID: p.ID, Name: name, Seed: p.Seed, Rating: utils.OrZero(p.Rating)}
}
