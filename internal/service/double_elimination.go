package service

import (
	"fmt"

	"github.com/AdamBeresnev/op-tournament/internal/bracket"
)

// BuildDoubleElimination lays out a winner bracket, a loser bracket fed by
// every winner bracket round, and a two-match grand final.
//
// With W winner rounds the loser bracket has 2W-2 rounds. Odd loser rounds
// pair survivors with each other; even loser round 2r-2 takes the survivors
// of the round before plus the losers of winner round r, in alternating
// order so that players who just met are kept apart.
func BuildDoubleElimination(players []bracket.Player, cfg bracket.Config) (*bracket.Bracket, error) {
	if len(players) < 2 {
		return nil, bracket.Errorf(bracket.KindInvalidRosterSize, "double elimination needs at least 2 players, got %d", len(players))
	}

	plan, err := ResolveByes(len(players))
	if err != nil {
		return nil, err
	}

	b := bracket.New(bracket.DoubleElimination, cfg, players)

	winners := buildWinnerRounds(b, plan.Rounds)
	losers := buildLoserRounds(b, plan.BracketSize, plan.Rounds)
	first, reset := buildGrandFinal(b)

	winnersFinal := winners[len(winners)-1][0]
	winnersFinal.WinnerNextMatchID = first.ID
	winnersFinal.WinnerNextSlot = 1

	if len(losers) == 0 {
		winnersFinal.LoserNextMatchID = first.ID
		winnersFinal.LoserNextSlot = 2
	} else {
		losersFinal := losers[len(losers)-1][0]
		losersFinal.WinnerNextMatchID = first.ID
		losersFinal.WinnerNextSlot = 2
		dropLosers(winners, losers)
	}

	b.Rounds = collectRounds(winners, func(r int) string {
		return knockoutRoundName(r, plan.Rounds, "Winners")
	})
	b.LoserRounds = collectRounds(losers, func(r int) string {
		if r == len(losers) {
			return "Losers Final"
		}
		return fmt.Sprintf("Losers Round %d", r)
	})
	b.GrandFinal = []bracket.Round{
		{Number: 1, Name: "Grand Final", MatchIDs: []string{first.ID}},
		{Number: 2, Name: "Grand Final Reset", MatchIDs: []string{reset.ID}},
	}

	if err := seatFirstRound(b, winners[0], plan); err != nil {
		return nil, err
	}
	return b, nil
}

// buildLoserRounds creates the loser bracket with its internal winner edges.
// Odd rounds halve the field of the round before; even rounds keep it.
func buildLoserRounds(b *bracket.Bracket, bracketSize, winnerRounds int) [][]*bracket.Match {
	total := 2 * (winnerRounds - 1)
	rounds := make([][]*bracket.Match, total)

	for k := 1; k <= total; k++ {
		count := bracketSize >> ((k+1)/2 + 1)
		rounds[k-1] = make([]*bracket.Match, 0, count)
		for i := 1; i <= count; i++ {
			rounds[k-1] = append(rounds[k-1], b.AddMatch(bracket.Match{
				ID:        matchID("L", k, i),
				Partition: bracket.LoserPartition,
				Round:     k,
				Order:     i,
				Status:    bracket.MatchPending,
			}))
		}
	}

	for k := 1; k < total; k++ {
		next := rounds[k]
		for i, m := range rounds[k-1] {
			if k%2 == 1 {
				// Survivors wait in the top slot for a winner bracket drop
				m.WinnerNextMatchID = next[i].ID
				m.WinnerNextSlot = 1
				continue
			}
			order := i + 1
			m.WinnerNextMatchID = next[(order+1)/2-1].ID
			m.WinnerNextSlot = feedSlot(order)
		}
	}

	return rounds
}

// dropLosers wires the loser edge of every winner bracket match.
func dropLosers(winners, losers [][]*bracket.Match) {
	for i, m := range winners[0] {
		order := i + 1
		m.LoserNextMatchID = losers[0][(order+1)/2-1].ID
		m.LoserNextSlot = feedSlot(order)
	}

	for r := 2; r <= len(winners); r++ {
		target := losers[2*r-3]
		for i, m := range winners[r-1] {
			j := i
			if r%2 == 0 {
				j = len(target) - 1 - i
			}
			m.LoserNextMatchID = target[j].ID
			m.LoserNextSlot = 2
		}
	}
}

// buildGrandFinal adds the first grand final and its conditional reset. The
// reset keeps the winner bracket champion in slot 1.
func buildGrandFinal(b *bracket.Bracket) (*bracket.Match, *bracket.Match) {
	reset := b.AddMatch(bracket.Match{
		ID:        matchID("GF", 2, 1),
		Partition: bracket.GrandFinalPartition,
		Round:     2,
		Order:     1,
		Status:    bracket.MatchConditional,
	})

	first := b.AddMatch(bracket.Match{
		ID:                matchID("GF", 1, 1),
		Partition:         bracket.GrandFinalPartition,
		Round:             1,
		Order:             1,
		Status:            bracket.MatchPending,
		WinnerNextMatchID: reset.ID,
		WinnerNextSlot:    2,
		LoserNextMatchID:  reset.ID,
		LoserNextSlot:     1,
	})

	return first, reset
}
