package service

import (
	"fmt"

	"github.com/AdamBeresnev/op-tournament/internal/bracket"
)

// Caps one backtracking search; past it the pairing allows a rematch.
const maxPairingSteps = 200_000

type swissPair struct {
	player1 string
	player2 string
	rematch bool
}

// BuildSwiss pairs round 1 by adjacent places in the given order (1v2, 3v4,
// ...). The last player sits out when the field is odd. Later rounds come from
// AdvanceSwissRound.
func BuildSwiss(players []bracket.Player, cfg bracket.Config) (*bracket.Bracket, error) {
	if len(players) < 2 {
		return nil, bracket.Errorf(bracket.KindInvalidRosterSize, "swiss needs at least 2 players, got %d", len(players))
	}
	if err := validateSwissRounds(cfg.SwissRounds, len(players)); err != nil {
		return nil, err
	}

	b := bracket.New(bracket.Swiss, cfg, players)

	order := make([]string, 0, len(players))
	for _, p := range players {
		order = append(order, p.ID)
	}

	var bye string
	if len(order)%2 != 0 {
		bye = order[len(order)-1]
		order = order[:len(order)-1]
	}

	pairs := make([]swissPair, 0, len(order)/2)
	for i := 0; i+1 < len(order); i += 2 {
		pairs = append(pairs, swissPair{player1: order[i], player2: order[i+1]})
	}

	addSwissRound(b, pairs, bye, nil)
	return b, nil
}

// AdvanceSwissRound pairs the next round once every match of the current one
// is completed.
func AdvanceSwissRound(b *bracket.Bracket, version int) (*bracket.Bracket, error) {
	if b.Format != bracket.Swiss {
		return nil, bracket.Errorf(bracket.KindInvalidConfig, "%s brackets have no swiss rounds", b.Format)
	}
	if b.Version != version {
		return nil, bracket.Errorf(bracket.KindConcurrentModification, "bracket is at version %d, got %d", b.Version, version)
	}
	if len(b.Rounds) == 0 {
		return nil, bracket.Errorf(bracket.KindInvariantViolation, "swiss bracket has no rounds")
	}

	current := b.Rounds[len(b.Rounds)-1]
	if b.RoundStatus(current) != bracket.MatchCompleted {
		return nil, bracket.Errorf(bracket.KindRoundIncomplete, "round %d still has matches to play", current.Number)
	}
	if len(b.Rounds) >= b.Config.SwissRounds {
		return nil, bracket.Errorf(bracket.KindTournamentComplete, "all %d swiss rounds have been played", b.Config.SwissRounds)
	}

	out := b.Clone()
	pairs, bye, warnings := pairSwissRound(out)
	addSwissRound(out, pairs, bye, warnings)
	out.Version++
	return out, nil
}

// pairSwissRound pairs players by current standing. The ranking is already
// grouped by points, so pairing each player with the nearest ranked opponent
// it has not met keeps score groups together and floats the odd player of a
// group down into the next one.
func pairSwissRound(b *bracket.Bracket) ([]swissPair, string, []string) {
	standings := ComputeStandings(b, b.Config.Weights())
	ranked := make([]string, len(standings))
	for i, s := range standings {
		ranked[i] = s.PlayerID
	}

	met := make(map[string]int)
	for _, m := range b.Matches {
		if m.Ready() {
			met[pairKey(m.Player1ID, m.Player2ID)]++
		}
	}

	byeCandidates := []string{""}
	if len(ranked)%2 != 0 {
		byeCandidates = swissByeCandidates(b, ranked)
	}

	for budget := 0; budget <= len(ranked)/2; budget++ {
		for _, bye := range byeCandidates {
			pool := without(ranked, bye)
			steps := 0
			pairs, ok := pairWithin(pool, met, budget, &steps)
			if !ok {
				continue
			}

			return pairs, bye, rematchWarnings(pairs)
		}
	}

	// Every search hit the step cap
	pairs := make([]swissPair, 0, len(ranked)/2)
	pool := without(ranked, byeCandidates[0])
	for i := 0; i+1 < len(pool); i += 2 {
		pairs = append(pairs, swissPair{player1: pool[i], player2: pool[i+1], rematch: met[pairKey(pool[i], pool[i+1])] > 0})
	}
	return pairs, byeCandidates[0], rematchWarnings(pairs)
}

func rematchWarnings(pairs []swissPair) []string {
	var warnings []string
	for _, p := range pairs {
		if p.rematch {
			err := bracket.Errorf(bracket.KindPairingExhausted, "%s and %s meet again", p.player1, p.player2)
			warnings = append(warnings, err.Error())
		}
	}
	return warnings
}

// swissByeCandidates lists players from the bottom of the ranking, those
// without a bye first.
func swissByeCandidates(b *bracket.Bracket, ranked []string) []string {
	hadBye := make(map[string]bool)
	for _, r := range b.Rounds {
		if r.ByePlayerID != "" {
			hadBye[r.ByePlayerID] = true
		}
	}

	fresh := make([]string, 0, len(ranked))
	repeat := make([]string, 0, len(ranked))
	for i := len(ranked) - 1; i >= 0; i-- {
		if hadBye[ranked[i]] {
			repeat = append(repeat, ranked[i])
		} else {
			fresh = append(fresh, ranked[i])
		}
	}
	return append(fresh, repeat...)
}

// pairWithin pairs pool in rank order allowing at most budget rematches.
func pairWithin(pool []string, met map[string]int, budget int, steps *int) ([]swissPair, bool) {
	if len(pool) == 0 {
		return nil, true
	}
	*steps++
	if *steps > maxPairingSteps {
		return nil, false
	}

	top := pool[0]
	for j := 1; j < len(pool); j++ {
		opponent := pool[j]
		rematch := met[pairKey(top, opponent)] > 0
		if rematch && budget == 0 {
			continue
		}

		rest := make([]string, 0, len(pool)-2)
		rest = append(rest, pool[1:j]...)
		rest = append(rest, pool[j+1:]...)

		remaining := budget
		if rematch {
			remaining--
		}

		if pairs, ok := pairWithin(rest, met, remaining, steps); ok {
			return append([]swissPair{{player1: top, player2: opponent, rematch: rematch}}, pairs...), true
		}
	}
	return nil, false
}

func addSwissRound(b *bracket.Bracket, pairs []swissPair, bye string, warnings []string) {
	number := len(b.Rounds) + 1
	round := bracket.Round{
		Number:      number,
		Name:        fmt.Sprintf("Round %d", number),
		MatchIDs:    make([]string, 0, len(pairs)),
		ByePlayerID: bye,
		Warnings:    warnings,
	}

	for i, p := range pairs {
		m := bracket.Match{
			ID:        matchID("S", number, i+1),
			Round:     number,
			Order:     i + 1,
			Player1ID: p.player1,
			Player2ID: p.player2,
			Status:    bracket.MatchScheduled,
		}
		if p.rematch {
			m.Notes = forcedRematchNote
		}
		round.MatchIDs = append(round.MatchIDs, b.AddMatch(m).ID)
	}

	b.Rounds = append(b.Rounds, round)
}

func validateSwissRounds(rounds, players int) error {
	limit := roundRobinRounds(players)
	if rounds < 1 || rounds > limit {
		return bracket.Errorf(bracket.KindInvalidConfig, "swiss rounds must be between 1 and %d for %d players, got %d", limit, players, rounds)
	}
	return nil
}

func without(ids []string, drop string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != drop {
			out = append(out, id)
		}
	}
	return out
}
