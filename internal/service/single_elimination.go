package service

import (
	"fmt"

	"github.com/AdamBeresnev/op-tournament/internal/bracket"
)

// BuildSingleElimination lays out a knockout tree for players in seeded
// order. A lone player is champion of an empty bracket.
func BuildSingleElimination(players []bracket.Player, cfg bracket.Config) (*bracket.Bracket, error) {
	b := bracket.New(bracket.SingleElimination, cfg, players)
	if len(players) == 1 {
		b.ChampionID = players[0].ID
		b.Completed = true
		return b, nil
	}

	plan, err := ResolveByes(len(players))
	if err != nil {
		return nil, err
	}

	winners := buildWinnerRounds(b, plan.Rounds)
	b.Rounds = collectRounds(winners, func(r int) string {
		return knockoutRoundName(r, plan.Rounds, "")
	})

	if err := seatFirstRound(b, winners[0], plan); err != nil {
		return nil, err
	}
	return b, nil
}

// buildWinnerRounds creates an empty knockout tree of totalRounds rounds with
// every winner edge in place. The result is indexed by round number - 1.
func buildWinnerRounds(b *bracket.Bracket, totalRounds int) [][]*bracket.Match {
	rounds := make([][]*bracket.Match, totalRounds)
	var nextRound []*bracket.Match

	// Significantly easier to start from the last round and work backwards
	for r := totalRounds; r >= 1; r-- {
		matchesInCurrentRound := 1 << (totalRounds - r)
		currentRound := make([]*bracket.Match, 0, matchesInCurrentRound)

		for i := 0; i < matchesInCurrentRound; i++ {
			matchOrder := i + 1

			m := bracket.Match{
				ID:        matchID("W", r, matchOrder),
				Partition: bracket.WinnerPartition,
				Round:     r,
				Order:     matchOrder,
				Status:    bracket.MatchPending,
			}

			if r < totalRounds {
				parentMatchOrder := (matchOrder + 1) / 2
				m.WinnerNextMatchID = nextRound[parentMatchOrder-1].ID
				m.WinnerNextSlot = feedSlot(matchOrder)
			}

			currentRound = append(currentRound, b.AddMatch(m))
		}

		rounds[r-1] = currentRound
		nextRound = currentRound
	}

	return rounds
}

// seatFirstRound places the seeded players into round 1 and resolves byes.
func seatFirstRound(b *bracket.Bracket, firstRound []*bracket.Match, plan ByePlan) error {
	if len(plan.Pairs) != len(firstRound) {
		return bracket.Errorf(bracket.KindInvariantViolation, "%d pairings for %d first round matches", len(plan.Pairs), len(firstRound))
	}

	for i, pair := range plan.Pairs {
		firstRound[i].Player1ID = seatAt(b.Players, pair[0])
		firstRound[i].Player2ID = seatAt(b.Players, pair[1])
	}

	for _, m := range firstRound {
		if err := settle(b, m); err != nil {
			return err
		}
	}
	return nil
}

func seatAt(players []bracket.Player, index int) string {
	if index < len(players) {
		return players[index].ID
	}
	return bracket.ByeID
}

// Odd match orders feed the top slot of their parent
func feedSlot(matchOrder int) int {
	if matchOrder%2 != 0 {
		return 1
	}
	return 2
}

func matchID(prefix string, round, order int) string {
	return fmt.Sprintf("%s%d-%d", prefix, round, order)
}

func collectRounds(rounds [][]*bracket.Match, name func(r int) string) []bracket.Round {
	out := make([]bracket.Round, 0, len(rounds))
	for i, matches := range rounds {
		round := bracket.Round{
			Number:   i + 1,
			Name:     name(i + 1),
			MatchIDs: make([]string, 0, len(matches)),
		}
		for _, m := range matches {
			round.MatchIDs = append(round.MatchIDs, m.ID)
		}
		out = append(out, round)
	}
	return out
}

func knockoutRoundName(r, total int, prefix string) string {
	var name string
	switch total - r {
	case 0:
		name = "Final"
	case 1:
		name = "Semifinals"
	case 2:
		name = "Quarterfinals"
	default:
		name = fmt.Sprintf("Round %d", r)
	}
	if prefix == "" {
		return name
	}
	return prefix + " " + name
}
