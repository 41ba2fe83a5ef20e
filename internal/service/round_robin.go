package service

import (
	"fmt"

	"github.com/AdamBeresnev/op-tournament/internal/bracket"
)

// BuildRoundRobin schedules every pairing exactly once using the circle
// method. An odd field gets a virtual BYE opponent; whoever draws it sits the
// round out instead of playing a match.
func BuildRoundRobin(players []bracket.Player, cfg bracket.Config) (*bracket.Bracket, error) {
	if len(players) < 2 {
		return nil, bracket.Errorf(bracket.KindInvalidRosterSize, "round robin needs at least 2 players, got %d", len(players))
	}

	b := bracket.New(bracket.RoundRobin, cfg, players)

	ids := make([]string, 0, len(players)+1)
	for _, p := range players {
		ids = append(ids, p.ID)
	}
	if len(ids)%2 != 0 {
		ids = append(ids, bracket.ByeID)
	}

	n := len(ids)
	half := n / 2

	for r := 1; r < n; r++ {
		round := bracket.Round{Number: r, Name: fmt.Sprintf("Round %d", r)}
		order := 0

		for i := 0; i < half; i++ {
			home, away := ids[i], ids[n-1-i]
			switch bracket.ByeID {
			case home:
				round.ByePlayerID = away
				continue
			case away:
				round.ByePlayerID = home
				continue
			}

			order++
			m := b.AddMatch(bracket.Match{
				ID:        matchID("R", r, order),
				Round:     r,
				Order:     order,
				Player1ID: home,
				Player2ID: away,
				Status:    bracket.MatchScheduled,
			})
			round.MatchIDs = append(round.MatchIDs, m.ID)
		}

		b.Rounds = append(b.Rounds, round)

		// Rotate players (keep the first one fixed)
		ids = append([]string{ids[0], ids[n-1]}, ids[1:n-1]...)
	}

	return b, nil
}

// roundRobinRounds is the number of rounds a full round robin of n players takes.
func roundRobinRounds(n int) int {
	if n%2 == 0 {
		return n - 1
	}
	return n
}
