package service

import (
	"sort"

	"github.com/AdamBeresnev/op-tournament/internal/bracket"
)

// ComputeStandings ranks every player from the completed matches of b.
//
// Players are ordered by points. Ties are broken by head to head when exactly
// two players are level and have met, then by Buchholz in Swiss or by score
// differential elsewhere, and finally by seed.
func ComputeStandings(b *bracket.Bracket, weights bracket.PointWeights) []bracket.Standing {
	table := make(map[string]*bracket.Standing, len(b.Players))
	list := make([]*bracket.Standing, 0, len(b.Players))
	for _, p := range b.Players {
		s := &bracket.Standing{PlayerID: p.ID}
		table[p.ID] = s
		list = append(list, s)
	}

	byeValue := weights.Win
	if b.Config.ByePoints != nil {
		byeValue = *b.Config.ByePoints
	}

	opponents := make(map[string][]string)
	wins := make(map[string]int)

	for _, round := range b.AllRounds() {
		if s, ok := table[round.ByePlayerID]; ok {
			s.Byes++
			s.Points += byeValue
		}

		for _, m := range b.RoundMatches(round) {
			if m.Status != bracket.MatchCompleted || m.IsBye || m.Result == nil {
				continue
			}
			s1, ok1 := table[m.Player1ID]
			s2, ok2 := table[m.Player2ID]
			if !ok1 || !ok2 {
				continue
			}

			for1, for2 := m.Result.Score.Totals()
			s1.Played++
			s2.Played++
			s1.ScoreFor += for1
			s1.ScoreAgainst += for2
			s2.ScoreFor += for2
			s2.ScoreAgainst += for1

			if m.Result.IsDraw {
				s1.Drawn++
				s2.Drawn++
				s1.Points += weights.Draw
				s2.Points += weights.Draw
			} else {
				winner, loser := s1, s2
				if m.Result.WinnerID == m.Player2ID {
					winner, loser = s2, s1
				}
				winner.Won++
				loser.Lost++
				winner.Points += weights.Win
				loser.Points += weights.Loss
				wins[directedKey(winner.PlayerID, loser.PlayerID)]++
			}

			opponents[m.Player1ID] = append(opponents[m.Player1ID], m.Player2ID)
			opponents[m.Player2ID] = append(opponents[m.Player2ID], m.Player1ID)
		}
	}

	for _, s := range list {
		s.PointDiff = s.ScoreFor - s.ScoreAgainst
		for _, opp := range opponents[s.PlayerID] {
			s.Buchholz += table[opp].Points
		}
	}

	seedIndex := b.SeedIndex()
	swiss := b.Format == bracket.Swiss
	sort.SliceStable(list, func(i, j int) bool {
		a, c := list[i], list[j]
		if a.Points != c.Points {
			return a.Points > c.Points
		}
		if swiss {
			if a.Buchholz != c.Buchholz {
				return a.Buchholz > c.Buchholz
			}
		} else if a.PointDiff != c.PointDiff {
			return a.PointDiff > c.PointDiff
		}
		return seedIndex[a.PlayerID] < seedIndex[c.PlayerID]
	})

	// Head to head only settles a tie between exactly two players
	for start := 0; start < len(list); {
		end := start + 1
		for end < len(list) && list[end].Points == list[start].Points {
			end++
		}
		if end-start == 2 {
			a, c := list[start], list[start+1]
			if wins[directedKey(c.PlayerID, a.PlayerID)] > wins[directedKey(a.PlayerID, c.PlayerID)] {
				list[start], list[start+1] = c, a
			}
		}
		start = end
	}

	out := make([]bracket.Standing, len(list))
	for i, s := range list {
		s.Rank = i + 1
		out[i] = *s
	}
	return out
}

func directedKey(from, to string) string {
	return from + "\x00" + to
}

// pairKey identifies a meeting regardless of slot order.
func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "\x00" + b
}
