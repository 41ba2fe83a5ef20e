package scoring

import "github.com/AdamBeresnev/op-tournament/internal/bracket"

// Points is the raw score comparison used for sports without dedicated rules.
// Equal totals are reported as a draw; elimination formats reject draws later.
type Points struct{}

func (Points) Sport() string { return "points" }

func (Points) Adjudicate(m bracket.Match, _ bracket.Config, events []Event) (bracket.MatchResult, error) {
	var totals [2]int
	for _, e := range events {
		slot, ok := slotOf(m, e.PlayerID)
		if !ok {
			return bracket.MatchResult{}, bracket.Errorf(bracket.KindInvalidScore, "player %q is not part of match %s", e.PlayerID, m.ID)
		}
		if e.Points < 0 {
			return bracket.MatchResult{}, bracket.Errorf(bracket.KindInvalidScore, "negative points for %q", e.PlayerID)
		}

		switch e.Type {
		case PointEvent:
			n := e.Points
			if n == 0 {
				n = 1
			}
			totals[slot] += n
		case ScoreEvent:
			totals[slot] = e.Points
		default:
			return bracket.MatchResult{}, bracket.Errorf(bracket.KindInvalidScore, "event type %q not supported for raw scores", e.Type)
		}
	}

	result := bracket.MatchResult{
		Score: &bracket.ScorePayload{
			Kind:   bracket.PointsScoreKind,
			Points: &bracket.PointsScore{Player1: totals[0], Player2: totals[1]},
		},
	}
	switch {
	case totals[0] > totals[1]:
		result.WinnerID = m.Player1ID
	case totals[1] > totals[0]:
		result.WinnerID = m.Player2ID
	default:
		result.IsDraw = true
	}
	return result, nil
}
