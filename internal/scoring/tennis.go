package scoring

import (
	"fmt"

	"github.com/AdamBeresnev/op-tournament/internal/bracket"
)

type Phase string

const (
	PhaseGame          Phase = "in_game"
	PhaseTiebreak      Phase = "tiebreak"
	PhaseMatchTiebreak Phase = "match_tiebreak"
	PhaseComplete      Phase = "match_complete"
)

// TennisState is an immutable snapshot of a tennis match. Transitions return
// a new value; the receiver is never modified, so any prefix of the event
// history can be replayed to undo points.
type TennisState struct {
	Rules   bracket.TennisSettings `json:"rules"`
	Players [2]string              `json:"players"`

	// Points in the current game or tiebreak
	Points [2]int `json:"points"`
	// Games in the current set
	Games   [2]int             `json:"games"`
	Sets    []bracket.SetScore `json:"sets"`
	SetsWon [2]int             `json:"sets_won"`

	Phase  Phase `json:"phase"`
	Winner int   `json:"winner"`
}

func NewTennisState(rules bracket.TennisSettings, player1, player2 string) (TennisState, error) {
	if err := ValidateTennisRules(rules); err != nil {
		return TennisState{}, err
	}
	if !bracket.IsPlayer(player1) || !bracket.IsPlayer(player2) || player1 == player2 {
		return TennisState{}, bracket.Errorf(bracket.KindInvalidScore, "tennis needs two distinct players")
	}
	s := TennisState{
		Rules:   rules,
		Players: [2]string{player1, player2},
		Phase:   PhaseGame,
		Winner:  -1,
	}
	// A single set match under match_tiebreak is decided by the tiebreak alone
	if s.decidingSet() && rules.FinalSet == bracket.FinalSetMatchTiebreak {
		s.Phase = PhaseMatchTiebreak
	}
	return s, nil
}

func ValidateTennisRules(r bracket.TennisSettings) error {
	switch {
	case r.BestOf < 1 || r.BestOf%2 == 0:
		return bracket.Errorf(bracket.KindInvalidConfig, "best_of must be odd and positive, got %d", r.BestOf)
	case r.GamesPerSet < 1:
		return bracket.Errorf(bracket.KindInvalidConfig, "games_per_set must be positive")
	case r.TiebreakAt < 1 || r.TiebreakPoints < 1:
		return bracket.Errorf(bracket.KindInvalidConfig, "tiebreak threshold and points must be positive")
	}
	switch r.FinalSet {
	case bracket.FinalSetTiebreak, bracket.FinalSetAdvantage:
	case bracket.FinalSetMatchTiebreak:
		if r.MatchTiebreakPoints < 1 {
			return bracket.Errorf(bracket.KindInvalidConfig, "match_tiebreak_points must be positive")
		}
	default:
		return bracket.Errorf(bracket.KindInvalidConfig, "unknown final set policy %q", r.FinalSet)
	}
	return nil
}

func (s TennisState) setsToWin() int {
	return s.Rules.BestOf/2 + 1
}

// decidingSet reports whether the set being played decides the match.
func (s TennisState) decidingSet() bool {
	need := s.setsToWin() - 1
	return s.SetsWon[0] == need && s.SetsWon[1] == need
}

func (s TennisState) Complete() bool {
	return s.Phase == PhaseComplete
}

func (s TennisState) WinnerID() string {
	if s.Winner < 0 {
		return ""
	}
	return s.Players[s.Winner]
}

// AwardPoint returns the state after playerID wins the next point.
func AwardPoint(s TennisState, playerID string) (TennisState, error) {
	if s.Complete() {
		return s, bracket.Errorf(bracket.KindInvalidScore, "point awarded after the match was decided")
	}
	i := -1
	for idx, p := range s.Players {
		if p == playerID {
			i = idx
		}
	}
	if i < 0 {
		return s, bracket.Errorf(bracket.KindInvalidScore, "player %q is not in this match", playerID)
	}

	next := s
	next.Sets = append([]bracket.SetScore(nil), s.Sets...)
	next.Points[i]++

	switch s.Phase {
	case PhaseGame:
		if next.Points[i] >= 4 && next.Points[i]-next.Points[1-i] >= 2 {
			next = next.winGame(i)
		}
	case PhaseTiebreak:
		if next.Points[i] >= s.Rules.TiebreakPoints && next.Points[i]-next.Points[1-i] >= 2 {
			next.Games[i]++
			next = next.winSet(i)
		}
	case PhaseMatchTiebreak:
		if next.Points[i] >= s.Rules.MatchTiebreakPoints && next.Points[i]-next.Points[1-i] >= 2 {
			next.Games[i]++
			next = next.winSet(i)
		}
	}
	return next, nil
}

func (s TennisState) winGame(i int) TennisState {
	s.Points = [2]int{}
	s.Games[i]++

	g := s.Games
	advantageSet := s.decidingSet() && s.Rules.FinalSet == bracket.FinalSetAdvantage
	switch {
	case g[i] >= s.Rules.GamesPerSet && g[i]-g[1-i] >= 2:
		return s.winSet(i)
	case !advantageSet && g[0] == s.Rules.TiebreakAt && g[1] == s.Rules.TiebreakAt:
		s.Phase = PhaseTiebreak
	}
	return s
}

func (s TennisState) winSet(i int) TennisState {
	set := bracket.SetScore{Player1: s.Games[0], Player2: s.Games[1]}
	if s.Phase == PhaseTiebreak || s.Phase == PhaseMatchTiebreak {
		tb := s.Points
		set.Tiebreak = &tb
	}
	s.Sets = append(s.Sets, set)
	s.SetsWon[i]++
	s.Points = [2]int{}
	s.Games = [2]int{}

	switch {
	case s.SetsWon[i] == s.setsToWin():
		s.Phase = PhaseComplete
		s.Winner = i
	case s.decidingSet() && s.Rules.FinalSet == bracket.FinalSetMatchTiebreak:
		s.Phase = PhaseMatchTiebreak
	default:
		s.Phase = PhaseGame
	}
	return s
}

var pointNames = [...]string{"0", "15", "30", "40"}

// GameScore renders the current game the way an umpire calls it.
func (s TennisState) GameScore() string {
	p := s.Points
	switch s.Phase {
	case PhaseComplete:
		return "Game, set and match"
	case PhaseTiebreak, PhaseMatchTiebreak:
		return fmt.Sprintf("%d-%d", p[0], p[1])
	}
	if p[0] >= 3 && p[1] >= 3 {
		switch {
		case p[0] == p[1]:
			return "Deuce"
		case p[0] > p[1]:
			return "Advantage " + s.Players[0]
		default:
			return "Advantage " + s.Players[1]
		}
	}
	return pointNames[p[0]] + "-" + pointNames[p[1]]
}

func (s TennisState) Deuce() bool {
	return s.Phase == PhaseGame && s.Points[0] >= 3 && s.Points[0] == s.Points[1]
}

// Advantage returns the player holding advantage, or "".
func (s TennisState) Advantage() string {
	p := s.Points
	if s.Phase != PhaseGame || p[0] < 3 || p[1] < 3 || p[0] == p[1] {
		return ""
	}
	if p[0] > p[1] {
		return s.Players[0]
	}
	return s.Players[1]
}

// Replay rebuilds a match from the ordered list of point winners.
func Replay(rules bracket.TennisSettings, player1, player2 string, pointWinners []string) (TennisState, error) {
	state, err := NewTennisState(rules, player1, player2)
	if err != nil {
		return state, err
	}
	for n, w := range pointWinners {
		state, err = AwardPoint(state, w)
		if err != nil {
			return state, fmt.Errorf("point %d: %w", n+1, err)
		}
	}
	return state, nil
}

func (s TennisState) Result() (bracket.MatchResult, error) {
	if !s.Complete() {
		return bracket.MatchResult{}, bracket.Errorf(bracket.KindInvalidScore, "match is not decided")
	}
	return bracket.MatchResult{
		WinnerID: s.WinnerID(),
		Score: &bracket.ScorePayload{
			Kind:   bracket.TennisScoreKind,
			Tennis: &bracket.TennisScore{Sets: append([]bracket.SetScore(nil), s.Sets...)},
		},
	}, nil
}

// Tennis adjudicates from point-by-point events or from reported set scores.
type Tennis struct{}

func (Tennis) Sport() string { return "tennis" }

func (Tennis) Adjudicate(m bracket.Match, cfg bracket.Config, events []Event) (bracket.MatchResult, error) {
	rules := cfg.TennisRules()
	if err := ValidateTennisRules(rules); err != nil {
		return bracket.MatchResult{}, err
	}
	if len(events) == 0 {
		return bracket.MatchResult{}, bracket.Errorf(bracket.KindInvalidScore, "no score events for match %s", m.ID)
	}

	switch events[0].Type {
	case PointEvent:
		winners := make([]string, 0, len(events))
		for _, e := range events {
			if e.Type != PointEvent {
				return bracket.MatchResult{}, bracket.Errorf(bracket.KindInvalidScore, "point and %s events cannot be mixed", e.Type)
			}
			winners = append(winners, e.PlayerID)
		}
		state, err := Replay(rules, m.Player1ID, m.Player2ID, winners)
		if err != nil {
			return bracket.MatchResult{}, err
		}
		return state.Result()

	case SetEvent:
		sets := make([]bracket.SetScore, 0, len(events))
		for _, e := range events {
			if e.Type != SetEvent || e.Set == nil {
				return bracket.MatchResult{}, bracket.Errorf(bracket.KindInvalidScore, "set results must all be set events")
			}
			sets = append(sets, *e.Set)
		}
		return judgeSets(rules, m, sets)
	}

	return bracket.MatchResult{}, bracket.Errorf(bracket.KindInvalidScore, "event type %q not supported for tennis", events[0].Type)
}

// judgeSets validates reported set scores against the rules and derives the
// winner.
func judgeSets(rules bracket.TennisSettings, m bracket.Match, sets []bracket.SetScore) (bracket.MatchResult, error) {
	toWin := rules.BestOf/2 + 1
	var won [2]int
	for n, set := range sets {
		if won[0] == toWin || won[1] == toWin {
			return bracket.MatchResult{}, bracket.Errorf(bracket.KindInvalidScore, "set %d reported after the match was decided", n+1)
		}
		deciding := won[0] == toWin-1 && won[1] == toWin-1
		w, err := setWinner(rules, set, deciding)
		if err != nil {
			return bracket.MatchResult{}, fmt.Errorf("set %d: %w", n+1, err)
		}
		won[w]++
	}

	var winner string
	switch {
	case won[0] == toWin:
		winner = m.Player1ID
	case won[1] == toWin:
		winner = m.Player2ID
	default:
		return bracket.MatchResult{}, bracket.Errorf(bracket.KindInvalidScore, "sets %d-%d do not decide a best of %d", won[0], won[1], rules.BestOf)
	}

	return bracket.MatchResult{
		WinnerID: winner,
		Score: &bracket.ScorePayload{
			Kind:   bracket.TennisScoreKind,
			Tennis: &bracket.TennisScore{Sets: append([]bracket.SetScore(nil), sets...)},
		},
	}, nil
}

func setWinner(rules bracket.TennisSettings, set bracket.SetScore, deciding bool) (int, error) {
	g := [2]int{set.Player1, set.Player2}
	if g[0] < 0 || g[1] < 0 || g[0] == g[1] {
		return 0, bracket.Errorf(bracket.KindInvalidScore, "set %d-%d has no winner", g[0], g[1])
	}
	w := 0
	if g[1] > g[0] {
		w = 1
	}
	a, b := g[w], g[1-w]

	if deciding && rules.FinalSet == bracket.FinalSetMatchTiebreak {
		if a != 1 || b != 0 || set.Tiebreak == nil || !validTiebreak(set.Tiebreak[w], set.Tiebreak[1-w], rules.MatchTiebreakPoints) {
			return 0, bracket.Errorf(bracket.KindInvalidScore, "deciding match tiebreak is not valid")
		}
		return w, nil
	}

	tiebreaks := !(deciding && rules.FinalSet == bracket.FinalSetAdvantage)
	if tiebreaks && a == rules.TiebreakAt+1 && b == rules.TiebreakAt {
		if set.Tiebreak == nil || !validTiebreak(set.Tiebreak[w], set.Tiebreak[1-w], rules.TiebreakPoints) {
			return 0, bracket.Errorf(bracket.KindInvalidScore, "set %d-%d needs a valid tiebreak", g[0], g[1])
		}
		return w, nil
	}

	switch {
	case set.Tiebreak != nil:
		return 0, bracket.Errorf(bracket.KindInvalidScore, "set %d-%d cannot contain a tiebreak", g[0], g[1])
	case a < rules.GamesPerSet || a-b < 2:
		return 0, bracket.Errorf(bracket.KindInvalidScore, "set %d-%d is not finished", g[0], g[1])
	case a > rules.GamesPerSet && a-b != 2:
		return 0, bracket.Errorf(bracket.KindInvalidScore, "set %d-%d ran past its winning game", g[0], g[1])
	case tiebreaks && b >= rules.TiebreakAt:
		return 0, bracket.Errorf(bracket.KindInvalidScore, "set %d-%d should have gone to a tiebreak", g[0], g[1])
	}
	return w, nil
}

// validTiebreak checks a finished tiebreak: the winner reached target with a
// two point lead and play stopped as soon as that happened.
func validTiebreak(w, l, target int) bool {
	if w < target || w-l < 2 {
		return false
	}
	return w == target || w-l == 2
}
