package service

import (
	"github.com/AdamBeresnev/op-tournament/internal/bracket"
	"github.com/AdamBeresnev/op-tournament/internal/scoring"
)

const (
	resetNotRequiredNote = "reset not required"
	forcedRematchNote    = "forced rematch"
)

// SubmitResult adjudicates events for matchID under sport's rules and applies
// the result. A Swiss round that completes is paired immediately unless it
// was the last one.
func SubmitResult(b *bracket.Bracket, matchID string, events []scoring.Event, sport string, registry *scoring.Registry, version int) (*bracket.Bracket, error) {
	m, err := liveMatch(b, matchID, version)
	if err != nil {
		return nil, err
	}

	if sport == "" {
		sport = b.Sport
	}
	if registry == nil {
		registry = scoring.DefaultRegistry()
	}

	result, err := registry.Adjudicate(sport, *m, b.Config, events)
	if err != nil {
		return nil, err
	}

	out, err := ApplyResult(b, matchID, result, version)
	if err != nil {
		return nil, err
	}

	if out.Format == bracket.Swiss && !out.Completed && len(out.Rounds) > 0 &&
		out.RoundStatus(out.Rounds[len(out.Rounds)-1]) == bracket.MatchCompleted {
		return AdvanceSwissRound(out, out.Version)
	}
	return out, nil
}

// ApplyResult records result on matchID and moves the winner and loser along
// their feed links. b is never modified; the returned bracket carries the
// next version.
func ApplyResult(b *bracket.Bracket, matchID string, result bracket.MatchResult, version int) (*bracket.Bracket, error) {
	m, err := liveMatch(b, matchID, version)
	if err != nil {
		return nil, err
	}
	if err := validateResult(b, m, result); err != nil {
		return nil, err
	}

	out := b.Clone()
	target := out.Matches[matchID]
	target.Result = result.Clone()
	target.Status = bracket.MatchCompleted

	if !result.IsDraw {
		if err := propagate(out, target, result.WinnerID, target.Opponent(result.WinnerID)); err != nil {
			return nil, err
		}
	}

	markCompletion(out, target)
	out.Version++
	return out, nil
}

// StartMatch marks a scheduled match as being played.
func StartMatch(b *bracket.Bracket, matchID string, version int) (*bracket.Bracket, error) {
	m, err := liveMatch(b, matchID, version)
	if err != nil {
		return nil, err
	}
	if m.Status == bracket.MatchInProgress {
		return nil, bracket.Errorf(bracket.KindMatchNotReady, "match %s is already in progress", matchID)
	}

	out := b.Clone()
	out.Matches[matchID].Status = bracket.MatchInProgress
	out.Version++
	return out, nil
}

// liveMatch returns the match a caller may act on, or the reason it cannot.
func liveMatch(b *bracket.Bracket, matchID string, version int) (*bracket.Match, error) {
	if b.Version != version {
		return nil, bracket.Errorf(bracket.KindConcurrentModification, "bracket is at version %d, got %d", b.Version, version)
	}

	m, ok := b.Match(matchID)
	if !ok {
		return nil, bracket.Errorf(bracket.KindMatchNotFound, "match %s does not exist", matchID)
	}

	switch m.Status {
	case bracket.MatchCompleted:
		return nil, bracket.Errorf(bracket.KindMatchAlreadyComplete, "match %s is already completed", matchID)
	case bracket.MatchConditional:
		return nil, bracket.Errorf(bracket.KindMatchNotReady, "match %s is a reset that has not been triggered", matchID)
	}

	if !m.Ready() {
		return nil, bracket.Errorf(bracket.KindMatchNotReady, "match %s is still waiting for players", matchID)
	}
	return m, nil
}

func validateResult(b *bracket.Bracket, m *bracket.Match, result bracket.MatchResult) error {
	if result.IsDraw {
		if b.Format.Elimination() {
			return bracket.Errorf(bracket.KindInvalidScore, "%s matches cannot be drawn", b.Format)
		}
		if result.WinnerID != "" || result.IsWalkover {
			return bracket.Errorf(bracket.KindInvalidScore, "a drawn match cannot have a winner")
		}
		return nil
	}

	if !m.HasPlayer(result.WinnerID) {
		return bracket.Errorf(bracket.KindInvalidScore, "winner %q is not part of match %s", result.WinnerID, m.ID)
	}
	return nil
}

// propagate writes winner and loser into the matches m feeds.
func propagate(b *bracket.Bracket, m *bracket.Match, winner, loser string) error {
	if m.Partition == bracket.GrandFinalPartition && m.Round == 1 {
		return resolveReset(b, m, winner)
	}

	if m.WinnerNextMatchID != "" {
		if err := fillSlot(b, m.WinnerNextMatchID, m.WinnerNextSlot, winner); err != nil {
			return err
		}
	}
	if m.LoserNextMatchID != "" {
		if err := fillSlot(b, m.LoserNextMatchID, m.LoserNextSlot, loser); err != nil {
			return err
		}
	}
	return nil
}

// resolveReset decides the grand final reset once the first grand final is
// played. It only goes live when the loser bracket champion wins.
func resolveReset(b *bracket.Bracket, first *bracket.Match, winner string) error {
	reset, ok := b.Matches[first.WinnerNextMatchID]
	if !ok {
		return bracket.Errorf(bracket.KindInvariantViolation, "grand final %s has no reset match", first.ID)
	}

	if winner == first.Player1ID {
		reset.Notes = resetNotRequiredNote
		return nil
	}

	reset.SetSlot(first.LoserNextSlot, first.Player1ID)
	reset.SetSlot(first.WinnerNextSlot, winner)
	reset.Status = bracket.MatchScheduled
	reset.Notes = ""
	return nil
}

func fillSlot(b *bracket.Bracket, matchID string, slot int, playerID string) error {
	target, ok := b.Matches[matchID]
	if !ok {
		return bracket.Errorf(bracket.KindInvariantViolation, "feed target %s does not exist", matchID)
	}
	if slot != 1 && slot != 2 {
		return bracket.Errorf(bracket.KindInvariantViolation, "match %s has no slot %d", matchID, slot)
	}
	if current := target.Slot(slot); current != "" {
		return bracket.Errorf(bracket.KindInvariantViolation, "slot %d of match %s already holds %s", slot, matchID, current)
	}

	target.SetSlot(slot, playerID)
	return settle(b, target)
}

// settle updates a pending match after one of its slots changed. A BYE
// against a known opponent completes the match on the spot; two BYEs send a
// BYE onwards.
func settle(b *bracket.Bracket, m *bracket.Match) error {
	if m.Status != bracket.MatchPending {
		return nil
	}

	p1, p2 := m.Player1ID, m.Player2ID
	hasBye := p1 == bracket.ByeID || p2 == bracket.ByeID

	if p1 == "" || p2 == "" {
		if hasBye {
			m.IsBye = true
		}
		return nil
	}
	if !hasBye {
		m.Status = bracket.MatchScheduled
		return nil
	}

	winner := p1
	if p1 == bracket.ByeID {
		winner = p2
	}

	m.IsBye = true
	m.Status = bracket.MatchCompleted
	if bracket.IsPlayer(winner) {
		m.Result = &bracket.MatchResult{WinnerID: winner}
	}
	return propagate(b, m, winner, bracket.ByeID)
}

// markCompletion sets the champion or the completed flag once m's result
// finishes the event.
func markCompletion(b *bracket.Bracket, m *bracket.Match) {
	switch b.Format {
	case bracket.SingleElimination, bracket.DoubleElimination:
		winner := m.WinnerID()
		if winner == "" {
			return
		}
		final := m.WinnerNextMatchID == "" && m.Partition != bracket.LoserPartition
		resetPruned := m.Partition == bracket.GrandFinalPartition && m.Round == 1 && winner == m.Player1ID
		if final || resetPruned {
			b.ChampionID = winner
			b.Completed = true
		}

	case bracket.RoundRobin:
		for _, match := range b.Matches {
			if match.Status != bracket.MatchCompleted {
				return
			}
		}
		b.Completed = true

	case bracket.Swiss:
		last := len(b.Rounds)
		if last > 0 && last >= b.Config.SwissRounds && b.RoundStatus(b.Rounds[last-1]) == bracket.MatchCompleted {
			b.Completed = true
		}
	}
}
