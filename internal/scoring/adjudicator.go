// Package scoring turns raw score events into match results. Each sport
// provides an Adjudicator; sports without one fall back to raw score
// comparison.
package scoring

import (
	"sort"
	"strings"

	"github.com/AdamBeresnev/op-tournament/internal/bracket"
)

type EventType string

const (
	// A single rally or point won by PlayerID. Points defaults to 1.
	PointEvent EventType = "point"
	// Absolute score for PlayerID, replacing earlier totals.
	ScoreEvent EventType = "score"
	// A completed set reported at set level.
	SetEvent EventType = "set"
	// PlayerID wins without play.
	WalkoverEvent EventType = "walkover"
)

type Event struct {
	Type     EventType         `json:"type"`
	PlayerID string            `json:"player_id,omitempty"`
	Points   int               `json:"points,omitempty"`
	Set      *bracket.SetScore `json:"set,omitempty"`
}

// Adjudicator decides a match from its events. It must be pure: the same
// match and events always yield the same result.
type Adjudicator interface {
	Sport() string
	Adjudicate(m bracket.Match, cfg bracket.Config, events []Event) (bracket.MatchResult, error)
}

// Registry selects an adjudicator by sport tag.
type Registry struct {
	adjudicators map[string]Adjudicator
	fallback     Adjudicator
}

func NewRegistry(adjudicators ...Adjudicator) *Registry {
	r := &Registry{
		adjudicators: make(map[string]Adjudicator),
		fallback:     Points{},
	}
	for _, a := range adjudicators {
		r.Register(a)
	}
	return r
}

// DefaultRegistry knows every sport shipped with the module.
func DefaultRegistry() *Registry {
	return NewRegistry(Tennis{})
}

func (r *Registry) Register(a Adjudicator) {
	r.adjudicators[normalizeSport(a.Sport())] = a
}

// Lookup never fails: unknown sports are judged by raw score comparison.
func (r *Registry) Lookup(sport string) Adjudicator {
	if a, ok := r.adjudicators[normalizeSport(sport)]; ok {
		return a
	}
	return r.fallback
}

// Sports lists the registered sport tags in sorted order.
func (r *Registry) Sports() []string {
	out := make([]string, 0, len(r.adjudicators))
	for s := range r.adjudicators {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Adjudicate handles walkovers, which need no sport rules, and delegates
// everything else to the sport's adjudicator.
func (r *Registry) Adjudicate(sport string, m bracket.Match, cfg bracket.Config, events []Event) (bracket.MatchResult, error) {
	if len(events) == 0 {
		return bracket.MatchResult{}, bracket.Errorf(bracket.KindInvalidScore, "no score events for match %s", m.ID)
	}

	for _, e := range events {
		if e.Type != WalkoverEvent {
			continue
		}
		if len(events) != 1 {
			return bracket.MatchResult{}, bracket.Errorf(bracket.KindInvalidScore, "walkover cannot be combined with other events")
		}
		if !m.HasPlayer(e.PlayerID) {
			return bracket.MatchResult{}, bracket.Errorf(bracket.KindInvalidScore, "walkover winner %q is not part of match %s", e.PlayerID, m.ID)
		}
		return bracket.MatchResult{WinnerID: e.PlayerID, IsWalkover: true}, nil
	}

	return r.Lookup(sport).Adjudicate(m, cfg, events)
}

func normalizeSport(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// slotOf maps a player id to slot index 0 or 1.
func slotOf(m bracket.Match, playerID string) (int, bool) {
	switch {
	case !bracket.IsPlayer(playerID):
		return 0, false
	case playerID == m.Player1ID:
		return 0, true
	case playerID == m.Player2ID:
		return 1, true
	}
	return 0, false
}
