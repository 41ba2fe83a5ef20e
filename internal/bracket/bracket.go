package bracket

type Format string

const (
	SingleElimination Format = "single_elimination"
	DoubleElimination Format = "double_elimination"
	RoundRobin        Format = "round_robin"
	Swiss             Format = "swiss"
)

func (f Format) Valid() bool {
	switch f {
	case SingleElimination, DoubleElimination, RoundRobin, Swiss:
		return true
	}
	return false
}

// Elimination reports whether matches in this format must produce a winner.
func (f Format) Elimination() bool {
	return f == SingleElimination || f == DoubleElimination
}

type Round struct {
	Number   int      `json:"number"`
	Name     string   `json:"name,omitempty"`
	MatchIDs []string `json:"match_ids"`

	// Player sitting the round out (round robin and Swiss only)
	ByePlayerID string   `json:"bye_player_id,omitempty"`
	Warnings    []string `json:"warnings,omitempty"`
}

type Bracket struct {
	ID      string `json:"id"`
	Format  Format `json:"format"`
	Sport   string `json:"sport,omitempty"`
	Version int    `json:"version"`
	Config  Config `json:"config"`

	// Players in seeded slot order
	Players []Player          `json:"players"`
	Matches map[string]*Match `json:"matches"`

	// Winner (or only) rounds, loser rounds, and the two grand final rounds
	Rounds      []Round `json:"rounds"`
	LoserRounds []Round `json:"loser_rounds,omitempty"`
	GrandFinal  []Round `json:"grand_final,omitempty"`

	TotalMatches int    `json:"total_matches"`
	ChampionID   string `json:"champion_id,omitempty"`
	Completed    bool   `json:"completed"`
}

func New(format Format, cfg Config, players []Player) *Bracket {
	return &Bracket{
		Format:  format,
		Sport:   cfg.Sport,
		Config:  cfg,
		Players: append([]Player(nil), players...),
		Matches: make(map[string]*Match),
	}
}

// AddMatch stores m in the arena and returns the stored pointer.
func (b *Bracket) AddMatch(m Match) *Match {
	stored := m
	b.Matches[m.ID] = &stored
	b.TotalMatches = len(b.Matches)
	return &stored
}

func (b *Bracket) Match(id string) (*Match, bool) {
	m, ok := b.Matches[id]
	return m, ok
}

// RoundMatches resolves the match ids of r in order.
func (b *Bracket) RoundMatches(r Round) []*Match {
	out := make([]*Match, 0, len(r.MatchIDs))
	for _, id := range r.MatchIDs {
		if m, ok := b.Matches[id]; ok {
			out = append(out, m)
		}
	}
	return out
}

// RoundStatus derives a round's status from its matches: completed when all
// are completed, in_progress once any has started or finished, otherwise the
// least advanced status present.
func (b *Bracket) RoundStatus(r Round) MatchStatus {
	matches := b.RoundMatches(r)
	if len(matches) == 0 {
		return MatchCompleted
	}
	completed, started, scheduled, conditional := 0, 0, 0, 0
	for _, m := range matches {
		switch m.Status {
		case MatchCompleted:
			completed++
		case MatchInProgress:
			started++
		case MatchScheduled:
			scheduled++
		case MatchConditional:
			conditional++
		}
	}
	switch {
	case completed == len(matches):
		return MatchCompleted
	case completed > 0 || started > 0:
		return MatchInProgress
	case conditional == len(matches):
		return MatchConditional
	case scheduled == len(matches):
		return MatchScheduled
	}
	return MatchPending
}

// AllRounds lists every round of every partition: winner rounds, loser
// rounds, then the grand final.
func (b *Bracket) AllRounds() []Round {
	out := make([]Round, 0, len(b.Rounds)+len(b.LoserRounds)+len(b.GrandFinal))
	out = append(out, b.Rounds...)
	out = append(out, b.LoserRounds...)
	out = append(out, b.GrandFinal...)
	return out
}

// SeedIndex maps player id to its position in the seeded order.
func (b *Bracket) SeedIndex() map[string]int {
	idx := make(map[string]int, len(b.Players))
	for i, p := range b.Players {
		idx[p.ID] = i
	}
	return idx
}

// Clone returns a deep copy sharing no mutable state with b.
func (b *Bracket) Clone() *Bracket {
	out := *b
	out.Config = b.Config.Clone()
	out.Players = make([]Player, len(b.Players))
	for i, p := range b.Players {
		out.Players[i] = p
		if p.Rating != nil {
			r := *p.Rating
			out.Players[i].Rating = &r
		}
	}
	out.Matches = make(map[string]*Match, len(b.Matches))
	for id, m := range b.Matches {
		c := *m
		c.Result = m.Result.Clone()
		out.Matches[id] = &c
	}
	out.Rounds = cloneRounds(b.Rounds)
	out.LoserRounds = cloneRounds(b.LoserRounds)
	out.GrandFinal = cloneRounds(b.GrandFinal)
	return &out
}

func cloneRounds(rounds []Round) []Round {
	if rounds == nil {
		return nil
	}
	out := make([]Round, len(rounds))
	for i, r := range rounds {
		out[i] = r
		out[i].MatchIDs = append([]string(nil), r.MatchIDs...)
		if r.Warnings != nil {
			out[i].Warnings = append([]string(nil), r.Warnings...)
		}
	}
	return out
}
