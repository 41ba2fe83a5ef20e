package service

import (
	"math"
	"math/rand"
	"sort"

	"github.com/AdamBeresnev/op-tournament/internal/bracket"
)

// AssignSeeds returns the players in slot order, strongest first. The input
// slice is left untouched.
func AssignSeeds(players []bracket.Player, mode bracket.SeedingMode, randomSeed int64) ([]bracket.Player, error) {
	if err := validateRoster(players); err != nil {
		return nil, err
	}

	ordered := append([]bracket.Player(nil), players...)

	switch mode {
	case bracket.SeededMode, "":
		// Unseeded players keep their input order behind every seeded one
		sort.SliceStable(ordered, func(i, j int) bool {
			return seedKey(ordered[i]) < seedKey(ordered[j])
		})
	case bracket.ByRatingMode:
		sort.SliceStable(ordered, func(i, j int) bool {
			ri, rj := ordered[i].Rating, ordered[j].Rating
			if ri == nil || rj == nil {
				return ri != nil && rj == nil
			}
			return *ri > *rj
		})
	case bracket.RandomMode:
		rng := rand.New(rand.NewSource(randomSeed))
		rng.Shuffle(len(ordered), func(i, j int) {
			ordered[i], ordered[j] = ordered[j], ordered[i]
		})
	default:
		return nil, bracket.Errorf(bracket.KindInvalidConfig, "unknown seeding mode %q", mode)
	}

	return ordered, nil
}

func seedKey(p bracket.Player) int {
	if p.Seed <= 0 {
		return int(^uint(0) >> 1)
	}
	return p.Seed
}

func validateRoster(players []bracket.Player) error {
	seen := make(map[string]bool, len(players))
	for _, p := range players {
		if !bracket.IsPlayer(p.ID) {
			return bracket.Errorf(bracket.KindInvalidConfig, "player id %q is reserved or empty", p.ID)
		}
		if seen[p.ID] {
			return bracket.Errorf(bracket.KindInvalidConfig, "duplicate player id %q", p.ID)
		}
		if p.Seed < 0 {
			return bracket.Errorf(bracket.KindInvalidConfig, "player %q has negative seed %d", p.ID, p.Seed)
		}
		seen[p.ID] = true
	}
	return nil
}

// ByePlan describes how a field of n players fills an elimination bracket.
type ByePlan struct {
	Players     int
	BracketSize int
	Rounds      int
	Byes        int
	// Round 1 pairings as indexes into the seeded order. An index >= Players
	// is a bye.
	Pairs [][2]int
}

func ResolveByes(n int) (ByePlan, error) {
	if n < 1 {
		return ByePlan{}, bracket.Errorf(bracket.KindInvalidRosterSize, "cannot place %d players", n)
	}

	size := calcBracketSize(n)
	plan := ByePlan{
		Players:     n,
		BracketSize: size,
		Rounds:      int(math.Log2(float64(size))),
		Byes:        size - n,
		Pairs:       generateRound1Pairs(size),
	}

	// Two byes meeting in round 1 would leave an empty match
	for _, pair := range plan.Pairs {
		if pair[0] >= n && pair[1] >= n {
			return ByePlan{}, bracket.Errorf(bracket.KindByeOverflow, "seed slots %d and %d are both byes", pair[0]+1, pair[1]+1)
		}
	}

	return plan, nil
}

// Gets the nearest power of 2 while rounding up, so with input 5 it returns 8 and so on
func calcBracketSize(count int) int {
	if count <= 0 {
		return 0
	}

	// Log2 -> Ceil -> 2^^log2 to round up
	log2 := math.Ceil(math.Log2(float64(count)))
	return int(math.Pow(2, log2))
}

// generateRound1Pairs builds the "1 vs N, 2 vs N-1" slot order recursively so
// the top two seeds land in opposite halves.
func generateRound1Pairs(bracketSize int) [][2]int {
	if bracketSize < 2 {
		return [][2]int{}
	}

	rounds := []int{0}
	for len(rounds) < bracketSize {
		var nextRound []int
		currentCount := len(rounds) * 2

		for _, seed := range rounds {
			nextRound = append(nextRound, seed)
			nextRound = append(nextRound, (currentCount-1)-seed)
		}
		rounds = nextRound
	}

	pairs := make([][2]int, 0, bracketSize/2)
	for i := 0; i < len(rounds); i += 2 {
		matchup := [2]int{rounds[i], rounds[i+1]}
		pairs = append(pairs, matchup)
	}

	return pairs
}
