package bracket

type SeedingMode string

const (
	SeededMode   SeedingMode = "seeded"
	RandomMode   SeedingMode = "random"
	ByRatingMode SeedingMode = "by-rating"
)

type PointWeights struct {
	Win  float64 `json:"win"`
	Draw float64 `json:"draw"`
	Loss float64 `json:"loss"`
}

var DefaultPointWeights = PointWeights{Win: 1, Draw: 0.5, Loss: 0}

type FinalSetPolicy string

const (
	// Deciding set played like any other set, tiebreak at the threshold
	FinalSetTiebreak FinalSetPolicy = "tiebreak"
	// Deciding set played until one side leads by two games
	FinalSetAdvantage FinalSetPolicy = "advantage"
	// Deciding set replaced by a single long tiebreak
	FinalSetMatchTiebreak FinalSetPolicy = "match_tiebreak"
)

type TennisSettings struct {
	BestOf              int            `json:"best_of"`
	GamesPerSet         int            `json:"games_per_set"`
	TiebreakAt          int            `json:"tiebreak_at"`
	TiebreakPoints      int            `json:"tiebreak_points"`
	FinalSet            FinalSetPolicy `json:"final_set"`
	MatchTiebreakPoints int            `json:"match_tiebreak_points"`
}

var DefaultTennisSettings = TennisSettings{
	BestOf:              3,
	GamesPerSet:         6,
	TiebreakAt:          6,
	TiebreakPoints:      7,
	FinalSet:            FinalSetTiebreak,
	MatchTiebreakPoints: 10,
}

// Config is the per-tournament configuration supplied with the roster.
type Config struct {
	Sport      string      `json:"sport,omitempty"`
	Seeding    SeedingMode `json:"seeding,omitempty"`
	RandomSeed int64       `json:"random_seed,omitempty"`

	// Fixed number of Swiss rounds
	SwissRounds int `json:"swiss_rounds,omitempty"`

	Points *PointWeights `json:"points,omitempty"`
	// Points credited for a Swiss or round robin bye; defaults to a win
	ByePoints *float64 `json:"bye_points,omitempty"`

	Tennis *TennisSettings `json:"tennis,omitempty"`
}

func (c Config) Weights() PointWeights {
	if c.Points == nil {
		return DefaultPointWeights
	}
	return *c.Points
}

func (c Config) ByeValue() float64 {
	if c.ByePoints == nil {
		return c.Weights().Win
	}
	return *c.ByePoints
}

func (c Config) TennisRules() TennisSettings {
	if c.Tennis == nil {
		return DefaultTennisSettings
	}
	return *c.Tennis
}

func (c Config) Clone() Config {
	out := c
	if c.Points != nil {
		p := *c.Points
		out.Points = &p
	}
	if c.ByePoints != nil {
		v := *c.ByePoints
		out.ByePoints = &v
	}
	if c.Tennis != nil {
		t := *c.Tennis
		out.Tennis = &t
	}
	return out
}
