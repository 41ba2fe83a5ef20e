package service

import (
	"github.com/AdamBeresnev/op-tournament/internal/bracket"
	"github.com/AdamBeresnev/op-tournament/internal/scoring"
	"github.com/google/uuid"
)

// GenerateBracket seeds players and builds the initial bracket for format.
func GenerateBracket(format bracket.Format, players []bracket.Player, cfg bracket.Config) (*bracket.Bracket, error) {
	if !format.Valid() {
		return nil, bracket.Errorf(bracket.KindInvalidConfig, "unknown format %q", format)
	}
	if len(players) < 2 {
		return nil, bracket.Errorf(bracket.KindInvalidRosterSize, "%s needs at least 2 players, got %d", format, len(players))
	}
	if err := validateConfig(format, len(players), cfg); err != nil {
		return nil, err
	}

	seeded, err := AssignSeeds(players, seedingMode(format, players, cfg), cfg.RandomSeed)
	if err != nil {
		return nil, err
	}

	var b *bracket.Bracket
	switch format {
	case bracket.SingleElimination:
		b, err = BuildSingleElimination(seeded, cfg)
	case bracket.DoubleElimination:
		b, err = BuildDoubleElimination(seeded, cfg)
	case bracket.RoundRobin:
		b, err = BuildRoundRobin(seeded, cfg)
	case bracket.Swiss:
		b, err = BuildSwiss(seeded, cfg)
	}
	if err != nil {
		return nil, err
	}

	b.ID = uuid.NewString()
	return b, nil
}

// seedingMode resolves the order players are placed in. A swiss field with
// no seeding mode and no seeds is shuffled with cfg.RandomSeed.
func seedingMode(format bracket.Format, players []bracket.Player, cfg bracket.Config) bracket.SeedingMode {
	if format != bracket.Swiss || cfg.Seeding != "" {
		return cfg.Seeding
	}
	for _, p := range players {
		if p.Seed != 0 {
			return cfg.Seeding
		}
	}
	return bracket.RandomMode
}

func validateConfig(format bracket.Format, players int, cfg bracket.Config) error {
	switch cfg.Seeding {
	case "", bracket.SeededMode, bracket.RandomMode, bracket.ByRatingMode:
	default:
		return bracket.Errorf(bracket.KindInvalidConfig, "unknown seeding mode %q", cfg.Seeding)
	}

	if cfg.Points != nil {
		w := *cfg.Points
		if w.Win < 0 || w.Draw < 0 || w.Loss < 0 {
			return bracket.Errorf(bracket.KindInvalidConfig, "point weights cannot be negative")
		}
		if w.Win < w.Draw || w.Draw < w.Loss {
			return bracket.Errorf(bracket.KindInvalidConfig, "point weights must rank win >= draw >= loss")
		}
	}
	if cfg.ByePoints != nil && *cfg.ByePoints < 0 {
		return bracket.Errorf(bracket.KindInvalidConfig, "bye points cannot be negative")
	}

	if cfg.Tennis != nil {
		if err := scoring.ValidateTennisRules(*cfg.Tennis); err != nil {
			return err
		}
	}

	switch format {
	case bracket.Swiss:
		return validateSwissRounds(cfg.SwissRounds, players)
	default:
		if cfg.SwissRounds != 0 {
			return bracket.Errorf(bracket.KindInvalidConfig, "swiss rounds are only used by swiss brackets")
		}
	}
	return nil
}
