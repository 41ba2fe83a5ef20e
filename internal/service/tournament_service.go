package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/AdamBeresnev/op-tournament/internal/bracket"
	"github.com/AdamBeresnev/op-tournament/internal/store"
	"github.com/AdamBeresnev/op-tournament/internal/utils"
	"github.com/jmoiron/sqlx"
)

type TournamentService struct {
	db    *sqlx.DB
	store *store.TournamentStore
}

func NewTournamentService(db *sqlx.DB, store *store.TournamentStore) *TournamentService {
	return &TournamentService{db: db, store: store}
}

type CreateTournamentInput struct {
	Name    string           `json:"name"`
	Format  bracket.Format   `json:"format"`
	Players []bracket.Player `json:"players"`
	Config  bracket.Config   `json:"config"`
}

type TournamentData struct {
	Tournament *store.Tournament `json:"tournament"`
	Bracket    *bracket.Bracket  `json:"bracket"`
	// First match that can be played right now, if any
	NextMatchID string `json:"next_match_id,omitempty"`
}

func (s *TournamentService) CreateTournament(ctx context.Context, in CreateTournamentInput) (*bracket.Bracket, error) {
	cfg := in.Config
	if seedingMode(in.Format, in.Players, cfg) == bracket.RandomMode && cfg.RandomSeed == 0 {
		seed, err := utils.NewSeed()
		if err != nil {
			return nil, err
		}
		cfg.RandomSeed = seed
	}

	b, err := GenerateBracket(in.Format, in.Players, cfg)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := s.store.CreateTournament(ctx, tx, in.Name, b); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	slog.Info("tournament created",
		"tournament_id", b.ID,
		"format", b.Format,
		"sport", b.Sport,
		"players", len(b.Players),
		"matches", b.TotalMatches,
	)
	return b, nil
}

func (s *TournamentService) GetTournamentData(ctx context.Context, id string) (*TournamentData, error) {
	tournament, b, err := s.store.GetBracket(ctx, id)
	if err != nil {
		return nil, err
	}

	return &TournamentData{
		Tournament:  tournament,
		Bracket:     b,
		NextMatchID: nextMatchID(b),
	}, nil
}

func (s *TournamentService) ListTournaments(ctx context.Context) ([]store.Tournament, error) {
	return s.store.ListTournaments(ctx)
}

func (s *TournamentService) Standings(ctx context.Context, id string) ([]bracket.Standing, error) {
	_, b, err := s.store.GetBracket(ctx, id)
	if err != nil {
		return nil, err
	}
	return ComputeStandings(b, b.Config.Weights()), nil
}

// AdvanceSwissRound pairs the next Swiss round. A nil version means the
// caller accepts whatever version is stored.
func (s *TournamentService) AdvanceSwissRound(ctx context.Context, id string, version *int) (*bracket.Bracket, error) {
	next, err := mutateBracket(ctx, s.db, s.store, id, version, func(b *bracket.Bracket, v int) (*bracket.Bracket, error) {
		return AdvanceSwissRound(b, v)
	})
	if err != nil {
		return nil, err
	}

	logSwissRound(next)
	return next, nil
}

// mutateBracket loads a bracket, applies op and saves the result only if no
// one else saved in between.
func mutateBracket(ctx context.Context, db *sqlx.DB, s *store.TournamentStore, id string, version *int, op func(b *bracket.Bracket, version int) (*bracket.Bracket, error)) (*bracket.Bracket, error) {
	_, current, err := s.GetBracket(ctx, id)
	if err != nil {
		return nil, err
	}

	v := current.Version
	if version != nil {
		v = *version
	}

	next, err := op(current, v)
	if err != nil {
		return nil, err
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := s.SaveBracket(ctx, tx, next, current.Version); err != nil {
		return nil, fmt.Errorf("failed to save tournament %s: %w", id, err)
	}
	return next, tx.Commit()
}

func nextMatchID(b *bracket.Bracket) string {
	for _, round := range b.AllRounds() {
		for _, m := range b.RoundMatches(round) {
			if m.Status == bracket.MatchScheduled || m.Status == bracket.MatchInProgress {
				return m.ID
			}
		}
	}
	return ""
}

func logSwissRound(b *bracket.Bracket) {
	round := b.Rounds[len(b.Rounds)-1]
	slog.Info("swiss round paired",
		"tournament_id", b.ID,
		"round", round.Number,
		"matches", len(round.MatchIDs),
		"bye_player_id", round.ByePlayerID,
	)
	for _, w := range round.Warnings {
		slog.Warn("swiss pairing", "tournament_id", b.ID, "round", round.Number, "warning", w)
	}
}
