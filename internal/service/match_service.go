package service

import (
	"context"
	"log/slog"

	"github.com/AdamBeresnev/op-tournament/internal/bracket"
	"github.com/AdamBeresnev/op-tournament/internal/scoring"
	"github.com/AdamBeresnev/op-tournament/internal/store"
	"github.com/jmoiron/sqlx"
)

type MatchService struct {
	db       *sqlx.DB
	store    *store.TournamentStore
	registry *scoring.Registry
}

func NewMatchService(db *sqlx.DB, store *store.TournamentStore, registry *scoring.Registry) *MatchService {
	if registry == nil {
		registry = scoring.DefaultRegistry()
	}
	return &MatchService{db: db, store: store, registry: registry}
}

type ResultInput struct {
	Events []scoring.Event `json:"events"`
	// Overrides the tournament sport for this match
	Sport   string `json:"sport,omitempty"`
	Version *int   `json:"version,omitempty"`
}

type MatchData struct {
	Match   *bracket.Match  `json:"match"`
	Player1 *bracket.Player `json:"player_1,omitempty"`
	Player2 *bracket.Player `json:"player_2,omitempty"`
	Version int             `json:"version"`
}

func (s *MatchService) GetMatchData(ctx context.Context, tournamentID, matchID string) (*MatchData, error) {
	_, b, err := s.store.GetBracket(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	m, ok := b.Match(matchID)
	if !ok {
		return nil, bracket.Errorf(bracket.KindMatchNotFound, "match %s does not exist", matchID)
	}

	data := &MatchData{Match: m, Version: b.Version}
	for i := range b.Players {
		switch b.Players[i].ID {
		case m.Player1ID:
			data.Player1 = &b.Players[i]
		case m.Player2ID:
			data.Player2 = &b.Players[i]
		}
	}
	return data, nil
}

func (s *MatchService) SubmitResult(ctx context.Context, tournamentID, matchID string, in ResultInput) (*bracket.Bracket, error) {
	var rounds int
	next, err := mutateBracket(ctx, s.db, s.store, tournamentID, in.Version, func(b *bracket.Bracket, v int) (*bracket.Bracket, error) {
		rounds = len(b.Rounds)
		return SubmitResult(b, matchID, in.Events, in.Sport, s.registry, v)
	})
	if err != nil {
		return nil, err
	}

	m := next.Matches[matchID]
	slog.Info("match result recorded",
		"tournament_id", tournamentID,
		"match_id", matchID,
		"winner_id", m.WinnerID(),
		"draw", m.Result != nil && m.Result.IsDraw,
		"walkover", m.Result != nil && m.Result.IsWalkover,
		"version", next.Version,
	)

	if next.Format == bracket.Swiss && len(next.Rounds) > rounds {
		logSwissRound(next)
	}
	if next.Completed {
		slog.Info("tournament completed", "tournament_id", tournamentID, "champion_id", next.ChampionID)
	}
	return next, nil
}

func (s *MatchService) StartMatch(ctx context.Context, tournamentID, matchID string, version *int) (*bracket.Bracket, error) {
	next, err := mutateBracket(ctx, s.db, s.store, tournamentID, version, func(b *bracket.Bracket, v int) (*bracket.Bracket, error) {
		return StartMatch(b, matchID, v)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("match started", "tournament_id", tournamentID, "match_id", matchID, "version", next.Version)
	return next, nil
}
