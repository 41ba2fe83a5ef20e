package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/AdamBeresnev/op-tournament/internal/bracket"
	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"
)

type TournamentStore struct {
	db *sqlx.DB
}

func NewTournamentStore(db *sqlx.DB) *TournamentStore {
	return &TournamentStore{db: db}
}

// Tournament is the listing view of a stored bracket.
type Tournament struct {
	ID         string         `db:"id" json:"id"`
	Name       string         `db:"name" json:"name"`
	Format     bracket.Format `db:"format" json:"format"`
	Sport      string         `db:"sport" json:"sport,omitempty"`
	ChampionID string         `db:"champion_id" json:"champion_id,omitempty"`
	Completed  bool           `db:"completed" json:"completed"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at" json:"updated_at"`
}

type layout struct {
	Rounds      []bracket.Round `json:"rounds"`
	LoserRounds []bracket.Round `json:"loser_rounds,omitempty"`
	GrandFinal  []bracket.Round `json:"grand_final,omitempty"`
}

type tournamentRow struct {
	Tournament
	Version      int                  `db:"version"`
	Config       JSON[bracket.Config] `db:"config"`
	Layout       JSON[layout]         `db:"layout"`
	TotalMatches int                  `db:"total_matches"`
}

type playerRow struct {
	TournamentID string `db:"tournament_id"`
	SlotIndex    int    `db:"slot_index"`
	bracket.Player
}

type matchRow struct {
	TournamentID string `db:"tournament_id"`
	bracket.Match
}

func layoutOf(b *bracket.Bracket) JSON[layout] {
	return JSON[layout]{Val: layout{Rounds: b.Rounds, LoserRounds: b.LoserRounds, GrandFinal: b.GrandFinal}}
}

func (s *TournamentStore) CreateTournament(ctx context.Context, tx *sqlx.Tx, name string, b *bracket.Bracket) error {
	row := tournamentRow{
		Tournament: Tournament{
			ID:         b.ID,
			Name:       name,
			Format:     b.Format,
			Sport:      b.Sport,
			ChampionID: b.ChampionID,
			Completed:  b.Completed,
		},
		Version:      b.Version,
		Config:       JSON[bracket.Config]{Val: b.Config},
		Layout:       layoutOf(b),
		TotalMatches: b.TotalMatches,
	}

	_, err := tx.NamedExecContext(ctx, `INSERT INTO tournaments (id, name, format, sport, version, config, layout, total_matches, champion_id, completed)
        VALUES (:id, :name, :format, :sport, :version, :config, :layout, :total_matches, :champion_id, :completed)`, row)
	if err != nil {
		return fmt.Errorf("failed to insert tournament: %w", err)
	}

	if err := s.createPlayers(ctx, tx, b); err != nil {
		return err
	}
	return s.saveMatches(ctx, tx, b)
}

func (s *TournamentStore) createPlayers(ctx context.Context, tx *sqlx.Tx, b *bracket.Bracket) error {
	if len(b.Players) == 0 {
		return nil
	}

	rows := make([]playerRow, 0, len(b.Players))
	for i, p := range b.Players {
		rows = append(rows, playerRow{TournamentID: b.ID, SlotIndex: i, Player: p})
	}

	_, err := tx.NamedExecContext(ctx, `INSERT INTO players (tournament_id, id, slot_index, name, seed, rating)
            VALUES (:tournament_id, :id, :slot_index, :name, :seed, :rating)`, rows)
	if err != nil {
		return fmt.Errorf("failed to insert players: %w", err)
	}
	return nil
}

// saveMatches inserts new matches and overwrites the mutable columns of
// existing ones. Structure columns never change after generation.
func (s *TournamentStore) saveMatches(ctx context.Context, tx *sqlx.Tx, b *bracket.Bracket) error {
	if len(b.Matches) == 0 {
		return nil
	}

	stmt, err := tx.PrepareNamedContext(ctx, `INSERT INTO matches (tournament_id, id, bracket_side, round_number, match_order, player_1_id, player_2_id, result, status, winner_next_match_id, winner_next_slot, loser_next_match_id, loser_next_slot, is_bye, notes)
		VALUES (:tournament_id, :id, :bracket_side, :round_number, :match_order, :player_1_id, :player_2_id, :result, :status, :winner_next_match_id, :winner_next_slot, :loser_next_match_id, :loser_next_slot, :is_bye, :notes)
		ON CONFLICT (tournament_id, id) DO UPDATE SET
			player_1_id = excluded.player_1_id,
			player_2_id = excluded.player_2_id,
			result = excluded.result,
			status = excluded.status,
			is_bye = excluded.is_bye,
			notes = excluded.notes`)
	if err != nil {
		return fmt.Errorf("failed to prepare match upsert: %w", err)
	}
	defer stmt.Close()

	for _, m := range b.Matches {
		if _, err := stmt.ExecContext(ctx, matchRow{TournamentID: b.ID, Match: *m}); err != nil {
			return fmt.Errorf("failed to save match %s: %w", m.ID, err)
		}
	}
	return nil
}

// SaveBracket writes b over the stored copy that is still at expectedVersion.
func (s *TournamentStore) SaveBracket(ctx context.Context, tx *sqlx.Tx, b *bracket.Bracket, expectedVersion int) error {
	res, err := tx.NamedExecContext(ctx, `UPDATE tournaments
		SET version = :version, layout = :layout, total_matches = :total_matches, champion_id = :champion_id, completed = :completed, updated_at = CURRENT_TIMESTAMP
		WHERE id = :id AND version = :expected_version`, map[string]any{
		"id":               b.ID,
		"version":          b.Version,
		"layout":           layoutOf(b),
		"total_matches":    b.TotalMatches,
		"champion_id":      b.ChampionID,
		"completed":        b.Completed,
		"expected_version": expectedVersion,
	})
	if err != nil {
		return fmt.Errorf("failed to update tournament: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var count int
		if err := tx.GetContext(ctx, &count, "SELECT COUNT(*) FROM tournaments WHERE id = ?", b.ID); err != nil {
			return err
		}
		if count == 0 {
			return bracket.Errorf(bracket.KindNotFound, "tournament %s does not exist", b.ID)
		}
		return bracket.Errorf(bracket.KindConcurrentModification, "tournament %s is no longer at version %d", b.ID, expectedVersion)
	}

	return s.saveMatches(ctx, tx, b)
}

// GetBracket loads a tournament and rebuilds its bracket.
func (s *TournamentStore) GetBracket(ctx context.Context, id string) (*Tournament, *bracket.Bracket, error) {
	var row tournamentRow
	if err := s.db.GetContext(ctx, &row, "SELECT * FROM tournaments WHERE id = ?", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, bracket.Errorf(bracket.KindNotFound, "tournament %s does not exist", id)
		}
		return nil, nil, err
	}

	var players []playerRow
	var matches []matchRow

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.db.SelectContext(gCtx, &players, "SELECT * FROM players WHERE tournament_id = ? ORDER BY slot_index ASC", id)
	})
	g.Go(func() error {
		return s.db.SelectContext(gCtx, &matches, "SELECT * FROM matches WHERE tournament_id = ? ORDER BY bracket_side ASC, round_number ASC, match_order ASC", id)
	})
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("failed to load tournament %s: %w", id, err)
	}

	b := &bracket.Bracket{
		ID:           row.ID,
		Format:       row.Format,
		Sport:        row.Sport,
		Version:      row.Version,
		Config:       row.Config.Val,
		Players:      make([]bracket.Player, 0, len(players)),
		Matches:      make(map[string]*bracket.Match, len(matches)),
		Rounds:       row.Layout.Val.Rounds,
		LoserRounds:  row.Layout.Val.LoserRounds,
		GrandFinal:   row.Layout.Val.GrandFinal,
		TotalMatches: row.TotalMatches,
		ChampionID:   row.ChampionID,
		Completed:    row.Completed,
	}
	for _, p := range players {
		b.Players = append(b.Players, p.Player)
	}
	for _, mr := range matches {
		m := mr.Match
		b.Matches[m.ID] = &m
	}

	tournament := row.Tournament
	return &tournament, b, nil
}

func (s *TournamentStore) ListTournaments(ctx context.Context) ([]Tournament, error) {
	var tournaments []Tournament
	err := s.db.SelectContext(ctx, &tournaments, `SELECT id, name, format, sport, champion_id, completed, created_at, updated_at
		FROM tournaments ORDER BY created_at DESC`)
	return tournaments, err
}
