package store

import (
	"context"
	"testing"

	"github.com/AdamBeresnev/op-tournament/internal/bracket"
	"github.com/AdamBeresnev/op-tournament/internal/db"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates an in-memory SQLite database and applies migrations
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := sqlx.Connect("sqlite3", "file::memory:")
	require.NoError(t, err, "Failed to connect to in-memory DB")

	// Every connection to :memory: is a separate database
	database.SetMaxOpenConns(1)

	_, err = database.Exec("PRAGMA foreign_keys = ON;")
	require.NoError(t, err)

	require.NoError(t, db.RunMigrations(database.DB, "../../migrations"), "Failed to apply migrations")

	return database
}

// testBracket is a two round knockout with one bye already resolved.
func testBracket() *bracket.Bracket {
	rating := 1500.0
	b := bracket.New(bracket.SingleElimination, bracket.Config{Sport: "tennis"}, []bracket.Player{
		{ID: "p1", Name: "Player 1", Seed: 1, Rating: &rating},
		{ID: "p2", Name: "Player 2", Seed: 2},
		{ID: "p3", Name: "Player 3", Seed: 3},
	})
	b.ID = "t-1"

	b.AddMatch(bracket.Match{
		ID: "W1-1", Partition: bracket.WinnerPartition, Round: 1, Order: 1,
		Player1ID: "p1", Player2ID: bracket.ByeID,
		Status: bracket.MatchCompleted, IsBye: true,
		Result:            &bracket.MatchResult{WinnerID: "p1"},
		WinnerNextMatchID: "W2-1", WinnerNextSlot: 1,
	})
	b.AddMatch(bracket.Match{
		ID: "W1-2", Partition: bracket.WinnerPartition, Round: 1, Order: 2,
		Player1ID: "p2", Player2ID: "p3",
		Status:            bracket.MatchScheduled,
		WinnerNextMatchID: "W2-1", WinnerNextSlot: 2,
	})
	b.AddMatch(bracket.Match{
		ID: "W2-1", Partition: bracket.WinnerPartition, Round: 2, Order: 1,
		Player1ID: "p1",
		Status:    bracket.MatchPending,
	})
	b.Rounds = []bracket.Round{
		{Number: 1, Name: "Semifinals", MatchIDs: []string{"W1-1", "W1-2"}},
		{Number: 2, Name: "Final", MatchIDs: []string{"W2-1"}},
	}
	return b
}

func createTestBracket(t *testing.T, db *sqlx.DB, store *TournamentStore, b *bracket.Bracket) {
	t.Helper()

	tx, err := db.BeginTxx(context.Background(), nil)
	require.NoError(t, err)

	err = store.CreateTournament(context.Background(), tx, "Test Tournament", b)
	require.NoError(t, err)

	err = tx.Commit()
	require.NoError(t, err)
}

func TestCreateTournament(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	store := NewTournamentStore(db)
	original := testBracket()
	createTestBracket(t, db, store, original)

	tournament, fetched, err := store.GetBracket(context.Background(), original.ID)
	require.NoError(t, err)

	assert.Equal(t, "Test Tournament", tournament.Name)
	assert.Equal(t, bracket.SingleElimination, tournament.Format)
	assert.False(t, tournament.CreatedAt.IsZero())

	assert.Equal(t, original.ID, fetched.ID)
	assert.Equal(t, original.Format, fetched.Format)
	assert.Equal(t, original.Sport, fetched.Sport)
	assert.Equal(t, original.Config, fetched.Config)
	assert.Equal(t, original.Players, fetched.Players)
	assert.Equal(t, original.Rounds, fetched.Rounds)
	assert.Equal(t, 3, fetched.TotalMatches)

	require.Len(t, fetched.Matches, 3)
	for id, m := range original.Matches {
		assert.Equal(t, *m, *fetched.Matches[id], "match %s", id)
	}
}

func TestSaveBracket(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	store := NewTournamentStore(db)
	ctx := context.Background()
	original := testBracket()
	createTestBracket(t, db, store, original)

	updated := original.Clone()
	updated.Version = 1
	updated.Matches["W1-2"].Status = bracket.MatchCompleted
	updated.Matches["W1-2"].Result = &bracket.MatchResult{
		WinnerID: "p3",
		Score: &bracket.ScorePayload{
			Kind:   bracket.PointsScoreKind,
			Points: &bracket.PointsScore{Player1: 1, Player2: 3},
		},
	}
	updated.Matches["W2-1"].Player2ID = "p3"
	updated.Matches["W2-1"].Status = bracket.MatchScheduled

	tx, err := db.BeginTxx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, store.SaveBracket(ctx, tx, updated, 0))
	require.NoError(t, tx.Commit())

	_, fetched, err := store.GetBracket(ctx, original.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, fetched.Version)
	assert.Equal(t, *updated.Matches["W1-2"], *fetched.Matches["W1-2"])
	assert.Equal(t, "p3", fetched.Matches["W2-1"].Player2ID)
	assert.Equal(t, bracket.MatchScheduled, fetched.Matches["W2-1"].Status)

	t.Run("stale version is rejected", func(t *testing.T) {
		stale := original.Clone()
		stale.Version = 1

		tx, err := db.BeginTxx(ctx, nil)
		require.NoError(t, err)
		defer tx.Rollback()

		err = store.SaveBracket(ctx, tx, stale, 0)
		assert.ErrorIs(t, err, bracket.ErrConcurrentModification)
	})

	t.Run("unknown tournament", func(t *testing.T) {
		missing := original.Clone()
		missing.ID = "t-missing"

		tx, err := db.BeginTxx(ctx, nil)
		require.NoError(t, err)
		defer tx.Rollback()

		err = store.SaveBracket(ctx, tx, missing, 0)
		assert.ErrorIs(t, err, bracket.ErrNotFound)
	})
}

func TestGetBracket_NotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	_, _, err := NewTournamentStore(db).GetBracket(context.Background(), "nope")
	assert.ErrorIs(t, err, bracket.ErrNotFound)
}

func TestListTournaments(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	store := NewTournamentStore(db)
	createTestBracket(t, db, store, testBracket())

	tournaments, err := store.ListTournaments(context.Background())
	require.NoError(t, err)
	require.Len(t, tournaments, 1)
	assert.Equal(t, "t-1", tournaments[0].ID)
	assert.Equal(t, "Test Tournament", tournaments[0].Name)
	assert.False(t, tournaments[0].Completed)
}
