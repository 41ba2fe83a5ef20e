package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AdamBeresnev/op-tournament/internal/bracket"
	"github.com/AdamBeresnev/op-tournament/internal/config"
	"github.com/AdamBeresnev/op-tournament/internal/db"
	"github.com/AdamBeresnev/op-tournament/internal/scoring"
	"github.com/AdamBeresnev/op-tournament/internal/service"
	"github.com/AdamBeresnev/op-tournament/internal/store"
	"github.com/AdamBeresnev/op-tournament/views"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) http.Handler {
	t.Helper()

	database, err := sqlx.Connect("sqlite3", "file::memory:")
	require.NoError(t, err)
	database.SetMaxOpenConns(1)
	t.Cleanup(func() { database.Close() })

	require.NoError(t, db.RunMigrations(database.DB, "../../migrations"))

	cfg := &config.Config{DefaultSport: "tennis", CORSOrigins: []string{"*"}}
	return newRouter(cfg, database)
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func createTournament(t *testing.T, h http.Handler, format bracket.Format, cfg bracket.Config) *bracket.Bracket {
	t.Helper()

	players := make([]bracket.Player, 4)
	for i := range players {
		players[i] = bracket.Player{ID: fmt.Sprintf("p%d", i+1), Name: fmt.Sprintf("Player %d", i+1), Seed: i + 1}
	}

	rec := do(t, h, http.MethodPost, "/tournaments", service.CreateTournamentInput{
		Name:    "Spring Open",
		Format:  format,
		Players: players,
		Config:  cfg,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[*bracket.Bracket](t, rec)
}

func TestCreateAndPlayTournament(t *testing.T) {
	h := setupRouter(t)
	b := createTournament(t, h, bracket.SingleElimination, bracket.Config{})
	assert.Equal(t, "tennis", b.Sport, "default sport applies when none is given")

	rec := do(t, h, http.MethodGet, "/tournaments", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]store.Tournament](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, "Spring Open", list[0].Name)

	rec = do(t, h, http.MethodPost, "/tournaments/"+b.ID+"/matches/W1-1/start", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	result := service.ResultInput{Events: []scoring.Event{
		{Type: scoring.SetEvent, Set: &bracket.SetScore{Player1: 6, Player2: 4}},
		{Type: scoring.SetEvent, Set: &bracket.SetScore{Player1: 7, Player2: 5}},
	}}
	rec = do(t, h, http.MethodPost, "/tournaments/"+b.ID+"/matches/W1-1/result", result)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	played := decode[*bracket.Bracket](t, rec)
	assert.Equal(t, "p1", played.Matches["W1-1"].WinnerID())
	assert.Equal(t, 2, played.Version)

	rec = do(t, h, http.MethodGet, "/tournaments/"+b.ID+"/matches/W2-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	match := decode[service.MatchData](t, rec)
	require.NotNil(t, match.Player1)
	assert.Equal(t, "p1", match.Player1.ID)
	assert.Nil(t, match.Player2)

	rec = do(t, h, http.MethodGet, "/tournaments/"+b.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decode[service.TournamentData](t, rec)
	assert.Equal(t, "W1-2", data.NextMatchID)
	assert.Equal(t, 2, data.Bracket.Version)

	rec = do(t, h, http.MethodGet, "/tournaments/"+b.ID+"/view", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[views.BracketData](t, rec)
	require.Len(t, view.Sections, 1)
	assert.Equal(t, "Player 1", view.Sections[0].Rounds[1].Matches[0].Player1.Name)
}

func TestResultErrors(t *testing.T) {
	h := setupRouter(t)
	b := createTournament(t, h, bracket.SingleElimination, bracket.Config{})
	path := "/tournaments/" + b.ID + "/matches/W1-1/result"

	testCases := []struct {
		name       string
		path       string
		body       any
		wantStatus int
		wantKind   bracket.ErrorKind
	}{
		{
			name:       "unfinished set",
			path:       path,
			body:       map[string]any{"events": []map[string]any{{"type": "set", "set": map[string]int{"player_1": 6, "player_2": 5}}}},
			wantStatus: http.StatusBadRequest,
			wantKind:   bracket.KindInvalidScore,
		},
		{
			name:       "stale version",
			path:       path,
			body:       map[string]any{"version": 3, "events": []map[string]any{{"type": "walkover", "player_id": "p1"}}},
			wantStatus: http.StatusConflict,
			wantKind:   bracket.KindConcurrentModification,
		},
		{
			name:       "match waiting for players",
			path:       "/tournaments/" + b.ID + "/matches/W2-1/result",
			body:       map[string]any{"events": []map[string]any{{"type": "walkover", "player_id": "p1"}}},
			wantStatus: http.StatusConflict,
			wantKind:   bracket.KindMatchNotReady,
		},
		{
			name:       "unknown tournament",
			path:       "/tournaments/nope/matches/W1-1/result",
			body:       map[string]any{"events": []map[string]any{{"type": "walkover", "player_id": "p1"}}},
			wantStatus: http.StatusNotFound,
			wantKind:   bracket.KindNotFound,
		},
		{
			name:       "unknown field",
			path:       path,
			body:       map[string]any{"winner": "p1"},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, tc.path, tc.body)
			assert.Equal(t, tc.wantStatus, rec.Code, rec.Body.String())

			body := decode[map[string]string](t, rec)
			assert.Equal(t, string(tc.wantKind), body["kind"])
		})
	}
}

func TestCreateTournament_Invalid(t *testing.T) {
	h := setupRouter(t)

	rec := do(t, h, http.MethodPost, "/tournaments", service.CreateTournamentInput{
		Name:    "Solo",
		Format:  bracket.SingleElimination,
		Players: []bracket.Player{{ID: "p1"}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, string(bracket.KindInvalidRosterSize), decode[map[string]string](t, rec)["kind"])
}

func TestSwissRoutes(t *testing.T) {
	h := setupRouter(t)
	b := createTournament(t, h, bracket.Swiss, bracket.Config{Sport: "points", SwissRounds: 2})

	rec := do(t, h, http.MethodPost, "/tournaments/"+b.ID+"/swiss/advance", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, string(bracket.KindRoundIncomplete), decode[map[string]string](t, rec)["kind"])

	for _, id := range b.Rounds[0].MatchIDs {
		m := b.Matches[id]
		rec = do(t, h, http.MethodPost, "/tournaments/"+b.ID+"/matches/"+id+"/result", map[string]any{
			"events": []map[string]any{
				{"type": "score", "player_id": m.Player1ID, "points": 21},
				{"type": "score", "player_id": m.Player2ID, "points": 15},
			},
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	rec = do(t, h, http.MethodGet, "/tournaments/"+b.ID+"/standings", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	standings := decode[[]bracket.Standing](t, rec)
	require.Len(t, standings, 4)
	assert.Equal(t, 1.0, standings[0].Points)
	assert.Equal(t, 6, standings[0].PointDiff)

	rec = do(t, h, http.MethodGet, "/tournaments/"+b.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decode[service.TournamentData](t, rec)
	assert.Len(t, data.Bracket.Rounds, 2)
}
