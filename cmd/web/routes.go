package main

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/AdamBeresnev/op-tournament/internal/config"
	"github.com/AdamBeresnev/op-tournament/internal/httputil"
	"github.com/AdamBeresnev/op-tournament/internal/scoring"
	"github.com/AdamBeresnev/op-tournament/internal/service"
	"github.com/AdamBeresnev/op-tournament/internal/store"
	"github.com/AdamBeresnev/op-tournament/views"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
)

type versionInput struct {
	Version *int `json:"version,omitempty"`
}

func newRouter(cfg *config.Config, dbConn *sqlx.DB) http.Handler {
	tournamentStore := store.NewTournamentStore(dbConn)
	tournamentService := service.NewTournamentService(dbConn, tournamentStore)
	matchService := service.NewMatchService(dbConn, tournamentStore, scoring.DefaultRegistry())

	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Route("/tournaments", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			tournaments, err := tournamentService.ListTournaments(r.Context())
			if err != nil {
				httputil.Error(w, "Failed to list tournaments", err)
				return
			}
			if tournaments == nil {
				tournaments = []store.Tournament{}
			}
			httputil.WriteJSON(w, http.StatusOK, tournaments)
		})

		r.Post("/", func(w http.ResponseWriter, r *http.Request) {
			var in service.CreateTournamentInput
			if err := decodeBody(r, &in); err != nil {
				httputil.BadRequest(w, "Invalid tournament payload", err)
				return
			}
			if in.Config.Sport == "" {
				in.Config.Sport = cfg.DefaultSport
			}

			b, err := tournamentService.CreateTournament(r.Context(), in)
			if err != nil {
				httputil.Error(w, "Failed to create tournament", err)
				return
			}
			httputil.WriteJSON(w, http.StatusCreated, b)
		})

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", func(w http.ResponseWriter, r *http.Request) {
				data, err := tournamentService.GetTournamentData(r.Context(), chi.URLParam(r, "id"))
				if err != nil {
					httputil.Error(w, "Failed to get tournament", err)
					return
				}
				httputil.WriteJSON(w, http.StatusOK, data)
			})

			r.Get("/view", func(w http.ResponseWriter, r *http.Request) {
				data, err := tournamentService.GetTournamentData(r.Context(), chi.URLParam(r, "id"))
				if err != nil {
					httputil.Error(w, "Failed to get tournament", err)
					return
				}
				httputil.WriteJSON(w, http.StatusOK, views.PrepareBracketData(data.Bracket))
			})

			r.Get("/standings", func(w http.ResponseWriter, r *http.Request) {
				standings, err := tournamentService.Standings(r.Context(), chi.URLParam(r, "id"))
				if err != nil {
					httputil.Error(w, "Failed to compute standings", err)
					return
				}
				httputil.WriteJSON(w, http.StatusOK, standings)
			})

			r.Post("/swiss/advance", func(w http.ResponseWriter, r *http.Request) {
				var in versionInput
				if err := decodeBody(r, &in); err != nil {
					httputil.BadRequest(w, "Invalid payload", err)
					return
				}

				b, err := tournamentService.AdvanceSwissRound(r.Context(), chi.URLParam(r, "id"), in.Version)
				if err != nil {
					httputil.Error(w, "Failed to advance swiss round", err)
					return
				}
				httputil.WriteJSON(w, http.StatusOK, b)
			})

			r.Get("/matches/{matchID}", func(w http.ResponseWriter, r *http.Request) {
				data, err := matchService.GetMatchData(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "matchID"))
				if err != nil {
					httputil.Error(w, "Failed to get match", err)
					return
				}
				httputil.WriteJSON(w, http.StatusOK, data)
			})

			r.Post("/matches/{matchID}/result", func(w http.ResponseWriter, r *http.Request) {
				var in service.ResultInput
				if err := decodeBody(r, &in); err != nil {
					httputil.BadRequest(w, "Invalid result payload", err)
					return
				}

				b, err := matchService.SubmitResult(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "matchID"), in)
				if err != nil {
					httputil.Error(w, "Failed to submit result", err)
					return
				}
				httputil.WriteJSON(w, http.StatusOK, b)
			})

			r.Post("/matches/{matchID}/start", func(w http.ResponseWriter, r *http.Request) {
				var in versionInput
				if err := decodeBody(r, &in); err != nil {
					httputil.BadRequest(w, "Invalid payload", err)
					return
				}

				b, err := matchService.StartMatch(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "matchID"), in.Version)
				if err != nil {
					httputil.Error(w, "Failed to start match", err)
					return
				}
				httputil.WriteJSON(w, http.StatusOK, b)
			})
		})
	})

	return r
}

// decodeBody reads a JSON body into v. An empty body leaves v untouched.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
