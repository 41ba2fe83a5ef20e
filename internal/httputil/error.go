package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/AdamBeresnev/op-tournament/internal/bracket"
)

type errorBody struct {
	Kind    bracket.ErrorKind `json:"kind,omitempty"`
	Message string            `json:"message"`
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Error writes err as a JSON error, picking the status from its kind.
// Errors without a kind are reported as internal errors.
func Error(w http.ResponseWriter, msg string, err error) {
	kind := bracket.KindOf(err)
	status := StatusOf(kind)
	if status == http.StatusInternalServerError {
		InternalServerError(w, msg, err)
		return
	}

	slog.Warn("request rejected", "message", msg, "kind", kind, "error", err)
	WriteJSON(w, status, errorBody{Kind: kind, Message: err.Error()})
}

func StatusOf(kind bracket.ErrorKind) int {
	switch kind {
	case bracket.KindInvalidRosterSize, bracket.KindInvalidConfig, bracket.KindInvalidScore, bracket.KindByeOverflow:
		return http.StatusBadRequest
	case bracket.KindNotFound, bracket.KindMatchNotFound:
		return http.StatusNotFound
	case bracket.KindMatchAlreadyComplete, bracket.KindConcurrentModification, bracket.KindRoundIncomplete,
		bracket.KindMatchNotReady, bracket.KindTournamentComplete, bracket.KindPairingExhausted:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func InternalServerError(w http.ResponseWriter, msg string, err error) {
	slog.Error(msg, "error", err)
	WriteJSON(w, http.StatusInternalServerError, errorBody{Message: "Internal Server Error"})
}

func BadRequest(w http.ResponseWriter, msg string, err error) {
	if err != nil {
		slog.Warn("bad request", "message", msg, "error", err)
	} else {
		slog.Warn("bad request", "message", msg)
	}
	WriteJSON(w, http.StatusBadRequest, errorBody{Message: msg})
}

func NotFound(w http.ResponseWriter, msg string, err error) {
	if err != nil {
		slog.Warn("not found", "message", msg, "error", err)
	} else {
		slog.Warn("not found", "message", msg)
	}
	WriteJSON(w, http.StatusNotFound, errorBody{Message: msg})
}
