package bracket

import (
	"errors"
	"fmt"
)

// ErrorKind is a machine-readable error code.
type ErrorKind string

const (
	KindInvalidRosterSize      ErrorKind = "INVALID_ROSTER_SIZE"
	KindInvalidConfig          ErrorKind = "INVALID_CONFIG"
	KindInvalidScore           ErrorKind = "INVALID_SCORE"
	KindMatchAlreadyComplete   ErrorKind = "MATCH_ALREADY_COMPLETE"
	KindConcurrentModification ErrorKind = "CONCURRENT_MODIFICATION"
	KindRoundIncomplete        ErrorKind = "ROUND_INCOMPLETE"
	KindPairingExhausted       ErrorKind = "PAIRING_EXHAUSTED"
	KindByeOverflow            ErrorKind = "BYE_OVERFLOW"
	KindMatchNotFound          ErrorKind = "MATCH_NOT_FOUND"
	KindMatchNotReady          ErrorKind = "MATCH_NOT_READY"
	KindTournamentComplete     ErrorKind = "TOURNAMENT_COMPLETE"
	KindNotFound               ErrorKind = "NOT_FOUND"
	KindInvariantViolation     ErrorKind = "INVARIANT_VIOLATION"
)

// Error is returned by every core operation. All kinds are recoverable by
// the caller; a failed operation never leaves a bracket partially mutated.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrInvalidScore)
// works regardless of the message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

var (
	ErrInvalidRosterSize      = &Error{Kind: KindInvalidRosterSize}
	ErrInvalidConfig          = &Error{Kind: KindInvalidConfig}
	ErrInvalidScore           = &Error{Kind: KindInvalidScore}
	ErrMatchAlreadyComplete   = &Error{Kind: KindMatchAlreadyComplete}
	ErrConcurrentModification = &Error{Kind: KindConcurrentModification}
	ErrRoundIncomplete        = &Error{Kind: KindRoundIncomplete}
	ErrPairingExhausted       = &Error{Kind: KindPairingExhausted}
	ErrByeOverflow            = &Error{Kind: KindByeOverflow}
	ErrMatchNotFound          = &Error{Kind: KindMatchNotFound}
	ErrMatchNotReady          = &Error{Kind: KindMatchNotReady}
	ErrTournamentComplete     = &Error{Kind: KindTournamentComplete}
	ErrNotFound               = &Error{Kind: KindNotFound}
	ErrInvariantViolation     = &Error{Kind: KindInvariantViolation}
)

// KindOf extracts the kind from err, or "" when err is not an *Error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
