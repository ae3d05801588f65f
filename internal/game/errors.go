package game

import "errors"

// Protocol errors: the client asked for something inconsistent with
// its current membership. Reported to the offending connection only.
var (
	ErrAlreadyQueued = errors.New("already queued")
	ErrNotQueued     = errors.New("not queued")
	ErrInvalidState  = errors.New("invalid state")
	ErrSessionClosed = errors.New("session closed")
	ErrNotFound      = errors.New("session not found")
)

// ErrorCode maps an engine error to its wire code.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrAlreadyQueued):
		return "already_queued"
	case errors.Is(err, ErrNotQueued):
		return "not_queued"
	case errors.Is(err, ErrSessionClosed):
		return "session_closed"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "invalid_state"
	}
}
