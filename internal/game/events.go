package game

import "time"

// Event is the JSON envelope pushed to clients and spectators.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// Inbound event types accepted by the dispatcher.
const (
	EvJoinQueue  = "join_queue"
	EvLeaveQueue = "leave_queue"
	EvSubmit     = "submit"
	EvSpectate   = "spectate"
	EvPractice   = "practice"
	EvQuit       = "quit"
)

// Outbound event types.
const (
	EvQueueJoined      = "queue_joined"
	EvQueueLeft        = "queue_left"
	EvMatchFound       = "match_found"
	EvRoundStarted     = "round_started"
	EvSubmitResult     = "submit_result"
	EvRoundEnded       = "round_ended"
	EvSessionCompleted = "session_completed"
	EvSessionAbandoned = "session_abandoned"
	EvSpectatorUpdate  = "spectator_update"
	EvError            = "error"
)

// Conn is the write side of one client connection. Send must never
// block: slow consumers get dropped by the transport layer.
type Conn interface {
	ID() string
	Send(ev Event)
}

// Broadcaster fans session events out to attached spectators.
type Broadcaster interface {
	Attach(sessionID string, conn Conn)
	Detach(sessionID string, conn Conn)
	Broadcast(sessionID string, ev Event)
	Count(sessionID string) int
	CloseSession(sessionID string)
}

// Participant is a connected player. It is owned by exactly one
// container at a time: the queue while waiting, then the session it
// was paired into.
type Participant struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Rating   int    `json:"rating"`
	Conn     Conn   `json:"-"`
}

// ErrorData is the payload of an EvError event.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MatchFoundData tells a player who they were paired with.
type MatchFoundData struct {
	SessionID string       `json:"session_id"`
	Opponent  *Participant `json:"opponent,omitempty"`
	Practice  bool         `json:"practice,omitempty"`
}

// RoundStartedData announces a new round.
type RoundStartedData struct {
	Round     int    `json:"round"`
	Puzzle    string `json:"puzzle"`
	TimeLimit int    `json:"time_limit_sec"`
}

// RoundEndedData closes a round for players and spectators. WinnerID
// is zero when the round timed out with no valid submission.
type RoundEndedData struct {
	Round     int            `json:"round"`
	WinnerID  uint           `json:"winner_id,omitempty"`
	Scores    map[uint]int   `json:"scores"`
	WinningMS int64          `json:"winning_ms,omitempty"`
	Timeout   bool           `json:"timeout,omitempty"`
	StartedAt time.Time      `json:"started_at"`
	EndedAt   time.Time      `json:"ended_at"`
}

// Snapshot is the read-only spectator view of a session. It never
// includes submission attempts that failed validation.
type Snapshot struct {
	SessionID  string         `json:"session_id"`
	Status     Status         `json:"status"`
	Practice   bool           `json:"practice,omitempty"`
	Players    []*Participant `json:"players"`
	Scores     map[uint]int   `json:"scores"`
	Round      int            `json:"round"`
	Puzzle     string         `json:"puzzle,omitempty"`
	Spectators int            `json:"spectators"`
	StartedAt  time.Time      `json:"started_at"`
}
