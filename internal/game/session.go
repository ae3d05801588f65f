package game

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/arushsrivastava/HectoClash-Game/internal/hectoc"
	"github.com/arushsrivastava/HectoClash-Game/internal/rating"
)

// Status of a duel session.
type Status string

const (
	StatusForming    Status = "forming"
	StatusActive     Status = "active"
	StatusRoundBreak Status = "round_break"
	StatusCompleted  Status = "completed"
	StatusAbandoned  Status = "abandoned"
)

// SessionConfig carries the per-duel tunables.
type SessionConfig struct {
	RoundLimit   time.Duration
	BreakPause   time.Duration
	SessionLimit time.Duration
	WinThreshold int
	RatingK      int
}

// DefaultSessionConfig: 180s rounds, first to 2 wins, 10 minute
// session budget.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		RoundLimit:   180 * time.Second,
		BreakPause:   3 * time.Second,
		SessionLimit: 10 * time.Minute,
		WinThreshold: 2,
		RatingK:      rating.DefaultK,
	}
}

// PuzzleSource yields the next puzzle for a round.
type PuzzleSource interface {
	Next() hectoc.Puzzle
}

// Submission is one attempt logged inside a round.
type Submission struct {
	UserID     uint          `json:"user_id"`
	Expression string        `json:"expression"`
	Result     float64       `json:"result"`
	Valid      bool          `json:"valid"`
	ErrorCode  string        `json:"error,omitempty"`
	Elapsed    time.Duration `json:"elapsed_ms"`
}

// Round is one puzzle contest. WinnerID zero means no decision.
type Round struct {
	Number      int           `json:"number"`
	Puzzle      hectoc.Puzzle `json:"puzzle"`
	Submissions []Submission  `json:"submissions"`
	StartedAt   time.Time     `json:"started_at"`
	EndedAt     time.Time     `json:"ended_at"`
	WinnerID    uint          `json:"winner_id,omitempty"`
}

// PlayerResult is one side of a final summary.
type PlayerResult struct {
	UserID      uint   `json:"user_id"`
	Username    string `json:"username"`
	Rating      int    `json:"rating"`
	Score       int    `json:"score"`
	RatingDelta int    `json:"rating_delta"`
}

// Summary is emitted exactly once when a session reaches completed or
// abandoned, and is the unit handed to the result store.
type Summary struct {
	SessionID   string         `json:"session_id"`
	Practice    bool           `json:"practice,omitempty"`
	Status      Status         `json:"status"`
	Reason      string         `json:"reason"`
	WinnerID    uint           `json:"winner_id,omitempty"`
	Draw        bool           `json:"draw,omitempty"`
	AbandonedBy uint           `json:"abandoned_by,omitempty"`
	Players     []PlayerResult `json:"players"`
	Rounds      []Round        `json:"rounds"`
	Duration    time.Duration  `json:"duration_ms"`
	// Solutions are the curated references for the last puzzle, if any.
	Solutions []string `json:"solutions,omitempty"`
}

// Termination reasons recorded on the summary.
const (
	ReasonWin        = "win"
	ReasonQuit       = "quit"
	ReasonDisconnect = "disconnect"
	ReasonTimeout    = "timeout"
	ReasonFault      = "internal_fault"
)

// ResultSink receives the final summary. Implementations must not
// block session teardown; persistence failures are theirs to retry.
type ResultSink interface {
	Record(sum *Summary)
}

// Session arbitrates one duel. A single mutex serializes every
// state-mutating operation; timer callbacks carry the round version
// they were armed for, so a fire that lost the race to a submission
// or a cancellation is detected and dropped.
type Session struct {
	mu sync.Mutex

	id       string
	cfg      SessionConfig
	practice bool

	players []*Participant
	scores  map[uint]int
	rounds  []Round
	status  Status
	version int

	roundTimer *time.Timer
	breakTimer *time.Timer
	budget     *time.Timer

	puzzles   PuzzleSource
	sink      ResultSink
	hub       Broadcaster
	onClose   func(*Session)
	startedAt time.Time
	finished  bool
	now       func() time.Time
}

// NewSession builds a forming session. players has two entries for a
// duel, one for practice.
func NewSession(players []*Participant, practice bool, cfg SessionConfig,
	puzzles PuzzleSource, sink ResultSink, hub Broadcaster, onClose func(*Session)) *Session {
	s := &Session{
		id:       uuid.NewString(),
		cfg:      cfg,
		practice: practice,
		players:  players,
		scores:   make(map[uint]int, len(players)),
		status:   StatusForming,
		puzzles:  puzzles,
		sink:     sink,
		hub:      hub,
		onClose:  onClose,
		now:      time.Now,
	}
	for _, p := range players {
		s.scores[p.UserID] = 0
	}
	return s
}

func (s *Session) ID() string { return s.id }

func (s *Session) Practice() bool { return s.practice }

// HasPlayer reports whether userID is one of the duel's participants.
func (s *Session) HasPlayer(userID uint) bool {
	for _, p := range s.players {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Start moves forming → active and opens round 1.
func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusForming {
		return
	}
	s.startedAt = s.now()
	if s.cfg.SessionLimit > 0 {
		s.budget = time.AfterFunc(s.cfg.SessionLimit, s.budgetExpired)
	}
	s.startRoundLocked()
}

// Submit evaluates an expression against the open round. The returned
// Result is private feedback for the submitter; a winning submission
// also closes the round and is broadcast.
func (s *Session) Submit(userID uint, expression string) (hectoc.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == StatusCompleted || s.status == StatusAbandoned {
		return hectoc.Result{}, ErrSessionClosed
	}
	if s.status != StatusActive {
		return hectoc.Result{}, ErrInvalidState
	}
	if _, ok := s.scores[userID]; !ok {
		return hectoc.Result{}, ErrInvalidState
	}

	round := &s.rounds[len(s.rounds)-1]
	canonical := hectoc.Normalize(expression)

	// Duplicate identical submission from the same participant is
	// idempotent: echo the logged feedback, never re-score.
	for _, prev := range round.Submissions {
		if prev.UserID == userID && hectoc.Normalize(prev.Expression) == canonical {
			return hectoc.Result{Valid: prev.Valid, Result: prev.Result, Error: prev.ErrorCode}, nil
		}
	}

	res := hectoc.Evaluate(expression, round.Puzzle.Sequence)
	elapsed := s.now().Sub(round.StartedAt)
	round.Submissions = append(round.Submissions, Submission{
		UserID:     userID,
		Expression: expression,
		Result:     res.Result,
		Valid:      res.Valid,
		ErrorCode:  res.Error,
		Elapsed:    elapsed,
	})

	if !res.Valid {
		return res, nil
	}

	// First valid submission wins the round.
	s.scores[userID]++
	s.closeRoundLocked(round, userID, elapsed)
	return res, nil
}

// Quit ends the session on behalf of userID. A practice player
// finishing up completes cleanly; a duel player quitting forfeits.
func (s *Session) Quit(userID uint) error {
	return s.leave(userID, ReasonQuit)
}

// Disconnect is Quit triggered by the transport. It must run before
// any later event from the same connection is processed.
func (s *Session) Disconnect(userID uint) error {
	return s.leave(userID, ReasonDisconnect)
}

func (s *Session) leave(userID uint, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finished {
		return ErrSessionClosed
	}
	if _, ok := s.scores[userID]; !ok {
		return ErrInvalidState
	}

	if s.practice {
		s.finishLocked(StatusCompleted, reason, s.players[0].UserID, 0)
		return nil
	}

	// Remaining participant is credited the win; the record stays
	// flagged abandoned so history can tell it from a clean win.
	var survivor uint
	for _, p := range s.players {
		if p.UserID != userID {
			survivor = p.UserID
		}
	}
	s.finishLocked(StatusAbandoned, reason, survivor, userID)
	return nil
}

// Spectate attaches a read-only connection. Rejected once the session
// has closed.
func (s *Session) Spectate(conn Conn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == StatusCompleted || s.status == StatusAbandoned {
		return ErrSessionClosed
	}
	// Attached under the session lock so a concurrent finish cannot
	// slip between the status check and the attach.
	s.hub.Attach(s.id, conn)
	conn.Send(Event{Type: EvSpectatorUpdate, Data: s.snapshotLocked()})
	return nil
}

// Snapshot returns the spectator view of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Fault force-abandons a session after an internal invariant failure,
// refusing to leave it in an inconsistent state.
func (s *Session) Fault(context string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return
	}
	log.Printf("session %s: invariant failure: %s; forcing abandoned", s.id, context)
	s.finishLocked(StatusAbandoned, ReasonFault, 0, 0)
}

// --- internals, all called with s.mu held ---

func (s *Session) startRoundLocked() {
	s.version++
	round := Round{
		Number:    len(s.rounds) + 1,
		Puzzle:    s.puzzles.Next(),
		StartedAt: s.now(),
	}
	s.rounds = append(s.rounds, round)
	s.status = StatusActive

	version := s.version
	s.roundTimer = time.AfterFunc(s.cfg.RoundLimit, func() { s.roundExpired(version) })

	started := Event{Type: EvRoundStarted, Data: RoundStartedData{
		Round:     round.Number,
		Puzzle:    round.Puzzle.Sequence,
		TimeLimit: int(s.cfg.RoundLimit / time.Second),
	}}
	s.sendPlayersLocked(started)
	s.broadcastSnapshotLocked()
}

// closeRoundLocked records the winner (zero on timeout), cancels the
// round timer and moves to round-break or termination.
func (s *Session) closeRoundLocked(round *Round, winner uint, winningElapsed time.Duration) {
	s.version++
	if s.roundTimer != nil {
		s.roundTimer.Stop()
	}
	round.WinnerID = winner
	round.EndedAt = s.now()

	ended := RoundEndedData{
		Round:     round.Number,
		WinnerID:  winner,
		Scores:    s.scoresCopyLocked(),
		Timeout:   winner == 0,
		StartedAt: round.StartedAt,
		EndedAt:   round.EndedAt,
	}
	if winner != 0 {
		ended.WinningMS = winningElapsed.Milliseconds()
	}
	ev := Event{Type: EvRoundEnded, Data: ended}
	s.sendPlayersLocked(ev)
	s.hub.Broadcast(s.id, ev)

	if !s.practice && winner != 0 && s.scores[winner] >= s.cfg.WinThreshold {
		s.finishLocked(StatusCompleted, ReasonWin, winner, 0)
		return
	}

	s.status = StatusRoundBreak
	version := s.version
	s.breakTimer = time.AfterFunc(s.cfg.BreakPause, func() { s.breakOver(version) })
	s.broadcastSnapshotLocked()
}

// roundExpired fires from the round timer. A version mismatch means
// the round already closed or the session moved on: detectable
// no-op, not a corruption.
func (s *Session) roundExpired(version int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.version != version || s.status != StatusActive {
		return
	}
	round := &s.rounds[len(s.rounds)-1]
	log.Printf("session %s: round %d timed out", s.id, round.Number)
	s.closeRoundLocked(round, 0, 0)
}

func (s *Session) breakOver(version int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.version != version || s.status != StatusRoundBreak {
		return
	}
	s.startRoundLocked()
}

// budgetExpired enforces the overall session time budget: the match
// is decided on current scores, a tie is a draw, and the record is
// flagged abandoned so it reads as a timeout, not a clean win.
func (s *Session) budgetExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return
	}
	if s.practice {
		s.finishLocked(StatusCompleted, ReasonTimeout, s.players[0].UserID, 0)
		return
	}

	a, b := s.players[0], s.players[1]
	var winner uint
	switch {
	case s.scores[a.UserID] > s.scores[b.UserID]:
		winner = a.UserID
	case s.scores[b.UserID] > s.scores[a.UserID]:
		winner = b.UserID
	}
	s.finishLocked(StatusAbandoned, ReasonTimeout, winner, 0)
}

// finishLocked is the only path into completed/abandoned. It runs at
// most once: rating deltas are computed here and nowhere else.
func (s *Session) finishLocked(status Status, reason string, winner, abandonedBy uint) {
	if s.finished {
		return
	}
	s.finished = true
	s.version++
	s.stopTimersLocked()

	// Close a round left open by an abandon mid-round.
	if n := len(s.rounds); n > 0 && s.rounds[n-1].EndedAt.IsZero() {
		s.rounds[n-1].EndedAt = s.now()
	}
	s.status = status

	sum := &Summary{
		SessionID:   s.id,
		Practice:    s.practice,
		Status:      status,
		Reason:      reason,
		WinnerID:    winner,
		Draw:        !s.practice && winner == 0,
		AbandonedBy: abandonedBy,
		Rounds:      append([]Round(nil), s.rounds...),
		Duration:    s.now().Sub(s.startedAt),
	}
	if n := len(s.rounds); n > 0 {
		sum.Solutions = s.rounds[n-1].Puzzle.Solutions
	}

	for _, p := range s.players {
		sum.Players = append(sum.Players, PlayerResult{
			UserID:   p.UserID,
			Username: p.Username,
			Rating:   p.Rating,
			Score:    s.scores[p.UserID],
		})
	}

	if !s.practice && len(s.players) == 2 {
		a, b := s.players[0], s.players[1]
		outcome := rating.Draw
		switch winner {
		case a.UserID:
			outcome = rating.AWins
		case b.UserID:
			outcome = rating.BWins
		}
		dA, dB := rating.Update(a.Rating, b.Rating, outcome, s.cfg.RatingK)
		sum.Players[0].RatingDelta = dA
		sum.Players[1].RatingDelta = dB
	}

	evType := EvSessionCompleted
	if status == StatusAbandoned {
		evType = EvSessionAbandoned
	}
	ev := Event{Type: evType, Data: sum}
	s.sendPlayersLocked(ev)
	s.hub.Broadcast(s.id, ev)
	s.hub.CloseSession(s.id)

	log.Printf("session %s: %s (%s), winner=%d", s.id, status, reason, winner)

	if s.sink != nil {
		s.sink.Record(sum)
	}
	if s.onClose != nil {
		s.onClose(s)
	}
}

func (s *Session) stopTimersLocked() {
	if s.roundTimer != nil {
		s.roundTimer.Stop()
	}
	if s.breakTimer != nil {
		s.breakTimer.Stop()
	}
	if s.budget != nil {
		s.budget.Stop()
	}
}

func (s *Session) sendPlayersLocked(ev Event) {
	for _, p := range s.players {
		if p.Conn != nil {
			p.Conn.Send(ev)
		}
	}
}

func (s *Session) broadcastSnapshotLocked() {
	s.hub.Broadcast(s.id, Event{Type: EvSpectatorUpdate, Data: s.snapshotLocked()})
}

func (s *Session) scoresCopyLocked() map[uint]int {
	out := make(map[uint]int, len(s.scores))
	for k, v := range s.scores {
		out[k] = v
	}
	return out
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		SessionID:  s.id,
		Status:     s.status,
		Practice:   s.practice,
		Players:    s.players,
		Scores:     s.scoresCopyLocked(),
		Spectators: s.hub.Count(s.id),
		StartedAt:  s.startedAt,
	}
	if n := len(s.rounds); n > 0 {
		snap.Round = s.rounds[n-1].Number
		snap.Puzzle = s.rounds[n-1].Puzzle.Sequence
	}
	return snap
}
