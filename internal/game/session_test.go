package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const solution = "1 + (2 + 3 + 4) * (5 + 6)"

func testSessionConfig() SessionConfig {
	return SessionConfig{
		RoundLimit:   time.Hour,
		BreakPause:   5 * time.Millisecond,
		SessionLimit: 0,
		WinThreshold: 2,
		RatingK:      32,
	}
}

func newTestDuel(t *testing.T, cfg SessionConfig) (*Session, *fakeConn, *fakeConn, *fakeHub, *fakeSink) {
	t.Helper()
	a, b, c1, c2 := twoPlayers()
	hub := newFakeHub()
	sink := &fakeSink{}
	s := NewSession([]*Participant{a, b}, false, cfg,
		&fixedPuzzles{puzzle: testPuzzle()}, sink, hub, nil)
	return s, c1, c2, hub, sink
}

func (s *Session) roundCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rounds)
}

func (s *Session) roundAt(i int) Round {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rounds[i]
}

func TestSessionStartOpensFirstRound(t *testing.T) {
	s, c1, c2, _, _ := newTestDuel(t, testSessionConfig())
	s.Start()

	assert.Equal(t, StatusActive, s.Status())
	require.Equal(t, 1, s.roundCount())

	for _, c := range []*fakeConn{c1, c2} {
		ev, ok := c.lastOfType(EvRoundStarted)
		require.True(t, ok)
		data := ev.Data.(RoundStartedData)
		assert.Equal(t, 1, data.Round)
		assert.Equal(t, "123456", data.Puzzle)
	}
}

func TestSessionFirstValidSubmissionWinsRound(t *testing.T) {
	s, c1, c2, _, _ := newTestDuel(t, testSessionConfig())
	s.Start()

	res, err := s.Submit(1, solution)
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.InDelta(t, 100.0, res.Result, 1e-9)

	round := s.roundAt(0)
	assert.Equal(t, uint(1), round.WinnerID)
	assert.False(t, round.EndedAt.IsZero())

	ev, ok := c2.lastOfType(EvRoundEnded)
	require.True(t, ok)
	data := ev.Data.(RoundEndedData)
	assert.Equal(t, uint(1), data.WinnerID)
	assert.Equal(t, 1, data.Scores[1])
	assert.Equal(t, 0, data.Scores[2])
	assert.False(t, data.Timeout)

	_, ok = c1.lastOfType(EvRoundEnded)
	assert.True(t, ok)
}

func TestSessionInvalidSubmissionIsLoggedNotScored(t *testing.T) {
	s, _, _, _, _ := newTestDuel(t, testSessionConfig())
	s.Start()

	res, err := s.Submit(1, "1+2+3+4+5+6")
	require.NoError(t, err)
	assert.False(t, res.Valid)

	round := s.roundAt(0)
	require.Len(t, round.Submissions, 1)
	assert.Equal(t, uint(0), round.WinnerID)
	assert.Equal(t, StatusActive, s.Status())
}

func TestSessionDuplicateSubmissionIdempotent(t *testing.T) {
	s, _, _, _, _ := newTestDuel(t, testSessionConfig())
	s.Start()

	first, err := s.Submit(1, "1+2+3+4+5+6")
	require.NoError(t, err)

	// The same expression again, differently spaced, echoes the logged
	// feedback without adding a second attempt.
	second, err := s.Submit(1, "1 + 2 + 3 + 4 + 5 + 6")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	round := s.roundAt(0)
	assert.Len(t, round.Submissions, 1)

	// The opponent trying the same expression is a fresh attempt.
	_, err = s.Submit(2, "1+2+3+4+5+6")
	require.NoError(t, err)
	assert.Len(t, s.roundAt(0).Submissions, 2)
}

func TestSessionRoundTimeoutNobodyScores(t *testing.T) {
	cfg := testSessionConfig()
	cfg.RoundLimit = 20 * time.Millisecond
	cfg.BreakPause = 10 * time.Millisecond
	s, c1, _, _, _ := newTestDuel(t, cfg)
	s.Start()

	// Round 1 must expire with no winner and round 2 open afterwards.
	require.Eventually(t, func() bool { return s.roundCount() >= 2 },
		time.Second, 5*time.Millisecond)

	first := s.roundAt(0)
	assert.Equal(t, uint(0), first.WinnerID)
	assert.False(t, first.EndedAt.IsZero())

	ev, ok := c1.lastOfType(EvRoundEnded)
	require.True(t, ok)
	data := ev.Data.(RoundEndedData)
	assert.True(t, data.Timeout)
	assert.Equal(t, 0, data.Scores[1])
	assert.Equal(t, 0, data.Scores[2])
}

func TestSessionWinThresholdCompletes(t *testing.T) {
	cfg := testSessionConfig()
	s, c1, _, hub, sink := newTestDuel(t, cfg)
	s.Start()

	_, err := s.Submit(1, solution)
	require.NoError(t, err)
	assert.Equal(t, StatusRoundBreak, s.Status())

	require.Eventually(t, func() bool { return s.Status() == StatusActive },
		time.Second, 2*time.Millisecond)

	_, err = s.Submit(1, solution)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, s.Status())

	sums := sink.recorded()
	require.Len(t, sums, 1)
	sum := sums[0]
	assert.Equal(t, StatusCompleted, sum.Status)
	assert.Equal(t, ReasonWin, sum.Reason)
	assert.Equal(t, uint(1), sum.WinnerID)
	assert.False(t, sum.Draw)
	require.Len(t, sum.Players, 2)
	assert.Equal(t, 2, sum.Players[0].Score)
	assert.Equal(t, 16, sum.Players[0].RatingDelta)
	assert.Equal(t, -16, sum.Players[1].RatingDelta)
	assert.Equal(t, []string{solution}, sum.Solutions)

	ev, ok := c1.lastOfType(EvSessionCompleted)
	require.True(t, ok)
	assert.Equal(t, sum, ev.Data.(*Summary))
	assert.Contains(t, hub.closed, s.ID())

	// Anything after completion is rejected.
	_, err = s.Submit(2, solution)
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestSessionSubmitDuringBreakRejected(t *testing.T) {
	s, _, _, _, _ := newTestDuel(t, testSessionConfig())
	s.Start()

	_, err := s.Submit(1, solution)
	require.NoError(t, err)
	require.Equal(t, StatusRoundBreak, s.Status())

	_, err = s.Submit(2, solution)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestSessionDisconnectForfeits(t *testing.T) {
	s, _, c2, _, sink := newTestDuel(t, testSessionConfig())
	s.Start()

	require.NoError(t, s.Disconnect(1))
	assert.Equal(t, StatusAbandoned, s.Status())

	sums := sink.recorded()
	require.Len(t, sums, 1)
	sum := sums[0]
	assert.Equal(t, StatusAbandoned, sum.Status)
	assert.Equal(t, ReasonDisconnect, sum.Reason)
	assert.Equal(t, uint(2), sum.WinnerID)
	assert.Equal(t, uint(1), sum.AbandonedBy)
	assert.Equal(t, 16, sum.Players[1].RatingDelta)
	assert.Equal(t, -16, sum.Players[0].RatingDelta)

	_, ok := c2.lastOfType(EvSessionAbandoned)
	assert.True(t, ok)

	// A second leave finds the session already closed.
	assert.ErrorIs(t, s.Quit(2), ErrSessionClosed)
}

func TestSessionQuitForfeits(t *testing.T) {
	s, _, _, _, sink := newTestDuel(t, testSessionConfig())
	s.Start()

	require.NoError(t, s.Quit(2))

	sums := sink.recorded()
	require.Len(t, sums, 1)
	assert.Equal(t, ReasonQuit, sums[0].Reason)
	assert.Equal(t, uint(1), sums[0].WinnerID)
	assert.Equal(t, uint(2), sums[0].AbandonedBy)
}

func TestSessionBudgetDecidesOnScore(t *testing.T) {
	cfg := testSessionConfig()
	cfg.WinThreshold = 5
	cfg.SessionLimit = 40 * time.Millisecond
	cfg.BreakPause = time.Millisecond
	s, _, _, _, sink := newTestDuel(t, cfg)
	s.Start()

	_, err := s.Submit(1, solution)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return s.Status() == StatusAbandoned },
		time.Second, 5*time.Millisecond)

	sums := sink.recorded()
	require.Len(t, sums, 1)
	assert.Equal(t, ReasonTimeout, sums[0].Reason)
	assert.Equal(t, uint(1), sums[0].WinnerID)
	assert.False(t, sums[0].Draw)
}

func TestSessionBudgetTieIsDraw(t *testing.T) {
	cfg := testSessionConfig()
	cfg.SessionLimit = 20 * time.Millisecond
	s, _, _, _, sink := newTestDuel(t, cfg)
	s.Start()

	require.Eventually(t, func() bool { return s.Status() == StatusAbandoned },
		time.Second, 5*time.Millisecond)

	sums := sink.recorded()
	require.Len(t, sums, 1)
	sum := sums[0]
	assert.Equal(t, uint(0), sum.WinnerID)
	assert.True(t, sum.Draw)
	assert.Equal(t, 0, sum.Players[0].RatingDelta)
	assert.Equal(t, 0, sum.Players[1].RatingDelta)
}

func TestSessionSpectate(t *testing.T) {
	s, _, _, hub, _ := newTestDuel(t, testSessionConfig())
	s.Start()

	spec := newFakeConn("spec")
	require.NoError(t, s.Spectate(spec))
	assert.Equal(t, 1, hub.Count(s.ID()))

	ev, ok := spec.lastOfType(EvSpectatorUpdate)
	require.True(t, ok)
	snap := ev.Data.(Snapshot)
	assert.Equal(t, s.ID(), snap.SessionID)
	assert.Equal(t, StatusActive, snap.Status)
	assert.Equal(t, "123456", snap.Puzzle)

	// Round events reach the spectator through the hub.
	_, err := s.Submit(1, solution)
	require.NoError(t, err)
	_, ok = spec.lastOfType(EvRoundEnded)
	assert.True(t, ok)
}

func TestSessionSpectateAfterCloseRejected(t *testing.T) {
	s, _, _, _, _ := newTestDuel(t, testSessionConfig())
	s.Start()
	require.NoError(t, s.Quit(1))

	spec := newFakeConn("spec")
	assert.ErrorIs(t, s.Spectate(spec), ErrSessionClosed)
}

func TestSessionSubmitFromStranger(t *testing.T) {
	s, _, _, _, _ := newTestDuel(t, testSessionConfig())
	s.Start()

	_, err := s.Submit(99, solution)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestPracticeSessionQuitCompletes(t *testing.T) {
	c := newFakeConn("solo")
	p := &Participant{UserID: 7, Username: "solo", Rating: 1200, Conn: c}
	hub := newFakeHub()
	sink := &fakeSink{}
	cfg := testSessionConfig()
	s := NewSession([]*Participant{p}, true, cfg,
		&fixedPuzzles{puzzle: testPuzzle()}, sink, hub, nil)
	s.Start()

	// A solved round never ends a practice session; rounds keep coming.
	_, err := s.Submit(7, solution)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return s.roundCount() >= 2 },
		time.Second, 2*time.Millisecond)

	require.NoError(t, s.Quit(7))
	assert.Equal(t, StatusCompleted, s.Status())

	sums := sink.recorded()
	require.Len(t, sums, 1)
	sum := sums[0]
	assert.True(t, sum.Practice)
	assert.Equal(t, ReasonQuit, sum.Reason)
	require.Len(t, sum.Players, 1)
	assert.Equal(t, 0, sum.Players[0].RatingDelta)
}

func TestSessionFaultForcesAbandoned(t *testing.T) {
	s, c1, _, _, sink := newTestDuel(t, testSessionConfig())
	s.Start()

	s.Fault("round bookkeeping out of sync")
	assert.Equal(t, StatusAbandoned, s.Status())

	sums := sink.recorded()
	require.Len(t, sums, 1)
	assert.Equal(t, ReasonFault, sums[0].Reason)
	assert.Equal(t, uint(0), sums[0].WinnerID)
	assert.Equal(t, 0, sums[0].Players[0].RatingDelta)
	assert.Equal(t, 0, sums[0].Players[1].RatingDelta)

	_, ok := c1.lastOfType(EvSessionAbandoned)
	assert.True(t, ok)

	// A fault on an already-closed session is ignored.
	s.Fault("again")
	assert.Len(t, sink.recorded(), 1)
}

func TestSessionOnCloseRunsOnce(t *testing.T) {
	a, b, _, _ := twoPlayers()
	closed := 0
	s := NewSession([]*Participant{a, b}, false, testSessionConfig(),
		&fixedPuzzles{puzzle: testPuzzle()}, &fakeSink{}, newFakeHub(),
		func(*Session) { closed++ })
	s.Start()

	require.NoError(t, s.Quit(1))
	assert.ErrorIs(t, s.Quit(2), ErrSessionClosed)
	assert.Equal(t, 1, closed)
}
