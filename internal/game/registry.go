package game

import (
	"log"
	"sync"
)

type membershipKind int

const (
	memberNone membershipKind = iota
	memberQueued
	memberInSession
	memberSpectating
)

type membership struct {
	kind      membershipKind
	sessionID string
	player    *Participant
}

// Registry maps connection identities to their current membership
// (none, queued, in a session, spectating) and routes inbound events
// to the owning queue or session. Membership moves are serialized by
// the registry mutex; session and queue internals stay behind their
// own locks, and the registry never calls into them while holding its
// own, so the lock order is strictly one-way.
type Registry struct {
	mu       sync.Mutex
	conns    map[string]*membership
	sessions map[string]*Session

	queue   *Queue
	cfg     SessionConfig
	puzzles PuzzleSource
	sink    ResultSink
	hub     Broadcaster
}

func NewRegistry(qcfg QueueConfig, scfg SessionConfig, puzzles PuzzleSource,
	sink ResultSink, hub Broadcaster) *Registry {
	r := &Registry{
		conns:    make(map[string]*membership),
		sessions: make(map[string]*Session),
		cfg:      scfg,
		puzzles:  puzzles,
		sink:     sink,
		hub:      hub,
	}
	r.queue = NewQueue(qcfg, r.matchFound)
	return r
}

// Start launches the queue's pairing sweep.
func (r *Registry) Start() { r.queue.Start() }

func (r *Registry) Stop() { r.queue.Stop() }

// Register announces a new connection with no membership yet.
func (r *Registry) Register(conn Conn, player *Participant) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[conn.ID()] = &membership{kind: memberNone, player: player}
}

// JoinQueue moves a free connection into the matchmaking queue. The
// identity, not just the connection, must be free: a player already
// queued or seated through another login is refused.
func (r *Registry) JoinQueue(conn Conn) (int, error) {
	r.mu.Lock()
	m, ok := r.conns[conn.ID()]
	if !ok || m.kind != memberNone {
		r.mu.Unlock()
		if ok && m.kind == memberQueued {
			return 0, ErrAlreadyQueued
		}
		return 0, ErrInvalidState
	}
	if err := r.userBusyLocked(m.player.UserID, conn.ID()); err != nil {
		r.mu.Unlock()
		return 0, err
	}
	m.kind = memberQueued
	player := m.player
	r.mu.Unlock()

	pos, err := r.queue.Join(player)
	if err != nil {
		r.setKind(conn.ID(), memberNone, "")
		return 0, err
	}
	return pos, nil
}

// LeaveQueue withdraws a queued connection. A pairing that already
// happened wins the race: the caller gets ErrNotQueued and keeps its
// match.
func (r *Registry) LeaveQueue(conn Conn) error {
	r.mu.Lock()
	m, ok := r.conns[conn.ID()]
	if !ok || m.kind != memberQueued {
		r.mu.Unlock()
		return ErrNotQueued
	}
	player := m.player
	r.mu.Unlock()

	if err := r.queue.Leave(player.UserID); err != nil {
		return err
	}
	r.setKind(conn.ID(), memberNone, "")
	return nil
}

// Submit routes an expression to the session the connection is in.
func (r *Registry) Submit(conn Conn, expression string) error {
	s, m, err := r.sessionFor(conn, memberInSession)
	if err != nil {
		return err
	}
	res, err := s.Submit(m.player.UserID, expression)
	if err != nil {
		return err
	}
	conn.Send(Event{Type: EvSubmitResult, Data: res})
	return nil
}

// Spectate attaches a free connection to a live session read-only.
func (r *Registry) Spectate(conn Conn, sessionID string) error {
	r.mu.Lock()
	m, ok := r.conns[conn.ID()]
	if !ok || m.kind != memberNone {
		r.mu.Unlock()
		return ErrInvalidState
	}
	s, ok := r.sessions[sessionID]
	if !ok {
		r.mu.Unlock()
		return ErrNotFound
	}
	r.mu.Unlock()

	if err := s.Spectate(conn); err != nil {
		return err
	}
	r.setKind(conn.ID(), memberSpectating, sessionID)
	return nil
}

// StartPractice spins up a single-player session for the connection.
func (r *Registry) StartPractice(conn Conn) error {
	r.mu.Lock()
	m, ok := r.conns[conn.ID()]
	if !ok || m.kind != memberNone {
		r.mu.Unlock()
		return ErrInvalidState
	}
	if err := r.userBusyLocked(m.player.UserID, conn.ID()); err != nil {
		r.mu.Unlock()
		return err
	}
	s := NewSession([]*Participant{m.player}, true, r.cfg, r.puzzles, r.sink, r.hub, r.sessionClosed)
	r.sessions[s.ID()] = s
	m.kind = memberInSession
	m.sessionID = s.ID()
	r.mu.Unlock()

	conn.Send(Event{Type: EvMatchFound, Data: MatchFoundData{SessionID: s.ID(), Practice: true}})
	s.Start()
	return nil
}

// Quit leaves whatever the connection is doing: session, spectate or
// queue.
func (r *Registry) Quit(conn Conn) error {
	r.mu.Lock()
	m, ok := r.conns[conn.ID()]
	if !ok {
		r.mu.Unlock()
		return ErrInvalidState
	}
	kind, sessionID, player := m.kind, m.sessionID, m.player
	var s *Session
	if kind == memberInSession || kind == memberSpectating {
		s = r.sessions[sessionID]
	}
	r.mu.Unlock()

	switch kind {
	case memberQueued:
		return r.LeaveQueue(conn)
	case memberInSession:
		if s == nil {
			r.setKind(conn.ID(), memberNone, "")
			return ErrInvalidState
		}
		return s.Quit(player.UserID)
	case memberSpectating:
		if s != nil {
			r.hub.Detach(sessionID, conn)
		}
		r.setKind(conn.ID(), memberNone, "")
		return nil
	default:
		return ErrInvalidState
	}
}

// Disconnect tears down whatever the connection owned. Runs before
// any later event from the same identity can be accepted: the
// membership entry is removed first.
func (r *Registry) Disconnect(conn Conn) {
	r.mu.Lock()
	m, ok := r.conns[conn.ID()]
	if !ok {
		r.mu.Unlock()
		return
	}
	delete(r.conns, conn.ID())
	kind, sessionID, player := m.kind, m.sessionID, m.player
	var s *Session
	if kind == memberInSession || kind == memberSpectating {
		s = r.sessions[sessionID]
	}
	r.mu.Unlock()

	switch kind {
	case memberQueued:
		if err := r.queue.Leave(player.UserID); err != nil {
			// Lost the race to a pairing: the entry already moved
			// into a session, which must now see the disconnect.
			log.Printf("registry: disconnect of queued %s raced a match", player.Username)
			if rs := r.findSessionByUser(player.UserID); rs != nil {
				rs.Disconnect(player.UserID)
			}
		}
	case memberInSession:
		if s != nil {
			if err := s.Disconnect(player.UserID); err != nil {
				log.Printf("registry: disconnect from closed session %s", sessionID)
			}
		}
	case memberSpectating:
		if s != nil {
			r.hub.Detach(sessionID, conn)
		}
	}
}

// ActiveSessions snapshots all live sessions for the lobby view.
func (r *Registry) ActiveSessions() []Snapshot {
	r.mu.Lock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.mu.Unlock()

	out := make([]Snapshot, 0, len(sessions))
	for _, s := range sessions {
		if st := s.Status(); st == StatusCompleted || st == StatusAbandoned {
			continue
		}
		out = append(out, s.Snapshot())
	}
	return out
}

// Session looks up a live session by id.
func (r *Registry) Session(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// matchFound is the queue's pairing callback: both entries are
// already out of the queue, so this is where ownership transfers to
// the new session.
func (r *Registry) matchFound(a, b *Participant) {
	s := NewSession([]*Participant{a, b}, false, r.cfg, r.puzzles, r.sink, r.hub, r.sessionClosed)

	// A participant with no connection entry disconnected in the
	// window between queue removal and session registration; the
	// session must still see the disconnect once it is running.
	var gone []uint
	r.mu.Lock()
	r.sessions[s.ID()] = s
	for _, p := range []*Participant{a, b} {
		m := r.findByUserLocked(p.UserID)
		if m == nil {
			gone = append(gone, p.UserID)
			continue
		}
		m.kind = memberInSession
		m.sessionID = s.ID()
	}
	r.mu.Unlock()

	if a.Conn != nil {
		a.Conn.Send(Event{Type: EvMatchFound, Data: MatchFoundData{SessionID: s.ID(), Opponent: b}})
	}
	if b.Conn != nil {
		b.Conn.Send(Event{Type: EvMatchFound, Data: MatchFoundData{SessionID: s.ID(), Opponent: a}})
	}
	s.Start()

	for _, userID := range gone {
		log.Printf("registry: session %s formed with disconnected player %d, forfeiting", s.ID(), userID)
		s.Disconnect(userID)
	}
}

// sessionClosed clears every membership pointing at a finished
// session and forgets it.
func (r *Registry) sessionClosed(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, s.ID())
	for _, m := range r.conns {
		if m.sessionID == s.ID() {
			m.kind = memberNone
			m.sessionID = ""
		}
	}
}

func (r *Registry) setKind(connID string, kind membershipKind, sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.conns[connID]; ok {
		m.kind = kind
		m.sessionID = sessionID
	}
}

func (r *Registry) findSessionByUser(userID uint) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.HasPlayer(userID) {
			return s
		}
	}
	return nil
}

// userBusyLocked enforces queue-xor-session per identity across
// connections: a second login cannot hold a queue slot or a seat
// while the first one does.
func (r *Registry) userBusyLocked(userID uint, exceptConn string) error {
	for id, m := range r.conns {
		if id == exceptConn || m.player == nil || m.player.UserID != userID {
			continue
		}
		switch m.kind {
		case memberQueued:
			return ErrAlreadyQueued
		case memberInSession:
			return ErrInvalidState
		}
	}
	return nil
}

func (r *Registry) findByUserLocked(userID uint) *membership {
	for _, m := range r.conns {
		if m.player != nil && m.player.UserID == userID {
			return m
		}
	}
	return nil
}

func (r *Registry) sessionFor(conn Conn, want membershipKind) (*Session, *membership, error) {
	r.mu.Lock()
	m, ok := r.conns[conn.ID()]
	if !ok || m.kind != want {
		r.mu.Unlock()
		return nil, nil, ErrInvalidState
	}
	s, ok := r.sessions[m.sessionID]
	r.mu.Unlock()
	if !ok {
		return nil, nil, ErrSessionClosed
	}
	return s, m, nil
}
