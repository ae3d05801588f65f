package game

import (
	"sync"

	"github.com/arushsrivastava/HectoClash-Game/internal/hectoc"
)

// fakeConn records every event pushed to it.
type fakeConn struct {
	id string

	mu     sync.Mutex
	events []Event
}

func newFakeConn(id string) *fakeConn { return &fakeConn{id: id} }

func (c *fakeConn) ID() string { return c.id }

func (c *fakeConn) Send(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
}

func (c *fakeConn) received() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Event(nil), c.events...)
}

func (c *fakeConn) typesReceived() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.events))
	for _, ev := range c.events {
		out = append(out, ev.Type)
	}
	return out
}

func (c *fakeConn) lastOfType(t string) (Event, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.events) - 1; i >= 0; i-- {
		if c.events[i].Type == t {
			return c.events[i], true
		}
	}
	return Event{}, false
}

// fakeHub is a Broadcaster that records broadcasts per session.
type fakeHub struct {
	mu        sync.Mutex
	attached  map[string][]Conn
	broadcast map[string][]Event
	closed    []string
}

func newFakeHub() *fakeHub {
	return &fakeHub{
		attached:  make(map[string][]Conn),
		broadcast: make(map[string][]Event),
	}
}

func (h *fakeHub) Attach(sessionID string, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.attached[sessionID] = append(h.attached[sessionID], conn)
}

func (h *fakeHub) Detach(sessionID string, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns := h.attached[sessionID]
	for i, c := range conns {
		if c == conn {
			h.attached[sessionID] = append(conns[:i], conns[i+1:]...)
			return
		}
	}
}

func (h *fakeHub) Broadcast(sessionID string, ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.broadcast[sessionID] = append(h.broadcast[sessionID], ev)
	for _, c := range h.attached[sessionID] {
		c.Send(ev)
	}
}

func (h *fakeHub) Count(sessionID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.attached[sessionID])
}

func (h *fakeHub) CloseSession(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = append(h.closed, sessionID)
	delete(h.attached, sessionID)
}

// fakeSink collects final summaries.
type fakeSink struct {
	mu        sync.Mutex
	summaries []*Summary
}

func (f *fakeSink) Record(sum *Summary) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.summaries = append(f.summaries, sum)
}

func (f *fakeSink) recorded() []*Summary {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*Summary(nil), f.summaries...)
}

// fixedPuzzles always serves the same puzzle, keeping round outcomes
// deterministic.
type fixedPuzzles struct {
	puzzle hectoc.Puzzle
}

func (f *fixedPuzzles) Next() hectoc.Puzzle { return f.puzzle }

func testPuzzle() hectoc.Puzzle {
	return hectoc.Puzzle{
		Sequence:  "123456",
		Solutions: []string{"1 + (2 + 3 + 4) * (5 + 6)"},
		Curated:   true,
	}
}

func twoPlayers() (*Participant, *Participant, *fakeConn, *fakeConn) {
	c1, c2 := newFakeConn("c1"), newFakeConn("c2")
	a := &Participant{UserID: 1, Username: "alice", Rating: 1200, Conn: c1}
	b := &Participant{UserID: 2, Username: "bob", Rating: 1200, Conn: c2}
	return a, b, c1, c2
}
