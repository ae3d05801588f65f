package game

import (
	"log"
	"sync"
	"time"
)

// QueueConfig tunes the pairing policy.
type QueueConfig struct {
	// BaseWindow is the rating gap allowed the moment a player joins.
	BaseWindow int
	// WindowGrowth widens the window by this much per GrowthEvery of
	// waiting, uncapped, so nobody starves.
	WindowGrowth int
	GrowthEvery  time.Duration
	// SweepInterval is how often the pairing sweep runs between joins.
	SweepInterval time.Duration
}

// DefaultQueueConfig matches the documented policy: 150 base, +25 per
// 5 seconds waited.
func DefaultQueueConfig() QueueConfig {
	return QueueConfig{
		BaseWindow:    150,
		WindowGrowth:  25,
		GrowthEvery:   5 * time.Second,
		SweepInterval: time.Second,
	}
}

type queueEntry struct {
	participant *Participant
	joinedAt    time.Time
}

// MatchFunc receives both sides of a freshly formed pair. It is
// called outside the queue lock; by then neither participant has a
// queue entry anymore.
type MatchFunc func(a, b *Participant)

// Queue holds waiting participants and pairs them oldest-first within
// a rating window that widens with wait time. All mutation happens
// under one mutex, so a Leave racing a pairing decision sees either a
// live entry or no entry, never a half-paired one.
type Queue struct {
	mu      sync.Mutex
	entries []*queueEntry
	byUser  map[uint]*queueEntry

	cfg     QueueConfig
	onMatch MatchFunc
	now     func() time.Time

	stop chan struct{}
	once sync.Once
}

func NewQueue(cfg QueueConfig, onMatch MatchFunc) *Queue {
	return &Queue{
		byUser:  make(map[uint]*queueEntry),
		cfg:     cfg,
		onMatch: onMatch,
		now:     time.Now,
		stop:    make(chan struct{}),
	}
}

// Start runs the periodic pairing sweep until Stop is called.
func (q *Queue) Start() {
	go func() {
		ticker := time.NewTicker(q.cfg.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				q.pair()
			case <-q.stop:
				return
			}
		}
	}()
}

func (q *Queue) Stop() {
	q.once.Do(func() { close(q.stop) })
}

// Join inserts a participant and immediately attempts pairing.
// Returns the 1-based queue position at insert time.
func (q *Queue) Join(p *Participant) (int, error) {
	q.mu.Lock()
	if _, ok := q.byUser[p.UserID]; ok {
		q.mu.Unlock()
		return 0, ErrAlreadyQueued
	}
	e := &queueEntry{participant: p, joinedAt: q.now()}
	q.entries = append(q.entries, e)
	q.byUser[p.UserID] = e
	pos := len(q.entries)
	q.mu.Unlock()

	log.Printf("queue: %s joined (rating %d, position %d)", p.Username, p.Rating, pos)
	q.pair()
	return pos, nil
}

// Leave withdraws an entry. Reports ErrNotQueued when the entry was
// already paired or withdrawn, which a concurrent pairing makes a
// legitimate race, not a fault.
func (q *Queue) Leave(userID uint) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	e, ok := q.byUser[userID]
	if !ok {
		return ErrNotQueued
	}
	q.removeLocked(e)
	log.Printf("queue: %s left", e.participant.Username)
	return nil
}

// Len reports the number of waiting entries.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// pair repeatedly matches the oldest entry against its nearest-rated
// counterpart within the current window. Pairs are collected under
// the lock and handed to onMatch after it is released, so the
// callback may re-enter the queue.
func (q *Queue) pair() {
	var pairs [][2]*Participant

	q.mu.Lock()
	for {
		a, b := q.findPairLocked()
		if a == nil {
			break
		}
		pairs = append(pairs, [2]*Participant{a.participant, b.participant})
		q.removeLocked(a)
		q.removeLocked(b)
	}
	q.mu.Unlock()

	for _, pr := range pairs {
		log.Printf("queue: matched %s (%d) vs %s (%d)",
			pr[0].Username, pr[0].Rating, pr[1].Username, pr[1].Rating)
		q.onMatch(pr[0], pr[1])
	}
}

// findPairLocked anchors on entries oldest-first: each anchor takes
// the nearest-rated later entry inside its window. An anchor whose
// window admits nobody keeps waiting without blocking younger pairs.
func (q *Queue) findPairLocked() (*queueEntry, *queueEntry) {
	for i, anchor := range q.entries {
		if i+1 >= len(q.entries) {
			break
		}
		window := q.windowFor(anchor)

		var best *queueEntry
		bestGap := window + 1
		for _, cand := range q.entries[i+1:] {
			gap := anchor.participant.Rating - cand.participant.Rating
			if gap < 0 {
				gap = -gap
			}
			if gap <= window && gap < bestGap {
				best, bestGap = cand, gap
			}
		}
		if best != nil {
			return anchor, best
		}
	}
	return nil, nil
}

func (q *Queue) windowFor(e *queueEntry) int {
	waited := q.now().Sub(e.joinedAt)
	steps := int(waited / q.cfg.GrowthEvery)
	return q.cfg.BaseWindow + steps*q.cfg.WindowGrowth
}

func (q *Queue) removeLocked(e *queueEntry) {
	delete(q.byUser, e.participant.UserID)
	for i, other := range q.entries {
		if other == e {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			return
		}
	}
}
