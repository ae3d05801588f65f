package hectoc

import (
	"math/rand"
	"sync"
)

// Puzzle is an ordered run of six digits (1–9) with the curated
// reference solutions, if any. Immutable once issued to a session.
type Puzzle struct {
	Sequence  string   `json:"sequence"`
	Solutions []string `json:"solutions,omitempty"`
	Curated   bool     `json:"curated"`
}

// Curated sequences and solutions. Synthetic sequences have no
// verified solution, so their Solutions list stays empty.
var curated = []Puzzle{
	{Sequence: "123456", Curated: true, Solutions: []string{
		"1 + (2 + 3 + 4) * (5 + 6)",
	}},
	{Sequence: "987654", Curated: true, Solutions: []string{
		"98 + 7 - 6 + 5 - 4",
	}},
	{Sequence: "135792", Curated: true, Solutions: []string{
		"1 * 35 + 7 * 9 + 2",
	}},
	{Sequence: "692315", Curated: true, Solutions: []string{
		"6 * 9 * 2 - 3 - 1 * 5",
	}},
	{Sequence: "918273", Curated: true, Solutions: []string{
		"9 - 1 + 82 + 7 + 3",
	}},
	{Sequence: "987123", Curated: true, Solutions: []string{
		"98 - 7 + 12 - 3",
	}},
	{Sequence: "555555", Curated: true, Solutions: []string{
		"(5 * 5 - 5) * 5 + 5 - 5",
	}},
	{Sequence: "138411", Curated: true, Solutions: []string{
		"13 * 8 - 4 * 1 * 1",
	}},
	{Sequence: "642128", Curated: true, Solutions: []string{
		"6 * 4 * (2 + 1) + 28",
	}},
}

// Provider hands out puzzles: a curated one with probability
// CuratedProbability, otherwise a synthetic six-digit sequence.
// Pure function of its random source; the curated set is read-only.
// Safe for use from concurrent sessions.
type Provider struct {
	mu   sync.Mutex
	rng  *rand.Rand
	prob float64
}

// NewProvider builds a provider. prob is the chance of drawing from
// the curated set (0.7 in the default config).
func NewProvider(rng *rand.Rand, prob float64) *Provider {
	return &Provider{rng: rng, prob: prob}
}

func (p *Provider) Next() Puzzle {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.rng.Float64() < p.prob {
		return curated[p.rng.Intn(len(curated))]
	}
	digits := make([]byte, 6)
	for i := range digits {
		digits[i] = byte('1' + p.rng.Intn(9))
	}
	return Puzzle{Sequence: string(digits)}
}

// CuratedSet exposes the curated puzzles for seeding and tests.
func CuratedSet() []Puzzle {
	out := make([]Puzzle, len(curated))
	copy(out, curated)
	return out
}
