// Package rating implements the ELO update applied when a duel ends.
package rating

import "math"

const (
	// DefaultK is the K-factor used for every rated match.
	DefaultK = 32
	// Floor is the minimum rating a player can hold.
	Floor = 100
)

// Outcome of a duel from player A's perspective.
type Outcome int

const (
	AWins Outcome = iota
	BWins
	Draw
)

// Expected returns A's expected score against B.
func Expected(ratingA, ratingB int) float64 {
	return 1 / (1 + math.Pow(10, float64(ratingB-ratingA)/400))
}

// Update computes the rating deltas for both sides. Each side rounds
// its own actual-vs-expected difference, so deltaB is not simply
// -deltaA; symmetric rounding avoids a systematic bias toward one
// player.
func Update(ratingA, ratingB int, outcome Outcome, k int) (deltaA, deltaB int) {
	var scoreA, scoreB float64
	switch outcome {
	case AWins:
		scoreA, scoreB = 1, 0
	case BWins:
		scoreA, scoreB = 0, 1
	case Draw:
		scoreA, scoreB = 0.5, 0.5
	}

	deltaA = int(math.Round(float64(k) * (scoreA - Expected(ratingA, ratingB))))
	deltaB = int(math.Round(float64(k) * (scoreB - Expected(ratingB, ratingA))))

	deltaA = clampToFloor(ratingA, deltaA)
	deltaB = clampToFloor(ratingB, deltaB)
	return deltaA, deltaB
}

// clampToFloor shrinks a negative delta so the resulting rating never
// drops below Floor.
func clampToFloor(current, delta int) int {
	if current+delta < Floor {
		return Floor - current
	}
	return delta
}
