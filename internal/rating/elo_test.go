package rating

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpdateEqualRatings(t *testing.T) {
	dA, dB := Update(1200, 1200, AWins, DefaultK)
	assert.Equal(t, 16, dA)
	assert.Equal(t, -16, dB)

	dA, dB = Update(1200, 1200, BWins, DefaultK)
	assert.Equal(t, -16, dA)
	assert.Equal(t, 16, dB)

	dA, dB = Update(1200, 1200, Draw, DefaultK)
	assert.Equal(t, 0, dA)
	assert.Equal(t, 0, dB)
}

func TestUpdateUnderdogWin(t *testing.T) {
	// The lower-rated winner gains more than 16, the favorite loses
	// a matching amount.
	dA, dB := Update(1100, 1400, AWins, DefaultK)
	assert.Greater(t, dA, 16)
	assert.Less(t, dB, -16)

	// Winner delta is non-negative whenever the winner was rated at
	// or below the loser.
	for gap := 0; gap <= 800; gap += 100 {
		dA, _ = Update(1200, 1200+gap, AWins, DefaultK)
		assert.GreaterOrEqual(t, dA, 0, "gap %d", gap)
	}
}

func TestUpdateFavoriteWinSmallGain(t *testing.T) {
	dA, _ := Update(1800, 1200, AWins, DefaultK)
	assert.GreaterOrEqual(t, dA, 0)
	assert.Less(t, dA, 16)
}

func TestUpdateFloor(t *testing.T) {
	// A loss never pushes a rating below the floor: the full -16 from
	// an equal-rated loss is clamped to land exactly on it.
	dA, dB := Update(110, 110, BWins, DefaultK)
	assert.Equal(t, Floor, 110+dA)
	assert.Equal(t, 16, dB)

	dA, _ = Update(Floor, Floor, BWins, DefaultK)
	assert.Equal(t, 0, dA)
}

func TestExpectedSymmetry(t *testing.T) {
	assert.InDelta(t, 0.5, Expected(1200, 1200), 1e-9)
	assert.InDelta(t, 1.0, Expected(1200, 1200)+Expected(1200, 1200), 1e-9)
	assert.InDelta(t, 1.0, Expected(1000, 1400)+Expected(1400, 1000), 1e-9)
}

// Two equally skilled players trading random wins should stay near
// each other over many matches: statistical, not exact.
func TestUpdateConvergence(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	a, b := 1500, 900
	for i := 0; i < 500; i++ {
		outcome := AWins
		if rng.Intn(2) == 0 {
			outcome = BWins
		}
		dA, dB := Update(a, b, outcome, DefaultK)
		a += dA
		b += dB
	}
	gap := a - b
	if gap < 0 {
		gap = -gap
	}
	assert.Less(t, gap, 250, "ratings should converge from 600 apart under coin-flip outcomes")
}
