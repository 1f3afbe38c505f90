package levels_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"readleaf/levels"
)

func TestLadderCoversAllBands(t *testing.T) {
	// two low, three mid, four high: nine tiers total, no overlap
	assert.Len(t, levels.Ladder, 9)
	assert.Len(t, levels.TiersOf(levels.BandLow), 2)
	assert.Len(t, levels.TiersOf(levels.BandMid), 3)
	assert.Len(t, levels.TiersOf(levels.BandHigh), 4)

	seen := map[levels.Tier]bool{}
	for _, b := range levels.Bands {
		for _, tier := range levels.TiersOf(b) {
			assert.False(t, seen[tier], "tier %s appears in more than one band", tier)
			seen[tier] = true
		}
	}
	for _, tier := range levels.Ladder {
		assert.True(t, seen[tier], "tier %s missing from bands", tier)
	}
}

func TestBandOf(t *testing.T) {
	assert.Equal(t, levels.BandLow, levels.BandOf(levels.TierA1))
	assert.Equal(t, levels.BandLow, levels.BandOf(levels.TierA2))
	assert.Equal(t, levels.BandMid, levels.BandOf(levels.TierB2))
	assert.Equal(t, levels.BandHigh, levels.BandOf(levels.TierC4))
}

func TestPickTierStaysInBand(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		for _, b := range levels.Bands {
			tier := levels.PickTier(b, rng)
			assert.Equal(t, b, levels.BandOf(tier))
		}
	}
}

func TestPickTierReachesEveryTier(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	seen := map[levels.Tier]bool{}
	for i := 0; i < 500; i++ {
		for _, b := range levels.Bands {
			seen[levels.PickTier(b, rng)] = true
		}
	}
	for _, tier := range levels.Ladder {
		assert.True(t, seen[tier], "tier %s never drawn", tier)
	}
}
