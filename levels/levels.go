// Package levels defines the nine-step difficulty ladder used to classify
// generated articles and wraps the external readability scoring service.
package levels

import (
	"math/rand"
)

// Tier is one step of the difficulty ladder, lowest first.
type Tier string

const (
	TierA1 Tier = "a1"
	TierA2 Tier = "a2"
	TierB1 Tier = "b1"
	TierB2 Tier = "b2"
	TierB3 Tier = "b3"
	TierC1 Tier = "c1"
	TierC2 Tier = "c2"
	TierC3 Tier = "c3"
	TierC4 Tier = "c4"
)

// Ladder lists all tiers in ascending difficulty order.
var Ladder = []Tier{TierA1, TierA2, TierB1, TierB2, TierB3, TierC1, TierC2, TierC3, TierC4}

// Band groups tiers for bulk generation: two low, three mid, four high.
type Band string

const (
	BandLow  Band = "low"
	BandMid  Band = "mid"
	BandHigh Band = "high"
)

// Bands lists the bands in the order bulk generation walks them per row.
var Bands = []Band{BandLow, BandMid, BandHigh}

var bandTiers = map[Band][]Tier{
	BandLow:  {TierA1, TierA2},
	BandMid:  {TierB1, TierB2, TierB3},
	BandHigh: {TierC1, TierC2, TierC3, TierC4},
}

// TiersOf returns the tiers belonging to a band, ascending.
func TiersOf(b Band) []Tier {
	return bandTiers[b]
}

// BandOf returns the band a tier belongs to. Unknown tiers map to BandMid.
func BandOf(t Tier) Band {
	for b, ts := range bandTiers {
		for _, cand := range ts {
			if cand == t {
				return b
			}
		}
	}
	return BandMid
}

// PickTier draws a tier uniformly from the band.
func PickTier(b Band, rng *rand.Rand) Tier {
	ts := bandTiers[b]
	return ts[rng.Intn(len(ts))]
}
