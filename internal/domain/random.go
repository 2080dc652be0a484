package domain

import (
	"fmt"
	"hash/fnv"
	"math"
	"math/rand/v2"
)

// SelectionRand returns a generator seeded from every field of the selection.
// Equal selections yield identical sequences.
func SelectionRand(sel Selection) *rand.Rand {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%d|%d|%d|%d|%s|%d",
		sel.FireID, sel.Timeline,
		sel.Weights.Community, sel.Weights.Watershed, sel.Weights.Infrastructure,
		sel.Role, sel.Horizon)
	seed := h.Sum64()
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func jitter(r *rand.Rand, value, delta float64) float64 {
	return value + (r.Float64()*2-1)*delta
}

func uniform(r *rand.Rand, low, high float64) float64 {
	return low + r.Float64()*(high-low)
}

// intBetween returns an int in [low, high].
func intBetween(r *rand.Rand, low, high int) int {
	return low + r.IntN(high-low+1)
}

func clamp(v, low, high float64) float64 {
	return math.Max(low, math.Min(high, v))
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
