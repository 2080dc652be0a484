package domain

import "fmt"

// PriorityKey names one of the three user-adjustable priorities.
type PriorityKey string

const (
	PriorityCommunity      PriorityKey = "community"
	PriorityWatershed      PriorityKey = "watershed"
	PriorityInfrastructure PriorityKey = "infrastructure"
)

// PriorityOrder is the fixed iteration order. Ties in the recommendation
// selector go to the key that appears first here.
var PriorityOrder = [...]PriorityKey{PriorityCommunity, PriorityWatershed, PriorityInfrastructure}

var priorityLabels = map[PriorityKey]string{
	PriorityCommunity:      "Community safety",
	PriorityWatershed:      "Watershed health",
	PriorityInfrastructure: "Infrastructure readiness",
}

var prioritySummaries = map[PriorityKey]string{
	PriorityCommunity:      "Focus on structures and evacuation corridors.",
	PriorityWatershed:      "Stabilize slopes and drinking water sources.",
	PriorityInfrastructure: "Keep roads, utilities, and communications online.",
}

// Label returns the display label for the key, or the key itself when unknown.
func (k PriorityKey) Label() string {
	if l, ok := priorityLabels[k]; ok {
		return l
	}
	return string(k)
}

// Summary returns the one-line description shown under the priority bar.
func (k PriorityKey) Summary() string {
	return prioritySummaries[k]
}

// ParsePriorityKey validates a slider key.
func ParsePriorityKey(s string) (PriorityKey, error) {
	k := PriorityKey(s)
	if _, ok := priorityLabels[k]; !ok {
		return "", fmt.Errorf("unknown priority %q", s)
	}
	return k, nil
}

// PriorityWeights holds independent weights in [0,100]. They are not required
// to sum to 100.
type PriorityWeights struct {
	Community      int `json:"community"`
	Watershed      int `json:"watershed"`
	Infrastructure int `json:"infrastructure"`
}

// DefaultWeights returns the slider positions at load.
func DefaultWeights() PriorityWeights {
	return PriorityWeights{Community: 70, Watershed: 55, Infrastructure: 60}
}

// Get returns the weight for key.
func (w PriorityWeights) Get(key PriorityKey) int {
	switch key {
	case PriorityCommunity:
		return w.Community
	case PriorityWatershed:
		return w.Watershed
	case PriorityInfrastructure:
		return w.Infrastructure
	default:
		return 0
	}
}

// With returns a copy with key set to value clamped into [0,100].
func (w PriorityWeights) With(key PriorityKey, value int) PriorityWeights {
	value = max(0, min(100, value))
	switch key {
	case PriorityCommunity:
		w.Community = value
	case PriorityWatershed:
		w.Watershed = value
	case PriorityInfrastructure:
		w.Infrastructure = value
	}
	return w
}

// Dominant returns the highest-weighted key, breaking ties by PriorityOrder.
func (w PriorityWeights) Dominant() PriorityKey {
	best := PriorityOrder[0]
	for _, k := range PriorityOrder[1:] {
		if w.Get(k) > w.Get(best) {
			best = k
		}
	}
	return best
}
