package domain

import "time"

// Layer keys. The first four are drawn by the priority variant; the role
// variant also emits floodRisk and soilStability.
const (
	LayerBurnSeverity       = "burnSeverity"
	LayerWatershedStress    = "watershedStress"
	LayerErosionRisk        = "erosionRisk"
	LayerInfrastructureRisk = "infrastructureRisk"
	LayerFloodRisk          = "floodRisk"
	LayerSoilStability      = "soilStability"
)

var layerKeys = [...]string{
	LayerBurnSeverity,
	LayerWatershedStress,
	LayerErosionRisk,
	LayerInfrastructureRisk,
	LayerFloodRisk,
	LayerSoilStability,
}

var layerLabels = map[string]string{
	LayerBurnSeverity:       "Burn severity",
	LayerWatershedStress:    "Watershed stress",
	LayerErosionRisk:        "Erosion risk",
	LayerInfrastructureRisk: "Infrastructure risk",
	LayerFloodRisk:          "Flood risk",
	LayerSoilStability:      "Soil stability",
}

// LayerKeys returns every overlay key in draw order.
func LayerKeys() []string {
	keys := layerKeys
	return keys[:]
}

// LayerLabel returns the toggle label for a layer key.
func LayerLabel(key string) string {
	if l, ok := layerLabels[key]; ok {
		return l
	}
	return "Layer"
}

// Feature is one circle in a risk overlay.
type Feature struct {
	Coords    LatLng  `json:"coords"`
	Radius    float64 `json:"radius"`
	Color     string  `json:"color"`
	Intensity float64 `json:"intensity"`
}

// Marker is a point of interest. A marker with a FireID selects that fire
// when clicked.
type Marker struct {
	FireID  string `json:"id,omitempty"`
	Title   string `json:"title"`
	Details string `json:"details"`
	Coords  LatLng `json:"coords"`
}

// Priority is one scored priority bar.
type Priority struct {
	Label   string  `json:"label"`
	Score   float64 `json:"score"`
	Summary string  `json:"summary,omitempty"`
}

// Insight is one insight card.
type Insight struct {
	Category string `json:"category"`
	Title    string `json:"title"`
	Detail   string `json:"detail"`
}

// Stats summarizes model confidence and activity.
type Stats struct {
	Confidence float64 `json:"confidence"` // 0.0–1.0
	Incidents  int     `json:"incidents"`
	Updated    string  `json:"updated"`
	Acres      float64 `json:"acres,omitempty"`
}

// Scenario is a complete, renderable snapshot. Scenarios are never mutated
// after construction; every fetch produces a new one.
type Scenario struct {
	Fire           Fire                 `json:"fire"`
	Timeline       TimelineStage        `json:"timeline"`
	Layers         map[string][]Feature `json:"layers"`
	Markers        []Marker             `json:"markers"`
	Priorities     []Priority           `json:"priorities"`
	Insights       []Insight            `json:"insights"`
	NextSteps      []string             `json:"nextSteps"`
	Stats          Stats                `json:"stats"`
	MapTip         string               `json:"mapTip,omitempty"`
	Role           string               `json:"role,omitempty"`
	RoleKey        string               `json:"roleKey,omitempty"`
	SelectedFireID string               `json:"selectedFireId,omitempty"`
	Center         *LatLng              `json:"center,omitempty"`
	Zoom           int                  `json:"zoom,omitempty"`
	GeneratedAt    time.Time            `json:"generatedAt,omitzero"`
}

// Focus returns the point the map should fly to: the explicit center when
// present, else the fire's location.
func (s Scenario) Focus() (LatLng, bool) {
	if s.Center != nil && !s.Center.IsZero() {
		return *s.Center, true
	}
	if s.Fire.HasPoint() {
		return s.Fire.Point(), true
	}
	return LatLng{}, false
}

// Selection is the part of the UI state that determines which scenario to
// request.
type Selection struct {
	FireID   string          `json:"fireId"`
	Timeline int             `json:"timeline"`
	Weights  PriorityWeights `json:"priorities"`
	Role     string          `json:"role,omitempty"`
	Horizon  int             `json:"horizon,omitempty"`
}

// DefaultSelection returns the selection at load.
func DefaultSelection() Selection {
	return Selection{
		FireID:   fallbackFires[0].ID,
		Timeline: DefaultTimeline,
		Weights:  DefaultWeights(),
		Role:     DefaultRole,
		Horizon:  DefaultHorizon,
	}
}
