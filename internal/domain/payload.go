package domain

import "time"

// ScenarioPayload is the possibly-partial scenario body returned by
// /api/scenario. Optional scalars are pointers; a nil pointer or nil slice
// means the server did not send the field.
type ScenarioPayload struct {
	Fire           *Fire                `json:"fire,omitempty"`
	Timeline       *TimelineStage       `json:"timeline,omitempty"`
	Layers         map[string][]Feature `json:"layers,omitempty"`
	Markers        []Marker             `json:"markers,omitempty"`
	Priorities     []Priority           `json:"priorities,omitempty"`
	Insights       []Insight            `json:"insights,omitempty"`
	NextSteps      []string             `json:"nextSteps,omitempty"`
	Stats          *StatsPayload        `json:"stats,omitempty"`
	MapTip         *string              `json:"mapTip,omitempty"`
	Role           *string              `json:"role,omitempty"`
	RoleKey        *string              `json:"roleKey,omitempty"`
	SelectedFireID *string              `json:"selectedFireId,omitempty"`
	Center         *LatLng              `json:"center,omitempty"`
	Zoom           *int                 `json:"zoom,omitempty"`
	GeneratedAt    *time.Time           `json:"generatedAt,omitempty"`
}

// StatsPayload is the optional-field form of Stats.
type StatsPayload struct {
	Confidence *float64 `json:"confidence,omitempty"`
	Incidents  *int     `json:"incidents,omitempty"`
	Updated    *string  `json:"updated,omitempty"`
	Acres      *float64 `json:"acres,omitempty"`
}

// PayloadFromScenario converts a scenario into a payload. Zero-valued fire,
// timeline and optional scalars are left absent so a merge keeps the fallback's. The demo backend uses it to serve generated scenarios.
func PayloadFromScenario(s Scenario) ScenarioPayload {
	p := ScenarioPayload{
		Layers:     s.Layers,
		Markers:    s.Markers,
		Priorities: s.Priorities,
		Insights:   s.Insights,
		NextSteps:  s.NextSteps,
		Stats: &StatsPayload{
			Confidence: &s.Stats.Confidence,
			Incidents:  &s.Stats.Incidents,
			Updated:    &s.Stats.Updated,
		},
		Center: s.Center,
	}
	if s.Fire.ID != "" {
		p.Fire = &s.Fire
	}
	if s.Timeline.Label != "" {
		p.Timeline = &s.Timeline
	}
	if s.Stats.Acres != 0 {
		p.Stats.Acres = &s.Stats.Acres
	}
	if s.MapTip != "" {
		p.MapTip = &s.MapTip
	}
	if s.Role != "" {
		p.Role = &s.Role
	}
	if s.RoleKey != "" {
		p.RoleKey = &s.RoleKey
	}
	if s.SelectedFireID != "" {
		p.SelectedFireID = &s.SelectedFireID
	}
	if s.Zoom != 0 {
		p.Zoom = &s.Zoom
	}
	if !s.GeneratedAt.IsZero() {
		p.GeneratedAt = &s.GeneratedAt
	}
	return p
}
