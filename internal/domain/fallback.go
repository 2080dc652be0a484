package domain

import (
	"fmt"
	"math/rand/v2"
)

// fallbackLayers are the overlays drawn by the priority variant, in the
// order their features are generated.
var fallbackLayers = [...]struct {
	key   string
	color string
}{
	{LayerBurnSeverity, "#ff4e1f"},
	{LayerWatershedStress, "#33b5ff"},
	{LayerErosionRisk, "#d16cff"},
	{LayerInfrastructureRisk, "#ffd262"},
}

// BuildFallbackScenario builds the deterministic stand-in scenario used when
// /api/scenario is unavailable in the priority variant.
func BuildFallbackScenario(sel Selection, catalog []Fire) Scenario {
	return BuildPriorityScenario(SelectionRand(sel), sel, catalog)
}

// BuildPriorityScenario generates a scenario around the selected fire using r
// for coordinate jitter and stats.
func BuildPriorityScenario(r *rand.Rand, sel Selection, catalog []Fire) Scenario {
	fire := FireOrDefault(catalog, sel.FireID)
	stage := StageAt(sel.Timeline)

	layers := make(map[string][]Feature, len(fallbackLayers))
	for _, l := range fallbackLayers {
		features := make([]Feature, 2)
		for i := range features {
			features[i] = Feature{
				Coords:    LatLng{Lat: jitter(r, fire.Lat, 0.25), Lng: jitter(r, fire.Lng, 0.25)},
				Radius:    10000 + r.Float64()*12000,
				Color:     l.color,
				Intensity: clamp(0.55+r.Float64()*0.35, 0.2, 1),
			}
		}
		layers[l.key] = features
	}

	markers := make([]Marker, 3)
	for i := range markers {
		markers[i] = Marker{
			Title:   fmt.Sprintf("Sector %d", i+1),
			Details: "Model hotspot preview based on MTBS-style segmentation.",
			Coords:  LatLng{Lat: jitter(r, fire.Lat, 0.3), Lng: jitter(r, fire.Lng, 0.3)},
		}
	}

	priorities := make([]Priority, 0, len(PriorityOrder))
	for _, k := range PriorityOrder {
		priorities = append(priorities, Priority{
			Label:   k.Label(),
			Score:   float64(sel.Weights.Get(k)),
			Summary: k.Summary(),
		})
	}

	return Scenario{
		Fire:       fire,
		Timeline:   stage,
		Layers:     layers,
		Markers:    markers,
		Priorities: priorities,
		Insights:   fallbackInsights(fire, stage),
		NextSteps:  NextSteps(fire, sel.Weights, stage),
		Stats: Stats{
			Confidence: 0.9,
			Incidents:  6,
			Updated:    fmt.Sprintf("%s · Updated %d mins ago", orDefault(fire.Region, fire.State), r.IntN(60)+10),
			Acres:      fire.Acres,
		},
		MapTip:         fmt.Sprintf("%s · %s", stage.Label, stage.Description),
		SelectedFireID: fire.ID,
		GeneratedAt:    clock.Now(),
	}
}

func fallbackInsights(fire Fire, stage TimelineStage) []Insight {
	return []Insight{
		{
			Category: "Action",
			Title:    "Crew routing",
			Detail: fmt.Sprintf("Assign crews to %s within the %s window.",
				orDefault(fire.Region, "priority sectors"), orDefault(stage.Label, "current")),
		},
		{
			Category: "Monitoring",
			Title:    "Hydrology sensors",
			Detail:   "4 gauges exceeded limits; refresh feeds every 15 minutes.",
		},
		{
			Category: "Community",
			Title:    "Next briefing",
			Detail:   "Push narrated map to the public viewer with a short link.",
		},
	}
}
