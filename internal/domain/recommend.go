package domain

import (
	"fmt"
	"strings"
)

// RecommendationTemplate returns the fixed actions for a focus priority.
// Unknown keys get the community template.
func RecommendationTemplate(focus PriorityKey, fire Fire) []string {
	switch focus {
	case PriorityWatershed:
		return []string{
			"Deploy BAER crews to mulch high-severity headwaters.",
			"Stage sediment-control wattles upstream of drinking water intakes.",
		}
	case PriorityInfrastructure:
		return []string{
			"Inspect transmission lines and primary transportation corridors.",
			"Patch scorched culverts with quick-build materials.",
		}
	default:
		return []string{
			fmt.Sprintf("Pre-position structure protection teams near the %s.", orDefault(fire.Region, "WUI fringe")),
			"Publish a plain-language alert that outlines open roads and shelters.",
		}
	}
}

// NextSteps derives the fallback action plan from the priority weights: the
// dominant priority picks a template, and a briefing step for the current
// stage is always appended.
func NextSteps(fire Fire, weights PriorityWeights, stage TimelineStage) []string {
	steps := RecommendationTemplate(weights.Dominant(), fire)
	label := strings.ToLower(stage.Label)
	if label == "" {
		label = "current"
	}
	return append(steps, fmt.Sprintf("Refresh the %s briefing and send to local EOCs.", label))
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
