package domain

// TimelineStage is one of the five fixed post-fire phases.
type TimelineStage struct {
	Value       int    `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// DefaultTimeline is the stage index selected at load.
const DefaultTimeline = 2

var timelineStages = [...]TimelineStage{
	{Value: 0, Label: "Pre-fire baseline", Description: "Vegetation health before ignition"},
	{Value: 1, Label: "Active response (Day 0)", Description: "Fire perimeter with live suppression actions"},
	{Value: 2, Label: "Initial assessment (Day 7)", Description: "First MTBS-inspired burn severity mapping"},
	{Value: 3, Label: "Stabilization phase (Day 30)", Description: "Treatment crews in the field; erosion control active"},
	{Value: 4, Label: "Recovery outlook (Year 1)", Description: "Predicted vegetation recovery and infrastructure repairs"},
}

// TimelineStages returns the stages in ordinal order.
func TimelineStages() []TimelineStage {
	stages := timelineStages
	return stages[:]
}

// StageAt returns the stage for index i, or the default stage when i is out
// of range.
func StageAt(i int) TimelineStage {
	if i < 0 || i >= len(timelineStages) {
		return timelineStages[DefaultTimeline]
	}
	return timelineStages[i]
}
