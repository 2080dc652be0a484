package domain

import "slices"

// Merge layers a server payload over a fallback scenario and returns a new,
// complete Scenario. Neither input is modified and the result shares no
// slices or maps with them.
//
//   - scalars (fire, timeline, tip, role, center, zoom, ...): payload when present
//   - stats and layers: key-wise union favoring the payload
//   - markers, priorities, insights, next steps: payload only when non-empty
func Merge(payload ScenarioPayload, fallback Scenario) Scenario {
	out := Scenario{
		Fire:           fallback.Fire,
		Timeline:       fallback.Timeline,
		Stats:          fallback.Stats,
		MapTip:         fallback.MapTip,
		Role:           fallback.Role,
		RoleKey:        fallback.RoleKey,
		SelectedFireID: fallback.SelectedFireID,
		Zoom:           fallback.Zoom,
		GeneratedAt:    fallback.GeneratedAt,
	}
	if fallback.Center != nil {
		c := *fallback.Center
		out.Center = &c
	}

	if payload.Fire != nil {
		out.Fire = *payload.Fire
	}
	if payload.Timeline != nil {
		out.Timeline = *payload.Timeline
	}
	setIfPresent(&out.MapTip, payload.MapTip)
	setIfPresent(&out.Role, payload.Role)
	setIfPresent(&out.RoleKey, payload.RoleKey)
	setIfPresent(&out.SelectedFireID, payload.SelectedFireID)
	setIfPresent(&out.Zoom, payload.Zoom)
	setIfPresent(&out.GeneratedAt, payload.GeneratedAt)
	if payload.Center != nil {
		c := *payload.Center
		out.Center = &c
	}

	if payload.Stats != nil {
		setIfPresent(&out.Stats.Confidence, payload.Stats.Confidence)
		setIfPresent(&out.Stats.Incidents, payload.Stats.Incidents)
		setIfPresent(&out.Stats.Updated, payload.Stats.Updated)
		setIfPresent(&out.Stats.Acres, payload.Stats.Acres)
	}

	out.Layers = make(map[string][]Feature, len(fallback.Layers)+len(payload.Layers))
	for k, v := range fallback.Layers {
		out.Layers[k] = slices.Clone(v)
	}
	for k, v := range payload.Layers {
		out.Layers[k] = slices.Clone(v)
	}

	out.Markers = preferNonEmpty(payload.Markers, fallback.Markers)
	out.Priorities = preferNonEmpty(payload.Priorities, fallback.Priorities)
	out.Insights = preferNonEmpty(payload.Insights, fallback.Insights)
	out.NextSteps = preferNonEmpty(payload.NextSteps, fallback.NextSteps)

	return out
}

func setIfPresent[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// preferNonEmpty returns a copy of primary when it has entries, else a copy
// of fallback. The result is never nil.
func preferNonEmpty[T any](primary, fallback []T) []T {
	src := primary
	if len(src) == 0 {
		src = fallback
	}
	out := make([]T, len(src))
	copy(out, src)
	return out
}
