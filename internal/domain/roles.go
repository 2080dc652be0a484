package domain

import (
	"cmp"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
)

// Role variant defaults.
const (
	DefaultRole    = "home-buyer"
	DefaultHorizon = 3
	MinHorizon     = 1
	MaxHorizon     = 10
)

const roleMapTip = "Tap a marker to inspect burn intensity, debris flow likelihood, and recommended actions."

type markerSeed struct {
	title   string
	details string
	coords  LatLng
}

type layerSeed struct {
	key      string
	features []Feature
}

type weightSeed struct {
	label  string
	weight float64
}

// RoleProfile seeds the synthetic scenario for one audience.
type RoleProfile struct {
	Key      string
	Label    string
	Location string
	Center   LatLng
	Zoom     int

	markers  []markerSeed
	layers   []layerSeed
	weights  []weightSeed
	insights []Insight
}

func seed(lat, lng, radius float64, color string) Feature {
	return Feature{Coords: LatLng{Lat: lat, Lng: lng}, Radius: radius, Color: color}
}

var roleProfiles = []RoleProfile{
	{
		Key:      "home-buyer",
		Label:    "Home buyer",
		Location: "Feather River Canyon",
		Center:   LatLng{Lat: 39.54, Lng: -121.48},
		Zoom:     9,
		markers: []markerSeed{
			{"Feather River Canyon", "High burn severity. Prioritize culvert clearing and hydrophobic soil treatment.", LatLng{Lat: 39.54, Lng: -121.48}},
			{"Mosquito Ridge", "Roadside slopes losing cohesion. Deploy wattles and monitor slope stability.", LatLng{Lat: 39.26, Lng: -120.97}},
		},
		layers: []layerSeed{
			{LayerBurnSeverity, []Feature{seed(39.3, -121.2, 22000, "#ff4e1f"), seed(39.6, -121.0, 15000, "#ff9b2f")}},
			{LayerFloodRisk, []Feature{seed(39.1, -121.4, 26000, "#33b5ff"), seed(39.55, -121.65, 18000, "#1f7bdc")}},
			{LayerErosionRisk, []Feature{seed(39.4, -120.9, 19000, "#d16cff")}},
			{LayerSoilStability, []Feature{seed(39.5, -121.2, 24000, "#93c47d")}},
		},
		weights: []weightSeed{
			{"Rebuild risk protection", 0.95},
			{"Flood risk protection", 0.75},
			{"Habitat stability", 0.45},
			{"Infrastructure", 0.65},
		},
		insights: []Insight{
			{"Action", "Deploy wattles on Mosquito Ridge Rd.", "High debris risk · due 12 hrs"},
			{"Monitoring", "Stream gauges synced · 4 anomalies", "Sent to hydrology team"},
			{"Community", "Town hall briefing ready", "Shareable guest link active"},
			{"Action", "Inspect culverts near Yankee Jims Rd.", "Post-storm inspection route drafted"},
		},
	},
	{
		Key:      "land-manager",
		Label:    "Land manager",
		Location: "South Lake Tahoe Rim",
		Center:   LatLng{Lat: 38.95, Lng: -120.11},
		Zoom:     9,
		markers: []markerSeed{
			{"South Lake Tahoe Rim", "Moderate burn zone. Focus on debris flow barriers and reseeding native grasses.", LatLng{Lat: 38.95, Lng: -120.11}},
			{"Echo Summit", "Granite faces shedding rockfall when saturated. Stage mesh netting.", LatLng{Lat: 38.82, Lng: -120.04}},
		},
		layers: []layerSeed{
			{LayerBurnSeverity, []Feature{seed(38.9, -120.3, 20000, "#ff4e1f"), seed(39.05, -119.9, 14000, "#ff9b2f")}},
			{LayerFloodRisk, []Feature{seed(38.85, -120.15, 24000, "#33b5ff")}},
			{LayerErosionRisk, []Feature{seed(38.78, -120.05, 15000, "#d16cff"), seed(38.93, -120.22, 13000, "#d16cff")}},
			{LayerSoilStability, []Feature{seed(38.96, -120.05, 21000, "#93c47d")}},
		},
		weights: []weightSeed{
			{"Rebuild risk protection", 0.65},
			{"Flood risk protection", 0.7},
			{"Habitat stability", 0.9},
			{"Infrastructure", 0.6},
		},
		insights: []Insight{
			{"Action", "Stage mulching crews near Fallen Leaf Lake", "Scarp erosion accelerating"},
			{"Monitoring", "Drone pass confirmed regrowth plots", "NDVI improving +6%"},
			{"Community", "Brief tribal partners on reseeding plan", "Meeting scheduled 08:00 PST"},
			{"Action", "Coordinate BAER crews with CAL FIRE", "Stabilize ridgelines before storm"},
		},
	},
	{
		Key:      "county-planner",
		Label:    "County planner",
		Location: "Shasta foothills",
		Center:   LatLng{Lat: 40.38, Lng: -122.15},
		Zoom:     8,
		markers: []markerSeed{
			{"Shasta foothills", "Critical habitat overlap. Align BAER crews with CAL FIRE task force.", LatLng{Lat: 40.38, Lng: -122.15}},
			{"Trinity Corridor", "Debris basins at 68% capacity. Plan mechanical clearing.", LatLng{Lat: 40.7, Lng: -122.9}},
		},
		layers: []layerSeed{
			{LayerBurnSeverity, []Feature{seed(40.2, -122.3, 26000, "#ff4e1f")}},
			{LayerFloodRisk, []Feature{seed(40.4, -122.0, 28000, "#33b5ff"), seed(40.55, -122.45, 20000, "#1f7bdc")}},
			{LayerErosionRisk, []Feature{seed(40.1, -121.8, 21000, "#d16cff")}},
			{LayerSoilStability, []Feature{seed(40.45, -122.25, 25000, "#93c47d")}},
		},
		weights: []weightSeed{
			{"Rebuild risk protection", 0.7},
			{"Flood risk protection", 0.8},
			{"Habitat stability", 0.6},
			{"Infrastructure", 0.9},
		},
		insights: []Insight{
			{"Action", "Fast-track culvert permits in Happy Valley", "Permit queue trimmed to 4 hrs"},
			{"Monitoring", "Telemetry: 7 pump stations at alert", "Dispatch crews before 22:00"},
			{"Community", "County briefing deck synced to portal", "Share with Board of Sups"},
			{"Action", "Update evacuation trigger zones", "Model shift accounts for debris flow"},
		},
	},
}

// Roles returns the known role profiles in chip order.
func Roles() []RoleProfile {
	return slices.Clone(roleProfiles)
}

// NormalizeRole maps free-form role input ("Land Manager") to a profile key,
// defaulting to DefaultRole for unknown roles.
func NormalizeRole(role string) string {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(role)), " ", "-")
	if _, ok := roleProfile(key); ok {
		return key
	}
	return DefaultRole
}

// ClampHorizon bounds a horizon in years to [MinHorizon, MaxHorizon].
func ClampHorizon(h int) int {
	return max(MinHorizon, min(MaxHorizon, h))
}

func roleProfile(key string) (RoleProfile, bool) {
	i := slices.IndexFunc(roleProfiles, func(p RoleProfile) bool { return p.Key == key })
	if i < 0 {
		return RoleProfile{}, false
	}
	return roleProfiles[i], true
}

// BuildRoleScenario generates a role-variant scenario. fireID selects the
// marker the layers cluster around; an empty or unknown id (such as a catalog
// fire) focuses the first marker.
func BuildRoleScenario(r *rand.Rand, role string, horizon int, fireID string) Scenario {
	key := NormalizeRole(role)
	profile, _ := roleProfile(key)
	horizon = ClampHorizon(horizon)

	priorities := rolePriorities(r, profile, horizon)
	markers := roleMarkers(r, profile)

	var focus *Marker
	for i := range markers {
		if markers[i].FireID == fireID {
			focus = &markers[i]
			break
		}
	}
	if focus == nil && len(markers) > 0 {
		focus = &markers[0]
	}
	var selected string
	if focus != nil {
		selected = focus.FireID
	}

	var fire Fire
	var focusCoords *LatLng
	if focus != nil {
		fire = Fire{ID: focus.FireID, Name: focus.Title, Lat: focus.Coords.Lat, Lng: focus.Coords.Lng, Region: profile.Location}
		focusCoords = &focus.Coords
	}

	center := profile.Center
	return Scenario{
		Fire:       fire,
		Layers:     roleLayers(r, profile, horizon, focusCoords),
		Markers:    markers,
		Priorities: priorities,
		Insights:   roleInsights(r, profile),
		Stats: Stats{
			Confidence: round(uniform(r, 0.85, 0.97), 2),
			Incidents:  intBetween(r, 5, 9),
			Updated:    fmt.Sprintf("%s · Updated %d mins ago", profile.Location, intBetween(r, 30, 120)),
		},
		MapTip:         roleMapTip,
		Role:           profile.Label,
		RoleKey:        profile.Key,
		SelectedFireID: selected,
		Center:         &center,
		Zoom:           profile.Zoom,
		GeneratedAt:    clock.Now().UTC(),
	}
}

// BuildRoleFallback is the deterministic role-variant stand-in. It adds the
// selection's timeline stage and weight-driven next steps, which the role
// backend does not send.
func BuildRoleFallback(sel Selection) Scenario {
	s := BuildRoleScenario(SelectionRand(sel), sel.Role, sel.Horizon, sel.FireID)
	s.Timeline = StageAt(sel.Timeline)
	s.NextSteps = NextSteps(s.Fire, sel.Weights, s.Timeline)
	return s
}

func rolePriorities(r *rand.Rand, p RoleProfile, horizon int) []Priority {
	factor := float64(horizon-3) / 14
	out := make([]Priority, 0, len(p.weights))
	for _, w := range p.weights {
		base := clamp(w.weight+uniform(r, -0.07, 0.07), 0, 1)
		adjusted := clamp(base+factor*(0.5-w.weight), 0, 1)
		out = append(out, Priority{Label: w.label, Score: float64(int(adjusted*100 + 0.5))})
	}
	slices.SortStableFunc(out, func(a, b Priority) int { return cmp.Compare(b.Score, a.Score) })
	return out
}

func roleMarkers(r *rand.Rand, p RoleProfile) []Marker {
	out := make([]Marker, 0, len(p.markers))
	for i, m := range p.markers {
		details := m.details
		if r.Float64() < 0.4 {
			details += " Incoming storm cell raises priority."
		}
		out = append(out, Marker{
			FireID:  fmt.Sprintf("%s-fire-%d", p.Key, i),
			Title:   m.title,
			Details: details,
			Coords: LatLng{
				Lat: round(jitter(r, m.coords.Lat, 0.06), 4),
				Lng: round(jitter(r, m.coords.Lng, 0.06), 4),
			},
		})
	}
	return out
}

// roleLayers clusters the seeded features around focus when set. Longer
// horizons stretch footprints and decay intensity to mimic recovery.
func roleLayers(r *rand.Rand, p RoleProfile, horizon int, focus *LatLng) map[string][]Feature {
	factor := clamp(float64(horizon)/10, 0.1, 1)
	const recoveryRate = 0.4

	out := make(map[string][]Feature, len(p.layers))
	for _, l := range p.layers {
		features := make([]Feature, 0, len(l.features))
		for _, f := range l.features {
			lat, lng := f.Coords.Lat, f.Coords.Lng
			if focus != nil {
				lat = (lat + focus.Lat) / 2
				lng = (lng + focus.Lng) / 2
			}
			radiusScale := 0.85 + factor*0.4
			intensity := clamp(uniform(r, 0.55, 0.98)*(1-recoveryRate*(factor-0.1)), 0, 1)
			coords := LatLng{Lat: round(jitter(r, lat, 0.18), 4), Lng: round(jitter(r, lng, 0.18), 4)}
			features = append(features, Feature{
				Coords:    coords,
				Radius:    float64(int(f.Radius * radiusScale * uniform(r, 0.9, 1.15))),
				Color:     f.Color,
				Intensity: round(intensity, 2),
			})
		}
		out[l.key] = features
	}
	return out
}

func roleInsights(r *rand.Rand, p RoleProfile) []Insight {
	k := min(3, len(p.insights))
	picks := r.Perm(len(p.insights))[:k]
	out := make([]Insight, 0, k)
	for _, i := range picks {
		in := p.insights[i]
		if strings.Contains(in.Detail, "due") && r.Float64() < 0.5 {
			in.Detail = fmt.Sprintf("Due in %d hrs · auto-routed", intBetween(r, 6, 18))
		}
		out = append(out, in)
	}
	return out
}
