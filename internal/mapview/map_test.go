package mapview

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/terranova-dashboard/internal/domain"
	"github.com/couchcryptid/terranova-dashboard/internal/observability"
)

func testScenario() domain.Scenario {
	return domain.Scenario{
		Fire: domain.Fire{ID: "camp-fire-2018", Name: "Camp Fire", Lat: 39.73, Lng: -121.6},
		Layers: map[string][]domain.Feature{
			domain.LayerBurnSeverity: {
				{Coords: domain.LatLng{Lat: 39.7, Lng: -121.5}, Radius: 15000, Color: "#ff4e1f", Intensity: 0.8},
				{Coords: domain.LatLng{Lat: 39.8, Lng: -121.7}, Intensity: 0},
			},
			domain.LayerErosionRisk: {
				{Coords: domain.LatLng{}, Radius: 9000}, // no coordinates, skipped
				{Coords: domain.LatLng{Lat: 39.6, Lng: -121.4}, Radius: 9000, Color: "#d16cff", Intensity: 1.4},
			},
		},
		Markers: []domain.Marker{
			{Title: "Sector 1", Details: "Hotspot", Coords: domain.LatLng{Lat: 39.71, Lng: -121.61}},
			{FireID: "home-buyer-fire-1", Title: "", Details: "Ridge", Coords: domain.LatLng{Lat: 39.75, Lng: -121.62}},
		},
	}
}

func TestProject_DrawsCircles(t *testing.T) {
	m := New(observability.NewMetricsForTesting())
	m.Project(testScenario())

	burn, ok := m.Layer(domain.LayerBurnSeverity)
	require.True(t, ok)
	require.Len(t, burn.Circles, 2)
	assert.Equal(t, 15000.0, burn.Circles[0].Radius)
	assert.InDelta(t, 0.15+0.8*0.35, burn.Circles[0].FillOpacity, 1e-9)
	assert.Equal(t, "#ff4e1f", burn.Circles[0].FillColor)
	assert.Equal(t, CircleWeight, burn.Circles[0].Weight)

	// Defaults for missing radius and color.
	assert.Equal(t, float64(DefaultRadius), burn.Circles[1].Radius)
	assert.Equal(t, DefaultColor, burn.Circles[1].Color)
	assert.InDelta(t, 0.15, burn.Circles[1].FillOpacity, 1e-9)

	erosion, _ := m.Layer(domain.LayerErosionRisk)
	require.Len(t, erosion.Circles, 1)
	assert.InDelta(t, 0.50, erosion.Circles[0].FillOpacity, 1e-9, "intensity clamps to 1")

	water, _ := m.Layer(domain.LayerWatershedStress)
	assert.Empty(t, water.Circles)
}

func TestProject_ReplacesWholesale(t *testing.T) {
	m := New(nil)
	m.Project(testScenario())
	first, _ := m.Layer(domain.LayerBurnSeverity)

	next := testScenario()
	next.Layers = map[string][]domain.Feature{}
	next.Markers = nil
	m.Project(next)

	burn, _ := m.Layer(domain.LayerBurnSeverity)
	assert.Empty(t, burn.Circles)
	assert.Equal(t, first.Generation+1, burn.Generation)
	assert.Empty(t, m.Snapshot().Hotspots)
}

func TestProject_FliesToFocus(t *testing.T) {
	m := New(nil)
	s := testScenario()
	m.Project(s)
	v := m.Snapshot()
	assert.Equal(t, s.Fire.Point(), v.Center)
	assert.Equal(t, FocusZoom, v.Zoom)

	center := domain.LatLng{Lat: 45, Lng: -120}
	s.Center = &center
	s.Zoom = 11
	m.Project(s)
	v = m.Snapshot()
	assert.Equal(t, center, v.Center)
	assert.Equal(t, 11, v.Zoom)
}

func TestProject_HotspotPopups(t *testing.T) {
	m := New(nil)
	m.Project(testScenario())

	v := m.Snapshot()
	require.Len(t, v.Hotspots, 2)
	assert.Equal(t, "<strong>Sector 1</strong><p>Hotspot</p>", v.Hotspots[0].Popup)
	assert.Equal(t, "<strong>Sector</strong><p>Ridge</p>", v.Hotspots[1].Popup)
	assert.Equal(t, "home-buyer-fire-1", v.Hotspots[1].FireID)
}

func TestToggleOffOn_RestoresSameShapes(t *testing.T) {
	m := New(nil)
	m.Project(testScenario())
	before := m.Snapshot()

	require.NoError(t, m.SetLayerVisible(domain.LayerBurnSeverity, false))
	off, _ := m.Layer(domain.LayerBurnSeverity)
	assert.False(t, off.Attached)

	require.NoError(t, m.SetLayerVisible(domain.LayerBurnSeverity, true))
	after := m.Snapshot()

	if diff := cmp.Diff(before, after); diff != "" {
		t.Errorf("snapshot changed after toggle off/on (-before +after):\n%s", diff)
	}
}

func TestVisibilityReappliedAfterRedraw(t *testing.T) {
	m := New(nil)
	require.NoError(t, m.SetLayerVisible(domain.LayerErosionRisk, false))

	m.Project(testScenario())
	erosion, _ := m.Layer(domain.LayerErosionRisk)
	assert.False(t, erosion.Attached, "hidden layer stays hidden after redraw")
	assert.Len(t, erosion.Circles, 1, "hidden layer is still redrawn")

	burn, _ := m.Layer(domain.LayerBurnSeverity)
	assert.True(t, burn.Attached)
}

func TestSetLayerVisible_Unknown(t *testing.T) {
	m := New(nil)
	err := m.SetLayerVisible("lava", true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownLayer))
}

func TestRenderFirePins(t *testing.T) {
	m := New(nil)
	catalog := append(domain.FallbackFires(), domain.Fire{ID: "nowhere", Name: "No location"})
	m.RenderFirePins(catalog, "dixie-fire-2021")

	pins := m.Snapshot().FirePins
	require.Len(t, pins, 4, "fires without a location get no pin")
	for _, p := range pins {
		if p.FireID == "dixie-fire-2021" {
			assert.True(t, p.Active)
			assert.Equal(t, 1.0, p.Opacity)
		} else {
			assert.False(t, p.Active)
			assert.Equal(t, 0.85, p.Opacity)
		}
	}
	assert.Contains(t, pins[0].Popup, "<strong>Camp Fire</strong>")
}

func TestClicks_DispatchSelection(t *testing.T) {
	m := New(nil)
	var selected []string
	m.SetSelectHandler(func(id string) { selected = append(selected, id) })

	m.Project(testScenario())
	m.RenderFirePins(domain.FallbackFires(), "camp-fire-2018")

	_, ok := m.ClickHotspot(0)
	assert.False(t, ok, "hotspot without a fire id selects nothing")

	id, ok := m.ClickHotspot(1)
	assert.True(t, ok)
	assert.Equal(t, "home-buyer-fire-1", id)

	assert.True(t, m.ClickFirePin("maui-fire-2023"))
	assert.False(t, m.ClickFirePin("unknown"))

	_, ok = m.ClickHotspot(7)
	assert.False(t, ok)

	assert.Equal(t, []string{"home-buyer-fire-1", "maui-fire-2023"}, selected)
}

func TestFillOpacity_Range(t *testing.T) {
	assert.InDelta(t, 0.15, FillOpacity(-1), 1e-9)
	assert.InDelta(t, 0.325, FillOpacity(0.5), 1e-9)
	assert.InDelta(t, 0.50, FillOpacity(3), 1e-9)
}
