// Package mapview projects resolved scenarios onto map overlay state: one
// layer group of circles per risk layer, a hotspot marker group, and a fire
// pin group. Every projection clears and rebuilds the groups it owns, then
// reapplies layer visibility.
package mapview

import (
	"errors"
	"fmt"
	"html"
	"slices"
	"sync"

	"github.com/couchcryptid/terranova-dashboard/internal/domain"
	"github.com/couchcryptid/terranova-dashboard/internal/observability"
)

// Drawing defaults for features that omit a value.
const (
	DefaultRadius = 12000
	DefaultColor  = "#ff6a00"
	CircleWeight  = 1.1
	FocusZoom     = 9
	InitialZoom   = 8

	activePinOpacity   = 1.0
	inactivePinOpacity = 0.85
)

// ErrUnknownLayer is returned when a toggle names a layer the map does not own.
var ErrUnknownLayer = errors.New("unknown layer")

// Circle is one drawn risk-overlay shape.
type Circle struct {
	Center      domain.LatLng `json:"center"`
	Radius      float64       `json:"radius"`
	Color       string        `json:"color"`
	FillColor   string        `json:"fillColor"`
	FillOpacity float64       `json:"fillOpacity"`
	Weight      float64       `json:"weight"`
}

// Pin is a point marker with a popup.
type Pin struct {
	Index   int           `json:"index"`
	FireID  string        `json:"fireId,omitempty"`
	Coords  domain.LatLng `json:"coords"`
	Popup   string        `json:"popup"`
	Opacity float64       `json:"opacity"`
	Active  bool          `json:"active,omitempty"`
}

// LayerGroup is the drawn content of one named overlay. Generation increases
// on every redraw. Attached mirrors the layer toggle.
type LayerGroup struct {
	Key        string   `json:"key"`
	Label      string   `json:"label"`
	Generation uint64   `json:"generation"`
	Attached   bool     `json:"attached"`
	Circles    []Circle `json:"circles"`
}

// View is a point-in-time copy of everything the map shows.
type View struct {
	Center   domain.LatLng `json:"center"`
	Zoom     int           `json:"zoom"`
	Layers   []LayerGroup  `json:"layers"`
	Hotspots []Pin         `json:"hotspots"`
	FirePins []Pin         `json:"firePins"`
}

// Map owns the overlay groups. It is safe for concurrent use.
type Map struct {
	mu       sync.Mutex
	layers   map[string]*LayerGroup
	visible  map[string]bool
	hotspots []Pin
	hotspotF []string // fire id carried by each hotspot, by index
	firePins []Pin
	center   domain.LatLng
	zoom     int
	onSelect func(fireID string)
	metrics  *observability.Metrics
}

// New creates a map centered on the first bundled fire with every layer shown.
func New(metrics *observability.Metrics) *Map {
	m := &Map{
		layers:   make(map[string]*LayerGroup),
		visible:  make(map[string]bool),
		hotspots: []Pin{},
		firePins: []Pin{},
		center:   domain.FallbackFires()[0].Point(),
		zoom:     InitialZoom,
		metrics:  metrics,
	}
	for _, key := range domain.LayerKeys() {
		m.layers[key] = &LayerGroup{Key: key, Label: domain.LayerLabel(key), Attached: true, Circles: []Circle{}}
		m.visible[key] = true
	}
	return m
}

// SetSelectHandler registers the callback run when a pin or hotspot carrying
// a fire id is clicked. The callback runs without the map lock held.
func (m *Map) SetSelectHandler(fn func(fireID string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onSelect = fn
}

// Project redraws every layer and the hotspot group from s, flies to the
// scenario focus, and reapplies layer visibility.
func (m *Map) Project(s domain.Scenario) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, key := range domain.LayerKeys() {
		m.redrawLayer(key, s.Layers[key])
	}
	m.redrawHotspots(s.Markers)

	if focus, ok := s.Focus(); ok {
		m.center = focus
		m.zoom = FocusZoom
		if s.Zoom > 0 {
			m.zoom = s.Zoom
		}
	}
	m.syncVisibility()
}

func (m *Map) redrawLayer(key string, features []domain.Feature) {
	g := m.layers[key]
	g.Circles = make([]Circle, 0, len(features))
	for _, f := range features {
		if f.Coords.IsZero() {
			continue
		}
		g.Circles = append(g.Circles, circleFor(f))
	}
	g.Generation++
	if m.metrics != nil {
		m.metrics.LayerRedraws.WithLabelValues(key).Inc()
	}
}

func circleFor(f domain.Feature) Circle {
	radius := f.Radius
	if radius <= 0 {
		radius = DefaultRadius
	}
	color := f.Color
	if color == "" {
		color = DefaultColor
	}
	return Circle{
		Center:      f.Coords,
		Radius:      radius,
		Color:       color,
		FillColor:   color,
		FillOpacity: FillOpacity(f.Intensity),
		Weight:      CircleWeight,
	}
}

// FillOpacity scales an intensity in [0,1] into [0.15,0.50].
func FillOpacity(intensity float64) float64 {
	intensity = min(max(intensity, 0), 1)
	return 0.15 + intensity*0.35
}

func (m *Map) redrawHotspots(markers []domain.Marker) {
	m.hotspots = make([]Pin, 0, len(markers))
	m.hotspotF = m.hotspotF[:0]
	for _, mk := range markers {
		if mk.Coords.IsZero() {
			continue
		}
		title := mk.Title
		if title == "" {
			title = "Sector"
		}
		m.hotspots = append(m.hotspots, Pin{
			Index:   len(m.hotspots),
			FireID:  mk.FireID,
			Coords:  mk.Coords,
			Popup:   popup(title, mk.Details),
			Opacity: activePinOpacity,
		})
		m.hotspotF = append(m.hotspotF, mk.FireID)
	}
}

// RenderFirePins redraws one pin per catalog fire that has a location.
func (m *Map) RenderFirePins(catalog []domain.Fire, activeID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.firePins = make([]Pin, 0, len(catalog))
	for _, f := range catalog {
		if !f.HasPoint() {
			continue
		}
		active := f.ID == activeID
		opacity := inactivePinOpacity
		if active {
			opacity = activePinOpacity
		}
		m.firePins = append(m.firePins, Pin{
			Index:   len(m.firePins),
			FireID:  f.ID,
			Coords:  f.Point(),
			Popup:   popup(f.Name, f.Region),
			Opacity: opacity,
			Active:  active,
		})
	}
}

func popup(title, body string) string {
	return fmt.Sprintf("<strong>%s</strong><p>%s</p>", html.EscapeString(title), html.EscapeString(body))
}

// SetLayerVisible attaches or detaches a layer without touching its shapes.
func (m *Map) SetLayerVisible(key string, on bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.layers[key]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLayer, key)
	}
	m.visible[key] = on
	m.syncVisibility()
	return nil
}

// LayerVisible reports the toggle state for a layer.
func (m *Map) LayerVisible(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.visible[key]
}

func (m *Map) syncVisibility() {
	for key, g := range m.layers {
		g.Attached = m.visible[key]
	}
}

// ClickHotspot simulates a click on the i-th hotspot marker. It reports the
// fire id the click selected, if any.
func (m *Map) ClickHotspot(i int) (string, bool) {
	m.mu.Lock()
	if i < 0 || i >= len(m.hotspotF) || m.hotspotF[i] == "" {
		m.mu.Unlock()
		return "", false
	}
	id, fn := m.hotspotF[i], m.onSelect
	m.mu.Unlock()

	if fn != nil {
		fn(id)
	}
	return id, true
}

// ClickFirePin simulates a click on the pin for fireID.
func (m *Map) ClickFirePin(fireID string) bool {
	m.mu.Lock()
	found := slices.ContainsFunc(m.firePins, func(p Pin) bool { return p.FireID == fireID })
	fn := m.onSelect
	m.mu.Unlock()

	if !found {
		return false
	}
	if fn != nil {
		fn(fireID)
	}
	return true
}

// Snapshot returns a deep copy of the current map state, layers in draw order.
func (m *Map) Snapshot() View {
	m.mu.Lock()
	defer m.mu.Unlock()

	v := View{
		Center:   m.center,
		Zoom:     m.zoom,
		Layers:   make([]LayerGroup, 0, len(m.layers)),
		Hotspots: slices.Clone(m.hotspots),
		FirePins: slices.Clone(m.firePins),
	}
	for _, key := range domain.LayerKeys() {
		g := *m.layers[key]
		g.Circles = slices.Clone(g.Circles)
		v.Layers = append(v.Layers, g)
	}
	return v
}

// Layer returns a copy of one layer group.
func (m *Map) Layer(key string) (LayerGroup, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.layers[key]
	if !ok {
		return LayerGroup{}, false
	}
	out := *g
	out.Circles = slices.Clone(g.Circles)
	return out, true
}
