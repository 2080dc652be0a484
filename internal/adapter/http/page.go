package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"os"
	"time"

	"github.com/couchcryptid/terranova-dashboard/internal/domain"
)

// PageData feeds the dashboard template.
type PageData struct {
	ViewResponse
	APIBase     string
	LastUpdated string
	Stages      []domain.TimelineStage
	Roles       []domain.RoleProfile
	Years       []int
	Months      []string
	Layers      []layerToggle
	ViewJSON    template.JS
	Static      bool
}

type layerToggle struct {
	Key   string
	Label string
	On    bool
}

// NewPageData builds template data from a view snapshot.
func NewPageData(v ViewResponse, apiBase string) PageData {
	layers := make([]layerToggle, 0, len(domain.LayerKeys()))
	for _, k := range domain.LayerKeys() {
		layers = append(layers, layerToggle{Key: k, Label: domain.LayerLabel(k), On: v.State.Layers[k]})
	}
	months := make([]string, 12)
	for i := range months {
		months[i] = time.Month(i + 1).String()
	}
	return PageData{
		ViewResponse: v,
		APIBase:      apiBase,
		LastUpdated:  time.Now().UTC().Format("Jan 2, 2006 at 15:04 UTC"),
		Stages:       domain.TimelineStages(),
		Roles:        domain.Roles(),
		Years:        domain.SearchYears(),
		Months:       months,
		Layers:       layers,
	}
}

var pageTemplate = template.Must(template.New("dashboard").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(pageHTML))

// RenderPage writes the dashboard HTML for data to w.
func RenderPage(w io.Writer, data PageData) error {
	b, err := json.Marshal(data.ViewResponse)
	if err != nil {
		return fmt.Errorf("marshal view: %w", err)
	}
	data.ViewJSON = template.JS(b)
	return pageTemplate.Execute(w, data)
}

// WritePageFile renders a static dashboard to path. It writes a temp file
// and renames it so readers never see a partial page.
func WritePageFile(path string, data PageData) error {
	data.Static = true
	var buf bytes.Buffer
	if err := RenderPage(&buf, data); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write tmp failed: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename failed: %w", err)
	}
	return nil
}

const pageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8"/>
  <meta name="viewport" content="width=device-width, initial-scale=1"/>
  <title>TerraNova · {{ .Panel.FireTitle }}</title>
  <link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css"/>
  <style>
    :root { --bg: #101418; --card: #1a2027; --text: #e6e9ec; --muted: #8a949e; --accent: #ff6a00; }
    body { margin: 0; font-family: system-ui, sans-serif; background: var(--bg); color: var(--text); display: grid; grid-template-columns: 300px 1fr 340px; height: 100vh; }
    aside, section { padding: 16px; overflow-y: auto; }
    #map { height: 100%; }
    .card, .fire-card, .priority-card, article { background: var(--card); border-radius: 6px; padding: 10px; margin-bottom: 8px; display: block; }
    .fire-card.active { outline: 2px solid var(--accent); }
    .muted { color: var(--muted); }
    .small { font-size: 0.85em; }
    .badge { float: right; color: var(--accent); }
    .rail-label { text-transform: uppercase; font-size: 0.7em; color: var(--muted); margin: 0; }
  </style>
</head>
<body>
<aside>
  <h2>Fires</h2>
  <div class="card">
    <input data-search-input placeholder="State" value="{{ .State.Query }}" autocomplete="off"/>
    {{ if .State.SuggestionsVisible }}
    <div data-autocomplete-suggestions>
      {{ range $i, $s := .State.Suggestions }}
      <div class="autocomplete-item{{ if eq $i $.State.SuggestionIndex }} selected{{ end }}" data-suggestion-index="{{ $i }}">
        <strong>{{ $s.Code }}</strong> {{ $s.Name }}
      </div>
      {{ end }}
    </div>
    {{ end }}
    <select data-year-select>
      <option value="">Year</option>
      {{ range .Years }}<option value="{{ . }}"{{ if eq . $.State.Search.Year }} selected{{ end }}>{{ . }}</option>{{ end }}
    </select>
    <select data-month-select>
      <option value="">Month</option>
      {{ range $i, $m := .Months }}<option value="{{ inc $i }}"{{ if eq (inc $i) $.State.Search.Month }} selected{{ end }}>{{ $m }}</option>{{ end }}
    </select>
    <button data-search-btn{{ if not .SearchEnabled }} disabled{{ end }}>Search</button>
  </div>
  <div data-fire-list>
    {{ range .Panel.FireList }}
    <button class="fire-card{{ if .Active }} active{{ end }}" title="Focus on {{ .Name }}" data-fire-id="{{ .ID }}">
      <strong>{{ .Name }}</strong> <span class="badge">{{ .Badge }}</span><br/>
      <span class="muted small">{{ .Meta }}</span>
    </button>
    {{ end }}
  </div>
</aside>
<main>
  <div id="map"></div>
</main>
<section>
  <h1 data-fire-title>{{ .Panel.FireTitle }}</h1>
  <p class="muted" data-fire-meta>{{ .Panel.FireMeta }}</p>
  <h2 data-map-headline>{{ .Panel.MapHeadline }}</h2>
  <p data-map-subhead>{{ .Panel.MapSubhead }}</p>
  <p class="muted small" data-map-tip>{{ .Panel.MapTip }}</p>
  <div class="card">
    <span data-confidence>{{ .Panel.Confidence }}</span> confidence ·
    <span data-incidents>{{ .Panel.Incidents }}</span>
  </div>

  {{ if .State.RoleVariant }}
  <div class="card" data-roles>
    {{ range .Roles }}<button data-role="{{ .Key }}"{{ if eq .Key $.State.Selection.Role }} class="active"{{ end }}>{{ .Label }}</button>{{ end }}
    <label>Horizon <input type="range" min="1" max="10" value="{{ .State.Selection.Horizon }}" data-horizon-slider/></label>
  </div>
  {{ else }}
  <div class="card">
    <label>Community <span data-priority-value="community">{{ index .Panel.PriorityValues "community" }}</span>
      <input type="range" min="0" max="100" value="{{ .State.Selection.Weights.Community }}" data-priority-slider="community"/></label>
    <label>Watershed <span data-priority-value="watershed">{{ index .Panel.PriorityValues "watershed" }}</span>
      <input type="range" min="0" max="100" value="{{ .State.Selection.Weights.Watershed }}" data-priority-slider="watershed"/></label>
    <label>Infrastructure <span data-priority-value="infrastructure">{{ index .Panel.PriorityValues "infrastructure" }}</span>
      <input type="range" min="0" max="100" value="{{ .State.Selection.Weights.Infrastructure }}" data-priority-slider="infrastructure"/></label>
  </div>
  {{ end }}

  <div class="card">
    <select data-forecast-select>
      {{ range .Stages }}<option value="{{ .Value }}"{{ if eq .Value $.State.Selection.Timeline }} selected{{ end }}>{{ .Label }}</option>{{ end }}
    </select>
    <strong data-forecast-label>{{ .Panel.ForecastLabel }}</strong>
    <p class="muted small" data-forecast-desc>{{ .Panel.ForecastDesc }}</p>
  </div>

  <div class="card">
    {{ range .Layers }}
    <label class="layer"><input type="checkbox" data-layer="{{ .Key }}"{{ if .On }} checked{{ end }}/> <span>{{ .Label }}</span></label><br/>
    {{ end }}
  </div>

  <div data-priorities>
    {{ range .Panel.Priorities }}
    <div class="priority-card"><strong>{{ .Heading }}</strong><br/><span>{{ .Summary }}</span></div>
    {{ else }}
    <p class="muted small">{{ .Panel.PrioritiesPlaceholder }}</p>
    {{ end }}
  </div>

  <div data-insights>
    {{ range .Panel.Insights }}
    <article><p class="rail-label">{{ .Category }}</p><strong>{{ .Title }}</strong><br/><span>{{ .Detail }}</span></article>
    {{ end }}
  </div>

  <div data-next-steps>
    <h3>Next steps</h3>
    {{ if .Panel.NextSteps }}
    <ul>{{ range .Panel.NextSteps }}<li>{{ . }}</li>{{ end }}</ul>
    {{ else }}
    <p class="muted small">{{ .Panel.NextStepsPlaceholder }}</p>
    {{ end }}
  </div>

  <div class="card">
    <input data-qna-input placeholder="Ask about this fire"/>
    <button data-qna-submit>Ask</button>
    <div data-qna-response>{{ with .Panel.Answer }}<p>{{ . }}</p>{{ end }}</div>
  </div>
  <p class="muted small">Last updated: {{ .LastUpdated }}</p>
</section>
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<script>
  const STATIC = {{ .Static }};
  let view = {{ .ViewJSON }};

  const map = L.map('map', { zoomControl: false }).setView([view.map.center[0], view.map.center[1]], view.map.zoom);
  L.tileLayer('https://{s}.tile.openstreetmap.fr/hot/{z}/{x}/{y}.png', { attribution: '© OpenStreetMap contributors' }).addTo(map);
  const overlay = L.layerGroup().addTo(map);

  const draw = (mv) => {
    overlay.clearLayers();
    mv.layers.filter((g) => g.attached).forEach((g) => g.circles.forEach((c) => L.circle(c.center, {
      radius: c.radius, color: c.color, fillColor: c.fillColor, fillOpacity: c.fillOpacity, weight: c.weight,
    }).addTo(overlay)));
    mv.hotspots.forEach((p) => {
      const m = L.marker(p.coords, { riseOnHover: true }).addTo(overlay).bindPopup(p.popup);
      if (p.fireId && !STATIC) m.on('click', () => post('/api/hotspots/' + p.index + '/click'));
    });
    mv.firePins.forEach((p) => {
      const m = L.marker(p.coords, { opacity: p.opacity }).addTo(overlay).bindPopup(p.popup);
      if (!STATIC) m.on('click', () => post('/api/fires/' + encodeURIComponent(p.fireId) + '/click'));
    });
    map.flyTo(mv.center, mv.zoom, { duration: 1 });
  };
  draw(view.map);

  const post = async (path, body) => {
    const res = await fetch(path, { method: 'POST', headers: { 'Content-Type': 'application/json' }, body: JSON.stringify(body || {}) });
    if (res.ok) window.location.reload();
  };
  const act = (body) => post('/api/actions', body);

  if (!STATIC) {
    document.querySelectorAll('[data-fire-id]').forEach((b) => b.addEventListener('click', () => act({ type: 'selectFire', id: b.dataset.fireId })));
    document.querySelectorAll('[data-priority-slider]').forEach((s) => s.addEventListener('change', () => act({ type: 'setPriority', key: s.dataset.prioritySlider, value: Number(s.value) })));
    document.querySelectorAll('[data-role]').forEach((b) => b.addEventListener('click', () => act({ type: 'selectRole', role: b.dataset.role })));
    document.querySelectorAll('[data-horizon-slider]').forEach((s) => s.addEventListener('change', () => act({ type: 'setHorizon', years: Number(s.value) })));
    document.querySelectorAll('[data-layer]').forEach((c) => c.addEventListener('change', () => act({ type: 'toggleLayer', key: c.dataset.layer, on: c.checked })));
    document.querySelectorAll('[data-forecast-select]').forEach((s) => s.addEventListener('change', async () => {
      await fetch('/api/actions', { method: 'POST', headers: { 'Content-Type': 'application/json' }, body: JSON.stringify({ type: 'setTimeline', value: Number(s.value) }) });
      act({ type: 'commitTimeline' });
    }));
    document.querySelectorAll('[data-suggestion-index]').forEach((d) => d.addEventListener('click', () => act({ type: 'pickSuggestion', index: Number(d.dataset.suggestionIndex) })));
    document.querySelectorAll('[data-year-select]').forEach((s) => s.addEventListener('change', () => act({ type: 'setSearchYear', year: Number(s.value) })));
    document.querySelectorAll('[data-month-select]').forEach((s) => s.addEventListener('change', () => act({ type: 'setSearchMonth', month: Number(s.value) })));
    document.querySelectorAll('[data-search-btn]').forEach((b) => b.addEventListener('click', () => act({ type: 'runSearch' })));
    const search = document.querySelector('[data-search-input]');
    search.addEventListener('keydown', (e) => {
      const keys = { ArrowDown: { type: 'moveSuggestion', delta: 1 }, ArrowUp: { type: 'moveSuggestion', delta: -1 }, Enter: { type: 'pickSuggestion' }, Escape: { type: 'hideSuggestions' } };
      if (keys[e.key]) { e.preventDefault(); act(keys[e.key]); }
    });
    search.addEventListener('input', () => fetch('/api/actions', { method: 'POST', headers: { 'Content-Type': 'application/json' }, body: JSON.stringify({ type: 'setQuery', text: search.value }) }));
    const ask = async () => {
      const q = document.querySelector('[data-qna-input]').value;
      post('/api/ask', { question: q });
    };
    document.querySelector('[data-qna-submit]').addEventListener('click', ask);
  }
</script>
</body>
</html>
`
