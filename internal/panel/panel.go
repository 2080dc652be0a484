// Package panel renders the textual regions of the dashboard from a resolved
// scenario. Each render replaces a region's content wholesale, and empty
// lists render an explicit placeholder instead of a blank region.
package panel

import (
	"maps"
	"math"
	"slices"
	"strconv"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/couchcryptid/terranova-dashboard/internal/domain"
)

// Placeholder copy for empty regions.
const (
	NoPriorities     = "No priorities calculated."
	NoNextSteps      = "Adjust the sliders to generate an action plan."
	DefaultMapTip    = "Tap a fire pin to load MTBS-style burn severity overlays, then drag the sliders to test scenarios."
	noInsightsLabel  = "No insights"
	noInsightsTitle  = "All clear for now."
	noInsightsDetail = "Adjust the sliders to refresh the model."
)

// PriorityCard is one rendered priority bar.
type PriorityCard struct {
	Heading string `json:"heading"` // "<label> · <score>%"
	Summary string `json:"summary"`
	Percent int    `json:"percent"`
}

// InsightCard is one rendered insight.
type InsightCard struct {
	Category string `json:"category"`
	Title    string `json:"title"`
	Detail   string `json:"detail"`
}

// FireCard is one entry in the fire list.
type FireCard struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Meta   string `json:"meta"`  // "<state> · <year>"
	Badge  string `json:"badge"` // "<acres> ac"
	Active bool   `json:"active"`
}

// View is the rendered text of every panel region. Placeholder fields are
// set only when the matching list is empty.
type View struct {
	FireTitle   string `json:"fireTitle"`
	FireMeta    string `json:"fireMeta"`
	MapHeadline string `json:"mapHeadline"`
	MapSubhead  string `json:"mapSubhead"`
	MapTip      string `json:"mapTip"`
	Confidence  string `json:"confidence"`
	Incidents   string `json:"incidents"`

	Priorities            []PriorityCard `json:"priorities"`
	PrioritiesPlaceholder string         `json:"prioritiesPlaceholder,omitempty"`
	Insights              []InsightCard  `json:"insights"`
	NextSteps             []string       `json:"nextSteps"`
	NextStepsPlaceholder  string         `json:"nextStepsPlaceholder,omitempty"`

	PriorityValues map[string]string `json:"priorityValues"` // keyed by priority key
	ForecastLabel  string            `json:"forecastLabel"`
	ForecastDesc   string            `json:"forecastDesc"`

	FireList []FireCard `json:"fireList"`
	Answer   string     `json:"answer,omitempty"`
}

// Renderer owns the panel regions. It is safe for concurrent use.
type Renderer struct {
	mu      sync.Mutex
	printer *message.Printer
	view    View
}

// NewRenderer creates a renderer that formats numbers for tag.
func NewRenderer(tag language.Tag) *Renderer {
	return &Renderer{
		printer: message.NewPrinter(tag),
		view: View{
			MapTip:         DefaultMapTip,
			Priorities:     []PriorityCard{},
			Insights:       []InsightCard{},
			NextSteps:      []string{},
			PriorityValues: map[string]string{},
			FireList:       []FireCard{},
		},
	}
}

// Render replaces the scenario-driven regions with the content of s.
func (r *Renderer) Render(s domain.Scenario) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.renderHeader(s.Fire, s.Timeline)
	r.renderStats(s.Stats)
	r.renderPriorities(s.Priorities)
	r.renderInsights(s.Insights)
	r.renderNextSteps(s.NextSteps)
	if s.MapTip != "" {
		r.view.MapTip = s.MapTip
	}
}

func (r *Renderer) renderHeader(fire domain.Fire, stage domain.TimelineStage) {
	name := fire.Name
	if name == "" {
		name = "Selected fire"
	}
	r.view.FireTitle = name + " · " + fire.State

	headline := fire.Name
	if headline == "" {
		headline = "Fire"
	}
	r.view.MapHeadline = headline + " segmentation ready"
	if stage.Label != "" {
		r.view.MapSubhead = stage.Label
	}
}

func (r *Renderer) renderStats(st domain.Stats) {
	r.view.Confidence = r.printer.Sprintf("%d%%", percent(st.Confidence*100))
	r.view.Incidents = r.printer.Sprintf("%d alerts", st.Incidents)
	if st.Updated != "" && st.Acres != 0 {
		r.view.FireMeta = st.Updated + " · " + r.printer.Sprintf("%d acres", int64(math.Round(st.Acres)))
	}
}

func (r *Renderer) renderPriorities(ps []domain.Priority) {
	r.view.Priorities = make([]PriorityCard, 0, len(ps))
	r.view.PrioritiesPlaceholder = ""
	if len(ps) == 0 {
		r.view.PrioritiesPlaceholder = NoPriorities
		return
	}
	for _, p := range ps {
		pct := percent(p.Score)
		r.view.Priorities = append(r.view.Priorities, PriorityCard{
			Heading: r.printer.Sprintf("%s · %d%%", p.Label, pct),
			Summary: p.Summary,
			Percent: pct,
		})
	}
}

func (r *Renderer) renderInsights(ins []domain.Insight) {
	if len(ins) == 0 {
		r.view.Insights = []InsightCard{{Category: noInsightsLabel, Title: noInsightsTitle, Detail: noInsightsDetail}}
		return
	}
	r.view.Insights = make([]InsightCard, 0, len(ins))
	for _, in := range ins {
		r.view.Insights = append(r.view.Insights, InsightCard(in))
	}
}

func (r *Renderer) renderNextSteps(steps []string) {
	r.view.NextSteps = append(make([]string, 0, len(steps)), steps...)
	r.view.NextStepsPlaceholder = ""
	if len(steps) == 0 {
		r.view.NextStepsPlaceholder = NoNextSteps
	}
}

// RenderControls updates the slider readouts and forecast labels for sel.
// It runs on every input, ahead of any fetch.
func (r *Renderer) RenderControls(sel domain.Selection) {
	r.mu.Lock()
	defer r.mu.Unlock()

	values := make(map[string]string, len(domain.PriorityOrder))
	for _, k := range domain.PriorityOrder {
		values[string(k)] = r.printer.Sprintf("%d%%", sel.Weights.Get(k))
	}
	r.view.PriorityValues = values

	stage := domain.StageAt(sel.Timeline)
	r.view.ForecastLabel = stage.Label
	r.view.ForecastDesc = stage.Description
	r.view.MapSubhead = stage.Label
}

// RenderFireList replaces the fire list with one card per fire.
func (r *Renderer) RenderFireList(fires []domain.Fire, activeID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cards := make([]FireCard, 0, len(fires))
	for _, f := range fires {
		year := ""
		if f.Year != 0 {
			year = strconv.Itoa(f.Year)
		}
		cards = append(cards, FireCard{
			ID:     f.ID,
			Name:   f.Name,
			Meta:   f.State + " · " + year,
			Badge:  r.printer.Sprintf("%d ac", int64(math.Round(f.Acres))),
			Active: f.ID == activeID,
		})
	}
	r.view.FireList = cards
}

// SetMapTip overwrites the map tip.
func (r *Renderer) SetMapTip(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.view.MapTip = text
}

// SetAnswer overwrites the Q&A answer region.
func (r *Renderer) SetAnswer(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.view.Answer = text
}

// View returns a copy of the rendered regions.
func (r *Renderer) View() View {
	r.mu.Lock()
	defer r.mu.Unlock()

	v := r.view
	v.Priorities = slices.Clone(v.Priorities)
	v.Insights = slices.Clone(v.Insights)
	v.NextSteps = slices.Clone(v.NextSteps)
	v.FireList = slices.Clone(v.FireList)
	v.PriorityValues = maps.Clone(v.PriorityValues)
	return v
}

func percent(v float64) int {
	return int(math.Round(v))
}
