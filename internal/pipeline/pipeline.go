package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/terranova-dashboard/internal/domain"
	"github.com/couchcryptid/terranova-dashboard/internal/observability"
)

// Q&A messages shown in the answer region.
const (
	AskEmptyQuestion = "Please type a question first."
	AskNoAnswer      = "No answer available."
	AskFailed        = "Could not generate an answer. Try rephrasing your question or check your connection."
)

const layerTipSuffix = "Tap a fire pin to load MTBS-style burn severity overlays, then drag the sliders to test scenarios."

// Source fetches catalog and scenario data.
type Source interface {
	FetchFires(ctx context.Context) ([]domain.Fire, error)
	FetchScenario(ctx context.Context, sel domain.Selection) (domain.ScenarioPayload, error)
}

// Asker answers free-text questions about a fire.
type Asker interface {
	Ask(ctx context.Context, fireID, question string) (string, error)
}

// Projector draws a scenario onto the map.
type Projector interface {
	Project(s domain.Scenario)
	RenderFirePins(catalog []domain.Fire, activeID string)
	SetLayerVisible(key string, on bool) error
}

// PanelRenderer draws a scenario into the text panels.
type PanelRenderer interface {
	Render(s domain.Scenario)
	RenderControls(sel domain.Selection)
	RenderFireList(fires []domain.Fire, activeID string)
	SetMapTip(text string)
	SetAnswer(text string)
}

// Options tunes pipeline timing and the request variant.
type Options struct {
	RoleVariant      bool
	ScenarioDebounce time.Duration
	SuggestDebounce  time.Duration
	Clock            clockwork.Clock
}

// Pipeline wires fetch, merge, projection and panel rendering around the
// owned State.
type Pipeline struct {
	source    Source
	asker     Asker
	projector Projector
	panel     PanelRenderer
	logger    *slog.Logger
	metrics   *observability.Metrics

	scenarioDebounce *Debouncer
	suggestDebounce  *Debouncer

	// mu guards state and current, and serializes renders.
	mu      sync.Mutex
	state   State
	current domain.Scenario

	seq     atomic.Uint64
	ready   atomic.Bool
	baseCtx context.Context
	cancel  context.CancelFunc
}

// New creates a Pipeline with the given stages and observability.
func New(src Source, asker Asker, proj Projector, panel PanelRenderer, logger *slog.Logger, metrics *observability.Metrics, opts Options) *Pipeline {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &Pipeline{
		source:    src,
		asker:     asker,
		projector: proj,
		panel:     panel,
		logger:    logger,
		metrics:   metrics,
		state:     NewState(opts.RoleVariant),
		baseCtx:   ctx,
		cancel:    cancel,
	}
	p.scenarioDebounce = NewDebouncer(clock, opts.ScenarioDebounce, func() {
		metrics.DebouncedFires.WithLabelValues("scenario").Inc()
	})
	p.suggestDebounce = NewDebouncer(clock, opts.SuggestDebounce, func() {
		metrics.DebouncedFires.WithLabelValues("suggest").Inc()
	})
	return p
}

// CheckReadiness returns nil once the first scenario has been rendered.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not rendered a scenario yet")
	}
	return nil
}

// Start loads the fire catalog and then the first scenario.
func (p *Pipeline) Start(ctx context.Context) {
	p.mu.Lock()
	sel := p.state.Selection
	p.mu.Unlock()
	p.panel.RenderControls(sel)

	p.FetchFireCatalog(ctx)
	p.Load(ctx)
}

// Close cancels pending debounced work.
func (p *Pipeline) Close() {
	p.scenarioDebounce.Stop()
	p.suggestDebounce.Stop()
	p.cancel()
}

// State returns a copy of the current state.
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.clone()
}

// Current returns the last rendered scenario.
func (p *Pipeline) Current() domain.Scenario {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Dispatch reduces a into the state and carries out the resulting effects.
// Immediate loads complete before Dispatch returns.
func (p *Pipeline) Dispatch(ctx context.Context, a Action) Effect {
	p.mu.Lock()
	next, eff := Reduce(p.state, a)
	p.state = next
	sel := next.Selection
	p.mu.Unlock()

	if eff.Has(EffectControls) {
		p.panel.RenderControls(sel)
	}
	if eff.Has(EffectFireList) {
		p.renderFireList()
	}
	if eff.Has(EffectLayers) {
		if t, ok := a.(ToggleLayer); ok {
			p.applyToggle(t)
		}
	}
	if eff.Has(EffectSuggest) {
		p.suggestDebounce.Trigger(func() {
			p.Dispatch(p.baseCtx, ShowSuggestions{})
		})
	}
	if eff.Has(EffectDebouncedLoad) {
		p.scenarioDebounce.Trigger(func() {
			p.Load(p.baseCtx)
		})
	}
	if eff.Has(EffectLoad) {
		p.scenarioDebounce.Stop()
		p.Load(ctx)
	}
	return eff
}

func (p *Pipeline) renderFireList() {
	p.mu.Lock()
	fires := p.state.VisibleFires()
	catalog := p.state.Catalog
	active := p.state.Selection.FireID
	p.mu.Unlock()

	p.panel.RenderFireList(fires, active)
	p.projector.RenderFirePins(catalog, active)
}

func (p *Pipeline) applyToggle(t ToggleLayer) {
	if err := p.projector.SetLayerVisible(t.Key, t.On); err != nil {
		p.logger.Warn("layer toggle failed", "layer", t.Key, "error", err)
		return
	}
	stateText := "disabled"
	if t.On {
		stateText = "enabled"
	}
	p.panel.SetMapTip(domain.LayerLabel(t.Key) + " layer " + stateText + ". " + layerTipSuffix)
}

// FetchFireCatalog loads the fire catalog. It never fails: an unreachable or
// broken API yields the bundled catalog.
func (p *Pipeline) FetchFireCatalog(ctx context.Context) []domain.Fire {
	fires, err := p.source.FetchFires(ctx)
	if err != nil {
		p.logger.Warn("using fallback fire catalog", "endpoint", "fires", "error", err)
		p.metrics.Fallbacks.WithLabelValues("catalog").Inc()
		fires = domain.FallbackFires()
	}
	if eff := p.Dispatch(ctx, CatalogLoaded{Fires: fires}); !eff.Has(EffectFireList) {
		p.renderFireList()
	}
	return p.State().Catalog
}

// Resolve fetches the scenario for sel and merges it over the fallback
// template. Fetch failures yield the fallback unchanged.
func (p *Pipeline) Resolve(ctx context.Context, sel domain.Selection, catalog []domain.Fire, roleVariant bool) domain.Scenario {
	start := time.Now()
	defer func() {
		p.metrics.ResolveDuration.Observe(time.Since(start).Seconds())
	}()

	var fallback domain.Scenario
	if roleVariant {
		fallback = domain.BuildRoleFallback(sel)
	} else {
		fallback = domain.BuildFallbackScenario(sel, catalog)
	}

	payload, err := p.source.FetchScenario(ctx, sel)
	if err != nil {
		p.logger.Warn("falling back to mock scenario",
			"endpoint", "scenario",
			"error", err,
			"fire_id", sel.FireID,
			"timeline", sel.Timeline,
		)
		p.metrics.Fallbacks.WithLabelValues("scenario").Inc()
		return fallback
	}
	return domain.Merge(payload, fallback)
}

// Load runs one fetch, merge and render cycle for the current selection. A
// result that is superseded by a newer Load before it renders is dropped.
// Load reports whether it rendered.
func (p *Pipeline) Load(ctx context.Context) bool {
	seq := p.seq.Add(1)
	p.metrics.ScenarioLoads.Inc()

	p.mu.Lock()
	sel := p.state.Selection
	catalog := p.state.Catalog
	roleVariant := p.state.RoleVariant
	p.mu.Unlock()

	s := p.Resolve(ctx, sel, catalog, roleVariant)

	p.mu.Lock()
	defer p.mu.Unlock()
	if latest := p.seq.Load(); seq != latest {
		p.logger.Debug("dropping stale scenario", "seq", seq, "latest", latest, "fire_id", sel.FireID)
		p.metrics.StaleDropped.Inc()
		return false
	}

	var g errgroup.Group
	g.Go(func() error {
		p.projector.Project(s)
		return nil
	})
	g.Go(func() error {
		p.panel.Render(s)
		return nil
	})
	_ = g.Wait()

	p.current = s
	p.ready.Store(true)
	return true
}

// Ask answers question about the selected fire and writes the result to the
// answer region. Failures produce a fixed message rather than an error.
func (p *Pipeline) Ask(ctx context.Context, question string) string {
	p.mu.Lock()
	fireID := p.state.Selection.FireID
	p.mu.Unlock()
	return p.AskAbout(ctx, fireID, question)
}

// AskAbout is Ask for an explicit fire id. An empty id asks about the first
// bundled fire.
func (p *Pipeline) AskAbout(ctx context.Context, fireID, question string) string {
	answer := p.ask(ctx, fireID, strings.TrimSpace(question))
	p.panel.SetAnswer(answer)
	return answer
}

func (p *Pipeline) ask(ctx context.Context, fireID, question string) string {
	if question == "" {
		return AskEmptyQuestion
	}
	if fireID == "" {
		fireID = domain.FallbackFires()[0].ID
	}

	answer, err := p.asker.Ask(ctx, fireID, question)
	if err != nil {
		p.logger.Warn("q&a fetch failed", "endpoint", "ask", "error", err, "fire_id", fireID)
		return AskFailed
	}
	if answer == "" {
		return AskNoAnswer
	}
	return answer
}
