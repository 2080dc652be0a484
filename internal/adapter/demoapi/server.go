// Package demoapi serves a synthetic TerraNova backend: a fixed fire catalog,
// randomized scenarios for both request variants, and canned Q&A answers.
package demoapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/terranova-dashboard/internal/domain"
)

// Server is the synthetic backend.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	clock      clockwork.Clock
	fires      []domain.Fire

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

// NewServer creates the demo backend. seed makes generated scenarios
// reproducible across runs.
func NewServer(addr string, seed uint64, clock clockwork.Clock, logger *slog.Logger) *Server {
	mux := http.NewServeMux()
	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      cors(mux),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
		clock:  clock,
		fires:  domain.FallbackFires(),
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}

	mux.HandleFunc("GET /api/fires", s.handleFires)
	mux.HandleFunc("GET /api/scenario", s.handleScenario)
	mux.HandleFunc("GET /api/ask", s.handleAsk)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("demo api starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// cors allows any origin, matching a local demo backend.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleFires(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"fires": s.fires})
}

func (s *Server) handleScenario(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var (
		sc  domain.Scenario
		err error
	)
	if q.Has("role") || q.Has("horizon") {
		sc, err = s.roleScenario(q)
	} else {
		sc, err = s.priorityScenario(q)
	}
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": err.Error()})
		return
	}
	sc.GeneratedAt = s.clock.Now().UTC()
	writeJSON(w, http.StatusOK, domain.PayloadFromScenario(sc))
}

func (s *Server) roleScenario(q url.Values) (domain.Scenario, error) {
	horizon, err := intParam(q, "horizon", domain.DefaultHorizon)
	if err != nil {
		return domain.Scenario{}, err
	}
	if horizon < domain.MinHorizon || horizon > domain.MaxHorizon {
		return domain.Scenario{}, fmt.Errorf("horizon must be between %d and %d", domain.MinHorizon, domain.MaxHorizon)
	}
	role := q.Get("role")
	if role == "" {
		role = domain.DefaultRole
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.BuildRoleScenario(s.rng, role, horizon, q.Get("fireId")), nil
}

func (s *Server) priorityScenario(q url.Values) (domain.Scenario, error) {
	sel := domain.DefaultSelection()
	if id := q.Get("fireId"); id != "" {
		sel.FireID = id
	}
	var err error
	if sel.Timeline, err = intParam(q, "timeline", sel.Timeline); err != nil {
		return domain.Scenario{}, err
	}
	for _, k := range domain.PriorityOrder {
		name := "priority" + strings.ToUpper(string(k[:1])) + string(k[1:])
		v, err := intParam(q, name, sel.Weights.Get(k))
		if err != nil {
			return domain.Scenario{}, err
		}
		sel.Weights = sel.Weights.With(k, v)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.BuildPriorityScenario(s.rng, sel, s.fires), nil
}

func intParam(q url.Values, name string, def int) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return v, nil
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	question := strings.TrimSpace(r.URL.Query().Get("question"))
	if question == "" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "question is required"})
		return
	}
	fire := domain.FireOrDefault(s.fires, r.URL.Query().Get("fireId"))
	writeJSON(w, http.StatusOK, map[string]string{"answer": CannedAnswer(fire, question)})
}

// CannedAnswer picks a scripted reply by keyword.
func CannedAnswer(fire domain.Fire, question string) string {
	q := strings.ToLower(question)
	area := fire.Region
	if area == "" {
		area = fire.State
	}
	switch {
	case strings.Contains(q, "evacuat") || strings.Contains(q, "shelter"):
		return fmt.Sprintf("Evacuation warnings near %s follow county EOC zones; shelters are listed on the county alert page.", area)
	case strings.Contains(q, "road") || strings.Contains(q, "highway"):
		return fmt.Sprintf("Primary corridors around %s reopen once debris and hazard trees are cleared; expect pilot cars on burned segments.", area)
	case strings.Contains(q, "water") || strings.Contains(q, "flood") || strings.Contains(q, "debris"):
		return fmt.Sprintf("High-severity slopes in the %s burn scar raise debris flow risk during the first wet season; watch flash flood warnings.", fire.Name)
	case strings.Contains(q, "air") || strings.Contains(q, "smoke"):
		return "Check AirNow for current PM2.5 readings; ash cleanup can raise particulates for weeks after containment."
	default:
		return fmt.Sprintf("The %s burned %s acres. Recovery crews are prioritizing %s based on the latest segmentation run.",
			fire.Name, strconv.FormatFloat(fire.Acres, 'f', 0, 64), area)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": s.clock.Now().UTC().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
