package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/couchcryptid/terranova-dashboard/internal/mapview"
	"github.com/couchcryptid/terranova-dashboard/internal/panel"
	"github.com/couchcryptid/terranova-dashboard/internal/pipeline"
)

// Dashboard is the application pipeline the server drives.
type Dashboard interface {
	sharedobs.ReadinessChecker
	Dispatch(ctx context.Context, a pipeline.Action) pipeline.Effect
	Ask(ctx context.Context, question string) string
	State() pipeline.State
}

// MapView is the projected map the server reads and clicks.
type MapView interface {
	Snapshot() mapview.View
	ClickHotspot(i int) (string, bool)
	ClickFirePin(fireID string) bool
}

// PanelView is the rendered text panels.
type PanelView interface {
	View() panel.View
}

// Server exposes the dashboard page, its JSON view and action endpoints, plus
// health, readiness, and metrics.
type Server struct {
	httpServer *http.Server
	dashboard  Dashboard
	mapView    MapView
	panel      PanelView
	apiBase    string
	logger     *slog.Logger
}

// NewServer creates the dashboard HTTP server.
func NewServer(addr string, d Dashboard, m MapView, p PanelView, apiBase string, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      otelhttp.NewHandler(mux, "dashboard"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		dashboard: d,
		mapView:   m,
		panel:     p,
		apiBase:   apiBase,
		logger:    logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(d))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("GET /api/view", s.handleView)
	mux.HandleFunc("POST /api/actions", s.handleAction)
	mux.HandleFunc("POST /api/hotspots/{index}/click", s.handleHotspotClick)
	mux.HandleFunc("POST /api/fires/{id}/click", s.handleFirePinClick)
	mux.HandleFunc("POST /api/ask", s.handleAsk)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
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

// ViewResponse is the body of GET /api/view and of every action response.
type ViewResponse struct {
	State         pipeline.State `json:"state"`
	SearchEnabled bool           `json:"searchEnabled"`
	Map           mapview.View   `json:"map"`
	Panel         panel.View     `json:"panel"`
}

func (s *Server) view() ViewResponse {
	st := s.dashboard.State()
	return ViewResponse{
		State:         st,
		SearchEnabled: st.SearchEnabled(),
		Map:           s.mapView.Snapshot(),
		Panel:         s.panel.View(),
	}
}

func (s *Server) handlePage(w http.ResponseWriter, _ *http.Request) {
	var buf bytes.Buffer
	if err := RenderPage(&buf, NewPageData(s.view(), s.apiBase)); err != nil {
		s.logger.Error("render page failed", "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleView(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.view())
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid action body")
		return
	}
	action, err := req.toAction()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.dashboard.Dispatch(r.Context(), action)
	writeJSON(w, http.StatusOK, s.view())
}

func (s *Server) handleHotspotClick(w http.ResponseWriter, r *http.Request) {
	i, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid hotspot index")
		return
	}
	if _, ok := s.mapView.ClickHotspot(i); !ok {
		writeError(w, http.StatusNotFound, "hotspot does not select a fire")
		return
	}
	writeJSON(w, http.StatusOK, s.view())
}

func (s *Server) handleFirePinClick(w http.ResponseWriter, r *http.Request) {
	if !s.mapView.ClickFirePin(r.PathValue("id")) {
		writeError(w, http.StatusNotFound, "no pin for fire")
		return
	}
	writeJSON(w, http.StatusOK, s.view())
}

type askRequest struct {
	Question string `json:"question"`
}

type askResponse struct {
	Answer string `json:"answer"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid question body")
		return
	}
	writeJSON(w, http.StatusOK, askResponse{Answer: s.dashboard.Ask(r.Context(), req.Question)})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
