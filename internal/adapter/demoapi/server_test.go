package demoapi_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/terranova-dashboard/internal/adapter/api"
	"github.com/couchcryptid/terranova-dashboard/internal/adapter/demoapi"
	"github.com/couchcryptid/terranova-dashboard/internal/config"
	"github.com/couchcryptid/terranova-dashboard/internal/domain"
	"github.com/couchcryptid/terranova-dashboard/internal/observability"
)

var testNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func newServer() *demoapi.Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return demoapi.NewServer(":0", 7, clockwork.NewFakeClockAt(testNow), logger)
}

func get(t *testing.T, s *demoapi.Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, http.NoBody)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)
	return w
}

func TestFires(t *testing.T) {
	w := get(t, newServer(), "/api/fires")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	var body struct {
		Fires []domain.Fire `json:"fires"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, domain.FallbackFires(), body.Fires)
}

func TestPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/scenario", http.NoBody)
	w := httptest.NewRecorder()
	newServer().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestPriorityScenario(t *testing.T) {
	w := get(t, newServer(), "/api/scenario?fireId=dixie-fire-2021&timeline=4&priorityCommunity=10&priorityWatershed=90&priorityInfrastructure=5")
	require.Equal(t, http.StatusOK, w.Code)

	var p domain.ScenarioPayload
	require.NoError(t, json.NewDecoder(w.Body).Decode(&p))
	require.NotNil(t, p.Fire)
	assert.Equal(t, "dixie-fire-2021", p.Fire.ID)
	require.NotNil(t, p.Timeline)
	assert.Equal(t, domain.StageAt(4), *p.Timeline)
	require.NotNil(t, p.GeneratedAt)
	assert.True(t, p.GeneratedAt.Equal(testNow))
	assert.NotEmpty(t, p.Layers)
	assert.Nil(t, p.RoleKey)
}

func TestRoleScenario(t *testing.T) {
	w := get(t, newServer(), "/api/scenario?role=Land%20Manager&horizon=5")
	require.Equal(t, http.StatusOK, w.Code)

	var p domain.ScenarioPayload
	require.NoError(t, json.NewDecoder(w.Body).Decode(&p))
	require.NotNil(t, p.RoleKey)
	assert.Equal(t, domain.NormalizeRole("Land Manager"), *p.RoleKey)
	require.NotNil(t, p.SelectedFireID)
	assert.NotEmpty(t, *p.SelectedFireID)
	assert.NotNil(t, p.Center)
}

func TestScenarioRejectsBadParams(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"horizon too large", "/api/scenario?role=home-buyer&horizon=11"},
		{"horizon too small", "/api/scenario?role=home-buyer&horizon=0"},
		{"horizon not int", "/api/scenario?role=home-buyer&horizon=soon"},
		{"timeline not int", "/api/scenario?timeline=late"},
		{"priority not int", "/api/scenario?priorityCommunity=high"},
	}
	s := newServer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(t, s, tt.target)
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		})
	}
}

func TestAsk(t *testing.T) {
	s := newServer()

	w := get(t, s, "/api/ask?fireId=camp-fire-2018&question=Which+roads+are+open%3F")
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Contains(t, body["answer"], "Paradise & Magalia")

	w = get(t, s, "/api/ask?fireId=camp-fire-2018&question=+")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCannedAnswer(t *testing.T) {
	fire := domain.FallbackFires()[1]
	tests := []struct {
		question string
		want     string
	}{
		{"Where do I evacuate?", "Evacuation"},
		{"Is the highway closed?", "corridors"},
		{"Flood risk this winter?", "debris flow"},
		{"How is the smoke?", "AirNow"},
		{"Tell me more", "963309 acres"},
	}
	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			assert.Contains(t, demoapi.CannedAnswer(fire, tt.question), tt.want)
		})
	}
}

func TestHealth(t *testing.T) {
	w := get(t, newServer(), "/api/health")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, testNow.Format(time.RFC3339), body["timestamp"])
}

func TestClientAgainstDemoAPI(t *testing.T) {
	ts := httptest.NewServer(newServer())
	defer ts.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := api.NewClient(ts.URL, 2*time.Second, config.VariantPriority, logger, observability.NewMetricsForTesting())

	fires, err := c.FetchFires(context.Background())
	require.NoError(t, err)
	assert.Len(t, fires, len(domain.FallbackFires()))

	p, err := c.FetchScenario(context.Background(), domain.DefaultSelection())
	require.NoError(t, err)
	require.NotNil(t, p.Fire)
	assert.Equal(t, domain.DefaultSelection().FireID, p.Fire.ID)

	answer, err := c.Ask(context.Background(), "bootleg-fire-2021", "air quality?")
	require.NoError(t, err)
	assert.Contains(t, answer, "AirNow")
}

func TestRoleClientMergeKeepsFallbackTimeline(t *testing.T) {
	ts := httptest.NewServer(newServer())
	defer ts.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := api.NewClient(ts.URL, 2*time.Second, config.VariantRole, logger, observability.NewMetricsForTesting())

	sel := domain.DefaultSelection()
	sel.Role = "land-manager"
	sel.FireID = ""

	p, err := c.FetchScenario(context.Background(), sel)
	require.NoError(t, err)
	assert.Nil(t, p.Timeline)

	fallback := domain.BuildRoleFallback(sel)
	merged := domain.Merge(p, fallback)
	assert.Equal(t, domain.StageAt(sel.Timeline), merged.Timeline)
	assert.Equal(t, "land-manager", merged.RoleKey)
	assert.NotEmpty(t, merged.Fire.Name)
}
