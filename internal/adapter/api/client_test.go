package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/terranova-dashboard/internal/config"
	"github.com/couchcryptid/terranova-dashboard/internal/domain"
	"github.com/couchcryptid/terranova-dashboard/internal/observability"
)

const (
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

func testClient(baseURL, variant string) *Client {
	return NewClient(baseURL, 5*time.Second, variant,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		observability.NewMetricsForTesting())
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set(headerContentType, contentTypeJSON)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestClient_FetchFires_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/fires", r.URL.Path)
		writeJSON(t, w, map[string]any{
			"fires": []map[string]any{
				{"id": "a", "name": "Alpha", "state": "OR", "lat": 44.1, "lng": -121.2, "acres": 1200, "startDate": "2020-09-07"},
				{"id": "b", "name": "Bravo", "state": "WA", "lat": 47.5, "lng": -120.5, "acres": 800, "year": 2015},
			},
		})
	}))
	defer srv.Close()

	c := testClient(srv.URL, config.VariantPriority)
	fires, err := c.FetchFires(context.Background())
	require.NoError(t, err)
	require.Len(t, fires, 2)

	assert.Equal(t, "Alpha", fires[0].Name)
	assert.Equal(t, 2020, fires[0].Year, "year derived from start date")
	assert.Equal(t, 2015, fires[1].Year)
	assert.InDelta(t, 1.0, testutil.ToFloat64(c.metrics.APIRequests.WithLabelValues(EndpointFires, "success")), 0)
}

func TestClient_FetchScenario_PriorityParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/api/scenario", r.URL.Path)
		assert.Equal(t, "dixie-fire-2021", q.Get("fireId"))
		assert.Equal(t, "3", q.Get("timeline"))
		assert.Equal(t, "90", q.Get("priorityCommunity"))
		assert.Equal(t, "10", q.Get("priorityWatershed"))
		assert.Equal(t, "20", q.Get("priorityInfrastructure"))
		assert.Empty(t, q.Get("role"))
		writeJSON(t, w, map[string]any{
			"mapTip":   "from server",
			"markers":  []any{},
			"stats":    map[string]any{"confidence": 0.5},
			"timeline": map[string]any{"value": 3, "label": "Day 30"},
		})
	}))
	defer srv.Close()

	c := testClient(srv.URL, config.VariantPriority)
	sel := domain.Selection{
		FireID:   "dixie-fire-2021",
		Timeline: 3,
		Weights:  domain.PriorityWeights{Community: 90, Watershed: 10, Infrastructure: 20},
	}
	payload, err := c.FetchScenario(context.Background(), sel)
	require.NoError(t, err)

	require.NotNil(t, payload.MapTip)
	assert.Equal(t, "from server", *payload.MapTip)
	require.NotNil(t, payload.Stats)
	require.NotNil(t, payload.Stats.Confidence)
	assert.Nil(t, payload.Stats.Incidents)
	assert.Empty(t, payload.Markers)
	assert.Nil(t, payload.Fire)
}

func TestClient_FetchScenario_RoleParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "land-manager", q.Get("role"))
		assert.Equal(t, "10", q.Get("horizon"))
		assert.Equal(t, "land-manager-fire-1", q.Get("fireId"))
		assert.Empty(t, q.Get("timeline"))
		writeJSON(t, w, map[string]any{"roleKey": "land-manager"})
	}))
	defer srv.Close()

	c := testClient(srv.URL, config.VariantRole)
	payload, err := c.FetchScenario(context.Background(), domain.Selection{
		Role:    "land-manager",
		Horizon: 42,
		FireID:  "land-manager-fire-1",
	})
	require.NoError(t, err)
	require.NotNil(t, payload.RoleKey)
	assert.Equal(t, "land-manager", *payload.RoleKey)
}

func TestClient_Ask(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/ask", r.URL.Path)
		assert.Equal(t, "camp-fire-2018", r.URL.Query().Get("fireId"))
		assert.Equal(t, "Is the road open?", r.URL.Query().Get("question"))
		writeJSON(t, w, map[string]string{"answer": "Yes, Skyway reopened."})
	}))
	defer srv.Close()

	c := testClient(srv.URL, config.VariantPriority)
	answer, err := c.Ask(context.Background(), "camp-fire-2018", "Is the road open?")
	require.NoError(t, err)
	assert.Equal(t, "Yes, Skyway reopened.", answer)
}

func TestClient_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down"))
	}))
	defer srv.Close()

	c := testClient(srv.URL, config.VariantPriority)
	_, err := c.FetchFires(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStatus)
	assert.Contains(t, err.Error(), "502")
	assert.InDelta(t, 1.0, testutil.ToFloat64(c.metrics.APIRequests.WithLabelValues(EndpointFires, "status")), 0)
}

func TestClient_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte("{not json"))
	}))
	defer srv.Close()

	c := testClient(srv.URL, config.VariantPriority)
	_, err := c.FetchScenario(context.Background(), domain.DefaultSelection())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDecode)
	assert.InDelta(t, 1.0, testutil.ToFloat64(c.metrics.APIRequests.WithLabelValues(EndpointScenario, "decode")), 0)
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := testClient(srv.URL, config.VariantPriority)
	c.timeout = 50 * time.Millisecond

	_, err := c.FetchFires(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.InDelta(t, 1.0, testutil.ToFloat64(c.metrics.APIRequests.WithLabelValues(EndpointFires, "timeout")), 0)
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c := testClient(base, config.VariantPriority)
	_, err := c.FetchFires(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrStatus)
	assert.InDelta(t, 1.0, testutil.ToFloat64(c.metrics.APIRequests.WithLabelValues(EndpointFires, "transport")), 0)
}
