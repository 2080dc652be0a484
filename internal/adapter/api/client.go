package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/couchcryptid/terranova-dashboard/internal/config"
	"github.com/couchcryptid/terranova-dashboard/internal/domain"
	"github.com/couchcryptid/terranova-dashboard/internal/observability"
)

var (
	// ErrStatus is returned when the API answers with a non-2xx status.
	ErrStatus = errors.New("unexpected status")
	// ErrDecode is returned when the response body is not valid JSON.
	ErrDecode = errors.New("malformed response body")
)

// Endpoint names used in logs and metrics.
const (
	EndpointFires    = "fires"
	EndpointScenario = "scenario"
	EndpointAsk      = "ask"
)

// Client talks to the TerraNova JSON API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	variant    string
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates an API client. Each request is bounded by timeout.
func NewClient(baseURL string, timeout time.Duration, variant string, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		timeout: timeout,
		variant: variant,
		logger:  logger,
		metrics: metrics,
	}
}

// BaseURL returns the API base the client was built with.
func (c *Client) BaseURL() string { return c.baseURL }

// Variant returns the request shape used for /api/scenario.
func (c *Client) Variant() string { return c.variant }

type firesResponse struct {
	Fires []domain.Fire `json:"fires"`
}

// FetchFires returns the normalized fire catalog.
func (c *Client) FetchFires(ctx context.Context) ([]domain.Fire, error) {
	var resp firesResponse
	if err := c.getJSON(ctx, EndpointFires, "/api/fires", nil, &resp); err != nil {
		return nil, err
	}
	return domain.NormalizeCatalog(resp.Fires), nil
}

// FetchScenario returns the (possibly partial) scenario payload for a selection.
func (c *Client) FetchScenario(ctx context.Context, sel domain.Selection) (domain.ScenarioPayload, error) {
	var payload domain.ScenarioPayload
	if err := c.getJSON(ctx, EndpointScenario, "/api/scenario", c.scenarioParams(sel), &payload); err != nil {
		return domain.ScenarioPayload{}, err
	}
	return payload, nil
}

func (c *Client) scenarioParams(sel domain.Selection) url.Values {
	if c.variant == config.VariantRole {
		params := url.Values{
			"role":    {domain.NormalizeRole(sel.Role)},
			"horizon": {strconv.Itoa(domain.ClampHorizon(sel.Horizon))},
		}
		if sel.FireID != "" {
			params.Set("fireId", sel.FireID)
		}
		return params
	}
	return url.Values{
		"fireId":                 {sel.FireID},
		"timeline":               {strconv.Itoa(sel.Timeline)},
		"priorityCommunity":      {strconv.Itoa(sel.Weights.Community)},
		"priorityWatershed":      {strconv.Itoa(sel.Weights.Watershed)},
		"priorityInfrastructure": {strconv.Itoa(sel.Weights.Infrastructure)},
	}
}

type askResponse struct {
	Answer string `json:"answer"`
}

// Ask sends a free-text question about a fire. An empty answer is not an error.
func (c *Client) Ask(ctx context.Context, fireID, question string) (string, error) {
	params := url.Values{
		"fireId":   {fireID},
		"question": {question},
	}
	var resp askResponse
	if err := c.getJSON(ctx, EndpointAsk, "/api/ask", params, &resp); err != nil {
		return "", err
	}
	return resp.Answer, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint, path string, params url.Values, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	start := time.Now()
	err := c.doRequest(ctx, u, out)
	c.metrics.APIDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	c.metrics.APIRequests.WithLabelValues(endpoint, classify(err)).Inc()
	if err != nil {
		return fmt.Errorf("%s request: %w", endpoint, err)
	}
	return nil
}

func (c *Client) doRequest(ctx context.Context, fullURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %d: %s", ErrStatus, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return nil
}

// classify maps a request error onto the outcome label.
func classify(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, ErrStatus):
		return "status"
	case errors.Is(err, ErrDecode):
		return "decode"
	default:
		return "transport"
	}
}
