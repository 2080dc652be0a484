package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Request variants understood by /api/scenario.
const (
	VariantPriority = "priority"
	VariantRole     = "role"
)

// Bounds for the slider debounce quiet window.
const (
	minScenarioDebounce = 300 * time.Millisecond
	maxScenarioDebounce = 400 * time.Millisecond
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	// APIBaseOverride is the injected TERRANOVA_API_BASE; it wins over inference.
	APIBaseOverride string
	PageOrigin      string
	HTTPAddr        string
	DemoAPIAddr     string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	FetchTimeout     time.Duration
	ScenarioDebounce time.Duration
	SuggestDebounce  time.Duration
	Variant          string
	AnswerCacheSize  int

	// Tracing configuration.
	OTelEndpoint   string
	TracingEnabled bool
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	fetchTimeout, err := parsePositiveDuration("FETCH_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}
	scenarioDebounce, err := parsePositiveDuration("SCENARIO_DEBOUNCE", "400ms")
	if err != nil {
		return nil, err
	}
	suggestDebounce, err := parsePositiveDuration("SUGGEST_DEBOUNCE", "150ms")
	if err != nil {
		return nil, err
	}

	otelEndpoint := os.Getenv("OTEL_ENDPOINT")
	tracingEnabled := otelEndpoint != ""
	if v := os.Getenv("OTEL_ENABLED"); v != "" {
		tracingEnabled = v == "true"
	}

	cfg := &Config{
		APIBaseOverride:  os.Getenv("TERRANOVA_API_BASE"),
		PageOrigin:       sharedcfg.EnvOrDefault("PAGE_ORIGIN", "http://localhost:8000"),
		HTTPAddr:         sharedcfg.EnvOrDefault("HTTP_ADDR", ":8000"),
		DemoAPIAddr:      sharedcfg.EnvOrDefault("DEMO_API_ADDR", ":8001"),
		LogLevel:         sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:        sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:  shutdownTimeout,
		FetchTimeout:     fetchTimeout,
		ScenarioDebounce: scenarioDebounce,
		SuggestDebounce:  suggestDebounce,
		Variant:          sharedcfg.EnvOrDefault("VARIANT", VariantPriority),
		AnswerCacheSize:  parseAnswerCacheSize(),
		OTelEndpoint:     otelEndpoint,
		TracingEnabled:   tracingEnabled,
	}

	if cfg.ScenarioDebounce < minScenarioDebounce || cfg.ScenarioDebounce > maxScenarioDebounce {
		return nil, errors.New("SCENARIO_DEBOUNCE must be between 300ms and 400ms")
	}
	if cfg.Variant != VariantPriority && cfg.Variant != VariantRole {
		return nil, errors.New("VARIANT must be \"priority\" or \"role\"")
	}
	if cfg.TracingEnabled && cfg.OTelEndpoint == "" {
		return nil, errors.New("OTEL_ENABLED is true but OTEL_ENDPOINT is not set")
	}

	return cfg, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, errors.New("invalid " + key)
	}
	return d, nil
}

func parseAnswerCacheSize() int {
	if s := os.Getenv("ANSWER_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 128
}
