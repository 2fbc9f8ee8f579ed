package observability

import (
	"os"
	"strconv"
	"strings"
)

// Config controls the OpenTelemetry providers.
type Config struct {
	Enabled           bool
	TracesEnabled     bool
	MetricsEnabled    bool
	ServiceName       string
	ServiceVersion    string
	Environment       string
	OTLPEndpoint      string
	TraceSamplingRate float64
}

// ResolveConfig returns the defaults overridden by DIAVGEIA_OTEL_* variables.
// Export is off unless DIAVGEIA_OTEL_ENABLED is true.
func ResolveConfig() Config {
	cfg := Config{
		Enabled:           false,
		TracesEnabled:     true,
		MetricsEnabled:    true,
		ServiceName:       "diavgeia",
		ServiceVersion:    "dev",
		Environment:       "development",
		OTLPEndpoint:      "localhost:4317",
		TraceSamplingRate: 1.0,
	}

	overrideBool("DIAVGEIA_OTEL_ENABLED", &cfg.Enabled)
	overrideBool("DIAVGEIA_OTEL_TRACES_ENABLED", &cfg.TracesEnabled)
	overrideBool("DIAVGEIA_OTEL_METRICS_ENABLED", &cfg.MetricsEnabled)
	overrideString("DIAVGEIA_OTEL_SERVICE_NAME", &cfg.ServiceName)
	overrideString("DIAVGEIA_OTEL_SERVICE_VERSION", &cfg.ServiceVersion)
	overrideString("DIAVGEIA_OTEL_ENVIRONMENT", &cfg.Environment)
	overrideString("DIAVGEIA_OTEL_ENDPOINT", &cfg.OTLPEndpoint)
	overrideFloat("DIAVGEIA_OTEL_TRACE_SAMPLING_RATIO", &cfg.TraceSamplingRate)

	if cfg.TraceSamplingRate < 0 {
		cfg.TraceSamplingRate = 0
	}
	if cfg.TraceSamplingRate > 1 {
		cfg.TraceSamplingRate = 1
	}
	cfg.OTLPEndpoint = strings.TrimPrefix(strings.TrimPrefix(cfg.OTLPEndpoint, "http://"), "https://")

	return cfg
}

func overrideString(name string, target *string) {
	if value := os.Getenv(name); value != "" {
		*target = value
	}
}

func overrideBool(name string, target *bool) {
	value := os.Getenv(name)
	if value == "" {
		return
	}
	parsed, err := strconv.ParseBool(value)
	if err == nil {
		*target = parsed
	}
}

func overrideFloat(name string, target *float64) {
	value := os.Getenv(name)
	if value == "" {
		return
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err == nil {
		*target = parsed
	}
}
