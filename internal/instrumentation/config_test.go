package instrumentation

import (
	"strings"
	"testing"
)

func clearTelemetryEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"OTEL_SERVICE_NAME",
		"INSTRUMENTATION_ENABLED",
		"METRICS_EXPORTER",
		"TRACING_EXPORTER",
		"OTEL_TRACES_SAMPLER_ARG",
	} {
		t.Setenv(key, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	clearTelemetryEnv(t)

	config := DefaultConfig()

	if config.ServiceName != "waclerk" {
		t.Errorf("ServiceName = %q, want %q", config.ServiceName, "waclerk")
	}
	if !config.Enabled {
		t.Error("Enabled = false, want enabled by default")
	}
	if config.MetricsExporter != ExporterPrometheus {
		t.Errorf("MetricsExporter = %q, want %q", config.MetricsExporter, ExporterPrometheus)
	}
	if config.TracingExporter != ExporterNone {
		t.Errorf("TracingExporter = %q, want %q", config.TracingExporter, ExporterNone)
	}
	if config.TraceSamplingRate != 0.1 {
		t.Errorf("TraceSamplingRate = %v, want 0.1", config.TraceSamplingRate)
	}
}

func TestDefaultConfigFromEnv(t *testing.T) {
	clearTelemetryEnv(t)
	t.Setenv("OTEL_SERVICE_NAME", "waclerk-staging")
	t.Setenv("INSTRUMENTATION_ENABLED", "false")
	t.Setenv("METRICS_EXPORTER", "stdout")
	t.Setenv("TRACING_EXPORTER", "stdout")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.5")

	config := DefaultConfig()

	if config.ServiceName != "waclerk-staging" {
		t.Errorf("ServiceName = %q, want %q", config.ServiceName, "waclerk-staging")
	}
	if config.Enabled {
		t.Error("Enabled = true, want false from INSTRUMENTATION_ENABLED")
	}
	if config.MetricsExporter != ExporterStdout {
		t.Errorf("MetricsExporter = %q, want %q", config.MetricsExporter, ExporterStdout)
	}
	if config.TracingExporter != ExporterStdout {
		t.Errorf("TracingExporter = %q, want %q", config.TracingExporter, ExporterStdout)
	}
	if config.TraceSamplingRate != 0.5 {
		t.Errorf("TraceSamplingRate = %v, want 0.5", config.TraceSamplingRate)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{
			name: "prometheus metrics",
			config: Config{
				ServiceName:     "waclerk",
				Enabled:         true,
				MetricsExporter: ExporterPrometheus,
				TracingExporter: ExporterNone,
			},
		},
		{
			name: "otlp tracing with endpoint",
			config: Config{
				ServiceName:     "waclerk",
				Enabled:         true,
				MetricsExporter: ExporterPrometheus,
				TracingExporter: ExporterOTLP,
				OTLPEndpoint:    "localhost:4318",
			},
		},
		{
			name:    "negative sampling rate",
			config:  Config{TraceSamplingRate: -0.5},
			wantErr: "sampling rate",
		},
		{
			name:    "sampling rate above one",
			config:  Config{TraceSamplingRate: 1.5},
			wantErr: "sampling rate",
		},
		{
			name:    "unknown metrics exporter",
			config:  Config{MetricsExporter: "graphite"},
			wantErr: "invalid metrics exporter",
		},
		{
			name:    "unknown tracing exporter",
			config:  Config{TracingExporter: "zipkin"},
			wantErr: "invalid tracing exporter",
		},
		{
			name:    "otlp tracing without endpoint",
			config:  Config{TracingExporter: ExporterOTLP},
			wantErr: "OTLP endpoint is required",
		},
		{
			name:    "otlp metrics without endpoint",
			config:  Config{MetricsExporter: ExporterOTLP},
			wantErr: "OTLP endpoint is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("WACLERK_TEST_STRING", "value")
	t.Setenv("WACLERK_TEST_BOOL", "true")
	t.Setenv("WACLERK_TEST_BOOL_BAD", "not-a-bool")
	t.Setenv("WACLERK_TEST_FLOAT", "0.75")
	t.Setenv("WACLERK_TEST_FLOAT_BAD", "not-a-float")

	if v := getEnvOrDefault("WACLERK_TEST_STRING", "fallback"); v != "value" {
		t.Errorf("getEnvOrDefault(set) = %q", v)
	}
	if v := getEnvOrDefault("WACLERK_TEST_UNSET", "fallback"); v != "fallback" {
		t.Errorf("getEnvOrDefault(unset) = %q", v)
	}
	if !getEnvBoolOrDefault("WACLERK_TEST_BOOL", false) {
		t.Error("getEnvBoolOrDefault(true) = false")
	}
	if !getEnvBoolOrDefault("WACLERK_TEST_BOOL_BAD", true) {
		t.Error("getEnvBoolOrDefault(invalid) ignored the default")
	}
	if v := getEnvFloatOrDefault("WACLERK_TEST_FLOAT", 0.5); v != 0.75 {
		t.Errorf("getEnvFloatOrDefault(set) = %v", v)
	}
	if v := getEnvFloatOrDefault("WACLERK_TEST_FLOAT_BAD", 0.5); v != 0.5 {
		t.Errorf("getEnvFloatOrDefault(invalid) = %v", v)
	}
}
