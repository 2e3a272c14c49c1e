package server

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/jorin/waclerk/internal/instrumentation"
)

func prometheusProvider(t *testing.T) *instrumentation.Provider {
	t.Helper()
	ctx := context.Background()
	provider, err := instrumentation.NewProvider(ctx, instrumentation.Config{
		ServiceName:     "waclerk-test",
		ServiceVersion:  "0.0.0",
		Enabled:         true,
		MetricsExporter: "prometheus",
		TracingExporter: "none",
	})
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	t.Cleanup(func() {
		_ = provider.Shutdown(ctx)
	})
	return provider
}

func TestNewMetricsServerValidation(t *testing.T) {
	if _, err := NewMetricsServer(":9090", nil); err == nil || !strings.Contains(err.Error(), "required") {
		t.Errorf("NewMetricsServer(nil provider) error = %v, want required error", err)
	}

	disabled, err := instrumentation.NewProvider(context.Background(), instrumentation.Config{Enabled: false})
	if err != nil {
		t.Fatalf("NewProvider(disabled) error = %v", err)
	}
	if _, err := NewMetricsServer(":9090", disabled); err == nil || !strings.Contains(err.Error(), "not enabled") {
		t.Errorf("NewMetricsServer(disabled provider) error = %v, want not-enabled error", err)
	}
}

func TestNewMetricsServerDefaultAddr(t *testing.T) {
	server, err := NewMetricsServer("", prometheusProvider(t))
	if err != nil {
		t.Fatalf("NewMetricsServer() error = %v", err)
	}
	if server.Addr() != DefaultMetricsAddr {
		t.Errorf("Addr() = %q, want %q", server.Addr(), DefaultMetricsAddr)
	}
}

func TestMetricsServerStartShutdown(t *testing.T) {
	server, err := NewMetricsServer("127.0.0.1:0", prometheusProvider(t))
	if err != nil {
		t.Fatalf("NewMetricsServer() error = %v", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- server.Start()
	}()

	// Let the listener come up before draining it.
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}

	select {
	case err := <-done:
		if err != nil && err != http.ErrServerClosed {
			t.Errorf("Start() error = %v, want %v", err, http.ErrServerClosed)
		}
	case <-time.After(2 * time.Second):
		t.Error("Start() did not return after shutdown")
	}
}
