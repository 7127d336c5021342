package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"

	"github.com/jml-dev/jml/pkg/page"
)

// Config holds configuration for the page server.
type Config struct {
	// Address is the address to listen on (e.g., ":8080" or "localhost:3000").
	// Default: ":8080".
	Address string

	// Store resolves page names. Required.
	Store page.Store

	// Pretty enables indented HTML output.
	Pretty bool

	// Lang is written on <html> when a page sets no language.
	// Default: "en".
	Lang string

	// StaticDir is served under /static/ when set.
	StaticDir string

	// Scripts are inline scripts injected before </body> on every page.
	Scripts []string

	// Reload is mounted at /_jml/reload when set.
	Reload http.Handler

	// Metrics

	// DisableMetrics turns off the Prometheus middleware and /metrics.
	DisableMetrics bool

	// Registry receives the page metrics and backs /metrics.
	// Default: a new registry per server.
	Registry *prometheus.Registry

	// Tracing

	// TracerProvider supplies render spans. Default: the global provider.
	TracerProvider trace.TracerProvider

	// Server lifecycle

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	// Default: 10 seconds.
	ShutdownTimeout time.Duration

	// ReadHeaderTimeout is the maximum time to read request headers.
	// Default: 5 seconds.
	ReadHeaderTimeout time.Duration

	// Logger receives request and render diagnostics.
	// Default: slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Address:           ":8080",
		Lang:              "en",
		ShutdownTimeout:   10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// withDefaults fills unset fields from DefaultConfig.
func (c *Config) withDefaults() *Config {
	out := *c
	d := DefaultConfig()
	if out.Address == "" {
		out.Address = d.Address
	}
	if out.Lang == "" {
		out.Lang = d.Lang
	}
	if out.ShutdownTimeout == 0 {
		out.ShutdownTimeout = d.ShutdownTimeout
	}
	if out.ReadHeaderTimeout == 0 {
		out.ReadHeaderTimeout = d.ReadHeaderTimeout
	}
	if out.Logger == nil {
		out.Logger = slog.Default()
	}
	if out.Registry == nil && !out.DisableMetrics {
		out.Registry = prometheus.NewRegistry()
	}
	return &out
}
