// Package middleware provides net/http middleware for the jml page server.
//
// This package includes:
//   - OpenTelemetry tracing of page renders
//   - Prometheus metrics for rendered pages
//   - Structured request logging
//
// All middleware has the standard func(http.Handler) http.Handler shape and
// can be mounted on a chi router with Use.
//
// # Page Labels
//
// Metrics and spans are labelled with the page being rendered. A handler
// names it with SetPage; otherwise the chi route pattern is used.
//
//	func servePage(w http.ResponseWriter, r *http.Request) {
//	    middleware.SetPage(r.Context(), "cards")
//	    ...
//	}
//
// # OpenTelemetry Middleware
//
//	r.Use(middleware.OpenTelemetry(
//	    middleware.WithTracerName("my-site"),
//	))
//
// The tracer comes from the global provider unless WithTracerProvider is
// given. Configure it in main() before serving.
//
// # Prometheus Metrics
//
//   - jml_pages_rendered_total: pages served, by page and status
//   - jml_render_duration_seconds: render duration histogram, by page
//   - jml_render_errors_total: 5xx responses, by page
//
//	reg := prometheus.NewRegistry()
//	r.Use(middleware.Prometheus(middleware.WithRegistry(reg)))
//	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
package middleware
