package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	return m.GetCounter().GetValue()
}

func histogramCount(t *testing.T, o prometheus.Observer) uint64 {
	t.Helper()
	metric, ok := o.(prometheus.Metric)
	if !ok {
		t.Fatalf("observer %T does not implement prometheus.Metric", o)
	}
	var m dto.Metric
	if err := metric.Write(&m); err != nil {
		t.Fatalf("histogram Write() error: %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

func testRouter(mw ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(mw...)
	r.Get("/{page}", func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "page")
		switch name {
		case "missing":
			http.NotFound(w, r)
		case "broken":
			SetPage(r.Context(), name)
			http.Error(w, "boom", http.StatusInternalServerError)
		default:
			SetPage(r.Context(), name)
			w.Write([]byte("<p>ok</p>"))
		}
	})
	return r
}

func serve(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestPrometheusRecordsPages(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg))
	h := testRouter(m.Handler)

	serve(h, "/cards")
	serve(h, "/cards")
	serve(h, "/broken")
	serve(h, "/missing")

	tests := []struct {
		page, status string
		want         float64
	}{
		{"cards", "200", 2},
		{"broken", "500", 1},
		{"/{page}", "404", 1},
	}
	for _, tc := range tests {
		got := counterValue(t, m.PagesRendered.WithLabelValues(tc.page, tc.status))
		if got != tc.want {
			t.Errorf("pages_rendered_total{%s,%s} = %v, want %v", tc.page, tc.status, got, tc.want)
		}
	}
	if got := histogramCount(t, m.RenderDuration.WithLabelValues("cards")); got != 2 {
		t.Errorf("render_duration_seconds count = %d, want 2", got)
	}
	if got := counterValue(t, m.RenderErrors.WithLabelValues("broken")); got != 1 {
		t.Errorf("render_errors_total = %v, want 1", got)
	}
}

func TestPrometheusRegistersNamespace(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := testRouter(Prometheus(WithRegistry(reg), WithNamespace("site")))
	serve(h, "/cards")

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{"site_pages_rendered_total", "site_render_duration_seconds"} {
		if !names[want] {
			t.Errorf("missing metric %s in %v", want, names)
		}
	}
}

type recordedSpan struct {
	noop.Span
	name   string
	attrs  []attribute.KeyValue
	status codes.Code
	ended  bool
}

func (s *recordedSpan) SetAttributes(kv ...attribute.KeyValue) { s.attrs = append(s.attrs, kv...) }
func (s *recordedSpan) SetStatus(c codes.Code, _ string)      { s.status = c }
func (s *recordedSpan) End(...trace.SpanEndOption)             { s.ended = true }

func (s *recordedSpan) attr(key string) (attribute.Value, bool) {
	for _, kv := range s.attrs {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

type recordingTracer struct {
	noop.Tracer
	spans []*recordedSpan
}

func (tr *recordingTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	cfg := trace.NewSpanStartConfig(opts...)
	s := &recordedSpan{name: name, attrs: cfg.Attributes()}
	tr.spans = append(tr.spans, s)
	return trace.ContextWithSpan(ctx, s), s
}

type recordingProvider struct {
	noop.TracerProvider
	tracer *recordingTracer
}

func (p *recordingProvider) Tracer(string, ...trace.TracerOption) trace.Tracer { return p.tracer }

func TestOpenTelemetrySpans(t *testing.T) {
	tp := &recordingProvider{tracer: &recordingTracer{}}
	var inHandler trace.Span
	r := chi.NewRouter()
	r.Use(OpenTelemetry(
		WithTracerProvider(tp),
		WithAttributeExtractor(func(*http.Request) []attribute.KeyValue {
			return []attribute.KeyValue{attribute.String("test.attr", "ok")}
		}),
	))
	r.Get("/{page}", func(w http.ResponseWriter, r *http.Request) {
		inHandler = trace.SpanFromContext(r.Context())
		SetPage(r.Context(), chi.URLParam(r, "page"))
		if chi.URLParam(r, "page") == "broken" {
			w.WriteHeader(http.StatusInternalServerError)
		}
	})

	serve(r, "/cards")
	serve(r, "/broken")

	spans := tp.tracer.spans
	if len(spans) != 2 {
		t.Fatalf("got %d spans, want 2", len(spans))
	}
	if inHandler != trace.Span(spans[1]) {
		t.Errorf("handler should see the request span")
	}
	ok := spans[0]
	if ok.name != "jml /cards" || !ok.ended || ok.status != codes.Ok {
		t.Errorf("unexpected span %+v", ok)
	}
	if v, _ := ok.attr("jml.page"); v.AsString() != "cards" {
		t.Errorf("jml.page = %q", v.AsString())
	}
	if v, _ := ok.attr("test.attr"); v.AsString() != "ok" {
		t.Errorf("test.attr = %q", v.AsString())
	}
	failed := spans[1]
	if failed.status != codes.Error {
		t.Errorf("status = %v, want Error", failed.status)
	}
	if v, _ := failed.attr("http.status_code"); v.AsInt64() != 500 {
		t.Errorf("http.status_code = %d", v.AsInt64())
	}
}

func TestOpenTelemetryFilter(t *testing.T) {
	tp := &recordingProvider{tracer: &recordingTracer{}}
	h := testRouter(OpenTelemetry(
		WithTracerProvider(tp),
		WithFilter(func(r *http.Request) bool { return r.URL.Path != "/healthz" }),
	))
	serve(h, "/healthz")
	if len(tp.tracer.spans) != 0 {
		t.Errorf("filtered request should not be traced")
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	h := testRouter(Logger(logger))

	serve(h, "/cards")
	serve(h, "/broken")

	out := buf.String()
	if !strings.Contains(out, "level=INFO msg=request method=GET path=/cards page=cards status=200") {
		t.Errorf("missing info line:\n%s", out)
	}
	if !strings.Contains(out, "level=ERROR") || !strings.Contains(out, "status=500") {
		t.Errorf("missing error line:\n%s", out)
	}
}

func TestPageSlotShared(t *testing.T) {
	var seen string
	h := Logger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))(
		Prometheus(WithRegistry(prometheus.NewRegistry()))(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				SetPage(r.Context(), "deck")
				seen = PageFromContext(r.Context())
			})))
	serve(h, "/deck")
	if seen != "deck" {
		t.Errorf("PageFromContext = %q, want deck", seen)
	}
	if got := PageFromContext(context.Background()); got != "" {
		t.Errorf("PageFromContext without slot = %q", got)
	}
}
