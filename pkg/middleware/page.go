package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type pageKey struct{}

type pageSlot struct {
	name string
}

// withPage returns a request carrying a page slot, reusing one installed
// by an outer middleware.
func withPage(r *http.Request) (*http.Request, *pageSlot) {
	if s, ok := r.Context().Value(pageKey{}).(*pageSlot); ok {
		return r, s
	}
	s := &pageSlot{}
	return r.WithContext(context.WithValue(r.Context(), pageKey{}, s)), s
}

// SetPage names the page being served by the current request.
func SetPage(ctx context.Context, name string) {
	if s, ok := ctx.Value(pageKey{}).(*pageSlot); ok {
		s.name = name
	}
}

// PageFromContext returns the page named with SetPage, or "".
func PageFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(pageKey{}).(*pageSlot); ok {
		return s.name
	}
	return ""
}

// pageLabel resolves the label for a finished request.
func pageLabel(r *http.Request, s *pageSlot) string {
	if s.name != "" {
		return s.name
	}
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
