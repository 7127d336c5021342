package server

import (
	"errors"
	"net/http"
	"path"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/text/language"

	"github.com/jml-dev/jml/pkg/middleware"
	"github.com/jml-dev/jml/pkg/page"
	"github.com/jml-dev/jml/pkg/render"
	"github.com/jml-dev/jml/pkg/routepath"
)

// PageName maps a loosely written path, such as a command line argument,
// to a page name: "/" is "index", a trailing ".html" is dropped and ".."
// cannot climb above the root.
func PageName(urlPath string) string {
	name := strings.Trim(path.Clean("/"+urlPath), "/")
	name = strings.TrimSuffix(name, ".html")
	if name == "" {
		return "index"
	}
	return name
}

func (s *Server) servePage(w http.ResponseWriter, r *http.Request) {
	canon, err := routepath.CanonicalizePath(r.URL.EscapedPath())
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	if canon.Changed {
		target := canon.Path
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}
		http.Redirect(w, r, target, http.StatusPermanentRedirect)
		return
	}
	name, err := routepath.PageName(canon.Path)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	middleware.SetPage(r.Context(), name)
	logger := s.logger.With("page", name, "request_id", chimw.GetReqID(r.Context()))

	p, err := s.config.Store.Load(r.Context(), name)
	if errors.Is(err, page.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		logger.Error("page load failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	doc, err := Compose(p, ComposeOptions{
		Language: acceptLanguage(r),
		Search:   r.URL.RawQuery,
		Logger:   s.config.Logger,
	})
	if err != nil {
		attrs := []any{"error", err}
		var pe *PanicError
		if errors.As(err, &pe) {
			attrs = append(attrs, "stack", string(pe.Stack))
		}
		logger.Error("page construction failed", attrs...)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	sr := render.NewStreamingRenderer(w, render.RendererConfig{
		Pretty:  s.config.Pretty,
		Lang:    s.config.Lang,
		Scripts: s.config.Scripts,
	})
	if err := sr.RenderDocument(doc); err != nil {
		logger.Warn("write failed", "error", err)
	}
}

// acceptLanguage returns the preferred language tag from the request, or "".
func acceptLanguage(r *http.Request) string {
	tags, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language"))
	if err != nil || len(tags) == 0 {
		return ""
	}
	return tags[0].String()
}
