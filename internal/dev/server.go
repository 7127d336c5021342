package dev

import (
	"context"
	"log/slog"
	"net"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/jml-dev/jml/internal/build"
	"github.com/jml-dev/jml/internal/config"
	"github.com/jml-dev/jml/internal/errors"
	"github.com/jml-dev/jml/pkg/page"
	"github.com/jml-dev/jml/pkg/server"
)

// Options configures the development server.
type Options struct {
	// Logger receives dev server output. Default: slog.Default().
	Logger *slog.Logger

	// OnChange is called after each change has been handled.
	OnChange func(Change)
}

// Server serves pages with live reload while watching the site for changes.
type Server struct {
	config  *config.Config
	options Options
	logger  *slog.Logger
	hub     *ReloadHub
	watcher *Watcher
	server  *server.Server
}

// NewServer creates a development server for cfg, loading pages from store.
func NewServer(cfg *config.Config, store page.Store, options Options) *Server {
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	s := &Server{
		config:  cfg,
		options: options,
		logger:  options.Logger.With("component", "dev"),
	}

	srvConfig := &server.Config{
		Address:        cfg.Address(),
		Store:          store,
		Pretty:         cfg.Server.Pretty,
		Lang:           cfg.Server.Lang,
		StaticDir:      cfg.StaticPath(),
		DisableMetrics: !cfg.MetricsEnabled(),
		Logger:         options.Logger,
	}
	if cfg.ReloadEnabled() {
		s.hub = NewReloadHub()
		srvConfig.Scripts = []string{ClientScript}
		srvConfig.Reload = s.hub
	}
	s.server = server.New(srvConfig)

	s.watcher = NewWatcher(WatcherConfig{
		Paths:    CollectWatchPaths(cfg),
		Interval: cfg.WatchInterval(),
	})
	s.watcher.OnChange(s.handleChange)
	return s
}

// Hub returns the reload hub, or nil when live reload is disabled.
func (s *Server) Hub() *ReloadHub {
	return s.hub
}

// Handler returns the underlying page server.
func (s *Server) Handler() *server.Server {
	return s.server
}

// Start listens on the configured address and runs until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address())
	if err != nil {
		return errors.New("E161").Wrap(err).
			WithSuggestion("Pick another port with --port or server.port in jml.json.")
	}
	return s.Serve(ctx, ln)
}

// Serve runs the page server on ln alongside the watcher.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.server.Serve(ctx, ln)
	})
	g.Go(func() error {
		err := s.watcher.Start(ctx)
		if ctx.Err() != nil {
			return nil
		}
		return err
	})

	s.logger.Info("watching for changes", "paths", s.watcher.config.Paths)
	err := g.Wait()
	if s.hub != nil {
		s.hub.Close()
	}
	return err
}

// handleChange checks changed pages and tells connected browsers.
func (s *Server) handleChange(change Change) {
	logger := s.logger.With("path", change.Path, "type", change.Type.String())
	defer func() {
		if s.options.OnChange != nil {
			s.options.OnChange(change)
		}
	}()

	switch change.Type {
	case ChangePage:
		if !change.Removed {
			if err := checkPage(change.Path); err != nil {
				logger.Error("page error", "error", err)
				if s.hub != nil {
					s.hub.NotifyError(filepath.Base(change.Path), overlayText(err))
				}
				return
			}
		}
		logger.Info("page changed")
		if s.hub != nil {
			s.hub.ClearError()
			s.hub.NotifyReload()
		}
	case ChangeCSS:
		logger.Info("stylesheet changed")
		if s.hub != nil {
			s.hub.NotifyCSS(filepath.Base(change.Path))
		}
	case ChangeConfig:
		logger.Warn("jml.json changed, restart to apply")
	default:
		logger.Info("asset changed")
		if s.hub != nil {
			s.hub.NotifyReload()
		}
	}
}

// checkPage decodes a page file and reports any error with its location.
func checkPage(path string) *errors.JmlError {
	data, err := os.ReadFile(path)
	if err != nil {
		return build.PageError(err)
	}
	if _, err := page.Decode(path, data); err != nil {
		return build.PageError(err)
	}
	return nil
}

// overlayText is the error shown in the browser overlay.
func overlayText(err *errors.JmlError) string {
	text := err.Error()
	if err.Location != nil {
		text = err.Location.String() + ": " + text
	}
	return text
}
