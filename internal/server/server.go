// Package server serves the furniture catalog and its form flows over HTTP.
//
// Every GET of a form page starts one flow instance and registers it under a
// page-view token the form posts back in a hidden input. POSTs resolve the
// instance by token so its state survives between the render that showed an
// error and the next submission.
package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	theme "github.com/goliatone/go-theme"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/goliatone/go-formflow/internal/config"
	"github.com/goliatone/go-formflow/pkg/forms"
	"github.com/goliatone/go-formflow/pkg/metrics"
	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/render"
	"github.com/goliatone/go-formflow/pkg/session"
)

// Backend is the data API surface the server needs.
type Backend interface {
	forms.Catalog
	forms.Registrar
	ListItems(ctx context.Context) ([]model.Furniture, error)
	Logout(ctx context.Context) error
}

// Deps are the collaborators a Server is built from. Metrics, Gatherer and
// Assets are optional.
type Deps struct {
	Backend  Backend
	Forms    *forms.Set
	Sessions session.Store
	Renderer render.Renderer
	Themes   *render.Themes
	Metrics  *metrics.Collectors
	Gatherer prometheus.Gatherer
	Assets   fs.FS
	Logger   *slog.Logger
}

type Server struct {
	cfg    config.Config
	deps   Deps
	logger *slog.Logger
	theme  *theme.RendererConfig
	views  *viewRegistry
	router chi.Router
}

// New validates deps and builds the router.
func New(cfg config.Config, deps Deps) (*Server, error) {
	switch {
	case deps.Backend == nil:
		return nil, errors.New("server: backend is required")
	case deps.Forms == nil:
		return nil, errors.New("server: form definitions are required")
	case deps.Sessions == nil:
		return nil, errors.New("server: session store is required")
	case deps.Renderer == nil:
		return nil, errors.New("server: renderer is required")
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Server{
		cfg:    cfg,
		deps:   deps,
		logger: logger,
	}
	if deps.Themes != nil {
		resolved, err := deps.Themes.Resolve(cfg.Theme.Name, cfg.Theme.Variant)
		if err != nil {
			return nil, fmt.Errorf("server: resolve theme: %w", err)
		}
		s.theme = resolved
	}
	s.views = newViewRegistry(cfg.Views.TTL, func(n int) {
		if deps.Metrics != nil {
			deps.Metrics.SetActiveViews(n)
		}
	})
	s.router = s.routes()
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.instrument)
	r.Use(middleware.Recoverer)
	r.Use(s.loadSession)

	r.Get("/healthz", s.handleHealth)
	if s.deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.deps.Gatherer, promhttp.HandlerOpts{}))
	}
	if s.deps.Assets != nil {
		r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServerFS(s.deps.Assets)))
	}

	r.Get("/", s.handleCatalog)
	r.Get("/create", s.handleCreatePage)
	r.Post("/create", s.handleCreateSubmit)
	r.Get("/edit/{id}", s.handleEditPage)
	r.Post("/edit/{id}", s.handleEditSubmit)
	r.Get("/register", s.handleRegisterPage)
	r.Post("/register", s.handleRegisterSubmit)
	r.Post("/logout", s.handleLogout)
	return r
}

// Run listens on the configured address until ctx is cancelled, then shuts
// down within the configured grace period.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.HTTP.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", slog.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.HTTP.ShutdownGrace)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
