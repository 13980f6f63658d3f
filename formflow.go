// Package formflow wires the furniture catalog forms together: form
// definitions, the data API client, sessions, metrics, and the HTML and
// terminal views. Callers that only need one piece can use the packages
// under pkg/ directly.
package formflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/goliatone/go-formflow/internal/config"
	"github.com/goliatone/go-formflow/internal/server"
	"github.com/goliatone/go-formflow/pkg/api"
	"github.com/goliatone/go-formflow/pkg/flow"
	"github.com/goliatone/go-formflow/pkg/forms"
	"github.com/goliatone/go-formflow/pkg/metrics"
	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/render"
	"github.com/goliatone/go-formflow/pkg/renderers/html"
	"github.com/goliatone/go-formflow/pkg/renderers/tui"
	"github.com/goliatone/go-formflow/pkg/session"
)

// Config aliases the service configuration for callers of the root package.
type Config = config.Config

// App holds the collaborators shared by the HTTP server and the terminal
// commands.
type App struct {
	cfg      config.Config
	logger   *slog.Logger
	client   *api.Client
	forms    *forms.Set
	sessions session.Store
	metrics  *metrics.Collectors
	registry *prometheus.Registry
	redis    *redis.Client
}

// New builds an App from cfg. A nil logger discards output.
func New(cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	set, err := forms.Default()
	if err != nil {
		return nil, fmt.Errorf("formflow: load form definitions: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collectorSet := metrics.New(metrics.WithRegistry(registry))

	client, err := api.New(cfg.API.BaseURL,
		api.WithTimeout(cfg.API.Timeout),
		api.WithLogger(logger),
		api.WithObserver(collectorSet),
	)
	if err != nil {
		return nil, err
	}

	app := &App{
		cfg:      cfg,
		logger:   logger,
		client:   client,
		forms:    set,
		metrics:  collectorSet,
		registry: registry,
	}
	if err := app.openSessions(); err != nil {
		return nil, err
	}
	return app, nil
}

func (a *App) openSessions() error {
	switch a.cfg.Session.Backend {
	case "redis":
		client, err := session.NewRedisClient(a.cfg.Session.RedisURL)
		if err != nil {
			return fmt.Errorf("formflow: redis sessions: %w", err)
		}
		a.redis = client
		a.sessions = session.NewRedisStore(client, "", a.cfg.Session.TTL)
	default:
		a.sessions = session.NewMemoryStore(a.cfg.Session.TTL)
	}
	return nil
}

// Close releases external connections.
func (a *App) Close() error {
	if a.redis != nil {
		return a.redis.Close()
	}
	return nil
}

// Server builds the HTTP server.
func (a *App) Server() (*server.Server, error) {
	renderer, err := html.New()
	if err != nil {
		return nil, err
	}
	themes, err := render.DefaultThemes()
	if err != nil {
		return nil, err
	}
	return server.New(a.cfg, server.Deps{
		Backend:  a.client,
		Forms:    a.forms,
		Sessions: a.sessions,
		Renderer: renderer,
		Themes:   themes,
		Metrics:  a.metrics,
		Gatherer: a.registry,
		Assets:   html.AssetsFS(),
		Logger:   a.logger,
	})
}

// Serve runs the HTTP server until ctx is cancelled.
func (a *App) Serve(ctx context.Context) error {
	srv, err := a.Server()
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}

// CreateFurniture runs the create form in a terminal session. token is the
// access token sent with the write.
func (a *App) CreateFurniture(ctx context.Context, s *tui.Session, token string) (string, error) {
	cfg, err := a.forms.CreateFurniture(a.client)
	if err != nil {
		return "", err
	}
	f, err := flow.New(cfg, a.flowOptions()...)
	if err != nil {
		return "", err
	}
	return tui.Run(api.WithAccessToken(ctx, token), f, s)
}

// EditFurniture loads item id and runs the edit form in a terminal session.
func (a *App) EditFurniture(ctx context.Context, s *tui.Session, token, id string) (string, error) {
	cfg, err := a.forms.EditFurniture(a.client, id)
	if err != nil {
		return "", err
	}
	cfg.PlaceholderAfter = a.cfg.Views.PlaceholderAfter
	f, err := flow.New(cfg, a.flowOptions()...)
	if err != nil {
		return "", err
	}
	ctx = api.WithAccessToken(ctx, token)
	if err := f.StartDeferred(ctx, s, forms.LoadFurniture(ctx, a.client, id)); err != nil {
		return "", err
	}
	return tui.Run(ctx, f, s)
}

// RegisterUser runs the registration form in a terminal session and returns
// the registered user along with the redirect path.
func (a *App) RegisterUser(ctx context.Context, s *tui.Session) (model.User, string, error) {
	var registered model.User
	cfg, err := a.forms.RegisterUser(a.client, func(_ context.Context, user model.User) error {
		registered = user
		return nil
	})
	if err != nil {
		return model.User{}, "", err
	}
	f, err := flow.New(cfg, a.flowOptions()...)
	if err != nil {
		return model.User{}, "", err
	}
	path, err := tui.Run(ctx, f, s)
	if err != nil {
		return model.User{}, "", err
	}
	if registered.Email == "" {
		return model.User{}, "", errors.New("formflow: registration finished without a user")
	}
	return registered, path, nil
}

func (a *App) flowOptions() []flow.Option {
	return []flow.Option{
		flow.WithLogger(a.logger),
		flow.WithObserver(a.metrics),
	}
}
