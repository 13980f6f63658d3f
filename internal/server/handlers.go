package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-formflow/pkg/flow"
	"github.com/goliatone/go-formflow/pkg/forms"
	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/render"
	"github.com/goliatone/go-formflow/pkg/renderers/html"
	"github.com/goliatone/go-formflow/pkg/session"
)

var errNoSignIn = errors.New("server: no sign-in available for this request")

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	items, err := s.deps.Backend.ListItems(ctx)
	if err != nil {
		s.logger.Warn("list items failed", slog.Any("error", err))
	}

	user, _ := userFrom(ctx)
	catalog := render.BuildCatalog(items, err, render.RenderOptions{User: user, Theme: s.theme})
	w.Header().Set("Content-Type", s.deps.Renderer.ContentType())
	if err := s.deps.Renderer.RenderCatalog(ctx, catalog, w); err != nil {
		s.logger.Error("render catalog failed", slog.Any("error", err))
	}
}

func (s *Server) handleCreatePage(w http.ResponseWriter, r *http.Request) {
	f, err := s.createFlow()
	if err != nil {
		s.fail(w, err)
		return
	}
	token := s.views.Put(r.URL.Path, f)
	s.start(w, r, token, func(ctx context.Context, view flow.View) error {
		return f.Start(ctx, view)
	})
}

func (s *Server) handleCreateSubmit(w http.ResponseWriter, r *http.Request) {
	s.submit(w, r, func() (flow.Submitter, error) {
		return s.createFlow()
	})
}

func (s *Server) handleEditPage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	f, err := s.editFlow(id)
	if err != nil {
		s.fail(w, err)
		return
	}
	token := s.views.Put(r.URL.Path, f)
	s.start(w, r, token, func(ctx context.Context, view flow.View) error {
		return f.StartDeferred(ctx, view, forms.LoadFurniture(ctx, s.deps.Backend, id))
	})
	if f.Unavailable() {
		s.views.Delete(token)
	}
}

func (s *Server) handleEditSubmit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.submit(w, r, func() (flow.Submitter, error) {
		return s.editFlow(id)
	})
}

func (s *Server) handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	f, err := s.registerFlow()
	if err != nil {
		s.fail(w, err)
		return
	}
	token := s.views.Put(r.URL.Path, f)
	s.start(w, r, token, func(ctx context.Context, view flow.View) error {
		return f.Start(ctx, view)
	})
}

func (s *Server) handleRegisterSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := withSignIn(r.Context(), func(ctx context.Context, user model.User) error {
		id := session.NewID()
		if err := s.deps.Sessions.Put(ctx, id, user); err != nil {
			return err
		}
		s.setSessionCookie(w, id)
		return nil
	})
	s.submit(w, r.WithContext(ctx), func() (flow.Submitter, error) {
		return s.registerFlow()
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, ok := userFrom(ctx); ok {
		if err := s.deps.Backend.Logout(ctx); err != nil {
			s.logger.Warn("api logout failed", slog.Any("error", err))
		}
	}
	if cookie, err := r.Cookie(s.cfg.Session.Cookie); err == nil && cookie.Value != "" {
		if err := s.deps.Sessions.Delete(ctx, cookie.Value); err != nil {
			s.logger.Warn("session delete failed", slog.Any("error", err))
		}
	}
	s.clearSessionCookie(w)
	http.Redirect(w, r, flow.DefaultSuccessPath, http.StatusSeeOther)
}

// start renders the first page of a freshly registered flow.
func (s *Server) start(w http.ResponseWriter, r *http.Request, token string, run func(context.Context, flow.View) error) {
	view := html.NewView(s.deps.Renderer, w, s.renderOptions(r.Context(), token))
	if err := run(r.Context(), view); err != nil {
		s.views.Delete(token)
		s.renderFailed(w, view, err)
	}
}

// submit resolves the page view named by the posted token, or starts a new
// one when the token is unknown or expired, and hands it the submission.
func (s *Server) submit(w http.ResponseWriter, r *http.Request, fresh func() (flow.Submitter, error)) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	raw := make(map[string]string, len(r.PostForm))
	for key, values := range r.PostForm {
		if len(values) > 0 {
			raw[key] = values[0]
		}
	}

	token := strings.TrimSpace(raw[render.ViewTokenField])
	f, ok := s.views.Get(token, r.URL.Path)
	if !ok {
		created, err := fresh()
		if err != nil {
			s.fail(w, err)
			return
		}
		f = created
		token = s.views.Put(r.URL.Path, f)
	}

	ctx := r.Context()
	view := html.NewView(s.deps.Renderer, w, s.renderOptions(ctx, token))
	outcome, err := f.HandleSubmit(ctx, view, raw)
	switch {
	case errors.Is(err, flow.ErrSubmissionInFlight):
		http.Error(w, "submission already in progress", http.StatusConflict)
		return
	case errors.Is(err, flow.ErrUnavailable):
		s.views.Delete(token)
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	case errors.Is(err, flow.ErrFlowClosed):
		s.views.Delete(token)
		http.Redirect(w, r, flow.DefaultSuccessPath, http.StatusSeeOther)
		return
	case err != nil:
		s.renderFailed(w, view, err)
		return
	}
	if outcome == flow.OutcomeSucceeded {
		s.views.Delete(token)
	}
}

func (s *Server) renderOptions(ctx context.Context, token string) render.RenderOptions {
	user, _ := userFrom(ctx)
	return render.RenderOptions{
		Hidden: render.MergeHiddenFields(nil, render.ViewToken(token)),
		User:   user,
		Theme:  s.theme,
	}
}

func (s *Server) renderFailed(w http.ResponseWriter, view *html.View, err error) {
	s.logger.Error("form page failed", slog.Any("error", err))
	if !view.Written() {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	s.logger.Warn("form setup failed", slog.Any("error", err))
	http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
}

func (s *Server) createFlow() (*flow.Flow[model.Furniture], error) {
	cfg, err := s.deps.Forms.CreateFurniture(s.deps.Backend)
	if err != nil {
		return nil, err
	}
	return flow.New(cfg, s.flowOptions()...)
}

func (s *Server) editFlow(id string) (*flow.Flow[model.Furniture], error) {
	cfg, err := s.deps.Forms.EditFurniture(s.deps.Backend, id)
	if err != nil {
		return nil, err
	}
	cfg.PlaceholderAfter = s.cfg.Views.PlaceholderAfter
	return flow.New(cfg, s.flowOptions()...)
}

func (s *Server) registerFlow() (*flow.Flow[model.User], error) {
	cfg, err := s.deps.Forms.RegisterUser(s.deps.Backend, func(ctx context.Context, user model.User) error {
		signIn, ok := signInFrom(ctx)
		if !ok {
			return errNoSignIn
		}
		if err := signIn(ctx, user); err != nil {
			return fmt.Errorf("server: sign in %s: %w", user.Email, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return flow.New(cfg, s.flowOptions()...)
}

func (s *Server) flowOptions() []flow.Option {
	opts := []flow.Option{flow.WithLogger(s.logger)}
	if s.deps.Metrics != nil {
		opts = append(opts, flow.WithObserver(s.deps.Metrics))
	}
	return opts
}
