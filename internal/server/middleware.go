package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/goliatone/go-formflow/pkg/api"
	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/session"
)

type contextKey string

const (
	userKey   contextKey = "user"
	signInKey contextKey = "signIn"
)

// instrument logs one line per request and records request metrics under
// the matched route pattern.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(started)

		var route string
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			route = rctx.RoutePattern()
		}
		if s.deps.Metrics != nil {
			s.deps.Metrics.ObserveRequest(route, r.Method, status, elapsed.Seconds())
		}
		s.logger.Info("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", status),
			slog.Duration("duration", elapsed),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// loadSession resolves the session cookie into the signed-in user and
// forwards the user's access token to data API calls.
func (s *Server) loadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(s.cfg.Session.Cookie)
		if err != nil || !session.Valid(cookie.Value) {
			next.ServeHTTP(w, r)
			return
		}
		user, err := s.deps.Sessions.Get(r.Context(), cookie.Value)
		if err != nil {
			if !errors.Is(err, session.ErrNotFound) {
				s.logger.Warn("session lookup failed", slog.Any("error", err))
			}
			s.clearSessionCookie(w)
			next.ServeHTTP(w, r)
			return
		}
		ctx := context.WithValue(r.Context(), userKey, user)
		ctx = api.WithAccessToken(ctx, user.AccessToken)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userFrom(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userKey).(model.User)
	if !ok {
		return nil, false
	}
	return &user, true
}

// signInFunc stores a registered user and sets the session cookie on the
// response being served.
type signInFunc func(ctx context.Context, user model.User) error

func withSignIn(ctx context.Context, fn signInFunc) context.Context {
	return context.WithValue(ctx, signInKey, fn)
}

func signInFrom(ctx context.Context) (signInFunc, bool) {
	fn, ok := ctx.Value(signInKey).(signInFunc)
	return fn, ok
}

func (s *Server) setSessionCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.Session.Cookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.cfg.IsProduction(),
		MaxAge:   int(s.cfg.Session.TTL.Seconds()),
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.Session.Cookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})
}
