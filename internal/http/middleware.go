package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	domainauth "github.com/days/lms-ui-api/internal/domain/auth"
	"github.com/days/lms-ui-api/internal/policy"
	"github.com/days/lms-ui-api/internal/service"
)

// SessionProvider is the session surface the HTTP layer depends on.
type SessionProvider interface {
	Establish(ctx context.Context, in service.EstablishInput) (domainauth.Session, error)
	Clear(ctx context.Context, sessionID string) error
	Restore(ctx context.Context, sessionID string) *domainauth.Session
}

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// SessionRestore returns a middleware that rehydrates the session named by
// the request's cookie and attaches it to the context. A missing cookie, an
// unknown session ID, or a storage failure all leave the request anonymous;
// restore never blocks a request.
func SessionRestore(sessions SessionProvider, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cookie, err := r.Cookie(cookieName); err == nil {
				if session := sessions.Restore(r.Context(), cookie.Value); session != nil {
					r = r.WithContext(SetSessionInContext(r.Context(), session))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// PageGuard returns a middleware that applies the navigation guard to a page
// route. Denied navigations answer 303 so the browser lands on the redirect
// target with a GET.
func PageGuard(dest policy.Destination) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := Guard(GetSessionFromContext(r.Context()), dest)
			if decision.Outcome == GuardRedirect {
				http.Redirect(w, r, decision.Location, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// APIGuard returns a middleware enforcing the same policy as PageGuard for
// JSON routes: 401 for anonymous callers, 403 when the role is not in the
// permitted set. An empty role set admits every authenticated session.
func APIGuard(roles ...domainauth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := GetSessionFromContext(r.Context())
			if session == nil {
				WriteError(w, ErrorParams{
					Code:    http.StatusUnauthorized,
					ErrCode: "authentication_required",
					Err:     errors.New("authentication required"),
				})
				return
			}
			if len(roles) > 0 && !roleIn(session.Role, roles) {
				WriteError(w, ErrorParams{
					Code:    http.StatusForbidden,
					ErrCode: "insufficient_permissions",
					Err:     errors.New("insufficient permissions"),
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func roleIn(role domainauth.Role, roles []domainauth.Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// Chain applies middlewares right to left, so the first listed runs first.
func Chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
