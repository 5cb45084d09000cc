package httpx

import (
	"context"

	domainauth "github.com/days/lms-ui-api/internal/domain/auth"
)

// SetSessionInContext returns a child context carrying the given session.
// If session is nil, the original ctx is returned unchanged.
func SetSessionInContext(ctx context.Context, session *domainauth.Session) context.Context {
	if session == nil {
		return ctx
	}
	return domainauth.ContextWithSession(ctx, session)
}

// GetSessionFromContext retrieves the session from the request context, nil
// when the request is anonymous.
func GetSessionFromContext(ctx context.Context) *domainauth.Session {
	return domainauth.SessionFromContext(ctx)
}

// IsAnonymous reports whether the current request carries no session.
func IsAnonymous(ctx context.Context) bool {
	return domainauth.SessionFromContext(ctx) == nil
}
