package auth

import "context"

type sessionContextKey struct{}

// ContextWithSession attaches a restored session to the request context.
func ContextWithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

// SessionFromContext returns the session attached to ctx, or nil when the
// request is anonymous.
func SessionFromContext(ctx context.Context) *Session {
	sess, ok := ctx.Value(sessionContextKey{}).(*Session)
	if !ok {
		return nil
	}
	return sess
}
