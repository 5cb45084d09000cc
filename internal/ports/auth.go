package ports

// Package ports defines interfaces (hexagonal ports) for auth-related
// behavior. Implementations live in internal/adapters; orchestration in
// internal/service.

import (
	"context"

	domainauth "github.com/days/lms-ui-api/internal/domain/auth"
)

// SessionStore persists and retrieves user sessions. The store holds the
// whole session record as one unit so writes and clears are atomic; partial
// records can only appear through corruption and readers treat them as
// absent.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}
