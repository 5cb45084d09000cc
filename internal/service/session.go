package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	domainauth "github.com/days/lms-ui-api/internal/domain/auth"
	"github.com/days/lms-ui-api/internal/ports"
)

// defaultSessionTTL bounds a session when the backend token carries no
// usable expiry claim.
const defaultSessionTTL = 24 * time.Hour

// SessionServiceOptions groups dependencies for SessionService.
type SessionServiceOptions struct {
	Sessions ports.SessionStore
	// TTL overrides defaultSessionTTL when positive.
	TTL time.Duration
}

// SessionService is the sole owner of the Session entity. Establish and
// Clear are the only two mutations in the system; everything else reads
// through Restore. All writes replace or remove the whole record.
type SessionService struct {
	sessions ports.SessionStore
	ttl      time.Duration
}

// NewSessionService constructs a new SessionService.
func NewSessionService(opts SessionServiceOptions) *SessionService {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionService{
		sessions: opts.Sessions,
		ttl:      ttl,
	}
}

// EstablishInput carries the identity returned by a successful backend login.
type EstablishInput struct {
	Token       string
	SubjectName string
	DisplayName string
	Role        domainauth.Role
}

// Establish creates and persists a session from a successful login response.
// All four fields must be present; a session is never partially populated.
// The session expiry follows the token's exp claim when the token is a
// parseable JWT, otherwise the configured TTL applies.
func (s *SessionService) Establish(ctx context.Context, in EstablishInput) (domainauth.Session, error) {
	if in.Token == "" {
		return domainauth.Session{}, errors.New("token is required")
	}
	if in.SubjectName == "" {
		return domainauth.Session{}, errors.New("subject name is required")
	}
	if in.DisplayName == "" {
		return domainauth.Session{}, errors.New("display name is required")
	}
	if !in.Role.Valid() {
		return domainauth.Session{}, fmt.Errorf("unknown role %q", in.Role)
	}

	now := time.Now()
	expiresAt := now.Add(s.ttl)
	if exp, ok := tokenExpiry(in.Token); ok && exp.After(now) {
		expiresAt = exp
	}

	sess := domainauth.Session{
		ID:          generateSessionID(),
		Token:       in.Token,
		SubjectName: in.SubjectName,
		DisplayName: in.DisplayName,
		Role:        in.Role,
		ExpiresAt:   expiresAt,
	}

	if err := s.sessions.Save(ctx, sess); err != nil {
		return domainauth.Session{}, fmt.Errorf("save session: %w", err)
	}

	return sess, nil
}

// Clear removes a session. Idempotent: clearing an unknown or empty session
// ID is a no-op, not an error.
func (s *SessionService) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil // Nothing to clear
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}

// Restore reads the persisted session for an incoming request. It never
// returns an error: a storage failure, a missing record, a partial record,
// and an expired record all restore to the same thing, an anonymous session
// (nil). Partial and corrupt leftovers are removed by the store on read.
func (s *SessionService) Restore(ctx context.Context, sessionID string) *domainauth.Session {
	if sessionID == "" {
		return nil
	}

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil
	}
	return &sess
}

// tokenExpiry extracts the exp claim from a backend bearer token without
// verifying its signature. The backend is the authority on token validity;
// the claim only sizes our session TTL.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// generateSessionID creates a cryptographically secure random session ID.
func generateSessionID() string {
	return uuid.New().String()
}
