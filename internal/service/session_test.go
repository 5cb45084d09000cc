package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/days/lms-ui-api/internal/adapters/memstore"
	domainauth "github.com/days/lms-ui-api/internal/domain/auth"
)

// failingStore is a test double for exercising storage error paths.
type failingStore struct {
	saveErr   error
	getErr    error
	deleteErr error
}

func (f *failingStore) Save(context.Context, domainauth.Session) error { return f.saveErr }
func (f *failingStore) Get(context.Context, string) (domainauth.Session, error) {
	return domainauth.Session{}, f.getErr
}
func (f *failingStore) Delete(context.Context, string) error { return f.deleteErr }

func newTestService() (*SessionService, *memstore.SessionStore) {
	store := memstore.NewSessionStore()
	svc := NewSessionService(SessionServiceOptions{Sessions: store})
	return svc, store
}

func adminInput() EstablishInput {
	return EstablishInput{
		Token:       "abc",
		SubjectName: "admin",
		DisplayName: "admin",
		Role:        domainauth.RoleAdmin,
	}
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "admin",
		"exp": exp.Unix(),
	})
	signed, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestSessionService_Establish(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	sess, err := svc.Establish(ctx, adminInput())
	require.NoError(t, err)

	assert.NotEmpty(t, sess.ID)
	assert.True(t, sess.Complete())
	assert.Equal(t, "abc", sess.Token)
	assert.Equal(t, "admin", sess.SubjectName)
	assert.Equal(t, "admin", sess.DisplayName)
	assert.Equal(t, domainauth.RoleAdmin, sess.Role)
	assert.Equal(t, 1, store.Len())

	// Opaque token: expiry falls back to the default TTL.
	assert.WithinDuration(t, time.Now().Add(defaultSessionTTL), sess.ExpiresAt, time.Minute)
}

func TestSessionService_Establish_RejectsPartialInput(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*EstablishInput)
	}{
		{"empty token", func(in *EstablishInput) { in.Token = "" }},
		{"empty subject", func(in *EstablishInput) { in.SubjectName = "" }},
		{"empty display name", func(in *EstablishInput) { in.DisplayName = "" }},
		{"empty role", func(in *EstablishInput) { in.Role = "" }},
		{"unknown role", func(in *EstablishInput) { in.Role = "ROOT" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := adminInput()
			tt.mutate(&in)
			_, err := svc.Establish(ctx, in)
			require.Error(t, err)
			// Nothing partial may be persisted.
			assert.Equal(t, 0, store.Len())
		})
	}
}

func TestSessionService_Establish_TTLFromJWT(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	exp := time.Now().Add(2 * time.Hour)
	in := adminInput()
	in.Token = signedToken(t, exp)

	sess, err := svc.Establish(ctx, in)
	require.NoError(t, err)
	assert.WithinDuration(t, exp, sess.ExpiresAt, 2*time.Second)
}

func TestSessionService_Establish_PastJWTExpiryFallsBack(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	in := adminInput()
	in.Token = signedToken(t, time.Now().Add(-time.Hour))

	sess, err := svc.Establish(ctx, in)
	require.NoError(t, err)
	assert.True(t, sess.ExpiresAt.After(time.Now()))
}

func TestSessionService_Atomicity(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	// After any sequence of establish/clear calls the restored session is
	// either fully populated or absent, never partial.
	sess, err := svc.Establish(ctx, adminInput())
	require.NoError(t, err)

	restored := svc.Restore(ctx, sess.ID)
	require.NotNil(t, restored)
	assert.True(t, restored.Complete())

	require.NoError(t, svc.Clear(ctx, sess.ID))
	assert.Nil(t, svc.Restore(ctx, sess.ID))

	sess2, err := svc.Establish(ctx, EstablishInput{
		Token:       "xyz",
		SubjectName: "user",
		DisplayName: "Jane",
		Role:        domainauth.RoleUser,
	})
	require.NoError(t, err)
	restored = svc.Restore(ctx, sess2.ID)
	require.NotNil(t, restored)
	assert.True(t, restored.Complete())
}

func TestSessionService_Clear_Idempotent(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	sess, err := svc.Establish(ctx, adminInput())
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx, sess.ID))
	require.NoError(t, svc.Clear(ctx, sess.ID))
	require.NoError(t, svc.Clear(ctx, ""))
}

func TestSessionService_Restore_Idempotent(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	sess, err := svc.Establish(ctx, adminInput())
	require.NoError(t, err)

	first := svc.Restore(ctx, sess.ID)
	second := svc.Restore(ctx, sess.ID)
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, *first, *second)

	// Same for the anonymous case.
	assert.Nil(t, svc.Restore(ctx, "missing"))
	assert.Nil(t, svc.Restore(ctx, "missing"))
}

func TestSessionService_Restore_StorageErrorIsAnonymous(t *testing.T) {
	svc := NewSessionService(SessionServiceOptions{
		Sessions: &failingStore{getErr: errors.New("redis down")},
	})

	// A read failure restores to anonymous; it never propagates.
	assert.Nil(t, svc.Restore(context.Background(), "any"))
}

func TestSessionService_Restore_EmptyID(t *testing.T) {
	svc, _ := newTestService()
	assert.Nil(t, svc.Restore(context.Background(), ""))
}
