package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	domainauth "github.com/days/lms-ui-api/internal/domain/auth"
	"github.com/days/lms-ui-api/internal/gateway"
	"github.com/days/lms-ui-api/internal/service"
)

// AuthHandlers provides HTTP handlers for the authentication flows. Login
// and logout own the session lifecycle; everything else proxies the backend's
// /auth surface unchanged.
type AuthHandlers struct {
	Gateway      *gateway.Client
	Sessions     SessionProvider
	CookieName   string
	CookieDomain string
	Logger       *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Login exchanges credentials with the backend and establishes the local
// session in one step: token, subject, display name, and role land together
// or not at all.
// POST /auth/login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var creds gateway.Credentials
	if !DecodeJSON(w, r, &creds) {
		return
	}
	if strings.TrimSpace(creds.Username) == "" || creds.Password == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_credentials",
			Err:     errors.New("username and password are required"),
		})
		return
	}

	result, err := h.Gateway.Auth.Login(r.Context(), creds)
	if err != nil {
		if errors.Is(err, gateway.ErrCredentialRejected) {
			WriteError(w, ErrorParams{
				Code:    http.StatusUnauthorized,
				ErrCode: "invalid_credentials",
				Err:     errors.New("invalid username or password"),
			})
			return
		}
		writeGatewayError(w, err)
		return
	}

	displayName := result.Name
	if displayName == "" {
		displayName = result.Username
	}

	session, err := h.Sessions.Establish(r.Context(), service.EstablishInput{
		Token:       result.Token,
		SubjectName: result.Username,
		DisplayName: displayName,
		Role:        domainauth.Role(result.Role),
	})
	if err != nil {
		h.logger().ErrorContext(r.Context(), "establish session failed", "error", err)
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "session_failed",
			Err:     errors.New("could not establish session"),
		})
		return
	}

	h.setSessionCookie(w, r, session)
	WriteJSON(w, http.StatusOK, map[string]any{
		"username":     session.SubjectName,
		"display_name": session.DisplayName,
		"role":         session.Role,
		"expires_at":   session.ExpiresAt,
	})
}

// Logout clears the session server-side and drops the cookie. Calling it
// without a session, or twice, succeeds the same way.
// POST /auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(h.CookieName); err == nil {
		if clearErr := h.Sessions.Clear(r.Context(), cookie.Value); clearErr != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "error", clearErr)
		}
	}
	h.clearSessionCookie(w, r)
	WriteJSON(w, http.StatusOK, map[string]string{"status": "signed_out"})
}

// Status reports the current authentication state for the page shell.
// GET /auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	if session == nil {
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user": map[string]any{
			"username":     session.SubjectName,
			"display_name": session.DisplayName,
			"role":         session.Role,
		},
		"expires_at": session.ExpiresAt,
	})
}

// Register proxies account creation.
// POST /auth/register.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var in gateway.RegisterInput
	if !DecodeJSON(w, r, &in) {
		return
	}
	h.proxyMessage(w, r, func() (gateway.Message, error) {
		return h.Gateway.Auth.Register(r.Context(), in)
	})
}

// VerifyEmail proxies the 6-digit email verification.
// POST /auth/verify-email.
func (h *AuthHandlers) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email string `json:"email"`
		Token string `json:"token"`
	}
	if !DecodeJSON(w, r, &in) {
		return
	}
	h.proxyMessage(w, r, func() (gateway.Message, error) {
		return h.Gateway.Auth.VerifyEmail(r.Context(), in.Email, in.Token)
	})
}

// ResendVerification proxies a fresh verification mail.
// POST /auth/resend-verification.
func (h *AuthHandlers) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email string `json:"email"`
	}
	if !DecodeJSON(w, r, &in) {
		return
	}
	h.proxyMessage(w, r, func() (gateway.Message, error) {
		return h.Gateway.Auth.ResendVerification(r.Context(), in.Email)
	})
}

// SendFindIDCode proxies the start of username recovery.
// POST /auth/find-id/send-code.
func (h *AuthHandlers) SendFindIDCode(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email string `json:"email"`
	}
	if !DecodeJSON(w, r, &in) {
		return
	}
	h.proxyMessage(w, r, func() (gateway.Message, error) {
		return h.Gateway.Auth.SendFindIDCode(r.Context(), in.Email)
	})
}

// VerifyFindIDCode proxies the end of username recovery.
// POST /auth/find-id/verify-code.
func (h *AuthHandlers) VerifyFindIDCode(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	if !DecodeJSON(w, r, &in) {
		return
	}
	result, err := h.Gateway.Auth.VerifyFindIDCode(r.Context(), in.Email, in.Code)
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

// SendResetPasswordCode proxies the start of a password reset.
// POST /auth/reset-password/send-code.
func (h *AuthHandlers) SendResetPasswordCode(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	if !DecodeJSON(w, r, &in) {
		return
	}
	h.proxyMessage(w, r, func() (gateway.Message, error) {
		return h.Gateway.Auth.SendResetPasswordCode(r.Context(), in.Username, in.Email)
	})
}

// VerifyResetPasswordCode proxies the reset-code check.
// POST /auth/reset-password/verify-code.
func (h *AuthHandlers) VerifyResetPasswordCode(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Code     string `json:"code"`
	}
	if !DecodeJSON(w, r, &in) {
		return
	}
	h.proxyMessage(w, r, func() (gateway.Message, error) {
		return h.Gateway.Auth.VerifyResetPasswordCode(r.Context(), in.Username, in.Email, in.Code)
	})
}

// SetNewPassword proxies the final step of a password reset.
// POST /auth/reset-password/set-new.
func (h *AuthHandlers) SetNewPassword(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username    string `json:"username"`
		Email       string `json:"email"`
		Code        string `json:"code"`
		NewPassword string `json:"newPassword"`
	}
	if !DecodeJSON(w, r, &in) {
		return
	}
	h.proxyMessage(w, r, func() (gateway.Message, error) {
		return h.Gateway.Auth.SetNewPassword(r.Context(), in.Username, in.Email, in.Code, in.NewPassword)
	})
}

// Withdraw deletes the calling account on the backend, then drops the local
// session. Requires an authenticated session.
// POST /auth/withdraw.
func (h *AuthHandlers) Withdraw(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Password string `json:"password"`
	}
	if !DecodeJSON(w, r, &in) {
		return
	}

	result, err := h.Gateway.Auth.Withdraw(r.Context(), in.Password)
	if err != nil {
		writeGatewayError(w, err)
		return
	}

	if session := GetSessionFromContext(r.Context()); session != nil {
		if clearErr := h.Sessions.Clear(r.Context(), session.ID); clearErr != nil {
			h.logger().WarnContext(r.Context(), "clear session after withdraw failed", "error", clearErr)
		}
	}
	h.clearSessionCookie(w, r)
	WriteJSON(w, http.StatusOK, result)
}

func (h *AuthHandlers) proxyMessage(w http.ResponseWriter, r *http.Request, call func() (gateway.Message, error)) {
	result, err := call()
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

// setSessionCookie stores the session ID in an HttpOnly cookie scoped to the
// whole app. MaxAge tracks the session record's expiry.
func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, r *http.Request, session domainauth.Session) {
	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	if maxAge < 0 {
		maxAge = 0
	}
	http.SetCookie(w, &http.Cookie{
		Name:     h.CookieName,
		Value:    session.ID,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		MaxAge:   maxAge,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookie expires the session cookie immediately, mirroring the
// attributes used when it was set so browsers actually drop it.
func (h *AuthHandlers) clearSessionCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.CookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}

func isSecureRequest(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
